package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/learnlingo/learnlingo-api/internal/models"
	"github.com/learnlingo/learnlingo-api/internal/service"
	appErrors "github.com/learnlingo/learnlingo-api/pkg/errors"
	"github.com/learnlingo/learnlingo-api/pkg/response"
)

// BookingHandler accepts trial-lesson requests.
type BookingHandler struct {
	bookings *service.BookingService
}

// NewBookingHandler constructs a new BookingHandler.
func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// Create godoc
// @Summary Book a trial lesson
// @Description Submits a trial-lesson request for a teacher; works anonymously
// @Tags Bookings
// @Accept json
// @Produce json
// @Param payload body models.BookingRequest true "Booking payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid booking payload"))
		return
	}

	userID := ""
	if claims := claimsFromContext(c); claims != nil {
		userID = claims.UserID
	}

	booking, err := h.bookings.Book(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, booking)
}

// List godoc
// @Summary List own bookings
// @Description Returns the authenticated user's booking history, newest first
// @Tags Bookings
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	bookings, err := h.bookings.ListForUser(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bookings, nil)
}

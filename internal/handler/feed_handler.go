package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/learnlingo/learnlingo-api/internal/models"
	"github.com/learnlingo/learnlingo-api/internal/service"
	appErrors "github.com/learnlingo/learnlingo-api/pkg/errors"
	"github.com/learnlingo/learnlingo-api/pkg/response"
)

// FeedHandler exposes listing sessions over HTTP. A session accumulates
// directory pages for one browsing client and survives between requests.
type FeedHandler struct {
	listings *service.ListingService
}

// NewFeedHandler constructs a new FeedHandler.
func NewFeedHandler(listings *service.ListingService) *FeedHandler {
	return &FeedHandler{listings: listings}
}

// Create godoc
// @Summary Open a listing session
// @Description Creates an empty session; call more to load the first page
// @Tags Feed
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /feed [post]
func (h *FeedHandler) Create(c *gin.Context) {
	snapshot := h.listings.Create()
	response.Created(c, snapshot)
}

// Get godoc
// @Summary Get listing session state
// @Tags Feed
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 410 {object} response.Envelope
// @Router /feed/{id} [get]
func (h *FeedHandler) Get(c *gin.Context) {
	snapshot, err := h.listings.Get(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, nil)
}

// More godoc
// @Summary Load the next page
// @Description Appends the next directory page to the session; a no-op while
// a load is already in flight or once the directory is exhausted
// @Tags Feed
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 410 {object} response.Envelope
// @Router /feed/{id}/more [post]
func (h *FeedHandler) More(c *gin.Context) {
	snapshot, err := h.listings.LoadMore(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, nil)
}

// Filter godoc
// @Summary Replace the session filter
// @Description Resets accumulated results and applies the new filter
// @Tags Feed
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body models.TeacherFilter true "Filter"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 410 {object} response.Envelope
// @Router /feed/{id}/filter [put]
func (h *FeedHandler) Filter(c *gin.Context) {
	var filter models.TeacherFilter
	if err := c.ShouldBindJSON(&filter); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid filter payload"))
		return
	}
	if filter.MaxPrice != nil && *filter.MaxPrice < 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "max_price must be non-negative"))
		return
	}

	snapshot, err := h.listings.SetFilter(c.Request.Context(), c.Param("id"), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, nil)
}

// Delete godoc
// @Summary Close a listing session
// @Tags Feed
// @Param id path string true "Session ID"
// @Success 204 {object} response.Envelope
// @Router /feed/{id} [delete]
func (h *FeedHandler) Delete(c *gin.Context) {
	h.listings.Drop(c.Param("id"))
	response.NoContent(c)
}

package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/learnlingo/learnlingo-api/internal/service"
	"github.com/learnlingo/learnlingo-api/pkg/response"
)

// FavoritesHandler exposes the per-identity favorites set.
type FavoritesHandler struct {
	favorites *service.FavoritesService
}

// NewFavoritesHandler constructs a new FavoritesHandler.
func NewFavoritesHandler(favorites *service.FavoritesService) *FavoritesHandler {
	return &FavoritesHandler{favorites: favorites}
}

// List godoc
// @Summary List favorite teachers
// @Description Returns the full teacher records for the caller's favorites
// @Tags Favorites
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /favorites [get]
func (h *FavoritesHandler) List(c *gin.Context) {
	teachers, err := h.favorites.List(c.Request.Context(), favoritesScope(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers, nil)
}

// Toggle godoc
// @Summary Toggle a favorite
// @Description Flips the favorite flag for a teacher and returns the new state
// @Tags Favorites
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /favorites/{id}/toggle [post]
func (h *FavoritesHandler) Toggle(c *gin.Context) {
	teacherID := c.Param("id")
	favorite, err := h.favorites.Toggle(c.Request.Context(), favoritesScope(c), teacherID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"teacher_id": teacherID, "favorite": favorite}, nil)
}

// Watch godoc
// @Summary Stream favorite changes
// @Description Server-sent events with favorite toggles made by other clients
// of the same identity, until the connection closes
// @Tags Favorites
// @Produce text/event-stream
// @Success 200 {string} string "event stream"
// @Router /favorites/watch [get]
func (h *FavoritesHandler) Watch(c *gin.Context) {
	changes, err := h.favorites.Watch(c.Request.Context(), favoritesScope(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		change, ok := <-changes
		if !ok {
			return false
		}
		c.SSEvent("favorite", change)
		return true
	})
}

// Check godoc
// @Summary Check favorite status
// @Tags Favorites
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /favorites/{id} [get]
func (h *FavoritesHandler) Check(c *gin.Context) {
	teacherID := c.Param("id")
	favorite, err := h.favorites.IsFavorite(c.Request.Context(), favoritesScope(c), teacherID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"teacher_id": teacherID, "favorite": favorite}, nil)
}

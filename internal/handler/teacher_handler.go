package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/learnlingo/learnlingo-api/internal/models"
	"github.com/learnlingo/learnlingo-api/internal/service"
	appErrors "github.com/learnlingo/learnlingo-api/pkg/errors"
	"github.com/learnlingo/learnlingo-api/pkg/response"
)

// TeacherHandler wires directory reads to HTTP routes.
type TeacherHandler struct {
	teachers *service.TeacherService
	exports  *service.ExportService
}

// NewTeacherHandler constructs a new TeacherHandler.
func NewTeacherHandler(teachers *service.TeacherService, exports *service.ExportService) *TeacherHandler {
	return &TeacherHandler{teachers: teachers, exports: exports}
}

// List godoc
// @Summary List teachers
// @Description Returns one key-ordered page of the directory
// @Tags Teachers
// @Produce json
// @Param cursor query string false "Resume cursor (id of the last teacher seen)"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /teachers [get]
func (h *TeacherHandler) List(c *gin.Context) {
	pageSize := h.teachers.PageSize()
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "0")); err == nil && limit > 0 {
		pageSize = limit
		if pageSize > service.MaxPageSize {
			pageSize = service.MaxPageSize
		}
	}

	page, err := h.teachers.Page(c.Request.Context(), c.Query("cursor"), pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, page.Teachers, &models.PageInfo{
		PageSize:   pageSize,
		HasMore:    page.HasMore,
		NextCursor: page.NextCursor,
	})
}

// Get godoc
// @Summary Get teacher detail
// @Tags Teachers
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teachers/{id} [get]
func (h *TeacherHandler) Get(c *gin.Context) {
	teacher, err := h.teachers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teacher, nil)
}

// Search godoc
// @Summary Search teachers
// @Description Filters the whole directory by language, level and price
// @Tags Teachers
// @Produce json
// @Param language query string false "Taught language"
// @Param level query string false "Knowledge level"
// @Param max_price query number false "Maximum hourly price"
// @Success 200 {object} response.Envelope
// @Router /teachers/search [get]
func (h *TeacherHandler) Search(c *gin.Context) {
	filter, err := filterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	teachers, err := h.teachers.Search(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers, nil)
}

// Export godoc
// @Summary Export directory
// @Description Downloads the directory as CSV or PDF, optionally filtered
// @Tags Teachers
// @Produce octet-stream
// @Param format query string true "Export format (csv or pdf)"
// @Param language query string false "Taught language"
// @Param level query string false "Knowledge level"
// @Param max_price query number false "Maximum hourly price"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /teachers/export [get]
func (h *TeacherHandler) Export(c *gin.Context) {
	filter, err := filterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	format := service.ExportFormat(strings.ToLower(c.DefaultQuery("format", "csv")))
	result, err := h.exports.Export(c.Request.Context(), format, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+result.Filename)
	c.Data(http.StatusOK, result.ContentType, result.Content)
}

func filterFromQuery(c *gin.Context) (models.TeacherFilter, error) {
	filter := models.TeacherFilter{
		Language: strings.TrimSpace(c.Query("language")),
		Level:    strings.TrimSpace(c.Query("level")),
	}
	if raw := c.Query("max_price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil || price < 0 {
			return models.TeacherFilter{}, appErrors.Clone(appErrors.ErrValidation, "max_price must be a non-negative number")
		}
		filter.MaxPrice = &price
	}
	return filter, nil
}

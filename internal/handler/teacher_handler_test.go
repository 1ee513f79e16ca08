package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/learnlingo/learnlingo-api/internal/models"
	"github.com/learnlingo/learnlingo-api/internal/service"
	"github.com/learnlingo/learnlingo-api/pkg/response"
)

func newTeacherRouter(dir *directoryStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	teacherSvc := service.NewTeacherService(dir, nil, 4, time.Minute, zap.NewNop())
	exportSvc := service.NewExportService(dir, zap.NewNop())
	h := NewTeacherHandler(teacherSvc, exportSvc)

	r := gin.New()
	teachers := r.Group("/api/v1/teachers")
	teachers.GET("", h.List)
	teachers.GET("/search", h.Search)
	teachers.GET("/export", h.Export)
	teachers.GET("/:id", h.Get)
	return r
}

func TestTeacherHandlerListPagination(t *testing.T) {
	r := newTeacherRouter(&directoryStub{teachers: stubTeachers(10)})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/teachers", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data       []models.Teacher `json:"data"`
		Pagination *models.PageInfo `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 4)
	require.NotNil(t, envelope.Pagination)
	assert.True(t, envelope.Pagination.HasMore)
	assert.Equal(t, "key03", envelope.Pagination.NextCursor)

	// Resume from the returned cursor.
	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/api/v1/teachers?cursor=key03", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 4)
	assert.Equal(t, "key04", envelope.Data[0].ID)
}

func TestTeacherHandlerListClampsLimit(t *testing.T) {
	r := newTeacherRouter(&directoryStub{teachers: stubTeachers(10)})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/teachers?limit=1000000", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data       []models.Teacher `json:"data"`
		Pagination *models.PageInfo `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Pagination)
	assert.Equal(t, service.MaxPageSize, envelope.Pagination.PageSize)
}

func TestTeacherHandlerGetNotFound(t *testing.T) {
	r := newTeacherRouter(&directoryStub{teachers: stubTeachers(2)})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/teachers/ghost", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
}

func TestTeacherHandlerSearchValidatesPrice(t *testing.T) {
	r := newTeacherRouter(&directoryStub{teachers: stubTeachers(2)})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/teachers/search?max_price=abc", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTeacherHandlerSearchFilters(t *testing.T) {
	teachers := stubTeachers(5)
	teachers[0].PricePerHour = 99
	r := newTeacherRouter(&directoryStub{teachers: teachers})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/teachers/search?language=English&max_price=50", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []models.Teacher `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 4)
}

func TestTeacherHandlerExportCSV(t *testing.T) {
	r := newTeacherRouter(&directoryStub{teachers: stubTeachers(3)})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/teachers/export?format=csv", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	// Header row plus one row per teacher.
	assert.Len(t, lines, 4)
}

func TestTeacherHandlerExportRejectsUnknownFormat(t *testing.T) {
	r := newTeacherRouter(&directoryStub{teachers: stubTeachers(1)})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/teachers/export?format=xml", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

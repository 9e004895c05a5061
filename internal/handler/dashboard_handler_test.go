package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/boltpath-api/internal/middleware"
	"github.com/noah-isme/boltpath-api/internal/models"
)

type fakeDashboardSrv struct {
	resp        *models.DashboardSummary
	hit         bool
	err         error
	lastTeacher string
}

func (f *fakeDashboardSrv) Summary(_ context.Context, teacherID string) (*models.DashboardSummary, bool, error) {
	f.lastTeacher = teacherID
	return f.resp, f.hit, f.err
}

type responseEnvelope struct {
	Data  map[string]interface{} `json:"data"`
	Error map[string]interface{} `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

func withTeacher(c *gin.Context, teacherID string) {
	c.Set(middleware.ContextTeacherKey, &models.SessionClaims{TeacherID: teacherID, FullName: "John Smith"})
}

func TestDashboardHandlerRequiresSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard", nil)

	handler.Summary(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDashboardHandlerSummarySuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakeDashboardSrv{
		resp: &models.DashboardSummary{TeacherID: "teacher1", TotalStudents: 2},
		hit:  true,
	}
	handler := NewDashboardHandler(service)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	withTeacher(c, "teacher1")

	handler.Summary(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "teacher1", service.lastTeacher)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	assert.Contains(t, envelope.Meta, "processing_time_ms")
	assert.Equal(t, float64(2), envelope.Data["total_students"])
}

func TestDashboardHandlerServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{err: errors.New("boom")})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	withTeacher(c, "teacher1")

	handler.Summary(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

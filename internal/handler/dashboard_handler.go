package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/boltpath-api/internal/middleware"
	"github.com/noah-isme/boltpath-api/internal/models"
	appErrors "github.com/noah-isme/boltpath-api/pkg/errors"
	"github.com/noah-isme/boltpath-api/pkg/response"
)

type dashboardService interface {
	Summary(ctx context.Context, teacherID string) (*models.DashboardSummary, bool, error)
}

// DashboardHandler wires dashboard service to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Summary godoc
// @Summary Teacher dashboard summary
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	teacher, ok := currentTeacher(c)
	if !ok {
		return
	}
	start := time.Now()
	summary, cacheHit, err := h.service.Summary(c.Request.Context(), teacher.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	middleware.SetMeta(c, "processing_time_ms", time.Since(start).Milliseconds())
	response.JSON(c, http.StatusOK, summary, middleware.ResponseMeta(c))
}

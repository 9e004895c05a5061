package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/boltpath-api/internal/models"
	"github.com/noah-isme/boltpath-api/internal/service"
	"github.com/noah-isme/boltpath-api/pkg/response"
)

type progressService interface {
	List(ctx context.Context, teacherID string, filter models.ProgressFilter) ([]models.StudentProgress, error)
	Upsert(ctx context.Context, teacherID string, req service.UpsertProgressRequest) (*models.StudentProgress, error)
}

// ProgressHandler exposes student progress endpoints.
type ProgressHandler struct {
	progress progressService
}

// NewProgressHandler constructs ProgressHandler.
func NewProgressHandler(progress progressService) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

// List godoc
// @Summary List progress records
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Param studentId query string false "Student ID"
// @Param assignmentId query string false "Assignment ID"
// @Success 200 {object} response.Envelope
// @Router /progress [get]
func (h *ProgressHandler) List(c *gin.Context) {
	teacher, ok := currentTeacher(c)
	if !ok {
		return
	}
	filter := models.ProgressFilter{
		StudentID:    strings.TrimSpace(c.Query("studentId")),
		AssignmentID: strings.TrimSpace(c.Query("assignmentId")),
	}
	records, err := h.progress.List(c.Request.Context(), teacher.ID, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, records, len(records))
}

// Upsert godoc
// @Summary Record progress
// @Description Merges into the record for the student and assignment pair, creating it when absent.
// @Tags Progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.UpsertProgressRequest true "Progress payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /progress [put]
func (h *ProgressHandler) Upsert(c *gin.Context) {
	teacher, ok := currentTeacher(c)
	if !ok {
		return
	}
	var req service.UpsertProgressRequest
	if !bindJSON(c, &req) {
		return
	}
	record, err := h.progress.Upsert(c.Request.Context(), teacher.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record)
}

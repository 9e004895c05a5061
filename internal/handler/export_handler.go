package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/boltpath-api/internal/models"
	"github.com/noah-isme/boltpath-api/internal/service"
	"github.com/noah-isme/boltpath-api/pkg/response"
)

type exportService interface {
	Roster(ctx context.Context, teacher models.Teacher, format string) (*service.ExportFile, error)
	AssignmentProgress(ctx context.Context, teacher models.Teacher, assignmentID, format string) (*service.ExportFile, error)
}

// ExportHandler streams CSV and PDF exports.
type ExportHandler struct {
	exports exportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports exportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Roster godoc
// @Summary Export student roster
// @Tags Exports
// @Produce text/csv,application/pdf
// @Security BearerAuth
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /exports/roster [get]
func (h *ExportHandler) Roster(c *gin.Context) {
	teacher, ok := currentTeacher(c)
	if !ok {
		return
	}
	file, err := h.exports.Roster(c.Request.Context(), teacher, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Body)
}

// AssignmentProgress godoc
// @Summary Export assignment progress
// @Tags Exports
// @Produce text/csv,application/pdf
// @Security BearerAuth
// @Param id path string true "Assignment ID"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /exports/assignments/{id}/progress [get]
func (h *ExportHandler) AssignmentProgress(c *gin.Context) {
	teacher, ok := currentTeacher(c)
	if !ok {
		return
	}
	file, err := h.exports.AssignmentProgress(c.Request.Context(), teacher, c.Param("id"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Body)
}

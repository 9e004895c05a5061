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

type assignmentService interface {
	List(ctx context.Context, teacherID, search, status string) ([]models.AssignmentView, error)
	Get(ctx context.Context, teacherID, id string) (*models.AssignmentView, error)
	Create(ctx context.Context, teacherID string, req service.CreateAssignmentRequest) (*models.AssignmentView, error)
	Update(ctx context.Context, teacherID, id string, req service.UpdateAssignmentRequest) (*models.AssignmentView, error)
	UpdateStatus(ctx context.Context, teacherID, id string, req service.UpdateAssignmentStatusRequest) (*models.AssignmentView, error)
	Delete(ctx context.Context, teacherID, id string) error
}

// AssignmentHandler exposes PBL assignment endpoints.
type AssignmentHandler struct {
	assignments assignmentService
}

// NewAssignmentHandler constructs AssignmentHandler.
func NewAssignmentHandler(assignments assignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments}
}

// List godoc
// @Summary List assignments
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search by title or problem statement"
// @Param status query string false "all, draft, active, completed or archived"
// @Success 200 {object} response.Envelope
// @Router /assignments [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	teacher, ok := currentTeacher(c)
	if !ok {
		return
	}
	items, err := h.assignments.List(c.Request.Context(), teacher.ID, strings.TrimSpace(c.Query("search")), c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, items, len(items))
}

// Get godoc
// @Summary Get assignment
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /assignments/{id} [get]
func (h *AssignmentHandler) Get(c *gin.Context) {
	teacher, ok := currentTeacher(c)
	if !ok {
		return
	}
	item, err := h.assignments.Get(c.Request.Context(), teacher.ID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// Create godoc
// @Summary Create assignment
// @Description New assignments always start as drafts.
// @Tags Assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateAssignmentRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /assignments [post]
func (h *AssignmentHandler) Create(c *gin.Context) {
	teacher, ok := currentTeacher(c)
	if !ok {
		return
	}
	var req service.CreateAssignmentRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.assignments.Create(c.Request.Context(), teacher.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Update assignment
// @Tags Assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assignment ID"
// @Param payload body service.UpdateAssignmentRequest true "Assignment payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /assignments/{id} [patch]
func (h *AssignmentHandler) Update(c *gin.Context) {
	teacher, ok := currentTeacher(c)
	if !ok {
		return
	}
	var req service.UpdateAssignmentRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.assignments.Update(c.Request.Context(), teacher.ID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// UpdateStatus godoc
// @Summary Change assignment status
// @Tags Assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assignment ID"
// @Param payload body service.UpdateAssignmentStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /assignments/{id}/status [patch]
func (h *AssignmentHandler) UpdateStatus(c *gin.Context) {
	teacher, ok := currentTeacher(c)
	if !ok {
		return
	}
	var req service.UpdateAssignmentStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.assignments.UpdateStatus(c.Request.Context(), teacher.ID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// Delete godoc
// @Summary Delete assignment
// @Description Also drops every progress record for the assignment.
// @Tags Assignments
// @Security BearerAuth
// @Param id path string true "Assignment ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /assignments/{id} [delete]
func (h *AssignmentHandler) Delete(c *gin.Context) {
	teacher, ok := currentTeacher(c)
	if !ok {
		return
	}
	if err := h.assignments.Delete(c.Request.Context(), teacher.ID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

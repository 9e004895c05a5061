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

type studentService interface {
	List(ctx context.Context, teacherID, search string) ([]models.Student, error)
	Get(ctx context.Context, teacherID, id string) (*models.Student, error)
	Create(ctx context.Context, teacherID string, req service.CreateStudentRequest) (*models.Student, error)
	Update(ctx context.Context, teacherID, id string, req service.UpdateStudentRequest) (*models.Student, error)
	Delete(ctx context.Context, teacherID, id string) error
}

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	students studentService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students studentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search by name or grade"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	teacher, ok := currentTeacher(c)
	if !ok {
		return
	}
	students, err := h.students.List(c.Request.Context(), teacher.ID, strings.TrimSpace(c.Query("search")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, students, len(students))
}

// Get godoc
// @Summary Get student profile
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	teacher, ok := currentTeacher(c)
	if !ok {
		return
	}
	student, err := h.students.Get(c.Request.Context(), teacher.ID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Create godoc
// @Summary Create student
// @Tags Students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	teacher, ok := currentTeacher(c)
	if !ok {
		return
	}
	var req service.CreateStudentRequest
	if !bindJSON(c, &req) {
		return
	}
	student, err := h.students.Create(c.Request.Context(), teacher.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Update godoc
// @Summary Update student
// @Description Partial update. Provided nested objects replace the stored ones.
// @Tags Students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param payload body service.UpdateStudentRequest true "Student payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [patch]
func (h *StudentHandler) Update(c *gin.Context) {
	teacher, ok := currentTeacher(c)
	if !ok {
		return
	}
	var req service.UpdateStudentRequest
	if !bindJSON(c, &req) {
		return
	}
	student, err := h.students.Update(c.Request.Context(), teacher.ID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Delete godoc
// @Summary Delete student
// @Description Also removes the student from every assignment and drops their progress.
// @Tags Students
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	teacher, ok := currentTeacher(c)
	if !ok {
		return
	}
	if err := h.students.Delete(c.Request.Context(), teacher.ID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

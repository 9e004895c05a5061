package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/boltpath-api/internal/models"
	appErrors "github.com/noah-isme/boltpath-api/pkg/errors"
)

type progressStore interface {
	Progress() []models.StudentProgress
	Student(id string) (models.Student, bool)
	Assignment(id string) (models.Assignment, bool)
	UpsertStudentProgress(update models.ProgressUpdate) models.StudentProgress
}

// UpsertProgressRequest records a student's progress on an assignment.
type UpsertProgressRequest struct {
	StudentID           string    `json:"student_id" validate:"required"`
	AssignmentID        string    `json:"assignment_id" validate:"required"`
	CurrentPhase        *int      `json:"current_phase" validate:"omitempty,min=0"`
	CompletedActivities *[]string `json:"completed_activities"`
	ReflectionNotes     *string   `json:"reflection_notes"`
	TeacherObservations *string   `json:"teacher_observations"`
	AccommodationsUsed  *[]string `json:"accommodations_used"`
}

// ProgressService handles progress tracking for the signed-in teacher.
type ProgressService struct {
	store     progressStore
	validator *validator.Validate
	events    MutationRecorder
	logger    *zap.Logger
}

// NewProgressService constructs the progress service.
func NewProgressService(store progressStore, validate *validator.Validate, events MutationRecorder, logger *zap.Logger) *ProgressService {
	if validate == nil {
		validate = NewValidator(nil)
	}
	if events == nil {
		events = noopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressService{store: store, validator: validate, events: events, logger: logger}
}

// List returns progress records for the teacher's students, optionally narrowed
// to one student or one assignment.
func (s *ProgressService) List(ctx context.Context, teacherID string, filter models.ProgressFilter) ([]models.StudentProgress, error) {
	records := make([]models.StudentProgress, 0)
	for _, record := range s.store.Progress() {
		if !filter.Matches(record) {
			continue
		}
		student, ok := s.store.Student(record.StudentID)
		if !ok || student.TeacherID != teacherID {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// Upsert merges the update into the existing record for the pair or creates one.
func (s *ProgressService) Upsert(ctx context.Context, teacherID string, req UpsertProgressRequest) (*models.StudentProgress, error) {
	req.StudentID = strings.TrimSpace(req.StudentID)
	req.AssignmentID = strings.TrimSpace(req.AssignmentID)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid progress payload")
	}

	student, ok := s.store.Student(req.StudentID)
	if !ok || student.TeacherID != teacherID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	assignment, ok := s.store.Assignment(req.AssignmentID)
	if !ok || assignment.TeacherID != teacherID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
	}
	if req.CurrentPhase != nil && *req.CurrentPhase > len(assignment.Timeline) {
		return nil, fieldError("current_phase", fmt.Sprintf("must be at most %d", len(assignment.Timeline)))
	}

	update := models.ProgressUpdate{
		StudentID:           req.StudentID,
		AssignmentID:        req.AssignmentID,
		CurrentPhase:        req.CurrentPhase,
		ReflectionNotes:     req.ReflectionNotes,
		TeacherObservations: req.TeacherObservations,
	}
	if req.CompletedActivities != nil {
		activities := compactStrings(*req.CompletedActivities)
		update.CompletedActivities = &activities
	}
	if req.AccommodationsUsed != nil {
		used := compactStrings(*req.AccommodationsUsed)
		update.AccommodationsUsed = &used
	}

	record := s.store.UpsertStudentProgress(update)
	s.events.RecordMutation(ctx, teacherID, EntityProgress, OpUpsert, req.StudentID+":"+req.AssignmentID)
	return &record, nil
}

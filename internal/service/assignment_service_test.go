package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/boltpath-api/internal/models"
	"github.com/noah-isme/boltpath-api/internal/store"
)

func newAssignmentService(t *testing.T, now time.Time) (*AssignmentService, *store.RosterStore, *fakeRecorder) {
	t.Helper()
	roster := seededStore(t)
	recorder := &fakeRecorder{}
	svc := NewAssignmentService(roster, NewValidator(clockAt(now)), recorder, zap.NewNop())
	svc.now = clockAt(now)
	return svc, roster, recorder
}

func validAssignmentRequest() CreateAssignmentRequest {
	return CreateAssignmentRequest{
		Title:              " Design a Rain Garden ",
		ProblemStatement:   "How can the school reduce storm water runoff?",
		RealWorldContext:   "The district is funding green infrastructure.",
		LearningObjectives: []string{"Measure runoff", "", "  "},
		AssessmentCriteria: []AssessmentCriterionRequest{{Criterion: "Design", Weight: 60, Rubric: "Feasibility"}},
		Resources:          []string{"", "Soil survey"},
		Timeline: []TimelinePhaseRequest{
			{Phase: "Survey", Duration: "1 week", Activities: []string{"Map drains", ""}},
			{Phase: "Build", Duration: "2 weeks"},
		},
		DueDate:     "2025-10-01",
		StudentIDs:  []string{"2", "2"},
		SkillsFocus: []string{"Data analysis", " "},
	}
}

func TestAssignmentServiceCreateStartsAsDraft(t *testing.T) {
	svc, roster, recorder := newAssignmentService(t, fixedNow)

	created, err := svc.Create(context.Background(), store.DemoTeacherID, validAssignmentRequest())
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentStatusDraft, created.Status)
	assert.Equal(t, "Design a Rain Garden", created.Title)
	assert.Equal(t, []string{"Measure runoff"}, created.LearningObjectives)
	assert.Equal(t, []string{"Soil survey"}, created.Resources)
	assert.Equal(t, []string{"Data analysis"}, created.SkillsFocus)
	assert.Equal(t, []string{"2"}, created.StudentIDs)
	assert.Equal(t, []string{"Map drains"}, created.Timeline[0].Activities)
	assert.Equal(t, models.CollaborationIndividual, created.CollaborationType)
	assert.Equal(t, store.DemoTeacherID, created.TeacherID)
	assert.Equal(t, 60, created.TotalWeight)
	assert.False(t, created.Overdue)

	assert.Len(t, roster.Assignments(), 2)
	require.Len(t, recorder.events, 1)
	assert.Equal(t, EntityAssignment, recorder.events[0].entity)
}

func TestAssignmentServiceCreateValidation(t *testing.T) {
	svc, _, _ := newAssignmentService(t, fixedNow)

	req := validAssignmentRequest()
	req.Title = " "
	req.LearningObjectives = []string{" "}
	req.AssessmentCriteria = []AssessmentCriterionRequest{{Criterion: "Design", Weight: 140}}
	req.StudentIDs = nil
	req.CollaborationType = "solo"
	req.DueDate = "10/01/2025"

	_, err := svc.Create(context.Background(), store.DemoTeacherID, req)
	appErr := requireAppError(t, err, "VALIDATION_ERROR")
	assert.Contains(t, appErr.Fields, "title")
	assert.Contains(t, appErr.Fields, "learning_objectives")
	assert.Equal(t, "must be at most 100", appErr.Fields["assessment_criteria[0].weight"])
	assert.Contains(t, appErr.Fields, "student_ids")
	assert.Contains(t, appErr.Fields, "collaboration_type")
	assert.Equal(t, "must be a date in YYYY-MM-DD format", appErr.Fields["due_date"])
}

func TestAssignmentServiceCreateRejectsPastDueDate(t *testing.T) {
	svc, _, _ := newAssignmentService(t, fixedNow)
	req := validAssignmentRequest()
	req.DueDate = "2025-08-19"

	_, err := svc.Create(context.Background(), store.DemoTeacherID, req)
	appErr := requireAppError(t, err, "VALIDATION_ERROR")
	assert.Equal(t, "must not be in the past", appErr.Fields["due_date"])

	req.DueDate = "2025-08-20"
	_, err = svc.Create(context.Background(), store.DemoTeacherID, req)
	require.NoError(t, err)
}

func TestAssignmentServiceCreateRejectsForeignStudents(t *testing.T) {
	svc, roster, _ := newAssignmentService(t, fixedNow)

	_, err := svc.Create(context.Background(), "teacher2", validAssignmentRequest())
	appErr := requireAppError(t, err, "VALIDATION_ERROR")
	assert.Equal(t, "unknown student", appErr.Fields["student_ids[0]"])
	assert.Len(t, roster.Assignments(), 1)
}

func TestAssignmentServiceListFiltersAndFlagsOverdue(t *testing.T) {
	later := time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)
	svc, _, _ := newAssignmentService(t, later)

	views, err := svc.List(context.Background(), store.DemoTeacherID, "carbon", "all")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.True(t, views[0].Overdue)
	assert.Equal(t, 100, views[0].TotalWeight)

	views, err = svc.List(context.Background(), store.DemoTeacherID, "", "draft")
	require.NoError(t, err)
	assert.Empty(t, views)

	views, err = svc.List(context.Background(), "teacher2", "", "")
	require.NoError(t, err)
	assert.Empty(t, views)

	_, err = svc.List(context.Background(), store.DemoTeacherID, "", "pending")
	requireAppError(t, err, "VALIDATION_ERROR")
}

func TestAssignmentServiceUpdateKeepsStaleDueDate(t *testing.T) {
	later := time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)
	svc, _, recorder := newAssignmentService(t, later)

	updated, err := svc.Update(context.Background(), store.DemoTeacherID, "1", UpdateAssignmentRequest{
		Title: strPtr("Climate Action Plan"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Climate Action Plan", updated.Title)
	assert.Equal(t, "2025-09-15", updated.DueDate)
	assert.Equal(t, models.AssignmentStatusActive, updated.Status)
	require.Len(t, recorder.events, 1)

	_, err = svc.Update(context.Background(), store.DemoTeacherID, "1", UpdateAssignmentRequest{
		DueDate: strPtr("2025-09-30"),
	})
	appErr := requireAppError(t, err, "VALIDATION_ERROR")
	assert.Contains(t, appErr.Fields, "due_date")
}

func TestAssignmentServiceUpdateReplacesLists(t *testing.T) {
	svc, roster, _ := newAssignmentService(t, fixedNow)
	objectives := []string{"Only objective", ""}
	students := []string{"1"}
	collab := models.CollaborationPairs

	updated, err := svc.Update(context.Background(), store.DemoTeacherID, "1", UpdateAssignmentRequest{
		LearningObjectives: &objectives,
		StudentIDs:         &students,
		CollaborationType:  &collab,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Only objective"}, updated.LearningObjectives)
	assert.Equal(t, []string{"1"}, updated.StudentIDs)
	assert.Equal(t, models.CollaborationPairs, updated.CollaborationType)

	stored, _ := roster.Assignment("1")
	assert.Len(t, stored.Timeline, 4)
	assert.Len(t, stored.Resources, 4)
}

func TestAssignmentServiceUpdateStatusAllowsAnyTransition(t *testing.T) {
	svc, _, recorder := newAssignmentService(t, fixedNow)

	for _, status := range []models.AssignmentStatus{
		models.AssignmentStatusArchived,
		models.AssignmentStatusDraft,
		models.AssignmentStatusCompleted,
		models.AssignmentStatusActive,
	} {
		view, err := svc.UpdateStatus(context.Background(), store.DemoTeacherID, "1", UpdateAssignmentStatusRequest{Status: status})
		require.NoError(t, err)
		assert.Equal(t, status, view.Status)
	}
	assert.Len(t, recorder.events, 4)

	_, err := svc.UpdateStatus(context.Background(), store.DemoTeacherID, "1", UpdateAssignmentStatusRequest{Status: "published"})
	appErr := requireAppError(t, err, "VALIDATION_ERROR")
	assert.Contains(t, appErr.Fields, "status")

	_, err = svc.UpdateStatus(context.Background(), "teacher2", "1", UpdateAssignmentStatusRequest{Status: models.AssignmentStatusActive})
	requireAppError(t, err, "NOT_FOUND")
}

func TestAssignmentServiceDeleteCascadesProgress(t *testing.T) {
	svc, roster, _ := newAssignmentService(t, fixedNow)

	require.NoError(t, svc.Delete(context.Background(), store.DemoTeacherID, "1"))
	assert.Empty(t, roster.Assignments())
	assert.Empty(t, roster.Progress())
	assert.Len(t, roster.Students(), 2)

	requireAppError(t, svc.Delete(context.Background(), store.DemoTeacherID, "1"), "NOT_FOUND")
}

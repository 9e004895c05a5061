package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/boltpath-api/internal/models"
	"github.com/noah-isme/boltpath-api/internal/store"
)

func TestProgressServiceUpsertCreatesRecord(t *testing.T) {
	roster := seededStore(t)
	recorder := &fakeRecorder{}
	svc := NewProgressService(roster, nil, recorder, nil)
	activities := []string{"Brainstorming", " "}

	record, err := svc.Upsert(context.Background(), store.DemoTeacherID, UpsertProgressRequest{
		StudentID:           "2",
		AssignmentID:        "1",
		CurrentPhase:        intPtr(2),
		CompletedActivities: &activities,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, record.CurrentPhase)
	assert.Equal(t, []string{"Brainstorming"}, record.CompletedActivities)
	assert.Empty(t, record.ReflectionNotes)
	assert.Equal(t, fixedNow, record.LastUpdated)
	assert.Len(t, roster.Progress(), 2)

	require.Len(t, recorder.events, 1)
	assert.Equal(t, recordedMutation{teacherID: store.DemoTeacherID, entity: EntityProgress, op: OpUpsert, id: "2:1"}, recorder.events[0])
}

func TestProgressServiceUpsertMergesExisting(t *testing.T) {
	roster := seededStore(t)
	svc := NewProgressService(roster, nil, nil, nil)

	record, err := svc.Upsert(context.Background(), store.DemoTeacherID, UpsertProgressRequest{
		StudentID:       "1",
		AssignmentID:    "1",
		ReflectionNotes: strPtr("Synthesis is getting easier"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, record.CurrentPhase)
	assert.Equal(t, "Synthesis is getting easier", record.ReflectionNotes)
	assert.Equal(t, []string{"Extended time", "Visual aids"}, record.AccommodationsUsed)
	assert.Equal(t, fixedNow, record.LastUpdated)
	assert.Len(t, roster.Progress(), 1)
}

func TestProgressServiceUpsertValidatesPhaseAndOwnership(t *testing.T) {
	roster := seededStore(t)
	svc := NewProgressService(roster, nil, nil, nil)

	_, err := svc.Upsert(context.Background(), store.DemoTeacherID, UpsertProgressRequest{StudentID: "1", AssignmentID: "1", CurrentPhase: intPtr(5)})
	appErr := requireAppError(t, err, "VALIDATION_ERROR")
	assert.Equal(t, "must be at most 4", appErr.Fields["current_phase"])

	_, err = svc.Upsert(context.Background(), store.DemoTeacherID, UpsertProgressRequest{StudentID: "1", AssignmentID: "1", CurrentPhase: intPtr(-1)})
	appErr = requireAppError(t, err, "VALIDATION_ERROR")
	assert.Contains(t, appErr.Fields, "current_phase")

	_, err = svc.Upsert(context.Background(), store.DemoTeacherID, UpsertProgressRequest{AssignmentID: "1"})
	appErr = requireAppError(t, err, "VALIDATION_ERROR")
	assert.Contains(t, appErr.Fields, "student_id")

	_, err = svc.Upsert(context.Background(), "teacher2", UpsertProgressRequest{StudentID: "1", AssignmentID: "1"})
	requireAppError(t, err, "NOT_FOUND")

	_, err = svc.Upsert(context.Background(), store.DemoTeacherID, UpsertProgressRequest{StudentID: "1", AssignmentID: "404"})
	requireAppError(t, err, "NOT_FOUND")

	assert.Len(t, roster.Progress(), 1)
}

func TestProgressServiceListScopesAndFilters(t *testing.T) {
	roster := seededStore(t)
	svc := NewProgressService(roster, nil, nil, nil)
	_, err := svc.Upsert(context.Background(), store.DemoTeacherID, UpsertProgressRequest{StudentID: "2", AssignmentID: "1"})
	require.NoError(t, err)

	all, err := svc.List(context.Background(), store.DemoTeacherID, models.ProgressFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	bob, err := svc.List(context.Background(), store.DemoTeacherID, models.ProgressFilter{StudentID: "2"})
	require.NoError(t, err)
	require.Len(t, bob, 1)
	assert.Equal(t, "2", bob[0].StudentID)

	foreign, err := svc.List(context.Background(), "teacher2", models.ProgressFilter{})
	require.NoError(t, err)
	assert.Empty(t, foreign)
}

package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/boltpath-api/internal/models"
)

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }

func TestRosterStoreAddStudentAssignsFreshIDs(t *testing.T) {
	s := New()

	first := s.AddStudent(models.StudentInput{FullName: "Ada", TeacherID: "t1"})
	second := s.AddStudent(models.StudentInput{FullName: "Grace", TeacherID: "t1"})

	require.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, s.Students(), 2)
}

func TestRosterStoreUpdateStudentMergesShallow(t *testing.T) {
	s := New()
	s.Load(Seed{Students: []models.Student{{
		ID:          "1",
		FullName:    "Alice",
		Grade:       "9th",
		PhoneNumber: "(555) 123-4567",
		TeacherID:   "t1",
		LearningProfile: models.LearningProfile{
			LearningStyle:  models.LearningStyleVisual,
			Strengths:      []string{"Drawing"},
			Accommodations: []string{"Extended time"},
		},
	}}})

	updated, found := s.UpdateStudent("1", models.StudentPatch{Grade: strPtr("10th")})
	require.True(t, found)
	assert.Equal(t, "10th", updated.Grade)
	assert.Equal(t, "Alice", updated.FullName)
	assert.Equal(t, "(555) 123-4567", updated.PhoneNumber)
	assert.Equal(t, []string{"Drawing"}, updated.LearningProfile.Strengths)

	// a nested profile replaces the stored one wholesale
	updated, _ = s.UpdateStudent("1", models.StudentPatch{LearningProfile: &models.LearningProfile{LearningStyle: models.LearningStyleMixed}})
	assert.Equal(t, models.LearningStyleMixed, updated.LearningProfile.LearningStyle)
	assert.Empty(t, updated.LearningProfile.Strengths)
	assert.Empty(t, updated.LearningProfile.Accommodations)
}

func TestRosterStoreUpdateUnknownIsNoop(t *testing.T) {
	s := New()
	s.Load(DemoSeed())
	before := s.Students()

	_, found := s.UpdateStudent("missing", models.StudentPatch{Grade: strPtr("12th")})
	assert.False(t, found)
	_, found = s.UpdateAssignment("missing", models.AssignmentPatch{Title: strPtr("x")})
	assert.False(t, found)
	assert.False(t, s.DeleteStudent("missing"))
	assert.False(t, s.DeleteAssignment("missing"))
	assert.Equal(t, before, s.Students())
}

func TestRosterStoreDeleteStudentCascades(t *testing.T) {
	s := New()
	s.Load(Seed{
		Students:    []models.Student{{ID: "1", TeacherID: "t1"}, {ID: "2", TeacherID: "t1"}},
		Assignments: []models.Assignment{{ID: "A", StudentIDs: []string{"1"}}, {ID: "B", StudentIDs: []string{"2", "1"}}},
		Progress: []models.StudentProgress{
			{StudentID: "1", AssignmentID: "A", CurrentPhase: 1},
			{StudentID: "1", AssignmentID: "B"},
			{StudentID: "2", AssignmentID: "B"},
		},
	})

	require.True(t, s.DeleteStudent("1"))

	_, found := s.Student("1")
	assert.False(t, found)
	a, _ := s.Assignment("A")
	assert.Empty(t, a.StudentIDs)
	b, _ := s.Assignment("B")
	assert.Equal(t, []string{"2"}, b.StudentIDs)
	for _, p := range s.Progress() {
		assert.NotEqual(t, "1", p.StudentID)
	}
	assert.Len(t, s.Progress(), 1)
}

func TestRosterStoreDeleteAssignmentCascades(t *testing.T) {
	s := New()
	s.Load(DemoSeed())
	s.UpsertStudentProgress(models.ProgressUpdate{StudentID: "2", AssignmentID: "1"})

	require.True(t, s.DeleteAssignment("1"))

	assert.Empty(t, s.Assignments())
	assert.Empty(t, s.Progress())
	assert.Len(t, s.Students(), 2)
}

func TestRosterStoreAddAssignmentStartsAsDraft(t *testing.T) {
	s := New()

	created := s.AddAssignment(models.AssignmentInput{
		Title:      "Bridge design",
		DueDate:    "2030-01-01",
		StudentIDs: []string{"1"},
		Status:     models.AssignmentStatusCompleted,
	})

	assert.Equal(t, models.AssignmentStatusDraft, created.Status)
	stored, found := s.Assignment(created.ID)
	require.True(t, found)
	assert.Equal(t, models.AssignmentStatusDraft, stored.Status)
}

func TestRosterStoreStatusTransitionsAreUnconstrained(t *testing.T) {
	s := New()
	created := s.AddAssignment(models.AssignmentInput{Title: "Garden"})

	for _, status := range []models.AssignmentStatus{
		models.AssignmentStatusCompleted,
		models.AssignmentStatusDraft,
		models.AssignmentStatusArchived,
		models.AssignmentStatusActive,
	} {
		st := status
		updated, found := s.UpdateAssignment(created.ID, models.AssignmentPatch{Status: &st})
		require.True(t, found)
		assert.Equal(t, status, updated.Status)
	}
}

func TestRosterStoreUpsertProgressCreatesWithDefaults(t *testing.T) {
	now := time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC)
	s := New(WithClock(func() time.Time { return now }))

	record := s.UpsertStudentProgress(models.ProgressUpdate{
		StudentID:       "1",
		AssignmentID:    "A",
		ReflectionNotes: strPtr("started"),
	})

	assert.Equal(t, 0, record.CurrentPhase)
	assert.Equal(t, []string{}, record.CompletedActivities)
	assert.Equal(t, []string{}, record.AccommodationsUsed)
	assert.Equal(t, "started", record.ReflectionNotes)
	assert.Equal(t, "", record.TeacherObservations)
	assert.Equal(t, now, record.LastUpdated)
}

func TestRosterStoreUpsertProgressKeepsOneRecordPerPair(t *testing.T) {
	clock := time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC)
	s := New(WithClock(func() time.Time { return clock }))

	s.UpsertStudentProgress(models.ProgressUpdate{StudentID: "1", AssignmentID: "1", CurrentPhase: intPtr(2), ReflectionNotes: strPtr("keep")})
	clock = clock.Add(time.Hour)
	record := s.UpsertStudentProgress(models.ProgressUpdate{StudentID: "1", AssignmentID: "1", CurrentPhase: intPtr(2)})
	s.UpsertStudentProgress(models.ProgressUpdate{StudentID: "1", AssignmentID: "2"})

	assert.Equal(t, 2, record.CurrentPhase)
	assert.Equal(t, "keep", record.ReflectionNotes)
	assert.Equal(t, clock, record.LastUpdated)

	count := 0
	for _, p := range s.Progress() {
		if p.StudentID == "1" && p.AssignmentID == "1" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Len(t, s.Progress(), 2)
}

func TestRosterStoreScenarioDeleteSeededStudent(t *testing.T) {
	s := New()
	s.Load(Seed{
		Students:    []models.Student{{ID: "1"}},
		Assignments: []models.Assignment{{ID: "A", StudentIDs: []string{"1"}}},
		Progress:    []models.StudentProgress{{StudentID: "1", AssignmentID: "A", CurrentPhase: 1}},
	})

	s.DeleteStudent("1")

	a, found := s.Assignment("A")
	require.True(t, found)
	assert.Equal(t, []string{}, a.StudentIDs)
	_, found = s.ProgressFor(models.ProgressKey{StudentID: "1", AssignmentID: "A"})
	assert.False(t, found)
}

func TestRosterStoreReadsAreCopies(t *testing.T) {
	s := New()
	s.Load(DemoSeed())

	students := s.Students()
	students[0].LearningProfile.Strengths[0] = "mutated"
	assignments := s.Assignments()
	assignments[0].StudentIDs[0] = "mutated"

	alice, _ := s.Student("1")
	assert.Equal(t, "Critical thinking", alice.LearningProfile.Strengths[0])
	a, _ := s.Assignment("1")
	assert.Equal(t, "1", a.StudentIDs[0])
}

func TestRosterStoreLoadDeduplicatesProgress(t *testing.T) {
	s := New()
	s.Load(Seed{Progress: []models.StudentProgress{
		{StudentID: "1", AssignmentID: "1", CurrentPhase: 1},
		{StudentID: "1", AssignmentID: "1", CurrentPhase: 3},
	}})

	progress := s.Progress()
	require.Len(t, progress, 1)
	assert.Equal(t, 3, progress[0].CurrentPhase)
}

func TestRosterStoreConcurrentMutationsStayConsistent(t *testing.T) {
	s := New(WithIDGenerator(sequentialIDs()))
	s.Load(DemoSeed())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			s.UpsertStudentProgress(models.ProgressUpdate{StudentID: "2", AssignmentID: "1", CurrentPhase: intPtr(i % 4)})
		}(i)
		go func() {
			defer wg.Done()
			s.AddStudent(models.StudentInput{FullName: "Concurrent", TeacherID: DemoTeacherID})
		}()
	}
	wg.Wait()

	assert.Len(t, s.Students(), 52)
	count := 0
	for _, p := range s.Progress() {
		if p.StudentID == "2" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

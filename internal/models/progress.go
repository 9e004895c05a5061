package models

import "time"

// ProgressKey is the composite identity of a progress record.
type ProgressKey struct {
	StudentID    string
	AssignmentID string
}

// StudentProgress tracks one student's work on one assignment.
type StudentProgress struct {
	StudentID           string    `json:"student_id"`
	AssignmentID        string    `json:"assignment_id"`
	CurrentPhase        int       `json:"current_phase"`
	CompletedActivities []string  `json:"completed_activities"`
	ReflectionNotes     string    `json:"reflection_notes"`
	TeacherObservations string    `json:"teacher_observations"`
	AccommodationsUsed  []string  `json:"accommodations_used"`
	LastUpdated         time.Time `json:"last_updated"`
}

// Key returns the composite key of the record.
func (p StudentProgress) Key() ProgressKey {
	return ProgressKey{StudentID: p.StudentID, AssignmentID: p.AssignmentID}
}

// Clone returns a deep copy of the record.
func (p StudentProgress) Clone() StudentProgress {
	p.CompletedActivities = cloneStrings(p.CompletedActivities)
	p.AccommodationsUsed = cloneStrings(p.AccommodationsUsed)
	return p
}

// ProgressUpdate is a partial progress record addressed by its composite key.
type ProgressUpdate struct {
	StudentID           string
	AssignmentID        string
	CurrentPhase        *int
	CompletedActivities *[]string
	ReflectionNotes     *string
	TeacherObservations *string
	AccommodationsUsed  *[]string
}

// Key returns the composite key targeted by the update.
func (u ProgressUpdate) Key() ProgressKey {
	return ProgressKey{StudentID: u.StudentID, AssignmentID: u.AssignmentID}
}

// ProgressFilter narrows a progress listing. Empty fields match everything.
type ProgressFilter struct {
	StudentID    string
	AssignmentID string
}

// Matches reports whether the record passes the filter.
func (f ProgressFilter) Matches(p StudentProgress) bool {
	if f.StudentID != "" && p.StudentID != f.StudentID {
		return false
	}
	if f.AssignmentID != "" && p.AssignmentID != f.AssignmentID {
		return false
	}
	return true
}

package models

import "time"

// DashboardSummary aggregates a teacher's roster for the overview page.
type DashboardSummary struct {
	TeacherID                  string                   `json:"teacher_id"`
	TotalStudents              int                      `json:"total_students"`
	TotalAssignments           int                      `json:"total_assignments"`
	AssignmentsByStatus        map[AssignmentStatus]int `json:"assignments_by_status"`
	StudentsWithAccommodations int                      `json:"students_with_accommodations"`
	OverdueAssignments         int                      `json:"overdue_assignments"`
	StudentPreview             []StudentCard            `json:"student_preview"`
	AssignmentPreview          []AssignmentCard         `json:"assignment_preview"`
	GeneratedAt                time.Time                `json:"generated_at"`
}

// StudentCard is the compact student entry shown on the dashboard.
type StudentCard struct {
	ID                 string        `json:"id"`
	FullName           string        `json:"full_name"`
	Grade              string        `json:"grade"`
	LearningStyle      LearningStyle `json:"learning_style"`
	AccommodationCount int           `json:"accommodation_count"`
}

// AssignmentCard is the compact assignment entry shown on the dashboard.
type AssignmentCard struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Status       AssignmentStatus `json:"status"`
	DueDate      string           `json:"due_date"`
	StudentCount int              `json:"student_count"`
}

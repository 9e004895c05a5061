package models

import (
	"strings"
	"time"
)

// AssignmentStatus is the lifecycle state of a PBL assignment. Any status may be
// set from any other.
type AssignmentStatus string

const (
	AssignmentStatusDraft     AssignmentStatus = "draft"
	AssignmentStatusActive    AssignmentStatus = "active"
	AssignmentStatusCompleted AssignmentStatus = "completed"
	AssignmentStatusArchived  AssignmentStatus = "archived"
)

// AssignmentStatuses lists every status in display order.
var AssignmentStatuses = []AssignmentStatus{
	AssignmentStatusDraft,
	AssignmentStatusActive,
	AssignmentStatusCompleted,
	AssignmentStatusArchived,
}

// CollaborationType describes how students are grouped for an assignment.
type CollaborationType string

const (
	CollaborationIndividual  CollaborationType = "individual"
	CollaborationPairs       CollaborationType = "pairs"
	CollaborationSmallGroups CollaborationType = "small-groups"
	CollaborationWholeClass  CollaborationType = "whole-class"
)

// DueDateLayout is the calendar format used for assignment due dates.
const DueDateLayout = "2006-01-02"

// AssessmentCriterion is one weighted rubric line. Weights are not required to sum to 100.
type AssessmentCriterion struct {
	Criterion string `json:"criterion"`
	Weight    int    `json:"weight"`
	Rubric    string `json:"rubric"`
}

// TimelinePhase is one ordered stage of an assignment.
type TimelinePhase struct {
	Phase      string   `json:"phase"`
	Duration   string   `json:"duration"`
	Activities []string `json:"activities"`
}

// Assignment is a problem-based-learning project handed to a set of students.
type Assignment struct {
	ID                 string                `json:"id"`
	Title              string                `json:"title"`
	ProblemStatement   string                `json:"problem_statement"`
	RealWorldContext   string                `json:"real_world_context"`
	LearningObjectives []string              `json:"learning_objectives"`
	AssessmentCriteria []AssessmentCriterion `json:"assessment_criteria"`
	Resources          []string              `json:"resources"`
	Timeline           []TimelinePhase       `json:"timeline"`
	DueDate            string                `json:"due_date"`
	StudentIDs         []string              `json:"student_ids"`
	TeacherID          string                `json:"teacher_id"`
	Status             AssignmentStatus      `json:"status"`
	CollaborationType  CollaborationType     `json:"collaboration_type"`
	SkillsFocus        []string              `json:"skills_focus"`
}

// Clone returns a deep copy of the assignment.
func (a Assignment) Clone() Assignment {
	a.LearningObjectives = cloneStrings(a.LearningObjectives)
	if a.AssessmentCriteria != nil {
		criteria := make([]AssessmentCriterion, len(a.AssessmentCriteria))
		copy(criteria, a.AssessmentCriteria)
		a.AssessmentCriteria = criteria
	}
	a.Resources = cloneStrings(a.Resources)
	a.Timeline = cloneTimeline(a.Timeline)
	a.StudentIDs = cloneStrings(a.StudentIDs)
	a.SkillsFocus = cloneStrings(a.SkillsFocus)
	return a
}

// HasStudent reports whether the student id is assigned.
func (a Assignment) HasStudent(studentID string) bool {
	for _, id := range a.StudentIDs {
		if id == studentID {
			return true
		}
	}
	return false
}

// TotalWeight sums the criterion weights.
func (a Assignment) TotalWeight() int {
	total := 0
	for _, c := range a.AssessmentCriteria {
		total += c.Weight
	}
	return total
}

// IsOverdue reports whether the due date has passed for an unfinished assignment.
func (a Assignment) IsOverdue(now time.Time) bool {
	if a.Status == AssignmentStatusCompleted {
		return false
	}
	due, err := time.Parse(DueDateLayout, a.DueDate)
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return due.Before(today)
}

// AssignmentInput carries every field of an assignment except its id.
type AssignmentInput struct {
	Title              string
	ProblemStatement   string
	RealWorldContext   string
	LearningObjectives []string
	AssessmentCriteria []AssessmentCriterion
	Resources          []string
	Timeline           []TimelinePhase
	DueDate            string
	StudentIDs         []string
	TeacherID          string
	Status             AssignmentStatus
	CollaborationType  CollaborationType
	SkillsFocus        []string
}

// AssignmentPatch is a shallow partial update of an assignment.
type AssignmentPatch struct {
	Title              *string
	ProblemStatement   *string
	RealWorldContext   *string
	LearningObjectives *[]string
	AssessmentCriteria *[]AssessmentCriterion
	Resources          *[]string
	Timeline           *[]TimelinePhase
	DueDate            *string
	StudentIDs         *[]string
	TeacherID          *string
	Status             *AssignmentStatus
	CollaborationType  *CollaborationType
	SkillsFocus        *[]string
}

// AssignmentFilter narrows an assignment listing. An empty Status means all.
type AssignmentFilter struct {
	TeacherID string
	Search    string
	Status    AssignmentStatus
}

// Matches reports whether the assignment passes the filter.
func (f AssignmentFilter) Matches(a Assignment) bool {
	if f.TeacherID != "" && a.TeacherID != f.TeacherID {
		return false
	}
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(a.Title), term) ||
		strings.Contains(strings.ToLower(a.ProblemStatement), term)
}

// AssignmentView decorates an assignment with derived fields for listings.
type AssignmentView struct {
	Assignment
	Overdue     bool `json:"overdue"`
	TotalWeight int  `json:"total_weight"`
}

func cloneTimeline(in []TimelinePhase) []TimelinePhase {
	if in == nil {
		return nil
	}
	out := make([]TimelinePhase, len(in))
	for i, phase := range in {
		phase.Activities = cloneStrings(phase.Activities)
		out[i] = phase
	}
	return out
}

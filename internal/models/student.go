package models

import "strings"

// LearningStyle is the preferred learning modality recorded on a profile.
type LearningStyle string

const (
	LearningStyleVisual         LearningStyle = "visual"
	LearningStyleAuditory       LearningStyle = "auditory"
	LearningStyleKinesthetic    LearningStyle = "kinesthetic"
	LearningStyleReadingWriting LearningStyle = "reading-writing"
	LearningStyleMixed          LearningStyle = "mixed"
)

// LearningProfile describes how a student learns and which supports they need.
type LearningProfile struct {
	LearningStyle              LearningStyle `json:"learning_style"`
	Strengths                  []string      `json:"strengths"`
	Challenges                 []string      `json:"challenges"`
	Accommodations             []string      `json:"accommodations"`
	PreferredAssessmentMethods []string      `json:"preferred_assessment_methods"`
	Notes                      string        `json:"notes"`
}

// Clone returns a deep copy of the profile.
func (p LearningProfile) Clone() LearningProfile {
	p.Strengths = cloneStrings(p.Strengths)
	p.Challenges = cloneStrings(p.Challenges)
	p.Accommodations = cloneStrings(p.Accommodations)
	p.PreferredAssessmentMethods = cloneStrings(p.PreferredAssessmentMethods)
	return p
}

// EmergencyContact is an optional guardian reachable for a student.
type EmergencyContact struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
}

// Student represents a learner managed by a teacher.
type Student struct {
	ID               string            `json:"id"`
	FullName         string            `json:"full_name"`
	Grade            string            `json:"grade"`
	PhoneNumber      string            `json:"phone_number"`
	TeacherID        string            `json:"teacher_id"`
	LearningProfile  LearningProfile   `json:"learning_profile"`
	EmergencyContact *EmergencyContact `json:"emergency_contact,omitempty"`
}

// Clone returns a deep copy of the student.
func (s Student) Clone() Student {
	s.LearningProfile = s.LearningProfile.Clone()
	if s.EmergencyContact != nil {
		contact := *s.EmergencyContact
		s.EmergencyContact = &contact
	}
	return s
}

// StudentInput carries every field of a student except its id.
type StudentInput struct {
	FullName         string
	Grade            string
	PhoneNumber      string
	TeacherID        string
	LearningProfile  LearningProfile
	EmergencyContact *EmergencyContact
}

// StudentPatch is a shallow partial update. Nil fields are left untouched and a
// provided nested object replaces the stored one wholesale.
type StudentPatch struct {
	FullName         *string
	Grade            *string
	PhoneNumber      *string
	TeacherID        *string
	LearningProfile  *LearningProfile
	EmergencyContact *EmergencyContact
}

// StudentFilter narrows a student listing.
type StudentFilter struct {
	TeacherID string
	Search    string
}

// Matches reports whether the student passes the filter.
func (f StudentFilter) Matches(s Student) bool {
	if f.TeacherID != "" && s.TeacherID != f.TeacherID {
		return false
	}
	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s.FullName), term) ||
		strings.Contains(strings.ToLower(s.Grade), term)
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

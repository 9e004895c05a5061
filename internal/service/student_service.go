package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/boltpath-api/internal/models"
	appErrors "github.com/noah-isme/boltpath-api/pkg/errors"
)

type studentStore interface {
	Students() []models.Student
	Student(id string) (models.Student, bool)
	AddStudent(in models.StudentInput) models.Student
	UpdateStudent(id string, patch models.StudentPatch) (models.Student, bool)
	DeleteStudent(id string) bool
}

// LearningProfileRequest is the learning profile payload shared by create and update.
type LearningProfileRequest struct {
	LearningStyle              models.LearningStyle `json:"learning_style" validate:"omitempty,oneof=visual auditory kinesthetic reading-writing mixed"`
	Strengths                  []string             `json:"strengths"`
	Challenges                 []string             `json:"challenges"`
	Accommodations             []string             `json:"accommodations"`
	PreferredAssessmentMethods []string             `json:"preferred_assessment_methods"`
	Notes                      string               `json:"notes"`
}

// EmergencyContactRequest is the optional guardian payload.
type EmergencyContactRequest struct {
	Name         string `json:"name" validate:"required"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone" validate:"required,phone"`
}

// CreateStudentRequest holds payload for creating students.
type CreateStudentRequest struct {
	FullName         string                   `json:"full_name" validate:"required,min=2"`
	Grade            string                   `json:"grade" validate:"required"`
	PhoneNumber      string                   `json:"phone_number" validate:"required,phone"`
	LearningProfile  LearningProfileRequest   `json:"learning_profile"`
	EmergencyContact *EmergencyContactRequest `json:"emergency_contact"`
}

// UpdateStudentRequest holds a partial student update. Omitted fields keep
// their stored values; a provided profile or contact replaces the stored one.
type UpdateStudentRequest struct {
	FullName         *string                  `json:"full_name"`
	Grade            *string                  `json:"grade"`
	PhoneNumber      *string                  `json:"phone_number"`
	LearningProfile  *LearningProfileRequest  `json:"learning_profile"`
	EmergencyContact *EmergencyContactRequest `json:"emergency_contact"`
}

// StudentService handles student use-cases scoped to the signed-in teacher.
type StudentService struct {
	store     studentStore
	validator *validator.Validate
	events    MutationRecorder
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(store studentStore, validate *validator.Validate, events MutationRecorder, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = NewValidator(nil)
	}
	if events == nil {
		events = noopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{store: store, validator: validate, events: events, logger: logger}
}

// List returns the teacher's students matching the search term on name or grade.
func (s *StudentService) List(ctx context.Context, teacherID, search string) ([]models.Student, error) {
	filter := models.StudentFilter{TeacherID: teacherID, Search: search}
	students := make([]models.Student, 0)
	for _, student := range s.store.Students() {
		if filter.Matches(student) {
			students = append(students, student)
		}
	}
	return students, nil
}

// Get returns one of the teacher's students.
func (s *StudentService) Get(ctx context.Context, teacherID, id string) (*models.Student, error) {
	student, ok := s.store.Student(id)
	if !ok || student.TeacherID != teacherID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return &student, nil
}

// Create registers a new student for the teacher.
func (s *StudentService) Create(ctx context.Context, teacherID string, req CreateStudentRequest) (*models.Student, error) {
	req = normalizeStudentRequest(req)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid student payload")
	}
	student := s.store.AddStudent(models.StudentInput{
		FullName:         req.FullName,
		Grade:            req.Grade,
		PhoneNumber:      req.PhoneNumber,
		TeacherID:        teacherID,
		LearningProfile:  req.LearningProfile.toModel(),
		EmergencyContact: req.EmergencyContact.toModel(),
	})
	s.events.RecordMutation(ctx, teacherID, EntityStudent, OpCreate, student.ID)
	return &student, nil
}

// Update applies a partial update to one of the teacher's students.
func (s *StudentService) Update(ctx context.Context, teacherID, id string, req UpdateStudentRequest) (*models.Student, error) {
	current, err := s.Get(ctx, teacherID, id)
	if err != nil {
		return nil, err
	}

	merged := studentRequestFrom(*current)
	var patch models.StudentPatch
	if req.FullName != nil {
		merged.FullName = *req.FullName
	}
	if req.Grade != nil {
		merged.Grade = *req.Grade
	}
	if req.PhoneNumber != nil {
		merged.PhoneNumber = *req.PhoneNumber
	}
	if req.LearningProfile != nil {
		merged.LearningProfile = *req.LearningProfile
	}
	if req.EmergencyContact != nil {
		merged.EmergencyContact = req.EmergencyContact
	}
	merged = normalizeStudentRequest(merged)
	if err := s.validator.Struct(merged); err != nil {
		return nil, validationError(err, "invalid student payload")
	}

	if req.FullName != nil {
		patch.FullName = &merged.FullName
	}
	if req.Grade != nil {
		patch.Grade = &merged.Grade
	}
	if req.PhoneNumber != nil {
		patch.PhoneNumber = &merged.PhoneNumber
	}
	if req.LearningProfile != nil {
		profile := merged.LearningProfile.toModel()
		patch.LearningProfile = &profile
	}
	if req.EmergencyContact != nil {
		patch.EmergencyContact = merged.EmergencyContact.toModel()
	}

	updated, ok := s.store.UpdateStudent(id, patch)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	s.events.RecordMutation(ctx, teacherID, EntityStudent, OpUpdate, id)
	return &updated, nil
}

// Delete removes the student along with their assignment memberships and progress.
func (s *StudentService) Delete(ctx context.Context, teacherID, id string) error {
	if _, err := s.Get(ctx, teacherID, id); err != nil {
		return err
	}
	if !s.store.DeleteStudent(id) {
		return appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	s.events.RecordMutation(ctx, teacherID, EntityStudent, OpDelete, id)
	return nil
}

func normalizeStudentRequest(req CreateStudentRequest) CreateStudentRequest {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Grade = strings.TrimSpace(req.Grade)
	req.PhoneNumber = FormatPhone(req.PhoneNumber)
	if req.LearningProfile.LearningStyle == "" {
		req.LearningProfile.LearningStyle = models.LearningStyleMixed
	}
	if c := req.EmergencyContact; c != nil {
		contact := EmergencyContactRequest{
			Name:         strings.TrimSpace(c.Name),
			Relationship: strings.TrimSpace(c.Relationship),
			Phone:        FormatPhone(c.Phone),
		}
		if contact == (EmergencyContactRequest{}) {
			req.EmergencyContact = nil
		} else {
			req.EmergencyContact = &contact
		}
	}
	return req
}

func studentRequestFrom(student models.Student) CreateStudentRequest {
	profile := student.LearningProfile
	req := CreateStudentRequest{
		FullName:    student.FullName,
		Grade:       student.Grade,
		PhoneNumber: student.PhoneNumber,
		LearningProfile: LearningProfileRequest{
			LearningStyle:              profile.LearningStyle,
			Strengths:                  profile.Strengths,
			Challenges:                 profile.Challenges,
			Accommodations:             profile.Accommodations,
			PreferredAssessmentMethods: profile.PreferredAssessmentMethods,
			Notes:                      profile.Notes,
		},
	}
	if c := student.EmergencyContact; c != nil {
		req.EmergencyContact = &EmergencyContactRequest{Name: c.Name, Relationship: c.Relationship, Phone: c.Phone}
	}
	return req
}

func (r LearningProfileRequest) toModel() models.LearningProfile {
	return models.LearningProfile{
		LearningStyle:              r.LearningStyle,
		Strengths:                  compactStrings(r.Strengths),
		Challenges:                 compactStrings(r.Challenges),
		Accommodations:             compactStrings(r.Accommodations),
		PreferredAssessmentMethods: compactStrings(r.PreferredAssessmentMethods),
		Notes:                      strings.TrimSpace(r.Notes),
	}
}

func (r *EmergencyContactRequest) toModel() *models.EmergencyContact {
	if r == nil {
		return nil
	}
	return &models.EmergencyContact{Name: r.Name, Relationship: r.Relationship, Phone: r.Phone}
}

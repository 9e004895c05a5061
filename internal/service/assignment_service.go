package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/boltpath-api/internal/models"
	appErrors "github.com/noah-isme/boltpath-api/pkg/errors"
)

const statusOneOf = "oneof=draft active completed archived"

type assignmentStore interface {
	Assignments() []models.Assignment
	Assignment(id string) (models.Assignment, bool)
	Student(id string) (models.Student, bool)
	AddAssignment(in models.AssignmentInput) models.Assignment
	UpdateAssignment(id string, patch models.AssignmentPatch) (models.Assignment, bool)
	DeleteAssignment(id string) bool
}

// AssessmentCriterionRequest is one rubric line in an assignment payload.
type AssessmentCriterionRequest struct {
	Criterion string `json:"criterion" validate:"required"`
	Weight    int    `json:"weight" validate:"min=0,max=100"`
	Rubric    string `json:"rubric"`
}

// TimelinePhaseRequest is one phase in an assignment payload.
type TimelinePhaseRequest struct {
	Phase      string   `json:"phase" validate:"required"`
	Duration   string   `json:"duration"`
	Activities []string `json:"activities"`
}

// CreateAssignmentRequest holds payload for creating assignments.
type CreateAssignmentRequest struct {
	Title              string                       `json:"title" validate:"required"`
	ProblemStatement   string                       `json:"problem_statement" validate:"required"`
	RealWorldContext   string                       `json:"real_world_context" validate:"required"`
	LearningObjectives []string                     `json:"learning_objectives" validate:"min=1"`
	AssessmentCriteria []AssessmentCriterionRequest `json:"assessment_criteria" validate:"dive"`
	Resources          []string                     `json:"resources"`
	Timeline           []TimelinePhaseRequest       `json:"timeline" validate:"dive"`
	DueDate            string                       `json:"due_date" validate:"required,datetime=2006-01-02"`
	StudentIDs         []string                     `json:"student_ids" validate:"min=1"`
	CollaborationType  models.CollaborationType     `json:"collaboration_type" validate:"omitempty,oneof=individual pairs small-groups whole-class"`
	SkillsFocus        []string                     `json:"skills_focus"`
}

// UpdateAssignmentRequest holds a partial assignment update.
type UpdateAssignmentRequest struct {
	Title              *string                       `json:"title"`
	ProblemStatement   *string                       `json:"problem_statement"`
	RealWorldContext   *string                       `json:"real_world_context"`
	LearningObjectives *[]string                     `json:"learning_objectives"`
	AssessmentCriteria *[]AssessmentCriterionRequest `json:"assessment_criteria"`
	Resources          *[]string                     `json:"resources"`
	Timeline           *[]TimelinePhaseRequest       `json:"timeline"`
	DueDate            *string                       `json:"due_date"`
	StudentIDs         *[]string                     `json:"student_ids"`
	Status             *models.AssignmentStatus      `json:"status"`
	CollaborationType  *models.CollaborationType     `json:"collaboration_type"`
	SkillsFocus        *[]string                     `json:"skills_focus"`
}

// UpdateAssignmentStatusRequest changes only the lifecycle status.
type UpdateAssignmentStatusRequest struct {
	Status models.AssignmentStatus `json:"status" validate:"required,oneof=draft active completed archived"`
}

// AssignmentService handles PBL assignment use-cases scoped to the signed-in teacher.
type AssignmentService struct {
	store     assignmentStore
	validator *validator.Validate
	events    MutationRecorder
	logger    *zap.Logger
	now       func() time.Time
}

// NewAssignmentService constructs the assignment service.
func NewAssignmentService(store assignmentStore, validate *validator.Validate, events MutationRecorder, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = NewValidator(nil)
	}
	if events == nil {
		events = noopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{
		store:     store,
		validator: validate,
		events:    events,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// List returns the teacher's assignments filtered by search term and status.
// A status of "all" or "" disables the status filter.
func (s *AssignmentService) List(ctx context.Context, teacherID, search, status string) ([]models.AssignmentView, error) {
	filter := models.AssignmentFilter{TeacherID: teacherID, Search: search}
	status = strings.ToLower(strings.TrimSpace(status))
	if status != "" && status != "all" {
		if err := s.validator.Var(status, statusOneOf); err != nil {
			return nil, fieldError("status", "must be one of: all draft active completed archived")
		}
		filter.Status = models.AssignmentStatus(status)
	}
	now := s.now()
	views := make([]models.AssignmentView, 0)
	for _, assignment := range s.store.Assignments() {
		if filter.Matches(assignment) {
			views = append(views, s.view(assignment, now))
		}
	}
	return views, nil
}

// Get returns one of the teacher's assignments.
func (s *AssignmentService) Get(ctx context.Context, teacherID, id string) (*models.AssignmentView, error) {
	assignment, err := s.owned(teacherID, id)
	if err != nil {
		return nil, err
	}
	view := s.view(assignment, s.now())
	return &view, nil
}

// Create registers a new draft assignment for the teacher.
func (s *AssignmentService) Create(ctx context.Context, teacherID string, req CreateAssignmentRequest) (*models.AssignmentView, error) {
	req = normalizeAssignmentRequest(req)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid assignment payload")
	}
	if err := s.checkDueDate(req.DueDate); err != nil {
		return nil, err
	}
	if err := s.checkStudents(teacherID, req.StudentIDs); err != nil {
		return nil, err
	}

	input := req.toInput()
	input.TeacherID = teacherID
	created := s.store.AddAssignment(input)
	s.events.RecordMutation(ctx, teacherID, EntityAssignment, OpCreate, created.ID)
	view := s.view(created, s.now())
	return &view, nil
}

// Update applies a partial update to one of the teacher's assignments.
func (s *AssignmentService) Update(ctx context.Context, teacherID, id string, req UpdateAssignmentRequest) (*models.AssignmentView, error) {
	current, err := s.owned(teacherID, id)
	if err != nil {
		return nil, err
	}

	merged := assignmentRequestFrom(current)
	if req.Title != nil {
		merged.Title = *req.Title
	}
	if req.ProblemStatement != nil {
		merged.ProblemStatement = *req.ProblemStatement
	}
	if req.RealWorldContext != nil {
		merged.RealWorldContext = *req.RealWorldContext
	}
	if req.LearningObjectives != nil {
		merged.LearningObjectives = *req.LearningObjectives
	}
	if req.AssessmentCriteria != nil {
		merged.AssessmentCriteria = *req.AssessmentCriteria
	}
	if req.Resources != nil {
		merged.Resources = *req.Resources
	}
	if req.Timeline != nil {
		merged.Timeline = *req.Timeline
	}
	if req.DueDate != nil {
		merged.DueDate = *req.DueDate
	}
	if req.StudentIDs != nil {
		merged.StudentIDs = *req.StudentIDs
	}
	if req.CollaborationType != nil {
		merged.CollaborationType = *req.CollaborationType
	}
	if req.SkillsFocus != nil {
		merged.SkillsFocus = *req.SkillsFocus
	}
	merged = normalizeAssignmentRequest(merged)
	if err := s.validator.Struct(merged); err != nil {
		return nil, validationError(err, "invalid assignment payload")
	}
	// a stored due date may legitimately be in the past by now
	if req.DueDate != nil {
		if err := s.checkDueDate(merged.DueDate); err != nil {
			return nil, err
		}
	}
	if req.StudentIDs != nil {
		if err := s.checkStudents(teacherID, merged.StudentIDs); err != nil {
			return nil, err
		}
	}
	if req.Status != nil {
		if err := s.validator.Var(string(*req.Status), statusOneOf); err != nil {
			return nil, fieldError("status", "must be one of: draft active completed archived")
		}
	}

	input := merged.toInput()
	var patch models.AssignmentPatch
	if req.Title != nil {
		patch.Title = &input.Title
	}
	if req.ProblemStatement != nil {
		patch.ProblemStatement = &input.ProblemStatement
	}
	if req.RealWorldContext != nil {
		patch.RealWorldContext = &input.RealWorldContext
	}
	if req.LearningObjectives != nil {
		patch.LearningObjectives = &input.LearningObjectives
	}
	if req.AssessmentCriteria != nil {
		patch.AssessmentCriteria = &input.AssessmentCriteria
	}
	if req.Resources != nil {
		patch.Resources = &input.Resources
	}
	if req.Timeline != nil {
		patch.Timeline = &input.Timeline
	}
	if req.DueDate != nil {
		patch.DueDate = &input.DueDate
	}
	if req.StudentIDs != nil {
		patch.StudentIDs = &input.StudentIDs
	}
	if req.Status != nil {
		patch.Status = req.Status
	}
	if req.CollaborationType != nil {
		patch.CollaborationType = &input.CollaborationType
	}
	if req.SkillsFocus != nil {
		patch.SkillsFocus = &input.SkillsFocus
	}
	return s.apply(ctx, teacherID, id, patch)
}

// UpdateStatus moves an assignment to any status.
func (s *AssignmentService) UpdateStatus(ctx context.Context, teacherID, id string, req UpdateAssignmentStatusRequest) (*models.AssignmentView, error) {
	req.Status = models.AssignmentStatus(strings.ToLower(strings.TrimSpace(string(req.Status))))
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid status payload")
	}
	if _, err := s.owned(teacherID, id); err != nil {
		return nil, err
	}
	return s.apply(ctx, teacherID, id, models.AssignmentPatch{Status: &req.Status})
}

// Delete removes the assignment and every progress record attached to it.
func (s *AssignmentService) Delete(ctx context.Context, teacherID, id string) error {
	if _, err := s.owned(teacherID, id); err != nil {
		return err
	}
	if !s.store.DeleteAssignment(id) {
		return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
	}
	s.events.RecordMutation(ctx, teacherID, EntityAssignment, OpDelete, id)
	return nil
}

func (s *AssignmentService) apply(ctx context.Context, teacherID, id string, patch models.AssignmentPatch) (*models.AssignmentView, error) {
	updated, ok := s.store.UpdateAssignment(id, patch)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
	}
	s.events.RecordMutation(ctx, teacherID, EntityAssignment, OpUpdate, id)
	view := s.view(updated, s.now())
	return &view, nil
}

func (s *AssignmentService) owned(teacherID, id string) (models.Assignment, error) {
	assignment, ok := s.store.Assignment(id)
	if !ok || assignment.TeacherID != teacherID {
		return models.Assignment{}, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
	}
	return assignment, nil
}

func (s *AssignmentService) checkDueDate(dueDate string) error {
	if err := s.validator.Var(dueDate, "notpast"); err != nil {
		return fieldError("due_date", "must not be in the past")
	}
	return nil
}

func (s *AssignmentService) checkStudents(teacherID string, ids []string) error {
	for i, id := range ids {
		student, ok := s.store.Student(id)
		if !ok || student.TeacherID != teacherID {
			return fieldError(fmt.Sprintf("student_ids[%d]", i), "unknown student")
		}
	}
	return nil
}

func (s *AssignmentService) view(a models.Assignment, now time.Time) models.AssignmentView {
	return models.AssignmentView{
		Assignment:  a,
		Overdue:     a.IsOverdue(now),
		TotalWeight: a.TotalWeight(),
	}
}

func normalizeAssignmentRequest(req CreateAssignmentRequest) CreateAssignmentRequest {
	req.Title = strings.TrimSpace(req.Title)
	req.ProblemStatement = strings.TrimSpace(req.ProblemStatement)
	req.RealWorldContext = strings.TrimSpace(req.RealWorldContext)
	req.LearningObjectives = compactStrings(req.LearningObjectives)
	req.Resources = compactStrings(req.Resources)
	req.SkillsFocus = compactStrings(req.SkillsFocus)
	req.DueDate = strings.TrimSpace(req.DueDate)
	req.StudentIDs = uniqueStrings(compactStrings(req.StudentIDs))
	if req.CollaborationType == "" {
		req.CollaborationType = models.CollaborationIndividual
	}
	criteria := make([]AssessmentCriterionRequest, 0, len(req.AssessmentCriteria))
	for _, c := range req.AssessmentCriteria {
		c.Criterion = strings.TrimSpace(c.Criterion)
		c.Rubric = strings.TrimSpace(c.Rubric)
		criteria = append(criteria, c)
	}
	req.AssessmentCriteria = criteria
	timeline := make([]TimelinePhaseRequest, 0, len(req.Timeline))
	for _, p := range req.Timeline {
		p.Phase = strings.TrimSpace(p.Phase)
		p.Duration = strings.TrimSpace(p.Duration)
		p.Activities = compactStrings(p.Activities)
		timeline = append(timeline, p)
	}
	req.Timeline = timeline
	return req
}

func assignmentRequestFrom(a models.Assignment) CreateAssignmentRequest {
	criteria := make([]AssessmentCriterionRequest, 0, len(a.AssessmentCriteria))
	for _, c := range a.AssessmentCriteria {
		criteria = append(criteria, AssessmentCriterionRequest{Criterion: c.Criterion, Weight: c.Weight, Rubric: c.Rubric})
	}
	timeline := make([]TimelinePhaseRequest, 0, len(a.Timeline))
	for _, p := range a.Timeline {
		timeline = append(timeline, TimelinePhaseRequest{Phase: p.Phase, Duration: p.Duration, Activities: p.Activities})
	}
	return CreateAssignmentRequest{
		Title:              a.Title,
		ProblemStatement:   a.ProblemStatement,
		RealWorldContext:   a.RealWorldContext,
		LearningObjectives: a.LearningObjectives,
		AssessmentCriteria: criteria,
		Resources:          a.Resources,
		Timeline:           timeline,
		DueDate:            a.DueDate,
		StudentIDs:         a.StudentIDs,
		CollaborationType:  a.CollaborationType,
		SkillsFocus:        a.SkillsFocus,
	}
}

func (r CreateAssignmentRequest) toInput() models.AssignmentInput {
	criteria := make([]models.AssessmentCriterion, 0, len(r.AssessmentCriteria))
	for _, c := range r.AssessmentCriteria {
		criteria = append(criteria, models.AssessmentCriterion{Criterion: c.Criterion, Weight: c.Weight, Rubric: c.Rubric})
	}
	timeline := make([]models.TimelinePhase, 0, len(r.Timeline))
	for _, p := range r.Timeline {
		timeline = append(timeline, models.TimelinePhase{Phase: p.Phase, Duration: p.Duration, Activities: p.Activities})
	}
	return models.AssignmentInput{
		Title:              r.Title,
		ProblemStatement:   r.ProblemStatement,
		RealWorldContext:   r.RealWorldContext,
		LearningObjectives: r.LearningObjectives,
		AssessmentCriteria: criteria,
		Resources:          r.Resources,
		Timeline:           timeline,
		DueDate:            r.DueDate,
		StudentIDs:         r.StudentIDs,
		Status:             models.AssignmentStatusDraft,
		CollaborationType:  r.CollaborationType,
		SkillsFocus:        r.SkillsFocus,
	}
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

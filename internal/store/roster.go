// Package store holds the in-memory roster: students, PBL assignments and the
// per-student progress records that tie them together.
package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/boltpath-api/internal/models"
)

// RosterStore owns the three roster collections and keeps them referentially
// consistent. All mutations, cascades included, run under a single write lock.
// Unknown ids never produce errors: mutators report found=false and change nothing.
type RosterStore struct {
	mu          sync.RWMutex
	students    []models.Student
	assignments []models.Assignment
	progress    []models.StudentProgress

	newID func() string
	now   func() time.Time
}

// Option customises a RosterStore.
type Option func(*RosterStore)

// WithIDGenerator overrides the id generator (UUID v4 by default).
func WithIDGenerator(fn func() string) Option {
	return func(s *RosterStore) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithClock overrides the clock used to stamp progress records.
func WithClock(fn func() time.Time) Option {
	return func(s *RosterStore) {
		if fn != nil {
			s.now = fn
		}
	}
}

// New constructs an empty store.
func New(opts ...Option) *RosterStore {
	s := &RosterStore{
		newID: uuid.NewString,
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed is a full set of records loaded verbatim into the store.
type Seed struct {
	Students    []models.Student
	Assignments []models.Assignment
	Progress    []models.StudentProgress
}

// Load replaces the store contents with the seed. Later progress records win
// over earlier ones with the same key.
func (s *RosterStore) Load(seed Seed) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.students = make([]models.Student, 0, len(seed.Students))
	for _, st := range seed.Students {
		s.students = append(s.students, st.Clone())
	}
	s.assignments = make([]models.Assignment, 0, len(seed.Assignments))
	for _, a := range seed.Assignments {
		s.assignments = append(s.assignments, a.Clone())
	}
	s.progress = make([]models.StudentProgress, 0, len(seed.Progress))
	for _, p := range seed.Progress {
		if idx := s.progressIndex(p.Key()); idx >= 0 {
			s.progress[idx] = p.Clone()
			continue
		}
		s.progress = append(s.progress, p.Clone())
	}
}

// Students returns a copy of every student in insertion order.
func (s *RosterStore) Students() []models.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Student, len(s.students))
	for i, st := range s.students {
		out[i] = st.Clone()
	}
	return out
}

// Assignments returns a copy of every assignment in insertion order.
func (s *RosterStore) Assignments() []models.Assignment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Assignment, len(s.assignments))
	for i, a := range s.assignments {
		out[i] = a.Clone()
	}
	return out
}

// Progress returns a copy of every progress record in insertion order.
func (s *RosterStore) Progress() []models.StudentProgress {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.StudentProgress, len(s.progress))
	for i, p := range s.progress {
		out[i] = p.Clone()
	}
	return out
}

// Counts reports the size of each collection.
func (s *RosterStore) Counts() (students, assignments, progress int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.students), len(s.assignments), len(s.progress)
}

// Student looks up a student by id.
func (s *RosterStore) Student(id string) (models.Student, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.studentIndex(id); idx >= 0 {
		return s.students[idx].Clone(), true
	}
	return models.Student{}, false
}

// Assignment looks up an assignment by id.
func (s *RosterStore) Assignment(id string) (models.Assignment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.assignmentIndex(id); idx >= 0 {
		return s.assignments[idx].Clone(), true
	}
	return models.Assignment{}, false
}

// ProgressFor looks up the progress record for a (student, assignment) pair.
func (s *RosterStore) ProgressFor(key models.ProgressKey) (models.StudentProgress, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.progressIndex(key); idx >= 0 {
		return s.progress[idx].Clone(), true
	}
	return models.StudentProgress{}, false
}

// AddStudent stores a new student under a fresh id and returns it.
func (s *RosterStore) AddStudent(in models.StudentInput) models.Student {
	s.mu.Lock()
	defer s.mu.Unlock()

	student := models.Student{
		ID:               s.newID(),
		FullName:         in.FullName,
		Grade:            in.Grade,
		PhoneNumber:      in.PhoneNumber,
		TeacherID:        in.TeacherID,
		LearningProfile:  in.LearningProfile,
		EmergencyContact: in.EmergencyContact,
	}.Clone()
	s.students = append(s.students, student)
	return student.Clone()
}

// UpdateStudent shallow-merges the patch onto the student with the given id.
func (s *RosterStore) UpdateStudent(id string, patch models.StudentPatch) (models.Student, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.studentIndex(id)
	if idx < 0 {
		return models.Student{}, false
	}
	st := s.students[idx]
	if patch.FullName != nil {
		st.FullName = *patch.FullName
	}
	if patch.Grade != nil {
		st.Grade = *patch.Grade
	}
	if patch.PhoneNumber != nil {
		st.PhoneNumber = *patch.PhoneNumber
	}
	if patch.TeacherID != nil {
		st.TeacherID = *patch.TeacherID
	}
	if patch.LearningProfile != nil {
		st.LearningProfile = patch.LearningProfile.Clone()
	}
	if patch.EmergencyContact != nil {
		contact := *patch.EmergencyContact
		st.EmergencyContact = &contact
	}
	s.students[idx] = st
	return st.Clone(), true
}

// DeleteStudent removes the student, unassigns it from every assignment and
// drops its progress records.
func (s *RosterStore) DeleteStudent(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.studentIndex(id)
	if idx < 0 {
		return false
	}
	s.students = append(s.students[:idx], s.students[idx+1:]...)

	for i := range s.assignments {
		s.assignments[i].StudentIDs = without(s.assignments[i].StudentIDs, id)
	}
	s.dropProgress(func(p models.StudentProgress) bool { return p.StudentID == id })
	return true
}

// AddAssignment stores a new assignment under a fresh id. New assignments
// always start as drafts whatever status the input carries.
func (s *RosterStore) AddAssignment(in models.AssignmentInput) models.Assignment {
	s.mu.Lock()
	defer s.mu.Unlock()

	assignment := models.Assignment{
		ID:                 s.newID(),
		Title:              in.Title,
		ProblemStatement:   in.ProblemStatement,
		RealWorldContext:   in.RealWorldContext,
		LearningObjectives: in.LearningObjectives,
		AssessmentCriteria: in.AssessmentCriteria,
		Resources:          in.Resources,
		Timeline:           in.Timeline,
		DueDate:            in.DueDate,
		StudentIDs:         in.StudentIDs,
		TeacherID:          in.TeacherID,
		Status:             models.AssignmentStatusDraft,
		CollaborationType:  in.CollaborationType,
		SkillsFocus:        in.SkillsFocus,
	}.Clone()
	s.assignments = append(s.assignments, assignment)
	return assignment.Clone()
}

// UpdateAssignment shallow-merges the patch onto the assignment with the given id.
func (s *RosterStore) UpdateAssignment(id string, patch models.AssignmentPatch) (models.Assignment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.assignmentIndex(id)
	if idx < 0 {
		return models.Assignment{}, false
	}
	a := s.assignments[idx]
	if patch.Title != nil {
		a.Title = *patch.Title
	}
	if patch.ProblemStatement != nil {
		a.ProblemStatement = *patch.ProblemStatement
	}
	if patch.RealWorldContext != nil {
		a.RealWorldContext = *patch.RealWorldContext
	}
	if patch.LearningObjectives != nil {
		a.LearningObjectives = *patch.LearningObjectives
	}
	if patch.AssessmentCriteria != nil {
		a.AssessmentCriteria = *patch.AssessmentCriteria
	}
	if patch.Resources != nil {
		a.Resources = *patch.Resources
	}
	if patch.Timeline != nil {
		a.Timeline = *patch.Timeline
	}
	if patch.DueDate != nil {
		a.DueDate = *patch.DueDate
	}
	if patch.StudentIDs != nil {
		a.StudentIDs = *patch.StudentIDs
	}
	if patch.TeacherID != nil {
		a.TeacherID = *patch.TeacherID
	}
	if patch.Status != nil {
		a.Status = *patch.Status
	}
	if patch.CollaborationType != nil {
		a.CollaborationType = *patch.CollaborationType
	}
	if patch.SkillsFocus != nil {
		a.SkillsFocus = *patch.SkillsFocus
	}
	a = a.Clone()
	s.assignments[idx] = a
	return a.Clone(), true
}

// DeleteAssignment removes the assignment and its progress records.
func (s *RosterStore) DeleteAssignment(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.assignmentIndex(id)
	if idx < 0 {
		return false
	}
	s.assignments = append(s.assignments[:idx], s.assignments[idx+1:]...)
	s.dropProgress(func(p models.StudentProgress) bool { return p.AssignmentID == id })
	return true
}

// UpsertStudentProgress merges the update onto the record for its key, creating
// the record from defaults when none exists. The record is stamped with the
// current time either way.
func (s *RosterStore) UpsertStudentProgress(update models.ProgressUpdate) models.StudentProgress {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.progressIndex(update.Key())
	var record models.StudentProgress
	if idx >= 0 {
		record = s.progress[idx]
	} else {
		record = models.StudentProgress{
			StudentID:           update.StudentID,
			AssignmentID:        update.AssignmentID,
			CurrentPhase:        0,
			CompletedActivities: []string{},
			AccommodationsUsed:  []string{},
		}
	}

	if update.CurrentPhase != nil {
		record.CurrentPhase = *update.CurrentPhase
	}
	if update.CompletedActivities != nil {
		record.CompletedActivities = *update.CompletedActivities
	}
	if update.ReflectionNotes != nil {
		record.ReflectionNotes = *update.ReflectionNotes
	}
	if update.TeacherObservations != nil {
		record.TeacherObservations = *update.TeacherObservations
	}
	if update.AccommodationsUsed != nil {
		record.AccommodationsUsed = *update.AccommodationsUsed
	}
	record.LastUpdated = s.now()
	record = record.Clone()

	if idx >= 0 {
		s.progress[idx] = record
	} else {
		s.progress = append(s.progress, record)
	}
	return record.Clone()
}

func (s *RosterStore) studentIndex(id string) int {
	for i := range s.students {
		if s.students[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *RosterStore) assignmentIndex(id string) int {
	for i := range s.assignments {
		if s.assignments[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *RosterStore) progressIndex(key models.ProgressKey) int {
	for i := range s.progress {
		if s.progress[i].Key() == key {
			return i
		}
	}
	return -1
}

func (s *RosterStore) dropProgress(match func(models.StudentProgress) bool) {
	kept := s.progress[:0]
	for _, p := range s.progress {
		if !match(p) {
			kept = append(kept, p)
		}
	}
	for i := len(kept); i < len(s.progress); i++ {
		s.progress[i] = models.StudentProgress{}
	}
	s.progress = kept
}

func without(ids []string, id string) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

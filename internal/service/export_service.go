package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/boltpath-api/internal/models"
	appErrors "github.com/noah-isme/boltpath-api/pkg/errors"
	"github.com/noah-isme/boltpath-api/pkg/export"
)

type exportStore interface {
	Students() []models.Student
	Assignments() []models.Assignment
	Assignment(id string) (models.Assignment, bool)
	Student(id string) (models.Student, bool)
	ProgressFor(key models.ProgressKey) (models.StudentProgress, bool)
}

// ExportFile is a rendered export ready to be streamed to the client.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService builds roster datasets and renders them as CSV or PDF.
type ExportService struct {
	store  exportStore
	csv    export.Renderer
	pdf    export.Renderer
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers fall back to the
// package defaults.
func NewExportService(store exportStore, csv, pdf export.Renderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		store:  store,
		csv:    csv,
		pdf:    pdf,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Roster renders one row per student belonging to the teacher.
func (s *ExportService) Roster(ctx context.Context, teacher models.Teacher, rawFormat string) (*ExportFile, error) {
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return nil, fieldError("format", "must be one of: csv pdf")
	}

	assigned := make(map[string]int)
	for _, assignment := range s.store.Assignments() {
		if assignment.TeacherID != teacher.ID {
			continue
		}
		for _, id := range assignment.StudentIDs {
			assigned[id]++
		}
	}

	data := export.Dataset{Headers: []string{"Name", "Grade", "Phone", "Learning Style", "Accommodations", "Assignments"}}
	for _, student := range s.store.Students() {
		if student.TeacherID != teacher.ID {
			continue
		}
		data.Rows = append(data.Rows, map[string]string{
			"Name":           student.FullName,
			"Grade":          student.Grade,
			"Phone":          student.PhoneNumber,
			"Learning Style": string(student.LearningProfile.LearningStyle),
			"Accommodations": strings.Join(student.LearningProfile.Accommodations, "; "),
			"Assignments":    strconv.Itoa(assigned[student.ID]),
		})
	}

	doc := export.Document{
		Title:    "Student Roster",
		Subtitle: fmt.Sprintf("%s - generated %s", teacher.FullName, s.now().Format(time.RFC3339)),
		Data:     data,
	}
	return s.render(format, "roster", doc)
}

// AssignmentProgress renders one row per student assigned to the assignment.
func (s *ExportService) AssignmentProgress(ctx context.Context, teacher models.Teacher, assignmentID, rawFormat string) (*ExportFile, error) {
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return nil, fieldError("format", "must be one of: csv pdf")
	}
	assignment, ok := s.store.Assignment(assignmentID)
	if !ok || assignment.TeacherID != teacher.ID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
	}

	data := export.Dataset{Headers: []string{"Student", "Phase", "Completed Activities", "Accommodations Used", "Last Updated"}}
	phases := len(assignment.Timeline)
	for _, studentID := range assignment.StudentIDs {
		student, ok := s.store.Student(studentID)
		if !ok {
			continue
		}
		row := map[string]string{
			"Student": student.FullName,
			"Phase":   fmt.Sprintf("0/%d", phases),
		}
		if progress, found := s.store.ProgressFor(models.ProgressKey{StudentID: studentID, AssignmentID: assignment.ID}); found {
			row["Phase"] = fmt.Sprintf("%d/%d", progress.CurrentPhase, phases)
			row["Completed Activities"] = strings.Join(progress.CompletedActivities, "; ")
			row["Accommodations Used"] = strings.Join(progress.AccommodationsUsed, "; ")
			row["Last Updated"] = progress.LastUpdated.Format(time.RFC3339)
		}
		data.Rows = append(data.Rows, row)
	}

	doc := export.Document{
		Title:    assignment.Title,
		Subtitle: fmt.Sprintf("Due %s - status %s", assignment.DueDate, assignment.Status),
		Data:     data,
	}
	return s.render(format, "assignment-"+assignment.ID+"-progress", doc)
}

func (s *ExportService) render(format export.Format, name string, doc export.Document) (*ExportFile, error) {
	renderer := s.csv
	if format == export.FormatPDF {
		renderer = s.pdf
	}
	body, err := renderer.Render(doc)
	if err != nil {
		s.logger.Error("export render failed", zap.String("export", name), zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("%s-%s.%s", name, s.now().Format("20060102"), format),
		ContentType: format.ContentType(),
		Body:        body,
	}, nil
}

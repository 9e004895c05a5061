package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/boltpath-api/internal/models"
)

const dashboardPreviewSize = 5

type rosterReader interface {
	Students() []models.Student
	Assignments() []models.Assignment
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL time.Duration
}

// DashboardService composes the per-teacher overview and caches it.
type DashboardService struct {
	roster rosterReader
	cache  *CacheService
	logger *zap.Logger
	cfg    DashboardServiceConfig
	now    func() time.Time
}

// NewDashboardService constructs a DashboardService. cache may be nil.
func NewDashboardService(roster rosterReader, cache *CacheService, cfg DashboardServiceConfig, logger *zap.Logger) *DashboardService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		roster: roster,
		cache:  cache,
		logger: logger,
		cfg:    cfg,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func dashboardCacheKey(teacherID string) string {
	return fmt.Sprintf("dashboard:teacher:%s", teacherID)
}

// Summary returns the teacher's dashboard and indicates cache utilisation.
func (s *DashboardService) Summary(ctx context.Context, teacherID string) (*models.DashboardSummary, bool, error) {
	key := dashboardCacheKey(teacherID)
	if s.cache != nil {
		var cached models.DashboardSummary
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("dashboard cache read failed", zap.String("key", key), zap.Error(err))
		} else if hit {
			return &cached, true, nil
		}
	}

	summary := s.compose(teacherID)
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, summary, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return summary, false, nil
}

// Warm recomputes the teacher's summary and stores it in the cache.
func (s *DashboardService) Warm(ctx context.Context, teacherID string) error {
	if !s.cache.Enabled() {
		return nil
	}
	return s.cache.Set(ctx, dashboardCacheKey(teacherID), s.compose(teacherID), s.cfg.CacheTTL)
}

func (s *DashboardService) compose(teacherID string) *models.DashboardSummary {
	now := s.now()
	summary := &models.DashboardSummary{
		TeacherID:           teacherID,
		AssignmentsByStatus: make(map[models.AssignmentStatus]int, len(models.AssignmentStatuses)),
		StudentPreview:      make([]models.StudentCard, 0, dashboardPreviewSize),
		AssignmentPreview:   make([]models.AssignmentCard, 0, dashboardPreviewSize),
		GeneratedAt:         now,
	}
	for _, status := range models.AssignmentStatuses {
		summary.AssignmentsByStatus[status] = 0
	}

	for _, student := range s.roster.Students() {
		if student.TeacherID != teacherID {
			continue
		}
		summary.TotalStudents++
		accommodations := len(student.LearningProfile.Accommodations)
		if accommodations > 0 {
			summary.StudentsWithAccommodations++
		}
		if len(summary.StudentPreview) < dashboardPreviewSize {
			summary.StudentPreview = append(summary.StudentPreview, models.StudentCard{
				ID:                 student.ID,
				FullName:           student.FullName,
				Grade:              student.Grade,
				LearningStyle:      student.LearningProfile.LearningStyle,
				AccommodationCount: accommodations,
			})
		}
	}

	for _, assignment := range s.roster.Assignments() {
		if assignment.TeacherID != teacherID {
			continue
		}
		summary.TotalAssignments++
		summary.AssignmentsByStatus[assignment.Status]++
		if assignment.IsOverdue(now) {
			summary.OverdueAssignments++
		}
		if len(summary.AssignmentPreview) < dashboardPreviewSize {
			summary.AssignmentPreview = append(summary.AssignmentPreview, models.AssignmentCard{
				ID:           assignment.ID,
				Title:        assignment.Title,
				Status:       assignment.Status,
				DueDate:      assignment.DueDate,
				StudentCount: len(assignment.StudentIDs),
			})
		}
	}
	return summary
}

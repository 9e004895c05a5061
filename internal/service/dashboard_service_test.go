package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/boltpath-api/internal/models"
	"github.com/noah-isme/boltpath-api/internal/store"
	"github.com/noah-isme/boltpath-api/pkg/jobs"
)

type fakeWarmQueue struct {
	jobs []jobs.Job
	err  error
}

func (q *fakeWarmQueue) Enqueue(job jobs.Job) (bool, error) {
	if q.err != nil {
		return false, q.err
	}
	q.jobs = append(q.jobs, job)
	return true, nil
}

func TestDashboardServiceSummaryCountsTeacherRoster(t *testing.T) {
	roster := seededStore(t)
	svc := NewDashboardService(roster, nil, DashboardServiceConfig{}, zap.NewNop())
	svc.now = clockAt(time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC))

	summary, hit, err := svc.Summary(context.Background(), store.DemoTeacherID)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, summary.TotalStudents)
	assert.Equal(t, 1, summary.TotalAssignments)
	assert.Equal(t, 2, summary.StudentsWithAccommodations)
	assert.Equal(t, 1, summary.OverdueAssignments)
	assert.Equal(t, 1, summary.AssignmentsByStatus[models.AssignmentStatusActive])
	assert.Equal(t, 0, summary.AssignmentsByStatus[models.AssignmentStatusDraft])
	require.Len(t, summary.StudentPreview, 2)
	assert.Equal(t, 3, summary.StudentPreview[0].AccommodationCount)
	require.Len(t, summary.AssignmentPreview, 1)
	assert.Equal(t, 2, summary.AssignmentPreview[0].StudentCount)

	empty, _, err := svc.Summary(context.Background(), "teacher2")
	require.NoError(t, err)
	assert.Zero(t, empty.TotalStudents)
	assert.Empty(t, empty.StudentPreview)
}

func TestDashboardServicePreviewIsCappedAtFive(t *testing.T) {
	roster := seededStore(t)
	for i := 0; i < 6; i++ {
		roster.AddStudent(models.StudentInput{FullName: "Extra", Grade: "8th", TeacherID: store.DemoTeacherID})
	}
	svc := NewDashboardService(roster, nil, DashboardServiceConfig{}, nil)

	summary, _, err := svc.Summary(context.Background(), store.DemoTeacherID)
	require.NoError(t, err)
	assert.Equal(t, 8, summary.TotalStudents)
	assert.Len(t, summary.StudentPreview, dashboardPreviewSize)
	assert.Equal(t, "Alice Johnson", summary.StudentPreview[0].FullName)
}

func TestDashboardServiceCachesUntilMutation(t *testing.T) {
	roster := seededStore(t)
	repo := newMemoryCacheRepo()
	metrics := NewMetricsService()
	cache := NewCacheService(repo, metrics, CacheConfig{Enabled: true}, zap.NewNop())
	dashboard := NewDashboardService(roster, cache, DashboardServiceConfig{CacheTTL: time.Minute}, zap.NewNop())
	events := NewRosterEvents(cache, metrics, zap.NewNop())
	students := NewStudentService(roster, NewValidator(clockAt(fixedNow)), events, zap.NewNop())

	first, hit, err := dashboard.Summary(context.Background(), store.DemoTeacherID)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, first.TotalStudents)

	second, hit, err := dashboard.Summary(context.Background(), store.DemoTeacherID)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 2, second.TotalStudents)

	require.NoError(t, students.Delete(context.Background(), store.DemoTeacherID, "2"))
	assert.Contains(t, repo.deleted, "dashboard:teacher:teacher1")

	third, hit, err := dashboard.Summary(context.Background(), store.DemoTeacherID)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, third.TotalStudents)
}

func TestRosterEventsScheduleDashboardWarm(t *testing.T) {
	roster := seededStore(t)
	repo := newMemoryCacheRepo()
	cache := NewCacheService(repo, nil, CacheConfig{Enabled: true}, nil)
	dashboard := NewDashboardService(roster, cache, DashboardServiceConfig{CacheTTL: time.Minute}, nil)
	queue := &fakeWarmQueue{}
	events := NewRosterEvents(cache, nil, nil).WithWarmQueue(queue)
	students := NewStudentService(roster, NewValidator(clockAt(fixedNow)), events, nil)

	require.NoError(t, students.Delete(context.Background(), store.DemoTeacherID, "2"))
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, JobDashboardWarm, queue.jobs[0].Kind)
	assert.Equal(t, store.DemoTeacherID, queue.jobs[0].Key)

	require.NoError(t, dashboard.Warm(context.Background(), queue.jobs[0].Key))
	summary, hit, err := dashboard.Summary(context.Background(), store.DemoTeacherID)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, summary.TotalStudents)

	queue.err = errors.New("queue full")
	require.NoError(t, students.Delete(context.Background(), store.DemoTeacherID, "1"))
	assert.Len(t, queue.jobs, 1)
}

func TestRosterEventsSkipWarmWhenCacheDisabled(t *testing.T) {
	queue := &fakeWarmQueue{}
	events := NewRosterEvents(nil, nil, nil).WithWarmQueue(queue)
	events.RecordMutation(context.Background(), store.DemoTeacherID, EntityStudent, OpCreate, "3")
	assert.Empty(t, queue.jobs)

	dashboard := NewDashboardService(seededStore(t), nil, DashboardServiceConfig{}, nil)
	require.NoError(t, dashboard.Warm(context.Background(), store.DemoTeacherID))
}

func TestDashboardServiceDegradesOnCacheFailure(t *testing.T) {
	roster := seededStore(t)
	repo := newMemoryCacheRepo()
	repo.getErr = errors.New("connection refused")
	cache := NewCacheService(repo, nil, CacheConfig{Enabled: true}, nil)
	svc := NewDashboardService(roster, cache, DashboardServiceConfig{}, nil)

	summary, hit, err := svc.Summary(context.Background(), store.DemoTeacherID)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, summary.TotalStudents)
}

func TestCacheServiceDisabledIsNoop(t *testing.T) {
	repo := newMemoryCacheRepo()
	cache := NewCacheService(repo, nil, CacheConfig{Enabled: false}, nil)

	require.NoError(t, cache.Set(context.Background(), "k", "v", 0))
	var out string
	hit, err := cache.Get(context.Background(), "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Empty(t, repo.entries)
	require.NoError(t, cache.Invalidate(context.Background(), "k"))
	assert.Empty(t, repo.deleted)

	var nilCache *CacheService
	assert.False(t, nilCache.Enabled())
}

package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/boltpath-api/pkg/jobs"
)

// JobDashboardWarm rebuilds a teacher's cached dashboard summary.
const JobDashboardWarm = "dashboard.warm"

// Roster entities and operations reported to MutationRecorder.
const (
	EntityStudent    = "student"
	EntityAssignment = "assignment"
	EntityProgress   = "progress"

	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
	OpUpsert = "upsert"
)

// MutationRecorder is told about every successful roster mutation.
type MutationRecorder interface {
	RecordMutation(ctx context.Context, teacherID, entity, op, id string)
}

type noopRecorder struct{}

func (noopRecorder) RecordMutation(context.Context, string, string, string, string) {}

// RosterEvents fans a mutation out to metrics, the dashboard cache and the log.
type RosterEvents struct {
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	warm    warmQueue
}

type warmQueue interface {
	Enqueue(job jobs.Job) (bool, error)
}

// NewRosterEvents constructs the mutation fan-out.
func NewRosterEvents(cache *CacheService, metrics *MetricsService, logger *zap.Logger) *RosterEvents {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterEvents{cache: cache, metrics: metrics, logger: logger}
}

// WithWarmQueue schedules a dashboard rebuild after each invalidation.
func (e *RosterEvents) WithWarmQueue(q warmQueue) *RosterEvents {
	e.warm = q
	return e
}

// RecordMutation implements MutationRecorder.
func (e *RosterEvents) RecordMutation(ctx context.Context, teacherID, entity, op, id string) {
	e.metrics.ObserveRosterMutation(entity, op)
	// a failed invalidation only means a stale summary until the TTL expires
	_ = e.cache.Invalidate(ctx, dashboardCacheKey(teacherID))
	if e.warm != nil && e.cache.Enabled() {
		if _, err := e.warm.Enqueue(jobs.Job{Kind: JobDashboardWarm, Key: teacherID}); err != nil {
			e.logger.Warn("dashboard warm not scheduled", zap.String("teacher_id", teacherID), zap.Error(err))
		}
	}
	e.logger.Info("roster mutation",
		zap.String("teacher_id", teacherID),
		zap.String("entity", entity),
		zap.String("op", op),
		zap.String("id", id),
	)
}

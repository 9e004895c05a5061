package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/boltpath-api/internal/store"
	appErrors "github.com/noah-isme/boltpath-api/pkg/errors"
)

var fixedNow = time.Date(2025, time.August, 20, 9, 30, 0, 0, time.UTC)

func clockAt(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func seededStore(t *testing.T) *store.RosterStore {
	t.Helper()
	seq := 100
	roster := store.New(
		store.WithClock(clockAt(fixedNow)),
		store.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("gen-%d", seq)
		}),
	)
	roster.Load(store.DemoSeed())
	return roster
}

type recordedMutation struct {
	teacherID string
	entity    string
	op        string
	id        string
}

type fakeRecorder struct {
	mu     sync.Mutex
	events []recordedMutation
}

func (f *fakeRecorder) RecordMutation(_ context.Context, teacherID, entity, op, id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recordedMutation{teacherID: teacherID, entity: entity, op: op, id: id})
}

type memoryCacheRepo struct {
	mu      sync.Mutex
	entries map[string][]byte
	getErr  error
	deleted []string
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: make(map[string][]byte)}
}

func (m *memoryCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return m.getErr
	}
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.entries {
		if key == pattern || (strings.HasSuffix(pattern, "*") && strings.HasPrefix(key, prefix)) {
			delete(m.entries, key)
		}
	}
	return nil
}

func requireAppError(t *testing.T, err error, code string) *appErrors.Error {
	t.Helper()
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr), "expected *errors.Error, got %T", err)
	require.Equal(t, code, appErr.Code)
	return appErr
}

func strPtr(v string) *string { return &v }

func intPtr(v int) *int { return &v }

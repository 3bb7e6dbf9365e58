package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/cdams-api/internal/models"
	appErrors "github.com/noah-isme/cdams-api/pkg/errors"
)

type mockStatusUpdateRepo struct {
	updates map[string][]models.StatusUpdate
	calls   int
}

func (m *mockStatusUpdateRepo) ListByApplication(ctx context.Context, applicationID string) ([]models.StatusUpdate, error) {
	m.calls++
	return m.updates[applicationID], nil
}

func TestTimelineServiceReturnsEntriesInOrder(t *testing.T) {
	base := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	repo := &mockStatusUpdateRepo{updates: map[string][]models.StatusUpdate{
		"app-1": {
			{ID: "u1", ApplicationID: "app-1", Action: models.ActionSubmit, CreatedAt: base},
			{ID: "u2", ApplicationID: "app-1", Action: models.ActionForward, CreatedAt: base.Add(time.Hour)},
			{ID: "u3", ApplicationID: "app-1", Action: models.ActionApprove, CreatedAt: base.Add(2 * time.Hour)},
		},
	}}
	svc := NewTimelineService(repo, nil, zap.NewNop())

	updates, cached, err := svc.Get(context.Background(), "app-1")
	require.NoError(t, err)
	assert.False(t, cached)
	require.Len(t, updates, 3)
	assert.Equal(t, models.ActionSubmit, updates[0].Action)
	assert.Equal(t, models.ActionForward, updates[1].Action)
	assert.Equal(t, models.ActionApprove, updates[2].Action)
	for i := 1; i < len(updates); i++ {
		assert.False(t, updates[i].CreatedAt.Before(updates[i-1].CreatedAt))
	}
}

func TestTimelineServiceUnknownApplicationIsEmptyNotError(t *testing.T) {
	svc := NewTimelineService(&mockStatusUpdateRepo{}, nil, zap.NewNop())

	updates, cached, err := svc.Get(context.Background(), "no-such-app")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.NotNil(t, updates)
	assert.Empty(t, updates)
}

type stubCacheRepo struct {
	store map[string][]byte
}

func (s *stubCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := s.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (s *stubCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.store[key] = raw
	return nil
}

func (s *stubCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	delete(s.store, pattern)
	return nil
}

func TestTimelineServiceServesFromCache(t *testing.T) {
	repo := &mockStatusUpdateRepo{updates: map[string][]models.StatusUpdate{
		"app-1": {{ID: "u1", ApplicationID: "app-1", Action: models.ActionSubmit}},
	}}
	cacheRepo := &stubCacheRepo{store: make(map[string][]byte)}
	cacheSvc := NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), true)
	svc := NewTimelineService(repo, cacheSvc, zap.NewNop())

	_, cached, err := svc.Get(context.Background(), "app-1")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 1, repo.calls)

	updates, cached, err := svc.Get(context.Background(), "app-1")
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, 1, repo.calls)
	require.Len(t, updates, 1)
	assert.Equal(t, "u1", updates[0].ID)
}

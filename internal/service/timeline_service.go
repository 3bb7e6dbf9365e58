package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/cdams-api/internal/models"
	appErrors "github.com/noah-isme/cdams-api/pkg/errors"
)

type statusUpdateReader interface {
	ListByApplication(ctx context.Context, applicationID string) ([]models.StatusUpdate, error)
}

func timelineCacheKey(applicationID string) string {
	return fmt.Sprintf("timeline:%s", applicationID)
}

// TimelineService serves the ordered audit history of an application.
type TimelineService struct {
	repo   statusUpdateReader
	cache  *CacheService
	logger *zap.Logger
}

// NewTimelineService constructs the timeline service.
func NewTimelineService(repo statusUpdateReader, cache *CacheService, logger *zap.Logger) *TimelineService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimelineService{repo: repo, cache: cache, logger: logger}
}

// Get returns all timeline entries for an application in ascending creation
// order, plus whether the result was served from cache. An unknown id yields
// an empty timeline; the application's existence is deliberately not checked.
func (s *TimelineService) Get(ctx context.Context, applicationID string) ([]models.StatusUpdate, bool, error) {
	key := timelineCacheKey(applicationID)

	if s.cache.Enabled() {
		var cached []models.StatusUpdate
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return cached, true, nil
		}
	}

	updates, err := s.repo.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timeline")
	}
	if updates == nil {
		updates = []models.StatusUpdate{}
	}

	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, key, updates, 0); err != nil {
			s.logger.Warn("timeline cache store failed", zap.String("application_id", applicationID), zap.Error(err))
		}
	}

	return updates, false, nil
}

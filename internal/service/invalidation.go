package service

import (
	"context"
	"strings"
	"time"

	"github.com/godilite/feedback-ratings/internal/repository/models"
	"go.uber.org/zap"
)

const (
	ratingCacheKeyPrefix = "rating:"

	// RatingsListCacheKey holds the cached result of ListRatingBlocks.
	RatingsListCacheKey = "ratings"

	invalidateTimeout = 2 * time.Second
)

// RatingCacheKey is the cache key of one entity's rating block. Ids are case-sensitive.
func RatingCacheKey(id string) string {
	return ratingCacheKeyPrefix + strings.TrimSpace(id)
}

// CacheInvalidator drops cached entries.
type CacheInvalidator interface {
	Delete(ctx context.Context, keys ...string) error
}

// InvalidatingService is a RatingService whose writes also drop the cached blocks they
// make stale. Every transport reading through the cache must write through this type.
type InvalidatingService struct {
	*RatingService
	cache  CacheInvalidator
	logger *zap.Logger
}

func NewInvalidatingService(svc *RatingService, cache CacheInvalidator, logger *zap.Logger) *InvalidatingService {
	if svc == nil {
		panic("rating service must not be nil")
	}
	if cache == nil {
		panic("cache invalidator must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvalidatingService{
		RatingService: svc,
		cache:         cache,
		logger:        logger.Named("cache-invalidation"),
	}
}

func (s *InvalidatingService) RecordFeedback(ctx context.Context, id string, sentiment models.Sentiment) error {
	if err := s.RatingService.RecordFeedback(ctx, id, sentiment); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *InvalidatingService) SaveEntity(ctx context.Context, in EntityInput) (RatingBlock, error) {
	block, err := s.RatingService.SaveEntity(ctx, in)
	if err != nil {
		return RatingBlock{}, err
	}
	s.invalidate(ctx, block.EntityID)
	return block, nil
}

// invalidate runs even when ctx is already canceled: the write has landed.
func (s *InvalidatingService) invalidate(ctx context.Context, id string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), invalidateTimeout)
	defer cancel()

	keys := []string{RatingCacheKey(id), RatingsListCacheKey}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Warn("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

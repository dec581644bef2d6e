package grpc

import (
	"context"
	"time"

	"github.com/godilite/feedback-ratings/internal/rating"
	"github.com/godilite/feedback-ratings/internal/repository/models"
	"github.com/godilite/feedback-ratings/internal/service"
)

// Cacher defines the interface for cache operations.
type Cacher interface {
	Close() error
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type RatingService interface {
	Compute(counts rating.FeedbackCounts) rating.Block
	GetRatingBlock(ctx context.Context, id string) (service.RatingBlock, error)
	ListRatingBlocks(ctx context.Context) ([]service.RatingBlock, error)
	RecordFeedback(ctx context.Context, id string, sentiment models.Sentiment) error
}

package mocks

import (
	"context"
	"errors"

	"github.com/godilite/feedback-ratings/internal/rating"
	"github.com/godilite/feedback-ratings/internal/repository/models"
	"github.com/godilite/feedback-ratings/internal/service"
)

// MockRatingService is a mock implementation of the RatingService interface
// for testing the handler layer. It uses function-based mocking for flexibility.
type MockRatingService struct {
	ComputeFunc          func(counts rating.FeedbackCounts) rating.Block
	GetRatingBlockFunc   func(ctx context.Context, id string) (service.RatingBlock, error)
	ListRatingBlocksFunc func(ctx context.Context) ([]service.RatingBlock, error)
	RecordFeedbackFunc   func(ctx context.Context, id string, sentiment models.Sentiment) error
}

// Compute falls back to the real computation with default gauge options.
func (m *MockRatingService) Compute(counts rating.FeedbackCounts) rating.Block {
	if m.ComputeFunc != nil {
		return m.ComputeFunc(counts)
	}
	return rating.Compute(counts, rating.DefaultGaugeOptions())
}

func (m *MockRatingService) GetRatingBlock(ctx context.Context, id string) (service.RatingBlock, error) {
	if m.GetRatingBlockFunc != nil {
		return m.GetRatingBlockFunc(ctx, id)
	}
	return service.RatingBlock{}, errors.New("GetRatingBlockFunc not implemented")
}

func (m *MockRatingService) ListRatingBlocks(ctx context.Context) ([]service.RatingBlock, error) {
	if m.ListRatingBlocksFunc != nil {
		return m.ListRatingBlocksFunc(ctx)
	}
	return nil, errors.New("ListRatingBlocksFunc not implemented")
}

func (m *MockRatingService) RecordFeedback(ctx context.Context, id string, sentiment models.Sentiment) error {
	if m.RecordFeedbackFunc != nil {
		return m.RecordFeedbackFunc(ctx, id, sentiment)
	}
	return errors.New("RecordFeedbackFunc not implemented")
}

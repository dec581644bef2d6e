package mocks

import (
	"context"
	"errors"

	"github.com/godilite/feedback-ratings/internal/repository/models"
)

// MockFeedbackRepository is a mock implementation of the FeedbackRepository interface
// for testing the service layer.
type MockFeedbackRepository struct {
	GetEntityFeedbackFunc  func(ctx context.Context, id string) (models.EntityFeedback, error)
	ListEntityFeedbackFunc func(ctx context.Context) ([]models.EntityFeedback, error)
	IncrementFeedbackFunc  func(ctx context.Context, id string, sentiment models.Sentiment) error
	UpsertEntityFunc       func(ctx context.Context, e models.EntityFeedback) error
}

func (m *MockFeedbackRepository) GetEntityFeedback(ctx context.Context, id string) (models.EntityFeedback, error) {
	if m.GetEntityFeedbackFunc != nil {
		return m.GetEntityFeedbackFunc(ctx, id)
	}
	return models.EntityFeedback{}, errors.New("GetEntityFeedbackFunc not implemented")
}

func (m *MockFeedbackRepository) ListEntityFeedback(ctx context.Context) ([]models.EntityFeedback, error) {
	if m.ListEntityFeedbackFunc != nil {
		return m.ListEntityFeedbackFunc(ctx)
	}
	return nil, errors.New("ListEntityFeedbackFunc not implemented")
}

func (m *MockFeedbackRepository) IncrementFeedback(ctx context.Context, id string, sentiment models.Sentiment) error {
	if m.IncrementFeedbackFunc != nil {
		return m.IncrementFeedbackFunc(ctx, id, sentiment)
	}
	return errors.New("IncrementFeedbackFunc not implemented")
}

// UpsertEntity implements the FeedbackRepository interface
func (m *MockFeedbackRepository) UpsertEntity(ctx context.Context, e models.EntityFeedback) error {
	if m.UpsertEntityFunc != nil {
		return m.UpsertEntityFunc(ctx, e)
	}
	return errors.New("UpsertEntityFunc not implemented")
}

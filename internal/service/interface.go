package service

import (
	"context"

	"github.com/godilite/feedback-ratings/internal/repository/models"
)

// FeedbackRepository defines the storage operations the rating service needs.
type FeedbackRepository interface {
	GetEntityFeedback(ctx context.Context, id string) (models.EntityFeedback, error)
	ListEntityFeedback(ctx context.Context) ([]models.EntityFeedback, error)
	IncrementFeedback(ctx context.Context, id string, sentiment models.Sentiment) error
	UpsertEntity(ctx context.Context, e models.EntityFeedback) error
}

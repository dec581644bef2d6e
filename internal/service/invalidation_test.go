package service

import (
	"context"
	"errors"
	"testing"

	"github.com/godilite/feedback-ratings/internal/rating"
	"github.com/godilite/feedback-ratings/internal/repository"
	"github.com/godilite/feedback-ratings/internal/repository/models"
	"github.com/godilite/feedback-ratings/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingInvalidator struct {
	deleted [][]string
	ctxErr  []error
	err     error
}

func (r *recordingInvalidator) Delete(ctx context.Context, keys ...string) error {
	r.deleted = append(r.deleted, keys)
	r.ctxErr = append(r.ctxErr, ctx.Err())
	return r.err
}

func newInvalidating(repo FeedbackRepository, inv CacheInvalidator) *InvalidatingService {
	return NewInvalidatingService(NewRatingService(repo, zap.NewNop(), rating.DefaultGaugeOptions()), inv, zap.NewNop())
}

func TestNewInvalidatingService(t *testing.T) {
	assert.Panics(t, func() { NewInvalidatingService(nil, &recordingInvalidator{}, nil) })
	assert.Panics(t, func() {
		NewInvalidatingService(NewRatingService(&mocks.MockFeedbackRepository{}, zap.NewNop(), rating.DefaultGaugeOptions()), nil, nil)
	})
}

func TestInvalidatingService_SaveEntity(t *testing.T) {
	repo := &mocks.MockFeedbackRepository{
		UpsertEntityFunc: func(ctx context.Context, e models.EntityFeedback) error { return nil },
	}
	inv := &recordingInvalidator{}
	svc := newInvalidating(repo, inv)

	_, err := svc.SaveEntity(context.Background(), EntityInput{EntityID: " casino-b ", Counts: rating.NewFeedbackCounts(0, 0, 9)})
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"rating:casino-b", RatingsListCacheKey}}, inv.deleted)
}

func TestInvalidatingService_RecordFeedback(t *testing.T) {
	t.Run("drops entity and list keys after the write", func(t *testing.T) {
		repo := &mocks.MockFeedbackRepository{
			IncrementFeedbackFunc: func(ctx context.Context, id string, s models.Sentiment) error { return nil },
		}
		inv := &recordingInvalidator{}
		svc := newInvalidating(repo, inv)

		require.NoError(t, svc.RecordFeedback(context.Background(), "Casino-A", models.SentimentNeutral))
		assert.Equal(t, [][]string{{"rating:Casino-A", RatingsListCacheKey}}, inv.deleted)
	})

	t.Run("canceled request still invalidates", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		repo := &mocks.MockFeedbackRepository{
			IncrementFeedbackFunc: func(_ context.Context, id string, s models.Sentiment) error {
				cancel()
				return nil
			},
		}
		inv := &recordingInvalidator{}
		svc := newInvalidating(repo, inv)

		require.NoError(t, svc.RecordFeedback(ctx, "a", models.SentimentPositive))
		require.Len(t, inv.ctxErr, 1)
		assert.NoError(t, inv.ctxErr[0])
	})

	t.Run("failed write leaves the cache alone", func(t *testing.T) {
		repo := &mocks.MockFeedbackRepository{
			IncrementFeedbackFunc: func(ctx context.Context, id string, s models.Sentiment) error {
				return repository.ErrNotFound
			},
		}
		inv := &recordingInvalidator{}
		svc := newInvalidating(repo, inv)

		err := svc.RecordFeedback(context.Background(), "ghost", models.SentimentPositive)
		assert.ErrorIs(t, err, ErrEntityNotFound)
		assert.Empty(t, inv.deleted)
	})

	t.Run("invalidation failure is not fatal", func(t *testing.T) {
		repo := &mocks.MockFeedbackRepository{
			IncrementFeedbackFunc: func(ctx context.Context, id string, s models.Sentiment) error { return nil },
		}
		svc := newInvalidating(repo, &recordingInvalidator{err: errors.New("redis down")})

		assert.NoError(t, svc.RecordFeedback(context.Background(), "a", models.SentimentNegative))
	})
}

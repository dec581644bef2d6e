package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/godilite/feedback-ratings/internal/rating"
	"github.com/godilite/feedback-ratings/internal/repository"
	"github.com/godilite/feedback-ratings/internal/repository/models"
	"go.uber.org/zap"
)

const (
	dbTimeout = 1 * time.Second

	// maxCounter is 2^63, the first float64 that no longer fits an int64.
	maxCounter = float64(1 << 63)
)

var (
	ErrEntityNotFound   = errors.New("entity not found")
	ErrInvalidEntity    = errors.New("invalid entity")
	ErrInvalidSentiment = errors.New("invalid sentiment")
	ErrStorageFailure   = errors.New("storage failure")
)

// RatingService turns stored feedback counters into rating blocks.
type RatingService struct {
	storage FeedbackRepository
	logger  *zap.Logger
	gauge   rating.GaugeOptions
}

// NewRatingService creates a new RatingService instance.
func NewRatingService(storage FeedbackRepository, logger *zap.Logger, gauge rating.GaugeOptions) *RatingService {
	if storage == nil {
		panic("storage must not be nil")
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	return &RatingService{
		storage: storage,
		logger:  logger,
		gauge:   gauge,
	}
}

// Compute renders counts that did not come from storage.
func (s *RatingService) Compute(counts rating.FeedbackCounts) rating.Block {
	return rating.Compute(counts, s.gauge)
}

// GetRatingBlock renders the rating block of a single entity.
func (s *RatingService) GetRatingBlock(ctx context.Context, id string) (RatingBlock, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return RatingBlock{}, fmt.Errorf("%w: empty id", ErrInvalidEntity)
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	e, err := s.storage.GetEntityFeedback(dbCtx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return RatingBlock{}, fmt.Errorf("%w: %s", ErrEntityNotFound, id)
		}
		return RatingBlock{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	block := s.render(e)
	s.logger.Debug("rendered rating block",
		zap.String("entity_id", id),
		zap.Stringer("satisfaction", block.Satisfaction.Percent))
	return block, nil
}

// ListRatingBlocks renders every stored entity, one block per entity. No entities is not an error.
func (s *RatingService) ListRatingBlocks(ctx context.Context) ([]RatingBlock, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.storage.ListEntityFeedback(dbCtx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	blocks := make([]RatingBlock, 0, len(rows))
	undefined := 0
	for _, e := range rows {
		b := s.render(e)
		if !b.Satisfaction.Percent.Valid() {
			undefined++
		}
		blocks = append(blocks, b)
	}

	s.logger.Info("rendered rating blocks",
		zap.Int("count", len(blocks)),
		zap.Int("undefined", undefined))
	return blocks, nil
}

// RecordFeedback tallies one more piece of feedback for an entity.
func (s *RatingService) RecordFeedback(ctx context.Context, id string, sentiment models.Sentiment) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidEntity)
	}
	if _, ok := sentiment.Column(); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidSentiment, sentiment)
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if err := s.storage.IncrementFeedback(dbCtx, id, sentiment); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrEntityNotFound, id)
		}
		s.logger.Error("failed to record feedback",
			zap.String("entity_id", id),
			zap.String("sentiment", string(sentiment)),
			zap.Error(err))
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	s.logger.Info("recorded feedback",
		zap.String("entity_id", id),
		zap.String("sentiment", string(sentiment)))
	return nil
}

// SaveEntity stores an entity and its counters. Counters that are NaN are stored as NULL.
func (s *RatingService) SaveEntity(ctx context.Context, in EntityInput) (RatingBlock, error) {
	in.EntityID = strings.TrimSpace(in.EntityID)
	if in.EntityID == "" {
		return RatingBlock{}, fmt.Errorf("%w: empty id", ErrInvalidEntity)
	}
	if in.Name == "" {
		in.Name = in.EntityID
	}
	for _, c := range []struct {
		name  string
		value rating.Number
	}{
		{"positive", in.Counts.Positive},
		{"neutral", in.Counts.Neutral},
		{"negative", in.Counts.Negative},
	} {
		if err := checkCounter(c.value); err != nil {
			return RatingBlock{}, fmt.Errorf("%w: %s counter %v", ErrInvalidEntity, c.name, err)
		}
	}

	e := models.EntityFeedback{
		EntityID: in.EntityID,
		Name:     in.Name,
		Positive: toNullInt(in.Counts.Positive),
		Neutral:  toNullInt(in.Counts.Neutral),
		Negative: toNullInt(in.Counts.Negative),
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if err := s.storage.UpsertEntity(dbCtx, e); err != nil {
		return RatingBlock{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	e.UpdatedAt = time.Now().UTC()
	return s.render(e), nil
}

func (s *RatingService) render(e models.EntityFeedback) RatingBlock {
	counts := rating.FeedbackCounts{
		Positive: fromNullInt(e.Positive),
		Neutral:  fromNullInt(e.Neutral),
		Negative: fromNullInt(e.Negative),
	}
	return RatingBlock{
		EntityID:  e.EntityID,
		Name:      e.Name,
		UpdatedAt: e.UpdatedAt,
		Block:     rating.Compute(counts, s.gauge),
	}
}

func fromNullInt(v sql.NullInt64) rating.Number {
	if !v.Valid {
		return rating.NaN()
	}
	return rating.Number(v.Int64)
}

// checkCounter accepts NaN (stored as NULL) and whole numbers that fit a non-negative int64.
func checkCounter(n rating.Number) error {
	v := n.Float64()
	switch {
	case math.IsNaN(v):
		return nil
	case math.IsInf(v, 0), v >= maxCounter:
		return fmt.Errorf("%s is out of range", n)
	case v < 0:
		return fmt.Errorf("%s is negative", n)
	case v != math.Trunc(v):
		return fmt.Errorf("%s is not a whole number", n)
	}
	return nil
}

// toNullInt expects a counter that passed checkCounter.
func toNullInt(n rating.Number) sql.NullInt64 {
	if !n.Valid() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(n.Float64()), Valid: true}
}

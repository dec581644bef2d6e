package grpc

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/godilite/feedback-ratings/internal/rating"
	"github.com/godilite/feedback-ratings/internal/repository/models"
	"github.com/godilite/feedback-ratings/internal/service"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	defaultCacheDuration = 10 * time.Minute
	defaultGRPCTimeout   = 10 * time.Second
)

type GRPCHandlers struct {
	ratings  RatingService
	cache    Cacher
	logger   *zap.Logger
	sfGroup  singleflight.Group
	cacheTTL time.Duration
}

var _ FeedbackRatingsServer = (*GRPCHandlers)(nil)

// NewGRPCHandlers initializes the gRPC handlers.
func NewGRPCHandlers(ratings RatingService, cache Cacher, logger *zap.Logger, ttl time.Duration) *GRPCHandlers {
	if ratings == nil {
		panic("nil RatingService provided to NewGRPCHandlers")
	}
	if ttl <= 0 {
		ttl = defaultCacheDuration
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GRPCHandlers{
		ratings:  ratings,
		cache:    cache,
		logger:   logger.Named("grpc-handler"),
		cacheTTL: ttl,
	}
}

func entityKey(id string) string {
	return service.RatingCacheKey(id)
}

func (s *GRPCHandlers) entityID(req *structpb.Struct) (string, error) {
	id := strings.TrimSpace(stringField(req, "entity_id"))
	if id == "" {
		return "", status.Error(codes.InvalidArgument, "entity_id is required")
	}
	return id, nil
}

func (s *GRPCHandlers) handleError(ctx context.Context, op string, err error) error {
	switch ctx.Err() {
	case context.Canceled:
		s.logger.Warn("request canceled", zap.String("op", op))
		return status.Error(codes.Canceled, "request canceled")
	case context.DeadlineExceeded:
		s.logger.Warn("request timeout", zap.String("op", op))
		return status.Error(codes.DeadlineExceeded, "request timed out")
	}

	switch {
	case errors.Is(err, service.ErrEntityNotFound):
		s.logger.Info("entity not found", zap.String("op", op))
		return status.Error(codes.NotFound, "no rated entity with that id")
	case errors.Is(err, service.ErrInvalidEntity), errors.Is(err, service.ErrInvalidSentiment):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrStorageFailure):
		s.logger.Error("storage failure", zap.String("op", op), zap.Error(err))
		return status.Error(codes.Internal, "database error")
	default:
		s.logger.Error("unexpected error", zap.String("op", op), zap.Error(err))
		return status.Errorf(codes.Internal, "%s failed: %v", op, err)
	}
}

// GetRating returns the rating block of {"entity_id": "..."}.
func (s *GRPCHandlers) GetRating(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := s.entityID(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	block, err := FindAndCache(ctx, s.cache, &s.sfGroup, entityKey(id), s.cacheTTL, s.logger, func(fetchCtx context.Context) (service.RatingBlock, error) {
		return s.ratings.GetRatingBlock(fetchCtx, id)
	})
	if err != nil {
		return nil, s.handleError(ctx, "GetRating", err)
	}

	return s.respond("GetRating", block)
}

// ListRatings returns {"ratings": [...]} with one block per stored entity.
func (s *GRPCHandlers) ListRatings(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	blocks, err := FindAndCache(ctx, s.cache, &s.sfGroup, service.RatingsListCacheKey, s.cacheTTL, s.logger, func(fetchCtx context.Context) ([]service.RatingBlock, error) {
		return s.ratings.ListRatingBlocks(fetchCtx)
	})
	if err != nil {
		return nil, s.handleError(ctx, "ListRatings", err)
	}
	if blocks == nil {
		blocks = []service.RatingBlock{}
	}

	return s.respond("ListRatings", map[string]any{"ratings": blocks})
}

// RecordFeedback tallies {"entity_id": "...", "sentiment": "positive|neutral|negative"} and
// returns the entity's fresh rating block. Dropping the stale cache entries is up to the
// service (see service.InvalidatingService).
func (s *GRPCHandlers) RecordFeedback(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := s.entityID(req)
	if err != nil {
		return nil, err
	}
	sentiment, err := models.ParseSentiment(stringField(req, "sentiment"))
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	if err := s.ratings.RecordFeedback(ctx, id, sentiment); err != nil {
		return nil, s.handleError(ctx, "RecordFeedback", err)
	}

	block, err := s.ratings.GetRatingBlock(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, "RecordFeedback", err)
	}
	return s.respond("RecordFeedback", block)
}

// ComputeRating renders {"positive": ..., "neutral": ..., "negative": ...} without touching
// storage. Counters may be numbers or raw text; unreadable ones become NaN.
func (s *GRPCHandlers) ComputeRating(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	counts := rating.FeedbackCounts{
		Positive: counterField(req, "positive"),
		Neutral:  counterField(req, "neutral"),
		Negative: counterField(req, "negative"),
	}
	return s.respond("ComputeRating", s.ratings.Compute(counts))
}

func (s *GRPCHandlers) respond(op string, v any) (*structpb.Struct, error) {
	out, err := toStruct(v)
	if err != nil {
		s.logger.Error("response encoding failed", zap.String("op", op), zap.Error(err))
		return nil, status.Errorf(codes.Internal, "%s failed: %v", op, err)
	}
	return out, nil
}

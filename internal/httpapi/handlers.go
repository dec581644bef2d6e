package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/godilite/feedback-ratings/internal/rating"
	"github.com/godilite/feedback-ratings/internal/repository/models"
	"github.com/godilite/feedback-ratings/internal/service"
	"go.uber.org/zap"
)

type handlers struct {
	ratings RatingService
	logger  *zap.Logger
}

type feedbackRequest struct {
	Sentiment string `json:"sentiment" binding:"required"`
}

// saveRequest accepts counters as JSON numbers or as raw text.
type saveRequest struct {
	Name     string `json:"name"`
	Positive any    `json:"positive"`
	Neutral  any    `json:"neutral"`
	Negative any    `json:"negative"`
}

func (h *handlers) fail(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "request timed out"})
	case errors.Is(err, context.Canceled):
		c.JSON(499, gin.H{"error": "request canceled"})
	case errors.Is(err, service.ErrEntityNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "no rated entity with that id"})
	case errors.Is(err, service.ErrInvalidEntity), errors.Is(err, service.ErrInvalidSentiment):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrStorageFailure):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
	default:
		h.logger.Error("unexpected error", zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h *handlers) listRatings(c *gin.Context) {
	blocks, err := h.ratings.ListRatingBlocks(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ratings": blocks})
}

func (h *handlers) getRating(c *gin.Context) {
	block, err := h.ratings.GetRatingBlock(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, block)
}

func (h *handlers) saveRating(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	block, err := h.ratings.SaveEntity(c.Request.Context(), service.EntityInput{
		EntityID: c.Param("id"),
		Name:     req.Name,
		Counts: rating.FeedbackCounts{
			Positive: counterValue(req.Positive),
			Neutral:  counterValue(req.Neutral),
			Negative: counterValue(req.Negative),
		},
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, block)
}

func (h *handlers) recordFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sentiment is required"})
		return
	}
	sentiment, err := models.ParseSentiment(req.Sentiment)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	if err := h.ratings.RecordFeedback(ctx, id, sentiment); err != nil {
		h.fail(c, err)
		return
	}

	block, err := h.ratings.GetRatingBlock(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, block)
}

func (h *handlers) compute(c *gin.Context) {
	counts := rating.ParseFeedbackCounts(c.Query("positive"), c.Query("neutral"), c.Query("negative"))
	c.JSON(http.StatusOK, h.ratings.Compute(counts))
}

func counterValue(v any) rating.Number {
	switch t := v.(type) {
	case float64:
		return rating.Number(t)
	case string:
		return rating.ParseCounter(t)
	default:
		return rating.NaN()
	}
}

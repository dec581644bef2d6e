// Package httpapi serves rating blocks over JSON/HTTP.
package httpapi

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/godilite/feedback-ratings/internal/rating"
	"github.com/godilite/feedback-ratings/internal/repository/models"
	"github.com/godilite/feedback-ratings/internal/service"
	"go.uber.org/zap"
)

// RatingService is the slice of the service layer the HTTP handlers need.
type RatingService interface {
	Compute(counts rating.FeedbackCounts) rating.Block
	GetRatingBlock(ctx context.Context, id string) (service.RatingBlock, error)
	ListRatingBlocks(ctx context.Context) ([]service.RatingBlock, error)
	RecordFeedback(ctx context.Context, id string, sentiment models.Sentiment) error
	SaveEntity(ctx context.Context, in service.EntityInput) (service.RatingBlock, error)
}

// Options tune the middleware chain. A zero RateLimit disables rate limiting.
type Options struct {
	Logger         *zap.Logger
	RateLimit      float64
	RateBurst      int
	AllowedOrigins []string
}

// NewRouter builds the gin engine with all routes and middleware attached.
func NewRouter(svc RatingService, opts Options) *gin.Engine {
	if svc == nil {
		panic("rating service must not be nil")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("http")

	r := gin.New()
	r.Use(RequestID(), AccessLog(logger), Recovery(logger), corsMiddleware(opts.AllowedOrigins))
	if opts.RateLimit > 0 {
		r.Use(NewIPRateLimiter(opts.RateLimit, opts.RateBurst).Middleware())
	}

	h := &handlers{ratings: svc, logger: logger}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	v1.GET("/ratings", h.listRatings)
	v1.GET("/ratings/:id", h.getRating)
	v1.PUT("/ratings/:id", h.saveRating)
	v1.POST("/ratings/:id/feedback", h.recordFeedback)
	v1.GET("/compute", h.compute)

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader, "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

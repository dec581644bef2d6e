package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/godilite/feedback-ratings/internal/rating"
	"github.com/godilite/feedback-ratings/internal/repository"
	"github.com/godilite/feedback-ratings/internal/repository/models"
	dbbuilder "github.com/godilite/feedback-ratings/pkg/database"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

func setupRealDB(tb testing.TB) *repository.FeedbackRepository {
	tb.Helper()

	db, err := dbbuilder.New(
		dbbuilder.WithDriver("sqlite3"),
		dbbuilder.WithDataSource(":memory:"),
		dbbuilder.WithMaxOpenConns(1),
	)
	if err != nil {
		tb.Fatalf("failed to create db pool via builder: %v", err)
	}
	tb.Cleanup(func() { db.Close() })

	repo := repository.NewFeedbackRepository(db)
	ctx := context.Background()
	if err := repo.EnsureSchema(ctx); err != nil {
		tb.Fatalf("failed to create schema: %v", err)
	}

	for i := 0; i < 50; i++ {
		err := repo.UpsertEntity(ctx, models.EntityFeedback{
			EntityID: fmt.Sprintf("entity-%02d", i),
			Name:     fmt.Sprintf("Entity %d", i),
			Positive: sql.NullInt64{Int64: int64(i * 3), Valid: true},
			Neutral:  sql.NullInt64{Int64: int64(i), Valid: true},
			Negative: sql.NullInt64{Int64: int64(50 - i), Valid: true},
		})
		if err != nil {
			tb.Fatalf("failed to seed db: %v", err)
		}
	}
	return repo
}

func BenchmarkListRatingBlocks(b *testing.B) {
	svc := NewRatingService(setupRealDB(b), zap.NewNop(), rating.DefaultGaugeOptions())

	b.ReportAllocs()
	for b.Loop() {
		_, _ = svc.ListRatingBlocks(context.Background())
	}
}

func BenchmarkCompute(b *testing.B) {
	svc := NewRatingService(setupRealDB(b), zap.NewNop(), rating.DefaultGaugeOptions())
	counts := rating.NewFeedbackCounts(120, 31, 7)

	b.ReportAllocs()
	for b.Loop() {
		_ = svc.Compute(counts)
	}
}

package app

import (
	"context"
	"fmt"
	"os"

	"github.com/godilite/feedback-ratings/internal/rating"
	"github.com/godilite/feedback-ratings/internal/service"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// SeedEntity is one entry of a seed file. Counters are raw text, the same way
// they arrive from scraped pages, so unreadable values end up as NULL.
type SeedEntity struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Positive string `yaml:"positive"`
	Neutral  string `yaml:"neutral"`
	Negative string `yaml:"negative"`
}

type seedFile struct {
	Entities []SeedEntity `yaml:"entities"`
}

// Saver stores one entity; *service.RatingService satisfies it.
type Saver interface {
	SaveEntity(ctx context.Context, in service.EntityInput) (service.RatingBlock, error)
}

// LoadSeedFile reads a YAML seed file.
func LoadSeedFile(path string) ([]SeedEntity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var sf seedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return sf.Entities, nil
}

// Seed stores every entity and returns how many were written.
func Seed(ctx context.Context, saver Saver, entities []SeedEntity, logger *zap.Logger) (int, error) {
	for i, e := range entities {
		block, err := saver.SaveEntity(ctx, service.EntityInput{
			EntityID: e.ID,
			Name:     e.Name,
			Counts:   rating.ParseFeedbackCounts(e.Positive, e.Neutral, e.Negative),
		})
		if err != nil {
			return i, fmt.Errorf("seed entity %q: %w", e.ID, err)
		}
		logger.Debug("seeded entity",
			zap.String("entity_id", block.EntityID),
			zap.Stringer("satisfaction", block.Satisfaction.Percent))
	}
	return len(entities), nil
}

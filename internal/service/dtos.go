package service

import (
	"time"

	"github.com/godilite/feedback-ratings/internal/rating"
)

// RatingBlock is the rendered rating of one entity.
type RatingBlock struct {
	EntityID  string    `json:"entity_id"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
	rating.Block
}

// EntityInput carries the counters of an entity to be stored.
type EntityInput struct {
	EntityID string
	Name     string
	Counts   rating.FeedbackCounts
}

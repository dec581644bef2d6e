package models

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// EntityFeedback is one row of rated_entities. A NULL counter means the source value could
// not be read as a number.
type EntityFeedback struct {
	EntityID  string
	Name      string
	Positive  sql.NullInt64
	Neutral   sql.NullInt64
	Negative  sql.NullInt64
	UpdatedAt time.Time
}

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Column returns the rated_entities column that tallies s.
func (s Sentiment) Column() (string, bool) {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return string(s), true
	}
	return "", false
}

// ParseSentiment accepts the three sentiment names, case-insensitively.
func ParseSentiment(v string) (Sentiment, error) {
	s := Sentiment(strings.ToLower(strings.TrimSpace(v)))
	if _, ok := s.Column(); !ok {
		return "", fmt.Errorf("unknown sentiment %q", v)
	}
	return s, nil
}

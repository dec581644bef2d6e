package rating

import "time"

// GaugeOptions are the presentation parameters handed to the circular progress widget.
type GaugeOptions struct {
	Radius   int
	Width    int
	MaxValue float64
	Colors   [2]string
	Duration time.Duration
	// Text renders the centre label. Nil echoes the value as is.
	Text func(Number) string
}

// DefaultGaugeOptions mirrors the rating block on the landing page.
func DefaultGaugeOptions() GaugeOptions {
	return GaugeOptions{
		Radius:   22,
		Width:    3,
		MaxValue: 100,
		Colors:   [2]string{"#93a2b3", "#f5b635"},
		Duration: 600 * time.Millisecond,
	}
}

// Gauge is the payload a circular progress widget animates to.
type Gauge struct {
	Value      Number    `json:"value"`
	MaxValue   float64   `json:"max_value"`
	Radius     int       `json:"radius"`
	Width      int       `json:"width"`
	Colors     [2]string `json:"colors"`
	DurationMs int64     `json:"duration_ms"`
	Text       string    `json:"text"`
}

// NewGauge binds a satisfaction score to the gauge presentation options.
func NewGauge(score SatisfactionScore, opts GaugeOptions) Gauge {
	text := opts.Text
	if text == nil {
		text = Number.String
	}
	return Gauge{
		Value:      score.Percent,
		MaxValue:   opts.MaxValue,
		Radius:     opts.Radius,
		Width:      opts.Width,
		Colors:     opts.Colors,
		DurationMs: opts.Duration.Milliseconds(),
		Text:       text(score.Percent),
	}
}

// Block is everything one rating block on a page renders from its three counters.
type Block struct {
	Counts       FeedbackCounts    `json:"counts"`
	Chart        ChartProportions  `json:"chart"`
	Satisfaction SatisfactionScore `json:"satisfaction"`
	Gauge        Gauge             `json:"gauge"`
}

// Compute runs both transforms over counts and attaches the gauge payload.
func Compute(counts FeedbackCounts, opts GaugeOptions) Block {
	score := ComputeSatisfactionScore(counts)
	return Block{
		Counts:       counts,
		Chart:        ComputeChartProportions(counts),
		Satisfaction: score,
		Gauge:        NewGauge(score, opts),
	}
}

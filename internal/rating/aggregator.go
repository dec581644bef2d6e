package rating

import "math"

// FeedbackCounts holds the three sentiment tallies for one rated entity.
type FeedbackCounts struct {
	Positive Number `json:"positive"`
	Neutral  Number `json:"neutral"`
	Negative Number `json:"negative"`
}

// NewFeedbackCounts builds counts from already-parsed integers.
func NewFeedbackCounts(positive, neutral, negative int64) FeedbackCounts {
	return FeedbackCounts{
		Positive: Number(positive),
		Neutral:  Number(neutral),
		Negative: Number(negative),
	}
}

// ChartProportions are the three bar heights, each a percentage of the largest counter.
type ChartProportions struct {
	PositivePct Number `json:"positive_pct"`
	NeutralPct  Number `json:"neutral_pct"`
	NegativePct Number `json:"negative_pct"`
}

// SatisfactionScore is the share of non-negative feedback, in percent.
type SatisfactionScore struct {
	Percent Number `json:"percent"`
}

// ComputeChartProportions scales every counter against max(positive, neutral, negative)
// and rounds to two decimals. A zero maximum or a NaN counter yields NaN fields.
func ComputeChartProportions(counts FeedbackCounts) ChartProportions {
	p, n, m := counts.Positive.Float64(), counts.Neutral.Float64(), counts.Negative.Float64()
	maxPoint := math.Max(p, math.Max(n, m))

	pct := func(v float64) Number {
		return Number(roundHalfUp(v/maxPoint*100, 2))
	}

	return ChartProportions{
		PositivePct: pct(p),
		NeutralPct:  pct(n),
		NegativePct: pct(m),
	}
}

// ComputeSatisfactionScore returns (positive+neutral)/(positive+neutral+negative) in percent,
// rounded to one decimal. Neutral feedback counts as satisfied. All-zero counts yield NaN.
func ComputeSatisfactionScore(counts FeedbackCounts) SatisfactionScore {
	p, n, m := counts.Positive.Float64(), counts.Neutral.Float64(), counts.Negative.Float64()
	posPoints := p + n
	sumPoints := p + n + m

	return SatisfactionScore{
		Percent: Number(roundHalfUp(posPoints/sumPoints*100, 1)),
	}
}

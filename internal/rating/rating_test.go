package rating

import (
	"encoding/json"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// equateNumbers treats two NaN Numbers as equal.
var equateNumbers = cmp.Comparer(func(a, b Number) bool {
	return a == b || (a.IsNaN() && b.IsNaN())
})

func TestComputeChartProportions(t *testing.T) {
	tests := []struct {
		name   string
		counts FeedbackCounts
		want   ChartProportions
	}{
		{
			name:   "relative to max, not sum",
			counts: NewFeedbackCounts(1, 3, 7),
			want:   ChartProportions{PositivePct: 14.29, NeutralPct: 42.86, NegativePct: 100},
		},
		{
			name:   "positive dominates",
			counts: NewFeedbackCounts(120, 30, 6),
			want:   ChartProportions{PositivePct: 100, NeutralPct: 25, NegativePct: 5},
		},
		{
			name:   "single non-zero counter",
			counts: NewFeedbackCounts(0, 9, 0),
			want:   ChartProportions{PositivePct: 0, NeutralPct: 100, NegativePct: 0},
		},
		{
			name:   "ties share the maximum",
			counts: NewFeedbackCounts(5, 5, 1),
			want:   ChartProportions{PositivePct: 100, NeutralPct: 100, NegativePct: 20},
		},
		{
			name:   "exact eighth",
			counts: NewFeedbackCounts(1, 0, 8),
			want:   ChartProportions{PositivePct: 12.5, NeutralPct: 0, NegativePct: 100},
		},
		{
			name:   "all zero is NaN",
			counts: NewFeedbackCounts(0, 0, 0),
			want:   ChartProportions{PositivePct: NaN(), NeutralPct: NaN(), NegativePct: NaN()},
		},
		{
			name:   "unparsed counter poisons every bar",
			counts: FeedbackCounts{Positive: 4, Neutral: NaN(), Negative: 2},
			want:   ChartProportions{PositivePct: NaN(), NeutralPct: NaN(), NegativePct: NaN()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeChartProportions(tt.counts)
			if diff := cmp.Diff(tt.want, got, equateNumbers); diff != "" {
				t.Errorf("ComputeChartProportions() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestComputeSatisfactionScore(t *testing.T) {
	tests := []struct {
		name   string
		counts FeedbackCounts
		want   Number
	}{
		{"neutral counts as satisfied", NewFeedbackCounts(10, 5, 5), 75},
		{"only negative", NewFeedbackCounts(0, 0, 5), 0},
		{"only neutral", NewFeedbackCounts(0, 4, 0), 100},
		{"rounds to one decimal", NewFeedbackCounts(1, 1, 1), 66.7},
		{"exact eighth", NewFeedbackCounts(1, 0, 7), 12.5},
		{"all zero is NaN", NewFeedbackCounts(0, 0, 0), NaN()},
		{"unparsed counter is NaN", FeedbackCounts{Positive: NaN(), Neutral: 1, Negative: 1}, NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeSatisfactionScore(tt.counts)
			if diff := cmp.Diff(SatisfactionScore{Percent: tt.want}, got, equateNumbers); diff != "" {
				t.Errorf("ComputeSatisfactionScore() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestChartProportionsBounds(t *testing.T) {
	for p := int64(0); p <= 12; p++ {
		for n := int64(0); n <= 12; n++ {
			for m := int64(0); m <= 12; m++ {
				if p+n+m == 0 {
					continue
				}
				got := ComputeChartProportions(NewFeedbackCounts(p, n, m))
				fields := []Number{got.PositivePct, got.NeutralPct, got.NegativePct}

				hundreds := 0
				for _, f := range fields {
					require.True(t, f.Valid(), "counts (%d,%d,%d)", p, n, m)
					assert.GreaterOrEqual(t, f.Float64(), 0.0)
					assert.LessOrEqual(t, f.Float64(), 100.0)
					if f == 100 {
						hundreds++
					}
				}
				assert.GreaterOrEqual(t, hundreds, 1, "counts (%d,%d,%d)", p, n, m)
			}
		}
	}
}

func TestSatisfactionScoreMonotonic(t *testing.T) {
	score := func(p, n, m int64) float64 {
		return ComputeSatisfactionScore(NewFeedbackCounts(p, n, m)).Percent.Float64()
	}

	for p := int64(0); p <= 10; p++ {
		for n := int64(0); n <= 10; n++ {
			for m := int64(0); m <= 10; m++ {
				if p+n+m == 0 {
					continue
				}
				s := score(p, n, m)
				assert.GreaterOrEqual(t, s, 0.0)
				assert.LessOrEqual(t, s, 100.0)

				assert.GreaterOrEqual(t, score(p+1, n, m), s, "positive (%d,%d,%d)", p, n, m)
				assert.GreaterOrEqual(t, score(p, n+1, m), s, "neutral (%d,%d,%d)", p, n, m)
				assert.LessOrEqual(t, score(p, n, m+1), s, "negative (%d,%d,%d)", p, n, m)
			}
		}
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	counts := NewFeedbackCounts(17, 4, 9)
	first := Compute(counts, DefaultGaugeOptions())

	var wg sync.WaitGroup
	results := make([]Block, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Compute(counts, DefaultGaugeOptions())
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, math.Float64bits(first.Chart.PositivePct.Float64()), math.Float64bits(r.Chart.PositivePct.Float64()))
		assert.Equal(t, math.Float64bits(first.Satisfaction.Percent.Float64()), math.Float64bits(r.Satisfaction.Percent.Float64()))
		assert.Equal(t, first, r)
	}
}

func TestParseCounter(t *testing.T) {
	tests := []struct {
		in   string
		want Number
	}{
		{"12", 12},
		{"  7 ", 7},
		{"\n\t42\n", 42},
		{" 3", 3},
		{"12 reviews", 12},
		{"3.9", 3},
		{"-3", -3},
		{"+4", 4},
		{"0x1F", 31},
		{"007", 7},
		{"", NaN()},
		{"   ", NaN()},
		{"abc", NaN()},
		{"0x", NaN()},
		{"-", NaN()},
		{"n/a", NaN()},
		{"\u00a05", 5},
		{"\u3000\u20288", 8},
		{"\v\f\r9", 9},
		{"\ufeff11", 11},
		{"\u0085 5", NaN()},
		{"\u200b5", NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseCounter(tt.in)
			if diff := cmp.Diff(tt.want, got, equateNumbers); diff != "" {
				t.Errorf("ParseCounter(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestParseFeedbackCountsFeedsNaNThrough(t *testing.T) {
	counts := ParseFeedbackCounts("10", "", "5")

	assert.Equal(t, Number(10), counts.Positive)
	assert.True(t, counts.Neutral.IsNaN())

	block := Compute(counts, DefaultGaugeOptions())
	assert.True(t, block.Chart.PositivePct.IsNaN())
	assert.True(t, block.Satisfaction.Percent.IsNaN())
	assert.Equal(t, "NaN", block.Gauge.Text)
}

func TestNewGauge(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		g := NewGauge(SatisfactionScore{Percent: 75}, DefaultGaugeOptions())

		assert.Equal(t, Gauge{
			Value:      75,
			MaxValue:   100,
			Radius:     22,
			Width:      3,
			Colors:     [2]string{"#93a2b3", "#f5b635"},
			DurationMs: 600,
			Text:       "75",
		}, g)
	})

	t.Run("custom label", func(t *testing.T) {
		opts := DefaultGaugeOptions()
		opts.Duration = time.Second
		opts.Text = func(n Number) string {
			if !n.Valid() {
				return "-"
			}
			return n.String() + "%"
		}

		assert.Equal(t, "66.7%", NewGauge(SatisfactionScore{Percent: 66.7}, opts).Text)
		assert.Equal(t, "-", NewGauge(SatisfactionScore{Percent: NaN()}, opts).Text)
		assert.Equal(t, int64(1000), NewGauge(SatisfactionScore{}, opts).DurationMs)
	})
}

func TestNumberJSON(t *testing.T) {
	block := Compute(NewFeedbackCounts(0, 0, 0), DefaultGaugeOptions())

	data, err := json.Marshal(block)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"chart":{"positive_pct":null,"neutral_pct":null,"negative_pct":null}`)
	assert.Contains(t, string(data), `"satisfaction":{"percent":null}`)

	var decoded Block
	require.NoError(t, json.Unmarshal(data, &decoded))
	if diff := cmp.Diff(block, decoded, equateNumbers); diff != "" {
		t.Errorf("decoded block mismatch (-want +got):\n%s", diff)
	}

	data, err = json.Marshal(SatisfactionScore{Percent: 66.7})
	require.NoError(t, err)
	assert.JSONEq(t, `{"percent":66.7}`, string(data))
}

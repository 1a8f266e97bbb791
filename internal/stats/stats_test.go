package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{name: "empty", values: nil, want: 0},
		{name: "single", values: []float64{42}, want: 42},
		{name: "uniform", values: []float64{100, 100, 100, 100}, want: 100},
		{name: "mixed", values: []float64{100, 110, 90, 105, 95}, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Mean(tt.values), 1e-9)
		})
	}
}

func TestStdDev(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{name: "empty", values: nil, want: 0},
		{name: "single value has no deviation", values: []float64{500}, want: 0},
		{name: "identical values", values: []float64{100, 100, 100, 100}, want: 0},
		{name: "sample deviation", values: []float64{100, 110, 90, 105, 95}, want: 7.90569415},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, StdDev(tt.values), 1e-6)
		})
	}
}

func TestStdDevZeroIffAllEqual(t *testing.T) {
	// For any series with count >= 2, std dev is 0 exactly when all values
	// are equal.
	assert.Zero(t, StdDev([]float64{7.5, 7.5, 7.5}))
	assert.Positive(t, StdDev([]float64{7.5, 7.5, 7.6}))
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{name: "empty", values: nil, want: 0},
		{name: "odd length", values: []float64{30, 10, 20}, want: 20},
		{name: "even length averages middle pair", values: []float64{40, 10, 30, 20}, want: 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Median(tt.values), 1e-9)
		})
	}
}

func TestMedianDoesNotMutateInput(t *testing.T) {
	values := []float64{30, 10, 20}
	Median(values)
	assert.Equal(t, []float64{30, 10, 20}, values)
}

func TestPercentile(t *testing.T) {
	values := []float64{10, 20, 30, 40}

	tests := []struct {
		name string
		p    float64
		want float64
	}{
		{name: "zeroth is min", p: 0, want: 10},
		{name: "hundredth is max", p: 100, want: 40},
		{name: "quartile interpolates", p: 25, want: 17.5},
		{name: "upper quartile interpolates", p: 75, want: 32.5},
		{name: "median", p: 50, want: 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Percentile(values, tt.p), 1e-9)
		})
	}
}

func TestPercentileRank(t *testing.T) {
	values := []float64{100, 110, 90, 105, 95}

	tests := []struct {
		name string
		x    float64
		want float64
	}{
		{name: "below all", x: 1, want: 0},
		{name: "above all", x: 500, want: 100},
		{name: "at median", x: 100, want: 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, PercentileRank(values, tt.x), 1e-9)
		})
	}
}

func TestPercentileRankMonotonic(t *testing.T) {
	values := []float64{100, 110, 90, 105, 95}
	prev := math.Inf(-1)
	for x := 80.0; x <= 120.0; x += 0.5 {
		rank := PercentileRank(values, x)
		assert.GreaterOrEqual(t, rank, prev, "rank must be non-decreasing in x")
		assert.GreaterOrEqual(t, rank, 0.0)
		assert.LessOrEqual(t, rank, 100.0)
		prev = rank
	}
}

func TestCoefficientOfVariation(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{name: "too few values", values: []float64{100}, want: 0},
		{name: "non-positive mean", values: []float64{-50, 50}, want: 0},
		{name: "stable series", values: []float64{100, 100, 100}, want: 0},
		{name: "volatile series", values: []float64{100, 110, 90, 105, 95}, want: 0.0790569415},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CoefficientOfVariation(tt.values), 1e-6)
		})
	}
}

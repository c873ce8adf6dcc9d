// Package analytics is the deterministic technical-analysis kernel: pure
// functions over OHLCVBar and TradeTapeRow slices producing the nested
// indicator blocks an AgentReport embeds. Nothing here performs I/O or
// touches an LLM; every function is a straight numerical transform, tested
// as such.
package analytics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/aristath/bourseiq/internal/domain"
)

// RegimeStrength buckets an R² value into the four qualitative trend-quality
// labels every slope-based metric reports.
func RegimeStrength(r2 float64) string {
	switch {
	case r2 > 0.8:
		return "very_strong"
	case r2 > 0.5:
		return "strong"
	case r2 > 0.2:
		return "moderate"
	default:
		return "weak"
	}
}

// Slope fits a line to the last n points of series via ordinary least
// squares and returns its slope and R². A series shorter than 2 points, or
// one containing a NaN in the fitted window, yields (0, 0).
func Slope(series []float64, n int) (slope, r2 float64) {
	if n > len(series) {
		n = len(series)
	}
	if n < 2 {
		return 0, 0
	}
	window := series[len(series)-n:]

	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
		if math.IsNaN(window[i]) {
			return 0, 0
		}
	}

	b, m := stat.LinearRegression(xs, window, nil, false)
	r2 = stat.RSquared(xs, window, nil, b, m)
	if math.IsNaN(r2) {
		r2 = 0
	}
	return m, r2
}

// PercentileRank returns the fraction of the last `window` points of series
// that are less than or equal to its last value, i.e. the last value's
// percentile position within its own recent history.
func PercentileRank(series []float64, window int) float64 {
	if len(series) == 0 {
		return 0
	}
	if window > len(series) {
		window = len(series)
	}
	recent := series[len(series)-window:]
	last := recent[len(recent)-1]

	below := 0
	for _, v := range recent {
		if v <= last {
			below++
		}
	}
	return float64(below) / float64(len(recent))
}

// closes extracts the closing prices from a bar sequence.
func closes(bars []domain.OHLCVBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

func opens(bars []domain.OHLCVBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Open
	}
	return out
}

func highs(bars []domain.OHLCVBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.High
	}
	return out
}

func lows(bars []domain.OHLCVBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Low
	}
	return out
}

func volumes(bars []domain.OHLCVBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Volume
	}
	return out
}

func last(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	return series[len(series)-1]
}

package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTrend_UptrendHasPositiveSlope(t *testing.T) {
	bars := makeTrendingBars(120, 100, 0.8)
	trend := ComputeTrend(bars)

	assert.Greater(t, trend.EMA10.Slope, 0.0)
	assert.Greater(t, trend.EMA50.Slope, 0.0)
}

func TestComputeTrend_DowntrendHasNegativeSlope(t *testing.T) {
	bars := makeTrendingBars(120, 500, -0.8)
	trend := ComputeTrend(bars)

	assert.Less(t, trend.EMA10.Slope, 0.0)
}

func TestComputeTrend_ShortHistoryReturnsNeutralIchimoku(t *testing.T) {
	bars := makeFlatBars(10, 100)
	trend := ComputeTrend(bars)

	assert.Equal(t, "neutral", trend.Ichimoku.Regime)
}

func TestRegimeStrength_Buckets(t *testing.T) {
	assert.Equal(t, "very_strong", RegimeStrength(0.9))
	assert.Equal(t, "strong", RegimeStrength(0.6))
	assert.Equal(t, "moderate", RegimeStrength(0.3))
	assert.Equal(t, "weak", RegimeStrength(0.1))
}

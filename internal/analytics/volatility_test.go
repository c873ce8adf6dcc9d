package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeVolatility_FlatSeriesHasLowRealizedVol(t *testing.T) {
	bars := makeFlatBars(60, 100)
	vol := ComputeVolatility(bars)

	assert.Less(t, vol.AnnualizedVol30, 1.0)
}

func TestComputeVolatility_BollingerBoundsWrapMidline(t *testing.T) {
	bars := makeTrendingBars(60, 100, 0.5)
	vol := ComputeVolatility(bars)

	assert.Greater(t, vol.BollingerUpper, vol.BollingerLower)
}

func TestLogReturnSeries_HandlesNonPositivePrices(t *testing.T) {
	series := logReturnSeries([]float64{0, 10, 20})
	assert.Equal(t, 0.0, series[0])
}

func TestStdDev_EmptySeriesIsZero(t *testing.T) {
	assert.Equal(t, 0.0, stdDev(nil))
}

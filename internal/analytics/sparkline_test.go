package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSparkline_LengthMatchesInput(t *testing.T) {
	series := []float64{1, 2, 3, 2, 1, 5, 4}
	s := Sparkline(series)

	assert.Equal(t, len(series), len([]rune(s)))
}

func TestSparkline_FlatSeriesUsesLowestGlyph(t *testing.T) {
	s := Sparkline([]float64{5, 5, 5})
	for _, r := range s {
		assert.Equal(t, sparkGlyphs[0], r)
	}
}

func TestSparkline_EmptySeriesIsEmptyString(t *testing.T) {
	assert.Equal(t, "", Sparkline(nil))
}

func TestTrendStrip_ClassifiesUpDownDoji(t *testing.T) {
	opens := []float64{100, 100, 100}
	closes := []float64{110, 90, 100.03}
	highs := []float64{111, 101, 101}
	lows := []float64{99, 89, 99}

	seq, dojiRatio := TrendStrip(opens, closes, highs, lows)
	require.Len(t, seq, 3)
	assert.Equal(t, "UP", seq[0])
	assert.Equal(t, "DOWN", seq[1])
	assert.Equal(t, "DOJI", seq[2])
	assert.InDelta(t, 1.0/3.0, dojiRatio, 1e-9)
}

func TestTrendStrip_EmptyInputReturnsZeroRatio(t *testing.T) {
	seq, ratio := TrendStrip(nil, nil, nil, nil)
	assert.Nil(t, seq)
	assert.Equal(t, 0.0, ratio)
}

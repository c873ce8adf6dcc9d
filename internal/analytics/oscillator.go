package analytics

import "github.com/aristath/bourseiq/internal/domain"

// OscillatorBlock is the momentum-oscillator branch reading: RSI14, ADX14,
// and MACD histogram, each with its own regime classification, plus a
// combined cross-indicator market regime.
type OscillatorBlock struct {
	RSI14         domain.MetricBlock `json:"rsi14"`
	RSIRegime     string             `json:"rsi_regime"`
	ADX14         domain.MetricBlock `json:"adx14"`
	MACDHistogram domain.MetricBlock `json:"macd_histogram"`
	MACDRegime    string             `json:"macd_regime"`
	MarketRegime  string             `json:"market_regime"`
}

// ComputeOscillator produces the Oscillator worker's reading.
func ComputeOscillator(bars []domain.OHLCVBar) OscillatorBlock {
	c, h, l := closes(bars), highs(bars), lows(bars)

	rsiSeries := rsi(c, 14)
	rsiLast := last(rsiSeries)
	rsiSlope, rsiR2 := Slope(rsiSeries, 5)
	rsiRegime := "neutral"
	switch {
	case rsiLast >= 70:
		rsiRegime = "overbought"
	case rsiLast <= 30:
		rsiRegime = "oversold"
	}

	adxSeries := adx(h, l, c, 14)
	adxLast := last(adxSeries)
	adxSlope, adxR2 := Slope(adxSeries, 7)

	macdSeries := macdHistogram(c, 12, 26, 9)
	macdSlope, macdR2 := Slope(macdSeries, 4)
	macdLast := last(macdSeries)
	macdRegime := "neutral"
	switch {
	case macdLast > 0 && macdSlope > 0:
		macdRegime = "bullish_accelerating"
	case macdLast > 0:
		macdRegime = "bullish_decelerating"
	case macdLast < 0 && macdSlope < 0:
		macdRegime = "bearish_accelerating"
	case macdLast < 0:
		macdRegime = "bearish_decelerating"
	}

	return OscillatorBlock{
		RSI14: domain.MetricBlock{
			Value: rsiLast, Slope: rsiSlope, SlopeHorizonBars: 5,
			TrendQualityR2: rsiR2, Regime: RegimeStrength(rsiR2),
		},
		RSIRegime: rsiRegime,
		ADX14: domain.MetricBlock{
			Value: adxLast, Slope: adxSlope, SlopeHorizonBars: 7,
			TrendQualityR2: adxR2, Regime: RegimeStrength(adxR2),
		},
		MACDHistogram: domain.MetricBlock{
			Value: macdLast, Slope: macdSlope, SlopeHorizonBars: 4,
			TrendQualityR2: macdR2, Regime: RegimeStrength(macdR2),
		},
		MACDRegime:   macdRegime,
		MarketRegime: marketRegime(adxLast, rsiLast, macdLast),
	}
}

// marketRegime combines ADX, RSI, and the MACD histogram into a single
// cross-indicator label. Cases are checked in order; the first match wins.
func marketRegime(adx, rsi, macdHist float64) string {
	switch {
	case adx < 20 && rsi >= 40 && rsi <= 60:
		return "choppy_noise"
	case adx > 40 && macdHist > 0 && rsi > 75:
		return "bullish_climax"
	case adx > 40 && macdHist < 0 && rsi < 25:
		return "bearish_capitulation"
	case adx > 25 && macdHist > 0 && rsi >= 50 && rsi <= 75:
		return "strong_bull_trend"
	case adx > 25 && macdHist < 0 && rsi >= 25 && rsi <= 50:
		return "strong_bear_trend"
	case adx < 25 && macdHist > 0 && rsi > 60:
		return "weak_bullish"
	case adx < 25 && macdHist < 0 && rsi < 40:
		return "weak_bearish"
	default:
		return "indeterminate_transition"
	}
}

package analytics

import (
	"github.com/aristath/bourseiq/internal/domain"
)

// IchimokuBlock is the Ichimoku Kinko Hyo cloud reading: Tenkan-sen (9),
// Kijun-sen (26), Senkou Span A/B (shifted 26 bars forward), and the
// resulting cloud regime relative to the current close.
type IchimokuBlock struct {
	Tenkan   float64 `json:"tenkan"`
	Kijun    float64 `json:"kijun"`
	SenkouA  float64 `json:"senkou_a"`
	SenkouB  float64 `json:"senkou_b"`
	Regime   string  `json:"regime"` // bullish | bearish | neutral
}

// GeometryBlock is the swing-pivot market-structure reading: the most
// recent classification of higher-high/higher-low/lower-high/lower-low and
// the derived regime.
type GeometryBlock struct {
	LastPivot string `json:"last_pivot"` // HH | HL | LH | LL | ""
	Regime    string `json:"regime"`     // uptrend | downtrend | expanding_volatility | consolidation
}

// TrendBlock is the full trend-branch reading for the Trend worker.
type TrendBlock struct {
	EMA10    domain.MetricBlock `json:"ema10"`
	EMA50    domain.MetricBlock `json:"ema50"`
	EMA100   domain.MetricBlock `json:"ema100"`
	ADXRegime string            `json:"adx_regime"`
	Ichimoku  IchimokuBlock     `json:"ichimoku"`
	Geometry  GeometryBlock     `json:"market_geometry"`
}

// donchianMid returns the midpoint of the highest high and lowest low over
// the last `period` bars ending at index i (inclusive), used by both Tenkan
// and Kijun lines.
func donchianMid(high, low []float64, i, period int) float64 {
	start := i - period + 1
	if start < 0 {
		start = 0
	}
	hi, lo := high[start], low[start]
	for j := start; j <= i; j++ {
		if high[j] > hi {
			hi = high[j]
		}
		if low[j] < lo {
			lo = low[j]
		}
	}
	return (hi + lo) / 2
}

// ComputeTrend produces the Trend worker's reading. bars must contain at
// least domain.MinOHLCVBars entries.
func ComputeTrend(bars []domain.OHLCVBar) TrendBlock {
	c, h, l := closes(bars), highs(bars), lows(bars)

	atr14 := atr(h, l, c, 14)
	atrLast := last(atr14)
	if atrLast == 0 {
		atrLast = 1 // avoid division by zero when normalizing slope
	}

	ema10 := ema(c, 10)
	ema50 := ema(c, 50)
	ema100 := ema(c, 100)

	mkBlock := func(series []float64) domain.MetricBlock {
		if len(series) == 0 {
			return domain.MetricBlock{}
		}
		slope, r2 := Slope(series, 10)
		return domain.MetricBlock{
			Value:            last(series),
			Slope:            slope / atrLast,
			SlopeHorizonBars: 10,
			TrendQualityR2:   r2,
			Regime:           RegimeStrength(r2),
		}
	}

	adxSeries := adx(h, l, c, 14)
	adxLast := last(adxSeries)
	adxRegime := "ranging"
	switch {
	case adxLast > 50:
		adxRegime = "strong_trend"
	case adxLast > 25:
		adxRegime = "trending"
	}

	return TrendBlock{
		EMA10:     mkBlock(ema10),
		EMA50:     mkBlock(ema50),
		EMA100:    mkBlock(ema100),
		ADXRegime: adxRegime,
		Ichimoku:  computeIchimoku(h, l, c),
		Geometry:  computeGeometry(bars),
	}
}

func computeIchimoku(high, low, close []float64) IchimokuBlock {
	n := len(close)
	if n < 52 {
		return IchimokuBlock{Regime: "neutral"}
	}
	i := n - 1
	tenkan := donchianMid(high, low, i, 9)
	kijun := donchianMid(high, low, i, 26)
	// The cloud under the current bar was projected 26 bars earlier, so both
	// spans are computed at i-26.
	shifted := i - 26
	senkouA := (donchianMid(high, low, shifted, 9) + donchianMid(high, low, shifted, 26)) / 2
	senkouB := donchianMid(high, low, shifted, 52)

	cloudHi, cloudLo := senkouA, senkouB
	if cloudLo > cloudHi {
		cloudHi, cloudLo = cloudLo, cloudHi
	}

	regime := "neutral"
	price := close[i]
	if price > cloudHi {
		regime = "bullish"
	} else if price < cloudLo {
		regime = "bearish"
	}

	return IchimokuBlock{Tenkan: tenkan, Kijun: kijun, SenkouA: senkouA, SenkouB: senkouB, Regime: regime}
}

// computeGeometry detects the most recent ATR-gated swing pivot over a ±5
// bar window across the last 50 bars and classifies overall structure.
func computeGeometry(bars []domain.OHLCVBar) GeometryBlock {
	c, h, l := closes(bars), highs(bars), lows(bars)
	atr14 := atr(h, l, c, 14)
	atrLast := last(atr14)
	if atrLast <= 0 {
		atrLast = 1
	}

	window := 5
	start := len(bars) - 50
	if start < window {
		start = window
	}

	type pivot struct {
		kind  string // high | low
		price float64
		idx   int
	}
	var pivots []pivot

	for i := start; i < len(bars)-window; i++ {
		isHigh, isLow := true, true
		for j := i - window; j <= i+window; j++ {
			if j == i || j < 0 || j >= len(bars) {
				continue
			}
			if bars[j].High >= bars[i].High {
				isHigh = false
			}
			if bars[j].Low <= bars[i].Low {
				isLow = false
			}
		}
		if isHigh && (bars[i].High-avgAround(bars, i, window)) > 0.5*atrLast {
			pivots = append(pivots, pivot{"high", bars[i].High, i})
		}
		if isLow && (avgAround(bars, i, window)-bars[i].Low) > 0.5*atrLast {
			pivots = append(pivots, pivot{"low", bars[i].Low, i})
		}
	}

	if len(pivots) < 2 {
		return GeometryBlock{Regime: "consolidation"}
	}

	last2 := pivots[len(pivots)-2:]
	classification := ""
	switch {
	case last2[0].kind == "high" && last2[1].kind == "high":
		if last2[1].price > last2[0].price {
			classification = "HH"
		} else {
			classification = "LH"
		}
	case last2[0].kind == "low" && last2[1].kind == "low":
		if last2[1].price > last2[0].price {
			classification = "HL"
		} else {
			classification = "LL"
		}
	}

	regime := "consolidation"
	switch classification {
	case "HH", "HL":
		regime = "uptrend"
	case "LH", "LL":
		regime = "downtrend"
	}
	if classification == "" {
		regime = "expanding_volatility"
	}

	return GeometryBlock{LastPivot: classification, Regime: regime}
}

func avgAround(bars []domain.OHLCVBar, i, window int) float64 {
	sum, n := 0.0, 0
	for j := i - window; j <= i+window; j++ {
		if j == i || j < 0 || j >= len(bars) {
			continue
		}
		sum += (bars[j].High + bars[j].Low) / 2
		n++
	}
	if n == 0 {
		return (bars[i].High + bars[i].Low) / 2
	}
	return sum / float64(n)
}

package analytics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/aristath/bourseiq/internal/domain"
)

// VolatilityBlock is the volatility-branch reading: Keltner and Bollinger
// channel widths, realized volatility over two horizons, and whether the
// Bollinger band is currently squeezed inside the Keltner channel.
type VolatilityBlock struct {
	KeltnerUpper     float64 `json:"keltner_upper"`
	KeltnerLower     float64 `json:"keltner_lower"`
	BollingerUpper   float64 `json:"bollinger_upper"`
	BollingerLower   float64 `json:"bollinger_lower"`
	LogReturnStd20   float64 `json:"log_return_std_20"`
	AnnualizedVol30  float64 `json:"annualized_vol_30"`
	Squeeze          bool    `json:"squeeze"`
	Regime           string  `json:"regime"` // squeeze | expansion | normal
}

// ComputeVolatility produces the Volatility worker's reading. Keltner uses a
// 16-period EMA midline with a ±2×ATR16 envelope; Bollinger uses a 20-period
// SMA midline with ±2 standard deviations.
func ComputeVolatility(bars []domain.OHLCVBar) VolatilityBlock {
	c, h, l := closes(bars), highs(bars), lows(bars)

	emaMid := ema(c, 16)
	atr16 := atr(h, l, c, 16)
	var keltnerUpper, keltnerLower float64
	if len(emaMid) > 0 && len(atr16) > 0 {
		mid, a := last(emaMid), last(atr16)
		keltnerUpper = mid + 2*a
		keltnerLower = mid - 2*a
	}

	bbUpper, _, bbLower := bollinger(c, 20, 2, 2)
	bollingerUpper, bollingerLower := last(bbUpper), last(bbLower)

	logReturns := logReturnSeries(c)
	stdDev20 := stdDev(tail(logReturns, 20))
	annualizedVol30 := stdDev(tail(logReturns, 30)) * math.Sqrt(252)

	squeeze := bollingerUpper != 0 && keltnerUpper != 0 &&
		bollingerUpper < keltnerUpper && bollingerLower > keltnerLower

	regime := "normal"
	switch {
	case squeeze:
		regime = "squeeze"
	case bollingerUpper-bollingerLower > (keltnerUpper-keltnerLower)*1.3:
		regime = "expansion"
	}

	return VolatilityBlock{
		KeltnerUpper:    keltnerUpper,
		KeltnerLower:    keltnerLower,
		BollingerUpper:  bollingerUpper,
		BollingerLower:  bollingerLower,
		LogReturnStd20:  stdDev20,
		AnnualizedVol30: annualizedVol30,
		Squeeze:         squeeze,
		Regime:          regime,
	}
}

func logReturnSeries(close []float64) []float64 {
	if len(close) < 2 {
		return nil
	}
	out := make([]float64, 0, len(close)-1)
	for i := 1; i < len(close); i++ {
		if close[i-1] <= 0 || close[i] <= 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, math.Log(close[i]/close[i-1]))
	}
	return out
}

func tail(series []float64, n int) []float64 {
	if n > len(series) {
		n = len(series)
	}
	return series[len(series)-n:]
}

// stdDev is the sample standard deviation (gonum's stat.StdDev, ddof=1),
// matching the pandas rolling().std() the original analyzer uses. Fewer
// than two points has no defined sample variance.
func stdDev(series []float64) float64 {
	if len(series) < 2 {
		return 0
	}
	return stat.StdDev(series, nil)
}

package analytics

import (
	"math"

	"github.com/aristath/bourseiq/internal/domain"
)

// VolumeBlock is the volume-branch reading: moving-average volume ratios,
// relative volume, on-balance volume, cumulative volume delta (from bar
// direction), money-flow index, VWAP with its percent distance from the
// current close, and realized return volatility over two horizons.
type VolumeBlock struct {
	VMA20            float64 `json:"vma20"`
	VMA50            float64 `json:"vma50"`
	VMARatio         float64 `json:"vma_ratio"`
	RVOL             float64 `json:"rvol"`
	OBV              float64 `json:"obv"`
	OBVSlope         float64 `json:"obv_slope"`
	CVD              float64 `json:"cvd"`
	MFI14            float64 `json:"mfi14"`
	VWAP20           float64 `json:"vwap20"`
	VWAPDistancePct  float64 `json:"vwap_distance_pct"`
	ReturnVolatility30 float64 `json:"return_volatility_30"`
	ReturnVolatility90 float64 `json:"return_volatility_90"`
	Regime           string  `json:"regime"` // accumulation | distribution | neutral
}

// ComputeVolume produces the Volume worker's reading. tape is accepted for
// callers that still carry trade-tape rows, but CVD and the rest of this
// block are derived purely from bars, which are always present; bars must
// carry at least domain.MinOHLCVBars entries.
func ComputeVolume(bars []domain.OHLCVBar, tape []domain.TradeTapeRow) VolumeBlock {
	o, c, h, l, v := opens(bars), closes(bars), highs(bars), lows(bars), volumes(bars)

	vma20 := sma(v, 20)
	vma50 := sma(v, 50)
	vma20Last, vma50Last := last(vma20), last(vma50)
	vmaRatio := 0.0
	if vma50Last != 0 {
		vmaRatio = vma20Last / vma50Last
	}

	rvol := 0.0
	if vma20Last != 0 {
		rvol = last(v) / vma20Last
	}

	obvSeries := obv(c, v)
	obvSlope, _ := Slope(obvSeries, 10)

	cvd := cumulativeVolumeDelta(o, c, v)

	mfiSeries := mfi(h, l, c, v, 14)

	vwap, distPct := vwap20(bars)

	logReturns := logReturnSeries(c)
	rv30 := stdDev(tail(logReturns, 30)) * math.Sqrt(252) * 100
	rv90 := stdDev(tail(logReturns, 90)) * math.Sqrt(252) * 100

	regime := "neutral"
	switch {
	case obvSlope > 0 && cvd > 0:
		regime = "accumulation"
	case obvSlope < 0 && cvd < 0:
		regime = "distribution"
	}

	return VolumeBlock{
		VMA20:              vma20Last,
		VMA50:              vma50Last,
		VMARatio:           vmaRatio,
		RVOL:               rvol,
		OBV:                last(obvSeries),
		OBVSlope:           obvSlope,
		CVD:                cvd,
		MFI14:              last(mfiSeries),
		VWAP20:             vwap,
		VWAPDistancePct:    distPct,
		ReturnVolatility30: rv30,
		ReturnVolatility90: rv90,
		Regime:             regime,
	}
}

// cumulativeVolumeDelta sums, across the whole bar series, the bar's volume
// counted as buy pressure when it closes at or above its open and as sell
// pressure otherwise -- the bar-direction proxy the original analyzer uses
// in place of a true buy/sell trade-tape split.
func cumulativeVolumeDelta(open, close, volume []float64) float64 {
	var delta float64
	for i := range volume {
		if close[i] >= open[i] {
			delta += volume[i]
		} else {
			delta -= volume[i]
		}
	}
	return delta
}

// vwap20 returns the 20-bar volume-weighted average price of typical price
// ((H+L+C)/3) and the current close's percent distance from it.
func vwap20(bars []domain.OHLCVBar) (vwap, distancePct float64) {
	n := 20
	if n > len(bars) {
		n = len(bars)
	}
	if n == 0 {
		return 0, 0
	}
	window := bars[len(bars)-n:]

	var pvSum, vSum float64
	for _, b := range window {
		typical := (b.High + b.Low + b.Close) / 3
		pvSum += typical * b.Volume
		vSum += b.Volume
	}
	if vSum == 0 {
		return 0, 0
	}
	vwap = pvSum / vSum

	close := window[len(window)-1].Close
	if vwap != 0 {
		distancePct = (close - vwap) / vwap * 100
	}
	return vwap, distancePct
}

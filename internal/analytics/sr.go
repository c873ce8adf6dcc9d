package analytics

import (
	"math"
	"sort"

	"github.com/aristath/bourseiq/internal/domain"
)

// clusterGapPct is the maximum percentage gap between two raw price levels
// for them to be merged into a single support/resistance zone.
const clusterGapPct = 0.5

// level is a single raw price observation feeding the support/resistance
// clustering pass, tagged with the indicator that produced it so the
// resulting zone can report its contributors.
type level struct {
	price float64
	label string
}

// ComputeSupportResistance assembles candidate levels from EMAs, SMA50,
// VWAP, swing fractals, the volume-profile point of control, and any
// externally supplied pivots, then clusters levels within clusterGapPct of
// each other into zones, classifying each zone as support or resistance
// relative to the current close.
func ComputeSupportResistance(bars []domain.OHLCVBar, externalPivots []float64) []domain.SRZone {
	if len(bars) == 0 {
		return nil
	}
	c := closes(bars)
	currentPrice := last(c)

	var levels []level
	if v := last(ema(c, 10)); v != 0 {
		levels = append(levels, level{v, "ema10"})
	}
	if v := last(ema(c, 50)); v != 0 {
		levels = append(levels, level{v, "ema50"})
	}
	if v := last(sma(c, 50)); v != 0 {
		levels = append(levels, level{v, "sma50"})
	}
	if vwap, _ := vwap20(bars); vwap != 0 {
		levels = append(levels, level{vwap, "vwap20"})
	}
	for _, p := range swingFractals(bars) {
		levels = append(levels, level{p, "swing_fractal"})
	}
	if poc := volumeProfilePOC(bars); poc != 0 {
		levels = append(levels, level{poc, "vpvr_poc"})
	}
	for _, p := range externalPivots {
		levels = append(levels, level{p, "external_pivot"})
	}

	if len(levels) == 0 {
		return nil
	}

	sort.Slice(levels, func(i, j int) bool { return levels[i].price < levels[j].price })

	var zones []domain.SRZone
	i := 0
	for i < len(levels) {
		j := i + 1
		group := []level{levels[i]}
		for j < len(levels) && pctGap(levels[j-1].price, levels[j].price) <= clusterGapPct {
			group = append(group, levels[j])
			j++
		}
		zones = append(zones, buildZone(group, currentPrice))
		i = j
	}
	return zones
}

func pctGap(a, b float64) float64 {
	if a == 0 {
		return math.Inf(1)
	}
	return math.Abs(b-a) / math.Abs(a) * 100
}

func buildZone(group []level, currentPrice float64) domain.SRZone {
	lo, hi := group[0].price, group[0].price
	var sum float64
	contributors := make([]string, 0, len(group))
	seen := make(map[string]bool)
	for _, lv := range group {
		if lv.price < lo {
			lo = lv.price
		}
		if lv.price > hi {
			hi = lv.price
		}
		sum += lv.price
		if !seen[lv.label] {
			seen[lv.label] = true
			contributors = append(contributors, lv.label)
		}
	}
	avg := sum / float64(len(group))

	zoneType := domain.ZoneSupport
	if avg > currentPrice {
		zoneType = domain.ZoneResistance
	}

	strength := float64(len(contributors)) * 0.25
	if strength > 1.0 {
		strength = 1.0
	}

	return domain.SRZone{
		Type:          zoneType,
		PriceRange:    [2]float64{lo, hi},
		AvgPrice:      avg,
		StrengthScore: strength,
		Contributors:  contributors,
	}
}

// swingFractals scans the last 50 bars for ±5-bar local extrema and returns
// the 3 most recent fractal prices found (oldest first).
func swingFractals(bars []domain.OHLCVBar) []float64 {
	const window = 5
	const lookback = 50
	const keep = 3

	start := len(bars) - lookback
	if start < window {
		start = window
	}

	var out []float64
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
		if isHigh {
			out = append(out, bars[i].High)
		}
		if isLow {
			out = append(out, bars[i].Low)
		}
	}
	if len(out) > keep {
		out = out[len(out)-keep:]
	}
	return out
}

// volumeProfilePOC buckets closes into 30 price bins over the visible bar
// range and returns the midpoint of whichever bin accumulated the most
// volume -- the point of control.
func volumeProfilePOC(bars []domain.OHLCVBar) float64 {
	if len(bars) == 0 {
		return 0
	}
	lo, hi := bars[0].Low, bars[0].High
	for _, b := range bars {
		if b.Low < lo {
			lo = b.Low
		}
		if b.High > hi {
			hi = b.High
		}
	}
	if hi <= lo {
		return 0
	}

	const bins = 30
	binWidth := (hi - lo) / bins
	volumeByBin := make([]float64, bins)
	for _, b := range bars {
		idx := int((b.Close - lo) / binWidth)
		if idx < 0 {
			idx = 0
		}
		if idx >= bins {
			idx = bins - 1
		}
		volumeByBin[idx] += b.Volume
	}

	maxIdx := 0
	for i, v := range volumeByBin {
		if v > volumeByBin[maxIdx] {
			maxIdx = i
		}
	}
	return lo + binWidth*(float64(maxIdx)+0.5)
}

package analytics

import "github.com/aristath/bourseiq/internal/domain"

// Result is the full technical-analysis reading the kernel produces for one
// asset's bar history. Workers read individual blocks; the orchestrator
// flattens it into AssetDocument.TechnicalAnalysis.
type Result struct {
	Trend             TrendBlock        `json:"trend"`
	Oscillator        OscillatorBlock   `json:"oscillator"`
	Volatility        VolatilityBlock   `json:"volatility"`
	Volume            VolumeBlock       `json:"volume"`
	SupportResistance []domain.SRZone   `json:"support_resistance"`
	SmartMoney        []SmartMoneyBlock `json:"smart_money,omitempty"`
	PriceSparkline    string            `json:"price_sparkline"`
	TrendStripSeq     []string          `json:"trend_strip"`
	DojiRatio         float64           `json:"doji_ratio"`
}

// Run computes the complete technical-analysis reading for bars (and,
// optionally, tape). It returns domain.ErrInsufficientBars if bars has fewer
// than domain.MinOHLCVBars entries -- every block below assumes that floor.
func Run(bars []domain.OHLCVBar, tape []domain.TradeTapeRow, externalPivots []float64) (Result, error) {
	if len(bars) < domain.MinOHLCVBars {
		return Result{}, domain.ErrInsufficientBars
	}

	opens := make([]float64, len(bars))
	for i, b := range bars {
		opens[i] = b.Open
	}
	c, h, l := closes(bars), highs(bars), lows(bars)

	sparkWindow := tail(c, 30)
	seq, dojiRatio := TrendStrip(tail(opens, 30), sparkWindow, tail(h, 30), tail(l, 30))

	var smartMoney []SmartMoneyBlock
	if len(tape) > 0 {
		smartMoney = ComputeSmartMoneySeries(tape)
	}

	return Result{
		Trend:             ComputeTrend(bars),
		Oscillator:        ComputeOscillator(bars),
		Volatility:        ComputeVolatility(bars),
		Volume:            ComputeVolume(bars, tape),
		SupportResistance: ComputeSupportResistance(bars, externalPivots),
		SmartMoney:        smartMoney,
		PriceSparkline:    Sparkline(sparkWindow),
		TrendStripSeq:     seq,
		DojiRatio:         dojiRatio,
	}, nil
}

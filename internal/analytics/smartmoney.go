package analytics

import "github.com/aristath/bourseiq/internal/domain"

// SmartMoneyBlock classifies the retail/institutional flow recorded on a
// single trade-tape row: per-capita buy/sell size (volume per trader,
// scaled to millions so the ratio is readable across symbols of very
// different liquidity) against the real (individual) net ownership flow
// taken from the person owner-change column, classified into one of five
// status bands.
type SmartMoneyBlock struct {
	PerCapitaBuy  float64 `json:"per_capita_buy"`
	PerCapitaSell float64 `json:"per_capita_sell"`
	Ratio         float64 `json:"ratio"` // per-capita buy / per-capita sell
	RealNetFlow   float64 `json:"real_net_flow"`
	Status        string  `json:"status"`
}

// perCapitaScale converts raw share-volume-per-trader (and owner-change
// share counts) into millions, matching the units the status thresholds
// below are tuned against.
const perCapitaScale = 1e6

// ComputeSmartMoney classifies one trade-tape row.
func ComputeSmartMoney(row domain.TradeTapeRow) SmartMoneyBlock {
	var perCapitaBuy, perCapitaSell float64
	if row.PersonBuyerCount > 0 {
		perCapitaBuy = row.PersonBuyVolume / float64(row.PersonBuyerCount) / perCapitaScale
	}
	if row.PersonSellerCount > 0 {
		perCapitaSell = row.PersonSellVolume / float64(row.PersonSellerCount) / perCapitaScale
	}

	ratio := 0.0
	switch {
	case perCapitaSell > 0:
		ratio = perCapitaBuy / perCapitaSell
	case perCapitaBuy > 0:
		ratio = perCapitaBuy / 1e-9 // sellers absent: unambiguously buy-skewed
	}

	realNetFlow := row.PersonOwnerChange / perCapitaScale

	status := "Normal"
	switch {
	case ratio >= 1.2 && realNetFlow > 0:
		status = "Smart Money Entry"
	case ratio < 0.1:
		status = "Abnormal Divergence"
	case ratio < 1 && realNetFlow < 0:
		status = "High Selling Pressure"
	case ratio < 1 && realNetFlow > 0:
		status = "Divergence (Retail Buying)"
	}

	return SmartMoneyBlock{
		PerCapitaBuy:  perCapitaBuy,
		PerCapitaSell: perCapitaSell,
		Ratio:         ratio,
		RealNetFlow:   realNetFlow,
		Status:        status,
	}
}

// ComputeSmartMoneySeries classifies every row in tape, newest row last in
// the returned slice if tape is already ordered that way.
func ComputeSmartMoneySeries(tape []domain.TradeTapeRow) []SmartMoneyBlock {
	out := make([]SmartMoneyBlock, len(tape))
	for i, row := range tape {
		out[i] = ComputeSmartMoney(row)
	}
	return out
}

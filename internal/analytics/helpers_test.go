package analytics

import (
	"time"

	"github.com/aristath/bourseiq/internal/domain"
)

// makeTrendingBars builds n synthetic daily bars starting at basePrice and
// advancing by step per bar (step > 0 for an uptrend, < 0 for a downtrend),
// with a small deterministic oscillation so indicators needing a nonzero
// range (ATR, Bollinger) don't degenerate.
func makeTrendingBars(n int, basePrice, step float64) []domain.OHLCVBar {
	bars := make([]domain.OHLCVBar, n)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	price := basePrice
	for i := 0; i < n; i++ {
		wiggle := 0.0
		if i%2 == 0 {
			wiggle = 0.3
		} else {
			wiggle = -0.2
		}
		open := price
		close := price + step + wiggle
		high := close
		if high < open {
			high = open
		}
		high += 0.5
		low := open
		if close < low {
			low = close
		}
		low -= 0.5

		bars[i] = domain.OHLCVBar{
			Date:   start.AddDate(0, 0, i),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  close,
			Volume: 1000 + float64(i%7)*50,
		}
		price = close
	}
	return bars
}

func makeFlatBars(n int, price float64) []domain.OHLCVBar {
	return makeTrendingBars(n, price, 0)
}

func makeTapeRow(buyVol float64, buyers int64, sellVol float64, sellers int64) domain.TradeTapeRow {
	return makeTapeRowWithOwnerChange(buyVol, buyers, sellVol, sellers, 0, 0)
}

func makeTapeRowWithOwnerChange(buyVol float64, buyers int64, sellVol float64, sellers int64, personOwnerChange, companyOwnerChange float64) domain.TradeTapeRow {
	return domain.TradeTapeRow{
		DateTime:           time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		PersonBuyVolume:    buyVol,
		PersonBuyerCount:   buyers,
		PersonSellVolume:   sellVol,
		PersonSellerCount:  sellers,
		PersonOwnerChange:  personOwnerChange,
		CompanyOwnerChange: companyOwnerChange,
	}
}

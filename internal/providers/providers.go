// Package providers is the boundary between the data orchestrator and the
// Tehran Stock Exchange-style data sources it depends on: market data,
// social sentiment, and external search. Every client here is an interface
// so the orchestrator can be driven by a fake in tests; the one concrete
// implementation in this package is a bounded, retrying HTTP client.
package providers

import (
	"context"

	"github.com/aristath/bourseiq/internal/domain"
)

// PivotSet is an externally supplied pivot level, fed into the
// support/resistance clustering alongside the internally derived ones.
type PivotSet struct {
	Label string
	Price float64
}

// MarketClient resolves a symbol to a provider asset id and pulls every
// market-data field the orchestrator gathers concurrently in step 2 of its
// execute sequence.
type MarketClient interface {
	ResolveAssetID(ctx context.Context, symbol domain.Symbol) (string, error)
	TradeHistory(ctx context.Context, assetID string, days int) ([]domain.OHLCVBar, error)
	AssetDetails(ctx context.Context, assetID string) (AssetDetails, error)
	PivotIndicators(ctx context.Context, assetID string) ([]PivotSet, error)
	BalanceSheet(ctx context.Context, assetID string) (domain.FinancialTable, error)
	ProfitLoss(ctx context.Context, assetID string) (domain.FinancialTable, error)
	CashFlow(ctx context.Context, assetID string) (domain.FinancialTable, error)
	Ratios(ctx context.Context, assetID string) (domain.FinancialTable, error)
	NewsFeed(ctx context.Context, assetID string) ([]domain.NewsItem, error)
	TradeTapeDetail(ctx context.Context, assetID string, days int) ([]domain.TradeTapeRow, error)
}

// AssetDetails is the provider's descriptive snapshot of the symbol: its
// display name, current price, and the top-level reference ratios.
type AssetDetails struct {
	ShortName    string
	CurrentPrice float64
	Ratios       domain.ReferenceRatios
}

// SocialClient gathers the non-critical social fields of step 3: empty
// results on failure are acceptable, callers never abort on a SocialClient
// error.
type SocialClient interface {
	TradeInfo(ctx context.Context, symbol domain.Symbol) (string, error)
	OverallInfo(ctx context.Context, symbol domain.Symbol) (string, error)
	Tweets(ctx context.Context, symbol domain.Symbol) ([]string, error)
	CodalNotices(ctx context.Context, symbol domain.Symbol) ([]domain.CodalItem, error)
}

// SearchClient is the external, rate-limited search surface: recent tweets
// discovered outside the social provider, plus a narrative summary.
type SearchClient interface {
	RateLimitedTweets(ctx context.Context, symbol domain.Symbol) ([]string, error)
	NarrativeSummary(ctx context.Context, symbol domain.Symbol) (string, error)
}

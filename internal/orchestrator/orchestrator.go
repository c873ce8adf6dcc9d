// Package orchestrator is the data-ingestion pipeline: it resolves a symbol
// to a provider asset id, gathers every market/social/search field the
// analysis depends on (tolerating per-field failure), runs the analytics
// kernel over the resulting OHLCV history, and assembles the canonical
// AssetDocument the workflow's agent nodes read from.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/bourseiq/internal/analytics"
	"github.com/aristath/bourseiq/internal/domain"
	"github.com/aristath/bourseiq/internal/providers"
	"github.com/aristath/bourseiq/internal/store"
)

// ErrInsufficientData means the provider fetch failed badly enough (no
// resolvable asset id, or no usable bar history) that no document can be
// assembled, even partially.
var ErrInsufficientData = errors.New("orchestrator: insufficient provider data")

// tradeHistoryDays and tradeTapeDays match the ingestion step's fixed
// lookback windows.
const (
	tradeHistoryDays = 365
	tradeTapeDays    = 7
)

// Orchestrator wires the provider clients and the document store together.
type Orchestrator struct {
	Market   providers.MarketClient
	Social   providers.SocialClient
	Search   providers.SearchClient
	Store    *store.Store
	Log      zerolog.Logger

	// AllowMockFallback opts into synthesizing a placeholder AssetDocument
	// (see MockDocument) when Execute would otherwise return
	// ErrInsufficientData -- never engaged silently.
	AllowMockFallback bool
}

// New builds an Orchestrator.
func New(market providers.MarketClient, social providers.SocialClient, search providers.SearchClient, st *store.Store, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		Market: market,
		Social: social,
		Search: search,
		Store:  st,
		Log:    log.With().Str("component", "orchestrator").Logger(),
	}
}

// criticalFetch is the result bundle of step 2's concurrent, per-field
// isolated fetch.
type criticalFetch struct {
	bars          []domain.OHLCVBar
	details       providers.AssetDetails
	pivots        []providers.PivotSet
	balanceSheet  domain.FinancialTable
	profitLoss    domain.FinancialTable
	cashFlow      domain.FinancialTable
	ratios        domain.FinancialTable
	news          []domain.NewsItem
	tape          []domain.TradeTapeRow
}

// Execute runs the full per-symbol ingestion sequence, per the orchestrator
// contract: resolve asset id, concurrent isolated fetch, analytics kernel,
// social merge, assemble and upsert.
func (o *Orchestrator) Execute(ctx context.Context, symbol domain.Symbol, providerID string) (*domain.AssetDocument, error) {
	assetID, err := o.Market.ResolveAssetID(ctx, symbol)
	if err != nil {
		o.Log.Warn().Err(err).Str("symbol", string(symbol)).Msg("symbol resolution failed")
		if o.AllowMockFallback {
			doc := MockDocument(symbol, providerID)
			return doc, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrInsufficientData, err)
	}

	fetch := o.gatherCritical(ctx, assetID)

	if len(fetch.bars) < domain.MinOHLCVBars {
		o.Log.Warn().Str("symbol", string(symbol)).Int("bars", len(fetch.bars)).Msg("insufficient OHLCV history")
		if o.AllowMockFallback {
			return MockDocument(symbol, providerID), nil
		}
		return nil, fmt.Errorf("%w: %v", ErrInsufficientData, domain.ErrInsufficientBars)
	}

	pivotPrices := make([]float64, len(fetch.pivots))
	for i, p := range fetch.pivots {
		pivotPrices[i] = p.Price
	}

	technical, err := analytics.Run(fetch.bars, fetch.tape, pivotPrices)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: analytics kernel: %w", err)
	}

	socialFields := o.gatherSocial(ctx, symbol)

	doc := &domain.AssetDocument{
		TradeSymbol:      symbol,
		ShortName:        fetch.details.ShortName,
		ProviderID:       providerID,
		AnalysisDatetime: time.Now().UTC(),
		CurrentPrice:     fetch.details.CurrentPrice,
		GeneralSnapshot:  fetch.details.Ratios,
		TechnicalAnalysis: map[string]interface{}{
			"trend":             technical.Trend,
			"oscillator":        technical.Oscillator,
			"volatility":        technical.Volatility,
			"volume":            technical.Volume,
			"support_resistance": technical.SupportResistance,
			"smart_money":       technical.SmartMoney,
			"price_sparkline":   technical.PriceSparkline,
			"trend_strip":       technical.TrendStripSeq,
			"doji_ratio":        technical.DojiRatio,
		},
		FundamentalAnalysis: domain.FundamentalAnalysis{
			BalanceSheet:    fetch.balanceSheet,
			ProfitLoss:      fetch.profitLoss,
			CashFlow:        fetch.cashFlow,
			FinancialRatios: fetch.ratios,
		},
		SocialPost: domain.SocialPost{
			Tweets:       socialFields.tweets,
			SearchTweets: socialFields.searchTweets,
		},
		NewsAnnouncements: domain.NewsAnnouncements{
			News:         fetch.news,
			CodalFilings: socialFields.codal,
		},
		Search:   socialFields.mergedDetails(),
		Bars:     fetch.bars,
		TapeRows: fetch.tape,
	}

	if err := o.Store.Upsert(ctx, doc); err != nil {
		return nil, fmt.Errorf("orchestrator: upsert document: %w", err)
	}
	return doc, nil
}

// gatherCritical runs step 2: the concurrent, per-field isolated fetch of
// every field the analytics kernel and fundamental reports depend on.
func (o *Orchestrator) gatherCritical(ctx context.Context, assetID string) criticalFetch {
	var out criticalFetch

	results := providers.GatherWithIsolation(ctx, map[string]func(context.Context) error{
		"trade_history": func(ctx context.Context) error {
			bars, err := o.Market.TradeHistory(ctx, assetID, tradeHistoryDays)
			out.bars = bars
			return err
		},
		"asset_details": func(ctx context.Context) error {
			details, err := o.Market.AssetDetails(ctx, assetID)
			out.details = details
			return err
		},
		"pivot_indicators": func(ctx context.Context) error {
			pivots, err := o.Market.PivotIndicators(ctx, assetID)
			out.pivots = pivots
			return err
		},
		"balance_sheet": func(ctx context.Context) error {
			table, err := o.Market.BalanceSheet(ctx, assetID)
			out.balanceSheet = table
			return err
		},
		"profit_loss": func(ctx context.Context) error {
			table, err := o.Market.ProfitLoss(ctx, assetID)
			out.profitLoss = table
			return err
		},
		"cash_flow": func(ctx context.Context) error {
			table, err := o.Market.CashFlow(ctx, assetID)
			out.cashFlow = table
			return err
		},
		"ratios": func(ctx context.Context) error {
			table, err := o.Market.Ratios(ctx, assetID)
			out.ratios = table
			return err
		},
		"news_feed": func(ctx context.Context) error {
			news, err := o.Market.NewsFeed(ctx, assetID)
			out.news = news
			return err
		},
		"trade_tape": func(ctx context.Context) error {
			tape, err := o.Market.TradeTapeDetail(ctx, assetID, tradeTapeDays)
			out.tape = tape
			return err
		},
	})

	for _, r := range results {
		if r.Err != nil {
			o.Log.Warn().Err(r.Err).Str("field", r.Field).Msg("critical field fetch failed, continuing")
		}
	}
	return out
}

// socialFetch is the result bundle of step 3's non-critical concurrent
// fetch: every field defaults to its zero value on failure.
type socialFetch struct {
	tweets       []string
	searchTweets []string
	codal        []domain.CodalItem
	narrative    string
	tradeInfo    string
	overallInfo  string
}

// mergedDetails joins the free-text social fields into one string per the
// "merge auxiliary fields from social into details" step -- trade-info and
// overall-info precede the external narrative summary.
func (s socialFetch) mergedDetails() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{s.tradeInfo, s.overallInfo, s.narrative} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	merged := ""
	for i, p := range parts {
		if i > 0 {
			merged += "\n\n"
		}
		merged += p
	}
	return merged
}

// gatherSocial runs step 3: social + external search, empty-on-failure.
func (o *Orchestrator) gatherSocial(ctx context.Context, symbol domain.Symbol) socialFetch {
	var out socialFetch

	results := providers.GatherWithIsolation(ctx, map[string]func(context.Context) error{
		"social_trade_info": func(ctx context.Context) error {
			text, err := o.Social.TradeInfo(ctx, symbol)
			out.tradeInfo = text
			return err
		},
		"social_overall_info": func(ctx context.Context) error {
			text, err := o.Social.OverallInfo(ctx, symbol)
			out.overallInfo = text
			return err
		},
		"social_tweets": func(ctx context.Context) error {
			tweets, err := o.Social.Tweets(ctx, symbol)
			out.tweets = tweets
			return err
		},
		"social_codal": func(ctx context.Context) error {
			codal, err := o.Social.CodalNotices(ctx, symbol)
			out.codal = codal
			return err
		},
		"search_tweets": func(ctx context.Context) error {
			tweets, err := o.Search.RateLimitedTweets(ctx, symbol)
			out.searchTweets = tweets
			return err
		},
		"search_narrative": func(ctx context.Context) error {
			narrative, err := o.Search.NarrativeSummary(ctx, symbol)
			out.narrative = narrative
			return err
		},
	})

	for _, r := range results {
		if r.Err != nil {
			o.Log.Debug().Err(r.Err).Str("field", r.Field).Msg("non-critical social field failed")
		}
	}
	return out
}

// ShouldRun delegates to the store's freshness predicate.
func (o *Orchestrator) ShouldRun(ctx context.Context, documentID string) (bool, error) {
	return o.Store.ShouldRun(ctx, documentID)
}

// Package domain holds the canonical data entities shared across the
// ingestion pipeline, the analytics kernel, and the workflow engine: the
// persistent AssetDocument and its OHLCV/trade-tape inputs, and the
// LLM-produced report types every agent node and consensus stage reads and
// writes.
package domain

import "time"

// Symbol is a Tehran Stock Exchange ticker. It is Unicode text (Persian
// script tickers are common) and is never constrained to ASCII.
type Symbol string

// MinOHLCVBars is the minimum bar count the analytics kernel requires before
// it will compute a technical-analysis block.
const MinOHLCVBars = 50

// OHLCVBar is one daily price/volume bar. Sequences are ordered oldest
// first (newest last) after normalization.
type OHLCVBar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// TradeTapeRow is one daily retail/institutional flow record, ordered
// newest-first in raw provider form.
type TradeTapeRow struct {
	DateTime         time.Time
	PersonBuyVolume  float64
	PersonBuyerCount int64
	PersonSellVolume float64
	PersonSellerCount int64
	PersonOwnerChange  float64
	CompanyOwnerChange float64
}

// ReferenceRatios is the snapshot of price-derived ratios surfaced at the
// top level of an AssetDocument (general_snapshot).
type ReferenceRatios struct {
	PE         *float64 `json:"pe,omitempty"`
	PS         *float64 `json:"ps,omitempty"`
	EPS        *float64 `json:"eps,omitempty"`
	MarketCap  *float64 `json:"market_cap,omitempty"`
	FreeFloat  *float64 `json:"free_float,omitempty"`
}

// FinancialTable maps a report-line label (e.g. "Revenue") to a mapping from
// fiscal-period label (e.g. "1403Q4") to the reported numeric value.
type FinancialTable map[string]map[string]float64

// FundamentalAnalysis bundles the four fundamental report tables.
type FundamentalAnalysis struct {
	BalanceSheet    FinancialTable `json:"balance_sheet,omitempty"`
	ProfitLoss      FinancialTable `json:"profit_loss,omitempty"`
	CashFlow        FinancialTable `json:"cash_flow,omitempty"`
	FinancialRatios FinancialTable `json:"financial_ratios,omitempty"`
}

// SocialPost bundles the two tweet-source slices the orchestrator gathers.
type SocialPost struct {
	Tweets       []string `json:"tweets,omitempty"`
	SearchTweets []string `json:"search_tweets,omitempty"`
}

// NewsAnnouncements bundles the news feed and Codal regulatory filings.
type NewsAnnouncements struct {
	News          []NewsItem  `json:"news,omitempty"`
	CodalFilings  []CodalItem `json:"codal_filings,omitempty"`
}

// NewsItem is one market news headline.
type NewsItem struct {
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	Published time.Time `json:"published"`
	Source    string    `json:"source,omitempty"`
}

// CodalItem is one regulatory-filing notice from the Codal portal.
type CodalItem struct {
	Title     string    `json:"title"`
	URL       string    `json:"url,omitempty"`
	Published time.Time `json:"published"`
	Category  string    `json:"category,omitempty"`
}

// AssetDocument is the persistent, per-symbol-per-provider canonical
// document. It is keyed by DocumentID() = "{trade_symbol}_{provider_id}".
//
// Invariant: AnalysisDatetime only ever advances on refresh; a refresh
// overwrites the document in place, it never appends.
type AssetDocument struct {
	TradeSymbol  Symbol `json:"trade_symbol"`
	ShortName    string `json:"short_name"`
	ProviderID   string `json:"provider_id"`

	AnalysisDatetime time.Time `json:"analysis_datetime"`
	CurrentPrice     float64   `json:"current_price"`

	GeneralSnapshot    ReferenceRatios        `json:"general_snapshot"`
	TechnicalAnalysis  map[string]interface{} `json:"technical_analysis,omitempty"`
	FundamentalAnalysis FundamentalAnalysis   `json:"fundamental_analysis"`
	SocialPost         SocialPost             `json:"social_post"`
	NewsAnnouncements  NewsAnnouncements      `json:"news_announcements"`
	Search             string                 `json:"search,omitempty"`

	Bars      []OHLCVBar     `json:"-"`
	TapeRows  []TradeTapeRow `json:"-"`
}

// DocumentID returns the store key "{trade_symbol}_{provider_id}".
func (d *AssetDocument) DocumentID() string {
	return string(d.TradeSymbol) + "_" + d.ProviderID
}

// Confidence is a bounded-vocabulary confidence grade shared by every
// AgentReport.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// MetricBlock is one scalar key-metric reading with its trend context:
// a slope, the R² of the regression that produced it, and a regime label.
type MetricBlock struct {
	Value   float64 `json:"value"`
	Slope   float64 `json:"slope"`
	SlopeHorizonBars int `json:"slope_horizon_bars"`
	TrendQualityR2   float64 `json:"trend_quality_r2"`
	Regime  string  `json:"regime"`
}

// AgentReport is the structured verdict every worker node produces.
// Domain-specific schemas embed this alongside their own metric blocks.
type AgentReport struct {
	Verdict    string       `json:"verdict"`
	Confidence Confidence   `json:"confidence"`
	Summary    string       `json:"summary"`
	Causes     []string     `json:"causes,omitempty"`
	RiskFlags  []string     `json:"risk_flags,omitempty"`
	Metrics    map[string]MetricBlock `json:"metrics,omitempty"`
}

// Signal is the consensus stage's final enumerated call.
type Signal string

const (
	SignalStrongBuy  Signal = "STRONG_BUY"
	SignalBuy        Signal = "BUY"
	SignalNeutral    Signal = "NEUTRAL"
	SignalSell       Signal = "SELL"
	SignalStrongSell Signal = "STRONG_SELL"
)

// Scenario is a forward-looking branch-specific projection.
type Scenario struct {
	Type                 string  `json:"type"`
	Probability          float64 `json:"probability"`
	Description          string  `json:"description"`
	InvalidationCondition string `json:"invalidation_condition"`
}

// ConsensusReport is the per-branch fusion of its sibling worker reports.
type ConsensusReport struct {
	Signal            Signal     `json:"signal"`
	Confidence        float64    `json:"confidence"`
	ExecutiveSummary  string     `json:"executive_summary"`
	ConfluenceFactors []string   `json:"confluence_factors,omitempty"`
	ConflictAlerts    []string   `json:"conflict_alerts,omitempty"`
	Scenarios         []Scenario `json:"scenarios,omitempty"`
}

// ZoneType distinguishes a support level from a resistance level.
type ZoneType string

const (
	ZoneSupport    ZoneType = "SUPPORT"
	ZoneResistance ZoneType = "RESISTANCE"
)

// SRZone is one clustered support/resistance level.
type SRZone struct {
	Type          ZoneType `json:"type"`
	PriceRange    [2]float64 `json:"price_range"`
	AvgPrice      float64    `json:"avg_price"`
	StrengthScore float64    `json:"strength_score"`
	Contributors  []string   `json:"contributors"`
}

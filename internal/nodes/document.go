// Package nodes is the set of per-branch worker, consensus, reporter, and
// introduction node functions that run inside the request-scoped workflow
// graph: each reads its slice of the canonical AssetDocument (plus the
// visual sparkline sidecar), invokes the structured-LLM invoker with its
// report schema, and writes its named fragment back onto the blackboard.
package nodes

import (
	"fmt"

	"github.com/aristath/bourseiq/internal/domain"
	"github.com/aristath/bourseiq/internal/workflow"
)

// State keys written and read across the graph. The node constructors in
// this package and its subpackages read and write them, and internal/di
// reuses them as graph node IDs, so the wiring there is the single place
// that has to get the DependsOn lists right.
const (
	KeyAssetDocument = "asset_document"
	KeySymbol        = "symbol"

	KeyTechnicalTrend             = "technical_trend"
	KeyTechnicalOscillator        = "technical_oscillator"
	KeyTechnicalVolatility        = "technical_volatility"
	KeyTechnicalVolume            = "technical_volume"
	KeyTechnicalSupportResistance = "technical_support_resistance"
	KeyTechnicalSmartMoney        = "technical_smart_money"

	KeyFundamentalBalanceSheet = "fundamental_balance_sheet"
	KeyFundamentalProfitLoss   = "fundamental_profit_loss"
	KeyFundamentalCashFlow     = "fundamental_cash_flow"
	KeyFundamentalRatios       = "fundamental_ratios"

	KeySocialSentiment = "social_sentiment"
	KeySocialNews      = "social_news"
	KeySocialCodal     = "social_codal"

	KeyConsensusTechnical   = "consensus_technical"
	KeyConsensusFundamental = "consensus_fundamental"
	KeyConsensusSocial      = "consensus_social"

	KeyFinalReport = "final_report"
)

// TechnicalReportKeys, FundamentalReportKeys, and SocialReportKeys list the
// sibling report keys each branch's consensus node gates on.
var (
	TechnicalReportKeys = []string{
		KeyTechnicalTrend, KeyTechnicalOscillator, KeyTechnicalVolatility,
		KeyTechnicalVolume, KeyTechnicalSupportResistance, KeyTechnicalSmartMoney,
	}
	FundamentalReportKeys = []string{
		KeyFundamentalBalanceSheet, KeyFundamentalProfitLoss, KeyFundamentalCashFlow, KeyFundamentalRatios,
	}
	SocialReportKeys = []string{KeySocialSentiment, KeySocialNews, KeySocialCodal}
)

// AssetDocument reads and type-asserts the canonical document off state.
func AssetDocument(state *workflow.State) (*domain.AssetDocument, error) {
	raw, ok := state.Get(KeyAssetDocument)
	if !ok {
		return nil, fmt.Errorf("nodes: %q missing from state", KeyAssetDocument)
	}
	doc, ok := raw.(*domain.AssetDocument)
	if !ok {
		return nil, fmt.Errorf("nodes: %q has unexpected type %T", KeyAssetDocument, raw)
	}
	return doc, nil
}

// Report reads and type-asserts a named sibling report off state.
func Report(state *workflow.State, key string) (domain.AgentReport, error) {
	raw, ok := state.Get(key)
	if !ok {
		return domain.AgentReport{}, fmt.Errorf("nodes: %q missing from state", key)
	}
	rep, ok := raw.(domain.AgentReport)
	if !ok {
		return domain.AgentReport{}, fmt.Errorf("nodes: %q has unexpected type %T", key, raw)
	}
	return rep, nil
}

// ConsensusReportFrom reads and type-asserts a named branch consensus off
// state.
func ConsensusReportFrom(state *workflow.State, key string) (domain.ConsensusReport, error) {
	raw, ok := state.Get(key)
	if !ok {
		return domain.ConsensusReport{}, fmt.Errorf("nodes: %q missing from state", key)
	}
	rep, ok := raw.(domain.ConsensusReport)
	if !ok {
		return domain.ConsensusReport{}, fmt.Errorf("nodes: %q has unexpected type %T", key, raw)
	}
	return rep, nil
}

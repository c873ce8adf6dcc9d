// Package technical holds the six technical-analysis worker nodes: each
// reads one block of AssetDocument.TechnicalAnalysis and produces a
// structured AgentReport verdict over it.
package technical

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/bourseiq/internal/domain"
	"github.com/aristath/bourseiq/internal/llm"
	"github.com/aristath/bourseiq/internal/nodes"
	"github.com/aristath/bourseiq/internal/workflow"
)

func block(doc *domain.AssetDocument, key string) any {
	return doc.TechnicalAnalysis[key]
}

const systemPromptTemplate = `You are a technical-analysis worker in a Tehran Stock Exchange investment
report pipeline. You are given one block of pre-computed technical
indicators for %s. Produce a concise, evidence-based verdict strictly in
the required JSON schema: a verdict string, a confidence grade, a one or
two sentence summary, optional causes and risk flags, and a metrics map
echoing the key readings you relied on with their trend context. Do not
invent data not present in the input.`

// Trend builds the trend block worker node ("technical_trend").
func Trend(inv *llm.Invoker, log zerolog.Logger) workflow.NodeFunc {
	return nodes.NewWorkerNode(nodes.WorkerSpec{
		ID:           "technical.trend",
		ReportKey:    nodes.KeyTechnicalTrend,
		SystemPrompt: sprintfPrompt("trend (EMA/ADX/Ichimoku/market geometry)"),
		Extract:      func(d *domain.AssetDocument) (any, error) { return block(d, "trend"), nil },
	}, inv, log)
}

// Oscillator builds the oscillator block worker node ("technical_oscillator").
func Oscillator(inv *llm.Invoker, log zerolog.Logger) workflow.NodeFunc {
	return nodes.NewWorkerNode(nodes.WorkerSpec{
		ID:           "technical.oscillator",
		ReportKey:    nodes.KeyTechnicalOscillator,
		SystemPrompt: sprintfPrompt("oscillator (RSI/ADX/MACD)"),
		Extract:      func(d *domain.AssetDocument) (any, error) { return block(d, "oscillator"), nil },
	}, inv, log)
}

// Volatility builds the volatility block worker node ("technical_volatility").
func Volatility(inv *llm.Invoker, log zerolog.Logger) workflow.NodeFunc {
	return nodes.NewWorkerNode(nodes.WorkerSpec{
		ID:           "technical.volatility",
		ReportKey:    nodes.KeyTechnicalVolatility,
		SystemPrompt: sprintfPrompt("volatility (Keltner/Bollinger/squeeze/historical vol)"),
		Extract:      func(d *domain.AssetDocument) (any, error) { return block(d, "volatility"), nil },
	}, inv, log)
}

// Volume builds the volume block worker node ("technical_volume").
func Volume(inv *llm.Invoker, log zerolog.Logger) workflow.NodeFunc {
	return nodes.NewWorkerNode(nodes.WorkerSpec{
		ID:           "technical.volume",
		ReportKey:    nodes.KeyTechnicalVolume,
		SystemPrompt: sprintfPrompt("volume (VMA/RVOL/OBV/CVD/MFI/VWAP)"),
		Extract:      func(d *domain.AssetDocument) (any, error) { return block(d, "volume"), nil },
	}, inv, log)
}

// SupportResistance builds the support/resistance zone worker node
// ("technical_support_resistance").
func SupportResistance(inv *llm.Invoker, log zerolog.Logger) workflow.NodeFunc {
	return nodes.NewWorkerNode(nodes.WorkerSpec{
		ID:           "technical.support_resistance",
		ReportKey:    nodes.KeyTechnicalSupportResistance,
		SystemPrompt: sprintfPrompt("clustered support/resistance zones"),
		Extract:      func(d *domain.AssetDocument) (any, error) { return block(d, "support_resistance"), nil },
	}, inv, log)
}

// SmartMoney builds the smart-money flow classification worker node
// ("technical_smart_money").
func SmartMoney(inv *llm.Invoker, log zerolog.Logger) workflow.NodeFunc {
	return nodes.NewWorkerNode(nodes.WorkerSpec{
		ID:           "technical.smart_money",
		ReportKey:    nodes.KeyTechnicalSmartMoney,
		SystemPrompt: sprintfPrompt("per-capita smart-money buy/sell flow"),
		Extract:      func(d *domain.AssetDocument) (any, error) { return block(d, "smart_money"), nil },
	}, inv, log)
}

func sprintfPrompt(subject string) string {
	return fmt.Sprintf(systemPromptTemplate, subject)
}

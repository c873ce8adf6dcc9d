// Package fundamental holds the four fundamental-analysis worker nodes:
// each reads one statement of AssetDocument.FundamentalAnalysis and
// produces a structured AgentReport verdict over it.
package fundamental

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/bourseiq/internal/domain"
	"github.com/aristath/bourseiq/internal/llm"
	"github.com/aristath/bourseiq/internal/nodes"
	"github.com/aristath/bourseiq/internal/workflow"
)

const systemPromptTemplate = `You are a fundamental-analysis worker in a Tehran Stock Exchange investment
report pipeline. You are given one financial statement table for the
company, mapping report-line labels to fiscal-period values: %s. Produce a
concise, evidence-based verdict strictly in the required JSON schema: a
verdict string, a confidence grade, a one or two sentence summary, optional
causes and risk flags, and a metrics map echoing the key line items you
relied on with their trend context. Do not invent figures not present in
the input.`

func prompt(subject string) string { return fmt.Sprintf(systemPromptTemplate, subject) }

// BalanceSheet builds the balance-sheet worker node
// ("fundamental_balance_sheet").
func BalanceSheet(inv *llm.Invoker, log zerolog.Logger) workflow.NodeFunc {
	return nodes.NewWorkerNode(nodes.WorkerSpec{
		ID:           "fundamental.balance_sheet",
		ReportKey:    nodes.KeyFundamentalBalanceSheet,
		SystemPrompt: prompt("the balance sheet"),
		Extract: func(d *domain.AssetDocument) (any, error) {
			return d.FundamentalAnalysis.BalanceSheet, nil
		},
	}, inv, log)
}

// ProfitLoss builds the profit-and-loss worker node
// ("fundamental_profit_loss").
func ProfitLoss(inv *llm.Invoker, log zerolog.Logger) workflow.NodeFunc {
	return nodes.NewWorkerNode(nodes.WorkerSpec{
		ID:           "fundamental.profit_loss",
		ReportKey:    nodes.KeyFundamentalProfitLoss,
		SystemPrompt: prompt("the profit & loss statement"),
		Extract: func(d *domain.AssetDocument) (any, error) {
			return d.FundamentalAnalysis.ProfitLoss, nil
		},
	}, inv, log)
}

// CashFlow builds the cash-flow worker node ("fundamental_cash_flow").
func CashFlow(inv *llm.Invoker, log zerolog.Logger) workflow.NodeFunc {
	return nodes.NewWorkerNode(nodes.WorkerSpec{
		ID:           "fundamental.cash_flow",
		ReportKey:    nodes.KeyFundamentalCashFlow,
		SystemPrompt: prompt("the cash flow statement"),
		Extract: func(d *domain.AssetDocument) (any, error) {
			return d.FundamentalAnalysis.CashFlow, nil
		},
	}, inv, log)
}

// Ratios builds the financial-ratios worker node ("fundamental_ratios").
func Ratios(inv *llm.Invoker, log zerolog.Logger) workflow.NodeFunc {
	return nodes.NewWorkerNode(nodes.WorkerSpec{
		ID:           "fundamental.ratios",
		ReportKey:    nodes.KeyFundamentalRatios,
		SystemPrompt: prompt("the financial ratios table"),
		Extract: func(d *domain.AssetDocument) (any, error) {
			return d.FundamentalAnalysis.FinancialRatios, nil
		},
	}, inv, log)
}

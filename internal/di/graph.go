package di

import (
	"github.com/rs/zerolog"

	"github.com/aristath/bourseiq/internal/llm"
	"github.com/aristath/bourseiq/internal/nodes"
	"github.com/aristath/bourseiq/internal/nodes/fundamental"
	"github.com/aristath/bourseiq/internal/nodes/social"
	"github.com/aristath/bourseiq/internal/nodes/technical"
	"github.com/aristath/bourseiq/internal/orchestrator"
	"github.com/aristath/bourseiq/internal/workflow"
)

// buildGraph compiles the full analysis DAG: introduction resolves a
// symbol (or interrupts for one), ingest_document runs the data pipeline,
// thirteen worker nodes each analyze one slice of the resulting document in
// parallel, three consensus nodes fuse each branch once its siblings are
// in, and the reporter fuses all three consensus reports into one memo.
func buildGraph(orch *orchestrator.Orchestrator, providerID string, inv *llm.Invoker, log zerolog.Logger) (*workflow.Graph, error) {
	ingestDeps := []string{nodes.IntroductionNodeID}

	graphNodes := []*workflow.Node{
		{ID: nodes.IntroductionNodeID, Fn: nodes.Introduction(inv, log)},
		{ID: nodes.IngestDocumentNodeID, DependsOn: ingestDeps, Fn: nodes.IngestDocument(orch, providerID, log)},

		{ID: nodes.KeyTechnicalTrend, DependsOn: []string{nodes.IngestDocumentNodeID}, Fn: technical.Trend(inv, log)},
		{ID: nodes.KeyTechnicalOscillator, DependsOn: []string{nodes.IngestDocumentNodeID}, Fn: technical.Oscillator(inv, log)},
		{ID: nodes.KeyTechnicalVolatility, DependsOn: []string{nodes.IngestDocumentNodeID}, Fn: technical.Volatility(inv, log)},
		{ID: nodes.KeyTechnicalVolume, DependsOn: []string{nodes.IngestDocumentNodeID}, Fn: technical.Volume(inv, log)},
		{ID: nodes.KeyTechnicalSupportResistance, DependsOn: []string{nodes.IngestDocumentNodeID}, Fn: technical.SupportResistance(inv, log)},
		{ID: nodes.KeyTechnicalSmartMoney, DependsOn: []string{nodes.IngestDocumentNodeID}, Fn: technical.SmartMoney(inv, log)},

		{ID: nodes.KeyFundamentalBalanceSheet, DependsOn: []string{nodes.IngestDocumentNodeID}, Fn: fundamental.BalanceSheet(inv, log)},
		{ID: nodes.KeyFundamentalProfitLoss, DependsOn: []string{nodes.IngestDocumentNodeID}, Fn: fundamental.ProfitLoss(inv, log)},
		{ID: nodes.KeyFundamentalCashFlow, DependsOn: []string{nodes.IngestDocumentNodeID}, Fn: fundamental.CashFlow(inv, log)},
		{ID: nodes.KeyFundamentalRatios, DependsOn: []string{nodes.IngestDocumentNodeID}, Fn: fundamental.Ratios(inv, log)},

		{ID: nodes.KeySocialSentiment, DependsOn: []string{nodes.IngestDocumentNodeID}, Fn: social.Sentiment(inv, log)},
		{ID: nodes.KeySocialNews, DependsOn: []string{nodes.IngestDocumentNodeID}, Fn: social.News(inv, log)},
		{ID: nodes.KeySocialCodal, DependsOn: []string{nodes.IngestDocumentNodeID}, Fn: social.Codal(inv, log)},

		{ID: nodes.KeyConsensusTechnical, DependsOn: nodes.TechnicalReportKeys, Fn: nodes.ConsensusTechnical(inv, log)},
		{ID: nodes.KeyConsensusFundamental, DependsOn: nodes.FundamentalReportKeys, Fn: nodes.ConsensusFundamental(inv, log)},
		{ID: nodes.KeyConsensusSocial, DependsOn: nodes.SocialReportKeys, Fn: nodes.ConsensusSocial(inv, log)},

		{
			ID:        "reporter",
			DependsOn: []string{nodes.KeyConsensusTechnical, nodes.KeyConsensusFundamental, nodes.KeyConsensusSocial},
			Fn:        nodes.Reporter(inv, log),
		},
	}

	return workflow.Compile(graphNodes...)
}

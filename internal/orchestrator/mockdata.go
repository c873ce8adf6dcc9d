package orchestrator

import (
	"time"

	"github.com/aristath/bourseiq/internal/domain"
)

// MockDocument synthesizes a minimal, clearly-labeled placeholder
// AssetDocument for symbol when provider fetch has failed entirely and no
// cached document exists. It carries no technical analysis (there is no bar
// history to run the kernel over) and an explicit degraded-data marker in
// Search so downstream agent nodes and the renderer can flag the report as
// unreliable instead of silently treating it as a normal analysis.
func MockDocument(symbol domain.Symbol, providerID string) *domain.AssetDocument {
	return &domain.AssetDocument{
		TradeSymbol:      symbol,
		ShortName:        string(symbol),
		ProviderID:       providerID,
		AnalysisDatetime: time.Now().UTC(),
		Search:           "DEGRADED: provider data unavailable, this document is a placeholder",
	}
}

package nodes

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/bourseiq/internal/domain"
	"github.com/aristath/bourseiq/internal/workflow"
)

// IngestDocumentNodeID is the graph vertex bridging the introduction node's
// resolved symbol to the per-branch worker nodes: everything downstream
// depends on this one, directly or transitively, since every worker reads
// KeyAssetDocument.
const IngestDocumentNodeID = "ingest_document"

// Ingester is the subset of *orchestrator.Orchestrator this node needs.
// Declared here rather than imported as a concrete type so internal/nodes
// doesn't have to depend on internal/providers/internal/store's full
// transitive graph just to call Execute -- internal/di wires the real
// *orchestrator.Orchestrator in, and tests wire a stub.
type Ingester interface {
	Execute(ctx context.Context, symbol domain.Symbol, providerID string) (*domain.AssetDocument, error)
}

// IngestDocument runs the data-ingestion pipeline for the symbol the
// introduction node resolved, and writes the resulting AssetDocument onto
// the blackboard under KeyAssetDocument for every worker node to read.
func IngestDocument(ing Ingester, providerID string, log zerolog.Logger) workflow.NodeFunc {
	log = log.With().Str("node", IngestDocumentNodeID).Logger()

	return workflow.Gatekeeper([]string{KeySymbol}, func(ctx context.Context, state *workflow.State) (workflow.Fragment, error) {
		raw, _ := state.Get(KeySymbol)
		symbol, ok := raw.(domain.Symbol)
		if !ok {
			return nil, fmt.Errorf("nodes: %q has unexpected type %T", KeySymbol, raw)
		}

		doc, err := ing.Execute(ctx, symbol, providerID)
		if err != nil {
			return nil, fmt.Errorf("nodes: ingest document for %q: %w", symbol, err)
		}

		log.Info().Str("symbol", string(symbol)).Msg("document ingested")
		return workflow.Fragment{KeyAssetDocument: doc}, nil
	})
}

package nodes

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/bourseiq/internal/domain"
	"github.com/aristath/bourseiq/internal/llm"
	"github.com/aristath/bourseiq/internal/workflow"
)

// WorkerSpec describes one branch worker: which document slice it reads,
// what its system prompt is, and which state key it writes its report
// under.
type WorkerSpec struct {
	ID           string
	ReportKey    string
	SystemPrompt string
	// Extract pulls this worker's slice of the canonical document. Returning
	// a nil interface is fine -- it is marshaled as JSON null, same as any
	// other empty input.
	Extract func(*domain.AssetDocument) (any, error)
}

// NewWorkerNode builds the NodeFunc for spec: read the document, format a
// prompt embedding the extracted input JSON and the price sparkline sidecar,
// invoke the structured-LLM invoker (which attaches the AgentReport schema
// to the request), and write {ReportKey: report} (plus a _meta fragment
// when recovery fired).
func NewWorkerNode(spec WorkerSpec, inv *llm.Invoker, log zerolog.Logger) workflow.NodeFunc {
	return func(ctx context.Context, state *workflow.State) (workflow.Fragment, error) {
		doc, err := AssetDocument(state)
		if err != nil {
			return nil, err
		}

		input, err := spec.Extract(doc)
		if err != nil {
			return nil, fmt.Errorf("nodes: %s: extract input: %w", spec.ID, err)
		}
		inputJSON, err := json.Marshal(input)
		if err != nil {
			return nil, fmt.Errorf("nodes: %s: marshal input: %w", spec.ID, err)
		}

		sparkline, _ := doc.TechnicalAnalysis["price_sparkline"].(string)

		userContent := fmt.Sprintf(
			"Input data:\n%s\n\nPrice sparkline (most recent 30 sessions): %s\n\nRespond with a JSON object matching the required schema.",
			string(inputJSON), sparkline,
		)

		rep, meta, err := llm.Invoke[domain.AgentReport](ctx, inv, spec.SystemPrompt, []llm.Message{
			{Role: llm.RoleUser, Content: userContent},
		})
		if err != nil {
			log.Warn().Err(err).Str("node", spec.ID).Msg("worker node recovery ladder exhausted")
			return nil, fmt.Errorf("nodes: %s: %w", spec.ID, err)
		}

		fragment := workflow.Fragment{spec.ReportKey: rep}
		if meta.RungReached > 1 || meta.Repaired {
			fragment[spec.ReportKey+"_meta"] = meta
		}
		return fragment, nil
	}
}

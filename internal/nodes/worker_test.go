package nodes

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/aristath/bourseiq/internal/domain"
	"github.com/aristath/bourseiq/internal/llm"
	"github.com/aristath/bourseiq/internal/workflow"
)

func docState(doc *domain.AssetDocument) *workflow.State {
	return workflow.NewState(map[string]any{KeyAssetDocument: doc})
}

func TestNewWorkerNode_WritesReportFragment(t *testing.T) {
	model := &llm.FakeModel{Responses: []string{
		`{"verdict":"bullish","confidence":"high","summary":"strong uptrend"}`,
	}}
	inv := llm.NewInvoker(model)

	spec := WorkerSpec{
		ID:           "test.worker",
		ReportKey:    "test_report",
		SystemPrompt: "system",
		Extract: func(d *domain.AssetDocument) (any, error) {
			return d.TechnicalAnalysis["trend"], nil
		},
	}

	doc := &domain.AssetDocument{
		TradeSymbol:       "IKCO",
		TechnicalAnalysis: map[string]interface{}{"trend": "up", "price_sparkline": "1,2,3"},
	}

	node := NewWorkerNode(spec, inv, zerolog.Nop())
	fragment, err := node(context.Background(), docState(doc))
	if err != nil {
		t.Fatalf("node() error = %v", err)
	}

	rep, ok := fragment["test_report"].(domain.AgentReport)
	if !ok {
		t.Fatalf("fragment[test_report] missing or wrong type: %#v", fragment)
	}
	if rep.Verdict != "bullish" {
		t.Fatalf("Verdict = %q, want bullish", rep.Verdict)
	}
	if _, hasMeta := fragment["test_report_meta"]; hasMeta {
		t.Fatalf("unexpected _meta fragment on a clean rung-1 decode")
	}
}

func TestNewWorkerNode_MissingDocumentErrors(t *testing.T) {
	model := &llm.FakeModel{Responses: []string{`{}`}}
	inv := llm.NewInvoker(model)
	spec := WorkerSpec{
		ID:        "test.worker",
		ReportKey: "test_report",
		Extract:   func(d *domain.AssetDocument) (any, error) { return nil, nil },
	}
	node := NewWorkerNode(spec, inv, zerolog.Nop())
	_, err := node(context.Background(), workflow.NewState(nil))
	if err == nil {
		t.Fatal("expected error when asset_document is missing from state")
	}
}

package technical

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/aristath/bourseiq/internal/domain"
	"github.com/aristath/bourseiq/internal/llm"
	"github.com/aristath/bourseiq/internal/nodes"
	"github.com/aristath/bourseiq/internal/workflow"
)

func docState(doc *domain.AssetDocument) *workflow.State {
	return workflow.NewState(map[string]any{nodes.KeyAssetDocument: doc})
}

func TestTrend_ExtractsTrendBlock(t *testing.T) {
	model := &llm.FakeModel{Responses: []string{`{"verdict":"up","confidence":"high","summary":"ema stack bullish"}`}}
	inv := llm.NewInvoker(model)
	node := Trend(inv, zerolog.Nop())

	doc := &domain.AssetDocument{TechnicalAnalysis: map[string]interface{}{"trend": map[string]any{"ema_fast": 1.0}}}
	fragment, err := node(context.Background(), docState(doc))
	if err != nil {
		t.Fatalf("node() error = %v", err)
	}
	if _, ok := fragment[nodes.KeyTechnicalTrend]; !ok {
		t.Fatalf("expected %s in fragment, got %#v", nodes.KeyTechnicalTrend, fragment)
	}
}

func TestSmartMoney_ExtractsSmartMoneyBlock(t *testing.T) {
	model := &llm.FakeModel{Responses: []string{`{"verdict":"accumulation","confidence":"medium","summary":"per-capita buy flow rising"}`}}
	inv := llm.NewInvoker(model)
	node := SmartMoney(inv, zerolog.Nop())

	doc := &domain.AssetDocument{TechnicalAnalysis: map[string]interface{}{"smart_money": map[string]any{"flow": "in"}}}
	fragment, err := node(context.Background(), docState(doc))
	if err != nil {
		t.Fatalf("node() error = %v", err)
	}
	rep, ok := fragment[nodes.KeyTechnicalSmartMoney].(domain.AgentReport)
	if !ok || rep.Verdict != "accumulation" {
		t.Fatalf("fragment[%s] = %#v", nodes.KeyTechnicalSmartMoney, fragment)
	}
}

package nodes

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/aristath/bourseiq/internal/domain"
	"github.com/aristath/bourseiq/internal/llm"
	"github.com/aristath/bourseiq/internal/workflow"
)

func TestIntroduction_ResolvesSymbolDirectly(t *testing.T) {
	model := &llm.FakeModel{Responses: []string{`{"has_symbol":true,"symbol":"فولاد"}`}}
	inv := llm.NewInvoker(model)
	node := Introduction(inv, zerolog.Nop())

	state := workflow.NewState(map[string]any{KeyUserMessage: "analyze فولاد please"})
	fragment, err := node(context.Background(), state)
	if err != nil {
		t.Fatalf("node() error = %v", err)
	}
	sym, ok := fragment[KeySymbol].(domain.Symbol)
	if !ok {
		t.Fatalf("fragment[%s] missing or wrong type: %#v", KeySymbol, fragment)
	}
	if sym != "فولاد" {
		t.Fatalf("Symbol = %q, want فولاد", sym)
	}
}

func TestIntroduction_InterruptsWhenSymbolAmbiguous(t *testing.T) {
	model := &llm.FakeModel{Responses: []string{`{"has_symbol":false,"question":"Which ticker would you like?"}`}}
	inv := llm.NewInvoker(model)
	node := Introduction(inv, zerolog.Nop())

	state := workflow.NewState(map[string]any{KeyUserMessage: "hi there"})
	_, err := node(context.Background(), state)
	interrupt, ok := workflow.AsInterrupt(err)
	if !ok {
		t.Fatalf("expected *workflow.Interrupt, got %v", err)
	}
	if interrupt.NodeID != IntroductionNodeID {
		t.Fatalf("NodeID = %q, want %q", interrupt.NodeID, IntroductionNodeID)
	}
	if interrupt.Payload != "Which ticker would you like?" {
		t.Fatalf("Payload = %v, want clarifying question", interrupt.Payload)
	}
}

func TestIntroduction_ResolvesOnResumeAfterInterrupt(t *testing.T) {
	model := &llm.FakeModel{Responses: []string{
		`{"has_symbol":false,"question":"Which ticker?"}`,
		`{"has_symbol":true,"symbol":"IKCO"}`,
	}}
	inv := llm.NewInvoker(model)
	node := Introduction(inv, zerolog.Nop())

	state := workflow.NewState(map[string]any{KeyUserMessage: "hi"})
	_, err := node(context.Background(), state)
	if _, ok := workflow.AsInterrupt(err); !ok {
		t.Fatalf("expected interrupt on first call, got %v", err)
	}

	state.Merge(workflow.Fragment{KeyUserMessage: "IKCO"})
	fragment, err := node(context.Background(), state)
	if err != nil {
		t.Fatalf("node() error on resume = %v", err)
	}
	if fragment[KeySymbol] != domain.Symbol("IKCO") {
		t.Fatalf("fragment[%s] = %v, want IKCO", KeySymbol, fragment[KeySymbol])
	}
}

package nodes

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/aristath/bourseiq/internal/domain"
	"github.com/aristath/bourseiq/internal/llm"
	"github.com/aristath/bourseiq/internal/workflow"
)

func TestReporter_WritesPlainMarkdownMemo(t *testing.T) {
	model := &llm.FakeModel{Responses: []string{"# Verdict: BUY\n\nSolid across the board."}}
	inv := llm.NewInvoker(model)
	node := Reporter(inv, zerolog.Nop())

	state := workflow.NewState(map[string]any{
		KeyConsensusTechnical:   domain.ConsensusReport{Signal: domain.SignalBuy, ExecutiveSummary: "strong trend"},
		KeyConsensusFundamental: domain.ConsensusReport{Signal: domain.SignalNeutral, ExecutiveSummary: "fair value"},
		KeyConsensusSocial:      domain.ConsensusReport{Signal: domain.SignalBuy, ExecutiveSummary: "positive buzz"},
	})

	fragment, err := node(context.Background(), state)
	if err != nil {
		t.Fatalf("node() error = %v", err)
	}
	memo, ok := fragment[KeyFinalReport].(string)
	if !ok {
		t.Fatalf("fragment[%s] missing or wrong type: %#v", KeyFinalReport, fragment)
	}
	if !strings.Contains(memo, "BUY") {
		t.Fatalf("memo = %q, want it to contain BUY", memo)
	}
}

func TestReporter_NoOpUntilAllConsensusPresent(t *testing.T) {
	model := &llm.FakeModel{Responses: []string{"unused"}}
	inv := llm.NewInvoker(model)
	node := Reporter(inv, zerolog.Nop())

	state := workflow.NewState(map[string]any{
		KeyConsensusTechnical: domain.ConsensusReport{Signal: domain.SignalBuy},
	})
	fragment, err := node(context.Background(), state)
	if err != nil {
		t.Fatalf("node() error = %v", err)
	}
	if len(fragment) != 0 {
		t.Fatalf("expected empty fragment, got %#v", fragment)
	}
}

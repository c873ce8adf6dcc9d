package fundamental

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

func TestBalanceSheet_ExtractsBalanceSheetTable(t *testing.T) {
	model := &llm.FakeModel{Responses: []string{`{"verdict":"solid","confidence":"high","summary":"strong equity base"}`}}
	inv := llm.NewInvoker(model)
	node := BalanceSheet(inv, zerolog.Nop())

	doc := &domain.AssetDocument{
		FundamentalAnalysis: domain.FundamentalAnalysis{
			BalanceSheet: domain.FinancialTable{},
		},
	}
	fragment, err := node(context.Background(), docState(doc))
	if err != nil {
		t.Fatalf("node() error = %v", err)
	}
	if _, ok := fragment[nodes.KeyFundamentalBalanceSheet]; !ok {
		t.Fatalf("expected %s in fragment, got %#v", nodes.KeyFundamentalBalanceSheet, fragment)
	}
}

func TestRatios_ExtractsFinancialRatios(t *testing.T) {
	model := &llm.FakeModel{Responses: []string{`{"verdict":"fair","confidence":"medium","summary":"pe in line with sector"}`}}
	inv := llm.NewInvoker(model)
	node := Ratios(inv, zerolog.Nop())

	doc := &domain.AssetDocument{
		FundamentalAnalysis: domain.FundamentalAnalysis{FinancialRatios: domain.FinancialTable{}},
	}
	rep, err := node(context.Background(), docState(doc))
	if err != nil {
		t.Fatalf("node() error = %v", err)
	}
	if _, ok := rep[nodes.KeyFundamentalRatios]; !ok {
		t.Fatalf("expected %s in fragment, got %#v", nodes.KeyFundamentalRatios, rep)
	}
}

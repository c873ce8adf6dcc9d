package nodes

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/bourseiq/internal/domain"
	"github.com/aristath/bourseiq/internal/llm"
	"github.com/aristath/bourseiq/internal/workflow"
)

// IntroductionNodeID identifies the introduction node for Interrupt/Resume
// bookkeeping.
const IntroductionNodeID = "introduction"

// KeyUserMessage holds the latest free-text turn from the caller: the
// initial request, or whatever they supplied on Resume.
const KeyUserMessage = "user_message"

const introSystemPrompt = `You are the front door of a Tehran Stock Exchange investment report
pipeline. Read the user's message and decide whether it names a specific
ticker symbol to analyze. If it does, extract it exactly as given (Persian
script tickers are common and must not be transliterated or translated).
If it does not -- a greeting, an ambiguous company name, no symbol at all --
set has_symbol to false and write a short clarifying question asking which
ticker to analyze. Respond strictly in the required JSON schema.`

type introIntent struct {
	HasSymbol bool   `json:"has_symbol"`
	Symbol    string `json:"symbol,omitempty"`
	Question  string `json:"question,omitempty"`
}

// Introduction builds the front-door node: it reads the latest user
// message and either resolves a ticker symbol straight into state, or
// pauses the run with a clarifying question. The caller persists a
// checkpoint on Interrupt and later calls workflow.Resume with the user's
// reply merged under KeyUserMessage -- this same node runs again and, this
// time, is expected to resolve a symbol.
func Introduction(inv *llm.Invoker, log zerolog.Logger) workflow.NodeFunc {
	return func(ctx context.Context, state *workflow.State) (workflow.Fragment, error) {
		raw, ok := state.Get(KeyUserMessage)
		if !ok {
			return nil, fmt.Errorf("nodes: introduction: %q missing from state", KeyUserMessage)
		}
		text, _ := raw.(string)

		intent, meta, err := llm.Invoke[introIntent](ctx, inv, introSystemPrompt, []llm.Message{
			{Role: llm.RoleUser, Content: text},
		})
		if err != nil {
			log.Warn().Err(err).Msg("introduction: symbol-extraction call failed")
			return nil, fmt.Errorf("nodes: introduction: %w", err)
		}

		if intent.HasSymbol && intent.Symbol != "" {
			fragment := workflow.Fragment{KeySymbol: domain.Symbol(intent.Symbol)}
			if meta.RungReached > 1 || meta.Repaired {
				fragment[KeySymbol+"_meta"] = meta
			}
			return fragment, nil
		}

		question := intent.Question
		if question == "" {
			question = "Which ticker symbol would you like analyzed?"
		}
		return workflow.Fragment{}, &workflow.Interrupt{NodeID: IntroductionNodeID, Payload: question}
	}
}

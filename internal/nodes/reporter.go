package nodes

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/bourseiq/internal/domain"
	"github.com/aristath/bourseiq/internal/llm"
	"github.com/aristath/bourseiq/internal/workflow"
)

const reporterSystemPrompt = `You are the final reporter in a Tehran Stock Exchange investment report
pipeline. You are given the fused technical, fundamental, and social
consensus calls for one company. Write a single markdown memo for a human
investor: a short headline verdict, one section per branch summarizing its
signal and executive summary, a confluence/conflict section noting where
the three branches agree or disagree, and a closing risk-flag list. Use
plain markdown (headings, bullet lists) and do not invent data beyond what
the three consensus reports give you.`

// Reporter builds the final-report node ("final_report"), gated on all
// three branch consensus reports. Unlike the worker and consensus nodes,
// it invokes the chat model directly for plain markdown prose rather than
// going through the structured-output recovery ladder -- there is no
// schema to repair a memo against.
func Reporter(inv *llm.Invoker, log zerolog.Logger) workflow.NodeFunc {
	required := []string{KeyConsensusTechnical, KeyConsensusFundamental, KeyConsensusSocial}

	fn := func(ctx context.Context, state *workflow.State) (workflow.Fragment, error) {
		technical, err := ConsensusReportFrom(state, KeyConsensusTechnical)
		if err != nil {
			return nil, fmt.Errorf("nodes: reporter: %w", err)
		}
		fundamental, err := ConsensusReportFrom(state, KeyConsensusFundamental)
		if err != nil {
			return nil, fmt.Errorf("nodes: reporter: %w", err)
		}
		social, err := ConsensusReportFrom(state, KeyConsensusSocial)
		if err != nil {
			return nil, fmt.Errorf("nodes: reporter: %w", err)
		}

		userContent := fmt.Sprintf(
			"Technical consensus:\n%s\n\nFundamental consensus:\n%s\n\nSocial consensus:\n%s\n\nWrite the markdown memo now.",
			formatConsensus(technical), formatConsensus(fundamental), formatConsensus(social),
		)

		resp, err := inv.Model.Chat(ctx, llm.ChatRequest{
			SystemPrompt: reporterSystemPrompt,
			Messages:     []llm.Message{{Role: llm.RoleUser, Content: userContent}},
		})
		if err != nil {
			log.Warn().Err(err).Msg("reporter: chat call failed")
			return nil, fmt.Errorf("nodes: reporter: %w", err)
		}

		return workflow.Fragment{KeyFinalReport: resp.Content}, nil
	}

	return workflow.Gatekeeper(required, fn)
}

func formatConsensus(r domain.ConsensusReport) string {
	out := fmt.Sprintf("signal=%s confidence=%.2f\nsummary: %s", r.Signal, r.Confidence, r.ExecutiveSummary)
	if len(r.ConfluenceFactors) > 0 {
		out += fmt.Sprintf("\nconfluence: %v", r.ConfluenceFactors)
	}
	if len(r.ConflictAlerts) > 0 {
		out += fmt.Sprintf("\nconflicts: %v", r.ConflictAlerts)
	}
	return out
}

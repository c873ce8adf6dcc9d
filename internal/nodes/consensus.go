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

const consensusPromptTemplate = `You are the %s consensus stage in a Tehran Stock Exchange investment report
pipeline. You are given the structured verdicts produced by every worker in
this branch. Fuse them into a single branch call strictly in the required
JSON schema: an enumerated signal (STRONG_BUY, BUY, NEUTRAL, SELL, or
STRONG_SELL), a confidence score between 0 and 1, an executive summary,
confluence factors where workers agree, conflict alerts where they
disagree, and zero or more forward-looking scenarios with a probability,
description, and invalidation condition. Do not invent a worker verdict
that was not given to you.`

// newConsensusNode builds a Gatekeeper-wrapped consensus node: it waits for
// every key in reportKeys to be present, reads each sibling AgentReport,
// and fuses them into a domain.ConsensusReport via a structured-LLM call.
func newConsensusNode(label, outKey string, reportKeys []string, inv *llm.Invoker, log zerolog.Logger) workflow.NodeFunc {
	systemPrompt := fmt.Sprintf(consensusPromptTemplate, label)

	fn := func(ctx context.Context, state *workflow.State) (workflow.Fragment, error) {
		reports := make(map[string]domain.AgentReport, len(reportKeys))
		for _, key := range reportKeys {
			rep, err := Report(state, key)
			if err != nil {
				log.Warn().Err(err).Str("branch", label).Str("key", key).Msg("consensus: sibling report missing, excluding from fusion")
				continue
			}
			reports[key] = rep
		}

		inputJSON, err := json.Marshal(reports)
		if err != nil {
			return nil, fmt.Errorf("nodes: consensus.%s: marshal input: %w", label, err)
		}

		rep, meta, err := llm.Invoke[domain.ConsensusReport](ctx, inv, systemPrompt, []llm.Message{
			{Role: llm.RoleUser, Content: fmt.Sprintf("Worker reports:\n%s\n\nRespond with a JSON object matching the required schema.", string(inputJSON))},
		})
		if err != nil {
			return nil, fmt.Errorf("nodes: consensus.%s: %w", label, err)
		}

		fragment := workflow.Fragment{outKey: rep}
		if meta.RungReached > 1 || meta.Repaired {
			fragment[outKey+"_meta"] = meta
		}
		return fragment, nil
	}

	return workflow.Gatekeeper(reportKeys, fn)
}

// ConsensusTechnical builds the technical-branch consensus node
// ("consensus_technical"), gated on all six technical worker reports.
func ConsensusTechnical(inv *llm.Invoker, log zerolog.Logger) workflow.NodeFunc {
	return newConsensusNode("technical", KeyConsensusTechnical, TechnicalReportKeys, inv, log)
}

// ConsensusFundamental builds the fundamental-branch consensus node
// ("consensus_fundamental"), gated on all four fundamental worker reports.
func ConsensusFundamental(inv *llm.Invoker, log zerolog.Logger) workflow.NodeFunc {
	return newConsensusNode("fundamental", KeyConsensusFundamental, FundamentalReportKeys, inv, log)
}

// ConsensusSocial builds the social-branch consensus node
// ("consensus_social"), gated on all three social worker reports.
func ConsensusSocial(inv *llm.Invoker, log zerolog.Logger) workflow.NodeFunc {
	return newConsensusNode("social", KeyConsensusSocial, SocialReportKeys, inv, log)
}

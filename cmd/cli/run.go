package main

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/aristath/bourseiq/internal/di"
	"github.com/aristath/bourseiq/internal/nodes"
	"github.com/aristath/bourseiq/internal/render"
	"github.com/aristath/bourseiq/internal/workflow"
)

const cliThreadID = "cli"

// analyze drives the graph to completion, answering any clarifying
// question from the introduction node by prompting in, and renders the
// final report once every branch has produced its consensus.
func analyze(ctx context.Context, container *di.Container, message string, in io.Reader) (string, error) {
	reader := bufio.NewReader(in)

	result, err := workflow.Execute(ctx, container.Graph, map[string]any{
		nodes.KeyUserMessage: message,
	})
	if err != nil {
		return "", fmt.Errorf("run graph: %w", err)
	}

	for result.Interrupt != nil {
		question, _ := result.Interrupt.Payload.(string)
		reply, err := promptReply(reader, question)
		if err != nil {
			return "", err
		}

		snap := workflow.Snapshot{
			ThreadID:  cliThreadID,
			State:     result.State.Snapshot(),
			Completed: result.Completed,
			Interrupt: result.Interrupt,
		}
		result, err = workflow.Resume(ctx, container.Graph, snap, workflow.Fragment{nodes.KeyUserMessage: reply})
		if err != nil {
			return "", fmt.Errorf("resume graph: %w", err)
		}
	}

	doc, err := nodes.AssetDocument(result.State)
	if err != nil {
		return "", fmt.Errorf("read asset document: %w", err)
	}
	technical, err := nodes.ConsensusReportFrom(result.State, nodes.KeyConsensusTechnical)
	if err != nil {
		return "", fmt.Errorf("read technical consensus: %w", err)
	}
	fundamental, err := nodes.ConsensusReportFrom(result.State, nodes.KeyConsensusFundamental)
	if err != nil {
		return "", fmt.Errorf("read fundamental consensus: %w", err)
	}
	social, err := nodes.ConsensusReportFrom(result.State, nodes.KeyConsensusSocial)
	if err != nil {
		return "", fmt.Errorf("read social consensus: %w", err)
	}

	memoRaw, _ := result.State.Get(nodes.KeyFinalReport)
	memo, _ := memoRaw.(string)

	return render.Document(doc, technical, fundamental, social, memo), nil
}

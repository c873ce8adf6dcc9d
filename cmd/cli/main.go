// Package main is the one-shot CLI front end: wire the container, run the
// analysis graph for a single symbol to completion, and print the rendered
// markdown report to stdout. Unlike cmd/server it does not expose a thread
// surface -- a clarifying question from the introduction node is answered
// inline from stdin instead of being checkpointed for a later HTTP call.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aristath/bourseiq/internal/config"
	"github.com/aristath/bourseiq/internal/di"
)

func main() {
	root := &cobra.Command{
		Use:   "bourseiq [message]",
		Short: "Run a Tehran Stock Exchange investment report for one ticker",
		Args:  cobra.ArbitraryArgs,
		RunE:  runAnalyze,
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	message := "analyze a ticker"
	if len(args) > 0 {
		message = joinArgs(args)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx := context.Background()
	container, err := di.Wire(ctx, cfg)
	if err != nil {
		return fmt.Errorf("wiring: %w", err)
	}
	defer container.Close()

	report, err := analyze(ctx, container, message, cmd.InOrStdin())
	if err != nil {
		return err
	}

	fmt.Println(report)
	return nil
}

func joinArgs(args []string) string {
	out := args[0]
	for _, a := range args[1:] {
		out += " " + a
	}
	return out
}

func promptReply(in *bufio.Reader, question string) (string, error) {
	fmt.Printf("%s\n> ", question)
	line, err := in.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read reply: %w", err)
	}
	return trimNewline(line), nil
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

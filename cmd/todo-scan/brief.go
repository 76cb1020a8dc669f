package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/todoscan/todo-scan/internal/diff"
	"github.com/todoscan/todo-scan/internal/output"
	"github.com/todoscan/todo-scan/internal/report"
	"github.com/todoscan/todo-scan/internal/types"
)

func newBriefCmd(a *app) *cobra.Command {
	var (
		since  string
		budget int
	)
	cmd := &cobra.Command{
		Use:     "brief",
		GroupID: GroupScan,
		Short:   "Print a compact summary: totals, priorities, the most urgent item",
		Example: `  todo-scan brief
  todo-scan brief --since main --budget 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if budget < 0 {
				return usageErrorf("--budget must not be negative")
			}
			head, d, err := a.summaryInputs(cmd.Context(), since)
			if err != nil {
				return err
			}
			return output.Brief(a.stdout, a.format, report.NewBrief(head, d), budget)
		},
	}
	cmd.Flags().StringVar(&since, "since", "", "Git revision or date to show a trend against")
	cmd.Flags().IntVar(&budget, "budget", 0, "Maximum lines of text output (0 = no limit)")
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	var since string
	cmd := &cobra.Command{
		Use:     "stats",
		GroupID: GroupScan,
		Short:   "Break tagged comments down by tag, priority, author and file",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			head, d, err := a.summaryInputs(cmd.Context(), since)
			if err != nil {
				return err
			}
			return output.Stats(a.stdout, a.format, report.NewStats(head, d))
		},
	}
	cmd.Flags().StringVar(&since, "since", "", "Git revision or date to show a trend against")
	return cmd
}

// summaryInputs scans the working tree and, with since, diffs it against
// that revision.
func (a *app) summaryInputs(ctx context.Context, since string) (*types.Snapshot, *types.DiffResult, error) {
	switch a.format {
	case output.FormatText, output.FormatJSON:
	default:
		return nil, nil, usageErrorf("format %s is not supported here (use text or json)", a.format)
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	env, err := a.newScanEnv(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if since == "" {
		head, err := env.head(ctx)
		return head, nil, err
	}

	commit, err := a.resolveSince(ctx, env, since)
	if err != nil {
		return nil, nil, err
	}
	head, base, err := env.headAndBase(ctx, commit, since)
	if err != nil {
		return nil, nil, fmt.Errorf("comparing against %s: %w", since, err)
	}
	return head, diff.Compute(base, head, diff.Options{BaseRef: since}), nil
}

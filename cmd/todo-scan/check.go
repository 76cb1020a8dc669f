package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/todoscan/todo-scan/internal/config"
	"github.com/todoscan/todo-scan/internal/debug"
	"github.com/todoscan/todo-scan/internal/diff"
	"github.com/todoscan/todo-scan/internal/gate"
	"github.com/todoscan/todo-scan/internal/output"
	"github.com/todoscan/todo-scan/internal/types"
)

type checkOptions struct {
	max       int
	maxNew    int
	blockTags []string
	since     string
}

// checkLong lists the gate rules in evaluation order.
func checkLong() string {
	var b strings.Builder
	b.WriteString("Evaluates the quality gate. Rules run in a fixed order and all of them\nare reported:\n\n")
	for _, rule := range gate.Default().Rules() {
		fmt.Fprintf(&b, "  %-11s %s\n", rule.Name, rule.Description)
	}
	b.WriteString("\nExits 0 when the gate passes and 1 when it fails. Flags override the\n[check] section of the config file.")
	return b.String()
}

func newCheckCmd(a *app) *cobra.Command {
	var opts checkOptions
	cmd := &cobra.Command{
		Use:     "check",
		GroupID: GroupCI,
		Short:   "Fail when tagged comments exceed configured limits",
		Long:    checkLong(),
		Example: `  todo-scan check --max 100
  todo-scan check --block-tags BUG,FIXME
  todo-scan check --since origin/main --max-new 0 --format github-actions`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheck(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.IntVar(&opts.max, "max", 0, "Maximum total items")
	f.IntVar(&opts.maxNew, "max-new", 0, "Maximum items added since --since")
	f.StringSliceVar(&opts.blockTags, "block-tags", nil, "Tags that must not appear at all (comma separated)")
	f.StringVar(&opts.since, "since", "", "Git revision or date to compare against (e.g. main, HEAD~3, 2w, 2025-01-20)")
	return cmd
}

func (a *app) runCheck(cmd *cobra.Command, opts checkOptions) error {
	ctx := cmd.Context()
	flags := cmd.Flags()

	var overrides gate.Settings
	if flags.Changed("max") {
		overrides.Max = gate.IntPtr(opts.max)
	}
	if flags.Changed("max-new") {
		if opts.since == "" {
			return usageErrorf("--max-new: %v", gate.ErrDiffRequired)
		}
		overrides.MaxNew = gate.IntPtr(opts.maxNew)
	}
	if flags.Changed("block-tags") {
		tags, err := config.ParseTags("--block-tags", opts.blockTags)
		if err != nil {
			return usageErrorf("%v", err)
		}
		overrides.BlockTags = tags
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if cfg, err = cfg.WithCheck(overrides); err != nil {
		return err
	}
	settings := cfg.Check
	if opts.since == "" && settings.MaxNew != nil {
		debug.Logf("check: max_new is configured but --since was not given; skipping it\n")
		settings.MaxNew = nil
	}

	env, err := a.newScanEnv(ctx, cfg)
	if err != nil {
		return err
	}

	var (
		head *types.Snapshot
		d    *types.DiffResult
	)
	if opts.since != "" {
		commit, err := a.resolveSince(ctx, env, opts.since)
		if err != nil {
			return err
		}
		var base *types.Snapshot
		if head, base, err = env.headAndBase(ctx, commit, opts.since); err != nil {
			return err
		}
		d = diff.Compute(base, head, diff.Options{BaseRef: opts.since})
	} else if head, err = env.head(ctx); err != nil {
		return err
	}

	res, err := gate.Evaluate(settings, gate.Input{Snapshot: head, Diff: d})
	if err != nil {
		return usageErrorf("%v", err)
	}
	if err := output.Check(a.stdout, a.format, res); err != nil {
		return err
	}
	if !res.Passed {
		return errGateFailed
	}
	return nil
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/todoscan/todo-scan/internal/blame"
	"github.com/todoscan/todo-scan/internal/clean"
	"github.com/todoscan/todo-scan/internal/output"
)

type cleanOptions struct {
	checkIssues bool
	staleDays   int
}

func newCleanCmd(a *app) *cobra.Command {
	var opts cleanOptions
	cmd := &cobra.Command{
		Use:     "clean",
		GroupID: GroupCI,
		Short:   "Find tagged comments that are due for removal",
		Long: `Reports comments that should probably be deleted:

  duplicate    the same tag and message already appear earlier in the scan
  stale_issue  the referenced GitHub issue is closed (--check-issues, needs gh)
  stale        the comment's line is older than --stale-days (needs git)

Exits 1 when anything is reported.`,
		Example: `  todo-scan clean
  todo-scan clean --check-issues
  todo-scan clean --stale-days 180 --format github-actions`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runClean(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.BoolVar(&opts.checkIssues, "check-issues", false, "Report comments whose #issue is closed on GitHub")
	f.IntVar(&opts.staleDays, "stale-days", 0, "Report comments older than N days (0 = off)")
	return cmd
}

func (a *app) runClean(cmd *cobra.Command, opts cleanOptions) error {
	if opts.staleDays < 0 {
		return usageErrorf("--stale-days must not be negative")
	}

	ctx := cmd.Context()
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	env, err := a.newScanEnv(ctx, cfg)
	if err != nil {
		return err
	}

	var cleanOpts clean.Options
	if opts.checkIssues {
		issues, err := clean.NewGitHubIssues(env.root)
		if err != nil {
			return usageErrorf("--check-issues: %v", err)
		}
		cleanOpts.Issues = issues
	}

	snap, err := env.head(ctx)
	if err != nil {
		return err
	}

	if opts.staleDays > 0 {
		repo, err := env.requireRepo()
		if err != nil {
			return err
		}
		ages, err := blame.Run(ctx, repo, snap.Items, blame.Options{
			Now:       a.now(),
			StaleDays: opts.staleDays,
			Jobs:      cfg.Jobs,
		})
		if err != nil {
			return err
		}
		cleanOpts.Ages = ages
	}

	res, err := clean.Run(ctx, snap.Items, cleanOpts)
	if err != nil {
		return err
	}
	if err := output.Clean(a.stdout, a.format, res); err != nil {
		return err
	}
	if !res.Passed {
		return errGateFailed
	}
	return nil
}

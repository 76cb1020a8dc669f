package main

import (
	"github.com/spf13/cobra"

	"github.com/todoscan/todo-scan/internal/blame"
	"github.com/todoscan/todo-scan/internal/config"
	"github.com/todoscan/todo-scan/internal/output"
)

type blameOptions struct {
	days      int
	staleOnly bool
	tags      []string
}

func newBlameCmd(a *app) *cobra.Command {
	var opts blameOptions
	cmd := &cobra.Command{
		Use:     "blame",
		GroupID: GroupScan,
		Short:   "Show who last touched each tagged comment and how long ago",
		Long: `Runs git blame on every file holding a tagged comment and reports the
author, date and age of each comment's line. Comments older than --days are
marked stale. Lines that are not committed yet are 0 days old.`,
		Example: `  todo-scan blame
  todo-scan blame --days 90 --stale-only
  todo-scan blame --tag HACK --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBlame(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.IntVar(&opts.days, "days", blame.DefaultStaleDays, "Age in days at which a comment is stale")
	f.BoolVar(&opts.staleOnly, "stale-only", false, "Only show stale comments")
	f.StringSliceVarP(&opts.tags, "tag", "t", nil, "Only blame these tags (repeatable)")
	return cmd
}

func (a *app) runBlame(cmd *cobra.Command, opts blameOptions) error {
	if opts.days <= 0 {
		return usageErrorf("--days must be positive")
	}
	tags, err := config.ParseTags("--tag", opts.tags)
	if err != nil {
		return usageErrorf("%v", err)
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
	repo, err := env.requireRepo()
	if err != nil {
		return err
	}
	snap, err := env.head(ctx)
	if err != nil {
		return err
	}
	snap = snap.FilterTags(tags)

	res, err := blame.Run(ctx, repo, snap.Items, blame.Options{
		Now:       a.now(),
		StaleDays: opts.days,
		StaleOnly: opts.staleOnly,
		Jobs:      cfg.Jobs,
	})
	if err != nil {
		return err
	}
	return output.Blame(a.stdout, a.format, res)
}

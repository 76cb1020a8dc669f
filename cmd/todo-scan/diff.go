package main

import (
	"github.com/spf13/cobra"

	"github.com/todoscan/todo-scan/internal/config"
	"github.com/todoscan/todo-scan/internal/diff"
	"github.com/todoscan/todo-scan/internal/output"
	"github.com/todoscan/todo-scan/internal/types"
)

func newDiffCmd(a *app) *cobra.Command {
	var tags []string
	cmd := &cobra.Command{
		Use:     "diff <ref>",
		GroupID: GroupScan,
		Short:   "Show tagged comments added or removed since a git revision",
		Long: `Compares the working tree against a git revision. A comment counts as
unchanged when its file, tag and message match, so moving it to another
line is not a change but editing its message is a removal plus an addition.`,
		Example: `  todo-scan diff main
  todo-scan diff HEAD~5 --tag FIXME
  todo-scan diff v1.2.0 --format github-actions`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDiff(cmd, args[0], tags)
		},
	}
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "Only compare these tags (repeatable)")
	return cmd
}

func (a *app) runDiff(cmd *cobra.Command, ref string, tagNames []string) error {
	ctx := cmd.Context()
	var tags []types.Tag
	if len(tagNames) > 0 {
		var err error
		if tags, err = config.ParseTags("--tag", tagNames); err != nil {
			return usageErrorf("%v", err)
		}
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	env, err := a.newScanEnv(ctx, cfg)
	if err != nil {
		return err
	}
	commit, err := env.resolveRef(ctx, ref)
	if err != nil {
		return err
	}

	head, base, err := env.headAndBase(ctx, commit, ref)
	if err != nil {
		return err
	}
	result := diff.Compute(base, head, diff.Options{Tags: tags, BaseRef: ref})
	return output.Diff(a.stdout, a.format, result)
}

package main

import (
	"bytes"
	"strings"

	"github.com/spf13/cobra"

	"github.com/todoscan/todo-scan/internal/config"
	"github.com/todoscan/todo-scan/internal/output"
	"github.com/todoscan/todo-scan/internal/search"
	"github.com/todoscan/todo-scan/internal/snapshot"
	"github.com/todoscan/todo-scan/internal/ui"
)

type searchOptions struct {
	exact   bool
	context int
	tags    []string
	groupBy string
	noPager bool
}

func newSearchCmd(a *app) *cobra.Command {
	var opts searchOptions
	cmd := &cobra.Command{
		Use:     "search <query>",
		GroupID: GroupScan,
		Short:   "Find tagged comments by text",
		Long: `Finds tagged comments whose message, author, issue reference or file path
contains the query. Matching ignores case unless --exact is given.`,
		Example: `  todo-scan search parser
  todo-scan search --exact Parser -C 2
  todo-scan search alice --tag FIXME --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSearch(cmd, args[0], opts)
		},
	}
	f := cmd.Flags()
	f.BoolVar(&opts.exact, "exact", false, "Match case-sensitively")
	f.IntVarP(&opts.context, "context", "C", 0, "Show N source lines around each match")
	f.StringSliceVarP(&opts.tags, "tag", "t", nil, "Only search these tags (repeatable)")
	f.StringVar(&opts.groupBy, "group-by", "file", "Group text output by: file, tag, priority, author, dir")
	f.BoolVar(&opts.noPager, "no-pager", false, "Do not pipe text output through a pager")

	_ = cmd.RegisterFlagCompletionFunc("group-by", fixedCompletion("file", "tag", "priority", "author", "dir"))
	return cmd
}

func (a *app) runSearch(cmd *cobra.Command, query string, opts searchOptions) error {
	if strings.TrimSpace(query) == "" {
		return usageErrorf("search query must not be empty")
	}
	if opts.context < 0 {
		return usageErrorf("--context must not be negative")
	}
	groupBy, err := output.ParseGroupBy(opts.groupBy)
	if err != nil {
		return usageErrorf("%v", err)
	}
	tags, err := config.ParseTags("--tag", opts.tags)
	if err != nil {
		return usageErrorf("%v", err)
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	env, err := a.newScanEnv(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	snap, err := env.head(cmd.Context())
	if err != nil {
		return err
	}
	snap = snap.FilterTags(tags)

	tree := snapshot.NewWorkingTree(env.root, env.filter)
	res, err := search.Run(cmd.Context(), snap.Items, search.Options{Query: query, Exact: opts.exact}, tree, opts.context)
	if err != nil {
		return err
	}

	listOpts := output.ListOptions{GroupBy: groupBy}
	if a.format != output.FormatText {
		return output.Search(a.stdout, a.format, res, listOpts)
	}
	var buf bytes.Buffer
	if err := output.Search(&buf, a.format, res, listOpts); err != nil {
		return err
	}
	return ui.ToPager(a.stdout, buf.String(), ui.PagerOptions{NoPager: opts.noPager})
}

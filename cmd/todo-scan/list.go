package main

import (
	"bytes"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/todoscan/todo-scan/internal/config"
	"github.com/todoscan/todo-scan/internal/output"
	"github.com/todoscan/todo-scan/internal/types"
	"github.com/todoscan/todo-scan/internal/ui"
)

type listOptions struct {
	tags     []string
	author   string
	path     string
	priority string
	sortBy   string
	limit    int
	groupBy  string
	noPager  bool
}

func newListCmd(a *app) *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		GroupID: GroupScan,
		Short:   "List tagged comments in the working tree",
		Example: `  todo-scan list
  todo-scan list --tag FIXME --tag BUG --sort priority
  todo-scan list --path 'src/*.go' --group-by author
  todo-scan list --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runList(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.StringSliceVarP(&opts.tags, "tag", "t", nil, "Only show these tags (repeatable)")
	f.StringVar(&opts.author, "author", "", "Only show items by this author")
	f.StringVar(&opts.path, "path", "", "Only show files matching this glob (e.g. 'src/*.go')")
	f.StringVarP(&opts.priority, "priority", "p", "", "Only show this priority: normal, high, urgent")
	f.StringVarP(&opts.sortBy, "sort", "s", "file", "Sort by: file, line, priority, tag")
	f.IntVarP(&opts.limit, "limit", "n", 0, "Show at most N items (0 = all)")
	f.StringVar(&opts.groupBy, "group-by", "file", "Group text output by: file, tag, priority, author, dir")
	f.BoolVar(&opts.noPager, "no-pager", false, "Do not pipe text output through a pager")

	_ = cmd.RegisterFlagCompletionFunc("priority", fixedCompletion("normal", "high", "urgent"))
	_ = cmd.RegisterFlagCompletionFunc("sort", fixedCompletion("file", "line", "priority", "tag"))
	_ = cmd.RegisterFlagCompletionFunc("group-by", fixedCompletion("file", "tag", "priority", "author", "dir"))
	return cmd
}

func (a *app) runList(cmd *cobra.Command, opts listOptions) error {
	groupBy, err := output.ParseGroupBy(opts.groupBy)
	if err != nil {
		return usageErrorf("%v", err)
	}
	filter, err := newItemFilter(opts)
	if err != nil {
		return err
	}
	if opts.limit < 0 {
		return usageErrorf("--limit must not be negative")
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

	snap = snap.Filter(filter)
	if err := sortItems(snap.Items, opts.sortBy); err != nil {
		return err
	}
	if opts.limit > 0 && len(snap.Items) > opts.limit {
		snap.Items = snap.Items[:opts.limit]
	}

	if a.format != output.FormatText {
		return output.List(a.stdout, a.format, snap, output.ListOptions{GroupBy: groupBy})
	}
	var buf bytes.Buffer
	if err := output.List(&buf, a.format, snap, output.ListOptions{GroupBy: groupBy}); err != nil {
		return err
	}
	return ui.ToPager(a.stdout, buf.String(), ui.PagerOptions{NoPager: opts.noPager})
}

// newItemFilter combines the list filter flags. All given filters must match.
func newItemFilter(opts listOptions) (func(*types.Item) bool, error) {
	var tags []types.Tag
	if len(opts.tags) > 0 {
		var err error
		if tags, err = config.ParseTags("--tag", opts.tags); err != nil {
			return nil, usageErrorf("%v", err)
		}
	}
	var prio types.Priority
	if opts.priority != "" {
		p, err := types.ParsePriority(opts.priority)
		if err != nil {
			return nil, usageErrorf("%v", err)
		}
		prio = p
	}
	if opts.path != "" {
		if _, err := path.Match(opts.path, ""); err != nil {
			return nil, usageErrorf("invalid --path pattern %q: %v", opts.path, err)
		}
	}

	return func(it *types.Item) bool {
		if len(tags) > 0 && !containsTag(tags, it.Tag) {
			return false
		}
		if opts.author != "" && !strings.EqualFold(it.AuthorOr(""), opts.author) {
			return false
		}
		if prio != "" && it.Priority != prio {
			return false
		}
		if opts.path != "" && !matchPath(opts.path, it.File) {
			return false
		}
		return true
	}, nil
}

// matchPath matches the whole relative path, or any leading directory of
// it so that --path src matches everything below src.
func matchPath(pattern, file string) bool {
	if ok, _ := path.Match(pattern, file); ok {
		return true
	}
	for dir := path.Dir(file); dir != "." && dir != "/"; dir = path.Dir(dir) {
		if ok, _ := path.Match(pattern, dir); ok {
			return true
		}
	}
	return false
}

func containsTag(tags []types.Tag, t types.Tag) bool {
	for _, have := range tags {
		if have == t {
			return true
		}
	}
	return false
}

// sortItems reorders items in place. "file" keeps scan order.
func sortItems(items []types.Item, by string) error {
	switch strings.ToLower(by) {
	case "", "file":
	case "line":
		sort.SliceStable(items, func(i, j int) bool { return items[i].Line < items[j].Line })
	case "priority":
		sort.SliceStable(items, func(i, j int) bool { return items[i].Priority.Rank() > items[j].Priority.Rank() })
	case "tag":
		sort.SliceStable(items, func(i, j int) bool { return items[i].Tag.Severity() > items[j].Tag.Severity() })
	default:
		return usageErrorf("unknown sort %q (valid: file, line, priority, tag)", by)
	}
	return nil
}

func fixedCompletion(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

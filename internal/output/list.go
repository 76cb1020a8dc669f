package output

import (
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/todoscan/todo-scan/internal/types"
	"github.com/todoscan/todo-scan/internal/ui"
)

// GroupBy selects how list text output is grouped.
type GroupBy string

const (
	GroupByFile     GroupBy = "file"
	GroupByTag      GroupBy = "tag"
	GroupByPriority GroupBy = "priority"
	GroupByAuthor   GroupBy = "author"
	GroupByDir      GroupBy = "dir"
)

// ParseGroupBy validates a --group-by value.
func ParseGroupBy(s string) (GroupBy, error) {
	switch g := GroupBy(strings.ToLower(strings.TrimSpace(s))); g {
	case "":
		return GroupByFile, nil
	case GroupByFile, GroupByTag, GroupByPriority, GroupByAuthor, GroupByDir:
		return g, nil
	case "directory":
		return GroupByDir, nil
	}
	return "", fmt.Errorf("unknown group %q (valid: file, tag, priority, author, dir)", s)
}

const noAuthor = "(no author)"

type group struct {
	name  string
	items []*types.Item
}

// groupItems partitions items. File, dir and author groups keep first
// appearance order; tags go from most to least severe and priorities from
// urgent to normal.
func groupItems(items []types.Item, by GroupBy) []group {
	keyOf := func(it *types.Item) string {
		switch by {
		case GroupByTag:
			return string(it.Tag)
		case GroupByPriority:
			return string(it.Priority)
		case GroupByAuthor:
			return it.AuthorOr(noAuthor)
		case GroupByDir:
			return path.Dir(it.File)
		default:
			return it.File
		}
	}

	var groups []group
	index := map[string]int{}
	for i := range items {
		it := &items[i]
		k := keyOf(it)
		gi, ok := index[k]
		if !ok {
			gi = len(groups)
			index[k] = gi
			groups = append(groups, group{name: k})
		}
		groups[gi].items = append(groups[gi].items, it)
	}

	switch by {
	case GroupByTag:
		sort.SliceStable(groups, func(i, j int) bool {
			return types.Tag(groups[i].name).Severity() > types.Tag(groups[j].name).Severity()
		})
	case GroupByPriority:
		sort.SliceStable(groups, func(i, j int) bool {
			return types.Priority(groups[i].name).Rank() > types.Priority(groups[j].name).Rank()
		})
	case GroupByAuthor:
		sort.SliceStable(groups, func(i, j int) bool {
			return groups[i].name != noAuthor && groups[j].name == noAuthor
		})
	}
	return groups
}

// ListOptions controls list rendering.
type ListOptions struct {
	GroupBy GroupBy
}

// List writes a snapshot.
func List(w io.Writer, f Format, snap *types.Snapshot, opts ListOptions) error {
	switch f {
	case FormatJSON:
		out := *snap
		if out.Items == nil {
			out.Items = []types.Item{}
		}
		return JSON(w, &out)
	case FormatMarkdown:
		return markdown(w, listMarkdown(snap))
	case FormatGitHubActions:
		return listGitHub(w, snap)
	default:
		return listText(w, snap, opts)
	}
}

func listText(w io.Writer, snap *types.Snapshot, opts ListOptions) error {
	by := opts.GroupBy
	if by == "" {
		by = GroupByFile
	}
	groups := groupItems(snap.Items, by)

	var b strings.Builder
	for _, g := range groups {
		b.WriteString(ui.RenderCategory(g.name))
		b.WriteByte('\n')
		for _, it := range g.items {
			if by == GroupByFile {
				fmt.Fprintf(&b, "  %s %s\n", ui.RenderMuted(fmt.Sprintf("%d:", it.Line)), itemText(it))
			} else {
				fmt.Fprintf(&b, "  %s %s\n", ui.RenderMuted(it.Location()), itemText(it))
			}
		}
		b.WriteByte('\n')
	}

	unit := "groups"
	count := len(groups)
	if by == GroupByFile {
		unit = "files"
	}
	fmt.Fprintf(&b, "%d items in %d %s\n", len(snap.Items), count, unit)

	_, err := io.WriteString(w, b.String())
	return err
}

func listMarkdown(snap *types.Snapshot) string {
	var b strings.Builder
	b.WriteString("# TODO Report\n\n")
	fmt.Fprintf(&b, "%d items in %d files (%d files scanned)\n\n", len(snap.Items), snap.Files(), snap.FilesScanned)
	if len(snap.Items) == 0 {
		return b.String()
	}
	b.WriteString("| File | Line | Tag | Priority | Message | Author | Issue |\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")
	for i := range snap.Items {
		it := &snap.Items[i]
		issue := ""
		if it.IssueRef != nil {
			issue = *it.IssueRef
		}
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s | %s |\n",
			escapeMarkdownCell(it.File), it.Line, it.Tag, it.Priority,
			escapeMarkdownCell(it.Message), escapeMarkdownCell(it.AuthorOr("")), escapeMarkdownCell(issue))
	}
	return b.String()
}

func listGitHub(w io.Writer, snap *types.Snapshot) error {
	for i := range snap.Items {
		it := &snap.Items[i]
		if err := annotation(w, itemLevel(it.Tag), it.File, it.Line, string(it.Tag), it.Message); err != nil {
			return err
		}
	}
	return nil
}

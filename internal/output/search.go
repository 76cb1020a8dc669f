package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/todoscan/todo-scan/internal/search"
	"github.com/todoscan/todo-scan/internal/types"
	"github.com/todoscan/todo-scan/internal/ui"
)

// Search writes search matches. Text output is grouped like list.
func Search(w io.Writer, f Format, res *search.Result, opts ListOptions) error {
	switch f {
	case FormatJSON:
		out := *res
		if out.Items == nil {
			out.Items = []search.Match{}
		}
		return JSON(w, &out)
	case FormatMarkdown:
		return markdown(w, searchMarkdown(res))
	case FormatGitHubActions:
		return searchGitHub(w, res)
	default:
		return searchText(w, res, opts)
	}
}

func searchText(w io.Writer, res *search.Result, opts ListOptions) error {
	by := opts.GroupBy
	if by == "" {
		by = GroupByFile
	}
	items := make([]types.Item, len(res.Items))
	contexts := map[string]*search.Context{}
	for i := range res.Items {
		items[i] = res.Items[i].Item
		if c := res.Items[i].Context; c != nil {
			contexts[items[i].Location()] = c
		}
	}
	// Room for the "    1234 " gutter.
	width := ui.Width(w, 120) - 9

	var b strings.Builder
	writeLines := func(lines []search.Line) {
		for _, l := range lines {
			fmt.Fprintf(&b, "    %s\n", ui.RenderMuted(fmt.Sprintf("%4d %s", l.LineNumber, ui.TruncateSimple(l.Content, width))))
		}
	}

	groups := groupItems(items, by)
	for _, g := range groups {
		b.WriteString(ui.RenderCategory(g.name))
		b.WriteByte('\n')
		for _, it := range g.items {
			c := contexts[it.Location()]
			indent := "  "
			if c != nil {
				writeLines(c.Before)
				indent = "→ "
			}
			where := it.Location()
			if by == GroupByFile {
				where = fmt.Sprintf("%d", it.Line)
			}
			fmt.Fprintf(&b, "%s%s %s\n", indent, ui.RenderMuted(where+":"), itemText(it))
			if c != nil {
				writeLines(c.After)
				b.WriteByte('\n')
			}
		}
		b.WriteByte('\n')
	}

	unit := "groups"
	count := len(groups)
	if by == GroupByFile {
		unit = "files"
	}
	fmt.Fprintf(&b, "%d matches across %d %s (query: %q)\n", res.MatchCount, count, unit, res.Query)
	_, err := io.WriteString(w, b.String())
	return err
}

func searchMarkdown(res *search.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# TODO Search: `%s`\n\n", strings.ReplaceAll(res.Query, "`", "'"))
	fmt.Fprintf(&b, "%d matches across %d files\n\n", res.MatchCount, res.FileCount)
	if len(res.Items) == 0 {
		return b.String()
	}
	b.WriteString("| File | Line | Tag | Message | Author |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for i := range res.Items {
		it := &res.Items[i].Item
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s |\n",
			escapeMarkdownCell(it.File), it.Line, it.Tag,
			escapeMarkdownCell(it.Message), escapeMarkdownCell(it.AuthorOr("")))
	}
	return b.String()
}

func searchGitHub(w io.Writer, res *search.Result) error {
	for i := range res.Items {
		it := &res.Items[i].Item
		if err := annotation(w, itemLevel(it.Tag), it.File, it.Line, string(it.Tag), it.Message); err != nil {
			return err
		}
	}
	return annotation(w, "notice", "", 0, "todo-scan search",
		fmt.Sprintf("%d matches across %d files (query: %s)", res.MatchCount, res.FileCount, res.Query))
}

// Context writes the view of one location. Every format but text is JSON.
func Context(w io.Writer, f Format, rich *search.Rich) error {
	if f != FormatText {
		return JSON(w, rich)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", ui.RenderCategory(fmt.Sprintf("%s:%d", rich.File, rich.Line)))
	for _, l := range rich.Before {
		fmt.Fprintf(&b, "  %s %s\n", ui.RenderMuted(fmt.Sprintf("%4d", l.LineNumber)), ui.RenderMuted(l.Content))
	}
	fmt.Fprintf(&b, "  %s %s\n", ui.RenderAccent(fmt.Sprintf("%4d", rich.Line)), rich.TodoLine)
	for _, l := range rich.After {
		fmt.Fprintf(&b, "  %s %s\n", ui.RenderMuted(fmt.Sprintf("%4d", l.LineNumber)), ui.RenderMuted(l.Content))
	}
	if len(rich.RelatedTodos) > 0 {
		b.WriteString("\nRelated TODOs:\n")
		for i := range rich.RelatedTodos {
			it := &rich.RelatedTodos[i]
			fmt.Fprintf(&b, "  %s %s\n", ui.RenderMuted(fmt.Sprintf("%d:", it.Line)), itemText(it))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

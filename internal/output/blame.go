package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/todoscan/todo-scan/internal/blame"
	"github.com/todoscan/todo-scan/internal/clean"
	"github.com/todoscan/todo-scan/internal/ui"
)

// Blame writes dated items grouped by file.
func Blame(w io.Writer, f Format, res *blame.Result) error {
	switch f {
	case FormatJSON:
		out := *res
		if out.Entries == nil {
			out.Entries = []blame.Entry{}
		}
		return JSON(w, &out)
	case FormatMarkdown:
		return markdown(w, blameMarkdown(res))
	case FormatGitHubActions:
		return blameGitHub(w, res)
	default:
		return blameText(w, res)
	}
}

func blameText(w io.Writer, res *blame.Result) error {
	var b strings.Builder
	file := ""
	for i := range res.Entries {
		e := &res.Entries[i]
		if i == 0 || e.File != file {
			if i > 0 {
				b.WriteByte('\n')
			}
			file = e.File
			b.WriteString(ui.RenderCategory(file))
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "  %s %s %s", ui.RenderMuted(fmt.Sprintf("%d:", e.Line)), itemText(&e.Item),
			ui.RenderMuted(fmt.Sprintf("@%s %s (%d days ago)", e.Blame.Author, e.Blame.Date, e.Blame.AgeDays)))
		if e.Stale {
			fmt.Fprintf(&b, " %s", ui.RenderFail("[STALE]"))
		}
		b.WriteByte('\n')
	}
	if len(res.Entries) > 0 {
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "%d items, avg age %d days, %d stale (threshold: %d days)\n",
		res.Total, res.AvgAgeDays, res.StaleCount, res.StaleThresholdDays)
	_, err := io.WriteString(w, b.String())
	return err
}

func blameMarkdown(res *blame.Result) string {
	var b strings.Builder
	b.WriteString("# TODO Blame\n\n")
	fmt.Fprintf(&b, "%d items, avg age %d days, %d stale (threshold: %d days)\n\n",
		res.Total, res.AvgAgeDays, res.StaleCount, res.StaleThresholdDays)
	if len(res.Entries) == 0 {
		return b.String()
	}
	b.WriteString("| File | Line | Tag | Message | Author | Date | Age (days) | Stale |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|\n")
	for i := range res.Entries {
		e := &res.Entries[i]
		stale := ""
		if e.Stale {
			stale = "yes"
		}
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s | %d | %s |\n",
			escapeMarkdownCell(e.File), e.Line, e.Tag, escapeMarkdownCell(e.Message),
			escapeMarkdownCell(e.Blame.Author), e.Blame.Date, e.Blame.AgeDays, stale)
	}
	return b.String()
}

func blameGitHub(w io.Writer, res *blame.Result) error {
	for i := range res.Entries {
		e := &res.Entries[i]
		if !e.Stale {
			continue
		}
		msg := fmt.Sprintf("%s (%d days old, last changed by %s)", e.Message, e.Blame.AgeDays, e.Blame.Author)
		if err := annotation(w, "warning", e.File, e.Line, "Stale "+string(e.Tag), msg); err != nil {
			return err
		}
	}
	return annotation(w, "notice", "", 0, "todo-scan blame",
		fmt.Sprintf("%d items, avg age %d days, %d stale", res.Total, res.AvgAgeDays, res.StaleCount))
}

// Clean writes removal candidates grouped by file.
func Clean(w io.Writer, f Format, res *clean.Result) error {
	switch f {
	case FormatJSON:
		out := *res
		if out.Violations == nil {
			out.Violations = []clean.Violation{}
		}
		return JSON(w, &out)
	case FormatMarkdown:
		return markdown(w, cleanMarkdown(res))
	case FormatGitHubActions:
		for _, v := range res.Violations {
			msg := v.Message
			if v.DuplicateOf != nil {
				msg += " (duplicate of " + *v.DuplicateOf + ")"
			}
			if err := annotation(w, "warning", v.File, v.Line, v.Rule, msg); err != nil {
				return err
			}
		}
		return nil
	default:
		return cleanText(w, res)
	}
}

func cleanText(w io.Writer, res *clean.Result) error {
	var b strings.Builder
	b.WriteString(ui.RenderCheck(res.Passed))
	b.WriteByte('\n')
	if res.Passed {
		fmt.Fprintf(&b, "%d items checked, no violations\n", res.TotalItems)
		_, err := io.WriteString(w, b.String())
		return err
	}
	file := ""
	for i, v := range res.Violations {
		if i == 0 || v.File != file {
			file = v.File
			b.WriteString(ui.RenderCategory(file))
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "  %s %s - %s", ui.RenderMuted(fmt.Sprintf("%d:", v.Line)), ui.RenderWarn(v.Rule), v.Message)
		if v.DuplicateOf != nil {
			fmt.Fprintf(&b, " %s", ui.RenderMuted("(duplicate of "+*v.DuplicateOf+")"))
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "\n%d violations (%d stale, %d duplicates) in %d items\n",
		len(res.Violations), res.StaleCount, res.DuplicateCount, res.TotalItems)
	_, err := io.WriteString(w, b.String())
	return err
}

func cleanMarkdown(res *clean.Result) string {
	var b strings.Builder
	if res.Passed {
		fmt.Fprintf(&b, "# TODO Clean: PASS\n\n%d items checked, no violations\n", res.TotalItems)
		return b.String()
	}
	fmt.Fprintf(&b, "# TODO Clean: FAIL\n\n%d violations (%d stale, %d duplicates) in %d items\n\n",
		len(res.Violations), res.StaleCount, res.DuplicateCount, res.TotalItems)
	b.WriteString("| File | Line | Rule | Message | Detail |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, v := range res.Violations {
		detail := ""
		switch {
		case v.DuplicateOf != nil:
			detail = "duplicate of " + *v.DuplicateOf
		case v.IssueRef != nil:
			detail = *v.IssueRef
		}
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s |\n",
			escapeMarkdownCell(v.File), v.Line, v.Rule, escapeMarkdownCell(v.Message), escapeMarkdownCell(detail))
	}
	return b.String()
}

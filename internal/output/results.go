package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/todoscan/todo-scan/internal/lint"
	"github.com/todoscan/todo-scan/internal/types"
	"github.com/todoscan/todo-scan/internal/ui"
)

var (
	addedColor   = color.New(color.FgGreen)
	removedColor = color.New(color.FgRed)
)

// Diff writes a diff result.
func Diff(w io.Writer, f Format, d *types.DiffResult) error {
	switch f {
	case FormatJSON:
		out := *d
		if out.Entries == nil {
			out.Entries = []types.DiffEntry{}
		}
		return JSON(w, &out)
	case FormatMarkdown:
		return markdown(w, diffMarkdown(d))
	case FormatGitHubActions:
		return diffGitHub(w, d)
	default:
		return diffText(w, d)
	}
}

func diffText(w io.Writer, d *types.DiffResult) error {
	for i := range d.Entries {
		e := &d.Entries[i]
		sign, c := "+", addedColor
		if e.Status == types.DiffRemoved {
			sign, c = "-", removedColor
		}
		line := fmt.Sprintf("%s %s [%s] %s", sign, e.Item.Location(), e.Item.Tag, e.Item.Message)
		if _, err := c.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\n%s %s (base: %s)\n",
		addedColor.Sprintf("+%d", d.AddedCount),
		removedColor.Sprintf("-%d", d.RemovedCount),
		d.BaseRef)
	return err
}

func diffMarkdown(d *types.DiffResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# TODO Diff (base: %s)\n\n", d.BaseRef)
	fmt.Fprintf(&b, "**+%d** added, **-%d** removed\n\n", d.AddedCount, d.RemovedCount)
	if len(d.Entries) == 0 {
		return b.String()
	}
	b.WriteString("| Status | File | Line | Tag | Message |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for i := range d.Entries {
		e := &d.Entries[i]
		fmt.Fprintf(&b, "| %s | %s | %d | %s | %s |\n",
			e.Status, escapeMarkdownCell(e.Item.File), e.Item.Line, e.Item.Tag, escapeMarkdownCell(e.Item.Message))
	}
	return b.String()
}

// diffGitHub annotates added items only; removed lines no longer exist in
// the checked out tree.
func diffGitHub(w io.Writer, d *types.DiffResult) error {
	for i := range d.Entries {
		e := &d.Entries[i]
		if e.Status != types.DiffAdded {
			continue
		}
		title := "New " + string(e.Item.Tag)
		if err := annotation(w, itemLevel(e.Item.Tag), e.Item.File, e.Item.Line, title, e.Item.Message); err != nil {
			return err
		}
	}
	return annotation(w, "notice", "", 0, "todo-scan diff",
		fmt.Sprintf("+%d -%d (base: %s)", d.AddedCount, d.RemovedCount, d.BaseRef))
}

// Check writes a gate evaluation.
func Check(w io.Writer, f Format, res *types.CheckResult) error {
	switch f {
	case FormatJSON:
		out := *res
		if out.Violations == nil {
			out.Violations = []types.Violation{}
		}
		return JSON(w, &out)
	case FormatMarkdown:
		return markdown(w, checkMarkdown(res))
	case FormatGitHubActions:
		return checkGitHub(w, res)
	default:
		return checkText(w, res)
	}
}

func checkText(w io.Writer, res *types.CheckResult) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", ui.RenderCheck(res.Passed), ui.RenderMuted(fmt.Sprintf("(%d items)", res.Total)))
	for _, v := range res.Violations {
		fmt.Fprintf(&b, "  %s: %s\n", v.Rule, v.Message)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func checkMarkdown(res *types.CheckResult) string {
	var b strings.Builder
	verdict := "PASS"
	if !res.Passed {
		verdict = "FAIL"
	}
	fmt.Fprintf(&b, "# TODO Check: %s\n\n", verdict)
	fmt.Fprintf(&b, "Total items: %d\n\n", res.Total)
	for _, v := range res.Violations {
		fmt.Fprintf(&b, "- **%s**: %s\n", v.Rule, v.Message)
	}
	return b.String()
}

func checkGitHub(w io.Writer, res *types.CheckResult) error {
	for _, v := range res.Violations {
		if err := annotation(w, "error", "", 0, "todo-scan "+v.Rule, v.Message); err != nil {
			return err
		}
	}
	if res.Passed {
		return annotation(w, "notice", "", 0, "todo-scan check", fmt.Sprintf("passed (%d items)", res.Total))
	}
	return nil
}

// Lint writes a lint result.
func Lint(w io.Writer, f Format, res *lint.Result) error {
	switch f {
	case FormatJSON:
		out := *res
		if out.Violations == nil {
			out.Violations = []lint.Violation{}
		}
		return JSON(w, &out)
	case FormatMarkdown:
		return markdown(w, lintMarkdown(res))
	case FormatGitHubActions:
		for _, v := range res.Violations {
			if err := annotation(w, "warning", v.File, v.Line, v.Rule, v.Message); err != nil {
				return err
			}
		}
		return nil
	default:
		return lintText(w, res)
	}
}

func lintText(w io.Writer, res *lint.Result) error {
	var b strings.Builder
	for _, v := range res.Violations {
		fmt.Fprintf(&b, "%s %s %s", ui.RenderMuted(fmt.Sprintf("%s:%d:", v.File, v.Line)), ui.RenderWarn(v.Rule), v.Message)
		if v.Suggestion != "" {
			fmt.Fprintf(&b, " %s", ui.RenderMuted("(suggestion: "+v.Suggestion+")"))
		}
		b.WriteByte('\n')
	}
	if len(res.Violations) > 0 {
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "%s %s\n", ui.RenderCheck(res.Passed),
		ui.RenderMuted(fmt.Sprintf("(%d violations in %d items)", res.ViolationCount, res.TotalItems)))
	_, err := io.WriteString(w, b.String())
	return err
}

func lintMarkdown(res *lint.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# TODO Lint\n\n%d violations in %d items\n\n", res.ViolationCount, res.TotalItems)
	if len(res.Violations) == 0 {
		return b.String()
	}
	b.WriteString("| File | Line | Rule | Message | Suggestion |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, v := range res.Violations {
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s |\n",
			escapeMarkdownCell(v.File), v.Line, v.Rule, escapeMarkdownCell(v.Message), escapeMarkdownCell(v.Suggestion))
	}
	return b.String()
}

// Package output renders scan results as text, JSON, markdown or GitHub
// Actions workflow commands.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/todoscan/todo-scan/internal/types"
	"github.com/todoscan/todo-scan/internal/ui"
)

// Format is an output syntax.
type Format string

const (
	FormatText          Format = "text"
	FormatJSON          Format = "json"
	FormatMarkdown      Format = "markdown"
	FormatGitHubActions Format = "github-actions"
)

// Formats lists the accepted --format values.
var Formats = []Format{FormatText, FormatJSON, FormatMarkdown, FormatGitHubActions}

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatMarkdown, FormatGitHubActions:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "github":
		return FormatGitHubActions, nil
	}
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return "", fmt.Errorf("unknown format %q (valid: %s)", s, strings.Join(names, ", "))
}

// JSON writes v as indented JSON followed by a newline.
func JSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// markdown renders md for w, styled with glamour on a color terminal.
func markdown(w io.Writer, md string) error {
	_, err := io.WriteString(w, ui.RenderMarkdown(w, md))
	return err
}

// itemText is the one-line human form of an item: "[TAG]!! message (author)".
func itemText(it *types.Item) string {
	var b strings.Builder
	b.WriteString(ui.RenderTag(it.Tag))
	b.WriteString(ui.RenderPriority(it.Priority))
	if it.Message != "" {
		b.WriteByte(' ')
		b.WriteString(it.Message)
	}
	if it.Author != nil {
		b.WriteByte(' ')
		b.WriteString(ui.RenderMuted("(" + *it.Author + ")"))
	}
	return b.String()
}

// escapeMarkdownCell keeps a value inside one table cell.
func escapeMarkdownCell(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "|", `\|`)
	return s
}

// GitHub workflow command escaping.
// https://docs.github.com/actions/using-workflows/workflow-commands-for-github-actions
var (
	ghData     = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")
	ghProperty = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A", ":", "%3A", ",", "%2C")
)

// annotation writes one ::level workflow command.
func annotation(w io.Writer, level, file string, line int, title, msg string) error {
	var props []string
	if file != "" {
		props = append(props, "file="+ghProperty.Replace(file))
		if line > 0 {
			props = append(props, fmt.Sprintf("line=%d", line))
		}
	}
	if title != "" {
		props = append(props, "title="+ghProperty.Replace(title))
	}
	sep := ""
	if len(props) > 0 {
		sep = " "
	}
	_, err := fmt.Fprintf(w, "::%s%s%s::%s\n", level, sep, strings.Join(props, ","), ghData.Replace(msg))
	return err
}

// itemLevel maps a tag to a GitHub annotation level.
func itemLevel(t types.Tag) string {
	switch {
	case t == types.TagNote:
		return "notice"
	case t.Severity() >= types.TagFixme.Severity():
		return "error"
	default:
		return "warning"
	}
}

// JSONLine writes v as compact JSON on a single line.
func JSONLine(w io.Writer, v any) error {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

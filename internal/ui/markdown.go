package ui

import (
	"io"

	"github.com/charmbracelet/glamour"
)

// maxReadableWidth caps word wrap on wide terminals.
const maxReadableWidth = 100

// RenderMarkdown renders markdown for display on w using glamour.
// Returns the original text when w is not a color terminal or rendering
// fails, so piped output stays plain markdown.
func RenderMarkdown(w io.Writer, markdown string) string {
	if !ShouldUseColor() || !IsTerminalWriter(w) {
		return markdown
	}

	wrapWidth := Width(w, 80)
	if wrapWidth > maxReadableWidth {
		wrapWidth = maxReadableWidth
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrapWidth),
	)
	if err != nil {
		return markdown
	}

	rendered, err := renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return rendered
}

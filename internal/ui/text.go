package ui

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// TruncateSimple performs simple end truncation with "..." suffix.
// UTF-8 safe.
func TruncateSimple(text string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(text) <= maxLen {
		return text
	}
	runes := []rune(text)
	if maxLen <= 3 {
		return "..."
	}
	return string(runes[:maxLen-3]) + "..."
}

// TruncateLines keeps at most maxLines lines of text. When lines are cut,
// the last kept line is replaced by a "... (N more lines)" marker.
// maxLines <= 0 disables truncation.
func TruncateLines(text string, maxLines int) string {
	if maxLines <= 0 || text == "" {
		return text
	}
	trailing := strings.HasSuffix(text, "\n")
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	if len(lines) <= maxLines {
		return text
	}

	kept := lines[:maxLines-1]
	hidden := len(lines) - len(kept)
	out := strings.Join(append(append([]string(nil), kept...), RenderMuted("... ("+strconv.Itoa(hidden)+" more lines)")), "\n")
	if trailing {
		out += "\n"
	}
	return out
}

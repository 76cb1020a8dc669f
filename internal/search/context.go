package search

import (
	"bytes"
	"strings"

	"github.com/todoscan/todo-scan/internal/types"
)

// Line is one numbered source line.
type Line struct {
	LineNumber int    `json:"line_number"`
	Content    string `json:"content"`
}

// Context holds the lines around an item, nearest last in Before and
// nearest first in After.
type Context struct {
	Before []Line `json:"before"`
	After  []Line `json:"after"`
}

// SplitLines splits data on \n, dropping a UTF-8 BOM and \r line ending
// remnants. A trailing newline does not start another line.
func SplitLines(data []byte) []string {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if len(data) == 0 {
		return []string{}
	}
	data = bytes.TrimSuffix(data, []byte("\n"))
	lines := strings.Split(string(data), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// Around returns up to n lines either side of the 1-based line, clamped to
// the file.
func Around(lines []string, line, n int) Context {
	c := Context{Before: []Line{}, After: []Line{}}
	for l := max(1, line-n); l < line && l <= len(lines); l++ {
		c.Before = append(c.Before, Line{LineNumber: l, Content: lines[l-1]})
	}
	for l := line + 1; l <= min(len(lines), line+n); l++ {
		c.After = append(c.After, Line{LineNumber: l, Content: lines[l-1]})
	}
	return c
}

// Rich is the view of one location: its surrounding code and the other
// tagged comments in the same file.
type Rich struct {
	File         string       `json:"file"`
	Line         int          `json:"line"`
	Before       []Line       `json:"before"`
	TodoLine     string       `json:"todo_line"`
	After        []Line       `json:"after"`
	RelatedTodos []types.Item `json:"related_todos"`
}

// NewRich builds the view of file:line from the file's lines and the items
// scanned from it. ok is false when line is outside the file.
func NewRich(file string, line, n int, lines []string, items []types.Item) (rich *Rich, ok bool) {
	if line < 1 || line > len(lines) {
		return nil, false
	}
	c := Around(lines, line, n)
	rich = &Rich{
		File:         file,
		Line:         line,
		Before:       c.Before,
		TodoLine:     lines[line-1],
		After:        c.After,
		RelatedTodos: []types.Item{},
	}
	for i := range items {
		if items[i].Line != line {
			rich.RelatedTodos = append(rich.RelatedTodos, items[i])
		}
	}
	return rich, true
}

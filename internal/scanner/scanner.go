// Package scanner extracts tagged comment items from file contents.
package scanner

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/todoscan/todo-scan/internal/grammar"
	"github.com/todoscan/todo-scan/internal/types"
	"github.com/todoscan/todo-scan/internal/walker"
)

var (
	// ErrBinary marks content that looks like a binary file.
	ErrBinary = errors.New("binary content")
	// ErrEncoding marks content that is not valid UTF-8.
	ErrEncoding = errors.New("invalid UTF-8")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FileReadError reports a file that could not be read or decoded. It is
// recovered by skipping the file unless the scan is strict.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error {
	return e.Err
}

// Scanner applies a Grammar to whole files.
type Scanner struct {
	grammar *grammar.Grammar
}

// New returns a Scanner for g.
func New(g *grammar.Grammar) *Scanner {
	return &Scanner{grammar: g}
}

// Grammar returns the grammar in use.
func (s *Scanner) Grammar() *grammar.Grammar {
	return s.grammar
}

// Scan returns the items found in content, in line order. file is the slash
// separated path recorded on each item and used to pick the comment syntax.
func (s *Scanner) Scan(file string, content []byte) ([]types.Item, error) {
	if walker.IsBinary(content) {
		return nil, &FileReadError{Path: file, Err: ErrBinary}
	}
	content = bytes.TrimPrefix(content, utf8BOM)
	if !utf8.Valid(content) {
		return nil, &FileReadError{Path: file, Err: ErrEncoding}
	}

	syn := grammar.ForPath(file)
	var items []types.Item
	text := string(content)
	lineNo := 0
	for len(text) > 0 {
		lineNo++
		line := text
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			line, text = text[:i], text[i+1:]
		} else {
			text = ""
		}
		line = strings.TrimSuffix(line, "\r")

		a, ok := s.grammar.ParseLine(syn, line)
		if !ok {
			continue
		}
		items = append(items, types.Item{
			File:     file,
			Line:     lineNo,
			Tag:      a.Tag,
			Message:  a.Message,
			Author:   types.StringPtr(a.Author),
			IssueRef: types.StringPtr(a.IssueRef),
			Priority: a.Priority,
			RawTag:   a.RawTag,
			HasColon: a.HasColon,
		})
	}
	return items, nil
}

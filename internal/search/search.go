// Package search finds tagged comments by text and reads the source lines
// around them.
package search

import (
	"context"
	"strings"

	"github.com/todoscan/todo-scan/internal/types"
)

// Options controls matching.
type Options struct {
	Query string
	// Exact matches case-sensitively. Otherwise case is ignored.
	Exact bool
}

// Match is an item with optional surrounding lines. Item fields are
// inlined in JSON.
type Match struct {
	types.Item
	Context *Context `json:"context,omitempty"`
}

// Result is the outcome of a search.
type Result struct {
	Query      string  `json:"query"`
	Exact      bool    `json:"exact"`
	Items      []Match `json:"items"`
	MatchCount int     `json:"match_count"`
	FileCount  int     `json:"file_count"`
}

// Matches reports whether the query occurs in the item's message, author,
// issue reference or file path.
func (o Options) Matches(it *types.Item) bool {
	fields := []string{it.Message, it.File, it.AuthorOr("")}
	if it.IssueRef != nil {
		fields = append(fields, *it.IssueRef)
	}
	q := o.Query
	if !o.Exact {
		q = strings.ToLower(q)
	}
	for _, f := range fields {
		if !o.Exact {
			f = strings.ToLower(f)
		}
		if strings.Contains(f, q) {
			return true
		}
	}
	return false
}

// Reader reads a file from the scanned tree.
type Reader interface {
	ReadFile(ctx context.Context, rel string) ([]byte, error)
}

// Run filters items in order. With lines > 0 each match carries up to that
// many source lines before and after it, read through r. A file that can
// no longer be read leaves its matches without context.
func Run(ctx context.Context, items []types.Item, opts Options, r Reader, lines int) (*Result, error) {
	res := &Result{Query: opts.Query, Exact: opts.Exact, Items: []Match{}}
	files := map[string][]string{}
	for i := range items {
		it := &items[i]
		if !opts.Matches(it) {
			continue
		}
		m := Match{Item: *it}
		if lines > 0 && r != nil {
			src, ok := files[it.File]
			if !ok {
				data, err := r.ReadFile(ctx, it.File)
				if err != nil && ctx.Err() != nil {
					return nil, ctx.Err()
				}
				if err == nil {
					src = SplitLines(data)
				}
				files[it.File] = src
			}
			if src != nil {
				c := Around(src, it.Line, lines)
				m.Context = &c
			}
		}
		res.Items = append(res.Items, m)
	}

	seen := map[string]bool{}
	for i := range res.Items {
		seen[res.Items[i].File] = true
	}
	res.MatchCount = len(res.Items)
	res.FileCount = len(seen)
	return res, nil
}

// Package clean finds tagged comments that are due for removal: copies of
// another comment, comments pointing at closed issues and comments older
// than a threshold.
package clean

import (
	"context"
	"fmt"

	"github.com/todoscan/todo-scan/internal/blame"
	"github.com/todoscan/todo-scan/internal/debug"
	"github.com/todoscan/todo-scan/internal/types"
)

// Rule names.
const (
	RuleStale      = "stale"
	RuleStaleIssue = "stale_issue"
	RuleDuplicate  = "duplicate"
)

// IssueChecker looks up issue references.
type IssueChecker interface {
	// Closed reports whether ref names a closed issue. Refs the checker
	// does not understand report false.
	Closed(ctx context.Context, ref string) (bool, error)
}

// Violation is one item due for removal.
type Violation struct {
	File        string  `json:"file"`
	Line        int     `json:"line"`
	Rule        string  `json:"rule"`
	Message     string  `json:"message"`
	IssueRef    *string `json:"issue_ref"`
	DuplicateOf *string `json:"duplicate_of"`
}

// Result is the outcome of a clean run.
type Result struct {
	Passed         bool        `json:"passed"`
	TotalItems     int         `json:"total_items"`
	StaleCount     int         `json:"stale_count"`
	DuplicateCount int         `json:"duplicate_count"`
	Violations     []Violation `json:"violations"`
}

// Options enables the optional rules. Duplicate detection always runs.
type Options struct {
	// Issues enables stale_issue.
	Issues IssueChecker
	// Ages enables stale, using the entries' Stale flags.
	Ages *blame.Result
}

// Run checks items in scan order. Per item, violations follow the order
// stale, stale_issue, duplicate. The first copy of a comment is the
// original; every later copy is a duplicate of it.
func Run(ctx context.Context, items []types.Item, opts Options) (*Result, error) {
	res := &Result{TotalItems: len(items), Violations: []Violation{}}

	stale := map[string]int{}
	if opts.Ages != nil {
		for i := range opts.Ages.Entries {
			e := &opts.Ages.Entries[i]
			if e.Stale {
				stale[e.Location()] = e.Blame.AgeDays
			}
		}
	}

	closed := map[string]bool{}
	first := map[string]string{}
	for i := range items {
		it := &items[i]

		if age, ok := stale[it.Location()]; ok {
			res.Violations = append(res.Violations, Violation{
				File:     it.File,
				Line:     it.Line,
				Rule:     RuleStale,
				Message:  fmt.Sprintf("%s is stale (%d days old)", it.Tag, age),
				IssueRef: it.IssueRef,
			})
			res.StaleCount++
		}

		if opts.Issues != nil && it.IssueRef != nil {
			ref := *it.IssueRef
			isClosed, known := closed[ref]
			if !known {
				var err error
				isClosed, err = opts.Issues.Closed(ctx, ref)
				if err != nil {
					if ctx.Err() != nil {
						return nil, ctx.Err()
					}
					debug.Logf("clean: cannot look up %s: %v\n", ref, err)
				}
				closed[ref] = isClosed
			}
			if isClosed {
				res.Violations = append(res.Violations, Violation{
					File:     it.File,
					Line:     it.Line,
					Rule:     RuleStaleIssue,
					Message:  fmt.Sprintf("%s references closed issue %s", it.Tag, ref),
					IssueRef: it.IssueRef,
				})
				res.StaleCount++
			}
		}

		// A bare tag carries nothing to compare.
		if it.Message == "" {
			continue
		}
		key := it.ContentKey()
		if orig, ok := first[key]; ok {
			res.Violations = append(res.Violations, Violation{
				File:        it.File,
				Line:        it.Line,
				Rule:        RuleDuplicate,
				Message:     fmt.Sprintf("duplicate %s: %s", it.Tag, it.Message),
				IssueRef:    it.IssueRef,
				DuplicateOf: types.StringPtr(orig),
			})
			res.DuplicateCount++
			continue
		}
		first[key] = it.Location()
	}

	res.Passed = len(res.Violations) == 0
	return res, nil
}

// Package lint checks that tagged comments follow formatting conventions.
package lint

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/todoscan/todo-scan/internal/types"
)

// Rule names, in the order they are applied to each item.
const (
	RuleNoBareTags       = "no_bare_tags"
	RuleUppercaseTag     = "uppercase_tag"
	RuleRequireColon     = "require_colon"
	RuleRequireAuthor    = "require_author"
	RuleRequireIssueRef  = "require_issue_ref"
	RuleMaxMessageLength = "max_message_length"
)

// Settings selects which rules run. The zero value runs none.
type Settings struct {
	NoBareTags      bool
	UppercaseTag    bool
	RequireColon    bool
	RequireAuthor   bool
	RequireIssueRef bool
	// AuthorTags limits require_author to these tags; empty means all.
	AuthorTags []types.Tag
	// IssueTags limits require_issue_ref to these tags; empty means all.
	IssueTags []types.Tag
	// MaxMessageLength is in characters; 0 disables the rule.
	MaxMessageLength int
}

// Violation is one convention breach.
type Violation struct {
	Rule       string `json:"rule"`
	Message    string `json:"message"`
	File       string `json:"file"`
	Line       int    `json:"line"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Result is the outcome of linting a snapshot.
type Result struct {
	Passed         bool        `json:"passed"`
	TotalItems     int         `json:"total_items"`
	ViolationCount int         `json:"violation_count"`
	Violations     []Violation `json:"violations"`
}

type check func(s Settings, it *types.Item) (msg, suggestion string, failed bool)

type rule struct {
	name    string
	enabled func(s Settings) bool
	check   check
}

var rules = []rule{
	{RuleNoBareTags, func(s Settings) bool { return s.NoBareTags }, checkBare},
	{RuleUppercaseTag, func(s Settings) bool { return s.UppercaseTag }, checkUppercase},
	{RuleRequireColon, func(s Settings) bool { return s.RequireColon }, checkColon},
	{RuleRequireAuthor, func(s Settings) bool { return s.RequireAuthor }, checkAuthor},
	{RuleRequireIssueRef, func(s Settings) bool { return s.RequireIssueRef }, checkIssueRef},
	{RuleMaxMessageLength, func(s Settings) bool { return s.MaxMessageLength > 0 }, checkLength},
}

// Run lints items in order. Violations are grouped by item, and within an
// item follow the rule order above.
func Run(items []types.Item, s Settings) *Result {
	res := &Result{TotalItems: len(items), Violations: []Violation{}}
	for i := range items {
		it := &items[i]
		for _, r := range rules {
			if !r.enabled(s) {
				continue
			}
			msg, suggestion, failed := r.check(s, it)
			if !failed {
				continue
			}
			res.Violations = append(res.Violations, Violation{
				Rule:       r.name,
				Message:    msg,
				File:       it.File,
				Line:       it.Line,
				Suggestion: suggestion,
			})
		}
	}
	res.ViolationCount = len(res.Violations)
	res.Passed = res.ViolationCount == 0
	return res
}

func checkBare(_ Settings, it *types.Item) (string, string, bool) {
	if strings.TrimSpace(it.Message) != "" {
		return "", "", false
	}
	return fmt.Sprintf("%s has no message", it.Tag), fmt.Sprintf("%s: describe what needs to be done", it.Tag), true
}

func checkUppercase(_ Settings, it *types.Item) (string, string, bool) {
	if it.RawTag == "" || it.RawTag == string(it.Tag) {
		return "", "", false
	}
	return fmt.Sprintf("tag %q should be uppercase", it.RawTag), string(it.Tag), true
}

func checkColon(_ Settings, it *types.Item) (string, string, bool) {
	if it.HasColon {
		return "", "", false
	}
	return fmt.Sprintf("missing ':' after %s", it.Tag), fmt.Sprintf("%s: %s", it.Tag, it.Message), true
}

func checkAuthor(s Settings, it *types.Item) (string, string, bool) {
	if it.Author != nil || !appliesTo(s.AuthorTags, it.Tag) {
		return "", "", false
	}
	return fmt.Sprintf("%s has no author", it.Tag), fmt.Sprintf("%s(name): %s", it.Tag, it.Message), true
}

func checkIssueRef(s Settings, it *types.Item) (string, string, bool) {
	if it.IssueRef != nil || !appliesTo(s.IssueTags, it.Tag) {
		return "", "", false
	}
	return fmt.Sprintf("%s has no issue reference", it.Tag), "reference an issue such as #123 or PROJ-123", true
}

func checkLength(s Settings, it *types.Item) (string, string, bool) {
	n := utf8.RuneCountInString(it.Message)
	if n <= s.MaxMessageLength {
		return "", "", false
	}
	return fmt.Sprintf("message is %d characters (max %d)", n, s.MaxMessageLength), "", true
}

func appliesTo(tags []types.Tag, tag types.Tag) bool {
	if len(tags) == 0 {
		return true
	}
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Package gate evaluates quality-gate rules against a snapshot and,
// optionally, a diff.
//
// Rules run in registration order and never short-circuit, so one
// evaluation can report violations from several rules. Passing means no
// rule produced a violation.
package gate

import (
	"errors"

	"github.com/todoscan/todo-scan/internal/types"
)

// ErrDiffRequired is returned when a rule that compares against history
// is enabled but no diff was supplied.
var ErrDiffRequired = errors.New("max_new requires --since to compare against")

// Settings is the merged rule configuration for one evaluation. A nil
// limit disables its rule.
type Settings struct {
	Max       *int
	MaxNew    *int
	BlockTags []types.Tag
}

// Input is what rules are evaluated against.
type Input struct {
	Snapshot *types.Snapshot
	// Diff is the comparison against --since, or nil.
	Diff *types.DiffResult
}

// Rule is one named constraint.
type Rule struct {
	Name        string
	Description string
	// NeedsDiff marks rules that can only run with Input.Diff set.
	NeedsDiff bool
	// Enabled reports whether the settings switch the rule on.
	Enabled func(s Settings) bool
	// Check returns one violation per failure, in a deterministic order.
	Check func(s Settings, in Input) []types.Violation
}

// Evaluate runs every enabled rule of r in order.
func (r *Registry) Evaluate(s Settings, in Input) (*types.CheckResult, error) {
	res := &types.CheckResult{
		Total:      len(in.Snapshot.Items),
		Violations: []types.Violation{},
	}
	for _, rule := range r.Rules() {
		if rule.Enabled != nil && !rule.Enabled(s) {
			continue
		}
		if rule.NeedsDiff && in.Diff == nil {
			return nil, ErrDiffRequired
		}
		res.Violations = append(res.Violations, rule.Check(s, in)...)
	}
	res.Passed = len(res.Violations) == 0
	return res, nil
}

// Evaluate runs the built-in rules: max, block_tags, then max_new.
func Evaluate(s Settings, in Input) (*types.CheckResult, error) {
	return Default().Evaluate(s, in)
}

// IntPtr is a helper for building Settings literals.
func IntPtr(n int) *int {
	return &n
}

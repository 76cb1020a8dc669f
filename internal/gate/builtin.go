package gate

import (
	"fmt"
	"sync"

	"github.com/todoscan/todo-scan/internal/types"
)

// Built-in rule names, also used as config keys under [check].
const (
	RuleMax       = "max"
	RuleBlockTags = "block_tags"
	RuleMaxNew    = "max_new"
)

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the registry of built-in rules. It is built once and
// must not be modified.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultReg = NewRegistry()
		for _, rule := range builtinRules() {
			if err := defaultReg.Register(rule); err != nil {
				panic(err)
			}
		}
	})
	return defaultReg
}

func builtinRules() []*Rule {
	return []*Rule{
		{
			Name:        RuleMax,
			Description: "total items must not exceed the limit",
			Enabled:     func(s Settings) bool { return s.Max != nil },
			Check:       checkMax,
		},
		{
			Name:        RuleBlockTags,
			Description: "any item with a blocked tag is a violation",
			Enabled:     func(s Settings) bool { return len(s.BlockTags) > 0 },
			Check:       checkBlockTags,
		},
		{
			Name:        RuleMaxNew,
			Description: "items added since --since must not exceed the limit",
			NeedsDiff:   true,
			Enabled:     func(s Settings) bool { return s.MaxNew != nil },
			Check:       checkMaxNew,
		},
	}
}

func checkMax(s Settings, in Input) []types.Violation {
	total := len(in.Snapshot.Items)
	if total <= *s.Max {
		return nil
	}
	return []types.Violation{{
		Rule:    RuleMax,
		Message: fmt.Sprintf("Total TODOs (%d) exceeds max (%d)", total, *s.Max),
	}}
}

func checkBlockTags(s Settings, in Input) []types.Violation {
	blocked := make(map[types.Tag]bool, len(s.BlockTags))
	for _, t := range s.BlockTags {
		blocked[t] = true
	}
	var out []types.Violation
	for i := range in.Snapshot.Items {
		it := &in.Snapshot.Items[i]
		if !blocked[it.Tag] {
			continue
		}
		out = append(out, types.Violation{
			Rule:    RuleBlockTags,
			Message: fmt.Sprintf("Blocked tag %s found in %s", it.Tag, it.Location()),
		})
	}
	return out
}

func checkMaxNew(s Settings, in Input) []types.Violation {
	if in.Diff.AddedCount <= *s.MaxNew {
		return nil
	}
	return []types.Violation{{
		Rule:    RuleMaxNew,
		Message: fmt.Sprintf("New TODOs (%d) exceeds max_new (%d)", in.Diff.AddedCount, *s.MaxNew),
	}}
}

package gate

import (
	"fmt"
	"sync"
)

// Registry holds rules in evaluation order.
type Registry struct {
	mu     sync.RWMutex
	rules  []*Rule
	byName map[string]*Rule
}

// NewRegistry creates an empty rule registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Rule)}
}

// Register appends a rule. Returns an error if a rule with the same name
// is already registered.
func (r *Registry) Register(rule *Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rule.Check == nil {
		return fmt.Errorf("rule %q has no check", rule.Name)
	}
	if _, exists := r.byName[rule.Name]; exists {
		return fmt.Errorf("rule %q already registered", rule.Name)
	}
	r.rules = append(r.rules, rule)
	r.byName[rule.Name] = rule
	return nil
}

// Rules returns the registered rules in evaluation order.
func (r *Registry) Rules() []*Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Rule, len(r.rules))
	copy(result, r.rules)
	return result
}

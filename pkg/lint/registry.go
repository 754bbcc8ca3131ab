package lint

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// rules holds every registered rule keyed by ID.
var (
	rulesMu sync.RWMutex
	rules   = make(map[string]RuleDef)
)

// Register adds a rule. Call it from init() functions in rule packages.
// It panics on a rule without an ID or check, and on a duplicate ID.
func Register(rule RuleDef) {
	if rule.ID == "" || rule.Check == nil {
		panic(fmt.Sprintf("lint: rule %q needs an ID and a check", rule.Name))
	}
	id := strings.ToUpper(rule.ID)

	rulesMu.Lock()
	defer rulesMu.Unlock()
	if _, dup := rules[id]; dup {
		panic("lint: rule " + id + " registered twice")
	}
	rule.ID = id
	rules[id] = rule
}

// GetAll returns all registered rules sorted by ID.
func GetAll() []RuleDef {
	rulesMu.RLock()
	defer rulesMu.RUnlock()

	out := make([]RuleDef, 0, len(rules))
	for _, rule := range rules {
		out = append(out, rule)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// GetByID returns a rule by its ID, ignoring case.
func GetByID(id string) (RuleDef, bool) {
	rulesMu.RLock()
	defer rulesMu.RUnlock()
	rule, ok := rules[strings.ToUpper(id)]
	return rule, ok
}

// GetByGroup returns all rules in a specific group.
func GetByGroup(group string) []RuleDef {
	var out []RuleDef
	for _, rule := range GetAll() {
		if rule.Group == group {
			out = append(out, rule)
		}
	}
	return out
}

// GetByDialect returns the rules that run for dialectName.
func GetByDialect(dialectName string) []RuleDef {
	var out []RuleDef
	for _, rule := range GetAll() {
		if rule.AppliesTo(dialectName) {
			out = append(out, rule)
		}
	}
	return out
}

// Unknown returns the IDs in ids that name no registered rule, in order.
func Unknown(ids []string) []string {
	var out []string
	for _, id := range ids {
		if _, ok := GetByID(id); !ok {
			out = append(out, id)
		}
	}
	return out
}

// RuleCount returns the number of registered rules.
func RuleCount() int {
	rulesMu.RLock()
	defer rulesMu.RUnlock()
	return len(rules)
}

// Clear removes all registered rules. Used for testing.
func Clear() {
	rulesMu.Lock()
	defer rulesMu.Unlock()
	rules = make(map[string]RuleDef)
}

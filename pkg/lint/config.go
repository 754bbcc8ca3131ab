package lint

import (
	"fmt"
	"strings"
)

// Config controls which rules run, what severity they report at and which
// diagnostics are kept. Rule IDs are case-insensitive.
type Config struct {
	disabled  map[string]bool
	overrides map[string]Severity

	// Threshold drops diagnostics less severe than it.
	Threshold Severity
}

// NewConfig creates a configuration with every rule enabled and every
// diagnostic reported.
func NewConfig() *Config {
	return &Config{
		disabled:  make(map[string]bool),
		overrides: make(map[string]Severity),
		Threshold: SeverityHint,
	}
}

// FromSettings builds a Config from the project file's lint section:
// rule IDs to disable and severity names keyed by rule ID.
func FromSettings(disable []string, severity map[string]string) (*Config, error) {
	cfg := NewConfig()
	for _, id := range disable {
		cfg.Disable(id)
	}
	for id, name := range severity {
		sev, ok := ParseSeverity(name)
		if !ok {
			return nil, fmt.Errorf("rule %s: unknown severity %q", strings.ToUpper(id), name)
		}
		cfg.SetSeverity(id, sev)
	}
	return cfg, nil
}

// IsDisabled returns true if the rule should be skipped.
func (c *Config) IsDisabled(ruleID string) bool {
	if c == nil {
		return false
	}
	return c.disabled[strings.ToUpper(ruleID)]
}

// GetSeverity returns the severity for a rule, applying any override.
func (c *Config) GetSeverity(ruleID string, defaultSeverity Severity) Severity {
	if c != nil {
		if sev, ok := c.overrides[strings.ToUpper(ruleID)]; ok {
			return sev
		}
	}
	return defaultSeverity
}

// Reports reports whether a diagnostic at s passes the threshold.
func (c *Config) Reports(s Severity) bool {
	return c == nil || s <= c.Threshold
}

// Disable disables a rule by ID.
func (c *Config) Disable(ruleID string) *Config {
	c.disabled[strings.ToUpper(ruleID)] = true
	return c
}

// SetSeverity overrides the severity for a rule.
func (c *Config) SetSeverity(ruleID string, severity Severity) *Config {
	c.overrides[strings.ToUpper(ruleID)] = severity
	return c
}

// Package lint checks input cells before generation.
//
// Rules are data-driven definitions registered from init() functions in
// pkg/lint/rules. A rule inspects one row at a time and reports the cells
// that will encode differently from what the mapping suggests, such as a
// Boolean column holding "yes" or an ObjectId that is not 24 hex digits.
// Diagnostics are advisory: generation output never depends on them.
package lint

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sheetscript/pkg/script"
)

// Severity indicates the importance of a diagnostic.
type Severity int

// Severity levels for diagnostics.
const (
	// SeverityError marks cells the target database will reject.
	SeverityError Severity = iota
	// SeverityWarning marks cells that will be encoded by a fallback rule.
	SeverityWarning
	// SeverityInfo marks rows that generate nothing.
	SeverityInfo
	// SeverityHint indicates a suggestion for improvement.
	SeverityHint
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	v, ok := ParseSeverity(string(text))
	if !ok {
		return fmt.Errorf("unknown severity %q", text)
	}
	*s = v
	return nil
}

// ParseSeverity converts a string to a Severity value.
// Returns the severity and true if valid, or SeverityWarning and false if invalid.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(s) {
	case "error":
		return SeverityError, true
	case "warning":
		return SeverityWarning, true
	case "info":
		return SeverityInfo, true
	case "hint":
		return SeverityHint, true
	default:
		return SeverityWarning, false
	}
}

// RowContext is everything a rule sees for one row.
type RowContext struct {
	// Row is the zero-based index of the row in the source.
	Row            int
	Cells          script.Row
	Fields         []script.Field
	Kind           script.Kind
	ConditionField string
	Dialect        string
}

// Cell returns the raw value mapped by f and whether it is in range.
func (c RowContext) Cell(f script.Field) (string, bool) {
	if f.CSVIndex < 0 || f.CSVIndex >= len(c.Cells) {
		return "", false
	}
	return c.Cells[f.CSVIndex], true
}

// Diagnostic represents a lint finding.
type Diagnostic struct {
	RuleID   string   `json:"rule"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Row      int      `json:"row"`
	Column   int      `json:"column"`
	Field    string   `json:"field,omitempty"`
	Value    string   `json:"value,omitempty"`
}

// HasErrors reports whether any diagnostic has error severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Count tallies diagnostics per severity.
func Count(diags []Diagnostic) map[Severity]int {
	out := make(map[Severity]int)
	for _, d := range diags {
		out[d.Severity]++
	}
	return out
}

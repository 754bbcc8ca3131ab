package lint

import (
	"fmt"

	"github.com/leapstack-labs/sheetscript/pkg/fieldtype"
	"github.com/leapstack-labs/sheetscript/pkg/script"
)

// CheckFunc analyzes a row and returns diagnostics.
type CheckFunc func(ctx RowContext) []Diagnostic

// RuleDef is a data-driven rule definition.
// Rules are stateless; all context comes via the RowContext.
type RuleDef struct {
	ID          string   // Unique identifier, e.g., "TY01"
	Name        string   // Human-readable name, e.g., "numeric.malformed"
	Group       string   // Category, e.g., "type" or "mapping"
	Description string   // Human-readable description
	Severity    Severity // Default severity
	Dialects    []string // Restricts the rule to these dialects; empty means all
	Check       CheckFunc
}

// AppliesTo reports whether the rule runs for dialectName.
func (r RuleDef) AppliesTo(dialectName string) bool {
	if len(r.Dialects) == 0 {
		return true
	}
	for _, d := range r.Dialects {
		if d == dialectName {
			return true
		}
	}
	return false
}

// RuleInfo provides metadata about a rule for documentation/tooling.
type RuleInfo struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Group           string   `json:"group"`
	Description     string   `json:"description"`
	DefaultSeverity Severity `json:"default_severity"`
	Dialects        []string `json:"dialects,omitempty"`
}

// GetRuleInfo extracts metadata from a RuleDef.
func GetRuleInfo(r RuleDef) RuleInfo {
	return RuleInfo{
		ID:              r.ID,
		Name:            r.Name,
		Group:           r.Group,
		Description:     r.Description,
		DefaultSeverity: r.Severity,
		Dialects:        r.Dialects,
	}
}

// CellCheck inspects one in-range, non-empty cell. It returns a message, or
// the empty string when the cell is fine.
type CellCheck func(t fieldtype.Type, value string) string

// CellRule builds a CheckFunc that applies check to every mapped,
// non-empty cell whose field type is one of types.
func CellRule(id string, severity Severity, check CellCheck, types ...fieldtype.Type) CheckFunc {
	want := make(map[fieldtype.Type]bool, len(types))
	for _, t := range types {
		want[t] = true
	}
	return func(ctx RowContext) []Diagnostic {
		var out []Diagnostic
		for _, f := range ctx.Fields {
			if !want[f.Type] {
				continue
			}
			v, ok := ctx.Cell(f)
			if !ok || v == "" {
				continue
			}
			if msg := check(f.Type, v); msg != "" {
				out = append(out, Diagnostic{
					RuleID:   id,
					Severity: severity,
					Message:  msg,
					Row:      ctx.Row,
					Column:   f.CSVIndex,
					Field:    f.DBField,
					Value:    v,
				})
			}
		}
		return out
	}
}

// FieldDiagnostic is a shorthand for rules that report on a mapped field.
func FieldDiagnostic(id string, severity Severity, ctx RowContext, f script.Field, format string, args ...any) Diagnostic {
	return Diagnostic{
		RuleID:   id,
		Severity: severity,
		Message:  fmt.Sprintf(format, args...),
		Row:      ctx.Row,
		Column:   f.CSVIndex,
		Field:    f.DBField,
	}
}

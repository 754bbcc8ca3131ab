package rules

import (
	"github.com/leapstack-labs/sheetscript/pkg/lint"
	"github.com/leapstack-labs/sheetscript/pkg/script"
)

func init() {
	lint.Register(ConditionEmpty)
}

// ConditionEmpty reports update and delete rows that will be skipped.
var ConditionEmpty = lint.RuleDef{
	ID:          "MP02",
	Name:        "condition.empty",
	Group:       "mapping",
	Description: "Update and delete rows without a condition value are skipped.",
	Severity:    lint.SeverityWarning,
	Check:       checkConditionEmpty,
}

func checkConditionEmpty(ctx lint.RowContext) []lint.Diagnostic {
	if !ctx.Kind.NeedsCondition() || ctx.ConditionField == "" {
		return nil
	}
	p := script.Project(ctx.Cells, ctx.Fields, ctx.ConditionField, map[string]struct{}{})
	if p.Condition != nil && p.Condition.Raw != "" {
		return nil
	}

	column := -1
	for _, f := range ctx.Fields {
		if f.DBField == ctx.ConditionField {
			column = f.CSVIndex
		}
	}
	return []lint.Diagnostic{{
		RuleID:   "MP02",
		Severity: lint.SeverityWarning,
		Message:  "condition " + ctx.ConditionField + " is empty; row will be skipped",
		Row:      ctx.Row,
		Column:   column,
		Field:    ctx.ConditionField,
	}}
}

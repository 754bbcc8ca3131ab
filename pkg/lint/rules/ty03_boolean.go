package rules

import (
	"github.com/leapstack-labs/sheetscript/pkg/dialect"
	"github.com/leapstack-labs/sheetscript/pkg/fieldtype"
	"github.com/leapstack-labs/sheetscript/pkg/lint"
)

func init() {
	lint.Register(BooleanVocabulary)
}

// BooleanVocabulary flags Boolean cells that will be written as strings.
var BooleanVocabulary = lint.RuleDef{
	ID:          "TY03",
	Name:        "boolean.vocabulary",
	Group:       "type",
	Description: "Boolean cells outside true/false/1/0 are emitted as quoted strings.",
	Severity:    lint.SeverityWarning,
	Check:       lint.CellRule("TY03", lint.SeverityWarning, checkBoolean, fieldtype.Boolean),
}

func checkBoolean(_ fieldtype.Type, v string) string {
	if _, ok := dialect.ParseBool(v); !ok {
		return "value is not true, false, 1 or 0 and will be written as a string"
	}
	return ""
}

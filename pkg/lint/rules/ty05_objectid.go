package rules

import (
	"encoding/hex"

	"github.com/leapstack-labs/sheetscript/pkg/fieldtype"
	"github.com/leapstack-labs/sheetscript/pkg/lint"
)

func init() {
	lint.Register(ObjectIDFormat)
}

// ObjectIDFormat flags ObjectId cells that fall back to plain strings.
var ObjectIDFormat = lint.RuleDef{
	ID:          "TY05",
	Name:        "objectid.format",
	Group:       "type",
	Description: "ObjectId cells that are not 24 hex digits are written as strings.",
	Severity:    lint.SeverityWarning,
	Dialects:    []string{"mongodb"},
	Check:       lint.CellRule("TY05", lint.SeverityWarning, checkObjectID, fieldtype.ObjectID),
}

func checkObjectID(_ fieldtype.Type, v string) string {
	if len(v) != 24 {
		return "value is not 24 hex digits and will be written as a string"
	}
	if _, err := hex.DecodeString(v); err != nil {
		return "value is not 24 hex digits and will be written as a string"
	}
	return ""
}

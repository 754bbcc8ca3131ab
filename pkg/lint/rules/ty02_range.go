package rules

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/leapstack-labs/sheetscript/pkg/fieldtype"
	"github.com/leapstack-labs/sheetscript/pkg/lint"
)

func init() {
	lint.Register(IntegerRange)
}

// IntegerRange flags integral cells outside their type's range.
var IntegerRange = lint.RuleDef{
	ID:          "TY02",
	Name:        "integer.range",
	Group:       "type",
	Description: "Integer values must fit in 32 bits and Long values in 64 bits.",
	Severity:    lint.SeverityError,
	Check:       lint.CellRule("TY02", lint.SeverityError, checkRange, fieldtype.Integer, fieldtype.Long),
}

var (
	minInt32 = decimal.NewFromInt(math.MinInt32)
	maxInt32 = decimal.NewFromInt(math.MaxInt32)
	minInt64 = decimal.NewFromInt(math.MinInt64)
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
)

func checkRange(t fieldtype.Type, v string) string {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return "" // TY01
	}
	if !d.IsInteger() {
		return "value is not a whole number"
	}
	lo, hi := minInt32, maxInt32
	if t == fieldtype.Long {
		lo, hi = minInt64, maxInt64
	}
	if d.LessThan(lo) || d.GreaterThan(hi) {
		return "value is out of range for " + t.String()
	}
	return ""
}

package rules

import (
	"github.com/shopspring/decimal"

	"github.com/leapstack-labs/sheetscript/pkg/fieldtype"
	"github.com/leapstack-labs/sheetscript/pkg/lint"
)

func init() {
	lint.Register(NumericMalformed)
}

// NumericMalformed flags numeric cells that are emitted verbatim but are not numbers.
var NumericMalformed = lint.RuleDef{
	ID:    "TY01",
	Name:  "numeric.malformed",
	Group: "type",
	Description: "Numeric cells are emitted unquoted; text that is not a number breaks the script. " +
		"On mongodb Decimal cells are checked too, since NumberDecimal rejects them.",
	Severity: lint.SeverityError,
	Check:    checkNumericRow,
}

var (
	numericCells = lint.CellRule("TY01", lint.SeverityError, checkNumeric,
		fieldtype.Integer, fieldtype.Long, fieldtype.Double, fieldtype.Float)
	decimalCells = lint.CellRule("TY01", lint.SeverityError, checkNumeric, fieldtype.Decimal)
)

// Relational dialects quote Decimal, so only the document dialect checks it.
func checkNumericRow(ctx lint.RowContext) []lint.Diagnostic {
	diags := numericCells(ctx)
	if ctx.Dialect == "mongodb" {
		diags = append(diags, decimalCells(ctx)...)
	}
	return diags
}

func checkNumeric(t fieldtype.Type, v string) string {
	if _, err := decimal.NewFromString(v); err != nil {
		return "value is not a valid " + t.String()
	}
	return ""
}

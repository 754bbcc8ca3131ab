package rules

import (
	"github.com/leapstack-labs/sheetscript/pkg/lint"
)

func init() {
	lint.Register(MappingOutOfRange)
}

// MappingOutOfRange reports mapped columns missing from a row.
var MappingOutOfRange = lint.RuleDef{
	ID:          "MP01",
	Name:        "mapping.out-of-range",
	Group:       "mapping",
	Description: "A mapped column index is beyond the row's length; the field is dropped for that row.",
	Severity:    lint.SeverityInfo,
	Check:       checkOutOfRange,
}

func checkOutOfRange(ctx lint.RowContext) []lint.Diagnostic {
	var out []lint.Diagnostic
	for _, f := range ctx.Fields {
		if _, ok := ctx.Cell(f); !ok {
			out = append(out, lint.FieldDiagnostic("MP01", lint.SeverityInfo, ctx, f,
				"column %d is missing (row has %d cells)", f.CSVIndex, len(ctx.Cells)))
		}
	}
	return out
}

package rules

import (
	"time"

	"github.com/leapstack-labs/sheetscript/pkg/fieldtype"
	"github.com/leapstack-labs/sheetscript/pkg/lint"
)

func init() {
	lint.Register(DateFormat)
}

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04:05"
)

// DateFormat flags date cells the date constructors will not parse.
var DateFormat = lint.RuleDef{
	ID:          "TY04",
	Name:        "date.format",
	Group:       "type",
	Description: "Dates must be YYYY-MM-DD and date-times YYYY-MM-DDTHH:MM:SS.",
	Severity:    lint.SeverityWarning,
	Check: lint.CellRule("TY04", lint.SeverityWarning, checkDate,
		fieldtype.LocalDate, fieldtype.Date, fieldtype.LocalDateTime),
}

func checkDate(t fieldtype.Type, v string) string {
	layout := dateLayout
	if t == fieldtype.LocalDateTime {
		layout = dateTimeLayout
	}
	if _, err := time.Parse(layout, v); err != nil {
		return "value does not match " + layout
	}
	return ""
}

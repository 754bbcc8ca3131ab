// Package mysql provides the relational (MySQL) script dialect.
// This package is pure Go with no database driver dependencies; scripts are
// rendered as text and never executed.
package mysql

import (
	"strings"

	"github.com/leapstack-labs/sheetscript/pkg/dialect"
	"github.com/leapstack-labs/sheetscript/pkg/fieldtype"
)

func init() {
	dialect.Register(MySQL)
}

const (
	// Null is the relational null literal.
	Null = "NULL"

	dateTimeFormat = "%Y-%m-%dT%H:%i:%s"
	dateFormat     = "%Y-%m-%d"
)

// MySQL is the relational dialect.
var MySQL = dialect.NewDialect("mysql").
	Aliases("relational", "sql").
	Family(dialect.Relational).
	FileExt(".sql").
	Describe("MySQL DML (UPDATE / INSERT / DELETE)").
	Encoder(Encoder{}).
	Renderer(Renderer{}).
	Build()

// Encoder encodes cell values as MySQL literals. Role does not affect output.
type Encoder struct{}

// Encode implements dialect.Encoder.
func (Encoder) Encode(t fieldtype.Type, raw string, _ dialect.Role) dialect.Literal {
	if raw == "" {
		return dialect.Literal{Text: Null, Null: true}
	}
	switch {
	case t == fieldtype.LocalDateTime:
		return lit(strToDate(raw, dateTimeFormat))
	case t == fieldtype.LocalDate, t == fieldtype.Date:
		return lit(strToDate(raw, dateFormat))
	case t.IsNumeric():
		return lit(raw)
	case t == fieldtype.Boolean:
		if v, ok := dialect.ParseBool(raw); ok {
			if v {
				return lit("TRUE")
			}
			return lit("FALSE")
		}
		return lit(Quote(raw))
	default:
		return lit(Quote(raw))
	}
}

// Quote returns s as a single-quoted string literal with every ' doubled.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func strToDate(v, format string) string {
	return "STR_TO_DATE(" + Quote(v) + ", '" + format + "')"
}

func lit(s string) dialect.Literal { return dialect.Literal{Text: s} }

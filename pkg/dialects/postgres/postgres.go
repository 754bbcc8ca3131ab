// Package postgres provides the PostgreSQL script dialect.
// This package is pure Go with no database driver dependencies.
//
// Statements share the MySQL DML shape; only literals differ. Dates use
// typed literals instead of STR_TO_DATE.
package postgres

import (
	"github.com/leapstack-labs/sheetscript/pkg/dialect"
	"github.com/leapstack-labs/sheetscript/pkg/dialects/mysql"
	"github.com/leapstack-labs/sheetscript/pkg/fieldtype"
)

func init() {
	dialect.Register(Postgres)
}

// Postgres is the PostgreSQL dialect.
var Postgres = dialect.NewDialect("postgres").
	Aliases("postgresql", "pg").
	Family(dialect.Relational).
	FileExt(".sql").
	Describe("PostgreSQL DML (UPDATE / INSERT / DELETE)").
	Encoder(Encoder{}).
	Renderer(mysql.Renderer{}).
	Build()

// Encoder encodes cell values as PostgreSQL literals. Role does not affect
// output.
type Encoder struct{}

// Encode implements dialect.Encoder.
func (Encoder) Encode(t fieldtype.Type, raw string, _ dialect.Role) dialect.Literal {
	if raw == "" {
		return dialect.Literal{Text: mysql.Null, Null: true}
	}
	switch {
	case t == fieldtype.LocalDateTime:
		return lit("TIMESTAMP " + mysql.Quote(raw))
	case t == fieldtype.LocalDate, t == fieldtype.Date:
		return lit("DATE " + mysql.Quote(raw))
	case t.IsNumeric():
		return lit(raw)
	case t == fieldtype.Boolean:
		if v, ok := dialect.ParseBool(raw); ok {
			if v {
				return lit("TRUE")
			}
			return lit("FALSE")
		}
		return lit(mysql.Quote(raw))
	default:
		return lit(mysql.Quote(raw))
	}
}

func lit(s string) dialect.Literal { return dialect.Literal{Text: s} }

// Package mongodb provides the document (MongoDB shell) script dialect.
//
// Values are rendered with mongo shell constructors (NumberInt, ObjectId,
// BinData, ...) chosen by the semantic field type. Statements use the
// updateOne / insertOne / deleteOne collection methods.
package mongodb

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sheetscript/pkg/dialect"
	"github.com/leapstack-labs/sheetscript/pkg/fieldtype"
)

func init() {
	dialect.Register(MongoDB)
}

// Null is the document null literal.
const Null = "null"

// Date constructors accepted by the encoder.
const (
	NewDate = "new Date"
	ISODate = "ISODate"
)

// MongoDB is the document dialect using the new Date constructor.
var MongoDB = dialect.NewDialect("mongodb").
	Aliases("document", "mongo").
	Family(dialect.Document).
	FileExt(".js").
	Describe("MongoDB shell (updateOne / insertOne / deleteOne)").
	Encoder(Encoder{}).
	Renderer(Renderer{}).
	Build()

// WithDateConstructor returns a copy of the MongoDB dialect whose encoder
// renders temporal values with ctor. An empty ctor keeps the default.
func WithDateConstructor(ctor string) (*dialect.Dialect, error) {
	switch ctor {
	case "", NewDate, ISODate:
	default:
		return nil, fmt.Errorf("unsupported date constructor %q (use %q or %q)", ctor, NewDate, ISODate)
	}
	d := MongoDB.Clone()
	d.Encoder = Encoder{DateConstructor: ctor}
	return d, nil
}

// Encoder encodes cell values as mongo shell literals.
type Encoder struct {
	// DateConstructor wraps temporal values; defaults to NewDate.
	DateConstructor string
}

// Encode implements dialect.Encoder.
func (e Encoder) Encode(t fieldtype.Type, raw string, role dialect.Role) dialect.Literal {
	// Sentinels ignore the cell value entirely.
	switch t {
	case fieldtype.MinKey:
		return lit("MinKey()")
	case fieldtype.MaxKey:
		return lit("MaxKey()")
	}

	if raw == "" {
		return dialect.Literal{Text: Null, Null: true}
	}

	if t.IsNumeric() {
		if role == dialect.RoleCondition {
			return lit(raw)
		}
		switch t {
		case fieldtype.Integer:
			return lit("NumberInt(" + raw + ")")
		case fieldtype.Long:
			return lit("NumberLong(" + raw + ")")
		default:
			return lit(raw)
		}
	}

	switch t {
	case fieldtype.LocalDateTime, fieldtype.LocalDate, fieldtype.Date:
		return lit(e.dateConstructor() + "(" + Quote(raw) + ")")
	case fieldtype.Timestamp:
		// A fresh Timestamp never matches stored data, so filters use the text.
		if role == dialect.RoleCondition {
			return lit(Quote(raw))
		}
		return lit("new Timestamp()")
	case fieldtype.ObjectID:
		if isObjectIDHex(raw) {
			return lit("ObjectId(" + Quote(raw) + ")")
		}
		return lit(Quote(raw))
	case fieldtype.Decimal:
		return lit("NumberDecimal(" + Quote(raw) + ")")
	case fieldtype.Boolean:
		if v, ok := dialect.ParseBool(raw); ok {
			if v {
				return lit("true")
			}
			return lit("false")
		}
		return lit(Quote(raw))
	case fieldtype.Binary:
		return lit("BinData(0, " + Quote(raw) + ")")
	case fieldtype.RegExp:
		return lit("RegExp(" + Quote(raw) + ")")
	case fieldtype.Code:
		return lit("Code(" + Quote(raw) + ")")
	case fieldtype.Object:
		if wrapped(raw, '{', '}') {
			return lit(raw)
		}
		return lit(Quote(raw))
	case fieldtype.Array:
		if wrapped(raw, '[', ']') {
			return lit(raw)
		}
		return lit(splitArray(raw))
	default:
		return lit(Quote(raw))
	}
}

func (e Encoder) dateConstructor() string {
	if e.DateConstructor == "" {
		return NewDate
	}
	return e.DateConstructor
}

var quoteReplacer = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
)

// Quote returns s as a double-quoted shell string. Backslashes and double
// quotes are escaped, as are line breaks, which would otherwise end the
// literal.
func Quote(s string) string {
	return `"` + quoteReplacer.Replace(s) + `"`
}

func isObjectIDHex(s string) bool {
	if len(s) != 24 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}

func wrapped(s string, open, close byte) bool {
	s = strings.TrimSpace(s)
	return len(s) >= 2 && s[0] == open && s[len(s)-1] == close
}

// splitArray renders a comma-separated list as an array of strings.
func splitArray(raw string) string {
	parts := strings.Split(raw, ",")
	items := make([]string, len(parts))
	for i, p := range parts {
		items[i] = Quote(strings.TrimSpace(p))
	}
	return "[" + strings.Join(items, ", ") + "]"
}

func lit(s string) dialect.Literal { return dialect.Literal{Text: s} }

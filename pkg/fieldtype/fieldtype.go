// Package fieldtype classifies free-text field type tags into the semantic
// types that drive literal encoding.
//
// Tags usually come from source-code declarations ("java.lang.Integer",
// "java.time.LocalDate", "ObjectId") and are matched by substring
// containment, not exact comparison. A tag that contains more than one
// recognized substring resolves to the first rule in declaration order.
package fieldtype

import "strings"

// Type is a semantic field type.
type Type int

const (
	// Untyped means no tag was supplied.
	Untyped Type = iota
	Integer
	Long
	Double
	Float
	Boolean
	LocalDateTime
	LocalDate
	Date
	Timestamp
	ObjectID
	Decimal
	Binary
	RegExp
	MinKey
	MaxKey
	Code
	Object
	Array
	String
	// Other means a tag was supplied but no rule matched it.
	Other
)

var typeNames = [...]string{
	Untyped:       "untyped",
	Integer:       "Integer",
	Long:          "Long",
	Double:        "Double",
	Float:         "Float",
	Boolean:       "Boolean",
	LocalDateTime: "LocalDateTime",
	LocalDate:     "LocalDate",
	Date:          "Date",
	Timestamp:     "Timestamp",
	ObjectID:      "ObjectId",
	Decimal:       "Decimal",
	Binary:        "Binary",
	RegExp:        "RegExp",
	MinKey:        "MinKey",
	MaxKey:        "MaxKey",
	Code:          "Code",
	Object:        "Object",
	Array:         "Array",
	String:        "String",
	Other:         "other",
}

// String returns the canonical name of the type.
func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "unknown"
	}
	return typeNames[t]
}

// IsNumeric reports whether values of this type are emitted unquoted as
// plain numbers.
func (t Type) IsNumeric() bool {
	switch t {
	case Integer, Long, Double, Float:
		return true
	default:
		return false
	}
}

// IsTemporal reports whether the type is one of the date-like types that
// dialects render through a date constructor.
func (t Type) IsTemporal() bool {
	return t == LocalDateTime || t == LocalDate || t == Date
}

// Rule pairs a predicate on the raw tag with the type it selects.
type Rule struct {
	Substring string
	Type      Type
}

// Matches reports whether the rule applies to tag.
func (r Rule) Matches(tag string) bool {
	return strings.Contains(tag, r.Substring)
}

// rules is evaluated top to bottom; the order is part of the output contract.
var rules = []Rule{
	{"Integer", Integer},
	{"Long", Long},
	{"Double", Double},
	{"Float", Float},
	{"Boolean", Boolean},
	{"LocalDateTime", LocalDateTime},
	{"LocalDate", LocalDate},
	{"Date", Date},
	{"Timestamp", Timestamp},
	{"ObjectId", ObjectID},
	{"Decimal", Decimal},
	{"Binary", Binary},
	{"RegExp", RegExp},
	{"MinKey", MinKey},
	{"MaxKey", MaxKey},
	{"Code", Code},
	{"Object", Object},
	{"Array", Array},
	{"String", String},
}

// Classify maps a type tag to its semantic type.
// An empty tag is Untyped; a tag no rule matches is Other.
func Classify(tag string) Type {
	if tag == "" {
		return Untyped
	}
	for _, r := range rules {
		if r.Matches(tag) {
			return r.Type
		}
	}
	return Other
}

// Rules returns a copy of the ordered classification rules.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Parse returns the type with the given canonical name (case-insensitive).
func Parse(name string) (Type, bool) {
	for i, n := range typeNames {
		if strings.EqualFold(n, name) {
			return Type(i), true
		}
	}
	return Untyped, false
}

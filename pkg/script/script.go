// Package script turns tabular rows and a field mapping into mutation
// scripts.
//
// Generation is a pure function of its inputs: each row is projected onto the
// mapped fields, every resolved value is encoded by the dialect, and one
// statement per qualifying row is appended to the script. Rows that lack a
// condition value or payload are skipped and reported in Result.Skipped;
// they never cause an error.
package script

import (
	"errors"
	"fmt"
	"strings"
)

// Row is one record of cell values.
type Row = []string

// FieldMapping binds a destination field to a column of the input.
type FieldMapping struct {
	DBField  string `json:"dbField" yaml:"db_field"`
	CSVIndex int    `json:"csvIndex" yaml:"csv_index"`
	// FieldType is a free-text type tag such as "java.lang.Integer". Empty
	// means untyped.
	FieldType string `json:"fieldType,omitempty" yaml:"field_type,omitempty"`
}

// Mappings is the full mapping set keyed by an arbitrary identifier.
type Mappings map[string]FieldMapping

// Kind is the statement kind.
type Kind int

const (
	KindUpdate Kind = iota
	KindInsert
	KindDelete
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindUpdate:
		return "update"
	case KindInsert:
		return "insert"
	case KindDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// ParseKind parses a kind name (case-insensitive).
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "update":
		return KindUpdate, nil
	case "insert":
		return KindInsert, nil
	case "delete":
		return KindDelete, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// NeedsCondition reports whether the kind filters on a condition field.
func (k Kind) NeedsCondition() bool { return k == KindUpdate || k == KindDelete }

var (
	// ErrNilDialect is returned when Generate is called without a dialect.
	ErrNilDialect = errors.New("dialect is nil")
	// ErrUnknownKind is returned for statement kinds outside update, insert and delete.
	ErrUnknownKind = errors.New("unknown statement kind")
	// ErrNegativeHeaderRows is returned when Request.HeaderRows is below zero.
	ErrNegativeHeaderRows = errors.New("header rows must not be negative")
)

// Request describes one generation.
type Request struct {
	Rows     []Row
	Mappings Mappings
	Kind     Kind
	// ConditionField names the db field used in WHERE clauses and filters.
	// Ignored for inserts.
	ConditionField string
	// UpdateFields lists the db fields written by an update.
	UpdateFields []string
	// Target is the table or collection name, emitted verbatim.
	Target string
	// HeaderRows excludes that many leading rows from generation. The
	// zero value treats every row as data.
	HeaderRows int
}

// Skip records a row that produced no statement.
type Skip struct {
	Row    int    `json:"row"`
	Reason Reason `json:"reason"`
}

// Reason explains why a row was skipped.
type Reason string

const (
	ReasonNoCondition    Reason = "condition field not resolved"
	ReasonEmptyCondition Reason = "condition value empty"
	ReasonNoPayload      Reason = "no field resolved"
)

// Result is the outcome of a generation.
type Result struct {
	Script     string
	Statements int
	// Rows is the number of data rows considered.
	Rows    int
	Skipped []Skip
}

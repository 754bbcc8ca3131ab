// Package dialect provides the contract for script dialects.
//
// A dialect knows how to encode a raw cell value into a literal token and how
// to render a complete mutation statement from encoded fields. Concrete
// dialects are registered from pkg/dialects/*/ packages in their init()
// functions.
package dialect

import (
	"strings"

	"github.com/leapstack-labs/sheetscript/pkg/fieldtype"
)

// Family groups dialects by the shape of script they emit.
type Family int

const (
	// Relational dialects emit SQL DML.
	Relational Family = iota
	// Document dialects emit document-store shell commands.
	Document
)

// String returns the string representation of Family.
func (f Family) String() string {
	switch f {
	case Relational:
		return "relational"
	case Document:
		return "document"
	default:
		return "unknown"
	}
}

// Role tells the encoder where a literal will be placed.
type Role int

const (
	// RolePayload is a value written by SET, VALUES or a document body.
	RolePayload Role = iota
	// RoleCondition is the value of a WHERE clause or filter document.
	RoleCondition
)

// Literal is an encoded value ready to be spliced into a statement.
type Literal struct {
	Text string
	Null bool
}

// String returns the literal text.
func (l Literal) String() string { return l.Text }

// Binding pairs a field name with its encoded value.
type Binding struct {
	Field string
	Value Literal
}

// Encoder renders raw cell text as a dialect literal.
// Implementations never fail; unrecognized input degrades to a quoted string.
type Encoder interface {
	Encode(t fieldtype.Type, raw string, role Role) Literal
}

// EncoderFunc adapts a function to the Encoder interface.
type EncoderFunc func(t fieldtype.Type, raw string, role Role) Literal

// Encode calls f.
func (f EncoderFunc) Encode(t fieldtype.Type, raw string, role Role) Literal {
	return f(t, raw, role)
}

// Renderer builds one complete, terminated statement.
// The target name and field names are emitted verbatim.
type Renderer interface {
	Update(target string, cond Binding, set []Binding) string
	Insert(target string, fields []Binding) string
	Delete(target string, cond Binding) string
}

// Dialect represents a script dialect configuration.
type Dialect struct {
	Name    string
	Aliases []string
	Family  Family
	// FileExt is the conventional extension for scripts, including the dot.
	FileExt     string
	Description string

	Encoder  Encoder
	Renderer Renderer
}

// GetName returns the dialect name.
func (d *Dialect) GetName() string { return d.Name }

// Encode encodes raw using the dialect encoder.
func (d *Dialect) Encode(t fieldtype.Type, raw string, role Role) Literal {
	return d.Encoder.Encode(t, raw, role)
}

// Matches reports whether name refers to this dialect by name or alias.
func (d *Dialect) Matches(name string) bool {
	if strings.EqualFold(d.Name, name) {
		return true
	}
	for _, a := range d.Aliases {
		if strings.EqualFold(a, name) {
			return true
		}
	}
	return false
}

// Clone returns a shallow copy so callers can swap the encoder (for example
// to apply per-run options) without touching the registered dialect.
func (d *Dialect) Clone() *Dialect {
	c := *d
	c.Aliases = append([]string(nil), d.Aliases...)
	return &c
}

// Builder provides a fluent API for constructing dialects.
type Builder struct {
	dialect *Dialect
}

// NewDialect creates a new dialect builder with the given name.
func NewDialect(name string) *Builder {
	return &Builder{
		dialect: &Dialect{Name: name},
	}
}

// Aliases adds alternative names the registry resolves to this dialect.
func (b *Builder) Aliases(names ...string) *Builder {
	b.dialect.Aliases = append(b.dialect.Aliases, names...)
	return b
}

// Family sets the dialect family.
func (b *Builder) Family(f Family) *Builder {
	b.dialect.Family = f
	return b
}

// FileExt sets the script file extension.
func (b *Builder) FileExt(ext string) *Builder {
	b.dialect.FileExt = ext
	return b
}

// Describe sets a one-line description shown by tooling.
func (b *Builder) Describe(desc string) *Builder {
	b.dialect.Description = desc
	return b
}

// Encoder sets the literal encoder.
func (b *Builder) Encoder(e Encoder) *Builder {
	b.dialect.Encoder = e
	return b
}

// Renderer sets the statement renderer.
func (b *Builder) Renderer(r Renderer) *Builder {
	b.dialect.Renderer = r
	return b
}

// Build returns the constructed dialect.
// It panics when the encoder or renderer is missing; dialects are built at
// package init, so this surfaces as a startup failure.
func (b *Builder) Build() *Dialect {
	if b.dialect.Encoder == nil || b.dialect.Renderer == nil {
		panic("dialect " + b.dialect.Name + ": encoder and renderer are required")
	}
	return b.dialect
}

// ParseBool recognizes the boolean vocabulary shared by all dialects:
// "true"/"1" and "false"/"0", case-insensitive. ok is false for anything else.
func ParseBool(raw string) (value, ok bool) {
	switch strings.ToLower(raw) {
	case "true", "1":
		return true, true
	case "false", "0":
		return false, true
	default:
		return false, false
	}
}

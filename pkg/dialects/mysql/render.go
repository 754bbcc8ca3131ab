package mysql

import (
	"strings"

	"github.com/leapstack-labs/sheetscript/pkg/dialect"
)

// Renderer renders MySQL DML statements.
type Renderer struct{}

// Update renders UPDATE t SET a = x, b = y WHERE c = z;
func (Renderer) Update(target string, cond dialect.Binding, set []dialect.Binding) string {
	var b strings.Builder
	b.WriteString("UPDATE ")
	b.WriteString(target)
	b.WriteString(" SET ")
	for i, f := range set {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Field)
		b.WriteString(" = ")
		b.WriteString(f.Value.Text)
	}
	writeWhere(&b, cond)
	b.WriteString(";\n")
	return b.String()
}

// Insert renders INSERT INTO t (a, b) VALUES (x, y);
func (Renderer) Insert(target string, fields []dialect.Binding) string {
	cols := make([]string, len(fields))
	vals := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Field
		vals[i] = f.Value.Text
	}

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(target)
	b.WriteString(" (")
	b.WriteString(strings.Join(cols, ", "))
	b.WriteString(") VALUES (")
	b.WriteString(strings.Join(vals, ", "))
	b.WriteString(");\n")
	return b.String()
}

// Delete renders DELETE FROM t WHERE c = z;
func (Renderer) Delete(target string, cond dialect.Binding) string {
	var b strings.Builder
	b.WriteString("DELETE FROM ")
	b.WriteString(target)
	writeWhere(&b, cond)
	b.WriteString(";\n")
	return b.String()
}

func writeWhere(b *strings.Builder, cond dialect.Binding) {
	b.WriteString(" WHERE ")
	b.WriteString(cond.Field)
	b.WriteString(" = ")
	b.WriteString(cond.Value.Text)
}

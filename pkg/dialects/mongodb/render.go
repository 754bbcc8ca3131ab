package mongodb

import (
	"strings"

	"github.com/leapstack-labs/sheetscript/pkg/dialect"
)

// Renderer renders mongo shell collection calls.
type Renderer struct{}

// Update renders db.t.updateOne({ "c": z }, { $set: { "a": x } });
func (Renderer) Update(target string, cond dialect.Binding, set []dialect.Binding) string {
	var b strings.Builder
	writeCall(&b, target, "updateOne")
	writeDoc(&b, []dialect.Binding{cond})
	b.WriteString(", { $set: ")
	writeDoc(&b, set)
	b.WriteString(" });\n")
	return b.String()
}

// Insert renders db.t.insertOne({ "a": x, "b": y });
func (Renderer) Insert(target string, fields []dialect.Binding) string {
	var b strings.Builder
	writeCall(&b, target, "insertOne")
	writeDoc(&b, fields)
	b.WriteString(");\n")
	return b.String()
}

// Delete renders db.t.deleteOne({ "c": z });
func (Renderer) Delete(target string, cond dialect.Binding) string {
	var b strings.Builder
	writeCall(&b, target, "deleteOne")
	writeDoc(&b, []dialect.Binding{cond})
	b.WriteString(");\n")
	return b.String()
}

func writeCall(b *strings.Builder, target, method string) {
	b.WriteString("db.")
	b.WriteString(target)
	b.WriteByte('.')
	b.WriteString(method)
	b.WriteByte('(')
}

func writeDoc(b *strings.Builder, fields []dialect.Binding) {
	b.WriteString("{ ")
	for i, f := range fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(Quote(f.Field))
		b.WriteString(": ")
		b.WriteString(f.Value.Text)
	}
	b.WriteString(" }")
}

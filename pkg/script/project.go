package script

import (
	"sort"

	"github.com/leapstack-labs/sheetscript/pkg/fieldtype"
)

// Field is a mapping entry together with its key.
type Field struct {
	Key string
	FieldMapping
	Type fieldtype.Type
}

// Fields normalizes a mapping set into a slice ordered by CSVIndex, then by
// key. The order fixes the field order of every generated statement.
func Fields(m Mappings) []Field {
	out := make([]Field, 0, len(m))
	for k, fm := range m {
		out = append(out, Field{Key: k, FieldMapping: fm, Type: fieldtype.Classify(fm.FieldType)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CSVIndex != out[j].CSVIndex {
			return out[i].CSVIndex < out[j].CSVIndex
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Value is a resolved cell with the semantic type of the mapping that
// produced it.
type Value struct {
	Raw  string
	Type fieldtype.Type
}

// Pair is a resolved payload field.
type Pair struct {
	Field string
	Value
}

// Projection is one row resolved against the mapped fields.
type Projection struct {
	// Condition is nil when no mapping for the condition field is in range.
	Condition *Value
	Payload   []Pair
}

// Project resolves row against fields. A field out of range for the row is
// dropped. A nil targets set selects every field for the payload; otherwise
// only fields whose db field is in targets are included. When several
// mappings share a db field, the last one in field order wins.
func Project(row Row, fields []Field, conditionField string, targets map[string]struct{}) Projection {
	var p Projection
	pos := make(map[string]int)

	for _, f := range fields {
		if f.CSVIndex < 0 || f.CSVIndex >= len(row) {
			continue
		}
		v := Value{Raw: row[f.CSVIndex], Type: f.Type}

		if conditionField != "" && f.DBField == conditionField {
			c := v
			p.Condition = &c
		}

		if targets != nil {
			if _, ok := targets[f.DBField]; !ok {
				continue
			}
		}
		if i, ok := pos[f.DBField]; ok {
			p.Payload[i].Value = v
			continue
		}
		pos[f.DBField] = len(p.Payload)
		p.Payload = append(p.Payload, Pair{Field: f.DBField, Value: v})
	}
	return p
}

// targetSet builds the payload filter for a kind. Inserts take every field;
// deletes take none.
func targetSet(kind Kind, updateFields []string) map[string]struct{} {
	switch kind {
	case KindInsert:
		return nil
	case KindUpdate:
		set := make(map[string]struct{}, len(updateFields))
		for _, f := range updateFields {
			set[f] = struct{}{}
		}
		return set
	default:
		return map[string]struct{}{}
	}
}

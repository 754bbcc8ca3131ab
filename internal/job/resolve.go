package job

import (
	"fmt"
	"sort"
	"strings"

	"github.com/leapstack-labs/sheetscript/internal/source"
	"github.com/leapstack-labs/sheetscript/pkg/script"
)

// SourceOptions converts the job's reader settings.
func (j Job) SourceOptions() (source.Options, error) {
	delim, err := source.ParseDelimiter(j.Delimiter)
	if err != nil {
		return source.Options{}, err
	}
	return source.Options{Sheet: j.Sheet, Encoding: j.Encoding, Delimiter: delim}, nil
}

// Load reads the job's source.
func (j Job) Load() (*source.Table, error) {
	opts, err := j.SourceOptions()
	if err != nil {
		return nil, err
	}
	return source.Load(j.Source, opts)
}

// Resolve builds the generation request for j over rows. Column names are
// looked up in the first row; profileTypes supplies type tags for mappings
// that declare none and may be nil.
func Resolve(j Job, rows [][]string, profileTypes map[string]string) (script.Request, error) {
	kind, err := j.Kind()
	if err != nil {
		return script.Request{}, err
	}

	var header map[string]int
	if j.Header && len(rows) > 0 {
		header = make(map[string]int, len(rows[0]))
		for i, name := range rows[0] {
			name = strings.TrimSpace(name)
			if _, dup := header[name]; !dup {
				header[name] = i
			}
		}
	}

	mappings := make(script.Mappings, len(j.Mappings))
	for _, key := range sortedKeys(j.Mappings) {
		m := j.Mappings[key]
		field := m.DBField(key)

		var idx int
		switch {
		case m.Index != nil:
			idx = *m.Index
		case m.Column != "":
			if header == nil {
				return script.Request{}, fmt.Errorf("mapping %q: column %q needs a header row", key, m.Column)
			}
			i, ok := header[m.Column]
			if !ok {
				return script.Request{}, fmt.Errorf("mapping %q: column %q not found in header", key, m.Column)
			}
			idx = i
		default:
			return script.Request{}, fmt.Errorf("mapping %q: set column or index", key)
		}

		typ := m.Type
		if typ == "" {
			typ = profileTypes[field]
		}
		mappings[key] = script.FieldMapping{DBField: field, CSVIndex: idx, FieldType: typ}
	}

	req := script.Request{
		Rows:           rows,
		Mappings:       mappings,
		Kind:           kind,
		ConditionField: j.Condition,
		UpdateFields:   j.Fields,
		Target:         j.Target,
	}
	if j.Header {
		req.HeaderRows = 1
	}
	return req, nil
}

func sortedKeys(m map[string]Mapping) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Package job turns the jobs declared in a project file into generated
// scripts: it validates them, reads their sources, resolves column mappings
// into a script.Request and writes the output files.
package job

import (
	"fmt"
	"path/filepath"

	"github.com/leapstack-labs/sheetscript/internal/extract"
	"github.com/leapstack-labs/sheetscript/pkg/dialect"
	"github.com/leapstack-labs/sheetscript/pkg/dialects/mongodb"
	"github.com/leapstack-labs/sheetscript/pkg/script"

	// Register the built-in dialects.
	_ "github.com/leapstack-labs/sheetscript/pkg/dialects/mysql"
	_ "github.com/leapstack-labs/sheetscript/pkg/dialects/postgres"
)

// Mapping binds a db field to a source column, named either by header
// text or by zero-based index.
type Mapping struct {
	Column string `koanf:"column" yaml:"column,omitempty" json:"column,omitempty"`
	Index  *int   `koanf:"index" yaml:"index,omitempty" json:"index,omitempty"`
	Type   string `koanf:"type" yaml:"type,omitempty" json:"type,omitempty"`
	// Field overrides the db field name; the mapping key is used otherwise.
	Field string `koanf:"field" yaml:"field,omitempty" json:"field,omitempty"`
}

// DBField returns the destination field for the mapping stored under key.
func (m Mapping) DBField(key string) string {
	if m.Field != "" {
		return m.Field
	}
	return key
}

// Profile supplies default type tags for mappings that declare none.
type Profile struct {
	// From is a Java or MyBatis file to extract fields from.
	From   string          `koanf:"from" yaml:"from,omitempty" json:"from,omitempty"`
	Fields []extract.Field `koanf:"fields" yaml:"fields,omitempty" json:"fields,omitempty"`
}

// Types returns the profile as a field name to type tag map. Fields listed
// explicitly win over fields extracted from From.
func (p Profile) Types() (map[string]string, error) {
	types := make(map[string]string)
	if p.From != "" {
		fields, err := extract.File(p.From)
		if err != nil {
			return nil, fmt.Errorf("profile source: %w", err)
		}
		for _, f := range fields {
			types[f.Name] = f.Type
		}
	}
	for _, f := range p.Fields {
		types[f.Name] = f.Type
	}
	return types, nil
}

// Job is one generation declared in the project file.
type Job struct {
	Name      string             `koanf:"name" yaml:"name" json:"name"`
	Source    string             `koanf:"source" yaml:"source" json:"source"`
	Sheet     string             `koanf:"sheet" yaml:"sheet,omitempty" json:"sheet,omitempty"`
	Encoding  string             `koanf:"encoding" yaml:"encoding,omitempty" json:"encoding,omitempty"`
	Delimiter string             `koanf:"delimiter" yaml:"delimiter,omitempty" json:"delimiter,omitempty"`
	Header    bool               `koanf:"header" yaml:"header" json:"header"`
	Dialect   string             `koanf:"dialect" yaml:"dialect" json:"dialect"`
	Operation string             `koanf:"operation" yaml:"operation" json:"operation"`
	Target    string             `koanf:"target" yaml:"target" json:"target"`
	Condition string             `koanf:"condition" yaml:"condition,omitempty" json:"condition,omitempty"`
	Fields    []string           `koanf:"fields" yaml:"fields,omitempty" json:"fields,omitempty"`
	Profile   string             `koanf:"profile" yaml:"profile,omitempty" json:"profile,omitempty"`
	Output    string             `koanf:"output" yaml:"output,omitempty" json:"output,omitempty"`
	Mappings  map[string]Mapping `koanf:"mappings" yaml:"mappings" json:"mappings"`
}

// Kind parses the job's operation.
func (j Job) Kind() (script.Kind, error) {
	return script.ParseKind(j.Operation)
}

// OutputPath returns the configured output or <dir>/<name><ext>.
func (j Job) OutputPath(dir string, d *dialect.Dialect) string {
	if j.Output != "" {
		return j.Output
	}
	return filepath.Join(dir, j.Name+d.FileExt)
}

// Select returns the jobs with the given names, in the order requested.
// No names selects all jobs.
func Select(jobs []Job, names []string) ([]Job, error) {
	if len(names) == 0 {
		return jobs, nil
	}
	byName := make(map[string]Job, len(jobs))
	for _, j := range jobs {
		byName[j.Name] = j
	}
	out := make([]Job, 0, len(names))
	for _, n := range names {
		j, ok := byName[n]
		if !ok {
			return nil, fmt.Errorf("unknown job %q", n)
		}
		out = append(out, j)
	}
	return out, nil
}

// DialectFor resolves a dialect by name and applies the document date
// constructor when the dialect is the MongoDB one.
func DialectFor(name, dateConstructor string) (*dialect.Dialect, error) {
	d, err := dialect.Lookup(name)
	if err != nil {
		return nil, err
	}
	if d.Name == mongodb.MongoDB.Name && dateConstructor != "" {
		return mongodb.WithDateConstructor(dateConstructor)
	}
	return d, nil
}

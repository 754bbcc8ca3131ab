// Package extract recovers field names and type tags from source files that
// describe a table: Java entity classes and MyBatis result maps.
//
// The extractors are regular-expression adapters, not parsers. They are
// meant to seed a mapping profile, so they favor recall over precision.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFile is returned for files that are neither .java nor .xml.
var ErrUnsupportedFile = errors.New("unsupported field source")

// Field is an extracted field.
type Field struct {
	Name string `json:"name" yaml:"name" koanf:"name"`
	// Type is a type tag understood by the field type classifier.
	Type string `json:"type,omitempty" yaml:"type,omitempty" koanf:"type"`
}

// Kind selects an extractor.
type Kind string

// Extractor kinds.
const (
	KindJava    Kind = "java"
	KindMyBatis Kind = "mybatis"
)

// KindFor picks the extractor for path by extension.
func KindFor(path string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".java":
		return KindJava, nil
	case ".xml":
		return KindMyBatis, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Base(path))
	}
}

// Parse extracts fields from src using the given extractor.
func Parse(kind Kind, src string) ([]Field, error) {
	switch kind {
	case KindJava:
		return Java(src), nil
	case KindMyBatis:
		return MyBatis(src), nil
	default:
		return nil, fmt.Errorf("%w: kind %q", ErrUnsupportedFile, kind)
	}
}

// File reads path and extracts its fields.
func File(path string) ([]Field, error) {
	kind, err := KindFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) //nolint:gosec // path is user supplied on purpose
	if err != nil {
		return nil, fmt.Errorf("read field source: %w", err)
	}
	return Parse(kind, string(data))
}

// dedupe keeps the first field for every name.
func dedupe(fields []Field) []Field {
	seen := make(map[string]bool, len(fields))
	out := fields[:0]
	for _, f := range fields {
		if seen[f.Name] {
			continue
		}
		seen[f.Name] = true
		out = append(out, f)
	}
	return out
}

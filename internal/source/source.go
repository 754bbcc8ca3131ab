// Package source reads tabular input files into rows of cell text.
//
// Delimited text (.csv, .tsv, .txt) is decoded from the configured charset
// and parsed leniently; spreadsheets (.xlsx, .xlsm) are read one sheet at a
// time. Rows are returned exactly as stored, so they may be ragged.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies a source file type.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var (
	// ErrUnsupportedFormat is returned for file extensions no reader handles.
	ErrUnsupportedFormat = errors.New("unsupported source format")
	// ErrUnknownSheet is returned when the requested sheet does not exist.
	ErrUnknownSheet = errors.New("unknown sheet")
	// ErrUnknownEncoding is returned for charset names that cannot be resolved.
	ErrUnknownEncoding = errors.New("unknown encoding")
)

// Options controls how a source is read.
type Options struct {
	// Sheet selects a spreadsheet sheet; empty means the first.
	Sheet string
	// Encoding names the charset of delimited text; empty means UTF-8.
	Encoding string
	// Delimiter is the field separator; zero picks one from the extension.
	Delimiter rune
}

// Table is the content of one source.
type Table struct {
	Path   string
	Format Format
	// Sheet is the sheet that was read; empty for delimited text.
	Sheet string
	Rows  [][]string
}

// Header returns the first row, or nil for an empty table.
func (t *Table) Header() []string {
	if len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[0]
}

// DetectFormat returns the format for path based on its extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv", ".txt":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads the file at path.
func Load(path string, opts Options) (*Table, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path) //nolint:gosec // path comes from the project file
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer func() { _ = f.Close() }()

	t := &Table{Path: path, Format: format}
	switch format {
	case FormatXLSX:
		t.Sheet, t.Rows, err = ReadXLSX(f, opts.Sheet)
	default:
		if opts.Delimiter == 0 {
			opts.Delimiter = DefaultDelimiter(path)
		}
		t.Rows, err = ReadCSV(f, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return t, nil
}

// DefaultDelimiter returns tab for .tsv files and comma otherwise.
func DefaultDelimiter(path string) rune {
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		return '\t'
	}
	return ','
}

// ParseDelimiter converts a configured delimiter ("," ";" "\t" "tab") to a
// rune. The empty string yields zero.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case `\t`, "tab", "\t":
		return '\t', nil
	}
	r := []rune(s)
	if len(r) != 1 || r[0] == '"' || r[0] == '\r' || r[0] == '\n' {
		return 0, fmt.Errorf("invalid delimiter %q", s)
	}
	return r[0], nil
}

package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"a.csv", FormatCSV, false},
		{"a.TSV", FormatCSV, false},
		{"a.txt", FormatCSV, false},
		{"a.xlsx", FormatXLSX, false},
		{"a.xlsm", FormatXLSX, false},
		{"a.xls", "", true},
		{"a", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := DetectFormat(tt.path)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_CSV(t *testing.T) {
	path := writeFile(t, "users.csv", []byte("\ufeffid,name\n1,\"O'Brien, Pat\"\n2\n"))

	tbl, err := Load(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, tbl.Format)
	assert.Equal(t, []string{"id", "name"}, tbl.Header(), "BOM is stripped")
	assert.Equal(t, [][]string{{"id", "name"}, {"1", "O'Brien, Pat"}, {"2"}}, tbl.Rows)
}

func TestLoad_TSVDefaultsToTab(t *testing.T) {
	path := writeFile(t, "users.tsv", []byte("id\tname\n1\ta,b\n"))

	tbl, err := Load(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"id", "name"}, {"1", "a,b"}}, tbl.Rows)
}

func TestLoad_CustomDelimiter(t *testing.T) {
	path := writeFile(t, "users.txt", []byte("id;name\n1;x\n"))

	tbl, err := Load(path, Options{Delimiter: ';'})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "x"}, tbl.Rows[1])
}

func TestLoad_LazyQuotes(t *testing.T) {
	path := writeFile(t, "q.csv", []byte("a,b\n1,say \"hi\"\n"))

	tbl, err := Load(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, `say "hi"`, tbl.Rows[1][1])
}

func TestLoad_GBK(t *testing.T) {
	encoded, err := simplifiedchinese.GBK.NewEncoder().String("编号,姓名\n1,张三\n")
	require.NoError(t, err)
	path := writeFile(t, "gbk.csv", []byte(encoded))

	tbl, err := Load(path, Options{Encoding: "gbk"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"编号", "姓名"}, {"1", "张三"}}, tbl.Rows)
}

func TestLoad_UTF16(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	encoded, err := enc.String("a,b\n1,2\n")
	require.NoError(t, err)
	path := writeFile(t, "u16.csv", []byte(encoded))

	tbl, err := Load(path, Options{Encoding: "utf-16"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"1", "2"}}, tbl.Rows)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"), Options{})
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load("data.json", Options{})
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	path := writeFile(t, "x.csv", []byte("a\n"))
	_, err = Load(path, Options{Encoding: "klingon"})
	require.ErrorIs(t, err, ErrUnknownEncoding)
}

func TestValidEncoding(t *testing.T) {
	for _, name := range []string{"", "UTF-8", "gbk", "GB18030", "utf-16", "latin1", "windows-1252", "shift_jis"} {
		assert.True(t, ValidEncoding(name), name)
	}
	assert.False(t, ValidEncoding("nope"))
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		in      string
		want    rune
		wantErr bool
	}{
		{"", 0, false},
		{",", ',', false},
		{";", ';', false},
		{"|", '|', false},
		{`\t`, '\t', false},
		{"tab", '\t', false},
		{"\t", '\t', false},
		{"ab", 0, true},
		{`"`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDelimiter(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"id", "name"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"1", "Alice"}))
	_, err := f.NewSheet("Orders")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Orders", "A1", &[]any{"order"}))
	require.NoError(t, f.SetSheetRow("Orders", "A2", &[]any{"A-1"}))

	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoad_XLSX(t *testing.T) {
	path := writeWorkbook(t)

	tbl, err := Load(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, tbl.Format)
	assert.Equal(t, "Sheet1", tbl.Sheet)
	assert.Equal(t, [][]string{{"id", "name"}, {"1", "Alice"}}, tbl.Rows)

	tbl, err = Load(path, Options{Sheet: "Orders"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"order"}, {"A-1"}}, tbl.Rows)

	_, err = Load(path, Options{Sheet: "Nope"})
	require.ErrorIs(t, err, ErrUnknownSheet)
	assert.True(t, strings.Contains(err.Error(), "Orders"))
}

func TestSheets(t *testing.T) {
	sheets, err := Sheets(writeWorkbook(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"Sheet1", "Orders"}, sheets)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sheetscript/internal/job"
	"github.com/leapstack-labs/sheetscript/pkg/lint"
)

const projectYAML = `
output: markdown
concurrency: 2
output_dir: generated
server:
  addr: ":9000"
  read_timeout: 3s
document:
  date_constructor: ISODate
lint:
  disable: [TY04]
  severity:
    MP01: warning
profiles:
  user:
    from: src/User.java
jobs:
  - name: users
    source: data/users.csv
    header: true
    dialect: mysql
    operation: update
    target: users
    condition: id
    fields: [name]
    mappings:
      id: {column: id, type: Integer}
      name: {index: 1}
  - name: archive
    source: ${SHEETSCRIPT_TEST_DATA}/archive.csv
    output: /tmp/archive.js
    dialect: mongodb
    operation: insert
    target: archive
    mappings:
      id: {index: 0}
`

// chdir switches the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func writeProject(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sheetscript.yaml"), []byte(content), 0o600))
	return dir
}

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.StringP("output", "o", "", "")
	fs.Int("concurrency", 0, "")
	fs.String("output-dir", "", "")
	fs.String("addr", "", "")
	fs.Duration("debounce", 0, "")
	fs.Bool("stdout", false, "")
	return fs
}

func TestLoadConfig_Defaults(t *testing.T) {
	defer ResetConfig()
	dir := t.TempDir()
	chdir(t, dir)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Empty(t, GetConfigFileUsed())
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, DefaultConcurrency, cfg.Concurrency)
	assert.True(t, cfg.StrictIdentifiers)
	assert.Equal(t, DefaultReadTimeout, cfg.Server.ReadTimeout)
	assert.Equal(t, DefaultDebounce, cfg.Watch.Debounce)
	assert.Equal(t, int64(DefaultMaxBodyBytes), cfg.Server.MaxBodyBytes)
	assert.Equal(t, DefaultDateConstructor, cfg.Document.DateConstructor)
	assert.Empty(t, cfg.Jobs)

	wd, _ := os.Getwd()
	assert.Equal(t, filepath.Join(wd, DefaultOutputDir), cfg.OutputDir)
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_ProjectFile(t *testing.T) {
	defer ResetConfig()
	t.Setenv("SHEETSCRIPT_TEST_DATA", "/data")
	dir := writeProject(t, projectYAML)

	cfg, err := LoadConfig(filepath.Join(dir, "sheetscript.yaml"), nil)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.ProjectRoot)
	assert.Equal(t, "markdown", cfg.OutputFormat)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, DefaultShutdownTimeout, cfg.Server.ShutdownTimeout, "unset keys keep defaults")
	assert.Equal(t, "ISODate", cfg.Document.DateConstructor)
	assert.Equal(t, filepath.Join(dir, "generated"), cfg.OutputDir)
	assert.Equal(t, []string{"TY04"}, cfg.Lint.Disable)
	assert.Equal(t, filepath.Join(dir, "src", "User.java"), cfg.Profiles["user"].From)

	require.Len(t, cfg.Jobs, 2)
	users := cfg.Jobs[0]
	assert.Equal(t, filepath.Join(dir, "data", "users.csv"), users.Source)
	assert.True(t, users.Header)
	assert.Equal(t, []string{"name"}, users.Fields)
	assert.Equal(t, job.Mapping{Column: "id", Type: "Integer"}, users.Mappings["id"])
	require.NotNil(t, users.Mappings["name"].Index)
	assert.Equal(t, 1, *users.Mappings["name"].Index)

	archive := cfg.Jobs[1]
	assert.Equal(t, "/data/archive.csv", archive.Source, "env vars expand in sources")
	assert.Equal(t, "/tmp/archive.js", archive.Output, "absolute outputs are kept")
	require.NotNil(t, archive.Mappings["id"].Index)
	assert.Equal(t, 0, *archive.Mappings["id"].Index)

	require.NoError(t, cfg.ValidateJobs())
}

func TestLoadConfig_UpwardSearch(t *testing.T) {
	defer ResetConfig()
	dir := writeProject(t, "concurrency: 3\n")
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	chdir(t, nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Concurrency)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(cfg.ProjectRoot)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadConfig_Precedence(t *testing.T) {
	defer ResetConfig()
	dir := writeProject(t, "concurrency: 2\noutput: text\nserver:\n  addr: \":9000\"\n")

	t.Setenv("SHEETSCRIPT_CONCURRENCY", "5")
	t.Setenv("SHEETSCRIPT_SERVER__ADDR", ":7000")
	t.Setenv("SHEETSCRIPT_OUTPUT", "json")

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--concurrency", "8", "--stdout"}))

	cfg, err := LoadConfig(filepath.Join(dir, "sheetscript.yaml"), flags)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Concurrency, "flag beats env")
	assert.Equal(t, ":7000", cfg.Server.Addr, "env beats file")
	assert.Equal(t, "json", cfg.OutputFormat, "unset flags do not override")
}

func TestLoadConfig_FlagOutputDirRelativeToCwd(t *testing.T) {
	defer ResetConfig()
	dir := writeProject(t, "verbose: false\n")
	cwd := t.TempDir()
	chdir(t, cwd)

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--output-dir", "build"}))

	cfg, err := LoadConfig(filepath.Join(dir, "sheetscript.yaml"), flags)
	require.NoError(t, err)

	wd, _ := os.Getwd()
	assert.Equal(t, filepath.Join(wd, "build"), cfg.OutputDir)
}

func TestLoadConfig_Errors(t *testing.T) {
	defer ResetConfig()

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.ErrorContains(t, err, "error reading config file")

	dir := writeProject(t, "jobs: [\n")
	_, err = LoadConfig(filepath.Join(dir, "sheetscript.yaml"), nil)
	require.Error(t, err)

	dir = writeProject(t, "server:\n  read_timeout: soon\n")
	_, err = LoadConfig(filepath.Join(dir, "sheetscript.yaml"), nil)
	require.ErrorContains(t, err, "unable to decode config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"output", func(c *Config) { c.OutputFormat = "yaml" }, "output: must be one of"},
		{"log level", func(c *Config) { c.LogLevel = "loud" }, `log_level: unknown level "loud"`},
		{"log format", func(c *Config) { c.LogFormat = "xml" }, "log_format"},
		{"concurrency", func(c *Config) { c.Concurrency = 0 }, "concurrency: must be at least 1"},
		{"read timeout", func(c *Config) { c.Server.ReadTimeout = 0 }, "server.read_timeout"},
		{"shutdown timeout", func(c *Config) { c.Server.ShutdownTimeout = -1 }, "server.shutdown_timeout"},
		{"body limit", func(c *Config) { c.Server.MaxBodyBytes = 0 }, "server.max_body_bytes"},
		{"debounce", func(c *Config) { c.Watch.Debounce = -time.Second }, "watch.debounce"},
		{"date constructor", func(c *Config) { c.Document.DateConstructor = "Date.now" }, "document.date_constructor"},
		{"lint severity", func(c *Config) { c.Lint.Severity = map[string]string{"TY01": "fatal"} }, `lint.severity.TY01: unknown severity "fatal"`},
		{"lint severity rule", func(c *Config) { c.Lint.Severity = map[string]string{"ZZ01": "error"} }, "lint.severity.ZZ01: unknown rule"},
		{"lint disable rule", func(c *Config) { c.Lint.Disable = []string{"TY04", "ZZ02"} }, `lint.disable: unknown rule "ZZ02"`},
	}

	require.NoError(t, Default().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Contains(t, err.Error(), "validation failed:")
		})
	}
}

func TestValidateJobs(t *testing.T) {
	cfg := Default()
	require.ErrorContains(t, cfg.ValidateJobs(), "no jobs defined")

	cfg.Jobs = []job.Job{{Name: "x"}}
	err := cfg.ValidateJobs()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `job "x": source is required`)
}

func TestLintConfig(t *testing.T) {
	cfg := Default()
	cfg.Lint = LintConfig{
		Disable:  []string{"TY04"},
		Severity: map[string]string{"mp01": "error"},
	}
	lc := cfg.LintConfig()
	assert.True(t, lc.IsDisabled("TY04"))
	assert.Equal(t, lint.SeverityError, lc.GetSeverity("MP01", lint.SeverityInfo))
	assert.Equal(t, lint.SeverityError, lc.GetSeverity("TY01", lint.SeverityError))

	cfg.Lint.Severity["TY01"] = "bogus"
	lc = cfg.LintConfig()
	assert.Equal(t, lint.SeverityInfo, lc.GetSeverity("MP01", lint.SeverityInfo), "invalid settings fall back to defaults")
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR_ONE", "value_one")

	tests := []struct {
		input    string
		expected string
	}{
		{"${TEST_VAR_ONE}/x.csv", "value_one/x.csv"},
		{"${UNSET_VARIABLE_XYZ}", "${UNSET_VARIABLE_XYZ}"},
		{"plain", "plain"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, expandEnvVars(tt.input), tt.input)
	}
}

func TestGetLogger_Fallback(t *testing.T) {
	assert.NotNil(t, GetLogger(t.Context()))
}

package commands

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sheetscript/internal/cli/config"
	"github.com/leapstack-labs/sheetscript/internal/cli/testutil"
)

// loadProject loads the project file in dir as the current config.
func loadProject(t *testing.T, dir string) *config.Config {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cfg, err := config.LoadConfig(filepath.Join(dir, "sheetscript.yaml"), nil)
	require.NoError(t, err)
	return cfg
}

// loadProjectless loads configuration without a project file.
func loadProjectless(t *testing.T) *config.Config {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cfg, err := config.LoadConfig("", nil)
	require.NoError(t, err)
	return cfg
}

// execute runs cmd with args and returns stdout and stderr. Usage and error
// printing are silenced as on the root command.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{NewGenerateCommand(), "generate [job...]", []string{"stdout", "dry-run"}},
		{NewInlineCommand(), "inline", []string{"source", "sheet", "encoding", "delimiter", "no-header", "dialect", "operation", "target", "condition", "fields", "map", "out"}},
		{NewFieldsCommand(), "fields <file>...", []string{"format"}},
		{NewPreviewCommand(), "preview <job>", []string{"rows"}},
		{NewLintCommand(), "lint [job...]", []string{"disable", "severity"}},
		{NewRulesCommand(), "rules [rule-id]", []string{"group"}},
		{NewWatchCommand(), "watch [job...]", []string{"debounce"}},
		{NewServeCommand(), "serve", []string{"addr", "max-body-bytes"}},
		{NewDialectsCommand(), "dialects", nil},
		{NewInitCommand(), "init [directory]", []string{"force"}},
		{NewDoctorCommand(), "doctor", []string{"format"}},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}

	assert.Equal(t, []string{"gen"}, NewGenerateCommand().Aliases)
}

func TestPreview(t *testing.T) {
	loadProject(t, testutil.SetupTestProject(t))

	out, _, err := execute(t, NewPreviewCommand(), "users-update", "--rows", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "users-update: mysql update on users")
	assert.Contains(t, out, "active (Boolean)")
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "Bob")
	assert.NotContains(t, out, "Nobody")
	assert.Contains(t, out, "showing 2 of 3 data row(s)")
	testutil.AssertNoANSI(t, out)
}

func TestPreview_JSON(t *testing.T) {
	t.Setenv("SHEETSCRIPT_OUTPUT", "json")
	loadProject(t, testutil.SetupTestProject(t))

	out, _, err := execute(t, NewPreviewCommand(), "users-insert", "-n", "1")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"row": 2, "values": {"name": "Alice", "userId": "1"}}]`, out)
}

func TestPreview_UnknownJob(t *testing.T) {
	loadProject(t, testutil.SetupTestProject(t))

	_, _, err := execute(t, NewPreviewCommand(), "nope")
	require.Error(t, err)
}

func TestDialects_JSON(t *testing.T) {
	t.Setenv("SHEETSCRIPT_OUTPUT", "json")
	loadProject(t, testutil.SetupTestProject(t))

	out, _, err := execute(t, NewDialectsCommand())
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "mysql"`)
	assert.Contains(t, out, `"name": "mongodb"`)
	assert.Contains(t, out, `"type_rules"`)
}

func TestDialects_Markdown(t *testing.T) {
	loadProject(t, testutil.SetupTestProject(t))

	out, _, err := execute(t, NewDialectsCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "# Dialects")
	assert.Contains(t, out, "| mysql")
	testutil.AssertValidMarkdown(t, out)
}

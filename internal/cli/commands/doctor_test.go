package commands

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sheetscript/internal/cli/testutil"
)

func doctorReport(t *testing.T, args ...string) *DoctorOutput {
	t.Helper()
	out, _, err := execute(t, NewDoctorCommand(), append([]string{"--format", "json"}, args...)...)
	require.NoError(t, err)

	var report DoctorOutput
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	return &report
}

func checkStatus(report *DoctorOutput) map[string]string {
	out := make(map[string]string, len(report.HealthChecks))
	for _, c := range report.HealthChecks {
		out[c.RuleID] = c.Status
	}
	return out
}

func TestDoctor_HealthyProject(t *testing.T) {
	loadProject(t, testutil.SetupTestProject(t))

	report := doctorReport(t)
	assert.Equal(t, 2, report.Summary.Jobs)
	assert.Equal(t, 1, report.Summary.Sources)
	assert.Equal(t, 6, report.Summary.DataRows)

	status := checkStatus(report)
	for _, id := range []string{"PR01", "PR02", "PR03", "SR01", "SR02", "LN01"} {
		assert.Equal(t, "pass", status[id], id)
	}
	assert.Equal(t, "warn", status["LN02"], "the sample has a boolean and an empty id")
	assert.Equal(t, 95, report.Score)
	assert.Len(t, report.Recommendations, 1)
}

func TestDoctor_BrokenProject(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	project := strings.Replace(testutil.ProjectYAML,
		"  - name: users-insert\n", "  - name: users-insert\n    output: out/users-update.sql\n", 1)
	project += `  - name: orders
    source: data/orders.csv
    header: true
    dialect: mysql
    operation: insert
    target: orders
    mappings:
      id: {column: id}
  - name: broken
    source: data/users.csv
    dialect: mysql
    operation: upsert
    mappings:
      id: {index: 0}
`
	testutil.WriteFile(t, filepath.Join(dir, "sheetscript.yaml"), project)
	loadProject(t, dir)

	report := doctorReport(t)
	status := checkStatus(report)
	assert.Equal(t, "error", status["PR02"], "unknown operation and no target")
	assert.Equal(t, "warn", status["PR03"], "two jobs share an output")
	assert.Equal(t, "error", status["SR01"], "orders.csv does not exist")
	assert.Less(t, report.Score, 70)
	assert.Greater(t, report.IssueCount, 3)
}

func TestDoctor_NoProject(t *testing.T) {
	t.Chdir(t.TempDir())
	loadProjectless(t)

	status := checkStatus(doctorReport(t))
	assert.Equal(t, "error", status["PR01"])
	assert.Equal(t, "error", status["PR02"], "no jobs")
}

func TestDoctor_Markdown(t *testing.T) {
	loadProject(t, testutil.SetupTestProject(t))

	out, _, err := execute(t, NewDoctorCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "# sheetscript Project Health Report")
	assert.Contains(t, out, "### Project")
	assert.Contains(t, out, "- **[WARN]** LN02: lint.warnings (1 issues)")
	assert.Contains(t, out, "**95/100**")
	testutil.AssertValidMarkdown(t, out)
}

func TestDoctor_UnknownFormat(t *testing.T) {
	loadProject(t, testutil.SetupTestProject(t))

	_, _, err := execute(t, NewDoctorCommand(), "--format", "xml")
	require.Error(t, err)
}

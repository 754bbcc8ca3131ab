package commands

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/sheetscript/internal/cli/config"
	"github.com/leapstack-labs/sheetscript/internal/cli/output"
	"github.com/leapstack-labs/sheetscript/internal/job"
	"github.com/leapstack-labs/sheetscript/pkg/lint"
)

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	Format string // Output format: text, markdown, json
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	opts := &DoctorOptions{}
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run a project health check",
		Long: `Check the sheetscript project for problems before generating.

The report covers:
- Project: project file, job definitions, output paths
- Sources: every job source opens and has data rows
- Lint: error and warning totals from the input lint rules

A health score (0-100) and recommendations close the report.`,
		Example: `  # Run health check
  sheetscript doctor

  # Output as JSON
  sheetscript doctor --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")

	return cmd
}

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	Summary         ProjectSummary `json:"summary"`
	HealthChecks    []HealthCheck  `json:"health_checks"`
	Score           int            `json:"score"`
	Recommendations []string       `json:"recommendations"`
	IssueCount      int            `json:"issue_count"`
}

// ProjectSummary contains project-level statistics.
type ProjectSummary struct {
	ConfigFile string `json:"config_file,omitempty"`
	Jobs       int    `json:"jobs"`
	Profiles   int    `json:"profiles"`
	Sources    int    `json:"sources"`
	DataRows   int    `json:"data_rows"`
}

// HealthCheck represents a single health check result.
type HealthCheck struct {
	RuleID     string   `json:"rule_id"`
	Name       string   `json:"name"`
	Group      string   `json:"group"`
	Status     string   `json:"status"` // "pass", "warn", "error"
	IssueCount int      `json:"issue_count"`
	Details    []string `json:"details,omitempty"`
}

// doctorState is what the checks inspect.
type doctorState struct {
	cfg        *config.Config
	configFile string
	prepared   []*job.Prepared
	prepErrs   []string
	diags      map[string][]lint.Diagnostic
}

type doctorCheck struct {
	id       string
	name     string
	group    string
	severity lint.Severity
	run      func(s *doctorState) []string
}

var doctorChecks = []doctorCheck{
	{"PR01", "config.found", "project", lint.SeverityError, checkConfigFound},
	{"PR02", "jobs.valid", "project", lint.SeverityError, checkJobsValid},
	{"PR03", "output.paths", "project", lint.SeverityWarning, checkOutputPaths},
	{"SR01", "source.readable", "sources", lint.SeverityError, checkSourcesReadable},
	{"SR02", "source.data", "sources", lint.SeverityWarning, checkSourcesHaveData},
	{"LN01", "lint.errors", "lint", lint.SeverityError, lintTotals(lint.SeverityError)},
	{"LN02", "lint.warnings", "lint", lint.SeverityWarning, lintTotals(lint.SeverityWarning)},
}

func runDoctor(cmd *cobra.Command, opts *DoctorOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	// Override renderer if format flag is set
	if opts.Format != "" {
		if !output.ValidMode(opts.Format) {
			return fmt.Errorf("unknown format %q", opts.Format)
		}
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	state := diagnose(cmdCtx)
	doctorOutput := buildDoctorOutput(state)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(doctorOutput)
	case output.ModeMarkdown:
		return renderDoctorMarkdown(r, doctorOutput)
	default:
		return renderDoctorText(r, doctorOutput)
	}
}

// diagnose prepares every individually valid job and lints it.
func diagnose(cmdCtx *CommandContext) *doctorState {
	cfg := cmdCtx.Cfg
	state := &doctorState{
		cfg:        cfg,
		configFile: config.GetConfigFileUsed(),
		diags:      make(map[string][]lint.Diagnostic),
	}

	runner := cmdCtx.Runner()
	lintCfg := cfg.LintConfig()
	for _, j := range cfg.Jobs {
		if job.ValidateJob(j, cfg.Profiles, cfg.StrictIdentifiers) != nil {
			continue
		}
		p, err := runner.Prepare(j)
		if err != nil {
			state.prepErrs = append(state.prepErrs, fmt.Sprintf("%s: %v", j.Name, err))
			continue
		}
		state.prepared = append(state.prepared, p)
		state.diags[j.Name] = lint.Run(p.Request, p.Dialect.Name, lintCfg)
	}
	return state
}

func checkConfigFound(s *doctorState) []string {
	if s.configFile == "" {
		return []string{"no sheetscript.yaml found (run 'sheetscript init')"}
	}
	return nil
}

func checkJobsValid(s *doctorState) []string {
	err := s.cfg.ValidateJobs()
	if err == nil {
		return nil
	}
	var verr *job.ValidationError
	if errors.As(err, &verr) {
		return verr.Problems
	}
	return []string{err.Error()}
}

func checkOutputPaths(s *doctorState) []string {
	var details []string
	if info, err := os.Stat(s.cfg.OutputDir); err == nil && !info.IsDir() {
		details = append(details, fmt.Sprintf("output_dir %s is not a directory", s.cfg.OutputDir))
	}

	writers := make(map[string][]string)
	for _, p := range s.prepared {
		path := p.Job.OutputPath(s.cfg.OutputDir, p.Dialect)
		writers[path] = append(writers[path], p.Job.Name)
	}
	paths := make([]string, 0, len(writers))
	for path := range writers {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		if names := writers[path]; len(names) > 1 {
			details = append(details, fmt.Sprintf("jobs %s all write %s", strings.Join(names, ", "), path))
		}
	}
	return details
}

func checkSourcesReadable(s *doctorState) []string {
	return s.prepErrs
}

func checkSourcesHaveData(s *doctorState) []string {
	var details []string
	for _, p := range s.prepared {
		if len(p.Request.Rows) <= p.Request.HeaderRows {
			details = append(details, fmt.Sprintf("%s: %s has no data rows", p.Job.Name, p.Job.Source))
		}
	}
	return details
}

func lintTotals(severity lint.Severity) func(s *doctorState) []string {
	return func(s *doctorState) []string {
		var details []string
		for _, p := range s.prepared {
			byRule := make(map[string]int)
			for _, d := range s.diags[p.Job.Name] {
				if d.Severity == severity {
					byRule[d.RuleID]++
				}
			}
			if len(byRule) == 0 {
				continue
			}
			ids := make([]string, 0, len(byRule))
			for id := range byRule {
				ids = append(ids, fmt.Sprintf("%s x%d", id, byRule[id]))
			}
			sort.Strings(ids)
			details = append(details, fmt.Sprintf("%s: %s", p.Job.Name, strings.Join(ids, ", ")))
		}
		return details
	}
}

func buildDoctorOutput(s *doctorState) *DoctorOutput {
	summary := ProjectSummary{
		ConfigFile: s.configFile,
		Jobs:       len(s.cfg.Jobs),
		Profiles:   len(s.cfg.Profiles),
	}
	sources := make(map[string]bool)
	for _, p := range s.prepared {
		sources[p.Job.Source] = true
		summary.DataRows += max(len(p.Request.Rows)-p.Request.HeaderRows, 0)
	}
	summary.Sources = len(sources)

	healthChecks := make([]HealthCheck, 0, len(doctorChecks))
	issues := 0
	for _, c := range doctorChecks {
		details := c.run(s)
		status := "pass"
		if len(details) > 0 {
			if c.severity == lint.SeverityError {
				status = "error"
			} else {
				status = "warn"
			}
		}
		issues += len(details)
		healthChecks = append(healthChecks, HealthCheck{
			RuleID:     c.id,
			Name:       c.name,
			Group:      c.group,
			Status:     status,
			IssueCount: len(details),
			Details:    details,
		})
	}

	return &DoctorOutput{
		Summary:         summary,
		HealthChecks:    healthChecks,
		Score:           calculateHealthScore(healthChecks),
		Recommendations: generateRecommendations(healthChecks),
		IssueCount:      issues,
	}
}

// calculateHealthScore computes a health score from 0-100. Each issue costs
// five points; errors count double.
func calculateHealthScore(checks []HealthCheck) int {
	score := 100
	for _, check := range checks {
		switch check.Status {
		case "error":
			score -= check.IssueCount * 10
		case "warn":
			score -= check.IssueCount * 5
		}
	}
	return min(max(score, 0), 100)
}

// generateRecommendations creates actionable recommendations based on findings.
func generateRecommendations(checks []HealthCheck) []string {
	var recommendations []string
	for _, check := range checks {
		if check.IssueCount == 0 {
			continue
		}
		if rec := getRecommendation(check.RuleID); rec != "" {
			recommendations = append(recommendations, rec)
		}
	}
	return recommendations
}

// getRecommendation returns a recommendation for a specific check.
func getRecommendation(ruleID string) string {
	switch ruleID {
	case "PR01":
		return "Create a project file with 'sheetscript init'"
	case "PR02":
		return "Fix the job definitions listed under jobs.valid"
	case "PR03":
		return "Give each job a distinct output path"
	case "SR01":
		return "Check source paths, sheet names and encodings"
	case "SR02":
		return "Add data rows or turn off header for sources with a single row"
	case "LN01":
		return "Run 'sheetscript lint' and fix error cells before generating"
	case "LN02":
		return "Review 'sheetscript lint' warnings; affected cells use fallback encodings"
	default:
		return ""
	}
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render("sheetscript Project Health Report"))
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	r.Println("")

	r.Println(styles.Header2.Render("Project Summary"))
	if out.Summary.ConfigFile != "" {
		r.Printf("   Config: %s\n", out.Summary.ConfigFile)
	}
	r.Printf("   Jobs: %d | Profiles: %d | Sources: %d | Data rows: %d\n",
		out.Summary.Jobs, out.Summary.Profiles, out.Summary.Sources, out.Summary.DataRows)
	r.Println("")

	r.Println(styles.Header2.Render("Health Checks"))
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println(styles.Bold.Render("   " + titleCaser.String(currentGroup)))
			r.Println(styles.Muted.Render("   " + strings.Repeat("-", 40)))
		}

		icon := styles.Success.Render("✓")
		switch check.Status {
		case "warn":
			icon = styles.Warning.Render("!")
		case "error":
			icon = styles.Error.Render("✗")
		}

		status := fmt.Sprintf("%s %s: %s", icon, check.RuleID, check.Name)
		if check.IssueCount > 0 {
			status += fmt.Sprintf(" (%d issues)", check.IssueCount)
		}
		r.Println("   " + status)

		// Show first 3 details for issues
		for i, detail := range check.Details {
			if i >= 3 {
				r.Println(styles.Muted.Render(fmt.Sprintf("       ... and %d more", len(check.Details)-3)))
				break
			}
			r.Println(styles.Muted.Render("       - " + detail))
		}
	}
	r.Println("")

	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	scoreStyle := styles.Success
	if out.Score < 70 {
		scoreStyle = styles.Warning
	}
	if out.Score < 50 {
		scoreStyle = styles.Error
	}
	r.Printf("   Health Score: %s\n", scoreStyle.Render(fmt.Sprintf("%d/100", out.Score)))
	r.Println("")

	if len(out.Recommendations) > 0 {
		r.Println(styles.Header2.Render("Recommendations"))
		for i, rec := range out.Recommendations {
			r.Printf("   %d. %s\n", i+1, rec)
		}
		r.Println("")
	}

	return nil
}

func renderDoctorMarkdown(r *output.Renderer, out *DoctorOutput) error {
	r.Println("# sheetscript Project Health Report")
	r.Println("")

	r.Println("## Project Summary")
	r.Println("")
	if out.Summary.ConfigFile != "" {
		r.Println(output.FormatKeyValue("Config", out.Summary.ConfigFile))
	}
	r.Println(output.FormatKeyValue("Jobs", fmt.Sprint(out.Summary.Jobs)))
	r.Println(output.FormatKeyValue("Profiles", fmt.Sprint(out.Summary.Profiles)))
	r.Println(output.FormatKeyValue("Sources", fmt.Sprint(out.Summary.Sources)))
	r.Println(output.FormatKeyValue("Data rows", fmt.Sprint(out.Summary.DataRows)))
	r.Println("")

	r.Println("## Health Checks")
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println("### " + titleCaser.String(currentGroup))
			r.Println("")
		}

		status := "PASS"
		switch check.Status {
		case "warn":
			status = "WARN"
		case "error":
			status = "ERROR"
		}

		r.Printf("- **[%s]** %s: %s", status, check.RuleID, check.Name)
		if check.IssueCount > 0 {
			r.Printf(" (%d issues)", check.IssueCount)
		}
		r.Println("")

		for _, detail := range check.Details {
			r.Printf("  - %s\n", detail)
		}
	}
	r.Println("")

	r.Println("## Health Score")
	r.Println("")
	r.Printf("**%d/100**\n", out.Score)
	r.Println("")

	if len(out.Recommendations) > 0 {
		r.Println("## Recommendations")
		r.Println("")
		for i, rec := range out.Recommendations {
			r.Printf("%d. %s\n", i+1, rec)
		}
		r.Println("")
	}

	return nil
}

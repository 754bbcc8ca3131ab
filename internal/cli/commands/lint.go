package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sheetscript/internal/cli/output"
	"github.com/leapstack-labs/sheetscript/pkg/lint"
	_ "github.com/leapstack-labs/sheetscript/pkg/lint/rules" // register lint rules
)

// LintOptions holds options for the lint command.
type LintOptions struct {
	Disable  []string // Rule IDs to disable
	Severity string   // Minimum severity: error, warning, info, hint
}

// ErrLintFailed is returned when lint finds error-severity diagnostics.
var ErrLintFailed = errors.New("lint errors found")

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	opts := &LintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [job...]",
		Short: "Check job sources for cells that will not encode as mapped",
		Long: `Run input lint rules against the data rows of each job.

Diagnostics never change generated output. The command fails when any
diagnostic has error severity. Rules can be disabled or re-ranked under
lint: in sheetscript.yaml.`,
		Example: `  # Lint every job
  sheetscript lint

  # Lint one job, ignoring date format warnings
  sheetscript lint users-update --disable TY04

  # Only report errors
  sheetscript lint --severity error`,
		ValidArgsFunction: completeJobNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to disable")
	cmd.Flags().StringVar(&opts.Severity, "severity", "info", "Minimum severity: error, warning, info, hint")

	return cmd
}

// jobDiagnostics groups diagnostics by job for output.
type jobDiagnostics struct {
	Job         string            `json:"job"`
	Dialect     string            `json:"dialect"`
	Diagnostics []lint.Diagnostic `json:"diagnostics"`
}

func runLint(cmd *cobra.Command, names []string, opts *LintOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	threshold, ok := lint.ParseSeverity(opts.Severity)
	if !ok {
		return fmt.Errorf("unknown severity %q", opts.Severity)
	}

	if unknown := lint.Unknown(opts.Disable); len(unknown) > 0 {
		return fmt.Errorf("unknown rule(s): %s", strings.Join(unknown, ", "))
	}

	jobs, err := cmdCtx.Jobs(names)
	if err != nil {
		return err
	}

	lintCfg := cmdCtx.Cfg.LintConfig()
	for _, id := range opts.Disable {
		lintCfg.Disable(id)
	}
	lintCfg.Threshold = threshold

	runner := cmdCtx.Runner()
	var results []jobDiagnostics
	failed := false
	for _, j := range jobs {
		p, err := runner.Prepare(j)
		if err != nil {
			return fmt.Errorf("job %s: %w", j.Name, err)
		}
		diags := lint.Run(p.Request, p.Dialect.Name, lintCfg)
		failed = failed || lint.HasErrors(diags)
		results = append(results, jobDiagnostics{Job: j.Name, Dialect: p.Dialect.Name, Diagnostics: diags})
	}

	if err := renderLint(r, results); err != nil {
		return err
	}
	if failed {
		return ErrLintFailed
	}
	return nil
}

func renderLint(r *output.Renderer, results []jobDiagnostics) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(results)
	}

	styles := r.Styles()
	total := 0
	for _, res := range results {
		total += len(res.Diagnostics)
		if len(res.Diagnostics) == 0 {
			r.Success(res.Job + ": no issues")
			continue
		}

		r.Header(2, fmt.Sprintf("%s (%d issue(s))", res.Job, len(res.Diagnostics)))
		if r.EffectiveMode() == output.ModeMarkdown {
			rows := make([][]string, 0, len(res.Diagnostics))
			for _, d := range res.Diagnostics {
				rows = append(rows, []string{
					strconv.Itoa(d.Row + 1), d.Field, d.RuleID, d.Severity.String(), d.Message,
				})
			}
			r.Table([]string{"Row", "Field", "Rule", "Severity", "Message"}, rows)
			r.Println("")
			continue
		}
		for _, d := range res.Diagnostics {
			sev := styles.Info
			switch d.Severity {
			case lint.SeverityError:
				sev = styles.Error
			case lint.SeverityWarning:
				sev = styles.Warning
			}
			r.Printf("  %s %s %s %s\n",
				styles.Muted.Render(fmt.Sprintf("row %d", d.Row+1)),
				sev.Render(fmt.Sprintf("%-7s", d.Severity)),
				styles.Bold.Render(d.RuleID),
				d.Message,
			)
		}
	}

	counts := lint.Count(flatten(results))
	r.Muted(fmt.Sprintf("%d issue(s): %d error, %d warning, %d info",
		total, counts[lint.SeverityError], counts[lint.SeverityWarning], counts[lint.SeverityInfo]))
	return nil
}

func flatten(results []jobDiagnostics) []lint.Diagnostic {
	var out []lint.Diagnostic
	for _, r := range results {
		out = append(out, r.Diagnostics...)
	}
	return out
}

package commands

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sheetscript/internal/cli/output"
	"github.com/leapstack-labs/sheetscript/internal/job"
)

// GenerateOptions holds options for the generate command.
type GenerateOptions struct {
	Stdout bool
	DryRun bool
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	opts := &GenerateOptions{}
	cmd := &cobra.Command{
		Use:     "generate [job...]",
		Aliases: []string{"gen"},
		Short:   "Generate scripts for the jobs in the project file",
		Long: `Generate one script per job declared in sheetscript.yaml.

Jobs run concurrently (see --concurrency). Each output is written to a
temporary file and renamed into place, so a failed job never leaves a
partial script behind.`,
		Example: `  # Generate every job
  sheetscript generate

  # Generate selected jobs
  sheetscript generate users-update orders-insert

  # Print scripts instead of writing them
  sheetscript generate users-update --stdout

  # Report what would be generated
  sheetscript generate --dry-run -o json`,
		ValidArgsFunction: completeJobNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Stdout, "stdout", false, "Print scripts to stdout instead of writing files")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Generate without writing files")

	return cmd
}

func runGenerate(cmd *cobra.Command, names []string, opts *GenerateOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	jobs, err := cmdCtx.Jobs(names)
	if err != nil {
		return err
	}

	runner := cmdCtx.Runner()
	runner.DryRun = opts.DryRun || opts.Stdout

	outcomes, err := runner.Run(cmd.Context(), jobs)
	if err != nil {
		return err
	}

	if opts.Stdout {
		for _, o := range outcomes {
			_, _ = fmt.Fprint(cmd.OutOrStdout(), o.Result.Script)
		}
		return nil
	}
	return renderOutcomes(r, outcomes, cmdCtx.Cfg.Verbose, cmdCtx.Cfg.ProjectRoot)
}

func renderOutcomes(r *output.Renderer, outcomes []*job.Outcome, verbose bool, root string) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(outcomes)
	}

	r.Header(1, fmt.Sprintf("Generated %d job(s)", len(outcomes)))
	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		file := relativeTo(root, o.Output)
		if !o.Written {
			file += " (not written)"
		}
		rows = append(rows, []string{
			o.Job,
			o.Dialect,
			o.Kind,
			strconv.Itoa(o.Stats.Statements),
			strconv.Itoa(o.Stats.Skipped),
			file,
		})
	}
	r.Table([]string{"Job", "Dialect", "Operation", "Statements", "Skipped", "Output"}, rows)

	if verbose {
		for _, o := range outcomes {
			for _, s := range o.Skipped {
				r.Muted(fmt.Sprintf("%s: row %d skipped: %s", o.Job, s.Row+1, s.Reason))
			}
		}
	}
	return nil
}

// relativeTo shortens path for display when it lies under root.
func relativeTo(root, path string) string {
	if root == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

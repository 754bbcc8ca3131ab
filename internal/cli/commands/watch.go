package commands

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sheetscript/internal/cli/config"
	"github.com/leapstack-labs/sheetscript/internal/job"
	"github.com/leapstack-labs/sheetscript/internal/watch"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [job...]",
		Short: "Regenerate scripts when the project file or a source changes",
		Long: `Generate once, then watch sheetscript.yaml and every job source.

A change to a source regenerates the jobs that read it. A change to the
project file reloads it and regenerates every selected job. Changes are
debounced (watch.debounce, --debounce).`,
		Example: `  sheetscript watch
  sheetscript watch users-update --debounce 1s`,
		ValidArgsFunction: completeJobNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd, args)
		},
	}

	cmd.Flags().Duration("debounce", config.DefaultDebounce, "Quiet period before regenerating")
	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, names []string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer
	logger := cmdCtx.Logger

	jobs, err := cmdCtx.Jobs(names)
	if err != nil {
		return err
	}

	w, err := watch.New(cmdCtx.Cfg.Watch.Debounce, logger)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	cfgFile := config.GetConfigFileUsed()
	if cfgFile != "" {
		if cfgFile, err = filepath.Abs(cfgFile); err != nil {
			return err
		}
	}
	if err := w.Add(watchPaths(cfgFile, jobs)...); err != nil {
		return err
	}

	generate := func(ctx context.Context, cfg *config.Config, jobs []job.Job) {
		runner := cfg.Runner()
		runner.Logger = logger
		outcomes, err := runner.Run(ctx, jobs)
		if err != nil {
			r.Error(err.Error())
			return
		}
		_ = renderOutcomes(r, outcomes, cfg.Verbose, cfg.ProjectRoot)
	}

	cfg := cmdCtx.Cfg
	generate(ctx, cfg, jobs)
	r.Muted(fmt.Sprintf("watching %d file(s); press Ctrl+C to stop", len(w.Files())))

	return w.Run(ctx, func(ctx context.Context, changed []string) {
		if cfgFile != "" && slices.Contains(changed, cfgFile) {
			reloaded, err := config.LoadConfig(cfgFile, cmd.Flags())
			if err != nil {
				r.Error(err.Error())
				return
			}
			if err := reloaded.ValidateJobs(); err != nil {
				r.Error(err.Error())
				return
			}
			selected, err := job.Select(reloaded.Jobs, names)
			if err != nil {
				r.Error(err.Error())
				return
			}
			cfg, jobs = reloaded, selected
			if err := w.Add(watchPaths(cfgFile, jobs)...); err != nil {
				r.Error(err.Error())
			}
			generate(ctx, cfg, jobs)
			return
		}

		affected := JobsReading(jobs, changed)
		if len(affected) > 0 {
			generate(ctx, cfg, affected)
		}
	})
}

// watchPaths returns the project file and every job source.
func watchPaths(cfgFile string, jobs []job.Job) []string {
	var paths []string
	if cfgFile != "" {
		paths = append(paths, cfgFile)
	}
	for _, j := range jobs {
		paths = append(paths, j.Source)
	}
	return paths
}

// JobsReading returns the jobs whose source is one of changed.
func JobsReading(jobs []job.Job, changed []string) []job.Job {
	var out []job.Job
	for _, j := range jobs {
		src, err := filepath.Abs(j.Source)
		if err != nil {
			continue
		}
		if slices.Contains(changed, src) {
			out = append(out, j)
		}
	}
	return out
}

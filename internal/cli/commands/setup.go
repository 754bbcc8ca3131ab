// Package commands implements the sheetscript subcommands.
package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sheetscript/internal/cli/config"
	"github.com/leapstack-labs/sheetscript/internal/cli/output"
	"github.com/leapstack-labs/sheetscript/internal/job"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded config.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	mode := output.Mode(cfg.OutputFormat)
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode),
	}
}

// Runner returns a job runner bound to the command logger.
func (c *CommandContext) Runner() *job.Runner {
	r := c.Cfg.Runner()
	r.Logger = c.Logger
	return r
}

// Jobs validates the project jobs and returns the selected ones.
func (c *CommandContext) Jobs(names []string) ([]job.Job, error) {
	if err := c.Cfg.ValidateJobs(); err != nil {
		return nil, err
	}
	return job.Select(c.Cfg.Jobs, names)
}

// getConfig returns the current configuration, or defaults when none was
// loaded (help, completion and direct command tests).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}

// completeJobNames offers job names from the project file.
func completeJobNames(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	cfg, err := config.LoadConfig("", nil)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	names := make([]string, 0, len(cfg.Jobs))
	for _, j := range cfg.Jobs {
		names = append(names, j.Name)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

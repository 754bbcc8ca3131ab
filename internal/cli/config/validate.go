package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/leapstack-labs/sheetscript/internal/cli/output"
	"github.com/leapstack-labs/sheetscript/internal/job"
	"github.com/leapstack-labs/sheetscript/internal/logging"
	"github.com/leapstack-labs/sheetscript/pkg/dialects/mongodb"
	"github.com/leapstack-labs/sheetscript/pkg/lint"
	_ "github.com/leapstack-labs/sheetscript/pkg/lint/rules" // register lint rules
)

// Validate checks the settings outside of jobs. Jobs are checked by
// ValidateJobs so that commands which never touch them keep working while
// a project file is being edited.
func (c *Config) Validate() error {
	var errs []string

	if !output.ValidMode(c.OutputFormat) {
		errs = append(errs, fmt.Sprintf("output: must be one of %s", strings.Join(output.Modes(), ", ")))
	}
	if !logging.ValidLevel(c.LogLevel) {
		errs = append(errs, fmt.Sprintf("log_level: unknown level %q", c.LogLevel))
	}
	if f := strings.ToLower(c.LogFormat); f != "text" && f != "json" {
		errs = append(errs, fmt.Sprintf("log_format: must be text or json, got %q", c.LogFormat))
	}
	if c.Concurrency < 1 {
		errs = append(errs, "concurrency: must be at least 1")
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout: must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "server.shutdown_timeout: must be positive")
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, "server.max_body_bytes: must be positive")
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, "watch.debounce: must not be negative")
	}
	if _, err := mongodb.WithDateConstructor(c.Document.DateConstructor); err != nil {
		errs = append(errs, "document.date_constructor: "+err.Error())
	}
	for _, id := range lint.Unknown(c.Lint.Disable) {
		errs = append(errs, fmt.Sprintf("lint.disable: unknown rule %q", id))
	}
	ids := make([]string, 0, len(c.Lint.Severity))
	for id := range c.Lint.Severity {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if _, known := lint.GetByID(id); !known {
			errs = append(errs, fmt.Sprintf("lint.severity.%s: unknown rule", id))
		}
		if _, ok := lint.ParseSeverity(c.Lint.Severity[id]); !ok {
			errs = append(errs, fmt.Sprintf("lint.severity.%s: unknown severity %q", id, c.Lint.Severity[id]))
		}
	}

	if len(errs) > 0 {
		return &job.ValidationError{Problems: errs}
	}
	return nil
}

// ValidateJobs checks every job and profile, reporting all problems at once.
func (c *Config) ValidateJobs() error {
	if len(c.Jobs) == 0 {
		return errors.New("no jobs defined (run 'sheetscript init' to create a project file)")
	}
	return job.Validate(c.Jobs, c.Profiles, c.StrictIdentifiers)
}

// LintConfig builds the lint rule configuration.
// Validate has already rejected unknown severities, so an error here falls
// back to the defaults.
func (c *Config) LintConfig() *lint.Config {
	cfg, err := lint.FromSettings(c.Lint.Disable, c.Lint.Severity)
	if err != nil {
		return lint.NewConfig()
	}
	return cfg
}

// Runner builds a job runner from the configuration.
func (c *Config) Runner() *job.Runner {
	return &job.Runner{
		Profiles:        c.Profiles,
		OutputDir:       c.OutputDir,
		DateConstructor: c.Document.DateConstructor,
		Concurrency:     c.Concurrency,
	}
}

package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/sheetscript/internal/cli/config"
	"github.com/leapstack-labs/sheetscript/internal/cli/output"
	"github.com/leapstack-labs/sheetscript/internal/job"
)

// starterProject is the document written by init.
type starterProject struct {
	OutputDir string                 `yaml:"output_dir"`
	Profiles  map[string]job.Profile `yaml:"profiles,omitempty"`
	Jobs      []job.Job              `yaml:"jobs"`
}

const sampleCSV = "id,name,email,active\n1,Alice,alice@example.com,true\n2,Bob,bob@example.com,false\n"

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a starter sheetscript project",
		Long: `Create sheetscript.yaml with two example jobs and a sample CSV under data/.

Run 'sheetscript generate' afterwards to produce out/users-update.sql and
out/users-insert.js.`,
		Example: `  # Initialize in current directory
  sheetscript init

  # Initialize in a new directory
  sheetscript init my-project

  # Force overwrite existing config
  sheetscript init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(NewCommandContext(cmd).Renderer, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")
	return cmd
}

func starter() starterProject {
	return starterProject{
		OutputDir: config.DefaultOutputDir,
		Jobs: []job.Job{
			{
				Name:      "users-update",
				Source:    "data/users.csv",
				Header:    true,
				Dialect:   "mysql",
				Operation: "update",
				Target:    "users",
				Condition: "id",
				Fields:    []string{"name", "email", "active"},
				Mappings: map[string]job.Mapping{
					"id":     {Column: "id", Type: "java.lang.Integer"},
					"name":   {Column: "name"},
					"email":  {Column: "email"},
					"active": {Column: "active", Type: "Boolean"},
				},
			},
			{
				Name:      "users-insert",
				Source:    "data/users.csv",
				Header:    true,
				Dialect:   "mongodb",
				Operation: "insert",
				Target:    "users",
				Mappings: map[string]job.Mapping{
					"userId": {Column: "id", Type: "Long"},
					"name":   {Column: "name"},
					"email":  {Column: "email"},
				},
			},
		},
	}
}

func runInit(r *output.Renderer, dir string, force bool) error {
	if err := os.MkdirAll(filepath.Join(dir, "data"), 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	configPath := filepath.Join(dir, config.ConfigFileNames[0])
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
	}

	project := starter()

	var buf bytes.Buffer
	buf.WriteString("# sheetscript project file\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(project); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := job.WriteFile(configPath, buf.Bytes()); err != nil {
		return err
	}
	r.Success("Created " + configPath)

	samplePath := filepath.Join(dir, "data", "users.csv")
	if _, err := os.Stat(samplePath); err != nil || force {
		if err := job.WriteFile(samplePath, []byte(sampleCSV)); err != nil {
			return err
		}
		r.Success("Created " + samplePath)
	}

	r.Muted("Next: sheetscript generate")
	return nil
}

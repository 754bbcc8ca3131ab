package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/sheetscript/internal/cli/output"
	"github.com/leapstack-labs/sheetscript/internal/extract"
	"github.com/leapstack-labs/sheetscript/pkg/fieldtype"
)

// NewFieldsCommand creates the fields command.
func NewFieldsCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "fields <file>...",
		Short: "Extract field names and types from Java or MyBatis files",
		Long: `Extract field names and type tags from Java entity classes (.java) or
MyBatis result maps (.xml).

The yaml format prints a profile fields list ready to paste into
sheetscript.yaml.`,
		Example: `  # Show fields as a table
  sheetscript fields src/User.java

  # Emit a profile snippet
  sheetscript fields mapper/UserMapper.xml --format yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFields(cmd, args, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, yaml, json")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "yaml", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runFields(cmd *cobra.Command, paths []string, format string) error {
	r := NewCommandContext(cmd).Renderer

	var fields []extract.Field
	for _, p := range paths {
		fs, err := extract.File(p)
		if err != nil {
			return err
		}
		fields = append(fields, fs...)
	}

	switch format {
	case "json":
		return output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ModeJSON).JSON(fields)
	case "yaml":
		data, err := yaml.Marshal(map[string]any{"fields": fields})
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		_, _ = cmd.OutOrStdout().Write(data)
		return nil
	case "table", "":
		rows := make([][]string, 0, len(fields))
		for _, f := range fields {
			rows = append(rows, []string{f.Name, f.Type, fieldtype.Classify(f.Type).String()})
		}
		r.Table([]string{"Field", "Type", "Class"}, rows)
		return nil
	default:
		return fmt.Errorf("unknown format %q (use table, yaml or json)", format)
	}
}

package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sheetscript/internal/job"
	"github.com/leapstack-labs/sheetscript/pkg/script"
)

// InlineOptions holds options for the inline command.
type InlineOptions struct {
	Source    string
	Sheet     string
	Encoding  string
	Delimiter string
	NoHeader  bool
	Dialect   string
	Operation string
	Target    string
	Condition string
	Fields    []string
	Maps      []string
	Out       string
}

// NewInlineCommand creates the inline command.
func NewInlineCommand() *cobra.Command {
	opts := &InlineOptions{}
	cmd := &cobra.Command{
		Use:   "inline",
		Short: "Generate a script from flags, without a project file",
		Long: `Generate a single script described entirely by flags.

Each --map binds a db field to a column: field=column[:type]. The column is
a header name, or a zero-based index when it is a number.`,
		Example: `  # Update users by id from a CSV with a header row
  sheetscript inline --source users.csv --dialect mysql --operation update \
    --target users --condition id --fields name,email \
    --map id=id:Integer --map name=name --map email=2

  # Insert into a collection from a sheet without a header row
  sheetscript inline --source users.xlsx --no-header --dialect mongodb \
    --operation insert --target users --map name=0 --map age=1:Integer`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInline(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Source, "source", "", "Source CSV or XLSX file")
	cmd.Flags().StringVar(&opts.Sheet, "sheet", "", "Sheet name (xlsx only)")
	cmd.Flags().StringVar(&opts.Encoding, "encoding", "", "Source encoding (csv only)")
	cmd.Flags().StringVar(&opts.Delimiter, "delimiter", "", "Field delimiter (csv only)")
	cmd.Flags().BoolVar(&opts.NoHeader, "no-header", false, "Treat the first row as data")
	cmd.Flags().StringVar(&opts.Dialect, "dialect", "", "Target dialect (mysql, mongodb)")
	cmd.Flags().StringVar(&opts.Operation, "operation", "", "Statement kind: update, insert, delete")
	cmd.Flags().StringVar(&opts.Target, "target", "", "Table or collection name")
	cmd.Flags().StringVar(&opts.Condition, "condition", "", "Condition field for update and delete")
	cmd.Flags().StringSliceVar(&opts.Fields, "fields", nil, "Fields written by update")
	cmd.Flags().StringArrayVar(&opts.Maps, "map", nil, "Mapping field=column[:type] (repeatable)")
	cmd.Flags().StringVar(&opts.Out, "out", "", "Write the script to this file instead of stdout")

	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("dialect")
	_ = cmd.MarkFlagRequired("operation")
	_ = cmd.MarkFlagRequired("target")
	_ = cmd.RegisterFlagCompletionFunc("operation", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"update", "insert", "delete"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runInline(cmd *cobra.Command, opts *InlineOptions) error {
	cmdCtx := NewCommandContext(cmd)

	mappings, err := ParseMaps(opts.Maps)
	if err != nil {
		return err
	}
	j := job.Job{
		Name:      "inline",
		Source:    opts.Source,
		Sheet:     opts.Sheet,
		Encoding:  opts.Encoding,
		Delimiter: opts.Delimiter,
		Header:    !opts.NoHeader,
		Dialect:   opts.Dialect,
		Operation: opts.Operation,
		Target:    opts.Target,
		Condition: opts.Condition,
		Fields:    opts.Fields,
		Mappings:  mappings,
	}
	if err := job.ValidateJob(j, nil, cmdCtx.Cfg.StrictIdentifiers); err != nil {
		return err
	}

	runner := cmdCtx.Runner()
	p, err := runner.Prepare(j)
	if err != nil {
		return err
	}
	res, err := script.New(script.WithLogger(cmdCtx.Logger)).Generate(p.Dialect, p.Request)
	if err != nil {
		return err
	}

	for _, s := range res.Skipped {
		cmdCtx.Logger.Info("row skipped", "row", s.Row+1, "reason", string(s.Reason))
	}

	if opts.Out == "" {
		_, _ = fmt.Fprint(cmd.OutOrStdout(), res.Script)
		return nil
	}
	if err := job.WriteFile(opts.Out, []byte(res.Script)); err != nil {
		return err
	}
	cmdCtx.Renderer.Success(fmt.Sprintf("wrote %d statement(s) to %s (%d row(s) skipped)",
		res.Statements, opts.Out, len(res.Skipped)))
	return nil
}

// ParseMaps parses field=column[:type] mapping flags.
func ParseMaps(specs []string) (map[string]job.Mapping, error) {
	out := make(map[string]job.Mapping, len(specs))
	for _, spec := range specs {
		field, rest, ok := strings.Cut(spec, "=")
		field = strings.TrimSpace(field)
		if !ok || field == "" || rest == "" {
			return nil, fmt.Errorf("invalid --map %q: want field=column[:type]", spec)
		}
		col, typ, _ := strings.Cut(rest, ":")
		col = strings.TrimSpace(col)
		if col == "" {
			return nil, fmt.Errorf("invalid --map %q: column is empty", spec)
		}
		if _, dup := out[field]; dup {
			return nil, fmt.Errorf("invalid --map %q: field %s mapped twice", spec, field)
		}

		m := job.Mapping{Type: strings.TrimSpace(typ)}
		if idx, err := strconv.Atoi(col); err == nil {
			m.Index = &idx
		} else {
			m.Column = col
		}
		out[field] = m
	}
	return out, nil
}

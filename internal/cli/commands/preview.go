package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sheetscript/internal/cli/output"
	"github.com/leapstack-labs/sheetscript/pkg/script"
)

// NewPreviewCommand creates the preview command.
func NewPreviewCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "preview <job>",
		Short: "Show the first rows of a job as its mapped fields",
		Long: `Read a job's source and show the first data rows projected onto the
mapped fields, with each field's resolved type class.`,
		Example: `  sheetscript preview users-update
  sheetscript preview users-update --rows 50 -o markdown`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeJobNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd, args[0], limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "rows", "n", 10, "Number of data rows to show")
	return cmd
}

// previewRow is the JSON form of a previewed row.
type previewRow struct {
	Row    int               `json:"row"`
	Values map[string]string `json:"values"`
}

func runPreview(cmd *cobra.Command, name string, limit int) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	jobs, err := cmdCtx.Jobs([]string{name})
	if err != nil {
		return err
	}
	p, err := cmdCtx.Runner().Prepare(jobs[0])
	if err != nil {
		return err
	}

	fields := script.Fields(p.Request.Mappings)
	start := p.Request.HeaderRows
	end := min(len(p.Request.Rows), start+max(limit, 0))

	if r.EffectiveMode() == output.ModeJSON {
		rows := make([]previewRow, 0, max(end-start, 0))
		for i := start; i < end; i++ {
			row := previewRow{Row: i + 1, Values: make(map[string]string, len(fields))}
			for _, f := range fields {
				if v, ok := cell(p.Request.Rows[i], f.CSVIndex); ok {
					row.Values[f.DBField] = v
				}
			}
			rows = append(rows, row)
		}
		return r.JSON(rows)
	}

	header := []string{"#"}
	for _, f := range fields {
		header = append(header, fmt.Sprintf("%s (%s)", f.DBField, f.Type))
	}
	var rows [][]string
	for i := start; i < end; i++ {
		line := []string{strconv.Itoa(i + 1)}
		for _, f := range fields {
			v, ok := cell(p.Request.Rows[i], f.CSVIndex)
			if !ok {
				v = "-"
			}
			line = append(line, v)
		}
		rows = append(rows, line)
	}

	r.Header(1, fmt.Sprintf("%s: %s %s on %s", jobs[0].Name, p.Dialect.Name, p.Request.Kind, p.Request.Target))
	r.Table(header, rows)
	r.Muted(fmt.Sprintf("showing %d of %d data row(s)", len(rows), max(len(p.Request.Rows)-start, 0)))
	return nil
}

func cell(row script.Row, idx int) (string, bool) {
	if idx < 0 || idx >= len(row) {
		return "", false
	}
	return row[idx], true
}

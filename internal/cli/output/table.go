package output

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Table writes rows under a header. Text mode draws a box table, markdown
// mode a pipe table.
func (r *Renderer) Table(header []string, rows [][]string) {
	if r.EffectiveMode() == ModeMarkdown {
		r.Printf("| %s |\n", strings.Join(escapeCells(header), " | "))
		seps := make([]string, len(header))
		for i := range seps {
			seps[i] = "---"
		}
		r.Printf("| %s |\n", strings.Join(seps, " | "))
		for _, row := range rows {
			r.Printf("| %s |\n", strings.Join(escapeCells(pad(row, len(header))), " | "))
		}
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	if r.isTTY {
		t.SetStyle(table.StyleLight)
	} else {
		t.SetStyle(table.StyleDefault)
	}
	t.AppendHeader(toRow(header))
	for _, row := range rows {
		t.AppendRow(toRow(pad(row, len(header))))
	}
	t.Render()
}

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}

func pad(row []string, n int) []string {
	if len(row) >= n {
		return row
	}
	out := make([]string, n)
	copy(out, row)
	return out
}

func escapeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		c = strings.ReplaceAll(c, "|", `\|`)
		out[i] = strings.ReplaceAll(c, "\n", " ")
	}
	return out
}

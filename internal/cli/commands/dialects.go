package commands

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sheetscript/internal/cli/output"
	"github.com/leapstack-labs/sheetscript/pkg/dialect"
	"github.com/leapstack-labs/sheetscript/pkg/fieldtype"
)

type dialectsJSON struct {
	Dialects []dialectJSON  `json:"dialects"`
	Types    []typeRuleJSON `json:"type_rules"`
}

type dialectJSON struct {
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases,omitempty"`
	Family      string   `json:"family"`
	FileExt     string   `json:"file_ext"`
	Description string   `json:"description,omitempty"`
}

type typeRuleJSON struct {
	Substring string `json:"substring"`
	Type      string `json:"type"`
}

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List dialects and the type classification order",
		Long: `List the registered output dialects and the ordered substring rules used
to classify type tags. The first rule whose substring occurs in a tag wins.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDialects(NewCommandContext(cmd).Renderer)
		},
	}
}

func runDialects(r *output.Renderer) error {
	all := dialect.All()
	rules := fieldtype.Rules()

	if r.EffectiveMode() == output.ModeJSON {
		out := dialectsJSON{}
		for _, d := range all {
			out.Dialects = append(out.Dialects, dialectJSON{
				Name: d.Name, Aliases: d.Aliases, Family: d.Family.String(),
				FileExt: d.FileExt, Description: d.Description,
			})
		}
		for _, rule := range rules {
			out.Types = append(out.Types, typeRuleJSON{Substring: rule.Substring, Type: rule.Type.String()})
		}
		return r.JSON(out)
	}

	r.Header(1, "Dialects")
	rows := make([][]string, 0, len(all))
	for _, d := range all {
		rows = append(rows, []string{d.Name, strings.Join(d.Aliases, ", "), d.Family.String(), d.FileExt, d.Description})
	}
	r.Table([]string{"Name", "Aliases", "Family", "Ext", "Description"}, rows)
	r.Println("")

	r.Header(2, "Type rules (first match wins)")
	rows = rows[:0]
	for i, rule := range rules {
		rows = append(rows, []string{strconv.Itoa(i + 1), rule.Substring, rule.Type.String()})
	}
	r.Table([]string{"#", "Substring", "Type"}, rows)
	return nil
}

package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sheetscript/internal/cli/output"
	"github.com/leapstack-labs/sheetscript/pkg/lint"
	_ "github.com/leapstack-labs/sheetscript/pkg/lint/rules" // register lint rules
)

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	var group string
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List available lint rules",
		Example: `  # List all rules
  sheetscript rules

  # Show one rule
  sheetscript rules TY02

  # List rules in the mapping group
  sheetscript rules --group mapping`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := NewCommandContext(cmd).Renderer
			if len(args) > 0 {
				return showRule(r, args[0])
			}
			return listRules(r, group)
		},
	}

	cmd.Flags().StringVarP(&group, "group", "g", "", "Filter by group")
	return cmd
}

func listRules(r *output.Renderer, group string) error {
	defs := lint.GetAll()
	if group != "" {
		defs = lint.GetByGroup(group)
	}
	infos := make([]lint.RuleInfo, 0, len(defs))
	for _, d := range defs {
		infos = append(infos, lint.GetRuleInfo(d))
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(infos)
	}

	r.Header(1, fmt.Sprintf("Lint Rules (%d)", len(infos)))
	rows := make([][]string, 0, len(infos))
	for _, ri := range infos {
		dialects := "all"
		if len(ri.Dialects) > 0 {
			dialects = strings.Join(ri.Dialects, ", ")
		}
		rows = append(rows, []string{ri.ID, ri.Name, ri.Group, ri.DefaultSeverity.String(), dialects})
	}
	r.Table([]string{"ID", "Name", "Group", "Severity", "Dialects"}, rows)
	r.Muted("Use 'sheetscript rules <rule-id>' for the description")
	return nil
}

func showRule(r *output.Renderer, id string) error {
	def, ok := lint.GetByID(strings.ToUpper(id))
	if !ok {
		return fmt.Errorf("rule %q not found", id)
	}
	info := lint.GetRuleInfo(def)

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(info)
	}

	r.Header(1, info.ID+" "+info.Name)
	r.StatusLine("Group", info.Group)
	r.StatusLine("Severity", info.DefaultSeverity.String())
	if len(info.Dialects) > 0 {
		r.StatusLine("Dialects", strings.Join(info.Dialects, ", "))
	}
	r.Println("")
	r.Println(info.Description)
	return nil
}

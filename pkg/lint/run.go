package lint

import (
	"sort"

	"github.com/leapstack-labs/sheetscript/pkg/script"
)

// Run applies every registered rule that targets dialectName to the data
// rows of req and returns the diagnostics sorted by row, column and rule.
// A nil config enables every rule at its default severity and keeps every
// diagnostic.
func Run(req script.Request, dialectName string, cfg *Config) []Diagnostic {
	if len(req.Rows) <= 1 {
		return nil
	}

	var rules []RuleDef
	for _, r := range GetByDialect(dialectName) {
		if !cfg.IsDisabled(r.ID) {
			rules = append(rules, r)
		}
	}
	if len(rules) == 0 {
		return nil
	}

	fields := script.Fields(req.Mappings)
	start := max(req.HeaderRows, 0)

	var diags []Diagnostic
	for i := start; i < len(req.Rows); i++ {
		ctx := RowContext{
			Row:            i,
			Cells:          req.Rows[i],
			Fields:         fields,
			Kind:           req.Kind,
			ConditionField: req.ConditionField,
			Dialect:        dialectName,
		}
		for _, r := range rules {
			for _, d := range r.Check(ctx) {
				d.Severity = cfg.GetSeverity(r.ID, d.Severity)
				if cfg.Reports(d.Severity) {
					diags = append(diags, d)
				}
			}
		}
	}

	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.RuleID < b.RuleID
	})
	return diags
}

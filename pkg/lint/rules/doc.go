// Package rules registers the built-in input lint rules.
//
// Import for side effects:
//
//	import _ "github.com/leapstack-labs/sheetscript/pkg/lint/rules"
//
// Rule groups:
//   - TY (type): cells that do not fit their declared field type
//   - MP (mapping): mappings and rows that produce no output
package rules

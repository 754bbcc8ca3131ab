package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sheetscript/pkg/fieldtype"
	"github.com/leapstack-labs/sheetscript/pkg/lint"
	"github.com/leapstack-labs/sheetscript/pkg/script"
)

func TestRegistered(t *testing.T) {
	var ids []string
	for _, r := range lint.GetAll() {
		ids = append(ids, r.ID)
		assert.NotEmpty(t, r.Name, r.ID)
		assert.NotEmpty(t, r.Description, r.ID)
		assert.NotNil(t, r.Check, r.ID)
	}
	assert.Equal(t, []string{"MP01", "MP02", "TY01", "TY02", "TY03", "TY04", "TY05"}, ids)
}

func TestCellChecks(t *testing.T) {
	tests := []struct {
		name  string
		check lint.CellCheck
		typ   fieldtype.Type
		value string
		bad   bool
	}{
		{"numeric ok", checkNumeric, fieldtype.Integer, "42", false},
		{"numeric exponent", checkNumeric, fieldtype.Double, "1.5e3", false},
		{"numeric bad", checkNumeric, fieldtype.Double, "12abc", true},
		{"numeric comma", checkNumeric, fieldtype.Decimal, "1,5", true},
		{"int32 max", checkRange, fieldtype.Integer, "2147483647", false},
		{"int32 overflow", checkRange, fieldtype.Integer, "2147483648", true},
		{"int32 fraction", checkRange, fieldtype.Integer, "1.5", true},
		{"int64 fits", checkRange, fieldtype.Long, "2147483648", false},
		{"int64 overflow", checkRange, fieldtype.Long, "9223372036854775808", true},
		{"range ignores malformed", checkRange, fieldtype.Integer, "x", false},
		{"boolean ok", checkBoolean, fieldtype.Boolean, "TRUE", false},
		{"boolean bad", checkBoolean, fieldtype.Boolean, "yes", true},
		{"date ok", checkDate, fieldtype.LocalDate, "2024-01-31", false},
		{"date bad", checkDate, fieldtype.Date, "31/01/2024", true},
		{"datetime ok", checkDate, fieldtype.LocalDateTime, "2024-01-31T10:11:12", false},
		{"datetime missing time", checkDate, fieldtype.LocalDateTime, "2024-01-31", true},
		{"objectid ok", checkObjectID, fieldtype.ObjectID, "507f1f77bcf86cd799439011", false},
		{"objectid short", checkObjectID, fieldtype.ObjectID, "507f1f77", true},
		{"objectid not hex", checkObjectID, fieldtype.ObjectID, "zzzf1f77bcf86cd799439011", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.check(tt.typ, tt.value)
			if tt.bad {
				assert.NotEmpty(t, msg)
			} else {
				assert.Empty(t, msg)
			}
		})
	}
}

func TestRun_Builtins(t *testing.T) {
	req := script.Request{
		Rows: []script.Row{
			{"id", "active", "oid"},
			{"1", "yes", "bad"},
			{"", "true"},
			{"3000000000", "0", "507f1f77bcf86cd799439011"},
		},
		Mappings: script.Mappings{
			"id":     {DBField: "id", CSVIndex: 0, FieldType: "Integer"},
			"active": {DBField: "active", CSVIndex: 1, FieldType: "Boolean"},
			"oid":    {DBField: "_id", CSVIndex: 2, FieldType: "ObjectId"},
		},
		Kind:           script.KindDelete,
		ConditionField: "id",
		HeaderRows:     1,
	}

	type hit struct {
		Row  int
		Rule string
	}
	collect := func(diags []lint.Diagnostic) []hit {
		var out []hit
		for _, d := range diags {
			out = append(out, hit{d.Row, d.RuleID})
		}
		return out
	}

	mongo := lint.Run(req, "mongodb", nil)
	assert.Equal(t, []hit{
		{1, "TY03"},
		{1, "TY05"},
		{2, "MP02"},
		{2, "MP01"},
		{3, "TY02"},
	}, collect(mongo))
	assert.True(t, lint.HasErrors(mongo))

	mysql := lint.Run(req, "mysql", nil)
	assert.NotContains(t, collect(mysql), hit{1, "TY05"})
}

func TestNumericMalformed_DecimalOnlyOnDocument(t *testing.T) {
	req := script.Request{
		Rows: []script.Row{{"price"}, {"1,50"}},
		Mappings: script.Mappings{
			"price": {DBField: "price", CSVIndex: 0, FieldType: "BigDecimal"},
		},
		Kind:       script.KindInsert,
		HeaderRows: 1,
	}

	for _, name := range []string{"mysql", "postgres"} {
		assert.Empty(t, lint.Run(req, name, nil), name)
	}

	diags := lint.Run(req, "mongodb", nil)
	require.Len(t, diags, 1)
	assert.Equal(t, "TY01", diags[0].RuleID)
	assert.Equal(t, lint.SeverityError, diags[0].Severity)
	assert.Equal(t, "price", diags[0].Field)
}

func TestConditionEmpty_InsertIgnored(t *testing.T) {
	ctx := lint.RowContext{
		Row:            1,
		Cells:          script.Row{""},
		Fields:         script.Fields(script.Mappings{"id": {DBField: "id"}}),
		Kind:           script.KindInsert,
		ConditionField: "id",
	}
	assert.Empty(t, checkConditionEmpty(ctx))

	ctx.Kind = script.KindUpdate
	diags := checkConditionEmpty(ctx)
	require.Len(t, diags, 1)
	assert.Equal(t, 0, diags[0].Column)
}

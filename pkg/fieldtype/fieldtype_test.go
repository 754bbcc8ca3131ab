package fieldtype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		tag  string
		want Type
	}{
		{"", Untyped},
		{"java.lang.Integer", Integer},
		{"Long", Long},
		{"java.lang.Double", Double},
		{"Float", Float},
		{"java.lang.Boolean", Boolean},
		{"java.time.LocalDateTime", LocalDateTime},
		{"java.time.LocalDate", LocalDate},
		{"java.util.Date", Date},
		{"java.sql.Timestamp", Timestamp},
		{"org.bson.types.ObjectId", ObjectID},
		{"java.math.BigDecimal", Decimal},
		{"Binary", Binary},
		{"RegExp", RegExp},
		{"MinKey", MinKey},
		{"MaxKey", MaxKey},
		{"Code", Code},
		{"Object", Object},
		{"Array", Array},
		{"java.lang.String", String},
		{"UUID", Other},
		{"integer", Other}, // case-sensitive
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.tag))
		})
	}
}

func TestClassify_FirstMatchWins(t *testing.T) {
	tests := []struct {
		name string
		tag  string
		want Type
	}{
		{"integer before string", "List<Integer> as String", Integer},
		{"long before date", "LongDate", Long},
		{"datetime before date", "LocalDateTime", LocalDateTime},
		{"objectid before object", "ObjectId", ObjectID},
		{"boolean before array", "Array<Boolean>", Boolean},
		{"date before timestamp", "DateTimestamp", Date},
		{"code before string", "CodeString", Code},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.tag))
		})
	}
}

func TestClassify_Pure(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t, LocalDate, Classify("java.time.LocalDate"))
	}
}

func TestRules_ReturnsCopy(t *testing.T) {
	r := Rules()
	require.NotEmpty(t, r)
	assert.Equal(t, "Integer", r[0].Substring)
	assert.Equal(t, "String", r[len(r)-1].Substring)

	r[0] = Rule{Substring: "x", Type: Other}
	assert.Equal(t, Integer, Classify("Integer"), "mutating the copy must not affect classification")
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "untyped", Untyped.String())
	assert.Equal(t, "ObjectId", ObjectID.String())
	assert.Equal(t, "other", Other.String())
	assert.Equal(t, "unknown", Type(99).String())
}

func TestParse(t *testing.T) {
	for typ := Untyped; typ <= Other; typ++ {
		got, ok := Parse(typ.String())
		require.True(t, ok, typ.String())
		assert.Equal(t, typ, got)
	}

	got, ok := Parse("localdate")
	assert.True(t, ok)
	assert.Equal(t, LocalDate, got)

	_, ok = Parse("nope")
	assert.False(t, ok)
}

func TestIsNumeric(t *testing.T) {
	numeric := map[Type]bool{Integer: true, Long: true, Double: true, Float: true}
	for typ := Untyped; typ <= Other; typ++ {
		assert.Equal(t, numeric[typ], typ.IsNumeric(), typ.String())
	}
}

func TestIsTemporal(t *testing.T) {
	assert.True(t, LocalDateTime.IsTemporal())
	assert.True(t, LocalDate.IsTemporal())
	assert.True(t, Date.IsTemporal())
	assert.False(t, Timestamp.IsTemporal())
	assert.False(t, String.IsTemporal())
}

package dialect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sheetscript/pkg/fieldtype"
)

type stubRenderer struct{}

func (stubRenderer) Update(target string, cond Binding, set []Binding) string {
	return "U " + target + ";\n"
}

func (stubRenderer) Insert(target string, fields []Binding) string {
	return "I " + target + ";\n"
}

func (stubRenderer) Delete(target string, cond Binding) string {
	return "D " + target + ";\n"
}

var upperEncoder = EncoderFunc(func(_ fieldtype.Type, raw string, _ Role) Literal {
	if raw == "" {
		return Literal{Text: "NIL", Null: true}
	}
	return Literal{Text: strings.ToUpper(raw)}
})

func newStub(name string, aliases ...string) *Dialect {
	return NewDialect(name).
		Aliases(aliases...).
		Family(Document).
		FileExt(".txt").
		Describe("stub dialect").
		Encoder(upperEncoder).
		Renderer(stubRenderer{}).
		Build()
}

func TestFamilyString(t *testing.T) {
	tests := []struct {
		family Family
		want   string
	}{
		{Relational, "relational"},
		{Document, "document"},
		{Family(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.family.String())
		})
	}
}

func TestBuilder(t *testing.T) {
	d := newStub("stub", "alt")

	assert.Equal(t, "stub", d.GetName())
	assert.Equal(t, []string{"alt"}, d.Aliases)
	assert.Equal(t, Document, d.Family)
	assert.Equal(t, ".txt", d.FileExt)
	assert.Equal(t, "stub dialect", d.Description)
	assert.Equal(t, Literal{Text: "ABC"}, d.Encode(fieldtype.String, "abc", RolePayload))
	assert.True(t, d.Encode(fieldtype.String, "", RolePayload).Null)
}

func TestBuilder_PanicsWithoutParts(t *testing.T) {
	assert.Panics(t, func() {
		NewDialect("broken").Build()
	})
	assert.Panics(t, func() {
		NewDialect("broken").Encoder(upperEncoder).Build()
	})
}

func TestMatches(t *testing.T) {
	d := newStub("stub", "alt", "other")

	assert.True(t, d.Matches("stub"))
	assert.True(t, d.Matches("STUB"))
	assert.True(t, d.Matches("Alt"))
	assert.True(t, d.Matches("other"))
	assert.False(t, d.Matches("nope"))
}

func TestClone(t *testing.T) {
	d := newStub("stub", "alt")
	c := d.Clone()
	c.Aliases[0] = "changed"
	c.Encoder = EncoderFunc(func(fieldtype.Type, string, Role) Literal { return Literal{Text: "x"} })

	assert.Equal(t, "alt", d.Aliases[0])
	assert.Equal(t, "ABC", d.Encode(fieldtype.String, "abc", RolePayload).Text)
	assert.Equal(t, "x", c.Encode(fieldtype.String, "abc", RolePayload).Text)
}

func TestRegistry(t *testing.T) {
	Register(newStub("zz-test-stub", "zz-test-alias"))

	d, ok := Get("zz-test-stub")
	require.True(t, ok)
	assert.Equal(t, "zz-test-stub", d.Name)

	d, ok = Get("ZZ-TEST-ALIAS")
	require.True(t, ok, "alias lookup is case insensitive")
	assert.Equal(t, "zz-test-stub", d.Name)

	assert.Contains(t, List(), "zz-test-stub")
	assert.NotContains(t, List(), "zz-test-alias", "aliases are not listed")

	_, ok = Get("missing")
	assert.False(t, ok)
}

func TestLookup(t *testing.T) {
	Register(newStub("zz-lookup-stub"))

	d, err := Lookup("zz-lookup-stub")
	require.NoError(t, err)
	assert.Equal(t, "zz-lookup-stub", d.Name)

	_, err = Lookup("")
	require.ErrorIs(t, err, ErrDialectRequired)

	_, err = Lookup("nope")
	require.ErrorIs(t, err, ErrUnknownDialect)
	assert.Contains(t, err.Error(), "zz-lookup-stub")
}

func TestAll_Sorted(t *testing.T) {
	Register(newStub("zz-b"))
	Register(newStub("zz-a"))

	var names []string
	for _, d := range All() {
		names = append(names, d.Name)
	}
	assert.IsIncreasing(t, names)
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		raw    string
		want   bool
		wantOK bool
	}{
		{"true", true, true},
		{"TRUE", true, true},
		{"True", true, true},
		{"1", true, true},
		{"false", false, true},
		{"False", false, true},
		{"0", false, true},
		{"yes", false, false},
		{"", false, false},
		{" true", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseBool(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

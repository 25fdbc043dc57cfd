package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/exprsql/internal/ir"
)

var status = &ir.EnumType{
	Name: "Status",
	Members: []ir.EnumMember{
		{Name: "Pending", Value: 0},
		{Name: "Active", Value: 1},
	},
}

var priority = &ir.EnumType{
	Name:    "Priority",
	Members: []ir.EnumMember{{Name: "Low", Value: 10}, {Name: "High", Value: 20}},
	AsInt:   true,
}

func TestFirebird_Quote(t *testing.T) {
	d := NewFirebird(FirebirdOptions{})

	tests := []struct {
		name     string
		value    ir.IRValue
		typ      ir.Type
		expected string
	}{
		{"null", ir.IRNull{}, ir.StringType, "null"},
		{"nil", nil, ir.UnknownType, "null"},
		{"string", ir.IRString("bob"), ir.StringType, "'bob'"},
		{"string with quote", ir.IRString("O'Brien"), ir.StringType, "'O''Brien'"},
		{"int", ir.IRInt(-42), ir.IntType, "-42"},
		{"float", ir.IRFloat(9.99), ir.FloatType, "9.99"},
		{"large float stays fixed", ir.IRFloat(1e21), ir.FloatType, "1000000000000000000000"},
		{"true", ir.IRBool(true), ir.BoolType, "1"},
		{"false", ir.IRBool(false), ir.BoolType, "0"},
		{"array", ir.IRArray{ir.IRInt(1), ir.IRString("a")}, ir.UnknownType, "1,'a'"},
		{"enum int as name", ir.IRInt(1), ir.EnumOf(status), "'Active'"},
		{"enum unknown int", ir.IRInt(9), ir.EnumOf(status), "'9'"},
		{"enum name", ir.IRString("Pending"), ir.EnumOf(status), "'Pending'"},
		{"int enum value", ir.IRInt(20), ir.EnumOf(priority), "20"},
		{"int enum by name", ir.IRString("Low"), ir.EnumOf(priority), "10"},
		{"int enum unknown name", ir.IRString("Mid"), ir.EnumOf(priority), "'Mid'"},
		{"enum bool falls back", ir.IRBool(true), ir.EnumOf(status), "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, d.Quote(tt.value, tt.typ))
		})
	}
}

func TestFirebird_Columns(t *testing.T) {
	assert.Equal(t, "IsActive", NewFirebird(FirebirdOptions{}).QuoteColumn("IsActive"))
	assert.Equal(t, `"IsActive"`, NewFirebird(FirebirdOptions{QuoteNames: true}).QuoteColumn("IsActive"))
	assert.Equal(t, `"a""b"`, NewFirebird(FirebirdOptions{QuoteNames: true}).QuoteColumn(`a"b`))
}

func TestFirebird_Name(t *testing.T) {
	assert.Equal(t, "firebird", NewFirebird(FirebirdOptions{}).Name())
	assert.Equal(t, "firebird+quoted", NewFirebird(FirebirdOptions{QuoteNames: true}).Name())
}

func TestGeneric_Quote(t *testing.T) {
	assert.Equal(t, "NULL", Generic.Quote(ir.IRNull{}, ir.UnknownType))
	assert.Equal(t, "TRUE", Generic.Quote(ir.IRBool(true), ir.BoolType))
	assert.Equal(t, "FALSE", Generic.Quote(ir.IRBool(false), ir.BoolType))
	assert.Equal(t, "'x'", Generic.Quote(ir.IRString("x"), ir.StringType))
	assert.Equal(t, "'Active'", Generic.Quote(ir.IRInt(1), ir.EnumOf(status)))
	assert.Equal(t, "1, 2", Generic.Quote(ir.IRArray{ir.IRInt(1), ir.IRInt(2)}, ir.UnknownType))
	assert.Equal(t, `"Name"`, Generic.QuoteColumn("Name"))
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"firebird", "firebird+quoted", "generic"} {
		p, ok := Lookup(name)
		assert.True(t, ok, name)
		assert.Equal(t, name, p.Name())
	}

	_, ok := Lookup("oracle")
	assert.False(t, ok)
}

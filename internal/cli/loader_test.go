package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/exprsql/internal/ir"
)

func TestLoadBatch(t *testing.T) {
	b, err := LoadBatch("testdata/batch.yaml")
	require.NoError(t, err)
	assert.Equal(t, "people", b.Table)
	require.Len(t, b.Predicates, 5)
	assert.Equal(t, Predicate{Name: "active_adults", Where: "x.IsActive && x.Age > 5", Table: "people"}, b.Predicates[0])
}

func TestParseBatch_Defaults(t *testing.T) {
	b, err := ParseBatch([]byte(`
table: people
predicates:
  - where: x.Age > 1
  - name: other
    table: orders
    where: x.Total > 10
`))
	require.NoError(t, err)
	require.Len(t, b.Predicates, 2)
	assert.Equal(t, "p1", b.Predicates[0].Name)
	assert.Equal(t, "people", b.Predicates[0].Table)
	assert.Equal(t, "orders", b.Predicates[1].Table)
}

func TestParseBatch_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantMsg string
	}{
		{"empty", ``, "no predicates"},
		{"no_predicates", "table: people\n", "no predicates"},
		{"unknown_key", "predicates:\n  - name: a\n    wher: x.Age > 1\n", "parsing batch file"},
		{"missing_where", "predicates:\n  - name: a\n", `"a" has no where clause`},
		{"duplicate", "predicates:\n  - {name: a, where: x.A}\n  - {name: a, where: x.B}\n", `duplicate predicate name "a"`},
		{"not_yaml", "predicates: [", "parsing batch file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBatch([]byte(tt.yaml))
			require.Error(t, err)

			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr))
			assert.Equal(t, ErrCodeBatch, loadErr.Code)
			assert.Contains(t, loadErr.Message, tt.wantMsg)
		})
	}
}

func TestLoadBatch_NotFound(t *testing.T) {
	_, err := LoadBatch("testdata/absent.yaml")
	code, _ := loadErrorCode(err)
	assert.Equal(t, ErrCodeNotFound, code)
}

func TestParseVars(t *testing.T) {
	vars, err := ParseVars([]string{
		"n=42",
		"ratio=1.5",
		"on=true",
		"none=nil",
		`quoted="42"`,
		"word=bob",
		"eq=a=b",
		`obj={"Name": "bob", "Age": 7}`,
		"list=[1, 2]",
	})
	require.NoError(t, err)

	assert.Equal(t, ir.IRInt(42), vars["n"])
	assert.Equal(t, ir.IRFloat(1.5), vars["ratio"])
	assert.Equal(t, ir.IRBool(true), vars["on"])
	assert.Equal(t, ir.IRNull{}, vars["none"])
	assert.Equal(t, ir.IRString("42"), vars["quoted"])
	assert.Equal(t, ir.IRString("bob"), vars["word"])
	assert.Equal(t, ir.IRString("a=b"), vars["eq"])
	assert.Equal(t, ir.IRObject{"Name": ir.IRString("bob"), "Age": ir.IRInt(7)}, vars["obj"])
	assert.Equal(t, ir.IRArray{ir.IRInt(1), ir.IRInt(2)}, vars["list"])
}

func TestParseVars_Errors(t *testing.T) {
	for _, spec := range []string{"novalue", "=5", `obj={"Name":`} {
		t.Run(spec, func(t *testing.T) {
			_, err := ParseVars([]string{spec})
			require.Error(t, err)
			code, _ := loadErrorCode(err)
			assert.Equal(t, ErrCodeInvalidVar, code)
		})
	}
}

func TestLoadErrorCode_Plain(t *testing.T) {
	code, msg := loadErrorCode(errors.New("boom"))
	assert.Equal(t, ErrCodeGeneric, code)
	assert.Equal(t, "boom", msg)
}

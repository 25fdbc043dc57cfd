package firebird

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/roach88/exprsql/internal/dialect"
	"github.com/roach88/exprsql/internal/expr"
)

// goldenPredicates is rendered one line per predicate, host syntax then SQL.
var goldenPredicates = []expr.Expr{
	expr.And(isActive, gt(age, lit(5))),
	expr.Eq(name, expr.Null()),
	ne(name, expr.Null()),
	expr.Call(name, expr.MethodTrim),
	expr.Call(name, expr.MethodTrimStart),
	expr.Call(name, expr.MethodTrimEnd),
	expr.Eq(state, lit(1)),
	expr.And(lit(true), flag),
	expr.Or(flag, lit(false)),
	expr.Eq(flag, lit(true)),
	expr.Eq(expr.Bin(expr.OpModulo, age, lit(2)), lit(0)),
	expr.Eq(expr.Bin(expr.OpCoalesce, name, lit("none")), lit("none")),
	expr.And(lt(lit(1), lit(2)), gt(age, lit(40))),
	expr.Not(flag),
}

func TestCompiler_Golden(t *testing.T) {
	for _, tc := range []struct {
		name string
		d    dialect.Provider
	}{
		{"firebird", dialect.Firebird},
		{"firebird_quoted", dialect.NewFirebird(dialect.FirebirdOptions{QuoteNames: true})},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c := New(tc.d)

			var b strings.Builder
			for _, p := range goldenPredicates {
				sql, err := c.Compile(p)
				require.NoError(t, err)
				b.WriteString(expr.String(p))
				b.WriteString("\n  ")
				b.WriteString(sql)
				b.WriteString("\n")
			}

			g := goldie.New(t,
				goldie.WithFixtureDir("testdata/golden"),
				goldie.WithNameSuffix(".golden"),
			)
			g.Assert(t, tc.name, []byte(b.String()))
		})
	}
}

package firebird

import (
	"github.com/roach88/exprsql/internal/expr"
	"github.com/roach88/exprsql/internal/sqlexpr"
)

// trimMode is the set of methods Firebird renders with its own trim syntax.
type trimMode int

const (
	trimFallback trimMode = iota
	trimBoth
	trimLeading
	trimTrailing
)

func trimModeOf(m expr.Method) trimMode {
	switch m {
	case expr.MethodTrim:
		return trimBoth
	case expr.MethodTrimStart:
		return trimLeading
	case expr.MethodTrimEnd:
		return trimTrailing
	default:
		return trimFallback
	}
}

// VisitColumnMethod maps the trim family to Firebird's trim syntax and
// hands every other method to the generic visitor.
func (c *Compiler) VisitColumnMethod(m expr.MethodCall, object sqlexpr.Result, args []sqlexpr.Result) (sqlexpr.Result, error) {
	x := object.SQL()
	switch trimModeOf(m.Method) {
	case trimBoth:
		return sqlexpr.Fragment("trim(" + x + ")"), nil
	case trimLeading:
		return sqlexpr.Fragment("trim(leading from " + x + ")"), nil
	case trimTrailing:
		return sqlexpr.Fragment("trim(trailing from " + x + ")"), nil
	default:
		return c.Visitor.VisitColumnMethod(m, object, args)
	}
}

package expr

import (
	"fmt"

	"github.com/roach88/exprsql/internal/ir"
)

// ValidationResult contains the structural analysis of a predicate.
type ValidationResult struct {
	// IsValid is false when the tree cannot be compiled.
	IsValid bool

	// Errors lists structural problems that make compilation fail.
	Errors []string

	// Warnings lists legal constructs that probably do not do what the
	// author meant (ordering against null, unknown enum values, predicates
	// without any column).
	Warnings []string
}

// Validate checks a predicate tree before compilation.
//
// Validate is a pure function with no side effects.
func Validate(e Expr) ValidationResult {
	v := &validator{
		errors:   []string{},
		warnings: []string{},
	}
	v.validate(e, false)

	if !v.sawColumn && len(v.errors) == 0 {
		v.addWarning("predicate does not reference any column and folds to a constant")
	}

	return ValidationResult{
		IsValid:  len(v.errors) == 0,
		Errors:   v.errors,
		Warnings: v.warnings,
	}
}

// validator accumulates findings during traversal.
type validator struct {
	errors    []string
	warnings  []string
	sawColumn bool
}

func (v *validator) addError(format string, args ...any) {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
}

func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

// validate walks e. asOwner is true when e is the owner of a member or the
// object of a method call, the only positions where a parameter may appear.
func (v *validator) validate(e Expr, asOwner bool) {
	switch n := Deref(e).(type) {
	case nil:
		v.addError("nil expression node")
	case Parameter:
		if !asOwner {
			v.addError("parameter %q used as a value; reference one of its columns", n.Name)
		}
	case Member:
		if n.Name == "" {
			v.addError("member access with empty name")
		}
		if IsColumn(n) {
			v.sawColumn = true
		}
		v.validate(n.Owner, true)
	case Constant:
		// Any literal is structurally valid
	case Binary:
		v.validateBinary(n)
	case Unary:
		if n.Op != OpNot {
			v.addError("unsupported unary operator %s", n.Op)
		}
		v.validate(n.Operand, false)
	case MethodCall:
		v.validateCall(n)
	default:
		v.addError("unknown expression type: %T", e)
	}
}

func (v *validator) validateBinary(b Binary) {
	if !b.Op.IsBinary() {
		v.addError("unsupported binary operator %s", b.Op)
	}
	v.validate(b.Left, false)
	v.validate(b.Right, false)

	if b.Op.IsOrdering() && (isNullConstant(b.Left) || isNullConstant(b.Right)) {
		v.addWarning("%s compares against null with %s and is never true", String(b), b.Op)
	}

	if b.Op.IsEquality() || b.Op.IsOrdering() {
		v.checkEnumOperand(b.Left, b.Right)
		v.checkEnumOperand(b.Right, b.Left)
	}
}

// checkEnumOperand warns when an enum column is compared to a literal that
// names no member of the enum.
func (v *validator) checkEnumOperand(col, other Expr) {
	m, ok := Deref(col).(Member)
	if !ok || !m.Type.IsEnum() {
		return
	}
	c, ok := Deref(other).(Constant)
	if !ok {
		return
	}
	enum := m.Type.Enum
	switch val := c.Value.(type) {
	case ir.IRInt:
		if _, ok := enum.NameOf(int64(val)); !ok {
			v.addWarning("%d is not a member of enum %s (column %s)", val, enum.Name, m.Name)
		}
	case ir.IRString:
		if _, ok := enum.ValueOf(string(val)); !ok {
			v.addWarning("%q is not a member of enum %s (column %s)", string(val), enum.Name, m.Name)
		}
	}
}

func (v *validator) validateCall(m MethodCall) {
	if m.Method == MethodInvalid {
		v.addError("invalid method call")
	}
	lo, hi := m.Method.Arity()
	if len(m.Args) < lo || (hi >= 0 && len(m.Args) > hi) {
		v.addError("%s takes %s, got %d", m.Method, arityText(lo, hi), len(m.Args))
	}
	v.validate(m.Object, true)
	for _, arg := range m.Args {
		v.validate(arg, false)
	}
}

func arityText(lo, hi int) string {
	switch {
	case lo == hi && lo == 1:
		return "1 argument"
	case lo == hi:
		return fmt.Sprintf("%d arguments", lo)
	case hi < 0:
		return fmt.Sprintf("at least %d arguments", lo)
	default:
		return fmt.Sprintf("%d to %d arguments", lo, hi)
	}
}

func isNullConstant(e Expr) bool {
	c, ok := Deref(e).(Constant)
	return ok && ir.IsNull(c.Value)
}

package sqlexpr

import (
	"log/slog"
	"math"
	"strings"

	"github.com/roach88/exprsql/internal/dialect"
	"github.com/roach88/exprsql/internal/expr"
	"github.com/roach88/exprsql/internal/ir"
)

// DefaultSeparator is placed between operands and operators.
const DefaultSeparator = " "

// Handler is the dialect plugin hook.
//
// A plugin embeds *Visitor, sets itself as the Visitor's Handler, and calls
// the Visitor's methods of the same name as its fallback.
type Handler interface {
	VisitBinary(b expr.Binary) (Result, error)
	VisitConstant(c expr.Constant) (Result, error)

	// VisitColumnMethod renders a method invoked on a rendered fragment.
	// object and args have already been visited.
	VisitColumnMethod(m expr.MethodCall, object Result, args []Result) (Result, error)
}

// Visitor renders predicate trees depth-first, operands before operators.
//
// A Visitor holds no per-compilation state and may be shared across
// goroutines once configured.
type Visitor struct {
	// Dialect quotes literals and identifiers.
	Dialect dialect.Provider

	// Sep is placed between tokens of binary expressions.
	Sep string

	// Handler overrides binary, constant and column method rendering.
	// When nil the Visitor's own implementations are used.
	Handler Handler
}

// New creates a Visitor with the default separator.
func New(d dialect.Provider) *Visitor {
	return &Visitor{Dialect: d, Sep: DefaultSeparator}
}

func (v *Visitor) handler() Handler {
	if v.Handler != nil {
		return v.Handler
	}
	return v
}

// Compile renders e as final SQL text.
// A raw result is offered to the handler's VisitConstant first so dialects
// without a boolean type can encode a folded boolean.
func (v *Visitor) Compile(e expr.Expr) (string, error) {
	r, err := v.Visit(e)
	if err != nil {
		return "", err
	}
	if !r.IsFragment() {
		r, err = v.handler().VisitConstant(expr.Constant{Value: r.Value()})
		if err != nil {
			return "", err
		}
	}
	return v.Quote(r, ir.TypeOf(r.Value())), nil
}

// Visit dispatches e by node type.
func (v *Visitor) Visit(e expr.Expr) (Result, error) {
	switch n := expr.Deref(e).(type) {
	case nil:
		return Result{}, NewUnsupportedNode(nil, "nil expression node")
	case expr.Parameter:
		return Result{}, NewUnsupportedNode(n, "parameter %q cannot be rendered as a value", n.Name)
	case expr.Member:
		return v.VisitMember(n)
	case expr.Constant:
		return v.handler().VisitConstant(n)
	case expr.Binary:
		return v.handler().VisitBinary(n)
	case expr.Unary:
		return v.VisitUnary(n)
	case expr.MethodCall:
		return v.VisitMethodCall(n)
	default:
		return Result{}, NewUnsupportedNode(e, "unsupported node type %T", e)
	}
}

// VisitMember renders a column reference or reads a field of a captured
// value.
func (v *Visitor) VisitMember(m expr.Member) (Result, error) {
	if _, ok := expr.Deref(m.Owner).(expr.Parameter); ok {
		column := v.Dialect.QuoteColumn(m.Name)
		if m.Type.IsEnum() {
			return EnumFragment(column, m.Type.Enum), nil
		}
		return Fragment(column), nil
	}

	owner, err := v.Visit(m.Owner)
	if err != nil {
		return Result{}, err
	}
	obj, ok := owner.Value().(ir.IRObject)
	if owner.IsFragment() || !ok {
		return Result{}, NewUnsupportedNode(m, "member %s of %s", m.Name, owner)
	}
	field, ok := obj[m.Name]
	if !ok {
		return Result{}, NewUnsupportedNode(m, "captured value has no field %q", m.Name)
	}
	return Raw(field), nil
}

// VisitConstant returns null as a fragment and everything else raw.
func (v *Visitor) VisitConstant(c expr.Constant) (Result, error) {
	if ir.IsNull(c.Value) {
		return Fragment("null"), nil
	}
	return Raw(c.Value), nil
}

// VisitBinary renders a binary node without dialect special cases.
func (v *Visitor) VisitBinary(b expr.Binary) (Result, error) {
	if !b.Op.IsBinary() {
		return Result{}, NewUnsupportedNode(b, "unsupported binary operator %s", b.Op)
	}
	left, err := v.Visit(b.Left)
	if err != nil {
		return Result{}, err
	}
	right, err := v.Visit(b.Right)
	if err != nil {
		return Result{}, err
	}

	if !left.IsFragment() && !right.IsFragment() {
		return v.Fold(b, left, right)
	}

	l, r := v.QuoteOperands(left, right)
	return Fragment(v.Assemble(b.Op, l, r)), nil
}

// VisitUnary renders a negation. A column directly under a parameter is
// tested against the dialect's true literal.
func (v *Visitor) VisitUnary(u expr.Unary) (Result, error) {
	if u.Op != expr.OpNot {
		return Result{}, NewUnsupportedNode(u, "unsupported unary operator %s", u.Op)
	}

	if expr.IsColumn(u.Operand) {
		col := expr.Deref(u.Operand).(expr.Member)
		return Fragment("NOT (" + v.Dialect.QuoteColumn(col.Name) + "=" + v.Dialect.QuotedTrue() + ")"), nil
	}

	operand, err := v.Visit(u.Operand)
	if err != nil {
		return Result{}, err
	}
	if !operand.IsFragment() {
		folded, err := expr.FoldNot(operand.Value())
		if err != nil {
			return Result{}, NewUnsupportedConstant(u, err)
		}
		return Raw(folded), nil
	}
	return Fragment("NOT (" + operand.SQL() + ")"), nil
}

// VisitMethodCall visits the receiver and arguments, then routes calls on
// rendered fragments to the handler and evaluates calls on raw values
// host-side.
func (v *Visitor) VisitMethodCall(m expr.MethodCall) (Result, error) {
	if m.Method == expr.MethodInvalid {
		return Result{}, NewUnsupportedMethod(m, m.Method)
	}

	object, err := v.Visit(m.Object)
	if err != nil {
		return Result{}, err
	}
	args := make([]Result, len(m.Args))
	for i, arg := range m.Args {
		args[i], err = v.Visit(arg)
		if err != nil {
			return Result{}, err
		}
	}

	if lo, hi := m.Method.Arity(); len(args) < lo || (hi >= 0 && len(args) > hi) {
		return Result{}, NewInvalidOperand(m, "%s called with %d arguments", m.Method, len(args))
	}

	if object.IsFragment() {
		return v.handler().VisitColumnMethod(m, object, args)
	}
	return evalMethod(m, object, args)
}

// VisitColumnMethod renders string methods with ANSI functions and LIKE
// patterns.
func (v *Visitor) VisitColumnMethod(m expr.MethodCall, object Result, args []Result) (Result, error) {
	x := object.SQL()
	switch m.Method {
	case expr.MethodTrim:
		return Fragment("ltrim(rtrim(" + x + "))"), nil
	case expr.MethodTrimStart:
		return Fragment("ltrim(" + x + ")"), nil
	case expr.MethodTrimEnd:
		return Fragment("rtrim(" + x + ")"), nil
	case expr.MethodToUpper:
		return Fragment("upper(" + x + ")"), nil
	case expr.MethodToLower:
		return Fragment("lower(" + x + ")"), nil
	case expr.MethodStartsWith, expr.MethodEndsWith, expr.MethodContains:
		s, ok := args[0].Value().(ir.IRString)
		if !ok {
			return Result{}, NewInvalidOperand(m, "%s requires a string literal argument, got %s", m.Method, args[0])
		}
		pattern := string(s)
		switch m.Method {
		case expr.MethodStartsWith:
			pattern += "%"
		case expr.MethodEndsWith:
			pattern = "%" + pattern
		default:
			pattern = "%" + pattern + "%"
		}
		return Fragment(x + " like " + v.Dialect.Quote(ir.IRString(pattern), ir.StringType)), nil
	case expr.MethodSubstring:
		start, ok := args[0].Value().(ir.IRInt)
		if !ok {
			return Result{}, NewInvalidOperand(m, "Substring start must be an integer literal, got %s", args[0])
		}
		if start < 0 || start == math.MaxInt64 {
			return Result{}, NewInvalidOperand(m, "Substring start %d out of range", start)
		}
		sql := "substring(" + x + " from " + v.Dialect.Quote(start+1, ir.IntType)
		if len(args) == 2 {
			length, ok := args[1].Value().(ir.IRInt)
			if !ok {
				return Result{}, NewInvalidOperand(m, "Substring length must be an integer literal, got %s", args[1])
			}
			if length < 0 {
				return Result{}, NewInvalidOperand(m, "Substring length %d out of range", length)
			}
			sql += " for " + v.Dialect.Quote(length, ir.IntType)
		}
		return Fragment(sql + ")"), nil
	default:
		return Result{}, NewUnsupportedMethod(m, m.Method)
	}
}

// Fold evaluates b over two raw operands.
func (v *Visitor) Fold(b expr.Binary, left, right Result) (Result, error) {
	folded, err := expr.Fold(b.Op, left.Value(), right.Value())
	if err != nil {
		return Result{}, NewUnsupportedConstant(b, err)
	}
	slog.Debug("folded constant", "expr", expr.String(b), "value", ir.Format(folded))
	return Raw(folded), nil
}

// Quote returns the SQL text of r. Fragments are returned verbatim; raw
// values are quoted as type t.
func (v *Visitor) Quote(r Result, t ir.Type) string {
	if r.IsFragment() {
		return r.SQL()
	}
	return v.Dialect.Quote(r.Value(), t)
}

// QuoteOperands renders both sides of a comparison. When exactly one side
// is an enum-tagged fragment, a raw other side is quoted with the enum's
// type; otherwise raw sides use their natural type.
func (v *Visitor) QuoteOperands(left, right Result) (string, string) {
	lt, rt := ir.TypeOf(left.Value()), ir.TypeOf(right.Value())
	switch {
	case left.IsEnum() && !right.IsEnum():
		rt = ir.EnumOf(left.Enum())
	case right.IsEnum() && !left.IsEnum():
		lt = ir.EnumOf(right.Enum())
	}
	return v.Quote(left, lt), v.Quote(right, rt)
}

// Operator returns the SQL spelling of op, rewriting equality against a
// null right operand to is / is not.
func Operator(op expr.Op, right string) string {
	if strings.EqualFold(right, "null") {
		switch op {
		case expr.OpEqual:
			return "is"
		case expr.OpNotEqual:
			return "is not"
		}
	}
	return op.Symbol()
}

// Assemble joins rendered operands. MOD and COALESCE render as function
// calls; every other operator as (left op right).
func (v *Visitor) Assemble(op expr.Op, left, right string) string {
	symbol := Operator(op, right)
	if op.IsFunction() {
		return symbol + "(" + left + "," + right + ")"
	}
	return "(" + left + v.Sep + symbol + v.Sep + right + ")"
}

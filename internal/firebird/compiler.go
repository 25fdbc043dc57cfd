package firebird

import (
	"fmt"

	"github.com/roach88/exprsql/internal/dialect"
	"github.com/roach88/exprsql/internal/expr"
	"github.com/roach88/exprsql/internal/ir"
	"github.com/roach88/exprsql/internal/sqlexpr"
)

// Compiler is the Firebird expression plugin. It embeds the generic
// visitor and overrides binary, constant and column method rendering.
//
// A Compiler holds only its provider, separator and sentinels. It is safe
// for concurrent use.
type Compiler struct {
	*sqlexpr.Visitor

	trueSentinel  string
	falseSentinel string
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithSeparator sets the token separator used in binary expressions.
//
// Default: a single space.
func WithSeparator(sep string) Option {
	return func(c *Compiler) {
		c.Sep = sep
	}
}

// New creates a Compiler over d. The sentinels are derived from d's
// boolean literals once here.
func New(d dialect.Provider, opts ...Option) *Compiler {
	c := &Compiler{
		Visitor:       sqlexpr.New(d),
		trueSentinel:  fmt.Sprintf("(%s=%s)", d.QuotedTrue(), d.QuotedTrue()),
		falseSentinel: fmt.Sprintf("(%s=%s)", d.QuotedTrue(), d.QuotedFalse()),
	}
	c.Handler = c
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TrueSentinel returns the fragment that encodes boolean true.
func (c *Compiler) TrueSentinel() string { return c.trueSentinel }

// FalseSentinel returns the fragment that encodes boolean false.
func (c *Compiler) FalseSentinel() string { return c.falseSentinel }

// VisitBinary renders a binary node.
//
// Logical operators treat direct columns as boolean tests and raw booleans
// as sentinels. Other operators coerce literals compared against enum
// columns, fold when both sides are literals, and collapse sentinels under
// = and <> unless the comparison is against null.
func (c *Compiler) VisitBinary(b expr.Binary) (sqlexpr.Result, error) {
	if !b.Op.IsBinary() {
		return sqlexpr.Result{}, sqlexpr.NewUnsupportedNode(b, "unsupported binary operator %s", b.Op)
	}
	if b.Op.IsLogical() {
		return c.visitLogical(b)
	}

	left, err := c.Visit(b.Left)
	if err != nil {
		return sqlexpr.Result{}, err
	}
	right, err := c.Visit(b.Right)
	if err != nil {
		return sqlexpr.Result{}, err
	}

	if !left.IsFragment() && !right.IsFragment() {
		return c.Fold(b, left, right)
	}

	l, r := c.QuoteOperands(left, right)
	// A null right side turns = and <> into is / is not, which keep the
	// sentinel intact.
	if b.Op.IsEquality() && sqlexpr.Operator(b.Op, r) == b.Op.Symbol() {
		l, r = c.collapseSentinel(l), c.collapseSentinel(r)
	}
	return sqlexpr.Fragment(c.Assemble(b.Op, l, r)), nil
}

func (c *Compiler) visitLogical(b expr.Binary) (sqlexpr.Result, error) {
	left, err := c.logicalOperand(b.Left)
	if err != nil {
		return sqlexpr.Result{}, err
	}
	right, err := c.logicalOperand(b.Right)
	if err != nil {
		return sqlexpr.Result{}, err
	}

	if !left.IsFragment() && !right.IsFragment() {
		folded, err := c.Fold(b, left, right)
		if err != nil {
			return sqlexpr.Result{}, err
		}
		return c.VisitConstant(expr.Constant{Value: folded.Value()})
	}

	l, err := c.booleanOperand(b, left)
	if err != nil {
		return sqlexpr.Result{}, err
	}
	r, err := c.booleanOperand(b, right)
	if err != nil {
		return sqlexpr.Result{}, err
	}
	return sqlexpr.Fragment(c.Assemble(b.Op, l, r)), nil
}

// logicalOperand renders a column directly under a parameter as an
// implicit boolean test. Deeper nesting is visited normally.
func (c *Compiler) logicalOperand(e expr.Expr) (sqlexpr.Result, error) {
	if expr.IsColumn(e) {
		col := expr.Deref(e).(expr.Member)
		return sqlexpr.Fragment(c.Dialect.QuoteColumn(col.Name) + "=" + c.Dialect.QuotedTrue()), nil
	}
	return c.Visit(e)
}

// booleanOperand returns the SQL text of an AND/OR operand. Raw booleans
// become sentinels.
func (c *Compiler) booleanOperand(b expr.Binary, r sqlexpr.Result) (string, error) {
	if r.IsFragment() {
		return r.SQL(), nil
	}
	v, ok := r.Value().(ir.IRBool)
	if !ok {
		return "", sqlexpr.NewInvalidOperand(b, "%s operand must be boolean, got %s", b.Op.Symbol(), r)
	}
	if v {
		return c.trueSentinel, nil
	}
	return c.falseSentinel, nil
}

func (c *Compiler) collapseSentinel(s string) string {
	switch s {
	case c.trueSentinel:
		return c.Dialect.QuotedTrue()
	case c.falseSentinel:
		return c.Dialect.QuotedFalse()
	default:
		return s
	}
}

// VisitConstant renders null and booleans as fragments. Booleans use the
// same comparison encoding as the sentinels; other literals stay raw.
func (c *Compiler) VisitConstant(k expr.Constant) (sqlexpr.Result, error) {
	switch v := k.Value.(type) {
	case nil, ir.IRNull:
		return sqlexpr.Fragment("null"), nil
	case ir.IRBool:
		return sqlexpr.Fragment(fmt.Sprintf("(%s=%s)", c.Dialect.QuotedTrue(), c.Dialect.Quote(v, ir.BoolType))), nil
	default:
		return sqlexpr.Raw(k.Value), nil
	}
}

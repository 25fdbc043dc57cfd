package expr

import (
	"errors"
	"fmt"
	"math"

	"github.com/roach88/exprsql/internal/ir"
)

// ErrNotFoldable is returned when an operator cannot be evaluated over the
// given literals at compile time.
var ErrNotFoldable = errors.New("unsupported constant expression")

// Fold evaluates op over two literal operands.
//
// Eligible operators:
//   - AND, OR over two bools
//   - + - * / MOD over numbers (int op int stays int); + over two strings
//   - = <> over numbers, strings, bools, and null
//   - < <= > >= over numbers and strings
//   - COALESCE over anything
//
// Division or modulo by zero, int64 overflow, non-finite float results,
// mismatched kinds, and every other operator return an error wrapping
// ErrNotFoldable.
func Fold(op Op, left, right ir.IRValue) (ir.IRValue, error) {
	switch {
	case op == OpCoalesce:
		if ir.IsNull(left) {
			return nullToIR(right), nil
		}
		return left, nil
	case op.IsLogical():
		return foldLogical(op, left, right)
	case op.IsEquality():
		return foldEquality(op, left, right)
	case op.IsOrdering():
		return foldOrdering(op, left, right)
	case op.IsArithmetic():
		return foldArithmetic(op, left, right)
	default:
		return nil, notFoldable(op, left, right)
	}
}

// FoldNot evaluates a negation over a literal operand.
func FoldNot(v ir.IRValue) (ir.IRValue, error) {
	b, ok := v.(ir.IRBool)
	if !ok {
		return nil, fmt.Errorf("%w: !%s", ErrNotFoldable, ir.Format(v))
	}
	return !b, nil
}

func notFoldable(op Op, left, right ir.IRValue) error {
	return fmt.Errorf("%w: %s %s %s", ErrNotFoldable, ir.Format(left), op, ir.Format(right))
}

func nullToIR(v ir.IRValue) ir.IRValue {
	if v == nil {
		return ir.IRNull{}
	}
	return v
}

func foldLogical(op Op, left, right ir.IRValue) (ir.IRValue, error) {
	l, lok := left.(ir.IRBool)
	r, rok := right.(ir.IRBool)
	if !lok || !rok {
		return nil, notFoldable(op, left, right)
	}
	if op == OpAnd {
		return l && r, nil
	}
	return l || r, nil
}

func foldEquality(op Op, left, right ir.IRValue) (ir.IRValue, error) {
	eq, err := equal(left, right)
	if err != nil {
		return nil, notFoldable(op, left, right)
	}
	if op == OpNotEqual {
		return ir.IRBool(!eq), nil
	}
	return ir.IRBool(eq), nil
}

func equal(left, right ir.IRValue) (bool, error) {
	if ir.IsNull(left) || ir.IsNull(right) {
		return ir.IsNull(left) && ir.IsNull(right), nil
	}
	if c, ok := compareNumbers(left, right); ok {
		return c == 0, nil
	}
	switch l := left.(type) {
	case ir.IRString:
		if r, ok := right.(ir.IRString); ok {
			return l == r, nil
		}
	case ir.IRBool:
		if r, ok := right.(ir.IRBool); ok {
			return l == r, nil
		}
	}
	return false, ErrNotFoldable
}

func foldOrdering(op Op, left, right ir.IRValue) (ir.IRValue, error) {
	c, ok := compareNumbers(left, right)
	if !ok {
		l, lok := left.(ir.IRString)
		r, rok := right.(ir.IRString)
		if !lok || !rok {
			return nil, notFoldable(op, left, right)
		}
		switch {
		case l < r:
			c = -1
		case l > r:
			c = 1
		}
	}
	switch op {
	case OpLess:
		return ir.IRBool(c < 0), nil
	case OpLessEqual:
		return ir.IRBool(c <= 0), nil
	case OpGreater:
		return ir.IRBool(c > 0), nil
	default:
		return ir.IRBool(c >= 0), nil
	}
}

// compareNumbers compares two numeric literals, promoting ints to float
// when the kinds differ.
func compareNumbers(left, right ir.IRValue) (int, bool) {
	if l, ok := left.(ir.IRInt); ok {
		if r, ok := right.(ir.IRInt); ok {
			switch {
			case l < r:
				return -1, true
			case l > r:
				return 1, true
			}
			return 0, true
		}
	}
	l, lok := asFloat(left)
	r, rok := asFloat(right)
	if !lok || !rok {
		return 0, false
	}
	switch {
	case l < r:
		return -1, true
	case l > r:
		return 1, true
	}
	return 0, true
}

func asFloat(v ir.IRValue) (float64, bool) {
	switch n := v.(type) {
	case ir.IRInt:
		return float64(n), true
	case ir.IRFloat:
		return float64(n), true
	default:
		return 0, false
	}
}

func foldArithmetic(op Op, left, right ir.IRValue) (ir.IRValue, error) {
	if l, ok := left.(ir.IRString); ok {
		if r, ok := right.(ir.IRString); ok && op == OpAdd {
			return l + r, nil
		}
		return nil, notFoldable(op, left, right)
	}

	if l, ok := left.(ir.IRInt); ok {
		if r, ok := right.(ir.IRInt); ok {
			return foldIntArithmetic(op, l, r)
		}
	}

	l, lok := asFloat(left)
	r, rok := asFloat(right)
	if !lok || !rok {
		return nil, notFoldable(op, left, right)
	}
	var f float64
	switch op {
	case OpAdd:
		f = l + r
	case OpSubtract:
		f = l - r
	case OpMultiply:
		f = l * r
	case OpDivide:
		if r == 0 {
			return nil, notFoldable(op, left, right)
		}
		f = l / r
	default:
		if r == 0 {
			return nil, notFoldable(op, left, right)
		}
		f = math.Mod(l, r)
	}
	// SQL has no literal for infinity or NaN.
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, notFoldable(op, left, right)
	}
	return ir.IRFloat(f), nil
}

func foldIntArithmetic(op Op, l, r ir.IRInt) (ir.IRValue, error) {
	switch op {
	case OpAdd:
		if (r > 0 && l > math.MaxInt64-r) || (r < 0 && l < math.MinInt64-r) {
			return nil, notFoldable(op, l, r)
		}
		return l + r, nil
	case OpSubtract:
		if (r < 0 && l > math.MaxInt64+r) || (r > 0 && l < math.MinInt64+r) {
			return nil, notFoldable(op, l, r)
		}
		return l - r, nil
	case OpMultiply:
		if mulOverflows(l, r) {
			return nil, notFoldable(op, l, r)
		}
		return l * r, nil
	case OpDivide:
		if r == 0 || (l == math.MinInt64 && r == -1) {
			return nil, notFoldable(op, l, r)
		}
		return l / r, nil
	default:
		if r == 0 {
			return nil, notFoldable(op, l, r)
		}
		return l % r, nil
	}
}

// mulOverflows reports whether l*r does not fit in an int64.
func mulOverflows(l, r ir.IRInt) bool {
	if l == 0 || r == 0 {
		return false
	}
	if (l == -1 && r == math.MinInt64) || (r == -1 && l == math.MinInt64) {
		return true
	}
	return (l*r)/r != l
}

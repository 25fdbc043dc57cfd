package expr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/exprsql/internal/ir"
)

func TestFold(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		left     ir.IRValue
		right    ir.IRValue
		expected ir.IRValue
	}{
		{"and", OpAnd, ir.IRBool(true), ir.IRBool(false), ir.IRBool(false)},
		{"or", OpOr, ir.IRBool(true), ir.IRBool(false), ir.IRBool(true)},
		{"int add", OpAdd, ir.IRInt(2), ir.IRInt(3), ir.IRInt(5)},
		{"int subtract", OpSubtract, ir.IRInt(2), ir.IRInt(3), ir.IRInt(-1)},
		{"int multiply", OpMultiply, ir.IRInt(4), ir.IRInt(3), ir.IRInt(12)},
		{"int divide truncates", OpDivide, ir.IRInt(7), ir.IRInt(2), ir.IRInt(3)},
		{"int modulo", OpModulo, ir.IRInt(7), ir.IRInt(4), ir.IRInt(3)},
		{"mixed add promotes", OpAdd, ir.IRInt(1), ir.IRFloat(0.5), ir.IRFloat(1.5)},
		{"float divide", OpDivide, ir.IRFloat(1), ir.IRFloat(4), ir.IRFloat(0.25)},
		{"float modulo", OpModulo, ir.IRFloat(5.5), ir.IRInt(2), ir.IRFloat(1.5)},
		{"string concat", OpAdd, ir.IRString("ab"), ir.IRString("cd"), ir.IRString("abcd")},
		{"int equal", OpEqual, ir.IRInt(3), ir.IRInt(3), ir.IRBool(true)},
		{"mixed equal", OpEqual, ir.IRInt(3), ir.IRFloat(3), ir.IRBool(true)},
		{"string not equal", OpNotEqual, ir.IRString("a"), ir.IRString("b"), ir.IRBool(true)},
		{"bool equal", OpEqual, ir.IRBool(false), ir.IRBool(false), ir.IRBool(true)},
		{"null equal null", OpEqual, ir.IRNull{}, ir.IRNull{}, ir.IRBool(true)},
		{"null not equal value", OpNotEqual, ir.IRNull{}, ir.IRInt(1), ir.IRBool(true)},
		{"less", OpLess, ir.IRInt(1), ir.IRInt(2), ir.IRBool(true)},
		{"less equal", OpLessEqual, ir.IRInt(2), ir.IRInt(2), ir.IRBool(true)},
		{"greater", OpGreater, ir.IRFloat(2.5), ir.IRInt(2), ir.IRBool(true)},
		{"greater equal strings", OpGreaterEqual, ir.IRString("a"), ir.IRString("b"), ir.IRBool(false)},
		{"coalesce null", OpCoalesce, ir.IRNull{}, ir.IRInt(4), ir.IRInt(4)},
		{"coalesce value", OpCoalesce, ir.IRString("x"), ir.IRInt(4), ir.IRString("x")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Fold(tt.op, tt.left, tt.right)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFold_NotFoldable(t *testing.T) {
	tests := []struct {
		name  string
		op    Op
		left  ir.IRValue
		right ir.IRValue
	}{
		{"and over ints", OpAnd, ir.IRInt(1), ir.IRBool(true)},
		{"divide by zero", OpDivide, ir.IRInt(1), ir.IRInt(0)},
		{"float divide by zero", OpDivide, ir.IRFloat(1), ir.IRFloat(0)},
		{"modulo by zero", OpModulo, ir.IRInt(1), ir.IRInt(0)},
		{"string minus", OpSubtract, ir.IRString("a"), ir.IRString("b")},
		{"string plus int", OpAdd, ir.IRString("a"), ir.IRInt(1)},
		{"mismatched equality", OpEqual, ir.IRString("1"), ir.IRInt(1)},
		{"ordering bools", OpLess, ir.IRBool(false), ir.IRBool(true)},
		{"ordering null", OpLess, ir.IRNull{}, ir.IRInt(1)},
		{"not is unary", OpNot, ir.IRBool(true), ir.IRBool(true)},
		{"invalid", OpInvalid, ir.IRInt(1), ir.IRInt(1)},
		{"float overflow to inf", OpMultiply, ir.IRFloat(1e308), ir.IRInt(10)},
		{"float negative inf", OpSubtract, ir.IRFloat(-1e308), ir.IRFloat(1e308)},
		{"int add overflow", OpAdd, ir.IRInt(math.MaxInt64), ir.IRInt(1)},
		{"int add underflow", OpAdd, ir.IRInt(math.MinInt64), ir.IRInt(-1)},
		{"int subtract overflow", OpSubtract, ir.IRInt(math.MinInt64), ir.IRInt(1)},
		{"int subtract negative overflow", OpSubtract, ir.IRInt(math.MaxInt64), ir.IRInt(-1)},
		{"int multiply overflow", OpMultiply, ir.IRInt(math.MaxInt64), ir.IRInt(2)},
		{"int multiply min by minus one", OpMultiply, ir.IRInt(math.MinInt64), ir.IRInt(-1)},
		{"int divide min by minus one", OpDivide, ir.IRInt(math.MinInt64), ir.IRInt(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Fold(tt.op, tt.left, tt.right)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNotFoldable)
			assert.Contains(t, err.Error(), "unsupported constant expression")
		})
	}
}

func TestFoldNot(t *testing.T) {
	got, err := FoldNot(ir.IRBool(true))
	require.NoError(t, err)
	assert.Equal(t, ir.IRBool(false), got)

	_, err = FoldNot(ir.IRInt(1))
	assert.ErrorIs(t, err, ErrNotFoldable)
}

func TestFold_Idempotent(t *testing.T) {
	// Folding a folded literal against the identity yields the same literal.
	first, err := Fold(OpAdd, ir.IRInt(2), ir.IRInt(3))
	require.NoError(t, err)
	second, err := Fold(OpAdd, first, ir.IRInt(0))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	b, err := Fold(OpAnd, ir.IRBool(true), ir.IRBool(true))
	require.NoError(t, err)
	again, err := Fold(OpAnd, b, ir.IRBool(true))
	require.NoError(t, err)
	assert.Equal(t, b, again)
}

func TestFold_IntArithmeticAtLimits(t *testing.T) {
	v, err := Fold(OpAdd, ir.IRInt(math.MaxInt64-1), ir.IRInt(1))
	require.NoError(t, err)
	assert.Equal(t, ir.IRInt(math.MaxInt64), v)

	v, err = Fold(OpMultiply, ir.IRInt(math.MinInt64/2), ir.IRInt(2))
	require.NoError(t, err)
	assert.Equal(t, ir.IRInt(math.MinInt64), v)

	v, err = Fold(OpSubtract, ir.IRInt(-1), ir.IRInt(math.MaxInt64))
	require.NoError(t, err)
	assert.Equal(t, ir.IRInt(math.MinInt64), v)
}

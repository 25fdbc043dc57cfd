package sqlexpr

import "github.com/roach88/exprsql/internal/ir"

// Result is the outcome of visiting a node.
//
// It has exactly two variants, told apart with IsFragment:
//   - a fragment holds SQL text, optionally tagged with an enum type
//   - a raw value holds an ir.IRValue that still needs quoting
type Result struct {
	fragment bool
	sql      string
	enum     *ir.EnumType
	value    ir.IRValue
}

// Fragment returns a rendered SQL fragment.
func Fragment(sql string) Result {
	return Result{fragment: true, sql: sql}
}

// EnumFragment returns a fragment that refers to an enum-typed column.
func EnumFragment(sql string, enum *ir.EnumType) Result {
	return Result{fragment: true, sql: sql, enum: enum}
}

// Raw returns an unquoted host value.
func Raw(v ir.IRValue) Result {
	if v == nil {
		v = ir.IRNull{}
	}
	return Result{value: v}
}

// IsFragment reports whether r is rendered SQL.
func (r Result) IsFragment() bool { return r.fragment }

// SQL returns the fragment text. It is empty for raw values.
func (r Result) SQL() string { return r.sql }

// Value returns the raw value. It is nil for fragments.
func (r Result) Value() ir.IRValue { return r.value }

// Enum returns the enum tag of a fragment, or nil.
func (r Result) Enum() *ir.EnumType { return r.enum }

// IsEnum reports whether r is an enum-tagged fragment.
func (r Result) IsEnum() bool { return r.fragment && r.enum != nil }

// String renders r for diagnostics.
func (r Result) String() string {
	if r.fragment {
		return r.sql
	}
	return ir.Format(r.value)
}

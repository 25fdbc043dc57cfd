// Package expr provides the typed predicate expression tree consumed by the
// SQL visitors.
//
// Trees are built by the query-building layer (see package parse for the
// Go-syntax front end), consumed read-only by visitors, and discarded once
// SQL text has been produced.
//
// ARCHITECTURE:
//
//	[Go-syntax predicate] → [expr tree] → [sqlexpr.Visitor] → [dialect plugin]
//
// SEALED INTERFACES:
//
// Expr is a sealed interface using the marker method pattern. Only types in
// this package implement it, which keeps the visitor's type switches
// exhaustive:
//
//	switch n := expr.Deref(e).(type) {
//	case expr.Binary:
//	case expr.Constant:
//	case expr.Member:
//	case expr.MethodCall:
//	case expr.Unary:
//	case expr.Parameter:
//	}
//
// Nodes are plain values. Pointers to nodes also satisfy Expr; Deref
// normalizes them so switches only list value types.
//
// COLUMN REFERENCES:
//
// A Member whose Owner is a Parameter is a column. Any other owner is a
// captured host value whose field is read at compile time. Only direct
// columns take part in the implicit boolean-column rewrite of dialects
// without a boolean type.
//
// CONSTANT FOLDING:
//
// Fold evaluates one operator over two literals. The operator set is
// explicit; anything outside it returns ErrNotFoldable rather than guessing.
package expr

package expr

import "github.com/roach88/exprsql/internal/ir"

// Expr represents a node in a predicate expression tree.
//
// This is a sealed interface - only types in this package implement it.
type Expr interface {
	exprNode() // Marker method - seals interface to this package
}

// Parameter is the root of a predicate lambda, e.g. x in x.Age > 5.
type Parameter struct {
	Name string
}

func (Parameter) exprNode() {}

// Member is a field access.
//
// With a Parameter owner it is a column reference and Type carries the
// column's declared type. With any other owner it reads a field of a
// captured host value.
type Member struct {
	Owner Expr
	Name  string
	Type  ir.Type
}

func (Member) exprNode() {}

// Constant is a literal value.
type Constant struct {
	Value ir.IRValue
}

func (Constant) exprNode() {}

// Binary applies an operator to two operands.
type Binary struct {
	Op    Op
	Left  Expr
	Right Expr
}

func (Binary) exprNode() {}

// Unary applies OpNot to one operand.
type Unary struct {
	Op      Op
	Operand Expr
}

func (Unary) exprNode() {}

// MethodCall invokes a string method on a column or value.
type MethodCall struct {
	Object Expr
	Method Method
	Args   []Expr
}

func (MethodCall) exprNode() {}

// Deref returns the value form of a node given by pointer.
// Nil pointers are returned as a nil Expr.
func Deref(e Expr) Expr {
	switch n := e.(type) {
	case *Parameter:
		if n == nil {
			return nil
		}
		return *n
	case *Member:
		if n == nil {
			return nil
		}
		return *n
	case *Constant:
		if n == nil {
			return nil
		}
		return *n
	case *Binary:
		if n == nil {
			return nil
		}
		return *n
	case *Unary:
		if n == nil {
			return nil
		}
		return *n
	case *MethodCall:
		if n == nil {
			return nil
		}
		return *n
	default:
		return e
	}
}

// IsColumn reports whether e is a member nested directly under a parameter.
func IsColumn(e Expr) bool {
	m, ok := Deref(e).(Member)
	if !ok {
		return false
	}
	_, ok = Deref(m.Owner).(Parameter)
	return ok
}

// IsColumnAccess reports whether e is rooted at a parameter, possibly
// through members and method calls.
func IsColumnAccess(e Expr) bool {
	switch n := Deref(e).(type) {
	case Parameter:
		return true
	case Member:
		return IsColumnAccess(n.Owner)
	case MethodCall:
		return IsColumnAccess(n.Object)
	default:
		return false
	}
}

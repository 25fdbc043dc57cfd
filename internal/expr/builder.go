package expr

import "github.com/roach88/exprsql/internal/ir"

// Param returns a lambda root.
func Param(name string) Parameter {
	return Parameter{Name: name}
}

// Col returns a column reference under param.
func Col(param Parameter, name string, t ir.Type) Member {
	return Member{Owner: param, Name: name, Type: t}
}

// Field returns a field read on a captured value.
func Field(owner Expr, name string) Member {
	return Member{Owner: owner, Name: name}
}

// Const returns a literal node.
func Const(v ir.IRValue) Constant {
	return Constant{Value: v}
}

// Null returns the null literal.
func Null() Constant {
	return Constant{Value: ir.IRNull{}}
}

// Bin returns a binary node.
func Bin(op Op, left, right Expr) Binary {
	return Binary{Op: op, Left: left, Right: right}
}

// And returns left AND right.
func And(left, right Expr) Binary {
	return Bin(OpAnd, left, right)
}

// Or returns left OR right.
func Or(left, right Expr) Binary {
	return Bin(OpOr, left, right)
}

// Eq returns left = right.
func Eq(left, right Expr) Binary {
	return Bin(OpEqual, left, right)
}

// Not returns the negation of operand.
func Not(operand Expr) Unary {
	return Unary{Op: OpNot, Operand: operand}
}

// Call returns a method call node.
func Call(object Expr, m Method, args ...Expr) MethodCall {
	return MethodCall{Object: object, Method: m, Args: args}
}

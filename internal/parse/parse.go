// Package parse turns predicates written in Go syntax into expression
// trees.
//
//	x.IsActive && x.Age > 5
//	x.Name.Trim() == "bob" || x.Status == Status.Active
//	coalesce(x.Nick, x.Name) == name
//
// Selectors on the parameter are columns, typed from the table when one
// is given. Selectors on an enum name are enum members. Other identifiers
// must be true, false, nil, coalesce or a captured variable.
package parse

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"strconv"

	"github.com/roach88/exprsql/internal/expr"
	"github.com/roach88/exprsql/internal/ir"
	"github.com/roach88/exprsql/internal/schema"
)

// DefaultParam is the parameter name used when Options.Param is empty.
const DefaultParam = "x"

// Options configures parsing.
type Options struct {
	// Param is the lambda parameter name. Defaults to DefaultParam.
	Param string

	// Table types columns. When nil every column is accepted with an
	// unknown type.
	Table *schema.Table

	// Schema resolves enum member selectors such as Status.Active.
	Schema *schema.Schema

	// Vars are captured values referenced by name.
	Vars map[string]ir.IRValue
}

// ParseError reports invalid predicate source.
type ParseError struct {
	// Pos is the 1-based column of the offending token.
	Pos     int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d: %s", e.Pos, e.Message)
}

var binaryOps = map[token.Token]expr.Op{
	token.LAND: expr.OpAnd,
	token.LOR:  expr.OpOr,
	token.EQL:  expr.OpEqual,
	token.NEQ:  expr.OpNotEqual,
	token.LSS:  expr.OpLess,
	token.LEQ:  expr.OpLessEqual,
	token.GTR:  expr.OpGreater,
	token.GEQ:  expr.OpGreaterEqual,
	token.ADD:  expr.OpAdd,
	token.SUB:  expr.OpSubtract,
	token.MUL:  expr.OpMultiply,
	token.QUO:  expr.OpDivide,
	token.REM:  expr.OpModulo,
}

// Parse parses src into an expression tree.
func Parse(src string, opts Options) (expr.Expr, error) {
	if opts.Param == "" {
		opts.Param = DefaultParam
	}

	fset := token.NewFileSet()
	node, err := parser.ParseExprFrom(fset, "", src, 0)
	if err != nil {
		var list scanner.ErrorList
		if errors.As(err, &list) && len(list) > 0 {
			return nil, &ParseError{Pos: list[0].Pos.Column, Message: list[0].Msg}
		}
		return nil, &ParseError{Pos: 1, Message: err.Error()}
	}

	p := &converter{fset: fset, opts: opts, param: expr.Param(opts.Param)}
	return p.convert(node)
}

type converter struct {
	fset  *token.FileSet
	opts  Options
	param expr.Parameter
}

func (p *converter) errorf(n ast.Node, format string, args ...any) error {
	return &ParseError{Pos: p.fset.Position(n.Pos()).Column, Message: fmt.Sprintf(format, args...)}
}

func (p *converter) convert(n ast.Expr) (expr.Expr, error) {
	switch n := n.(type) {
	case *ast.ParenExpr:
		return p.convert(n.X)
	case *ast.BinaryExpr:
		return p.convertBinary(n)
	case *ast.UnaryExpr:
		return p.convertUnary(n)
	case *ast.BasicLit:
		v, err := literal(n)
		if err != nil {
			return nil, p.errorf(n, "%v", err)
		}
		return expr.Const(v), nil
	case *ast.Ident:
		return p.convertIdent(n)
	case *ast.SelectorExpr:
		return p.convertSelector(n)
	case *ast.CallExpr:
		return p.convertCall(n)
	default:
		return nil, p.errorf(n, "unsupported syntax %T", n)
	}
}

func (p *converter) convertBinary(n *ast.BinaryExpr) (expr.Expr, error) {
	op, ok := binaryOps[n.Op]
	if !ok {
		return nil, p.errorf(n, "unsupported operator %s", n.Op)
	}
	left, err := p.convert(n.X)
	if err != nil {
		return nil, err
	}
	right, err := p.convert(n.Y)
	if err != nil {
		return nil, err
	}
	return expr.Bin(op, left, right), nil
}

func (p *converter) convertUnary(n *ast.UnaryExpr) (expr.Expr, error) {
	switch n.Op {
	case token.NOT:
		operand, err := p.convert(n.X)
		if err != nil {
			return nil, err
		}
		return expr.Not(operand), nil
	case token.SUB:
		if lit, ok := n.X.(*ast.BasicLit); ok {
			v, err := literal(lit)
			if err != nil {
				return nil, p.errorf(lit, "%v", err)
			}
			switch v := v.(type) {
			case ir.IRInt:
				return expr.Const(-v), nil
			case ir.IRFloat:
				return expr.Const(-v), nil
			}
		}
		operand, err := p.convert(n.X)
		if err != nil {
			return nil, err
		}
		return expr.Bin(expr.OpSubtract, expr.Const(ir.IRInt(0)), operand), nil
	default:
		return nil, p.errorf(n, "unsupported operator %s", n.Op)
	}
}

func literal(n *ast.BasicLit) (ir.IRValue, error) {
	switch n.Kind {
	case token.INT:
		v, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %s", n.Value)
		}
		return ir.IRInt(v), nil
	case token.FLOAT:
		v, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float %s", n.Value)
		}
		return ir.IRFloat(v), nil
	case token.STRING, token.CHAR:
		v, err := strconv.Unquote(n.Value)
		if err != nil {
			return nil, fmt.Errorf("invalid string %s", n.Value)
		}
		return ir.IRString(v), nil
	default:
		return nil, fmt.Errorf("unsupported literal %s", n.Value)
	}
}

func (p *converter) convertIdent(n *ast.Ident) (expr.Expr, error) {
	switch n.Name {
	case p.opts.Param:
		return p.param, nil
	case "true":
		return expr.Const(ir.IRBool(true)), nil
	case "false":
		return expr.Const(ir.IRBool(false)), nil
	case "nil":
		return expr.Null(), nil
	}
	if v, ok := p.opts.Vars[n.Name]; ok {
		return expr.Const(v), nil
	}
	return nil, p.errorf(n, "undefined: %s", n.Name)
}

func (p *converter) convertSelector(n *ast.SelectorExpr) (expr.Expr, error) {
	if id, ok := n.X.(*ast.Ident); ok {
		if id.Name == p.opts.Param {
			return p.column(n.Sel)
		}
		if _, isVar := p.opts.Vars[id.Name]; !isVar && p.opts.Schema != nil {
			if enum, ok := p.opts.Schema.Enum(id.Name); ok {
				v, err := enum.Member(n.Sel.Name)
				if err != nil {
					return nil, p.errorf(n.Sel, "%v", err)
				}
				return expr.Const(v), nil
			}
		}
	}

	owner, err := p.convert(n.X)
	if err != nil {
		return nil, err
	}
	return expr.Field(owner, n.Sel.Name), nil
}

func (p *converter) column(sel *ast.Ident) (expr.Expr, error) {
	if p.opts.Table == nil {
		return expr.Col(p.param, sel.Name, ir.UnknownType), nil
	}
	t, ok := p.opts.Table.ColumnType(sel.Name)
	if !ok {
		return nil, p.errorf(sel, "table %s has no column %s", p.opts.Table.Name, sel.Name)
	}
	return expr.Col(p.param, sel.Name, t), nil
}

func (p *converter) convertCall(n *ast.CallExpr) (expr.Expr, error) {
	args := make([]expr.Expr, len(n.Args))
	for i, a := range n.Args {
		arg, err := p.convert(a)
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}

	switch fun := n.Fun.(type) {
	case *ast.Ident:
		if fun.Name != "coalesce" {
			return nil, p.errorf(fun, "unknown function %s", fun.Name)
		}
		if len(args) != 2 {
			return nil, p.errorf(n, "coalesce takes 2 arguments, got %d", len(args))
		}
		return expr.Bin(expr.OpCoalesce, args[0], args[1]), nil
	case *ast.SelectorExpr:
		m, ok := expr.ParseMethod(fun.Sel.Name)
		if !ok {
			return nil, p.errorf(fun.Sel, "unknown method %s", fun.Sel.Name)
		}
		receiver, err := p.convert(fun.X)
		if err != nil {
			return nil, err
		}
		return expr.Call(receiver, m, args...), nil
	default:
		return nil, p.errorf(n, "unsupported call")
	}
}

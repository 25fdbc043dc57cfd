package expr

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/roach88/exprsql/internal/ir"
)

// String renders e in host syntax for diagnostics.
func String(e Expr) string {
	var b strings.Builder
	writeExpr(&b, e)
	return b.String()
}

func writeExpr(b *strings.Builder, e Expr) {
	switch n := Deref(e).(type) {
	case nil:
		b.WriteString("<nil>")
	case Parameter:
		b.WriteString(n.Name)
	case Member:
		writeExpr(b, n.Owner)
		b.WriteByte('.')
		b.WriteString(n.Name)
	case Constant:
		b.WriteString(ir.Format(n.Value))
	case Binary:
		if n.Op == OpCoalesce {
			b.WriteString("coalesce(")
			writeExpr(b, n.Left)
			b.WriteString(", ")
			writeExpr(b, n.Right)
			b.WriteByte(')')
			return
		}
		b.WriteByte('(')
		writeExpr(b, n.Left)
		b.WriteByte(' ')
		b.WriteString(n.Op.String())
		b.WriteByte(' ')
		writeExpr(b, n.Right)
		b.WriteByte(')')
	case Unary:
		b.WriteString(n.Op.String())
		writeExpr(b, n.Operand)
	case MethodCall:
		writeExpr(b, n.Object)
		b.WriteByte('.')
		b.WriteString(n.Method.String())
		b.WriteByte('(')
		for i, arg := range n.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, arg)
		}
		b.WriteByte(')')
	}
}

// Canonical returns the tree as an ir.IRObject suitable for
// ir.MarshalCanonical. Floats and nulls are tagged so they survive
// canonical encoding.
func Canonical(e Expr) ir.IRObject {
	switch n := Deref(e).(type) {
	case Parameter:
		return ir.IRObject{"node": ir.IRString("param"), "name": exactString(n.Name)}
	case Member:
		obj := ir.IRObject{
			"node": ir.IRString("member"),
			"name": exactString(n.Name),
			"type": ir.IRString(n.Type.String()),
		}
		if n.Owner != nil {
			obj["owner"] = Canonical(n.Owner)
		}
		if n.Type.IsEnum() {
			obj["enum"] = canonicalEnum(n.Type.Enum)
		}
		return obj
	case Constant:
		return ir.IRObject{"node": ir.IRString("const"), "value": canonicalValue(n.Value)}
	case Binary:
		return ir.IRObject{
			"node":  ir.IRString("binary"),
			"op":    ir.IRString(n.Op.String()),
			"left":  Canonical(n.Left),
			"right": Canonical(n.Right),
		}
	case Unary:
		return ir.IRObject{
			"node":    ir.IRString("unary"),
			"op":      ir.IRString(n.Op.String()),
			"operand": Canonical(n.Operand),
		}
	case MethodCall:
		args := make(ir.IRArray, len(n.Args))
		for i, arg := range n.Args {
			args[i] = Canonical(arg)
		}
		return ir.IRObject{
			"node":   ir.IRString("call"),
			"method": ir.IRString(n.Method.String()),
			"object": Canonical(n.Object),
			"args":   args,
		}
	default:
		return ir.IRObject{"node": ir.IRString("nil")}
	}
}

// canonicalEnum captures everything that decides how an enum value is
// quoted: storage mode and the full member mapping.
func canonicalEnum(e *ir.EnumType) ir.IRObject {
	members := make(ir.IRArray, len(e.Members))
	for i, m := range e.Members {
		members[i] = ir.IRObject{"name": exactString(m.Name), "value": ir.IRInt(m.Value)}
	}
	return ir.IRObject{
		"name":    exactString(e.Name),
		"as_int":  ir.IRBool(e.AsInt),
		"members": members,
	}
}

// exactString tags s with its hex bytes. Canonical JSON NFC-normalizes
// plain strings, but SQL text is emitted byte for byte.
func exactString(s string) ir.IRObject {
	return ir.IRObject{"str": ir.IRString(hex.EncodeToString([]byte(s)))}
}

func canonicalValue(v ir.IRValue) ir.IRValue {
	switch val := v.(type) {
	case ir.IRString:
		return exactString(string(val))
	case nil, ir.IRNull:
		return ir.IRObject{"null": ir.IRBool(true)}
	case ir.IRFloat:
		return ir.IRObject{"float": ir.IRString(strconv.FormatFloat(float64(val), 'g', -1, 64))}
	case ir.IRArray:
		arr := make(ir.IRArray, len(val))
		for i, elem := range val {
			arr[i] = canonicalValue(elem)
		}
		return arr
	case ir.IRObject:
		obj := make(ir.IRObject, len(val))
		for k, elem := range val {
			obj[k] = canonicalValue(elem)
		}
		return obj
	default:
		return v
	}
}

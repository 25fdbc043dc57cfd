package sqlexpr

import (
	"strings"
	"unicode"

	"github.com/roach88/exprsql/internal/expr"
	"github.com/roach88/exprsql/internal/ir"
)

// evalMethod evaluates a string method over captured values.
func evalMethod(m expr.MethodCall, object Result, args []Result) (Result, error) {
	s, ok := object.Value().(ir.IRString)
	if !ok {
		return Result{}, NewInvalidOperand(m, "%s requires a string receiver, got %s", m.Method, object)
	}
	str := string(s)

	stringArg := func(i int) (string, error) {
		a, ok := args[i].Value().(ir.IRString)
		if !ok {
			return "", NewInvalidOperand(m, "%s requires a string argument, got %s", m.Method, args[i])
		}
		return string(a), nil
	}

	switch m.Method {
	case expr.MethodTrim:
		return Raw(ir.IRString(strings.TrimSpace(str))), nil
	case expr.MethodTrimStart:
		return Raw(ir.IRString(strings.TrimLeftFunc(str, unicode.IsSpace))), nil
	case expr.MethodTrimEnd:
		return Raw(ir.IRString(strings.TrimRightFunc(str, unicode.IsSpace))), nil
	case expr.MethodToUpper:
		return Raw(ir.IRString(strings.ToUpper(str))), nil
	case expr.MethodToLower:
		return Raw(ir.IRString(strings.ToLower(str))), nil
	case expr.MethodStartsWith, expr.MethodEndsWith, expr.MethodContains:
		arg, err := stringArg(0)
		if err != nil {
			return Result{}, err
		}
		var b bool
		switch m.Method {
		case expr.MethodStartsWith:
			b = strings.HasPrefix(str, arg)
		case expr.MethodEndsWith:
			b = strings.HasSuffix(str, arg)
		default:
			b = strings.Contains(str, arg)
		}
		return Raw(ir.IRBool(b)), nil
	case expr.MethodSubstring:
		return substring(m, []rune(str), args)
	default:
		return Result{}, NewUnsupportedMethod(m, m.Method)
	}
}

func substring(m expr.MethodCall, runes []rune, args []Result) (Result, error) {
	start, ok := args[0].Value().(ir.IRInt)
	if !ok || start < 0 || int64(start) > int64(len(runes)) {
		return Result{}, NewInvalidOperand(m, "Substring start %s out of range for length %d", args[0], len(runes))
	}
	end := len(runes)
	if len(args) == 2 {
		length, ok := args[1].Value().(ir.IRInt)
		// Compare against the remaining runes so start+length cannot overflow.
		if !ok || length < 0 || int64(length) > int64(len(runes))-int64(start) {
			return Result{}, NewInvalidOperand(m, "Substring length %s out of range", args[1])
		}
		end = int(start) + int(length)
	}
	return Raw(ir.IRString(string(runes[start:end]))), nil
}

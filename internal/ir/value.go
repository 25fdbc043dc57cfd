package ir

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode/utf16"
)

// IRValue is a sealed interface representing literal values in predicates.
// Only IRNull, IRString, IRInt, IRFloat, IRBool, IRArray, and IRObject implement this.
type IRValue interface {
	irValue() // Sealed - only these types implement it
}

// IRNull represents the null literal.
// Using an explicit type ensures all IRValues satisfy the sealed interface.
type IRNull struct{}

func (IRNull) irValue() {}

// IRString represents a string literal.
type IRString string

func (IRString) irValue() {}

// IRInt represents an integer literal. Always int64.
type IRInt int64

func (IRInt) irValue() {}

// IRFloat represents a floating point literal.
// Floats may appear in predicates but are rejected by MarshalCanonical.
type IRFloat float64

func (IRFloat) irValue() {}

// IRBool represents a boolean literal.
type IRBool bool

func (IRBool) irValue() {}

// IRArray represents an array of IRValue elements.
type IRArray []IRValue

func (IRArray) irValue() {}

// IRObject represents a captured host value with named fields.
// Use SortedKeys() for deterministic iteration.
type IRObject map[string]IRValue

func (IRObject) irValue() {}

// IsNull reports whether v is nil or IRNull.
func IsNull(v IRValue) bool {
	if v == nil {
		return true
	}
	_, ok := v.(IRNull)
	return ok
}

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code units).
// Go's sort.Strings uses UTF-8 which produces a different order.
func (obj IRObject) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// compareKeysRFC8785 compares strings using UTF-16 code unit ordering.
func compareKeysRFC8785(a, b string) int {
	return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
}

// FromAny converts a decoded host value (YAML, JSON, CUE) to an IRValue.
// Integral floats become IRInt so "5" and 5.0 compare equal after decoding.
func FromAny(v any) (IRValue, error) {
	switch val := v.(type) {
	case nil:
		return IRNull{}, nil
	case IRValue:
		return val, nil
	case bool:
		return IRBool(val), nil
	case string:
		return IRString(val), nil
	case int:
		return IRInt(val), nil
	case int32:
		return IRInt(val), nil
	case int64:
		return IRInt(val), nil
	case uint64:
		if val > math.MaxInt64 {
			return nil, fmt.Errorf("integer out of int64 range: %d", val)
		}
		return IRInt(val), nil
	case float32:
		return fromFloat(float64(val)), nil
	case float64:
		return fromFloat(val), nil
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return IRInt(n), nil
		}
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", val, err)
		}
		return IRFloat(f), nil
	case []any:
		arr := make(IRArray, len(val))
		for i, elem := range val {
			irElem, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			arr[i] = irElem
		}
		return arr, nil
	case map[string]any:
		obj := make(IRObject, len(val))
		for k, elem := range val {
			irElem, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", k, err)
			}
			obj[k] = irElem
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}

func fromFloat(f float64) IRValue {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return IRInt(int64(f))
	}
	return IRFloat(f)
}

// ParseLiteral interprets command-line text as a literal.
// Recognizes null, true, false, integers, and floats; anything else is a string.
// Quoted text ("..." or '...') is always a string.
func ParseLiteral(s string) IRValue {
	switch s {
	case "null", "nil":
		return IRNull{}
	case "true":
		return IRBool(true)
	case "false":
		return IRBool(false)
	}
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return IRString(s[1 : len(s)-1])
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return IRInt(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && strings.ContainsAny(s, ".eE") {
		return IRFloat(f)
	}
	return IRString(s)
}

// Format renders a value the way it would be written in a predicate.
// Used for diagnostics only; dialects own SQL quoting.
func Format(v IRValue) string {
	switch val := v.(type) {
	case nil, IRNull:
		return "nil"
	case IRString:
		return strconv.Quote(string(val))
	case IRInt:
		return strconv.FormatInt(int64(val), 10)
	case IRFloat:
		return strconv.FormatFloat(float64(val), 'g', -1, 64)
	case IRBool:
		return strconv.FormatBool(bool(val))
	case IRArray:
		parts := make([]string, len(val))
		for i, elem := range val {
			parts[i] = Format(elem)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case IRObject:
		keys := val.SortedKeys()
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + Format(val[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprintf("%v", v)
	}
}

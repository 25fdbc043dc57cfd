// Package dialect defines how literal values and identifiers are quoted for
// a particular SQL engine.
package dialect

import (
	"strconv"
	"strings"

	"github.com/roach88/exprsql/internal/ir"
)

// Provider defines the quoting rules consumed by expression compilers.
// Implementations hold no mutable state and are safe for concurrent use.
type Provider interface {
	// Name returns the dialect name for cache keys and logging.
	Name() string

	// Quote renders v as a SQL literal of declared type t.
	// For enum types t decides the representation, not v's host type.
	Quote(v ir.IRValue, t ir.Type) string

	// QuoteColumn renders a column identifier.
	QuoteColumn(name string) string

	// QuotedTrue returns the literal used for boolean true.
	QuotedTrue() string

	// QuotedFalse returns the literal used for boolean false.
	QuotedFalse() string
}

// quoteString wraps s in single quotes, doubling embedded quotes.
func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// quoteIdentifier wraps name in double quotes, doubling embedded quotes.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// quoteEnum renders v using enum's storage representation.
//
// Enums stored by name quote the member name; an integer that names no
// member is quoted as its decimal text. Enums stored as integers render
// the member value; a string that names no member is quoted as-is.
func quoteEnum(v ir.IRValue, enum *ir.EnumType) (string, bool) {
	switch val := v.(type) {
	case ir.IRInt:
		if enum.AsInt {
			return strconv.FormatInt(int64(val), 10), true
		}
		if name, ok := enum.NameOf(int64(val)); ok {
			return quoteString(name), true
		}
		return quoteString(strconv.FormatInt(int64(val), 10)), true
	case ir.IRString:
		if !enum.AsInt {
			return quoteString(string(val)), true
		}
		if n, ok := enum.ValueOf(string(val)); ok {
			return strconv.FormatInt(n, 10), true
		}
		return quoteString(string(val)), true
	default:
		return "", false
	}
}

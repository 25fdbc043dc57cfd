package dialect

import (
	"strconv"
	"strings"

	"github.com/roach88/exprsql/internal/ir"
)

// GenericDialect implements Provider for ANSI SQL engines with a native
// boolean type. Identifiers are always double-quoted.
type GenericDialect struct{}

func (d *GenericDialect) Name() string { return "generic" }

func (d *GenericDialect) Quote(v ir.IRValue, t ir.Type) string {
	if ir.IsNull(v) {
		return "NULL"
	}
	if t.IsEnum() {
		if s, ok := quoteEnum(v, t.Enum); ok {
			return s
		}
	}
	switch val := v.(type) {
	case ir.IRString:
		return quoteString(string(val))
	case ir.IRInt:
		return strconv.FormatInt(int64(val), 10)
	case ir.IRFloat:
		return formatFloat(float64(val))
	case ir.IRBool:
		if val {
			return d.QuotedTrue()
		}
		return d.QuotedFalse()
	case ir.IRArray:
		parts := make([]string, len(val))
		for i, elem := range val {
			parts[i] = d.Quote(elem, ir.TypeOf(elem))
		}
		return strings.Join(parts, ", ")
	default:
		return quoteString(ir.Format(v))
	}
}

func (d *GenericDialect) QuoteColumn(name string) string {
	return quoteIdentifier(name)
}

func (d *GenericDialect) QuotedTrue() string { return "TRUE" }

func (d *GenericDialect) QuotedFalse() string { return "FALSE" }

var (
	// Generic is the singleton ANSI dialect.
	Generic Provider = &GenericDialect{}

	// Firebird is the Firebird dialect with unquoted identifiers.
	Firebird Provider = NewFirebird(FirebirdOptions{})
)

// Lookup returns a provider by name.
func Lookup(name string) (Provider, bool) {
	switch name {
	case "firebird":
		return Firebird, true
	case "firebird+quoted":
		return NewFirebird(FirebirdOptions{QuoteNames: true}), true
	case "generic":
		return Generic, true
	default:
		return nil, false
	}
}

package dialect

import (
	"strconv"
	"strings"

	"github.com/roach88/exprsql/internal/ir"
)

// FirebirdOptions configures the Firebird provider.
type FirebirdOptions struct {
	// QuoteNames double-quotes column identifiers. Unquoted identifiers are
	// emitted verbatim.
	QuoteNames bool
}

// FirebirdDialect implements Provider for Firebird.
// Firebird has no boolean column type; booleans are stored as 1/0.
type FirebirdDialect struct {
	opts FirebirdOptions
}

// NewFirebird creates a Firebird provider.
func NewFirebird(opts FirebirdOptions) *FirebirdDialect {
	return &FirebirdDialect{opts: opts}
}

// Name returns "firebird", or "firebird+quoted" when names are quoted so
// cache entries from both settings never collide.
func (d *FirebirdDialect) Name() string {
	if d.opts.QuoteNames {
		return "firebird+quoted"
	}
	return "firebird"
}

func (d *FirebirdDialect) Quote(v ir.IRValue, t ir.Type) string {
	if ir.IsNull(v) {
		return "null"
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
		return strings.Join(parts, ",")
	default:
		return quoteString(ir.Format(v))
	}
}

func (d *FirebirdDialect) QuoteColumn(name string) string {
	if d.opts.QuoteNames {
		return quoteIdentifier(name)
	}
	return name
}

func (d *FirebirdDialect) QuotedTrue() string { return "1" }

func (d *FirebirdDialect) QuotedFalse() string { return "0" }

package expr

// Op is a closed set of operators.
type Op int

const (
	OpInvalid Op = iota
	OpAnd
	OpOr
	OpEqual
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
	OpCoalesce
	OpNot
)

var opSymbols = map[Op]string{
	OpAnd:          "AND",
	OpOr:           "OR",
	OpEqual:        "=",
	OpNotEqual:     "<>",
	OpLess:         "<",
	OpLessEqual:    "<=",
	OpGreater:      ">",
	OpGreaterEqual: ">=",
	OpAdd:          "+",
	OpSubtract:     "-",
	OpMultiply:     "*",
	OpDivide:       "/",
	OpModulo:       "MOD",
	OpCoalesce:     "COALESCE",
	OpNot:          "NOT",
}

var opHostSymbols = map[Op]string{
	OpAnd:          "&&",
	OpOr:           "||",
	OpEqual:        "==",
	OpNotEqual:     "!=",
	OpLess:         "<",
	OpLessEqual:    "<=",
	OpGreater:      ">",
	OpGreaterEqual: ">=",
	OpAdd:          "+",
	OpSubtract:     "-",
	OpMultiply:     "*",
	OpDivide:       "/",
	OpModulo:       "%",
	OpCoalesce:     "coalesce",
	OpNot:          "!",
}

// Symbol returns the SQL spelling of the operator.
func (op Op) Symbol() string {
	if s, ok := opSymbols[op]; ok {
		return s
	}
	return "?"
}

// String returns the host-syntax spelling of the operator.
func (op Op) String() string {
	if s, ok := opHostSymbols[op]; ok {
		return s
	}
	return "invalid"
}

// IsLogical reports AND / OR.
func (op Op) IsLogical() bool {
	return op == OpAnd || op == OpOr
}

// IsEquality reports = / <>.
func (op Op) IsEquality() bool {
	return op == OpEqual || op == OpNotEqual
}

// IsOrdering reports < <= > >=.
func (op Op) IsOrdering() bool {
	return op >= OpLess && op <= OpGreaterEqual
}

// IsArithmetic reports + - * / MOD.
func (op Op) IsArithmetic() bool {
	return op >= OpAdd && op <= OpModulo
}

// IsFunction reports operators rendered as SQL functions.
func (op Op) IsFunction() bool {
	return op == OpModulo || op == OpCoalesce
}

// IsBinary reports whether op is valid in a Binary node.
func (op Op) IsBinary() bool {
	return op >= OpAnd && op <= OpCoalesce
}

package expr

// Method is a closed set of string methods callable in predicates.
type Method int

const (
	MethodInvalid Method = iota
	MethodTrim
	MethodTrimStart
	MethodTrimEnd
	MethodToUpper
	MethodToLower
	MethodStartsWith
	MethodEndsWith
	MethodContains
	MethodSubstring
)

var methodNames = map[Method]string{
	MethodTrim:       "Trim",
	MethodTrimStart:  "TrimStart",
	MethodTrimEnd:    "TrimEnd",
	MethodToUpper:    "ToUpper",
	MethodToLower:    "ToLower",
	MethodStartsWith: "StartsWith",
	MethodEndsWith:   "EndsWith",
	MethodContains:   "Contains",
	MethodSubstring:  "Substring",
}

// methodAliases maps accepted host spellings to methods.
var methodAliases = map[string]Method{
	"Trim":       MethodTrim,
	"TrimStart":  MethodTrimStart,
	"LTrim":      MethodTrimStart,
	"TrimEnd":    MethodTrimEnd,
	"RTrim":      MethodTrimEnd,
	"ToUpper":    MethodToUpper,
	"ToLower":    MethodToLower,
	"StartsWith": MethodStartsWith,
	"EndsWith":   MethodEndsWith,
	"Contains":   MethodContains,
	"Substring":  MethodSubstring,
}

// ParseMethod resolves a host method name.
func ParseMethod(name string) (Method, bool) {
	m, ok := methodAliases[name]
	return m, ok
}

// String returns the canonical host name of the method.
func (m Method) String() string {
	if s, ok := methodNames[m]; ok {
		return s
	}
	return "Invalid"
}

// Arity returns the minimum and maximum number of arguments.
func (m Method) Arity() (lo, hi int) {
	switch m {
	case MethodTrim, MethodTrimStart, MethodTrimEnd, MethodToUpper, MethodToLower:
		return 0, 0
	case MethodStartsWith, MethodEndsWith, MethodContains:
		return 1, 1
	case MethodSubstring:
		return 1, 2
	default:
		return 0, -1
	}
}

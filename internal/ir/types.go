package ir

import "fmt"

// TypeKind identifies the declared type of a column or value.
type TypeKind int

const (
	TypeUnknown TypeKind = iota
	TypeString
	TypeInt
	TypeFloat
	TypeBool
	TypeEnum
)

// String returns the schema spelling of the kind.
func (k TypeKind) String() string {
	switch k {
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	case TypeEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Type describes how a value must be quoted.
// Enum is set only when Kind is TypeEnum.
type Type struct {
	Kind TypeKind
	Enum *EnumType
}

// String returns the schema spelling of the type.
func (t Type) String() string {
	if t.Kind == TypeEnum && t.Enum != nil {
		return t.Enum.Name
	}
	return t.Kind.String()
}

// IsEnum reports whether t is an enumerated type.
func (t Type) IsEnum() bool {
	return t.Kind == TypeEnum && t.Enum != nil
}

var (
	StringType  = Type{Kind: TypeString}
	IntType     = Type{Kind: TypeInt}
	FloatType   = Type{Kind: TypeFloat}
	BoolType    = Type{Kind: TypeBool}
	UnknownType = Type{Kind: TypeUnknown}
)

// EnumOf returns the Type for an enum.
func EnumOf(e *EnumType) Type {
	return Type{Kind: TypeEnum, Enum: e}
}

// TypeOf returns the natural host type of a value.
// Null, arrays and objects have no natural quoting type and return UnknownType.
func TypeOf(v IRValue) Type {
	switch v.(type) {
	case IRString:
		return StringType
	case IRInt:
		return IntType
	case IRFloat:
		return FloatType
	case IRBool:
		return BoolType
	default:
		return UnknownType
	}
}

// EnumMember is one named value of an enum.
type EnumMember struct {
	Name  string
	Value int64
}

// EnumType is an enumerated column type.
//
// Enum values are stored by member name unless AsInt is set, in which
// case the underlying integer is stored.
type EnumType struct {
	Name    string
	Members []EnumMember
	AsInt   bool
}

// NameOf returns the member name for an integer value.
func (e *EnumType) NameOf(v int64) (string, bool) {
	for _, m := range e.Members {
		if m.Value == v {
			return m.Name, true
		}
	}
	return "", false
}

// ValueOf returns the integer value for a member name.
func (e *EnumType) ValueOf(name string) (int64, bool) {
	for _, m := range e.Members {
		if m.Name == name {
			return m.Value, true
		}
	}
	return 0, false
}

// Member returns the integer constant for a member name or an error
// naming the enum.
func (e *EnumType) Member(name string) (IRInt, error) {
	v, ok := e.ValueOf(name)
	if !ok {
		return 0, fmt.Errorf("enum %s has no member %q", e.Name, name)
	}
	return IRInt(v), nil
}

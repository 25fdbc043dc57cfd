// Package schema describes the tables and enums predicates are typed
// against. Schemas are written in YAML or CUE:
//
//	enums:
//	  Status:
//	    members: {Pending: 0, Active: 1}
//	tables:
//	  people:
//	    columns: {Name: string, Age: int, IsActive: bool, Status: Status}
//
// Column types are string, int, float, bool, or the name of an enum.
package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/exprsql/internal/ir"
)

// File is the decoded, unresolved form of a schema file.
type File struct {
	Enums  map[string]EnumDef  `yaml:"enums" json:"enums"`
	Tables map[string]TableDef `yaml:"tables" json:"tables"`
}

// EnumDef declares an enum's members. AsInt stores the integer value
// instead of the member name.
type EnumDef struct {
	AsInt   bool             `yaml:"as_int" json:"as_int"`
	Members map[string]int64 `yaml:"members" json:"members"`
}

// TableDef maps column names to type names.
type TableDef struct {
	Columns map[string]string `yaml:"columns" json:"columns"`
}

// Schema is a resolved set of enums and tables.
type Schema struct {
	Enums  map[string]*ir.EnumType
	Tables map[string]*Table
}

// Table is a resolved table.
type Table struct {
	Name    string
	Columns map[string]Column
}

// Column is a resolved column.
type Column struct {
	Name string
	Type ir.Type
}

// Error reports an invalid schema element.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var builtinTypes = map[string]ir.Type{
	"string": ir.StringType,
	"int":    ir.IntType,
	"float":  ir.FloatType,
	"bool":   ir.BoolType,
}

// Resolve checks f and binds column types to enums.
//
// Enum members are ordered by value. Duplicate member values, enum names
// that shadow builtin types, and unknown column types are errors.
func Resolve(f File) (*Schema, error) {
	s := &Schema{
		Enums:  make(map[string]*ir.EnumType, len(f.Enums)),
		Tables: make(map[string]*Table, len(f.Tables)),
	}

	for _, name := range sortedKeys(f.Enums) {
		def := f.Enums[name]
		field := "enums." + name
		if _, ok := builtinTypes[strings.ToLower(name)]; ok {
			return nil, &Error{Field: field, Message: "enum name shadows builtin type"}
		}
		if len(def.Members) == 0 {
			return nil, &Error{Field: field, Message: "enum has no members"}
		}

		enum := &ir.EnumType{Name: name, AsInt: def.AsInt}
		seen := make(map[int64]string, len(def.Members))
		for _, member := range sortedKeys(def.Members) {
			v := def.Members[member]
			if prev, ok := seen[v]; ok {
				return nil, &Error{
					Field:   field + ".members." + member,
					Message: fmt.Sprintf("value %d already used by %s", v, prev),
				}
			}
			seen[v] = member
			enum.Members = append(enum.Members, ir.EnumMember{Name: member, Value: v})
		}
		sort.Slice(enum.Members, func(i, j int) bool {
			return enum.Members[i].Value < enum.Members[j].Value
		})
		s.Enums[name] = enum
	}

	for _, name := range sortedKeys(f.Tables) {
		def := f.Tables[name]
		if len(def.Columns) == 0 {
			return nil, &Error{Field: "tables." + name, Message: "table has no columns"}
		}

		table := &Table{Name: name, Columns: make(map[string]Column, len(def.Columns))}
		for _, col := range sortedKeys(def.Columns) {
			t, err := s.lookupType(def.Columns[col])
			if err != nil {
				return nil, &Error{Field: "tables." + name + ".columns." + col, Message: err.Error()}
			}
			table.Columns[col] = Column{Name: col, Type: t}
		}
		s.Tables[name] = table
	}

	return s, nil
}

func (s *Schema) lookupType(name string) (ir.Type, error) {
	if t, ok := builtinTypes[strings.ToLower(name)]; ok {
		return t, nil
	}
	if e, ok := s.Enums[name]; ok {
		return ir.EnumOf(e), nil
	}
	return ir.UnknownType, fmt.Errorf("unknown type %q", name)
}

// Table returns a table by name.
func (s *Schema) Table(name string) (*Table, error) {
	t, ok := s.Tables[name]
	if !ok {
		return nil, fmt.Errorf("unknown table %q (have %s)", name, strings.Join(s.TableNames(), ", "))
	}
	return t, nil
}

// Enum returns an enum by name.
func (s *Schema) Enum(name string) (*ir.EnumType, bool) {
	e, ok := s.Enums[name]
	return e, ok
}

// TableNames returns table names in sorted order.
func (s *Schema) TableNames() []string {
	return sortedKeys(s.Tables)
}

// ColumnType returns the declared type of a column.
func (t *Table) ColumnType(name string) (ir.Type, bool) {
	c, ok := t.Columns[name]
	if !ok {
		return ir.UnknownType, false
	}
	return c.Type, true
}

// ColumnNames returns column names in sorted order.
func (t *Table) ColumnNames() []string {
	return sortedKeys(t.Columns)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/exprsql/internal/ir"
	"github.com/roach88/exprsql/internal/schema"
)

// Error codes for CLI output.
const (
	ErrCodeGeneric    = "E001" // Generic/unknown error
	ErrCodeNotFound   = "E005" // File not found
	ErrCodeSchema     = "E010" // Schema could not be loaded or has no such table
	ErrCodeBatch      = "E011" // Batch file is malformed
	ErrCodeInvalidVar = "E012" // --var is not name=value
	ErrCodeDialect    = "E013" // Unknown --dialect
	ErrCodeParse      = "E020" // Predicate syntax error
	ErrCodeCompile    = "E030" // Predicate cannot be rendered as SQL
	ErrCodeValidation = "E040" // Predicate failed structural validation
	ErrCodeCache      = "E050" // Cache database could not be opened or written
	ErrCodeWatch      = "E060" // File watch failed
)

// LoadError represents an error that occurred while loading command input.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Predicate is one named predicate to compile.
type Predicate struct {
	Name  string `yaml:"name" json:"name"`
	Where string `yaml:"where" json:"where"`
	Table string `yaml:"table,omitempty" json:"table,omitempty"`
}

// Batch is a file of predicates compiled together.
//
//	table: people
//	predicates:
//	  - name: adults
//	    where: x.Age >= 18
type Batch struct {
	Table      string      `yaml:"table"`
	Predicates []Predicate `yaml:"predicates"`
}

// LoadBatch reads a YAML batch file. Unnamed predicates are named by
// position and inherit the batch table.
func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("batch file not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeBatch, Message: fmt.Sprintf("reading batch file: %v", err)}
	}
	return ParseBatch(data)
}

// ParseBatch decodes batch YAML. Unknown keys are rejected.
func ParseBatch(data []byte) (*Batch, error) {
	var b Batch
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&b); err != nil && !errors.Is(err, io.EOF) {
		return nil, &LoadError{Code: ErrCodeBatch, Message: fmt.Sprintf("parsing batch file: %v", err)}
	}
	if len(b.Predicates) == 0 {
		return nil, &LoadError{Code: ErrCodeBatch, Message: "batch file has no predicates"}
	}

	seen := make(map[string]bool, len(b.Predicates))
	for i := range b.Predicates {
		p := &b.Predicates[i]
		if p.Name == "" {
			p.Name = fmt.Sprintf("p%d", i+1)
		}
		if seen[p.Name] {
			return nil, &LoadError{Code: ErrCodeBatch, Message: fmt.Sprintf("duplicate predicate name %q", p.Name)}
		}
		seen[p.Name] = true
		if strings.TrimSpace(p.Where) == "" {
			return nil, &LoadError{Code: ErrCodeBatch, Message: fmt.Sprintf("predicate %q has no where clause", p.Name)}
		}
		if p.Table == "" {
			p.Table = b.Table
		}
	}
	return &b, nil
}

// loadSchema loads the schema file, or returns nil when path is empty.
func loadSchema(path string) (*schema.Schema, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("schema file not found: %s", path)}
	}
	s, err := schema.Load(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeSchema, Message: err.Error()}
	}
	return s, nil
}

// ParseVars converts --var name=value flags into captured values.
// Values use literal syntax (42, 1.5, true, nil, "quoted"); a value
// starting with { or [ is decoded as JSON.
func ParseVars(specs []string) (map[string]ir.IRValue, error) {
	vars := make(map[string]ir.IRValue, len(specs))
	for _, spec := range specs {
		name, raw, ok := strings.Cut(spec, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, &LoadError{Code: ErrCodeInvalidVar, Message: fmt.Sprintf("invalid --var %q: expected name=value", spec)}
		}
		v, err := parseVarValue(raw)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeInvalidVar, Message: fmt.Sprintf("invalid --var %s: %v", name, err)}
		}
		vars[name] = v
	}
	return vars, nil
}

func parseVarValue(raw string) (ir.IRValue, error) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return ir.ParseLiteral(raw), nil
	}

	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return ir.FromAny(v)
}

// loadErrorCode extracts the CLI code from err, defaulting to ErrCodeGeneric.
func loadErrorCode(err error) (string, string) {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message
	}
	return ErrCodeGeneric, err.Error()
}

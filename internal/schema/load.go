package schema

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaDef string

// Load reads a schema file. The format is chosen by extension:
// .yaml and .yml are YAML, .cue is CUE.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}

	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".cue":
		return ParseCUE(data, path)
	default:
		return nil, fmt.Errorf("unsupported schema format %q (want .yaml, .yml or .cue)", ext)
	}
}

// ParseYAML decodes and resolves a YAML schema. Unknown keys are errors.
func ParseYAML(data []byte) (*Schema, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode YAML schema: %w", err)
	}
	return Resolve(f)
}

// ParseCUE compiles a CUE schema, checks it against the closed #Schema
// definition, and resolves it.
func ParseCUE(data []byte, filename string) (*Schema, error) {
	ctx := cuecontext.New()

	def := ctx.CompileString(schemaDef).LookupPath(cue.ParsePath("#Schema"))
	if err := def.Err(); err != nil {
		return nil, fmt.Errorf("schema definition: %w", err)
	}

	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	v = def.Unify(v)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	var f File
	if err := v.Decode(&f); err != nil {
		return nil, formatCUEError(err)
	}
	return Resolve(f)
}

// formatCUEError reports the first CUE error with its position.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := cueerrors.Positions(first)
	if len(positions) > 0 && positions[0].IsValid() {
		pos := positions[0]
		return fmt.Errorf("%s:%d:%d: %s", pos.Filename(), pos.Line(), pos.Column(), first.Error())
	}
	return first
}

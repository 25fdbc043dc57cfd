package store

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// marshalWarnings encodes warnings for the warnings column.
// A nil slice is stored as an empty array.
func marshalWarnings(warnings []string) ([]byte, error) {
	if warnings == nil {
		warnings = []string{}
	}
	b, err := msgpack.Marshal(warnings)
	if err != nil {
		return nil, fmt.Errorf("marshal warnings: %w", err)
	}
	return b, nil
}

// unmarshalWarnings decodes the warnings column.
func unmarshalWarnings(b []byte) ([]string, error) {
	warnings := []string{}
	if len(b) == 0 {
		return warnings, nil
	}
	if err := msgpack.Unmarshal(b, &warnings); err != nil {
		return nil, fmt.Errorf("unmarshal warnings: %w", err)
	}
	if warnings == nil {
		warnings = []string{}
	}
	return warnings, nil
}

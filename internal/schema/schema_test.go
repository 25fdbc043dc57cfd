package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/exprsql/internal/ir"
)

func assertPeople(t *testing.T, s *Schema) {
	t.Helper()

	status, ok := s.Enum("Status")
	require.True(t, ok)
	assert.Equal(t, []ir.EnumMember{
		{Name: "Pending", Value: 0},
		{Name: "Active", Value: 1},
		{Name: "Banned", Value: 2},
	}, status.Members)
	assert.False(t, status.AsInt)

	priority, ok := s.Enum("Priority")
	require.True(t, ok)
	assert.True(t, priority.AsInt)

	people, err := s.Table("people")
	require.NoError(t, err)
	assert.Equal(t, []string{"Age", "Flag", "IsActive", "Name", "Nick", "Priority", "Score", "Status"}, people.ColumnNames())

	typ, ok := people.ColumnType("Age")
	require.True(t, ok)
	assert.Equal(t, ir.IntType, typ)

	typ, ok = people.ColumnType("Score")
	require.True(t, ok)
	assert.Equal(t, ir.FloatType, typ)

	typ, ok = people.ColumnType("Status")
	require.True(t, ok)
	assert.True(t, typ.IsEnum())
	assert.Same(t, status, typ.Enum)

	_, ok = people.ColumnType("Missing")
	assert.False(t, ok)
}

func TestLoad_YAML(t *testing.T) {
	s, err := Load("testdata/people.yaml")
	require.NoError(t, err)
	assertPeople(t, s)
}

func TestLoad_CUE(t *testing.T) {
	s, err := Load("testdata/people.cue")
	require.NoError(t, err)
	assertPeople(t, s)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"missing file", filepath.Join(dir, "nope.yaml"), "failed to read schema"},
		{"unsupported extension", write("s.json", "{}"), "unsupported schema format"},
		{"unknown yaml key", write("k.yaml", "tabels: {}\n"), "field tabels not found"},
		{"unknown column type", write("t.yaml", "tables:\n  p:\n    columns: {A: Color}\n"), `tables.p.columns.A: unknown type "Color"`},
		{"duplicate enum value", write("d.yaml", "enums:\n  E:\n    members: {A: 1, B: 1}\n"), "value 1 already used by A"},
		{"empty enum", write("e.yaml", "enums:\n  E:\n    members: {}\n"), "enums.E: enum has no members"},
		{"shadowing enum", write("b.yaml", "enums:\n  Int:\n    members: {A: 1}\n"), "shadows builtin type"},
		{"empty table", write("p.yaml", "tables:\n  p:\n    columns: {}\n"), "tables.p: table has no columns"},
		{"cue syntax", write("x.cue", "tables: {"), "x.cue"},
		{"cue unknown field", write("u.cue", `tabels: {}`), "tabels"},
		{"cue wrong type", write("w.cue", `tables: p: columns: A: 5`), "w.cue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseYAML_Empty(t *testing.T) {
	s, err := ParseYAML(nil)
	require.NoError(t, err)
	assert.Empty(t, s.Tables)

	_, err = s.Table("people")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown table "people"`)
}

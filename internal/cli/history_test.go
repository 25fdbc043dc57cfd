package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/exprsql/internal/store"
	"github.com/roach88/exprsql/internal/testutil"
)

func seedCache(t *testing.T, entries ...store.Entry) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache.db")
	st, err := store.Open(path, store.WithIDGenerator(testutil.NewSequentialIDGenerator("entry")))
	require.NoError(t, err)
	defer st.Close()

	for _, e := range entries {
		_, _, err := st.Put(context.Background(), e)
		require.NoError(t, err)
	}
	return path
}

func runHistoryCmd(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewHistoryCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestHistory_Table(t *testing.T) {
	cache := seedCache(t,
		store.Entry{Hash: "aaaaaaaaaaaaaaaa", Dialect: "firebird", Table: "people", Source: "x.Age > 5", SQL: "(Age > 5)"},
		store.Entry{Hash: "bbbbbbbbbbbbbbbb", Dialect: "firebird", Table: "people", Source: "x.Flag || x.IsActive", SQL: "(Flag=1 OR IsActive=1)"},
	)

	out, err := runHistoryCmd(t, "text", "--cache", cache)
	require.NoError(t, err)

	assert.Contains(t, out, "Predicate")
	assert.Contains(t, out, "aaaaaaaaaaaa")
	assert.NotContains(t, out, "aaaaaaaaaaaaa")
	assert.Contains(t, out, "(Age > 5)")
	assert.Contains(t, out, "x.Flag")
	assert.Contains(t, out, "IsActive=1")
	assert.Contains(t, out, "2 of 2 cached compilation(s)")
	// Most recent first
	assert.Less(t, bytes.Index([]byte(out), []byte("bbbb")), bytes.Index([]byte(out), []byte("aaaa")))
}

func TestHistory_JSONLimit(t *testing.T) {
	cache := seedCache(t,
		store.Entry{Hash: "h1", Dialect: "firebird", Source: "x.A", SQL: "A=1"},
		store.Entry{Hash: "h2", Dialect: "firebird", Source: "x.B", SQL: "B=1", Warnings: []string{"w"}},
	)

	out, err := runHistoryCmd(t, "json", "--cache", cache, "--limit", "1")
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   HistoryReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 2, resp.Data.Total)
	require.Len(t, resp.Data.Entries, 1)
	assert.Equal(t, "h2", resp.Data.Entries[0].Hash)
	assert.Equal(t, "entry-2", resp.Data.Entries[0].ID)
	assert.Equal(t, []string{"w"}, resp.Data.Entries[0].Warnings)
}

func TestHistory_Empty(t *testing.T) {
	out, err := runHistoryCmd(t, "text", "--cache", filepath.Join(t.TempDir(), "new.db"))
	require.NoError(t, err)
	assert.Contains(t, out, "No cached compilations")
}

func TestHistory_RequiresCache(t *testing.T) {
	_, err := runHistoryCmd(t, "text")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestHistory_UnopenableCache(t *testing.T) {
	out, err := runHistoryCmd(t, "json", "--cache", filepath.Join(t.TempDir(), "missing", "dir", "cache.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, ErrCodeCache, resp.Error.Code)
}

func TestShortHash(t *testing.T) {
	assert.Equal(t, "abc", shortHash("abc"))
	assert.Equal(t, "0123456789ab", shortHash("0123456789abcdef"))
}

func TestEscapePipes(t *testing.T) {
	assert.Equal(t, `x.A \|\| x.B`, escapePipes("x.A || x.B"))
	assert.Equal(t, "x.A && x.B", escapePipes("x.A && x.B"))
}

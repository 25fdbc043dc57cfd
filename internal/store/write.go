package store

import (
	"context"
	"fmt"
)

// Entry is one cached compilation.
type Entry struct {
	ID       string
	Hash     string
	Dialect  string
	Table    string
	Source   string
	SQL      string
	Warnings []string
	Seq      int64
}

// Put stores e unless an entry with the same hash exists.
// ID and Seq are assigned by the store; values set by the caller are
// ignored. Returns the stored entry and whether it was inserted.
//
// Uses ON CONFLICT(hash) DO NOTHING for idempotency.
func (s *Store) Put(ctx context.Context, e Entry) (Entry, bool, error) {
	if e.Hash == "" {
		return Entry{}, false, fmt.Errorf("put: entry hash is required")
	}

	warnings, err := marshalWarnings(e.Warnings)
	if err != nil {
		return Entry{}, false, fmt.Errorf("put: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO compilations
		(id, hash, dialect, tbl, source, sql_text, warnings, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM compilations))
		ON CONFLICT(hash) DO NOTHING
	`,
		s.ids.Generate(),
		e.Hash,
		e.Dialect,
		e.Table,
		e.Source,
		e.SQL,
		warnings,
	)
	if err != nil {
		return Entry{}, false, fmt.Errorf("put: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return Entry{}, false, fmt.Errorf("put: %w", err)
	}

	stored, ok, err := s.Get(ctx, e.Hash)
	if err != nil {
		return Entry{}, false, err
	}
	if !ok {
		return Entry{}, false, fmt.Errorf("put: entry %s missing after insert", e.Hash)
	}
	return stored, n > 0, nil
}

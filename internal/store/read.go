package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const entryColumns = `id, hash, dialect, tbl, source, sql_text, warnings, seq`

// Get returns the entry for a predicate hash.
func (s *Store) Get(ctx context.Context, hash string) (Entry, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+entryColumns+`
		FROM compilations
		WHERE hash = ?
	`, hash)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("get %s: %w", hash, err)
	}
	return e, true, nil
}

// List returns up to limit entries, most recent first.
// A limit of zero or less returns every entry.
//
// Returns an empty slice (not nil) if the cache is empty.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+entryColumns+`
		FROM compilations
		ORDER BY seq DESC, id COLLATE BINARY ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query compilations: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate compilations: %w", err)
	}

	return entries, nil
}

// Count returns the number of cached entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM compilations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count compilations: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (Entry, error) {
	var (
		e        Entry
		warnings []byte
	)
	if err := sc.Scan(&e.ID, &e.Hash, &e.Dialect, &e.Table, &e.Source, &e.SQL, &warnings, &e.Seq); err != nil {
		return Entry{}, err
	}

	w, err := unmarshalWarnings(warnings)
	if err != nil {
		return Entry{}, err
	}
	e.Warnings = w
	return e, nil
}

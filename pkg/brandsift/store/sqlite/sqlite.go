// Package sqlite implements store.Store on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/brandsift/pkg/brandsift/internalerr"
	"github.com/cognicore/brandsift/pkg/brandsift/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite database with WAL mode enabled and initializes the
// schema.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS token_stats (
	token TEXT PRIMARY KEY,
	true_freq INTEGER NOT NULL,
	false_freq INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	mode TEXT NOT NULL,
	records INTEGER NOT NULL,
	tokens INTEGER NOT NULL,
	started_at TEXT NOT NULL
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// UpsertTokenStat inserts or replaces a token's statistics.
func (s *sqliteStore) UpsertTokenStat(ctx context.Context, st store.TokenStat) error {
	const stmt = `
INSERT INTO token_stats (token, true_freq, false_freq)
VALUES (?, ?, ?)
ON CONFLICT(token) DO UPDATE SET
	true_freq=excluded.true_freq,
	false_freq=excluded.false_freq;
`
	_, err := s.db.ExecContext(ctx, stmt, st.Token, st.TrueFreq, st.FalseFreq)
	return err
}

// GetTokenStat returns a token's statistics.
func (s *sqliteStore) GetTokenStat(ctx context.Context, token string) (store.TokenStat, bool, error) {
	const stmt = `SELECT token, true_freq, false_freq FROM token_stats WHERE token=?`
	var st store.TokenStat
	err := s.db.QueryRowContext(ctx, stmt, token).Scan(&st.Token, &st.TrueFreq, &st.FalseFreq)
	if err == sql.ErrNoRows {
		return store.TokenStat{}, false, nil
	}
	if err != nil {
		return store.TokenStat{}, false, err
	}
	return st, true, nil
}

// AllTokenStats returns every token's statistics, sorted by token.
func (s *sqliteStore) AllTokenStats(ctx context.Context) ([]store.TokenStat, error) {
	const stmt = `SELECT token, true_freq, false_freq FROM token_stats ORDER BY token`
	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.TokenStat
	for rows.Next() {
		var st store.TokenStat
		if err := rows.Scan(&st.Token, &st.TrueFreq, &st.FalseFreq); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// RecordRun inserts a run record.
func (s *sqliteStore) RecordRun(ctx context.Context, r store.Run) error {
	const stmt = `INSERT INTO runs (id, mode, records, tokens, started_at) VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, stmt,
		r.ID, r.Mode, r.Records, r.Tokens, r.StartedAt.UTC().Format(time.RFC3339))
	return err
}

// RecentRuns returns the most recent runs, newest first.
func (s *sqliteStore) RecentRuns(ctx context.Context, limit int) ([]store.Run, error) {
	const stmt = `SELECT id, mode, records, tokens, started_at FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, stmt, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Run
	for rows.Next() {
		var r store.Run
		var startedAt string
		if err := rows.Scan(&r.ID, &r.Mode, &r.Records, &r.Tokens, &startedAt); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, startedAt); err == nil {
			r.StartedAt = t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

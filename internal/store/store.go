// Package store implements the device-local persistent store backing the
// customer session: the serialized identity with its auth credential, the
// soft-deleted address tombstones, and bundle-offer dismissals. It is an
// embedded SQLite database; nothing in it is synchronized to the backend.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"
)

// ErrNoSession is returned by Load when no valid session is persisted.
var ErrNoSession = errors.New("no stored session")

const schema = `
CREATE TABLE IF NOT EXISTS session (
	slot       INTEGER PRIMARY KEY CHECK (slot = 1),
	identity   TEXT NOT NULL,
	token      TEXT NOT NULL,
	saved_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS address_tombstones (
	id         TEXT PRIMARY KEY,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS offer_dismissals (
	offer_id     TEXT PRIMARY KEY,
	dismissed_at TEXT NOT NULL
);
`

// Store wraps the SQLite connection pool.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if necessary) the store at the given path.
// Use ":memory:" for tests.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	// A single writer keeps SQLite's locking out of the picture.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Ping verifies the store is reachable. Used as the readiness check.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

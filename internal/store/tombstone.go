package store

import (
	"context"
	"fmt"
	"time"
)

// AddTombstones inserts the given address identities into the append-only
// soft-delete set. Re-inserting an existing identity is a no-op.
func (s *Store) AddTombstones(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tombstone tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, id := range ids {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO address_tombstones (id, created_at) VALUES (?, ?)
			 ON CONFLICT (id) DO NOTHING`,
			id, now,
		); err != nil {
			return fmt.Errorf("store: insert tombstone %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit tombstones: %w", err)
	}
	return nil
}

// ListTombstones returns every soft-deleted address identity.
func (s *Store) ListTombstones(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM address_tombstones`)
	if err != nil {
		return nil, fmt.Errorf("store: list tombstones: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("store: scan tombstone: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate tombstones: %w", err)
	}

	return ids, nil
}

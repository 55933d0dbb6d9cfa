package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wasgeurtjeNL/storefront-session/internal/domain"
	apperrors "github.com/wasgeurtjeNL/storefront-session/pkg/errors"
)

// Save persists the identity and its auth credential together. The write is
// a single upsert, so a reader can never observe an identity without its
// credential or vice versa.
func (s *Store) Save(ctx context.Context, user *domain.User, token string) error {
	if !user.Valid() {
		return apperrors.InvalidInput("refusing to persist identity without id or email")
	}

	blob, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("store: marshal identity: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO session (slot, identity, token, saved_at)
		 VALUES (1, ?, ?, ?)
		 ON CONFLICT (slot) DO UPDATE SET
		   identity = excluded.identity,
		   token    = excluded.token,
		   saved_at = excluded.saved_at`,
		string(blob),
		token,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("store: save session: %w", err)
	}

	return nil
}

// Load returns the persisted identity and credential. If no session is
// stored, or the stored identity fails its structural validity check, it
// returns ErrNoSession; in the corrupt case the store is cleared as a side
// effect so a legacy-shaped record cannot crash subsequent reads.
func (s *Store) Load(ctx context.Context) (*domain.User, string, error) {
	var blob, token string
	err := s.db.QueryRowContext(ctx,
		`SELECT identity, token FROM session WHERE slot = 1`,
	).Scan(&blob, &token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrNoSession
	}
	if err != nil {
		return nil, "", fmt.Errorf("store: load session: %w", err)
	}

	var user domain.User
	if err := json.Unmarshal([]byte(blob), &user); err != nil || !user.Valid() {
		s.logger.WarnContext(ctx, "clearing malformed persisted session",
			slog.Bool("parse_failed", err != nil),
		)
		if clearErr := s.Clear(ctx); clearErr != nil {
			return nil, "", fmt.Errorf("store: clear malformed session: %w", clearErr)
		}
		return nil, "", fmt.Errorf("%w: %w", ErrNoSession, apperrors.ErrCorruptState)
	}

	return &user, token, nil
}

// Clear removes the persisted session.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE slot = 1`); err != nil {
		return fmt.Errorf("store: clear session: %w", err)
	}
	return nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// DismissOffer records a device-local dismissal of a promotional bundle
// offer. Dismissing twice is a no-op.
func (s *Store) DismissOffer(ctx context.Context, offerID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO offer_dismissals (offer_id, dismissed_at) VALUES (?, ?)
		 ON CONFLICT (offer_id) DO NOTHING`,
		offerID, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("store: dismiss offer %s: %w", offerID, err)
	}
	return nil
}

// OfferDismissed reports whether the given offer has been dismissed on this
// device.
func (s *Store) OfferDismissed(ctx context.Context, offerID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM offer_dismissals WHERE offer_id = ?`, offerID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("store: check offer dismissal: %w", err)
	}
	return true, nil
}

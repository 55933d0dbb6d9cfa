package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wasgeurtjeNL/storefront-session/internal/domain"
)

// ProfileUpdate is a partial profile mutation; nil fields are left unchanged.
type ProfileUpdate struct {
	FirstName   *string
	LastName    *string
	DisplayName *string
	Phone       *string
	Newsletter  *bool
	SMSUpdates  *bool
}

// UpdateProfile merges the partial update into the session's user. The
// backend write happens first and the local state is committed only on
// success, so a failed write never leaves the device ahead of the backend.
// Administrative accounts have no customer record and skip the backend write.
//
// A name change propagates to addresses that carried the previous owner
// name: those were derived from the account, not entered per-address.
func (l *Lifecycle) UpdateProfile(ctx context.Context, update ProfileUpdate) (*domain.User, error) {
	current, err := l.currentUser()
	if err != nil {
		return nil, err
	}

	candidate := current.Clone()
	prevFirst, prevLast := candidate.FirstName, candidate.LastName

	if update.FirstName != nil {
		candidate.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		candidate.LastName = *update.LastName
	}
	if update.DisplayName != nil {
		candidate.DisplayName = *update.DisplayName
	}
	if update.Phone != nil {
		candidate.Phone = *update.Phone
	}
	if update.Newsletter != nil {
		candidate.Preferences.Newsletter = *update.Newsletter
	}
	if update.SMSUpdates != nil {
		candidate.Preferences.SMSUpdates = *update.SMSUpdates
	}

	if candidate.FirstName != prevFirst || candidate.LastName != prevLast {
		for i := range candidate.Addresses {
			if candidate.Addresses[i].FirstName == prevFirst && candidate.Addresses[i].LastName == prevLast {
				candidate.Addresses[i].FirstName = candidate.FirstName
				candidate.Addresses[i].LastName = candidate.LastName
			}
		}
	}

	committed, err := l.commit(ctx, candidate)
	if err != nil {
		return nil, err
	}
	l.deps.Logger.InfoContext(ctx, "profile updated", slog.String("user_id", committed.ID))
	return committed, nil
}

// commit writes the candidate user to the backend (for customer accounts),
// then adopts it as session state and persists it locally.
func (l *Lifecycle) commit(ctx context.Context, candidate *domain.User) (*domain.User, error) {
	if !candidate.IsAdmin() {
		if _, err := l.deps.Customers.Update(ctx, candidate); err != nil {
			return nil, fmt.Errorf("update customer: %w", err)
		}
	}

	l.mu.Lock()
	token := l.token
	l.user = candidate
	l.mu.Unlock()

	if err := l.deps.Store.Save(ctx, candidate, token); err != nil {
		l.deps.Logger.WarnContext(ctx, "failed to persist profile update",
			slog.String("error", err.Error()),
		)
	}

	return candidate.Clone(), nil
}

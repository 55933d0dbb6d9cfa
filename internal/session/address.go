package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wasgeurtjeNL/storefront-session/internal/domain"
	"github.com/wasgeurtjeNL/storefront-session/internal/identity"
	apperrors "github.com/wasgeurtjeNL/storefront-session/pkg/errors"
)

// Addresses returns the user's addresses with soft-deleted entries filtered
// out. Every display path goes through this filter.
func (l *Lifecycle) Addresses(ctx context.Context) ([]domain.Address, error) {
	user, err := l.currentUser()
	if err != nil {
		return nil, err
	}
	return l.deps.Registry.Filter(ctx, user.Addresses)
}

// AddAddress appends a new address. An address without a backend id gets its
// content-derived one. The first address of a collection becomes the default.
func (l *Lifecycle) AddAddress(ctx context.Context, addr domain.Address) (*domain.User, error) {
	user, err := l.currentUser()
	if err != nil {
		return nil, err
	}

	if addr.ID == "" {
		addr.ID = identity.ID(addr)
	}
	if len(user.Addresses) == 0 {
		addr.IsDefault = true
	}

	candidate := user.Clone()
	if addr.IsDefault {
		for i := range candidate.Addresses {
			candidate.Addresses[i].IsDefault = false
		}
	}
	candidate.Addresses = append(candidate.Addresses, addr)

	committed, err := l.commit(ctx, candidate)
	if err != nil {
		return nil, err
	}
	l.deps.Logger.InfoContext(ctx, "address added", slog.String("address_id", addr.ID))
	return committed, nil
}

// UpdateAddress replaces the address identified by id. When the old id was
// content-derived, the replacement gets a fresh one so the identity follows
// the content.
func (l *Lifecycle) UpdateAddress(ctx context.Context, id string, addr domain.Address) (*domain.User, error) {
	user, err := l.currentUser()
	if err != nil {
		return nil, err
	}

	candidate := user.Clone()
	idx := findAddress(candidate.Addresses, id)
	if idx < 0 {
		return nil, apperrors.NotFound("address", id)
	}

	old := candidate.Addresses[idx]
	if old.ID == identity.Fingerprint(old) {
		addr.ID = identity.ID(addr)
	} else {
		addr.ID = old.ID
	}
	addr.IsDefault = old.IsDefault
	candidate.Addresses[idx] = addr

	committed, err := l.commit(ctx, candidate)
	if err != nil {
		return nil, err
	}
	l.deps.Logger.InfoContext(ctx, "address updated", slog.String("address_id", addr.ID))
	return committed, nil
}

// DeleteAddress soft-deletes the address identified by id: its identity goes
// into the device-local tombstone set and it is dropped from the session's
// list. The backend record is left in place; the contract is "never show
// this again on this device".
func (l *Lifecycle) DeleteAddress(ctx context.Context, id string) (*domain.User, error) {
	user, err := l.currentUser()
	if err != nil {
		return nil, err
	}

	candidate := user.Clone()
	idx := findAddress(candidate.Addresses, id)
	if idx < 0 {
		return nil, apperrors.NotFound("address", id)
	}

	removed := candidate.Addresses[idx]
	if err := l.deps.Registry.MarkDeleted(ctx, removed); err != nil {
		return nil, fmt.Errorf("mark address deleted: %w", err)
	}

	candidate.Addresses = append(candidate.Addresses[:idx], candidate.Addresses[idx+1:]...)
	if removed.IsDefault && len(candidate.Addresses) > 0 {
		candidate.Addresses[0].IsDefault = true
	}

	l.mu.Lock()
	token := l.token
	l.user = candidate
	l.mu.Unlock()

	// Deletion is device-local: no backend write, only the local store.
	if err := l.deps.Store.Save(ctx, candidate, token); err != nil {
		l.deps.Logger.WarnContext(ctx, "failed to persist address deletion",
			slog.String("error", err.Error()),
		)
	}

	l.deps.Logger.InfoContext(ctx, "address soft-deleted", slog.String("address_id", removed.ID))
	return candidate.Clone(), nil
}

// SetDefaultAddress marks the address identified by id as the default and
// clears the flag everywhere else.
func (l *Lifecycle) SetDefaultAddress(ctx context.Context, id string) (*domain.User, error) {
	user, err := l.currentUser()
	if err != nil {
		return nil, err
	}

	candidate := user.Clone()
	idx := findAddress(candidate.Addresses, id)
	if idx < 0 {
		return nil, apperrors.NotFound("address", id)
	}

	for i := range candidate.Addresses {
		candidate.Addresses[i].IsDefault = i == idx
	}

	committed, err := l.commit(ctx, candidate)
	if err != nil {
		return nil, err
	}
	l.deps.Logger.InfoContext(ctx, "default address changed", slog.String("address_id", id))
	return committed, nil
}

// findAddress matches by stored id or by the content-derived identity, so
// both id shapes refer to the same logical address.
func findAddress(addrs []domain.Address, id string) int {
	for i, a := range addrs {
		if a.ID == id || identity.Fingerprint(a) == id {
			return i
		}
	}
	return -1
}

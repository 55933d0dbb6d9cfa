package identity

import (
	"context"
	"fmt"

	"github.com/wasgeurtjeNL/storefront-session/internal/domain"
)

// TombstoneStore persists the append-only set of soft-deleted address
// identities, independent of the address list itself.
type TombstoneStore interface {
	AddTombstones(ctx context.Context, ids ...string) error
	ListTombstones(ctx context.Context) ([]string, error)
}

// Registry is the soft-delete registry for saved addresses. Marking an
// address deleted suppresses it from every list on this device; the backend
// record may still exist. The registry is deliberately device-local: it makes
// no claim about deleting anything on the backend.
type Registry struct {
	store TombstoneStore
}

// NewRegistry creates a registry backed by the given tombstone store.
func NewRegistry(store TombstoneStore) *Registry {
	return &Registry{store: store}
}

// MarkDeleted records both identity forms of the address: the content
// fingerprint always, and the backend-assigned id when present. Inserting
// both guards against a later fetch exposing the same logical address under
// a different id shape.
func (r *Registry) MarkDeleted(ctx context.Context, a domain.Address) error {
	ids := []string{Fingerprint(a)}
	if a.ID != "" && a.ID != ids[0] {
		ids = append(ids, a.ID)
	}
	if err := r.store.AddTombstones(ctx, ids...); err != nil {
		return fmt.Errorf("mark address deleted: %w", err)
	}
	return nil
}

// IsDeleted reports whether either identity form of the address is
// tombstoned.
func (r *Registry) IsDeleted(ctx context.Context, a domain.Address) (bool, error) {
	set, err := r.tombstones(ctx)
	if err != nil {
		return false, err
	}
	return deleted(set, a), nil
}

// Filter returns the addresses that are not tombstoned, preserving order.
// This is the only path by which an address list reaches a consumer.
func (r *Registry) Filter(ctx context.Context, addrs []domain.Address) ([]domain.Address, error) {
	set, err := r.tombstones(ctx)
	if err != nil {
		return nil, err
	}

	kept := make([]domain.Address, 0, len(addrs))
	for _, a := range addrs {
		if !deleted(set, a) {
			kept = append(kept, a)
		}
	}
	return kept, nil
}

func (r *Registry) tombstones(ctx context.Context) (map[string]struct{}, error) {
	ids, err := r.store.ListTombstones(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tombstones: %w", err)
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func deleted(set map[string]struct{}, a domain.Address) bool {
	if _, ok := set[Fingerprint(a)]; ok {
		return true
	}
	if a.ID != "" {
		if _, ok := set[a.ID]; ok {
			return true
		}
	}
	return false
}

// Package cache implements the keyed, TTL-bounded fetch cache with in-flight
// deduplication used for orders, loyalty balances, and offer dismissals.
//
// Each key moves through Absent -> Fetching -> Fresh -> Stale -> Fetching.
// Concurrent callers for a key that is already Fetching join the in-flight
// call and observe the same resolved value; failures are never cached.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL is the maximum age a cached value may have before it is treated
// as absent.
const DefaultTTL = 300 * time.Second

type entry[T any] struct {
	value     T
	fetchedAt time.Time
}

// Cache is a keyed fetch cache. The zero value is not usable; create one
// with New.
type Cache[T any] struct {
	name string
	ttl  time.Duration

	// mu guards entries and gens. The check-and-transition from Absent or
	// Stale to Fetching must be a single atomic step with no intervening
	// suspension; the lock is held across it.
	mu      sync.Mutex
	entries map[string]entry[T]
	gens    map[string]uint64

	group singleflight.Group

	// now is replaceable in tests.
	now func() time.Time
}

// New creates a named cache with the given TTL. The name labels the cache's
// metrics. A non-positive ttl falls back to DefaultTTL.
func New[T any](name string, ttl time.Duration) *Cache[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache[T]{
		name:    name,
		ttl:     ttl,
		entries: make(map[string]entry[T]),
		gens:    make(map[string]uint64),
		now:     time.Now,
	}
}

// Get returns the cached value for key, or runs fetch to populate it. All
// callers that arrive while a fetch for the same key is in flight share that
// one call and its result; no second request is issued. A fetch error is
// returned to every joined caller and nothing is cached, so the next Get
// retries.
//
// The fetch runs detached from the first caller's cancellation: a completed
// fetch must reach every joined caller and the cache even when the caller
// that started it has gone away.
func (c *Cache[T]) Get(ctx context.Context, key string, fetch func(ctx context.Context) (T, error)) (T, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.now().Sub(e.fetchedAt) < c.ttl {
		c.mu.Unlock()
		hitsTotal.WithLabelValues(c.name).Inc()
		return e.value, nil
	}
	c.mu.Unlock()
	missesTotal.WithLabelValues(c.name).Inc()

	fetchCtx := context.WithoutCancel(ctx)
	v, err, shared := c.group.Do(key, func() (any, error) {
		// A caller that lost the race to a fetch that just completed takes
		// the fresh value instead of refetching.
		c.mu.Lock()
		if e, ok := c.entries[key]; ok && c.now().Sub(e.fetchedAt) < c.ttl {
			c.mu.Unlock()
			return e.value, nil
		}
		gen := c.gens[key]
		c.mu.Unlock()

		val, err := fetch(fetchCtx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		// An Invalidate issued while the fetch was in flight wins: the
		// result is returned to callers but not cached.
		if c.gens[key] == gen {
			c.entries[key] = entry[T]{value: val, fetchedAt: c.now()}
		}
		c.mu.Unlock()
		return val, nil
	})
	if shared {
		joinsTotal.WithLabelValues(c.name).Inc()
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Invalidate forces the next Get for key to refetch regardless of TTL. Used
// after a mutation that changes the underlying resource.
func (c *Cache[T]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.gens[key]++
	c.mu.Unlock()
	c.group.Forget(key)
}

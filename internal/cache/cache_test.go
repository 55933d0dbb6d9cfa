package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFetchesOnFirstCall(t *testing.T) {
	c := New[string]("test", time.Minute)

	got, err := c.Get(context.Background(), "k", func(ctx context.Context) (string, error) {
		return "value", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "value", got)
}

func TestGetReturnsCachedValueWithinTTL(t *testing.T) {
	c := New[string]("test", time.Minute)
	calls := 0
	fetch := func(ctx context.Context) (string, error) {
		calls++
		return "value", nil
	}

	_, err := c.Get(context.Background(), "k", fetch)
	require.NoError(t, err)
	got, err := c.Get(context.Background(), "k", fetch)
	require.NoError(t, err)

	assert.Equal(t, "value", got)
	assert.Equal(t, 1, calls)
}

func TestGetRefetchesPastTTL(t *testing.T) {
	c := New[int]("test", 300*time.Second)
	base := time.Now()
	c.now = func() time.Time { return base }

	calls := 0
	fetch := func(ctx context.Context) (int, error) {
		calls++
		return calls, nil
	}

	got, err := c.Get(context.Background(), "k", fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	// Just under the TTL the entry is still fresh.
	c.now = func() time.Time { return base.Add(300*time.Second - time.Millisecond) }
	got, err = c.Get(context.Background(), "k", fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
	assert.Equal(t, 1, calls)

	// Past the TTL the entry is treated as absent.
	c.now = func() time.Time { return base.Add(300*time.Second + time.Millisecond) }
	got, err = c.Get(context.Background(), "k", fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, got)
	assert.Equal(t, 2, calls)
}

func TestConcurrentGetsShareOneFetch(t *testing.T) {
	c := New[string]("test", time.Minute)

	var fetches int32
	release := make(chan struct{})
	fetch := func(ctx context.Context) (string, error) {
		atomic.AddInt32(&fetches, 1)
		<-release
		return "shared", nil
	}

	const callers = 8
	results := make([]string, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.Get(context.Background(), "k", fetch)
		}(i)
	}

	// Let every goroutine reach the in-flight call before it resolves.
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&fetches) == 1
	}, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&fetches))
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "shared", results[i])
	}
}

func TestAbandonedCallerDoesNotAbortSharedFetch(t *testing.T) {
	c := New[string]("test", time.Minute)

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	var fetchErr error
	fetch := func(ctx context.Context) (string, error) {
		once.Do(func() { close(started) })
		<-release
		fetchErr = ctx.Err()
		return "shared", nil
	}

	// The first caller starts the fetch and abandons it mid-flight.
	firstCtx, abandon := context.WithCancel(context.Background())
	go func() {
		_, _ = c.Get(firstCtx, "k", fetch)
	}()
	<-started

	// A second caller joins the in-flight fetch with a live context.
	var got string
	var err error
	done := make(chan struct{})
	go func() {
		defer close(done)
		got, err = c.Get(context.Background(), "k", fetch)
	}()

	abandon()
	close(release)
	<-done

	// The fetch ran detached from the abandoned caller to completion, and
	// the joined caller received its value.
	require.NoError(t, err)
	assert.Equal(t, "shared", got)
	assert.NoError(t, fetchErr)

	// The completed fetch was cached despite the abandonment.
	cached, err := c.Get(context.Background(), "k", func(ctx context.Context) (string, error) {
		return "refetched", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "shared", cached)
}

func TestFetchFailureIsNotCached(t *testing.T) {
	c := New[string]("test", time.Minute)
	calls := 0

	_, err := c.Get(context.Background(), "k", func(ctx context.Context) (string, error) {
		calls++
		return "", errors.New("backend down")
	})
	require.Error(t, err)

	got, err := c.Get(context.Background(), "k", func(ctx context.Context) (string, error) {
		calls++
		return "recovered", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "recovered", got)
	assert.Equal(t, 2, calls)
}

func TestInvalidateForcesRefetch(t *testing.T) {
	c := New[int]("test", time.Minute)
	calls := 0
	fetch := func(ctx context.Context) (int, error) {
		calls++
		return calls, nil
	}

	_, err := c.Get(context.Background(), "k", fetch)
	require.NoError(t, err)

	c.Invalidate("k")

	got, err := c.Get(context.Background(), "k", fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, got)
}

func TestInvalidateDuringFlightDiscardsResult(t *testing.T) {
	c := New[string]("test", time.Minute)

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	done := make(chan struct{})
	var got string
	go func() {
		defer close(done)
		got, _ = c.Get(context.Background(), "k", func(ctx context.Context) (string, error) {
			once.Do(func() { close(started) })
			<-release
			return "stale", nil
		})
	}()

	<-started
	c.Invalidate("k")
	close(release)
	<-done

	// The in-flight caller still gets its value.
	assert.Equal(t, "stale", got)

	// But the value was not cached: the next read fetches again.
	fresh, err := c.Get(context.Background(), "k", func(ctx context.Context) (string, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", fresh)
}

func TestKeysAreIndependent(t *testing.T) {
	c := New[string]("test", time.Minute)

	a, err := c.Get(context.Background(), "a", func(ctx context.Context) (string, error) {
		return "alpha", nil
	})
	require.NoError(t, err)
	b, err := c.Get(context.Background(), "b", func(ctx context.Context) (string, error) {
		return "beta", nil
	})
	require.NoError(t, err)

	assert.Equal(t, "alpha", a)
	assert.Equal(t, "beta", b)
}

//go:build unit

package cache_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"storefront/internal/cache"
	"storefront/internal/pkg/clock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*cache.Manager, *cache.MemoryStore, *clock.MockClock) {
	t.Helper()
	clk := clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	store := cache.NewMemoryStore(clk)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return cache.NewManager(store, clk, logger), store, clk
}

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestManagerPutGet(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()
	key := cache.CategoryListKey()

	var miss payload
	assert.False(t, m.Get(ctx, key, &miss))

	m.Put(ctx, key, payload{Name: "electronics", Count: 3})

	var hit payload
	require.True(t, m.Get(ctx, key, &hit))
	assert.Equal(t, "electronics", hit.Name)
	assert.Equal(t, 3, hit.Count)
}

func TestManagerTTLExpiry(t *testing.T) {
	m, _, clk := newTestManager(t)
	ctx := context.Background()

	// categories sits in the long tier (1h); search in the short tier (5m).
	m.Put(ctx, "categories:list", payload{Name: "long"})
	m.Put(ctx, "search:widgets:page_1", payload{Name: "short"})

	clk.Add(5*time.Minute + time.Second)

	var v payload
	assert.True(t, m.Get(ctx, "categories:list", &v))
	assert.False(t, m.Get(ctx, "search:widgets:page_1", &v))

	clk.Add(time.Hour)
	assert.False(t, m.Get(ctx, "categories:list", &v))
}

func TestManagerInvalidateExactAndPattern(t *testing.T) {
	m, store, _ := newTestManager(t)
	ctx := context.Background()

	m.Put(ctx, "products:list:page_1", payload{})
	m.Put(ctx, "products:list:page_2", payload{})
	m.Put(ctx, "categories:list", payload{})

	m.Invalidate(ctx, "products:*")

	var v payload
	assert.False(t, m.Get(ctx, "products:list:page_1", &v))
	assert.False(t, m.Get(ctx, "products:list:page_2", &v))
	assert.True(t, m.Get(ctx, "categories:list", &v))

	m.Invalidate(ctx, "categories:list")
	assert.False(t, m.Get(ctx, "categories:list", &v))

	// Invalidating an absent key is a no-op, not an error.
	m.Invalidate(ctx, "categories:list")
	assert.Equal(t, 0, store.Len())
}

func TestManagerGetOrLoadCachesResult(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()
	key := cache.CategoryListKey()

	calls := 0
	load := func(context.Context) (any, error) {
		calls++
		return payload{Name: "loaded", Count: calls}, nil
	}

	var first payload
	require.NoError(t, m.GetOrLoad(ctx, key, &first, load))
	assert.Equal(t, 1, first.Count)

	var second payload
	require.NoError(t, m.GetOrLoad(ctx, key, &second, load))
	assert.Equal(t, 1, second.Count)
	assert.Equal(t, 1, calls)
}

func TestManagerGetOrLoadPropagatesLoadError(t *testing.T) {
	m, store, _ := newTestManager(t)
	ctx := context.Background()

	sentinel := errors.New("source down")
	var v payload
	err := m.GetOrLoad(ctx, "categories:list", &v, func(context.Context) (any, error) {
		return nil, sentinel
	})
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 0, store.Len())
}

// A write that lands between a load's read and its put must win: the loaded
// value reflects pre-write state and is dropped instead of stored.
func TestManagerInvalidationBeatsStalePut(t *testing.T) {
	m, store, _ := newTestManager(t)
	ctx := context.Background()
	key := cache.ProductDetailKey(uuid.New())

	m.Invalidate(ctx, key)

	calls := 0
	load := func(context.Context) (any, error) {
		calls++
		return payload{Name: "stale"}, nil
	}

	var v payload
	require.NoError(t, m.GetOrLoad(ctx, key, &v, load))
	assert.Equal(t, "stale", v.Name)
	assert.Equal(t, 0, store.Len(), "value loaded at the invalidation instant must not be stored")

	// The next read goes back to the loader.
	require.NoError(t, m.GetOrLoad(ctx, key, &v, load))
	assert.Equal(t, 2, calls)
}

func TestManagerCoalescesConcurrentLoads(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()
	key := cache.CategoryListKey()

	gate := make(chan struct{})
	var calls atomic.Int32
	load := func(context.Context) (any, error) {
		calls.Add(1)
		<-gate
		return payload{Name: "shared"}, nil
	}

	const workers = 16
	var wg sync.WaitGroup
	results := make([]payload, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = m.GetOrLoad(ctx, key, &results[i], load)
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(gate)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for i := range results {
		assert.Equal(t, "shared", results[i].Name)
	}
}

// brokenStore fails every operation, standing in for an unreachable redis.
type brokenStore struct{}

func (brokenStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}
func (brokenStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}
func (brokenStore) Delete(context.Context, ...string) error {
	return errors.New("connection refused")
}
func (brokenStore) DeletePattern(context.Context, string) (int, error) {
	return 0, errors.New("connection refused")
}

func TestManagerDegradesToMissOnStoreFailure(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := cache.NewManager(brokenStore{}, clk, logger)
	ctx := context.Background()

	var v payload
	assert.False(t, m.Get(ctx, "categories:list", &v))

	// Reads still succeed through the loader; Put and Invalidate are
	// swallowed.
	require.NoError(t, m.GetOrLoad(ctx, "categories:list", &v, func(context.Context) (any, error) {
		return payload{Name: "from-source"}, nil
	}))
	assert.Equal(t, "from-source", v.Name)

	m.Put(ctx, "categories:list", payload{})
	m.Invalidate(ctx, "categories:*")
}

//go:build unit

package queries_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"storefront/internal/cache"
	"storefront/internal/infra"
	"storefront/internal/pkg/clock"
	"storefront/internal/pkg/errs"
	"storefront/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// countingCatalogStore records how often each read hits the backing store so
// tests can tell a cache hit from a reload.
type countingCatalogStore struct {
	mu           sync.Mutex
	products     map[uuid.UUID]queries.ProductView
	productCalls int
	listCalls    int
}

func newCountingCatalogStore() *countingCatalogStore {
	return &countingCatalogStore{products: make(map[uuid.UUID]queries.ProductView)}
}

func (s *countingCatalogStore) put(v queries.ProductView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[v.ID] = v
}

func (s *countingCatalogStore) ProductByID(_ context.Context, id uuid.UUID) (*queries.ProductView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.productCalls++
	v, ok := s.products[id]
	if !ok {
		return nil, infra.WrapRepoErr("product not found", nil, infra.KindNotFound)
	}
	return &v, nil
}

func (s *countingCatalogStore) ProductList(context.Context, queries.ProductFilter) ([]queries.ProductView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	out := make([]queries.ProductView, 0, len(s.products))
	for _, v := range s.products {
		out = append(out, v)
	}
	return out, nil
}

func (s *countingCatalogStore) CategoryList(context.Context) ([]queries.CategoryView, error) {
	return nil, nil
}

func (s *countingCatalogStore) calls() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.productCalls, s.listCalls
}

func newCatalogFixture(t *testing.T) (queries.CatalogQueries, *countingCatalogStore, *cache.Manager, *clock.MockClock) {
	t.Helper()
	clk := clock.NewMockClock(testNow)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager := cache.NewManager(cache.NewMemoryStore(clk), clk, logger)
	store := newCountingCatalogStore()
	return queries.NewCatalogQueries(store, manager), store, manager, clk
}

func productView(name string, stock int) queries.ProductView {
	return queries.ProductView{
		ID:         uuid.New(),
		Name:       name,
		PriceCents: 4999,
		Stock:      stock,
		InStock:    stock > 0,
		CreatedAt:  testNow,
		UpdatedAt:  testNow,
	}
}

func TestGetProductCachesResult(t *testing.T) {
	ctx := context.Background()
	q, store, _, _ := newCatalogFixture(t)

	p := productView("Keyboard", 10)
	store.put(p)

	first, err := q.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Keyboard", first.Name)

	second, err := q.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	calls, _ := store.calls()
	assert.Equal(t, 1, calls, "second read must come from cache")
}

func TestGetProductUnknownIsNotCached(t *testing.T) {
	ctx := context.Background()
	q, store, _, _ := newCatalogFixture(t)

	id := uuid.New()
	_, err := q.GetProduct(ctx, id)
	assert.ErrorIs(t, err, errs.ErrProductNotFound)

	// A later read must go back to the store, not replay the miss.
	store.put(queries.ProductView{ID: id, Name: "Late arrival", InStock: true})
	view, err := q.GetProduct(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Late arrival", view.Name)
}

func TestInvalidationForcesReload(t *testing.T) {
	ctx := context.Background()
	q, store, manager, _ := newCatalogFixture(t)

	p := productView("Keyboard", 10)
	store.put(p)

	_, err := q.GetProduct(ctx, p.ID)
	require.NoError(t, err)

	p.Name = "Mechanical Keyboard"
	store.put(p)
	manager.Invalidate(ctx, cache.ProductWritePatterns(p.ID)...)

	view, err := q.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mechanical Keyboard", view.Name)

	calls, _ := store.calls()
	assert.Equal(t, 2, calls)
}

func TestProductListServedFromCacheUntilExpiry(t *testing.T) {
	ctx := context.Background()
	q, store, _, clk := newCatalogFixture(t)

	store.put(productView("Keyboard", 10))
	store.put(productView("Mouse", 5))

	first, err := q.ListProducts(ctx, queries.ProductFilter{Page: 1})
	require.NoError(t, err)
	assert.Len(t, first, 2)

	_, err = q.ListProducts(ctx, queries.ProductFilter{Page: 1})
	require.NoError(t, err)

	_, listCalls := store.calls()
	assert.Equal(t, 1, listCalls)

	// Listings live in the medium tier; past its TTL the next read reloads.
	clk.Add(cache.TierMedium.TTL() + time.Second)
	_, err = q.ListProducts(ctx, queries.ProductFilter{Page: 1})
	require.NoError(t, err)

	_, listCalls = store.calls()
	assert.Equal(t, 2, listCalls)
}

func TestSearchAndListUseDistinctKeys(t *testing.T) {
	ctx := context.Background()
	q, store, _, _ := newCatalogFixture(t)

	store.put(productView("Keyboard", 10))

	_, err := q.ListProducts(ctx, queries.ProductFilter{Page: 1})
	require.NoError(t, err)
	_, err = q.ListProducts(ctx, queries.ProductFilter{Page: 1, Query: "key"})
	require.NoError(t, err)

	_, listCalls := store.calls()
	assert.Equal(t, 2, listCalls, "search must not share the plain listing's cache entry")
}

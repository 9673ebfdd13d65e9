//go:build integration

package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"storefront/internal/inventory"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProduct(t *testing.T, pool *pgxpool.Pool, name string, priceCents int64, stock int) uuid.UUID {
	t.Helper()
	id := uuid.New()
	now := time.Now().UTC()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO products (id, name, price_cents, stock, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $5)`,
		id, name, priceCents, stock, now,
	)
	require.NoError(t, err, "failed to seed product")
	return id
}

func TestPostgresLedgerReserveAndRelease(t *testing.T) {
	ctx := context.Background()
	pool := newTestPool(t)
	ledger := inventory.NewPostgresLedger(pool, inventory.NopInvalidator{})

	productID := seedProduct(t, pool, "Keyboard", 4999, 10)

	require.NoError(t, ledger.Reserve(ctx, productID, 3))
	stock, err := ledger.Stock(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 7, stock)

	require.NoError(t, ledger.Release(ctx, productID, 3))
	stock, err = ledger.Stock(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 10, stock)
}

func TestPostgresLedgerInsufficientStock(t *testing.T) {
	ctx := context.Background()
	pool := newTestPool(t)
	ledger := inventory.NewPostgresLedger(pool, inventory.NopInvalidator{})

	productID := seedProduct(t, pool, "Scarce", 100, 2)

	err := ledger.Reserve(ctx, productID, 3)
	assert.ErrorIs(t, err, inventory.ErrInsufficientStock)

	stock, err := ledger.Stock(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 2, stock, "failed reservation must leave stock untouched")
}

func TestPostgresLedgerUnknownProduct(t *testing.T) {
	ctx := context.Background()
	pool := newTestPool(t)
	ledger := inventory.NewPostgresLedger(pool, inventory.NopInvalidator{})

	assert.ErrorIs(t, ledger.Reserve(ctx, uuid.New(), 1), inventory.ErrProductNotFound)
	assert.ErrorIs(t, ledger.Release(ctx, uuid.New(), 1), inventory.ErrProductNotFound)
	_, err := ledger.Stock(ctx, uuid.New())
	assert.ErrorIs(t, err, inventory.ErrProductNotFound)
}

func TestPostgresLedgerSetStock(t *testing.T) {
	ctx := context.Background()
	pool := newTestPool(t)
	ledger := inventory.NewPostgresLedger(pool, inventory.NopInvalidator{})

	productID := seedProduct(t, pool, "Adjustable", 100, 1)

	require.NoError(t, ledger.SetStock(ctx, productID, 50))
	stock, err := ledger.Stock(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 50, stock)

	assert.ErrorIs(t, ledger.SetStock(ctx, productID, -1), inventory.ErrInvalidQuantity)
}

// Concurrent reservations against one row must serialize in the database;
// exactly stock-many succeed and the counter never goes negative.
func TestPostgresLedgerConcurrentReserves(t *testing.T) {
	ctx := context.Background()
	pool := newTestPool(t)
	ledger := inventory.NewPostgresLedger(pool, inventory.NopInvalidator{})

	const initial = 5
	const attempts = 20
	productID := seedProduct(t, pool, "Contended", 100, initial)

	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- ledger.Reserve(ctx, productID, 1)
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, inventory.ErrInsufficientStock)
		}
	}
	assert.Equal(t, initial, succeeded)

	stock, err := ledger.Stock(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 0, stock)
}

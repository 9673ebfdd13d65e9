//go:build unit

package inventory_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"storefront/internal/inventory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLedger(t *testing.T, productID uuid.UUID, stock int) *inventory.MemoryLedger {
	t.Helper()
	l := inventory.NewMemoryLedger(inventory.NopInvalidator{})
	require.NoError(t, l.SetStock(context.Background(), productID, stock))
	return l
}

func TestLedgerReserveRelease(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()
	l := newLedger(t, productID, 10)

	require.NoError(t, l.Reserve(ctx, productID, 4))
	stock, err := l.Stock(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 6, stock)

	require.NoError(t, l.Release(ctx, productID, 4))
	stock, err = l.Stock(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 10, stock)
}

func TestLedgerReserveFailsBeyondStock(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()
	l := newLedger(t, productID, 3)

	assert.ErrorIs(t, l.Reserve(ctx, productID, 4), inventory.ErrInsufficientStock)

	// The failed reservation must not have consumed anything.
	stock, err := l.Stock(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 3, stock)

	require.NoError(t, l.Reserve(ctx, productID, 3))
	assert.ErrorIs(t, l.Reserve(ctx, productID, 1), inventory.ErrInsufficientStock)
}

func TestLedgerValidation(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()
	l := newLedger(t, productID, 5)

	assert.ErrorIs(t, l.Reserve(ctx, productID, 0), inventory.ErrInvalidQuantity)
	assert.ErrorIs(t, l.Reserve(ctx, productID, -1), inventory.ErrInvalidQuantity)
	assert.ErrorIs(t, l.Release(ctx, productID, 0), inventory.ErrInvalidQuantity)
	assert.ErrorIs(t, l.SetStock(ctx, productID, -1), inventory.ErrInvalidQuantity)

	unknown := uuid.New()
	assert.ErrorIs(t, l.Reserve(ctx, unknown, 1), inventory.ErrProductNotFound)
	assert.ErrorIs(t, l.Release(ctx, unknown, 1), inventory.ErrProductNotFound)
	_, err := l.Stock(ctx, unknown)
	assert.ErrorIs(t, err, inventory.ErrProductNotFound)
}

// Hammer one product from many goroutines: successful reservations must
// never exceed the initial stock, and the final counter must account for
// exactly the successes.
func TestLedgerConcurrentReservations(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()
	const initial = 50
	l := newLedger(t, productID, initial)

	const workers = 100
	var successes atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.Reserve(ctx, productID, 1); err == nil {
				successes.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(initial), successes.Load())
	stock, err := l.Stock(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 0, stock)
}

func TestLedgerRemove(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()
	l := newLedger(t, productID, 5)

	l.Remove(productID)
	_, err := l.Stock(ctx, productID)
	assert.ErrorIs(t, err, inventory.ErrProductNotFound)
}

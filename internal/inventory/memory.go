package inventory

import (
	"context"
	"sync"

	"storefront/internal/cache"

	"github.com/google/uuid"
)

// MemoryLedger keeps counters in process memory. A single mutex serializes
// all mutations, which trivially satisfies per-product linearizability; the
// hot path is a map update, so contention is not a concern at this scale.
type MemoryLedger struct {
	mu          sync.Mutex
	stock       map[uuid.UUID]int
	invalidator Invalidator
}

func NewMemoryLedger(invalidator Invalidator) *MemoryLedger {
	return &MemoryLedger{
		stock:       make(map[uuid.UUID]int),
		invalidator: invalidator,
	}
}

// SetStock seeds or overwrites a counter. Used when a product is created or
// an admin adjusts stock directly; negative targets are rejected so the
// ledger invariant holds even for admin writes.
func (l *MemoryLedger) SetStock(ctx context.Context, productID uuid.UUID, qty int) error {
	if qty < 0 {
		return ErrInvalidQuantity
	}

	l.mu.Lock()
	l.stock[productID] = qty
	l.mu.Unlock()

	l.invalidator.Invalidate(ctx, cache.StockPatterns(productID)...)
	return nil
}

// Remove drops a counter when its product is deleted.
func (l *MemoryLedger) Remove(productID uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.stock, productID)
}

func (l *MemoryLedger) Reserve(ctx context.Context, productID uuid.UUID, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}

	l.mu.Lock()
	current, ok := l.stock[productID]
	if !ok {
		l.mu.Unlock()
		return ErrProductNotFound
	}
	if current < qty {
		l.mu.Unlock()
		return ErrInsufficientStock
	}
	l.stock[productID] = current - qty
	l.mu.Unlock()

	l.invalidator.Invalidate(ctx, cache.StockPatterns(productID)...)
	return nil
}

func (l *MemoryLedger) Release(ctx context.Context, productID uuid.UUID, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}

	l.mu.Lock()
	current, ok := l.stock[productID]
	if !ok {
		l.mu.Unlock()
		return ErrProductNotFound
	}
	l.stock[productID] = current + qty
	l.mu.Unlock()

	l.invalidator.Invalidate(ctx, cache.StockPatterns(productID)...)
	return nil
}

func (l *MemoryLedger) Stock(_ context.Context, productID uuid.UUID) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	current, ok := l.stock[productID]
	if !ok {
		return 0, ErrProductNotFound
	}
	return current, nil
}

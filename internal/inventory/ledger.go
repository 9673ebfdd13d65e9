package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrProductNotFound   = errors.New("product not found")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
)

// Ledger holds the authoritative stock counters. Reserve and Release are
// linearizable per product: two reservations whose combined quantity exceeds
// the available stock never both succeed. Callers never check stock
// themselves; the ledger is the only writer.
type Ledger interface {
	// Reserve atomically checks stock >= qty and decrements.
	Reserve(ctx context.Context, productID uuid.UUID, qty int) error
	// Release atomically returns previously reserved stock.
	Release(ctx context.Context, productID uuid.UUID, qty int) error
	// Stock reads the current counter.
	Stock(ctx context.Context, productID uuid.UUID) (int, error)
}

// Invalidator receives the cache patterns affected by a stock mutation.
// Implemented by the cache manager; failures are absorbed there.
type Invalidator interface {
	Invalidate(ctx context.Context, patterns ...string)
}

// NopInvalidator is for wiring ledgers without a cache (tests, tooling).
type NopInvalidator struct{}

func (NopInvalidator) Invalidate(context.Context, ...string) {}

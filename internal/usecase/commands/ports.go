package commands

import (
	"context"

	"storefront/internal/domain/cart"
	"storefront/internal/domain/catalog"
	"storefront/internal/domain/order"
	"storefront/internal/events"

	"github.com/google/uuid"
)

type ProductRepository interface {
	Create(ctx context.Context, p *catalog.Product) error
	Update(ctx context.Context, p *catalog.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, c *catalog.Category) error
	Update(ctx context.Context, c *catalog.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error)
}

type CartRepository interface {
	// Get returns the user's cart, empty if none exists yet.
	Get(ctx context.Context, userID uuid.UUID) (*cart.Cart, error)
	Save(ctx context.Context, c *cart.Cart) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type OrderRepository interface {
	NextSequence(ctx context.Context) (int64, error)
	Create(ctx context.Context, o *order.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error)
	// UpdateStatus persists the order's current status, transition
	// timestamps and the appended history record.
	UpdateStatus(ctx context.Context, o *order.Order, change order.StatusChange) error
}

// StockWriter is the admin-write slice of the inventory ledger.
type StockWriter interface {
	SetStock(ctx context.Context, productID uuid.UUID, qty int) error
}

// Publisher is the dispatch side of the event fan-out. Implementations must
// not block and must absorb delivery failures.
type Publisher interface {
	Publish(ctx context.Context, ev events.Event)
}

// CacheInvalidator is the write-path slice of the cache manager. Calls are
// best-effort; the system of record has already committed when they run.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, patterns ...string)
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"storefront/internal/cache"
	"storefront/internal/domain/cart"
	"storefront/internal/domain/order"
	"storefront/internal/events"
	"storefront/internal/infra"
	"storefront/internal/inventory"
	"storefront/internal/pkg/clock"
	"storefront/internal/pkg/errs"
	"storefront/internal/usecase/queries"

	"github.com/google/uuid"
)

type OrderCommands interface {
	Checkout(ctx context.Context, userID uuid.UUID) (*queries.OrderView, error)
	Transition(ctx context.Context, orderID uuid.UUID, to order.Status, actor string) (*queries.OrderView, error)
}

type orderCommandsImpl struct {
	orders    OrderRepository
	carts     CartRepository
	products  ProductRepository
	ledger    inventory.Ledger
	publisher Publisher
	cache     CacheInvalidator
	clock     clock.Clock
	logger    *slog.Logger
}

func NewOrderCommands(
	orders OrderRepository,
	carts CartRepository,
	products ProductRepository,
	ledger inventory.Ledger,
	publisher Publisher,
	cacheInvalidator CacheInvalidator,
	clk clock.Clock,
	logger *slog.Logger,
) OrderCommands {
	return &orderCommandsImpl{
		orders:    orders,
		carts:     carts,
		products:  products,
		ledger:    ledger,
		publisher: publisher,
		cache:     cacheInvalidator,
		clock:     clk,
		logger:    logger,
	}
}

// Checkout turns the user's cart into a pending order. Stock is reserved
// line by line in product-ID order so two overlapping checkouts acquire
// rows in the same sequence; on any failure every reservation made so far
// is rolled back and the cart is left untouched.
func (c *orderCommandsImpl) Checkout(ctx context.Context, userID uuid.UUID) (*queries.OrderView, error) {
	userCart, err := c.carts.Get(ctx, userID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if userCart.IsEmpty() {
		return nil, errs.ErrEmptyCart
	}

	lines, err := c.snapshotLines(ctx, userCart.Lines())
	if err != nil {
		return nil, err
	}

	reserved, err := c.reserveAll(ctx, lines)
	if err != nil {
		c.releaseAll(ctx, reserved)
		return nil, err
	}

	seq, err := c.orders.NextSequence(ctx)
	if err != nil {
		c.releaseAll(ctx, reserved)
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	o, err := order.New(userID, seq, lines, c.clock.Now())
	if err != nil {
		c.releaseAll(ctx, reserved)
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	if err := c.orders.Create(ctx, o); err != nil {
		c.releaseAll(ctx, reserved)
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	// The order exists from here on. Cart cleanup failing leaves a stale
	// cart, not a broken order, so it is logged and not surfaced.
	if err := c.carts.Clear(ctx, userID); err != nil {
		c.logger.Warn("failed to clear cart after checkout",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()),
		)
	}

	c.cache.Invalidate(ctx, cache.OrderWritePatterns(o.ID(), userID)...)

	c.publisher.Publish(ctx, events.Event{
		Type:        events.TypeOrderCreated,
		OrderID:     o.ID(),
		OrderNumber: o.Number(),
		UserID:      userID,
		NewStatus:   o.Status(),
		TotalCents:  o.TotalCents(),
		Message:     fmt.Sprintf("order %s created", o.Number()),
		OccurredAt:  o.CreatedAt(),
	})

	return queries.OrderViewFromEntity(o), nil
}

// Transition moves an order through the status table. Cancellation returns
// the reserved stock after the new status is durable; a crash between the
// two leaves stock under-counted, never oversold.
func (c *orderCommandsImpl) Transition(ctx context.Context, orderID uuid.UUID, to order.Status, actor string) (*queries.OrderView, error) {
	o, err := c.orders.FindByID(ctx, orderID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrOrderNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	from := o.Status()
	if err := o.Transition(to, actor, c.clock.Now()); err != nil {
		if errors.Is(err, order.ErrInvalidTransition) {
			return nil, errs.Mark(err, errs.ErrInvalidTransition)
		}
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	history := o.History()
	change := history[len(history)-1]
	if err := c.orders.UpdateStatus(ctx, o, change); err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if to == order.StatusCancelled {
		c.restockLines(ctx, o)
	}

	c.cache.Invalidate(ctx, cache.OrderWritePatterns(o.ID(), o.UserID())...)

	c.publisher.Publish(ctx, events.Event{
		Type:        events.TypeOrderUpdated,
		OrderID:     o.ID(),
		OrderNumber: o.Number(),
		UserID:      o.UserID(),
		OldStatus:   from,
		NewStatus:   to,
		TotalCents:  o.TotalCents(),
		Message:     fmt.Sprintf("order %s moved from %s to %s", o.Number(), from, to),
		OccurredAt:  o.UpdatedAt(),
	})

	return queries.OrderViewFromEntity(o), nil
}

// snapshotLines resolves each cart line against the current catalog, copying
// name and price into the order line. The input is already product-ID sorted,
// and the order's lines keep that ordering.
func (c *orderCommandsImpl) snapshotLines(ctx context.Context, cartLines []cart.Line) ([]order.Line, error) {
	lines := make([]order.Line, 0, len(cartLines))
	for _, cl := range cartLines {
		p, err := c.products.FindByID(ctx, cl.ProductID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, errs.Mark(
					errs.New(fmt.Sprintf("product %s no longer exists", cl.ProductID)),
					errs.ErrCartLineMissing,
				)
			}
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		lines = append(lines, order.Line{
			ProductID:      p.ID(),
			ProductName:    p.Name(),
			UnitPriceCents: p.PriceCents(),
			Quantity:       cl.Quantity,
		})
	}
	return lines, nil
}

// reserveAll walks the lines in order, returning the prefix that succeeded
// so the caller can roll it back on failure.
func (c *orderCommandsImpl) reserveAll(ctx context.Context, lines []order.Line) ([]order.Line, error) {
	reserved := make([]order.Line, 0, len(lines))
	for _, l := range lines {
		if err := c.ledger.Reserve(ctx, l.ProductID, l.Quantity); err != nil {
			switch {
			case errors.Is(err, inventory.ErrInsufficientStock):
				return reserved, errs.Mark(err, errs.ErrInsufficientStock)
			case errors.Is(err, inventory.ErrProductNotFound):
				return reserved, errs.Mark(err, errs.ErrCartLineMissing)
			default:
				return reserved, errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
		}
		reserved = append(reserved, l)
	}
	return reserved, nil
}

// releaseAll undoes reservations in reverse acquisition order. Failures are
// logged; there is no further recovery path inside the request.
func (c *orderCommandsImpl) releaseAll(ctx context.Context, reserved []order.Line) {
	for i := len(reserved) - 1; i >= 0; i-- {
		l := reserved[i]
		if err := c.ledger.Release(ctx, l.ProductID, l.Quantity); err != nil {
			c.logger.Error("failed to release reserved stock",
				slog.String("product_id", l.ProductID.String()),
				slog.Int("quantity", l.Quantity),
				slog.String("error", err.Error()),
			)
		}
	}
}

func (c *orderCommandsImpl) restockLines(ctx context.Context, o *order.Order) {
	for _, l := range o.Lines() {
		if err := c.ledger.Release(ctx, l.ProductID, l.Quantity); err != nil {
			// The product may have been deleted since the order was
			// placed; nothing to restock in that case.
			if errors.Is(err, inventory.ErrProductNotFound) {
				continue
			}
			c.logger.Error("failed to restock cancelled order line",
				slog.String("order_id", o.ID().String()),
				slog.String("product_id", l.ProductID.String()),
				slog.Int("quantity", l.Quantity),
				slog.String("error", err.Error()),
			)
		}
	}
}

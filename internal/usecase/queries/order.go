package queries

import (
	"context"

	"storefront/internal/cache"
	"storefront/internal/infra"
	"storefront/internal/pkg/errs"

	"github.com/google/uuid"
)

type OrderReadStore interface {
	OrderByID(ctx context.Context, id uuid.UUID) (*OrderView, error)
	OrdersByUserID(ctx context.Context, userID uuid.UUID) ([]OrderSummaryView, error)
}

type CartReadStore interface {
	CartLines(ctx context.Context, userID uuid.UUID) ([]CartLineView, error)
}

type OrderQueries interface {
	GetOrder(ctx context.Context, id uuid.UUID) (*OrderView, error)
	ListUserOrders(ctx context.Context, userID uuid.UUID) ([]OrderSummaryView, error)
	GetCart(ctx context.Context, userID uuid.UUID) (*CartView, error)
}

type orderQueriesImpl struct {
	orders OrderReadStore
	carts  CartReadStore
	cache  *cache.Manager
}

func NewOrderQueries(orders OrderReadStore, carts CartReadStore, cacheManager *cache.Manager) OrderQueries {
	return &orderQueriesImpl{
		orders: orders,
		carts:  carts,
		cache:  cacheManager,
	}
}

func (q *orderQueriesImpl) GetOrder(ctx context.Context, id uuid.UUID) (*OrderView, error) {
	var view OrderView
	err := q.cache.GetOrLoad(ctx, cache.OrderKey(id), &view, func(ctx context.Context) (any, error) {
		fresh, loadErr := q.orders.OrderByID(ctx, id)
		if loadErr != nil {
			if infra.IsKind(loadErr, infra.KindNotFound) {
				return nil, errs.ErrOrderNotFound
			}
			return nil, errs.Wrap(loadErr, "failed to load order")
		}
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (q *orderQueriesImpl) ListUserOrders(ctx context.Context, userID uuid.UUID) ([]OrderSummaryView, error) {
	var views []OrderSummaryView
	err := q.cache.GetOrLoad(ctx, cache.UserOrdersKey(userID), &views, func(ctx context.Context) (any, error) {
		fresh, loadErr := q.orders.OrdersByUserID(ctx, userID)
		if loadErr != nil {
			return nil, errs.Wrap(loadErr, "failed to list user orders")
		}
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// GetCart reads through to the store: carts are per-user and mutate on most
// requests, so caching them buys nothing and risks checkout seeing a cleared
// cart as populated.
func (q *orderQueriesImpl) GetCart(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	lines, err := q.carts.CartLines(ctx, userID)
	if err != nil {
		return nil, errs.Wrap(err, "failed to load cart")
	}

	view := &CartView{
		UserID: userID,
		Lines:  lines,
	}
	for _, l := range lines {
		view.TotalCents += l.SubtotalCents
	}
	return view, nil
}

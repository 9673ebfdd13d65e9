package readstore

import (
	"context"
	"errors"

	"storefront/internal/domain/order"
	"storefront/internal/infra"
	"storefront/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderReadStore struct {
	pool *pgxpool.Pool
}

func NewOrderReadStore(pool *pgxpool.Pool) *OrderReadStore {
	return &OrderReadStore{pool: pool}
}

func (s *OrderReadStore) OrderByID(ctx context.Context, id uuid.UUID) (*queries.OrderView, error) {
	var (
		view   queries.OrderView
		status string
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, number, user_id, status, total_cents, created_at, updated_at,
		        shipped_at, delivered_at, cancelled_at
		 FROM orders WHERE id = $1`,
		id,
	).Scan(&view.ID, &view.Number, &view.UserID, &status, &view.TotalCents,
		&view.CreatedAt, &view.UpdatedAt, &view.ShippedAt, &view.DeliveredAt, &view.CancelledAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get order", err)
	}
	view.Status = order.Status(status)

	rows, err := s.pool.Query(ctx,
		`SELECT product_id, product_name, unit_price_cents, quantity
		 FROM order_lines WHERE order_id = $1 ORDER BY position`,
		id,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get order lines", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line queries.OrderLineView
		if err := rows.Scan(&line.ProductID, &line.ProductName, &line.UnitPrice, &line.Quantity); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order line", err)
		}
		line.SubtotalCents = line.UnitPrice * int64(line.Quantity)
		view.Lines = append(view.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read order lines", err)
	}

	return &view, nil
}

func (s *OrderReadStore) OrdersByUserID(ctx context.Context, userID uuid.UUID) ([]queries.OrderSummaryView, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, number, status, total_cents, created_at
		 FROM orders WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list orders", err)
	}
	defer rows.Close()

	var views []queries.OrderSummaryView
	for rows.Next() {
		var (
			view   queries.OrderSummaryView
			status string
		)
		if err := rows.Scan(&view.ID, &view.Number, &status, &view.TotalCents, &view.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order summary", err)
		}
		view.Status = order.Status(status)
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read order summaries", err)
	}
	return views, nil
}

// CartReadStore joins cart lines against the live catalog. Prices shown in
// the cart track the current product price; only checkout freezes them.
type CartReadStore struct {
	pool *pgxpool.Pool
}

func NewCartReadStore(pool *pgxpool.Pool) *CartReadStore {
	return &CartReadStore{pool: pool}
}

func (s *CartReadStore) CartLines(ctx context.Context, userID uuid.UUID) ([]queries.CartLineView, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT cl.product_id, p.name, p.price_cents, cl.quantity
		 FROM cart_lines cl
		 JOIN products p ON p.id = cl.product_id
		 WHERE cl.user_id = $1
		 ORDER BY cl.product_id`,
		userID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load cart lines", err)
	}
	defer rows.Close()

	var lines []queries.CartLineView
	for rows.Next() {
		var line queries.CartLineView
		if err := rows.Scan(&line.ProductID, &line.ProductName, &line.UnitPrice, &line.Quantity); err != nil {
			return nil, infra.WrapRepoErr("failed to scan cart line", err)
		}
		line.SubtotalCents = line.UnitPrice * int64(line.Quantity)
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read cart lines", err)
	}
	return lines, nil
}

package repository

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain/order"
	"storefront/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) NextSequence(ctx context.Context) (int64, error) {
	var seq int64
	err := r.pool.QueryRow(ctx, `SELECT nextval('order_number_seq')`).Scan(&seq)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to get next order sequence", err)
	}
	return seq, nil
}

// Create writes the order header and its lines in one transaction. Lines
// keep their position so reads return them in checkout order.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return infra.WrapRepoErr("failed to begin order transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO orders (id, number, user_id, status, total_cents, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		o.ID(), o.Number(), o.UserID(), string(o.Status()), o.TotalCents(), o.CreatedAt(), o.UpdatedAt(),
	)
	if err != nil {
		return wrapPgErr("failed to create order", err)
	}

	for i, l := range o.Lines() {
		_, err := tx.Exec(ctx,
			`INSERT INTO order_lines (order_id, position, product_id, product_name, unit_price_cents, quantity)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			o.ID(), i, l.ProductID, l.ProductName, l.UnitPriceCents, l.Quantity,
		)
		if err != nil {
			return wrapPgErr("failed to create order line", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return infra.WrapRepoErr("failed to commit order", err)
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var (
		number                             string
		userID                             uuid.UUID
		status                             string
		totalCents                         int64
		createdAt, updatedAt               time.Time
		shippedAt, deliveredAt, cancelledAt *time.Time
	)
	err := r.pool.QueryRow(ctx,
		`SELECT number, user_id, status, total_cents, created_at, updated_at,
		        shipped_at, delivered_at, cancelled_at
		 FROM orders WHERE id = $1`,
		id,
	).Scan(&number, &userID, &status, &totalCents, &createdAt, &updatedAt,
		&shippedAt, &deliveredAt, &cancelledAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find order", err)
	}

	lines, err := r.loadLines(ctx, id)
	if err != nil {
		return nil, err
	}
	history, err := r.loadHistory(ctx, id)
	if err != nil {
		return nil, err
	}

	parsedStatus, err := order.ParseStatus(status)
	if err != nil {
		return nil, infra.WrapRepoErr("order has unknown status", err)
	}

	return order.Reconstruct(
		id, number, userID, lines, totalCents, parsedStatus, history,
		createdAt, updatedAt, shippedAt, deliveredAt, cancelledAt,
	), nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, o *order.Order, change order.StatusChange) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return infra.WrapRepoErr("failed to begin status transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// The WHERE clause re-checks the expected previous status so two
	// concurrent transitions cannot both win.
	tag, err := tx.Exec(ctx,
		`UPDATE orders
		 SET status = $2, updated_at = $3, shipped_at = $4, delivered_at = $5, cancelled_at = $6
		 WHERE id = $1 AND status = $7`,
		o.ID(), string(o.Status()), o.UpdatedAt(),
		o.ShippedAt(), o.DeliveredAt(), o.CancelledAt(),
		string(change.From),
	)
	if err != nil {
		return wrapPgErr("failed to update order status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("order status changed concurrently", nil, infra.KindConflict)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO order_status_history (order_id, from_status, to_status, actor, changed_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		o.ID(), string(change.From), string(change.To), change.Actor, change.ChangedAt,
	)
	if err != nil {
		return wrapPgErr("failed to record status change", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return infra.WrapRepoErr("failed to commit status change", err)
	}
	return nil
}

func (r *OrderRepository) loadLines(ctx context.Context, orderID uuid.UUID) ([]order.Line, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT product_id, product_name, unit_price_cents, quantity
		 FROM order_lines WHERE order_id = $1 ORDER BY position`,
		orderID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load order lines", err)
	}
	defer rows.Close()

	var lines []order.Line
	for rows.Next() {
		var l order.Line
		if err := rows.Scan(&l.ProductID, &l.ProductName, &l.UnitPriceCents, &l.Quantity); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order line", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read order lines", err)
	}
	return lines, nil
}

func (r *OrderRepository) loadHistory(ctx context.Context, orderID uuid.UUID) ([]order.StatusChange, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT from_status, to_status, actor, changed_at
		 FROM order_status_history WHERE order_id = $1 ORDER BY changed_at, id`,
		orderID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load order history", err)
	}
	defer rows.Close()

	var history []order.StatusChange
	for rows.Next() {
		var (
			from, to string
			change   order.StatusChange
		)
		if err := rows.Scan(&from, &to, &change.Actor, &change.ChangedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan status change", err)
		}
		change.From = order.Status(from)
		change.To = order.Status(to)
		history = append(history, change)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read order history", err)
	}
	return history, nil
}

package repository

import (
	"context"

	"storefront/internal/domain/cart"
	"storefront/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CartRepository stores one row per (user, product) line. Save replaces the
// whole cart inside a transaction so readers never observe a half-written
// cart.
type CartRepository struct {
	pool *pgxpool.Pool
}

func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

func (r *CartRepository) Get(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT product_id, quantity FROM cart_lines WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load cart", err)
	}
	defer rows.Close()

	var lines []cart.Line
	for rows.Next() {
		var l cart.Line
		if err := rows.Scan(&l.ProductID, &l.Quantity); err != nil {
			return nil, infra.WrapRepoErr("failed to scan cart line", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read cart lines", err)
	}

	return cart.Reconstruct(userID, lines), nil
}

func (r *CartRepository) Save(ctx context.Context, c *cart.Cart) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return infra.WrapRepoErr("failed to begin cart transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE user_id = $1`, c.UserID()); err != nil {
		return wrapPgErr("failed to clear cart lines", err)
	}

	for _, l := range c.Lines() {
		_, err := tx.Exec(ctx,
			`INSERT INTO cart_lines (user_id, product_id, quantity) VALUES ($1, $2, $3)`,
			c.UserID(), l.ProductID, l.Quantity,
		)
		if err != nil {
			return wrapPgErr("failed to insert cart line", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return infra.WrapRepoErr("failed to commit cart", err)
	}
	return nil
}

func (r *CartRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM cart_lines WHERE user_id = $1`, userID); err != nil {
		return infra.WrapRepoErr("failed to clear cart", err)
	}
	return nil
}

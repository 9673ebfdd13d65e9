package inventory

import (
	"context"
	"errors"

	"storefront/internal/cache"
	"storefront/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLedger implements the counter as a single-statement conditional
// update, so the check-and-decrement is atomic in the system of record and
// concurrent reservations serialize on the row lock.
type PostgresLedger struct {
	pool        *pgxpool.Pool
	invalidator Invalidator
}

func NewPostgresLedger(pool *pgxpool.Pool, invalidator Invalidator) *PostgresLedger {
	return &PostgresLedger{
		pool:        pool,
		invalidator: invalidator,
	}
}

func (l *PostgresLedger) Reserve(ctx context.Context, productID uuid.UUID, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}

	tag, err := l.pool.Exec(ctx,
		`UPDATE products SET stock = stock - $2, updated_at = now() WHERE id = $1 AND stock >= $2`,
		productID, qty,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to reserve stock", err)
	}
	if tag.RowsAffected() == 0 {
		if _, statErr := l.Stock(ctx, productID); statErr != nil {
			return statErr
		}
		return ErrInsufficientStock
	}

	l.invalidator.Invalidate(ctx, cache.StockPatterns(productID)...)
	return nil
}

func (l *PostgresLedger) Release(ctx context.Context, productID uuid.UUID, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}

	tag, err := l.pool.Exec(ctx,
		`UPDATE products SET stock = stock + $2, updated_at = now() WHERE id = $1`,
		productID, qty,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to release stock", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	l.invalidator.Invalidate(ctx, cache.StockPatterns(productID)...)
	return nil
}

// SetStock overwrites the counter for admin catalog writes. Reservation
// traffic still goes through Reserve/Release; admin writes are
// last-write-wins.
func (l *PostgresLedger) SetStock(ctx context.Context, productID uuid.UUID, qty int) error {
	if qty < 0 {
		return ErrInvalidQuantity
	}

	tag, err := l.pool.Exec(ctx,
		`UPDATE products SET stock = $2, updated_at = now() WHERE id = $1`,
		productID, qty,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to set stock", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	l.invalidator.Invalidate(ctx, cache.StockPatterns(productID)...)
	return nil
}

func (l *PostgresLedger) Stock(ctx context.Context, productID uuid.UUID) (int, error) {
	var stock int
	err := l.pool.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1`, productID).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrProductNotFound
		}
		return 0, infra.WrapRepoErr("failed to read stock", err)
	}
	return stock, nil
}

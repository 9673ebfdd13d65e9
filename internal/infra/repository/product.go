package repository

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain/catalog"
	"storefront/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

func (r *ProductRepository) Create(ctx context.Context, p *catalog.Product) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO products (id, name, price_cents, stock, category_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID(), p.Name(), p.PriceCents(), p.Stock(), p.CategoryID(), p.CreatedAt(), p.UpdatedAt(),
	)
	if err != nil {
		return wrapPgErr("failed to create product", err)
	}
	return nil
}

// Update writes the catalog fields only. Stock belongs to the ledger and is
// never written from the aggregate snapshot.
func (r *ProductRepository) Update(ctx context.Context, p *catalog.Product) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET name = $2, price_cents = $3, category_id = $4, updated_at = $5 WHERE id = $1`,
		p.ID(), p.Name(), p.PriceCents(), p.CategoryID(), p.UpdatedAt(),
	)
	if err != nil {
		return wrapPgErr("failed to update product", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("product not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return wrapPgErr("failed to delete product", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("product not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, name, price_cents, stock, category_id, created_at, updated_at
		 FROM products WHERE id = $1`,
		id,
	)
	return scanProduct(row)
}

func scanProduct(row pgx.Row) (*catalog.Product, error) {
	var (
		id         uuid.UUID
		name       string
		priceCents int64
		stock      int
		categoryID *uuid.UUID
		createdAt  time.Time
		updatedAt  time.Time
	)
	err := row.Scan(&id, &name, &priceCents, &stock, &categoryID, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("product not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find product", err)
	}
	return catalog.ReconstructProduct(id, name, priceCents, stock, categoryID, createdAt, updatedAt), nil
}

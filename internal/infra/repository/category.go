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

type CategoryRepository struct {
	pool *pgxpool.Pool
}

func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

func (r *CategoryRepository) Create(ctx context.Context, c *catalog.Category) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO categories (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
		c.ID(), c.Name(), c.CreatedAt(), c.UpdatedAt(),
	)
	if err != nil {
		return wrapPgErr("failed to create category", err)
	}
	return nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *catalog.Category) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE categories SET name = $2, updated_at = $3 WHERE id = $1`,
		c.ID(), c.Name(), c.UpdatedAt(),
	)
	if err != nil {
		return wrapPgErr("failed to update category", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("category not found", nil, infra.KindNotFound)
	}
	return nil
}

// Delete detaches the category's products rather than removing them; the
// products table has ON DELETE SET NULL on category_id.
func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return wrapPgErr("failed to delete category", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("category not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	var (
		name                 string
		createdAt, updatedAt time.Time
	)
	err := r.pool.QueryRow(ctx,
		`SELECT name, created_at, updated_at FROM categories WHERE id = $1`, id,
	).Scan(&name, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("category not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find category", err)
	}
	return catalog.ReconstructCategory(id, name, createdAt, updatedAt), nil
}

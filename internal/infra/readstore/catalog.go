package readstore

import (
	"context"
	"errors"
	"strconv"

	"storefront/internal/infra"
	"storefront/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const productPageSize = 20

type CatalogReadStore struct {
	pool *pgxpool.Pool
}

func NewCatalogReadStore(pool *pgxpool.Pool) *CatalogReadStore {
	return &CatalogReadStore{pool: pool}
}

func (s *CatalogReadStore) ProductByID(ctx context.Context, id uuid.UUID) (*queries.ProductView, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, price_cents, stock, category_id, created_at, updated_at
		 FROM products WHERE id = $1`,
		id,
	)

	view, err := scanProductView(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("product not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get product", err)
	}
	return view, nil
}

func (s *CatalogReadStore) ProductList(ctx context.Context, filter queries.ProductFilter) ([]queries.ProductView, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * productPageSize

	query := `SELECT id, name, price_cents, stock, category_id, created_at, updated_at
	          FROM products WHERE 1=1`
	args := []any{}

	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		query += ` AND category_id = $` + strconv.Itoa(len(args))
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		query += ` AND name ILIKE $` + strconv.Itoa(len(args))
	}

	args = append(args, productPageSize)
	query += ` ORDER BY created_at DESC, id LIMIT $` + strconv.Itoa(len(args))
	args = append(args, offset)
	query += ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list products", err)
	}
	defer rows.Close()

	views := make([]queries.ProductView, 0, productPageSize)
	for rows.Next() {
		view, scanErr := scanProductView(rows)
		if scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan product row", scanErr)
		}
		views = append(views, *view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read product rows", err)
	}
	return views, nil
}

func (s *CatalogReadStore) CategoryList(ctx context.Context) ([]queries.CategoryView, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT c.id, c.name, count(p.id)
		 FROM categories c
		 LEFT JOIN products p ON p.category_id = c.id
		 GROUP BY c.id, c.name
		 ORDER BY c.name`,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list categories", err)
	}
	defer rows.Close()

	var views []queries.CategoryView
	for rows.Next() {
		var view queries.CategoryView
		if err := rows.Scan(&view.ID, &view.Name, &view.ProductCount); err != nil {
			return nil, infra.WrapRepoErr("failed to scan category row", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read category rows", err)
	}
	return views, nil
}

func scanProductView(row pgx.Row) (*queries.ProductView, error) {
	var view queries.ProductView
	err := row.Scan(
		&view.ID, &view.Name, &view.PriceCents, &view.Stock,
		&view.CategoryID, &view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	view.InStock = view.Stock > 0
	return &view, nil
}

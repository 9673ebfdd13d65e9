package queries

import (
	"context"

	"storefront/internal/cache"
	"storefront/internal/infra"
	"storefront/internal/pkg/errs"

	"github.com/google/uuid"
)

// ProductFilter narrows listings. Query switches the key into the search
// tier, which has the shortest staleness budget.
type ProductFilter struct {
	Page       int
	CategoryID *uuid.UUID
	Query      string
}

type CatalogReadStore interface {
	ProductByID(ctx context.Context, id uuid.UUID) (*ProductView, error)
	ProductList(ctx context.Context, filter ProductFilter) ([]ProductView, error)
	CategoryList(ctx context.Context) ([]CategoryView, error)
}

type CatalogQueries interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductView, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]ProductView, error)
	ListCategories(ctx context.Context) ([]CategoryView, error)
}

type catalogQueriesImpl struct {
	reads CatalogReadStore
	cache *cache.Manager
}

func NewCatalogQueries(reads CatalogReadStore, cacheManager *cache.Manager) CatalogQueries {
	return &catalogQueriesImpl{
		reads: reads,
		cache: cacheManager,
	}
}

func (q *catalogQueriesImpl) GetProduct(ctx context.Context, id uuid.UUID) (*ProductView, error) {
	var view ProductView
	err := q.cache.GetOrLoad(ctx, cache.ProductDetailKey(id), &view, func(ctx context.Context) (any, error) {
		fresh, loadErr := q.reads.ProductByID(ctx, id)
		if loadErr != nil {
			if infra.IsKind(loadErr, infra.KindNotFound) {
				return nil, errs.ErrProductNotFound
			}
			return nil, errs.Wrap(loadErr, "failed to load product")
		}
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (q *catalogQueriesImpl) ListProducts(ctx context.Context, filter ProductFilter) ([]ProductView, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}

	key := cache.ProductListKey(filter.Page, filter.CategoryID)
	if filter.Query != "" {
		key = cache.SearchKey(filter.Query, filter.Page)
	}

	var views []ProductView
	err := q.cache.GetOrLoad(ctx, key, &views, func(ctx context.Context) (any, error) {
		fresh, loadErr := q.reads.ProductList(ctx, filter)
		if loadErr != nil {
			return nil, errs.Wrap(loadErr, "failed to list products")
		}
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (q *catalogQueriesImpl) ListCategories(ctx context.Context) ([]CategoryView, error) {
	var views []CategoryView
	err := q.cache.GetOrLoad(ctx, cache.CategoryListKey(), &views, func(ctx context.Context) (any, error) {
		fresh, loadErr := q.reads.CategoryList(ctx)
		if loadErr != nil {
			return nil, errs.Wrap(loadErr, "failed to list categories")
		}
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

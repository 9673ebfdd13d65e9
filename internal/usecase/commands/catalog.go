package commands

import (
	"context"

	"storefront/internal/cache"
	"storefront/internal/domain/catalog"
	"storefront/internal/infra"
	"storefront/internal/pkg/clock"
	"storefront/internal/pkg/errs"

	"github.com/google/uuid"
)

type CreateProductParams struct {
	Name       string
	PriceCents int64
	Stock      int
	CategoryID *uuid.UUID
}

type UpdateProductParams struct {
	Name       *string
	PriceCents *int64
	Stock      *int
	CategoryID *uuid.UUID
	ClearCat   bool
}

type CatalogCommands interface {
	CreateProduct(ctx context.Context, params CreateProductParams) (uuid.UUID, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, params UpdateProductParams) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	CreateCategory(ctx context.Context, name string) (uuid.UUID, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, name string) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type catalogCommandsImpl struct {
	products   ProductRepository
	categories CategoryRepository
	stock      StockWriter
	cache      CacheInvalidator
	clock      clock.Clock
}

func NewCatalogCommands(
	products ProductRepository,
	categories CategoryRepository,
	stock StockWriter,
	cacheInvalidator CacheInvalidator,
	clk clock.Clock,
) CatalogCommands {
	return &catalogCommandsImpl{
		products:   products,
		categories: categories,
		stock:      stock,
		cache:      cacheInvalidator,
		clock:      clk,
	}
}

func (c *catalogCommandsImpl) CreateProduct(ctx context.Context, params CreateProductParams) (uuid.UUID, error) {
	product, err := catalog.NewProduct(params.Name, params.PriceCents, params.Stock, params.CategoryID, c.clock.Now())
	if err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	if err := c.products.Create(ctx, product); err != nil {
		if infra.IsKind(err, infra.KindForeignKeyViolated) {
			return uuid.Nil, errs.ErrCategoryNotFound
		}
		return uuid.Nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if err := c.stock.SetStock(ctx, product.ID(), params.Stock); err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	// A new product can appear in listings and searches immediately.
	c.cache.Invalidate(ctx, cache.ProductWritePatterns(product.ID())...)
	return product.ID(), nil
}

func (c *catalogCommandsImpl) UpdateProduct(ctx context.Context, id uuid.UUID, params UpdateProductParams) error {
	product, err := c.findProduct(ctx, id)
	if err != nil {
		return err
	}

	now := c.clock.Now()
	if params.Name != nil {
		if err := product.Rename(*params.Name, now); err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}
	}
	if params.PriceCents != nil {
		if err := product.ChangePrice(*params.PriceCents, now); err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}
	}
	if params.ClearCat {
		product.AssignCategory(nil, now)
	} else if params.CategoryID != nil {
		product.AssignCategory(params.CategoryID, now)
	}

	if err := c.products.Update(ctx, product); err != nil {
		if infra.IsKind(err, infra.KindForeignKeyViolated) {
			return errs.ErrCategoryNotFound
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if params.Stock != nil {
		if err := c.stock.SetStock(ctx, id, *params.Stock); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
	}

	// Invalidation runs after the mutation committed; a stale read racing
	// this write is dropped by the manager's invalidation barrier.
	c.cache.Invalidate(ctx, cache.ProductWritePatterns(id)...)
	return nil
}

func (c *catalogCommandsImpl) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := c.findProduct(ctx, id); err != nil {
		return err
	}

	if err := c.products.Delete(ctx, id); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	c.cache.Invalidate(ctx, cache.ProductWritePatterns(id)...)
	return nil
}

func (c *catalogCommandsImpl) CreateCategory(ctx context.Context, name string) (uuid.UUID, error) {
	category, err := catalog.NewCategory(name, c.clock.Now())
	if err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	if err := c.categories.Create(ctx, category); err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	c.cache.Invalidate(ctx, cache.CategoryWritePatterns(category.ID())...)
	return category.ID(), nil
}

func (c *catalogCommandsImpl) UpdateCategory(ctx context.Context, id uuid.UUID, name string) error {
	category, err := c.categories.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.ErrCategoryNotFound
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if err := category.Rename(name, c.clock.Now()); err != nil {
		return errs.Mark(err, errs.ErrDomainValidation)
	}

	if err := c.categories.Update(ctx, category); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	c.cache.Invalidate(ctx, cache.CategoryWritePatterns(id)...)
	return nil
}

func (c *catalogCommandsImpl) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := c.categories.FindByID(ctx, id); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.ErrCategoryNotFound
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if err := c.categories.Delete(ctx, id); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	c.cache.Invalidate(ctx, cache.CategoryWritePatterns(id)...)
	return nil
}

func (c *catalogCommandsImpl) findProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	product, err := c.products.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrProductNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return product, nil
}

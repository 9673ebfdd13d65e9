package commands

import (
	"context"

	"storefront/internal/domain/cart"
	"storefront/internal/infra"
	"storefront/internal/pkg/errs"

	"github.com/google/uuid"
)

type CartCommands interface {
	AddItem(ctx context.Context, userID, productID uuid.UUID, qty int) error
	SetQuantity(ctx context.Context, userID, productID uuid.UUID, qty int) error
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) error
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

type cartCommandsImpl struct {
	carts    CartRepository
	products ProductRepository
}

func NewCartCommands(carts CartRepository, products ProductRepository) CartCommands {
	return &cartCommandsImpl{
		carts:    carts,
		products: products,
	}
}

func (c *cartCommandsImpl) AddItem(ctx context.Context, userID, productID uuid.UUID, qty int) error {
	// Availability is not checked here. The cart is a wish list; stock is
	// only committed at checkout.
	if _, err := c.products.FindByID(ctx, productID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.ErrProductNotFound
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	userCart, err := c.loadCart(ctx, userID)
	if err != nil {
		return err
	}

	if err := userCart.AddLine(productID, qty); err != nil {
		return errs.Mark(err, errs.ErrInvalidQuantity)
	}
	return c.saveCart(ctx, userCart)
}

func (c *cartCommandsImpl) SetQuantity(ctx context.Context, userID, productID uuid.UUID, qty int) error {
	userCart, err := c.loadCart(ctx, userID)
	if err != nil {
		return err
	}

	if err := userCart.SetQuantity(productID, qty); err != nil {
		switch err {
		case cart.ErrLineNotFound:
			return errs.ErrCartLineMissing
		case cart.ErrInvalidQuantity:
			return errs.Mark(err, errs.ErrInvalidQuantity)
		default:
			return errs.Wrap(err, "failed to set cart quantity")
		}
	}
	return c.saveCart(ctx, userCart)
}

func (c *cartCommandsImpl) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	userCart, err := c.loadCart(ctx, userID)
	if err != nil {
		return err
	}

	if err := userCart.RemoveLine(productID); err != nil {
		return errs.ErrCartLineMissing
	}
	return c.saveCart(ctx, userCart)
}

func (c *cartCommandsImpl) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if err := c.carts.Clear(ctx, userID); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

func (c *cartCommandsImpl) loadCart(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	userCart, err := c.carts.Get(ctx, userID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return userCart, nil
}

func (c *cartCommandsImpl) saveCart(ctx context.Context, userCart *cart.Cart) error {
	if err := c.carts.Save(ctx, userCart); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

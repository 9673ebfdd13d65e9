package request

import (
	"storefront/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateProductRequest struct {
	Name       string     `json:"name" binding:"required,max=200"`
	PriceCents int64      `json:"price_cents" binding:"min=0"`
	Stock      int        `json:"stock" binding:"min=0"`
	CategoryID *uuid.UUID `json:"category_id"`
}

func (r *CreateProductRequest) ToParams() commands.CreateProductParams {
	return commands.CreateProductParams{
		Name:       r.Name,
		PriceCents: r.PriceCents,
		Stock:      r.Stock,
		CategoryID: r.CategoryID,
	}
}

type UpdateProductRequest struct {
	Name       *string    `json:"name" binding:"omitempty,max=200"`
	PriceCents *int64     `json:"price_cents" binding:"omitempty,min=0"`
	Stock      *int       `json:"stock" binding:"omitempty,min=0"`
	CategoryID *uuid.UUID `json:"category_id"`
	// ClearCategory detaches the product; a null category_id alone means
	// "leave unchanged".
	ClearCategory bool `json:"clear_category"`
}

func (r *UpdateProductRequest) ToParams() commands.UpdateProductParams {
	return commands.UpdateProductParams{
		Name:       r.Name,
		PriceCents: r.PriceCents,
		Stock:      r.Stock,
		CategoryID: r.CategoryID,
		ClearCat:   r.ClearCategory,
	}
}

type CategoryRequest struct {
	Name string `json:"name" binding:"required,max=200"`
}

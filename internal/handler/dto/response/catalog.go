package response

import (
	"storefront/internal/usecase/queries"
)

type ProductResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	PriceCents int64   `json:"price_cents"`
	Stock      int     `json:"stock"`
	InStock    bool    `json:"in_stock"`
	CategoryID *string `json:"category_id,omitempty"`
	CreatedAt  int64   `json:"created_at"`
	UpdatedAt  int64   `json:"updated_at"`
}

func FromProductView(v *queries.ProductView) *ProductResponse {
	resp := &ProductResponse{
		ID:         v.ID.String(),
		Name:       v.Name,
		PriceCents: v.PriceCents,
		Stock:      v.Stock,
		InStock:    v.InStock,
		CreatedAt:  v.CreatedAt.Unix(),
		UpdatedAt:  v.UpdatedAt.Unix(),
	}
	if v.CategoryID != nil {
		id := v.CategoryID.String()
		resp.CategoryID = &id
	}
	return resp
}

func FromProductList(views []queries.ProductView) []*ProductResponse {
	res := make([]*ProductResponse, len(views))
	for i := range views {
		res[i] = FromProductView(&views[i])
	}
	return res
}

type CategoryResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ProductCount int    `json:"product_count"`
}

func FromCategoryList(views []queries.CategoryView) []*CategoryResponse {
	res := make([]*CategoryResponse, len(views))
	for i, v := range views {
		res[i] = &CategoryResponse{
			ID:           v.ID.String(),
			Name:         v.Name,
			ProductCount: v.ProductCount,
		}
	}
	return res
}

package response

import (
	"storefront/internal/usecase/queries"
)

type CartLineResponse struct {
	ProductID     string `json:"product_id"`
	ProductName   string `json:"product_name"`
	UnitPrice     int64  `json:"unit_price_cents"`
	Quantity      int    `json:"quantity"`
	SubtotalCents int64  `json:"subtotal_cents"`
}

type CartResponse struct {
	UserID     string             `json:"user_id"`
	Lines      []CartLineResponse `json:"lines"`
	TotalCents int64              `json:"total_cents"`
}

func FromCartView(v *queries.CartView) *CartResponse {
	lines := make([]CartLineResponse, len(v.Lines))
	for i, l := range v.Lines {
		lines[i] = CartLineResponse{
			ProductID:     l.ProductID.String(),
			ProductName:   l.ProductName,
			UnitPrice:     l.UnitPrice,
			Quantity:      l.Quantity,
			SubtotalCents: l.SubtotalCents,
		}
	}
	return &CartResponse{
		UserID:     v.UserID.String(),
		Lines:      lines,
		TotalCents: v.TotalCents,
	}
}

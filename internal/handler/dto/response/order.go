package response

import (
	"time"

	"storefront/internal/usecase/queries"
)

type OrderLineResponse struct {
	ProductID     string `json:"product_id"`
	ProductName   string `json:"product_name"`
	UnitPrice     int64  `json:"unit_price_cents"`
	Quantity      int    `json:"quantity"`
	SubtotalCents int64  `json:"subtotal_cents"`
}

type OrderResponse struct {
	ID          string              `json:"id"`
	Number      string              `json:"number"`
	UserID      string              `json:"user_id"`
	Status      string              `json:"status"`
	TotalCents  int64               `json:"total_cents"`
	Lines       []OrderLineResponse `json:"lines"`
	CreatedAt   int64               `json:"created_at"`
	UpdatedAt   int64               `json:"updated_at"`
	ShippedAt   *int64              `json:"shipped_at,omitempty"`
	DeliveredAt *int64              `json:"delivered_at,omitempty"`
	CancelledAt *int64              `json:"cancelled_at,omitempty"`
}

func FromOrderView(v *queries.OrderView) *OrderResponse {
	lines := make([]OrderLineResponse, len(v.Lines))
	for i, l := range v.Lines {
		lines[i] = OrderLineResponse{
			ProductID:     l.ProductID.String(),
			ProductName:   l.ProductName,
			UnitPrice:     l.UnitPrice,
			Quantity:      l.Quantity,
			SubtotalCents: l.SubtotalCents,
		}
	}
	return &OrderResponse{
		ID:          v.ID.String(),
		Number:      v.Number,
		UserID:      v.UserID.String(),
		Status:      string(v.Status),
		TotalCents:  v.TotalCents,
		Lines:       lines,
		CreatedAt:   v.CreatedAt.Unix(),
		UpdatedAt:   v.UpdatedAt.Unix(),
		ShippedAt:   unixPtr(v.ShippedAt),
		DeliveredAt: unixPtr(v.DeliveredAt),
		CancelledAt: unixPtr(v.CancelledAt),
	}
}

type OrderSummaryResponse struct {
	ID         string `json:"id"`
	Number     string `json:"number"`
	Status     string `json:"status"`
	TotalCents int64  `json:"total_cents"`
	CreatedAt  int64  `json:"created_at"`
}

func FromOrderSummaries(views []queries.OrderSummaryView) []*OrderSummaryResponse {
	res := make([]*OrderSummaryResponse, len(views))
	for i, v := range views {
		res[i] = &OrderSummaryResponse{
			ID:         v.ID.String(),
			Number:     v.Number,
			Status:     string(v.Status),
			TotalCents: v.TotalCents,
			CreatedAt:  v.CreatedAt.Unix(),
		}
	}
	return res
}

func unixPtr(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	u := t.Unix()
	return &u
}

package queries

import (
	"time"

	"storefront/internal/domain/order"

	"github.com/google/uuid"
)

type ProductView struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	PriceCents int64      `json:"price_cents"`
	Stock      int        `json:"stock"`
	InStock    bool       `json:"in_stock"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type CategoryView struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	ProductCount int       `json:"product_count"`
}

type CartLineView struct {
	ProductID     uuid.UUID `json:"product_id"`
	ProductName   string    `json:"product_name"`
	UnitPrice     int64     `json:"unit_price_cents"`
	Quantity      int       `json:"quantity"`
	SubtotalCents int64     `json:"subtotal_cents"`
}

type CartView struct {
	UserID     uuid.UUID      `json:"user_id"`
	Lines      []CartLineView `json:"lines"`
	TotalCents int64          `json:"total_cents"`
}

type OrderLineView struct {
	ProductID     uuid.UUID `json:"product_id"`
	ProductName   string    `json:"product_name"`
	UnitPrice     int64     `json:"unit_price_cents"`
	Quantity      int       `json:"quantity"`
	SubtotalCents int64     `json:"subtotal_cents"`
}

type OrderView struct {
	ID          uuid.UUID       `json:"id"`
	Number      string          `json:"number"`
	UserID      uuid.UUID       `json:"user_id"`
	Status      order.Status    `json:"status"`
	TotalCents  int64           `json:"total_cents"`
	Lines       []OrderLineView `json:"lines"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	ShippedAt   *time.Time      `json:"shipped_at,omitempty"`
	DeliveredAt *time.Time      `json:"delivered_at,omitempty"`
	CancelledAt *time.Time      `json:"cancelled_at,omitempty"`
}

type OrderSummaryView struct {
	ID         uuid.UUID    `json:"id"`
	Number     string       `json:"number"`
	Status     order.Status `json:"status"`
	TotalCents int64        `json:"total_cents"`
	CreatedAt  time.Time    `json:"created_at"`
}

// OrderViewFromEntity builds the read model straight from the aggregate.
// Command handlers use it for read-after-write responses without a second
// round trip to the read store.
func OrderViewFromEntity(o *order.Order) *OrderView {
	lines := make([]OrderLineView, 0, len(o.Lines()))
	for _, l := range o.Lines() {
		lines = append(lines, OrderLineView{
			ProductID:     l.ProductID,
			ProductName:   l.ProductName,
			UnitPrice:     l.UnitPriceCents,
			Quantity:      l.Quantity,
			SubtotalCents: l.SubtotalCents(),
		})
	}
	return &OrderView{
		ID:          o.ID(),
		Number:      o.Number(),
		UserID:      o.UserID(),
		Status:      o.Status(),
		TotalCents:  o.TotalCents(),
		Lines:       lines,
		CreatedAt:   o.CreatedAt(),
		UpdatedAt:   o.UpdatedAt(),
		ShippedAt:   o.ShippedAt(),
		DeliveredAt: o.DeliveredAt(),
		CancelledAt: o.CancelledAt(),
	}
}

package events

import (
	"time"

	"storefront/internal/domain/order"

	"github.com/google/uuid"
)

type Type string

const (
	TypeOrderCreated Type = "order_created"
	TypeOrderUpdated Type = "order_updated"
)

// Event describes one order transition. OldStatus is empty for creation.
type Event struct {
	Type        Type         `json:"type"`
	OrderID     uuid.UUID    `json:"order_id"`
	OrderNumber string       `json:"order_number"`
	UserID      uuid.UUID    `json:"user_id"`
	OldStatus   order.Status `json:"old_status,omitempty"`
	NewStatus   order.Status `json:"new_status"`
	TotalCents  int64        `json:"total_cents"`
	Message     string       `json:"message"`
	OccurredAt  time.Time    `json:"occurred_at"`
}

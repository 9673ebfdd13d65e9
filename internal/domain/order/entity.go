package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNoLines      = errors.New("order must have at least one line")
	ErrInvalidLine  = errors.New("order line quantity must be positive")
	ErrInvalidActor = errors.New("actor must not be empty")
)

// Line snapshots the product at order time. Name and unit price are copied so
// later catalog edits do not rewrite history.
type Line struct {
	ProductID      uuid.UUID
	ProductName    string
	UnitPriceCents int64
	Quantity       int
}

func (l Line) SubtotalCents() int64 {
	return l.UnitPriceCents * int64(l.Quantity)
}

// StatusChange records one transition for the audit trail.
type StatusChange struct {
	From      Status
	To        Status
	Actor     string
	ChangedAt time.Time
}

// Order is created atomically from a non-empty cart. Line items are immutable
// after creation; status is the only mutable field.
type Order struct {
	id          uuid.UUID
	number      string
	userID      uuid.UUID
	lines       []Line
	totalCents  int64
	status      Status
	history     []StatusChange
	createdAt   time.Time
	updatedAt   time.Time
	shippedAt   *time.Time
	deliveredAt *time.Time
	cancelledAt *time.Time
}

func New(userID uuid.UUID, sequence int64, lines []Line, now time.Time) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrNoLines
	}

	var total int64
	copied := make([]Line, len(lines))
	for i, l := range lines {
		if l.Quantity <= 0 {
			return nil, ErrInvalidLine
		}
		if l.UnitPriceCents < 0 {
			return nil, ErrInvalidLine
		}
		copied[i] = l
		total += l.SubtotalCents()
	}

	return &Order{
		id:         uuid.New(),
		number:     FormatNumber(sequence),
		userID:     userID,
		lines:      copied,
		totalCents: total,
		status:     StatusPending,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

func Reconstruct(
	id uuid.UUID,
	number string,
	userID uuid.UUID,
	lines []Line,
	totalCents int64,
	status Status,
	history []StatusChange,
	createdAt, updatedAt time.Time,
	shippedAt, deliveredAt, cancelledAt *time.Time,
) *Order {
	return &Order{
		id:          id,
		number:      number,
		userID:      userID,
		lines:       lines,
		totalCents:  totalCents,
		status:      status,
		history:     history,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		shippedAt:   shippedAt,
		deliveredAt: deliveredAt,
		cancelledAt: cancelledAt,
	}
}

// Transition validates against the state table and stamps the transition
// time. Authorization is the caller's concern; only the table is enforced
// here.
func (o *Order) Transition(to Status, actor string, now time.Time) error {
	if actor == "" {
		return ErrInvalidActor
	}
	if !to.IsValid() || !o.status.CanTransitionTo(to) {
		return ErrInvalidTransition
	}

	from := o.status
	o.status = to
	o.updatedAt = now
	o.history = append(o.history, StatusChange{
		From:      from,
		To:        to,
		Actor:     actor,
		ChangedAt: now,
	})

	switch to {
	case StatusShipped:
		o.shippedAt = &now
	case StatusDelivered:
		o.deliveredAt = &now
	case StatusCancelled:
		o.cancelledAt = &now
	}
	return nil
}

func FormatNumber(sequence int64) string {
	return fmt.Sprintf("ORD-%06d", sequence)
}

func (o *Order) ID() uuid.UUID           { return o.id }
func (o *Order) Number() string          { return o.number }
func (o *Order) UserID() uuid.UUID       { return o.userID }
func (o *Order) TotalCents() int64       { return o.totalCents }
func (o *Order) Status() Status          { return o.status }
func (o *Order) CreatedAt() time.Time    { return o.createdAt }
func (o *Order) UpdatedAt() time.Time    { return o.updatedAt }
func (o *Order) ShippedAt() *time.Time   { return o.shippedAt }
func (o *Order) DeliveredAt() *time.Time { return o.deliveredAt }
func (o *Order) CancelledAt() *time.Time { return o.cancelledAt }

func (o *Order) Lines() []Line {
	out := make([]Line, len(o.lines))
	copy(out, o.lines)
	return out
}

func (o *Order) History() []StatusChange {
	out := make([]StatusChange, len(o.history))
	copy(out, o.history)
	return out
}

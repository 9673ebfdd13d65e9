//go:build unit

package order_test

import (
	"testing"
	"time"

	"storefront/internal/domain/order"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testLines() []order.Line {
	return []order.Line{
		{ProductID: uuid.New(), ProductName: "Keyboard", UnitPriceCents: 4999, Quantity: 2},
		{ProductID: uuid.New(), ProductName: "Mouse", UnitPriceCents: 1999, Quantity: 1},
	}
}

func TestNewOrder(t *testing.T) {
	userID := uuid.New()

	t.Run("creates pending order with computed total", func(t *testing.T) {
		o, err := order.New(userID, 42, testLines(), now)
		require.NoError(t, err)

		assert.Equal(t, order.StatusPending, o.Status())
		assert.Equal(t, "ORD-000042", o.Number())
		assert.Equal(t, int64(2*4999+1999), o.TotalCents())
		assert.Equal(t, userID, o.UserID())
		assert.Empty(t, o.History())
	})

	t.Run("rejects empty line set", func(t *testing.T) {
		_, err := order.New(userID, 1, nil, now)
		assert.ErrorIs(t, err, order.ErrNoLines)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		lines := testLines()
		lines[0].Quantity = 0
		_, err := order.New(userID, 1, lines, now)
		assert.ErrorIs(t, err, order.ErrInvalidLine)
	})

	t.Run("rejects negative unit price", func(t *testing.T) {
		lines := testLines()
		lines[1].UnitPriceCents = -1
		_, err := order.New(userID, 1, lines, now)
		assert.ErrorIs(t, err, order.ErrInvalidLine)
	})
}

func TestOrderTransitions(t *testing.T) {
	newOrder := func(t *testing.T) *order.Order {
		t.Helper()
		o, err := order.New(uuid.New(), 1, testLines(), now)
		require.NoError(t, err)
		return o
	}

	t.Run("pending to shipped to delivered", func(t *testing.T) {
		o := newOrder(t)

		require.NoError(t, o.Transition(order.StatusShipped, "admin-1", now.Add(time.Hour)))
		assert.Equal(t, order.StatusShipped, o.Status())
		require.NotNil(t, o.ShippedAt())

		require.NoError(t, o.Transition(order.StatusDelivered, "admin-1", now.Add(2*time.Hour)))
		assert.Equal(t, order.StatusDelivered, o.Status())
		require.NotNil(t, o.DeliveredAt())

		history := o.History()
		require.Len(t, history, 2)
		assert.Equal(t, order.StatusPending, history[0].From)
		assert.Equal(t, order.StatusShipped, history[0].To)
		assert.Equal(t, order.StatusShipped, history[1].From)
		assert.Equal(t, order.StatusDelivered, history[1].To)
	})

	t.Run("pending to cancelled", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.Transition(order.StatusCancelled, "customer-1", now.Add(time.Minute)))
		assert.Equal(t, order.StatusCancelled, o.Status())
		require.NotNil(t, o.CancelledAt())
	})

	t.Run("shipped orders cannot be cancelled", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.Transition(order.StatusShipped, "admin-1", now))
		assert.ErrorIs(t, o.Transition(order.StatusCancelled, "customer-1", now), order.ErrInvalidTransition)
	})

	t.Run("terminal states accept nothing", func(t *testing.T) {
		delivered := newOrder(t)
		require.NoError(t, delivered.Transition(order.StatusShipped, "a", now))
		require.NoError(t, delivered.Transition(order.StatusDelivered, "a", now))
		for _, to := range []order.Status{order.StatusPending, order.StatusShipped, order.StatusCancelled} {
			assert.ErrorIs(t, delivered.Transition(to, "a", now), order.ErrInvalidTransition)
		}

		cancelled := newOrder(t)
		require.NoError(t, cancelled.Transition(order.StatusCancelled, "a", now))
		for _, to := range []order.Status{order.StatusPending, order.StatusShipped, order.StatusDelivered} {
			assert.ErrorIs(t, cancelled.Transition(to, "a", now), order.ErrInvalidTransition)
		}
	})

	t.Run("no self transition", func(t *testing.T) {
		o := newOrder(t)
		assert.ErrorIs(t, o.Transition(order.StatusPending, "a", now), order.ErrInvalidTransition)
	})

	t.Run("requires an actor", func(t *testing.T) {
		o := newOrder(t)
		assert.ErrorIs(t, o.Transition(order.StatusShipped, "", now), order.ErrInvalidActor)
	})

	t.Run("failed transition leaves state untouched", func(t *testing.T) {
		o := newOrder(t)
		_ = o.Transition(order.StatusDelivered, "a", now)
		assert.Equal(t, order.StatusPending, o.Status())
		assert.Empty(t, o.History())
	})
}

func TestStatusTable(t *testing.T) {
	assert.True(t, order.StatusPending.CanTransitionTo(order.StatusShipped))
	assert.True(t, order.StatusPending.CanTransitionTo(order.StatusCancelled))
	assert.True(t, order.StatusShipped.CanTransitionTo(order.StatusDelivered))
	assert.False(t, order.StatusShipped.CanTransitionTo(order.StatusCancelled))
	assert.False(t, order.StatusDelivered.CanTransitionTo(order.StatusShipped))
	assert.False(t, order.StatusCancelled.CanTransitionTo(order.StatusPending))

	assert.True(t, order.StatusDelivered.IsTerminal())
	assert.True(t, order.StatusCancelled.IsTerminal())
	assert.False(t, order.StatusPending.IsTerminal())
	assert.False(t, order.StatusShipped.IsTerminal())
}

func TestParseStatus(t *testing.T) {
	s, err := order.ParseStatus("shipped")
	require.NoError(t, err)
	assert.Equal(t, order.StatusShipped, s)

	_, err = order.ParseStatus("returned")
	assert.Error(t, err)
}

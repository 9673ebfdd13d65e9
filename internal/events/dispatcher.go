package events

import (
	"context"
	"log/slog"
)

// Dispatcher selects the audience for each event and fans it out through the
// hub. Publish never blocks and never returns an error: an order transition
// that has been persisted is not rolled back because a notification failed.
type Dispatcher struct {
	hub                 *Hub
	notifyAdminOnUpdate bool
	logger              *slog.Logger
}

func NewDispatcher(hub *Hub, notifyAdminOnUpdate bool, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		hub:                 hub,
		notifyAdminOnUpdate: notifyAdminOnUpdate,
		logger:              logger,
	}
}

// Publish delivers ev to the owning user's subscriptions, plus the admin
// channel for order creation. Admins saw the creation already, so status
// updates skip them unless NotifyAdminOnUpdate is set.
func (d *Dispatcher) Publish(_ context.Context, ev Event) {
	includeAdmins := ev.Type == TypeOrderCreated || d.notifyAdminOnUpdate

	d.hub.broadcast(ev, func(sub *Subscription) bool {
		if sub.userID == ev.UserID {
			return true
		}
		return sub.admin && includeAdmins
	})

	d.logger.Debug("event published",
		"type", string(ev.Type),
		"order_id", ev.OrderID,
		"new_status", string(ev.NewStatus),
	)
}

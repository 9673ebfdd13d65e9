package events

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Subscription is one connected listener. Ephemeral: created on connect,
// destroyed on disconnect, never persisted. Events raised while disconnected
// are not replayed.
type Subscription struct {
	ch     chan Event
	userID uuid.UUID
	admin  bool
}

// Events is the receive side; it is closed by Unsubscribe.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

func (s *Subscription) IsAdmin() bool {
	return s.admin
}

// Hub owns the set of live subscriptions. Sends happen under the hub lock
// and are strictly non-blocking, so closing a channel in Unsubscribe cannot
// race a send.
type Hub struct {
	mu     sync.Mutex
	subs   map[*Subscription]struct{}
	buffer int
	logger *slog.Logger
}

func NewHub(buffer int, logger *slog.Logger) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{
		subs:   make(map[*Subscription]struct{}),
		buffer: buffer,
		logger: logger,
	}
}

func (h *Hub) Subscribe(userID uuid.UUID) *Subscription {
	return h.add(&Subscription{
		ch:     make(chan Event, h.buffer),
		userID: userID,
	})
}

// SubscribeAdmin registers a listener for the admin channel. Admin
// subscribers also carry their own user identity so per-user events reach
// them when they are the order's owner.
func (h *Hub) SubscribeAdmin(userID uuid.UUID) *Subscription {
	return h.add(&Subscription{
		ch:     make(chan Event, h.buffer),
		userID: userID,
		admin:  true,
	})
}

func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subs[sub]; !ok {
		return
	}
	delete(h.subs, sub)
	close(sub.ch)
}

func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) add(sub *Subscription) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs[sub] = struct{}{}
	return sub
}

// broadcast delivers ev to every subscription selected by the audience
// filter. At-most-once per connected subscriber: a full channel drops the
// event for that subscriber instead of blocking the caller.
func (h *Hub) broadcast(ev Event, include func(*Subscription) bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs {
		if !include(sub) {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			h.logger.Warn("event dropped for slow subscriber",
				"order_id", ev.OrderID,
				"type", string(ev.Type),
				"subscriber_admin", sub.admin,
			)
		}
	}
}

package api

import (
	"io"
	"net/http"

	"storefront/internal/events"
	"storefront/internal/handler/httperr"
	"storefront/internal/handler/middleware"

	"github.com/gin-gonic/gin"
)

type EventsHandler struct {
	hub *events.Hub
}

func NewEventsHandler(hub *events.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

// Stream pushes order events to the caller over SSE. The subscription lives
// for the duration of the connection; events raised before connect or after
// disconnect are not replayed.
func (h *EventsHandler) Stream(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}

	var sub *events.Subscription
	if middleware.IsAdmin(c) {
		sub = h.hub.SubscribeAdmin(userID)
	} else {
		sub = h.hub.Subscribe(userID)
	}
	defer h.hub.Unsubscribe(sub)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Flush()

	clientGone := c.Request.Context().Done()
	c.Stream(func(_ io.Writer) bool {
		select {
		case ev, open := <-sub.Events():
			if !open {
				return false
			}
			c.SSEvent(string(ev.Type), ev)
			return true
		case <-clientGone:
			return false
		}
	})
}

// file: internal/handlers/event_feed_handler.go
package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"personahub/internal/contextutils"
	"personahub/internal/events"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS middleware enforces origins on the upgrade request
	},
}

const (
	feedWriteTimeout = 10 * time.Second
	feedSendBuffer   = 32
)

// feedClient is one connected websocket consumer
type feedClient struct {
	conn      *websocket.Conn
	accountID int64
	send      chan events.Event
}

// EventFeedHandler streams domain events to authenticated websocket clients.
// Each client only receives events addressed to its own account, plus
// account-less events such as content and engagement activity.
type EventFeedHandler struct {
	*Base
	bus events.EventBus

	mu      sync.Mutex
	clients map[*feedClient]struct{}
}

// NewEventFeedHandler creates the feed handler and subscribes it to the bus
func NewEventFeedHandler(base *Base, bus events.EventBus) (*EventFeedHandler, error) {
	h := &EventFeedHandler{
		Base:    base,
		bus:     bus,
		clients: make(map[*feedClient]struct{}),
	}

	handler := events.NewEventHandlerFunc("event-feed", func(ctx context.Context, event events.Event) error {
		h.broadcast(event)
		return nil
	})
	if err := bus.SubscribePattern("*", handler); err != nil {
		return nil, err
	}

	return h, nil
}

// Serve handles GET /api/v1/events/feed
func (h *EventFeedHandler) Serve(w http.ResponseWriter, r *http.Request) {
	accountID := contextutils.GetAccountID(r.Context())
	if accountID == 0 {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed",
			zap.Int64("account_id", accountID),
			zap.Error(err),
		)
		return
	}

	client := &feedClient{
		conn:      conn,
		accountID: accountID,
		send:      make(chan events.Event, feedSendBuffer),
	}

	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()

	h.logger.Info("event feed client connected", zap.Int64("account_id", accountID))

	go h.writeLoop(client)
	h.readLoop(client)
}

// readLoop drains control frames until the client goes away
func (h *EventFeedHandler) readLoop(client *feedClient) {
	defer func() {
		h.mu.Lock()
		delete(h.clients, client)
		h.mu.Unlock()

		close(client.send)
		client.conn.Close()

		h.logger.Info("event feed client disconnected", zap.Int64("account_id", client.accountID))
	}()

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *EventFeedHandler) writeLoop(client *feedClient) {
	for event := range client.send {
		client.conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
		if err := client.conn.WriteJSON(event); err != nil {
			h.logger.Debug("event feed write failed",
				zap.Int64("account_id", client.accountID),
				zap.Error(err),
			)
			client.conn.Close()
			return
		}
	}
}

// broadcast fans an event out to every eligible client, dropping it for
// clients whose buffers are full rather than blocking the bus worker
func (h *EventFeedHandler) broadcast(event events.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		if !eligible(client, event) {
			continue
		}
		select {
		case client.send <- event:
		default:
			h.logger.Warn("event feed buffer full, dropping event",
				zap.Int64("account_id", client.accountID),
				zap.String("event_type", event.GetEventType()),
			)
		}
	}
}

// eligible reports whether the event may be delivered to the client.
// Account-scoped events go only to their own account.
func eligible(client *feedClient, event events.Event) bool {
	if owner := event.GetAccountID(); owner != nil {
		return *owner == client.accountID
	}
	return true
}

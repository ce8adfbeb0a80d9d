package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/kanban/internal/dispatch"
	redisstore "github.com/gosuda/kanban/internal/store/redis"
)

const publishTimeout = 2 * time.Second

// Hub streams board events to WebSocket clients through a Broker.
type Hub struct {
	broker  Broker
	channel string
}

// NewHub creates a new WebSocket hub.
func NewHub(broker Broker) *Hub {
	return &Hub{broker: broker, channel: redisstore.BoardEventsChannel}
}

// Listener publishes one BoardEvent per applied action, no-ops included.
func (h *Hub) Listener(ctx context.Context) dispatch.Listener {
	return func(res dispatch.Result) {
		pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()
		if err := h.Publish(pubCtx, EventFromResult(res)); err != nil {
			log.Warn().Err(err).Uint64("version", res.Version).Msg("publish board event")
		}
	}
}

// Publish sends ev to every subscriber.
func (h *Hub) Publish(ctx context.Context, ev BoardEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("ws.Hub.Publish: marshal: %w", err)
	}
	if err := h.broker.Publish(ctx, h.channel, payload); err != nil {
		return fmt.Errorf("ws.Hub.Publish: %w", err)
	}
	return nil
}

// ServeBoard handles WebSocket connections for board updates. Clients only
// receive; anything they send is discarded.
func (h *Hub) ServeBoard(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	ctx := conn.CloseRead(r.Context())

	messages, cleanup, err := h.broker.Subscribe(ctx, h.channel)
	if err != nil {
		log.Error().Err(err).Msg("websocket subscribe")
		_ = conn.Close(websocket.StatusInternalError, "subscribe failed")
		return
	}
	defer cleanup()

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "connection closed")
			return
		case msg, msgOK := <-messages:
			if !msgOK {
				_ = conn.Close(websocket.StatusNormalClosure, "channel closed")
				return
			}
			if writeErr := conn.Write(ctx, websocket.MessageText, msg); writeErr != nil {
				log.Debug().Err(writeErr).Msg("websocket write")
				return
			}
		}
	}
}

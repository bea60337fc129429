package serverapp

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"nuevoser/internal/model"
)

// EventHub fans engine events out to WebSocket subscribers. It satisfies
// game.Events; broadcasts never block the engine, a slow subscriber just
// loses events.
type EventHub struct {
	logger   *log.Logger
	upgrader websocket.Upgrader

	mu   sync.Mutex
	subs map[chan []byte]struct{}
}

func NewEventHub(logger *log.Logger) *EventHub {
	if logger == nil {
		logger = log.Default()
	}
	return &EventHub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 4 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
		subs: map[chan []byte]struct{}{},
	}
}

type wsEvent struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

func (h *EventHub) MissionResolved(m model.Mission, success bool, rewards model.Rewards) {
	h.broadcast(wsEvent{Type: "mission_resolved", Payload: map[string]any{
		"mission": m,
		"success": success,
		"rewards": rewards,
	}})
}

func (h *EventHub) BeingRecovered(b model.Being) {
	h.broadcast(wsEvent{Type: "being_recovered", Payload: map[string]any{
		"being": b,
	}})
}

func (h *EventHub) broadcast(ev wsEvent) {
	b, err := json.Marshal(ev)
	if err != nil {
		h.logger.Printf("warn: encode ws event: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for out := range h.subs {
		select {
		case out <- b:
		default:
			// Subscriber is behind; drop rather than stall the engine.
		}
	}
}

func (h *EventHub) subscribe() chan []byte {
	out := make(chan []byte, 32)
	h.mu.Lock()
	h.subs[out] = struct{}{}
	h.mu.Unlock()
	return out
}

func (h *EventHub) unsubscribe(out chan []byte) {
	h.mu.Lock()
	delete(h.subs, out)
	h.mu.Unlock()
}

// Handler upgrades the connection and streams events until the client
// goes away. Inbound messages are ignored; the feed is one-way.
func (h *EventHub) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		out := h.subscribe()
		defer h.unsubscribe(out)

		done := make(chan struct{})

		// Reader loop only watches for the close.
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-done:
				return
			case b := <-out:
				_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					return
				}
			}
		}
	}
}

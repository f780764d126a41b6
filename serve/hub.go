// Package serve exposes agent runs over HTTP: a POST endpoint that executes a
// run and a websocket stream that broadcasts run events to connected clients.
package serve

import (
	"sync"

	"github.com/gorilla/websocket"

	"github.com/couloir/workbench/agent"
	"github.com/couloir/workbench/logging"
)

// Hub fans agent events out to websocket subscribers. Slow subscribers drop
// events rather than stalling the run.
type Hub struct {
	mu      sync.Mutex
	clients map[*subscriber]struct{}
	closed  bool
}

type subscriber struct {
	conn *websocket.Conn
	send chan agent.Event
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*subscriber]struct{})}
}

// Broadcast delivers an event to every subscriber.
func (h *Hub) Broadcast(event agent.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.clients {
		select {
		case sub.send <- event:
		default:
		}
	}
}

// Subscribe attaches a websocket connection and starts its write pump. The
// connection is owned by the hub from this point on.
func (h *Hub) Subscribe(conn *websocket.Conn) {
	sub := &subscriber{conn: conn, send: make(chan agent.Event, 64)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[sub] = struct{}{}
	h.mu.Unlock()

	go h.writePump(sub)
	go h.readPump(sub)
}

func (h *Hub) writePump(sub *subscriber) {
	for event := range sub.send {
		if err := sub.conn.WriteJSON(event); err != nil {
			logging.Named("serve").Debug("subscriber write failed", "error", err)
			h.drop(sub)
			return
		}
	}
	sub.conn.Close()
}

// readPump discards inbound frames and detects disconnects.
func (h *Hub) readPump(sub *subscriber) {
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			h.drop(sub)
			return
		}
	}
}

func (h *Hub) drop(sub *subscriber) {
	h.mu.Lock()
	_, present := h.clients[sub]
	if present {
		delete(h.clients, sub)
	}
	h.mu.Unlock()
	if present {
		close(sub.send)
	}
	sub.conn.Close()
}

// Count returns the number of connected subscribers.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for sub := range h.clients {
		close(sub.send)
		delete(h.clients, sub)
	}
}

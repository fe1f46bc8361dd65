// Package wsevents relays a game's event.Bus output to websocket clients.
// It is an optional, out-of-core transport adapter: nothing under
// internal/engine imports it, keeping the core free of any network
// dependency (spec §1's "the core is a library, not a service" and §6's
// command/query surface being plain Go calls). There is no teacher file to
// ground the wire protocol on directly; the connection-registry and
// broadcast-loop shape follows the common gorilla/websocket hub pattern
// (one goroutine per connection pumping from a buffered channel) used
// wherever that library appears across the example pack.
package wsevents

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lox/holdem-engine/internal/event"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wireEvent is the JSON shape sent to clients. Data is passed through as-is;
// handlers on the core side only ever populate it with JSON-marshalable
// values (strings, numbers, and slices of those or of plain structs such as
// cards and winner records).
type wireEvent struct {
	Type      event.Type     `json:"type"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Hub fans out every event published on a Bus to connected websocket
// clients. Zero value is not usable; construct with NewHub.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan wireEvent
}

// NewHub creates a Hub and subscribes it to bus's wildcard event stream at
// priority 0. The subscription lives for the process lifetime of bus; there
// is no Close because a Bus itself is never torn down mid-process in this
// engine's lifecycle.
func NewHub(bus *event.Bus) *Hub {
	h := &Hub{clients: make(map[*client]struct{})}
	bus.Subscribe(event.Any, 0, nil, h.broadcast)
	return h
}

func (h *Hub) broadcast(evt event.Event) {
	wire := wireEvent{Type: evt.Type, Data: evt.Data, Timestamp: evt.Timestamp}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- wire:
		default:
			// slow consumer: drop rather than block event dispatch
		}
	}
}

// ServeHTTP upgrades the request to a websocket and streams subsequently
// published events to it until a write fails. Events that arrive while the
// client's 64-event buffer is full are dropped (see broadcast).
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	c := &client{conn: conn, send: make(chan wireEvent, 64)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, c)
		h.mu.Unlock()
		conn.Close()
	}()

	for evt := range c.send {
		payload, err := json.Marshal(evt)
		if err != nil {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

// ClientCount reports how many websocket clients are currently connected,
// mostly useful in tests.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Package statefeed pushes monitoring state snapshots to dashboard
// clients over WebSocket and relays their commands back to the session.
package statefeed

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/angelstreet/automai-sub009/pkg/monitor"
	"github.com/angelstreet/automai-sub009/pkg/ports"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 16
)

// Command is a dashboard request received over the feed socket.
type Command struct {
	Action  string `json:"action"`
	Index   int    `json:"index,omitempty"`
	Variant string `json:"variant,omitempty"`
}

// CommandFunc handles one dashboard command.
type CommandFunc func(Command)

// Hub fans monitoring state snapshots out to connected clients. A client
// that cannot keep up has stale snapshots dropped in its favor; only the
// latest state matters to a dashboard.
type Hub struct {
	log       ports.Logger
	upgrader  websocket.Upgrader
	onCommand CommandFunc

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool

	// last is the most recent snapshot, replayed to newly connected
	// clients so they render immediately.
	last []byte
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// New creates an empty hub.
func New(log ports.Logger) *Hub {
	return &Hub{
		log:     log.WithComponent("statefeed"),
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// SetCommandFunc registers the handler for inbound dashboard commands.
// Must be called before Handler is served.
func (h *Hub) SetCommandFunc(f CommandFunc) {
	h.onCommand = f
}

// Handler returns the HTTP handler that upgrades dashboard connections.
func (h *Hub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.log.Warn("WebSocket upgrade failed: %s", err)
			return
		}

		c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

		h.mu.Lock()
		if h.closed {
			h.mu.Unlock()
			conn.Close()
			return
		}
		h.clients[c] = struct{}{}
		if h.last != nil {
			c.send <- h.last
		}
		h.mu.Unlock()

		h.log.Debug("Dashboard client connected (%s)", conn.RemoteAddr())
		go h.writePump(c)
		go h.readPump(c)
	}
}

// Broadcast implements monitor.UpdateFunc: it serializes the snapshot
// once and queues it to every connected client.
func (h *Hub) Broadcast(state monitor.MonitoringState) {
	data, err := json.Marshal(state)
	if err != nil {
		h.log.Warn("Failed to encode state snapshot: %s", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.last = data
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Slow client: drop one stale snapshot to make room.
			select {
			case <-c.send:
			default:
			}
			select {
			case c.send <- data:
			default:
			}
		}
	}
}

// ClientCount returns the number of connected dashboard clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and rejects new connections.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for c := range h.clients {
		close(c.send)
	}
	h.clients = nil
}

func (h *Hub) readPump(c *client) {
	defer h.drop(c)

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if h.onCommand == nil {
			continue
		}
		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil || cmd.Action == "" {
			h.log.Debug("Ignoring malformed dashboard message: %s", data)
			continue
		}
		h.onCommand(cmd)
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// drop removes a client after its connection ends.
func (h *Hub) drop(c *client) {
	c.conn.Close()

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		h.log.Debug("Dashboard client disconnected (%s)", c.conn.RemoteAddr())
	}
}

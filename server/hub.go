package server

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// client is one websocket connection with its own write goroutine.
type client struct {
	conn *websocket.Conn
	send chan Envelope
}

// hub fans broadcasts out to every connected client.
// Slow clients drop frames instead of stalling the broadcaster.
type hub struct {
	mu           sync.Mutex
	clients      map[*client]struct{}
	writeTimeout time.Duration
}

func newHub(writeTimeout time.Duration) *hub {
	if writeTimeout <= 0 {
		writeTimeout = 2 * time.Second
	}
	return &hub{clients: make(map[*client]struct{}), writeTimeout: writeTimeout}
}

func (h *hub) register(conn *websocket.Conn) *client {
	c := &client{conn: conn, send: make(chan Envelope, 16)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	slog.Info("client connected", "remote", conn.RemoteAddr().String(), "clients", n)
	go h.writePump(c)
	return c
}

func (h *hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()

	slog.Info("client disconnected", "remote", c.conn.RemoteAddr().String(), "clients", n)
}

// broadcast queues env for every client.
func (h *hub) broadcast(env Envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- env:
		default:
			// Client is behind; skip this message
		}
	}
}

// sendTo queues env for one client.
func (h *hub) sendTo(c *client, env Envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- env:
	default:
	}
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *hub) writePump(c *client) {
	defer c.conn.Close()
	for env := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
		if err := c.conn.WriteJSON(env); err != nil {
			slog.Debug("websocket write failed", "error", err)
			return
		}
	}
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(h.writeTimeout))
}

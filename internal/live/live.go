// Package live pushes the session snapshot to connected UIs over websockets
// so every screen re-renders as soon as an operation lands.
package live

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"courtflow/internal/session"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Conn is the send side of one connected client. Faked in tests.
type Conn interface {
	Send(b []byte) error
	Close() error
}

// Hub tracks connected clients and fans the snapshot out to all of them.
type Hub struct {
	mu      sync.Mutex
	clients map[string]Conn
}

func NewHub() *Hub {
	return &Hub{clients: map[string]Conn{}}
}

// Add registers a client and returns its id.
func (h *Hub) Add(conn Conn) string {
	id := uuid.New().String()
	h.mu.Lock()
	h.clients[id] = conn
	h.mu.Unlock()
	slog.Info("live client connected", "client", id)
	return id
}

// Remove drops a client. Safe to call for an already-removed id.
func (h *Hub) Remove(id string) {
	h.mu.Lock()
	conn, ok := h.clients[id]
	if ok {
		delete(h.clients, id)
	}
	h.mu.Unlock()
	if ok {
		conn.Close()
		slog.Info("live client disconnected", "client", id)
	}
}

// Count returns how many clients are connected.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast sends the snapshot to every client. Clients that fail to take
// the write are dropped; a dead browser tab must not wedge the session.
func (h *Hub) Broadcast(snap *session.Snapshot) {
	raw, err := json.Marshal(snap)
	if err != nil {
		slog.Error("Error encoding snapshot for broadcast", "error", err.Error())
		return
	}

	h.mu.Lock()
	targets := make(map[string]Conn, len(h.clients))
	for id, conn := range h.clients {
		targets[id] = conn
	}
	h.mu.Unlock()

	for id, conn := range targets {
		if err := conn.Send(raw); err != nil {
			slog.Error("Error writing to live client, dropping it", "client", id, "error", err.Error())
			h.Remove(id)
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsConn adapts a gorilla connection to the Conn interface. Writes are
// serialized; gorilla allows only one concurrent writer.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) Send(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}

// Serve upgrades the request, sends the current snapshot so the client can
// render immediately, then holds the connection open until the client goes
// away. Blocks for the lifetime of the connection.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, snap *session.Snapshot) error {
	raw, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Error upgrading live connection", "error", err.Error())
		return err
	}

	conn := &wsConn{conn: raw}
	if initial, err := json.Marshal(snap); err == nil {
		conn.Send(initial)
	}
	id := h.Add(conn)
	defer h.Remove(id)

	// Clients never send anything meaningful; the read loop just notices
	// the close.
	for {
		if _, _, err := raw.ReadMessage(); err != nil {
			return nil
		}
	}
}

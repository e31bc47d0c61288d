// Package livehub pushes a small notice to every open dashboard tab when a
// new snapshot is committed, so pages can reload without polling.
package livehub

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dalemusser/hygienedash/internal/app/system/dataset"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

// Event is the message sent after each commit.
type Event struct {
	Seq       uint64    `json:"seq"`
	Stale     bool      `json:"stale"`
	FetchedAt time.Time `json:"fetched_at"`
}

// EventFor builds the notice for a snapshot.
func EventFor(s dataset.Snapshot) Event {
	return Event{Seq: s.Seq, Stale: s.Stale, FetchedAt: s.FetchedAt}
}

// Client is one websocket connection.
type Client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks clients and fans out events. All client bookkeeping happens on
// the Run goroutine.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	last       []byte
	log        *zap.Logger
}

// New returns a hub; call Run to start it.
func New(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 8),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        logger,
	}
}

// Run serves the hub until ctx ends, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			return
		case c := <-h.register:
			h.clients[c] = true
			if h.last != nil {
				c.send <- h.last
			}
			h.log.Debug("live client registered", zap.Int("clients", len(h.clients)))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.log.Debug("live client unregistered", zap.Int("clients", len(h.clients)))
			}
		case msg := <-h.broadcast:
			h.last = msg
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					close(c.send)
					delete(h.clients, c)
				}
			}
		}
	}
}

// Publish queues an event for every client. It never blocks; when the
// queue is full the event is dropped, since a later one supersedes it.
func (h *Hub) Publish(s dataset.Snapshot) {
	msg, err := json.Marshal(EventFor(s))
	if err != nil {
		h.log.Error("encode live event", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn("live event dropped", zap.Uint64("seq", s.Seq))
	}
}

// Attach registers conn with the hub and starts its pumps. ctx bounds the
// registration handshake only.
func (h *Hub) Attach(ctx context.Context, conn *websocket.Conn) bool {
	c := &Client{conn: conn, send: make(chan []byte, sendBuffer)}
	select {
	case h.register <- c:
	case <-ctx.Done():
		conn.Close()
		return false
	case <-h.done:
		conn.Close()
		return false
	}
	go c.writePump()
	go c.readPump(h)
	return true
}

// readPump discards client messages and notices disconnects.
func (c *Client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

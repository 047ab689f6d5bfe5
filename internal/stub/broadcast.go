package stub

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

func newWSClient(conn *websocket.Conn) *wsClient {
	c := &wsClient{
		conn: conn,
		send: make(chan []byte, 64),
	}
	go c.writePump()
	return c
}

func (c *wsClient) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

func (c *wsClient) close() {
	close(c.send)
}

// Broadcaster fans domain events out to every connected socket client.
type Broadcaster struct {
	mu      sync.RWMutex
	clients map[*wsClient]bool
	log     zerolog.Logger
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster(log zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		clients: make(map[*wsClient]bool),
		log:     log,
	}
}

// AddClient registers a connection and starts its write pump.
func (b *Broadcaster) AddClient(conn *websocket.Conn) *wsClient {
	c := newWSClient(conn)
	b.mu.Lock()
	b.clients[c] = true
	b.mu.Unlock()
	return c
}

// RemoveClient unregisters and closes a connection.
func (b *Broadcaster) RemoveClient(c *wsClient) {
	b.mu.Lock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		c.close()
	}
	b.mu.Unlock()
}

// Broadcast sends one named event, with payload, to every client. A client
// whose send buffer is full is disconnected rather than blocked on.
func (b *Broadcaster) Broadcast(event string, payload any) {
	msg := struct {
		Event   string `json:"event"`
		Payload any    `json:"payload,omitempty"`
	}{Event: event, Payload: payload}

	data, err := json.Marshal(msg)
	if err != nil {
		b.log.Error().Err(err).Str("event", event).Msg("broadcast marshal")
		return
	}

	b.mu.RLock()
	clients := make([]*wsClient, 0, len(b.clients))
	for c := range b.clients {
		clients = append(clients, c)
	}
	b.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- data:
		default:
			b.log.Warn().Msg("ws client too slow, disconnecting")
			b.RemoveClient(c)
		}
	}
}

// ClientCount returns the number of connected clients.
func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	reconnectBaseDelay = 1 * time.Second
	reconnectMaxDelay  = 30 * time.Second
	writeTimeout       = 10 * time.Second
	pongTimeout        = 60 * time.Second
	pingInterval       = 30 * time.Second
)

// Client is the WebSocket transport to the listing-service event stream.
// Reconnect policy (backoff, redial) lives here; the Manager above it only
// opens and closes.
type Client struct {
	url   string
	token string
	log   zerolog.Logger

	mu      sync.Mutex
	writeMu sync.Mutex // serialises conn writes (pings)
	conn    *websocket.Conn
	pingCtx context.CancelFunc
}

// NewClient creates a transport for the given socket URL, authenticating
// with the bearer token at connect time.
func NewClient(url, token string, log zerolog.Logger) *Client {
	return &Client{url: url, token: token, log: log}
}

// --- Bubble Tea messages ---

// ConnectedMsg is sent when the socket connects.
type ConnectedMsg struct{}

// DisconnectedMsg is sent when the connection drops.
type DisconnectedMsg struct{ Err error }

// EventMsg delivers one domain event. The payload is intentionally not
// carried: subscribers refetch rather than patch local state.
type EventMsg struct{ Kind EventKind }

// envelope is the wire format of one socket message.
type envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Listen returns a command that dials until connected or the context is
// cancelled. Dial failures are retried with exponential backoff; they are
// never surfaced to the operator.
func (c *Client) Listen(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		delay := reconnectBaseDelay
		for {
			select {
			case <-ctx.Done():
				return nil
			default:
			}

			header := http.Header{}
			if c.token != "" {
				header.Set("Authorization", "Bearer "+c.token)
			}
			conn, _, err := websocket.DefaultDialer.Dial(c.url, header)
			if err != nil {
				c.log.Debug().Err(err).Dur("retry_in", delay).Msg("socket dial failed")
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(delay):
				}
				delay = min(delay*2, reconnectMaxDelay)
				continue
			}

			c.mu.Lock()
			if c.pingCtx != nil {
				c.pingCtx()
			}
			pingCtx, pingCancel := context.WithCancel(ctx)
			c.conn = conn
			c.pingCtx = pingCancel
			c.mu.Unlock()

			go c.pingLoop(pingCtx, conn)

			return ConnectedMsg{}
		}
	}
}

// ReadLoop returns a command that reads from the connection until it drops,
// delivering the next recognized domain event. Start after ConnectedMsg and
// restart after each EventMsg.
func (c *Client) ReadLoop(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()
		if conn == nil {
			return DisconnectedMsg{Err: fmt.Errorf("no connection")}
		}

		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongTimeout))
			return nil
		})
		conn.SetReadDeadline(time.Now().Add(pongTimeout))

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				c.mu.Lock()
				if c.conn == conn {
					c.conn = nil
				}
				c.mu.Unlock()
				conn.Close()
				if ctx.Err() != nil {
					return nil
				}
				return DisconnectedMsg{Err: err}
			}

			var env envelope
			if err := json.Unmarshal(data, &env); err != nil {
				c.log.Debug().Err(err).Msg("malformed socket message")
				continue
			}
			kind, ok := ParseEventKind(env.Event)
			if !ok {
				c.log.Debug().Str("event", env.Event).Msg("unrecognized event, dropped")
				continue
			}
			return EventMsg{Kind: kind}
		}
	}
}

// Close drops the live connection, if any. Safe to call repeatedly.
func (c *Client) Close() {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	if c.pingCtx != nil {
		c.pingCtx()
		c.pingCtx = nil
	}
	c.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
}

// pingLoop sends periodic pings on the given connection. It exits when the
// context is cancelled or the connection changes.
func (c *Client) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			cc := c.conn
			c.mu.Unlock()
			if cc != conn {
				return
			}
			c.writeMu.Lock()
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			err := conn.WriteMessage(websocket.PingMessage, nil)
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

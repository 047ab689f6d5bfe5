package realtime

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jobsetu/admin-tui/internal/session"
)

// State is the connection lifecycle at the manager's level. Redial after a
// drop stays in StateConnecting; there is no reconnecting state here.
type State int

const (
	StateAbsent State = iota
	StateConnecting
	StateConnected
)

// Transport is the socket client surface the manager drives. Satisfied by
// *Client; tests substitute a fake.
type Transport interface {
	Listen(ctx context.Context) tea.Cmd
	ReadLoop(ctx context.Context) tea.Cmd
	Close()
}

// Manager owns at most one live socket connection, keyed to the current
// session's credential. Only the manager opens or closes the transport;
// everything else reads events.
type Manager struct {
	socketURL string
	log       zerolog.Logger
	dial      func(url, token string) Transport

	state     State
	token     string
	transport Transport
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewManager creates a manager dialing the given socket URL.
func NewManager(socketURL string, log zerolog.Logger) *Manager {
	return &Manager{
		socketURL: socketURL,
		log:       log,
		dial: func(url, token string) Transport {
			return NewClient(url, token, log)
		},
	}
}

// State returns the manager's view of the connection.
func (m *Manager) State() State {
	return m.state
}

// OnSessionChange reconciles the connection with the session. A nil session
// tears down any live connection (idempotent). A session with a credential
// opens one, unless a connection for the same credential is already live.
// The returned command, if any, must be handed to the runtime.
func (m *Manager) OnSessionChange(s *session.Session) tea.Cmd {
	if s == nil || s.Token == "" {
		m.Teardown()
		return nil
	}
	if m.state != StateAbsent && m.token == s.Token {
		return nil // same credential, reuse the live connection
	}
	m.Teardown()

	m.token = s.Token
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.transport = m.dial(m.socketURL, s.Token)
	m.state = StateConnecting
	m.log.Debug().Msg("socket connecting")
	return m.transport.Listen(m.ctx)
}

// Teardown unconditionally releases the connection. Safe to call in any
// state, including repeatedly; required on every exit path.
func (m *Manager) Teardown() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	if m.transport != nil {
		m.transport.Close()
		m.transport = nil
	}
	if m.state != StateAbsent {
		m.log.Debug().Msg("socket torn down")
	}
	m.state = StateAbsent
	m.token = ""
	m.ctx = nil
}

// HandleConnected marks the transport live and starts the read loop.
func (m *Manager) HandleConnected() tea.Cmd {
	if m.transport == nil {
		return nil // torn down while the dial was in flight
	}
	m.state = StateConnected
	return m.transport.ReadLoop(m.ctx)
}

// HandleEvent restarts the read loop after an event delivery.
func (m *Manager) HandleEvent() tea.Cmd {
	if m.transport == nil || m.state != StateConnected {
		return nil
	}
	return m.transport.ReadLoop(m.ctx)
}

// HandleDisconnected lets the transport redial, provided a session still
// owns the connection.
func (m *Manager) HandleDisconnected() tea.Cmd {
	if m.transport == nil {
		return nil
	}
	m.state = StateConnecting
	return m.transport.Listen(m.ctx)
}

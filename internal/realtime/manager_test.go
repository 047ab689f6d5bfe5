package realtime

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jobsetu/admin-tui/internal/session"
)

type fakeTransport struct {
	listens int
	reads   int
	closed  int
}

func (f *fakeTransport) Listen(context.Context) tea.Cmd {
	f.listens++
	return func() tea.Msg { return ConnectedMsg{} }
}

func (f *fakeTransport) ReadLoop(context.Context) tea.Cmd {
	f.reads++
	return func() tea.Msg { return nil }
}

func (f *fakeTransport) Close() { f.closed++ }

func testManager() (*Manager, *[]*fakeTransport) {
	m := NewManager("ws://127.0.0.1:5000/ws", zerolog.Nop())
	var dialed []*fakeTransport
	m.dial = func(url, token string) Transport {
		f := &fakeTransport{}
		dialed = append(dialed, f)
		return f
	}
	return m, &dialed
}

func TestSessionChangeOpensOneConnection(t *testing.T) {
	m, dialed := testManager()
	sess := &session.Session{PrincipalID: "u1", Token: "tok"}

	if cmd := m.OnSessionChange(sess); cmd == nil {
		t.Fatal("expected a listen command for a new session")
	}
	if m.State() != StateConnecting {
		t.Errorf("State() = %v, want StateConnecting", m.State())
	}

	// Same credential again: the live connection is reused, no new dial.
	if cmd := m.OnSessionChange(sess); cmd != nil {
		t.Error("same credential should not redial")
	}
	if len(*dialed) != 1 {
		t.Fatalf("dialed %d transports, want 1", len(*dialed))
	}
}

func TestSessionChangeReplacesOnNewCredential(t *testing.T) {
	m, dialed := testManager()
	m.OnSessionChange(&session.Session{PrincipalID: "u1", Token: "tok1"})
	m.OnSessionChange(&session.Session{PrincipalID: "u1", Token: "tok2"})

	if len(*dialed) != 2 {
		t.Fatalf("dialed %d transports, want 2", len(*dialed))
	}
	if (*dialed)[0].closed == 0 {
		t.Error("old transport should be closed when the credential changes")
	}
	if (*dialed)[1].closed != 0 {
		t.Error("new transport must stay open")
	}
}

func TestNilSessionTearsDown(t *testing.T) {
	m, dialed := testManager()
	m.OnSessionChange(&session.Session{PrincipalID: "u1", Token: "tok"})

	if cmd := m.OnSessionChange(nil); cmd != nil {
		t.Error("teardown should not return a command")
	}
	if m.State() != StateAbsent {
		t.Errorf("State() = %v, want StateAbsent", m.State())
	}
	if (*dialed)[0].closed != 1 {
		t.Errorf("transport closed %d times, want 1", (*dialed)[0].closed)
	}

	// Idempotent from the absent state.
	m.OnSessionChange(nil)
	m.Teardown()
	if (*dialed)[0].closed != 1 {
		t.Error("repeated teardown must not close the transport again")
	}
}

func TestHandlersAfterTeardownAreNoOps(t *testing.T) {
	m, _ := testManager()
	m.OnSessionChange(&session.Session{PrincipalID: "u1", Token: "tok"})
	m.Teardown()

	if cmd := m.HandleConnected(); cmd != nil {
		t.Error("HandleConnected after teardown should be a no-op")
	}
	if cmd := m.HandleEvent(); cmd != nil {
		t.Error("HandleEvent after teardown should be a no-op")
	}
	if cmd := m.HandleDisconnected(); cmd != nil {
		t.Error("HandleDisconnected after teardown should be a no-op")
	}
}

func TestConnectedStartsReadLoop(t *testing.T) {
	m, dialed := testManager()
	m.OnSessionChange(&session.Session{PrincipalID: "u1", Token: "tok"})

	if cmd := m.HandleConnected(); cmd == nil {
		t.Fatal("HandleConnected should start the read loop")
	}
	if m.State() != StateConnected {
		t.Errorf("State() = %v, want StateConnected", m.State())
	}
	if (*dialed)[0].reads != 1 {
		t.Errorf("ReadLoop called %d times, want 1", (*dialed)[0].reads)
	}

	if cmd := m.HandleEvent(); cmd == nil {
		t.Error("HandleEvent should restart the read loop while connected")
	}
	if cmd := m.HandleDisconnected(); cmd == nil {
		t.Error("HandleDisconnected should redial")
	}
	if m.State() != StateConnecting {
		t.Errorf("State() = %v after disconnect, want StateConnecting", m.State())
	}
}

package realtime

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// record returns a handler that appends its tag to calls.
func record(calls *[]string, tag string) func() tea.Cmd {
	return func() tea.Cmd {
		*calls = append(*calls, tag)
		return func() tea.Msg { return nil }
	}
}

func TestDispatchOrderAndGroups(t *testing.T) {
	b := NewBridge()
	var calls []string

	b.Subscribe(Handlers{OnJob: record(&calls, "A")})
	b.Subscribe(Handlers{OnJob: record(&calls, "B"), OnScheme: record(&calls, "B-scheme")})

	notice, cmd := b.Dispatch(EventJobCreated)
	if notice.Text != "New job created" {
		t.Errorf("notice = %q, want %q", notice.Text, "New job created")
	}
	if cmd == nil {
		t.Fatal("expected a refresh command")
	}
	if len(calls) != 2 || calls[0] != "A" || calls[1] != "B" {
		t.Errorf("job handlers ran %v, want [A B] in subscription order", calls)
	}

	calls = nil
	notice, _ = b.Dispatch(EventSchemeDeleted)
	if notice.Text != "Scheme deleted" {
		t.Errorf("notice = %q, want %q", notice.Text, "Scheme deleted")
	}
	if len(calls) != 1 || calls[0] != "B-scheme" {
		t.Errorf("scheme handlers ran %v, want only the scheme subscriber", calls)
	}
}

func TestDispatchOncePerEvent(t *testing.T) {
	b := NewBridge()
	var calls []string
	b.Subscribe(Handlers{OnJob: record(&calls, "A")})

	b.Dispatch(EventJobUpdated)
	b.Dispatch(EventJobUpdated)
	if len(calls) != 2 {
		t.Errorf("two dispatches ran the handler %d times, want 2", len(calls))
	}
}

func TestUnsubscribeRemovesExactlyOne(t *testing.T) {
	b := NewBridge()
	var calls []string

	unsubA := b.Subscribe(Handlers{OnJob: record(&calls, "A")})
	b.Subscribe(Handlers{OnJob: record(&calls, "B")})

	unsubA()
	if b.Len() != 1 {
		t.Fatalf("Len() = %d after unsubscribe, want 1", b.Len())
	}

	b.Dispatch(EventJobCreated)
	if len(calls) != 1 || calls[0] != "B" {
		t.Errorf("handlers ran %v, want only [B]", calls)
	}

	// Unsubscribing again is a no-op.
	unsubA()
	if b.Len() != 1 {
		t.Errorf("Len() = %d after repeated unsubscribe, want 1", b.Len())
	}
}

func TestDispatchUnknownYieldsNoRefresh(t *testing.T) {
	b := NewBridge()
	var calls []string
	b.Subscribe(Handlers{OnJob: record(&calls, "A"), OnScheme: record(&calls, "A")})

	notice, cmd := b.Dispatch(EventUnknown)
	if notice.Text != "" {
		t.Errorf("notice = %q, want empty for unknown kinds", notice.Text)
	}
	if cmd != nil || len(calls) != 0 {
		t.Error("unknown kinds must not invoke handlers")
	}
}

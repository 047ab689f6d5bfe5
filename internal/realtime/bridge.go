package realtime

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Handlers are a screen's refresh callbacks, one per group. A nil handler
// means the screen does not care about that group. Handlers receive no
// payload; they are pure "please refetch" signals.
type Handlers struct {
	OnJob    func() tea.Cmd
	OnScheme func() tea.Cmd
}

// Notice is the operator-visible notification produced for every event.
type Notice struct {
	Text string
	At   time.Time
}

type subscription struct {
	h Handlers
}

// Bridge fans incoming domain events out to a notice and to the refresh
// callbacks registered for the event's group. It runs entirely on the UI
// event loop: dispatch and (un)subscription cannot race.
type Bridge struct {
	subs []*subscription
}

// NewBridge creates an empty bridge.
func NewBridge() *Bridge {
	return &Bridge{}
}

// Subscribe registers handlers for the caller's visible lifetime and
// returns the matching unsubscribe. Unsubscribing removes exactly this
// registration; other subscribers are unaffected.
func (b *Bridge) Subscribe(h Handlers) (unsubscribe func()) {
	sub := &subscription{h: h}
	b.subs = append(b.subs, sub)
	return func() {
		for i, s := range b.subs {
			if s == sub {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Len returns the number of live subscriptions.
func (b *Bridge) Len() int {
	return len(b.subs)
}

// Dispatch handles one incoming event: exactly one notice, plus at most one
// handler invocation per subscription for the matching group, in
// subscription order. No buffering, coalescing, or dedup; duplicates from
// the transport propagate as duplicate refresh signals.
func (b *Bridge) Dispatch(kind EventKind) (Notice, tea.Cmd) {
	notice := Notice{Text: kind.Notice(), At: time.Now()}
	group := kind.Group()
	if group == GroupNone {
		return notice, nil
	}

	var cmds []tea.Cmd
	for _, sub := range b.subs {
		var fn func() tea.Cmd
		switch group {
		case GroupJob:
			fn = sub.h.OnJob
		case GroupScheme:
			fn = sub.h.OnScheme
		}
		if fn == nil {
			continue
		}
		if cmd := fn(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return notice, nil
	}
	return notice, tea.Batch(cmds...)
}

// Package realtime maintains the live socket connection to the backend and
// fans domain events out to the screens that asked for them.
package realtime

// EventKind is one of the backend's named domain events. The set is closed:
// routing is an exhaustive match, not string-prefix dispatch.
type EventKind int

const (
	EventUnknown EventKind = iota
	EventJobCreated
	EventJobUpdated
	EventJobDeleted
	EventSchemeCreated
	EventSchemeUpdated
	EventSchemeDeleted
)

// Group is the logical family a screen subscribes to.
type Group int

const (
	GroupNone Group = iota
	GroupJob
	GroupScheme
)

// wire names as emitted by the socket server.
const (
	wireJobCreated    = "job:created"
	wireJobUpdated    = "job:updated"
	wireJobDeleted    = "job:deleted"
	wireSchemeCreated = "scheme:created"
	wireSchemeUpdated = "scheme:updated"
	wireSchemeDeleted = "scheme:deleted"
)

// ParseEventKind maps a wire event name to its kind. Unknown names return
// (EventUnknown, false) and are dropped by the transport.
func ParseEventKind(name string) (EventKind, bool) {
	switch name {
	case wireJobCreated:
		return EventJobCreated, true
	case wireJobUpdated:
		return EventJobUpdated, true
	case wireJobDeleted:
		return EventJobDeleted, true
	case wireSchemeCreated:
		return EventSchemeCreated, true
	case wireSchemeUpdated:
		return EventSchemeUpdated, true
	case wireSchemeDeleted:
		return EventSchemeDeleted, true
	default:
		return EventUnknown, false
	}
}

// String returns the wire name of the kind.
func (k EventKind) String() string {
	switch k {
	case EventJobCreated:
		return wireJobCreated
	case EventJobUpdated:
		return wireJobUpdated
	case EventJobDeleted:
		return wireJobDeleted
	case EventSchemeCreated:
		return wireSchemeCreated
	case EventSchemeUpdated:
		return wireSchemeUpdated
	case EventSchemeDeleted:
		return wireSchemeDeleted
	default:
		return "unknown"
	}
}

// Group returns the subscription group the kind belongs to.
func (k EventKind) Group() Group {
	switch k {
	case EventJobCreated, EventJobUpdated, EventJobDeleted:
		return GroupJob
	case EventSchemeCreated, EventSchemeUpdated, EventSchemeDeleted:
		return GroupScheme
	default:
		return GroupNone
	}
}

// Notice returns the fixed operator-visible message for the kind.
func (k EventKind) Notice() string {
	switch k {
	case EventJobCreated:
		return "New job created"
	case EventJobUpdated:
		return "Job updated"
	case EventJobDeleted:
		return "Job deleted"
	case EventSchemeCreated:
		return "New scheme created"
	case EventSchemeUpdated:
		return "Scheme updated"
	case EventSchemeDeleted:
		return "Scheme deleted"
	default:
		return ""
	}
}

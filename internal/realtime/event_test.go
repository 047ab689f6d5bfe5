package realtime

import "testing"

func TestParseEventKind(t *testing.T) {
	tests := []struct {
		wire   string
		kind   EventKind
		group  Group
		notice string
	}{
		{wire: "job:created", kind: EventJobCreated, group: GroupJob, notice: "New job created"},
		{wire: "job:updated", kind: EventJobUpdated, group: GroupJob, notice: "Job updated"},
		{wire: "job:deleted", kind: EventJobDeleted, group: GroupJob, notice: "Job deleted"},
		{wire: "scheme:created", kind: EventSchemeCreated, group: GroupScheme, notice: "New scheme created"},
		{wire: "scheme:updated", kind: EventSchemeUpdated, group: GroupScheme, notice: "Scheme updated"},
		{wire: "scheme:deleted", kind: EventSchemeDeleted, group: GroupScheme, notice: "Scheme deleted"},
	}

	for _, tt := range tests {
		t.Run(tt.wire, func(t *testing.T) {
			kind, ok := ParseEventKind(tt.wire)
			if !ok || kind != tt.kind {
				t.Fatalf("ParseEventKind(%q) = (%v, %v), want (%v, true)", tt.wire, kind, ok, tt.kind)
			}
			if kind.String() != tt.wire {
				t.Errorf("String() = %q, want %q", kind.String(), tt.wire)
			}
			if kind.Group() != tt.group {
				t.Errorf("Group() = %v, want %v", kind.Group(), tt.group)
			}
			if kind.Notice() != tt.notice {
				t.Errorf("Notice() = %q, want %q", kind.Notice(), tt.notice)
			}
		})
	}
}

func TestParseEventKindUnknown(t *testing.T) {
	for _, wire := range []string{"", "job:unknown", "user:created", "JOB:CREATED"} {
		kind, ok := ParseEventKind(wire)
		if ok || kind != EventUnknown {
			t.Errorf("ParseEventKind(%q) = (%v, %v), want (EventUnknown, false)", wire, kind, ok)
		}
	}
}

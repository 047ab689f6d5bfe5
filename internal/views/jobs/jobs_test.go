package jobs

import (
	"strings"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jobsetu/admin-tui/internal/api"
)

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loadedModel(t *testing.T, jobs []api.Job) Model {
	t.Helper()
	m := New(api.NewClient("http://127.0.0.1:0"))
	m, _ = m.Update(LoadedMsg{Jobs: jobs})
	return m
}

func TestConfirmSurvivesConcurrentRefresh(t *testing.T) {
	seed := []api.Job{
		{ID: "j1", Title: "Constable Recruitment"},
		{ID: "j2", Title: "Forest Guard"},
	}
	tests := []struct {
		name        string
		refreshed   []api.Job
		wantConfirm bool
	}{
		{"target still listed", seed, true},
		{"other entry removed", []api.Job{{ID: "j1", Title: "Constable Recruitment"}}, true},
		{"target removed", []api.Job{{ID: "j2", Title: "Forest Guard"}}, false},
		{"list emptied", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := loadedModel(t, seed)
			m, _ = m.Update(keyMsg("d"))
			if !m.Capturing() {
				t.Fatal("confirm prompt did not open")
			}

			m, _ = m.Update(LoadedMsg{Jobs: tt.refreshed})
			if got := m.Capturing(); got != tt.wantConfirm {
				t.Errorf("confirming after refresh = %v, want %v", got, tt.wantConfirm)
			}
			view := m.View()
			if tt.wantConfirm && !strings.Contains(view, "Constable Recruitment") {
				t.Errorf("prompt lost its target:\n%s", view)
			}
			if !tt.wantConfirm && strings.Contains(view, "Delete") {
				t.Errorf("stale prompt still rendered:\n%s", view)
			}
		})
	}
}

func TestConfirmKeepsTargetWhenListReorders(t *testing.T) {
	m := loadedModel(t, []api.Job{
		{ID: "j1", Title: "Constable Recruitment"},
		{ID: "j2", Title: "Forest Guard"},
	})
	m, _ = m.Update(keyMsg("d"))

	// Cursor position 0 now names a different posting.
	m, _ = m.Update(LoadedMsg{Jobs: []api.Job{
		{ID: "j2", Title: "Forest Guard"},
		{ID: "j1", Title: "Constable Recruitment"},
	}})
	if !strings.Contains(m.View(), `Delete "Constable Recruitment"`) {
		t.Errorf("prompt switched targets:\n%s", m.View())
	}
	m, cmd := m.Update(keyMsg("y"))
	if cmd == nil {
		t.Error("confirming the delete produced no command")
	}
	_ = m
}

func TestTruncatePreservesRuneBoundaries(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short ascii untouched", "Clerk", 10, "Clerk"},
		{"long ascii trimmed", "Constable Recruitment", 10, "Constable…"},
		{"hindi untouched", "आवास योजना", 10, "आवास योजना"},
		{"hindi trimmed", "प्रधानमंत्री आवास योजना", 8, "प्रधानम…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.n)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate(%q, %d) produced invalid UTF-8", tt.in, tt.n)
			}
		})
	}
}

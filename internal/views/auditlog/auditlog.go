// Package auditlog is the audit trail screen (ADMIN only): a paginated,
// filterable view of subadmin management actions.
package auditlog

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jobsetu/admin-tui/internal/api"
	"github.com/jobsetu/admin-tui/internal/theme"
)

const pageLimit = 20

type mode int

const (
	modeList mode = iota
	modeDates
)

// LoadedMsg delivers one page of audit log entries.
type LoadedMsg struct {
	Page *api.AuditPage
	Err  error
}

// LoadErr exposes the fetch error for the app's global 401 handling.
func (m LoadedMsg) LoadErr() error { return m.Err }

// Model holds the audit log screen state.
type Model struct {
	Width  int
	Height int

	client  *api.Client
	mode    mode
	filter  api.AuditFilter
	page    *api.AuditPage
	cursor  int
	loading bool
	errMsg  string

	// filter.Action / filter.Status cycle positions; 0 means no filter.
	actionIdx int
	statusIdx int

	startInput textinput.Model
	endInput   textinput.Model
	dateFocus  int
}

// New creates the audit log screen.
func New(client *api.Client) Model {
	return Model{
		client:  client,
		loading: true,
		filter:  api.AuditFilter{Page: 1, Limit: pageLimit},
	}
}

// Capturing reports whether the screen is consuming raw key input, so the
// app must not treat keys as global shortcuts.
func (m Model) Capturing() bool {
	return m.mode == modeDates
}

// Fetch returns the command loading the current page with current filters.
func (m Model) Fetch() tea.Cmd {
	client := m.client
	filter := m.filter
	return func() tea.Msg {
		page, err := client.ListAuditLogs(filter)
		return LoadedMsg{Page: page, Err: err}
	}
}

// Update handles audit log screen messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.errMsg = api.UserMessage(msg.Err, "Failed to load audit logs")
			return m, nil
		}
		m.errMsg = ""
		m.page = msg.Page
		if m.page != nil && m.cursor >= len(m.page.Logs) {
			m.cursor = max(0, len(m.page.Logs)-1)
		}
		return m, nil

	case tea.KeyMsg:
		if m.mode == modeDates {
			return m.updateDates(msg)
		}
		return m.updateList(msg)
	}

	if m.mode == modeDates {
		var cmd tea.Cmd
		if m.dateFocus == 0 {
			m.startInput, cmd = m.startInput.Update(msg)
		} else {
			m.endInput, cmd = m.endInput.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.page != nil && len(m.page.Logs) > 0 {
			m.cursor = (m.cursor + 1) % len(m.page.Logs)
		}
	case "k", "up":
		if m.page != nil && len(m.page.Logs) > 0 {
			m.cursor = (m.cursor - 1 + len(m.page.Logs)) % len(m.page.Logs)
		}
	case "r":
		m.loading = true
		return m, m.Fetch()
	case "a":
		m.actionIdx = (m.actionIdx + 1) % (len(api.AuditActions) + 1)
		if m.actionIdx == 0 {
			m.filter.Action = ""
		} else {
			m.filter.Action = api.AuditActions[m.actionIdx-1]
		}
		return m.resetPage()
	case "s":
		statuses := []string{"", "SUCCESS", "FAILURE"}
		m.statusIdx = (m.statusIdx + 1) % len(statuses)
		m.filter.Status = statuses[m.statusIdx]
		return m.resetPage()
	case "f":
		m.startInput = newDateInput("start YYYY-MM-DD", m.filter.StartDate)
		m.endInput = newDateInput("end YYYY-MM-DD", m.filter.EndDate)
		m.startInput.Focus()
		m.dateFocus = 0
		m.mode = modeDates
	case "c":
		m.filter = api.AuditFilter{Page: 1, Limit: pageLimit}
		m.actionIdx, m.statusIdx = 0, 0
		m.loading = true
		return m, m.Fetch()
	case "n", "right":
		if m.page != nil && m.filter.Page < m.page.Pages {
			m.filter.Page++
			m.loading = true
			return m, m.Fetch()
		}
	case "p", "left":
		if m.filter.Page > 1 {
			m.filter.Page--
			m.loading = true
			return m, m.Fetch()
		}
	}
	return m, nil
}

func (m Model) resetPage() (Model, tea.Cmd) {
	m.filter.Page = 1
	m.cursor = 0
	m.loading = true
	return m, m.Fetch()
}

func (m Model) updateDates(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		return m, nil
	case "tab", "shift+tab":
		m.dateFocus = 1 - m.dateFocus
		if m.dateFocus == 0 {
			m.startInput.Focus()
			m.endInput.Blur()
		} else {
			m.endInput.Focus()
			m.startInput.Blur()
		}
		return m, nil
	case "enter":
		m.filter.StartDate = m.startInput.Value()
		m.filter.EndDate = m.endInput.Value()
		m.mode = modeList
		return m.resetPage()
	}
	var cmd tea.Cmd
	if m.dateFocus == 0 {
		m.startInput, cmd = m.startInput.Update(msg)
	} else {
		m.endInput, cmd = m.endInput.Update(msg)
	}
	return m, cmd
}

// View renders the audit log screen.
func (m Model) View() string {
	header := theme.StyleHeader.Render("  Audit log")

	if m.mode == modeDates {
		return lipgloss.JoinVertical(lipgloss.Left,
			theme.StyleHeader.Render("  Date range"),
			"  From: "+m.startInput.View(),
			"  To:   "+m.endInput.View(),
			theme.StyleDimmed.Render("  tab:switch  enter:apply  esc:cancel"),
		)
	}

	filterLine := fmt.Sprintf("  action:%s  status:%s  range:%s",
		orAny(m.filter.Action), orAny(m.filter.Status), rangeLabel(m.filter))
	lines := []string{header, theme.StyleDimmed.Render(filterLine)}

	if m.loading {
		lines = append(lines, theme.StyleDimmed.Render("  Loading..."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	lines = append(lines, theme.StyleDimmed.Render(fmt.Sprintf("  %-19s %-28s %-12s %-12s %s",
		"When", "Action", "By", "Target", "Status")))
	if m.page == nil || len(m.page.Logs) == 0 {
		lines = append(lines, theme.StyleDimmed.Render("  No entries"))
	} else {
		for i, entry := range m.page.Logs {
			prefix := "  "
			if i == m.cursor {
				prefix = lipgloss.NewStyle().Foreground(theme.ColorAccent).Render("> ")
			}
			status := theme.StyleNotice.Render(entry.Status)
			if entry.Status != "SUCCESS" {
				status = theme.StyleError.Render(entry.Status)
			}
			lines = append(lines, fmt.Sprintf("%s%-19s %-28s %-12s %-12s %s",
				prefix, entry.CreatedAt.Format("2006-01-02 15:04:05"),
				truncate(entry.Action, 28), truncate(entry.PerformedBy, 12),
				truncate(entry.TargetUser, 12), status))
		}
		lines = append(lines, theme.StyleDimmed.Render(
			fmt.Sprintf("  page %d/%d (%d entries)", m.filter.Page, max(1, m.page.Pages), m.page.Total)))
	}
	if m.errMsg != "" {
		lines = append(lines, theme.StyleError.Render("  "+m.errMsg))
	}
	lines = append(lines, theme.StyleDimmed.Render(
		"  j/k:navigate  a:action  s:status  f:dates  c:clear  n/p:page  r:refresh"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func newDateInput(placeholder, value string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 10
	ti.Width = 12
	ti.SetValue(value)
	return ti
}

func orAny(s string) string {
	if s == "" {
		return "any"
	}
	return s
}

func rangeLabel(f api.AuditFilter) string {
	if f.StartDate == "" && f.EndDate == "" {
		return "any"
	}
	return orAny(f.StartDate) + ".." + orAny(f.EndDate)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

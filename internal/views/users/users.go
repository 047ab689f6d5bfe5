// Package users is the read-only account listing screen (ADMIN only).
package users

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jobsetu/admin-tui/internal/api"
	"github.com/jobsetu/admin-tui/internal/theme"
)

// LoadedMsg delivers the account list.
type LoadedMsg struct {
	Users []api.User
	Err   error
}

// LoadErr exposes the fetch error for the app's global 401 handling.
func (m LoadedMsg) LoadErr() error { return m.Err }

// Model holds the users screen state.
type Model struct {
	Width  int
	Height int

	client  *api.Client
	users   []api.User
	cursor  int
	loading bool
	errMsg  string
}

// New creates the users screen.
func New(client *api.Client) Model {
	return Model{client: client, loading: true}
}

// Fetch returns the command loading the account list.
func (m Model) Fetch() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		users, err := client.ListUsers()
		return LoadedMsg{Users: users, Err: err}
	}
}

// Update handles users screen messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.errMsg = api.UserMessage(msg.Err, "Failed to load users")
			return m, nil
		}
		m.errMsg = ""
		m.users = msg.Users
		if m.cursor >= len(m.users) {
			m.cursor = max(0, len(m.users)-1)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if len(m.users) > 0 {
				m.cursor = (m.cursor + 1) % len(m.users)
			}
		case "k", "up":
			if len(m.users) > 0 {
				m.cursor = (m.cursor - 1 + len(m.users)) % len(m.users)
			}
		case "r":
			m.loading = true
			return m, m.Fetch()
		}
	}
	return m, nil
}

// View renders the users screen.
func (m Model) View() string {
	header := theme.StyleHeader.Render("  Users")
	if m.loading {
		return lipgloss.JoinVertical(lipgloss.Left, header, theme.StyleDimmed.Render("  Loading..."))
	}

	lines := []string{
		header,
		theme.StyleDimmed.Render(fmt.Sprintf("  %-12s %-9s %-20s %-16s %-12s %-10s %s",
			"Mobile", "Role", "Name", "State", "District", "Education", "Status")),
	}
	if len(m.users) == 0 {
		lines = append(lines, theme.StyleDimmed.Render("  No users"))
	}
	for i, u := range m.users {
		prefix := "  "
		if i == m.cursor {
			prefix = lipgloss.NewStyle().Foreground(theme.ColorAccent).Render("> ")
		}
		roleStr := lipgloss.NewStyle().Foreground(theme.RoleColor(string(u.Role))).
			Render(fmt.Sprintf("%-9s", u.Role))
		status := lipgloss.NewStyle().Foreground(theme.ActiveColor(u.IsActive)).Render(statusLabel(u.IsActive))
		lines = append(lines, fmt.Sprintf("%s%-12s %s %-20s %-16s %-12s %-10s %s",
			prefix, u.MobileNumber, roleStr,
			truncate(displayName(u), 20), truncate(stateOf(u), 16),
			truncate(districtOf(u), 12), truncate(educationOf(u), 10), status))
	}
	if m.errMsg != "" {
		lines = append(lines, theme.StyleError.Render("  "+m.errMsg))
	}
	lines = append(lines, theme.StyleDimmed.Render("  j/k:navigate  r:refresh"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func displayName(u api.User) string {
	if u.Profile != nil && u.Profile.FullName != "" {
		return u.Profile.FullName
	}
	if u.AdminProfile != nil && u.AdminProfile.Name != "" {
		return u.AdminProfile.Name
	}
	return "-"
}

func stateOf(u api.User) string {
	if u.Profile != nil && u.Profile.State != "" {
		return u.Profile.State
	}
	if u.AdminProfile != nil && len(u.AdminProfile.AssignedStates) > 0 {
		return strings.Join(u.AdminProfile.AssignedStates, ",")
	}
	return "-"
}

func districtOf(u api.User) string {
	if u.Profile != nil && u.Profile.District != "" {
		return u.Profile.District
	}
	return "-"
}

func educationOf(u api.User) string {
	if u.Profile != nil && u.Profile.Education != "" {
		return u.Profile.Education
	}
	return "-"
}

func statusLabel(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

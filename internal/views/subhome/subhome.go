// Package subhome is the subadmin home screen: the same aggregate counts
// as the admin dashboard, scoped by the subadmin's assigned states, plus
// the permission grants attached to the session.
package subhome

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jobsetu/admin-tui/internal/api"
	"github.com/jobsetu/admin-tui/internal/theme"
)

// StatsLoadedMsg delivers the stats aggregate for the subadmin home.
type StatsLoadedMsg struct {
	Stats *api.Stats
	Err   error
}

// LoadErr exposes the fetch error for the app's global 401 handling.
func (m StatsLoadedMsg) LoadErr() error { return m.Err }

// Model holds the subadmin home state.
type Model struct {
	Width int

	client         *api.Client
	assignedStates []string
	permissions    []string
	stats          *api.Stats
	loading        bool
	errMsg         string
}

// New creates the subadmin home screen.
func New(client *api.Client) Model {
	return Model{client: client, loading: true}
}

// SetGrants updates the assigned states and permissions shown. Empty
// assigned states mean unrestricted scope.
func (m *Model) SetGrants(assignedStates, permissions []string) {
	m.assignedStates = assignedStates
	m.permissions = permissions
}

// Fetch returns the command loading the stats aggregate.
func (m Model) Fetch() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		stats, err := client.GetStats()
		return StatsLoadedMsg{Stats: stats, Err: err}
	}
}

// Update handles subadmin home messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StatsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.errMsg = api.UserMessage(msg.Err, "Failed to load stats")
			return m, nil
		}
		m.errMsg = ""
		m.stats = msg.Stats
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "r" {
			m.loading = true
			return m, m.Fetch()
		}
	}
	return m, nil
}

// View renders the subadmin home.
func (m Model) View() string {
	header := theme.StyleHeader.Render("  Subadmin Dashboard")

	var scope string
	if len(m.assignedStates) > 0 {
		scope = theme.StyleDimmed.Render("  Assigned states: ") +
			lipgloss.NewStyle().Foreground(theme.ColorSubadmin).Render(strings.Join(m.assignedStates, ", "))
	} else {
		scope = theme.StyleDimmed.Render("  Unrestricted scope")
	}

	lines := []string{header, scope}

	if m.loading {
		lines = append(lines, theme.StyleDimmed.Render("  Loading..."))
	} else if m.errMsg != "" {
		lines = append(lines, theme.StyleError.Render("  "+m.errMsg))
	} else if m.stats != nil {
		s := m.stats
		jobsTitle, schemesTitle := "Jobs", "Schemes"
		if len(m.assignedStates) > 0 {
			jobsTitle, schemesTitle = "Jobs (filtered)", "Schemes (filtered)"
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			card("Users", fmt.Sprintf("%d", s.Users.Total)),
			card(jobsTitle, fmt.Sprintf("%d", s.Jobs.Total)),
			card(schemesTitle, fmt.Sprintf("%d", s.Schemes.Total)),
			card("Permissions", fmt.Sprintf("%d", len(m.permissions))),
		))
	}

	if len(m.permissions) > 0 {
		var badges []string
		for _, p := range m.permissions {
			badges = append(badges, lipgloss.NewStyle().
				Foreground(theme.ColorAccent).Render("["+p+"]"))
		}
		lines = append(lines,
			theme.StyleHeader.Render("  Granted permissions"),
			"  "+strings.Join(badges, " "),
		)
	}

	lines = append(lines, theme.StyleDimmed.Render("  r:refresh"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func card(title, value string) string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		theme.StyleDimmed.Render(title),
		theme.StyleHeader.Render(value),
	)
	return theme.StyleBorder.Padding(0, 2).Margin(0, 1, 0, 0).Render(content)
}

// Package dashboard is the admin home screen: aggregate counts for users,
// jobs, and schemes, refreshed live on job/scheme events.
package dashboard

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jobsetu/admin-tui/internal/api"
	"github.com/jobsetu/admin-tui/internal/theme"
)

// StatsLoadedMsg delivers the /admin/stats aggregate.
type StatsLoadedMsg struct {
	Stats *api.Stats
	Err   error
}

// LoadErr exposes the fetch error for the app's global 401 handling.
func (m StatsLoadedMsg) LoadErr() error { return m.Err }

// Model holds the dashboard state.
type Model struct {
	Width int

	client  *api.Client
	stats   *api.Stats
	loading bool
	errMsg  string
}

// New creates the dashboard screen.
func New(client *api.Client) Model {
	return Model{client: client, loading: true}
}

// Fetch returns the command loading the stats aggregate.
func (m Model) Fetch() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		stats, err := client.GetStats()
		return StatsLoadedMsg{Stats: stats, Err: err}
	}
}

// Update handles dashboard messages.
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

// View renders the dashboard.
func (m Model) View() string {
	header := theme.StyleHeader.Render("  Dashboard")
	if m.loading {
		return lipgloss.JoinVertical(lipgloss.Left, header, theme.StyleDimmed.Render("  Loading..."))
	}
	if m.errMsg != "" {
		return lipgloss.JoinVertical(lipgloss.Left, header, theme.StyleError.Render("  "+m.errMsg))
	}
	if m.stats == nil {
		return lipgloss.JoinVertical(lipgloss.Left, header, theme.StyleDimmed.Render("  No data"))
	}

	s := m.stats
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Users", fmt.Sprintf("%d", s.Users.Total), fmt.Sprintf("%d active", s.Users.Active)),
		card("Jobs", fmt.Sprintf("%d", s.Jobs.Total), fmt.Sprintf("%d active, %d featured", s.Jobs.Active, s.Jobs.Featured)),
		card("Schemes", fmt.Sprintf("%d", s.Schemes.Total), fmt.Sprintf("%d active, %d featured", s.Schemes.Active, s.Schemes.Featured)),
		card("Staff", fmt.Sprintf("%d", s.Users.Admins), "admin accounts"),
	)

	breakdown := lipgloss.JoinHorizontal(lipgloss.Top,
		breakdownBox("Jobs", s.Jobs),
		breakdownBox("Schemes", s.Schemes),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		cards,
		breakdown,
		theme.StyleDimmed.Render("  r:refresh"),
	)
}

func card(title, value, subtitle string) string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		theme.StyleDimmed.Render(title),
		theme.StyleHeader.Render(value),
		theme.StyleDimmed.Render(subtitle),
	)
	return theme.StyleBorder.Padding(0, 2).Margin(0, 1, 0, 0).Render(content)
}

func breakdownBox(title string, c api.CountStats) string {
	rows := []string{
		theme.StyleHeader.Render(title + " by scope"),
		fmt.Sprintf("%s %d", theme.StyleDimmed.Render("Central: "), c.Central),
		fmt.Sprintf("%s %d", theme.StyleDimmed.Render("State:   "), c.State),
		fmt.Sprintf("%s %s", theme.StyleDimmed.Render("Active:  "),
			lipgloss.NewStyle().Foreground(theme.ColorActive).Render(fmt.Sprintf("%d", c.Active))),
		fmt.Sprintf("%s %s", theme.StyleDimmed.Render("Featured:"),
			lipgloss.NewStyle().Foreground(theme.ColorFeatured).Render(fmt.Sprintf("%d", c.Featured))),
	}
	return theme.StyleBorder.Padding(0, 2).Margin(0, 1, 0, 0).Render(strings.Join(rows, "\n"))
}

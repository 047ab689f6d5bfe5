// Package statusbar renders the top bar: who is logged in, whether the
// realtime socket is live, and the most recent notices.
package statusbar

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jobsetu/admin-tui/internal/theme"
)

const maxNotices = 3

type notice struct {
	text  string
	isErr bool
	at    time.Time
}

// Model holds the status bar state.
type Model struct {
	Connected bool
	Role      string
	Name      string
	Width     int

	notices []notice
}

// New creates a status bar model.
func New() Model {
	return Model{}
}

// SetIdentity updates the logged-in identity shown in the bar. Empty role
// clears it.
func (m *Model) SetIdentity(name, role string) {
	m.Name = name
	m.Role = role
}

// Push records a notice. The bar shows the most recent few.
func (m *Model) Push(text string) {
	m.push(text, false)
}

// PushError records an error notice.
func (m *Model) PushError(text string) {
	m.push(text, true)
}

func (m *Model) push(text string, isErr bool) {
	m.notices = append(m.notices, notice{text: text, isErr: isErr, at: time.Now()})
	if len(m.notices) > maxNotices {
		m.notices = m.notices[len(m.notices)-maxNotices:]
	}
}

// View renders the status bar.
func (m Model) View() string {
	width := m.Width
	if width < 40 {
		width = 40
	}

	var connStr string
	if m.Connected {
		connStr = lipgloss.NewStyle().Foreground(theme.ColorHealthy).Render("● live")
	} else {
		connStr = lipgloss.NewStyle().Foreground(theme.ColorDimmed).Render("○ offline")
	}

	var idStr string
	if m.Role != "" {
		idStr = lipgloss.NewStyle().Foreground(theme.RoleColor(m.Role)).Render(
			fmt.Sprintf("%s (%s)", m.Name, m.Role))
	} else {
		idStr = theme.StyleDimmed.Render("not signed in")
	}

	var noticeStr string
	if n := len(m.notices); n > 0 {
		last := m.notices[n-1]
		style := theme.StyleNotice
		if last.isErr {
			style = theme.StyleError
		}
		noticeStr = style.Render(fmt.Sprintf("%s %s", last.at.Format("15:04:05"), last.text))
	}

	sep := lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(" | ")
	content := idStr + sep + connStr
	if noticeStr != "" {
		content += sep + noticeStr
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(content)
}

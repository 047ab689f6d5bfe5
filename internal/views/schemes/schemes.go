// Package schemes is the welfare-schemes screen: a live-refreshing list
// with create, edit, and delete.
package schemes

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jobsetu/admin-tui/internal/api"
	"github.com/jobsetu/admin-tui/internal/theme"
	"github.com/jobsetu/admin-tui/internal/views/form"
)

type mode int

const (
	modeList mode = iota
	modeForm
	modeConfirm
)

// LoadedMsg delivers the scheme list.
type LoadedMsg struct {
	Schemes []api.Scheme
	Err     error
}

// LoadErr exposes the fetch error for the app's global 401 handling.
func (m LoadedMsg) LoadErr() error { return m.Err }

// SavedMsg reports a create or update outcome.
type SavedMsg struct {
	Created bool
	Err     error
}

func (m SavedMsg) LoadErr() error { return m.Err }

// DeletedMsg reports a delete outcome.
type DeletedMsg struct{ Err error }

func (m DeletedMsg) LoadErr() error { return m.Err }

// Form field order.
const (
	fName = iota
	fType
	fTarget
	fBenefit
	fState
	fAgeMin
	fAgeMax
	fLink
	fEligibility
	fDescription
	fActive
	fFeatured
)

// Model holds the schemes screen state.
type Model struct {
	Width  int
	Height int

	client  *api.Client
	mode    mode
	schemes []api.Scheme
	cursor  int
	loading bool
	errMsg  string

	form       form.Model
	editing    *api.Scheme
	confirming *api.Scheme
}

// New creates the schemes screen.
func New(client *api.Client) Model {
	return Model{client: client, loading: true}
}

// Capturing reports whether the screen is consuming raw key input, so the
// app must not treat keys as global shortcuts.
func (m Model) Capturing() bool {
	return m.mode != modeList
}

// Fetch returns the command loading the scheme list.
func (m Model) Fetch() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		schemes, err := client.ListSchemes(100)
		return LoadedMsg{Schemes: schemes, Err: err}
	}
}

// Update handles schemes screen messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.errMsg = api.UserMessage(msg.Err, "Failed to load schemes")
			return m, nil
		}
		m.errMsg = ""
		m.schemes = msg.Schemes
		if m.cursor >= len(m.schemes) {
			m.cursor = max(0, len(m.schemes)-1)
		}
		// A refresh can remove the scheme a confirm prompt is aimed at,
		// for example when another operator deletes it first.
		if m.mode == modeConfirm && !m.confirmTargetPresent() {
			m.mode = modeList
			m.confirming = nil
		}
		return m, nil

	case SavedMsg:
		if msg.Err != nil {
			m.errMsg = api.UserMessage(msg.Err, "Failed to save scheme")
			return m, nil
		}
		m.mode = modeList
		m.editing = nil
		m.errMsg = ""
		return m, m.Fetch()

	case DeletedMsg:
		m.mode = modeList
		m.confirming = nil
		if msg.Err != nil {
			m.errMsg = api.UserMessage(msg.Err, "Failed to delete scheme")
			return m, nil
		}
		m.errMsg = ""
		return m, m.Fetch()

	case tea.KeyMsg:
		switch m.mode {
		case modeList:
			return m.updateList(msg)
		case modeForm:
			return m.updateForm(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		}
	}

	if m.mode == modeForm {
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if len(m.schemes) > 0 {
			m.cursor = (m.cursor + 1) % len(m.schemes)
		}
	case "k", "up":
		if len(m.schemes) > 0 {
			m.cursor = (m.cursor - 1 + len(m.schemes)) % len(m.schemes)
		}
	case "r":
		m.loading = true
		return m, m.Fetch()
	case "n":
		m.editing = nil
		m.form = m.newForm(api.Scheme{Type: "CENTRAL", Benefit: "Money", IsActive: true})
		m.mode = modeForm
	case "enter", "e":
		if len(m.schemes) > 0 {
			scheme := m.schemes[m.cursor]
			m.editing = &scheme
			m.form = m.newForm(scheme)
			m.mode = modeForm
		}
	case "d":
		if len(m.schemes) > 0 {
			scheme := m.schemes[m.cursor]
			m.confirming = &scheme
			m.mode = modeConfirm
		}
	}
	return m, nil
}

func (m Model) confirmTargetPresent() bool {
	if m.confirming == nil {
		return false
	}
	for _, scheme := range m.schemes {
		if scheme.ID == m.confirming.ID {
			return true
		}
	}
	return false
}

func (m Model) updateForm(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		m.editing = nil
		m.errMsg = ""
		return m, nil
	case "ctrl+s":
		scheme, err := m.parseForm()
		if err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.errMsg = ""
		return m, m.save(scheme)
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "y":
		if m.confirming == nil {
			m.mode = modeList
			return m, nil
		}
		id := m.confirming.ID
		client := m.client
		return m, func() tea.Msg {
			return DeletedMsg{Err: client.DeleteScheme(id)}
		}
	case "n", "esc":
		m.mode = modeList
		m.confirming = nil
	}
	return m, nil
}

func (m Model) newForm(scheme api.Scheme) form.Model {
	active, featured := "no", "no"
	if scheme.IsActive {
		active = "yes"
	}
	if scheme.IsFeatured {
		featured = "yes"
	}
	return form.New(
		form.Text("Name", "PM Awas Yojana", scheme.Name, 48),
		form.Toggle("Type", []string{"CENTRAL", "STATE"}, scheme.Type),
		form.Text("Target", "Farmers", scheme.Target, 24),
		form.Text("Benefit", "Money", scheme.Benefit, 24),
		form.Text("State", "leave empty for central", scheme.State, 24),
		form.Text("Age min", "optional", itoaOrEmpty(scheme.AgeMin), 8),
		form.Text("Age max", "optional", itoaOrEmpty(scheme.AgeMax), 8),
		form.Text("Application link", "https://", scheme.ApplicationLink, 48),
		form.Text("Eligibility", "", scheme.EligibilityCriteria, 64),
		form.Text("Description", "", scheme.Description, 64),
		form.Toggle("Active", []string{"yes", "no"}, active),
		form.Toggle("Featured", []string{"yes", "no"}, featured),
	)
}

func (m Model) parseForm() (api.Scheme, error) {
	var scheme api.Scheme
	if m.editing != nil {
		scheme = *m.editing
	}
	scheme.Name = m.form.Value(fName)
	if scheme.Name == "" {
		return scheme, fmt.Errorf("name is required")
	}
	scheme.Type = m.form.Option(fType)
	scheme.Target = m.form.Value(fTarget)
	scheme.Benefit = m.form.Value(fBenefit)
	scheme.State = m.form.Value(fState)

	var err error
	if v := m.form.Value(fAgeMin); v != "" {
		if scheme.AgeMin, err = atoiField(v, "age min"); err != nil {
			return scheme, err
		}
	}
	if v := m.form.Value(fAgeMax); v != "" {
		if scheme.AgeMax, err = atoiField(v, "age max"); err != nil {
			return scheme, err
		}
	}
	if scheme.AgeMax != 0 && scheme.AgeMin > scheme.AgeMax {
		return scheme, fmt.Errorf("age min must not exceed age max")
	}
	scheme.ApplicationLink = m.form.Value(fLink)
	scheme.EligibilityCriteria = m.form.Value(fEligibility)
	scheme.Description = m.form.Value(fDescription)
	scheme.IsActive = m.form.Option(fActive) == "yes"
	scheme.IsFeatured = m.form.Option(fFeatured) == "yes"
	return scheme, nil
}

func (m Model) save(scheme api.Scheme) tea.Cmd {
	client := m.client
	editing := m.editing
	return func() tea.Msg {
		if editing != nil {
			return SavedMsg{Err: client.UpdateScheme(editing.ID, scheme)}
		}
		_, err := client.CreateScheme(scheme)
		return SavedMsg{Created: true, Err: err}
	}
}

// View renders the schemes screen.
func (m Model) View() string {
	header := theme.StyleHeader.Render("  Schemes")

	switch m.mode {
	case modeForm:
		title := "  New scheme"
		if m.editing != nil {
			title = "  Edit scheme"
		}
		lines := []string{theme.StyleHeader.Render(title), m.form.View()}
		if m.errMsg != "" {
			lines = append(lines, theme.StyleError.Render("  "+m.errMsg))
		}
		return lipgloss.JoinVertical(lipgloss.Left, lines...)

	case modeConfirm:
		if m.confirming != nil {
			return lipgloss.JoinVertical(lipgloss.Left,
				header,
				theme.StyleError.Render(fmt.Sprintf("  Delete %q? (y/n)", m.confirming.Name)),
			)
		}
	}

	if m.loading {
		return lipgloss.JoinVertical(lipgloss.Left, header, theme.StyleDimmed.Render("  Loading..."))
	}

	lines := []string{
		header,
		theme.StyleDimmed.Render(fmt.Sprintf("  %-36s %-4s %-16s %-14s %s",
			"Name", "Type", "Target", "State", "Status")),
	}
	if len(m.schemes) == 0 {
		lines = append(lines, theme.StyleDimmed.Render("  No schemes"))
	}
	for i, scheme := range m.schemes {
		prefix := "  "
		if i == m.cursor {
			prefix = lipgloss.NewStyle().Foreground(theme.ColorAccent).Render("> ")
		}
		status := lipgloss.NewStyle().Foreground(theme.ActiveColor(scheme.IsActive)).Render(activeLabel(scheme.IsActive))
		if scheme.IsFeatured {
			status += lipgloss.NewStyle().Foreground(theme.ColorFeatured).Render(" ★")
		}
		lines = append(lines, fmt.Sprintf("%s%-36s %s %-16s %-14s %s",
			prefix, truncate(scheme.Name, 36), theme.ScopeBadge(scheme.Type),
			truncate(scheme.Target, 16), truncate(scheme.State, 14), status))
	}
	if m.errMsg != "" {
		lines = append(lines, theme.StyleError.Render("  "+m.errMsg))
	}
	lines = append(lines, theme.StyleDimmed.Render("  j/k:navigate  n:new  e:edit  d:delete  r:refresh"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func activeLabel(active bool) string {
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

func itoaOrEmpty(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func atoiField(s, label string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative number", label)
	}
	return n, nil
}

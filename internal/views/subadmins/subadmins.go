// Package subadmins is the subadmin management screen (ADMIN only):
// onboarding, verification, activation, and permission grants.
package subadmins

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jobsetu/admin-tui/internal/api"
	"github.com/jobsetu/admin-tui/internal/theme"
	"github.com/jobsetu/admin-tui/internal/views/form"
	"github.com/jobsetu/admin-tui/internal/views/login"
)

type mode int

const (
	modeList mode = iota
	modeForm
	modePerms
	modeVerify
	modeReject
)

// LoadedMsg delivers the subadmin list.
type LoadedMsg struct {
	Subadmins []api.Subadmin
	Err       error
}

// LoadErr exposes the fetch error for the app's global 401 handling.
func (m LoadedMsg) LoadErr() error { return m.Err }

// SavedMsg reports a create or update outcome.
type SavedMsg struct {
	Created bool
	Err     error
}

func (m SavedMsg) LoadErr() error { return m.Err }

// ActionMsg reports a verify/reject/activate/deactivate/permissions outcome.
type ActionMsg struct {
	Verb string
	Err  error
}

func (m ActionMsg) LoadErr() error { return m.Err }

// Form field order.
const (
	fMobile = iota
	fName
	fEmail
	fStates
)

// Model holds the subadmins screen state.
type Model struct {
	Width  int
	Height int

	client    *api.Client
	mode      mode
	subadmins []api.Subadmin
	cursor    int
	loading   bool
	errMsg    string

	form    form.Model
	editing *api.Subadmin

	permChecks []bool
	permCursor int

	prompt textinput.Model
}

// New creates the subadmins screen.
func New(client *api.Client) Model {
	return Model{client: client, loading: true}
}

// Capturing reports whether the screen is consuming raw key input, so the
// app must not treat keys as global shortcuts.
func (m Model) Capturing() bool {
	return m.mode != modeList
}

// Fetch returns the command loading the subadmin list.
func (m Model) Fetch() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		subadmins, err := client.ListSubadmins("")
		return LoadedMsg{Subadmins: subadmins, Err: err}
	}
}

// Update handles subadmins screen messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.errMsg = api.UserMessage(msg.Err, "Failed to load subadmins")
			return m, nil
		}
		m.errMsg = ""
		m.subadmins = msg.Subadmins
		if m.cursor >= len(m.subadmins) {
			m.cursor = max(0, len(m.subadmins)-1)
		}
		return m, nil

	case SavedMsg:
		if msg.Err != nil {
			m.errMsg = api.UserMessage(msg.Err, "Failed to save subadmin")
			return m, nil
		}
		m.mode = modeList
		m.editing = nil
		m.errMsg = ""
		return m, m.Fetch()

	case ActionMsg:
		m.mode = modeList
		if msg.Err != nil {
			m.errMsg = api.UserMessage(msg.Err, "Failed to "+msg.Verb+" subadmin")
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
		case modePerms:
			return m.updatePerms(msg)
		case modeVerify, modeReject:
			return m.updatePrompt(msg)
		}
	}

	switch m.mode {
	case modeForm:
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	case modeVerify, modeReject:
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if len(m.subadmins) > 0 {
			m.cursor = (m.cursor + 1) % len(m.subadmins)
		}
	case "k", "up":
		if len(m.subadmins) > 0 {
			m.cursor = (m.cursor - 1 + len(m.subadmins)) % len(m.subadmins)
		}
	case "r":
		m.loading = true
		return m, m.Fetch()
	case "n":
		m.editing = nil
		m.form = m.newForm(nil)
		m.mode = modeForm
	case "e", "enter":
		if len(m.subadmins) > 0 {
			sub := m.subadmins[m.cursor]
			m.editing = &sub
			m.form = m.newForm(&sub)
			m.mode = modeForm
		}
	case "p":
		if len(m.subadmins) > 0 {
			m.permChecks = make([]bool, len(api.AvailablePermissions))
			granted := map[string]bool{}
			if ap := m.subadmins[m.cursor].AdminProfile; ap != nil {
				for _, p := range ap.Permissions {
					granted[p] = true
				}
			}
			for i, p := range api.AvailablePermissions {
				m.permChecks[i] = granted[p]
			}
			m.permCursor = 0
			m.mode = modePerms
		}
	case "v":
		if m.pendingSelected() {
			m.prompt = newPrompt("verification notes (optional)")
			m.mode = modeVerify
		}
	case "x":
		if m.pendingSelected() {
			m.prompt = newPrompt("rejection reason")
			m.mode = modeReject
		}
	case "a":
		if len(m.subadmins) > 0 {
			sub := m.subadmins[m.cursor]
			client := m.client
			if sub.IsActive {
				return m, func() tea.Msg {
					return ActionMsg{Verb: "deactivate", Err: client.DeactivateSubadmin(sub.ID)}
				}
			}
			return m, func() tea.Msg {
				return ActionMsg{Verb: "activate", Err: client.ActivateSubadmin(sub.ID)}
			}
		}
	}
	return m, nil
}

func (m Model) pendingSelected() bool {
	return len(m.subadmins) > 0 &&
		m.subadmins[m.cursor].VerificationStatus == api.VerificationPending
}

func (m Model) updateForm(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		m.editing = nil
		m.errMsg = ""
		return m, nil
	case "ctrl+s":
		req, err := m.parseForm()
		if err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.errMsg = ""
		client := m.client
		editing := m.editing
		return m, func() tea.Msg {
			if editing != nil {
				return SavedMsg{Err: client.UpdateSubadmin(editing.ID, req)}
			}
			return SavedMsg{Created: true, Err: client.CreateSubadmin(req)}
		}
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m Model) updatePerms(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		return m, nil
	case "j", "down":
		m.permCursor = (m.permCursor + 1) % len(m.permChecks)
	case "k", "up":
		m.permCursor = (m.permCursor - 1 + len(m.permChecks)) % len(m.permChecks)
	case " ":
		m.permChecks[m.permCursor] = !m.permChecks[m.permCursor]
	case "ctrl+s":
		var perms []string
		for i, on := range m.permChecks {
			if on {
				perms = append(perms, api.AvailablePermissions[i])
			}
		}
		id := m.subadmins[m.cursor].ID
		client := m.client
		return m, func() tea.Msg {
			return ActionMsg{Verb: "update permissions for", Err: client.UpdateSubadminPermissions(id, perms)}
		}
	}
	return m, nil
}

func (m Model) updatePrompt(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		return m, nil
	case "enter":
		text := strings.TrimSpace(m.prompt.Value())
		id := m.subadmins[m.cursor].ID
		client := m.client
		if m.mode == modeVerify {
			return m, func() tea.Msg {
				return ActionMsg{Verb: "verify", Err: client.VerifySubadmin(id, text)}
			}
		}
		if text == "" {
			m.errMsg = "rejection reason is required"
			return m, nil
		}
		return m, func() tea.Msg {
			return ActionMsg{Verb: "reject", Err: client.RejectSubadmin(id, text)}
		}
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m Model) newForm(sub *api.Subadmin) form.Model {
	var mobile, name, email, states string
	if sub != nil {
		mobile = sub.MobileNumber
		if ap := sub.AdminProfile; ap != nil {
			name = ap.Name
			email = ap.Email
			states = strings.Join(ap.AssignedStates, ", ")
		}
	}
	return form.New(
		form.Text("Mobile number", "10-digit mobile", mobile, 16),
		form.Text("Name", "", name, 32),
		form.Text("Email", "optional", email, 32),
		form.Text("Assigned states", "comma-separated, empty = all", states, 48),
	)
}

func (m Model) parseForm() (api.SubadminRequest, error) {
	var req api.SubadminRequest
	req.MobileNumber = m.form.Value(fMobile)
	if !login.ValidMobile(req.MobileNumber) {
		return req, fmt.Errorf("enter a valid 10-digit mobile number")
	}
	req.Name = m.form.Value(fName)
	if req.Name == "" {
		return req, fmt.Errorf("name is required")
	}
	req.Email = m.form.Value(fEmail)
	if raw := m.form.Value(fStates); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				req.AssignedStates = append(req.AssignedStates, s)
			}
		}
	}
	return req, nil
}

// View renders the subadmins screen.
func (m Model) View() string {
	header := theme.StyleHeader.Render("  Subadmins")

	switch m.mode {
	case modeForm:
		title := "  New subadmin"
		if m.editing != nil {
			title = "  Edit subadmin"
		}
		lines := []string{theme.StyleHeader.Render(title), m.form.View()}
		if m.errMsg != "" {
			lines = append(lines, theme.StyleError.Render("  "+m.errMsg))
		}
		return lipgloss.JoinVertical(lipgloss.Left, lines...)

	case modePerms:
		lines := []string{theme.StyleHeader.Render("  Permissions: " + m.subadmins[m.cursor].MobileNumber)}
		for i, p := range api.AvailablePermissions {
			cursor := "  "
			if i == m.permCursor {
				cursor = lipgloss.NewStyle().Foreground(theme.ColorAccent).Render("> ")
			}
			check := "[ ]"
			if m.permChecks[i] {
				check = theme.StyleNotice.Render("[x]")
			}
			lines = append(lines, fmt.Sprintf("%s%s %s", cursor, check, p))
		}
		lines = append(lines, "", theme.StyleDimmed.Render("  space:toggle  ctrl+s:save  esc:cancel"))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)

	case modeVerify, modeReject:
		title := "  Verify " + m.subadmins[m.cursor].MobileNumber
		if m.mode == modeReject {
			title = "  Reject " + m.subadmins[m.cursor].MobileNumber
		}
		lines := []string{
			theme.StyleHeader.Render(title),
			"  " + m.prompt.View(),
			theme.StyleDimmed.Render("  enter:confirm  esc:cancel"),
		}
		if m.errMsg != "" {
			lines = append(lines, theme.StyleError.Render("  "+m.errMsg))
		}
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	if m.loading {
		return lipgloss.JoinVertical(lipgloss.Left, header, theme.StyleDimmed.Render("  Loading..."))
	}

	lines := []string{
		header,
		theme.StyleDimmed.Render(fmt.Sprintf("  %-12s %-20s %-10s %-8s %-24s %s",
			"Mobile", "Name", "Verified", "Status", "States", "Permissions")),
	}
	if len(m.subadmins) == 0 {
		lines = append(lines, theme.StyleDimmed.Render("  No subadmins"))
	}
	for i, sub := range m.subadmins {
		prefix := "  "
		if i == m.cursor {
			prefix = lipgloss.NewStyle().Foreground(theme.ColorAccent).Render("> ")
		}
		verStr := lipgloss.NewStyle().Foreground(theme.VerificationColor(sub.VerificationStatus)).
			Render(fmt.Sprintf("%-10s", sub.VerificationStatus))
		status := lipgloss.NewStyle().Foreground(theme.ActiveColor(sub.IsActive)).
			Render(fmt.Sprintf("%-8s", statusLabel(sub.IsActive)))
		var name, states string
		var nperms int
		if ap := sub.AdminProfile; ap != nil {
			name = ap.Name
			states = strings.Join(ap.AssignedStates, ",")
			nperms = len(ap.Permissions)
		}
		if states == "" {
			states = "all"
		}
		lines = append(lines, fmt.Sprintf("%s%-12s %-20s %s %s %-24s %d",
			prefix, sub.MobileNumber, truncate(name, 20), verStr, status,
			truncate(states, 24), nperms))
	}
	if m.errMsg != "" {
		lines = append(lines, theme.StyleError.Render("  "+m.errMsg))
	}
	lines = append(lines, theme.StyleDimmed.Render(
		"  j/k:navigate  n:new  e:edit  p:permissions  v:verify  x:reject  a:toggle active  r:refresh"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func newPrompt(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.Width = 48
	ti.Focus()
	return ti
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

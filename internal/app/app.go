// Package app is the root Bubble Tea model: it owns the screen stack,
// routes messages to the active screen, and wires the session store, the
// access gate, and the realtime connection together.
package app

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/jobsetu/admin-tui/internal/api"
	"github.com/jobsetu/admin-tui/internal/realtime"
	"github.com/jobsetu/admin-tui/internal/session"
	"github.com/jobsetu/admin-tui/internal/theme"
	"github.com/jobsetu/admin-tui/internal/views/auditlog"
	"github.com/jobsetu/admin-tui/internal/views/dashboard"
	"github.com/jobsetu/admin-tui/internal/views/jobs"
	"github.com/jobsetu/admin-tui/internal/views/login"
	"github.com/jobsetu/admin-tui/internal/views/schemes"
	"github.com/jobsetu/admin-tui/internal/views/statusbar"
	"github.com/jobsetu/admin-tui/internal/views/subadmins"
	"github.com/jobsetu/admin-tui/internal/views/subhome"
	"github.com/jobsetu/admin-tui/internal/views/users"
)

// Screen identifies the active screen.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenDashboard
	ScreenSubhome
	ScreenJobs
	ScreenSchemes
	ScreenUsers
	ScreenSubadmins
	ScreenAuditLog
)

// loadResult is implemented by every fetch-outcome message, so expired
// credentials are handled in one place regardless of which screen asked.
type loadResult interface {
	LoadErr() error
}

// Model is the root Bubble Tea model.
type Model struct {
	client  *api.Client
	store   *session.Store
	manager *realtime.Manager
	bridge  *realtime.Bridge
	log     zerolog.Logger

	keys   KeyMap
	width  int
	height int

	screen Screen
	unsub  func() // bridge unsubscribe for the mounted screen

	statusBar statusbar.Model
	login     login.Model
	dashboard dashboard.Model
	subhome   subhome.Model
	jobs      jobs.Model
	schemes   schemes.Model
	users     users.Model
	subadmins subadmins.Model
	auditLog  auditlog.Model
}

// New creates the root model. The store must already be restored; an
// existing session lands the operator on their home screen directly.
func New(client *api.Client, store *session.Store, manager *realtime.Manager, bridge *realtime.Bridge, log zerolog.Logger) Model {
	m := Model{
		client:  client,
		store:   store,
		manager: manager,
		bridge:  bridge,
		log:     log,
		keys:    DefaultKeyMap(),

		statusBar: statusbar.New(),
		login:     login.New(client),
		dashboard: dashboard.New(client),
		subhome:   subhome.New(client),
		jobs:      jobs.New(client),
		schemes:   schemes.New(client),
		users:     users.New(client),
		subadmins: subadmins.New(client),
		auditLog:  auditlog.New(client),
	}

	store.Subscribe(func(s *session.Session) {
		if s == nil {
			log.Debug().Msg("session cleared")
		} else {
			log.Debug().Str("role", string(s.Role)).Msg("session active")
		}
	})

	if sess := store.Current(); sess != nil {
		client.SetToken(sess.Token)
		m.statusBar.SetIdentity(sess.DisplayName, string(sess.Role))
		m.subhome.SetGrants(sess.AssignedStates, sess.Permissions)
		m.screen = homeScreen(sess.Role)
		m.unsub = m.subscribeFor(m.screen)
	} else {
		m.screen = ScreenLogin
	}
	return m
}

// Init opens the realtime connection for a restored session and loads the
// initial screen.
func (m Model) Init() tea.Cmd {
	if sess := m.store.Current(); sess != nil {
		return tea.Batch(
			m.manager.OnSessionChange(sess),
			m.fetchFor(m.screen),
		)
	}
	return textinput.Blink
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Expired credential: any screen's fetch can discover it; the reaction
	// is always the same.
	if lr, ok := msg.(loadResult); ok && api.IsUnauthorized(lr.LoadErr()) {
		return m.expireSession()
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.statusBar.Width = msg.Width
		m.dashboard.Width = msg.Width
		m.subhome.Width = msg.Width
		m.jobs.Width, m.jobs.Height = msg.Width, msg.Height
		m.schemes.Width, m.schemes.Height = msg.Width, msg.Height
		m.users.Width, m.users.Height = msg.Width, msg.Height
		m.subadmins.Width, m.subadmins.Height = msg.Width, msg.Height
		m.auditLog.Width, m.auditLog.Height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case login.VerifiedMsg:
		if msg.Err == nil && msg.Result != nil {
			return m.startSession(msg.Result)
		}
		var cmd tea.Cmd
		m.login, cmd = m.login.Update(msg)
		return m, cmd

	case realtime.ConnectedMsg:
		m.statusBar.Connected = true
		return m, m.manager.HandleConnected()

	case realtime.DisconnectedMsg:
		m.statusBar.Connected = false
		return m, m.manager.HandleDisconnected()

	case realtime.EventMsg:
		notice, refresh := m.bridge.Dispatch(msg.Kind)
		m.statusBar.Push(notice.Text)
		return m, tea.Batch(refresh, m.manager.HandleEvent())

	case login.OTPSentMsg:
		var cmd tea.Cmd
		m.login, cmd = m.login.Update(msg)
		return m, cmd

	case dashboard.StatsLoadedMsg:
		var cmd tea.Cmd
		m.dashboard, cmd = m.dashboard.Update(msg)
		return m, cmd

	case subhome.StatsLoadedMsg:
		var cmd tea.Cmd
		m.subhome, cmd = m.subhome.Update(msg)
		return m, cmd

	case jobs.LoadedMsg, jobs.SavedMsg, jobs.DeletedMsg:
		var cmd tea.Cmd
		m.jobs, cmd = m.jobs.Update(msg)
		return m, cmd

	case schemes.LoadedMsg, schemes.SavedMsg, schemes.DeletedMsg:
		var cmd tea.Cmd
		m.schemes, cmd = m.schemes.Update(msg)
		return m, cmd

	case users.LoadedMsg:
		var cmd tea.Cmd
		m.users, cmd = m.users.Update(msg)
		return m, cmd

	case subadmins.LoadedMsg, subadmins.SavedMsg, subadmins.ActionMsg:
		var cmd tea.Cmd
		m.subadmins, cmd = m.subadmins.Update(msg)
		return m, cmd

	case auditlog.LoadedMsg:
		var cmd tea.Cmd
		m.auditLog, cmd = m.auditLog.Update(msg)
		return m, cmd
	}

	return m.routeToScreen(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		m.manager.Teardown()
		return m, tea.Quit
	}

	if m.screen == ScreenLogin {
		if key.Matches(msg, m.keys.Quit) {
			m.manager.Teardown()
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.login, cmd = m.login.Update(msg)
		return m, cmd
	}

	if !m.capturing() {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.manager.Teardown()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Logout):
			return m.logout()
		case key.Matches(msg, m.keys.Home):
			return m.navigateHome()
		case key.Matches(msg, m.keys.Jobs):
			return m.navigate(ScreenJobs)
		case key.Matches(msg, m.keys.Schemes):
			return m.navigate(ScreenSchemes)
		case key.Matches(msg, m.keys.Users):
			return m.navigate(ScreenUsers)
		case key.Matches(msg, m.keys.Subadmins):
			return m.navigate(ScreenSubadmins)
		case key.Matches(msg, m.keys.AuditLog):
			return m.navigate(ScreenAuditLog)
		}
	}

	return m.routeToScreen(msg)
}

// capturing reports whether the active screen is consuming raw key input
// (a form or prompt is open).
func (m Model) capturing() bool {
	switch m.screen {
	case ScreenJobs:
		return m.jobs.Capturing()
	case ScreenSchemes:
		return m.schemes.Capturing()
	case ScreenSubadmins:
		return m.subadmins.Capturing()
	case ScreenAuditLog:
		return m.auditLog.Capturing()
	}
	return false
}

func (m Model) routeToScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.screen {
	case ScreenLogin:
		m.login, cmd = m.login.Update(msg)
	case ScreenDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	case ScreenSubhome:
		m.subhome, cmd = m.subhome.Update(msg)
	case ScreenJobs:
		m.jobs, cmd = m.jobs.Update(msg)
	case ScreenSchemes:
		m.schemes, cmd = m.schemes.Update(msg)
	case ScreenUsers:
		m.users, cmd = m.users.Update(msg)
	case ScreenSubadmins:
		m.subadmins, cmd = m.subadmins.Update(msg)
	case ScreenAuditLog:
		m.auditLog, cmd = m.auditLog.Update(msg)
	}
	return m, cmd
}

// startSession establishes the session from a verified credential and
// routes by the role the backend just reported, not by any stored state.
func (m Model) startSession(result *api.VerifyResult) (tea.Model, tea.Cmd) {
	if err := m.store.Start(result.Token, result.User); err != nil {
		if errors.Is(err, api.ErrInvalidRole) {
			m.login = m.login.SetError("Access denied. Admin account required.")
		} else {
			m.login = m.login.SetError(api.UserMessage(err, "Failed to sign in"))
		}
		return m, nil
	}

	sess := m.store.Current()
	m.client.SetToken(sess.Token)
	m.statusBar.SetIdentity(sess.DisplayName, string(sess.Role))
	m.subhome.SetGrants(sess.AssignedStates, sess.Permissions)

	connect := m.manager.OnSessionChange(sess)
	next, fetch := m.navigate(homeScreen(sess.Role))
	return next, tea.Batch(connect, fetch)
}

// expireSession reacts to a rejected credential: drop local state, close
// the socket, and land on login with an explanation.
func (m Model) expireSession() (tea.Model, tea.Cmd) {
	m.store.Purge()
	m.client.SetToken("")
	m.manager.OnSessionChange(nil)
	if m.unsub != nil {
		m.unsub()
		m.unsub = nil
	}
	m.statusBar.SetIdentity("", "")
	m.statusBar.Connected = false
	m.login = m.login.Reset().SetError("Session expired. Please sign in again.")
	m.screen = ScreenLogin
	return m, textinput.Blink
}

// logout ends the session deliberately. The backend call inside End is
// best effort; locally the operator is always signed out.
func (m Model) logout() (tea.Model, tea.Cmd) {
	m.store.End()
	m.client.SetToken("")
	m.manager.OnSessionChange(nil)
	if m.unsub != nil {
		m.unsub()
		m.unsub = nil
	}
	m.statusBar.SetIdentity("", "")
	m.statusBar.Connected = false
	m.login = m.login.Reset()
	m.screen = ScreenLogin
	return m, textinput.Blink
}

func (m Model) navigateHome() (tea.Model, tea.Cmd) {
	sess := m.store.Current()
	if sess == nil {
		return m.navigate(ScreenLogin)
	}
	return m.navigate(homeScreen(sess.Role))
}

// navigate moves to the target screen, subject to the access gate. Denied
// transitions land on login or the role's home screen instead.
func (m Model) navigate(target Screen) (Model, tea.Cmd) {
	d := session.Authorize(m.store.Current(), requiredRoles(target)...)
	switch d.Verdict {
	case session.RedirectLogin:
		target = ScreenLogin
		m.login = m.login.Reset()
	case session.RedirectHome:
		target = homeScreen(d.Role)
	}

	if m.unsub != nil {
		m.unsub()
		m.unsub = nil
	}
	m.screen = target
	m.unsub = m.subscribeFor(target)
	return m, m.fetchFor(target)
}

// subscribeFor registers the screen's refresh interest in domain events.
// Screens without live data do not subscribe.
func (m *Model) subscribeFor(s Screen) func() {
	switch s {
	case ScreenDashboard:
		fetch := m.dashboard.Fetch
		return m.bridge.Subscribe(realtime.Handlers{OnJob: fetch, OnScheme: fetch})
	case ScreenSubhome:
		fetch := m.subhome.Fetch
		return m.bridge.Subscribe(realtime.Handlers{OnJob: fetch, OnScheme: fetch})
	case ScreenJobs:
		return m.bridge.Subscribe(realtime.Handlers{OnJob: m.jobs.Fetch})
	case ScreenSchemes:
		return m.bridge.Subscribe(realtime.Handlers{OnScheme: m.schemes.Fetch})
	}
	return nil
}

func (m Model) fetchFor(s Screen) tea.Cmd {
	switch s {
	case ScreenDashboard:
		return m.dashboard.Fetch()
	case ScreenSubhome:
		return m.subhome.Fetch()
	case ScreenJobs:
		return m.jobs.Fetch()
	case ScreenSchemes:
		return m.schemes.Fetch()
	case ScreenUsers:
		return m.users.Fetch()
	case ScreenSubadmins:
		return m.subadmins.Fetch()
	case ScreenAuditLog:
		return m.auditLog.Fetch()
	}
	return nil
}

// homeScreen maps a staff role to its landing screen.
func homeScreen(role api.Role) Screen {
	if role == api.RoleSubadmin {
		return ScreenSubhome
	}
	return ScreenDashboard
}

// requiredRoles returns the roles admitted to a screen. Empty means any
// authenticated staff role.
func requiredRoles(s Screen) []api.Role {
	switch s {
	case ScreenDashboard, ScreenUsers, ScreenSubadmins, ScreenAuditLog:
		return []api.Role{api.RoleAdmin}
	case ScreenSubhome:
		return []api.Role{api.RoleSubadmin}
	}
	return nil
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	if m.screen == ScreenLogin {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.statusBar.View(),
			m.login.View(),
		)
	}

	var body string
	switch m.screen {
	case ScreenDashboard:
		body = m.dashboard.View()
	case ScreenSubhome:
		body = m.subhome.View()
	case ScreenJobs:
		body = m.jobs.View()
	case ScreenSchemes:
		body = m.schemes.View()
	case ScreenUsers:
		body = m.users.View()
	case ScreenSubadmins:
		body = m.subadmins.View()
	case ScreenAuditLog:
		body = m.auditLog.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.statusBar.View(),
		body,
		theme.StyleDimmed.Render(m.globalHelp()),
	)
}

func (m Model) globalHelp() string {
	sess := m.store.Current()
	if sess != nil && sess.Role == api.RoleAdmin {
		return "  1:home  2:jobs  3:schemes  4:users  5:subadmins  6:audit  L:logout  q:quit"
	}
	return "  1:home  2:jobs  3:schemes  L:logout  q:quit"
}

// Package login implements the OTP sign-in screen: mobile number entry,
// then code entry. Malformed input is rejected inline, before any request
// is dispatched.
package login

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jobsetu/admin-tui/internal/api"
	"github.com/jobsetu/admin-tui/internal/theme"
)

// Phase is the login step being shown.
type Phase int

const (
	PhaseMobile Phase = iota
	PhaseOTP
)

// OTPSentMsg reports the send-otp call's outcome.
type OTPSentMsg struct{ Err error }

// VerifiedMsg reports the verify-otp call's outcome. On success the app
// establishes the session and routes by the returned principal's role.
type VerifiedMsg struct {
	Result *api.VerifyResult
	Err    error
}

// Model is the login screen state.
type Model struct {
	client *api.Client

	phase  Phase
	mobile textinput.Model
	otp    textinput.Model
	errMsg string
	busy   bool
}

// New creates the login screen.
func New(client *api.Client) Model {
	mobile := textinput.New()
	mobile.Placeholder = "10-digit mobile number"
	mobile.CharLimit = 10
	mobile.Width = 24
	mobile.Focus()

	otp := textinput.New()
	otp.Placeholder = "6-digit OTP"
	otp.CharLimit = 6
	otp.Width = 24

	return Model{client: client, mobile: mobile, otp: otp}
}

// Reset returns the screen to the mobile entry phase.
func (m Model) Reset() Model {
	m.phase = PhaseMobile
	m.mobile.Reset()
	m.otp.Reset()
	m.otp.Blur()
	m.mobile.Focus()
	m.errMsg = ""
	m.busy = false
	return m
}

// SetError shows an inline error (also used by the app for InvalidRole).
func (m Model) SetError(msg string) Model {
	m.errMsg = msg
	m.busy = false
	return m
}

// Update handles login input and request outcomes.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case OTPSentMsg:
		m.busy = false
		if msg.Err != nil {
			m.errMsg = api.UserMessage(msg.Err, "Failed to send OTP")
			return m, nil
		}
		m.phase = PhaseOTP
		m.errMsg = ""
		m.mobile.Blur()
		return m, m.otp.Focus()

	case VerifiedMsg:
		// Success is handled by the app; only errors land here.
		m.busy = false
		if msg.Err != nil {
			m.errMsg = api.UserMessage(msg.Err, "Invalid OTP")
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return m.submit()
		case "esc":
			if m.phase == PhaseOTP {
				return m.Reset(), nil
			}
		}
	}

	var cmd tea.Cmd
	if m.phase == PhaseMobile {
		m.mobile, cmd = m.mobile.Update(msg)
	} else {
		m.otp, cmd = m.otp.Update(msg)
	}
	return m, cmd
}

func (m Model) submit() (Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	if m.phase == PhaseMobile {
		mobile := strings.TrimSpace(m.mobile.Value())
		if !ValidMobile(mobile) {
			m.errMsg = "Enter a valid 10-digit mobile number"
			return m, nil
		}
		m.busy = true
		m.errMsg = ""
		return m, m.sendOTP(mobile)
	}

	otp := strings.TrimSpace(m.otp.Value())
	if !ValidOTP(otp) {
		m.errMsg = "Enter the 6-digit OTP"
		return m, nil
	}
	m.busy = true
	m.errMsg = ""
	return m, m.verifyOTP(strings.TrimSpace(m.mobile.Value()), otp)
}

func (m Model) sendOTP(mobile string) tea.Cmd {
	return func() tea.Msg {
		return OTPSentMsg{Err: m.client.SendOTP(mobile, "LOGIN")}
	}
}

func (m Model) verifyOTP(mobile, otp string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.client.VerifyOTP(mobile, otp, nil)
		return VerifiedMsg{Result: result, Err: err}
	}
}

// View renders the login screen.
func (m Model) View() string {
	title := theme.StyleHeader.Render("JobSetu Admin")

	var rows []string
	rows = append(rows, title, "")
	if m.phase == PhaseMobile {
		rows = append(rows,
			theme.StyleDimmed.Render("Mobile number"),
			m.mobile.View(),
			"",
			theme.StyleDimmed.Render("enter:send OTP  q:quit"),
		)
	} else {
		rows = append(rows,
			theme.StyleDimmed.Render("OTP sent to "+m.mobile.Value()),
			m.otp.View(),
			"",
			theme.StyleDimmed.Render("enter:verify  esc:change number"),
		)
	}
	if m.busy {
		rows = append(rows, "", theme.StyleDimmed.Render("Working..."))
	}
	if m.errMsg != "" {
		rows = append(rows, "", theme.StyleError.Render(m.errMsg))
	}

	box := theme.StyleBorder.Padding(1, 3).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...))
	return box
}

// ValidMobile reports whether s is a well-formed Indian mobile number:
// exactly ten digits, leading digit 6-9.
func ValidMobile(s string) bool {
	if len(s) != 10 {
		return false
	}
	if s[0] < '6' || s[0] > '9' {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ValidOTP reports whether s is a well-formed six-digit code.
func ValidOTP(s string) bool {
	if len(s) != 6 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

package app

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jobsetu/admin-tui/internal/api"
	"github.com/jobsetu/admin-tui/internal/realtime"
	"github.com/jobsetu/admin-tui/internal/session"
	"github.com/jobsetu/admin-tui/internal/views/jobs"
	"github.com/jobsetu/admin-tui/internal/views/login"
)

func newTestModel(t *testing.T, role api.Role) (Model, *session.Store) {
	t.Helper()
	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"), nil, zerolog.Nop())
	if role != "" {
		err := store.Start("tok", api.Principal{
			ID:           "u1",
			MobileNumber: "9999999999",
			Role:         role,
			AdminProfile: &api.AdminProfile{Name: "Asha"},
			IsActive:     true,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	client := api.NewClient("http://127.0.0.1:5000/api")
	manager := realtime.NewManager("ws://127.0.0.1:5000/ws", zerolog.Nop())
	bridge := realtime.NewBridge()
	m := New(client, store, manager, bridge, zerolog.Nop())
	m.width, m.height = 100, 40
	return m, store
}

func TestUnauthenticatedStartsAtLogin(t *testing.T) {
	m, _ := newTestModel(t, "")
	if m.screen != ScreenLogin {
		t.Fatalf("screen = %v, want ScreenLogin", m.screen)
	}
	if !strings.Contains(m.View(), "JobSetu Admin") {
		t.Error("login view should be rendered")
	}
}

func TestRestoredSessionLandsOnRoleHome(t *testing.T) {
	tests := []struct {
		role api.Role
		want Screen
	}{
		{role: api.RoleAdmin, want: ScreenDashboard},
		{role: api.RoleSubadmin, want: ScreenSubhome},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			m, _ := newTestModel(t, tt.role)
			if m.screen != tt.want {
				t.Errorf("screen = %v, want %v", m.screen, tt.want)
			}
			if m.Init() == nil {
				t.Error("Init should connect and fetch for a restored session")
			}
		})
	}
}

func TestGateBlocksSubadminFromAdminScreens(t *testing.T) {
	for _, target := range []Screen{ScreenDashboard, ScreenUsers, ScreenSubadmins, ScreenAuditLog} {
		m, _ := newTestModel(t, api.RoleSubadmin)
		got, _ := m.navigate(target)
		if got.screen != ScreenSubhome {
			t.Errorf("navigate(%v) landed on %v, want ScreenSubhome", target, got.screen)
		}
	}
}

func TestGateAllowsStaffScreens(t *testing.T) {
	m, _ := newTestModel(t, api.RoleSubadmin)
	got, cmd := m.navigate(ScreenJobs)
	if got.screen != ScreenJobs {
		t.Errorf("screen = %v, want ScreenJobs", got.screen)
	}
	if cmd == nil {
		t.Error("navigation should fetch the screen's data")
	}
}

func TestNavigationManagesBridgeSubscription(t *testing.T) {
	m, _ := newTestModel(t, api.RoleAdmin)
	if m.bridge.Len() != 1 {
		t.Fatalf("home screen should hold one subscription, got %d", m.bridge.Len())
	}

	m, _ = m.navigate(ScreenJobs)
	if m.bridge.Len() != 1 {
		t.Errorf("Len() = %d after moving to jobs, want 1", m.bridge.Len())
	}

	// Users has no live data and holds no subscription.
	m, _ = m.navigate(ScreenUsers)
	if m.bridge.Len() != 0 {
		t.Errorf("Len() = %d on users screen, want 0", m.bridge.Len())
	}
}

func TestEventPushesNoticeAndRefreshes(t *testing.T) {
	m, _ := newTestModel(t, api.RoleAdmin)

	next, cmd := m.Update(realtime.EventMsg{Kind: realtime.EventJobCreated})
	got := next.(Model)
	if !strings.Contains(got.statusBar.View(), "New job created") {
		t.Error("status bar should show the event notice")
	}
	if cmd == nil {
		t.Error("a job event on the dashboard should trigger a refresh")
	}
}

func TestExpiredCredentialReturnsToLogin(t *testing.T) {
	m, store := newTestModel(t, api.RoleAdmin)

	next, _ := m.Update(jobs.LoadedMsg{Err: api.ErrUnauthorized})
	got := next.(Model)
	if got.screen != ScreenLogin {
		t.Fatalf("screen = %v, want ScreenLogin after a 401", got.screen)
	}
	if store.Current() != nil {
		t.Error("session should be purged after a 401")
	}
	if got.bridge.Len() != 0 {
		t.Error("bridge subscription should be released on expiry")
	}
	if !strings.Contains(got.View(), "Session expired") {
		t.Error("login should explain why the operator is back")
	}
}

func TestNonStaffVerificationIsRejected(t *testing.T) {
	m, store := newTestModel(t, "")

	next, _ := m.Update(login.VerifiedMsg{Result: &api.VerifyResult{
		Token: "tok",
		User:  api.Principal{ID: "u2", MobileNumber: "7000000001", Role: api.RoleUser, IsActive: true},
	}})
	got := next.(Model)
	if got.screen != ScreenLogin {
		t.Fatalf("screen = %v, want ScreenLogin", got.screen)
	}
	if store.Current() != nil {
		t.Error("no session may be established for a non-staff principal")
	}
	if !strings.Contains(got.View(), "Access denied. Admin account required.") {
		t.Error("login should show the access-denied message")
	}
}

func TestVerifiedStaffRoutesByReportedRole(t *testing.T) {
	m, store := newTestModel(t, "")

	next, cmd := m.Update(login.VerifiedMsg{Result: &api.VerifyResult{
		Token: "tok",
		User: api.Principal{
			ID: "u3", MobileNumber: "8888888888", Role: api.RoleSubadmin,
			AdminProfile: &api.AdminProfile{Name: "Desk", AssignedStates: []string{"Bihar"}},
			IsActive:     true,
		},
	}})
	got := next.(Model)
	if got.screen != ScreenSubhome {
		t.Errorf("screen = %v, want ScreenSubhome for a SUBADMIN principal", got.screen)
	}
	if store.Current() == nil || store.Current().Role != api.RoleSubadmin {
		t.Error("session should be established with the reported role")
	}
	if cmd == nil {
		t.Error("login should connect the socket and fetch the home screen")
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	m, store := newTestModel(t, api.RoleAdmin)

	next, _ := m.logout()
	got := next.(Model)
	if got.screen != ScreenLogin {
		t.Errorf("screen = %v, want ScreenLogin after logout", got.screen)
	}
	if store.Current() != nil {
		t.Error("session should be ended")
	}
	if got.manager.State() != realtime.StateAbsent {
		t.Error("socket should be torn down on logout")
	}
	if got.bridge.Len() != 0 {
		t.Error("bridge subscription should be released on logout")
	}
}

func TestQuitKeyTearsDownSocket(t *testing.T) {
	m, _ := newTestModel(t, api.RoleAdmin)
	m.manager.OnSessionChange(m.store.Current())

	next, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	got := next.(Model)
	if cmd == nil {
		t.Fatal("quit should return tea.Quit")
	}
	if got.manager.State() != realtime.StateAbsent {
		t.Error("socket should be torn down before quitting")
	}
}

package session

import "github.com/jobsetu/admin-tui/internal/api"

// Verdict is the outcome of an authorization check.
type Verdict int

const (
	// Allow admits the transition.
	Allow Verdict = iota
	// RedirectLogin sends the operator to the login screen.
	RedirectLogin
	// RedirectHome sends the operator to their role's home screen.
	RedirectHome
)

// Decision carries the verdict and, for RedirectHome, the role whose home
// screen should be shown.
type Decision struct {
	Verdict Verdict
	Role    api.Role
}

// Authorize decides whether the current session may enter a screen that
// requires one of the given roles. With no required roles, any
// authenticated staff role is accepted. Pure; no side effects.
func Authorize(s *Session, required ...api.Role) Decision {
	if s == nil {
		return Decision{Verdict: RedirectLogin}
	}
	if !s.Role.Staff() {
		return Decision{Verdict: RedirectLogin}
	}
	if len(required) == 0 {
		required = []api.Role{api.RoleAdmin, api.RoleSubadmin}
	}
	for _, r := range required {
		if s.Role == r {
			return Decision{Verdict: Allow}
		}
	}
	return Decision{Verdict: RedirectHome, Role: s.Role}
}

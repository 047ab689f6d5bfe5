package session

import (
	"testing"

	"github.com/jobsetu/admin-tui/internal/api"
)

func TestAuthorize(t *testing.T) {
	admin := &Session{PrincipalID: "a", Role: api.RoleAdmin, Token: "t"}
	subadmin := &Session{PrincipalID: "s", Role: api.RoleSubadmin, Token: "t"}

	tests := []struct {
		name     string
		session  *Session
		required []api.Role
		want     Decision
	}{
		{
			name:     "nil session → login",
			session:  nil,
			required: nil,
			want:     Decision{Verdict: RedirectLogin},
		},
		{
			name:     "nil session ignores requirements",
			session:  nil,
			required: []api.Role{api.RoleAdmin},
			want:     Decision{Verdict: RedirectLogin},
		},
		{
			name:     "non-staff role → login",
			session:  &Session{PrincipalID: "u", Role: api.RoleUser, Token: "t"},
			required: nil,
			want:     Decision{Verdict: RedirectLogin},
		},
		{
			name:     "admin, no requirement → allow",
			session:  admin,
			required: nil,
			want:     Decision{Verdict: Allow},
		},
		{
			name:     "subadmin, no requirement → allow",
			session:  subadmin,
			required: nil,
			want:     Decision{Verdict: Allow},
		},
		{
			name:     "admin on admin-only → allow",
			session:  admin,
			required: []api.Role{api.RoleAdmin},
			want:     Decision{Verdict: Allow},
		},
		{
			name:     "subadmin on admin-only → home with role",
			session:  subadmin,
			required: []api.Role{api.RoleAdmin},
			want:     Decision{Verdict: RedirectHome, Role: api.RoleSubadmin},
		},
		{
			name:     "admin on subadmin-only → home with role",
			session:  admin,
			required: []api.Role{api.RoleSubadmin},
			want:     Decision{Verdict: RedirectHome, Role: api.RoleAdmin},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Authorize(tt.session, tt.required...)
			if got != tt.want {
				t.Errorf("Authorize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

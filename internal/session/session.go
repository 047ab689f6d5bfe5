// Package session owns the authenticated principal and its persisted
// credential: who is logged in, with what role and permissions. The store
// is the single writer of the session file; everything else observes it
// through Subscribe.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/jobsetu/admin-tui/internal/api"
)

// Session is the in-memory view of an authenticated staff login.
type Session struct {
	PrincipalID    string   `json:"principalId"`
	Role           api.Role `json:"role"`
	DisplayName    string   `json:"displayName"`
	Permissions    []string `json:"permissions,omitempty"`
	AssignedStates []string `json:"assignedStates,omitempty"` // empty means unrestricted
	Token          string   `json:"token"`
}

// Listener observes session transitions. It receives the new session on
// login and nil on logout, synchronously in the same update.
type Listener func(*Session)

// Store is the single source of truth for the current session, backed by a
// JSON file so a restart restores the login without re-authentication.
// It is owned by the UI event loop and is not safe for concurrent use.
type Store struct {
	path      string
	current   *Session
	listeners []Listener
	logout    func() error // best-effort backend notification
	log       zerolog.Logger
}

// NewStore creates a store persisting to path. logout, if non-nil, is
// invoked on End; its failure is logged and otherwise ignored.
func NewStore(path string, logout func() error, log zerolog.Logger) *Store {
	return &Store{path: path, logout: logout, log: log}
}

// DefaultPath returns the session file location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "jobsetu-admin", "session.json"), nil
}

// Current returns the active session, or nil when unauthenticated.
func (s *Store) Current() *Session {
	return s.current
}

// Subscribe registers a listener for session transitions. Listeners are
// notified in registration order.
func (s *Store) Subscribe(fn Listener) {
	s.listeners = append(s.listeners, fn)
}

// Start establishes a session from a verified credential. A principal with
// a non-staff role is rejected with api.ErrInvalidRole and no state is
// persisted.
func (s *Store) Start(token string, principal api.Principal) error {
	if !principal.Role.Staff() {
		return fmt.Errorf("role %q: %w", principal.Role, api.ErrInvalidRole)
	}
	sess := &Session{
		PrincipalID: principal.ID,
		Role:        principal.Role,
		DisplayName: principal.DisplayName(),
		Token:       token,
	}
	if principal.AdminProfile != nil {
		sess.Permissions = principal.AdminProfile.Permissions
		sess.AssignedStates = principal.AdminProfile.AssignedStates
	}
	if err := s.persist(sess); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	s.current = sess
	s.log.Info().Str("principal", sess.PrincipalID).Str("role", string(sess.Role)).Msg("session started")
	s.notify()
	return nil
}

// Restore loads a persisted session at startup. Unreadable or non-staff
// state is purged and the store starts unauthenticated. The read is local
// and bounded; Restore never touches the network.
func (s *Store) Restore() *Session {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Warn().Err(err).Msg("session file unreadable, starting unauthenticated")
		}
		return nil
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		s.log.Warn().Err(err).Msg("session file corrupt, purging")
		s.purge()
		return nil
	}
	if !sess.Role.Staff() || sess.Token == "" {
		s.log.Warn().Str("role", string(sess.Role)).Msg("persisted session not staff, purging")
		s.purge()
		return nil
	}
	s.current = &sess
	s.log.Info().Str("principal", sess.PrincipalID).Str("role", string(sess.Role)).Msg("session restored")
	return s.current
}

// End logs out. The backend call is best effort; local logout always
// succeeds.
func (s *Store) End() {
	if s.logout != nil {
		if err := s.logout(); err != nil {
			s.log.Warn().Err(err).Msg("backend logout failed")
		}
	}
	s.purge()
	s.current = nil
	s.log.Info().Msg("session ended")
	s.notify()
}

// Purge drops local state without the backend call. Used when the backend
// has already rejected the credential.
func (s *Store) Purge() {
	s.purge()
	s.current = nil
	s.notify()
}

func (s *Store) persist(sess *Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

func (s *Store) purge() {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.log.Warn().Err(err).Msg("removing session file")
	}
}

func (s *Store) notify() {
	for _, fn := range s.listeners {
		fn(s.current)
	}
}

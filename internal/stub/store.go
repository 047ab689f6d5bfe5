// Package stub is a self-contained development backend for the admin TUI:
// the REST surface, the realtime event socket, and an in-memory dataset.
package stub

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jobsetu/admin-tui/internal/api"
)

var errNotFound = errors.New("not found")

// Store holds the stub's dataset. All access goes through the mutex; the
// dataset does not survive a restart.
type Store struct {
	mu sync.RWMutex

	jobs    map[string]*api.Job
	schemes map[string]*api.Scheme
	users   map[string]*api.User

	// verification status per SUBADMIN user id
	verification map[string]string

	audits []api.AuditLog
	otps   map[string]string
}

// NewStore creates a store with a small seed dataset: one admin, one
// verified subadmin, a few users, jobs, and schemes.
func NewStore() *Store {
	s := &Store{
		jobs:         make(map[string]*api.Job),
		schemes:      make(map[string]*api.Scheme),
		users:        make(map[string]*api.User),
		verification: make(map[string]string),
		otps:         make(map[string]string),
	}
	s.seed()
	return s
}

func (s *Store) seed() {
	now := time.Now()

	admin := &api.User{
		ID:           uuid.NewString(),
		MobileNumber: "9999999999",
		Role:         api.RoleAdmin,
		AdminProfile: &api.AdminProfile{Name: "Root Admin", Email: "admin@jobsetu.local"},
		IsActive:     true,
		CreatedAt:    now,
	}
	s.users[admin.ID] = admin

	sub := &api.User{
		ID:           uuid.NewString(),
		MobileNumber: "8888888888",
		Role:         api.RoleSubadmin,
		AdminProfile: &api.AdminProfile{
			Name:           "Bihar Desk",
			Permissions:    []string{"CREATE_JOBS", "EDIT_JOBS"},
			AssignedStates: []string{"Bihar"},
		},
		IsActive:  true,
		CreatedAt: now,
	}
	s.users[sub.ID] = sub
	s.verification[sub.ID] = api.VerificationVerified

	for i, mobile := range []string{"7000000001", "7000000002", "7000000003"} {
		u := &api.User{
			ID:           uuid.NewString(),
			MobileNumber: mobile,
			Role:         api.RoleUser,
			Profile: &api.UserProfile{
				FullName:  fmt.Sprintf("Seed User %d", i+1),
				State:     "Bihar",
				District:  "Patna",
				Education: "12th",
				Age:       20 + i,
			},
			IsActive:  true,
			CreatedAt: now,
		}
		s.users[u.ID] = u
	}

	job := &api.Job{
		ID:         uuid.NewString(),
		Title:      "Constable Recruitment 2026",
		JobType:    "STATE",
		Domain:     "Police",
		State:      "Bihar",
		Education:  "12th",
		AgeMin:     18,
		AgeMax:     25,
		LastDate:   "2026-12-31",
		IsActive:   true,
		IsFeatured: true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.jobs[job.ID] = job

	scheme := &api.Scheme{
		ID:        uuid.NewString(),
		Name:      "PM Awas Yojana",
		Type:      "CENTRAL",
		Target:    "Rural households",
		Benefit:   "Money",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.schemes[scheme.ID] = scheme
}

// --- OTP ---

// SaveOTP records the code last issued to a mobile number.
func (s *Store) SaveOTP(mobile, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.otps[mobile] = code
}

// CheckOTP verifies and consumes the code for a mobile number.
func (s *Store) CheckOTP(mobile, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.otps[mobile] != code {
		return false
	}
	delete(s.otps, mobile)
	return true
}

// --- Users ---

// UserByID returns the user with the given id.
func (s *Store) UserByID(id string) (*api.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	return u, ok
}

// FindByMobile returns the user with the given mobile number.
func (s *Store) FindByMobile(mobile string) (*api.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.MobileNumber == mobile {
			return u, true
		}
	}
	return nil, false
}

// FindOrCreateUser returns the account for a mobile number, creating a
// plain USER account on first login.
func (s *Store) FindOrCreateUser(mobile string) *api.User {
	if u, ok := s.FindByMobile(mobile); ok {
		return u
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &api.User{
		ID:           uuid.NewString(),
		MobileNumber: mobile,
		Role:         api.RoleUser,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	s.users[u.ID] = u
	return u
}

// ListUsers returns all accounts sorted by creation time, newest first.
func (s *Store) ListUsers() []api.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]api.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// --- Jobs ---

// ListJobs returns all job postings, newest first.
func (s *Store) ListJobs() []api.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]api.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, *j)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// CreateJob stores a new job posting.
func (s *Store) CreateJob(job api.Job) *api.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	job.ID = uuid.NewString()
	job.CreatedAt = time.Now()
	job.UpdatedAt = job.CreatedAt
	s.jobs[job.ID] = &job
	return &job
}

// UpdateJob replaces the job with the given id.
func (s *Store) UpdateJob(id string, job api.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.jobs[id]
	if !ok {
		return errNotFound
	}
	job.ID = id
	job.CreatedAt = old.CreatedAt
	job.UpdatedAt = time.Now()
	s.jobs[id] = &job
	return nil
}

// DeleteJob removes the job with the given id.
func (s *Store) DeleteJob(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[id]; !ok {
		return errNotFound
	}
	delete(s.jobs, id)
	return nil
}

// --- Schemes ---

// ListSchemes returns all schemes, newest first.
func (s *Store) ListSchemes() []api.Scheme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]api.Scheme, 0, len(s.schemes))
	for _, sc := range s.schemes {
		out = append(out, *sc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// CreateScheme stores a new scheme.
func (s *Store) CreateScheme(scheme api.Scheme) *api.Scheme {
	s.mu.Lock()
	defer s.mu.Unlock()
	scheme.ID = uuid.NewString()
	scheme.CreatedAt = time.Now()
	scheme.UpdatedAt = scheme.CreatedAt
	s.schemes[scheme.ID] = &scheme
	return &scheme
}

// UpdateScheme replaces the scheme with the given id.
func (s *Store) UpdateScheme(id string, scheme api.Scheme) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.schemes[id]
	if !ok {
		return errNotFound
	}
	scheme.ID = id
	scheme.CreatedAt = old.CreatedAt
	scheme.UpdatedAt = time.Now()
	s.schemes[id] = &scheme
	return nil
}

// DeleteScheme removes the scheme with the given id.
func (s *Store) DeleteScheme(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.schemes[id]; !ok {
		return errNotFound
	}
	delete(s.schemes, id)
	return nil
}

// --- Subadmins ---

// ListSubadmins returns SUBADMIN accounts, optionally filtered by
// verification status.
func (s *Store) ListSubadmins(status string) []api.Subadmin {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]api.Subadmin, 0)
	for _, u := range s.users {
		if u.Role != api.RoleSubadmin {
			continue
		}
		vs := s.verification[u.ID]
		if status != "" && vs != status {
			continue
		}
		out = append(out, api.Subadmin{User: *u, VerificationStatus: vs})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// CreateSubadmin creates a pending SUBADMIN account.
func (s *Store) CreateSubadmin(req api.SubadminRequest) (*api.Subadmin, error) {
	if _, exists := s.FindByMobile(req.MobileNumber); exists {
		return nil, fmt.Errorf("mobile number already registered")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &api.User{
		ID:           uuid.NewString(),
		MobileNumber: req.MobileNumber,
		Role:         api.RoleSubadmin,
		AdminProfile: &api.AdminProfile{
			Name:           req.Name,
			Email:          req.Email,
			Permissions:    req.Permissions,
			AssignedStates: req.AssignedStates,
		},
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	s.users[u.ID] = u
	s.verification[u.ID] = api.VerificationPending
	return &api.Subadmin{User: *u, VerificationStatus: api.VerificationPending}, nil
}

// UpdateSubadmin updates a subadmin's profile fields.
func (s *Store) UpdateSubadmin(id string, req api.SubadminRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok || u.Role != api.RoleSubadmin {
		return errNotFound
	}
	if u.AdminProfile == nil {
		u.AdminProfile = &api.AdminProfile{}
	}
	u.AdminProfile.Name = req.Name
	u.AdminProfile.Email = req.Email
	if req.AssignedStates != nil {
		u.AdminProfile.AssignedStates = req.AssignedStates
	}
	return nil
}

// SetVerification moves a subadmin to the given verification status.
func (s *Store) SetVerification(id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok || u.Role != api.RoleSubadmin {
		return errNotFound
	}
	s.verification[id] = status
	return nil
}

// SetActive enables or disables an account.
func (s *Store) SetActive(id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return errNotFound
	}
	u.IsActive = active
	return nil
}

// SetPermissions replaces a subadmin's permission grants.
func (s *Store) SetPermissions(id string, permissions []string) error {
	for _, p := range permissions {
		if !validPermission(p) {
			return fmt.Errorf("unknown permission %q", p)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok || u.Role != api.RoleSubadmin {
		return errNotFound
	}
	if u.AdminProfile == nil {
		u.AdminProfile = &api.AdminProfile{}
	}
	u.AdminProfile.Permissions = permissions
	return nil
}

func validPermission(p string) bool {
	for _, known := range api.AvailablePermissions {
		if p == known {
			return true
		}
	}
	return false
}

// --- Stats ---

// Stats computes the dashboard aggregate from the live dataset.
func (s *Store) Stats() api.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st api.Stats
	for _, u := range s.users {
		st.Users.Total++
		if u.IsActive {
			st.Users.Active++
		}
		if u.Role.Staff() {
			st.Users.Admins++
		}
	}
	for _, j := range s.jobs {
		st.Jobs.Total++
		if j.IsActive {
			st.Jobs.Active++
		}
		if j.IsFeatured {
			st.Jobs.Featured++
		}
		if strings.EqualFold(j.JobType, "CENTRAL") {
			st.Jobs.Central++
		} else {
			st.Jobs.State++
		}
	}
	for _, sc := range s.schemes {
		st.Schemes.Total++
		if sc.IsActive {
			st.Schemes.Active++
		}
		if sc.IsFeatured {
			st.Schemes.Featured++
		}
		if strings.EqualFold(sc.Type, "CENTRAL") {
			st.Schemes.Central++
		} else {
			st.Schemes.State++
		}
	}
	return st
}

// --- Audit trail ---

// Audit appends one entry to the audit trail.
func (s *Store) Audit(action, performedBy, targetUser string, details any, status string) {
	var raw json.RawMessage
	if details != nil {
		raw, _ = json.Marshal(details)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audits = append(s.audits, api.AuditLog{
		ID:          uuid.NewString(),
		Action:      action,
		PerformedBy: performedBy,
		TargetUser:  targetUser,
		Details:     raw,
		Status:      status,
		CreatedAt:   time.Now(),
	})
}

// ListAudits returns one page of the audit trail, newest first.
func (s *Store) ListAudits(f api.AuditFilter) api.AuditPage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]api.AuditLog, 0, len(s.audits))
	for _, a := range s.audits {
		if f.Action != "" && a.Action != f.Action {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.StartDate != "" {
			if start, err := time.Parse("2006-01-02", f.StartDate); err == nil && a.CreatedAt.Before(start) {
				continue
			}
		}
		if f.EndDate != "" {
			if end, err := time.Parse("2006-01-02", f.EndDate); err == nil && !a.CreatedAt.Before(end.AddDate(0, 0, 1)) {
				continue
			}
		}
		matched = append(matched, a)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	total := len(matched)
	pages := (total + limit - 1) / limit
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return api.AuditPage{Logs: matched[start:end], Total: total, Pages: pages}
}

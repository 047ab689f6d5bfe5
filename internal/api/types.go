// Package api provides the HTTP client for the JobSetu listing-service
// backend. Types mirror the backend wire protocol.
package api

import (
	"encoding/json"
	"time"
)

// Role is a principal's role as reported by the backend.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleSubadmin Role = "SUBADMIN"
	RoleUser     Role = "USER"
)

// Staff reports whether the role is allowed into the admin dashboard.
func (r Role) Staff() bool {
	return r == RoleAdmin || r == RoleSubadmin
}

// AdminProfile carries the staff-specific profile attached to a principal.
type AdminProfile struct {
	Name           string   `json:"name,omitempty"`
	Email          string   `json:"email,omitempty"`
	Permissions    []string `json:"permissions,omitempty"`
	AssignedStates []string `json:"assignedStates,omitempty"`
}

// Principal is the authenticated identity returned by verify-otp.
type Principal struct {
	ID           string        `json:"_id"`
	MobileNumber string        `json:"mobileNumber"`
	Role         Role          `json:"role"`
	AdminProfile *AdminProfile `json:"adminProfile,omitempty"`
	IsActive     bool          `json:"isActive"`
}

// DisplayName returns the best human-readable name for the principal.
func (p Principal) DisplayName() string {
	if p.AdminProfile != nil && p.AdminProfile.Name != "" {
		return p.AdminProfile.Name
	}
	return p.MobileNumber
}

// SalaryRange is an optional salary band on a job posting.
type SalaryRange struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Currency string `json:"currency"`
}

// Job mirrors the backend job document.
type Job struct {
	ID              string       `json:"_id,omitempty"`
	Title           string       `json:"title"`
	JobType         string       `json:"jobType"` // CENTRAL or STATE
	Domain          string       `json:"domain"`
	State           string       `json:"state,omitempty"`
	Education       string       `json:"education"`
	AgeMin          int          `json:"ageMin"`
	AgeMax          int          `json:"ageMax"`
	LastDate        string       `json:"lastDate,omitempty"`
	Description     string       `json:"description,omitempty"`
	ApplicationLink string       `json:"applicationLink,omitempty"`
	VacancyCount    int          `json:"vacancyCount,omitempty"`
	SalaryRange     *SalaryRange `json:"salaryRange,omitempty"`
	Requirements    []string     `json:"requirements,omitempty"`
	IsActive        bool         `json:"isActive"`
	IsFeatured      bool         `json:"isFeatured"`
	CreatedAt       time.Time    `json:"createdAt,omitempty"`
	UpdatedAt       time.Time    `json:"updatedAt,omitempty"`
}

// BenefitAmount is the monetary benefit attached to a scheme.
type BenefitAmount struct {
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
	Type     string `json:"type"` // Fixed or Variable
}

// Scheme mirrors the backend scheme document.
type Scheme struct {
	ID                  string         `json:"_id,omitempty"`
	Name                string         `json:"name"`
	Type                string         `json:"type"` // CENTRAL or STATE
	Target              string         `json:"target,omitempty"`
	Benefit             string         `json:"benefit,omitempty"`
	State               string         `json:"state,omitempty"`
	AgeMin              int            `json:"ageMin,omitempty"`
	AgeMax              int            `json:"ageMax,omitempty"`
	Description         string         `json:"description,omitempty"`
	ApplicationLink     string         `json:"applicationLink,omitempty"`
	EligibilityCriteria string         `json:"eligibilityCriteria,omitempty"`
	DocumentsRequired   []string       `json:"documentsRequired,omitempty"`
	BenefitAmount       *BenefitAmount `json:"benefitAmount,omitempty"`
	IsActive            bool           `json:"isActive"`
	IsFeatured          bool           `json:"isFeatured"`
	CreatedAt           time.Time      `json:"createdAt,omitempty"`
	UpdatedAt           time.Time      `json:"updatedAt,omitempty"`
}

// UserProfile is the end-user profile on a listing-service account.
type UserProfile struct {
	FullName  string `json:"fullName,omitempty"`
	State     string `json:"state,omitempty"`
	District  string `json:"district,omitempty"`
	Education string `json:"education,omitempty"`
	Age       int    `json:"age,omitempty"`
}

// User is an account as listed by /admin/users.
type User struct {
	ID           string        `json:"_id"`
	MobileNumber string        `json:"mobileNumber"`
	Role         Role          `json:"role"`
	Profile      *UserProfile  `json:"profile,omitempty"`
	AdminProfile *AdminProfile `json:"adminProfile,omitempty"`
	IsActive     bool          `json:"isActive"`
	CreatedAt    time.Time     `json:"createdAt,omitempty"`
}

// Subadmin verification statuses.
const (
	VerificationPending  = "PENDING"
	VerificationVerified = "VERIFIED"
	VerificationRejected = "REJECTED"
)

// Subadmin is a SUBADMIN account with its onboarding state.
type Subadmin struct {
	User
	VerificationStatus string `json:"verificationStatus"`
}

// SubadminRequest is the create/update body for a subadmin.
type SubadminRequest struct {
	MobileNumber   string   `json:"mobileNumber"`
	Name           string   `json:"name"`
	Email          string   `json:"email,omitempty"`
	Permissions    []string `json:"permissions,omitempty"`
	AssignedStates []string `json:"assignedStates,omitempty"`
}

// Permissions grantable to subadmins.
var AvailablePermissions = []string{
	"CREATE_JOBS",
	"EDIT_JOBS",
	"DELETE_JOBS",
	"CREATE_SCHEMES",
	"EDIT_SCHEMES",
	"DELETE_SCHEMES",
	"VIEW_USERS",
	"MANAGE_ADMINS",
}

// CountStats is a per-collection aggregate.
type CountStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Featured int `json:"featured,omitempty"`
	Central  int `json:"central,omitempty"`
	State    int `json:"state,omitempty"`
	Admins   int `json:"admins,omitempty"`
}

// Stats is the /admin/stats aggregate.
type Stats struct {
	Users   CountStats `json:"users"`
	Jobs    CountStats `json:"jobs"`
	Schemes CountStats `json:"schemes"`
}

// Audit log actions recorded by the backend.
var AuditActions = []string{
	"SUBADMIN_CREATED",
	"SUBADMIN_VERIFIED",
	"SUBADMIN_REJECTED",
	"SUBADMIN_UPDATED",
	"SUBADMIN_DEACTIVATED",
	"SUBADMIN_ACTIVATED",
	"SUBADMIN_PERMISSIONS_UPDATED",
}

// AuditLog is one append-only audit trail entry.
type AuditLog struct {
	ID          string          `json:"_id"`
	Action      string          `json:"action"`
	PerformedBy string          `json:"performedBy"`
	TargetUser  string          `json:"targetUser,omitempty"`
	Details     json.RawMessage `json:"details,omitempty"`
	Status      string          `json:"status"` // SUCCESS or FAILURE
	CreatedAt   time.Time       `json:"createdAt"`
}

// AuditFilter selects audit log entries.
type AuditFilter struct {
	Action    string
	Status    string
	StartDate string
	EndDate   string
	Page      int
	Limit     int
}

// AuditPage is one page of audit log results.
type AuditPage struct {
	Logs  []AuditLog
	Total int
	Pages int
}

// VerifyResult is the outcome of a successful OTP verification.
type VerifyResult struct {
	Token string    `json:"token"`
	User  Principal `json:"user"`
}

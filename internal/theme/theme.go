// Package theme provides the Lip Gloss color palette and reusable styles
// for the JobSetu admin TUI. It is a leaf package with no internal imports
// to avoid import cycles.
package theme

import "github.com/charmbracelet/lipgloss"

// Role colors.
var (
	ColorAdmin    = lipgloss.Color("#a855f7")
	ColorSubadmin = lipgloss.Color("#3b82f6")
	ColorUser     = lipgloss.Color("#9ca3af")
)

// Record state colors.
var (
	ColorActive   = lipgloss.Color("#22c55e")
	ColorInactive = lipgloss.Color("#dc2626")
	ColorFeatured = lipgloss.Color("#f59e0b")
	ColorCentral  = lipgloss.Color("#06b6d4")
	ColorState    = lipgloss.Color("#d97706")
)

// Subadmin verification status colors.
var (
	ColorPending  = lipgloss.Color("#d97706")
	ColorVerified = lipgloss.Color("#16a34a")
	ColorRejected = lipgloss.Color("#dc2626")
)

// UI chrome colors.
var (
	ColorBorder  = lipgloss.Color("#4b5563")
	ColorDimmed  = lipgloss.Color("#6b7280")
	ColorBright  = lipgloss.Color("#f9fafb")
	ColorHealthy = lipgloss.Color("#22c55e")
	ColorWarning = lipgloss.Color("#d97706")
	ColorDanger  = lipgloss.Color("#dc2626")
	ColorAccent  = lipgloss.Color("#7c3aed")
)

// RoleColor returns the color for a role name.
func RoleColor(role string) lipgloss.Color {
	switch role {
	case "ADMIN":
		return ColorAdmin
	case "SUBADMIN":
		return ColorSubadmin
	default:
		return ColorUser
	}
}

// VerificationColor returns the color for a subadmin verification status.
func VerificationColor(status string) lipgloss.Color {
	switch status {
	case "PENDING":
		return ColorPending
	case "VERIFIED":
		return ColorVerified
	case "REJECTED":
		return ColorRejected
	default:
		return ColorDimmed
	}
}

// ActiveColor returns green for active records, red otherwise.
func ActiveColor(active bool) lipgloss.Color {
	if active {
		return ColorActive
	}
	return ColorInactive
}

// ScopeBadge returns a colored badge for a CENTRAL/STATE scope.
func ScopeBadge(scope string) string {
	switch scope {
	case "CENTRAL":
		return lipgloss.NewStyle().Foreground(ColorCentral).Render("[C]")
	case "STATE":
		return lipgloss.NewStyle().Foreground(ColorState).Render("[S]")
	default:
		return lipgloss.NewStyle().Foreground(ColorDimmed).Render("[?]")
	}
}

// Reusable styles.
var (
	StyleBorder = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder)

	StyleHeader = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorBright)

	StyleDimmed = lipgloss.NewStyle().
		Foreground(ColorDimmed)

	StyleSelected = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorBright)

	StyleError = lipgloss.NewStyle().
		Foreground(ColorDanger)

	StyleNotice = lipgloss.NewStyle().
		Foreground(ColorHealthy)
)

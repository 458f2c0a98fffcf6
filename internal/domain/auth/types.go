package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "strings"

// Role represents an application's authorization role.
// Keep string form for easy persistence; the remote API reports it as "type".
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleVendor Role = "vendor"
)

// ParseRole normalizes a role string reported by the remote API.
// Unknown values yield false.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleVendor:
		return RoleVendor, true
	default:
		return "", false
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool { return r == RoleAdmin || r == RoleVendor }

// Label returns the human-readable role name shown in the console chrome.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RoleVendor:
		return "Vendor"
	default:
		return "User"
	}
}

// Profile is the slice of user identity the console keeps alongside the token.
// JSON field names match the persisted "userInfo" shape.
type Profile struct {
	ID    string `json:"id"`
	Role  Role   `json:"type"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session pairs the remote API token with the owning profile.
// Profile is non-nil iff Token is non-empty.
type Session struct {
	Token   string
	Profile *Profile
}

// IsAuthenticated reports whether the session carries a token.
func (s Session) IsAuthenticated() bool { return s.Token != "" }

// Role returns the session role or "" for an empty session.
func (s Session) Role() Role {
	if s.Profile == nil {
		return ""
	}
	return s.Profile.Role
}

package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Role represents a volunteer's authorization role.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleVolunteer Role = "volunteer"
)

// ParseRole normalizes a stored role string, defaulting to volunteer
// when the value is empty or unrecognized.
func ParseRole(v string) Role {
	switch Role(v) {
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleVolunteer
	}
}

// Session is the server-side token we persist for a logged-in volunteer.
// ID is an opaque session identifier (random URL-safe string); it is the
// only value ever placed in the client cookie.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	LoginTime time.Time `json:"login_time"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Valid reports whether the session carries the fields required to be
// considered authenticated: a user id and an email.
func (s Session) Valid() bool { return s.UserID != "" && s.Email != "" }

// IsAdmin returns true if the session role is admin.
func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }

// UserSummary is the caller-facing projection returned by a successful login.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// UserSummary returns the login response view of the session's account.
func (s Session) UserSummary() UserSummary {
	return UserSummary{ID: s.UserID, Name: s.Name, Email: s.Email, Role: s.Role}
}

// ClientInfo carries advisory client metadata captured at login time.
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

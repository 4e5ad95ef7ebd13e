//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"encoding/json"
	"errors"
	"html"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	domainauth "github.com/soulearn/volunteer-api/internal/domain/auth"
)

const (
	maxNameLen     = 255
	maxEmailLen    = 320
	minPasswordLen = 8
)

// VolunteerStatus controls whether a volunteer may authenticate.
type VolunteerStatus string

const (
	VolunteerStatusActive   VolunteerStatus = "active"
	VolunteerStatusInactive VolunteerStatus = "inactive"
)

// Valid reports whether the status is supported.
func (s VolunteerStatus) Valid() bool {
	switch s {
	case VolunteerStatusActive, VolunteerStatusInactive:
		return true
	default:
		return false
	}
}

// Volunteer represents a volunteer credential record.
// Email is stored normalized (lower-cased, trimmed); PasswordHash is a
// PHC-format Argon2id string and is never serialized to clients.
type Volunteer struct {
	ID           string          `json:"id"         db:"id"`
	Email        string          `json:"email"      db:"email"`
	PasswordHash string          `json:"-"          db:"password_hash"`
	Name         string          `json:"name"       db:"name"`
	Role         domainauth.Role `json:"role"       db:"role"`
	Status       VolunteerStatus `json:"status"     db:"status"`
	Profile      json.RawMessage `json:"profile"    db:"profile"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
	LastLogin    *time.Time      `json:"last_login,omitempty" db:"last_login"`
}

// Projection returns the caller-facing view served by current-user lookups.
func (v *Volunteer) Projection() VolunteerProjection {
	return VolunteerProjection{
		ID:        v.ID,
		Name:      v.Name,
		Email:     v.Email,
		Role:      domainauth.ParseRole(string(v.Role)),
		CreatedAt: v.CreatedAt,
	}
}

// VolunteerProjection is the safe subset of a volunteer record returned
// to authenticated callers.
type VolunteerProjection struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Role      domainauth.Role `json:"role"`
	CreatedAt time.Time       `json:"created_at"`
}

// RegisterVolunteerRequest represents parameters to create a volunteer.
type RegisterVolunteerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// emailPattern approximates RFC 5322 addr-spec closely enough for form input:
// one @, a non-empty local part, and a dotted domain.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// NormalizeEmail lower-cases and trims an email for use as the uniqueness
// and lookup key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SanitizeName trims a display name and escapes HTML metacharacters so the
// stored value is inert if later rendered into markup.
func SanitizeName(name string) string {
	return html.EscapeString(strings.TrimSpace(name))
}

// ValidEmail reports whether the (normalized) email is syntactically acceptable.
func ValidEmail(email string) bool {
	email = NormalizeEmail(email)
	if email == "" || utf8.RuneCountInString(email) > maxEmailLen {
		return false
	}
	return emailPattern.MatchString(email)
}

// ValidatePassword checks the password strength policy: minimum length plus
// at least one lowercase letter, one uppercase letter, one digit, and one
// symbol. The returned error message names the first violated rule.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLen {
		return errors.New("Password must be at least 8 characters")
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	switch {
	case !hasLower:
		return errors.New("Password must contain a lowercase letter")
	case !hasUpper:
		return errors.New("Password must contain an uppercase letter")
	case !hasDigit:
		return errors.New("Password must contain a number")
	case !hasSymbol:
		return errors.New("Password must contain a special character")
	}
	return nil
}

// Validate normalizes and validates a RegisterVolunteerRequest in place.
// Name is sanitized and Email normalized as side effects so the caller can
// persist the request fields directly.
func (r *RegisterVolunteerRequest) Validate() error {
	r.Name = SanitizeName(r.Name)
	if r.Name == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(r.Name) > maxNameLen {
		return errors.New("name cannot exceed 255 characters")
	}

	r.Email = NormalizeEmail(r.Email)
	if r.Email == "" {
		return errors.New("email is required and cannot be empty")
	}
	if !ValidEmail(r.Email) {
		return errors.New("Invalid email format")
	}

	return ValidatePassword(r.Password)
}

// EmptyProfile returns the initial profile sub-document for new volunteers.
// The shape mirrors what the dashboard edits later; the auth layer treats
// it as opaque.
func EmptyProfile() json.RawMessage {
	return json.RawMessage(`{"avatar":null,"bio":"","phone":"","address":""}`)
}

package model

import (
	"errors"
	"strings"
	"time"
)

// SessionRecord is the audit row written to the sessions table for every
// successful login. It is distinct from the live server-side session token:
// the token authenticates requests, the record documents the issuance.
type SessionRecord struct {
	ID          string    `json:"id"           db:"id"`
	VolunteerID string    `json:"volunteer_id" db:"volunteer_id"`
	SessionID   string    `json:"session_id"   db:"session_id"`
	IPAddress   string    `json:"ip_address"   db:"ip_address"`
	UserAgent   string    `json:"user_agent"   db:"user_agent"`
	CreatedAt   time.Time `json:"created_at"   db:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"   db:"expires_at"`
}

// CreateSessionRecordRequest represents parameters to record an issued session.
type CreateSessionRecordRequest struct {
	VolunteerID string
	SessionID   string
	IPAddress   string
	UserAgent   string
	ExpiresAt   time.Time
}

// Validate validates CreateSessionRecordRequest. Client metadata is advisory
// and defaults to "unknown" when absent.
func (r *CreateSessionRecordRequest) Validate() error {
	if strings.TrimSpace(r.VolunteerID) == "" {
		return errors.New("volunteer_id is required")
	}
	if strings.TrimSpace(r.SessionID) == "" {
		return errors.New("session_id is required")
	}
	if r.ExpiresAt.IsZero() {
		return errors.New("expires_at is required")
	}
	if r.IPAddress == "" {
		r.IPAddress = "unknown"
	}
	if r.UserAgent == "" {
		r.UserAgent = "unknown"
	}
	return nil
}

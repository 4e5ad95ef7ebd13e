package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters and internal/data; orchestration
// in internal/service.

import (
	"context"
	"time"

	domainauth "github.com/soulearn/volunteer-api/internal/domain/auth"
	"github.com/soulearn/volunteer-api/internal/domain/model"
)

// SessionStore persists and retrieves live server-side session tokens.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// PasswordHasher hashes passwords one-way and verifies candidates against
// stored hashes. Hashes are self-describing strings (PHC format); equality
// comparison of hashes is meaningless by design.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
}

// VolunteerRepository provides access to the credential store.
type VolunteerRepository interface {
	// Create inserts a new volunteer. The store enforces email uniqueness;
	// a duplicate surfaces as data.ErrEmailExists regardless of any racing
	// pre-check.
	Create(ctx context.Context, req *model.RegisterVolunteerRequest, passwordHash string) (*model.Volunteer, error)

	// GetByEmail fetches a volunteer by normalized email regardless of status.
	GetByEmail(ctx context.Context, email string) (*model.Volunteer, error)

	// GetActiveByEmail fetches a volunteer by normalized email with status=active.
	GetActiveByEmail(ctx context.Context, email string) (*model.Volunteer, error)

	// GetActiveByID fetches a volunteer by id with status=active.
	GetActiveByID(ctx context.Context, id string) (*model.Volunteer, error)

	// TouchLogin sets last_login and updated_at to now for the volunteer.
	TouchLogin(ctx context.Context, id string) error
}

// SessionRecordRepository provides access to the session audit store.
type SessionRecordRepository interface {
	// Create inserts an audit row for an issued session.
	Create(ctx context.Context, req *model.CreateSessionRecordRequest) (*model.SessionRecord, error)

	// DeleteBySessionID deletes every audit row matching the session token id
	// (supports multiple stale rows) and returns the count removed.
	DeleteBySessionID(ctx context.Context, sessionID string) (int64, error)

	// DeleteExpired deletes up to limit audit rows whose expires_at is before
	// the cutoff, returning the count removed. Used by the session reaper.
	DeleteExpired(ctx context.Context, params DeleteExpiredParams) (int64, error)
}

// DeleteExpiredParams bounds a reaper sweep of expired session records.
type DeleteExpiredParams struct {
	OlderThan time.Time
	Limit     int
}

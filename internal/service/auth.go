// Package service contains the application services that orchestrate
// repositories, the session store, and the password hasher.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/soulearn/volunteer-api/internal/data"
	domainauth "github.com/soulearn/volunteer-api/internal/domain/auth"
	"github.com/soulearn/volunteer-api/internal/domain/model"
	apperrors "github.com/soulearn/volunteer-api/internal/errors"
	"github.com/soulearn/volunteer-api/internal/observability/statsd"
	"github.com/soulearn/volunteer-api/internal/ports"
)

// Sentinel errors surfaced to handlers. Login failures are deliberately
// indistinguishable: wrong email, wrong password, and inactive account all
// map to ErrInvalidCredentials.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionInvalid     = errors.New("session invalid")
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Volunteers     ports.VolunteerRepository     // Required: credential store
	SessionRecords ports.SessionRecordRepository // Required: session audit store
	Sessions       ports.SessionStore            // Required: live token store
	Hasher         ports.PasswordHasher          // Required: password hashing
	SessionTTL     time.Duration                 // Optional: defaults to 1h
	TimeProvider   data.TimeProvider             // Optional: defaults to real time
	Logger         *slog.Logger                  // Optional: structured logger
	Metrics        statsd.Sink                   // Optional: metrics sink
}

// AuthService implements registration, login, logout, and session
// validation for the volunteer portal.
type AuthService struct {
	volunteers     ports.VolunteerRepository
	sessionRecords ports.SessionRecordRepository
	sessions       ports.SessionStore
	hasher         ports.PasswordHasher
	sessionTTL     time.Duration
	timeProvider   data.TimeProvider
	logger         *slog.Logger
	metrics        statsd.Sink
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) (*AuthService, error) {
	if opts.Volunteers == nil {
		return nil, errors.New("VolunteerRepository is required")
	}
	if opts.SessionRecords == nil {
		return nil, errors.New("SessionRecordRepository is required")
	}
	if opts.Sessions == nil {
		return nil, errors.New("SessionStore is required")
	}
	if opts.Hasher == nil {
		return nil, errors.New("PasswordHasher is required")
	}

	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	tp := opts.TimeProvider
	if tp == nil {
		tp = &data.RealTimeProvider{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthService{
		volunteers:     opts.Volunteers,
		sessionRecords: opts.SessionRecords,
		sessions:       opts.Sessions,
		hasher:         opts.Hasher,
		sessionTTL:     ttl,
		timeProvider:   tp,
		logger:         logger.With("component", "auth_service"),
		metrics:        opts.Metrics,
	}, nil
}

// MustNewAuthService constructs a new AuthService and panics on error.
// Use this when you're certain the options are valid (e.g., in main.go).
func MustNewAuthService(opts AuthServiceOptions) *AuthService {
	svc, err := NewAuthService(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create AuthService: %v", err))
	}
	return svc
}

// Register validates the request, hashes the password, and creates the
// volunteer. A duplicate email surfaces as a Conflict AppError with the
// same message whether detected here or by the unique index.
func (s *AuthService) Register(ctx context.Context, req *model.RegisterVolunteerRequest) (*model.Volunteer, error) {
	if req == nil {
		return nil, apperrors.Validation("All fields are required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.logger.ErrorContext(ctx, "password hashing failed", "error", err)
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Registration failed. Please try again.")
	}

	volunteer, err := s.volunteers.Create(ctx, req, hash)
	if err != nil {
		if errors.Is(err, data.ErrEmailExists) {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeConflict, "Email already registered")
		}
		s.logger.ErrorContext(ctx, "volunteer create failed", "error", err)
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Registration failed. Please try again.")
	}

	s.logger.InfoContext(ctx, "volunteer registered", "volunteer_id", volunteer.ID)
	s.count("auth.register", nil)
	return volunteer, nil
}

// count emits a counter metric when a sink is configured.
func (s *AuthService) count(name string, tags map[string]string) {
	if s.metrics != nil {
		s.metrics.Count(name, 1, tags)
	}
}

// LoginInput groups parameters for a login attempt.
type LoginInput struct {
	Email    string
	Password string
	Client   domainauth.ClientInfo
}

// LoginResult contains the issued session and the authenticated volunteer.
type LoginResult struct {
	Session   domainauth.Session
	Volunteer *model.Volunteer
}

// Login verifies credentials and, on success, issues a session: an audit
// record in the database and a live token in the session store. The token
// write comes last so a stored token always implies a recorded audit row.
// Every failure, including a store fault mid-sequence, surfaces as
// ErrInvalidCredentials; the detail is only logged.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := model.NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, ErrInvalidCredentials
	}

	volunteer, err := s.volunteers.GetActiveByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, data.ErrVolunteerNotFound) {
			s.logger.ErrorContext(ctx, "volunteer lookup failed", "error", err)
		}
		return nil, ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(input.Password, volunteer.PasswordHash)
	if err != nil {
		// A malformed stored hash is a data problem, not a wrong password,
		// but the caller still only learns that login failed.
		s.logger.ErrorContext(ctx, "password verify failed",
			"volunteer_id", volunteer.ID, "error", err)
		return nil, ErrInvalidCredentials
	}
	if !ok {
		s.count("auth.login", map[string]string{"result": "invalid"})
		return nil, ErrInvalidCredentials
	}

	now := s.timeProvider.Now()
	expiresAt := now.Add(s.sessionTTL)
	sessionID := uuid.NewString()

	session := domainauth.Session{
		ID:        sessionID,
		UserID:    volunteer.ID,
		Email:     volunteer.Email,
		Name:      volunteer.Name,
		Role:      domainauth.ParseRole(string(volunteer.Role)),
		LoginTime: now,
		ExpiresAt: expiresAt,
	}

	// Best-effort bookkeeping; a failure here must not block the login.
	if touchErr := s.volunteers.TouchLogin(ctx, volunteer.ID); touchErr != nil {
		s.logger.ErrorContext(ctx, "failed to update last_login",
			"volunteer_id", volunteer.ID, "error", touchErr)
	}

	if _, recErr := s.sessionRecords.Create(ctx, &model.CreateSessionRecordRequest{
		VolunteerID: volunteer.ID,
		SessionID:   sessionID,
		IPAddress:   input.Client.IPAddress,
		UserAgent:   input.Client.UserAgent,
		ExpiresAt:   expiresAt,
	}); recErr != nil {
		s.logger.ErrorContext(ctx, "failed to record session",
			"volunteer_id", volunteer.ID, "error", recErr)
		return nil, ErrInvalidCredentials
	}

	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		s.logger.ErrorContext(ctx, "failed to save session token",
			"volunteer_id", volunteer.ID, "error", saveErr)
		return nil, ErrInvalidCredentials
	}

	s.logger.InfoContext(ctx, "volunteer logged in",
		"volunteer_id", volunteer.ID, "session_id", sessionID)
	s.count("auth.login", map[string]string{"result": "success"})
	return &LoginResult{Session: session, Volunteer: volunteer}, nil
}

// GetSession retrieves and validates a live session by token id. Expired or
// missing sessions return ErrSessionInvalid.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, ErrSessionInvalid
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, ErrSessionInvalid
	}
	if !session.Valid() || s.timeProvider.Now().After(session.ExpiresAt) {
		// The store's TTL normally handles this; guard anyway.
		_ = s.sessions.Delete(ctx, sessionID)
		return nil, ErrSessionInvalid
	}
	return &session, nil
}

// CurrentUser re-validates the session's volunteer against the credential
// store on every call: the account must still exist and be active. When it
// is not, the session is destroyed and ErrSessionInvalid returned. A store
// fault also reports ErrSessionInvalid but leaves the token intact.
func (s *AuthService) CurrentUser(ctx context.Context, session *domainauth.Session) (*model.Volunteer, error) {
	if session == nil || !session.Valid() {
		return nil, ErrSessionInvalid
	}

	volunteer, err := s.volunteers.GetActiveByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, data.ErrVolunteerNotFound) {
			s.destroySession(ctx, session.ID)
			return nil, ErrSessionInvalid
		}
		// A store fault is not proof the account is gone: the token stays
		// and the caller simply has no current user this time.
		s.logger.ErrorContext(ctx, "current user lookup failed",
			"volunteer_id", session.UserID, "error", err)
		return nil, ErrSessionInvalid
	}
	return volunteer, nil
}

// Logout destroys the live token and removes every matching audit row.
// It is idempotent; logging out an unknown session is not an error.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	s.destroySession(ctx, sessionID)
	return nil
}

// destroySession removes the token and audit rows for a session id. Both
// deletes are best-effort: a failed audit cleanup leaves rows for the
// reaper, a failed token delete leaves a token that expires on its own.
func (s *AuthService) destroySession(ctx context.Context, sessionID string) {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete session token",
			"session_id", sessionID, "error", err)
	}
	if _, err := s.sessionRecords.DeleteBySessionID(ctx, sessionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete session records",
			"session_id", sessionID, "error", err)
	}
}

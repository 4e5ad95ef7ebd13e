// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/soulearn/volunteer-api/internal/data"
	domainauth "github.com/soulearn/volunteer-api/internal/domain/auth"
	"github.com/soulearn/volunteer-api/internal/domain/model"
	"github.com/soulearn/volunteer-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.SessionStore            = (*MemorySessionStore)(nil)
	_ ports.VolunteerRepository     = (*MemoryVolunteerRepo)(nil)
	_ ports.SessionRecordRepository = (*MemorySessionRecordRepo)(nil)
	_ ports.PasswordHasher          = (*PlainHasher)(nil)
)

// ErrNotFound is returned by MemorySessionStore when a session is absent.
var ErrNotFound = errors.New("session not found")

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	sessions map[string]domainauth.Session

	// SaveErr, GetErr, and DeleteErr force the corresponding call to fail.
	SaveErr   error
	GetErr    error
	DeleteErr error
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]domainauth.Session)}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	if m.GetErr != nil {
		return domainauth.Session{}, m.GetErr
	}
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.sessions, id)
	return nil
}

// Len reports the number of stored sessions.
func (m *MemorySessionStore) Len() int { return len(m.sessions) }

// MemoryVolunteerRepo is an in-memory volunteer repository keyed by
// normalized email, mirroring the unique index in the real store.
type MemoryVolunteerRepo struct {
	byEmail map[string]*model.Volunteer
	nextID  int

	// CreateErr and LookupErr force the corresponding calls to fail.
	CreateErr error
	LookupErr error
}

// NewMemoryVolunteerRepo creates a new in-memory volunteer repository.
func NewMemoryVolunteerRepo() *MemoryVolunteerRepo {
	return &MemoryVolunteerRepo{byEmail: make(map[string]*model.Volunteer)}
}

func (m *MemoryVolunteerRepo) Create(
	_ context.Context,
	req *model.RegisterVolunteerRequest,
	passwordHash string,
) (*model.Volunteer, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	email := model.NormalizeEmail(req.Email)
	if _, exists := m.byEmail[email]; exists {
		return nil, data.ErrEmailExists
	}
	m.nextID++
	now := time.Now()
	v := &model.Volunteer{
		ID:           fmt.Sprintf("volunteer-%d", m.nextID),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         model.SanitizeName(req.Name),
		Role:         domainauth.RoleVolunteer,
		Status:       model.VolunteerStatusActive,
		Profile:      model.EmptyProfile(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.byEmail[email] = v
	return m.copyOf(v), nil
}

func (m *MemoryVolunteerRepo) GetByEmail(_ context.Context, email string) (*model.Volunteer, error) {
	if m.LookupErr != nil {
		return nil, m.LookupErr
	}
	v, ok := m.byEmail[model.NormalizeEmail(email)]
	if !ok {
		return nil, data.ErrVolunteerNotFound
	}
	return m.copyOf(v), nil
}

func (m *MemoryVolunteerRepo) GetActiveByEmail(ctx context.Context, email string) (*model.Volunteer, error) {
	v, err := m.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if v.Status != model.VolunteerStatusActive {
		return nil, data.ErrVolunteerNotFound
	}
	return v, nil
}

func (m *MemoryVolunteerRepo) GetActiveByID(_ context.Context, id string) (*model.Volunteer, error) {
	if m.LookupErr != nil {
		return nil, m.LookupErr
	}
	for _, v := range m.byEmail {
		if v.ID == id && v.Status == model.VolunteerStatusActive {
			return m.copyOf(v), nil
		}
	}
	return nil, data.ErrVolunteerNotFound
}

func (m *MemoryVolunteerRepo) TouchLogin(_ context.Context, id string) error {
	for _, v := range m.byEmail {
		if v.ID == id {
			now := time.Now()
			v.LastLogin = &now
			v.UpdatedAt = now
			return nil
		}
	}
	return data.ErrVolunteerNotFound
}

// Deactivate flips a volunteer's status to inactive, for session
// re-validation tests.
func (m *MemoryVolunteerRepo) Deactivate(id string) bool {
	for _, v := range m.byEmail {
		if v.ID == id {
			v.Status = model.VolunteerStatusInactive
			return true
		}
	}
	return false
}

func (m *MemoryVolunteerRepo) copyOf(v *model.Volunteer) *model.Volunteer {
	cp := *v
	return &cp
}

// MemorySessionRecordRepo is an in-memory session audit store for unit tests.
type MemorySessionRecordRepo struct {
	Records []model.SessionRecord
	nextID  int

	// CreateErr forces Create to fail.
	CreateErr error
}

// NewMemorySessionRecordRepo creates a new in-memory session record repository.
func NewMemorySessionRecordRepo() *MemorySessionRecordRepo {
	return &MemorySessionRecordRepo{}
}

func (m *MemorySessionRecordRepo) Create(
	_ context.Context,
	req *model.CreateSessionRecordRequest,
) (*model.SessionRecord, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	m.nextID++
	rec := model.SessionRecord{
		ID:          fmt.Sprintf("record-%d", m.nextID),
		VolunteerID: req.VolunteerID,
		SessionID:   req.SessionID,
		IPAddress:   req.IPAddress,
		UserAgent:   req.UserAgent,
		CreatedAt:   time.Now(),
		ExpiresAt:   req.ExpiresAt,
	}
	m.Records = append(m.Records, rec)
	return &rec, nil
}

func (m *MemorySessionRecordRepo) DeleteBySessionID(_ context.Context, sessionID string) (int64, error) {
	var kept []model.SessionRecord
	var deleted int64
	for _, rec := range m.Records {
		if rec.SessionID == sessionID {
			deleted++
			continue
		}
		kept = append(kept, rec)
	}
	m.Records = kept
	return deleted, nil
}

func (m *MemorySessionRecordRepo) DeleteExpired(_ context.Context, params ports.DeleteExpiredParams) (int64, error) {
	var kept []model.SessionRecord
	var deleted int64
	for _, rec := range m.Records {
		if rec.ExpiresAt.Before(params.OlderThan) && (params.Limit <= 0 || deleted < int64(params.Limit)) {
			deleted++
			continue
		}
		kept = append(kept, rec)
	}
	m.Records = kept
	return deleted, nil
}

// PlainHasher is a transparent password hasher for tests. Hashes are the
// password with a fixed prefix, so assertions stay readable.
type PlainHasher struct {
	// HashErr forces Hash to fail.
	HashErr error
}

func (h *PlainHasher) Hash(password string) (string, error) {
	if h.HashErr != nil {
		return "", h.HashErr
	}
	return "plain$" + password, nil
}

func (h *PlainHasher) Verify(password, encodedHash string) (bool, error) {
	stored, ok := strings.CutPrefix(encodedHash, "plain$")
	if !ok {
		return false, errors.New("malformed hash")
	}
	return stored == password, nil
}

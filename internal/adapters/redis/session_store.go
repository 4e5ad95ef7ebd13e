package redis

// Package redis holds the Redis-backed session token store. The token is the
// live, cookie-bound login state; TTLs make expiry enforcement automatic.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	domainauth "github.com/soulearn/volunteer-api/internal/domain/auth"
)

// ErrNotFound is returned when no session exists for the given id, whether
// it never existed or its TTL elapsed.
var ErrNotFound = errors.New("session not found")

// Options configures a SessionStore.
type Options struct {
	// KeyPrefix namespaces session keys (default "session:").
	KeyPrefix string
}

// SessionStore persists server-side session tokens in Redis. Each token is
// stored as a JSON blob under KeyPrefix+ID with a TTL derived from the
// session's ExpiresAt, so Redis itself retires expired logins.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
}

// NewSessionStore creates a session store on the given Redis client.
func NewSessionStore(client redis.UniversalClient, opts Options) *SessionStore {
	prefix := opts.KeyPrefix
	if prefix == "" {
		prefix = "session:"
	}
	return &SessionStore{client: client, prefix: prefix}
}

func (s *SessionStore) key(id string) string { return s.prefix + id }

// Save writes the session with a TTL ending at sess.ExpiresAt.
// Sessions that are already expired are rejected rather than stored.
func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session is already expired")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := s.client.Set(ctx, s.key(sess.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Get fetches a live session by id. A missing key and an expired session
// both report ErrNotFound; the caller cannot distinguish them, matching the
// login-state semantics (either way, not authenticated).
func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}

	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Session{}, ErrNotFound
		}
		return domainauth.Session{}, fmt.Errorf("redis get: %w", err)
	}

	var sess domainauth.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return domainauth.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}

	// Redis TTL normally handles expiry; re-check in case of clock skew or a
	// key written without TTL by an older version.
	if !sess.ExpiresAt.After(time.Now()) {
		if delErr := s.Delete(ctx, id); delErr != nil {
			return domainauth.Session{}, fmt.Errorf("cleanup expired session: %w", delErr)
		}
		return domainauth.Session{}, ErrNotFound
	}

	return sess, nil
}

// Delete removes the session. Deleting an absent session is a no-op, which
// keeps logout idempotent.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

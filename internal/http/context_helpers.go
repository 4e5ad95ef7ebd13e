package httpx

import (
	"context"

	domainauth "github.com/soulearn/volunteer-api/internal/domain/auth"
)

// sessionKey is an unexported context key type to avoid collisions across
// packages. All handlers and middleware share this one key.
type sessionKey struct{}

// SetSessionInContext returns a child context carrying the given session.
// A nil session returns ctx unchanged.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetSessionFromContext returns the session from context and whether one
// is present.
func GetSessionFromContext(ctx context.Context) (*domainauth.Session, bool) {
	if session, ok := ctx.Value(sessionKey{}).(*domainauth.Session); ok && session != nil {
		return session, true
	}
	return nil, false
}

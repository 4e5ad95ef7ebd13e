package config

import "time"

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// SessionTTL is the lifetime of a login session. Both the server-side
	// session token and the audit record's expires_at use this value.
	SessionTTL time.Duration `env:"AUTH_SESSION_TTL" envDefault:"1h"`

	// FailedLoginDelay is slept before responding to a failed login attempt,
	// as a crude brute-force deterrent. Set to 0 to disable (tests do).
	FailedLoginDelay time.Duration `env:"AUTH_FAILED_LOGIN_DELAY" envDefault:"1s"`

	// Argon2 password hashing parameters.
	Argon2 Argon2Config `envPrefix:"AUTH_ARGON2_"`
}

// Argon2Config contains Argon2id parameters for password hashing.
// Defaults follow the RFC 9106 low-memory recommendation.
type Argon2Config struct {
	Time    uint32 `env:"TIME"    envDefault:"3"`
	MemoryK uint32 `env:"MEMORY"  envDefault:"65536"` // KiB
	Threads uint8  `env:"THREADS" envDefault:"2"`
}

// Sanitize applies guardrails to authentication configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionTTL <= 0 {
		a.SessionTTL = time.Hour
	}
	if a.FailedLoginDelay < 0 {
		a.FailedLoginDelay = 0
	}
	if a.Argon2.Time == 0 {
		a.Argon2.Time = 3
	}
	const minMemoryK = 8 * 1024
	if a.Argon2.MemoryK < minMemoryK {
		a.Argon2.MemoryK = minMemoryK
	}
	if a.Argon2.Threads == 0 {
		a.Argon2.Threads = 1
	}
}

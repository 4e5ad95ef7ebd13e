package config

import (
	"reflect"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestParseServices(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    map[ServiceMode]bool
		expectError bool
	}{
		{
			name:  "single service - http",
			input: "http",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP: true,
			},
			expectError: false,
		},
		{
			name:  "single service - reaper",
			input: "reaper",
			expected: map[ServiceMode]bool{
				ServiceModeReaper: true,
			},
			expectError: false,
		},
		{
			name:  "multiple services",
			input: "http,reaper",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:   true,
				ServiceModeReaper: true,
			},
			expectError: false,
		},
		{
			name:  "services with spaces",
			input: " http , reaper ",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:   true,
				ServiceModeReaper: true,
			},
			expectError: false,
		},
		{
			name:  "duplicate services",
			input: "http,http,reaper",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:   true,
				ServiceModeReaper: true,
			},
			expectError: false,
		},
		{
			name:        "empty string",
			input:       "",
			expected:    nil,
			expectError: true,
		},
		{
			name:        "only spaces and commas",
			input:       " , , ",
			expected:    nil,
			expectError: true,
		},
		{
			name:        "invalid service name",
			input:       "http,invalid-service",
			expected:    nil,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseServices(tt.input)

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}

			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestAppConfig_Defaults(t *testing.T) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.Services != "http" {
		t.Errorf("expected default services 'http', got %q", cfg.Services)
	}
	if cfg.Auth.SessionTTL != time.Hour {
		t.Errorf("expected default session TTL 1h, got %v", cfg.Auth.SessionTTL)
	}
	if cfg.Auth.FailedLoginDelay != time.Second {
		t.Errorf("expected default failed-login delay 1s, got %v", cfg.Auth.FailedLoginDelay)
	}
	if cfg.Postgres.Port != 5432 {
		t.Errorf("expected default postgres port 5432, got %d", cfg.Postgres.Port)
	}
	if cfg.Redis.KeyPrefix != "session:" {
		t.Errorf("expected default redis key prefix 'session:', got %q", cfg.Redis.KeyPrefix)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("expected default http addr ':8080', got %q", cfg.HTTP.Addr)
	}
}

func TestAuthConfig_Sanitize(t *testing.T) {
	a := AuthConfig{
		SessionTTL:       -1,
		FailedLoginDelay: -5 * time.Second,
		Argon2:           Argon2Config{Time: 0, MemoryK: 16, Threads: 0},
	}
	a.Sanitize()

	if a.SessionTTL != time.Hour {
		t.Errorf("expected sanitized session TTL 1h, got %v", a.SessionTTL)
	}
	if a.FailedLoginDelay != 0 {
		t.Errorf("expected sanitized delay 0, got %v", a.FailedLoginDelay)
	}
	if a.Argon2.Time == 0 || a.Argon2.Threads == 0 {
		t.Error("expected argon2 time/threads to be bumped above zero")
	}
	if a.Argon2.MemoryK < 8*1024 {
		t.Errorf("expected argon2 memory floor of 8 MiB, got %d KiB", a.Argon2.MemoryK)
	}
}

func TestReaperConfig_Sanitize(t *testing.T) {
	r := ReaperConfig{Interval: time.Second, Grace: -time.Hour, BatchSize: 0}
	r.Sanitize()

	if r.Interval != time.Minute {
		t.Errorf("expected interval floor of 1m, got %v", r.Interval)
	}
	if r.Grace != 0 {
		t.Errorf("expected grace floor of 0, got %v", r.Grace)
	}
	if r.BatchSize != 1 {
		t.Errorf("expected batch size floor of 1, got %d", r.BatchSize)
	}

	r = ReaperConfig{Interval: time.Hour, Grace: time.Hour, BatchSize: 50000}
	r.Sanitize()
	if r.BatchSize != 10000 {
		t.Errorf("expected batch size ceiling of 10000, got %d", r.BatchSize)
	}
}

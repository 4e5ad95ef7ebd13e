// Package mocks provides mock implementations for testing.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks
// for the repository interfaces in internal/ports. Hand-written in-memory
// fakes for the simpler ports live in internal/mocks/auth.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
package mocks

// Generate mock for VolunteerRepository interface from internal/ports.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=volunteer_repository_mock.go github.com/soulearn/volunteer-api/internal/ports VolunteerRepository

// Generate mock for SessionRecordRepository interface from internal/ports.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=session_record_repository_mock.go github.com/soulearn/volunteer-api/internal/ports SessionRecordRepository

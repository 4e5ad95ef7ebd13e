package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// Volunteer repository sentinels.
	ErrVolunteerNotFound = errors.New("volunteer not found")
	ErrEmailExists       = errors.New("email already registered")

	// Session record repository sentinels.
	ErrSessionRecordNotFound = errors.New("session record not found")
)

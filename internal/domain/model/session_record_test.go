package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testExpiry() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestCreateSessionRecordRequest_RequiredFields(t *testing.T) {
	tests := []struct {
		name string
		req  CreateSessionRecordRequest
	}{
		{name: "missing volunteer id", req: CreateSessionRecordRequest{SessionID: "s1", ExpiresAt: testExpiry()}},
		{name: "missing session id", req: CreateSessionRecordRequest{VolunteerID: "u1", ExpiresAt: testExpiry()}},
		{name: "missing expiry", req: CreateSessionRecordRequest{VolunteerID: "u1", SessionID: "s1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.req.Validate())
		})
	}
}

func TestCreateSessionRecordRequest_KeepsClientInfo(t *testing.T) {
	req := CreateSessionRecordRequest{
		VolunteerID: "u1",
		SessionID:   "s1",
		IPAddress:   "203.0.113.9",
		UserAgent:   "Mozilla/5.0",
		ExpiresAt:   testExpiry(),
	}
	assert.NoError(t, req.Validate())
	assert.Equal(t, "203.0.113.9", req.IPAddress)
	assert.Equal(t, "Mozilla/5.0", req.UserAgent)
}

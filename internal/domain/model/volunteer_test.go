package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/soulearn/volunteer-api/internal/domain/auth"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ana@example.com", NormalizeEmail(" Ana@Example.com "))
	assert.Equal(t, "v@example.org", NormalizeEmail("v@example.org"))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "Ana", SanitizeName("  Ana  "))
	assert.Equal(t, "&lt;b&gt;Ana&lt;/b&gt;", SanitizeName("<b>Ana</b>"))
	assert.Equal(t, "O&#39;Brien", SanitizeName("O'Brien"))
}

func TestValidEmail(t *testing.T) {
	valid := []string{"ana@example.com", " Ana@Example.COM ", "a.b+c@sub.example.org"}
	for _, e := range valid {
		assert.True(t, ValidEmail(e), e)
	}

	invalid := []string{"", "plain", "a@b", "a b@example.com", "a@@example.com", "@example.com"}
	for _, e := range invalid {
		assert.False(t, ValidEmail(e), e)
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  string
	}{
		{name: "valid", password: "Str0ng!Pass", wantErr: ""},
		{name: "too short", password: "Short1!", wantErr: "at least 8 characters"},
		{name: "no lowercase", password: "ALLUPPER1!", wantErr: "lowercase"},
		{name: "no uppercase", password: "alllower1!", wantErr: "uppercase"},
		{name: "no digit", password: "NoNumbers!", wantErr: "number"},
		{name: "no symbol", password: "NoSymbols1", wantErr: "special character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRegisterVolunteerRequest_Validate(t *testing.T) {
	t.Run("normalizes in place", func(t *testing.T) {
		req := RegisterVolunteerRequest{
			Name:     "  <i>Ana</i> ",
			Email:    " Ana@Example.com ",
			Password: "Str0ng!Pass",
		}
		require.NoError(t, req.Validate())
		assert.Equal(t, "ana@example.com", req.Email)
		assert.Equal(t, "&lt;i&gt;Ana&lt;/i&gt;", req.Name)
	})

	t.Run("missing name", func(t *testing.T) {
		req := RegisterVolunteerRequest{Email: "a@example.com", Password: "Str0ng!Pass"}
		assert.Error(t, req.Validate())
	})

	t.Run("bad email", func(t *testing.T) {
		req := RegisterVolunteerRequest{Name: "Ana", Email: "not-an-email", Password: "Str0ng!Pass"}
		assert.ErrorContains(t, req.Validate(), "Invalid email format")
	})

	t.Run("weak password", func(t *testing.T) {
		req := RegisterVolunteerRequest{Name: "Ana", Email: "a@example.com", Password: "weak"}
		assert.Error(t, req.Validate())
	})
}

func TestVolunteer_Projection(t *testing.T) {
	v := Volunteer{ID: "u1", Name: "Ana", Email: "ana@example.com", Role: "", Status: VolunteerStatusActive}
	p := v.Projection()
	assert.Equal(t, "u1", p.ID)
	assert.Equal(t, domainauth.RoleVolunteer, p.Role, "missing role defaults to volunteer")
}

func TestCreateSessionRecordRequest_Validate(t *testing.T) {
	req := CreateSessionRecordRequest{VolunteerID: "u1", SessionID: "s1"}
	assert.Error(t, req.Validate(), "expires_at required")

	req.ExpiresAt = testExpiry()
	require.NoError(t, req.Validate())
	assert.Equal(t, "unknown", req.IPAddress)
	assert.Equal(t, "unknown", req.UserAgent)
}

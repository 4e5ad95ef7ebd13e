package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulearn/volunteer-api/internal/data"
	mockauth "github.com/soulearn/volunteer-api/internal/mocks/auth"
	"github.com/soulearn/volunteer-api/internal/service"
)

type routerFixture struct {
	handler    http.Handler
	svc        *service.AuthService
	volunteers *mockauth.MemoryVolunteerRepo
	records    *mockauth.MemorySessionRecordRepo
	sessions   *mockauth.MemorySessionStore
	clock      *data.FixedTimeProvider
}

func (f *routerFixture) authService(t *testing.T) *service.AuthService {
	t.Helper()
	return f.svc
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	volunteers := mockauth.NewMemoryVolunteerRepo()
	records := mockauth.NewMemorySessionRecordRepo()
	sessions := mockauth.NewMemorySessionStore()
	clock := data.NewFixedTimeProvider(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))

	svc := service.MustNewAuthService(service.AuthServiceOptions{
		Volunteers:     volunteers,
		SessionRecords: records,
		Sessions:       sessions,
		Hasher:         &mockauth.PlainHasher{},
		SessionTTL:     time.Hour,
		TimeProvider:   clock,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	handler := NewRouter(RouterServices{
		Auth:          svc,
		LandingPath:   "/",
		DashboardPath: "/dashboard",
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	return &routerFixture{
		handler:    handler,
		svc:        svc,
		volunteers: volunteers,
		records:    records,
		sessions:   sessions,
		clock:      clock,
	}
}

func (f *routerFixture) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, target string, body map[string]any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			panic(err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func (f *routerFixture) register(t *testing.T, name, email, password string) {
	t.Helper()
	rec := f.do(t, jsonRequest(http.MethodPost, "/api/register", map[string]any{
		"name":            name,
		"email":           email,
		"password":        password,
		"confirmPassword": password,
	}))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, decodeBody(t, rec)["success"])
}

func (f *routerFixture) login(t *testing.T, email, password string) (*httptest.ResponseRecorder, *http.Cookie) {
	t.Helper()
	rec := f.do(t, jsonRequest(http.MethodPost, "/api/login", map[string]any{
		"email":    email,
		"password": password,
	}))
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			return rec, c
		}
	}
	return rec, nil
}

func TestRegisterEndpoint(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, jsonRequest(http.MethodPost, "/api/register", map[string]any{
		"name":            "Ana Souza",
		"email":           "Ana.Souza@Example.COM",
		"password":        "SecurePass1!",
		"confirmPassword": "SecurePass1!",
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Registration successful", body["message"])
	assert.NotEmpty(t, body["user_id"])

	stored, err := f.volunteers.GetByEmail(context.Background(), "ana.souza@example.com")
	require.NoError(t, err)
	assert.Equal(t, body["user_id"], stored.ID)
}

func TestRegisterEndpoint_FormValidation(t *testing.T) {
	f := newRouterFixture(t)

	tests := []struct {
		name string
		body map[string]any
		want string
	}{
		{
			name: "missing fields",
			body: map[string]any{"name": "", "email": "a@b.com", "password": "SecurePass1!", "confirmPassword": "SecurePass1!"},
			want: "All fields are required",
		},
		{
			name: "invalid email",
			body: map[string]any{"name": "Ana", "email": "not-an-email", "password": "SecurePass1!", "confirmPassword": "SecurePass1!"},
			want: "Invalid email format",
		},
		{
			name: "password mismatch",
			body: map[string]any{"name": "Ana", "email": "ana@example.com", "password": "SecurePass1!", "confirmPassword": "Different1!"},
			want: "Passwords do not match",
		},
		{
			name: "weak password",
			body: map[string]any{"name": "Ana", "email": "ana@example.com", "password": "short", "confirmPassword": "short"},
			want: "Password must be at least 8 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, jsonRequest(http.MethodPost, "/api/register", tt.body))
			require.Equal(t, http.StatusOK, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.want, body["message"])
		})
	}
}

func TestRegisterEndpoint_DuplicateEmail(t *testing.T) {
	f := newRouterFixture(t)
	f.register(t, "Ana Souza", "ana@example.com", "SecurePass1!")

	rec := f.do(t, jsonRequest(http.MethodPost, "/api/register", map[string]any{
		"name":            "Other Ana",
		"email":           "ANA@example.com",
		"password":        "OtherPass1!",
		"confirmPassword": "OtherPass1!",
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Email already registered", body["message"])
}

func TestLoginEndpoint_Success(t *testing.T) {
	f := newRouterFixture(t)
	f.register(t, "Ana Souza", "ana@example.com", "SecurePass1!")

	rec, cookie := f.login(t, "ana@example.com", "SecurePass1!")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Login successful", body["message"])
	assert.Equal(t, "/dashboard", body["redirect"])

	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ana@example.com", user["email"])
	assert.Equal(t, "Ana Souza", user["name"])
	assert.Equal(t, "volunteer", user["role"])
	assert.NotEmpty(t, user["id"])

	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Positive(t, cookie.MaxAge)
	assert.False(t, cookie.Secure, "plain http request must not set Secure")

	assert.Equal(t, 1, f.sessions.Len())
	require.Len(t, f.records.Records, 1)
	assert.Equal(t, cookie.Value, f.records.Records[0].SessionID)
}

func TestLoginEndpoint_SecureCookieBehindProxy(t *testing.T) {
	f := newRouterFixture(t)
	f.register(t, "Ana Souza", "ana@example.com", "SecurePass1!")

	req := jsonRequest(http.MethodPost, "/api/login", map[string]any{
		"email":    "ana@example.com",
		"password": "SecurePass1!",
	})
	req.Header.Set("X-Forwarded-Proto", "https")
	rec := f.do(t, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.True(t, cookies[0].Secure)
}

func TestLoginEndpoint_InvalidCredentials(t *testing.T) {
	f := newRouterFixture(t)
	f.register(t, "Ana Souza", "ana@example.com", "SecurePass1!")

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "ana@example.com", "WrongPass1!"},
		{"unknown email", "nobody@example.com", "SecurePass1!"},
		{"empty credentials", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, cookie := f.login(t, tt.email, tt.password)
			require.Equal(t, http.StatusOK, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, "Invalid email or password", body["message"])
			assert.Nil(t, cookie)
		})
	}
}

func TestLoginEndpoint_StoreFault(t *testing.T) {
	// A store fault must be indistinguishable from bad credentials.
	tests := []struct {
		name  string
		fault func(f *routerFixture)
	}{
		{"token save fails", func(f *routerFixture) { f.sessions.SaveErr = assert.AnError }},
		{"audit insert fails", func(f *routerFixture) { f.records.CreateErr = assert.AnError }},
		{"lookup fails", func(f *routerFixture) { f.volunteers.LookupErr = assert.AnError }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRouterFixture(t)
			f.register(t, "Ana Souza", "ana@example.com", "SecurePass1!")
			tt.fault(f)

			rec, cookie := f.login(t, "ana@example.com", "SecurePass1!")

			require.Equal(t, http.StatusOK, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, "Invalid email or password", body["message"])
			assert.Nil(t, cookie)
			assert.Equal(t, 0, f.sessions.Len())
		})
	}
}

func TestLogoutEndpoint(t *testing.T) {
	f := newRouterFixture(t)
	f.register(t, "Ana Souza", "ana@example.com", "SecurePass1!")
	_, cookie := f.login(t, "ana@example.com", "SecurePass1!")
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.AddCookie(cookie)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	rec := f.do(t, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success"}`, rec.Body.String())
	assert.Equal(t, 0, f.sessions.Len())
	assert.Empty(t, f.records.Records)

	cleared := rec.Result().Cookies()
	require.NotEmpty(t, cleared)
	assert.Equal(t, SessionCookieName, cleared[0].Name)
	assert.Negative(t, cleared[0].MaxAge)
}

func TestLogoutEndpoint_BrowserRedirect(t *testing.T) {
	f := newRouterFixture(t)
	f.register(t, "Ana Souza", "ana@example.com", "SecurePass1!")
	_, cookie := f.login(t, "ana@example.com", "SecurePass1!")
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(cookie)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	rec := f.do(t, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, 0, f.sessions.Len())
}

func TestLogoutEndpoint_WithoutSession(t *testing.T) {
	f := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	rec := f.do(t, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success"}`, rec.Body.String())
}

func TestMeEndpoint(t *testing.T) {
	f := newRouterFixture(t)
	f.register(t, "Ana Souza", "ana@example.com", "SecurePass1!")
	_, cookie := f.login(t, "ana@example.com", "SecurePass1!")
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(cookie)
	rec := f.do(t, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ana@example.com", user["email"])
	assert.Equal(t, "volunteer", user["role"])
}

func TestMeEndpoint_Unauthenticated(t *testing.T) {
	f := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	rec := f.do(t, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Authentication required"}`, rec.Body.String())
}

func TestMeEndpoint_DeactivatedVolunteer(t *testing.T) {
	f := newRouterFixture(t)
	f.register(t, "Ana Souza", "ana@example.com", "SecurePass1!")
	_, cookie := f.login(t, "ana@example.com", "SecurePass1!")
	require.NotNil(t, cookie)

	stored, err := f.volunteers.GetByEmail(context.Background(), "ana@example.com")
	require.NoError(t, err)
	require.True(t, f.volunteers.Deactivate(stored.ID))

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(cookie)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	rec := f.do(t, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, f.sessions.Len(), "deactivation must revoke the live session")
}

func TestMeEndpoint_LookupFault(t *testing.T) {
	f := newRouterFixture(t)
	f.register(t, "Ana Souza", "ana@example.com", "SecurePass1!")
	_, cookie := f.login(t, "ana@example.com", "SecurePass1!")
	require.NotNil(t, cookie)

	f.volunteers.LookupErr = assert.AnError

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(cookie)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	rec := f.do(t, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Authentication required", body["error"])
	assert.Equal(t, 1, f.sessions.Len(), "a store fault must not revoke the live session")

	// Once the store recovers the same cookie works again.
	f.volunteers.LookupErr = nil
	rec = f.do(t, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMeEndpoint_ExpiredSession(t *testing.T) {
	f := newRouterFixture(t)
	f.register(t, "Ana Souza", "ana@example.com", "SecurePass1!")
	_, cookie := f.login(t, "ana@example.com", "SecurePass1!")
	require.NotNil(t, cookie)

	f.clock.AddTime(2 * time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(cookie)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	rec := f.do(t, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStatusEndpoint(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, httptest.NewRequest(http.MethodGet, "/api/auth/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"authenticated":false}`, rec.Body.String())

	f.register(t, "Ana Souza", "ana@example.com", "SecurePass1!")
	_, cookie := f.login(t, "ana@example.com", "SecurePass1!")
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/status", nil)
	req.AddCookie(cookie)
	rec = f.do(t, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["authenticated"])
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ana@example.com", user["email"])
}

func TestLoginEndpoint_MethodNotAllowed(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, httptest.NewRequest(http.MethodGet, "/api/login", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestLoginEndpoint_MalformedJSON(t *testing.T) {
	f := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := f.do(t, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

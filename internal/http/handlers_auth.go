package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/soulearn/volunteer-api/internal/domain/auth"
	"github.com/soulearn/volunteer-api/internal/domain/model"
	apperrors "github.com/soulearn/volunteer-api/internal/errors"
	"github.com/soulearn/volunteer-api/internal/http/validation"
	"github.com/soulearn/volunteer-api/internal/service"
)

// AuthServiceInterface defines the auth service operations the handlers use.
type AuthServiceInterface interface {
	Register(ctx context.Context, req *model.RegisterVolunteerRequest) (*model.Volunteer, error)
	Login(ctx context.Context, input service.LoginInput) (*service.LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	CurrentUser(ctx context.Context, session *domainauth.Session) (*model.Volunteer, error)
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc              AuthServiceInterface
	CookieDomain     string
	LandingPath      string
	DashboardPath    string
	FailedLoginDelay time.Duration
	Logger           *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *AuthHandlers) landingPath() string {
	if h.LandingPath == "" {
		return "/"
	}
	return h.LandingPath
}

func (h *AuthHandlers) dashboardPath() string {
	if h.DashboardPath == "" {
		return "/dashboard"
	}
	return h.DashboardPath
}

// loginRequest is the POST /api/login body.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// registerRequest is the POST /api/register body.
type registerRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Login handles POST /api/login. Failed attempts all produce the same
// response body, delayed by FailedLoginDelay to slow brute forcing.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.Svc.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Client:   clientInfoFromRequest(r),
	})
	if err != nil {
		// Store faults already collapsed into the same failure in the
		// service, so every error takes the delayed generic path.
		h.delayFailedLogin(r.Context())
		WriteJSON(w, http.StatusOK, map[string]any{
			"success": false,
			"message": "Invalid email or password",
		})
		return
	}

	setSessionCookie(w, r, h.CookieDomain, result.Session)
	WriteJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  "Login successful",
		"user":     result.Session.UserSummary(),
		"redirect": h.dashboardPath(),
	})
}

// delayFailedLogin sleeps the configured delay, honoring cancellation.
func (h *AuthHandlers) delayFailedLogin(ctx context.Context) {
	if h.FailedLoginDelay <= 0 {
		return
	}
	select {
	case <-time.After(h.FailedLoginDelay):
	case <-ctx.Done():
	}
}

// Register handles POST /api/register. Form-level failures come back as
// 200 with success=false and a specific message, matching what the
// registration page renders inline.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if msg := validation.RegistrationForm(validation.RegistrationInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	}); msg != "" {
		WriteJSON(w, http.StatusOK, map[string]any{"success": false, "message": msg})
		return
	}

	volunteer, err := h.Svc.Register(r.Context(), &model.RegisterVolunteerRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch apperrors.GetCode(err) {
		case apperrors.ErrCodeConflict, apperrors.ErrCodeValidation:
			WriteJSON(w, http.StatusOK, map[string]any{
				"success": false,
				"message": callerMessage(err),
			})
		case "":
			// Plain validation errors from the domain model.
			WriteJSON(w, http.StatusOK, map[string]any{
				"success": false,
				"message": err.Error(),
			})
		default:
			WriteJSON(w, http.StatusInternalServerError, map[string]any{
				"success": false,
				"message": "Registration failed. Please try again.",
			})
		}
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Registration successful",
		"user_id": volunteer.ID,
	})
}

// Logout handles POST /api/logout and GET /logout. Both clear the cookie
// and server-side state; script callers get JSON, navigation gets a
// redirect back to the landing page.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if logoutErr := h.Svc.Logout(r.Context(), cookie.Value); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", logoutErr)
		}
	}
	clearSessionCookie(w, r, h.CookieDomain)

	if IsAJAXRequest(r) || strings.HasPrefix(r.URL.Path, "/api/") {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "success"})
		return
	}
	http.Redirect(w, r, h.landingPath(), http.StatusSeeOther)
}

// Me handles GET /api/me. It runs behind RequireAuth, but still
// re-validates the account on every call: a deactivated or deleted
// volunteer loses the session immediately.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := GetSessionFromContext(r.Context())
	if !ok {
		writeAuthRequired(w)
		return
	}

	volunteer, err := h.Svc.CurrentUser(r.Context(), session)
	if err != nil {
		clearSessionCookie(w, r, h.CookieDomain)
		writeAuthRequired(w)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"user": volunteer.Projection()})
}

// Status handles GET /api/auth/status: an unguarded probe pages use to
// decide what to render.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromRequest(r, h.Svc)
	if session == nil {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	volunteer, err := h.Svc.CurrentUser(r.Context(), session)
	if err != nil {
		clearSessionCookie(w, r, h.CookieDomain)
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          volunteer.Projection(),
	})
}

// callerMessage extracts the caller-safe message from an AppError.
func callerMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// clientInfoFromRequest extracts the caller's IP and user agent for the
// session audit record. The first X-Forwarded-For hop wins when present.
func clientInfoFromRequest(r *http.Request) domainauth.ClientInfo {
	ip := ""
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		ip = strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	if ip == "" {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err == nil {
			ip = host
		} else {
			ip = r.RemoteAddr
		}
	}
	return domainauth.ClientInfo{
		IPAddress: ip,
		UserAgent: r.UserAgent(),
	}
}

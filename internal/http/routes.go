package httpx

import (
	"log/slog"
	"net/http"
	"time"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth             AuthServiceInterface
	CookieDomain     string
	LandingPath      string
	DashboardPath    string
	FailedLoginDelay time.Duration
	Logger           *slog.Logger // Logger for HTTP errors (optional)
}

// NewRouter creates and configures a new HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:              services.Auth,
		CookieDomain:     services.CookieDomain,
		LandingPath:      services.LandingPath,
		DashboardPath:    services.DashboardPath,
		FailedLoginDelay: services.FailedLoginDelay,
		Logger:           services.Logger,
	}

	registerAuthRoutes(mux, authHandlers, services)
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	return mux
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, services RouterServices) {
	mux.HandleFunc("POST /api/login", h.Login)
	mux.HandleFunc("POST /api/register", h.Register)
	mux.HandleFunc("POST /api/logout", h.Logout)
	mux.HandleFunc("GET /logout", h.Logout)
	mux.HandleFunc("GET /api/auth/status", h.Status)

	guard := RequireAuthBrowser(services.Auth, h.landingPath())
	mux.Handle("GET /api/me", guard(http.HandlerFunc(h.Me)))
}

package config

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is the base URL of the application (e.g., "https://portal.example.org").
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// CookieDomain is the domain for session cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// LandingPath is where unauthenticated browser navigations are redirected.
	LandingPath string `env:"APP_LANDING_PATH" envDefault:"/"`

	// DashboardPath is the post-login destination returned to clients.
	DashboardPath string `env:"APP_DASHBOARD_PATH" envDefault:"/dashboard"`
}

package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/soulearn/volunteer-api/config"
	redisadapter "github.com/soulearn/volunteer-api/internal/adapters/redis"
	"github.com/soulearn/volunteer-api/internal/data"
	"github.com/soulearn/volunteer-api/internal/data/cryptoutil"
	"github.com/soulearn/volunteer-api/internal/observability/statsd"
	"github.com/soulearn/volunteer-api/internal/service"
)

// shutdownWaitTimeout is the maximum time to wait for services to stop gracefully.
const shutdownWaitTimeout = 15 * time.Second

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth    *service.AuthService
	Reaper  *service.ReaperService
	Metrics *statsd.Client
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	Volunteers     *data.VolunteerRepo
	SessionRecords *data.SessionRecordRepo
	Sessions       *redisadapter.SessionStore
}

// buildRepositories builds repositories backing service ports; no business rules here.
func buildRepositories(deps *ServiceDeps) *serviceRepositories {
	keyPrefix := ""
	if deps.Config != nil {
		keyPrefix = deps.Config.Redis.KeyPrefix
	}
	return &serviceRepositories{
		Volunteers:     data.NewVolunteerRepo(deps.DB),
		SessionRecords: data.NewSessionRecordRepo(deps.DB),
		Sessions:       redisadapter.NewSessionStore(deps.RedisClient, redisadapter.Options{KeyPrefix: keyPrefix}),
	}
}

// NewServices builds the application service graph from its dependencies.
func NewServices(deps *ServiceDeps) ServiceContainer {
	if deps == nil {
		return ServiceContainer{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var authCfg config.AuthConfig
	var reaperCfg config.ReaperConfig
	if deps.Config != nil {
		authCfg = deps.Config.Auth
		reaperCfg = deps.Config.Reaper
	}

	repos := buildRepositories(deps)
	metrics := buildMetrics(deps, logger)

	hasher := cryptoutil.NewArgon2Hasher(cryptoutil.Argon2Params{
		Time:    authCfg.Argon2.Time,
		Memory:  authCfg.Argon2.MemoryK,
		Threads: authCfg.Argon2.Threads,
	})

	authService := service.MustNewAuthService(service.AuthServiceOptions{
		Volunteers:     repos.Volunteers,
		SessionRecords: repos.SessionRecords,
		Sessions:       repos.Sessions,
		Hasher:         hasher,
		SessionTTL:     authCfg.SessionTTL,
		Logger:         logger,
		Metrics:        metrics,
	})

	reaperService := service.MustNewReaperService(service.ReaperServiceOptions{
		Records: repos.SessionRecords,
		Config:  reaperCfg,
		Logger:  logger,
		Metrics: metrics,
	})

	return ServiceContainer{
		Auth:    authService,
		Reaper:  reaperService,
		Metrics: metrics,
	}
}

// buildMetrics configures the StatsD sink when metrics are enabled.
func buildMetrics(deps *ServiceDeps, logger *slog.Logger) *statsd.Client {
	if deps.Config == nil || !deps.Config.Observability.IsEnabled() {
		return nil
	}
	client, err := statsd.NewClient(statsd.Config{
		Enabled: true,
		Address: deps.Config.Observability.StatsdAddress,
		Prefix:  "volunteer",
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return nil
	}
	return client
}

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config      *config.AppConfig
	Services    ServiceContainer
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// RunServicesWithShutdown starts all enabled services and manages their lifecycle.
// This function blocks until a shutdown signal is received or a service fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	enabledServices, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	var httpServer *http.Server
	if enabledServices[config.ServiceModeHTTP] {
		httpServer = StartHTTPServer(&HTTPServerConfig{
			Config:   cfg.Config,
			Services: cfg.Services,
			Logger:   logger,
		})
		g.Go(func() error {
			<-gctx.Done()
			return ShutdownHTTPServer(ShutdownConfig{
				Server: httpServer,
				Logger: logger,
			})
		})
	}

	if enabledServices[config.ServiceModeReaper] {
		logger.Info("background service started", "service", "reaper")
		g.Go(func() error {
			if err := cfg.Services.Reaper.Run(gctx); err != nil {
				return fmt.Errorf("reaper failed: %w", err)
			}
			return nil
		})
	}

	<-gctx.Done()
	logger.Info("shutting down services...")

	waitErr := g.Wait()

	if closeErr := cfg.Services.Metrics.Close(); closeErr != nil {
		logger.Error("close statsd client failed", "error", closeErr)
	}

	if waitErr != nil && !errors.Is(waitErr, context.Canceled) {
		return waitErr
	}
	return nil
}

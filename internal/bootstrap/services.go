package bootstrap

import (
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/target/mmk-sso/config"
	"github.com/target/mmk-sso/internal/observability/statsd"
	"github.com/target/mmk-sso/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth      *service.AuthService
	Directory *service.DirectoryService
	Metrics   *statsd.Client
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices builds the services behind the HTTP surface.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service config is required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	metrics := BuildMetrics(cfg.Observability.Metrics, logger)

	auth, err := BuildAuthService(AuthConfig{
		Azure:       cfg.Azure,
		Auth:        cfg.Auth,
		IsDev:       cfg.IsDev,
		RedisClient: deps.RedisClient,
		KeyPrefix:   cfg.Redis.KeyPrefix,
		Metrics:     metrics,
		Logger:      logger,
	})
	if err != nil {
		if cerr := metrics.Close(); cerr != nil {
			logger.Warn("close statsd client", "error", cerr)
		}
		return ServiceContainer{}, err
	}

	directory := BuildDirectoryService(DirectoryDeps{
		Azure:       cfg.Azure,
		Directory:   cfg.Directory,
		RedisClient: deps.RedisClient,
		KeyPrefix:   cfg.Redis.KeyPrefix,
		Metrics:     metrics,
		Logger:      logger,
	})

	return ServiceContainer{Auth: auth, Directory: directory, Metrics: metrics}, nil
}

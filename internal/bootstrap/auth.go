package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/target/mmk-sso/config"
	"github.com/target/mmk-sso/internal/adapters/authroles"
	"github.com/target/mmk-sso/internal/adapters/cookieseal"
	"github.com/target/mmk-sso/internal/adapters/devauth"
	"github.com/target/mmk-sso/internal/adapters/memory"
	"github.com/target/mmk-sso/internal/adapters/oidc"
	redisadapter "github.com/target/mmk-sso/internal/adapters/redis"
	"github.com/target/mmk-sso/internal/observability/statsd"
	"github.com/target/mmk-sso/internal/ports"
	"github.com/target/mmk-sso/internal/service"
)

// AuthConfig contains configuration for auth service.
type AuthConfig struct {
	Azure       config.AzureConfig
	Auth        config.AuthConfig
	IsDev       bool
	RedisClient redis.UniversalClient
	KeyPrefix   string
	Metrics     statsd.Sink
	Logger      *slog.Logger
}

// BuildAuthService creates an auth service based on the configured auth mode.
// In oauth mode with incomplete credentials the service is still returned;
// it reports the missing keys and refuses to start logins.
func BuildAuthService(cfg AuthConfig) (*service.AuthService, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sealer, err := BuildSealer(cfg.Auth, logger)
	if err != nil {
		return nil, err
	}
	sessions := service.NewSessionStore(service.SessionStoreOptions{
		Sealer:  sealer,
		MaxAge:  cfg.Auth.SessionMaxAge,
		Logger:  logger,
		Metrics: cfg.Metrics,
	})

	opts := service.AuthServiceOptions{
		ProviderName: string(cfg.Auth.Mode),
		Sessions:     sessions,
		Ledger:       BuildCodeLedger(cfg.RedisClient, cfg.KeyPrefix),
		CodeTTL:      cfg.Auth.CodeTTL,
		Logger:       logger,
		Metrics:      cfg.Metrics,
	}

	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		if !cfg.IsDev {
			logger.Warn("mock authentication enabled outside development mode")
		}
		opts.Provider, err = buildDevAuthProvider(cfg.Auth.DevAuth)
	case config.AuthModeOAuth, "":
		opts.ProviderName = string(config.AuthModeOAuth)
		if ok, missing := cfg.Azure.Validate(); !ok {
			logger.Warn("identity provider configuration incomplete; logins disabled", "missing", missing)
			opts.Missing = missing
			return service.NewAuthService(opts), nil
		}
		opts.Provider, err = buildOAuthProvider(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.Auth.Mode)
	}
	if err != nil {
		return nil, err
	}
	return service.NewAuthService(opts), nil
}

// BuildSealer returns the sealer for the user_info cookie. Without a secret
// the cookie is only encoded, which is acceptable for local development only.
//
//nolint:ireturn // the sealer kind depends on configuration.
func BuildSealer(cfg config.AuthConfig, logger *slog.Logger) (ports.Sealer, error) {
	if cfg.CookieSecret == "" {
		if logger != nil {
			logger.Warn("AUTH_COOKIE_SECRET not set; session cookies are encoded, not encrypted")
		}
		return cookieseal.PlainSealer{}, nil
	}
	key, err := cookieseal.KeyFromSecret(cfg.CookieSecret)
	if err != nil {
		return nil, fmt.Errorf("derive cookie key: %w", err)
	}
	sealer, err := cookieseal.NewAESGCMSealer(key, service.CookieUserInfo)
	if err != nil {
		return nil, fmt.Errorf("create cookie sealer: %w", err)
	}
	return sealer, nil
}

// BuildCodeLedger shares redeemed codes across replicas through Redis when a
// client is available and falls back to a process-local ledger otherwise.
//
//nolint:ireturn // the ledger backend depends on configuration.
func BuildCodeLedger(client redis.UniversalClient, prefix string) ports.CodeLedger {
	if client != nil {
		return redisadapter.NewCodeLedgerWithPrefix(client, prefix)
	}
	return memory.NewCodeLedger(time.Now)
}

func buildDevAuthProvider(cfg config.DevAuthConfig) (*devauth.Provider, error) {
	prov, err := devauth.NewProvider(devauth.Config{
		Name:     cfg.Name,
		Email:    cfg.Email,
		ObjectID: cfg.ObjectID,
		Roles:    cfg.Roles,
	})
	if err != nil {
		return nil, fmt.Errorf("create dev auth provider: %w", err)
	}
	return prov, nil
}

func buildOAuthProvider(cfg AuthConfig, logger *slog.Logger) (*oidc.Provider, error) {
	if cfg.Azure.TenantID == "" {
		return nil, errors.New("tenant ID is required")
	}
	roles, err := authroles.NewSelector(cfg.Auth.RolesClaim, logger)
	if err != nil {
		return nil, err
	}
	prov, err := oidc.NewProvider(oidc.ProviderConfig{
		ClientID:        cfg.Azure.ClientID,
		ClientSecret:    cfg.Azure.ClientSecret,
		RedirectURL:     cfg.Azure.RedirectURI,
		Authority:       cfg.Azure.Authority(),
		Scopes:          cfg.Azure.Scopes,
		ExchangeTimeout: cfg.Auth.ExchangeTimeout,
		Roles:           roles,
		Logger:          logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create oauth provider: %w", err)
	}
	return prov, nil
}

package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - azure.go: Identity provider credentials
//   - auth.go: Session and login configuration
//   - redis.go: Shared code ledger and directory cache backend
//   - http.go: HTTP server configuration
//   - directory.go: User directory (Graph) configuration
//   - observability.go: Metrics configuration
type AppConfig struct {
	// IsDev controls development mode behavior (template reloading, plain cookies, etc.)
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// SecretsFile is an optional dotenv-format file consulted for keys that
	// are not set in the process environment.
	SecretsFile string `env:"SECRETS_FILE"`

	// Identity provider configuration
	Azure AzureConfig

	// Authentication configuration
	Auth AuthConfig

	// Redis backs the code ledger and directory cache when enabled.
	Redis RedisConfig `envPrefix:"REDIS_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Directory configuration
	Directory DirectoryConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Azure.Sanitize()
	c.Auth.Sanitize()
	c.HTTP.Sanitize()
	c.Directory.Sanitize()
	c.Observability.Sanitize()

	// Check NODE_ENV for dev mode
	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// This is called by Sanitize() to ensure IsDev is set correctly.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}

// MergeEnvironment layers the process environment over fallback values.
// Process variables win; empty process variables count as unset so that a
// fallback (or the field default) still applies.
func MergeEnvironment(fallback map[string]string, environ []string) map[string]string {
	merged := make(map[string]string, len(fallback)+len(environ))
	for k, v := range fallback {
		if strings.TrimSpace(v) != "" {
			merged[k] = v
		}
	}
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || v == "" {
			continue
		}
		merged[k] = v
	}
	return merged
}

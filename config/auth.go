package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeOAuth uses the Azure AD authorization-code flow.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock)", v)
	}
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	Name     string   `env:"NAME"      envDefault:"Dev User"`
	Email    string   `env:"EMAIL"     envDefault:"dev@example.com"`
	ObjectID string   `env:"OBJECT_ID" envDefault:"00000000-0000-0000-0000-000000000000"`
	Roles    []string `env:"ROLES"     envDefault:"Admin"                                envSeparator:";"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"oauth"`

	// CookieSecret keys the sealing of the user_info cookie.
	// Either 64 hex characters or a passphrase that is hashed into a key.
	// Leave empty only in development: the cookie is then merely encoded.
	CookieSecret string `env:"AUTH_COOKIE_SECRET"`

	// RolesClaim is a JMESPath expression selecting the roles from the id_token claims.
	RolesClaim string `env:"AUTH_ROLES_CLAIM" envDefault:"roles"`

	// CodeTTL bounds how long a redeemed authorization code is remembered.
	CodeTTL time.Duration `env:"AUTH_CODE_TTL" envDefault:"10m"`

	// ExchangeTimeout bounds the token endpoint round-trip.
	ExchangeTimeout time.Duration `env:"AUTH_EXCHANGE_TIMEOUT" envDefault:"10s"`

	// SessionMaxAge is the lifetime of the session cookies.
	SessionMaxAge time.Duration `env:"AUTH_SESSION_MAX_AGE" envDefault:"24h"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`
}

// Sanitize applies guardrails to authentication configuration values.
func (a *AuthConfig) Sanitize() {
	a.CookieSecret = strings.TrimSpace(a.CookieSecret)
	a.RolesClaim = strings.TrimSpace(a.RolesClaim)
	if a.RolesClaim == "" {
		a.RolesClaim = "roles"
	}
	if a.CodeTTL <= 0 {
		a.CodeTTL = 10 * time.Minute
	}
	if a.ExchangeTimeout <= 0 {
		a.ExchangeTimeout = 10 * time.Second
	}
	if a.SessionMaxAge <= 0 {
		a.SessionMaxAge = 24 * time.Hour
	}
}

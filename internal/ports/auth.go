package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"time"

	domainauth "github.com/target/mmk-sso/internal/domain/auth"
)

// AuthProvider builds login URLs and redeems authorization codes against an IdP.
type AuthProvider interface {
	// LoginURL returns the provider authorization URL the visitor is sent to.
	LoginURL(ctx context.Context) (string, error)

	// Exchange redeems an authorization code and returns the identity claims.
	// Failures are *errors.AppError values carrying an exchange_* code.
	Exchange(ctx context.Context, code string) (domainauth.Claims, error)
}

// SessionPersistence is the per-request cookie jar the session store reads and writes.
type SessionPersistence interface {
	// Get returns the raw value of the named cookie.
	Get(name string) (string, bool)
	// Names lists the cookies sent with the request.
	Names() []string
	// Set writes a session cookie that lives for maxAge.
	Set(name, value string, maxAge time.Duration)
	// Delete expires the named cookie.
	Delete(name string)
}

// Sealer protects the persisted claims against tampering.
type Sealer interface {
	Seal(plaintext []byte) (string, error)
	Open(sealed string) ([]byte, error)
}

// CodeLedger remembers redeemed authorization codes so a replayed callback
// never triggers a second exchange.
type CodeLedger interface {
	// Claim records code and reports whether this was its first presentation.
	Claim(ctx context.Context, code string, ttl time.Duration) (bool, error)
}

// RoleSelector picks the role names out of raw provider claims.
type RoleSelector interface {
	Select(claims map[string]any) []string
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	domainauth "github.com/target/mmk-sso/internal/domain/auth"
	apperrors "github.com/target/mmk-sso/internal/errors"
	"github.com/target/mmk-sso/internal/observability/metrics"
	"github.com/target/mmk-sso/internal/observability/statsd"
	"github.com/target/mmk-sso/internal/ports"
)

// DefaultCodeTTL is how long a redeemed authorization code is remembered.
const DefaultCodeTTL = 10 * time.Minute

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.AuthProvider
	// ProviderName tags logs and metrics, e.g. "oauth" or "mock".
	ProviderName string
	Sessions     *SessionStore
	// Ledger extends the one-shot guard across requests. Optional.
	Ledger  ports.CodeLedger
	CodeTTL time.Duration
	// Missing lists configuration keys that are not set; a non-empty list
	// means logins cannot be attempted.
	Missing []string
	Logger  *slog.Logger
	Metrics statsd.Sink
	Now     func() time.Time
}

// AuthService orchestrates the login flow: building the login URL, redeeming
// the callback code exactly once and committing the resulting session.
type AuthService struct {
	provider     ports.AuthProvider
	providerName string
	sessions     *SessionStore
	ledger       ports.CodeLedger
	codeTTL      time.Duration
	missing      []string
	logger       *slog.Logger
	metrics      statsd.Sink
	now          func() time.Time
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	ttl := opts.CodeTTL
	if ttl <= 0 {
		ttl = DefaultCodeTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	name := opts.ProviderName
	if name == "" {
		name = "oauth"
	}
	return &AuthService{
		provider:     opts.Provider,
		providerName: name,
		sessions:     opts.Sessions,
		ledger:       opts.Ledger,
		codeTTL:      ttl,
		missing:      append([]string(nil), opts.Missing...),
		logger:       logger.With("component", "auth_service", "provider", name),
		metrics:      opts.Metrics,
		now:          now,
	}
}

// Sessions exposes the session store used by this service.
func (s *AuthService) Sessions() *SessionStore { return s.sessions }

// ConfigStatus reports whether login is possible and, if not, which keys are missing.
func (s *AuthService) ConfigStatus() (bool, []string) {
	return len(s.missing) == 0, append([]string(nil), s.missing...)
}

// LoginURL returns the provider authorization URL.
func (s *AuthService) LoginURL(ctx context.Context) (string, error) {
	if ok, missing := s.ConfigStatus(); !ok {
		return "", apperrors.ConfigMissing(missing)
	}
	u, err := s.provider.LoginURL(ctx)
	if err != nil {
		return "", fmt.Errorf("build login URL: %w", err)
	}
	return u, nil
}

// CompleteLogin redeems code and commits the resulting session. A session that
// is already authenticated is left untouched. A code is handed to the provider
// at most once: a second presentation returns a code_replayed error without
// contacting the provider.
func (s *AuthService) CompleteLogin(
	ctx context.Context,
	sess *domainauth.Session,
	p ports.SessionPersistence,
	code string,
) error {
	if sess == nil {
		return errors.New("session is required")
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return apperrors.ValidationField("code", "authorization code is required")
	}
	if sess.IsAuthenticated() {
		return nil
	}
	if ok, missing := s.ConfigStatus(); !ok {
		return apperrors.ConfigMissing(missing)
	}
	if sess.AuthCodeConsumed {
		return s.replayed(ctx, "request")
	}

	sess.AuthCodeConsumed = true
	if !s.claimCode(ctx, code) {
		sess.AuthCodeConsumed = false
		return s.replayed(ctx, "ledger")
	}

	start := s.now()
	claims, err := s.provider.Exchange(ctx, code)
	elapsed := s.now().Sub(start)
	if err != nil {
		// The provider has seen this code; the ledger entry stays so the
		// same URL cannot be replayed, but a fresh login may be attempted.
		sess.AuthCodeConsumed = false
		err = apperrors.MapExchangeError(err)
		s.logger.ErrorContext(ctx, "authorization code exchange failed",
			"code", apperrors.GetCode(err),
			"error", err,
			"duration", elapsed,
		)
		metrics.EmitLogin(s.metrics, metrics.LoginMetric{
			Provider: s.providerName,
			Result:   metrics.ResultError,
			Duration: elapsed,
			Err:      err,
		})
		return err
	}

	if commitErr := s.sessions.CommitLogin(ctx, sess, p, claims); commitErr != nil {
		s.logger.ErrorContext(ctx, "failed to persist session", "error", commitErr)
	}
	metrics.EmitLogin(s.metrics, metrics.LoginMetric{
		Provider: s.providerName,
		Result:   metrics.ResultSuccess,
		Duration: elapsed,
	})
	if unknown := domainauth.UnknownRoles(claims.Roles); len(unknown) > 0 {
		s.logger.WarnContext(ctx, "unknown roles ignored",
			"user", claims.Username(),
			"roles", unknown,
		)
	}
	s.logger.InfoContext(ctx, "user logged in",
		"user", claims.Username(),
		"roles", claims.Roles,
		"duration", elapsed,
	)
	return nil
}

// claimCode records code in the ledger. A ledger outage lets the exchange
// proceed; the provider still refuses a code it has already redeemed.
func (s *AuthService) claimCode(ctx context.Context, code string) bool {
	if s.ledger == nil {
		return true
	}
	first, err := s.ledger.Claim(ctx, code, s.codeTTL)
	if err != nil {
		s.logger.WarnContext(ctx, "code ledger unavailable", "error", err)
		return true
	}
	return first
}

func (s *AuthService) replayed(ctx context.Context, scope string) error {
	s.logger.WarnContext(ctx, "authorization code presented again", "scope", scope)
	metrics.EmitLogin(s.metrics, metrics.LoginMetric{
		Provider: s.providerName,
		Result:   metrics.ResultReplay,
	})
	return apperrors.New(apperrors.ErrCodeCodeReplayed, "authorization code already redeemed")
}

// Restore rehydrates sess from the visitor's cookies.
func (s *AuthService) Restore(ctx context.Context, sess *domainauth.Session, p ports.SessionPersistence) {
	s.sessions.CleanupLegacy(ctx, p)
	s.sessions.Restore(ctx, sess, p)
}

// Logout ends the visitor's session.
func (s *AuthService) Logout(ctx context.Context, sess *domainauth.Session, p ports.SessionPersistence) {
	s.sessions.Logout(ctx, sess, p)
}

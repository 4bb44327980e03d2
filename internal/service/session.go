package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainauth "github.com/target/mmk-sso/internal/domain/auth"
	apperrors "github.com/target/mmk-sso/internal/errors"
	"github.com/target/mmk-sso/internal/observability/metrics"
	"github.com/target/mmk-sso/internal/observability/statsd"
	"github.com/target/mmk-sso/internal/ports"
)

// Cookie names used to persist a login.
const (
	CookieAuthenticated = "authenticated"
	CookieUserInfo      = "user_info"
	// CookieCleanedMarker records that legacy cookies were already swept for this visitor.
	CookieCleanedMarker = "_cookies_cleaned"
	// LegacyCookiePrefix identifies cookies written by earlier deployments.
	LegacyCookiePrefix = "session_"
)

const (
	// DefaultSessionMaxAge is the lifetime of the session cookies.
	DefaultSessionMaxAge = 24 * time.Hour
	cleanedMarkerMaxAge  = 365 * 24 * time.Hour
	authenticatedValue   = "true"
)

// SessionStoreOptions groups dependencies for SessionStore.
type SessionStoreOptions struct {
	Sealer  ports.Sealer
	MaxAge  time.Duration
	Logger  *slog.Logger
	Metrics statsd.Sink
}

// SessionStore moves a Session between the request and the visitor's cookies.
type SessionStore struct {
	sealer  ports.Sealer
	maxAge  time.Duration
	logger  *slog.Logger
	metrics statsd.Sink
}

// NewSessionStore constructs a SessionStore. Sealer is required.
func NewSessionStore(opts SessionStoreOptions) *SessionStore {
	maxAge := opts.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultSessionMaxAge
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{
		sealer:  opts.Sealer,
		maxAge:  maxAge,
		logger:  logger.With("component", "session_store"),
		metrics: opts.Metrics,
	}
}

// Restore rehydrates sess from persisted cookies. An authenticated session is
// left alone. Both cookies must be present; a user_info cookie that cannot be
// opened or parsed purges both and leaves sess anonymous.
func (s *SessionStore) Restore(ctx context.Context, sess *domainauth.Session, p ports.SessionPersistence) {
	if sess == nil || sess.IsAuthenticated() {
		return
	}
	flag, hasFlag := p.Get(CookieAuthenticated)
	sealed, hasInfo := p.Get(CookieUserInfo)
	if !hasFlag || !hasInfo || flag != authenticatedValue {
		return
	}

	claims, err := s.open(sealed)
	if err != nil {
		p.Delete(CookieAuthenticated)
		p.Delete(CookieUserInfo)
		s.logger.WarnContext(ctx, "discarding unreadable session cookie",
			"code", apperrors.ErrCodeSessionCorrupt,
			"error", err,
		)
		metrics.EmitSessionRestore(s.metrics, "corrupt")
		return
	}

	sess.Authenticated = true
	sess.Claims = &claims
	metrics.EmitSessionRestore(s.metrics, metrics.ResultSuccess)
}

func (s *SessionStore) open(sealed string) (domainauth.Claims, error) {
	plain, err := s.sealer.Open(sealed)
	if err != nil {
		return domainauth.Claims{}, apperrors.Wrap(err, apperrors.ErrCodeSessionCorrupt, "open user_info")
	}
	var raw map[string]any
	if err := json.Unmarshal(plain, &raw); err != nil {
		return domainauth.Claims{}, apperrors.Wrap(err, apperrors.ErrCodeSessionCorrupt, "decode user_info")
	}
	if raw == nil {
		return domainauth.Claims{}, apperrors.New(apperrors.ErrCodeSessionCorrupt, "user_info is not a claims object")
	}
	return domainauth.ClaimsFromMap(raw), nil
}

// CommitLogin marks sess authenticated with claims and persists both cookies.
// The session stays authenticated for the current request even when the
// cookies could not be written.
func (s *SessionStore) CommitLogin(
	ctx context.Context,
	sess *domainauth.Session,
	p ports.SessionPersistence,
	claims domainauth.Claims,
) error {
	if sess == nil {
		return errors.New("session is required")
	}
	sess.Authenticated = true
	sess.Claims = claims.Clone()

	payload, err := json.Marshal(claims)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode user_info")
	}
	sealed, err := s.sealer.Seal(payload)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "seal user_info")
	}

	p.Set(CookieAuthenticated, authenticatedValue, s.maxAge)
	p.Set(CookieUserInfo, sealed, s.maxAge)
	s.logger.DebugContext(ctx, "session persisted", "bytes", len(sealed))
	return nil
}

// Logout returns sess to anonymous defaults and expires both cookies.
// Calling it on an anonymous session is harmless.
func (s *SessionStore) Logout(ctx context.Context, sess *domainauth.Session, p ports.SessionPersistence) {
	wasAuthenticated := sess.IsAuthenticated()
	if sess != nil {
		sess.Reset()
	}
	p.Delete(CookieAuthenticated)
	p.Delete(CookieUserInfo)
	if wasAuthenticated {
		s.logger.InfoContext(ctx, "user logged out")
	}
}

// CleanupLegacy expires cookies left behind by earlier deployments, once per
// visitor. It returns how many cookies were removed.
func (s *SessionStore) CleanupLegacy(ctx context.Context, p ports.SessionPersistence) int {
	if _, done := p.Get(CookieCleanedMarker); done {
		return 0
	}
	removed := 0
	for _, name := range p.Names() {
		if strings.HasPrefix(name, LegacyCookiePrefix) {
			p.Delete(name)
			removed++
		}
	}
	p.Set(CookieCleanedMarker, authenticatedValue, cleanedMarkerMaxAge)
	if removed > 0 {
		s.logger.InfoContext(ctx, "removed legacy cookies", "count", removed)
	}
	return removed
}

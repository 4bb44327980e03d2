package service

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/target/mmk-sso/internal/domain/directory"
	"github.com/target/mmk-sso/internal/observability/metrics"
	"github.com/target/mmk-sso/internal/observability/statsd"
	"github.com/target/mmk-sso/internal/ports"
	"golang.org/x/sync/singleflight"
)

// Directory defaults.
const (
	DefaultDirectoryTTL     = 5 * time.Minute
	DefaultDirectoryLimit   = 50
	DefaultDirectoryTimeout = 10 * time.Second
)

// DirectoryServiceOptions groups dependencies for DirectoryService.
type DirectoryServiceOptions struct {
	// Client is the upstream directory. Nil means no directory is configured.
	Client       ports.DirectoryClient
	Cache        ports.DirectoryCache
	TTL          time.Duration
	DefaultLimit int
	// Timeout bounds one shared upstream call.
	Timeout time.Duration
	Logger  *slog.Logger
	Metrics statsd.Sink
}

// DirectoryService serves cached directory listings. Listings are reused for
// TTL and never invalidated early; concurrent misses share one upstream call.
type DirectoryService struct {
	client       ports.DirectoryClient
	cache        ports.DirectoryCache
	ttl          time.Duration
	defaultLimit int
	timeout      time.Duration
	logger       *slog.Logger
	metrics      statsd.Sink
	group        singleflight.Group
}

// NewDirectoryService constructs a DirectoryService.
func NewDirectoryService(opts DirectoryServiceOptions) *DirectoryService {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultDirectoryTTL
	}
	limit := opts.DefaultLimit
	if limit <= 0 {
		limit = DefaultDirectoryLimit
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultDirectoryTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &DirectoryService{
		client:       opts.Client,
		cache:        opts.Cache,
		ttl:          ttl,
		defaultLimit: limit,
		timeout:      timeout,
		logger:       logger.With("component", "directory_service"),
		metrics:      opts.Metrics,
	}
}

// Configured reports whether an upstream directory is available.
func (s *DirectoryService) Configured() bool { return s.client != nil }

// ListUsers returns up to limit users. Upstream failures yield an empty
// listing and are not cached.
func (s *DirectoryService) ListUsers(ctx context.Context, limit int) []directory.User {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	key := "users:" + strconv.Itoa(limit)

	if users, ok := s.cached(ctx, key); ok {
		metrics.EmitDirectoryLookup(s.metrics, metrics.ResultHit, nil)
		return users
	}
	if s.client == nil {
		return []directory.User{}
	}

	// Waiters share the call, so it must outlive the caller that started it.
	v, _, _ := s.group.Do(key, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		metrics.EmitDirectoryLookup(s.metrics, metrics.ResultMiss, nil)
		users, err := s.client.ListUsers(ctx, limit)
		if err != nil {
			s.logger.WarnContext(ctx, "directory listing failed", "error", err, "limit", limit)
			metrics.EmitDirectoryLookup(s.metrics, metrics.ResultError, err)
			return []directory.User{}, nil
		}
		if users == nil {
			users = []directory.User{}
		}
		if s.cache != nil {
			if err := s.cache.Set(ctx, key, users, s.ttl); err != nil {
				s.logger.WarnContext(ctx, "directory cache write failed", "error", err, "key", key)
			}
		}
		return users, nil
	})

	users, _ := v.([]directory.User)
	return append([]directory.User{}, users...)
}

func (s *DirectoryService) cached(ctx context.Context, key string) ([]directory.User, bool) {
	if s.cache == nil {
		return nil, false
	}
	users, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "directory cache read failed", "error", err, "key", key)
		return nil, false
	}
	return users, ok
}

package bootstrap

import (
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/target/mmk-sso/config"
	"github.com/target/mmk-sso/internal/adapters/graph"
	"github.com/target/mmk-sso/internal/adapters/memory"
	redisadapter "github.com/target/mmk-sso/internal/adapters/redis"
	"github.com/target/mmk-sso/internal/observability/statsd"
	"github.com/target/mmk-sso/internal/ports"
	"github.com/target/mmk-sso/internal/service"
)

// DirectoryDeps groups what the directory service is built from.
type DirectoryDeps struct {
	Azure       config.AzureConfig
	Directory   config.DirectoryConfig
	RedisClient redis.UniversalClient
	KeyPrefix   string
	Metrics     statsd.Sink
	Logger      *slog.Logger
}

// BuildDirectoryService wires the Graph client when credentials allow it. A
// service without a client serves placeholder users.
func BuildDirectoryService(deps DirectoryDeps) *service.DirectoryService {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var client ports.DirectoryClient
	if ok, _ := deps.Azure.Validate(); ok {
		c, err := graph.NewClient(graph.Config{
			ClientID:     deps.Azure.ClientID,
			ClientSecret: deps.Azure.ClientSecret,
			Authority:    deps.Azure.Authority(),
			BaseURL:      deps.Directory.GraphBaseURL,
			Timeout:      deps.Directory.Timeout,
		})
		if err != nil {
			logger.Warn("directory client disabled", "error", err)
		} else {
			client = c
		}
	}

	var cache ports.DirectoryCache
	if deps.RedisClient != nil {
		cache = redisadapter.NewDirectoryCacheWithPrefix(deps.RedisClient, deps.KeyPrefix)
	} else {
		cache = memory.NewDirectoryCache(time.Now)
	}

	return service.NewDirectoryService(service.DirectoryServiceOptions{
		Client:       client,
		Cache:        cache,
		TTL:          deps.Directory.CacheTTL,
		DefaultLimit: deps.Directory.DefaultLimit,
		Timeout:      deps.Directory.Timeout,
		Logger:       logger,
		Metrics:      deps.Metrics,
	})
}

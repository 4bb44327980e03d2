package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/target/mmk-sso/internal/domain/directory"
	"github.com/target/mmk-sso/internal/ports"
)

var _ ports.DirectoryCache = (*DirectoryCache)(nil)

// DirectoryCache keeps directory listings in Redis with a TTL so every
// replica serves the same snapshot.
type DirectoryCache struct {
	client redis.UniversalClient
	prefix string
}

// NewDirectoryCache creates a cache with the default key prefix.
func NewDirectoryCache(client redis.UniversalClient) *DirectoryCache {
	return NewDirectoryCacheWithPrefix(client, "")
}

// NewDirectoryCacheWithPrefix creates a cache whose keys start with prefix.
func NewDirectoryCacheWithPrefix(client redis.UniversalClient, prefix string) *DirectoryCache {
	return &DirectoryCache{client: client, prefix: prefix + "directory:"}
}

func (c *DirectoryCache) Get(ctx context.Context, key string) ([]directory.User, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var users []directory.User
	if unmarshalErr := json.Unmarshal(data, &users); unmarshalErr != nil {
		return nil, false, fmt.Errorf("unmarshal directory listing: %w", unmarshalErr)
	}
	return users, true, nil
}

func (c *DirectoryCache) Set(ctx context.Context, key string, users []directory.User, ttl time.Duration) error {
	if ttl <= 0 {
		return errors.New("ttl must be positive")
	}
	if users == nil {
		users = []directory.User{}
	}
	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("marshal directory listing: %w", err)
	}
	return c.client.Set(ctx, c.prefix+key, data, ttl).Err()
}

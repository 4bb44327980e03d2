package memory

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/target/mmk-sso/internal/domain/directory"
	"github.com/target/mmk-sso/internal/ports"
)

var _ ports.DirectoryCache = (*DirectoryCache)(nil)

// DirectoryCache keeps directory listings in process memory.
type DirectoryCache struct {
	m *ttlMap[[]directory.User]
}

// NewDirectoryCache returns an empty cache. now may be nil.
func NewDirectoryCache(now func() time.Time) *DirectoryCache {
	return &DirectoryCache{m: newTTLMap[[]directory.User](now)}
}

// Get returns a copy of the cached listing.
func (c *DirectoryCache) Get(_ context.Context, key string) ([]directory.User, bool, error) {
	users, ok := c.m.get(key)
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(users), true, nil
}

func (c *DirectoryCache) Set(_ context.Context, key string, users []directory.User, ttl time.Duration) error {
	if ttl <= 0 {
		return errors.New("ttl must be positive")
	}
	cp := slices.Clone(users)
	if cp == nil {
		cp = []directory.User{}
	}
	c.m.set(key, cp, ttl)
	return nil
}

package ports

import (
	"context"
	"time"

	"github.com/target/mmk-sso/internal/domain/directory"
)

// DirectoryClient lists users from the organisation directory.
type DirectoryClient interface {
	ListUsers(ctx context.Context, limit int) ([]directory.User, error)
}

// DirectoryCache stores directory listings by query key.
type DirectoryCache interface {
	// Get returns the cached listing; ok is false on a miss.
	Get(ctx context.Context, key string) (users []directory.User, ok bool, err error)
	Set(ctx context.Context, key string, users []directory.User, ttl time.Duration) error
}

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/mmk-sso/internal/domain/directory"
	"github.com/target/mmk-sso/internal/testutil"
)

func TestDirectoryCache_SetAndGet(t *testing.T) {
	tr := testutil.SetupTestRedis(t)
	cache := NewDirectoryCache(tr.Client)
	ctx := context.Background()

	users := []directory.User{
		{ID: "1", DisplayName: "Alice", Mail: "alice@x.com", AccountEnabled: true},
		{ID: "2", DisplayName: "Bob", UserPrincipalName: "bob@x.onmicrosoft.com"},
	}
	require.NoError(t, cache.Set(ctx, "users:50", users, 5*time.Minute))

	got, ok, err := cache.Get(ctx, "users:50")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, users, got)
}

func TestDirectoryCache_Miss(t *testing.T) {
	tr := testutil.SetupTestRedis(t)
	cache := NewDirectoryCache(tr.Client)

	got, ok, err := cache.Get(context.Background(), "users:10")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestDirectoryCache_EmptyListingIsAHit(t *testing.T) {
	tr := testutil.SetupTestRedis(t)
	cache := NewDirectoryCache(tr.Client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "users:5", nil, time.Minute))
	got, ok, err := cache.Get(ctx, "users:5")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestDirectoryCache_Expires(t *testing.T) {
	tr := testutil.SetupTestRedis(t)
	if tr.Server == nil {
		t.Skip("requires in-process redis to fast-forward")
	}
	cache := NewDirectoryCache(tr.Client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "users:50", []directory.User{{ID: "1"}}, 5*time.Minute))
	tr.FastForward(5*time.Minute + time.Second)

	_, ok, err := cache.Get(ctx, "users:50")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDirectoryCache_CorruptEntry(t *testing.T) {
	tr := testutil.SetupTestRedis(t)
	cache := NewDirectoryCache(tr.Client)
	ctx := context.Background()

	require.NoError(t, tr.Client.Set(ctx, "directory:users:50", "not json", time.Minute).Err())
	_, ok, err := cache.Get(ctx, "users:50")
	require.Error(t, err)
	assert.False(t, ok)
}

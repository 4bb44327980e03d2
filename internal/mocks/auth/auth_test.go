package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/target/mmk-sso/internal/domain/auth"
)

func TestMockAuthProvider_LoginURL_Defaults(t *testing.T) {
	provider := NewMockAuthProvider()
	ctx := context.Background()

	u1, err := provider.LoginURL(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://mock-idp/authorize?state=state-1", u1)

	// Second call should increment counters
	u2, err := provider.LoginURL(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://mock-idp/authorize?state=state-2", u2)
}

func TestMockAuthProvider_LoginURL_CustomValues(t *testing.T) {
	provider := &MockAuthProvider{AuthURL: "https://custom-idp/login"}

	u, err := provider.LoginURL(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "https://custom-idp/login?state=state-1", u)
}

func TestMockAuthProvider_LoginURL_CustomFunc(t *testing.T) {
	provider := &MockAuthProvider{
		LoginURLFunc: func(context.Context) (string, error) {
			return "", errors.New("idp down")
		},
	}

	_, err := provider.LoginURL(context.Background())

	require.EqualError(t, err, "idp down")
}

func TestMockAuthProvider_Exchange_Defaults(t *testing.T) {
	provider := NewMockAuthProvider()

	claims, err := provider.Exchange(context.Background(), "code-1")

	require.NoError(t, err)
	assert.Equal(t, "Mock User", claims.Name)
	assert.Equal(t, []string{"User"}, claims.Roles)
	assert.Equal(t, []string{"code-1"}, provider.Exchanged())

	// Callers get a copy of the default identity.
	claims.Roles[0] = "Admin"
	again, err := provider.Exchange(context.Background(), "code-2")
	require.NoError(t, err)
	assert.Equal(t, []string{"User"}, again.Roles)
	assert.Equal(t, []string{"code-1", "code-2"}, provider.Exchanged())
}

func TestMockAuthProvider_Exchange_CustomFunc(t *testing.T) {
	provider := NewMockAuthProvider()
	provider.ExchangeFunc = func(_ context.Context, code string) (domainauth.Claims, error) {
		return domainauth.Claims{Name: "for " + code}, nil
	}

	claims, err := provider.Exchange(context.Background(), "abc")

	require.NoError(t, err)
	assert.Equal(t, "for abc", claims.Name)
	assert.Equal(t, []string{"abc"}, provider.Exchanged(), "codes are recorded even with a custom func")
}

func TestMemoryPersistence(t *testing.T) {
	jar := NewMemoryPersistence(map[string]string{"b": "2", "a": "1"})

	assert.Equal(t, []string{"a", "b"}, jar.Names())

	jar.Set("c", "3", time.Hour)
	v, ok := jar.Get("c")
	assert.True(t, ok)
	assert.Equal(t, "3", v)
	assert.Equal(t, CookieWrite{Value: "3", MaxAge: time.Hour}, jar.Writes["c"])

	jar.Delete("a")
	_, ok = jar.Get("a")
	assert.False(t, ok)
	assert.Equal(t, []string{"a"}, jar.Deleted)
}

func TestSealers(t *testing.T) {
	sealed, err := ReversibleSealer{}.Seal([]byte("hello"))
	require.NoError(t, err)
	opened, err := ReversibleSealer{}.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(opened))

	_, err = FailingSealer{}.Seal(nil)
	require.Error(t, err)
	custom := errors.New("boom")
	_, err = FailingSealer{Err: custom}.Open("x")
	require.ErrorIs(t, err, custom)
}

func TestStaticRoleSelector(t *testing.T) {
	sel := StaticRoleSelector{"Admin"}

	roles := sel.Select(nil)
	assert.Equal(t, []string{"Admin"}, roles)

	roles[0] = "User"
	assert.Equal(t, []string{"Admin"}, sel.Select(map[string]any{}), "callers get a copy")
	assert.Equal(t, []string{}, StaticRoleSelector(nil).Select(nil))
}

package cookiejar

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func TestJar_SetWritesSecureAttributes(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	jar := New(rec, req, Options{Domain: "example.com"})

	jar.Set("authenticated", "true", 24*time.Hour)

	c := findCookie(t, rec, "authenticated")
	assert.Equal(t, "true", c.Value)
	assert.Equal(t, 86400, c.MaxAge)
	assert.True(t, c.Secure)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, "example.com", c.Domain)
}

func TestJar_ReadsRequestCookies(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "authenticated", Value: "true"})
	req.AddCookie(&http.Cookie{Name: "session_old", Value: "x"})
	jar := New(httptest.NewRecorder(), req, Options{})

	v, ok := jar.Get("authenticated")
	require.True(t, ok)
	assert.Equal(t, "true", v)

	_, ok = jar.Get("user_info")
	assert.False(t, ok)

	assert.Equal(t, []string{"authenticated", "session_old"}, jar.Names())
}

func TestJar_WritesVisibleToLaterReads(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "authenticated", Value: "true"})
	rec := httptest.NewRecorder()
	jar := New(rec, req, Options{})

	jar.Delete("authenticated")
	_, ok := jar.Get("authenticated")
	assert.False(t, ok)
	assert.Empty(t, jar.Names())

	jar.Set("user_info", "v1.abc", time.Hour)
	v, ok := jar.Get("user_info")
	require.True(t, ok)
	assert.Equal(t, "v1.abc", v)
	assert.Equal(t, []string{"user_info"}, jar.Names())

	deleted := findCookie(t, rec, "authenticated")
	assert.Equal(t, -1, deleted.MaxAge)
	assert.Empty(t, deleted.Value)
}

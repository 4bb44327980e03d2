package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/target/mmk-sso/internal/domain/auth"
	apperrors "github.com/target/mmk-sso/internal/errors"
	"github.com/target/mmk-sso/internal/service"
)

func TestAuthHandlers_Login_RedirectsToProvider(t *testing.T) {
	env := newTestEnv(t, testEnvOptions{})
	b := newBrowser(t, env.Handler)

	rec := b.get(routeLogin)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "https://mock-idp/authorize?state="))
	_, ok := b.cookie(PostLoginRedirectCookie)
	assert.False(t, ok, "no redirect cookie for the default target")
}

func TestAuthHandlers_Login_WithRedirectURI(t *testing.T) {
	env := newTestEnv(t, testEnvOptions{})
	b := newBrowser(t, env.Handler)

	rec := b.get(routeLogin + "?redirect_uri=" + url.QueryEscape("/analytics"))

	assert.Equal(t, http.StatusFound, rec.Code)
	c, ok := b.cookie(PostLoginRedirectCookie)
	require.True(t, ok)
	assert.Equal(t, "/analytics", c.Value)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, postLoginRedirectMaxAge, c.MaxAge)
}

func TestAuthHandlers_Login_InvalidRedirectURI(t *testing.T) {
	env := newTestEnv(t, testEnvOptions{})
	b := newBrowser(t, env.Handler)

	rec := b.get(routeLogin + "?redirect_uri=" + url.QueryEscape("https://evil.example/steal"))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "https://mock-idp/"))
	_, ok := b.cookie(PostLoginRedirectCookie)
	assert.False(t, ok)
}

func TestAuthHandlers_Login_AlreadyAuthenticated(t *testing.T) {
	env := newTestEnv(t, testEnvOptions{})
	b := newBrowser(t, env.Handler)
	b.login(env, "code-1", "User")

	rec := b.get(routeLogin + "?redirect_uri=/analytics")

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/analytics", rec.Header().Get("Location"))
}

func TestAuthHandlers_Callback_Success(t *testing.T) {
	env := newTestEnv(t, testEnvOptions{})
	b := newBrowser(t, env.Handler)
	env.Provider.DefaultUser = domainauth.Claims{
		Name:              "Alice",
		PreferredUsername: "alice@x.com",
		Roles:             []string{"Superuser"},
	}

	rec := b.get(routeCallback + "?code=abc&state=xyz")

	require.Equal(t, http.StatusOK, rec.Code)
	page := body(t, rec)
	assert.Contains(t, page, `http-equiv="refresh"`)
	assert.Contains(t, page, "url=/")
	assert.Equal(t, []string{"abc"}, env.Provider.Exchanged())

	authCookie, ok := b.cookie(service.CookieAuthenticated)
	require.True(t, ok)
	assert.Equal(t, "true", authCookie.Value)
	assert.Equal(t, http.SameSiteStrictMode, authCookie.SameSite)
	assert.True(t, authCookie.HttpOnly)
	assert.True(t, authCookie.Secure)

	info, ok := b.cookie(service.CookieUserInfo)
	require.True(t, ok)
	assert.NotContains(t, info.Value, "alice@x.com", "user info must be sealed")

	login := env.Metrics.Counts("auth.login")
	require.Len(t, login, 1)
	assert.Equal(t, "success", login[0].Tags["result"])
}

func TestAuthHandlers_Callback_OnRootPath(t *testing.T) {
	env := newTestEnv(t, testEnvOptions{})
	b := newBrowser(t, env.Handler)

	rec := b.get("/?code=root-code&state=s")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body(t, rec), "Signed in")
	assert.Equal(t, []string{"root-code"}, env.Provider.Exchanged())
}

func TestAuthHandlers_Callback_UsesPostLoginRedirect(t *testing.T) {
	env := newTestEnv(t, testEnvOptions{})
	b := newBrowser(t, env.Handler)
	b.get(routeLogin + "?redirect_uri=/analytics")

	rec := b.get(routeCallback + "?code=abc")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body(t, rec), "url=/analytics")
	_, ok := b.cookie(PostLoginRedirectCookie)
	assert.False(t, ok, "redirect cookie is consumed")
}

func TestAuthHandlers_Callback_AJAX(t *testing.T) {
	env := newTestEnv(t, testEnvOptions{})
	b := newBrowser(t, env.Handler)

	req := httptest.NewRequest(http.MethodGet, routeCallback+"?code=abc", nil)
	req.Header.Set("Accept", "application/json")
	rec := b.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp["status"])
	assert.Equal(t, "/", resp["redirect_to"])
}

func TestAuthHandlers_Callback_ReplayedCode(t *testing.T) {
	env := newTestEnv(t, testEnvOptions{})

	first := newBrowser(t, env.Handler)
	require.Equal(t, http.StatusOK, first.get(routeCallback+"?code=once").Code)

	second := newBrowser(t, env.Handler)
	rec := second.get(routeCallback + "?code=once")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, body(t, rec), apperrors.MsgAuthFailed)
	assert.Equal(t, []string{"once"}, env.Provider.Exchanged(), "provider sees a code once")
	_, ok := second.cookie(service.CookieAuthenticated)
	assert.False(t, ok)
}

func TestAuthHandlers_Callback_ExchangeFailure(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "rejected",
			err:     apperrors.New(apperrors.ErrCodeExchangeRejected, "invalid_grant"),
			status:  http.StatusUnauthorized,
			message: apperrors.MsgAuthFailed,
		},
		{
			name:    "transport",
			err:     apperrors.New(apperrors.ErrCodeExchangeTransport, "dial tcp: timeout"),
			status:  http.StatusBadGateway,
			message: apperrors.MsgAuthError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, testEnvOptions{})
			env.Provider.ExchangeFunc = func(context.Context, string) (domainauth.Claims, error) {
				return domainauth.Claims{}, tt.err
			}
			b := newBrowser(t, env.Handler)

			rec := b.get(routeCallback + "?code=bad")

			assert.Equal(t, tt.status, rec.Code)
			page := body(t, rec)
			assert.Contains(t, page, tt.message)
			assert.Contains(t, page, "Sign in with Microsoft")
			assert.NotContains(t, page, "dial tcp", "internal detail must not leak")
		})
	}
}

func TestAuthHandlers_Callback_ProviderError(t *testing.T) {
	env := newTestEnv(t, testEnvOptions{})
	b := newBrowser(t, env.Handler)

	rec := b.get(routeCallback + "?error=access_denied&error_description=user+cancelled")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, body(t, rec), apperrors.MsgAuthFailed)
	assert.Empty(t, env.Provider.Exchanged())
}

func TestAuthHandlers_Callback_MissingCode(t *testing.T) {
	env := newTestEnv(t, testEnvOptions{})
	b := newBrowser(t, env.Handler)

	req := httptest.NewRequest(http.MethodGet, routeCallback, nil)
	req.Header.Set("Accept", "application/json")
	rec := b.do(req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"validation"`)
	assert.Empty(t, env.Provider.Exchanged())
}

func TestAuthHandlers_Logout_Success(t *testing.T) {
	env := newTestEnv(t, testEnvOptions{})
	b := newBrowser(t, env.Handler)
	b.login(env, "code-1", "User")

	csrf, ok := b.cookie(DefaultCSRFCookieName)
	require.True(t, ok)
	form := url.Values{DefaultCSRFCookieName: {csrf.Value}}
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := b.do(req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	_, ok = b.cookie(service.CookieAuthenticated)
	assert.False(t, ok)
	_, ok = b.cookie(service.CookieUserInfo)
	assert.False(t, ok)

	home := b.get("/")
	assert.Contains(t, body(t, home), "Sign in with Microsoft")
}

func TestAuthHandlers_Logout_AJAX(t *testing.T) {
	env := newTestEnv(t, testEnvOptions{})
	b := newBrowser(t, env.Handler)
	b.login(env, "code-1", "User")

	csrf, _ := b.cookie(DefaultCSRFCookieName)
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(DefaultCSRFHeaderName, csrf.Value)
	rec := b.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success","redirect_to":"/"}`, rec.Body.String())
}

func TestAuthHandlers_Logout_RequiresCSRFToken(t *testing.T) {
	env := newTestEnv(t, testEnvOptions{})
	b := newBrowser(t, env.Handler)
	b.login(env, "code-1", "User")

	rec := b.do(httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	_, ok := b.cookie(service.CookieAuthenticated)
	assert.True(t, ok, "session survives a forged logout")
}

func TestAuthHandlers_Status_Authenticated(t *testing.T) {
	env := newTestEnv(t, testEnvOptions{})
	b := newBrowser(t, env.Handler)
	b.login(env, "code-1", "Superuser")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/status", nil)
	req.Header.Set("Accept", "application/json")
	rec := b.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Authenticated)
	assert.Equal(t, "Alice", resp.Name)
	assert.Equal(t, "alice@x.com", resp.Username)
	assert.Equal(t, []string{"Superuser"}, resp.Roles)
	assert.Equal(t, "Superuser", resp.HighestRole)
	assert.ElementsMatch(t, []domainauth.Permission{
		domainauth.PermissionViewAnalytics,
		domainauth.PermissionViewSettings,
		domainauth.PermissionEditSettings,
	}, resp.Permissions)
	assert.Equal(t, map[domainauth.Page]bool{
		domainauth.PageHome:      true,
		domainauth.PageAnalytics: true,
		domainauth.PageSettings:  true,
		domainauth.PageUsers:     false,
	}, resp.Pages)
}

func TestAuthHandlers_Status_NotAuthenticated(t *testing.T) {
	env := newTestEnv(t, testEnvOptions{})

	req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	env.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["authenticated"])
	assert.Equal(t, []any{}, resp["roles"])
	assert.Equal(t, []any{}, resp["permissions"])
	assert.NotContains(t, resp, "name")
}

func TestAuthHandlers_Status_TamperedCookie(t *testing.T) {
	env := newTestEnv(t, testEnvOptions{})

	req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	req.AddCookie(&http.Cookie{Name: service.CookieAuthenticated, Value: "true"})
	req.AddCookie(&http.Cookie{Name: service.CookieUserInfo, Value: "forged"})
	rec := httptest.NewRecorder()
	env.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"authenticated":false`)

	var purged []string
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			purged = append(purged, c.Name)
		}
	}
	assert.Contains(t, purged, service.CookieAuthenticated)
	assert.Contains(t, purged, service.CookieUserInfo)
}

package httpx

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/target/mmk-sso/internal/adapters/cookieseal"
	"github.com/target/mmk-sso/internal/adapters/memory"
	domainauth "github.com/target/mmk-sso/internal/domain/auth"
	mockauth "github.com/target/mmk-sso/internal/mocks/auth"
	"github.com/target/mmk-sso/internal/observability/statsd"
	"github.com/target/mmk-sso/internal/service"
	"github.com/target/mmk-sso/internal/testutil"
)

const testCookieSecret = "test-cookie-secret"

// RequireTemplateRenderer creates a TemplateRenderer for tests from the working tree.
func RequireTemplateRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: os.DirFS(TemplatePathFromTest),
		Logger:     discardLogger(),
	})
	require.NoError(t, err)
	return tr
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// testEnv wires the full router against a mock identity provider.
type testEnv struct {
	Provider *mockauth.MockAuthProvider
	Auth     *service.AuthService
	Metrics  *statsd.Recorder
	Handler  http.Handler
}

type testEnvOptions struct {
	Missing   []string
	Directory DirectoryService
	EnvFile   string
}

func newTestEnv(t *testing.T, opts testEnvOptions) *testEnv {
	t.Helper()

	key, err := cookieseal.KeyFromSecret(testCookieSecret)
	require.NoError(t, err)
	sealer, err := cookieseal.NewAESGCMSealer(key, service.CookieUserInfo)
	require.NoError(t, err)

	rec := &statsd.Recorder{}
	provider := mockauth.NewMockAuthProvider()
	clock := testutil.NewTestTimeProvider(testutil.TestTime())
	auth := service.NewAuthService(service.AuthServiceOptions{
		Provider:     provider,
		ProviderName: "mock",
		Sessions: service.NewSessionStore(service.SessionStoreOptions{
			Sealer:  sealer,
			Logger:  discardLogger(),
			Metrics: rec,
		}),
		Ledger:  memory.NewCodeLedger(clock.Now),
		Missing: opts.Missing,
		Logger:  discardLogger(),
		Metrics: rec,
	})

	h, err := NewRouter(RouterServices{
		Auth:         auth,
		Directory:    opts.Directory,
		TemplatesDir: TemplatePathFromTest,
		EnvFile:      opts.EnvFile,
		Logger:       discardLogger(),
		Metrics:      rec,
	})
	require.NoError(t, err)

	return &testEnv{Provider: provider, Auth: auth, Metrics: rec, Handler: h}
}

// browser replays cookies between requests the way a user agent would.
type browser struct {
	t       *testing.T
	h       http.Handler
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T, h http.Handler) *browser {
	return &browser{t: t, h: h, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "text/html")
	}
	for _, c := range b.cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	rec := httptest.NewRecorder()
	b.h.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return rec
}

func (b *browser) get(target string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, target, nil))
}

func (b *browser) cookie(name string) (*http.Cookie, bool) {
	c, ok := b.cookies[name]
	return c, ok
}

// login completes a callback for a user holding roles.
func (b *browser) login(env *testEnv, code string, roles ...string) {
	b.t.Helper()
	env.Provider.DefaultUser = domainauth.Claims{
		Name:              "Alice",
		PreferredUsername: "alice@x.com",
		Email:             "alice@x.com",
		ObjectID:          "oid-alice",
		Roles:             roles,
	}
	rec := b.get(routeCallback + "?code=" + code + "&state=s")
	require.Equal(b.t, http.StatusOK, rec.Code, rec.Body.String())
	_, ok := b.cookie(service.CookieAuthenticated)
	require.True(b.t, ok, "login must set the session cookies")
}

func body(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	b, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	return string(b)
}

package httpx

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"

	mmksso "github.com/target/mmk-sso"
	"github.com/target/mmk-sso/internal/adapters/cookiejar"
	domainauth "github.com/target/mmk-sso/internal/domain/auth"
	"github.com/target/mmk-sso/internal/observability/statsd"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth      AuthServiceInterface
	Directory DirectoryService
	// DirectoryLimit is the default page size for directory listings.
	DirectoryLimit int
	CookieDomain   string
	// TemplatesDir overrides the embedded templates when set.
	TemplatesDir string
	// EnvFile is the dotenv path mentioned on the configuration error page.
	EnvFile string
	IsDev   bool         // Development mode: templates and static files are read from disk
	Logger  *slog.Logger // Logger for template and HTTP errors (optional)
	Metrics statsd.Sink
}

// NewRouter creates and configures the HTTP router with its middleware chain.
func NewRouter(services RouterServices) (http.Handler, error) {
	if services.Auth == nil {
		return nil, errors.New("auth service is required")
	}
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: templateFS(services),
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create template renderer: %w", err)
	}

	cookies := cookiejar.Options{Domain: services.CookieDomain}
	pages := &PageHandlers{
		T:              tr,
		Directory:      services.Directory,
		DirectoryLimit: services.DirectoryLimit,
		EnvFile:        services.EnvFile,
		Logger:         logger,
	}
	if pages.DirectoryLimit <= 0 {
		pages.DirectoryLimit = defaultDirectoryLimit
	}
	authHandlers := &AuthHandlers{Svc: services.Auth, Pages: pages, Cookies: cookies, Logger: logger}
	guards := &Guards{T: tr, Metrics: services.Metrics, Logger: logger}

	mux := http.NewServeMux()
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("GET /static/", staticHandler(services.IsDev))
	registerAuthRoutes(mux, authHandlers)
	registerPageRoutes(mux, pages, authHandlers, guards)

	var handler http.Handler = &notFoundHandler{mux: mux, pages: pages}
	handler = CSRFProtection(CSRFConfig{CookieDomain: services.CookieDomain, Logger: logger})(handler)
	handler = Sessions(services.Auth, cookies)(handler)
	handler = ConfigGate(services.Auth, pages)(handler)
	handler = BrowserDetection()(handler)
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	handler = RequestID()(handler)
	return handler, nil
}

const defaultDirectoryLimit = 50

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET "+routeLogin, h.Login)
	mux.HandleFunc("GET "+routeCallback, h.Callback)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
	mux.HandleFunc("GET /api/auth/status", h.Status)
}

func registerPageRoutes(mux *http.ServeMux, pages *PageHandlers, auth *AuthHandlers, g *Guards) {
	mux.HandleFunc("GET /{$}", rootHandler(auth, pages))

	analytics := g.RequirePermission(domainauth.PermissionViewAnalytics)
	mux.Handle("GET /analytics", analytics(http.HandlerFunc(pages.Analytics)))

	settingsRole := g.RequireRole(domainauth.RoleAdmin, domainauth.RoleSuperuser)
	viewSettings := g.RequirePermission(domainauth.PermissionViewSettings)
	editSettings := g.RequirePermission(domainauth.PermissionEditSettings)
	mux.Handle("GET /settings", settingsRole(viewSettings(http.HandlerFunc(pages.Settings))))
	mux.Handle("POST /settings", settingsRole(editSettings(http.HandlerFunc(pages.SaveSettings))))

	adminOnly := g.RequireRole(domainauth.RoleAdmin)
	manageUsers := g.RequirePermission(domainauth.PermissionManageUsers)
	mux.Handle("GET /users", adminOnly(manageUsers(http.HandlerFunc(pages.Users))))
	mux.Handle("GET /api/users", adminOnly(manageUsers(http.HandlerFunc(pages.UsersAPI))))
}

// rootHandler serves the dashboard, or completes a login when the identity
// provider redirected back to the root path.
func rootHandler(auth *AuthHandlers, pages *PageHandlers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Has("code") || q.Has("error") {
			auth.Callback(w, r)
			return
		}
		pages.Home(w, r)
	}
}

// templateFS picks the template source: an explicit directory, the working
// tree in dev mode, or the embedded copy.
func templateFS(services RouterServices) fs.FS {
	if services.TemplatesDir != "" {
		return os.DirFS(services.TemplatesDir)
	}
	if services.IsDev {
		return os.DirFS(TemplatePathFromRoot)
	}
	sub, err := fs.Sub(mmksso.TemplateFS, TemplatePathFromRoot)
	if err != nil {
		log.Printf("failed to create sub-filesystem for templates: %v; falling back to disk", err)
		return os.DirFS(TemplatePathFromRoot)
	}
	return sub
}

func staticHandler(isDev bool) http.Handler {
	if isDev {
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir(StaticPathFromRoot))))
	}

	staticSub, err := fs.Sub(mmksso.StaticFS, StaticPathFromRoot)
	if err != nil {
		log.Printf("failed to create sub-filesystem for static assets: %v", err)
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir(StaticPathFromRoot))))
	}
	return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))
}

func staticWithCacheHeaders(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		handler.ServeHTTP(w, r)
	})
}

// notFoundHandler renders the application's 404 page for unknown routes.
type notFoundHandler struct {
	mux   *http.ServeMux
	pages *PageHandlers
}

func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if _, pattern := h.mux.Handler(r); pattern == "" {
		if strings.HasPrefix(r.URL.Path, "/static/") {
			http.NotFound(w, r)
			return
		}
		cw := newCaptureWriter()
		h.mux.ServeHTTP(cw, r)
		if cw.status == http.StatusNotFound {
			h.pages.NotFound(w, r)
			return
		}
		cw.flushTo(w)
		return
	}
	h.mux.ServeHTTP(w, r)
}

// captureWriter buffers a response so a mux 404 can be replaced.
type captureWriter struct {
	header http.Header
	status int
	buf    bytes.Buffer
}

func newCaptureWriter() *captureWriter {
	return &captureWriter{header: make(http.Header), status: http.StatusOK}
}

func (c *captureWriter) Header() http.Header         { return c.header }
func (c *captureWriter) WriteHeader(code int)        { c.status = code }
func (c *captureWriter) Write(b []byte) (int, error) { return c.buf.Write(b) }

func (c *captureWriter) flushTo(w http.ResponseWriter) {
	for k, vs := range c.header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(c.status)
	if _, err := w.Write(c.buf.Bytes()); err != nil {
		log.Printf("failed to write captured response: %v", err)
	}
}

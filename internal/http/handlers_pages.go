package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	domainauth "github.com/target/mmk-sso/internal/domain/auth"
	"github.com/target/mmk-sso/internal/domain/directory"
	apperrors "github.com/target/mmk-sso/internal/errors"
	"github.com/target/mmk-sso/internal/service"
)

const (
	appTitle         = "Azure SSO App"
	msgSettingsSaved = "Settings saved successfully!"
	maxDirectoryList = 999
)

// DirectoryService is the subset of the directory service the pages need.
type DirectoryService interface {
	Configured() bool
	ListUsers(ctx context.Context, limit int) []directory.User
}

var _ DirectoryService = (*service.DirectoryService)(nil)

// PageHandlers serves browser-facing pages.
type PageHandlers struct {
	T         *TemplateRenderer
	Directory DirectoryService
	// DirectoryLimit is the page size requested from the directory.
	DirectoryLimit int
	// EnvFile is checked for existence on the configuration error page.
	EnvFile string
	Logger  *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *PageHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *PageHandlers) render(w http.ResponseWriter, r *http.Request, status int, data map[string]any) {
	if err := h.T.RenderStatus(w, status, data); err != nil {
		h.logger().ErrorContext(r.Context(), "page render failed",
			slog.Any("error", err),
			slog.Any("page", data["CurrentPage"]),
			slog.String("request_id", RequestIDFromContext(r.Context())),
		)
		http.Error(w, apperrors.MsgInternal, http.StatusInternalServerError)
	}
}

// Home shows the dashboard to authenticated visitors and the sign-in page to everyone else.
// GET /.
func (h *PageHandlers) Home(w http.ResponseWriter, r *http.Request) {
	sess := GetSessionFromContext(r.Context())
	if !sess.IsAuthenticated() {
		h.renderLogin(w, r, loginView{Status: http.StatusOK})
		return
	}

	var profile map[string]any
	if claims := sess.UserInfo(); claims != nil {
		profile = claims.ToMap()
	}
	data := NewTemplateData(r, PageMeta{Title: appTitle, PageTitle: "Dashboard", CurrentPage: PageHome}).
		With("Profile", profile).
		With("QuickStats", dashboardStats).
		Build()
	h.render(w, r, http.StatusOK, data)
}

// loginView carries the optional failure shown above the sign-in button.
type loginView struct {
	Status int
	Err    error
}

func (h *PageHandlers) renderLogin(w http.ResponseWriter, r *http.Request, v loginView) {
	b := NewTemplateData(r, PageMeta{Title: appTitle, PageTitle: "Sign In", CurrentPage: PageLogin}).
		With("LoginPath", routeLogin).
		With("Features", loginFeatures)
	if v.Err != nil {
		code := apperrors.GetCode(v.Err)
		b.WithError(apperrors.UserMessage(code))
	}
	status := v.Status
	if status == 0 {
		status = http.StatusOK
	}
	h.render(w, r, status, b.Build())
}

// SignedIn completes the callback with a page that forwards to target.
// A same-site navigation is needed for the browser to send the SameSite=Strict
// session cookies, so this is a page with a refresh rather than a 302.
func (h *PageHandlers) SignedIn(w http.ResponseWriter, r *http.Request, target string) {
	data := NewTemplateData(r, PageMeta{Title: appTitle, PageTitle: "Signed in", CurrentPage: PageSignedIn}).
		With("RefreshURL", safeRedirectPath(target)).
		Build()
	h.render(w, r, http.StatusOK, data)
}

// Analytics renders the demo analytics page.
// GET /analytics.
func (h *PageHandlers) Analytics(w http.ResponseWriter, r *http.Request) {
	data := NewTemplateData(r, PageMeta{Title: appTitle + " - Analytics", PageTitle: "Analytics Dashboard", CurrentPage: PageAnalytics}).
		With("KPIs", analyticsKPIs).
		With("Traffic", analyticsTraffic).
		With("Activity", analyticsActivity).
		With("Insights", analyticsInsights).
		Build()
	h.render(w, r, http.StatusOK, data)
}

// Settings renders the demo settings form.
// GET /settings.
func (h *PageHandlers) Settings(w http.ResponseWriter, r *http.Request) {
	h.renderSettings(w, r, settingsView{Form: defaultSettings(), Status: http.StatusOK})
}

// SaveSettings validates the submitted form. Values are echoed back but not stored.
// POST /settings.
func (h *PageHandlers) SaveSettings(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderSettings(w, r, settingsView{
			Form:   defaultSettings(),
			Err:    apperrors.Validation("malformed form"),
			Status: http.StatusBadRequest,
		})
		return
	}

	form, err := parseSettingsForm(r.PostForm)
	if err != nil {
		h.renderSettings(w, r, settingsView{Form: form, Err: err, Status: http.StatusBadRequest})
		return
	}

	h.logger().InfoContext(r.Context(), "settings saved",
		slog.String("theme", form.Theme),
		slog.String("language", form.Language),
		slog.String("request_id", RequestIDFromContext(r.Context())),
	)
	h.renderSettings(w, r, settingsView{Form: form, Flash: msgSettingsSaved, Status: http.StatusOK})
}

type settingsView struct {
	Form   SettingsForm
	Flash  string
	Err    error
	Status int
}

func (h *PageHandlers) renderSettings(w http.ResponseWriter, r *http.Request, v settingsView) {
	sess := GetSessionFromContext(r.Context())
	b := NewTemplateData(r, PageMeta{Title: appTitle + " - Settings", PageTitle: "Settings", CurrentPage: PageSettings}).
		With("Form", v.Form).
		With("Options", settingsOptions).
		With("CanEdit", sess.HasPermission(domainauth.PermissionEditSettings)).
		With("Services", connectedServices).
		With("MaskedAPIKey", maskedAPIKey).
		WithFlash(v.Flash)
	if v.Form.DebugMode {
		b.With("DebugState", debugState(sess))
	}
	if v.Err != nil {
		msg := v.Err.Error()
		if field := apperrors.GetField(v.Err); field != "" {
			b.With("ErrorField", field)
		}
		b.WithError(msg)
	}
	h.render(w, r, v.Status, b.Build())
}

// Users renders role definitions and the organisation directory.
// GET /users.
func (h *PageHandlers) Users(w http.ResponseWriter, r *http.Request) {
	users, source := h.listUsers(r.Context(), h.DirectoryLimit)
	data := NewTemplateData(r, PageMeta{Title: appTitle + " - Users", PageTitle: "Users Management", CurrentPage: PageUsers}).
		With("RoleDefinitions", roleDefinitions()).
		With("Users", users).
		With("DirectorySource", source).
		Build()
	h.render(w, r, http.StatusOK, data)
}

// UsersAPIResponse is the JSON shape of GET /api/users.
type UsersAPIResponse struct {
	Users  []directory.User `json:"users"`
	Source string           `json:"source"`
}

// UsersAPI lists directory users as JSON.
// GET /api/users?limit=N.
func (h *PageHandlers) UsersAPI(w http.ResponseWriter, r *http.Request) {
	limit := h.DirectoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxDirectoryList {
			WriteAppError(w, apperrors.ValidationField("limit", "limit must be between 1 and 999"))
			return
		}
		limit = n
	}
	users, source := h.listUsers(r.Context(), limit)
	WriteJSON(w, http.StatusOK, UsersAPIResponse{Users: users, Source: source})
}

const (
	directorySourceGraph       = "graph"
	directorySourcePlaceholder = "placeholder"
)

// listUsers falls back to placeholder rows when the directory is unavailable or empty.
func (h *PageHandlers) listUsers(ctx context.Context, limit int) ([]directory.User, string) {
	if h.Directory != nil && h.Directory.Configured() {
		if users := h.Directory.ListUsers(ctx, limit); len(users) > 0 {
			return users, directorySourceGraph
		}
	}
	return directory.PlaceholderUsers(), directorySourcePlaceholder
}

// ConfigError explains which settings are missing. Every page answers with
// it until the identity provider is configured.
func (h *PageHandlers) ConfigError(w http.ResponseWriter, r *http.Request, missing []string) {
	if !IsBrowserRequest(r) || isAJAX(r) {
		WriteError(w, ErrorParams{
			Code:    http.StatusServiceUnavailable,
			ErrCode: string(apperrors.ErrCodeConfigMissing),
			Message: "Configuration Error",
		})
		return
	}

	data := NewTemplateData(r, PageMeta{Title: appTitle, PageTitle: "Configuration Error", CurrentPage: PageConfigError}).
		With("HideNav", true).
		With("Missing", missing).
		With("EnvExists", h.envFileExists()).
		With("SampleEnv", sampleEnv).
		Build()
	h.render(w, r, http.StatusServiceUnavailable, data)
}

func (h *PageHandlers) envFileExists() bool {
	path := h.EnvFile
	if path == "" {
		path = ".env"
	}
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, os.ErrNotExist)
}

// NotFound renders the 404 page for browsers and a JSON error otherwise.
func (h *PageHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if !IsBrowserRequest(r) {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Message: "not found"})
		return
	}
	data := NewTemplateData(r, PageMeta{Title: appTitle, PageTitle: "Not Found", CurrentPage: PageNotFound}).Build()
	h.render(w, r, http.StatusNotFound, data)
}

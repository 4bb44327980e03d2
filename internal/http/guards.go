package httpx

import (
	"log/slog"
	"net/http"
	"strings"

	domainauth "github.com/target/mmk-sso/internal/domain/auth"
	apperrors "github.com/target/mmk-sso/internal/errors"
	"github.com/target/mmk-sso/internal/observability/metrics"
	"github.com/target/mmk-sso/internal/observability/statsd"
)

// Denial texts rendered by the guard views.
const (
	msgLoginHint      = "Please log in using the Home page"
	msgNoRoles        = "You have no roles assigned. Contact your administrator."
	msgContactAdmin   = "If you believe this is an error, please contact your system administrator."
	guardAuthenticate = "authentication"
	guardRole         = "role"
	guardPermission   = "permission"
)

// Guards wraps page handlers with access checks. Denied requests never reach
// the wrapped handler: browsers get the denial view, API callers get JSON.
type Guards struct {
	T       *TemplateRenderer
	Metrics statsd.Sink
	Logger  *slog.Logger
}

func (g *Guards) logger() *slog.Logger {
	if g != nil && g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}

// RequireAuthentication only lets authenticated sessions through.
func (g *Guards) RequireAuthentication() func(http.Handler) http.Handler {
	return g.require(guardAuthenticate, domainauth.Requirement{})
}

// RequireRole lets a session through when it holds any of roles.
func (g *Guards) RequireRole(roles ...domainauth.Role) func(http.Handler) http.Handler {
	return g.require(guardRole, domainauth.Requirement{Roles: roles})
}

// RequirePermission lets a session through when it holds every one of perms.
func (g *Guards) RequirePermission(perms ...domainauth.Permission) func(http.Handler) http.Handler {
	return g.require(guardPermission, domainauth.Requirement{Permissions: perms})
}

func (g *Guards) require(guard string, req domainauth.Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := domainauth.Authorize(GetSessionFromContext(r.Context()), req)
			if d.Allowed() {
				next.ServeHTTP(w, r)
				return
			}

			metrics.EmitGuardDenied(g.metricsSink(), guard, d.State.String())
			g.logger().InfoContext(r.Context(), "access denied",
				slog.String("guard", guard),
				slog.String("state", d.State.String()),
				slog.String("path", r.URL.Path),
				slog.Any("roles", d.CurrentRoles),
				slog.String("request_id", RequestIDFromContext(r.Context())),
			)

			if IsBrowserRequest(r) && g.T != nil {
				g.renderDenied(w, r, d)
				return
			}
			writeDeniedJSON(w, d)
		})
	}
}

func (g *Guards) metricsSink() statsd.Sink {
	if g == nil {
		return nil
	}
	return g.Metrics
}

// deniedStatus maps a refusal to its HTTP status.
func deniedStatus(d domainauth.Decision) int {
	if d.State == domainauth.DecisionUnauthenticated {
		return http.StatusUnauthorized
	}
	return http.StatusForbidden
}

func (g *Guards) renderDenied(w http.ResponseWriter, r *http.Request, d domainauth.Decision) {
	b := NewTemplateData(r, PageMeta{Title: apperrors.MsgAccessDenied, CurrentPage: PageDenied}).
		With("HideNav", true).
		With("ContactHint", msgContactAdmin)

	switch {
	case d.State == domainauth.DecisionUnauthenticated:
		b.With("Unauthenticated", true).
			With("Message", apperrors.MsgLoginNeeded).
			With("LoginHint", msgLoginHint)
	case len(d.RequiredRoles) > 0:
		b.With("Heading", apperrors.MsgAccessDenied).
			With("RequiredRoles", rolesText(d.RequiredRoles, " or "))
		if len(d.CurrentRoles) > 0 {
			b.With("CurrentRoles", strings.Join(d.CurrentRoles, ", "))
		} else {
			b.With("NoRoles", msgNoRoles)
		}
	default:
		b.With("Heading", apperrors.MsgAccessDenied).
			With("MissingPermissions", permissionsText(d.MissingPermissions))
		if d.HighestRole != "" {
			b.With("CurrentRole", string(d.HighestRole))
		} else {
			b.With("NoRoles", msgNoRoles)
		}
	}

	if err := g.T.RenderStatus(w, deniedStatus(d), b.Build()); err != nil {
		http.Error(w, apperrors.MsgAccessDenied, deniedStatus(d))
	}
}

// deniedBody is the JSON shape of a guard refusal.
type deniedBody struct {
	Error    string   `json:"error"`
	Message  string   `json:"message"`
	Required []string `json:"required,omitempty"`
	Current  []string `json:"current"`
}

func writeDeniedJSON(w http.ResponseWriter, d domainauth.Decision) {
	if d.State == domainauth.DecisionUnauthenticated {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: string(apperrors.ErrCodeUnauthorized),
			Message: apperrors.MsgLoginNeeded,
		})
		return
	}

	body := deniedBody{
		Error:   string(apperrors.ErrCodeForbidden),
		Message: apperrors.MsgAccessDenied,
		Current: d.CurrentRoles,
	}
	if body.Current == nil {
		body.Current = []string{}
	}
	for _, role := range d.RequiredRoles {
		body.Required = append(body.Required, string(role))
	}
	for _, p := range d.MissingPermissions {
		body.Required = append(body.Required, string(p))
	}
	WriteJSON(w, http.StatusForbidden, body)
}

func rolesText(roles []domainauth.Role, sep string) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, sep)
}

func permissionsText(perms []domainauth.Permission) string {
	parts := make([]string, len(perms))
	for i, p := range perms {
		parts[i] = string(p)
	}
	return strings.Join(parts, ", ")
}

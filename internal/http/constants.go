package httpx

import domainauth "github.com/target/mmk-sso/internal/domain/auth"

// CurrentPage constants define the page identifiers used in templates and navigation.
// These constants ensure consistency across UI handlers and template mapping.
const (
	// Navigable pages mirror the RBAC page registry.
	PageHome      = string(domainauth.PageHome)
	PageAnalytics = string(domainauth.PageAnalytics)
	PageSettings  = string(domainauth.PageSettings)
	PageUsers     = string(domainauth.PageUsers)

	// Views without a navigation entry.
	PageLogin       = "login"
	PageDenied      = "denied"
	PageConfigError = "config-error"
	PageSignedIn    = "signed-in"
	PageNotFound    = "not-found"
)

// Template paths used for loading templates in tests and production.
const (
	TemplatePathFromRoot = "web/templates"       // From project root
	TemplatePathFromTest = "../../web/templates" // From internal/http test files
	StaticPathFromRoot   = "web/static"
)

// Cookie and route names shared by the handlers.
const (
	// PostLoginRedirectCookie remembers where to land after the IdP round trip.
	PostLoginRedirectCookie = "post_login_redirect"
	postLoginRedirectMaxAge = 600 // seconds

	routeLogin    = "/auth/login"
	routeCallback = "/auth/callback"
)

// Content templates are defined once and reused to avoid per-call allocations.
//
//nolint:gochecknoglobals // static read-only lookup for templates; avoids per-call allocations
var contentTemplates = map[string]string{
	PageHome:        "dashboard-content",
	PageAnalytics:   "analytics-content",
	PageSettings:    "settings-content",
	PageUsers:       "users-content",
	PageLogin:       "login-content",
	PageDenied:      "denied-content",
	PageConfigError: "config-error-content",
	PageSignedIn:    "signed-in-content",
	PageNotFound:    "not-found-content",
}

// ContentTemplateMap returns the mapping from CurrentPage to template name.
// This is the single source of truth for page-to-template mapping.
func ContentTemplateMap() map[string]string { return contentTemplates }

// ContentTemplateFor returns the content template for the given CurrentPage.
// Falls back to dashboard-content for unknown pages.
func ContentTemplateFor(currentPage string) string {
	if name, ok := ContentTemplateMap()[currentPage]; ok {
		return name
	}
	return "dashboard-content"
}

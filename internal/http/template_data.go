package httpx

import (
	"net/http"

	domainauth "github.com/target/mmk-sso/internal/domain/auth"
)

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

// NavItem is one sidebar entry.
type NavItem struct {
	Label  string
	Path   string
	Icon   string
	Active bool
}

// UserView is the identity block shown in the sidebar and dashboard.
type UserView struct {
	Name     string
	Email    string
	Username string
	ObjectID string
}

//nolint:gochecknoglobals // static read-only lookup
var pagePaths = map[domainauth.Page]struct{ Path, Icon string }{
	domainauth.PageHome:      {Path: "/", Icon: "🏠"},
	domainauth.PageAnalytics: {Path: "/analytics", Icon: "📊"},
	domainauth.PageSettings:  {Path: "/settings", Icon: "⚙️"},
	domainauth.PageUsers:     {Path: "/users", Icon: "👥"},
}

// buildNav lists the pages the session may open, in navigation order.
func buildNav(sess *domainauth.Session, current string) []NavItem {
	access := sess.AccessiblePages()
	nav := make([]NavItem, 0, len(access))
	for _, p := range domainauth.AllPages() {
		if !access[p] {
			continue
		}
		meta := pagePaths[p]
		nav = append(nav, NavItem{
			Label:  string(p),
			Path:   meta.Path,
			Icon:   meta.Icon,
			Active: string(p) == current,
		})
	}
	return nav
}

// basePageData constructs the common page data map with user context.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	sess := GetSessionFromContext(r.Context())
	data := map[string]any{
		"Title":           meta.Title,
		"PageTitle":       meta.PageTitle,
		"CurrentPage":     meta.CurrentPage,
		"IsAuthenticated": sess.IsAuthenticated(),
		"Nav":             buildNav(sess, meta.CurrentPage),
		"RequestID":       RequestIDFromContext(r.Context()),
	}

	if csrfToken := GetCSRFToken(r); csrfToken != "" {
		data["CSRFToken"] = csrfToken
	}

	if claims := sess.UserInfo(); claims != nil {
		data["User"] = UserView{
			Name:     claims.DisplayName(),
			Email:    claims.Email,
			Username: claims.Username(),
			ObjectID: claims.ObjectID,
		}
		data["Roles"] = sess.Roles()
		if hr, ok := sess.HighestRole(); ok {
			data["HighestRole"] = string(hr)
		}
	}

	return data
}

// TemplateDataBuilder provides a fluent API for building template data maps.
type TemplateDataBuilder struct {
	data map[string]any
}

// NewTemplateData creates a new TemplateDataBuilder initialized with basePageData.
func NewTemplateData(r *http.Request, meta PageMeta) *TemplateDataBuilder {
	return &TemplateDataBuilder{data: basePageData(r, meta)}
}

// WithError sets a general error message.
func (b *TemplateDataBuilder) WithError(msg string) *TemplateDataBuilder {
	b.data["Error"] = true
	b.data["ErrorMessage"] = msg
	return b
}

// WithFlash sets a one-shot success notice.
func (b *TemplateDataBuilder) WithFlash(msg string) *TemplateDataBuilder {
	if msg != "" {
		b.data["Flash"] = msg
	}
	return b
}

// With adds a custom field to the template data.
func (b *TemplateDataBuilder) With(key string, value any) *TemplateDataBuilder {
	b.data[key] = value
	return b
}

// Build returns the final template data map.
func (b *TemplateDataBuilder) Build() map[string]any {
	return b.data
}

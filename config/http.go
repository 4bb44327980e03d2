package config

import (
	"log/slog"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8501"`

	// CookieDomain is the domain for session cookies.
	// Leave empty to use the request host (host-only cookies).
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// TemplatesDir, when set in dev mode, makes templates load from disk on every request.
	TemplatesDir string `env:"HTTP_TEMPLATES_DIR" envDefault:""`
}

// Sanitize applies guardrails to HTTP configuration values.
// A cookie domain that is itself a public suffix (e.g. "co.uk") would be
// rejected by browsers, so it is dropped in favour of host-only cookies.
func (h *HTTPConfig) Sanitize() {
	h.Addr = strings.TrimSpace(h.Addr)
	if h.Addr == "" {
		h.Addr = ":8501"
	}
	if h.CookieDomain != "" && !ValidCookieDomain(h.CookieDomain) {
		slog.Warn("ignoring APP_COOKIE_DOMAIN", "domain", h.CookieDomain)
		h.CookieDomain = ""
	}
	h.CookieDomain = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(h.CookieDomain)), ".")
}

// ValidCookieDomain reports whether domain can scope a cookie: it must be
// at or below a registrable domain.
func ValidCookieDomain(domain string) bool {
	d := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(domain)), ".")
	if d == "" || strings.ContainsAny(d, ":/ ") {
		return false
	}
	if d == "localhost" {
		return true
	}
	etld1, err := publicsuffix.EffectiveTLDPlusOne(d)
	if err != nil {
		return false
	}
	return d == etld1 || strings.HasSuffix(d, "."+etld1)
}

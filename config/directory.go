package config

import (
	"strings"
	"time"
)

// DefaultGraphBaseURL is the Microsoft Graph v1.0 root.
const DefaultGraphBaseURL = "https://graph.microsoft.com/v1.0"

// DirectoryConfig controls the user directory listing shown to administrators.
type DirectoryConfig struct {
	// CacheTTL is how long a directory listing is reused before the upstream is asked again.
	CacheTTL time.Duration `env:"DIRECTORY_CACHE_TTL" envDefault:"5m"`

	// DefaultLimit is the number of users requested when the caller does not say.
	DefaultLimit int `env:"DIRECTORY_DEFAULT_LIMIT" envDefault:"50"`

	// GraphBaseURL is the Graph API root.
	GraphBaseURL string `env:"GRAPH_BASE_URL" envDefault:"https://graph.microsoft.com/v1.0"`

	// Timeout bounds each Graph request, token acquisition included.
	Timeout time.Duration `env:"DIRECTORY_TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to directory configuration values.
func (d *DirectoryConfig) Sanitize() {
	if d.CacheTTL <= 0 {
		d.CacheTTL = 5 * time.Minute
	}
	if d.DefaultLimit <= 0 {
		d.DefaultLimit = 50
	}
	if d.DefaultLimit > 999 {
		d.DefaultLimit = 999
	}
	d.GraphBaseURL = strings.TrimRight(strings.TrimSpace(d.GraphBaseURL), "/")
	if d.GraphBaseURL == "" {
		d.GraphBaseURL = DefaultGraphBaseURL
	}
	if d.Timeout <= 0 {
		d.Timeout = 10 * time.Second
	}
}

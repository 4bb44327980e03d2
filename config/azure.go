package config

import "strings"

const (
	// DefaultRedirectURI is used when REDIRECT_URI is not configured.
	DefaultRedirectURI = "http://localhost:8501"
	// DefaultAuthorityHost is the public Azure AD login host.
	DefaultAuthorityHost = "https://login.microsoftonline.com"
)

// Required identity provider keys, in the order they are reported.
const (
	KeyClientID     = "AZURE_CLIENT_ID"
	KeyClientSecret = "AZURE_CLIENT_SECRET"
	KeyTenantID     = "AZURE_TENANT_ID"
)

// AzureConfig holds the credentials for the Azure AD (Entra ID) application.
type AzureConfig struct {
	ClientID      string   `env:"AZURE_CLIENT_ID"`
	ClientSecret  string   `env:"AZURE_CLIENT_SECRET"`
	TenantID      string   `env:"AZURE_TENANT_ID"`
	RedirectURI   string   `env:"REDIRECT_URI"         envDefault:"http://localhost:8501"`
	AuthorityHost string   `env:"AZURE_AUTHORITY_HOST" envDefault:"https://login.microsoftonline.com"`
	Scopes        []string `env:"AZURE_SCOPES"         envDefault:"User.Read"                        envSeparator:" "`
}

// Sanitize trims values and restores defaults for blank entries.
func (a *AzureConfig) Sanitize() {
	a.ClientID = strings.TrimSpace(a.ClientID)
	a.ClientSecret = strings.TrimSpace(a.ClientSecret)
	a.TenantID = strings.TrimSpace(a.TenantID)
	a.RedirectURI = strings.TrimSpace(a.RedirectURI)
	if a.RedirectURI == "" {
		a.RedirectURI = DefaultRedirectURI
	}
	a.AuthorityHost = strings.TrimRight(strings.TrimSpace(a.AuthorityHost), "/")
	if a.AuthorityHost == "" {
		a.AuthorityHost = DefaultAuthorityHost
	}

	scopes := make([]string, 0, len(a.Scopes))
	for _, s := range a.Scopes {
		if s = strings.TrimSpace(s); s != "" {
			scopes = append(scopes, s)
		}
	}
	if len(scopes) == 0 {
		scopes = []string{"User.Read"}
	}
	a.Scopes = scopes
}

// Validate reports whether the required credentials are present and, if not,
// which keys are missing. It never fails.
func (a AzureConfig) Validate() (bool, []string) {
	var missing []string
	if a.ClientID == "" {
		missing = append(missing, KeyClientID)
	}
	if a.ClientSecret == "" {
		missing = append(missing, KeyClientSecret)
	}
	if a.TenantID == "" {
		missing = append(missing, KeyTenantID)
	}
	return len(missing) == 0, missing
}

// Authority returns the tenant-specific authority URL.
func (a AzureConfig) Authority() string {
	host := a.AuthorityHost
	if host == "" {
		host = DefaultAuthorityHost
	}
	return host + "/" + a.TenantID
}

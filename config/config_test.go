package config

import (
	"reflect"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestAzureConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		cfg         AzureConfig
		wantOK      bool
		wantMissing []string
	}{
		{
			name:   "complete",
			cfg:    AzureConfig{ClientID: "id", ClientSecret: "secret", TenantID: "tenant"},
			wantOK: true,
		},
		{
			name:        "nothing set",
			cfg:         AzureConfig{},
			wantMissing: []string{"AZURE_CLIENT_ID", "AZURE_CLIENT_SECRET", "AZURE_TENANT_ID"},
		},
		{
			name:        "only secret missing",
			cfg:         AzureConfig{ClientID: "id", TenantID: "tenant"},
			wantMissing: []string{"AZURE_CLIENT_SECRET"},
		},
		{
			name:        "tenant and id missing keep order",
			cfg:         AzureConfig{ClientSecret: "secret"},
			wantMissing: []string{"AZURE_CLIENT_ID", "AZURE_TENANT_ID"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, missing := tt.cfg.Validate()
			if ok != tt.wantOK {
				t.Errorf("Validate() ok = %v, want %v", ok, tt.wantOK)
			}
			if !reflect.DeepEqual(missing, tt.wantMissing) {
				t.Errorf("Validate() missing = %v, want %v", missing, tt.wantMissing)
			}
		})
	}
}

func TestAzureConfig_Authority(t *testing.T) {
	cfg := AzureConfig{TenantID: "contoso"}
	cfg.Sanitize()
	if got := cfg.Authority(); got != "https://login.microsoftonline.com/contoso" {
		t.Fatalf("Authority() = %q", got)
	}
	if cfg.RedirectURI != DefaultRedirectURI {
		t.Fatalf("RedirectURI = %q, want default", cfg.RedirectURI)
	}
	if !reflect.DeepEqual(cfg.Scopes, []string{"User.Read"}) {
		t.Fatalf("Scopes = %v", cfg.Scopes)
	}

	cfg.AuthorityHost = "https://login.example.test/"
	cfg.Sanitize()
	if got := cfg.Authority(); got != "https://login.example.test/contoso" {
		t.Fatalf("Authority() = %q", got)
	}
}

func TestAppConfig_ParseAzureEnv(t *testing.T) {
	t.Setenv("AZURE_CLIENT_ID", "app-client")
	t.Setenv("AZURE_CLIENT_SECRET", "super-secret")
	t.Setenv("AZURE_TENANT_ID", "contoso")
	t.Setenv("REDIRECT_URI", "https://dash.example.com")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	expected := AzureConfig{
		ClientID:      "app-client",
		ClientSecret:  "super-secret",
		TenantID:      "contoso",
		RedirectURI:   "https://dash.example.com",
		AuthorityHost: DefaultAuthorityHost,
		Scopes:        []string{"User.Read"},
	}
	if !reflect.DeepEqual(cfg.Azure, expected) {
		t.Fatalf("unexpected azure configuration:\nexpected: %#v\ngot:      %#v", expected, cfg.Azure)
	}
}

func TestAppConfig_ParseAuthEnv(t *testing.T) {
	t.Setenv("AUTH_MODE", "mock")
	t.Setenv("AUTH_ROLES_CLAIM", "app_roles")
	t.Setenv("AUTH_CODE_TTL", "5m")
	t.Setenv("DEV_AUTH_NAME", "Alice")
	t.Setenv("DEV_AUTH_EMAIL", "alice@x.com")
	t.Setenv("DEV_AUTH_ROLES", "Superuser;User")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	expected := AuthConfig{
		Mode:            AuthModeMock,
		RolesClaim:      "app_roles",
		CodeTTL:         5 * time.Minute,
		ExchangeTimeout: 10 * time.Second,
		SessionMaxAge:   24 * time.Hour,
		DevAuth: DevAuthConfig{
			Name:     "Alice",
			Email:    "alice@x.com",
			ObjectID: "00000000-0000-0000-0000-000000000000",
			Roles:    []string{"Superuser", "User"},
		},
	}
	if !reflect.DeepEqual(cfg.Auth, expected) {
		t.Fatalf("unexpected auth configuration:\nexpected: %#v\ngot:      %#v", expected, cfg.Auth)
	}
}

func TestAuthMode_UnmarshalText(t *testing.T) {
	var m AuthMode
	if err := m.UnmarshalText([]byte("OAuth")); err != nil || m != AuthModeOAuth {
		t.Fatalf("UnmarshalText(OAuth) = %v, %v", m, err)
	}
	if err := m.UnmarshalText([]byte("saml")); err == nil {
		t.Fatalf("expected error for unsupported mode")
	}
}

func TestMergeEnvironment(t *testing.T) {
	fallback := map[string]string{
		"AZURE_CLIENT_ID":     "from-secrets",
		"AZURE_CLIENT_SECRET": "secret-from-secrets",
		"AZURE_TENANT_ID":     "",
	}
	environ := []string{
		"AZURE_CLIENT_ID=from-env",
		"AZURE_CLIENT_SECRET=",
		"PATH=/usr/bin",
		"MALFORMED",
	}

	got := MergeEnvironment(fallback, environ)

	want := map[string]string{
		"AZURE_CLIENT_ID":     "from-env",
		"AZURE_CLIENT_SECRET": "secret-from-secrets",
		"PATH":                "/usr/bin",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MergeEnvironment() = %#v, want %#v", got, want)
	}
}

func TestMergeEnvironment_DefaultsStillApply(t *testing.T) {
	var cfg AppConfig
	opts := env.Options{Environment: MergeEnvironment(nil, []string{"REDIRECT_URI="})}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()
	if cfg.Azure.RedirectURI != DefaultRedirectURI {
		t.Fatalf("RedirectURI = %q, want %q", cfg.Azure.RedirectURI, DefaultRedirectURI)
	}
	if cfg.Directory.CacheTTL != 5*time.Minute || cfg.Directory.DefaultLimit != 50 {
		t.Fatalf("unexpected directory defaults: %+v", cfg.Directory)
	}
}

func TestValidCookieDomain(t *testing.T) {
	tests := map[string]bool{
		"example.com":        true,
		".example.com":       true,
		"dash.example.co.uk": true,
		"localhost":          true,
		"com":                false,
		"co.uk":              false,
		"":                   false,
		"example.com:8080":   false,
	}
	for domain, want := range tests {
		if got := ValidCookieDomain(domain); got != want {
			t.Errorf("ValidCookieDomain(%q) = %v, want %v", domain, got, want)
		}
	}
}

func TestHTTPConfig_SanitizeDropsPublicSuffix(t *testing.T) {
	h := HTTPConfig{CookieDomain: "co.uk"}
	h.Sanitize()
	if h.CookieDomain != "" {
		t.Fatalf("CookieDomain = %q, want empty", h.CookieDomain)
	}
	if h.Addr != ":8501" {
		t.Fatalf("Addr = %q", h.Addr)
	}

	h = HTTPConfig{Addr: ":9000", CookieDomain: ".Example.com"}
	h.Sanitize()
	if h.CookieDomain != "example.com" {
		t.Fatalf("CookieDomain = %q", h.CookieDomain)
	}
}

func TestDirectoryConfig_Sanitize(t *testing.T) {
	d := DirectoryConfig{DefaultLimit: 5000, GraphBaseURL: "https://graph.example.test/v1.0/"}
	d.Sanitize()
	if d.DefaultLimit != 999 {
		t.Errorf("DefaultLimit = %d", d.DefaultLimit)
	}
	if d.CacheTTL != 5*time.Minute {
		t.Errorf("CacheTTL = %v", d.CacheTTL)
	}
	if d.GraphBaseURL != "https://graph.example.test/v1.0" {
		t.Errorf("GraphBaseURL = %q", d.GraphBaseURL)
	}
}

func TestObservabilityMetricsConfig_Sanitize(t *testing.T) {
	cfg := ObservabilityMetricsConfig{Enabled: true, StatsdAddress: "  "}
	cfg.Sanitize()
	if cfg.IsEnabled() {
		t.Fatalf("metrics should be disabled without an address")
	}
	if cfg.Prefix != "mmk_sso" {
		t.Fatalf("Prefix = %q", cfg.Prefix)
	}

	cfg = ObservabilityMetricsConfig{Enabled: true, StatsdAddress: " 127.0.0.1:8125 ", Prefix: "dash"}
	cfg.Sanitize()
	if !cfg.IsEnabled() || cfg.StatsdAddress != "127.0.0.1:8125" {
		t.Fatalf("unexpected metrics config: %+v", cfg)
	}
}

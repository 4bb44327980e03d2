package oidc

// Package oidc redeems Azure AD (Entra ID) authorization codes.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	domainauth "github.com/target/mmk-sso/internal/domain/auth"
	apperrors "github.com/target/mmk-sso/internal/errors"
	"github.com/target/mmk-sso/internal/ports"
	"golang.org/x/oauth2"
)

var _ ports.AuthProvider = (*Provider)(nil)

// DefaultExchangeTimeout bounds the token endpoint round-trip.
const DefaultExchangeTimeout = 10 * time.Second

// reservedScopes are always requested so the token response carries an id_token.
var reservedScopes = []string{gooidc.ScopeOpenID, "profile"}

// Provider implements ports.AuthProvider against the Microsoft identity platform v2.0 endpoints.
type Provider struct {
	config     *oauth2.Config
	httpClient *http.Client
	timeout    time.Duration
	verifier   *gooidc.IDTokenVerifier
	roles      ports.RoleSelector
	logger     *slog.Logger
}

// ProviderConfig holds configuration for the provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// Authority is the tenant authority, e.g. https://login.microsoftonline.com/{tenant}.
	Authority string
	// Issuer overrides the expected id_token issuer (default {Authority}/v2.0).
	Issuer string
	Scopes []string

	ExchangeTimeout time.Duration // default 10s
	HTTPClient      *http.Client  // Optional, defaults to a client bounded by ExchangeTimeout
	// KeySet verifies id_token signatures; defaults to the authority's JWKS endpoint.
	KeySet gooidc.KeySet
	// Roles selects role names from the verified claims; defaults to the "roles" claim.
	Roles  ports.RoleSelector
	Logger *slog.Logger
	// Now is used for token expiry checks in tests.
	Now func() time.Time
}

// Endpoints returns the authorize and token endpoints for an authority.
func Endpoints(authority string) oauth2.Endpoint {
	a := strings.TrimRight(authority, "/")
	return oauth2.Endpoint{
		AuthURL:   a + "/oauth2/v2.0/authorize",
		TokenURL:  a + "/oauth2/v2.0/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
}

// NewProvider creates a provider. It performs no network I/O: endpoints are
// derived from the authority and signing keys are fetched on first use.
func NewProvider(config ProviderConfig) (*Provider, error) {
	if config.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if config.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if config.RedirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	if config.Authority == "" {
		return nil, errors.New("authority is required")
	}

	authority := strings.TrimRight(config.Authority, "/")
	timeout := config.ExchangeTimeout
	if timeout <= 0 {
		timeout = DefaultExchangeTimeout
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	keyCtx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
	keySet := config.KeySet
	if keySet == nil {
		keySet = gooidc.NewRemoteKeySet(keyCtx, authority+"/discovery/v2.0/keys")
	}
	issuer := config.Issuer
	if issuer == "" {
		issuer = authority + "/v2.0"
	}

	roles := config.Roles
	if roles == nil {
		roles = claimRoles{}
	}

	return &Provider{
		config: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  config.RedirectURL,
			Scopes:       mergeScopes(config.Scopes),
			Endpoint:     Endpoints(authority),
		},
		httpClient: httpClient,
		timeout:    timeout,
		verifier: gooidc.NewVerifier(issuer, keySet, &gooidc.Config{
			ClientID: config.ClientID,
			Now:      config.Now,
		}),
		roles:  roles,
		logger: logger,
	}, nil
}

// LoginURL builds the authorization URL. It does not contact the provider.
func (p *Provider) LoginURL(_ context.Context) (string, error) {
	state, err := generateRandomString(32)
	if err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return p.config.AuthCodeURL(state), nil
}

// Exchange redeems code at the token endpoint and decodes the id_token claims.
func (p *Provider) Exchange(ctx context.Context, code string) (domainauth.Claims, error) {
	if strings.TrimSpace(code) == "" {
		return domainauth.Claims{}, apperrors.ValidationField("code", "authorization code is required")
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		mapped := apperrors.MapExchangeError(err)
		p.logger.ErrorContext(ctx, "authorization code exchange failed",
			"error_code", apperrors.GetCode(mapped), "error", mapped)
		return domainauth.Claims{}, mapped
	}
	if token.AccessToken == "" {
		p.logger.ErrorContext(ctx, "token response carried no access token")
		return domainauth.Claims{}, apperrors.New(apperrors.ErrCodeExchangeRejected, "token response missing access_token")
	}

	rawID, ok := getIDTokenFromToken(token)
	if !ok {
		p.logger.WarnContext(ctx, "token response carried no id_token; continuing with empty claims")
		return domainauth.Claims{}, nil
	}

	claims, err := p.decodeIDToken(ctx, rawID)
	if err != nil {
		p.logger.ErrorContext(ctx, "id_token rejected", "error", err)
		return domainauth.Claims{}, err
	}
	return claims, nil
}

// decodeIDToken verifies the token signature, audience, issuer and expiry and
// maps its payload onto Claims.
func (p *Provider) decodeIDToken(ctx context.Context, raw string) (domainauth.Claims, error) {
	idTok, err := p.verifier.Verify(ctx, raw)
	if err != nil {
		return domainauth.Claims{}, apperrors.Wrap(err, apperrors.ErrCodeExchangeDecode, "verify id_token")
	}
	var payload map[string]any
	if claimsErr := idTok.Claims(&payload); claimsErr != nil {
		return domainauth.Claims{}, apperrors.Wrap(claimsErr, apperrors.ErrCodeExchangeDecode, "parse id_token claims")
	}
	return mapClaims(payload, p.roles), nil
}

// mapClaims builds Claims from the raw payload, with roles chosen by sel.
func mapClaims(payload map[string]any, sel ports.RoleSelector) domainauth.Claims {
	c := domainauth.ClaimsFromMap(payload)
	c.Roles = sel.Select(payload)
	return c
}

// claimRoles reads the standard roles claim.
type claimRoles struct{}

func (claimRoles) Select(claims map[string]any) []string {
	roles := domainauth.NormalizeRoles(claims[domainauth.ClaimRoles])
	if roles == nil {
		return []string{}
	}
	return roles
}

// mergeScopes appends the reserved OpenID scopes to the configured ones.
func mergeScopes(configured []string) []string {
	out := make([]string, 0, len(configured)+len(reservedScopes))
	seen := make(map[string]bool, len(configured)+len(reservedScopes))
	for _, s := range append(append([]string(nil), configured...), reservedScopes...) {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// generateRandomString generates a cryptographically secure URL-safe random string of exact length.
func generateRandomString(length int) (string, error) {
	if length <= 0 {
		return "", nil
	}
	// Compute number of random bytes needed to produce at least 'length' base64 URL-safe chars
	nBytes := (length*3 + 3) / 4
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	return s[:length], nil
}

// getIDTokenFromToken extracts the id_token from oauth2.Token.
func getIDTokenFromToken(tok *oauth2.Token) (string, bool) {
	if tok == nil {
		return "", false
	}
	s, ok := tok.Extra("id_token").(string)
	return s, ok && s != ""
}

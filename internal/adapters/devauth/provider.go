package devauth

// Package devauth provides a simple, config-driven AuthProvider for local development.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"

	domainauth "github.com/target/mmk-sso/internal/domain/auth"
	apperrors "github.com/target/mmk-sso/internal/errors"
)

// DefaultCallbackPath is where the dev login URL sends the browser.
const DefaultCallbackPath = "/auth/callback"

// Config controls the dev auth provider behavior.
// Name and Email are required; Roles may be empty to exercise the no-role paths.
type Config struct {
	Name         string
	Email        string
	ObjectID     string
	Roles        []string
	CallbackPath string
}

// Provider implements ports.AuthProvider for local development.
// It short-circuits the OAuth flow by redirecting back to our own callback
// with a locally generated code. Exchange ignores the code value and returns
// the configured identity.
type Provider struct {
	claims       domainauth.Claims
	callbackPath string
}

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if strings.TrimSpace(cfg.Name) == "" {
		return nil, errors.New("dev auth: Name is required")
	}
	if strings.TrimSpace(cfg.Email) == "" {
		return nil, errors.New("dev auth: Email is required")
	}
	cb := cfg.CallbackPath
	if cb == "" {
		cb = DefaultCallbackPath
	}
	roles := make([]string, 0, len(cfg.Roles))
	for _, r := range cfg.Roles {
		if r = strings.TrimSpace(r); r != "" {
			roles = append(roles, r)
		}
	}
	return &Provider{
		claims: domainauth.Claims{
			Name:              cfg.Name,
			PreferredUsername: cfg.Email,
			Email:             cfg.Email,
			Subject:           cfg.ObjectID,
			ObjectID:          cfg.ObjectID,
			Roles:             roles,
		},
		callbackPath: cb,
	}, nil
}

// LoginURL returns a local callback URL carrying a fresh dev code.
func (p *Provider) LoginURL(_ context.Context) (string, error) {
	code, err := randomString(24)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	state, err := randomString(24)
	if err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	q := url.Values{}
	q.Set("code", "dev-"+code)
	q.Set("state", state)
	return p.callbackPath + "?" + q.Encode(), nil
}

// Exchange returns a copy of the configured identity for any non-empty code.
func (p *Provider) Exchange(_ context.Context, code string) (domainauth.Claims, error) {
	if strings.TrimSpace(code) == "" {
		return domainauth.Claims{}, apperrors.ValidationField("code", "authorization code is required")
	}
	return *p.claims.Clone(), nil
}

func randomString(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	b := make([]byte, (n*3+3)/4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	return s[:n], nil
}

package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	domainauth "github.com/target/mmk-sso/internal/domain/auth"
	"github.com/target/mmk-sso/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthProvider       = (*MockAuthProvider)(nil)
	_ ports.SessionPersistence = (*MemoryPersistence)(nil)
	_ ports.Sealer             = ReversibleSealer{}
	_ ports.RoleSelector       = StaticRoleSelector(nil)
)

// MockAuthProvider simulates an IdP for tests with deterministic login URLs.
type MockAuthProvider struct {
	LoginURLFunc func(ctx context.Context) (string, error)
	ExchangeFunc func(ctx context.Context, code string) (domainauth.Claims, error)

	// Deterministic values for predictable testing
	AuthURL     string
	DefaultUser domainauth.Claims

	mu        sync.Mutex
	loginHits int
	exchanged []string
}

// NewMockAuthProvider creates a MockAuthProvider with sensible defaults.
func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		AuthURL: "https://mock-idp/authorize",
		DefaultUser: domainauth.Claims{
			Name:              "Mock User",
			PreferredUsername: "mock.user@example.com",
			ObjectID:          "mock-oid-1",
			Roles:             []string{"User"},
		},
	}
}

func (m *MockAuthProvider) LoginURL(ctx context.Context) (string, error) {
	if m.LoginURLFunc != nil {
		return m.LoginURLFunc(ctx)
	}
	m.mu.Lock()
	m.loginHits++
	n := m.loginHits
	m.mu.Unlock()

	authURL := m.AuthURL
	if authURL == "" {
		authURL = "https://mock-idp/authorize"
	}
	return fmt.Sprintf("%s?state=state-%d", authURL, n), nil
}

func (m *MockAuthProvider) Exchange(ctx context.Context, code string) (domainauth.Claims, error) {
	m.mu.Lock()
	m.exchanged = append(m.exchanged, code)
	m.mu.Unlock()

	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, code)
	}
	return *m.DefaultUser.Clone(), nil
}

// Exchanged returns the codes handed to Exchange, in order.
func (m *MockAuthProvider) Exchanged() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.exchanged)
}

// CookieWrite records one Set call on MemoryPersistence.
type CookieWrite struct {
	Value  string
	MaxAge time.Duration
}

// MemoryPersistence is an in-memory cookie jar for unit tests.
type MemoryPersistence struct {
	Cookies map[string]string
	Writes  map[string]CookieWrite
	Deleted []string
}

// NewMemoryPersistence creates a jar pre-populated with cookies.
func NewMemoryPersistence(cookies map[string]string) *MemoryPersistence {
	c := make(map[string]string, len(cookies))
	for k, v := range cookies {
		c[k] = v
	}
	return &MemoryPersistence{Cookies: c, Writes: map[string]CookieWrite{}}
}

func (m *MemoryPersistence) Get(name string) (string, bool) {
	v, ok := m.Cookies[name]
	return v, ok
}

func (m *MemoryPersistence) Names() []string {
	names := make([]string, 0, len(m.Cookies))
	for k := range m.Cookies {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

func (m *MemoryPersistence) Set(name, value string, maxAge time.Duration) {
	if m.Cookies == nil {
		m.Cookies = map[string]string{}
	}
	if m.Writes == nil {
		m.Writes = map[string]CookieWrite{}
	}
	m.Cookies[name] = value
	m.Writes[name] = CookieWrite{Value: value, MaxAge: maxAge}
}

func (m *MemoryPersistence) Delete(name string) {
	delete(m.Cookies, name)
	m.Deleted = append(m.Deleted, name)
}

// ReversibleSealer base64-encodes values and rejects anything else.
type ReversibleSealer struct{}

func (ReversibleSealer) Seal(plaintext []byte) (string, error) {
	return base64.RawURLEncoding.EncodeToString(plaintext), nil
}

func (ReversibleSealer) Open(sealed string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(sealed)
}

// FailingSealer fails every operation with Err.
type FailingSealer struct{ Err error }

func (f FailingSealer) Seal([]byte) (string, error) { return "", f.err() }

func (f FailingSealer) Open(string) ([]byte, error) { return nil, f.err() }

func (f FailingSealer) err() error {
	if f.Err != nil {
		return f.Err
	}
	return errors.New("sealer failure")
}

// StaticRoleSelector returns the same roles for any claims.
type StaticRoleSelector []string

func (s StaticRoleSelector) Select(map[string]any) []string {
	return append([]string{}, s...)
}

package devauth

import (
	"context"
	"net/url"
	"strings"
	"testing"

	apperrors "github.com/target/mmk-sso/internal/errors"
)

func TestProvider_LoginURLAndExchange(t *testing.T) {
	prov, err := NewProvider(Config{
		Name:     "Dev User",
		Email:    "dev@example.com",
		ObjectID: "00000000-0000-0000-0000-000000000000",
		Roles:    []string{"Admin", " ", "User"},
	})
	if err != nil {
		t.Fatalf("NewProvider error: %v", err)
	}
	raw, err := prov.LoginURL(context.Background())
	if err != nil {
		t.Fatalf("LoginURL error: %v", err)
	}
	if !strings.HasPrefix(raw, "/auth/callback?") {
		t.Fatalf("unexpected login URL: %s", raw)
	}
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse login URL: %v", err)
	}
	code := u.Query().Get("code")
	if !strings.HasPrefix(code, "dev-") || u.Query().Get("state") == "" {
		t.Fatalf("login URL should carry a dev code and state: %s", raw)
	}

	claims, err := prov.Exchange(context.Background(), code)
	if err != nil {
		t.Fatalf("Exchange error: %v", err)
	}
	if claims.Name != "Dev User" || claims.PreferredUsername != "dev@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if len(claims.Roles) != 2 || claims.Roles[0] != "Admin" || claims.Roles[1] != "User" {
		t.Fatalf("unexpected roles: %v", claims.Roles)
	}

	// Callers must not be able to mutate the configured identity.
	claims.Roles[0] = "Guest"
	again, _ := prov.Exchange(context.Background(), code)
	if again.Roles[0] != "Admin" {
		t.Fatalf("configured roles were mutated: %v", again.Roles)
	}
}

func TestProvider_LoginURLIsFresh(t *testing.T) {
	prov, err := NewProvider(Config{Name: "Dev", Email: "dev@example.com", CallbackPath: "/"})
	if err != nil {
		t.Fatalf("NewProvider error: %v", err)
	}
	a, _ := prov.LoginURL(context.Background())
	b, _ := prov.LoginURL(context.Background())
	if a == b {
		t.Fatal("each login URL should carry a new code")
	}
	if !strings.HasPrefix(a, "/?code=") {
		t.Fatalf("callback path not honoured: %s", a)
	}
}

func TestProvider_ExchangeRequiresCode(t *testing.T) {
	prov, err := NewProvider(Config{Name: "Dev", Email: "dev@example.com"})
	if err != nil {
		t.Fatalf("NewProvider error: %v", err)
	}
	_, err = prov.Exchange(context.Background(), "")
	if !apperrors.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNewProvider_Validation(t *testing.T) {
	if _, err := NewProvider(Config{Email: "dev@example.com"}); err == nil {
		t.Fatal("expected error for missing name")
	}
	if _, err := NewProvider(Config{Name: "Dev"}); err == nil {
		t.Fatal("expected error for missing email")
	}
}

func TestRandomString(t *testing.T) {
	for _, n := range []int{0, 1, 5, 24} {
		s, err := randomString(n)
		if err != nil {
			t.Fatalf("randomString(%d) error: %v", n, err)
		}
		if len(s) != n {
			t.Fatalf("randomString(%d) length = %d", n, len(s))
		}
	}
}

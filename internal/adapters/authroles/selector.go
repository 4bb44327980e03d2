package authroles

// Package authroles selects application roles from provider claims.

import (
	"fmt"
	"log/slog"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"
	domainauth "github.com/target/mmk-sso/internal/domain/auth"
	"github.com/target/mmk-sso/internal/ports"
)

var _ ports.RoleSelector = (*Selector)(nil)

// DefaultExpression selects the standard app-roles claim.
const DefaultExpression = domainauth.ClaimRoles

// Selector evaluates a JMESPath expression against the raw id_token claims.
// The result is normalised the same way as the standard roles claim: a string
// becomes a one-element list, non-string list elements are dropped and any
// other shape means no roles.
type Selector struct {
	expr   string
	logger *slog.Logger
}

// NewSelector compiles expr once to reject invalid expressions at startup.
func NewSelector(expr string, logger *slog.Logger) (*Selector, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		expr = DefaultExpression
	}
	if _, err := jmespath.Compile(expr); err != nil {
		return nil, fmt.Errorf("compile roles claim expression %q: %w", expr, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{expr: expr, logger: logger}, nil
}

// Expression returns the configured expression.
func (s *Selector) Expression() string { return s.expr }

// Select returns the role names found in claims, never nil.
func (s *Selector) Select(claims map[string]any) []string {
	if len(claims) == 0 {
		return []string{}
	}
	v, err := jmespath.Search(s.expr, claims)
	if err != nil {
		s.logger.Warn("roles claim expression failed", "expression", s.expr, "error", err)
		return []string{}
	}
	roles := domainauth.NormalizeRoles(v)
	if roles == nil {
		return []string{}
	}
	return roles
}

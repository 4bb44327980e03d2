package auth

// SessionState describes where a visitor is in the login lifecycle.
type SessionState string

const (
	StateAnonymous      SessionState = "anonymous"
	StateAuthenticating SessionState = "authenticating"
	StateAuthenticated  SessionState = "authenticated"
)

// Session is the per-request view of a visitor's identity.
// It is created anonymous at request start, rehydrated from persisted cookies
// and mutated only by the session store.
type Session struct {
	Authenticated bool
	Claims        *Claims
	// AuthCodeConsumed is set once an authorization code has been handed to the
	// provider during this request so the same code is never exchanged twice.
	AuthCodeConsumed bool
}

// NewSession returns an anonymous session.
func NewSession() *Session { return &Session{} }

// Reset returns s to anonymous defaults.
func (s *Session) Reset() {
	s.Authenticated = false
	s.Claims = nil
	s.AuthCodeConsumed = false
}

// State derives the lifecycle state.
func (s *Session) State() SessionState {
	switch {
	case s == nil:
		return StateAnonymous
	case s.Authenticated:
		return StateAuthenticated
	case s.AuthCodeConsumed:
		return StateAuthenticating
	default:
		return StateAnonymous
	}
}

// IsAuthenticated is nil-safe.
func (s *Session) IsAuthenticated() bool { return s != nil && s.Authenticated }

// Roles returns the roles asserted for the current login, or none when anonymous.
func (s *Session) Roles() []string {
	if !s.IsAuthenticated() {
		return []string{}
	}
	return ExtractRoles(s.Claims)
}

// HighestRole returns the caller's most privileged recognised role.
func (s *Session) HighestRole() (Role, bool) { return HighestRole(s.Roles()) }

// HasPermission reports whether the caller holds p.
func (s *Session) HasPermission(p Permission) bool { return HasPermission(s.Roles(), p) }

// HasAnyRole reports whether the caller holds one of roles.
func (s *Session) HasAnyRole(roles ...Role) bool { return HasAnyRole(s.Roles(), roles...) }

// AccessiblePages returns the caller's page map; anonymous visitors only see Home.
func (s *Session) AccessiblePages() map[Page]bool {
	if !s.IsAuthenticated() {
		return map[Page]bool{PageHome: true, PageAnalytics: false, PageSettings: false, PageUsers: false}
	}
	return AccessiblePages(s.Roles())
}

// UserInfo returns the claims for an authenticated session, nil otherwise.
func (s *Session) UserInfo() *Claims {
	if !s.IsAuthenticated() {
		return nil
	}
	return s.Claims
}

package auth

// DecisionState is the outcome of checking a Requirement against a Session.
type DecisionState int

const (
	DecisionUnauthenticated DecisionState = iota
	DecisionUnauthorized
	DecisionAuthorized
)

func (d DecisionState) String() string {
	switch d {
	case DecisionUnauthenticated:
		return "unauthenticated"
	case DecisionUnauthorized:
		return "unauthorized"
	case DecisionAuthorized:
		return "authorized"
	default:
		return "unknown"
	}
}

// Requirement describes what a protected page needs. An empty Requirement
// only requires authentication. Roles are satisfied by any one of them;
// Permissions must all be held.
type Requirement struct {
	Roles       []Role
	Permissions []Permission
}

// Decision captures why access was granted or refused, with enough detail to
// render a denial view.
type Decision struct {
	State              DecisionState
	RequiredRoles      []Role
	MissingPermissions []Permission
	CurrentRoles       []string
	HighestRole        Role
}

// Allowed reports whether the page body may run.
func (d Decision) Allowed() bool { return d.State == DecisionAuthorized }

// Authorize evaluates req against sess. Authentication is always checked first.
func Authorize(sess *Session, req Requirement) Decision {
	if !sess.IsAuthenticated() {
		return Decision{State: DecisionUnauthenticated}
	}

	roles := sess.Roles()
	d := Decision{State: DecisionAuthorized, CurrentRoles: roles}
	if hr, ok := HighestRole(roles); ok {
		d.HighestRole = hr
	}

	if len(req.Roles) > 0 && !HasAnyRole(roles, req.Roles...) {
		d.State = DecisionUnauthorized
		d.RequiredRoles = append([]Role(nil), req.Roles...)
		return d
	}

	if missing := MissingPermissions(roles, req.Permissions...); len(missing) > 0 {
		d.State = DecisionUnauthorized
		d.MissingPermissions = missing
	}
	return d
}

package auth

import "slices"

// rolePermissions is the fixed role to permission table.
var rolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionViewAnalytics,
		PermissionViewSettings,
		PermissionManageUsers,
		PermissionEditSettings,
	},
	RoleSuperuser: {
		PermissionViewAnalytics,
		PermissionViewSettings,
		PermissionEditSettings,
	},
	RoleUser: {
		PermissionViewAnalytics,
	},
}

// pagePermissions maps gated pages to the permission that unlocks them.
// PageHome is absent on purpose: it is always reachable.
var pagePermissions = map[Page]Permission{
	PageAnalytics: PermissionViewAnalytics,
	PageSettings:  PermissionViewSettings,
	PageUsers:     PermissionManageUsers,
}

// ExtractRoles returns the role names carried by claims, in provider order.
// Missing claims or a missing roles claim yield an empty slice.
func ExtractRoles(c *Claims) []string {
	if c == nil || len(c.Roles) == 0 {
		return []string{}
	}
	return append([]string{}, c.Roles...)
}

// HighestRole returns the most privileged recognised role in roles.
func HighestRole(roles []string) (Role, bool) {
	for _, r := range rolePriority {
		if slices.Contains(roles, string(r)) {
			return r, true
		}
	}
	return "", false
}

// HasRole reports whether roles contains target.
func HasRole(roles []string, target Role) bool {
	return slices.Contains(roles, string(target))
}

// HasAnyRole reports whether roles contains at least one of targets.
func HasAnyRole(roles []string, targets ...Role) bool {
	for _, t := range targets {
		if HasRole(roles, t) {
			return true
		}
	}
	return false
}

// PermissionsOf returns the permissions granted to a single role.
func PermissionsOf(r Role) []Permission {
	return append([]Permission(nil), rolePermissions[r]...)
}

// UnknownRoles returns the role names that match no Role, in input order.
// Callers report them once where roles enter a session.
func UnknownRoles(roles []string) []string {
	var unknown []string
	for _, name := range roles {
		if _, ok := ParseRole(name); !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// HasPermission reports whether any recognised role in roles grants p.
// Unrecognised role names are skipped.
func HasPermission(roles []string, p Permission) bool {
	for _, name := range roles {
		r, ok := ParseRole(name)
		if !ok {
			continue
		}
		if slices.Contains(rolePermissions[r], p) {
			return true
		}
	}
	return false
}

// MissingPermissions returns the subset of required that roles do not grant,
// in the order requested.
func MissingPermissions(roles []string, required ...Permission) []Permission {
	var missing []Permission
	for _, p := range required {
		if !HasPermission(roles, p) {
			missing = append(missing, p)
		}
	}
	return missing
}

// PermissionsFor returns the union of permissions granted by roles, in
// AllPermissions order.
func PermissionsFor(roles []string) []Permission {
	out := make([]Permission, 0, len(rolePermissions[RoleAdmin]))
	for _, p := range AllPermissions() {
		if HasPermission(roles, p) {
			out = append(out, p)
		}
	}
	return out
}

// AccessiblePages maps each dashboard page to whether roles may open it.
func AccessiblePages(roles []string) map[Page]bool {
	pages := make(map[Page]bool, len(pagePermissions)+1)
	for _, page := range AllPages() {
		pages[page] = CanAccessPage(roles, page)
	}
	return pages
}

// CanAccessPage reports whether roles may open page.
func CanAccessPage(roles []string, page Page) bool {
	perm, gated := pagePermissions[page]
	if !gated {
		return page == PageHome
	}
	return HasPermission(roles, perm)
}

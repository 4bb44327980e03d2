package auth

// Package auth contains domain-level types for authentication, sessions and RBAC.
// It is pure and free of framework/adapter concerns.

// Role represents an application role asserted by the identity provider
// through the "roles" claim. The string form is the canonical spelling
// configured as an app role in Azure AD and is matched case-sensitively.
type Role string

const (
	RoleAdmin     Role = "Admin"
	RoleSuperuser Role = "Superuser"
	RoleUser      Role = "User"
)

// rolePriority lists roles from most to least privileged.
var rolePriority = []Role{RoleAdmin, RoleSuperuser, RoleUser}

// AllRoles returns every known role ordered by privilege (highest first).
func AllRoles() []Role {
	return append([]Role(nil), rolePriority...)
}

// ParseRole matches s against the canonical role spellings.
func ParseRole(s string) (Role, bool) {
	for _, r := range rolePriority {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

func (r Role) String() string { return string(r) }

// Permission is a capability granted to one or more roles.
type Permission string

const (
	PermissionViewAnalytics Permission = "view_analytics"
	PermissionViewSettings  Permission = "view_settings"
	PermissionManageUsers   Permission = "manage_users"
	PermissionEditSettings  Permission = "edit_settings"
)

// AllPermissions returns every known permission in declaration order.
func AllPermissions() []Permission {
	return []Permission{
		PermissionViewAnalytics,
		PermissionViewSettings,
		PermissionManageUsers,
		PermissionEditSettings,
	}
}

func (p Permission) String() string { return string(p) }

// Page names a top-level dashboard page.
type Page string

const (
	PageHome      Page = "Home"
	PageAnalytics Page = "Analytics"
	PageSettings  Page = "Settings"
	PageUsers     Page = "Users"
)

// AllPages returns the dashboard pages in navigation order.
func AllPages() []Page {
	return []Page{PageHome, PageAnalytics, PageSettings, PageUsers}
}

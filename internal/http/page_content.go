package httpx

import (
	"fmt"
	"net/url"
	"slices"
	"sort"

	domainauth "github.com/target/mmk-sso/internal/domain/auth"
	apperrors "github.com/target/mmk-sso/internal/errors"
)

// Stat is a headline figure with an optional change indicator.
type Stat struct {
	Label string
	Value string
	Delta string
	Help  string
	// Inverse marks deltas where a decrease is good news.
	Inverse bool
}

// Feature is one tile on the sign-in page.
type Feature struct {
	Icon, Title, Text string
}

// TrafficSource is one bar of the traffic chart.
type TrafficSource struct {
	Source   string
	Visitors int
	// Percent of the largest source, for bar widths.
	Percent int
}

// ActivityRow is one line of the recent activity table.
type ActivityRow struct {
	User, Action, Status, When string
}

// Insight is a highlighted observation on the analytics page.
type Insight struct {
	Title, Text, Advice string
	Warning             bool
}

// ConnectedService is a third-party integration listed on the settings page.
type ConnectedService struct {
	Name      string
	Connected bool
}

// RoleDefinition describes a role and what it grants.
type RoleDefinition struct {
	Role        string
	Description string
	Permissions []string
}

//nolint:gochecknoglobals // static demo content
var (
	loginFeatures = []Feature{
		{Icon: "🔒", Title: "Secure", Text: "Azure AD SSO authentication with secure session management"},
		{Icon: "📄", Title: "Multipage", Text: "Multiple pages with authentication protection"},
		{Icon: "🚀", Title: "Ready", Text: "Production-ready with logging and monitoring"},
	}

	dashboardStats = []Stat{
		{Label: "Pages", Value: "3", Help: "Total pages in this app"},
		{Label: "Status", Value: "Active", Help: "Current session status"},
		{Label: "Session", Value: "24h", Help: "Session duration"},
		{Label: "Security", Value: "High", Help: "Security level"},
	}

	analyticsKPIs = []Stat{
		{Label: "Total Users", Value: "1,234", Delta: "+12%", Help: "Total registered users"},
		{Label: "Active Sessions", Value: "456", Delta: "-5%", Help: "Currently active sessions", Inverse: true},
		{Label: "Revenue", Value: "$45.2K", Delta: "+23%", Help: "Monthly revenue"},
		{Label: "Conversion Rate", Value: "3.2%", Delta: "+0.5%", Help: "User conversion rate"},
	}

	analyticsTraffic = trafficWithPercent([]TrafficSource{
		{Source: "Organic", Visitors: 450},
		{Source: "Direct", Visitors: 320},
		{Source: "Referral", Visitors: 180},
		{Source: "Social", Visitors: 150},
		{Source: "Email", Visitors: 90},
	})

	analyticsActivity = []ActivityRow{
		{User: "User1", Action: "Login", Status: "Success", When: "1 hour ago"},
		{User: "User2", Action: "View Page", Status: "Success", When: "2 hours ago"},
		{User: "User3", Action: "Download", Status: "Success", When: "3 hours ago"},
		{User: "User4", Action: "Update Profile", Status: "Failed", When: "4 hours ago"},
		{User: "User5", Action: "Login", Status: "Success", When: "5 hours ago"},
		{User: "User6", Action: "View Page", Status: "Success", When: "6 hours ago"},
	}

	analyticsInsights = []Insight{
		{
			Title:  "Peak Activity Time",
			Text:   "Most users are active between 2 PM - 4 PM",
			Advice: "Consider scheduling updates during off-peak hours.",
		},
		{
			Title:   "Attention Required",
			Text:    "Bounce rate increased by 8% this week",
			Advice:  "Review landing page optimization.",
			Warning: true,
		},
	}

	connectedServices = []ConnectedService{
		{Name: "Microsoft Teams", Connected: true},
		{Name: "Slack", Connected: false},
		{Name: "GitHub", Connected: true},
	}

	permissionLabels = map[domainauth.Permission]string{
		domainauth.PermissionViewAnalytics: "View Analytics",
		domainauth.PermissionViewSettings:  "View Settings",
		domainauth.PermissionManageUsers:   "Manage Users",
		domainauth.PermissionEditSettings:  "Edit Settings",
	}

	roleDescriptions = map[domainauth.Role]string{
		domainauth.RoleAdmin:     "Full system access including user management",
		domainauth.RoleSuperuser: "Access to all features except user management",
		domainauth.RoleUser:      "Standard user with limited access",
	}
)

const (
	maskedAPIKey = "sk_live_••••••••••••••••1234"

	sampleEnv = `AZURE_CLIENT_ID=your_actual_client_id
AZURE_CLIENT_SECRET=your_actual_client_secret
AZURE_TENANT_ID=your_actual_tenant_id
REDIRECT_URI=http://localhost:8501`
)

func trafficWithPercent(rows []TrafficSource) []TrafficSource {
	maxVisitors := 0
	for _, r := range rows {
		maxVisitors = max(maxVisitors, r.Visitors)
	}
	for i := range rows {
		if maxVisitors > 0 {
			rows[i].Percent = rows[i].Visitors * 100 / maxVisitors
		}
	}
	return rows
}

// roleDefinitions derives the role table from the permission matrix.
func roleDefinitions() []RoleDefinition {
	defs := make([]RoleDefinition, 0, len(domainauth.AllRoles()))
	for _, role := range domainauth.AllRoles() {
		perms := domainauth.PermissionsOf(role)
		labels := make([]string, 0, len(perms))
		for _, p := range perms {
			labels = append(labels, permissionLabels[p])
		}
		defs = append(defs, RoleDefinition{
			Role:        string(role),
			Description: roleDescriptions[role],
			Permissions: labels,
		})
	}
	return defs
}

// SettingsForm holds the demo preferences. Nothing is persisted.
type SettingsForm struct {
	Theme           string
	Language        string
	Density         string
	ExpandSidebar   bool
	EmailUpdates    bool
	EmailSecurity   bool
	EmailNewsletter bool
	PushMentions    bool
	PushUpdates     bool
	PushTips        bool
	ShareAnalytics  bool
	DebugMode       bool
}

// SettingsOptions lists the allowed select values.
type SettingsOptions struct {
	Themes    []string
	Languages []string
	Densities []string
}

//nolint:gochecknoglobals // static read-only lookup
var settingsOptions = SettingsOptions{
	Themes:    []string{"Light", "Dark", "Auto"},
	Languages: []string{"English", "French", "Spanish", "German"},
	Densities: []string{"Comfortable", "Compact", "Spacious"},
}

func defaultSettings() SettingsForm {
	return SettingsForm{
		Theme:          "Light",
		Language:       "English",
		Density:        "Comfortable",
		ExpandSidebar:  true,
		EmailUpdates:   true,
		EmailSecurity:  true,
		PushMentions:   true,
		PushUpdates:    true,
		ShareAnalytics: true,
	}
}

// parseSettingsForm reads a submitted settings form. The returned form is
// usable for re-rendering even when validation fails.
func parseSettingsForm(v url.Values) (SettingsForm, error) {
	f := SettingsForm{
		Theme:           v.Get("theme"),
		Language:        v.Get("language"),
		Density:         v.Get("density"),
		ExpandSidebar:   checkbox(v, "expand_sidebar"),
		EmailUpdates:    checkbox(v, "email_updates"),
		EmailSecurity:   checkbox(v, "email_security"),
		EmailNewsletter: checkbox(v, "email_newsletter"),
		PushMentions:    checkbox(v, "push_mentions"),
		PushUpdates:     checkbox(v, "push_updates"),
		PushTips:        checkbox(v, "push_tips"),
		ShareAnalytics:  checkbox(v, "share_analytics"),
		DebugMode:       checkbox(v, "debug_mode"),
	}

	checks := []struct {
		field, value string
		allowed      []string
	}{
		{"theme", f.Theme, settingsOptions.Themes},
		{"language", f.Language, settingsOptions.Languages},
		{"density", f.Density, settingsOptions.Densities},
	}
	for _, c := range checks {
		if !slices.Contains(c.allowed, c.value) {
			return f, apperrors.ValidationField(c.field, fmt.Sprintf("invalid %s %q", c.field, c.value))
		}
	}
	return f, nil
}

func checkbox(v url.Values, name string) bool {
	switch v.Get(name) {
	case "on", "true", "1":
		return true
	default:
		return false
	}
}

// debugState is the session summary shown with debug mode on.
func debugState(sess *domainauth.Session) map[string]any {
	keys := []string{}
	if claims := sess.UserInfo(); claims != nil {
		for k := range claims.ToMap() {
			keys = append(keys, k)
		}
		sort.Strings(keys)
	}
	return map[string]any{
		"authenticated":  sess.IsAuthenticated(),
		"user_info_keys": keys,
	}
}

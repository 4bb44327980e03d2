// Package directory holds the user directory model shown to administrators.
package directory

// User is one entry of the organisation's user directory.
type User struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	Mail              string `json:"mail"`
	UserPrincipalName string `json:"userPrincipalName"`
	AccountEnabled    bool   `json:"accountEnabled"`
}

// Email returns the mail address, falling back to the principal name.
func (u User) Email() string {
	if u.Mail != "" {
		return u.Mail
	}
	return u.UserPrincipalName
}

// Status renders the account state for listings.
func (u User) Status() string {
	if u.AccountEnabled {
		return "Active"
	}
	return "Inactive"
}

// PlaceholderUsers is shown when no directory listing is available.
func PlaceholderUsers() []User {
	return []User{
		{ID: "placeholder-1", DisplayName: "Alice Johnson", Mail: "alice.johnson@company.com", AccountEnabled: true},
		{ID: "placeholder-2", DisplayName: "Bob Smith", Mail: "bob.smith@company.com", AccountEnabled: true},
		{ID: "placeholder-3", DisplayName: "Carol Williams", Mail: "carol.williams@company.com", AccountEnabled: true},
		{ID: "placeholder-4", DisplayName: "David Brown", Mail: "david.brown@company.com", AccountEnabled: true},
		{ID: "placeholder-5", DisplayName: "Eve Davis", Mail: "eve.davis@company.com", AccountEnabled: true},
		{ID: "placeholder-6", DisplayName: "Frank Miller", Mail: "frank.miller@company.com", AccountEnabled: false},
	}
}

package auth

import (
	"encoding/json"
	"maps"
)

// Claim names mapped onto named Claims fields.
const (
	ClaimName              = "name"
	ClaimPreferredUsername = "preferred_username"
	ClaimEmail             = "email"
	ClaimSubject           = "sub"
	ClaimObjectID          = "oid"
	ClaimTenantID          = "tid"
	ClaimRoles             = "roles"
)

// Claims is the decoded identity asserted by the IdP for one login.
// Provider specific claims that have no named field are kept in Extra so that
// the JSON form round-trips unchanged.
type Claims struct {
	Name              string
	PreferredUsername string
	Email             string
	Subject           string
	ObjectID          string
	TenantID          string
	Roles             []string
	Extra             map[string]any
}

// DisplayName returns the user's name or "User" when the IdP sent none.
func (c *Claims) DisplayName() string {
	if c == nil || c.Name == "" {
		return "User"
	}
	return c.Name
}

// Username returns the preferred_username, falling back to email.
func (c *Claims) Username() string {
	if c == nil {
		return ""
	}
	if c.PreferredUsername != "" {
		return c.PreferredUsername
	}
	return c.Email
}

// Clone returns a deep copy of c.
func (c *Claims) Clone() *Claims {
	if c == nil {
		return nil
	}
	out := *c
	if c.Roles != nil {
		out.Roles = append([]string{}, c.Roles...)
	}
	if c.Extra != nil {
		out.Extra = maps.Clone(c.Extra)
	}
	return &out
}

// ToMap flattens c back into a claims object. A named field that is empty
// leaves any value held under the same key in Extra in place.
func (c *Claims) ToMap() map[string]any {
	m := make(map[string]any, len(c.Extra)+7)
	maps.Copy(m, c.Extra)
	setIfNotEmpty(m, ClaimName, c.Name)
	setIfNotEmpty(m, ClaimPreferredUsername, c.PreferredUsername)
	setIfNotEmpty(m, ClaimEmail, c.Email)
	setIfNotEmpty(m, ClaimSubject, c.Subject)
	setIfNotEmpty(m, ClaimObjectID, c.ObjectID)
	setIfNotEmpty(m, ClaimTenantID, c.TenantID)
	if c.Roles != nil {
		m[ClaimRoles] = c.Roles
	} else {
		delete(m, ClaimRoles)
	}
	return m
}

func setIfNotEmpty(m map[string]any, key, val string) {
	if val != "" {
		m[key] = val
	}
}

// MarshalJSON encodes c as a flat claims object.
func (c Claims) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.ToMap())
}

// UnmarshalJSON decodes a flat claims object, normalising the roles claim.
func (c *Claims) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = ClaimsFromMap(raw)
	return nil
}

// ClaimsFromMap builds Claims from a raw claims object such as a decoded id_token.
// Named claims with an unexpected type stay in Extra instead of being dropped.
func ClaimsFromMap(raw map[string]any) Claims {
	var c Claims
	extra := make(map[string]any, len(raw))
	for k, v := range raw {
		if k == ClaimRoles {
			c.Roles = NormalizeRoles(v)
			continue
		}
		s, isString := v.(string)
		if !isString || !assignNamed(&c, k, s) {
			extra[k] = v
		}
	}
	if len(extra) > 0 {
		c.Extra = extra
	}
	return c
}

func assignNamed(c *Claims, key, val string) bool {
	switch key {
	case ClaimName:
		c.Name = val
	case ClaimPreferredUsername:
		c.PreferredUsername = val
	case ClaimEmail:
		c.Email = val
	case ClaimSubject:
		c.Subject = val
	case ClaimObjectID:
		c.ObjectID = val
	case ClaimTenantID:
		c.TenantID = val
	default:
		return false
	}
	return true
}

// NormalizeRoles turns a raw roles claim value into a role-name slice.
// nil yields nil, a scalar string becomes a one-element slice (empty string
// yields an empty slice) and arrays keep their order. Non-string elements and
// other value types are treated as "no roles".
func NormalizeRoles(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if t == "" {
			return []string{}
		}
		return []string{t}
	case []string:
		return append([]string{}, t...)
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

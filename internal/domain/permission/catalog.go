package permission

import (
	"fmt"
	"sort"
)

// WildcardGrant in a role's permission list expands to every catalog permission.
const WildcardGrant = "*"

// PermissionSpec is one permission entry of a seed catalog.
type PermissionSpec struct {
	Resource    string
	Action      string
	Description string
}

func (p PermissionSpec) Code() string {
	return FormatCode(p.Resource, p.Action)
}

// RoleSpec is one role entry of a seed catalog. Permissions holds
// "resource:action" codes or the wildcard.
type RoleSpec struct {
	Name        string
	Description string
	IsSystem    bool
	Permissions []string
}

// Catalog is the fixed set of permissions, roles and bindings seeded at
// migration time.
type Catalog struct {
	Permissions []PermissionSpec
	Roles       []RoleSpec
}

// Validate checks that codes are unique and that every role binding names
// a catalog permission.
func (c *Catalog) Validate() error {
	codes := make(map[string]struct{}, len(c.Permissions))
	for _, p := range c.Permissions {
		if _, err := NewPermission(p.Resource, p.Action, p.Description); err != nil {
			return fmt.Errorf("catalog permission %s: %w", p.Code(), err)
		}
		if _, dup := codes[p.Code()]; dup {
			return fmt.Errorf("catalog permission %s listed twice", p.Code())
		}
		codes[p.Code()] = struct{}{}
	}

	names := make(map[string]struct{}, len(c.Roles))
	for _, r := range c.Roles {
		if _, err := NewRole(r.Name, r.Description, r.IsSystem); err != nil {
			return fmt.Errorf("catalog role %s: %w", r.Name, err)
		}
		if _, dup := names[r.Name]; dup {
			return fmt.Errorf("catalog role %s listed twice", r.Name)
		}
		names[r.Name] = struct{}{}

		for _, code := range r.Permissions {
			if code == WildcardGrant {
				continue
			}
			if _, ok := codes[code]; !ok {
				return fmt.Errorf("catalog role %s references unknown permission %s", r.Name, code)
			}
		}
	}
	return nil
}

// ExpandGrants resolves a role's permission list into sorted, distinct codes.
func (c *Catalog) ExpandGrants(role RoleSpec) []string {
	seen := make(map[string]struct{})
	for _, code := range role.Permissions {
		if code == WildcardGrant {
			for _, p := range c.Permissions {
				seen[p.Code()] = struct{}{}
			}
			continue
		}
		seen[code] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for code := range seen {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Package authorization names the roles the platform itself relies on.
// Their permission sets live in the RBAC catalog; only the names are fixed here.
package authorization

type SystemRole string

const (
	// RoleSuperAdmin grants every permission and, held system-wide,
	// overrides permission and tenant checks in middleware.
	RoleSuperAdmin SystemRole = "super_admin"
	// RoleTenantAdmin manages users, metrics and role assignments within one tenant.
	RoleTenantAdmin SystemRole = "tenant_admin"
	// RoleTenantUser has read access within one tenant.
	RoleTenantUser SystemRole = "tenant_user"
)

func (r SystemRole) String() string {
	return string(r)
}

func (r SystemRole) IsValid() bool {
	return r == RoleSuperAdmin || r == RoleTenantAdmin || r == RoleTenantUser
}

// IsSystemRoleName reports whether name is one of the built-in roles.
func IsSystemRoleName(name string) bool {
	return SystemRole(name).IsValid()
}

// ContainsRole checks a role-name list, such as token claims, for target.
// Claims are informational; authorization decisions consult the ledger.
func ContainsRole(roles []string, target SystemRole) bool {
	for _, role := range roles {
		if role == string(target) {
			return true
		}
	}
	return false
}

package valueobjects

import "strconv"

// TenantScope is the tenant an assignment applies to. The zero value is the
// system-wide scope, which applies in every tenant. Being a plain value, the
// system-wide scope compares equal to itself, so (user, role, system-wide)
// is unique like any other scope.
type TenantScope struct {
	tenantID uint
}

// SystemWide returns the scope that matches every tenant.
func SystemWide() TenantScope {
	return TenantScope{}
}

// ForTenant returns the scope of a single tenant. A zero id yields the
// system-wide scope.
func ForTenant(tenantID uint) TenantScope {
	return TenantScope{tenantID: tenantID}
}

// ScopeFromPtr maps an optional tenant id onto a scope; nil is system-wide.
func ScopeFromPtr(tenantID *uint) TenantScope {
	if tenantID == nil {
		return SystemWide()
	}
	return ForTenant(*tenantID)
}

func (s TenantScope) IsSystemWide() bool {
	return s.tenantID == 0
}

// TenantID returns the tenant id, or nil for the system-wide scope.
func (s TenantScope) TenantID() *uint {
	if s.IsSystemWide() {
		return nil
	}
	id := s.tenantID
	return &id
}

// Value is the stored column value; 0 encodes system-wide.
func (s TenantScope) Value() uint {
	return s.tenantID
}

// Covers reports whether an assignment in this scope applies when the
// request targets requested. System-wide assignments cover everything;
// tenant assignments only cover their own tenant.
func (s TenantScope) Covers(requested TenantScope) bool {
	return s.IsSystemWide() || s.tenantID == requested.tenantID
}

// CandidateScopes lists the stored scope values that can satisfy a check
// against requested: the tenant itself and the system-wide scope.
func CandidateScopes(requested TenantScope) []uint {
	if requested.IsSystemWide() {
		return []uint{0}
	}
	return []uint{requested.tenantID, 0}
}

func (s TenantScope) String() string {
	if s.IsSystemWide() {
		return "system"
	}
	return strconv.FormatUint(uint64(s.tenantID), 10)
}

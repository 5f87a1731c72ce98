package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// HTTP Headers
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"

	ContentTypeJSON = "application/json"

	// Context keys set by the authentication layer
	ContextKeyUserID    = "user_id"
	ContextKeyTenantID  = "tenant_id"
	ContextKeyUserRoles = "user_roles"
	ContextKeyRequestID = "request_id"

	// ContextKeyResolvedTenant holds the tenant an authorization policy admitted.
	ContextKeyResolvedTenant = "resolved_tenant_id"

	// Tenant context sources, checked in this order
	ParamTenantID = "tenantId"

	// User status
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"

	// Tenant status
	TenantStatusActive    = "active"
	TenantStatusSuspended = "suspended"

	// Database table names
	TableUsers           = "users"
	TableTenants         = "tenants"
	TableRoles           = "roles"
	TablePermissions     = "permissions"
	TableRolePermissions = "role_permissions"
	TableUserRoles       = "user_roles"

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgAuthRequired        = "Authentication required"
	ErrMsgAuthCheckFailed     = "Authorization check failed"
	ErrMsgInsufficientPerms   = "Insufficient permissions"
	ErrMsgInsufficientRole    = "Insufficient role"
	ErrMsgTenantMismatch      = "Access denied: tenant mismatch"
	ErrMsgTenantNotAllowed    = "Access denied: tenant access not allowed"
)

package routes

import (
	"github.com/gin-gonic/gin"

	"adpilot/internal/interfaces/http/handlers"
	"adpilot/internal/interfaces/http/middleware"
	"adpilot/internal/shared/authorization"
)

// TenantRouteConfig holds dependencies for tenant routes, including the
// tenant-scoped assignment endpoints.
type TenantRouteConfig struct {
	TenantHandler        *handlers.TenantHandler
	PermissionHandler    *handlers.PermissionHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

// SetupTenantRoutes configures tenant management routes.
func SetupTenantRoutes(engine *gin.Engine, cfg *TenantRouteConfig) {
	pm := cfg.PermissionMiddleware
	adminOverride := middleware.PermissionOptions{AllowSystemAdmin: true}
	tenantScoped := middleware.PermissionOptions{AllowSystemAdmin: true, RequireTenantMatch: true}

	tenants := engine.Group("/tenants")
	tenants.Use(cfg.AuthMiddleware.RequireAuth())
	{
		// Collection operations span every tenant.
		tenants.POST("", pm.RequirePermission("tenant", "create", adminOverride), cfg.TenantHandler.Create)
		tenants.GET("", pm.RequireRole([]string{authorization.RoleSuperAdmin.String()}, middleware.RoleOptions{}), cfg.TenantHandler.List)

		tenants.GET("/:tenantId", pm.RequireTenantAccess(), pm.RequirePermission("tenant", "read", adminOverride), cfg.TenantHandler.Get)
		tenants.DELETE("/:tenantId", pm.RequirePermission("tenant", "delete", tenantScoped), cfg.TenantHandler.Delete)

		tenants.GET("/:tenantId/users/:id/roles", pm.RequirePermission("role", "read", tenantScoped), cfg.PermissionHandler.ListAssignments)
		tenants.POST("/:tenantId/users/:id/roles", pm.RequirePermission("role", "assign", tenantScoped), cfg.PermissionHandler.AssignRole)
		tenants.DELETE("/:tenantId/users/:id/roles/:role", pm.RequirePermission("role", "assign", tenantScoped), cfg.PermissionHandler.RevokeRole)
	}
}

package routes

import (
	"github.com/gin-gonic/gin"

	"adpilot/internal/interfaces/http/handlers"
	"adpilot/internal/interfaces/http/middleware"
	"adpilot/internal/shared/authorization"
)

// RBACRouteConfig holds dependencies for role, permission and system-wide
// assignment routes.
type RBACRouteConfig struct {
	PermissionHandler    *handlers.PermissionHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

// SetupRBACRoutes configures catalog administration routes.
func SetupRBACRoutes(engine *gin.Engine, cfg *RBACRouteConfig) {
	pm := cfg.PermissionMiddleware
	h := cfg.PermissionHandler
	adminOverride := middleware.PermissionOptions{AllowSystemAdmin: true}

	roles := engine.Group("/roles")
	roles.Use(cfg.AuthMiddleware.RequireAuth())
	{
		roles.GET("", pm.RequirePermission("role", "read", adminOverride), h.ListRoles)
		roles.POST("", pm.RequirePermission("role", "manage", adminOverride), h.CreateRole)
		roles.GET("/:name", pm.RequirePermission("role", "read", adminOverride), h.GetRole)
		roles.PATCH("/:name", pm.RequirePermission("role", "manage", adminOverride), h.UpdateRole)
		roles.DELETE("/:name", pm.RequirePermission("role", "manage", adminOverride), h.DeleteRole)

		roles.POST("/:name/permissions", pm.RequirePermission("role", "manage", adminOverride), h.GrantPermission)
		roles.DELETE("/:name/permissions", pm.RequirePermission("role", "manage", adminOverride), h.RevokePermission)
	}

	permissions := engine.Group("/permissions")
	permissions.Use(cfg.AuthMiddleware.RequireAuth())
	{
		permissions.GET("", pm.RequirePermission("role", "read", adminOverride), h.ListPermissions)
		permissions.POST("", pm.RequirePermission("system", "admin", adminOverride), h.CreatePermission)
	}

	// System-wide assignments are reserved to super_admin.
	superAdmin := pm.RequireRole([]string{authorization.RoleSuperAdmin.String()}, middleware.RoleOptions{})
	users := engine.Group("/users")
	users.Use(cfg.AuthMiddleware.RequireAuth())
	{
		users.GET("/:id/roles", superAdmin, h.ListAssignments)
		users.POST("/:id/roles", superAdmin, h.AssignRole)
		users.DELETE("/:id/roles/:role", superAdmin, h.RevokeRole)
	}
}

package routes

import (
	"github.com/gin-gonic/gin"

	"adpilot/internal/interfaces/http/handlers"
	"adpilot/internal/interfaces/http/middleware"
)

// AuthRouteConfig holds dependencies for authentication routes.
type AuthRouteConfig struct {
	AuthHandler    *handlers.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
	RateLimiter    *middleware.RateLimiter // nil disables login throttling
}

// SetupAuthRoutes configures authentication routes.
func SetupAuthRoutes(engine *gin.Engine, cfg *AuthRouteConfig) {
	auth := engine.Group("/auth")
	{
		auth.POST("/login", cfg.RateLimiter.Limit(), cfg.AuthHandler.Login)

		auth.GET("/me", cfg.AuthMiddleware.RequireAuth(), cfg.AuthHandler.Me)
		auth.GET("/roles", cfg.AuthMiddleware.RequireAuth(), cfg.AuthHandler.Roles)
		auth.GET("/permissions", cfg.AuthMiddleware.RequireAuth(), cfg.AuthHandler.Permissions)
		auth.GET("/check-permission", cfg.AuthMiddleware.RequireAuth(), cfg.AuthHandler.CheckPermission)
	}
}

package http

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"adpilot/internal/infrastructure/config"
	"adpilot/internal/interfaces/http/middleware"
	"adpilot/internal/interfaces/http/routes"
	"adpilot/internal/shared/logger"
	"adpilot/internal/shared/utils"
)

// Router represents the HTTP router configuration
type Router struct {
	*Container
}

// NewRouter creates a new HTTP router with all dependencies
func NewRouter(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Router, error) {
	c, err := NewContainer(db, cfg, log)
	if err != nil {
		return nil, err
	}
	utils.RegisterBindingValidators()
	return &Router{Container: c}, nil
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Recovery(r.log))
	r.engine.Use(middleware.CustomLogger(r.log))
	r.engine.Use(middleware.CORS(r.cfg.Server.AllowedOrigins))
	r.engine.Use(middleware.SecurityHeaders())

	if r.cfg.Metrics.Enabled {
		r.engine.Use(middleware.Metrics(r.exporter))
		r.engine.GET(r.cfg.Metrics.Path, gin.WrapH(r.exporter.Handler()))
	}

	r.engine.GET("/health", r.hdlrs.healthHandler.HealthCheck)
	r.engine.GET("/version", r.hdlrs.healthHandler.Version)

	routes.SetupAuthRoutes(r.engine, &routes.AuthRouteConfig{
		AuthHandler:    r.hdlrs.authHandler,
		AuthMiddleware: r.authMiddleware,
		RateLimiter:    r.loginRateLimiter,
	})

	routes.SetupRBACRoutes(r.engine, &routes.RBACRouteConfig{
		PermissionHandler:    r.hdlrs.permissionHandler,
		AuthMiddleware:       r.authMiddleware,
		PermissionMiddleware: r.permissionMiddleware,
	})

	routes.SetupTenantRoutes(r.engine, &routes.TenantRouteConfig{
		TenantHandler:        r.hdlrs.tenantHandler,
		PermissionHandler:    r.hdlrs.permissionHandler,
		AuthMiddleware:       r.authMiddleware,
		PermissionMiddleware: r.permissionMiddleware,
	})
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

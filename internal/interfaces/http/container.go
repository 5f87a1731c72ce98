package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	permissionApp "adpilot/internal/application/permission"
	tenantApp "adpilot/internal/application/tenant"
	"adpilot/internal/application/user/usecases"
	"adpilot/internal/domain/permission"
	"adpilot/internal/domain/tenant"
	"adpilot/internal/domain/user"
	"adpilot/internal/infrastructure/auth"
	"adpilot/internal/infrastructure/config"
	"adpilot/internal/infrastructure/metrics"
	infraPermission "adpilot/internal/infrastructure/permission"
	"adpilot/internal/infrastructure/ratelimit"
	"adpilot/internal/infrastructure/repository"
	"adpilot/internal/infrastructure/scheduler"
	"adpilot/internal/interfaces/http/handlers"
	"adpilot/internal/interfaces/http/middleware"
	"adpilot/internal/shared/logger"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	userRepo       user.Repository
	tenantRepo     tenant.Repository
	roleRepo       permission.RoleRepository
	permissionRepo permission.PermissionRepository
	assignmentRepo permission.AssignmentRepository
}

func newRepositories(db *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		userRepo:       repository.NewUserRepository(db, log),
		tenantRepo:     repository.NewTenantRepository(db),
		roleRepo:       repository.NewRoleRepository(db),
		permissionRepo: repository.NewPermissionRepository(db),
		assignmentRepo: repository.NewUserRoleRepository(db),
	}
}

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	healthHandler     *handlers.HealthHandler
	authHandler       *handlers.AuthHandler
	permissionHandler *handlers.PermissionHandler
	tenantHandler     *handlers.TenantHandler
}

// Container holds infrastructure, services, handlers and middlewares, and
// owns the resources released by Shutdown.
type Container struct {
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	repos *repositories
	hdlrs *allHandlers

	jwtSvc     *auth.JWTService
	jwtService *jwtServiceAdapter
	evaluator  *permissionApp.Evaluator
	exporter   *metrics.PrometheusExporter

	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
	loginRateLimiter     *middleware.RateLimiter

	scheduler *scheduler.SchedulerManager
}

// NewContainer wires every component against db. Redis is optional: with
// redis.enabled=false login attempts are not throttled.
func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}
	c.initRBAC()
	c.initHandlers()
	if err := c.initScheduler(); err != nil {
		c.Shutdown()
		return nil, err
	}

	return c, nil
}

func (c *Container) initInfrastructure() error {
	cfg := c.cfg

	if cfg.Redis.Enabled {
		client, err := initRedis(cfg, c.log)
		if err != nil {
			return err
		}
		c.redis = client
	}

	c.repos = newRepositories(c.db, c.log)
	c.jwtSvc = auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.Issuer, cfg.Auth.JWT.AccessExpMinutes)
	c.jwtService = &jwtServiceAdapter{c.jwtSvc}
	c.exporter = metrics.NewPrometheusExporter()

	var limiter ratelimit.RateLimiter
	if c.redis != nil {
		limiter = ratelimit.NewRedisRateLimiter(c.redis)
	}
	c.loginRateLimiter = middleware.NewRateLimiter(limiter, "login", ratelimit.Limit{
		Requests: cfg.RateLimit.Login.Attempts,
		Window:   time.Duration(cfg.RateLimit.Login.WindowSeconds) * time.Second,
	}, c.log)

	return nil
}

// initRedis creates and tests the Redis client connection.
func initRedis(cfg *config.Config, log logger.Interface) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Infow("Redis connection established successfully", "addr", cfg.Redis.GetAddr())

	return client, nil
}

func (c *Container) initRBAC() {
	r := c.repos
	c.evaluator = permissionApp.NewEvaluator(r.roleRepo, r.permissionRepo, r.assignmentRepo, c.log)

	var recorder middleware.DecisionRecorder
	if c.cfg.Metrics.Enabled {
		recorder = c.exporter
	}
	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, r.userRepo, c.log)
	c.permissionMiddleware = middleware.NewPermissionMiddleware(c.evaluator, recorder, c.log)
}

func (c *Container) initHandlers() {
	r := c.repos
	hasher := auth.NewBcryptPasswordHasher(c.cfg.Auth.Password.BcryptCost)

	loginUC := usecases.NewLoginWithPasswordUseCase(r.userRepo, hasher, c.jwtService, c.evaluator, c.log)
	currentUserUC := usecases.NewGetCurrentUserUseCase(r.userRepo, c.log)

	permissionService := permissionApp.NewService(
		r.roleRepo, r.permissionRepo, r.assignmentRepo, r.userRepo, r.tenantRepo, c.evaluator, c.log,
	)
	tenantService := tenantApp.NewService(r.tenantRepo, c.log)

	c.hdlrs = &allHandlers{
		healthHandler:     handlers.NewHealthHandler(c.db),
		authHandler:       handlers.NewAuthHandler(loginUC, currentUserUC, c.evaluator, c.log),
		permissionHandler: handlers.NewPermissionHandler(permissionService, c.log),
		tenantHandler:     handlers.NewTenantHandler(tenantService, c.log),
	}
}

// initScheduler registers the casbin snapshot job when
// casbin.sync_interval_minutes is set.
func (c *Container) initScheduler() error {
	minutes := c.cfg.Casbin.SyncIntervalMinutes
	if minutes <= 0 {
		return nil
	}

	manager, err := scheduler.NewSchedulerManager(c.log)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	r := c.repos
	builder := infraPermission.NewSnapshotBuilder(r.roleRepo, r.permissionRepo, r.assignmentRepo)
	policyExporter := infraPermission.NewExporter(c.db, builder, c.log)
	if err := manager.RegisterCasbinSyncJob(policyExporter, time.Duration(minutes)*time.Minute); err != nil {
		return fmt.Errorf("failed to register casbin snapshot job: %w", err)
	}
	c.scheduler = manager
	return nil
}

// StartBackgroundJobs starts the scheduler, if any jobs were configured.
func (c *Container) StartBackgroundJobs() {
	if c.scheduler != nil {
		c.scheduler.Start()
	}
}

// Shutdown stops background jobs and releases the Redis connection. The
// database is owned by the caller.
func (c *Container) Shutdown() {
	if c.scheduler != nil {
		if err := c.scheduler.Stop(); err != nil {
			c.log.Errorw("failed to stop scheduler", "error", err)
		}
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Errorw("failed to close redis client", "error", err)
		}
	}
}

// jwtServiceAdapter adapts auth.JWTService to usecases.JWTService interface
type jwtServiceAdapter struct {
	*auth.JWTService
}

func (a *jwtServiceAdapter) Generate(userID uint, tenantID *uint, roles []string) (*usecases.TokenPair, error) {
	token, err := a.JWTService.Generate(userID, tenantID, roles)
	if err != nil {
		return nil, err
	}
	return &usecases.TokenPair{
		AccessToken: token.AccessToken,
		ExpiresIn:   token.ExpiresIn,
	}, nil
}

package middleware

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	vo "adpilot/internal/domain/permission/valueobjects"
	"adpilot/internal/infrastructure/metrics"
	"adpilot/internal/shared/authorization"
	"adpilot/internal/shared/constants"
	"adpilot/internal/shared/errors"
	"adpilot/internal/shared/logger"
)

// Policy names reported to the DecisionRecorder.
const (
	PolicyRequirePermission   = "require_permission"
	PolicyRequireRole         = "require_role"
	PolicyRequireTenantAccess = "require_tenant_access"
)

// Authorizer answers ledger-backed authorization questions.
type Authorizer interface {
	HasPermission(ctx context.Context, userID uint, resource, action string, tenant vo.TenantScope) (bool, error)
	HasRole(ctx context.Context, userID uint, roleName string, tenant vo.TenantScope) (bool, error)
	HasAnyRole(ctx context.Context, userID uint, roleNames []string, tenant vo.TenantScope) (bool, error)
	IsSuperAdmin(ctx context.Context, userID uint) (bool, error)
}

// DecisionRecorder receives one outcome per policy evaluation.
type DecisionRecorder interface {
	RecordDecision(policy, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) RecordDecision(string, string) {}

type PermissionOptions struct {
	// AllowSystemAdmin lets a system-wide super_admin through when the
	// permission itself is missing.
	AllowSystemAdmin bool
	// RequireTenantMatch rejects requests aimed at a tenant other than the
	// user's home tenant unless the user administers that tenant.
	RequireTenantMatch bool
}

type RoleOptions struct {
	AllowSystemAdmin bool
}

// PermissionMiddleware gates routes on the assignment ledger. Every request
// is evaluated against the store; decisions are never cached.
type PermissionMiddleware struct {
	authorizer Authorizer
	recorder   DecisionRecorder
	logger     logger.Interface
}

func NewPermissionMiddleware(authorizer Authorizer, recorder DecisionRecorder, logger logger.Interface) *PermissionMiddleware {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &PermissionMiddleware{
		authorizer: authorizer,
		recorder:   recorder,
		logger:     logger,
	}
}

func formatTenant(id *uint) string {
	if id == nil {
		return "none"
	}
	return strconv.FormatUint(uint64(*id), 10)
}

func tenantMeta(id *uint) any {
	if id == nil {
		return nil
	}
	return *id
}

func (m *PermissionMiddleware) unauthenticated(c *gin.Context, policy string) {
	m.recorder.RecordDecision(policy, metrics.OutcomeUnauthenticated)
	abortWithError(c, errors.NewUnauthorizedError(constants.ErrMsgAuthRequired))
}

func (m *PermissionMiddleware) fault(c *gin.Context, policy string, userID uint, err error, keysAndValues ...interface{}) {
	m.recorder.RecordDecision(policy, metrics.OutcomeError)
	args := append([]interface{}{"policy", policy, "user_id", userID, "error", err}, keysAndValues...)
	m.logger.Errorw("authorization check failed", args...)
	abortWithError(c, errors.NewInternalError(constants.ErrMsgAuthCheckFailed))
}

func (m *PermissionMiddleware) deny(c *gin.Context, policy string, appErr *errors.AppError) {
	m.recorder.RecordDecision(policy, metrics.OutcomeDenied)
	abortWithError(c, appErr)
}

func (m *PermissionMiddleware) allow(c *gin.Context, policy string, target TenantTarget) {
	m.recorder.RecordDecision(policy, metrics.OutcomeAllowed)
	if target.TenantID != nil {
		c.Set(constants.ContextKeyResolvedTenant, *target.TenantID)
	}
	c.Next()
}

func (m *PermissionMiddleware) resolve(c *gin.Context, policy string) (TenantTarget, bool) {
	target, err := ResolveTenant(c)
	if err != nil {
		m.deny(c, policy, errors.GetAppError(err))
		return TenantTarget{}, false
	}
	return target, true
}

// RequirePermission admits users holding resource:action in the request's
// tenant or system-wide.
func (m *PermissionMiddleware) RequirePermission(resource, action string, opts PermissionOptions) gin.HandlerFunc {
	required := fmt.Sprintf("%s:%s", resource, action)
	policy := PolicyRequirePermission

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		userID, ok := GetUserID(c)
		if !ok {
			m.unauthenticated(c, policy)
			return
		}

		target, ok := m.resolve(c, policy)
		if !ok {
			return
		}
		scope := vo.ScopeFromPtr(target.TenantID)

		allowed, err := m.authorizer.HasPermission(ctx, userID, resource, action, scope)
		if err != nil {
			m.fault(c, policy, userID, err, "permission", required, "tenant", scope.String())
			return
		}

		// Computed at most once per request.
		var superAdmin *bool
		isSuperAdmin := func() (bool, error) {
			if superAdmin == nil {
				v, err := m.authorizer.IsSuperAdmin(ctx, userID)
				if err != nil {
					return false, err
				}
				superAdmin = &v
			}
			return *superAdmin, nil
		}

		if !allowed && opts.AllowSystemAdmin {
			if allowed, err = isSuperAdmin(); err != nil {
				m.fault(c, policy, userID, err, "permission", required)
				return
			}
		}

		if !allowed {
			m.logger.Warnw("permission denied",
				"user_id", userID, "permission", required, "tenant", scope.String(), "path", c.FullPath())
			m.deny(c, policy, errors.NewForbiddenError(constants.ErrMsgInsufficientPerms,
				fmt.Sprintf("user %d lacks %s", userID, required)).
				WithMeta("required", required).
				WithMeta("user_id", userID))
			return
		}

		home := GetHomeTenant(c)
		if opts.RequireTenantMatch && target.TenantID != nil && (home == nil || *home != *target.TenantID) {
			admin, err := m.authorizer.HasRole(ctx, userID, authorization.RoleTenantAdmin.String(), scope)
			if err != nil {
				m.fault(c, policy, userID, err, "tenant", scope.String())
				return
			}
			if !admin {
				if admin, err = isSuperAdmin(); err != nil {
					m.fault(c, policy, userID, err, "tenant", scope.String())
					return
				}
			}
			if !admin {
				m.logger.Warnw("tenant access denied",
					"user_id", userID, "user_tenant", formatTenant(home), "requested_tenant", formatTenant(target.TenantID))
				m.deny(c, policy, tenantMismatch(userID, home, target.TenantID))
				return
			}
		}

		m.allow(c, policy, target)
	}
}

// RequireRole admits users holding any of roleNames in the request's tenant
// or system-wide.
func (m *PermissionMiddleware) RequireRole(roleNames []string, opts RoleOptions) gin.HandlerFunc {
	policy := PolicyRequireRole
	required := strings.Join(roleNames, ", ")

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		userID, ok := GetUserID(c)
		if !ok {
			m.unauthenticated(c, policy)
			return
		}

		target, ok := m.resolve(c, policy)
		if !ok {
			return
		}
		scope := vo.ScopeFromPtr(target.TenantID)

		allowed, err := m.authorizer.HasAnyRole(ctx, userID, roleNames, scope)
		if err != nil {
			m.fault(c, policy, userID, err, "roles", required)
			return
		}
		if !allowed && opts.AllowSystemAdmin {
			if allowed, err = m.authorizer.IsSuperAdmin(ctx, userID); err != nil {
				m.fault(c, policy, userID, err, "roles", required)
				return
			}
		}

		if !allowed {
			m.logger.Warnw("role check failed", "user_id", userID, "required_roles", roleNames, "tenant", scope.String())
			m.deny(c, policy, errors.NewForbiddenError(constants.ErrMsgInsufficientRole,
				fmt.Sprintf("requires one of: %s", required)).
				WithMeta("required_roles", roleNames).
				WithMeta("user_id", userID))
			return
		}

		m.allow(c, policy, target)
	}
}

// RequireTenantAccess admits requests that name no tenant, name the user's
// home tenant, or come from a super_admin.
func (m *PermissionMiddleware) RequireTenantAccess() gin.HandlerFunc {
	policy := PolicyRequireTenantAccess

	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			m.unauthenticated(c, policy)
			return
		}

		target, ok := m.resolve(c, policy)
		if !ok {
			return
		}
		if !target.Explicit {
			m.allow(c, policy, target)
			return
		}

		home := GetHomeTenant(c)
		if home != nil && *home == *target.TenantID {
			m.allow(c, policy, target)
			return
		}

		superAdmin, err := m.authorizer.IsSuperAdmin(c.Request.Context(), userID)
		if err != nil {
			m.fault(c, policy, userID, err, "requested_tenant", formatTenant(target.TenantID))
			return
		}
		if superAdmin {
			m.allow(c, policy, target)
			return
		}

		m.logger.Warnw("tenant access denied",
			"user_id", userID, "user_tenant", formatTenant(home), "requested_tenant", formatTenant(target.TenantID))
		m.deny(c, policy, tenantMismatch(userID, home, target.TenantID))
	}
}

func tenantMismatch(userID uint, home, requested *uint) *errors.AppError {
	return errors.NewForbiddenError(constants.ErrMsgTenantMismatch,
		fmt.Sprintf("user tenant %s, requested tenant %s", formatTenant(home), formatTenant(requested))).
		WithMeta("user_id", userID).
		WithMeta("user_tenant", tenantMeta(home)).
		WithMeta("requested_tenant", tenantMeta(requested))
}

// GetResolvedTenant returns the tenant a passed policy evaluated against.
func GetResolvedTenant(c *gin.Context) *uint {
	v, ok := c.Get(constants.ContextKeyResolvedTenant)
	if !ok {
		return nil
	}
	id, ok := v.(uint)
	if !ok {
		return nil
	}
	return &id
}

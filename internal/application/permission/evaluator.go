// Package permission implements authorization decisions over the RBAC
// catalog and assignment ledger, its administration, and catalog bootstrap.
package permission

import (
	"context"
	"fmt"
	"sort"
	"time"

	"adpilot/internal/domain/permission"
	vo "adpilot/internal/domain/permission/valueobjects"
	"adpilot/internal/shared/authorization"
	"adpilot/internal/shared/biztime"
	"adpilot/internal/shared/logger"
)

// Evaluator answers authorization questions from the ledger. Every call
// reads the store; nothing is cached between calls. Lookup misses fail
// closed, storage faults are returned as errors.
type Evaluator struct {
	roles       permission.RoleRepository
	permissions permission.PermissionRepository
	assignments permission.AssignmentRepository
	logger      logger.Interface
	now         func() time.Time
}

func NewEvaluator(
	roles permission.RoleRepository,
	permissions permission.PermissionRepository,
	assignments permission.AssignmentRepository,
	logger logger.Interface,
) *Evaluator {
	return &Evaluator{
		roles:       roles,
		permissions: permissions,
		assignments: assignments,
		logger:      logger,
		now:         biztime.NowUTC,
	}
}

// validAssignments returns the user's active, unexpired rows whose scope
// covers tenant. A nil scopes slice means any tenant.
func (e *Evaluator) validAssignments(ctx context.Context, userID, roleID uint, scopes []uint) ([]*permission.Assignment, error) {
	now := e.now()
	rows, err := e.assignments.Find(ctx, permission.AssignmentQuery{
		UserID:  userID,
		RoleID:  roleID,
		Scopes:  scopes,
		ValidAt: &now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load role assignments: %w", err)
	}
	return rows, nil
}

func distinctRoleIDs(rows []*permission.Assignment) []uint {
	seen := make(map[uint]struct{}, len(rows))
	ids := make([]uint, 0, len(rows))
	for _, a := range rows {
		if _, ok := seen[a.RoleID()]; ok {
			continue
		}
		seen[a.RoleID()] = struct{}{}
		ids = append(ids, a.RoleID())
	}
	return ids
}

// HasPermission reports whether any role the user holds in tenant, or
// system-wide, is bound to resource:action.
func (e *Evaluator) HasPermission(ctx context.Context, userID uint, resource, action string, tenant vo.TenantScope) (bool, error) {
	if userID == 0 {
		return false, nil
	}

	perm, err := e.permissions.GetByCode(ctx, resource, action)
	if err != nil {
		return false, fmt.Errorf("failed to resolve permission: %w", err)
	}
	if perm == nil {
		e.logger.Warnw("permission not defined",
			"resource", resource,
			"action", action,
			"user_id", userID,
		)
		return false, nil
	}

	rows, err := e.validAssignments(ctx, userID, 0, vo.CandidateScopes(tenant))
	if err != nil {
		return false, err
	}
	if len(rows) == 0 {
		return false, nil
	}

	ok, err := e.roles.AnyRoleHasPermission(ctx, distinctRoleIDs(rows), perm.ID())
	if err != nil {
		return false, fmt.Errorf("failed to check role permissions: %w", err)
	}
	return ok, nil
}

// HasRole reports whether the user holds roleName in tenant or system-wide.
func (e *Evaluator) HasRole(ctx context.Context, userID uint, roleName string, tenant vo.TenantScope) (bool, error) {
	if userID == 0 {
		return false, nil
	}

	role, err := e.roles.GetByName(ctx, roleName)
	if err != nil {
		return false, fmt.Errorf("failed to resolve role: %w", err)
	}
	if role == nil {
		e.logger.Debugw("role not defined", "role", roleName, "user_id", userID)
		return false, nil
	}

	rows, err := e.validAssignments(ctx, userID, role.ID(), vo.CandidateScopes(tenant))
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// HasAnyRole is HasRole over a set of names; it stops at the first match.
func (e *Evaluator) HasAnyRole(ctx context.Context, userID uint, roleNames []string, tenant vo.TenantScope) (bool, error) {
	for _, name := range roleNames {
		ok, err := e.HasRole(ctx, userID, name, tenant)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// IsSuperAdmin reports whether the user holds super_admin system-wide.
func (e *Evaluator) IsSuperAdmin(ctx context.Context, userID uint) (bool, error) {
	return e.HasRole(ctx, userID, authorization.RoleSuperAdmin.String(), vo.SystemWide())
}

// GetRoles returns the sorted names of every role the user currently holds
// in any tenant.
func (e *Evaluator) GetRoles(ctx context.Context, userID uint) ([]string, error) {
	rows, err := e.validAssignments(ctx, userID, 0, nil)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []string{}, nil
	}

	roles, err := e.roles.GetByIDs(ctx, distinctRoleIDs(rows))
	if err != nil {
		return nil, fmt.Errorf("failed to load roles: %w", err)
	}

	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name())
	}
	sort.Strings(names)
	return names, nil
}

// GetPermissions returns the sorted, distinct "resource:action" codes the
// user holds in tenant, system-wide grants included.
func (e *Evaluator) GetPermissions(ctx context.Context, userID uint, tenant vo.TenantScope) ([]string, error) {
	rows, err := e.validAssignments(ctx, userID, 0, vo.CandidateScopes(tenant))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []string{}, nil
	}

	permIDs, err := e.roles.GetPermissionIDs(ctx, distinctRoleIDs(rows))
	if err != nil {
		return nil, fmt.Errorf("failed to load role permissions: %w", err)
	}
	perms, err := e.permissions.GetByIDs(ctx, permIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load permissions: %w", err)
	}

	seen := make(map[string]struct{}, len(perms))
	codes := make([]string, 0, len(perms))
	for _, p := range perms {
		code := p.Code()
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes, nil
}

package permission

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"
	"time"

	"adpilot/internal/domain/permission"
	vo "adpilot/internal/domain/permission/valueobjects"
	"adpilot/internal/domain/tenant"
	"adpilot/internal/domain/user"
	"adpilot/internal/shared/authorization"
	"adpilot/internal/shared/errors"
	"adpilot/internal/shared/logger"
)

// RoleDetails is a role with its granted permission codes.
type RoleDetails struct {
	Role        *permission.Role
	Permissions []string
}

// AssignmentDetails is a ledger row with its role name resolved.
type AssignmentDetails struct {
	Assignment *permission.Assignment
	RoleName   string
}

type CreateRoleCommand struct {
	Name        string
	Description string
}

type UpdateRoleCommand struct {
	Name        *string
	Description *string
}

type CreatePermissionCommand struct {
	Resource    string
	Action      string
	Description string
}

type AssignRoleCommand struct {
	ActorID   uint
	UserID    uint
	RoleName  string
	Scope     vo.TenantScope
	ExpiresAt *time.Time
}

type RevokeRoleCommand struct {
	ActorID  uint
	UserID   uint
	RoleName string
	Scope    vo.TenantScope
}

// Service administers the catalog, role grants and the assignment ledger.
// Unknown roles and permissions are reported as unknown references and
// duplicate bindings as integrity violations.
type Service struct {
	roles       permission.RoleRepository
	permissions permission.PermissionRepository
	assignments permission.AssignmentRepository
	users       user.Repository
	tenants     tenant.Repository
	evaluator   *Evaluator
	logger      logger.Interface
}

func NewService(
	roles permission.RoleRepository,
	permissions permission.PermissionRepository,
	assignments permission.AssignmentRepository,
	users user.Repository,
	tenants tenant.Repository,
	evaluator *Evaluator,
	logger logger.Interface,
) *Service {
	return &Service{
		roles:       roles,
		permissions: permissions,
		assignments: assignments,
		users:       users,
		tenants:     tenants,
		evaluator:   evaluator,
		logger:      logger,
	}
}

func (s *Service) requireRole(ctx context.Context, name string) (*permission.Role, error) {
	role, err := s.roles.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	if role == nil {
		return nil, errors.NewUnknownReferenceError(permission.ErrRoleNotFound.Error(), name)
	}
	return role, nil
}

func (s *Service) requirePermission(ctx context.Context, code string) (*permission.Permission, error) {
	resource, action, err := permission.ParseCode(code)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	perm, err := s.permissions.GetByCode(ctx, resource, action)
	if err != nil {
		return nil, fmt.Errorf("failed to get permission: %w", err)
	}
	if perm == nil {
		return nil, errors.NewUnknownReferenceError(permission.ErrPermissionNotFound.Error(), code)
	}
	return perm, nil
}

func (s *Service) rolePermissionCodes(ctx context.Context, roleID uint) ([]string, error) {
	ids, err := s.roles.GetPermissionIDs(ctx, []uint{roleID})
	if err != nil {
		return nil, err
	}
	perms, err := s.permissions.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(perms))
	for _, p := range perms {
		codes = append(codes, p.Code())
	}
	sort.Strings(codes)
	return codes, nil
}

func (s *Service) ListRoles(ctx context.Context) ([]*permission.Role, error) {
	return s.roles.List(ctx)
}

func (s *Service) GetRole(ctx context.Context, name string) (*RoleDetails, error) {
	role, err := s.roles.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	if role == nil {
		return nil, errors.NewNotFoundError(permission.ErrRoleNotFound.Error(), name)
	}

	codes, err := s.rolePermissionCodes(ctx, role.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to get role permissions: %w", err)
	}
	return &RoleDetails{Role: role, Permissions: codes}, nil
}

func (s *Service) CreateRole(ctx context.Context, cmd CreateRoleCommand) (*permission.Role, error) {
	role, err := permission.NewRole(cmd.Name, cmd.Description, false)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.roles.Create(ctx, role); err != nil {
		if stderrors.Is(err, permission.ErrDuplicateRole) {
			return nil, errors.NewIntegrityError(err.Error(), cmd.Name)
		}
		s.logger.Errorw("failed to create role", "name", cmd.Name, "error", err)
		return nil, fmt.Errorf("failed to create role: %w", err)
	}

	s.logger.Infow("role created", "role_id", role.ID(), "name", role.Name())
	return role, nil
}

func (s *Service) UpdateRole(ctx context.Context, name string, cmd UpdateRoleCommand) (*permission.Role, error) {
	role, err := s.roles.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	if role == nil {
		return nil, errors.NewNotFoundError(permission.ErrRoleNotFound.Error(), name)
	}

	if cmd.Name != nil {
		if err := role.Rename(*cmd.Name); err != nil {
			if stderrors.Is(err, permission.ErrSystemRoleImmutable) {
				return nil, errors.NewForbiddenError(err.Error(), name)
			}
			return nil, errors.NewValidationError(err.Error())
		}
	}
	if cmd.Description != nil {
		role.UpdateDescription(*cmd.Description)
	}

	if err := s.roles.Update(ctx, role); err != nil {
		if stderrors.Is(err, permission.ErrDuplicateRole) {
			return nil, errors.NewIntegrityError(err.Error(), role.Name())
		}
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	s.logger.Infow("role updated", "role_id", role.ID(), "name", role.Name())
	return role, nil
}

// DeleteRole removes a custom role together with its grants and assignments.
func (s *Service) DeleteRole(ctx context.Context, name string) error {
	role, err := s.roles.GetByName(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to get role: %w", err)
	}
	if role == nil {
		return errors.NewNotFoundError(permission.ErrRoleNotFound.Error(), name)
	}
	if err := role.EnsureDeletable(); err != nil {
		return errors.NewForbiddenError(err.Error(), name)
	}

	if err := s.roles.Delete(ctx, role.ID()); err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}

	s.logger.Infow("role deleted", "role_id", role.ID(), "name", name)
	return nil
}

func (s *Service) ListPermissions(ctx context.Context) ([]*permission.Permission, error) {
	return s.permissions.List(ctx)
}

// CreatePermission extends the catalog. Permissions are never removed.
func (s *Service) CreatePermission(ctx context.Context, cmd CreatePermissionCommand) (*permission.Permission, error) {
	perm, err := permission.NewPermission(cmd.Resource, cmd.Action, cmd.Description)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.permissions.Create(ctx, perm); err != nil {
		if stderrors.Is(err, permission.ErrDuplicatePermission) {
			return nil, errors.NewIntegrityError(err.Error(), perm.Code())
		}
		return nil, fmt.Errorf("failed to create permission: %w", err)
	}

	s.logger.Infow("permission created", "permission_id", perm.ID(), "code", perm.Code())
	return perm, nil
}

func (s *Service) GrantPermission(ctx context.Context, roleName, code string) error {
	role, err := s.requireRole(ctx, roleName)
	if err != nil {
		return err
	}
	perm, err := s.requirePermission(ctx, code)
	if err != nil {
		return err
	}

	if err := s.roles.GrantPermission(ctx, role.ID(), perm.ID()); err != nil {
		if stderrors.Is(err, permission.ErrDuplicateGrant) {
			return errors.NewIntegrityError(err.Error(), fmt.Sprintf("%s -> %s", roleName, code))
		}
		return fmt.Errorf("failed to grant permission: %w", err)
	}

	s.logger.Infow("permission granted", "role", roleName, "permission", code)
	return nil
}

func (s *Service) RevokePermission(ctx context.Context, roleName, code string) error {
	role, err := s.requireRole(ctx, roleName)
	if err != nil {
		return err
	}
	perm, err := s.requirePermission(ctx, code)
	if err != nil {
		return err
	}

	removed, err := s.roles.RevokePermission(ctx, role.ID(), perm.ID())
	if err != nil {
		return fmt.Errorf("failed to revoke permission: %w", err)
	}
	if !removed {
		return errors.NewNotFoundError("role does not have this permission", fmt.Sprintf("%s -> %s", roleName, code))
	}

	s.logger.Infow("permission revoked", "role", roleName, "permission", code)
	return nil
}

// ensureCanGrant enforces that only a super_admin hands out system-wide
// roles or super_admin itself.
func (s *Service) ensureCanGrant(ctx context.Context, actorID uint, roleName string, scope vo.TenantScope) error {
	if !scope.IsSystemWide() && roleName != authorization.RoleSuperAdmin.String() {
		return nil
	}
	ok, err := s.evaluator.IsSuperAdmin(ctx, actorID)
	if err != nil {
		return err
	}
	if !ok {
		return errors.NewForbiddenError("only a super_admin may grant this role", roleName).
			WithMeta("user_id", actorID).
			WithMeta("scope", scope.String())
	}
	return nil
}

func (s *Service) ensureSubjectExists(ctx context.Context, userID uint, scope vo.TenantScope) error {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if !exists {
		return errors.NewNotFoundError("user not found")
	}

	if scope.IsSystemWide() {
		return nil
	}
	exists, err = s.tenants.Exists(ctx, scope.Value())
	if err != nil {
		return fmt.Errorf("failed to check tenant: %w", err)
	}
	if !exists {
		return errors.NewNotFoundError("tenant not found")
	}
	return nil
}

// AssignRole binds a user to a role in a scope. A revoked or lapsed row for
// the same key is renewed in place; a valid one is a duplicate.
func (s *Service) AssignRole(ctx context.Context, cmd AssignRoleCommand) (*permission.Assignment, error) {
	role, err := s.requireRole(ctx, cmd.RoleName)
	if err != nil {
		return nil, err
	}
	if err := s.ensureCanGrant(ctx, cmd.ActorID, role.Name(), cmd.Scope); err != nil {
		return nil, err
	}
	if err := s.ensureSubjectExists(ctx, cmd.UserID, cmd.Scope); err != nil {
		return nil, err
	}

	existing, err := s.assignments.GetByKey(ctx, cmd.UserID, role.ID(), cmd.Scope.Value())
	if err != nil {
		return nil, fmt.Errorf("failed to get role assignment: %w", err)
	}

	if existing != nil {
		if err := existing.Renew(cmd.ActorID, cmd.ExpiresAt); err != nil {
			return nil, s.assignmentError(err, cmd.RoleName, cmd.Scope)
		}
		if err := s.assignments.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to renew role assignment: %w", err)
		}
		s.logger.Infow("role assignment renewed",
			"user_id", cmd.UserID, "role", role.Name(), "tenant", cmd.Scope.String(), "assigned_by", cmd.ActorID)
		return existing, nil
	}

	assignment, err := permission.NewAssignment(cmd.UserID, role.ID(), cmd.Scope, cmd.ActorID, cmd.ExpiresAt)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, s.assignmentError(err, cmd.RoleName, cmd.Scope)
	}

	s.logger.Infow("role assigned",
		"user_id", cmd.UserID, "role", role.Name(), "tenant", cmd.Scope.String(), "assigned_by", cmd.ActorID)
	return assignment, nil
}

func (s *Service) assignmentError(err error, roleName string, scope vo.TenantScope) error {
	if stderrors.Is(err, permission.ErrDuplicateAssignment) {
		return errors.NewIntegrityError(err.Error(), fmt.Sprintf("%s in %s", roleName, scope))
	}
	if errors.IsAppError(err) {
		return err
	}
	// Renew rejects past expiries with a plain error.
	return errors.NewValidationError(err.Error())
}

// RevokeRole deactivates an assignment; the row stays in the ledger.
func (s *Service) RevokeRole(ctx context.Context, cmd RevokeRoleCommand) error {
	role, err := s.requireRole(ctx, cmd.RoleName)
	if err != nil {
		return err
	}
	if err := s.ensureCanGrant(ctx, cmd.ActorID, role.Name(), cmd.Scope); err != nil {
		return err
	}

	existing, err := s.assignments.GetByKey(ctx, cmd.UserID, role.ID(), cmd.Scope.Value())
	if err != nil {
		return fmt.Errorf("failed to get role assignment: %w", err)
	}
	if existing == nil || !existing.IsActive() {
		return errors.NewNotFoundError("role assignment not found")
	}

	existing.Revoke()
	if err := s.assignments.Update(ctx, existing); err != nil {
		return fmt.Errorf("failed to revoke role assignment: %w", err)
	}

	s.logger.Infow("role revoked",
		"user_id", cmd.UserID, "role", role.Name(), "tenant", cmd.Scope.String(), "revoked_by", cmd.ActorID)
	return nil
}

// ListAssignments returns every ledger row of a user, valid or not, with
// role names resolved. A non-nil scope restricts rows to that exact scope.
func (s *Service) ListAssignments(ctx context.Context, userID uint, scope *vo.TenantScope) ([]AssignmentDetails, error) {
	query := permission.AssignmentQuery{UserID: userID}
	if scope != nil {
		query.Scopes = []uint{scope.Value()}
	}

	rows, err := s.assignments.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list role assignments: %w", err)
	}

	roles, err := s.roles.GetByIDs(ctx, distinctRoleIDs(rows))
	if err != nil {
		return nil, fmt.Errorf("failed to load roles: %w", err)
	}
	names := make(map[uint]string, len(roles))
	for _, r := range roles {
		names[r.ID()] = r.Name()
	}

	out := make([]AssignmentDetails, 0, len(rows))
	for _, a := range rows {
		out = append(out, AssignmentDetails{Assignment: a, RoleName: names[a.RoleID()]})
	}
	return out, nil
}

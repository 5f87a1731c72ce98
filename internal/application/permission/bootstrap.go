package permission

import (
	"context"
	"fmt"
	"strings"

	"adpilot/internal/domain/permission"
	vo "adpilot/internal/domain/permission/valueobjects"
	"adpilot/internal/domain/user"
	uservo "adpilot/internal/domain/user/valueobjects"
	"adpilot/internal/shared/authorization"
	"adpilot/internal/shared/config"
	"adpilot/internal/shared/logger"
)

// TransactionRunner runs fn inside one database transaction.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// BootstrapResult counts what Up created. A second run reports zeros.
type BootstrapResult struct {
	PermissionsCreated int
	RolesCreated       int
	GrantsCreated      int
	AdminCreated       bool
	AssignmentsCreated int
}

// TeardownResult counts what Down removed.
type TeardownResult struct {
	AssignmentsDeleted int64
	GrantsDeleted      int64
	RolesDeleted       int64
	AdminDeleted       bool
}

// Bootstrapper seeds the RBAC catalog and the system administrator.
type Bootstrapper struct {
	tx          TransactionRunner
	roles       permission.RoleRepository
	permissions permission.PermissionRepository
	assignments permission.AssignmentRepository
	users       user.Repository
	hasher      user.PasswordHasher
	catalog     *permission.Catalog
	cfg         config.BootstrapConfig
	logger      logger.Interface
}

func NewBootstrapper(
	tx TransactionRunner,
	roles permission.RoleRepository,
	permissions permission.PermissionRepository,
	assignments permission.AssignmentRepository,
	users user.Repository,
	hasher user.PasswordHasher,
	catalog *permission.Catalog,
	cfg config.BootstrapConfig,
	logger logger.Interface,
) *Bootstrapper {
	return &Bootstrapper{
		tx:          tx,
		roles:       roles,
		permissions: permissions,
		assignments: assignments,
		users:       users,
		hasher:      hasher,
		catalog:     catalog,
		cfg:         cfg,
		logger:      logger,
	}
}

// Up creates whatever part of the catalog, the administrator account and
// its super_admin grant is missing. Existing rows are left untouched.
func (b *Bootstrapper) Up(ctx context.Context) (*BootstrapResult, error) {
	if err := b.catalog.Validate(); err != nil {
		return nil, fmt.Errorf("invalid RBAC catalog: %w", err)
	}

	result := &BootstrapResult{}
	err := b.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		permIDs, err := b.seedPermissions(ctx, result)
		if err != nil {
			return err
		}
		roleIDs, err := b.seedRoles(ctx, permIDs, result)
		if err != nil {
			return err
		}

		admin, err := b.seedAdministrator(ctx, result)
		if err != nil {
			return err
		}

		superAdmin := roleIDs[authorization.RoleSuperAdmin.String()]
		if superAdmin == 0 {
			return fmt.Errorf("catalog does not define %s", authorization.RoleSuperAdmin)
		}
		if err := b.promoteSystemAdministrators(ctx, admin, superAdmin, result); err != nil {
			return err
		}

		if b.cfg.AssignExistingUsers {
			return b.backfillTenantMembers(ctx, admin.ID(), roleIDs, result)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	b.logger.Infow("rbac catalog seeded",
		"permissions_created", result.PermissionsCreated,
		"roles_created", result.RolesCreated,
		"grants_created", result.GrantsCreated,
		"admin_created", result.AdminCreated,
		"assignments_created", result.AssignmentsCreated,
	)
	return result, nil
}

func (b *Bootstrapper) seedPermissions(ctx context.Context, result *BootstrapResult) (map[string]uint, error) {
	ids := make(map[string]uint, len(b.catalog.Permissions))
	for _, spec := range b.catalog.Permissions {
		perm, err := b.permissions.GetByCode(ctx, spec.Resource, spec.Action)
		if err != nil {
			return nil, err
		}
		if perm == nil {
			perm, err = permission.NewPermission(spec.Resource, spec.Action, spec.Description)
			if err != nil {
				return nil, err
			}
			if err := b.permissions.Create(ctx, perm); err != nil {
				return nil, fmt.Errorf("failed to seed permission %s: %w", spec.Code(), err)
			}
			result.PermissionsCreated++
		}
		ids[spec.Code()] = perm.ID()
	}
	return ids, nil
}

func (b *Bootstrapper) seedRoles(ctx context.Context, permIDs map[string]uint, result *BootstrapResult) (map[string]uint, error) {
	ids := make(map[string]uint, len(b.catalog.Roles))
	for _, spec := range b.catalog.Roles {
		role, err := b.roles.GetByName(ctx, spec.Name)
		if err != nil {
			return nil, err
		}
		if role == nil {
			role, err = permission.NewRole(spec.Name, spec.Description, spec.IsSystem)
			if err != nil {
				return nil, err
			}
			if err := b.roles.Create(ctx, role); err != nil {
				return nil, fmt.Errorf("failed to seed role %s: %w", spec.Name, err)
			}
			result.RolesCreated++
		}
		ids[spec.Name] = role.ID()

		for _, code := range b.catalog.ExpandGrants(spec) {
			granted, err := b.roles.HasGrant(ctx, role.ID(), permIDs[code])
			if err != nil {
				return nil, err
			}
			if granted {
				continue
			}
			if err := b.roles.GrantPermission(ctx, role.ID(), permIDs[code]); err != nil {
				return nil, fmt.Errorf("failed to grant %s to %s: %w", code, spec.Name, err)
			}
			result.GrantsCreated++
		}
	}
	return ids, nil
}

func (b *Bootstrapper) seedAdministrator(ctx context.Context, result *BootstrapResult) (*user.User, error) {
	admin, err := b.users.GetByEmail(ctx, b.cfg.AdminEmail)
	if err != nil {
		return nil, err
	}
	if admin != nil {
		return admin, nil
	}

	email, err := uservo.NewEmail(b.cfg.AdminEmail)
	if err != nil {
		return nil, fmt.Errorf("invalid administrator email: %w", err)
	}
	admin, err = user.NewSystemAdministrator(email, b.cfg.AdminName)
	if err != nil {
		return nil, err
	}
	if b.cfg.AdminPassword != "" {
		if err := admin.SetPassword(b.cfg.AdminPassword, b.hasher); err != nil {
			return nil, fmt.Errorf("invalid administrator password: %w", err)
		}
	} else {
		b.logger.Warnw("administrator created without a password; password login disabled", "email", email.String())
	}

	if err := b.users.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("failed to create administrator: %w", err)
	}
	result.AdminCreated = true
	return admin, nil
}

// promoteSystemAdministrators gives the seeded administrator, and every
// account carrying the legacy system admin flag, super_admin system-wide.
func (b *Bootstrapper) promoteSystemAdministrators(ctx context.Context, admin *user.User, superAdminID uint, result *BootstrapResult) error {
	flagged, err := b.users.ListSystemAdministrators(ctx)
	if err != nil {
		return err
	}

	targets := []*user.User{admin}
	for _, u := range flagged {
		if u.ID() != admin.ID() {
			targets = append(targets, u)
		}
	}

	for _, u := range targets {
		created, err := b.ensureAssignment(ctx, u.ID(), superAdminID, vo.SystemWide(), admin.ID())
		if err != nil {
			return err
		}
		if created {
			result.AssignmentsCreated++
		}
	}
	return nil
}

// ensureAssignment creates the ledger row if the key is absent and reports
// whether it did. Revoked rows are left revoked.
func (b *Bootstrapper) ensureAssignment(ctx context.Context, userID, roleID uint, scope vo.TenantScope, assignedBy uint) (bool, error) {
	existing, err := b.assignments.GetByKey(ctx, userID, roleID, scope.Value())
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	a, err := permission.NewAssignment(userID, roleID, scope, assignedBy, nil)
	if err != nil {
		return false, err
	}
	if err := b.assignments.Create(ctx, a); err != nil {
		return false, fmt.Errorf("failed to assign role %d to user %d: %w", roleID, userID, err)
	}
	return true, nil
}

// backfillTenantMembers gives every tenant member with no ledger row in
// their home tenant a default role: tenant_admin when the email mentions
// "admin", tenant_user otherwise.
func (b *Bootstrapper) backfillTenantMembers(ctx context.Context, assignedBy uint, roleIDs map[string]uint, result *BootstrapResult) error {
	members, err := b.users.ListTenantMembers(ctx)
	if err != nil {
		return err
	}

	for _, u := range members {
		scope := vo.ScopeFromPtr(u.TenantID())
		rows, err := b.assignments.Find(ctx, permission.AssignmentQuery{
			UserID: u.ID(),
			Scopes: []uint{scope.Value()},
		})
		if err != nil {
			return err
		}
		if len(rows) > 0 {
			continue
		}

		roleName := authorization.RoleTenantUser.String()
		if strings.Contains(u.Email().String(), "admin") {
			roleName = authorization.RoleTenantAdmin.String()
		}
		roleID := roleIDs[roleName]
		if roleID == 0 {
			return fmt.Errorf("catalog does not define %s", roleName)
		}

		created, err := b.ensureAssignment(ctx, u.ID(), roleID, scope, assignedBy)
		if err != nil {
			return err
		}
		if created {
			result.AssignmentsCreated++
			b.logger.Infow("backfilled role", "user_id", u.ID(), "role", roleName, "tenant", scope.String())
		}
	}
	return nil
}

// Down removes every assignment and grant, the custom roles and the seeded
// administrator. Permissions and system roles stay: the catalog only grows.
func (b *Bootstrapper) Down(ctx context.Context) (*TeardownResult, error) {
	result := &TeardownResult{}
	err := b.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		if result.AssignmentsDeleted, err = b.assignments.DeleteAll(ctx); err != nil {
			return err
		}
		if result.GrantsDeleted, err = b.roles.DeleteAllGrants(ctx); err != nil {
			return err
		}
		if result.RolesDeleted, err = b.roles.DeleteNonSystem(ctx); err != nil {
			return err
		}
		deleted, err := b.users.DeleteByEmail(ctx, b.cfg.AdminEmail)
		if err != nil {
			return err
		}
		result.AdminDeleted = deleted > 0
		return nil
	})
	if err != nil {
		return nil, err
	}

	b.logger.Infow("rbac catalog removed",
		"assignments_deleted", result.AssignmentsDeleted,
		"grants_deleted", result.GrantsDeleted,
		"roles_deleted", result.RolesDeleted,
		"admin_deleted", result.AdminDeleted,
	)
	return result, nil
}

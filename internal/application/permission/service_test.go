package permission

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "adpilot/internal/domain/permission/valueobjects"
	"adpilot/internal/shared/errors"
)

func strPtr(s string) *string { return &s }

func TestService_AssignRoleIsUniquePerScope(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tenantID := f.createTenant(t, "acme")
	userID := f.createUser(t, "member@acme.io", &tenantID)

	cmd := AssignRoleCommand{ActorID: f.adminID, UserID: userID, RoleName: "tenant_user", Scope: vo.ForTenant(tenantID)}
	first, err := f.service.AssignRole(ctx, cmd)
	require.NoError(t, err)

	_, err = f.service.AssignRole(ctx, cmd)
	assert.True(t, errors.IsIntegrityError(err), "got %v", err)

	stored, err := f.assignments.GetByKey(ctx, userID, first.RoleID(), tenantID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, first.ID(), stored.ID())
	assert.True(t, stored.IsActive())
	assert.Equal(t, f.adminID, stored.AssignedBy())

	// The same role system-wide is a different key.
	_, err = f.service.AssignRole(ctx, AssignRoleCommand{ActorID: f.adminID, UserID: userID, RoleName: "tenant_user", Scope: vo.SystemWide()})
	require.NoError(t, err)
	_, err = f.service.AssignRole(ctx, AssignRoleCommand{ActorID: f.adminID, UserID: userID, RoleName: "tenant_user", Scope: vo.SystemWide()})
	assert.True(t, errors.IsIntegrityError(err), "system-wide scope is unique too")
}

func TestService_AssignRoleRejectsUnknownReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tenantID := f.createTenant(t, "acme")
	userID := f.createUser(t, "member@acme.io", &tenantID)

	_, err := f.service.AssignRole(ctx, AssignRoleCommand{ActorID: f.adminID, UserID: userID, RoleName: "campaign_owner", Scope: vo.ForTenant(tenantID)})
	assert.True(t, errors.IsUnknownReferenceError(err), "got %v", err)

	_, err = f.service.AssignRole(ctx, AssignRoleCommand{ActorID: f.adminID, UserID: 4040, RoleName: "tenant_user", Scope: vo.ForTenant(tenantID)})
	assert.True(t, errors.IsNotFoundError(err), "got %v", err)

	_, err = f.service.AssignRole(ctx, AssignRoleCommand{ActorID: f.adminID, UserID: userID, RoleName: "tenant_user", Scope: vo.ForTenant(4040)})
	assert.True(t, errors.IsNotFoundError(err), "got %v", err)
}

func TestService_RevokeThenReassignRenewsRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tenantID := f.createTenant(t, "acme")
	userID := f.createUser(t, "member@acme.io", &tenantID)
	scope := vo.ForTenant(tenantID)

	first, err := f.service.AssignRole(ctx, AssignRoleCommand{ActorID: f.adminID, UserID: userID, RoleName: "tenant_admin", Scope: scope})
	require.NoError(t, err)

	require.NoError(t, f.service.RevokeRole(ctx, RevokeRoleCommand{ActorID: f.adminID, UserID: userID, RoleName: "tenant_admin", Scope: scope}))
	ok, err := f.evaluator.HasRole(ctx, userID, "tenant_admin", scope)
	require.NoError(t, err)
	assert.False(t, ok)

	err = f.service.RevokeRole(ctx, RevokeRoleCommand{ActorID: f.adminID, UserID: userID, RoleName: "tenant_admin", Scope: scope})
	assert.True(t, errors.IsNotFoundError(err), "revoking twice reports the row as gone")

	expiry := time.Now().UTC().Add(72 * time.Hour)
	renewed, err := f.service.AssignRole(ctx, AssignRoleCommand{ActorID: f.adminID, UserID: userID, RoleName: "tenant_admin", Scope: scope, ExpiresAt: &expiry})
	require.NoError(t, err)
	assert.Equal(t, first.ID(), renewed.ID(), "the ledger row is reused")
	require.NotNil(t, renewed.ExpiresAt())

	ok, err = f.evaluator.HasRole(ctx, userID, "tenant_admin", scope)
	require.NoError(t, err)
	assert.True(t, ok)

	rows, err := f.service.ListAssignments(ctx, userID, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "tenant_admin", rows[0].RoleName)
}

func TestService_OnlySuperAdminGrantsGlobalRoles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tenantID := f.createTenant(t, "acme")
	tenantAdmin := f.createUser(t, "boss@acme.io", &tenantID)
	member := f.createUser(t, "member@acme.io", &tenantID)
	f.assign(t, tenantAdmin, "tenant_admin", vo.ForTenant(tenantID), nil)

	_, err := f.service.AssignRole(ctx, AssignRoleCommand{ActorID: tenantAdmin, UserID: member, RoleName: "super_admin", Scope: vo.ForTenant(tenantID)})
	assert.True(t, errors.IsForbiddenError(err), "got %v", err)

	_, err = f.service.AssignRole(ctx, AssignRoleCommand{ActorID: tenantAdmin, UserID: member, RoleName: "tenant_user", Scope: vo.SystemWide()})
	assert.True(t, errors.IsForbiddenError(err), "got %v", err)

	_, err = f.service.AssignRole(ctx, AssignRoleCommand{ActorID: tenantAdmin, UserID: member, RoleName: "tenant_user", Scope: vo.ForTenant(tenantID)})
	require.NoError(t, err)

	_, err = f.service.AssignRole(ctx, AssignRoleCommand{ActorID: f.adminID, UserID: member, RoleName: "super_admin", Scope: vo.SystemWide()})
	require.NoError(t, err)
}

func TestService_RoleLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	role, err := f.service.CreateRole(ctx, CreateRoleCommand{Name: "campaign_viewer", Description: "Reads campaigns"})
	require.NoError(t, err)
	assert.False(t, role.IsSystem())

	_, err = f.service.CreateRole(ctx, CreateRoleCommand{Name: "campaign_viewer"})
	assert.True(t, errors.IsIntegrityError(err))

	_, err = f.service.CreateRole(ctx, CreateRoleCommand{Name: "Bad Name"})
	assert.True(t, errors.IsValidationError(err))

	require.NoError(t, f.service.GrantPermission(ctx, "campaign_viewer", "metric:read"))
	err = f.service.GrantPermission(ctx, "campaign_viewer", "metric:read")
	assert.True(t, errors.IsIntegrityError(err), "duplicate grant")
	err = f.service.GrantPermission(ctx, "campaign_viewer", "campaign:read")
	assert.True(t, errors.IsUnknownReferenceError(err), "undefined permission")
	err = f.service.GrantPermission(ctx, "ghost", "metric:read")
	assert.True(t, errors.IsUnknownReferenceError(err), "undefined role")

	updated, err := f.service.UpdateRole(ctx, "campaign_viewer", UpdateRoleCommand{Name: strPtr("metric_viewer"), Description: strPtr("Reads metrics")})
	require.NoError(t, err)
	assert.Equal(t, "metric_viewer", updated.Name())

	details, err := f.service.GetRole(ctx, "metric_viewer")
	require.NoError(t, err)
	assert.Equal(t, []string{"metric:read"}, details.Permissions)
	assert.Equal(t, "Reads metrics", details.Role.Description())

	require.NoError(t, f.service.RevokePermission(ctx, "metric_viewer", "metric:read"))
	err = f.service.RevokePermission(ctx, "metric_viewer", "metric:read")
	assert.True(t, errors.IsNotFoundError(err))

	require.NoError(t, f.service.DeleteRole(ctx, "metric_viewer"))
	_, err = f.service.GetRole(ctx, "metric_viewer")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestService_SystemRolesAreImmutable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.service.DeleteRole(ctx, "tenant_admin")
	assert.True(t, errors.IsForbiddenError(err))

	_, err = f.service.UpdateRole(ctx, "tenant_admin", UpdateRoleCommand{Name: strPtr("tenant_owner")})
	assert.True(t, errors.IsForbiddenError(err))

	updated, err := f.service.UpdateRole(ctx, "tenant_admin", UpdateRoleCommand{Description: strPtr("Runs one tenant")})
	require.NoError(t, err)
	assert.Equal(t, "Runs one tenant", updated.Description())
}

func TestService_CreatePermissionIsAdditive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	perm, err := f.service.CreatePermission(ctx, CreatePermissionCommand{Resource: "campaign", Action: "launch", Description: "Launch campaigns"})
	require.NoError(t, err)
	assert.Equal(t, "campaign:launch", perm.Code())

	_, err = f.service.CreatePermission(ctx, CreatePermissionCommand{Resource: "campaign", Action: "launch"})
	assert.True(t, errors.IsIntegrityError(err))

	perms, err := f.service.ListPermissions(ctx)
	require.NoError(t, err)
	assert.Len(t, perms, 17)
}

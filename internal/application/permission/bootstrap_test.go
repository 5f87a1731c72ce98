package permission

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "adpilot/internal/domain/permission/valueobjects"
	"adpilot/internal/infrastructure/persistence/models"
)

type tableCounts struct {
	permissions, roles, grants, assignments, users int64
}

func countRows(t *testing.T, f *fixture) tableCounts {
	t.Helper()
	var c tableCounts
	require.NoError(t, f.db.Model(&models.PermissionModel{}).Count(&c.permissions).Error)
	require.NoError(t, f.db.Model(&models.RoleModel{}).Count(&c.roles).Error)
	require.NoError(t, f.db.Model(&models.RolePermissionModel{}).Count(&c.grants).Error)
	require.NoError(t, f.db.Model(&models.UserRoleModel{}).Count(&c.assignments).Error)
	require.NoError(t, f.db.Model(&models.UserModel{}).Count(&c.users).Error)
	return c
}

func TestBootstrapper_UpSeedsCatalog(t *testing.T) {
	f := newFixture(t)

	c := countRows(t, f)
	assert.Equal(t, int64(16), c.permissions)
	assert.Equal(t, int64(3), c.roles)
	assert.Equal(t, int64(16+12+3), c.grants)
	assert.Equal(t, int64(1), c.assignments)
	assert.Equal(t, int64(1), c.users)

	ok, err := f.evaluator.HasRole(context.Background(), f.adminID, "super_admin", vo.ForTenant(12))
	require.NoError(t, err)
	assert.True(t, ok)

	admin, err := f.users.GetByID(context.Background(), f.adminID)
	require.NoError(t, err)
	assert.Equal(t, "System Administrator", admin.Name())
	assert.NotEmpty(t, admin.PasswordHash())
}

func TestBootstrapper_UpIsIdempotent(t *testing.T) {
	f := newFixture(t)
	before := countRows(t, f)

	result, err := f.boot.Up(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &BootstrapResult{}, result)
	assert.Equal(t, before, countRows(t, f))
}

func TestBootstrapper_BackfillsTenantMembers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tenantID := f.createTenant(t, "acme")
	adminID := f.createUser(t, "admin@acme.io", &tenantID)
	memberID := f.createUser(t, "jane@acme.io", &tenantID)
	preassigned := f.createUser(t, "joe@acme.io", &tenantID)
	f.assign(t, preassigned, "tenant_admin", vo.ForTenant(tenantID), nil)

	result, err := f.boot.Up(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.AssignmentsCreated)

	ok, err := f.evaluator.HasRole(ctx, adminID, "tenant_admin", vo.ForTenant(tenantID))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.evaluator.HasRole(ctx, memberID, "tenant_user", vo.ForTenant(tenantID))
	require.NoError(t, err)
	assert.True(t, ok)

	roles, err := f.evaluator.GetRoles(ctx, preassigned)
	require.NoError(t, err)
	assert.Equal(t, []string{"tenant_admin"}, roles, "existing assignments are not touched")
}

func TestBootstrapper_DownKeepsPermissionsAndSystemRoles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createRoleWith(t, "campaign_viewer", "metric:read")

	result, err := f.boot.Down(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.RolesDeleted)
	assert.Equal(t, int64(32), result.GrantsDeleted)
	assert.Equal(t, int64(1), result.AssignmentsDeleted)
	assert.True(t, result.AdminDeleted)

	c := countRows(t, f)
	assert.Equal(t, int64(16), c.permissions)
	assert.Equal(t, int64(3), c.roles)
	assert.Zero(t, c.grants)
	assert.Zero(t, c.assignments)
	assert.Zero(t, c.users)

	// A fresh up restores the seeded state.
	_, err = f.boot.Up(ctx)
	require.NoError(t, err)
	c = countRows(t, f)
	assert.Equal(t, int64(31), c.grants)
	assert.Equal(t, int64(1), c.users)
}

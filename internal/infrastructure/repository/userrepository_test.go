package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adpilot/internal/domain/tenant"
	"adpilot/internal/domain/user"
	uservo "adpilot/internal/domain/user/valueobjects"
	"adpilot/internal/infrastructure/persistence/testdb"
	"adpilot/internal/shared/errors"
	"adpilot/internal/shared/logger"
)

func newUser(t *testing.T, email string, tenantID *uint) *user.User {
	t.Helper()
	addr, err := uservo.NewEmail(email)
	require.NoError(t, err)
	u, err := user.NewUser(addr, "Test User", tenantID)
	require.NoError(t, err)
	return u
}

func TestUserRepository_CRUD(t *testing.T) {
	repo := NewUserRepository(testdb.Open(t), logger.NewNopLogger())
	ctx := context.Background()

	tenantID := uint(4)
	member := newUser(t, "ops.admin@acme.test", &tenantID)
	require.NoError(t, repo.Create(ctx, member))
	require.NoError(t, repo.Create(ctx, newUser(t, "root@acme.test", nil)))

	found, err := repo.GetByEmail(ctx, "  OPS.Admin@acme.test ")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, member.ID(), found.ID())
	require.NotNil(t, found.TenantID())
	assert.Equal(t, tenantID, *found.TenantID())

	members, err := repo.ListTenantMembers(ctx)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, member.ID(), members[0].ID())

	err = repo.Create(ctx, newUser(t, "root@acme.test", nil))
	assert.True(t, errors.IsConflictError(err))

	n, err := repo.DeleteByEmail(ctx, "root@acme.test")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	exists, err := repo.Exists(ctx, member.ID())
	require.NoError(t, err)
	assert.True(t, exists)

	missing, err := repo.GetByID(ctx, 999)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTenantRepository_CRUD(t *testing.T) {
	repo := NewTenantRepository(testdb.Open(t))
	ctx := context.Background()

	acme, err := tenant.NewTenant("Acme", "acme", map[string]any{"description": "Test tenant"})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, acme))

	globex, err := tenant.NewTenant("Globex", "globex", nil)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, globex))

	dup, err := tenant.NewTenant("Acme Again", "acme", nil)
	require.NoError(t, err)
	assert.True(t, errors.IsConflictError(repo.Create(ctx, dup)))

	found, err := repo.GetByID(ctx, acme.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Test tenant", found.Meta()["description"])

	list, total, err := repo.List(ctx, tenant.ListFilter{Page: 1, PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, globex.ID()))
	assert.True(t, errors.IsNotFoundError(repo.Delete(ctx, globex.ID())))

	exists, err := repo.Exists(ctx, globex.ID())
	require.NoError(t, err)
	assert.False(t, exists)
}

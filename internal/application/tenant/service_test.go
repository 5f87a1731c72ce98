package tenant

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adpilot/internal/domain/permission"
	vo "adpilot/internal/domain/permission/valueobjects"
	"adpilot/internal/infrastructure/persistence/testdb"
	"adpilot/internal/infrastructure/repository"
	"adpilot/internal/shared/errors"
	"adpilot/internal/shared/logger"
)

func TestService_CreateGetList(t *testing.T) {
	gdb := testdb.Open(t)
	svc := NewService(repository.NewTenantRepository(gdb), logger.NewNopLogger())
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateTenantCommand{Name: "Acme Ads", Slug: "acme", Meta: map[string]any{"plan": "pro"}})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateTenantCommand{Name: "Acme Again", Slug: "acme"})
	assert.True(t, errors.IsConflictError(err), "got %v", err)

	_, err = svc.Create(ctx, CreateTenantCommand{Name: "Bad", Slug: "Not A Slug"})
	assert.True(t, errors.IsValidationError(err))

	got, err := svc.Get(ctx, created.ID())
	require.NoError(t, err)
	assert.Equal(t, "Acme Ads", got.Name())
	assert.Equal(t, "pro", got.Meta()["plan"])

	_, err = svc.Get(ctx, 999)
	assert.True(t, errors.IsNotFoundError(err))

	for _, slug := range []string{"beta", "gamma"} {
		_, err := svc.Create(ctx, CreateTenantCommand{Name: slug, Slug: slug})
		require.NoError(t, err)
	}
	page, err := svc.List(ctx, ListTenantsQuery{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Tenants, 2)

	page, err = svc.List(ctx, ListTenantsQuery{})
	require.NoError(t, err)
	assert.Equal(t, 20, page.PageSize)
}

func TestService_DeleteDropsScopedAssignments(t *testing.T) {
	gdb := testdb.Open(t)
	svc := NewService(repository.NewTenantRepository(gdb), logger.NewNopLogger())
	assignments := repository.NewUserRoleRepository(gdb)
	ctx := context.Background()

	acme, err := svc.Create(ctx, CreateTenantCommand{Name: "Acme", Slug: "acme"})
	require.NoError(t, err)

	scoped, err := permission.NewAssignment(5, 1, vo.ForTenant(acme.ID()), 1, nil)
	require.NoError(t, err)
	require.NoError(t, assignments.Create(ctx, scoped))
	global, err := permission.NewAssignment(5, 1, vo.SystemWide(), 1, nil)
	require.NoError(t, err)
	require.NoError(t, assignments.Create(ctx, global))

	require.NoError(t, svc.Delete(ctx, acme.ID()))
	assert.True(t, errors.IsNotFoundError(svc.Delete(ctx, acme.ID())))

	now := time.Now().UTC()
	rows, err := assignments.Find(ctx, permission.AssignmentQuery{UserID: 5, ValidAt: &now})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Scope().IsSystemWide())
}

package permission

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"adpilot/internal/domain/permission"
	vo "adpilot/internal/domain/permission/valueobjects"
	"adpilot/internal/domain/tenant"
	"adpilot/internal/domain/user"
	uservo "adpilot/internal/domain/user/valueobjects"
	"adpilot/internal/infrastructure/auth"
	"adpilot/internal/infrastructure/persistence/models"
	"adpilot/internal/infrastructure/persistence/seeds"
	"adpilot/internal/infrastructure/persistence/testdb"
	"adpilot/internal/infrastructure/repository"
	"adpilot/internal/shared/config"
	"adpilot/internal/shared/db"
	"adpilot/internal/shared/logger"
)

const testAdminEmail = "system@admin.com"

type fixture struct {
	db          *gorm.DB
	roles       permission.RoleRepository
	permissions permission.PermissionRepository
	assignments permission.AssignmentRepository
	users       user.Repository
	tenants     tenant.Repository
	evaluator   *Evaluator
	service     *Service
	boot        *Bootstrapper
	adminID     uint
}

func bootstrapConfig() config.BootstrapConfig {
	return config.BootstrapConfig{
		AdminEmail:          testAdminEmail,
		AdminName:           "System Administrator",
		AdminPassword:       "admin-password",
		AssignExistingUsers: true,
	}
}

// newFixture seeds the default catalog into a fresh in-memory database.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	gdb := testdb.Open(t)
	log := logger.NewNopLogger()
	f := &fixture{
		db:          gdb,
		roles:       repository.NewRoleRepository(gdb),
		permissions: repository.NewPermissionRepository(gdb),
		assignments: repository.NewUserRoleRepository(gdb),
		users:       repository.NewUserRepository(gdb, log),
		tenants:     repository.NewTenantRepository(gdb),
	}
	f.evaluator = NewEvaluator(f.roles, f.permissions, f.assignments, log)
	f.service = NewService(f.roles, f.permissions, f.assignments, f.users, f.tenants, f.evaluator, log)

	catalog, err := seeds.DefaultCatalog()
	require.NoError(t, err)
	f.boot = NewBootstrapper(
		db.NewTransactionManager(gdb),
		f.roles, f.permissions, f.assignments, f.users,
		auth.NewBcryptPasswordHasher(bcrypt.MinCost),
		catalog, bootstrapConfig(), log,
	)

	_, err = f.boot.Up(context.Background())
	require.NoError(t, err)

	admin, err := f.users.GetByEmail(context.Background(), testAdminEmail)
	require.NoError(t, err)
	require.NotNil(t, admin)
	f.adminID = admin.ID()
	return f
}

func (f *fixture) createTenant(t *testing.T, slug string) uint {
	t.Helper()
	tn, err := tenant.NewTenant(slug, slug, nil)
	require.NoError(t, err)
	require.NoError(t, f.tenants.Create(context.Background(), tn))
	return tn.ID()
}

func (f *fixture) createUser(t *testing.T, email string, homeTenant *uint) uint {
	t.Helper()
	addr, err := uservo.NewEmail(email)
	require.NoError(t, err)
	u, err := user.NewUser(addr, "Test User", homeTenant)
	require.NoError(t, err)
	require.NoError(t, f.users.Create(context.Background(), u))
	return u.ID()
}

func (f *fixture) assign(t *testing.T, userID uint, roleName string, scope vo.TenantScope, expiresAt *time.Time) {
	t.Helper()
	role, err := f.roles.GetByName(context.Background(), roleName)
	require.NoError(t, err)
	require.NotNil(t, role, roleName)

	a, err := permission.NewAssignment(userID, role.ID(), scope, f.adminID, expiresAt)
	require.NoError(t, err)
	require.NoError(t, f.assignments.Create(context.Background(), a))
}

// insertRawAssignment writes a ledger row directly, bypassing the checks
// that keep NewAssignment from producing expired or inactive rows.
func (f *fixture) insertRawAssignment(t *testing.T, userID uint, roleName string, tenantID uint, expiresAt *time.Time, active bool) {
	t.Helper()
	role, err := f.roles.GetByName(context.Background(), roleName)
	require.NoError(t, err)
	require.NotNil(t, role)

	row := &models.UserRoleModel{
		UserID:     userID,
		RoleID:     role.ID(),
		TenantID:   tenantID,
		AssignedBy: f.adminID,
		AssignedAt: time.Now().UTC().Add(-48 * time.Hour),
		ExpiresAt:  expiresAt,
		IsActive:   active,
	}
	require.NoError(t, f.db.Create(row).Error)
}

func (f *fixture) createRoleWith(t *testing.T, name string, codes ...string) {
	t.Helper()
	ctx := context.Background()
	_, err := f.service.CreateRole(ctx, CreateRoleCommand{Name: name})
	require.NoError(t, err)
	for _, code := range codes {
		require.NoError(t, f.service.GrantPermission(ctx, name, code))
	}
}

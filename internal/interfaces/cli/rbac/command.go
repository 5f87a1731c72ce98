// Package rbac provides the catalog bootstrap commands.
package rbac

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	permissionApp "adpilot/internal/application/permission"
	"adpilot/internal/infrastructure/auth"
	"adpilot/internal/infrastructure/config"
	"adpilot/internal/infrastructure/database"
	"adpilot/internal/infrastructure/migration"
	infraPermission "adpilot/internal/infrastructure/permission"
	"adpilot/internal/infrastructure/persistence/seeds"
	"adpilot/internal/infrastructure/repository"
	"adpilot/internal/shared/db"
	"adpilot/internal/shared/logger"
)

const (
	directionUp   = "up"
	directionDown = "down"
)

var (
	env         string
	configPath  string
	applySchema bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "rbac (up|down)",
		Short:     "Seed or tear down the RBAC catalog",
		Long:      `up seeds permissions, roles, grants and the system administrator; it is safe to run repeatedly. down removes assignments, grants and custom roles.`,
		ValidArgs: []string{directionUp, directionDown},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(gdb *gorm.DB, cfg *config.Config, log logger.Interface) error {
				return runBootstrap(cmd.Context(), cmd.OutOrStdout(), gdb, cfg, log, args[0])
			})
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Server mode override (debug, release, test)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.PersistentFlags().BoolVar(&applySchema, "migrate", false, "Apply pending schema migrations first")

	cmd.AddCommand(newSyncCasbinCommand())

	return cmd
}

func newSyncCasbinCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync-casbin",
		Short: "Export the effective policy to the casbin_rule table",
		Long:  `Writes every active, unexpired assignment and role grant as a casbin RBAC-with-domains policy for offline audit.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(gdb *gorm.DB, cfg *config.Config, log logger.Interface) error {
				return runSyncCasbin(cmd.Context(), cmd.OutOrStdout(), gdb, log)
			})
		},
		SilenceUsage: true,
	}
}

func withDatabase(fn func(gdb *gorm.DB, cfg *config.Config, log logger.Interface) error) error {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()
	log := logger.NewLogger()

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	if applySchema {
		manager, err := migration.NewManager(&cfg.Database)
		if err != nil {
			return err
		}
		if err := manager.Migrate(database.Get()); err != nil {
			return err
		}
	}

	return fn(database.Get(), cfg, log)
}

func runBootstrap(ctx context.Context, out io.Writer, gdb *gorm.DB, cfg *config.Config, log logger.Interface, direction string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	catalog, err := seeds.LoadCatalog(cfg.Bootstrap.CatalogPath)
	if err != nil {
		return err
	}

	boot := permissionApp.NewBootstrapper(
		db.NewTransactionManager(gdb),
		repository.NewRoleRepository(gdb),
		repository.NewPermissionRepository(gdb),
		repository.NewUserRoleRepository(gdb),
		repository.NewUserRepository(gdb, log),
		auth.NewBcryptPasswordHasher(cfg.Auth.Password.BcryptCost),
		catalog,
		cfg.Bootstrap,
		log,
	)

	switch direction {
	case directionUp:
		result, err := boot.Up(ctx)
		if err != nil {
			return fmt.Errorf("rbac up failed: %w", err)
		}
		fmt.Fprintf(out, "rbac up: %d permissions, %d roles, %d grants, %d assignments created",
			result.PermissionsCreated, result.RolesCreated, result.GrantsCreated, result.AssignmentsCreated)
		if result.AdminCreated {
			fmt.Fprintf(out, ", administrator %s created", cfg.Bootstrap.AdminEmail)
		}
		fmt.Fprintln(out)
	case directionDown:
		result, err := boot.Down(ctx)
		if err != nil {
			return fmt.Errorf("rbac down failed: %w", err)
		}
		fmt.Fprintf(out, "rbac down: %d assignments, %d grants, %d roles removed",
			result.AssignmentsDeleted, result.GrantsDeleted, result.RolesDeleted)
		if result.AdminDeleted {
			fmt.Fprintf(out, ", administrator %s removed", cfg.Bootstrap.AdminEmail)
		}
		fmt.Fprintln(out)
	default:
		return fmt.Errorf("unknown direction %q", direction)
	}
	return nil
}

func runSyncCasbin(ctx context.Context, out io.Writer, gdb *gorm.DB, log logger.Interface) error {
	if ctx == nil {
		ctx = context.Background()
	}

	builder := infraPermission.NewSnapshotBuilder(
		repository.NewRoleRepository(gdb),
		repository.NewPermissionRepository(gdb),
		repository.NewUserRoleRepository(gdb),
	)
	result, err := infraPermission.NewExporter(gdb, builder, log).Export(ctx)
	if err != nil {
		return fmt.Errorf("casbin export failed: %w", err)
	}

	fmt.Fprintf(out, "casbin snapshot: %d policies, %d groupings\n", result.Policies, result.Groupings)
	return nil
}

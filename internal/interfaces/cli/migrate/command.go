package migrate

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"adpilot/internal/infrastructure/config"
	"adpilot/internal/infrastructure/database"
	"adpilot/internal/infrastructure/migration"
	"adpilot/internal/shared/logger"
)

var (
	env        string
	configPath string
	steps      int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database schema migrations",
		Long:  `Apply, roll back and inspect schema migrations for the catalog and ledger tables.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Server mode override (debug, release, test)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Long:  `Apply all pending database migrations to bring the database schema up to date.`,
		Args:  cobra.NoArgs,
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		Long:  `Rollback a specified number of database migrations.`,
		Args:  cobra.NoArgs,
		RunE:  runDown,
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long:  `Display the current migration version and status of the database.`,
		Args:  cobra.NoArgs,
		RunE:  runStatus,
	}
}

func initEnv() (*config.Config, *migration.Manager, logger.Interface, error) {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	manager, err := migration.NewManager(&cfg.Database)
	if err != nil {
		return nil, nil, nil, err
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return cfg, manager, logger.NewLogger(), nil
}

func withManager(fn func(db *gorm.DB, manager *migration.Manager, log logger.Interface) error) error {
	_, manager, log, err := initEnv()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	return fn(database.Get(), manager, log)
}

func runUp(cmd *cobra.Command, args []string) error {
	return withManager(func(db *gorm.DB, manager *migration.Manager, log logger.Interface) error {
		log.Infow("running up migrations", "strategy", manager.GetStrategy().GetName())
		if err := manager.Migrate(db); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
		return nil
	})
}

func runDown(cmd *cobra.Command, args []string) error {
	return withManager(func(db *gorm.DB, manager *migration.Manager, log logger.Interface) error {
		log.Infow("running down migrations", "strategy", manager.GetStrategy().GetName(), "steps", steps)
		if err := manager.Rollback(db, steps); err != nil {
			log.Errorw("down migration failed", "error", err)
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "rolled back %d migration(s)\n", steps)
		return nil
	})
}

func runStatus(cmd *cobra.Command, args []string) error {
	return withManager(func(db *gorm.DB, manager *migration.Manager, log logger.Interface) error {
		version, dirty, err := manager.Status(db)
		if err != nil {
			log.Errorw("failed to get migration version", "error", err)
			return fmt.Errorf("failed to get migration version: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "\nMigration Status:\n")
		fmt.Fprintf(out, "  Strategy:        %s\n", manager.GetStrategy().GetName())
		fmt.Fprintf(out, "  Current Version: %d\n", version)
		fmt.Fprintf(out, "  Dirty:           %t\n", dirty)
		return nil
	})
}

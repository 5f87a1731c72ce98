package migration

import (
	"fmt"

	"gorm.io/gorm"

	"adpilot/internal/shared/config"
	"adpilot/internal/shared/logger"
)

// Manager handles database migrations with different strategies
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks the strategy named in cfg. The versioned scripts are
// MySQL DDL, so SQLite databases always use gorm AutoMigrate.
func NewManager(cfg *config.DatabaseConfig) (*Manager, error) {
	log := logger.NewLogger().Named("migration.manager")

	if cfg.Driver == "sqlite" {
		if cfg.MigrationStrategy != "" && cfg.MigrationStrategy != StrategyGormAutoMigrate {
			log.Warnw("versioned migrations require mysql, falling back to gorm auto-migrate",
				"configured", cfg.MigrationStrategy)
		}
		return NewManagerWithStrategy(NewGormAutoMigrateStrategy()), nil
	}

	strategy, err := strategyByName(cfg.MigrationStrategy)
	if err != nil {
		return nil, err
	}
	return NewManagerWithStrategy(strategy), nil
}

func strategyByName(name string) (Strategy, error) {
	switch name {
	case "", StrategyGoose:
		return NewGooseStrategy(), nil
	case StrategyGolangMigrate:
		return NewGolangMigrateStrategy(), nil
	case StrategyGormAutoMigrate:
		return NewGormAutoMigrateStrategy(), nil
	default:
		return nil, fmt.Errorf("unknown migration strategy %q", name)
	}
}

// NewManagerWithStrategy creates a new migration manager with a specific strategy
func NewManagerWithStrategy(strategy Strategy) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   logger.NewLogger().Named("migration.manager"),
	}
}

// Migrate executes the configured migration strategy
func (m *Manager) Migrate(db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.GetName())

	if err := m.strategy.Migrate(db); err != nil {
		m.logger.Errorw("migration failed", "strategy", m.strategy.GetName(), "error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}

	m.logger.Infow("database migration completed successfully", "strategy", m.strategy.GetName())
	return nil
}

// Rollback reverts the last steps versions.
func (m *Manager) Rollback(db *gorm.DB, steps int) error {
	if steps < 1 {
		return fmt.Errorf("steps must be at least 1")
	}
	if err := m.strategy.Rollback(db, steps); err != nil {
		return fmt.Errorf("rollback failed with strategy %s: %w", m.strategy.GetName(), err)
	}
	return nil
}

// Status returns the applied version and whether the schema is dirty.
func (m *Manager) Status(db *gorm.DB) (int64, bool, error) {
	return m.strategy.Version(db)
}

// GetStrategy returns the current migration strategy
func (m *Manager) GetStrategy() Strategy {
	return m.strategy
}

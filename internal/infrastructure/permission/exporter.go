package permission

import (
	"context"
	"fmt"

	"github.com/casbin/casbin/v2"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"

	"adpilot/internal/shared/biztime"
	"adpilot/internal/shared/logger"
)

// Exporter writes snapshots to the casbin_rule table, replacing its contents.
type Exporter struct {
	db      *gorm.DB
	builder *SnapshotBuilder
	logger  logger.Interface
}

func NewExporter(db *gorm.DB, builder *SnapshotBuilder, log logger.Interface) *Exporter {
	return &Exporter{
		db:      db,
		builder: builder,
		logger:  log,
	}
}

type ExportResult struct {
	Policies  int
	Groupings int
}

// casbinRuleTable is the gorm-adapter default table.
const casbinRuleTable = "casbin_rule"

// Export replaces the stored rules with a fresh snapshot in one transaction.
// Every statement inside it must use tx: a sqlite pool holds one connection.
func (x *Exporter) Export(ctx context.Context) (*ExportResult, error) {
	snap, err := x.builder.Build(ctx, biztime.NowUTC())
	if err != nil {
		return nil, err
	}

	// Schema changes stay outside the transaction; MySQL commits implicitly on DDL.
	if _, err := gormadapter.NewAdapterByDB(x.db.WithContext(ctx)); err != nil {
		return nil, fmt.Errorf("failed to create casbin adapter: %w", err)
	}

	err = x.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM " + casbinRuleTable).Error; err != nil {
			return fmt.Errorf("failed to clear casbin rules: %w", err)
		}

		gormadapter.TurnOffAutoMigrate(tx)
		adapter, err := gormadapter.NewAdapterByDB(tx)
		if err != nil {
			return fmt.Errorf("failed to create casbin adapter: %w", err)
		}
		if len(snap.Policies) > 0 {
			if err := adapter.AddPolicies("p", "p", snap.Policies); err != nil {
				return fmt.Errorf("failed to write policies: %w", err)
			}
		}
		if len(snap.Groupings) > 0 {
			if err := adapter.AddPolicies("g", "g", snap.Groupings); err != nil {
				return fmt.Errorf("failed to write grouping policies: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		x.logger.Errorw("failed to save casbin policy", "error", err)
		return nil, err
	}

	x.logger.Infow("casbin policy snapshot exported",
		"policies", len(snap.Policies),
		"groupings", len(snap.Groupings))

	return &ExportResult{
		Policies:  len(snap.Policies),
		Groupings: len(snap.Groupings),
	}, nil
}

// LoadExported reads the casbin_rule table back into an enforcer.
func LoadExported(db *gorm.DB) (*casbin.Enforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin adapter: %w", err)
	}
	m, err := NewModel()
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}
	e, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}
	return e, nil
}

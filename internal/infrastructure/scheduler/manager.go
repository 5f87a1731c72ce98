// Package scheduler runs background jobs using gocron v2.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	infraPermission "adpilot/internal/infrastructure/permission"
	"adpilot/internal/shared/biztime"
	"adpilot/internal/shared/logger"
)

// SnapshotExporter rewrites the casbin policy snapshot.
type SnapshotExporter interface {
	Export(ctx context.Context) (*infraPermission.ExportResult, error)
}

// SchedulerManager owns a single gocron scheduler for every periodic job.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a scheduler in the business timezone.
func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterCasbinSyncJob exports the policy snapshot every interval, starting
// as soon as the scheduler starts. A slow export delays the next run instead
// of overlapping it.
func (m *SchedulerManager) RegisterCasbinSyncJob(exporter SnapshotExporter, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("casbin sync interval must be positive, got %s", interval)
	}

	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			m.syncCasbin(ctx, exporter)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("rbac", "casbin"),
		gocron.WithName("casbin-snapshot"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered casbin snapshot job", "interval", interval.String())
	return nil
}

func (m *SchedulerManager) syncCasbin(ctx context.Context, exporter SnapshotExporter) {
	startTime := biztime.NowUTC()

	result, err := exporter.Export(ctx)
	if err != nil {
		// Shutdown cancels in-flight exports.
		if ctx.Err() != nil {
			return
		}
		m.logger.Errorw("casbin snapshot failed",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	m.logger.Debugw("casbin snapshot refreshed",
		"policies", result.Policies,
		"groupings", result.Groupings,
		"duration", time.Since(startTime),
	)
}

// Start starts the scheduler and all registered jobs.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop waits for running jobs to complete before returning.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}

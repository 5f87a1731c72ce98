package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraPermission "adpilot/internal/infrastructure/permission"
	"adpilot/internal/shared/logger"
)

type countingExporter struct {
	calls atomic.Int32
	err   error
}

func (e *countingExporter) Export(ctx context.Context) (*infraPermission.ExportResult, error) {
	e.calls.Add(1)
	if e.err != nil {
		return nil, e.err
	}
	return &infraPermission.ExportResult{Policies: 3, Groupings: 1}, nil
}

func TestSchedulerManager_RunsCasbinSyncImmediately(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNopLogger())
	require.NoError(t, err)

	exporter := &countingExporter{}
	require.NoError(t, m.RegisterCasbinSyncJob(exporter, time.Hour))
	require.Len(t, m.Jobs(), 1)
	assert.Equal(t, "casbin-snapshot", m.Jobs()[0].Name())

	m.Start()
	assert.True(t, m.IsStarted())
	require.Eventually(t, func() bool { return exporter.calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, m.Stop())
	assert.False(t, m.IsStarted())
	// A second stop is a no-op.
	assert.NoError(t, m.Stop())
}

func TestSchedulerManager_ExportFailureKeepsJob(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNopLogger())
	require.NoError(t, err)

	exporter := &countingExporter{err: errors.New("database is locked")}
	require.NoError(t, m.RegisterCasbinSyncJob(exporter, time.Hour))

	m.Start()
	t.Cleanup(func() { _ = m.Stop() })
	require.Eventually(t, func() bool { return exporter.calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Len(t, m.Jobs(), 1)
}

func TestSchedulerManager_RejectsNonPositiveInterval(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNopLogger())
	require.NoError(t, err)

	assert.Error(t, m.RegisterCasbinSyncJob(&countingExporter{}, 0))
	assert.Empty(t, m.Jobs())
}

package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsim/internal/shared/logger"
)

func TestSchedulerManager_RegisterJobs(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNop())
	require.NoError(t, err)

	noop := BatchJobFunc(func(ctx context.Context) (int, error) { return 0, nil })
	require.NoError(t, m.RegisterAutoDebitJob("0 9 * * *", noop))
	require.NoError(t, m.RegisterAutoSettleJob("30 9 * * *", noop))

	jobs := m.Jobs()
	require.Len(t, jobs, 2)
	names := []string{jobs[0].Name(), jobs[1].Name()}
	assert.ElementsMatch(t, []string{"saving-auto-debit", "saving-auto-settle"}, names)
}

func TestSchedulerManager_RejectsInvalidJobs(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNop())
	require.NoError(t, err)

	noop := BatchJobFunc(func(ctx context.Context) (int, error) { return 0, nil })
	assert.Error(t, m.RegisterAutoDebitJob("not a cron", noop))
	assert.Error(t, m.RegisterAutoDebitJob("0 9 * * *", nil))
	assert.Empty(t, m.Jobs())
}

func TestSchedulerManager_RunNow(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNop())
	require.NoError(t, err)

	var calls atomic.Int32
	job := BatchJobFunc(func(ctx context.Context) (int, error) {
		calls.Add(1)
		return 1, errors.New("wallet offline")
	})
	require.NoError(t, m.RegisterAutoDebitJob("0 9 * * *", job))

	m.Start()
	assert.True(t, m.IsStarted())
	require.NoError(t, m.RunNow("auto-debit"))

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, m.Stop())
	assert.False(t, m.IsStarted())
	assert.NoError(t, m.Stop())
}

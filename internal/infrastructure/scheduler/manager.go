// Package scheduler runs the savings batch jobs on gocron v2.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"finsim/internal/shared/biztime"
	"finsim/internal/shared/logger"
)

const defaultJobTimeout = 30 * time.Minute

// BatchJob defines the interface for a scheduled batch processing job.
// Each Execute call processes a batch and returns the number of items processed.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// BatchJobFunc adapts a plain function to BatchJob.
type BatchJobFunc func(ctx context.Context) (int, error)

func (f BatchJobFunc) Execute(ctx context.Context) (int, error) {
	return f(ctx)
}

// SchedulerManager owns the single gocron scheduler of the worker process.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager evaluates cron expressions in the business timezone.
func NewSchedulerManager(log logger.Interface, opts ...gocron.SchedulerOption) (*SchedulerManager, error) {
	opts = append([]gocron.SchedulerOption{gocron.WithLocation(biztime.Location())}, opts...)
	scheduler, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterAutoDebitJob runs the daily auto-debit batch on the given cron
// expression. Overlapping runs are rescheduled rather than stacked.
func (m *SchedulerManager) RegisterAutoDebitJob(cronExpr string, job BatchJob) error {
	return m.registerCronJob("saving-auto-debit", cronExpr, job, "saving", "auto-debit")
}

// RegisterAutoSettleJob runs maturity settlement for every matured subscription.
func (m *SchedulerManager) RegisterAutoSettleJob(cronExpr string, job BatchJob) error {
	return m.registerCronJob("saving-auto-settle", cronExpr, job, "saving", "settlement")
}

func (m *SchedulerManager) registerCronJob(name, cronExpr string, job BatchJob, tags ...string) error {
	if job == nil {
		return fmt.Errorf("job %s: nil batch job", name)
	}
	_, err := m.scheduler.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), defaultJobTimeout)
			defer cancel()
			m.runBatch(ctx, name, job)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags(tags...),
		gocron.WithName(name),
	)
	if err != nil {
		return fmt.Errorf("failed to register job %s: %w", name, err)
	}

	m.logger.Infow("registered scheduled job", "job", name, "cron", cronExpr)
	return nil
}

func (m *SchedulerManager) runBatch(ctx context.Context, name string, job BatchJob) {
	m.logger.Debugw("batch job started", "job", name)

	startTime := biztime.NowUTC()
	count, err := job.Execute(ctx)
	if err != nil {
		// Don't log error if context was cancelled (graceful shutdown)
		if ctx.Err() != nil {
			return
		}
		m.logger.Errorw("batch job failed",
			"job", name,
			"error", err,
			"processed", count,
			"duration", time.Since(startTime),
		)
		return
	}

	if count > 0 {
		m.logger.Infow("batch job completed",
			"job", name,
			"processed", count,
			"duration", time.Since(startTime),
		)
	} else {
		m.logger.Debugw("batch job found nothing to process",
			"job", name,
			"duration", time.Since(startTime),
		)
	}
}

// RunNow triggers every registered job with the given tag immediately.
func (m *SchedulerManager) RunNow(tag string) error {
	for _, job := range m.scheduler.Jobs() {
		for _, t := range job.Tags() {
			if t == tag {
				if err := job.RunNow(); err != nil {
					return fmt.Errorf("failed to run job %s: %w", job.Name(), err)
				}
				break
			}
		}
	}
	return nil
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

// Stop gracefully stops the scheduler.
// It waits for all running jobs to complete before returning.
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

// IsStarted returns whether the scheduler is running.
func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}

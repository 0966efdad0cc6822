package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/cronexpr"
	"go.uber.org/zap"
)

// CronTrigger fires the daily maintenance run on a cron schedule
type CronTrigger struct {
	schedule  *cronexpr.Expression
	scheduler *Scheduler
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewCronTrigger creates a cron trigger from a standard five-field
// cron expression, e.g. "0 2 * * *" for 2am daily.
func NewCronTrigger(cronSchedule string, sched *Scheduler, logger *zap.Logger) (*CronTrigger, error) {
	expr, err := cronexpr.Parse(cronSchedule)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSchedule, cronSchedule, err)
	}
	return &CronTrigger{
		schedule:  expr,
		scheduler: sched,
		logger:    logger,
	}, nil
}

// Start starts the cron trigger
func (c *CronTrigger) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = true
	c.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go c.runLoop(ctx)

	c.logger.Info("Cron trigger started",
		zap.Time("next_run", c.schedule.Next(time.Now())),
	)

	return nil
}

// Stop stops the cron trigger
func (c *CronTrigger) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = false
	c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("Cron trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runLoop sleeps until each scheduled fire time
func (c *CronTrigger) runLoop(ctx context.Context) {
	defer c.wg.Done()

	for {
		next := c.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			c.logger.Info("Triggering daily maintenance run")
			if err := c.scheduler.ScheduleDailyMaintenance(); err != nil {
				c.logger.Error("Failed to schedule daily maintenance", zap.Error(err))
			}
		}
	}
}

// TriggerManualRun submits maintenance jobs outside the daily schedule.
// A nil jobType submits every job type; a nil storeID runs platform-wide.
func (c *CronTrigger) TriggerManualRun(storeID *uuid.UUID, jobType *JobType) error {
	if jobType != nil {
		return c.scheduler.ScheduleJob(storeID, *jobType)
	}

	for _, jt := range AllJobTypes() {
		if err := c.scheduler.ScheduleJob(storeID, jt); err != nil {
			return err
		}
	}
	return nil
}

package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/multistore/backend/internal/infrastructure/config"
)

// JobStatus represents the status of a scheduled job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// JobType represents the type of maintenance job
type JobType string

const (
	// JobTypeStaleOrderSweep cancels unpaid pending orders older than the configured TTL
	JobTypeStaleOrderSweep JobType = "STALE_ORDER_SWEEP"
	// JobTypeTrialExpiryScan emails store owners whose trial is about to end
	JobTypeTrialExpiryScan JobType = "TRIAL_EXPIRY_SCAN"
	// JobTypeSubscriptionExpiryScan emails store owners whose paid plan is about to lapse
	JobTypeSubscriptionExpiryScan JobType = "SUBSCRIPTION_EXPIRY_SCAN"
	// JobTypeLowStockDigest emails store owners about products at or below their threshold
	JobTypeLowStockDigest JobType = "LOW_STOCK_DIGEST"
)

// AllJobTypes returns every maintenance job type in daily-run order
func AllJobTypes() []JobType {
	return []JobType{
		JobTypeStaleOrderSweep,
		JobTypeTrialExpiryScan,
		JobTypeSubscriptionExpiryScan,
		JobTypeLowStockDigest,
	}
}

// Job represents a scheduled maintenance job
type Job struct {
	ID          uuid.UUID
	StoreID     *uuid.UUID // nil means all stores
	Type        JobType
	Status      JobStatus
	Error       string
	StartedAt   *time.Time
	CompletedAt *time.Time
	RetryCount  int
	MaxRetries  int
	NextRetryAt *time.Time
}

// NewJob creates a new job instance
func NewJob(storeID *uuid.UUID, jobType JobType, maxRetries int) *Job {
	return &Job{
		ID:         uuid.New(),
		StoreID:    storeID,
		Type:       jobType,
		Status:     JobStatusPending,
		MaxRetries: maxRetries,
	}
}

// Start marks the job as running
func (j *Job) Start() {
	now := time.Now()
	j.Status = JobStatusRunning
	j.StartedAt = &now
	j.Error = ""
}

// Complete marks the job as successful
func (j *Job) Complete() {
	now := time.Now()
	j.Status = JobStatusSuccess
	j.CompletedAt = &now
}

// Fail marks the job as failed
func (j *Job) Fail(err string) {
	now := time.Now()
	j.Status = JobStatusFailed
	j.CompletedAt = &now
	j.Error = err
}

// ShouldRetry returns true if the job should be retried
func (j *Job) ShouldRetry() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// ScheduleRetry schedules the job for retry
func (j *Job) ScheduleRetry(delay time.Duration) {
	j.RetryCount++
	j.Status = JobStatusPending
	nextRetry := time.Now().Add(delay)
	j.NextRetryAt = &nextRetry
	j.Error = ""
}

// JobExecutor is the interface for executing maintenance jobs
type JobExecutor interface {
	Execute(ctx context.Context, job *Job) error
}

// Scheduler runs maintenance jobs on a bounded worker pool
type Scheduler struct {
	config   config.SchedulerConfig
	executor JobExecutor
	logger   *zap.Logger

	jobs      chan *Job
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg config.SchedulerConfig, executor JobExecutor, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		config:   cfg,
		executor: executor,
		logger:   logger,
		jobs:     make(chan *Job, 100),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for i := 0; i < s.config.MaxConcurrentJobs; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	s.logger.Info("Maintenance scheduler started",
		zap.Int("workers", s.config.MaxConcurrentJobs),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	close(s.jobs)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Maintenance scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Maintenance scheduler stop timed out")
		return ctx.Err()
	}
}

// SubmitJob submits a job for execution
func (s *Scheduler) SubmitJob(job *Job) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.mu.Unlock()

	select {
	case s.jobs <- job:
		s.logger.Debug("Job submitted",
			zap.String("job_id", job.ID.String()),
			zap.String("job_type", string(job.Type)),
		)
		return nil
	default:
		return ErrJobQueueFull
	}
}

// worker processes jobs from the queue
func (s *Scheduler) worker(ctx context.Context, workerID int) {
	defer s.wg.Done()

	s.logger.Debug("Worker started", zap.Int("worker_id", workerID))

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Worker stopping", zap.Int("worker_id", workerID))
			return
		case job, ok := <-s.jobs:
			if !ok {
				s.logger.Debug("Job channel closed", zap.Int("worker_id", workerID))
				return
			}
			s.processJob(ctx, job, workerID)
		}
	}
}

// processJob executes a single job
func (s *Scheduler) processJob(ctx context.Context, job *Job, workerID int) {
	// Retried jobs sit in the queue until their backoff elapses
	if job.NextRetryAt != nil && time.Now().Before(*job.NextRetryAt) {
		select {
		case s.jobs <- job:
		default:
			s.logger.Warn("Failed to re-queue job for retry",
				zap.String("job_id", job.ID.String()),
			)
		}
		return
	}

	job.Start()
	s.logger.Info("Processing job",
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("job_type", string(job.Type)),
	)

	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	err := s.executor.Execute(jobCtx, job)
	if err != nil {
		job.Fail(err.Error())
		s.logger.Error("Job failed",
			zap.Int("worker_id", workerID),
			zap.String("job_id", job.ID.String()),
			zap.String("job_type", string(job.Type)),
			zap.Error(err),
		)

		if job.ShouldRetry() {
			job.ScheduleRetry(s.config.RetryDelay)
			s.logger.Info("Job scheduled for retry",
				zap.String("job_id", job.ID.String()),
				zap.Int("retry_count", job.RetryCount),
				zap.Int("max_retries", job.MaxRetries),
			)
			select {
			case s.jobs <- job:
			default:
				s.logger.Warn("Failed to re-queue job for retry",
					zap.String("job_id", job.ID.String()),
				)
			}
		}
		return
	}

	job.Complete()
	s.logger.Info("Job completed successfully",
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("job_type", string(job.Type)),
	)
}

// ScheduleDailyMaintenance submits every maintenance job type platform-wide
func (s *Scheduler) ScheduleDailyMaintenance() error {
	for _, jobType := range AllJobTypes() {
		job := NewJob(nil, jobType, s.config.RetryAttempts)
		if err := s.SubmitJob(job); err != nil {
			return err
		}
	}
	return nil
}

// ScheduleJob submits a single maintenance job, optionally scoped to one store
func (s *Scheduler) ScheduleJob(storeID *uuid.UUID, jobType JobType) error {
	job := NewJob(storeID, jobType, s.config.RetryAttempts)
	return s.SubmitJob(job)
}

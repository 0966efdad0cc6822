package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when trying to submit a job to a stopped scheduler
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrJobQueueFull is returned when the job queue is full
	ErrJobQueueFull = errors.New("job queue is full")

	// ErrInvalidJobType is returned for unknown job types
	ErrInvalidJobType = errors.New("invalid job type")

	// ErrInvalidSchedule is returned for an unparseable cron expression
	ErrInvalidSchedule = errors.New("invalid cron schedule")
)

package scheduler

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewCronTrigger_InvalidSchedule(t *testing.T) {
	s := NewScheduler(testSchedulerConfig(), newRecordingExecutor(0), zap.NewNop())

	_, err := NewCronTrigger("not a cron line", s, zap.NewNop())

	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestCronTrigger_FiresOnSchedule(t *testing.T) {
	executor := newRecordingExecutor(0)
	s := NewScheduler(testSchedulerConfig(), executor, zap.NewNop())
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop(context.Background())

	// Seven-field expression carries a seconds field, firing every second
	trigger, err := NewCronTrigger("* * * * * * *", s, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, trigger.Start(context.Background()))
	defer trigger.Stop(context.Background())

	executor.waitForCalls(t, len(AllJobTypes()))
}

func TestCronTrigger_TriggerManualRun_AllTypes(t *testing.T) {
	executor := newRecordingExecutor(0)
	s := NewScheduler(testSchedulerConfig(), executor, zap.NewNop())
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop(context.Background())

	trigger, err := NewCronTrigger("0 2 * * *", s, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, trigger.TriggerManualRun(nil, nil))

	executor.waitForCalls(t, len(AllJobTypes()))
}

func TestCronTrigger_TriggerManualRun_SingleType(t *testing.T) {
	executor := newRecordingExecutor(0)
	s := NewScheduler(testSchedulerConfig(), executor, zap.NewNop())
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop(context.Background())

	trigger, err := NewCronTrigger("0 2 * * *", s, zap.NewNop())
	require.NoError(t, err)

	storeID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	jobType := JobTypeLowStockDigest
	require.NoError(t, trigger.TriggerManualRun(&storeID, &jobType))

	executor.waitForCalls(t, 1)
	require.NoError(t, s.Stop(context.Background()))

	executor.mu.Lock()
	defer executor.mu.Unlock()
	require.Len(t, executor.executed, 1)
	assert.Equal(t, JobTypeLowStockDigest, executor.executed[0].Type)
	require.NotNil(t, executor.executed[0].StoreID)
	assert.Equal(t, storeID, *executor.executed[0].StoreID)
}

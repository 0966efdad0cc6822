package shared

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOutboxEntry_CapturesEventMetadata(t *testing.T) {
	storeID := uuid.New()
	orderID := uuid.New()
	base := NewBaseDomainEvent("order.created", "Order", orderID, storeID)
	payload := []byte(`{"order_number":"CHAI-202608-00042"}`)

	entry := NewOutboxEntry(&base, payload)

	assert.Equal(t, storeID, entry.StoreID)
	assert.Equal(t, base.EventID(), entry.EventID)
	assert.Equal(t, "order.created", entry.EventType)
	assert.Equal(t, orderID, entry.AggregateID)
	assert.Equal(t, "Order", entry.AggregateType)
	assert.Equal(t, payload, entry.Payload)
	assert.Equal(t, OutboxStatusPending, entry.Status)
	assert.Equal(t, DefaultMaxRetries, entry.MaxRetries)
}

func TestOutboxEntry_MarkFailed_SchedulesRetryWithBackoff(t *testing.T) {
	entry := &OutboxEntry{
		ID:         uuid.New(),
		Status:     OutboxStatusProcessing,
		MaxRetries: 5,
	}

	entry.MarkFailed("smtp timeout")

	assert.Equal(t, OutboxStatusFailed, entry.Status)
	assert.Equal(t, 1, entry.RetryCount)
	assert.Equal(t, "smtp timeout", entry.LastError)
	require.NotNil(t, entry.NextRetryAt)
	assert.True(t, entry.NextRetryAt.After(time.Now()))
}

func TestOutboxEntry_MarkFailed_MovesToDeadAfterMaxRetries(t *testing.T) {
	entry := &OutboxEntry{
		ID:         uuid.New(),
		Status:     OutboxStatusProcessing,
		RetryCount: 4,
		MaxRetries: 5,
	}

	entry.MarkFailed("handler keeps failing")

	assert.Equal(t, OutboxStatusDead, entry.Status)
	assert.Equal(t, 5, entry.RetryCount)
	assert.True(t, entry.IsDead())
	assert.False(t, entry.CanRetry())
}

func TestOutboxEntry_MarkSent(t *testing.T) {
	entry := &OutboxEntry{
		ID:     uuid.New(),
		Status: OutboxStatusProcessing,
	}

	entry.MarkSent()

	assert.Equal(t, OutboxStatusSent, entry.Status)
	require.NotNil(t, entry.ProcessedAt)
}

func TestOutboxEntry_MarkProcessing(t *testing.T) {
	t.Run("allows pending and failed entries", func(t *testing.T) {
		for _, status := range []OutboxStatus{OutboxStatusPending, OutboxStatusFailed} {
			entry := &OutboxEntry{ID: uuid.New(), Status: status}
			assert.NoError(t, entry.MarkProcessing())
			assert.Equal(t, OutboxStatusProcessing, entry.Status)
		}
	})

	t.Run("rejects other statuses", func(t *testing.T) {
		for _, status := range []OutboxStatus{OutboxStatusProcessing, OutboxStatusSent, OutboxStatusDead} {
			entry := &OutboxEntry{ID: uuid.New(), Status: status}
			assert.Error(t, entry.MarkProcessing())
		}
	})
}

func TestOutboxEntry_ResetForRetry(t *testing.T) {
	t.Run("resets dead letter entry for retry", func(t *testing.T) {
		entry := &OutboxEntry{
			ID:         uuid.New(),
			StoreID:    uuid.New(),
			EventID:    uuid.New(),
			EventType:  "order.paid",
			Status:     OutboxStatusDead,
			RetryCount: 5,
			MaxRetries: 5,
			LastError:  "some error",
		}

		err := entry.ResetForRetry()

		assert.NoError(t, err)
		assert.Equal(t, OutboxStatusPending, entry.Status)
		assert.Equal(t, 0, entry.RetryCount)
		assert.Empty(t, entry.LastError)
		assert.Nil(t, entry.NextRetryAt)
	})

	t.Run("fails for non-dead entry", func(t *testing.T) {
		for _, status := range []OutboxStatus{
			OutboxStatusPending,
			OutboxStatusProcessing,
			OutboxStatusSent,
			OutboxStatusFailed,
		} {
			entry := &OutboxEntry{ID: uuid.New(), Status: status}
			err := entry.ResetForRetry()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "can only retry dead letter entries")
		}
	})
}

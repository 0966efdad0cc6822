package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_FirstSeenIsNotProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	ctx := context.Background()

	seen, err := store.MarkProcessed(ctx, "webhook:razorpay:evt_1", 1*time.Hour)

	require.NoError(t, err)
	assert.False(t, seen)
}

func TestInMemoryIdempotencyStore_ReplayIsProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	ctx := context.Background()

	_, err := store.MarkProcessed(ctx, "webhook:razorpay:evt_1", 1*time.Hour)
	require.NoError(t, err)

	seen, err := store.MarkProcessed(ctx, "webhook:razorpay:evt_1", 1*time.Hour)

	require.NoError(t, err)
	assert.True(t, seen)
}

func TestInMemoryIdempotencyStore_DistinctKeysIndependent(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	ctx := context.Background()

	_, err := store.MarkProcessed(ctx, "webhook:razorpay:evt_1", 1*time.Hour)
	require.NoError(t, err)

	seen, err := store.MarkProcessed(ctx, "webhook:paypal:evt_1", 1*time.Hour)

	require.NoError(t, err)
	assert.False(t, seen)
}

func TestInMemoryIdempotencyStore_ExpiredKeyCanBeReprocessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	ctx := context.Background()

	_, err := store.MarkProcessed(ctx, "webhook:razorpay:evt_1", 1*time.Millisecond)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	seen, err := store.MarkProcessed(ctx, "webhook:razorpay:evt_1", 1*time.Hour)

	require.NoError(t, err)
	assert.False(t, seen)
}

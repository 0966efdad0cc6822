package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	paymentapp "github.com/multistore/backend/internal/application/payment"
)

// RedisIdempotencyStore remembers processed keys in Redis so deduplication
// works across instances. Used for gateway webhook replay detection.
type RedisIdempotencyStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisIdempotencyStore creates an idempotency store backed by an existing Redis client
func NewRedisIdempotencyStore(client *redis.Client) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{
		client:    client,
		keyPrefix: "idempotency:",
	}
}

// MarkProcessed records the key atomically via SETNX and reports whether
// it had already been recorded. The key expires after ttl.
func (s *RedisIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	set, err := s.client.SetNX(ctx, s.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark key as processed: %w", err)
	}
	return !set, nil
}

// Forget releases a key so the next delivery is processed again
func (s *RedisIdempotencyStore) Forget(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}

var _ paymentapp.IdempotencyStore = (*RedisIdempotencyStore)(nil)

// InMemoryIdempotencyStore is a process-local idempotency store for tests
// and single-instance development setups. Expired entries are dropped
// lazily on access.
type InMemoryIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

// NewInMemoryIdempotencyStore creates a new in-memory idempotency store
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	return &InMemoryIdempotencyStore{
		entries: make(map[string]time.Time),
	}
}

// MarkProcessed records the key and reports whether it was already present
func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if expiresAt, exists := s.entries[key]; exists && time.Now().Before(expiresAt) {
		return true, nil
	}
	s.entries[key] = time.Now().Add(ttl)
	return false, nil
}

// Forget releases a key so the next delivery is processed again
func (s *InMemoryIdempotencyStore) Forget(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

var _ paymentapp.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)

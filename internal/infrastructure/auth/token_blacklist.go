package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	identityapp "github.com/multistore/backend/internal/application/identity"
)

// RedisTokenBlacklist tracks revoked refresh token JTIs in Redis.
// Entries expire together with the token they revoke, so the set
// stays bounded without a cleanup job.
type RedisTokenBlacklist struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisTokenBlacklist creates a token blacklist backed by an existing Redis client
func NewRedisTokenBlacklist(client *redis.Client) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{
		client:    client,
		keyPrefix: "token:blacklist:",
	}
}

func (b *RedisTokenBlacklist) jtiKey(jti string) string {
	return b.keyPrefix + "jti:" + jti
}

// Revoke blacklists a token's JTI until the token itself expires
func (b *RedisTokenBlacklist) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		// The token is already expired, nothing to revoke.
		return nil
	}

	if err := b.client.Set(ctx, b.jtiKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to add token to blacklist: %w", err)
	}
	return nil
}

// IsRevoked checks if a token's JTI is in the blacklist
func (b *RedisTokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	exists, err := b.client.Exists(ctx, b.jtiKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return exists > 0, nil
}

var _ identityapp.TokenBlacklist = (*RedisTokenBlacklist)(nil)

// InMemoryTokenBlacklist provides an in-memory implementation for tests and
// single-instance development setups.
type InMemoryTokenBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewInMemoryTokenBlacklist creates a new in-memory token blacklist
func NewInMemoryTokenBlacklist() *InMemoryTokenBlacklist {
	return &InMemoryTokenBlacklist{
		revoked: make(map[string]time.Time),
	}
}

// Revoke blacklists a token's JTI until the given expiry
func (b *InMemoryTokenBlacklist) Revoke(_ context.Context, jti string, until time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[jti] = until
	return nil
}

// IsRevoked checks if a token's JTI is blacklisted and not yet expired
func (b *InMemoryTokenBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	until, exists := b.revoked[jti]
	if !exists {
		return false, nil
	}
	if time.Now().After(until) {
		delete(b.revoked, jti)
		return false, nil
	}
	return true, nil
}

var _ identityapp.TokenBlacklist = (*InMemoryTokenBlacklist)(nil)

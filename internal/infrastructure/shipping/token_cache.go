// Package shipping implements the courier partner clients for Shiprocket
// and Delhivery.
package shipping

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenCache stores partner auth tokens so every store request does not
// re-authenticate. Shiprocket tokens are valid for ten days.
type TokenCache interface {
	// Get returns the cached token, or "" when absent or expired
	Get(ctx context.Context, key string) (string, error)

	// Set stores the token until ttl elapses
	Set(ctx context.Context, key, token string, ttl time.Duration) error
}

const tokenKeyPrefix = "shipping:token:"

// RedisTokenCache is the production TokenCache on Redis
type RedisTokenCache struct {
	client *redis.Client
}

// NewRedisTokenCache creates a Redis-backed token cache
func NewRedisTokenCache(client *redis.Client) *RedisTokenCache {
	return &RedisTokenCache{client: client}
}

// Get implements TokenCache
func (c *RedisTokenCache) Get(ctx context.Context, key string) (string, error) {
	token, err := c.client.Get(ctx, tokenKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

// Set implements TokenCache
func (c *RedisTokenCache) Set(ctx context.Context, key, token string, ttl time.Duration) error {
	return c.client.Set(ctx, tokenKeyPrefix+key, token, ttl).Err()
}

type memoryToken struct {
	token     string
	expiresAt time.Time
}

// MemoryTokenCache is an in-process TokenCache for development and tests
type MemoryTokenCache struct {
	mu     sync.Mutex
	tokens map[string]memoryToken
}

// NewMemoryTokenCache creates an in-memory token cache
func NewMemoryTokenCache() *MemoryTokenCache {
	return &MemoryTokenCache{tokens: make(map[string]memoryToken)}
}

// Get implements TokenCache
func (c *MemoryTokenCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.tokens[key]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(c.tokens, key)
		return "", nil
	}
	return entry.token, nil
}

// Set implements TokenCache
func (c *MemoryTokenCache) Set(_ context.Context, key, token string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens[key] = memoryToken{token: token, expiresAt: time.Now().Add(ttl)}
	return nil
}

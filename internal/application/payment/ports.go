package payment

import (
	"context"
	"time"
)

// SecretCipher encrypts gateway credentials before they reach the
// repository and decrypts them when building gateway clients.
// Implemented in infrastructure/crypto.
type SecretCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// IdempotencyStore remembers processed webhook event IDs so gateway
// retries are acknowledged without reprocessing. Implemented on Redis.
type IdempotencyStore interface {
	// MarkProcessed records the key and reports whether it was already
	// present. The key expires after ttl.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (alreadyProcessed bool, err error)

	// Forget releases a key so the gateway's retry of the same event
	// is reprocessed after a failed apply
	Forget(ctx context.Context, key string) error
}

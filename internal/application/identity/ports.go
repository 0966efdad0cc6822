package identity

import (
	"context"
	"errors"
	"time"

	"github.com/multistore/backend/internal/domain/identity"
)

// Token validation errors returned by TokenIssuer implementations
var (
	ErrTokenExpired = errors.New("identity: token expired")
	ErrTokenInvalid = errors.New("identity: token invalid")
	ErrTokenRevoked = errors.New("identity: token revoked")
)

// TokenPair is an issued access/refresh token pair
type TokenPair struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// TokenClaims are the identity claims carried by a validated token
type TokenClaims struct {
	UserID  string
	StoreID string
	Email   string
	Role    string
	// JTI is the token ID used for revocation
	JTI       string
	ExpiresAt time.Time
}

// TokenIssuer signs and validates dashboard tokens.
// Implemented in infrastructure/auth.
type TokenIssuer interface {
	GenerateTokenPair(u *identity.AdminUser) (*TokenPair, error)
	ValidateRefreshToken(token string) (*TokenClaims, error)
}

// TokenBlacklist revokes tokens until their natural expiry.
// Implemented on Redis.
type TokenBlacklist interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Mailer sends account emails. Failures are logged, never surfaced to
// the caller.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, name, token string) error
	SendEmailVerification(ctx context.Context, to, name, token string) error
	SendStaffInvite(ctx context.Context, to, name, storeName, token string) error
}

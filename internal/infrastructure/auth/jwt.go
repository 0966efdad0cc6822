package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	identityapp "github.com/multistore/backend/internal/application/identity"
	"github.com/multistore/backend/internal/domain/identity"
	"github.com/multistore/backend/internal/infrastructure/config"
)

// TokenType represents the type of JWT token
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidTokenType = errors.New("invalid token type")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrMissingUserID    = errors.New("missing user_id in claims")
)

// Claims represents custom JWT claims.
// StoreID is empty for platform administrators.
type Claims struct {
	jwt.RegisteredClaims
	StoreID   string    `json:"store_id,omitempty"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	TokenType TokenType `json:"token_type"`
}

// JWTService handles JWT token generation and validation
type JWTService struct {
	accessSecret      []byte
	refreshSecret     []byte
	accessExpiration  time.Duration
	refreshExpiration time.Duration
	issuer            string
}

// NewJWTService creates a new JWT service from configuration.
// When no dedicated refresh secret is configured the access secret is reused.
func NewJWTService(cfg config.JWTConfig) *JWTService {
	refreshSecret := cfg.RefreshSecret
	if refreshSecret == "" {
		refreshSecret = cfg.Secret
	}

	return &JWTService{
		accessSecret:      []byte(cfg.Secret),
		refreshSecret:     []byte(refreshSecret),
		accessExpiration:  cfg.AccessTokenExpiration,
		refreshExpiration: cfg.RefreshTokenExpiration,
		issuer:            cfg.Issuer,
	}
}

// GenerateTokenPair generates an access and refresh token pair for an admin user
func (s *JWTService) GenerateTokenPair(user *identity.AdminUser) (*identityapp.TokenPair, error) {
	now := time.Now()
	storeID := ""
	if user.StoreID != nil {
		storeID = user.StoreID.String()
	}

	accessExpiresAt := now.Add(s.accessExpiration)
	accessClaims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.issuer},
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(accessExpiresAt),
		},
		StoreID:   storeID,
		UserID:    user.ID.String(),
		Email:     user.Email,
		Role:      string(user.Role),
		TokenType: TokenTypeAccess,
	}

	accessToken, err := s.signToken(accessClaims, s.accessSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshExpiresAt := now.Add(s.refreshExpiration)
	refreshClaims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.issuer},
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(refreshExpiresAt),
		},
		StoreID:   storeID,
		UserID:    user.ID.String(),
		Email:     user.Email,
		Role:      string(user.Role),
		TokenType: TokenTypeRefresh,
	}

	refreshToken, err := s.signToken(refreshClaims, s.refreshSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &identityapp.TokenPair{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessTokenExpiresAt:  accessExpiresAt,
		RefreshTokenExpiresAt: refreshExpiresAt,
		TokenType:             "Bearer",
	}, nil
}

// ValidateAccessToken validates an access token and returns its claims.
// Used by the HTTP authentication middleware.
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.validateToken(tokenString, s.accessSecret, TokenTypeAccess)
}

// ValidateRefreshToken validates a refresh token for the token refresh flow
func (s *JWTService) ValidateRefreshToken(tokenString string) (*identityapp.TokenClaims, error) {
	claims, err := s.validateToken(tokenString, s.refreshSecret, TokenTypeRefresh)
	if err != nil {
		if errors.Is(err, ErrExpiredToken) {
			return nil, identityapp.ErrTokenExpired
		}
		return nil, identityapp.ErrTokenInvalid
	}

	return &identityapp.TokenClaims{
		UserID:    claims.UserID,
		StoreID:   claims.StoreID,
		Email:     claims.Email,
		Role:      claims.Role,
		JTI:       claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *JWTService) signToken(claims Claims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (s *JWTService) validateToken(tokenString string, secret []byte, expectedType TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	if claims.TokenType != expectedType {
		return nil, ErrInvalidTokenType
	}
	if claims.UserID == "" {
		return nil, ErrMissingUserID
	}

	return claims, nil
}

// Ensure JWTService satisfies the application token issuer port
var _ identityapp.TokenIssuer = (*JWTService)(nil)

// Package middleware provides gin middleware for the MultiStore HTTP API.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/multistore/backend/internal/infrastructure/auth"
	"github.com/multistore/backend/internal/infrastructure/logger"
	"github.com/multistore/backend/internal/interfaces/http/dto"
)

// Context keys set by the JWT middleware.
const (
	ContextKeyUserID  = "jwt_user_id"
	ContextKeyStoreID = "jwt_store_id"
	ContextKeyEmail   = "jwt_email"
	ContextKeyRole    = "jwt_role"
	ContextKeyClaims  = "jwt_claims"
)

// TokenBlacklist reports whether a token JTI has been revoked.
type TokenBlacklist interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// JWTConfig configures the JWT authentication middleware.
type JWTConfig struct {
	JWTService *auth.JWTService
	Blacklist  TokenBlacklist
	SkipPaths  []string
	Logger     *zap.Logger
}

// JWT validates the Bearer token, rejects revoked tokens and stores the
// claims in both the gin context and the request logger context.
func JWT(cfg JWTConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.FullPath()]; ok {
			c.Next()
			return
		}

		tokenString, err := extractBearerToken(c)
		if err != nil {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Missing or malformed Authorization header")
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
		if err != nil {
			code := dto.ErrCodeTokenInvalid
			message := "Invalid access token"
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				code = dto.ErrCodeTokenExpired
				message = "Access token has expired"
			case errors.Is(err, auth.ErrInvalidTokenType):
				message = "Token is not an access token"
			}
			log.Debug("Access token rejected", zap.Error(err))
			abortUnauthorized(c, code, message)
			return
		}

		if cfg.Blacklist != nil && claims.ID != "" {
			revoked, err := cfg.Blacklist.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				log.Warn("Token blacklist check failed", zap.Error(err))
				abortWithStatus(c, http.StatusServiceUnavailable, dto.ErrCodeInternal, "Unable to verify token")
				return
			}
			if revoked {
				abortUnauthorized(c, dto.ErrCodeTokenRevoked, "Token has been revoked")
				return
			}
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyStoreID, claims.StoreID)
		c.Set(ContextKeyEmail, claims.Email)
		c.Set(ContextKeyRole, claims.Role)
		c.Set(ContextKeyClaims, claims)

		// Propagate identity into the request-scoped logger.
		ctx := c.Request.Context()
		ctx, reqLogger := logger.WithUserID(ctx, logger.FromContext(ctx), claims.UserID)
		if claims.StoreID != "" {
			ctx, _ = logger.WithStoreID(ctx, reqLogger, claims.StoreID)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func extractBearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", errors.New("missing authorization header")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errors.New("malformed authorization header")
	}
	return parts[1], nil
}

func abortUnauthorized(c *gin.Context, code, message string) {
	abortWithStatus(c, http.StatusUnauthorized, code, message)
}

func abortWithStatus(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}

// GetJWTUserID returns the authenticated user ID or "".
func GetJWTUserID(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}

// GetJWTStoreID returns the store ID from the token claims, "" for
// platform administrators.
func GetJWTStoreID(c *gin.Context) string {
	return c.GetString(ContextKeyStoreID)
}

// GetJWTRole returns the role claim or "".
func GetJWTRole(c *gin.Context) string {
	return c.GetString(ContextKeyRole)
}

// GetJWTClaims returns the full claims when the request is authenticated.
func GetJWTClaims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(ContextKeyClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multistore/backend/internal/domain/identity"
	"github.com/multistore/backend/internal/infrastructure/auth"
	"github.com/multistore/backend/internal/infrastructure/config"
	"github.com/multistore/backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "multistore-test",
	})
}

func newStoreAdmin(t *testing.T, storeID uuid.UUID) *identity.AdminUser {
	t.Helper()
	user, err := identity.NewAdminUser(storeID, "admin@acme.test", "passw0rd123", "Asha", "Rao", identity.RoleStoreAdmin)
	require.NoError(t, err)
	return user
}

type fakeBlacklist struct {
	revoked map[string]bool
	err     error
}

func (f *fakeBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.revoked[jti], nil
}

func decodeErrorResponse(t *testing.T, rec *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp
}

func TestJWT_ValidToken(t *testing.T) {
	jwtService := newTestJWTService()
	storeID := uuid.New()
	user := newStoreAdmin(t, storeID)
	pair, err := jwtService.GenerateTokenPair(user)
	require.NoError(t, err)

	router := gin.New()
	router.Use(JWT(JWTConfig{JWTService: jwtService}))
	router.GET("/test", func(c *gin.Context) {
		assert.Equal(t, user.ID.String(), GetJWTUserID(c))
		assert.Equal(t, storeID.String(), GetJWTStoreID(c))
		assert.Equal(t, string(identity.RoleStoreAdmin), GetJWTRole(c))

		claims, ok := GetJWTClaims(c)
		require.True(t, ok)
		assert.Equal(t, "admin@acme.test", claims.Email)

		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWT_PlatformAdminHasNoStoreClaim(t *testing.T) {
	jwtService := newTestJWTService()
	user, err := identity.NewSuperAdmin("root@platform.test", "passw0rd123", "Root", "Admin")
	require.NoError(t, err)
	pair, err := jwtService.GenerateTokenPair(user)
	require.NoError(t, err)

	router := gin.New()
	router.Use(JWT(JWTConfig{JWTService: jwtService}))
	router.GET("/test", func(c *gin.Context) {
		assert.Empty(t, GetJWTStoreID(c))
		assert.Equal(t, string(identity.RoleSuperAdmin), GetJWTRole(c))
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWT_MissingHeader(t *testing.T) {
	router := gin.New()
	router.Use(JWT(JWTConfig{JWTService: newTestJWTService()}))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeErrorResponse(t, rec)
	assert.Equal(t, dto.ErrCodeUnauthorized, resp.Error.Code)
}

func TestJWT_MalformedHeader(t *testing.T) {
	router := gin.New()
	router.Use(JWT(JWTConfig{JWTService: newTestJWTService()}))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, header := range []string{"Token abc", "Bearer", "Bearer "} {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestJWT_ExpiredToken(t *testing.T) {
	expiredService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  -time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "multistore-test",
	})
	user := newStoreAdmin(t, uuid.New())
	pair, err := expiredService.GenerateTokenPair(user)
	require.NoError(t, err)

	router := gin.New()
	router.Use(JWT(JWTConfig{JWTService: expiredService}))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeErrorResponse(t, rec)
	assert.Equal(t, dto.ErrCodeTokenExpired, resp.Error.Code)
}

func TestJWT_RejectsRefreshToken(t *testing.T) {
	jwtService := auth.NewJWTService(config.JWTConfig{
		// Same secret for both token types so only the type check fails.
		Secret:                 "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "multistore-test",
	})
	user := newStoreAdmin(t, uuid.New())
	pair, err := jwtService.GenerateTokenPair(user)
	require.NoError(t, err)

	router := gin.New()
	router.Use(JWT(JWTConfig{JWTService: jwtService}))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeErrorResponse(t, rec)
	assert.Equal(t, dto.ErrCodeTokenInvalid, resp.Error.Code)
	assert.Equal(t, "Token is not an access token", resp.Error.Message)
}

func TestJWT_RevokedToken(t *testing.T) {
	jwtService := newTestJWTService()
	user := newStoreAdmin(t, uuid.New())
	pair, err := jwtService.GenerateTokenPair(user)
	require.NoError(t, err)

	claims, err := jwtService.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	blacklist := &fakeBlacklist{revoked: map[string]bool{claims.ID: true}}

	router := gin.New()
	router.Use(JWT(JWTConfig{JWTService: jwtService, Blacklist: blacklist}))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeErrorResponse(t, rec)
	assert.Equal(t, dto.ErrCodeTokenRevoked, resp.Error.Code)
}

func TestJWT_BlacklistUnavailable(t *testing.T) {
	jwtService := newTestJWTService()
	user := newStoreAdmin(t, uuid.New())
	pair, err := jwtService.GenerateTokenPair(user)
	require.NoError(t, err)

	blacklist := &fakeBlacklist{err: errors.New("redis down")}

	router := gin.New()
	router.Use(JWT(JWTConfig{JWTService: jwtService, Blacklist: blacklist}))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestJWT_SkipPaths(t *testing.T) {
	router := gin.New()
	router.Use(JWT(JWTConfig{
		JWTService: newTestJWTService(),
		SkipPaths:  []string{"/health"},
	}))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/private", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	identityapp "github.com/multistore/backend/internal/application/identity"
	"github.com/multistore/backend/internal/domain/identity"
	"github.com/multistore/backend/internal/infrastructure/config"
)

func newTestJWTService() *JWTService {
	cfg := config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "multistore-test",
	}
	return NewJWTService(cfg)
}

func newTestAdminUser(t *testing.T) *identity.AdminUser {
	t.Helper()
	storeID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	user, err := identity.NewAdminUser(storeID, "priya@chaikart.in", "Secret123", "Priya", "Nair", identity.RoleStoreAdmin)
	require.NoError(t, err)
	return user
}

func TestNewJWTService(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:                 "test-secret",
		RefreshSecret:          "test-refresh-secret",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "multistore",
	}

	svc := NewJWTService(cfg)

	assert.Equal(t, []byte(cfg.Secret), svc.accessSecret)
	assert.Equal(t, []byte(cfg.RefreshSecret), svc.refreshSecret)
	assert.Equal(t, cfg.AccessTokenExpiration, svc.accessExpiration)
	assert.Equal(t, cfg.RefreshTokenExpiration, svc.refreshExpiration)
	assert.Equal(t, cfg.Issuer, svc.issuer)
}

func TestNewJWTService_UsesSecretForRefreshIfNotProvided(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:        "test-secret",
		RefreshSecret: "",
	}

	svc := NewJWTService(cfg)

	assert.Equal(t, []byte(cfg.Secret), svc.refreshSecret)
}

func TestGenerateTokenPair(t *testing.T) {
	svc := newTestJWTService()
	user := newTestAdminUser(t)

	pair, err := svc.GenerateTokenPair(user)

	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.True(t, pair.AccessTokenExpiresAt.After(time.Now()))
	assert.True(t, pair.RefreshTokenExpiresAt.After(pair.AccessTokenExpiresAt))
}

func TestValidateAccessToken_Success(t *testing.T) {
	svc := newTestJWTService()
	user := newTestAdminUser(t)

	pair, err := svc.GenerateTokenPair(user)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)

	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, user.StoreID.String(), claims.StoreID)
	assert.Equal(t, "priya@chaikart.in", claims.Email)
	assert.Equal(t, "store_admin", claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateAccessToken_PlatformAdminHasNoStore(t *testing.T) {
	svc := newTestJWTService()
	admin, err := identity.NewSuperAdmin("ops@multistore.io", "Secret123", "Meera", "Iyer")
	require.NoError(t, err)

	pair, err := svc.GenerateTokenPair(admin)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)

	require.NoError(t, err)
	assert.Empty(t, claims.StoreID)
	assert.Equal(t, "super_admin", claims.Role)
}

func TestValidateAccessToken_RejectsRefreshToken(t *testing.T) {
	svc := newTestJWTService()
	user := newTestAdminUser(t)

	pair, err := svc.GenerateTokenPair(user)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.RefreshToken)

	assert.Error(t, err)
}

func TestValidateAccessToken_RejectsGarbage(t *testing.T) {
	svc := newTestJWTService()

	_, err := svc.ValidateAccessToken("not-a-jwt")

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAccessToken_RejectsWrongSecret(t *testing.T) {
	svc := newTestJWTService()
	other := NewJWTService(config.JWTConfig{
		Secret:                 "a-completely-different-secret-key",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "multistore-test",
	})
	user := newTestAdminUser(t)

	pair, err := other.GenerateTokenPair(user)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.AccessToken)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  -1 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "multistore-test",
	}
	svc := NewJWTService(cfg)
	user := newTestAdminUser(t)

	pair, err := svc.GenerateTokenPair(user)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.AccessToken)

	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateRefreshToken_Success(t *testing.T) {
	svc := newTestJWTService()
	user := newTestAdminUser(t)

	pair, err := svc.GenerateTokenPair(user)
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(pair.RefreshToken)

	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, user.StoreID.String(), claims.StoreID)
	assert.NotEmpty(t, claims.JTI)
	assert.WithinDuration(t, pair.RefreshTokenExpiresAt, claims.ExpiresAt, time.Second)
}

func TestValidateRefreshToken_RejectsAccessToken(t *testing.T) {
	svc := newTestJWTService()
	user := newTestAdminUser(t)

	pair, err := svc.GenerateTokenPair(user)
	require.NoError(t, err)

	_, err = svc.ValidateRefreshToken(pair.AccessToken)

	assert.ErrorIs(t, err, identityapp.ErrTokenInvalid)
}

func TestValidateRefreshToken_Expired(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: -1 * time.Minute,
		Issuer:                 "multistore-test",
	}
	svc := NewJWTService(cfg)
	user := newTestAdminUser(t)

	pair, err := svc.GenerateTokenPair(user)
	require.NoError(t, err)

	_, err = svc.ValidateRefreshToken(pair.RefreshToken)

	assert.ErrorIs(t, err, identityapp.ErrTokenExpired)
}

func TestGenerateTokenPair_UniqueJTIs(t *testing.T) {
	svc := newTestJWTService()
	user := newTestAdminUser(t)

	first, err := svc.GenerateTokenPair(user)
	require.NoError(t, err)
	second, err := svc.GenerateTokenPair(user)
	require.NoError(t, err)

	firstClaims, err := svc.ValidateRefreshToken(first.RefreshToken)
	require.NoError(t, err)
	secondClaims, err := svc.ValidateRefreshToken(second.RefreshToken)
	require.NoError(t, err)

	assert.NotEqual(t, firstClaims.JTI, secondClaims.JTI)
}

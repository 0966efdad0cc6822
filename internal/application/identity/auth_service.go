package identity

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/multistore/backend/internal/domain/identity"
	"github.com/multistore/backend/internal/domain/shared"
)

// AuthService handles dashboard authentication for store admins, staff
// and platform super admins.
type AuthService struct {
	userRepo  identity.AdminUserRepository
	tokens    TokenIssuer
	blacklist TokenBlacklist
	mailer    Mailer
	logger    *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.AdminUserRepository,
	tokens TokenIssuer,
	blacklist TokenBlacklist,
	mailer Mailer,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokens:    tokens,
		blacklist: blacklist,
		mailer:    mailer,
		logger:    logger,
	}
}

// Login authenticates a store-scoped dashboard user
func (s *AuthService) Login(ctx context.Context, storeID uuid.UUID, req LoginRequest, ip string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmailForStore(ctx, storeID, req.Email)
	if err != nil {
		s.logger.Warn("login for unknown email",
			zap.String("store_id", storeID.String()),
			zap.String("email", req.Email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}
	return s.authenticate(ctx, user, req.Password, ip)
}

// PlatformLogin authenticates a store-less super admin
func (s *AuthService) PlatformLogin(ctx context.Context, req LoginRequest, ip string) (*LoginResponse, error) {
	user, err := s.userRepo.FindPlatformAdminByEmail(ctx, req.Email)
	if err != nil {
		s.logger.Warn("platform login for unknown email", zap.String("email", req.Email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}
	return s.authenticate(ctx, user, req.Password, ip)
}

func (s *AuthService) authenticate(ctx context.Context, user *identity.AdminUser, password, ip string) (*LoginResponse, error) {
	if !user.CanLogin() {
		if user.IsLocked() {
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked. Try again later")
		}
		if user.Status == identity.AdminUserStatusPending {
			return nil, shared.NewDomainError("ACCOUNT_PENDING", "Account is pending email verification")
		}
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	if !user.VerifyPassword(password) {
		locked := user.RecordLoginFailure()
		if err := s.userRepo.Save(ctx, user); err != nil {
			s.logger.Error("failed to record login failure", zap.Error(err))
		}
		if locked {
			s.logger.Warn("account locked after failed attempts",
				zap.String("user_id", user.ID.String()),
				zap.Int("attempts", user.FailedAttempts))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Too many failed attempts. Account has been locked")
		}
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	pair, err := s.tokens.GenerateTokenPair(user)
	if err != nil {
		s.logger.Error("failed to generate tokens", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	user.RecordLoginSuccess(ip)
	if err := s.userRepo.Save(ctx, user); err != nil {
		// Login still succeeds; only the audit fields are stale
		s.logger.Error("failed to record login success", zap.Error(err))
	}

	return &LoginResponse{
		Tokens: toTokensResponse(pair),
		User:   ToAdminUserResponse(user),
	}, nil
}

// Refresh exchanges a valid refresh token for a new pair
func (s *AuthService) Refresh(ctx context.Context, req RefreshTokenRequest) (*TokensResponse, error) {
	claims, err := s.tokens.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, ErrTokenExpired):
			return nil, shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
		case errors.Is(err, ErrTokenInvalid):
			return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
		default:
			return nil, shared.NewDomainError("TOKEN_ERROR", "Failed to validate refresh token")
		}
	}

	revoked, err := s.blacklist.IsRevoked(ctx, claims.JTI)
	if err != nil {
		s.logger.Error("blacklist check failed", zap.Error(err))
		return nil, shared.NewDomainError("TOKEN_ERROR", "Failed to validate refresh token")
	}
	if revoked {
		return nil, shared.NewDomainError("TOKEN_REVOKED", "Refresh token has been revoked")
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user ID in token")
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "User no longer exists")
	}
	if !user.CanLogin() {
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is no longer active")
	}

	pair, err := s.tokens.GenerateTokenPair(user)
	if err != nil {
		s.logger.Error("failed to generate tokens on refresh", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	response := toTokensResponse(pair)
	return &response, nil
}

// Logout revokes the caller's refresh token until its natural expiry
func (s *AuthService) Logout(ctx context.Context, req RefreshTokenRequest) error {
	claims, err := s.tokens.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		// An invalid token needs no revocation
		return nil
	}
	return s.blacklist.Revoke(ctx, claims.JTI, claims.ExpiresAt)
}

// GetCurrentUser returns the authenticated user's profile
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*AdminUserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	response := ToAdminUserResponse(user)
	return &response, nil
}

// ChangePassword changes the caller's password after verifying the
// current one
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := user.ChangePassword(req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return s.userRepo.Save(ctx, user)
}

// RequestPasswordReset issues a reset token and emails it. The response
// never reveals whether the email exists.
func (s *AuthService) RequestPasswordReset(ctx context.Context, storeID uuid.UUID, req ForgotPasswordRequest) error {
	user, err := s.userRepo.FindByEmailForStore(ctx, storeID, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Debug("password reset for unknown email", zap.String("email", req.Email))
			return nil
		}
		return err
	}

	token, err := newSecureToken()
	if err != nil {
		return err
	}
	user.IssuePasswordReset(HashToken(token))
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.FullName(), token); err != nil {
		s.logger.Error("failed to send password reset email",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
	}
	return nil
}

// ResetPassword completes the reset flow with the emailed token
func (s *AuthService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	tokenHash := HashToken(req.Token)
	user, err := s.userRepo.FindByResetTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_RESET_TOKEN", "Reset token is invalid or expired")
		}
		return err
	}
	if !user.ValidateResetToken(tokenHash) {
		return shared.NewDomainError("INVALID_RESET_TOKEN", "Reset token is invalid or expired")
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		return err
	}
	return s.userRepo.Save(ctx, user)
}

// RequestEmailVerification issues a fresh verification token and emails it
func (s *AuthService) RequestEmailVerification(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return nil
	}

	token, err := newSecureToken()
	if err != nil {
		return err
	}
	user.IssueEmailVerification(HashToken(token))
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	if err := s.mailer.SendEmailVerification(ctx, user.Email, user.FullName(), token); err != nil {
		s.logger.Error("failed to send verification email",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
	}
	return nil
}

// VerifyEmail confirms the emailed verification token. Pending accounts
// become active.
func (s *AuthService) VerifyEmail(ctx context.Context, req VerifyEmailRequest) (*AdminUserResponse, error) {
	tokenHash := HashToken(req.Token)
	user, err := s.userRepo.FindByVerificationTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_VERIFICATION_TOKEN", "Verification token is invalid")
		}
		return nil, err
	}
	if err := user.VerifyEmail(tokenHash); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	response := ToAdminUserResponse(user)
	return &response, nil
}

// HashToken hashes an emailed token for at-rest comparison
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func newSecureToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

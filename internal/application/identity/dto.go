package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/multistore/backend/internal/domain/identity"
)

// LoginRequest authenticates a dashboard user
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest exchanges a refresh token for a new pair
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest changes the caller's password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=128"`
}

// ForgotPasswordRequest starts the password reset flow
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest completes the password reset flow
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// VerifyEmailRequest confirms an email verification token
type VerifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

// CreateStaffRequest creates a store staff account
type CreateStaffRequest struct {
	Email     string `json:"email" binding:"required,email,max=200"`
	Password  string `json:"password" binding:"required,min=8,max=128"`
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"max=100"`
	Role      string `json:"role" binding:"required,oneof=store_admin store_staff"`
}

// UpdateStaffRequest partially updates a staff account
type UpdateStaffRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,max=100"`
	LastName  *string `json:"last_name" binding:"omitempty,max=100"`
	Role      *string `json:"role" binding:"omitempty,oneof=store_admin store_staff"`
}

// StaffListFilter filters the staff listing
type StaffListFilter struct {
	Search   string `form:"search"`
	Role     string `form:"role" binding:"omitempty,oneof=store_admin store_staff"`
	Status   string `form:"status" binding:"omitempty,oneof=pending active locked deactivated"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// StaffListResponse is a paginated staff listing
type StaffListResponse struct {
	Items    []AdminUserResponse `json:"items"`
	Total    int64               `json:"total"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"page_size"`
}

// AdminUserResponse is the dashboard user view
type AdminUserResponse struct {
	ID            uuid.UUID  `json:"id"`
	StoreID       *uuid.UUID `json:"store_id,omitempty"`
	Email         string     `json:"email"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	FullName      string     `json:"full_name"`
	Role          string     `json:"role"`
	Status        string     `json:"status"`
	EmailVerified bool       `json:"email_verified"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ToAdminUserResponse converts a domain AdminUser to its view
func ToAdminUserResponse(u *identity.AdminUser) AdminUserResponse {
	return AdminUserResponse{
		ID:            u.ID,
		StoreID:       u.StoreID,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		FullName:      u.FullName(),
		Role:          string(u.Role),
		Status:        string(u.Status),
		EmailVerified: u.EmailVerified,
		LastLoginAt:   u.LastLoginAt,
		CreatedAt:     u.CreatedAt,
	}
}

// ToAdminUserResponses converts domain AdminUsers to views
func ToAdminUserResponses(users []identity.AdminUser) []AdminUserResponse {
	responses := make([]AdminUserResponse, len(users))
	for i := range users {
		responses[i] = ToAdminUserResponse(&users[i])
	}
	return responses
}

// TokensResponse carries an issued token pair
type TokensResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// LoginResponse is returned on successful authentication
type LoginResponse struct {
	Tokens TokensResponse    `json:"tokens"`
	User   AdminUserResponse `json:"user"`
}

func toTokensResponse(pair *TokenPair) TokensResponse {
	return TokensResponse{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}
}

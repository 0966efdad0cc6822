package handler

import (
	"github.com/gin-gonic/gin"

	identityapp "github.com/multistore/backend/internal/application/identity"
)

// AuthHandler handles authentication and account endpoints
type AuthHandler struct {
	BaseHandler
	auth *identityapp.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth *identityapp.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login authenticates a dashboard user against the resolved store
func (h *AuthHandler) Login(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	var req identityapp.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), storeID, req, c.ClientIP())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// PlatformLogin authenticates a platform administrator
func (h *AuthHandler) PlatformLogin(c *gin.Context) {
	var req identityapp.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.auth.PlatformLogin(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Refresh exchanges a refresh token for a new token pair
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req identityapp.RefreshTokenRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.auth.Refresh(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Logout revokes the presented refresh token
func (h *AuthHandler) Logout(c *gin.Context) {
	var req identityapp.RefreshTokenRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.auth.Logout(c.Request.Context(), req); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	resp, err := h.auth.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ChangePassword changes the caller's password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req identityapp.ChangePasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), userID, req); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// ForgotPassword starts the password reset flow for a store user
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	var req identityapp.ForgotPasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}

	// Always accepted so the endpoint does not leak which emails exist.
	if err := h.auth.RequestPasswordReset(c.Request.Context(), storeID, req); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "If the account exists, a reset email has been sent"})
}

// ResetPassword completes the password reset flow
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req identityapp.ResetPasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), req); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Password has been reset"})
}

// RequestEmailVerification sends a verification email to the caller
func (h *AuthHandler) RequestEmailVerification(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.auth.RequestEmailVerification(c.Request.Context(), userID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Verification email sent"})
}

// VerifyEmail confirms an email verification token
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req identityapp.VerifyEmailRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.auth.VerifyEmail(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

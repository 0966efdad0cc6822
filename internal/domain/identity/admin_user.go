package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/multistore/backend/internal/domain/shared"
)

// AdminRole represents the dashboard access level of an admin user
type AdminRole string

const (
	// RoleSuperAdmin manages the platform across all stores
	RoleSuperAdmin AdminRole = "super_admin"
	// RoleStoreAdmin has full control of one store
	RoleStoreAdmin AdminRole = "store_admin"
	// RoleStoreStaff manages catalog and orders but not settings or staff
	RoleStoreStaff AdminRole = "store_staff"
)

// IsValid returns true if the role is valid
func (r AdminRole) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleStoreAdmin, RoleStoreStaff:
		return true
	default:
		return false
	}
}

// String returns the string representation of AdminRole
func (r AdminRole) String() string {
	return string(r)
}

// CanManageStaff returns true if the role can invite and remove staff
func (r AdminRole) CanManageStaff() bool {
	return r == RoleSuperAdmin || r == RoleStoreAdmin
}

// CanManageSettings returns true if the role can change store settings
func (r AdminRole) CanManageSettings() bool {
	return r == RoleSuperAdmin || r == RoleStoreAdmin
}

// AdminUserStatus represents the status of an admin user
type AdminUserStatus string

const (
	AdminUserStatusPending     AdminUserStatus = "pending"     // Awaiting activation
	AdminUserStatusActive      AdminUserStatus = "active"      // Normal active status
	AdminUserStatusLocked      AdminUserStatus = "locked"      // Locked due to failed attempts
	AdminUserStatusDeactivated AdminUserStatus = "deactivated" // Manually deactivated
)

// Password cost for bcrypt
const bcryptCost = 12

// Login lockout policy
const (
	MaxFailedLogins   = 5
	LoginLockDuration = 15 * time.Minute
)

// Token lifetimes. Tokens are random values hashed at rest; only the
// hash is stored on the aggregate.
const (
	PasswordResetTokenTTL     = time.Hour
	EmailVerificationTokenTTL = 24 * time.Hour
)

// AdminUser represents a dashboard user. Platform admins have no store;
// store admins and staff belong to exactly one store.
type AdminUser struct {
	shared.BaseAggregateRoot
	// StoreID is nil for platform-level super admins
	StoreID *uuid.UUID `gorm:"type:char(36);index;uniqueIndex:idx_admin_store_email,priority:1" json:"store_id,omitempty"`

	Email        string `gorm:"type:varchar(200);not null;uniqueIndex:idx_admin_store_email,priority:2" json:"email"`
	PasswordHash string `gorm:"type:varchar(100);not null" json:"-"`
	FirstName    string `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName     string `gorm:"type:varchar(100)" json:"last_name"`

	Role   AdminRole       `gorm:"type:varchar(20);not null" json:"role"`
	Status AdminUserStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`

	EmailVerified bool `gorm:"default:false" json:"email_verified"`
	// EmailVerificationTokenHash stores the hashed verification token
	EmailVerificationTokenHash string     `gorm:"type:varchar(100)" json:"-"`
	EmailVerificationExpiresAt *time.Time `json:"-"`

	// PasswordResetTokenHash stores the hashed reset token
	PasswordResetTokenHash string     `gorm:"type:varchar(100)" json:"-"`
	PasswordResetExpiresAt *time.Time `json:"-"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	LastLoginIP string     `gorm:"type:varchar(45)" json:"last_login_ip"`

	FailedAttempts int        `gorm:"default:0" json:"-"`
	LockedUntil    *time.Time `json:"-"`

	PasswordChangedAt *time.Time `json:"-"`
}

// TableName returns the table name for GORM
func (AdminUser) TableName() string {
	return "admin_users"
}

// NewAdminUser creates a store-scoped admin user pending activation
func NewAdminUser(storeID uuid.UUID, email, password, firstName, lastName string, role AdminRole) (*AdminUser, error) {
	if role == RoleSuperAdmin {
		return nil, shared.NewDomainError("INVALID_ROLE", "super admins are not store scoped")
	}
	u, err := newAdminUser(email, password, firstName, lastName, role)
	if err != nil {
		return nil, err
	}
	u.StoreID = &storeID

	u.AddDomainEvent(NewAdminUserCreatedEvent(u))
	return u, nil
}

// NewSuperAdmin creates a platform-level admin with no store scope
func NewSuperAdmin(email, password, firstName, lastName string) (*AdminUser, error) {
	u, err := newAdminUser(email, password, firstName, lastName, RoleSuperAdmin)
	if err != nil {
		return nil, err
	}
	u.Status = AdminUserStatusActive

	u.AddDomainEvent(NewAdminUserCreatedEvent(u))
	return u, nil
}

func newAdminUser(email, password, firstName, lastName string, role AdminRole) (*AdminUser, error) {
	if err := validateAdminEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	if err := validateAdminName(firstName); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "unknown admin role")
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "failed to hash password")
	}

	now := time.Now()
	return &AdminUser{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             strings.ToLower(strings.TrimSpace(email)),
		PasswordHash:      passwordHash,
		FirstName:         strings.TrimSpace(firstName),
		LastName:          strings.TrimSpace(lastName),
		Role:              role,
		Status:            AdminUserStatusPending,
		PasswordChangedAt: &now,
	}, nil
}

// FullName returns the admin's display name
func (u *AdminUser) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsPlatformAdmin returns true for store-less super admins
func (u *AdminUser) IsPlatformAdmin() bool {
	return u.Role == RoleSuperAdmin && u.StoreID == nil
}

// BelongsToStore checks the store scope. Platform admins pass for any store.
func (u *AdminUser) BelongsToStore(storeID uuid.UUID) bool {
	if u.IsPlatformAdmin() {
		return true
	}
	return u.StoreID != nil && *u.StoreID == storeID
}

// SetName updates the admin's name
func (u *AdminUser) SetName(firstName, lastName string) error {
	if err := validateAdminName(firstName); err != nil {
		return err
	}
	u.FirstName = strings.TrimSpace(firstName)
	u.LastName = strings.TrimSpace(lastName)
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// SetRole changes the admin's role. Store-scoped users cannot be
// promoted to super admin.
func (u *AdminUser) SetRole(role AdminRole) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "unknown admin role")
	}
	if role == RoleSuperAdmin && u.StoreID != nil {
		return shared.NewDomainError("INVALID_ROLE", "store users cannot become super admins")
	}
	u.Role = role
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// ChangePassword changes the password after verifying the current one
func (u *AdminUser) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "current password is incorrect")
	}
	return u.SetPassword(newPassword)
}

// SetPassword sets a new password without an old-password check, used by
// the reset flow and platform admins
func (u *AdminUser) SetPassword(newPassword string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := HashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "failed to hash password")
	}

	now := time.Now()
	u.PasswordHash = passwordHash
	u.PasswordChangedAt = &now
	u.PasswordResetTokenHash = ""
	u.PasswordResetExpiresAt = nil
	u.UpdatedAt = now
	u.IncrementVersion()

	u.AddDomainEvent(NewAdminPasswordChangedEvent(u))
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *AdminUser) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// IssuePasswordReset stores the hashed reset token with a one hour TTL
func (u *AdminUser) IssuePasswordReset(tokenHash string) {
	expires := time.Now().Add(PasswordResetTokenTTL)
	u.PasswordResetTokenHash = tokenHash
	u.PasswordResetExpiresAt = &expires
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// ValidateResetToken checks the hashed reset token and its expiry
func (u *AdminUser) ValidateResetToken(tokenHash string) bool {
	if u.PasswordResetTokenHash == "" || tokenHash == "" {
		return false
	}
	if u.PasswordResetTokenHash != tokenHash {
		return false
	}
	if u.PasswordResetExpiresAt == nil || time.Now().After(*u.PasswordResetExpiresAt) {
		return false
	}
	return true
}

// IssueEmailVerification stores the hashed verification token with a 24h TTL
func (u *AdminUser) IssueEmailVerification(tokenHash string) {
	expires := time.Now().Add(EmailVerificationTokenTTL)
	u.EmailVerificationTokenHash = tokenHash
	u.EmailVerificationExpiresAt = &expires
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// VerifyEmail marks the email verified when the hashed token matches
// and has not expired. Pending users become active.
func (u *AdminUser) VerifyEmail(tokenHash string) error {
	if u.EmailVerified {
		return nil
	}
	if u.EmailVerificationTokenHash == "" || u.EmailVerificationTokenHash != tokenHash {
		return shared.NewDomainError("INVALID_VERIFICATION_TOKEN", "verification token is invalid")
	}
	if u.EmailVerificationExpiresAt == nil || time.Now().After(*u.EmailVerificationExpiresAt) {
		return shared.NewDomainError("VERIFICATION_TOKEN_EXPIRED", "verification token has expired")
	}

	u.EmailVerified = true
	u.EmailVerificationTokenHash = ""
	u.EmailVerificationExpiresAt = nil
	if u.Status == AdminUserStatusPending {
		u.Status = AdminUserStatusActive
	}
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	u.AddDomainEvent(NewAdminEmailVerifiedEvent(u))
	return nil
}

// Activate activates the admin account
func (u *AdminUser) Activate() error {
	if u.Status == AdminUserStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "user is already active")
	}

	u.Status = AdminUserStatusActive
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// Deactivate deactivates the admin account
func (u *AdminUser) Deactivate() error {
	if u.Status == AdminUserStatusDeactivated {
		return shared.NewDomainError("ALREADY_DEACTIVATED", "user is already deactivated")
	}

	u.Status = AdminUserStatusDeactivated
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// RecordLoginSuccess records a successful login
func (u *AdminUser) RecordLoginSuccess(ip string) {
	now := time.Now()
	u.LastLoginAt = &now
	u.LastLoginIP = ip
	u.FailedAttempts = 0
	if u.Status == AdminUserStatusLocked {
		u.Status = AdminUserStatusActive
		u.LockedUntil = nil
	}
	u.UpdatedAt = now
	u.IncrementVersion()
}

// RecordLoginFailure records a failed attempt. Returns true when the
// account was locked by this attempt.
func (u *AdminUser) RecordLoginFailure() bool {
	u.FailedAttempts++
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	if u.FailedAttempts >= MaxFailedLogins {
		lockedUntil := time.Now().Add(LoginLockDuration)
		u.Status = AdminUserStatusLocked
		u.LockedUntil = &lockedUntil
		u.AddDomainEvent(NewAdminUserLockedEvent(u))
		return true
	}
	return false
}

// IsLocked returns true while a login lock is in force
func (u *AdminUser) IsLocked() bool {
	if u.Status != AdminUserStatusLocked {
		return false
	}
	if u.LockedUntil != nil && time.Now().After(*u.LockedUntil) {
		return false
	}
	return true
}

// CanLogin returns true if the account accepts logins
func (u *AdminUser) CanLogin() bool {
	switch u.Status {
	case AdminUserStatusDeactivated, AdminUserStatusPending:
		return false
	}
	return !u.IsLocked()
}

// Validation functions

func validateAdminEmail(email string) error {
	email = strings.TrimSpace(email)
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "email cannot exceed 200 characters")
	}

	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "invalid email format")
	}

	return nil
}

func validateAdminName(firstName string) error {
	firstName = strings.TrimSpace(firstName)
	if firstName == "" {
		return shared.NewDomainError("INVALID_NAME", "first name is required")
	}
	if len(firstName) > 100 {
		return shared.NewDomainError("INVALID_NAME", "first name cannot exceed 100 characters")
	}
	return nil
}

// ValidatePassword enforces the password policy
func ValidatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "password cannot be empty")
	}
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "password must be at least 8 characters")
	}
	if len(password) > 128 {
		return shared.NewDomainError("INVALID_PASSWORD", "password cannot exceed 128 characters")
	}

	hasLetter := regexp.MustCompile(`[a-zA-Z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`[0-9]`).MatchString(password)
	if !hasLetter || !hasNumber {
		return shared.NewDomainError("INVALID_PASSWORD", "password must contain at least one letter and one number")
	}

	return nil
}

// HashPassword hashes a password with bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

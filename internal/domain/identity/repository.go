package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/multistore/backend/internal/domain/shared"
)

// AdminUserRepository defines the interface for admin user persistence
type AdminUserRepository interface {
	// FindByID finds an admin user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*AdminUser, error)

	// FindByEmailForStore finds a store's admin user by email
	FindByEmailForStore(ctx context.Context, storeID uuid.UUID, email string) (*AdminUser, error)

	// FindPlatformAdminByEmail finds a store-less super admin by email
	FindPlatformAdminByEmail(ctx context.Context, email string) (*AdminUser, error)

	// FindByResetTokenHash finds the user holding a hashed reset token
	FindByResetTokenHash(ctx context.Context, tokenHash string) (*AdminUser, error)

	// FindByVerificationTokenHash finds the user holding a hashed verification token
	FindByVerificationTokenHash(ctx context.Context, tokenHash string) (*AdminUser, error)

	// FindAllForStore finds a store's admin users
	FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]AdminUser, error)

	// Save creates or updates an admin user
	Save(ctx context.Context, u *AdminUser) error

	// Delete deletes an admin user
	Delete(ctx context.Context, id uuid.UUID) error

	// CountForStore counts a store's admin users
	CountForStore(ctx context.Context, storeID uuid.UUID) (int64, error)

	// ExistsByEmailForStore checks email uniqueness within a store
	ExistsByEmailForStore(ctx context.Context, storeID uuid.UUID, email string) (bool, error)
}

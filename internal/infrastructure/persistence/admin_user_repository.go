package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/multistore/backend/internal/domain/identity"
	"github.com/multistore/backend/internal/domain/shared"
)

// GormAdminUserRepository implements AdminUserRepository using GORM
type GormAdminUserRepository struct {
	db *gorm.DB
}

// NewGormAdminUserRepository creates a new GormAdminUserRepository
func NewGormAdminUserRepository(db *gorm.DB) *GormAdminUserRepository {
	return &GormAdminUserRepository{db: db}
}

// FindByID finds an admin user by ID
func (r *GormAdminUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.AdminUser, error) {
	var u identity.AdminUser
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByEmailForStore finds a store's admin user by email
func (r *GormAdminUserRepository) FindByEmailForStore(ctx context.Context, storeID uuid.UUID, email string) (*identity.AdminUser, error) {
	var u identity.AdminUser
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND email = ?", storeID, strings.ToLower(email)).
		First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindPlatformAdminByEmail finds a store-less super admin by email
func (r *GormAdminUserRepository) FindPlatformAdminByEmail(ctx context.Context, email string) (*identity.AdminUser, error) {
	var u identity.AdminUser
	if err := r.db.WithContext(ctx).
		Where("store_id IS NULL AND role = ? AND email = ?", identity.RoleSuperAdmin, strings.ToLower(email)).
		First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByResetTokenHash finds the user holding a hashed reset token
func (r *GormAdminUserRepository) FindByResetTokenHash(ctx context.Context, tokenHash string) (*identity.AdminUser, error) {
	if tokenHash == "" {
		return nil, shared.ErrNotFound
	}

	var u identity.AdminUser
	if err := r.db.WithContext(ctx).
		Where("password_reset_token_hash = ?", tokenHash).
		First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByVerificationTokenHash finds the user holding a hashed verification token
func (r *GormAdminUserRepository) FindByVerificationTokenHash(ctx context.Context, tokenHash string) (*identity.AdminUser, error) {
	if tokenHash == "" {
		return nil, shared.ErrNotFound
	}

	var u identity.AdminUser
	if err := r.db.WithContext(ctx).
		Where("email_verification_token_hash = ?", tokenHash).
		First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindAllForStore finds a store's admin users
func (r *GormAdminUserRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]identity.AdminUser, error) {
	var users []identity.AdminUser
	query := r.db.WithContext(ctx).Model(&identity.AdminUser{}).Where("store_id = ?", storeID)

	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("email LIKE ? OR first_name LIKE ? OR last_name LIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "role":
			query = query.Where("role = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, AdminUserSortFields, "created_at")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("created_at ASC")
	}

	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Save creates or updates an admin user
func (r *GormAdminUserRepository) Save(ctx context.Context, u *identity.AdminUser) error {
	return r.db.WithContext(ctx).Save(u).Error
}

// Delete deletes an admin user
func (r *GormAdminUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&identity.AdminUser{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForStore counts a store's admin users
func (r *GormAdminUserRepository) CountForStore(ctx context.Context, storeID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&identity.AdminUser{}).
		Where("store_id = ?", storeID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByEmailForStore checks email uniqueness within a store
func (r *GormAdminUserRepository) ExistsByEmailForStore(ctx context.Context, storeID uuid.UUID, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&identity.AdminUser{}).
		Where("store_id = ? AND email = ?", storeID, strings.ToLower(email)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormAdminUserRepository implements AdminUserRepository
var _ identity.AdminUserRepository = (*GormAdminUserRepository)(nil)

package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/multistore/backend/internal/domain/shared"
	"github.com/multistore/backend/internal/domain/store"
)

// GormStoreRepository implements StoreRepository using GORM
type GormStoreRepository struct {
	db *gorm.DB
}

// NewGormStoreRepository creates a new GormStoreRepository
func NewGormStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

// FindByID finds a store by its ID
func (r *GormStoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*store.Store, error) {
	var s store.Store
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindBySlug finds a store by its unique slug
func (r *GormStoreRepository) FindBySlug(ctx context.Context, slug string) (*store.Store, error) {
	var s store.Store
	if err := r.db.WithContext(ctx).
		Where("slug = ?", strings.ToLower(slug)).
		First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindByDomain finds a store by subdomain or custom domain
func (r *GormStoreRepository) FindByDomain(ctx context.Context, domain string) (*store.Store, error) {
	var s store.Store
	if err := r.db.WithContext(ctx).
		Where("subdomain = ? OR custom_domain = ?", strings.ToLower(domain), strings.ToLower(domain)).
		First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindByOwnerEmail finds a store by the owner's email address
func (r *GormStoreRepository) FindByOwnerEmail(ctx context.Context, email string) (*store.Store, error) {
	var s store.Store
	if err := r.db.WithContext(ctx).
		Where("owner_email = ?", strings.ToLower(email)).
		First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindAll finds all stores matching the filter
func (r *GormStoreRepository) FindAll(ctx context.Context, filter shared.Filter) ([]store.Store, error) {
	var stores []store.Store
	query := r.applyFilter(r.db.WithContext(ctx).Model(&store.Store{}), filter)

	if err := query.Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// FindByStatus finds stores by subscription status
func (r *GormStoreRepository) FindByStatus(ctx context.Context, status store.StoreStatus, filter shared.Filter) ([]store.Store, error) {
	var stores []store.Store
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&store.Store{}).Where("status = ?", status),
		filter,
	)

	if err := query.Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// FindTrialEndingBefore finds trial stores whose trial ends before the given time
func (r *GormStoreRepository) FindTrialEndingBefore(ctx context.Context, before time.Time) ([]store.Store, error) {
	var stores []store.Store
	if err := r.db.WithContext(ctx).
		Where("status = ? AND trial_ends_at IS NOT NULL AND trial_ends_at < ?", store.StoreStatusTrial, before).
		Order("trial_ends_at ASC").
		Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// FindSubscriptionEndingBefore finds active stores whose subscription lapses before the given time
func (r *GormStoreRepository) FindSubscriptionEndingBefore(ctx context.Context, before time.Time) ([]store.Store, error) {
	var stores []store.Store
	if err := r.db.WithContext(ctx).
		Where("status = ? AND subscription_ends_at IS NOT NULL AND subscription_ends_at < ?", store.StoreStatusActive, before).
		Order("subscription_ends_at ASC").
		Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// Save creates or updates a store
func (r *GormStoreRepository) Save(ctx context.Context, s *store.Store) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormStoreRepository) SaveWithLock(ctx context.Context, s *store.Store) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current struct{ Version int }
		if err := tx.Model(&store.Store{}).
			Where("id = ?", s.ID).
			Select("version").
			First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		// Mutators bump the in-memory version, so a store that has
		// pending changes is strictly ahead of the persisted row. A
		// database version that caught up means another writer won.
		if current.Version >= s.Version {
			return shared.ErrConcurrencyConflict
		}

		s.UpdatedAt = time.Now()

		result := tx.Model(&store.Store{}).
			Where("id = ? AND version < ?", s.ID, s.Version).
			Updates(map[string]interface{}{
				"name":                 s.Name,
				"description":          s.Description,
				"logo_url":             s.LogoURL,
				"favicon_url":          s.FaviconURL,
				"custom_domain":        s.CustomDomain,
				"owner_name":           s.OwnerName,
				"owner_phone":          s.OwnerPhone,
				"business_name":        s.BusinessName,
				"business_email":       s.BusinessEmail,
				"business_phone":       s.BusinessPhone,
				"business_address":     s.BusinessAddress,
				"gstin":                s.GSTIN,
				"status":               s.Status,
				"plan":                 s.Plan,
				"is_setup_complete":    s.IsSetupComplete,
				"maintenance_mode":     s.MaintenanceMode,
				"trial_ends_at":        s.TrialEndsAt,
				"subscription_ends_at": s.SubscriptionEndsAt,
				"version":              s.Version,
				"updated_at":           s.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return nil
	})
}

// Delete deletes a store
func (r *GormStoreRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&store.Store{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts stores matching the filter
func (r *GormStoreRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&store.Store{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsBySlug checks if a store with the given slug exists
func (r *GormStoreRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&store.Store{}).
		Where("slug = ?", strings.ToLower(slug)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByOwnerEmail checks if a store with the given owner email exists
func (r *GormStoreRepository) ExistsByOwnerEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&store.Store{}).
		Where("owner_email = ?", strings.ToLower(email)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormStoreRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, StoreSortFields, "created_at")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormStoreRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR slug LIKE ? OR owner_email LIKE ?", searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "plan":
			query = query.Where("plan = ?", value)
		case "is_setup_complete":
			query = query.Where("is_setup_complete = ?", value)
		case "maintenance_mode":
			query = query.Where("maintenance_mode = ?", value)
		}
	}

	return query
}

// GormStoreSettingsRepository implements StoreSettingsRepository using GORM
type GormStoreSettingsRepository struct {
	db *gorm.DB
}

// NewGormStoreSettingsRepository creates a new GormStoreSettingsRepository
func NewGormStoreSettingsRepository(db *gorm.DB) *GormStoreSettingsRepository {
	return &GormStoreSettingsRepository{db: db}
}

// FindByStoreID finds the settings row for a store
func (r *GormStoreSettingsRepository) FindByStoreID(ctx context.Context, storeID uuid.UUID) (*store.StoreSettings, error) {
	var settings store.StoreSettings
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &settings, nil
}

// Save creates or updates store settings
func (r *GormStoreSettingsRepository) Save(ctx context.Context, settings *store.StoreSettings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}

// Delete deletes the settings row for a store
func (r *GormStoreSettingsRepository) Delete(ctx context.Context, storeID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&store.StoreSettings{}, "store_id = ?", storeID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure implementations satisfy the repository interfaces
var (
	_ store.StoreRepository         = (*GormStoreRepository)(nil)
	_ store.StoreSettingsRepository = (*GormStoreSettingsRepository)(nil)
)

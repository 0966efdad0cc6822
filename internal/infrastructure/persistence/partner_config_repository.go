package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/multistore/backend/internal/domain/shared"
	"github.com/multistore/backend/internal/domain/shipping"
)

// GormPartnerConfigRepository implements PartnerConfigRepository using GORM
type GormPartnerConfigRepository struct {
	db *gorm.DB
}

// NewGormPartnerConfigRepository creates a new GormPartnerConfigRepository
func NewGormPartnerConfigRepository(db *gorm.DB) *GormPartnerConfigRepository {
	return &GormPartnerConfigRepository{db: db}
}

// FindByID finds a partner config by its ID
func (r *GormPartnerConfigRepository) FindByID(ctx context.Context, id uuid.UUID) (*shipping.PartnerConfig, error) {
	var c shipping.PartnerConfig
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByStoreAndType finds a store's config for one partner
func (r *GormPartnerConfigRepository) FindByStoreAndType(ctx context.Context, storeID uuid.UUID, partnerType shipping.PartnerType) (*shipping.PartnerConfig, error) {
	var c shipping.PartnerConfig
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND type = ?", storeID, partnerType).
		First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindAllForStore finds every partner config for a store
func (r *GormPartnerConfigRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID) ([]shipping.PartnerConfig, error) {
	var configs []shipping.PartnerConfig
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("priority ASC, type ASC").
		Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

// FindActiveForStore finds active partner configs ordered by priority
func (r *GormPartnerConfigRepository) FindActiveForStore(ctx context.Context, storeID uuid.UUID) ([]shipping.PartnerConfig, error) {
	var configs []shipping.PartnerConfig
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND is_active = ?", storeID, true).
		Order("priority ASC, type ASC").
		Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

// Save creates or updates a partner config
func (r *GormPartnerConfigRepository) Save(ctx context.Context, c *shipping.PartnerConfig) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// DeleteForStore deletes a partner config within a store
func (r *GormPartnerConfigRepository) DeleteForStore(ctx context.Context, storeID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&shipping.PartnerConfig{}, "store_id = ? AND id = ?", storeID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormPartnerConfigRepository implements PartnerConfigRepository
var _ shipping.PartnerConfigRepository = (*GormPartnerConfigRepository)(nil)

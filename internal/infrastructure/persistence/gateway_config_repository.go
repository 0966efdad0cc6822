package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/multistore/backend/internal/domain/payment"
	"github.com/multistore/backend/internal/domain/shared"
)

// GormGatewayConfigRepository implements GatewayConfigRepository using GORM
type GormGatewayConfigRepository struct {
	db *gorm.DB
}

// NewGormGatewayConfigRepository creates a new GormGatewayConfigRepository
func NewGormGatewayConfigRepository(db *gorm.DB) *GormGatewayConfigRepository {
	return &GormGatewayConfigRepository{db: db}
}

// FindByID finds a gateway config by its ID
func (r *GormGatewayConfigRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.GatewayConfig, error) {
	var c payment.GatewayConfig
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByStoreAndType finds a store's config for one gateway
func (r *GormGatewayConfigRepository) FindByStoreAndType(ctx context.Context, storeID uuid.UUID, gatewayType payment.GatewayType) (*payment.GatewayConfig, error) {
	var c payment.GatewayConfig
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND type = ?", storeID, gatewayType).
		First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindAllForStore finds every gateway config for a store
func (r *GormGatewayConfigRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID) ([]payment.GatewayConfig, error) {
	var configs []payment.GatewayConfig
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("type ASC").
		Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

// FindEnabledForStore finds the enabled gateway configs for a store
func (r *GormGatewayConfigRepository) FindEnabledForStore(ctx context.Context, storeID uuid.UUID) ([]payment.GatewayConfig, error) {
	var configs []payment.GatewayConfig
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND is_enabled = ?", storeID, true).
		Order("type ASC").
		Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

// Save creates or updates a gateway config
func (r *GormGatewayConfigRepository) Save(ctx context.Context, c *payment.GatewayConfig) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// DeleteForStore deletes a gateway config within a store
func (r *GormGatewayConfigRepository) DeleteForStore(ctx context.Context, storeID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&payment.GatewayConfig{}, "store_id = ? AND id = ?", storeID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormGatewayConfigRepository implements GatewayConfigRepository
var _ payment.GatewayConfigRepository = (*GormGatewayConfigRepository)(nil)

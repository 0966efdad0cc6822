package shipping

import (
	"context"

	"github.com/google/uuid"
)

// PartnerConfigRepository defines the interface for partner config persistence
type PartnerConfigRepository interface {
	// FindByID finds a partner config by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*PartnerConfig, error)

	// FindByStoreAndType finds a store's config for one partner
	FindByStoreAndType(ctx context.Context, storeID uuid.UUID, partnerType PartnerType) (*PartnerConfig, error)

	// FindAllForStore finds every partner config for a store
	FindAllForStore(ctx context.Context, storeID uuid.UUID) ([]PartnerConfig, error)

	// FindActiveForStore finds active partner configs ordered by priority
	FindActiveForStore(ctx context.Context, storeID uuid.UUID) ([]PartnerConfig, error)

	// Save creates or updates a partner config
	Save(ctx context.Context, c *PartnerConfig) error

	// DeleteForStore deletes a partner config within a store
	DeleteForStore(ctx context.Context, storeID, id uuid.UUID) error
}

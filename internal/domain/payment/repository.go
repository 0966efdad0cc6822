package payment

import (
	"context"

	"github.com/google/uuid"
)

// GatewayConfigRepository defines the interface for gateway config persistence
type GatewayConfigRepository interface {
	// FindByID finds a gateway config by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*GatewayConfig, error)

	// FindByStoreAndType finds a store's config for one gateway
	FindByStoreAndType(ctx context.Context, storeID uuid.UUID, gatewayType GatewayType) (*GatewayConfig, error)

	// FindAllForStore finds every gateway config for a store
	FindAllForStore(ctx context.Context, storeID uuid.UUID) ([]GatewayConfig, error)

	// FindEnabledForStore finds the enabled gateway configs for a store
	FindEnabledForStore(ctx context.Context, storeID uuid.UUID) ([]GatewayConfig, error)

	// Save creates or updates a gateway config
	Save(ctx context.Context, c *GatewayConfig) error

	// DeleteForStore deletes a gateway config within a store
	DeleteForStore(ctx context.Context, storeID, id uuid.UUID) error
}

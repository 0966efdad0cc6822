package customer

import (
	"context"

	"github.com/google/uuid"

	"github.com/multistore/backend/internal/domain/shared"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// FindByID finds a customer by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindByIDForStore finds a customer by ID within a store
	FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*Customer, error)

	// FindByEmail finds a customer by email within a store
	FindByEmail(ctx context.Context, storeID uuid.UUID, email string) (*Customer, error)

	// FindAllForStore finds all customers for a store
	FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]Customer, error)

	// FindByGroup finds customers in a segmentation group
	FindByGroup(ctx context.Context, storeID uuid.UUID, group CustomerGroup, filter shared.Filter) ([]Customer, error)

	// Save creates or updates a customer
	Save(ctx context.Context, c *Customer) error

	// DeleteForStore deletes a customer within a store
	DeleteForStore(ctx context.Context, storeID, id uuid.UUID) error

	// CountForStore counts customers for a store
	CountForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsByEmail checks if a customer with the given email exists in the store
	ExistsByEmail(ctx context.Context, storeID uuid.UUID, email string) (bool, error)
}

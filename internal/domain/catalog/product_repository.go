package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/multistore/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDForStore finds a product by ID within a store
	FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*Product, error)

	// FindBySlug finds a product by its slug within a store
	FindBySlug(ctx context.Context, storeID uuid.UUID, slug string) (*Product, error)

	// FindBySKU finds a product by its SKU within a store
	FindBySKU(ctx context.Context, storeID uuid.UUID, sku string) (*Product, error)

	// FindAllForStore finds all products for a store
	FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]Product, error)

	// FindByCategory finds all products in a specific category
	FindByCategory(ctx context.Context, storeID, categoryID uuid.UUID, filter shared.Filter) ([]Product, error)

	// FindByStatus finds products by status for a store
	FindByStatus(ctx context.Context, storeID uuid.UUID, status ProductStatus, filter shared.Filter) ([]Product, error)

	// FindFeatured finds featured active products for a store
	FindFeatured(ctx context.Context, storeID uuid.UUID, limit int) ([]Product, error)

	// FindLowStock finds tracked products at or below their low stock threshold
	FindLowStock(ctx context.Context, storeID uuid.UUID) ([]Product, error)

	// FindByIDs finds multiple products by their IDs within a store
	FindByIDs(ctx context.Context, storeID uuid.UUID, ids []uuid.UUID) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// SaveWithLock updates a product with optimistic locking on the version field
	SaveWithLock(ctx context.Context, product *Product) error

	// DeleteForStore deletes a product within a store
	DeleteForStore(ctx context.Context, storeID, id uuid.UUID) error

	// CountForStore counts products for a store
	CountForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (int64, error)

	// CountByCategory counts products in a specific category
	CountByCategory(ctx context.Context, storeID, categoryID uuid.UUID) (int64, error)

	// ExistsBySlug checks if a product with the given slug exists in the store
	ExistsBySlug(ctx context.Context, storeID uuid.UUID, slug string) (bool, error)

	// ExistsBySKU checks if a product with the given SKU exists in the store
	ExistsBySKU(ctx context.Context, storeID uuid.UUID, sku string) (bool, error)
}

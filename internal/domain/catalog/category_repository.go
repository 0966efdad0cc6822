package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/multistore/backend/internal/domain/shared"
)

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindByID finds a category by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindByIDForStore finds a category by ID within a store
	FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*Category, error)

	// FindBySlug finds a category by its slug within a store
	FindBySlug(ctx context.Context, storeID uuid.UUID, slug string) (*Category, error)

	// FindAllForStore finds all categories for a store
	FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]Category, error)

	// FindRoots finds all root categories for a store
	FindRoots(ctx context.Context, storeID uuid.UUID) ([]Category, error)

	// FindChildren finds direct children of a category
	FindChildren(ctx context.Context, storeID, parentID uuid.UUID) ([]Category, error)

	// FindDescendants finds all descendants of a category using its path prefix
	FindDescendants(ctx context.Context, storeID uuid.UUID, path string) ([]Category, error)

	// Save creates or updates a category
	Save(ctx context.Context, category *Category) error

	// DeleteForStore deletes a category within a store
	DeleteForStore(ctx context.Context, storeID, id uuid.UUID) error

	// CountForStore counts categories for a store
	CountForStore(ctx context.Context, storeID uuid.UUID) (int64, error)

	// HasChildren checks if a category has direct children
	HasChildren(ctx context.Context, storeID, id uuid.UUID) (bool, error)

	// ExistsBySlug checks if a category with the given slug exists in the store
	ExistsBySlug(ctx context.Context, storeID uuid.UUID, slug string) (bool, error)
}

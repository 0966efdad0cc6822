package content

import (
	"context"

	"github.com/google/uuid"

	"github.com/multistore/backend/internal/domain/shared"
)

// BlogRepository defines the interface for blog persistence
type BlogRepository interface {
	// FindByIDForStore finds a post by ID within a store
	FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*Blog, error)

	// FindBySlug finds a post by slug within a store
	FindBySlug(ctx context.Context, storeID uuid.UUID, slug string) (*Blog, error)

	// FindAllForStore finds all posts for a store
	FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]Blog, error)

	// FindPublished finds published posts, newest first
	FindPublished(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]Blog, error)

	// FindFeatured finds published featured posts
	FindFeatured(ctx context.Context, storeID uuid.UUID, limit int) ([]Blog, error)

	// Save creates or updates a post
	Save(ctx context.Context, b *Blog) error

	// DeleteForStore deletes a post within a store
	DeleteForStore(ctx context.Context, storeID, id uuid.UUID) error

	// CountForStore counts posts for a store
	CountForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsBySlug checks if a post with the given slug exists in the store
	ExistsBySlug(ctx context.Context, storeID uuid.UUID, slug string) (bool, error)
}

// PolicyRepository defines the interface for policy persistence
type PolicyRepository interface {
	// FindByType finds a store's policy of one type
	FindByType(ctx context.Context, storeID uuid.UUID, policyType PolicyType) (*Policy, error)

	// FindAllForStore finds every policy for a store
	FindAllForStore(ctx context.Context, storeID uuid.UUID) ([]Policy, error)

	// FindPublishedForStore finds the published policies for a store
	FindPublishedForStore(ctx context.Context, storeID uuid.UUID) ([]Policy, error)

	// Save creates or updates a policy
	Save(ctx context.Context, p *Policy) error

	// DeleteForStore deletes a policy within a store
	DeleteForStore(ctx context.Context, storeID, id uuid.UUID) error
}

// HeroSectionRepository defines the interface for banner persistence
type HeroSectionRepository interface {
	// FindByIDForStore finds a banner by ID within a store
	FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*HeroSection, error)

	// FindAllForStore finds every banner for a store ordered by sort order
	FindAllForStore(ctx context.Context, storeID uuid.UUID) ([]HeroSection, error)

	// FindActiveForStore finds active banners ordered by sort order
	FindActiveForStore(ctx context.Context, storeID uuid.UUID) ([]HeroSection, error)

	// Save creates or updates a banner
	Save(ctx context.Context, h *HeroSection) error

	// SaveAll persists a batch of banners in one transaction, used by reorder
	SaveAll(ctx context.Context, banners []HeroSection) error

	// DeleteForStore deletes a banner within a store
	DeleteForStore(ctx context.Context, storeID, id uuid.UUID) error
}

// ContactDetailsRepository defines the interface for contact page persistence
type ContactDetailsRepository interface {
	// FindByStoreID finds the store's contact page
	FindByStoreID(ctx context.Context, storeID uuid.UUID) (*ContactDetails, error)

	// Save creates or updates the contact page
	Save(ctx context.Context, c *ContactDetails) error

	// Delete deletes the store's contact page
	Delete(ctx context.Context, storeID uuid.UUID) error
}

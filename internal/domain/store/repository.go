package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/multistore/backend/internal/domain/shared"
)

// StoreRepository defines the interface for store persistence
type StoreRepository interface {
	// FindByID finds a store by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Store, error)

	// FindBySlug finds a store by its unique slug
	FindBySlug(ctx context.Context, slug string) (*Store, error)

	// FindByDomain finds a store by subdomain or custom domain
	FindByDomain(ctx context.Context, domain string) (*Store, error)

	// FindByOwnerEmail finds a store by the owner's email address
	FindByOwnerEmail(ctx context.Context, email string) (*Store, error)

	// FindAll finds all stores matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Store, error)

	// FindByStatus finds stores by subscription status
	FindByStatus(ctx context.Context, status StoreStatus, filter shared.Filter) ([]Store, error)

	// FindTrialEndingBefore finds trial stores whose trial ends before the given time
	FindTrialEndingBefore(ctx context.Context, before time.Time) ([]Store, error)

	// FindSubscriptionEndingBefore finds active stores whose subscription lapses before the given time
	FindSubscriptionEndingBefore(ctx context.Context, before time.Time) ([]Store, error)

	// Save creates or updates a store
	Save(ctx context.Context, s *Store) error

	// SaveWithLock updates a store with optimistic locking on the version field
	SaveWithLock(ctx context.Context, s *Store) error

	// Delete deletes a store
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts stores matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsBySlug checks if a store with the given slug exists
	ExistsBySlug(ctx context.Context, slug string) (bool, error)

	// ExistsByOwnerEmail checks if a store with the given owner email exists
	ExistsByOwnerEmail(ctx context.Context, email string) (bool, error)
}

// StoreSettingsRepository defines the interface for store settings persistence
type StoreSettingsRepository interface {
	// FindByStoreID finds the settings row for a store
	FindByStoreID(ctx context.Context, storeID uuid.UUID) (*StoreSettings, error)

	// Save creates or updates store settings
	Save(ctx context.Context, settings *StoreSettings) error

	// Delete deletes the settings row for a store
	Delete(ctx context.Context, storeID uuid.UUID) error
}

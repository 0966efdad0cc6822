package order

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/multistore/backend/internal/domain/shared"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIDForStore finds an order by ID within a store
	FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*Order, error)

	// FindByOrderNumber finds an order by its number within a store
	FindByOrderNumber(ctx context.Context, storeID uuid.UUID, orderNumber string) (*Order, error)

	// FindByToken finds an order by its guest access token
	FindByToken(ctx context.Context, token string) (*Order, error)

	// FindByTransactionID finds an order by the gateway transaction ID
	FindByTransactionID(ctx context.Context, transactionID string) (*Order, error)

	// FindAllForStore finds all orders for a store with filtering
	FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]Order, error)

	// FindByCustomer finds orders placed by a customer
	FindByCustomer(ctx context.Context, storeID, customerID uuid.UUID, filter shared.Filter) ([]Order, error)

	// FindByStatus finds orders by lifecycle status
	FindByStatus(ctx context.Context, storeID uuid.UUID, status OrderStatus, filter shared.Filter) ([]Order, error)

	// FindByPaymentStatus finds orders by payment status
	FindByPaymentStatus(ctx context.Context, storeID uuid.UUID, status PaymentStatus, filter shared.Filter) ([]Order, error)

	// FindStalePending finds unpaid pending orders created before the cutoff
	FindStalePending(ctx context.Context, before time.Time, limit int) ([]Order, error)

	// Save creates or updates an order with its items
	Save(ctx context.Context, o *Order) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, o *Order) error

	// DeleteForStore deletes an order within a store
	DeleteForStore(ctx context.Context, storeID, id uuid.UUID) error

	// CountForStore counts orders for a store
	CountForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (int64, error)

	// CountByStatus counts orders by lifecycle status
	CountByStatus(ctx context.Context, storeID uuid.UUID, status OrderStatus) (int64, error)

	// CountPlacedSince counts orders placed since the given time, for plan quotas
	CountPlacedSince(ctx context.Context, storeID uuid.UUID, since time.Time) (int64, error)

	// ExistsByOrderNumber checks if an order number exists for a store
	ExistsByOrderNumber(ctx context.Context, storeID uuid.UUID, orderNumber string) (bool, error)

	// GenerateOrderNumber generates the next unique order number for a store
	GenerateOrderNumber(ctx context.Context, storeID uuid.UUID, prefix string) (string, error)
}

package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/multistore/backend/internal/domain/order"
	"github.com/multistore/backend/internal/domain/shared"
)

// orderNumberSequence holds the per-store counter behind order number generation.
// The row is locked FOR UPDATE while the next number is assigned.
type orderNumberSequence struct {
	StoreID   uuid.UUID `gorm:"type:char(36);primaryKey"`
	NextValue int64     `gorm:"not null;default:1"`
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (orderNumberSequence) TableName() string {
	return "order_number_sequences"
}

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByIDForStore finds an order by ID within a store
func (r *GormOrderRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("store_id = ? AND id = ?", storeID, id).
		First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByOrderNumber finds an order by its number within a store
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, storeID uuid.UUID, orderNumber string) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("store_id = ? AND order_number = ?", storeID, orderNumber).
		First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByToken finds an order by its guest access token
func (r *GormOrderRepository) FindByToken(ctx context.Context, token string) (*order.Order, error) {
	if token == "" {
		return nil, shared.ErrNotFound
	}

	var o order.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("order_token = ?", token).
		First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByTransactionID finds an order by the gateway transaction ID
func (r *GormOrderRepository) FindByTransactionID(ctx context.Context, transactionID string) (*order.Order, error) {
	if transactionID == "" {
		return nil, shared.ErrNotFound
	}

	var o order.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("payment_transaction_id = ?", transactionID).
		First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindAllForStore finds all orders for a store with filtering
func (r *GormOrderRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	var orders []order.Order
	query := r.applyFilter(r.db.WithContext(ctx).Model(&order.Order{}).Where("store_id = ?", storeID), filter)

	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByCustomer finds orders placed by a customer
func (r *GormOrderRepository) FindByCustomer(ctx context.Context, storeID, customerID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	var orders []order.Order
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&order.Order{}).
			Where("store_id = ? AND customer_id = ?", storeID, customerID),
		filter,
	)

	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByStatus finds orders by lifecycle status
func (r *GormOrderRepository) FindByStatus(ctx context.Context, storeID uuid.UUID, status order.OrderStatus, filter shared.Filter) ([]order.Order, error) {
	var orders []order.Order
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&order.Order{}).
			Where("store_id = ? AND status = ?", storeID, status),
		filter,
	)

	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByPaymentStatus finds orders by payment status
func (r *GormOrderRepository) FindByPaymentStatus(ctx context.Context, storeID uuid.UUID, status order.PaymentStatus, filter shared.Filter) ([]order.Order, error) {
	var orders []order.Order
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&order.Order{}).
			Where("store_id = ? AND payment_status = ?", storeID, status),
		filter,
	)

	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindStalePending finds unpaid pending orders created before the cutoff
func (r *GormOrderRepository) FindStalePending(ctx context.Context, before time.Time, limit int) ([]order.Order, error) {
	if limit <= 0 {
		limit = 100
	}

	var orders []order.Order
	if err := r.db.WithContext(ctx).
		Where("status = ? AND payment_status = ? AND created_at < ?",
			order.OrderStatusPending, order.PaymentStatusPending, before).
		Order("created_at ASC").
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates an order with its items
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(o).Error; err != nil {
			return err
		}
		return r.saveItems(tx, o)
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current struct{ Version int }
		if err := tx.Model(&order.Order{}).
			Where("id = ?", o.ID).
			Select("version").
			First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		// Mutators bump the in-memory version, so an order with pending
		// changes is strictly ahead of the persisted row.
		if current.Version >= o.Version {
			return shared.ErrConcurrencyConflict
		}

		o.UpdatedAt = time.Now()

		result := tx.Model(&order.Order{}).
			Where("id = ? AND version < ?", o.ID, o.Version).
			Updates(map[string]interface{}{
				"customer_id":            o.CustomerID,
				"customer_email":         o.CustomerEmail,
				"customer_name":          o.CustomerName,
				"customer_phone":         o.CustomerPhone,
				"billing_address":        o.BillingAddress,
				"shipping_address":       o.ShippingAddress,
				"same_as_billing":        o.SameAsBilling,
				"subtotal":               o.Subtotal,
				"tax_amount":             o.TaxAmount,
				"shipping_amount":        o.ShippingAmount,
				"discount_amount":        o.DiscountAmount,
				"total_amount":           o.TotalAmount,
				"status":                 o.Status,
				"payment_status":         o.PaymentStatus,
				"fulfillment_status":     o.FulfillmentStatus,
				"payment_method":         o.PaymentMethod,
				"payment_gateway":        o.PaymentGateway,
				"payment_transaction_id": o.PaymentTransactionID,
				"payment_reference":      o.PaymentReference,
				"refunded_amount":        o.RefundedAmount,
				"shipping_method":        o.ShippingMethod,
				"shipping_partner":       o.ShippingPartner,
				"tracking_number":        o.TrackingNumber,
				"tracking_url":           o.TrackingURL,
				"coupon_code":            o.CouponCode,
				"coupon_discount":        o.CouponDiscount,
				"customer_notes":         o.CustomerNotes,
				"admin_notes":            o.AdminNotes,
				"shipped_at":             o.ShippedAt,
				"delivered_at":           o.DeliveredAt,
				"cancelled_at":           o.CancelledAt,
				"cancel_reason":          o.CancelReason,
				"version":                o.Version,
				"updated_at":             o.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		return r.saveItems(tx, o)
	})
}

// saveItems reconciles the order_items rows with the aggregate's items
func (r *GormOrderRepository) saveItems(tx *gorm.DB, o *order.Order) error {
	currentItemIDs := make([]uuid.UUID, len(o.Items))
	for i, item := range o.Items {
		currentItemIDs[i] = item.ID
	}

	if len(currentItemIDs) > 0 {
		if err := tx.Where("order_id = ? AND id NOT IN ?", o.ID, currentItemIDs).
			Delete(&order.OrderItem{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("order_id = ?", o.ID).
			Delete(&order.OrderItem{}).Error; err != nil {
			return err
		}
	}

	for i := range o.Items {
		o.Items[i].OrderID = o.ID
		if err := tx.Save(&o.Items[i]).Error; err != nil {
			return err
		}
	}

	return nil
}

// DeleteForStore deletes an order within a store
func (r *GormOrderRepository) DeleteForStore(ctx context.Context, storeID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&order.OrderItem{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&order.Order{}, "store_id = ? AND id = ?", storeID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// CountForStore counts orders for a store
func (r *GormOrderRepository) CountForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&order.Order{}).Where("store_id = ?", storeID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts orders by lifecycle status
func (r *GormOrderRepository) CountByStatus(ctx context.Context, storeID uuid.UUID, status order.OrderStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Where("store_id = ? AND status = ?", storeID, status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountPlacedSince counts orders placed since the given time, for plan quotas
func (r *GormOrderRepository) CountPlacedSince(ctx context.Context, storeID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Where("store_id = ? AND created_at >= ?", storeID, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByOrderNumber checks if an order number exists for a store
func (r *GormOrderRepository) ExistsByOrderNumber(ctx context.Context, storeID uuid.UUID, orderNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Where("store_id = ? AND order_number = ?", storeID, orderNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GenerateOrderNumber generates the next unique order number for a store.
// A per-store sequence row is locked FOR UPDATE so concurrent checkouts
// never receive the same number.
func (r *GormOrderRepository) GenerateOrderNumber(ctx context.Context, storeID uuid.UUID, prefix string) (string, error) {
	if prefix == "" {
		prefix = "ORD"
	}

	var next int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq orderNumberSequence
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("store_id = ?", storeID).
			First(&seq).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			seq = orderNumberSequence{StoreID: storeID, NextValue: 1}
			if err := tx.Create(&seq).Error; err != nil {
				return err
			}
		}

		next = seq.NextValue
		seq.NextValue++
		seq.UpdatedAt = time.Now()
		return tx.Save(&seq).Error
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%s-%05d", prefix, time.Now().Format("200601"), next), nil
}

// applyFilter applies filter options to the query
func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, OrderSortFields, "created_at")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("order_number LIKE ? OR customer_email LIKE ? OR customer_name LIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "payment_status":
			query = query.Where("payment_status = ?", value)
		case "fulfillment_status":
			query = query.Where("fulfillment_status = ?", value)
		case "payment_method":
			query = query.Where("payment_method = ?", value)
		case "is_guest_order":
			query = query.Where("is_guest_order = ?", value)
		case "source":
			query = query.Where("source = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "date_from":
			query = query.Where("created_at >= ?", value)
		case "date_to":
			query = query.Where("created_at < ?", value)
		}
	}

	return query
}

// Ensure GormOrderRepository implements OrderRepository
var _ order.OrderRepository = (*GormOrderRepository)(nil)

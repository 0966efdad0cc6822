package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/multistore/backend/internal/domain/customer"
	"github.com/multistore/backend/internal/domain/shared"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	var c customer.Customer
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByIDForStore finds a customer by ID within a store
func (r *GormCustomerRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*customer.Customer, error) {
	var c customer.Customer
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByEmail finds a customer by email within a store
func (r *GormCustomerRepository) FindByEmail(ctx context.Context, storeID uuid.UUID, email string) (*customer.Customer, error) {
	var c customer.Customer
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND email = ?", storeID, strings.ToLower(email)).
		First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindAllForStore finds all customers for a store
func (r *GormCustomerRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]customer.Customer, error) {
	var customers []customer.Customer
	query := r.applyFilter(r.db.WithContext(ctx).Model(&customer.Customer{}).Where("store_id = ?", storeID), filter)

	if err := query.Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// FindByGroup finds customers in a segmentation group
func (r *GormCustomerRepository) FindByGroup(ctx context.Context, storeID uuid.UUID, group customer.CustomerGroup, filter shared.Filter) ([]customer.Customer, error) {
	var customers []customer.Customer
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&customer.Customer{}).
			Where("store_id = ? AND `group` = ?", storeID, group),
		filter,
	)

	if err := query.Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, c *customer.Customer) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// DeleteForStore deletes a customer within a store
func (r *GormCustomerRepository) DeleteForStore(ctx context.Context, storeID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&customer.Customer{}, "store_id = ? AND id = ?", storeID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForStore counts customers for a store
func (r *GormCustomerRepository) CountForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&customer.Customer{}).Where("store_id = ?", storeID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByEmail checks if a customer with the given email exists in the store
func (r *GormCustomerRepository) ExistsByEmail(ctx context.Context, storeID uuid.UUID, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&customer.Customer{}).
		Where("store_id = ? AND email = ?", storeID, strings.ToLower(email)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormCustomerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, CustomerSortFields, "created_at")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormCustomerRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("email LIKE ? OR first_name LIKE ? OR last_name LIKE ? OR phone LIKE ?",
			searchPattern, searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "group":
			query = query.Where("`group` = ?", value)
		case "is_active":
			query = query.Where("is_active = ?", value)
		case "is_verified":
			query = query.Where("is_verified = ?", value)
		case "accepts_marketing":
			query = query.Where("accepts_marketing = ?", value)
		}
	}

	return query
}

// Ensure GormCustomerRepository implements CustomerRepository
var _ customer.CustomerRepository = (*GormCustomerRepository)(nil)

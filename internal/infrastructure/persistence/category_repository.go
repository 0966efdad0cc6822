package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/multistore/backend/internal/domain/catalog"
	"github.com/multistore/backend/internal/domain/shared"
)

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by its ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	var category catalog.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindByIDForStore finds a category by ID within a store
func (r *GormCategoryRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*catalog.Category, error) {
	var category catalog.Category
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindBySlug finds a category by its slug within a store
func (r *GormCategoryRepository) FindBySlug(ctx context.Context, storeID uuid.UUID, slug string) (*catalog.Category, error) {
	var category catalog.Category
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND slug = ?", storeID, strings.ToLower(slug)).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindAllForStore finds all categories for a store
func (r *GormCategoryRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]catalog.Category, error) {
	var categories []catalog.Category
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Category{}).Where("store_id = ?", storeID), filter)

	if err := query.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// FindRoots finds all root categories for a store
func (r *GormCategoryRepository) FindRoots(ctx context.Context, storeID uuid.UUID) ([]catalog.Category, error) {
	var categories []catalog.Category
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND parent_id IS NULL", storeID).
		Order("sort_order ASC, name ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// FindChildren finds direct children of a category
func (r *GormCategoryRepository) FindChildren(ctx context.Context, storeID, parentID uuid.UUID) ([]catalog.Category, error) {
	var categories []catalog.Category
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND parent_id = ?", storeID, parentID).
		Order("sort_order ASC, name ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// FindDescendants finds all descendants of a category using its path prefix
func (r *GormCategoryRepository) FindDescendants(ctx context.Context, storeID uuid.UUID, path string) ([]catalog.Category, error) {
	if path == "" {
		return []catalog.Category{}, nil
	}

	var categories []catalog.Category
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND path LIKE ?", storeID, path+"/%").
		Order("path ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Save creates or updates a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// DeleteForStore deletes a category within a store
func (r *GormCategoryRepository) DeleteForStore(ctx context.Context, storeID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Category{}, "store_id = ? AND id = ?", storeID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForStore counts categories for a store
func (r *GormCategoryRepository) CountForStore(ctx context.Context, storeID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Category{}).
		Where("store_id = ?", storeID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// HasChildren checks if a category has direct children
func (r *GormCategoryRepository) HasChildren(ctx context.Context, storeID, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Category{}).
		Where("store_id = ? AND parent_id = ?", storeID, id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsBySlug checks if a category with the given slug exists in the store
func (r *GormCategoryRepository) ExistsBySlug(ctx context.Context, storeID uuid.UUID, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Category{}).
		Where("store_id = ? AND slug = ?", storeID, strings.ToLower(slug)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormCategoryRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR slug LIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "parent_id":
			if value == nil {
				query = query.Where("parent_id IS NULL")
			} else {
				query = query.Where("parent_id = ?", value)
			}
		case "level":
			query = query.Where("level = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, CategorySortFields, "sort_order")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("sort_order ASC, name ASC")
	}

	return query
}

// Ensure GormCategoryRepository implements CategoryRepository
var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)

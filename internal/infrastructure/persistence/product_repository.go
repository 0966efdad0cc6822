package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/multistore/backend/internal/domain/catalog"
	"github.com/multistore/backend/internal/domain/shared"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByIDForStore finds a product by ID within a store
func (r *GormProductRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindBySlug finds a product by its slug within a store
func (r *GormProductRepository) FindBySlug(ctx context.Context, storeID uuid.UUID, slug string) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND slug = ?", storeID, strings.ToLower(slug)).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindBySKU finds a product by its SKU within a store
func (r *GormProductRepository) FindBySKU(ctx context.Context, storeID uuid.UUID, sku string) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND sku = ?", storeID, strings.ToUpper(sku)).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindAllForStore finds all products for a store
func (r *GormProductRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Product{}).Where("store_id = ?", storeID), filter)

	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindByCategory finds all products in a specific category
func (r *GormProductRepository) FindByCategory(ctx context.Context, storeID, categoryID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&catalog.Product{}).
			Where("store_id = ? AND category_id = ?", storeID, categoryID),
		filter,
	)

	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindByStatus finds products by status for a store
func (r *GormProductRepository) FindByStatus(ctx context.Context, storeID uuid.UUID, status catalog.ProductStatus, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&catalog.Product{}).
			Where("store_id = ? AND status = ?", storeID, status),
		filter,
	)

	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindFeatured finds featured active products for a store
func (r *GormProductRepository) FindFeatured(ctx context.Context, storeID uuid.UUID, limit int) ([]catalog.Product, error) {
	if limit <= 0 {
		limit = 10
	}

	var products []catalog.Product
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND status = ? AND is_featured = ?", storeID, catalog.ProductStatusActive, true).
		Order("total_sales DESC, created_at DESC").
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindLowStock finds tracked products at or below their low stock threshold
func (r *GormProductRepository) FindLowStock(ctx context.Context, storeID uuid.UUID) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND track_inventory = ? AND inventory_quantity <= low_stock_threshold", storeID, true).
		Where("status != ?", catalog.ProductStatusArchived).
		Order("inventory_quantity ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindByIDs finds multiple products by their IDs within a store
func (r *GormProductRepository) FindByIDs(ctx context.Context, storeID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}

	var products []catalog.Product
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND id IN ?", storeID, ids).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormProductRepository) SaveWithLock(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current struct{ Version int }
		if err := tx.Model(&catalog.Product{}).
			Where("id = ?", product.ID).
			Select("version").
			First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		// Mutators bump the in-memory version, so a product with pending
		// changes is strictly ahead of the persisted row.
		if current.Version >= product.Version {
			return shared.ErrConcurrencyConflict
		}

		product.UpdatedAt = time.Now()

		result := tx.Model(&catalog.Product{}).
			Where("id = ? AND version < ?", product.ID, product.Version).
			Updates(map[string]interface{}{
				"name":                product.Name,
				"slug":                product.Slug,
				"sku":                 product.SKU,
				"barcode":             product.Barcode,
				"short_description":   product.ShortDescription,
				"description":         product.Description,
				"brand":               product.Brand,
				"category_id":         product.CategoryID,
				"tags":                product.Tags,
				"price":               product.Price,
				"compare_price":       product.ComparePrice,
				"cost_price":          product.CostPrice,
				"track_inventory":     product.TrackInventory,
				"inventory_quantity":  product.InventoryQuantity,
				"low_stock_threshold": product.LowStockThreshold,
				"allow_backorders":    product.AllowBackorders,
				"weight_kg":           product.WeightKG,
				"length_cm":           product.LengthCM,
				"width_cm":            product.WidthCM,
				"height_cm":           product.HeightCM,
				"featured_image":      product.FeaturedImage,
				"images":              product.Images,
				"has_variants":        product.HasVariants,
				"variant_options":     product.VariantOptions,
				"variants":            product.Variants,
				"status":              product.Status,
				"is_featured":         product.IsFeatured,
				"is_digital":          product.IsDigital,
				"meta_title":          product.MetaTitle,
				"meta_description":    product.MetaDescription,
				"requires_shipping":   product.RequiresShipping,
				"free_shipping":       product.FreeShipping,
				"tax_exempt":          product.TaxExempt,
				"total_sales":         product.TotalSales,
				"total_revenue":       product.TotalRevenue,
				"version":             product.Version,
				"updated_at":          product.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return nil
	})
}

// DeleteForStore deletes a product within a store
func (r *GormProductRepository) DeleteForStore(ctx context.Context, storeID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Product{}, "store_id = ? AND id = ?", storeID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForStore counts products for a store
func (r *GormProductRepository) CountForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&catalog.Product{}).Where("store_id = ?", storeID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByCategory counts products in a specific category
func (r *GormProductRepository) CountByCategory(ctx context.Context, storeID, categoryID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("store_id = ? AND category_id = ?", storeID, categoryID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsBySlug checks if a product with the given slug exists in the store
func (r *GormProductRepository) ExistsBySlug(ctx context.Context, storeID uuid.UUID, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("store_id = ? AND slug = ?", storeID, strings.ToLower(slug)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsBySKU checks if a product with the given SKU exists in the store
func (r *GormProductRepository) ExistsBySKU(ctx context.Context, storeID uuid.UUID, sku string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("store_id = ? AND sku = ?", storeID, strings.ToUpper(sku)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, ProductSortFields, "created_at")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormProductRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR sku LIKE ? OR brand LIKE ?", searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "category_id":
			if value == nil {
				query = query.Where("category_id IS NULL")
			} else {
				query = query.Where("category_id = ?", value)
			}
		case "brand":
			query = query.Where("brand = ?", value)
		case "is_featured":
			query = query.Where("is_featured = ?", value)
		case "min_price":
			query = query.Where("price >= ?", value)
		case "max_price":
			query = query.Where("price <= ?", value)
		case "in_stock":
			if value == true {
				query = query.Where("track_inventory = false OR inventory_quantity > 0")
			} else {
				query = query.Where("track_inventory = true AND inventory_quantity <= 0")
			}
		}
	}

	return query
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)

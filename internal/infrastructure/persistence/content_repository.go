package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/multistore/backend/internal/domain/content"
	"github.com/multistore/backend/internal/domain/shared"
)

// GormBlogRepository implements BlogRepository using GORM
type GormBlogRepository struct {
	db *gorm.DB
}

// NewGormBlogRepository creates a new GormBlogRepository
func NewGormBlogRepository(db *gorm.DB) *GormBlogRepository {
	return &GormBlogRepository{db: db}
}

// FindByIDForStore finds a post by ID within a store
func (r *GormBlogRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*content.Blog, error) {
	var b content.Blog
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FindBySlug finds a post by slug within a store
func (r *GormBlogRepository) FindBySlug(ctx context.Context, storeID uuid.UUID, slug string) (*content.Blog, error) {
	var b content.Blog
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND slug = ?", storeID, strings.ToLower(slug)).
		First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FindAllForStore finds all posts for a store
func (r *GormBlogRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]content.Blog, error) {
	var posts []content.Blog
	query := r.applyFilter(r.db.WithContext(ctx).Model(&content.Blog{}).Where("store_id = ?", storeID), filter)

	if err := query.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// FindPublished finds published posts, newest first
func (r *GormBlogRepository) FindPublished(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]content.Blog, error) {
	var posts []content.Blog
	query := r.db.WithContext(ctx).Model(&content.Blog{}).
		Where("store_id = ? AND status = ?", storeID, content.BlogStatusPublished)

	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Order("published_at DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// FindFeatured finds published featured posts
func (r *GormBlogRepository) FindFeatured(ctx context.Context, storeID uuid.UUID, limit int) ([]content.Blog, error) {
	if limit <= 0 {
		limit = 5
	}

	var posts []content.Blog
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND status = ? AND is_featured = ?", storeID, content.BlogStatusPublished, true).
		Order("published_at DESC").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Save creates or updates a post
func (r *GormBlogRepository) Save(ctx context.Context, b *content.Blog) error {
	return r.db.WithContext(ctx).Save(b).Error
}

// DeleteForStore deletes a post within a store
func (r *GormBlogRepository) DeleteForStore(ctx context.Context, storeID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&content.Blog{}, "store_id = ? AND id = ?", storeID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForStore counts posts for a store
func (r *GormBlogRepository) CountForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&content.Blog{}).Where("store_id = ?", storeID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsBySlug checks if a post with the given slug exists in the store
func (r *GormBlogRepository) ExistsBySlug(ctx context.Context, storeID uuid.UUID, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&content.Blog{}).
		Where("store_id = ? AND slug = ?", storeID, strings.ToLower(slug)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormBlogRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, BlogPostSortFields, "created_at")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormBlogRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR slug LIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "is_featured":
			query = query.Where("is_featured = ?", value)
		case "category":
			query = query.Where("category = ?", value)
		case "tag":
			query = query.Where("JSON_CONTAINS(tags, JSON_QUOTE(?))", value)
		}
	}

	return query
}

// GormPolicyRepository implements PolicyRepository using GORM
type GormPolicyRepository struct {
	db *gorm.DB
}

// NewGormPolicyRepository creates a new GormPolicyRepository
func NewGormPolicyRepository(db *gorm.DB) *GormPolicyRepository {
	return &GormPolicyRepository{db: db}
}

// FindByType finds a store's policy of one type
func (r *GormPolicyRepository) FindByType(ctx context.Context, storeID uuid.UUID, policyType content.PolicyType) (*content.Policy, error) {
	var p content.Policy
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND type = ?", storeID, policyType).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindAllForStore finds every policy for a store
func (r *GormPolicyRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID) ([]content.Policy, error) {
	var policies []content.Policy
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("type ASC").
		Find(&policies).Error; err != nil {
		return nil, err
	}
	return policies, nil
}

// FindPublishedForStore finds the published policies for a store
func (r *GormPolicyRepository) FindPublishedForStore(ctx context.Context, storeID uuid.UUID) ([]content.Policy, error) {
	var policies []content.Policy
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND is_published = ?", storeID, true).
		Order("type ASC").
		Find(&policies).Error; err != nil {
		return nil, err
	}
	return policies, nil
}

// Save creates or updates a policy
func (r *GormPolicyRepository) Save(ctx context.Context, p *content.Policy) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// DeleteForStore deletes a policy within a store
func (r *GormPolicyRepository) DeleteForStore(ctx context.Context, storeID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&content.Policy{}, "store_id = ? AND id = ?", storeID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormHeroSectionRepository implements HeroSectionRepository using GORM
type GormHeroSectionRepository struct {
	db *gorm.DB
}

// NewGormHeroSectionRepository creates a new GormHeroSectionRepository
func NewGormHeroSectionRepository(db *gorm.DB) *GormHeroSectionRepository {
	return &GormHeroSectionRepository{db: db}
}

// FindByIDForStore finds a banner by ID within a store
func (r *GormHeroSectionRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*content.HeroSection, error) {
	var h content.HeroSection
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		First(&h).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &h, nil
}

// FindAllForStore finds every banner for a store ordered by sort order
func (r *GormHeroSectionRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID) ([]content.HeroSection, error) {
	var banners []content.HeroSection
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("sort_order ASC, created_at ASC").
		Find(&banners).Error; err != nil {
		return nil, err
	}
	return banners, nil
}

// FindActiveForStore finds active banners ordered by sort order
func (r *GormHeroSectionRepository) FindActiveForStore(ctx context.Context, storeID uuid.UUID) ([]content.HeroSection, error) {
	var banners []content.HeroSection
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND is_active = ?", storeID, true).
		Order("sort_order ASC, created_at ASC").
		Find(&banners).Error; err != nil {
		return nil, err
	}
	return banners, nil
}

// Save creates or updates a banner
func (r *GormHeroSectionRepository) Save(ctx context.Context, h *content.HeroSection) error {
	return r.db.WithContext(ctx).Save(h).Error
}

// SaveAll persists a batch of banners in one transaction, used by reorder
func (r *GormHeroSectionRepository) SaveAll(ctx context.Context, banners []content.HeroSection) error {
	if len(banners) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range banners {
			if err := tx.Save(&banners[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteForStore deletes a banner within a store
func (r *GormHeroSectionRepository) DeleteForStore(ctx context.Context, storeID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&content.HeroSection{}, "store_id = ? AND id = ?", storeID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormContactDetailsRepository implements ContactDetailsRepository using GORM
type GormContactDetailsRepository struct {
	db *gorm.DB
}

// NewGormContactDetailsRepository creates a new GormContactDetailsRepository
func NewGormContactDetailsRepository(db *gorm.DB) *GormContactDetailsRepository {
	return &GormContactDetailsRepository{db: db}
}

// FindByStoreID finds the store's contact page
func (r *GormContactDetailsRepository) FindByStoreID(ctx context.Context, storeID uuid.UUID) (*content.ContactDetails, error) {
	var c content.ContactDetails
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Save creates or updates the contact page
func (r *GormContactDetailsRepository) Save(ctx context.Context, c *content.ContactDetails) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// Delete deletes the store's contact page
func (r *GormContactDetailsRepository) Delete(ctx context.Context, storeID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&content.ContactDetails{}, "store_id = ?", storeID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure implementations satisfy the repository interfaces
var (
	_ content.BlogRepository           = (*GormBlogRepository)(nil)
	_ content.PolicyRepository         = (*GormPolicyRepository)(nil)
	_ content.HeroSectionRepository    = (*GormHeroSectionRepository)(nil)
	_ content.ContactDetailsRepository = (*GormContactDetailsRepository)(nil)
)

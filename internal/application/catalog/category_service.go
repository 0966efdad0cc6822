package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/multistore/backend/internal/domain/catalog"
	"github.com/multistore/backend/internal/domain/shared"
)

// CategoryService handles category-related business operations
type CategoryService struct {
	categoryRepo   catalog.CategoryRepository
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(
	categoryRepo catalog.CategoryRepository,
	productRepo catalog.ProductRepository,
	eventPublisher shared.EventPublisher,
) *CategoryService {
	return &CategoryService{
		categoryRepo:   categoryRepo,
		productRepo:    productRepo,
		eventPublisher: eventPublisher,
	}
}

func (s *CategoryService) publishDomainEvents(ctx context.Context, aggregate shared.AggregateRoot) {
	if s.eventPublisher == nil {
		aggregate.ClearDomainEvents()
		return
	}
	events := aggregate.GetDomainEvents()
	if len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
	}
	aggregate.ClearDomainEvents()
}

// Create creates a new category, as a root or under a parent
func (s *CategoryService) Create(ctx context.Context, storeID uuid.UUID, req CreateCategoryRequest) (*CategoryResponse, error) {
	exists, err := s.categoryRepo.ExistsBySlug(ctx, storeID, req.Slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Category with this slug already exists")
	}

	var category *catalog.Category

	if req.ParentID != nil {
		parent, err := s.categoryRepo.FindByIDForStore(ctx, storeID, *req.ParentID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_PARENT", "Parent category not found")
			}
			return nil, err
		}

		category, err = catalog.NewChildCategory(storeID, req.Name, req.Slug, parent)
		if err != nil {
			return nil, err
		}
	} else {
		category, err = catalog.NewCategory(storeID, req.Name, req.Slug)
		if err != nil {
			return nil, err
		}
	}

	if req.Description != "" {
		if err := category.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}
	if req.ImageURL != "" {
		if err := category.SetImage(req.ImageURL); err != nil {
			return nil, err
		}
	}
	if req.SortOrder != nil {
		category.SetSortOrder(*req.SortOrder)
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, category)

	response := ToCategoryResponse(category)
	return &response, nil
}

// GetByID retrieves a category by ID within a store
func (s *CategoryService) GetByID(ctx context.Context, storeID, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByIDForStore(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	response := ToCategoryResponse(category)
	response.ProductCount, err = s.productRepo.CountByCategory(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// GetBySlug retrieves a category by slug, used by the storefront
func (s *CategoryService) GetBySlug(ctx context.Context, storeID uuid.UUID, slug string) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindBySlug(ctx, storeID, slug)
	if err != nil {
		return nil, err
	}
	response := ToCategoryResponse(category)
	return &response, nil
}

// List retrieves all categories for a store
func (s *CategoryService) List(ctx context.Context, storeID uuid.UUID) ([]CategoryResponse, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 500
	filter.OrderBy = "sort_order"
	filter.OrderDir = "asc"

	categories, err := s.categoryRepo.FindAllForStore(ctx, storeID, filter)
	if err != nil {
		return nil, err
	}
	return ToCategoryResponses(categories), nil
}

// Tree returns the store's categories as a nested tree ordered by sort order
func (s *CategoryService) Tree(ctx context.Context, storeID uuid.UUID) ([]CategoryTreeNode, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 500
	filter.OrderBy = "sort_order"
	filter.OrderDir = "asc"

	categories, err := s.categoryRepo.FindAllForStore(ctx, storeID, filter)
	if err != nil {
		return nil, err
	}

	childrenOf := make(map[uuid.UUID][]*catalog.Category)
	var roots []*catalog.Category
	for i := range categories {
		c := &categories[i]
		if c.ParentID == nil {
			roots = append(roots, c)
		} else {
			childrenOf[*c.ParentID] = append(childrenOf[*c.ParentID], c)
		}
	}

	var build func(c *catalog.Category) CategoryTreeNode
	build = func(c *catalog.Category) CategoryTreeNode {
		node := CategoryTreeNode{CategoryResponse: ToCategoryResponse(c), Children: []CategoryTreeNode{}}
		for _, child := range childrenOf[c.ID] {
			node.Children = append(node.Children, build(child))
		}
		return node
	}

	tree := make([]CategoryTreeNode, 0, len(roots))
	for _, root := range roots {
		tree = append(tree, build(root))
	}
	return tree, nil
}

// Update updates a category's details
func (s *CategoryService) Update(ctx context.Context, storeID, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByIDForStore(ctx, storeID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil {
		name := category.Name
		if req.Name != nil {
			name = *req.Name
		}
		description := category.Description
		if req.Description != nil {
			description = *req.Description
		}
		if err := category.Update(name, description); err != nil {
			return nil, err
		}
	}
	if req.ImageURL != nil {
		if err := category.SetImage(*req.ImageURL); err != nil {
			return nil, err
		}
	}
	if req.SortOrder != nil {
		category.SetSortOrder(*req.SortOrder)
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, category)

	response := ToCategoryResponse(category)
	return &response, nil
}

// Activate makes a category visible on the storefront
func (s *CategoryService) Activate(ctx context.Context, storeID, id uuid.UUID) error {
	category, err := s.categoryRepo.FindByIDForStore(ctx, storeID, id)
	if err != nil {
		return err
	}
	if err := category.Activate(); err != nil {
		return err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return err
	}
	s.publishDomainEvents(ctx, category)
	return nil
}

// Deactivate hides a category from the storefront
func (s *CategoryService) Deactivate(ctx context.Context, storeID, id uuid.UUID) error {
	category, err := s.categoryRepo.FindByIDForStore(ctx, storeID, id)
	if err != nil {
		return err
	}
	if err := category.Deactivate(); err != nil {
		return err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return err
	}
	s.publishDomainEvents(ctx, category)
	return nil
}

// Delete deletes a category. Categories with children or products cannot
// be deleted.
func (s *CategoryService) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByIDForStore(ctx, storeID, id); err != nil {
		return err
	}

	hasChildren, err := s.categoryRepo.HasChildren(ctx, storeID, id)
	if err != nil {
		return err
	}
	if hasChildren {
		return shared.NewDomainError("HAS_CHILDREN", "Cannot delete a category that has child categories")
	}

	productCount, err := s.productRepo.CountByCategory(ctx, storeID, id)
	if err != nil {
		return err
	}
	if productCount > 0 {
		return shared.NewDomainError("HAS_PRODUCTS", "Cannot delete a category that has products")
	}

	return s.categoryRepo.DeleteForStore(ctx, storeID, id)
}

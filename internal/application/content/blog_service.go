package content

import (
	"context"

	"github.com/google/uuid"

	"github.com/multistore/backend/internal/domain/content"
	"github.com/multistore/backend/internal/domain/shared"
)

// BlogService handles blog post management and the public blog feed
type BlogService struct {
	blogRepo content.BlogRepository
}

// NewBlogService creates a new blog service
func NewBlogService(blogRepo content.BlogRepository) *BlogService {
	return &BlogService{blogRepo: blogRepo}
}

// Create creates a draft blog post
func (s *BlogService) Create(ctx context.Context, storeID uuid.UUID, req CreateBlogRequest) (*BlogResponse, error) {
	exists, err := s.blogRepo.ExistsBySlug(ctx, storeID, req.Slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Post with this slug already exists")
	}

	b, err := content.NewBlog(storeID, req.Title, req.Slug, req.Content)
	if err != nil {
		return nil, err
	}

	if req.Excerpt != "" {
		if err := b.Update(b.Title, b.Slug, b.Content, req.Excerpt); err != nil {
			return nil, err
		}
	}
	if req.AuthorID != nil || req.AuthorName != "" {
		b.SetAuthor(req.AuthorID, req.AuthorName)
	}
	if req.FeaturedImage != "" {
		b.SetFeaturedImage(req.FeaturedImage, req.FeaturedImageAlt)
	}
	if req.Category != "" || len(req.Tags) > 0 {
		b.SetTags(req.Category, req.Tags)
	}
	if req.MetaTitle != "" || req.MetaDescription != "" {
		if err := b.SetSEO(req.MetaTitle, req.MetaDescription); err != nil {
			return nil, err
		}
	}
	if req.IsFeatured {
		b.SetFeatured(true)
	}

	if err := s.blogRepo.Save(ctx, b); err != nil {
		return nil, err
	}

	response := ToBlogResponse(b)
	return &response, nil
}

// Update partially updates a blog post
func (s *BlogService) Update(ctx context.Context, storeID, id uuid.UUID, req UpdateBlogRequest) (*BlogResponse, error) {
	b, err := s.blogRepo.FindByIDForStore(ctx, storeID, id)
	if err != nil {
		return nil, err
	}

	title, slug, body, excerpt := b.Title, b.Slug, b.Content, b.Excerpt
	if req.Title != nil {
		title = *req.Title
	}
	if req.Slug != nil && *req.Slug != b.Slug {
		exists, err := s.blogRepo.ExistsBySlug(ctx, storeID, *req.Slug)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Post with this slug already exists")
		}
		slug = *req.Slug
	}
	if req.Content != nil {
		body = *req.Content
	}
	if req.Excerpt != nil {
		excerpt = *req.Excerpt
	}
	if err := b.Update(title, slug, body, excerpt); err != nil {
		return nil, err
	}

	if req.AuthorName != nil {
		b.SetAuthor(b.AuthorID, *req.AuthorName)
	}
	if req.FeaturedImage != nil {
		alt := b.FeaturedImageAlt
		if req.FeaturedImageAlt != nil {
			alt = *req.FeaturedImageAlt
		}
		b.SetFeaturedImage(*req.FeaturedImage, alt)
	}
	if req.Category != nil || req.Tags != nil {
		category := b.Category
		if req.Category != nil {
			category = *req.Category
		}
		tags := []string(b.Tags)
		if req.Tags != nil {
			tags = req.Tags
		}
		b.SetTags(category, tags)
	}
	if req.MetaTitle != nil || req.MetaDescription != nil {
		metaTitle := b.MetaTitle
		if req.MetaTitle != nil {
			metaTitle = *req.MetaTitle
		}
		metaDescription := b.MetaDescription
		if req.MetaDescription != nil {
			metaDescription = *req.MetaDescription
		}
		if err := b.SetSEO(metaTitle, metaDescription); err != nil {
			return nil, err
		}
	}
	if req.IsFeatured != nil {
		b.SetFeatured(*req.IsFeatured)
	}

	if err := s.blogRepo.Save(ctx, b); err != nil {
		return nil, err
	}

	response := ToBlogResponse(b)
	return &response, nil
}

// Publish makes a post publicly visible
func (s *BlogService) Publish(ctx context.Context, storeID, id uuid.UUID) (*BlogResponse, error) {
	return s.transition(ctx, storeID, id, func(b *content.Blog) error {
		return b.Publish()
	})
}

// Unpublish reverts a post to draft
func (s *BlogService) Unpublish(ctx context.Context, storeID, id uuid.UUID) (*BlogResponse, error) {
	return s.transition(ctx, storeID, id, func(b *content.Blog) error {
		b.Unpublish()
		return nil
	})
}

// Archive hides a post from all listings without deleting it
func (s *BlogService) Archive(ctx context.Context, storeID, id uuid.UUID) (*BlogResponse, error) {
	return s.transition(ctx, storeID, id, func(b *content.Blog) error {
		b.Archive()
		return nil
	})
}

// Get returns a post by ID for the admin panel
func (s *BlogService) Get(ctx context.Context, storeID, id uuid.UUID) (*BlogResponse, error) {
	b, err := s.blogRepo.FindByIDForStore(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	response := ToBlogResponse(b)
	return &response, nil
}

// GetPublishedBySlug returns a published post for the storefront and
// counts the view. The view counter write is tolerated to fail.
func (s *BlogService) GetPublishedBySlug(ctx context.Context, storeID uuid.UUID, slug string) (*BlogResponse, error) {
	b, err := s.blogRepo.FindBySlug(ctx, storeID, slug)
	if err != nil {
		return nil, err
	}
	if !b.IsPublished() {
		return nil, shared.ErrNotFound
	}

	b.RecordView()
	_ = s.blogRepo.Save(ctx, b)

	response := ToBlogResponse(b)
	return &response, nil
}

// List returns posts for the admin panel with filtering and paging
func (s *BlogService) List(ctx context.Context, storeID uuid.UUID, filter BlogListFilter) ([]BlogListResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Category != "" {
		domainFilter.Filters["category"] = filter.Category
	}
	if filter.Featured != nil {
		domainFilter.Filters["is_featured"] = *filter.Featured
	}

	blogs, err := s.blogRepo.FindAllForStore(ctx, storeID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.blogRepo.CountForStore(ctx, storeID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToBlogListResponses(blogs), total, nil
}

// ListPublished returns the public blog feed, newest first
func (s *BlogService) ListPublished(ctx context.Context, storeID uuid.UUID, page, pageSize int) ([]BlogListResponse, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 50 {
		pageSize = 12
	}
	blogs, err := s.blogRepo.FindPublished(ctx, storeID, shared.Filter{Page: page, PageSize: pageSize})
	if err != nil {
		return nil, err
	}
	return ToBlogListResponses(blogs), nil
}

// ListFeatured returns published featured posts for the homepage
func (s *BlogService) ListFeatured(ctx context.Context, storeID uuid.UUID, limit int) ([]BlogListResponse, error) {
	if limit <= 0 || limit > 20 {
		limit = 4
	}
	blogs, err := s.blogRepo.FindFeatured(ctx, storeID, limit)
	if err != nil {
		return nil, err
	}
	return ToBlogListResponses(blogs), nil
}

// Delete removes a post
func (s *BlogService) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	if _, err := s.blogRepo.FindByIDForStore(ctx, storeID, id); err != nil {
		return err
	}
	return s.blogRepo.DeleteForStore(ctx, storeID, id)
}

func (s *BlogService) transition(ctx context.Context, storeID, id uuid.UUID, fn func(*content.Blog) error) (*BlogResponse, error) {
	b, err := s.blogRepo.FindByIDForStore(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(b); err != nil {
		return nil, err
	}
	if err := s.blogRepo.Save(ctx, b); err != nil {
		return nil, err
	}
	response := ToBlogResponse(b)
	return &response, nil
}

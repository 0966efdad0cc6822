package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	contentapp "github.com/multistore/backend/internal/application/content"
)

// ContentHandler handles blog posts, policy pages, hero banners and
// storefront contact details.
type ContentHandler struct {
	BaseHandler
	blogs    *contentapp.BlogService
	policies *contentapp.PolicyService
	heroes   *contentapp.HeroService
	contacts *contentapp.ContactService
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(blogs *contentapp.BlogService, policies *contentapp.PolicyService, heroes *contentapp.HeroService, contacts *contentapp.ContactService) *ContentHandler {
	return &ContentHandler{blogs: blogs, policies: policies, heroes: heroes, contacts: contacts}
}

// CreateBlog creates a draft blog post
func (h *ContentHandler) CreateBlog(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	var req contentapp.CreateBlogRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.blogs.Create(c.Request.Context(), storeID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// UpdateBlog updates a blog post
func (h *ContentHandler) UpdateBlog(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req contentapp.UpdateBlogRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.blogs.Update(c.Request.Context(), storeID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// PublishBlog publishes a blog post
func (h *ContentHandler) PublishBlog(c *gin.Context) {
	h.blogTransition(c, h.blogs.Publish)
}

// UnpublishBlog reverts a blog post to draft
func (h *ContentHandler) UnpublishBlog(c *gin.Context) {
	h.blogTransition(c, h.blogs.Unpublish)
}

// ArchiveBlog archives a blog post
func (h *ContentHandler) ArchiveBlog(c *gin.Context) {
	h.blogTransition(c, h.blogs.Archive)
}

func (h *ContentHandler) blogTransition(c *gin.Context, fn func(ctx context.Context, storeID, id uuid.UUID) (*contentapp.BlogResponse, error)) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := fn(c.Request.Context(), storeID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetBlog returns a blog post regardless of status
func (h *ContentHandler) GetBlog(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.blogs.Get(c.Request.Context(), storeID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListBlogs lists blog posts for admin with filters and pagination
func (h *ContentHandler) ListBlogs(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	var filter contentapp.BlogListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	items, total, err := h.blogs.List(c.Request.Context(), storeID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// DeleteBlog deletes a blog post
func (h *ContentHandler) DeleteBlog(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.blogs.Delete(c.Request.Context(), storeID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// GetPublishedBlog returns a published blog post by slug for the storefront
func (h *ContentHandler) GetPublishedBlog(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	resp, err := h.blogs.GetPublishedBySlug(c.Request.Context(), storeID, c.Param("slug"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListPublishedBlogs lists published blog posts for the storefront
func (h *ContentHandler) ListPublishedBlogs(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	items, err := h.blogs.ListPublished(c.Request.Context(), storeID, page, pageSize)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, items)
}

// ListFeaturedBlogs lists featured published blog posts for the storefront
func (h *ContentHandler) ListFeaturedBlogs(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "3"))

	items, err := h.blogs.ListFeatured(c.Request.Context(), storeID, limit)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, items)
}

// UpsertPolicy creates or replaces a policy page
func (h *ContentHandler) UpsertPolicy(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	var req contentapp.UpsertPolicyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.policies.Upsert(c.Request.Context(), storeID, c.Param("type"), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// PublishPolicy publishes a policy page
func (h *ContentHandler) PublishPolicy(c *gin.Context) {
	h.policyTransition(c, h.policies.Publish)
}

// UnpublishPolicy reverts a policy page to draft
func (h *ContentHandler) UnpublishPolicy(c *gin.Context) {
	h.policyTransition(c, h.policies.Unpublish)
}

func (h *ContentHandler) policyTransition(c *gin.Context, fn func(ctx context.Context, storeID uuid.UUID, policyType string) (*contentapp.PolicyResponse, error)) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	resp, err := fn(c.Request.Context(), storeID, c.Param("type"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetPolicy returns a policy page regardless of status
func (h *ContentHandler) GetPolicy(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	resp, err := h.policies.Get(c.Request.Context(), storeID, c.Param("type"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListPolicies lists all policy pages for admin
func (h *ContentHandler) ListPolicies(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	resp, err := h.policies.List(c.Request.Context(), storeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// DeletePolicy deletes a policy page
func (h *ContentHandler) DeletePolicy(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	if err := h.policies.Delete(c.Request.Context(), storeID, c.Param("type")); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// GetPublishedPolicy returns a published policy page for the storefront
func (h *ContentHandler) GetPublishedPolicy(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	resp, err := h.policies.GetPublished(c.Request.Context(), storeID, c.Param("type"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListPublishedPolicies lists published policy pages for the storefront
func (h *ContentHandler) ListPublishedPolicies(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	resp, err := h.policies.ListPublished(c.Request.Context(), storeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// CreateHero creates a hero banner
func (h *ContentHandler) CreateHero(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	var req contentapp.CreateHeroRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.heroes.Create(c.Request.Context(), storeID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// UpdateHero updates a hero banner
func (h *ContentHandler) UpdateHero(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req contentapp.UpdateHeroRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.heroes.Update(c.Request.Context(), storeID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ReorderHeroes applies a new display order to hero banners
func (h *ContentHandler) ReorderHeroes(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	var req contentapp.ReorderHerosRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.heroes.Reorder(c.Request.Context(), storeID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListHeroes lists all hero banners for admin
func (h *ContentHandler) ListHeroes(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	resp, err := h.heroes.List(c.Request.Context(), storeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListActiveHeroes lists active hero banners for the storefront
func (h *ContentHandler) ListActiveHeroes(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	resp, err := h.heroes.ListActive(c.Request.Context(), storeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// DeleteHero deletes a hero banner
func (h *ContentHandler) DeleteHero(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.heroes.Delete(c.Request.Context(), storeID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// UpsertContact creates or replaces the store contact details
func (h *ContentHandler) UpsertContact(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	var req contentapp.UpsertContactRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.contacts.Upsert(c.Request.Context(), storeID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetContact returns the store contact details
func (h *ContentHandler) GetContact(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	resp, err := h.contacts.Get(c.Request.Context(), storeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// DeleteContact removes the store contact details
func (h *ContentHandler) DeleteContact(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	if err := h.contacts.Delete(c.Request.Context(), storeID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

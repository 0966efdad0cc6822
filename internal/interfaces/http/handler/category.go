package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/multistore/backend/internal/application/catalog"
)

// CategoryHandler manages product categories
type CategoryHandler struct {
	BaseHandler
	categories *catalog.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categories *catalog.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// Create creates a category
func (h *CategoryHandler) Create(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	var req catalog.CreateCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.categories.Create(c.Request.Context(), storeID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// List lists all categories for the store
func (h *CategoryHandler) List(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	resp, err := h.categories.List(c.Request.Context(), storeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Tree returns categories as a nested tree
func (h *CategoryHandler) Tree(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	resp, err := h.categories.Tree(c.Request.Context(), storeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByID returns a category by ID
func (h *CategoryHandler) GetByID(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.categories.GetByID(c.Request.Context(), storeID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetBySlug returns a category by slug
func (h *CategoryHandler) GetBySlug(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	resp, err := h.categories.GetBySlug(c.Request.Context(), storeID, c.Param("slug"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Update updates a category
func (h *CategoryHandler) Update(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req catalog.UpdateCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.categories.Update(c.Request.Context(), storeID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Activate makes a category visible on the storefront
func (h *CategoryHandler) Activate(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.categories.Activate(c.Request.Context(), storeID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Deactivate hides a category from the storefront
func (h *CategoryHandler) Deactivate(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.categories.Deactivate(c.Request.Context(), storeID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Delete removes a category
func (h *CategoryHandler) Delete(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.categories.Delete(c.Request.Context(), storeID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/multistore/backend/internal/application/catalog"
)

// ProductHandler manages the product catalog
type ProductHandler struct {
	BaseHandler
	products *catalog.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products *catalog.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// Create creates a product
func (h *ProductHandler) Create(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	var req catalog.CreateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.products.Create(c.Request.Context(), storeID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// List lists products with filtering and pagination
func (h *ProductHandler) List(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	var filter catalog.ProductListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	items, total, err := h.products.List(c.Request.Context(), storeID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// ListFeatured lists featured products for storefront placement
func (h *ProductHandler) ListFeatured(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "8"))

	resp, err := h.products.ListFeatured(c.Request.Context(), storeID, limit)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListLowStock lists products at or below their low stock threshold
func (h *ProductHandler) ListLowStock(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	resp, err := h.products.ListLowStock(c.Request.Context(), storeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByID returns a product by ID
func (h *ProductHandler) GetByID(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.products.GetByID(c.Request.Context(), storeID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetBySlug returns a product by its storefront slug
func (h *ProductHandler) GetBySlug(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	resp, err := h.products.GetBySlug(c.Request.Context(), storeID, c.Param("slug"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Update updates product details
func (h *ProductHandler) Update(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req catalog.UpdateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.products.Update(c.Request.Context(), storeID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpdateInventory adjusts stock levels and tracking settings
func (h *ProductHandler) UpdateInventory(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req catalog.UpdateInventoryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.products.UpdateInventory(c.Request.Context(), storeID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// SetVariants replaces the product's variant set
func (h *ProductHandler) SetVariants(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req catalog.SetVariantsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.products.SetVariants(c.Request.Context(), storeID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// SetImages replaces the product's image gallery
func (h *ProductHandler) SetImages(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req catalog.SetImagesRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.products.SetImages(c.Request.Context(), storeID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// SetSEO updates search metadata
func (h *ProductHandler) SetSEO(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req catalog.SetSEORequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.products.SetSEO(c.Request.Context(), storeID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// SetShipping updates weight and dimensions
func (h *ProductHandler) SetShipping(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req catalog.SetShippingRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.products.SetShipping(c.Request.Context(), storeID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

type setFeaturedRequest struct {
	Featured bool `json:"featured"`
}

// SetFeatured toggles storefront featuring
func (h *ProductHandler) SetFeatured(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req setFeaturedRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.products.SetFeatured(c.Request.Context(), storeID, id, req.Featured)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Publish makes a product visible on the storefront
func (h *ProductHandler) Publish(c *gin.Context) {
	h.transition(c, h.products.Publish)
}

// Unpublish hides a product from the storefront
func (h *ProductHandler) Unpublish(c *gin.Context) {
	h.transition(c, h.products.Unpublish)
}

// Archive retires a product
func (h *ProductHandler) Archive(c *gin.Context) {
	h.transition(c, h.products.Archive)
}

// BulkUpdate applies a price and/or status change to a batch of products
func (h *ProductHandler) BulkUpdate(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	var req catalog.BulkUpdateProductsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.products.BulkUpdate(c.Request.Context(), storeID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete removes a product
func (h *ProductHandler) Delete(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.products.Delete(c.Request.Context(), storeID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *ProductHandler) transition(c *gin.Context, fn func(ctx context.Context, storeID, id uuid.UUID) (*catalog.ProductResponse, error)) {
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

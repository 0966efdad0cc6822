package handler

import (
	"github.com/gin-gonic/gin"

	orderapp "github.com/multistore/backend/internal/application/order"
)

// StorefrontHandler serves the public checkout and order tracking endpoints.
// Catalog and content reads are served by their own handlers on the public
// routes; this handler covers the order-side surface.
type StorefrontHandler struct {
	BaseHandler
	orders *orderapp.OrderService
}

// NewStorefrontHandler creates a new StorefrontHandler
func NewStorefrontHandler(orders *orderapp.OrderService) *StorefrontHandler {
	return &StorefrontHandler{orders: orders}
}

// Checkout places an order for the resolved store
func (h *StorefrontHandler) Checkout(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	var req orderapp.CheckoutRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.orders.Checkout(c.Request.Context(), storeID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// Track returns an order by its public tracking token. The token is an
// unguessable handle, so no authentication is required.
func (h *StorefrontHandler) Track(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		h.BadRequest(c, "Missing tracking token")
		return
	}

	resp, err := h.orders.TrackByToken(c.Request.Context(), token)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

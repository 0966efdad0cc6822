package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	orderapp "github.com/multistore/backend/internal/application/order"
)

// OrderHandler manages orders from the store dashboard
type OrderHandler struct {
	BaseHandler
	orders *orderapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders *orderapp.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// List lists orders with filtering and pagination
func (h *OrderHandler) List(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	var filter orderapp.OrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	items, total, err := h.orders.List(c.Request.Context(), storeID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// GetByID returns an order by ID
func (h *OrderHandler) GetByID(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.orders.GetByID(c.Request.Context(), storeID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByOrderNumber returns an order by its order number
func (h *OrderHandler) GetByOrderNumber(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	resp, err := h.orders.GetByOrderNumber(c.Request.Context(), storeID, c.Param("number"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListByCustomer lists a customer's orders
func (h *OrderHandler) ListByCustomer(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	customerID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var filter orderapp.OrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	resp, err := h.orders.ListByCustomer(c.Request.Context(), storeID, customerID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Confirm acknowledges a pending order
func (h *OrderHandler) Confirm(c *gin.Context) {
	h.transition(c, h.orders.Confirm)
}

// StartProcessing moves a confirmed order into fulfilment
func (h *OrderHandler) StartProcessing(c *gin.Context) {
	h.transition(c, h.orders.StartProcessing)
}

// MarkDelivered records delivery
func (h *OrderHandler) MarkDelivered(c *gin.Context) {
	h.transition(c, h.orders.MarkDelivered)
}

// RetryPayment reopens a failed payment for another attempt
func (h *OrderHandler) RetryPayment(c *gin.Context) {
	h.transition(c, h.orders.RetryPayment)
}

// Ship records dispatch details
func (h *OrderHandler) Ship(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req orderapp.ShipOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.orders.Ship(c.Request.Context(), storeID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Cancel cancels an order and restores stock
func (h *OrderHandler) Cancel(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req orderapp.CancelOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.orders.Cancel(c.Request.Context(), storeID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Refund records a manual (off-gateway) refund
func (h *OrderHandler) Refund(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req orderapp.RefundOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.orders.Refund(c.Request.Context(), storeID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpdateNotes updates internal order notes
func (h *OrderHandler) UpdateNotes(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req orderapp.UpdateNotesRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.orders.UpdateNotes(c.Request.Context(), storeID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

func (h *OrderHandler) transition(c *gin.Context, fn func(ctx context.Context, storeID, id uuid.UUID) (*orderapp.OrderResponse, error)) {
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

package handler

import (
	"github.com/gin-gonic/gin"

	customerapp "github.com/multistore/backend/internal/application/customer"
)

// CustomerHandler manages store customers
type CustomerHandler struct {
	BaseHandler
	customers *customerapp.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customers *customerapp.CustomerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

// Create creates a customer record
func (h *CustomerHandler) Create(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	var req customerapp.CreateCustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.customers.Create(c.Request.Context(), storeID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// List lists customers with filtering and pagination
func (h *CustomerHandler) List(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	var filter customerapp.CustomerListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	items, total, err := h.customers.List(c.Request.Context(), storeID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// GetByID returns a customer by ID
func (h *CustomerHandler) GetByID(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.customers.GetByID(c.Request.Context(), storeID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Update updates a customer's profile
func (h *CustomerHandler) Update(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req customerapp.UpdateCustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.customers.Update(c.Request.Context(), storeID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// AddAddress adds a saved address
func (h *CustomerHandler) AddAddress(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req customerapp.AddressRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.customers.AddAddress(c.Request.Context(), storeID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// RemoveAddress removes a saved address
func (h *CustomerHandler) RemoveAddress(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	addressID := c.Param("address_id")
	if addressID == "" {
		h.BadRequest(c, "Invalid address_id")
		return
	}

	resp, err := h.customers.RemoveAddress(c.Request.Context(), storeID, id, addressID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Activate re-enables a customer account
func (h *CustomerHandler) Activate(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.customers.Activate(c.Request.Context(), storeID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Deactivate blocks a customer account
func (h *CustomerHandler) Deactivate(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.customers.Deactivate(c.Request.Context(), storeID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Delete removes a customer record
func (h *CustomerHandler) Delete(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.customers.Delete(c.Request.Context(), storeID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/multistore/backend/internal/application/identity"
)

// StaffHandler manages store staff accounts
type StaffHandler struct {
	BaseHandler
	staff *identityapp.StaffService
}

// NewStaffHandler creates a new StaffHandler
func NewStaffHandler(staff *identityapp.StaffService) *StaffHandler {
	return &StaffHandler{staff: staff}
}

// Create creates a staff account
func (h *StaffHandler) Create(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	var req identityapp.CreateStaffRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.staff.Create(c.Request.Context(), storeID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// List lists staff for the store
func (h *StaffHandler) List(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	var filter identityapp.StaffListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	resp, err := h.staff.List(c.Request.Context(), storeID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Get returns one staff member
func (h *StaffHandler) Get(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.staff.Get(c.Request.Context(), storeID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Update updates a staff member's profile or role
func (h *StaffHandler) Update(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req identityapp.UpdateStaffRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.staff.Update(c.Request.Context(), storeID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Activate re-enables a staff account
func (h *StaffHandler) Activate(c *gin.Context) {
	h.transition(c, h.staff.Activate)
}

// Deactivate disables a staff account
func (h *StaffHandler) Deactivate(c *gin.Context) {
	h.transition(c, h.staff.Deactivate)
}

// Delete removes a staff account
func (h *StaffHandler) Delete(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.staff.Delete(c.Request.Context(), storeID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *StaffHandler) transition(c *gin.Context, fn func(ctx context.Context, storeID, userID uuid.UUID) (*identityapp.AdminUserResponse, error)) {
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

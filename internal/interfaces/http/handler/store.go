package handler

import (
	"github.com/gin-gonic/gin"

	storeapp "github.com/multistore/backend/internal/application/store"
)

// StoreHandler handles platform-level store management and the store-scoped
// settings endpoints.
type StoreHandler struct {
	BaseHandler
	stores *storeapp.StoreService
}

// NewStoreHandler creates a new StoreHandler
func NewStoreHandler(stores *storeapp.StoreService) *StoreHandler {
	return &StoreHandler{stores: stores}
}

// Register provisions a new store with its owner account
func (h *StoreHandler) Register(c *gin.Context) {
	var req storeapp.RegisterStoreRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.stores.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// List lists stores for platform administrators
func (h *StoreHandler) List(c *gin.Context) {
	var filter storeapp.StoreListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	items, total, err := h.stores.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// GetByID returns a single store
func (h *StoreHandler) GetByID(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.stores.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Update updates a store's profile
func (h *StoreHandler) Update(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req storeapp.UpdateStoreRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.stores.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ChangePlan moves a store to a different subscription plan
func (h *StoreHandler) ChangePlan(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req storeapp.ChangePlanRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.stores.ChangePlan(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Suspend suspends a store
func (h *StoreHandler) Suspend(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.stores.Suspend(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Reactivate lifts a store suspension
func (h *StoreHandler) Reactivate(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.stores.Reactivate(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Cancel cancels a store permanently
func (h *StoreHandler) Cancel(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.stores.Cancel(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Store-scoped endpoints below operate on the caller's own store.

// GetCurrent returns the caller's store
func (h *StoreHandler) GetCurrent(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	resp, err := h.stores.GetByID(c.Request.Context(), storeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpdateCurrent updates the caller's store profile
func (h *StoreHandler) UpdateCurrent(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	var req storeapp.UpdateStoreRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.stores.Update(c.Request.Context(), storeID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// SetBusinessInfo updates legal and tax details
func (h *StoreHandler) SetBusinessInfo(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	var req storeapp.SetBusinessInfoRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.stores.SetBusinessInfo(c.Request.Context(), storeID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

type maintenanceRequest struct {
	Enabled bool `json:"enabled"`
}

// SetMaintenanceMode toggles the storefront maintenance banner
func (h *StoreHandler) SetMaintenanceMode(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	var req maintenanceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.stores.SetMaintenanceMode(c.Request.Context(), storeID, req.Enabled); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// MarkSetupComplete records that onboarding has finished
func (h *StoreHandler) MarkSetupComplete(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	if err := h.stores.MarkSetupComplete(c.Request.Context(), storeID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// GetSettings returns the store settings
func (h *StoreHandler) GetSettings(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	resp, err := h.stores.GetSettings(c.Request.Context(), storeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpdateSettings updates the store settings
func (h *StoreHandler) UpdateSettings(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	var req storeapp.UpdateSettingsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.stores.UpdateSettings(c.Request.Context(), storeID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Stats returns headline usage numbers for the store dashboard
func (h *StoreHandler) Stats(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	resp, err := h.stores.Stats(c.Request.Context(), storeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

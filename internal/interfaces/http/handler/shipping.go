package handler

import (
	"github.com/gin-gonic/gin"

	shippingapp "github.com/multistore/backend/internal/application/shipping"
)

// ShippingHandler handles courier partner configuration and shipments
type ShippingHandler struct {
	BaseHandler
	configs  *shippingapp.PartnerConfigService
	shipping *shippingapp.ShippingService
}

// NewShippingHandler creates a new ShippingHandler
func NewShippingHandler(configs *shippingapp.PartnerConfigService, shipping *shippingapp.ShippingService) *ShippingHandler {
	return &ShippingHandler{configs: configs, shipping: shipping}
}

// ConfigurePartner stores credentials for a courier partner
func (h *ShippingHandler) ConfigurePartner(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	var req shippingapp.ConfigurePartnerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.configs.Configure(c.Request.Context(), storeID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// UpdatePartner updates courier partner credentials or settings
func (h *ShippingHandler) UpdatePartner(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	var req shippingapp.UpdatePartnerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.configs.Update(c.Request.Context(), storeID, c.Param("partner"), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListPartners lists configured courier partners
func (h *ShippingHandler) ListPartners(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	resp, err := h.configs.List(c.Request.Context(), storeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ActivatePartner enables a courier partner
func (h *ShippingHandler) ActivatePartner(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	resp, err := h.configs.Activate(c.Request.Context(), storeID, c.Param("partner"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// DeactivatePartner disables a courier partner
func (h *ShippingHandler) DeactivatePartner(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	resp, err := h.configs.Deactivate(c.Request.Context(), storeID, c.Param("partner"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// TestPartner checks the stored credentials against the courier API
func (h *ShippingHandler) TestPartner(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	resp, err := h.shipping.TestConnection(c.Request.Context(), storeID, c.Param("partner"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// DeletePartner removes a courier partner configuration
func (h *ShippingHandler) DeletePartner(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	if err := h.configs.Delete(c.Request.Context(), storeID, c.Param("partner")); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// GetRates quotes shipping options for a prospective parcel
func (h *ShippingHandler) GetRates(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	var req shippingapp.GetRatesRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.shipping.GetRates(c.Request.Context(), storeID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// CheckServiceability reports whether a pincode pair is deliverable
func (h *ShippingHandler) CheckServiceability(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	origin := c.Query("origin")
	destination := c.Query("destination")
	if origin == "" || destination == "" {
		h.BadRequest(c, "origin and destination pincodes are required")
		return
	}
	cod := c.Query("cod") == "true"

	resp, err := h.shipping.CheckServiceability(c.Request.Context(), storeID, origin, destination, cod)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// CreateShipment books a courier shipment for an order
func (h *ShippingHandler) CreateShipment(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	orderID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req shippingapp.CreateShipmentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.shipping.CreateShipment(c.Request.Context(), storeID, orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// TrackShipment returns courier tracking checkpoints for an order
func (h *ShippingHandler) TrackShipment(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	orderID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.shipping.Track(c.Request.Context(), storeID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// CancelShipment cancels the courier shipment for an order
func (h *ShippingHandler) CancelShipment(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	orderID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.shipping.CancelShipment(c.Request.Context(), storeID, orderID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

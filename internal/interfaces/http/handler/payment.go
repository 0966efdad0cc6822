package handler

import (
	"github.com/gin-gonic/gin"

	paymentapp "github.com/multistore/backend/internal/application/payment"
)

// PaymentHandler handles gateway configuration and the payment flow
type PaymentHandler struct {
	BaseHandler
	configs  *paymentapp.GatewayConfigService
	payments *paymentapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(configs *paymentapp.GatewayConfigService, payments *paymentapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{configs: configs, payments: payments}
}

// ConfigureGateway stores credentials for a payment gateway
func (h *PaymentHandler) ConfigureGateway(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	var req paymentapp.ConfigureGatewayRequest
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

// UpdateGateway updates gateway credentials or settings
func (h *PaymentHandler) UpdateGateway(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	var req paymentapp.UpdateGatewayRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.configs.Update(c.Request.Context(), storeID, c.Param("gateway"), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListGateways lists the store's configured gateways
func (h *PaymentHandler) ListGateways(c *gin.Context) {
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

// EnableGateway enables a configured gateway
func (h *PaymentHandler) EnableGateway(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	resp, err := h.configs.Enable(c.Request.Context(), storeID, c.Param("gateway"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// DisableGateway disables a configured gateway
func (h *PaymentHandler) DisableGateway(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	resp, err := h.configs.Disable(c.Request.Context(), storeID, c.Param("gateway"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// TestGateway checks the stored credentials against the gateway API
func (h *PaymentHandler) TestGateway(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	resp, err := h.payments.TestConnection(c.Request.Context(), storeID, c.Param("gateway"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// DeleteGateway removes a gateway configuration
func (h *PaymentHandler) DeleteGateway(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	if err := h.configs.Delete(c.Request.Context(), storeID, c.Param("gateway")); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// ListAvailable lists gateways a shopper can pay with
func (h *PaymentHandler) ListAvailable(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	resp, err := h.payments.ListAvailable(c.Request.Context(), storeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// CreatePayment opens a gateway payment for a pending order
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	var req paymentapp.CreatePaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.payments.CreatePayment(c.Request.Context(), storeID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// VerifyPayment verifies a client-side payment callback and marks the order paid
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	var req paymentapp.VerifyPaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.payments.VerifyPayment(c.Request.Context(), storeID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// RefundPayment issues a gateway refund for an order
func (h *PaymentHandler) RefundPayment(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	orderID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req paymentapp.RefundPaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.payments.Refund(c.Request.Context(), storeID, orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/multistore/backend/internal/domain/payment"
)

// ConfigureGatewayRequest creates or replaces a store's gateway credentials
type ConfigureGatewayRequest struct {
	Type          string `json:"type" binding:"required,oneof=razorpay paypal"`
	DisplayName   string `json:"display_name" binding:"max=100"`
	KeyID         string `json:"key_id" binding:"required,max=200"`
	KeySecret     string `json:"key_secret" binding:"required,max=200"`
	WebhookSecret string `json:"webhook_secret" binding:"max=200"`
	TestMode      *bool  `json:"test_mode"`
}

// UpdateGatewayRequest partially updates a gateway configuration
type UpdateGatewayRequest struct {
	DisplayName   *string `json:"display_name" binding:"omitempty,max=100"`
	KeyID         *string `json:"key_id" binding:"omitempty,max=200"`
	KeySecret     *string `json:"key_secret" binding:"omitempty,max=200"`
	WebhookSecret *string `json:"webhook_secret" binding:"omitempty,max=200"`
	TestMode      *bool   `json:"test_mode"`
}

// GatewayConfigResponse is the admin view of a gateway configuration.
// Secrets never leave the server; the key ID is masked.
type GatewayConfigResponse struct {
	ID               uuid.UUID `json:"id"`
	Type             string    `json:"type"`
	DisplayName      string    `json:"display_name"`
	KeyIDMasked      string    `json:"key_id_masked"`
	HasWebhookSecret bool      `json:"has_webhook_secret"`
	IsEnabled        bool      `json:"is_enabled"`
	TestMode         bool      `json:"test_mode"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// AvailableGatewayResponse is the storefront view of an enabled gateway
type AvailableGatewayResponse struct {
	Type        string `json:"type"`
	DisplayName string `json:"display_name"`
	KeyID       string `json:"key_id"`
	TestMode    bool   `json:"test_mode"`
}

// ToGatewayConfigResponse converts a domain GatewayConfig to its admin view
func ToGatewayConfigResponse(c *payment.GatewayConfig) GatewayConfigResponse {
	return GatewayConfigResponse{
		ID:               c.ID,
		Type:             string(c.Type),
		DisplayName:      c.DisplayName,
		KeyIDMasked:      maskKey(c.KeyID),
		HasWebhookSecret: c.WebhookSecretEncrypted != "",
		IsEnabled:        c.IsEnabled,
		TestMode:         c.TestMode,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

// maskKey keeps the first 8 and last 4 characters visible
func maskKey(key string) string {
	if len(key) <= 12 {
		return "****"
	}
	return key[:8] + "****" + key[len(key)-4:]
}

// CreatePaymentRequest opens a gateway payment for an order
type CreatePaymentRequest struct {
	OrderID   uuid.UUID `json:"order_id" binding:"required"`
	Gateway   string    `json:"gateway" binding:"required,oneof=razorpay paypal"`
	ReturnURL string    `json:"return_url" binding:"omitempty,url,max=500"`
	CancelURL string    `json:"cancel_url" binding:"omitempty,url,max=500"`
}

// CreatePaymentResponse carries the checkout handoff to the storefront
type CreatePaymentResponse struct {
	GatewayOrderID string            `json:"gateway_order_id"`
	Gateway        string            `json:"gateway"`
	Amount         decimal.Decimal   `json:"amount"`
	Currency       string            `json:"currency"`
	ApprovalURL    string            `json:"approval_url,omitempty"`
	CheckoutParams map[string]string `json:"checkout_params,omitempty"`
}

// VerifyPaymentRequest confirms a client-side checkout callback
type VerifyPaymentRequest struct {
	OrderID        uuid.UUID `json:"order_id" binding:"required"`
	Gateway        string    `json:"gateway" binding:"required,oneof=razorpay paypal"`
	GatewayOrderID string    `json:"gateway_order_id" binding:"required"`
	PaymentID      string    `json:"payment_id" binding:"required"`
	Signature      string    `json:"signature"`
}

// RefundPaymentRequest refunds part or all of a captured payment
type RefundPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Reason string          `json:"reason" binding:"max=500"`
}

// TestConnectionResponse reports whether stored credentials authenticate
type TestConnectionResponse struct {
	Gateway string `json:"gateway"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// RefundPaymentResponse reports the gateway refund result
type RefundPaymentResponse struct {
	GatewayRefundID string          `json:"gateway_refund_id"`
	Status          string          `json:"status"`
	RefundAmount    decimal.Decimal `json:"refund_amount"`
	OrderRefunded   decimal.Decimal `json:"order_refunded_total"`
}

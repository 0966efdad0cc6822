package payment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Payment Gateway Errors
// ---------------------------------------------------------------------------

var (
	// Payment creation errors
	ErrPaymentInvalidStoreID     = errors.New("payment: invalid store ID")
	ErrPaymentInvalidOrderID     = errors.New("payment: invalid order ID")
	ErrPaymentInvalidOrderNumber = errors.New("payment: invalid order number")
	ErrPaymentInvalidAmount      = errors.New("payment: invalid payment amount")
	ErrPaymentInvalidCurrency    = errors.New("payment: invalid payment currency")
	ErrPaymentInvalidGatewayType = errors.New("payment: invalid gateway type")

	// Verification errors
	ErrPaymentNotFound        = errors.New("payment: payment not found")
	ErrInvalidSignature       = errors.New("payment: invalid callback signature")
	ErrPaymentAlreadyCaptured = errors.New("payment: payment already captured")
	ErrPaymentCaptureMismatch = errors.New("payment: captured amount does not match order")

	// Refund errors
	ErrRefundInvalidPayment     = errors.New("refund: invalid original payment reference")
	ErrRefundInvalidAmount      = errors.New("refund: invalid refund amount")
	ErrRefundAmountExceedsTotal = errors.New("refund: refund amount exceeds captured payment")

	// Gateway errors
	ErrGatewayNotConfigured   = errors.New("payment: gateway not configured for store")
	ErrGatewayNotEnabled      = errors.New("payment: gateway not enabled")
	ErrGatewayRequestFailed   = errors.New("payment: gateway request failed")
	ErrGatewayInvalidResponse = errors.New("payment: invalid gateway response")
)

// GatewayType identifies a supported payment gateway
type GatewayType string

const (
	GatewayTypeRazorpay GatewayType = "razorpay"
	GatewayTypePayPal   GatewayType = "paypal"
)

// IsValid returns true if the gateway type is supported
func (t GatewayType) IsValid() bool {
	switch t {
	case GatewayTypeRazorpay, GatewayTypePayPal:
		return true
	default:
		return false
	}
}

// String returns the string representation of GatewayType
func (t GatewayType) String() string {
	return string(t)
}

// GatewayPaymentStatus represents the status of a payment at the gateway
type GatewayPaymentStatus string

const (
	GatewayPaymentStatusCreated  GatewayPaymentStatus = "created"
	GatewayPaymentStatusPending  GatewayPaymentStatus = "pending"
	GatewayPaymentStatusCaptured GatewayPaymentStatus = "captured"
	GatewayPaymentStatusFailed   GatewayPaymentStatus = "failed"
	GatewayPaymentStatusRefunded GatewayPaymentStatus = "refunded"
)

// IsSuccess returns true if the payment was captured
func (s GatewayPaymentStatus) IsSuccess() bool {
	return s == GatewayPaymentStatusCaptured
}

// RefundStatus represents the status of a refund at the gateway
type RefundStatus string

const (
	RefundStatusPending RefundStatus = "pending"
	RefundStatusSuccess RefundStatus = "success"
	RefundStatusFailed  RefundStatus = "failed"
)

// ---------------------------------------------------------------------------
// Request/Response DTOs
// ---------------------------------------------------------------------------

// CreatePaymentRequest asks a gateway to open a payment for an order
type CreatePaymentRequest struct {
	StoreID     uuid.UUID
	OrderID     uuid.UUID
	OrderNumber string
	Amount      decimal.Decimal
	Currency    string
	// CustomerEmail and CustomerPhone prefill the gateway checkout
	CustomerEmail string
	CustomerPhone string
	// ReturnURL redirects the buyer after approval (PayPal)
	ReturnURL string
	// CancelURL redirects the buyer after abandoning checkout (PayPal)
	CancelURL string
	// Notes is additional key-value data attached to the gateway order
	Notes map[string]string
}

// Validate validates the create payment request
func (r *CreatePaymentRequest) Validate() error {
	if r.StoreID == uuid.Nil {
		return ErrPaymentInvalidStoreID
	}
	if r.OrderID == uuid.Nil {
		return ErrPaymentInvalidOrderID
	}
	if r.OrderNumber == "" {
		return ErrPaymentInvalidOrderNumber
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrPaymentInvalidAmount
	}
	if len(r.Currency) != 3 {
		return ErrPaymentInvalidCurrency
	}
	return nil
}

// CreatePaymentResponse carries what the storefront needs to open checkout
type CreatePaymentResponse struct {
	// GatewayOrderID is the payment order ID at the gateway
	// (razorpay order_..., paypal order token)
	GatewayOrderID string
	GatewayType    GatewayType
	Status         GatewayPaymentStatus
	// ApprovalURL is the redirect URL for buyer approval (PayPal)
	ApprovalURL string
	// CheckoutParams are key-value params for the client SDK (Razorpay checkout.js)
	CheckoutParams map[string]string
	// RawResponse is the original gateway response (JSON)
	RawResponse string
}

// VerifyPaymentRequest carries the client-side callback parameters for
// signature verification after checkout completes
type VerifyPaymentRequest struct {
	StoreID        uuid.UUID
	GatewayOrderID string
	// PaymentID is the gateway payment/capture identifier
	PaymentID string
	// Signature is the client callback signature (Razorpay)
	Signature string
}

// QueryPaymentRequest asks the gateway for the current payment state
type QueryPaymentRequest struct {
	StoreID        uuid.UUID
	GatewayOrderID string
	PaymentID      string
}

// QueryPaymentResponse is the gateway's view of a payment
type QueryPaymentResponse struct {
	GatewayOrderID string
	PaymentID      string
	Status         GatewayPaymentStatus
	Amount         decimal.Decimal
	Currency       string
	Method         string
	PaidAt         *time.Time
	RawResponse    string
}

// RefundRequest initiates a refund against a captured payment
type RefundRequest struct {
	StoreID   uuid.UUID
	PaymentID string
	// TotalAmount is the originally captured amount
	TotalAmount decimal.Decimal
	// RefundAmount is the amount to refund (may be partial)
	RefundAmount decimal.Decimal
	Currency     string
	Reason       string
	Notes        map[string]string
}

// Validate validates the refund request
func (r *RefundRequest) Validate() error {
	if r.StoreID == uuid.Nil {
		return ErrPaymentInvalidStoreID
	}
	if r.PaymentID == "" {
		return ErrRefundInvalidPayment
	}
	if r.RefundAmount.LessThanOrEqual(decimal.Zero) {
		return ErrRefundInvalidAmount
	}
	if r.RefundAmount.GreaterThan(r.TotalAmount) {
		return ErrRefundAmountExceedsTotal
	}
	return nil
}

// RefundResponse is the gateway's acknowledgement of a refund
type RefundResponse struct {
	GatewayRefundID string
	GatewayType     GatewayType
	Status          RefundStatus
	RefundAmount    decimal.Decimal
	RefundedAt      *time.Time
	RawResponse     string
}

// WebhookEvent is a verified, normalized gateway webhook notification
type WebhookEvent struct {
	GatewayType GatewayType
	// EventID is the gateway's unique event identifier, used for idempotency
	EventID string
	// EventType is the normalized event kind: payment.captured,
	// payment.failed, refund.processed
	EventType      string
	GatewayOrderID string
	PaymentID      string
	// OrderNumber is our order reference carried through the gateway
	// (razorpay receipt, paypal invoice_id)
	OrderNumber string
	Amount      decimal.Decimal
	Currency    string
	OccurredAt  time.Time
	// RawPayload is the original webhook body
	RawPayload string
}

// Webhook event type constants
const (
	WebhookEventPaymentCaptured = "payment.captured"
	WebhookEventPaymentFailed   = "payment.failed"
	WebhookEventRefundProcessed = "refund.processed"
)

// ---------------------------------------------------------------------------
// Gateway Port
// ---------------------------------------------------------------------------

// Gateway is the port for external payment providers. Implementations
// (Razorpay, PayPal) live in the infrastructure layer and are built
// per store from that store's GatewayConfig.
type Gateway interface {
	// GatewayType returns the type of this gateway
	GatewayType() GatewayType

	// CreatePayment opens a payment order at the gateway
	CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*CreatePaymentResponse, error)

	// VerifyPayment verifies the client checkout callback signature and
	// returns the gateway's view of the payment
	VerifyPayment(ctx context.Context, req *VerifyPaymentRequest) (*QueryPaymentResponse, error)

	// QueryPayment fetches the current payment state from the gateway
	QueryPayment(ctx context.Context, req *QueryPaymentRequest) (*QueryPaymentResponse, error)

	// CreateRefund initiates a full or partial refund
	CreateRefund(ctx context.Context, req *RefundRequest) (*RefundResponse, error)

	// VerifyWebhook verifies the webhook signature and normalizes the payload.
	// Returns ErrInvalidSignature when verification fails.
	VerifyWebhook(ctx context.Context, payload []byte, signature string) (*WebhookEvent, error)

	// TestCredentials makes a minimal authenticated call so stored
	// credentials can be validated before the gateway is enabled
	TestCredentials(ctx context.Context) error
}

// GatewayResolver builds gateway clients from per-store configuration
type GatewayResolver interface {
	// Resolve returns a gateway client configured with the store's credentials
	Resolve(ctx context.Context, storeID uuid.UUID, gatewayType GatewayType) (Gateway, error)

	// ResolveConfigured returns a client for any configured gateway,
	// enabled or not, for credential testing
	ResolveConfigured(ctx context.Context, storeID uuid.UUID, gatewayType GatewayType) (Gateway, error)

	// EnabledGateways lists the gateway types enabled for a store
	EnabledGateways(ctx context.Context, storeID uuid.UUID) ([]GatewayType, error)
}

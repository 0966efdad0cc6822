// Package payment implements the gateway clients for Razorpay and PayPal.
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/multistore/backend/internal/domain/payment"
)

const razorpayBaseURL = "https://api.razorpay.com"

var _ payment.Gateway = (*RazorpayGateway)(nil)

// RazorpayGateway talks to the Razorpay Orders/Payments/Refunds v1 API.
// Test mode uses the same endpoints with rzp_test_ keys.
type RazorpayGateway struct {
	client        *resty.Client
	keyID         string
	keySecret     string
	webhookSecret string
}

// NewRazorpayGateway creates a gateway client for one store's credentials
func NewRazorpayGateway(keyID, keySecret, webhookSecret string) *RazorpayGateway {
	return &RazorpayGateway{
		client:        resty.New().SetBaseURL(razorpayBaseURL).SetTimeout(30 * time.Second),
		keyID:         keyID,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
	}
}

// GatewayType implements payment.Gateway
func (g *RazorpayGateway) GatewayType() payment.GatewayType {
	return payment.GatewayTypeRazorpay
}

type razorpayOrder struct {
	ID        string            `json:"id"`
	Amount    int64             `json:"amount"`
	Currency  string            `json:"currency"`
	Receipt   string            `json:"receipt"`
	Status    string            `json:"status"`
	Notes     map[string]string `json:"notes"`
	CreatedAt int64             `json:"created_at"`
}

type razorpayPayment struct {
	ID        string            `json:"id"`
	OrderID   string            `json:"order_id"`
	Amount    int64             `json:"amount"`
	Currency  string            `json:"currency"`
	Status    string            `json:"status"`
	Method    string            `json:"method"`
	Captured  bool              `json:"captured"`
	Notes     map[string]string `json:"notes"`
	CreatedAt int64             `json:"created_at"`
}

type razorpayRefund struct {
	ID        string `json:"id"`
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
}

type razorpayCollection struct {
	Count int               `json:"count"`
	Items []razorpayPayment `json:"items"`
}

type razorpayError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreatePayment opens a Razorpay order. The order carries our order number
// as the receipt and in the notes so webhooks can be matched back.
func (g *RazorpayGateway) CreatePayment(ctx context.Context, req *payment.CreatePaymentRequest) (*payment.CreatePaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	notes := map[string]string{"order_number": req.OrderNumber}
	for k, v := range req.Notes {
		notes[k] = v
	}

	paise := toPaise(req.Amount)
	var order razorpayOrder
	if err := g.post(ctx, "/v1/orders", map[string]any{
		"amount":   paise,
		"currency": req.Currency,
		"receipt":  req.OrderNumber,
		"notes":    notes,
	}, &order); err != nil {
		return nil, err
	}

	raw, _ := json.Marshal(order)
	return &payment.CreatePaymentResponse{
		GatewayOrderID: order.ID,
		GatewayType:    payment.GatewayTypeRazorpay,
		Status:         payment.GatewayPaymentStatusCreated,
		CheckoutParams: map[string]string{
			"key":             g.keyID,
			"order_id":        order.ID,
			"amount":          strconv.FormatInt(paise, 10),
			"currency":        req.Currency,
			"prefill.email":   req.CustomerEmail,
			"prefill.contact": req.CustomerPhone,
		},
		RawResponse: string(raw),
	}, nil
}

// VerifyPayment checks the checkout.js callback signature
// (HMAC-SHA256 of "order_id|payment_id") and fetches the payment.
func (g *RazorpayGateway) VerifyPayment(ctx context.Context, req *payment.VerifyPaymentRequest) (*payment.QueryPaymentResponse, error) {
	if req.GatewayOrderID == "" || req.PaymentID == "" {
		return nil, payment.ErrPaymentNotFound
	}

	expected := hmacHex(g.keySecret, req.GatewayOrderID+"|"+req.PaymentID)
	if !hmac.Equal([]byte(expected), []byte(req.Signature)) {
		return nil, payment.ErrInvalidSignature
	}

	return g.fetchPayment(ctx, req.PaymentID)
}

// QueryPayment fetches a payment by ID, or the latest payment on an order
func (g *RazorpayGateway) QueryPayment(ctx context.Context, req *payment.QueryPaymentRequest) (*payment.QueryPaymentResponse, error) {
	if req.PaymentID != "" {
		return g.fetchPayment(ctx, req.PaymentID)
	}
	if req.GatewayOrderID == "" {
		return nil, payment.ErrPaymentNotFound
	}

	var coll razorpayCollection
	if err := g.get(ctx, "/v1/orders/"+req.GatewayOrderID+"/payments", &coll); err != nil {
		return nil, err
	}
	if len(coll.Items) == 0 {
		return nil, payment.ErrPaymentNotFound
	}

	latest := coll.Items[0]
	for _, p := range coll.Items[1:] {
		if p.CreatedAt > latest.CreatedAt {
			latest = p
		}
	}
	return razorpayPaymentToQuery(&latest), nil
}

// CreateRefund refunds a captured payment, fully or partially
func (g *RazorpayGateway) CreateRefund(ctx context.Context, req *payment.RefundRequest) (*payment.RefundResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	body := map[string]any{
		"amount": toPaise(req.RefundAmount),
	}
	if req.Reason != "" {
		body["notes"] = map[string]string{"reason": req.Reason}
	}

	var refund razorpayRefund
	if err := g.post(ctx, "/v1/payments/"+req.PaymentID+"/refund", body, &refund); err != nil {
		return nil, err
	}

	raw, _ := json.Marshal(refund)
	resp := &payment.RefundResponse{
		GatewayRefundID: refund.ID,
		GatewayType:     payment.GatewayTypeRazorpay,
		Status:          mapRazorpayRefundStatus(refund.Status),
		RefundAmount:    fromPaise(refund.Amount),
		RawResponse:     string(raw),
	}
	if refund.CreatedAt > 0 {
		t := time.Unix(refund.CreatedAt, 0)
		resp.RefundedAt = &t
	}
	return resp, nil
}

type razorpayWebhook struct {
	Entity    string   `json:"entity"`
	Event     string   `json:"event"`
	Contains  []string `json:"contains"`
	CreatedAt int64    `json:"created_at"`
	Payload   struct {
		Payment struct {
			Entity razorpayPayment `json:"entity"`
		} `json:"payment"`
		Refund struct {
			Entity razorpayRefund `json:"entity"`
		} `json:"refund"`
	} `json:"payload"`
}

// VerifyWebhook checks the X-Razorpay-Signature (HMAC-SHA256 of the raw
// body with the webhook secret) and normalizes the event.
// Razorpay puts the event ID in a header, so the dedup key is derived
// from the event type and entity ID instead.
func (g *RazorpayGateway) VerifyWebhook(ctx context.Context, payload []byte, signature string) (*payment.WebhookEvent, error) {
	if g.webhookSecret == "" {
		return nil, payment.ErrInvalidSignature
	}
	expected := hmacHex(g.webhookSecret, string(payload))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return nil, payment.ErrInvalidSignature
	}

	var hook razorpayWebhook
	if err := json.Unmarshal(payload, &hook); err != nil {
		return nil, fmt.Errorf("%w: %v", payment.ErrGatewayInvalidResponse, err)
	}

	event := &payment.WebhookEvent{
		GatewayType: payment.GatewayTypeRazorpay,
		OccurredAt:  time.Unix(hook.CreatedAt, 0),
		RawPayload:  string(payload),
	}

	switch hook.Event {
	case "payment.captured", "payment.failed":
		p := hook.Payload.Payment.Entity
		event.EventID = hook.Event + ":" + p.ID
		event.GatewayOrderID = p.OrderID
		event.PaymentID = p.ID
		event.OrderNumber = p.Notes["order_number"]
		event.Amount = fromPaise(p.Amount)
		event.Currency = p.Currency
		if hook.Event == "payment.captured" {
			event.EventType = payment.WebhookEventPaymentCaptured
		} else {
			event.EventType = payment.WebhookEventPaymentFailed
		}
	case "refund.processed":
		r := hook.Payload.Refund.Entity
		event.EventID = hook.Event + ":" + r.ID
		event.EventType = payment.WebhookEventRefundProcessed
		event.PaymentID = r.PaymentID
		event.Amount = fromPaise(r.Amount)
		event.Currency = r.Currency
	default:
		// Pass unknown events through; the service acknowledges and skips them
		event.EventID = hook.Event + ":" + strconv.FormatInt(hook.CreatedAt, 10)
		event.EventType = hook.Event
	}

	return event, nil
}

// TestCredentials fetches one payment to confirm the key pair authenticates
func (g *RazorpayGateway) TestCredentials(ctx context.Context) error {
	var payments razorpayCollection
	return g.get(ctx, "/v1/payments?count=1", &payments)
}

func (g *RazorpayGateway) fetchPayment(ctx context.Context, paymentID string) (*payment.QueryPaymentResponse, error) {
	var p razorpayPayment
	if err := g.get(ctx, "/v1/payments/"+paymentID, &p); err != nil {
		return nil, err
	}
	return razorpayPaymentToQuery(&p), nil
}

func (g *RazorpayGateway) post(ctx context.Context, path string, body any, result any) error {
	var apiErr razorpayError
	resp, err := g.client.R().
		SetContext(ctx).
		SetBasicAuth(g.keyID, g.keySecret).
		SetBody(body).
		SetResult(result).
		SetError(&apiErr).
		Post(path)
	return razorpayRequestError(resp, err, &apiErr)
}

func (g *RazorpayGateway) get(ctx context.Context, path string, result any) error {
	var apiErr razorpayError
	resp, err := g.client.R().
		SetContext(ctx).
		SetBasicAuth(g.keyID, g.keySecret).
		SetResult(result).
		SetError(&apiErr).
		Get(path)
	return razorpayRequestError(resp, err, &apiErr)
}

func razorpayRequestError(resp *resty.Response, err error, apiErr *razorpayError) error {
	if err != nil {
		return fmt.Errorf("%w: %v", payment.ErrGatewayRequestFailed, err)
	}
	if resp.IsError() {
		if apiErr.Error.Code != "" {
			return fmt.Errorf("%w: %s - %s", payment.ErrGatewayRequestFailed, apiErr.Error.Code, apiErr.Error.Description)
		}
		return fmt.Errorf("%w: HTTP %d", payment.ErrGatewayRequestFailed, resp.StatusCode())
	}
	return nil
}

func razorpayPaymentToQuery(p *razorpayPayment) *payment.QueryPaymentResponse {
	raw, _ := json.Marshal(p)
	resp := &payment.QueryPaymentResponse{
		GatewayOrderID: p.OrderID,
		PaymentID:      p.ID,
		Status:         mapRazorpayPaymentStatus(p.Status),
		Amount:         fromPaise(p.Amount),
		Currency:       p.Currency,
		Method:         p.Method,
		RawResponse:    string(raw),
	}
	if p.Status == "captured" && p.CreatedAt > 0 {
		t := time.Unix(p.CreatedAt, 0)
		resp.PaidAt = &t
	}
	return resp
}

func mapRazorpayPaymentStatus(status string) payment.GatewayPaymentStatus {
	switch status {
	case "created":
		return payment.GatewayPaymentStatusCreated
	case "authorized":
		return payment.GatewayPaymentStatusPending
	case "captured":
		return payment.GatewayPaymentStatusCaptured
	case "refunded":
		return payment.GatewayPaymentStatusRefunded
	case "failed":
		return payment.GatewayPaymentStatusFailed
	default:
		return payment.GatewayPaymentStatusPending
	}
}

func mapRazorpayRefundStatus(status string) payment.RefundStatus {
	switch status {
	case "processed":
		return payment.RefundStatusSuccess
	case "failed":
		return payment.RefundStatusFailed
	default:
		return payment.RefundStatusPending
	}
}

// Razorpay amounts are integers in the smallest currency unit (paise)
func toPaise(d decimal.Decimal) int64 {
	return d.Mul(decimal.NewFromInt(100)).IntPart()
}

func fromPaise(n int64) decimal.Decimal {
	return decimal.NewFromInt(n).Div(decimal.NewFromInt(100))
}

func hmacHex(secret, message string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/multistore/backend/internal/domain/payment"
)

const (
	paypalLiveBaseURL    = "https://api-m.paypal.com"
	paypalSandboxBaseURL = "https://api-m.sandbox.paypal.com"

	// paypalTokenSlack renews the OAuth token this long before it expires
	paypalTokenSlack = 60 * time.Second
)

var _ payment.Gateway = (*PayPalGateway)(nil)

// PayPalGateway talks to the PayPal Checkout Orders v2 API.
type PayPalGateway struct {
	client    *resty.Client
	clientID  string
	secret    string
	webhookID string

	tokenMu     sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewPayPalGateway creates a gateway client for one store's credentials.
// webhookID is the PayPal webhook resource ID used for signature checks.
func NewPayPalGateway(clientID, secret, webhookID string, sandbox bool) *PayPalGateway {
	baseURL := paypalLiveBaseURL
	if sandbox {
		baseURL = paypalSandboxBaseURL
	}
	return &PayPalGateway{
		client:    resty.New().SetBaseURL(baseURL).SetTimeout(30 * time.Second),
		clientID:  clientID,
		secret:    secret,
		webhookID: webhookID,
	}
}

// GatewayType implements payment.Gateway
func (g *PayPalGateway) GatewayType() payment.GatewayType {
	return payment.GatewayTypePayPal
}

type paypalAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type paypalLink struct {
	Href string `json:"href"`
	Rel  string `json:"rel"`
}

type paypalCapture struct {
	ID         string       `json:"id"`
	Status     string       `json:"status"`
	Amount     paypalAmount `json:"amount"`
	InvoiceID  string       `json:"invoice_id"`
	CreateTime string       `json:"create_time"`
}

type paypalPurchaseUnit struct {
	ReferenceID string       `json:"reference_id,omitempty"`
	InvoiceID   string       `json:"invoice_id,omitempty"`
	Amount      paypalAmount `json:"amount"`
	Payments    *struct {
		Captures []paypalCapture `json:"captures"`
	} `json:"payments,omitempty"`
}

type paypalOrder struct {
	ID            string               `json:"id"`
	Status        string               `json:"status"`
	PurchaseUnits []paypalPurchaseUnit `json:"purchase_units"`
	Links         []paypalLink         `json:"links"`
}

type paypalRefund struct {
	ID         string       `json:"id"`
	Status     string       `json:"status"`
	Amount     paypalAmount `json:"amount"`
	CreateTime string       `json:"create_time"`
}

type paypalErrorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// CreatePayment opens a PayPal checkout order. Our order number rides in
// invoice_id so webhooks can be matched back.
func (g *PayPalGateway) CreatePayment(ctx context.Context, req *payment.CreatePaymentRequest) (*payment.CreatePaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	body := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{{
			"reference_id": req.OrderID.String(),
			"invoice_id":   req.OrderNumber,
			"amount": paypalAmount{
				CurrencyCode: req.Currency,
				Value:        req.Amount.StringFixed(2),
			},
		}},
		"application_context": map[string]string{
			"return_url":  req.ReturnURL,
			"cancel_url":  req.CancelURL,
			"user_action": "PAY_NOW",
		},
	}

	var order paypalOrder
	if err := g.do(ctx, "POST", "/v2/checkout/orders", body, &order); err != nil {
		return nil, err
	}

	raw, _ := json.Marshal(order)
	resp := &payment.CreatePaymentResponse{
		GatewayOrderID: order.ID,
		GatewayType:    payment.GatewayTypePayPal,
		Status:         payment.GatewayPaymentStatusCreated,
		RawResponse:    string(raw),
	}
	for _, link := range order.Links {
		if link.Rel == "approve" {
			resp.ApprovalURL = link.Href
			break
		}
	}
	return resp, nil
}

// VerifyPayment captures the approved order. PayPal has no client-side
// signature; approval is proven by the capture succeeding.
func (g *PayPalGateway) VerifyPayment(ctx context.Context, req *payment.VerifyPaymentRequest) (*payment.QueryPaymentResponse, error) {
	if req.GatewayOrderID == "" {
		return nil, payment.ErrPaymentNotFound
	}

	var order paypalOrder
	err := g.do(ctx, "POST", "/v2/checkout/orders/"+req.GatewayOrderID+"/capture", struct{}{}, &order)
	if err != nil {
		// An already-captured order is settled; report its current state
		if strings.Contains(err.Error(), "ORDER_ALREADY_CAPTURED") {
			return g.QueryPayment(ctx, &payment.QueryPaymentRequest{
				StoreID:        req.StoreID,
				GatewayOrderID: req.GatewayOrderID,
			})
		}
		return nil, err
	}

	return paypalOrderToQuery(&order), nil
}

// QueryPayment fetches the current order state
func (g *PayPalGateway) QueryPayment(ctx context.Context, req *payment.QueryPaymentRequest) (*payment.QueryPaymentResponse, error) {
	if req.GatewayOrderID == "" {
		return nil, payment.ErrPaymentNotFound
	}

	var order paypalOrder
	if err := g.do(ctx, "GET", "/v2/checkout/orders/"+req.GatewayOrderID, nil, &order); err != nil {
		return nil, err
	}
	return paypalOrderToQuery(&order), nil
}

// CreateRefund refunds a capture, fully or partially
func (g *PayPalGateway) CreateRefund(ctx context.Context, req *payment.RefundRequest) (*payment.RefundResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	body := map[string]any{
		"amount": paypalAmount{
			CurrencyCode: req.Currency,
			Value:        req.RefundAmount.StringFixed(2),
		},
	}
	if req.Reason != "" {
		body["note_to_payer"] = req.Reason
	}

	var refund paypalRefund
	if err := g.do(ctx, "POST", "/v2/payments/captures/"+req.PaymentID+"/refund", body, &refund); err != nil {
		return nil, err
	}

	raw, _ := json.Marshal(refund)
	resp := &payment.RefundResponse{
		GatewayRefundID: refund.ID,
		GatewayType:     payment.GatewayTypePayPal,
		Status:          mapPayPalRefundStatus(refund.Status),
		RefundAmount:    req.RefundAmount,
		RawResponse:     string(raw),
	}
	if t, err := time.Parse(time.RFC3339, refund.CreateTime); err == nil {
		resp.RefundedAt = &t
	}
	return resp, nil
}

type paypalWebhookEvent struct {
	ID           string `json:"id"`
	EventType    string `json:"event_type"`
	CreateTime   string `json:"create_time"`
	ResourceType string `json:"resource_type"`
	Resource     struct {
		ID        string       `json:"id"`
		Status    string       `json:"status"`
		Amount    paypalAmount `json:"amount"`
		InvoiceID string       `json:"invoice_id"`
		// SupplementaryData carries the checkout order ID on capture events
		SupplementaryData *struct {
			RelatedIDs struct {
				OrderID string `json:"order_id"`
			} `json:"related_ids"`
		} `json:"supplementary_data"`
	} `json:"resource"`
}

type paypalVerifySignatureResponse struct {
	VerificationStatus string `json:"verification_status"`
}

// VerifyWebhook verifies the event through PayPal's signature verification
// API and normalizes it. The signature argument is the transmission headers
// packed by the webhook handler as
// "transmissionID|transmissionTime|certURL|authAlgo|transmissionSig".
func (g *PayPalGateway) VerifyWebhook(ctx context.Context, payload []byte, signature string) (*payment.WebhookEvent, error) {
	if g.webhookID == "" {
		return nil, payment.ErrInvalidSignature
	}
	parts := strings.SplitN(signature, "|", 5)
	if len(parts) != 5 {
		return nil, payment.ErrInvalidSignature
	}

	verifyBody := map[string]any{
		"transmission_id":   parts[0],
		"transmission_time": parts[1],
		"cert_url":          parts[2],
		"auth_algo":         parts[3],
		"transmission_sig":  parts[4],
		"webhook_id":        g.webhookID,
		"webhook_event":     json.RawMessage(payload),
	}

	var verifyResp paypalVerifySignatureResponse
	if err := g.do(ctx, "POST", "/v1/notifications/verify-webhook-signature", verifyBody, &verifyResp); err != nil {
		return nil, err
	}
	if verifyResp.VerificationStatus != "SUCCESS" {
		return nil, payment.ErrInvalidSignature
	}

	var hook paypalWebhookEvent
	if err := json.Unmarshal(payload, &hook); err != nil {
		return nil, fmt.Errorf("%w: %v", payment.ErrGatewayInvalidResponse, err)
	}

	event := &payment.WebhookEvent{
		GatewayType: payment.GatewayTypePayPal,
		EventID:     hook.ID,
		PaymentID:   hook.Resource.ID,
		OrderNumber: hook.Resource.InvoiceID,
		RawPayload:  string(payload),
	}
	if t, err := time.Parse(time.RFC3339, hook.CreateTime); err == nil {
		event.OccurredAt = t
	}
	if hook.Resource.SupplementaryData != nil {
		event.GatewayOrderID = hook.Resource.SupplementaryData.RelatedIDs.OrderID
	}
	if hook.Resource.Amount.Value != "" {
		if amount, err := decimal.NewFromString(hook.Resource.Amount.Value); err == nil {
			event.Amount = amount
		}
		event.Currency = hook.Resource.Amount.CurrencyCode
	}

	switch hook.EventType {
	case "PAYMENT.CAPTURE.COMPLETED":
		event.EventType = payment.WebhookEventPaymentCaptured
	case "PAYMENT.CAPTURE.DENIED", "PAYMENT.CAPTURE.DECLINED":
		event.EventType = payment.WebhookEventPaymentFailed
	case "PAYMENT.CAPTURE.REFUNDED":
		event.EventType = payment.WebhookEventRefundProcessed
	default:
		event.EventType = hook.EventType
	}

	return event, nil
}

// TestCredentials requests an OAuth token, which fails on a bad client pair
func (g *PayPalGateway) TestCredentials(ctx context.Context) error {
	_, err := g.token(ctx)
	return err
}

// token returns a cached OAuth access token, renewing it when close to expiry
func (g *PayPalGateway) token(ctx context.Context) (string, error) {
	g.tokenMu.Lock()
	defer g.tokenMu.Unlock()

	if g.accessToken != "" && time.Now().Before(g.tokenExpiry.Add(-paypalTokenSlack)) {
		return g.accessToken, nil
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	resp, err := g.client.R().
		SetContext(ctx).
		SetBasicAuth(g.clientID, g.secret).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetBody("grant_type=client_credentials").
		SetResult(&tokenResp).
		Post("/v1/oauth2/token")
	if err != nil {
		return "", fmt.Errorf("%w: %v", payment.ErrGatewayRequestFailed, err)
	}
	if resp.IsError() || tokenResp.AccessToken == "" {
		return "", fmt.Errorf("%w: authentication failed (HTTP %d)", payment.ErrGatewayRequestFailed, resp.StatusCode())
	}

	g.accessToken = tokenResp.AccessToken
	g.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	return g.accessToken, nil
}

func (g *PayPalGateway) do(ctx context.Context, method, path string, body any, result any) error {
	token, err := g.token(ctx)
	if err != nil {
		return err
	}

	var apiErr paypalErrorResponse
	req := g.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(result).
		SetError(&apiErr)
	if body != nil {
		req.SetBody(body)
	}

	var resp *resty.Response
	switch method {
	case "GET":
		resp, err = req.Get(path)
	default:
		resp, err = req.Post(path)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", payment.ErrGatewayRequestFailed, err)
	}
	if resp.IsError() {
		if apiErr.Name != "" {
			return fmt.Errorf("%w: %s - %s", payment.ErrGatewayRequestFailed, apiErr.Name, apiErr.Message)
		}
		return fmt.Errorf("%w: HTTP %d", payment.ErrGatewayRequestFailed, resp.StatusCode())
	}
	return nil
}

func paypalOrderToQuery(order *paypalOrder) *payment.QueryPaymentResponse {
	raw, _ := json.Marshal(order)
	resp := &payment.QueryPaymentResponse{
		GatewayOrderID: order.ID,
		Status:         mapPayPalOrderStatus(order.Status),
		Method:         "paypal",
		RawResponse:    string(raw),
	}

	if len(order.PurchaseUnits) > 0 {
		unit := order.PurchaseUnits[0]
		if amount, err := decimal.NewFromString(unit.Amount.Value); err == nil {
			resp.Amount = amount
		}
		resp.Currency = unit.Amount.CurrencyCode

		if unit.Payments != nil && len(unit.Payments.Captures) > 0 {
			capture := unit.Payments.Captures[0]
			resp.PaymentID = capture.ID
			if amount, err := decimal.NewFromString(capture.Amount.Value); err == nil {
				resp.Amount = amount
			}
			if t, err := time.Parse(time.RFC3339, capture.CreateTime); err == nil {
				resp.PaidAt = &t
			}
		}
	}
	return resp
}

func mapPayPalOrderStatus(status string) payment.GatewayPaymentStatus {
	switch status {
	case "CREATED", "SAVED", "PAYER_ACTION_REQUIRED":
		return payment.GatewayPaymentStatusCreated
	case "APPROVED":
		return payment.GatewayPaymentStatusPending
	case "COMPLETED":
		return payment.GatewayPaymentStatusCaptured
	case "VOIDED":
		return payment.GatewayPaymentStatusFailed
	default:
		return payment.GatewayPaymentStatusPending
	}
}

func mapPayPalRefundStatus(status string) payment.RefundStatus {
	switch status {
	case "COMPLETED":
		return payment.RefundStatusSuccess
	case "FAILED", "CANCELLED":
		return payment.RefundStatusFailed
	default:
		return payment.RefundStatusPending
	}
}

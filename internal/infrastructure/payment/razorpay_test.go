package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multistore/backend/internal/domain/payment"
)

const (
	testRazorpayKeyID         = "rzp_test_key"
	testRazorpayKeySecret     = "rzp_test_secret"
	testRazorpayWebhookSecret = "whsec_test"
)

// newTestRazorpay points the gateway at a mock server
func newTestRazorpay(serverURL string) *RazorpayGateway {
	g := NewRazorpayGateway(testRazorpayKeyID, testRazorpayKeySecret, testRazorpayWebhookSecret)
	g.client.SetBaseURL(serverURL)
	return g
}

func testCreatePaymentRequest() *payment.CreatePaymentRequest {
	return &payment.CreatePaymentRequest{
		StoreID:       uuid.New(),
		OrderID:       uuid.New(),
		OrderNumber:   "CHAI-00042",
		Amount:        decimal.NewFromFloat(499.00),
		Currency:      "INR",
		CustomerEmail: "priya@chaikart.in",
		CustomerPhone: "+919876543210",
	}
}

func TestRazorpayGateway_CreatePayment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, testRazorpayKeyID, user)
		assert.Equal(t, testRazorpayKeySecret, pass)

		var body struct {
			Amount   int64             `json:"amount"`
			Currency string            `json:"currency"`
			Receipt  string            `json:"receipt"`
			Notes    map[string]string `json:"notes"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, int64(49900), body.Amount)
		assert.Equal(t, "INR", body.Currency)
		assert.Equal(t, "CHAI-00042", body.Receipt)
		assert.Equal(t, "CHAI-00042", body.Notes["order_number"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(razorpayOrder{
			ID:       "order_Nxyz123",
			Amount:   body.Amount,
			Currency: body.Currency,
			Receipt:  body.Receipt,
			Status:   "created",
			Notes:    body.Notes,
		})
	}))
	defer server.Close()

	g := newTestRazorpay(server.URL)
	resp, err := g.CreatePayment(context.Background(), testCreatePaymentRequest())
	require.NoError(t, err)

	assert.Equal(t, "order_Nxyz123", resp.GatewayOrderID)
	assert.Equal(t, payment.GatewayTypeRazorpay, resp.GatewayType)
	assert.Equal(t, payment.GatewayPaymentStatusCreated, resp.Status)
	assert.Equal(t, testRazorpayKeyID, resp.CheckoutParams["key"])
	assert.Equal(t, "order_Nxyz123", resp.CheckoutParams["order_id"])
	assert.Equal(t, "49900", resp.CheckoutParams["amount"])
	assert.Equal(t, "priya@chaikart.in", resp.CheckoutParams["prefill.email"])
}

func TestRazorpayGateway_CreatePayment_InvalidRequest(t *testing.T) {
	g := NewRazorpayGateway(testRazorpayKeyID, testRazorpayKeySecret, "")

	req := testCreatePaymentRequest()
	req.Amount = decimal.Zero

	_, err := g.CreatePayment(context.Background(), req)
	assert.ErrorIs(t, err, payment.ErrPaymentInvalidAmount)
}

func TestRazorpayGateway_CreatePayment_GatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"code":"BAD_REQUEST_ERROR","description":"Authentication failed"}}`)
	}))
	defer server.Close()

	g := newTestRazorpay(server.URL)
	_, err := g.CreatePayment(context.Background(), testCreatePaymentRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, payment.ErrGatewayRequestFailed)
	assert.Contains(t, err.Error(), "BAD_REQUEST_ERROR")
}

func TestRazorpayGateway_VerifyPayment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payments/pay_abc123", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(razorpayPayment{
			ID:        "pay_abc123",
			OrderID:   "order_Nxyz123",
			Amount:    49900,
			Currency:  "INR",
			Status:    "captured",
			Method:    "upi",
			CreatedAt: 1756400000,
		})
	}))
	defer server.Close()

	g := newTestRazorpay(server.URL)
	resp, err := g.VerifyPayment(context.Background(), &payment.VerifyPaymentRequest{
		StoreID:        uuid.New(),
		GatewayOrderID: "order_Nxyz123",
		PaymentID:      "pay_abc123",
		Signature:      hmacHex(testRazorpayKeySecret, "order_Nxyz123|pay_abc123"),
	})
	require.NoError(t, err)

	assert.Equal(t, payment.GatewayPaymentStatusCaptured, resp.Status)
	assert.Equal(t, "pay_abc123", resp.PaymentID)
	assert.True(t, resp.Amount.Equal(decimal.NewFromFloat(499.00)))
	assert.Equal(t, "upi", resp.Method)
	require.NotNil(t, resp.PaidAt)
}

func TestRazorpayGateway_VerifyPayment_BadSignature(t *testing.T) {
	g := NewRazorpayGateway(testRazorpayKeyID, testRazorpayKeySecret, "")

	_, err := g.VerifyPayment(context.Background(), &payment.VerifyPaymentRequest{
		StoreID:        uuid.New(),
		GatewayOrderID: "order_Nxyz123",
		PaymentID:      "pay_abc123",
		Signature:      "not-the-signature",
	})
	assert.ErrorIs(t, err, payment.ErrInvalidSignature)
}

func TestRazorpayGateway_QueryPayment_LatestOnOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/orders/order_Nxyz123/payments", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(razorpayCollection{
			Count: 2,
			Items: []razorpayPayment{
				{ID: "pay_first", OrderID: "order_Nxyz123", Amount: 49900, Currency: "INR", Status: "failed", CreatedAt: 1756400000},
				{ID: "pay_retry", OrderID: "order_Nxyz123", Amount: 49900, Currency: "INR", Status: "captured", CreatedAt: 1756400300},
			},
		})
	}))
	defer server.Close()

	g := newTestRazorpay(server.URL)
	resp, err := g.QueryPayment(context.Background(), &payment.QueryPaymentRequest{
		StoreID:        uuid.New(),
		GatewayOrderID: "order_Nxyz123",
	})
	require.NoError(t, err)

	assert.Equal(t, "pay_retry", resp.PaymentID)
	assert.Equal(t, payment.GatewayPaymentStatusCaptured, resp.Status)
}

func TestRazorpayGateway_CreateRefund(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/v1/payments/pay_abc123/refund", r.URL.Path)

		var body struct {
			Amount int64             `json:"amount"`
			Notes  map[string]string `json:"notes"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, int64(19900), body.Amount)
		assert.Equal(t, "damaged item", body.Notes["reason"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(razorpayRefund{
			ID:        "rfnd_xyz789",
			PaymentID: "pay_abc123",
			Amount:    body.Amount,
			Currency:  "INR",
			Status:    "processed",
			CreatedAt: 1756401000,
		})
	}))
	defer server.Close()

	g := newTestRazorpay(server.URL)
	resp, err := g.CreateRefund(context.Background(), &payment.RefundRequest{
		StoreID:      uuid.New(),
		PaymentID:    "pay_abc123",
		TotalAmount:  decimal.NewFromFloat(499.00),
		RefundAmount: decimal.NewFromFloat(199.00),
		Currency:     "INR",
		Reason:       "damaged item",
	})
	require.NoError(t, err)

	assert.Equal(t, "rfnd_xyz789", resp.GatewayRefundID)
	assert.Equal(t, payment.RefundStatusSuccess, resp.Status)
	assert.True(t, resp.RefundAmount.Equal(decimal.NewFromFloat(199.00)))
	require.NotNil(t, resp.RefundedAt)
}

func TestRazorpayGateway_CreateRefund_ExceedsTotal(t *testing.T) {
	g := NewRazorpayGateway(testRazorpayKeyID, testRazorpayKeySecret, "")

	_, err := g.CreateRefund(context.Background(), &payment.RefundRequest{
		StoreID:      uuid.New(),
		PaymentID:    "pay_abc123",
		TotalAmount:  decimal.NewFromFloat(100.00),
		RefundAmount: decimal.NewFromFloat(150.00),
		Currency:     "INR",
	})
	assert.ErrorIs(t, err, payment.ErrRefundAmountExceedsTotal)
}

func razorpayWebhookPayload(t *testing.T, event string) []byte {
	t.Helper()
	hook := map[string]any{
		"entity":     "event",
		"event":      event,
		"created_at": 1756400500,
		"payload": map[string]any{
			"payment": map[string]any{
				"entity": razorpayPayment{
					ID:       "pay_abc123",
					OrderID:  "order_Nxyz123",
					Amount:   49900,
					Currency: "INR",
					Status:   "captured",
					Notes:    map[string]string{"order_number": "CHAI-00042"},
				},
			},
		},
	}
	payload, err := json.Marshal(hook)
	require.NoError(t, err)
	return payload
}

func TestRazorpayGateway_VerifyWebhook_PaymentCaptured(t *testing.T) {
	g := NewRazorpayGateway(testRazorpayKeyID, testRazorpayKeySecret, testRazorpayWebhookSecret)

	payload := razorpayWebhookPayload(t, "payment.captured")
	signature := hmacHex(testRazorpayWebhookSecret, string(payload))

	event, err := g.VerifyWebhook(context.Background(), payload, signature)
	require.NoError(t, err)

	assert.Equal(t, payment.WebhookEventPaymentCaptured, event.EventType)
	assert.Equal(t, "payment.captured:pay_abc123", event.EventID)
	assert.Equal(t, "order_Nxyz123", event.GatewayOrderID)
	assert.Equal(t, "pay_abc123", event.PaymentID)
	assert.Equal(t, "CHAI-00042", event.OrderNumber)
	assert.True(t, event.Amount.Equal(decimal.NewFromFloat(499.00)))
	assert.Equal(t, "INR", event.Currency)
}

func TestRazorpayGateway_VerifyWebhook_BadSignature(t *testing.T) {
	g := NewRazorpayGateway(testRazorpayKeyID, testRazorpayKeySecret, testRazorpayWebhookSecret)

	payload := razorpayWebhookPayload(t, "payment.captured")
	_, err := g.VerifyWebhook(context.Background(), payload, "tampered")
	assert.ErrorIs(t, err, payment.ErrInvalidSignature)
}

func TestRazorpayGateway_VerifyWebhook_NoSecretConfigured(t *testing.T) {
	g := NewRazorpayGateway(testRazorpayKeyID, testRazorpayKeySecret, "")

	payload := razorpayWebhookPayload(t, "payment.captured")
	_, err := g.VerifyWebhook(context.Background(), payload, hmacHex("", string(payload)))
	assert.ErrorIs(t, err, payment.ErrInvalidSignature)
}

func TestRazorpayGateway_VerifyWebhook_UnknownEventPassedThrough(t *testing.T) {
	g := NewRazorpayGateway(testRazorpayKeyID, testRazorpayKeySecret, testRazorpayWebhookSecret)

	payload := razorpayWebhookPayload(t, "payment.authorized")
	signature := hmacHex(testRazorpayWebhookSecret, string(payload))

	event, err := g.VerifyWebhook(context.Background(), payload, signature)
	require.NoError(t, err)
	assert.Equal(t, "payment.authorized", event.EventType)
	assert.NotEmpty(t, event.EventID)
}

func TestRazorpay_PaiseConversion(t *testing.T) {
	assert.Equal(t, int64(49900), toPaise(decimal.NewFromFloat(499.00)))
	assert.Equal(t, int64(99), toPaise(decimal.NewFromFloat(0.99)))
	assert.True(t, fromPaise(49900).Equal(decimal.NewFromFloat(499.00)))
}

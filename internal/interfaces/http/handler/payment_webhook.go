package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	paymentapp "github.com/multistore/backend/internal/application/payment"
	"github.com/multistore/backend/internal/domain/payment"
	"github.com/multistore/backend/internal/infrastructure/logger"
)

// maxWebhookBody caps gateway webhook payloads
const maxWebhookBody = 1 << 20

// PaymentWebhookHandler receives asynchronous gateway notifications. The
// route is public; authenticity comes from the gateway signature.
type PaymentWebhookHandler struct {
	BaseHandler
	payments *paymentapp.PaymentService
}

// NewPaymentWebhookHandler creates a new PaymentWebhookHandler
func NewPaymentWebhookHandler(payments *paymentapp.PaymentService) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{payments: payments}
}

// Handle processes POST /payments/webhook/:gateway. Events the service
// chose to acknowledge answer 200 so the gateway stops retrying; signature
// failures answer 400.
func (h *PaymentWebhookHandler) Handle(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	gateway := c.Param("gateway")

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		h.BadRequest(c, "Unable to read webhook payload")
		return
	}

	signature := extractWebhookSignature(c, gateway)

	if err := h.payments.HandleWebhook(c.Request.Context(), storeID, gateway, payload, signature); err != nil {
		log := logger.FromContext(c.Request.Context())
		log.Warn("Webhook rejected",
			zap.String("gateway", gateway),
			zap.Error(err),
		)
		if errors.Is(err, payment.ErrInvalidSignature) || errors.Is(err, payment.ErrPaymentCaptureMismatch) {
			h.BadRequest(c, "Webhook verification failed")
			return
		}
		h.HandleDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// extractWebhookSignature pulls the gateway-specific signature material out
// of the request headers.
func extractWebhookSignature(c *gin.Context, gateway string) string {
	switch gateway {
	case "razorpay":
		return c.GetHeader("X-Razorpay-Signature")
	case "paypal":
		// PayPal spreads verification material over five headers; pack them
		// in the order the gateway verifier expects.
		return strings.Join([]string{
			c.GetHeader("Paypal-Transmission-Id"),
			c.GetHeader("Paypal-Transmission-Time"),
			c.GetHeader("Paypal-Cert-Url"),
			c.GetHeader("Paypal-Auth-Algo"),
			c.GetHeader("Paypal-Transmission-Sig"),
		}, "|")
	default:
		return c.GetHeader("X-Webhook-Signature")
	}
}

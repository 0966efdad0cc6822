package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	orderapp "github.com/multistore/backend/internal/application/order"
	"github.com/multistore/backend/internal/domain/order"
	"github.com/multistore/backend/internal/domain/payment"
	"github.com/multistore/backend/internal/domain/shared"
)

// webhookDedupTTL bounds how long processed gateway event IDs are kept
const webhookDedupTTL = 48 * time.Hour

// OrderPaymentRecorder is the slice of the order service this package
// needs to settle payments. Satisfied by *order.OrderService.
type OrderPaymentRecorder interface {
	MarkPaid(ctx context.Context, storeID, id uuid.UUID, gateway, method, transactionID, reference string) (*orderapp.OrderResponse, error)
	MarkPaymentFailed(ctx context.Context, storeID, id uuid.UUID, reason string) (*orderapp.OrderResponse, error)
	Refund(ctx context.Context, storeID, id uuid.UUID, req orderapp.RefundOrderRequest) (*orderapp.OrderResponse, error)
}

// PaymentService drives the online payment flow: opening gateway
// payments, verifying checkout callbacks, consuming webhooks and
// issuing refunds.
type PaymentService struct {
	resolver    payment.GatewayResolver
	configRepo  payment.GatewayConfigRepository
	orderRepo   order.OrderRepository
	orders      OrderPaymentRecorder
	idempotency IdempotencyStore
	logger      *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	resolver payment.GatewayResolver,
	configRepo payment.GatewayConfigRepository,
	orderRepo order.OrderRepository,
	orders OrderPaymentRecorder,
	idempotency IdempotencyStore,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		resolver:    resolver,
		configRepo:  configRepo,
		orderRepo:   orderRepo,
		orders:      orders,
		idempotency: idempotency,
		logger:      logger,
	}
}

// ListAvailable returns the gateways a storefront can offer at checkout
func (s *PaymentService) ListAvailable(ctx context.Context, storeID uuid.UUID) ([]AvailableGatewayResponse, error) {
	configs, err := s.configRepo.FindEnabledForStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	responses := make([]AvailableGatewayResponse, len(configs))
	for i := range configs {
		responses[i] = AvailableGatewayResponse{
			Type:        string(configs[i].Type),
			DisplayName: configs[i].DisplayName,
			KeyID:       configs[i].KeyID,
			TestMode:    configs[i].TestMode,
		}
	}
	return responses, nil
}

// CreatePayment opens a gateway payment for a pending order
func (s *PaymentService) CreatePayment(ctx context.Context, storeID uuid.UUID, req CreatePaymentRequest) (*CreatePaymentResponse, error) {
	o, err := s.orderRepo.FindByIDForStore(ctx, storeID, req.OrderID)
	if err != nil {
		return nil, err
	}
	if o.PaymentStatus != order.PaymentStatusPending {
		return nil, shared.NewDomainError("INVALID_PAYMENT_STATE", fmt.Sprintf("Cannot start payment from %s", o.PaymentStatus))
	}
	if o.PaymentMethod == "cod" {
		return nil, shared.NewDomainError("COD_ORDER", "Cash on delivery orders are not paid online")
	}

	gateway, err := s.resolver.Resolve(ctx, storeID, payment.GatewayType(req.Gateway))
	if err != nil {
		return nil, err
	}

	resp, err := gateway.CreatePayment(ctx, &payment.CreatePaymentRequest{
		StoreID:       storeID,
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		Amount:        o.TotalAmount,
		Currency:      string(o.Currency),
		CustomerEmail: o.CustomerEmail,
		CustomerPhone: o.CustomerPhone,
		ReturnURL:     req.ReturnURL,
		CancelURL:     req.CancelURL,
		Notes:         map[string]string{"order_number": o.OrderNumber},
	})
	if err != nil {
		return nil, err
	}

	return &CreatePaymentResponse{
		GatewayOrderID: resp.GatewayOrderID,
		Gateway:        string(resp.GatewayType),
		Amount:         o.TotalAmount,
		Currency:       string(o.Currency),
		ApprovalURL:    resp.ApprovalURL,
		CheckoutParams: resp.CheckoutParams,
	}, nil
}

// VerifyPayment verifies a client checkout callback and marks the order
// paid when the gateway confirms capture of the full amount.
func (s *PaymentService) VerifyPayment(ctx context.Context, storeID uuid.UUID, req VerifyPaymentRequest) (*orderapp.OrderResponse, error) {
	o, err := s.orderRepo.FindByIDForStore(ctx, storeID, req.OrderID)
	if err != nil {
		return nil, err
	}

	gateway, err := s.resolver.Resolve(ctx, storeID, payment.GatewayType(req.Gateway))
	if err != nil {
		return nil, err
	}

	result, err := gateway.VerifyPayment(ctx, &payment.VerifyPaymentRequest{
		StoreID:        storeID,
		GatewayOrderID: req.GatewayOrderID,
		PaymentID:      req.PaymentID,
		Signature:      req.Signature,
	})
	if err != nil {
		return nil, err
	}

	if !result.Status.IsSuccess() {
		_, failErr := s.orders.MarkPaymentFailed(ctx, storeID, o.ID, fmt.Sprintf("gateway status %s", result.Status))
		if failErr != nil {
			return nil, failErr
		}
		return nil, shared.NewDomainError("PAYMENT_NOT_CAPTURED", "Payment was not captured by the gateway")
	}
	if !result.Amount.Equal(o.TotalAmount) {
		s.logger.Warn("captured amount does not match order total",
			zap.String("order_number", o.OrderNumber),
			zap.String("captured", result.Amount.String()),
			zap.String("expected", o.TotalAmount.String()))
		return nil, payment.ErrPaymentCaptureMismatch
	}

	return s.orders.MarkPaid(ctx, storeID, o.ID, req.Gateway, result.Method, result.PaymentID, result.GatewayOrderID)
}

// HandleWebhook verifies and applies a gateway webhook notification.
// Replays (same gateway event ID) and events for unknown orders are
// acknowledged without action so the gateway stops retrying.
// TestConnection makes a lightweight authenticated call against a
// configured gateway so stored credentials can be checked from the
// dashboard before the gateway is enabled. A failed call reports
// success=false rather than an error.
func (s *PaymentService) TestConnection(ctx context.Context, storeID uuid.UUID, gatewayType string) (*TestConnectionResponse, error) {
	gateway, err := s.resolver.ResolveConfigured(ctx, storeID, payment.GatewayType(gatewayType))
	if err != nil {
		return nil, err
	}

	if err := gateway.TestCredentials(ctx); err != nil {
		s.logger.Warn("gateway credential test failed",
			zap.String("store_id", storeID.String()),
			zap.String("gateway", gatewayType),
			zap.Error(err))
		return &TestConnectionResponse{Gateway: gatewayType, Success: false, Message: err.Error()}, nil
	}
	return &TestConnectionResponse{Gateway: gatewayType, Success: true}, nil
}

func (s *PaymentService) HandleWebhook(ctx context.Context, storeID uuid.UUID, gatewayType string, payload []byte, signature string) error {
	gateway, err := s.resolver.Resolve(ctx, storeID, payment.GatewayType(gatewayType))
	if err != nil {
		return err
	}

	event, err := gateway.VerifyWebhook(ctx, payload, signature)
	if err != nil {
		return err
	}

	dedupKey := fmt.Sprintf("webhook:%s:%s", gatewayType, event.EventID)
	seen, err := s.idempotency.MarkProcessed(ctx, dedupKey, webhookDedupTTL)
	if err != nil {
		return err
	}
	if seen {
		s.logger.Debug("webhook replay acknowledged", zap.String("event_id", event.EventID))
		return nil
	}

	if err := s.applyWebhookEvent(ctx, storeID, gatewayType, event); err != nil {
		// Release the dedup key so the gateway's retry of this event is
		// reprocessed instead of being acknowledged as a replay.
		if forgetErr := s.idempotency.Forget(ctx, dedupKey); forgetErr != nil {
			s.logger.Error("failed to release webhook dedup key",
				zap.String("event_id", event.EventID),
				zap.Error(forgetErr))
		}
		return err
	}
	return nil
}

func (s *PaymentService) applyWebhookEvent(ctx context.Context, storeID uuid.UUID, gatewayType string, event *payment.WebhookEvent) error {
	o, err := s.orderRepo.FindByOrderNumber(ctx, storeID, event.OrderNumber)
	if err != nil {
		if err == shared.ErrNotFound {
			s.logger.Warn("webhook for unknown order acknowledged",
				zap.String("event_id", event.EventID),
				zap.String("order_number", event.OrderNumber))
			return nil
		}
		return err
	}

	switch event.EventType {
	case payment.WebhookEventPaymentCaptured:
		if !event.Amount.IsZero() && !event.Amount.Equal(o.TotalAmount) {
			s.logger.Warn("webhook capture amount mismatch",
				zap.String("order_number", o.OrderNumber),
				zap.String("captured", event.Amount.String()),
				zap.String("expected", o.TotalAmount.String()))
			return payment.ErrPaymentCaptureMismatch
		}
		_, err = s.orders.MarkPaid(ctx, storeID, o.ID, gatewayType, "", event.PaymentID, event.GatewayOrderID)
		// The client callback usually lands first; a webhook after that
		// is a no-op, not a failure.
		if err != nil && o.PaymentStatus == order.PaymentStatusPaid {
			return nil
		}
		return err
	case payment.WebhookEventPaymentFailed:
		_, err = s.orders.MarkPaymentFailed(ctx, storeID, o.ID, "gateway reported failure")
		return err
	case payment.WebhookEventRefundProcessed:
		s.logger.Info("gateway refund processed",
			zap.String("order_number", o.OrderNumber),
			zap.String("payment_id", event.PaymentID))
		return nil
	default:
		s.logger.Debug("unhandled webhook event type", zap.String("event_type", event.EventType))
		return nil
	}
}

// Refund issues a gateway refund and records it on the order
func (s *PaymentService) Refund(ctx context.Context, storeID, orderID uuid.UUID, req RefundPaymentRequest) (*RefundPaymentResponse, error) {
	o, err := s.orderRepo.FindByIDForStore(ctx, storeID, orderID)
	if err != nil {
		return nil, err
	}
	if o.PaymentTransactionID == "" {
		return nil, shared.NewDomainError("NO_CAPTURED_PAYMENT", "Order has no captured online payment to refund")
	}

	gateway, err := s.resolver.Resolve(ctx, storeID, payment.GatewayType(o.PaymentGateway))
	if err != nil {
		return nil, err
	}

	refund, err := gateway.CreateRefund(ctx, &payment.RefundRequest{
		StoreID:      storeID,
		PaymentID:    o.PaymentTransactionID,
		TotalAmount:  o.TotalAmount,
		RefundAmount: req.Amount,
		Currency:     string(o.Currency),
		Reason:       req.Reason,
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.orders.Refund(ctx, storeID, orderID, orderapp.RefundOrderRequest{
		Amount:    req.Amount,
		Reference: refund.GatewayRefundID,
		Reason:    req.Reason,
	})
	if err != nil {
		return nil, err
	}

	return &RefundPaymentResponse{
		GatewayRefundID: refund.GatewayRefundID,
		Status:          string(refund.Status),
		RefundAmount:    refund.RefundAmount,
		OrderRefunded:   updated.RefundedAmount,
	}, nil
}

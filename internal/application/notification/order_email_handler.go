package notification

import (
	"context"

	"go.uber.org/zap"

	"github.com/multistore/backend/internal/domain/order"
	"github.com/multistore/backend/internal/domain/shared"
	"github.com/multistore/backend/internal/domain/store"
)

// OrderEmailHandler sends the transactional order emails. Failures are
// logged and swallowed so an SMTP outage never fails the order flow.
type OrderEmailHandler struct {
	storeRepo store.StoreRepository
	sender    Sender
	templates *Templates
	logger    *zap.Logger
}

// NewOrderEmailHandler creates a new order email handler
func NewOrderEmailHandler(storeRepo store.StoreRepository, sender Sender, templates *Templates, logger *zap.Logger) *OrderEmailHandler {
	return &OrderEmailHandler{
		storeRepo: storeRepo,
		sender:    sender,
		templates: templates,
		logger:    logger,
	}
}

// EventTypes implements shared.EventHandler
func (h *OrderEmailHandler) EventTypes() []string {
	return []string{
		order.EventTypeOrderCreated,
		order.EventTypeOrderPaid,
		order.EventTypeOrderShipped,
		order.EventTypeOrderCancelled,
	}
}

// Handle implements shared.EventHandler
func (h *OrderEmailHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	st, err := h.storeRepo.FindByID(ctx, event.StoreID())
	if err != nil {
		h.logger.Warn("order email skipped, store lookup failed",
			zap.String("store_id", event.StoreID().String()),
			zap.String("event_type", event.EventType()),
			zap.Error(err))
		return nil
	}

	switch e := event.(type) {
	case *order.OrderCreatedEvent:
		if e.CustomerEmail != "" {
			h.send(ctx, h.templates.OrderConfirmation(e.CustomerEmail, st.Name, e.OrderNumber, e.TotalAmount, e.Currency))
		}
		h.send(ctx, h.templates.NewOrderAlert(st.OwnerEmail, st.Name, e.OrderNumber, e.TotalAmount, e.Currency))
	case *order.OrderPaidEvent:
		if e.CustomerEmail != "" {
			h.send(ctx, h.templates.PaymentReceived(e.CustomerEmail, st.Name, e.OrderNumber, e.TotalAmount, e.Currency))
		}
	case *order.OrderShippedEvent:
		if e.CustomerEmail != "" {
			h.send(ctx, h.templates.OrderShipped(e.CustomerEmail, st.Name, e.OrderNumber, e.Partner, e.TrackingNumber, e.TrackingURL))
		}
	case *order.OrderCancelledEvent:
		if e.CustomerEmail != "" {
			h.send(ctx, h.templates.OrderCancelled(e.CustomerEmail, st.Name, e.OrderNumber, e.Reason, e.WasPaid))
		}
	}
	return nil
}

func (h *OrderEmailHandler) send(ctx context.Context, msg Message) {
	if err := h.sender.Send(ctx, msg); err != nil {
		h.logger.Error("failed to send order email",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Error(err))
	}
}

package notification

import (
	"context"

	"go.uber.org/zap"

	"github.com/multistore/backend/internal/domain/catalog"
	"github.com/multistore/backend/internal/domain/shared"
	"github.com/multistore/backend/internal/domain/store"
)

// StoreEmailHandler covers the store-owner emails: the welcome mail on
// signup and low-stock alerts from the catalog.
type StoreEmailHandler struct {
	storeRepo store.StoreRepository
	sender    Sender
	templates *Templates
	logger    *zap.Logger
}

// NewStoreEmailHandler creates a new store email handler
func NewStoreEmailHandler(storeRepo store.StoreRepository, sender Sender, templates *Templates, logger *zap.Logger) *StoreEmailHandler {
	return &StoreEmailHandler{
		storeRepo: storeRepo,
		sender:    sender,
		templates: templates,
		logger:    logger,
	}
}

// EventTypes implements shared.EventHandler
func (h *StoreEmailHandler) EventTypes() []string {
	return []string{
		store.EventTypeStoreCreated,
		catalog.EventTypeProductLowStock,
	}
}

// Handle implements shared.EventHandler
func (h *StoreEmailHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *store.StoreCreatedEvent:
		h.send(ctx, h.templates.Welcome(e.OwnerEmail, e.Name))
	case *catalog.ProductLowStockEvent:
		st, err := h.storeRepo.FindByID(ctx, event.StoreID())
		if err != nil {
			h.logger.Warn("low stock alert skipped, store lookup failed",
				zap.String("store_id", event.StoreID().String()),
				zap.Error(err))
			return nil
		}
		h.send(ctx, h.templates.LowStockAlert(st.OwnerEmail, st.Name, e.Name, e.SKU, e.VariantSKU, e.Remaining, e.Threshold))
	}
	return nil
}

func (h *StoreEmailHandler) send(ctx context.Context, msg Message) {
	if err := h.sender.Send(ctx, msg); err != nil {
		h.logger.Error("failed to send store email",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Error(err))
	}
}

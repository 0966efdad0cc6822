package event

import (
	"github.com/multistore/backend/internal/domain/catalog"
	"github.com/multistore/backend/internal/domain/customer"
	"github.com/multistore/backend/internal/domain/order"
	"github.com/multistore/backend/internal/domain/store"
)

// RegisterAllEvents registers all domain event types with the serializer.
// This is required for the OutboxProcessor to deserialize events from the
// outbox table. Events that never leave the producing request (gateway and
// partner configuration, content edits, admin user changes) are published
// in process and are not registered here.
func RegisterAllEvents(serializer *EventSerializer) {
	// Order events
	serializer.Register(order.EventTypeOrderCreated, &order.OrderCreatedEvent{})
	serializer.Register(order.EventTypeOrderConfirmed, &order.OrderConfirmedEvent{})
	serializer.Register(order.EventTypeOrderPaid, &order.OrderPaidEvent{})
	serializer.Register(order.EventTypeOrderPaymentFailed, &order.OrderPaymentFailedEvent{})
	serializer.Register(order.EventTypeOrderShipped, &order.OrderShippedEvent{})
	serializer.Register(order.EventTypeOrderDelivered, &order.OrderDeliveredEvent{})
	serializer.Register(order.EventTypeOrderCancelled, &order.OrderCancelledEvent{})
	serializer.Register(order.EventTypeOrderRefunded, &order.OrderRefundedEvent{})

	// Catalog events
	serializer.Register(catalog.EventTypeProductCreated, &catalog.ProductCreatedEvent{})
	serializer.Register(catalog.EventTypeProductUpdated, &catalog.ProductUpdatedEvent{})
	serializer.Register(catalog.EventTypeProductPublished, &catalog.ProductPublishedEvent{})
	serializer.Register(catalog.EventTypeProductPriceChanged, &catalog.ProductPriceChangedEvent{})
	serializer.Register(catalog.EventTypeProductLowStock, &catalog.ProductLowStockEvent{})
	serializer.Register(catalog.EventTypeProductDeleted, &catalog.ProductDeletedEvent{})
	serializer.Register(catalog.EventTypeCategoryCreated, &catalog.CategoryCreatedEvent{})
	serializer.Register(catalog.EventTypeCategoryUpdated, &catalog.CategoryUpdatedEvent{})
	serializer.Register(catalog.EventTypeCategoryStatusChanged, &catalog.CategoryStatusChangedEvent{})
	serializer.Register(catalog.EventTypeCategoryDeleted, &catalog.CategoryDeletedEvent{})

	// Store lifecycle events
	serializer.Register(store.EventTypeStoreCreated, &store.StoreCreatedEvent{})
	serializer.Register(store.EventTypeStoreUpdated, &store.StoreUpdatedEvent{})
	serializer.Register(store.EventTypeStoreStatusChanged, &store.StoreStatusChangedEvent{})
	serializer.Register(store.EventTypeStorePlanChanged, &store.StorePlanChangedEvent{})
	serializer.Register(store.EventTypeStoreSetupCompleted, &store.StoreSetupCompletedEvent{})
	serializer.Register(store.EventTypeStoreDeleted, &store.StoreDeletedEvent{})

	// Customer events
	serializer.Register(customer.EventTypeCustomerCreated, &customer.CustomerCreatedEvent{})
	serializer.Register(customer.EventTypeCustomerVerified, &customer.CustomerVerifiedEvent{})
	serializer.Register(customer.EventTypeCustomerOrdered, &customer.CustomerOrderedEvent{})
}

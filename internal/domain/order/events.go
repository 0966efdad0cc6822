package order

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/multistore/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderCreated       = "OrderCreated"
	EventTypeOrderConfirmed     = "OrderConfirmed"
	EventTypeOrderPaid          = "OrderPaid"
	EventTypeOrderPaymentFailed = "OrderPaymentFailed"
	EventTypeOrderShipped       = "OrderShipped"
	EventTypeOrderDelivered     = "OrderDelivered"
	EventTypeOrderCancelled     = "OrderCancelled"
	EventTypeOrderRefunded      = "OrderRefunded"
)

// OrderItemSnapshot carries line data on events for handlers that
// adjust inventory without reloading the aggregate
type OrderItemSnapshot struct {
	ProductID  uuid.UUID `json:"product_id"`
	VariantSKU string    `json:"variant_sku,omitempty"`
	Quantity   int       `json:"quantity"`
}

func snapshotItems(o *Order) []OrderItemSnapshot {
	items := make([]OrderItemSnapshot, 0, len(o.Items))
	for idx := range o.Items {
		items = append(items, OrderItemSnapshot{
			ProductID:  o.Items[idx].ProductID,
			VariantSKU: o.Items[idx].VariantSKU,
			Quantity:   o.Items[idx].Quantity,
		})
	}
	return items
}

// OrderCreatedEvent is published when a new order is placed
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID       `json:"order_id"`
	OrderNumber   string          `json:"order_number"`
	CustomerEmail string          `json:"customer_email"`
	IsGuestOrder  bool            `json:"is_guest_order"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Currency      string          `json:"currency"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, o.ID, o.StoreID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerEmail:   o.CustomerEmail,
		IsGuestOrder:    o.IsGuestOrder,
		TotalAmount:     o.TotalAmount,
		Currency:        string(o.Currency),
	}
}

// OrderConfirmedEvent is published when an order is confirmed
type OrderConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID           `json:"order_id"`
	OrderNumber   string              `json:"order_number"`
	CustomerEmail string              `json:"customer_email"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	Items         []OrderItemSnapshot `json:"items"`
}

// NewOrderConfirmedEvent creates a new OrderConfirmedEvent
func NewOrderConfirmedEvent(o *Order) *OrderConfirmedEvent {
	return &OrderConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderConfirmed, AggregateTypeOrder, o.ID, o.StoreID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerEmail:   o.CustomerEmail,
		TotalAmount:     o.TotalAmount,
		Items:           snapshotItems(o),
	}
}

// OrderPaidEvent is published when payment is captured
type OrderPaidEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID       `json:"order_id"`
	OrderNumber   string          `json:"order_number"`
	CustomerEmail string          `json:"customer_email"`
	Gateway       string          `json:"gateway"`
	TransactionID string          `json:"transaction_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Currency      string          `json:"currency"`
}

// NewOrderPaidEvent creates a new OrderPaidEvent
func NewOrderPaidEvent(o *Order) *OrderPaidEvent {
	return &OrderPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPaid, AggregateTypeOrder, o.ID, o.StoreID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerEmail:   o.CustomerEmail,
		Gateway:         o.PaymentGateway,
		TransactionID:   o.PaymentTransactionID,
		TotalAmount:     o.TotalAmount,
		Currency:        string(o.Currency),
	}
}

// OrderPaymentFailedEvent is published when a payment attempt fails
type OrderPaymentFailedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Reason      string    `json:"reason"`
}

// NewOrderPaymentFailedEvent creates a new OrderPaymentFailedEvent
func NewOrderPaymentFailedEvent(o *Order, reason string) *OrderPaymentFailedEvent {
	return &OrderPaymentFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPaymentFailed, AggregateTypeOrder, o.ID, o.StoreID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		Reason:          reason,
	}
}

// OrderShippedEvent is published when an order ships
type OrderShippedEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID `json:"order_id"`
	OrderNumber    string    `json:"order_number"`
	CustomerEmail  string    `json:"customer_email"`
	Partner        string    `json:"partner"`
	TrackingNumber string    `json:"tracking_number"`
	TrackingURL    string    `json:"tracking_url,omitempty"`
}

// NewOrderShippedEvent creates a new OrderShippedEvent
func NewOrderShippedEvent(o *Order) *OrderShippedEvent {
	return &OrderShippedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderShipped, AggregateTypeOrder, o.ID, o.StoreID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerEmail:   o.CustomerEmail,
		Partner:         o.ShippingPartner,
		TrackingNumber:  o.TrackingNumber,
		TrackingURL:     o.TrackingURL,
	}
}

// OrderDeliveredEvent is published when delivery is confirmed
type OrderDeliveredEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
}

// NewOrderDeliveredEvent creates a new OrderDeliveredEvent
func NewOrderDeliveredEvent(o *Order) *OrderDeliveredEvent {
	return &OrderDeliveredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderDelivered, AggregateTypeOrder, o.ID, o.StoreID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
	}
}

// OrderCancelledEvent is published when an order is cancelled.
// WasPaid tells handlers whether a refund must be initiated.
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID           `json:"order_id"`
	OrderNumber   string              `json:"order_number"`
	CustomerEmail string              `json:"customer_email"`
	Reason        string              `json:"reason"`
	WasPaid       bool                `json:"was_paid"`
	Items         []OrderItemSnapshot `json:"items"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(o *Order, wasPaid bool) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, o.ID, o.StoreID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerEmail:   o.CustomerEmail,
		Reason:          o.CancelReason,
		WasPaid:         wasPaid,
		Items:           snapshotItems(o),
	}
}

// OrderRefundedEvent is published when a refund is recorded
type OrderRefundedEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID       `json:"order_id"`
	OrderNumber    string          `json:"order_number"`
	Amount         decimal.Decimal `json:"amount"`
	RefundedTotal  decimal.Decimal `json:"refunded_total"`
	Reference      string          `json:"reference,omitempty"`
	FullyRefunded  bool            `json:"fully_refunded"`
}

// NewOrderRefundedEvent creates a new OrderRefundedEvent
func NewOrderRefundedEvent(o *Order, amount decimal.Decimal, reference string) *OrderRefundedEvent {
	return &OrderRefundedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderRefunded, AggregateTypeOrder, o.ID, o.StoreID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		Amount:          amount,
		RefundedTotal:   o.RefundedAmount,
		Reference:       reference,
		FullyRefunded:   o.PaymentStatus == PaymentStatusRefunded,
	}
}

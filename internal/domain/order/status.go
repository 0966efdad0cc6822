package order

// OrderStatus represents the overall lifecycle status of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusConfirmed || target == OrderStatusCancelled
	case OrderStatusConfirmed:
		return target == OrderStatusProcessing || target == OrderStatusShipped || target == OrderStatusCancelled
	case OrderStatusProcessing:
		return target == OrderStatusShipped || target == OrderStatusCancelled
	case OrderStatusShipped:
		return target == OrderStatusDelivered
	case OrderStatusDelivered:
		return target == OrderStatusRefunded
	case OrderStatusCancelled, OrderStatusRefunded:
		return false // Terminal states
	}
	return false
}

// IsTerminal returns true for states that cannot transition further
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCancelled || s == OrderStatusRefunded
}

// PaymentStatus tracks payment collection independently of fulfillment
type PaymentStatus string

const (
	PaymentStatusPending           PaymentStatus = "pending"
	PaymentStatusPaid              PaymentStatus = "paid"
	PaymentStatusFailed            PaymentStatus = "failed"
	PaymentStatusRefunded          PaymentStatus = "refunded"
	PaymentStatusPartiallyRefunded PaymentStatus = "partially_refunded"
)

// CanTransitionTo checks if the payment status can move to the target
func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	switch s {
	case PaymentStatusPending:
		return target == PaymentStatusPaid || target == PaymentStatusFailed
	case PaymentStatusFailed:
		// Failed attempts may be retried
		return target == PaymentStatusPending || target == PaymentStatusPaid
	case PaymentStatusPaid:
		return target == PaymentStatusRefunded || target == PaymentStatusPartiallyRefunded
	case PaymentStatusPartiallyRefunded:
		return target == PaymentStatusRefunded || target == PaymentStatusPartiallyRefunded
	case PaymentStatusRefunded:
		return false
	}
	return false
}

// FulfillmentStatus tracks physical fulfillment of order items
type FulfillmentStatus string

const (
	FulfillmentStatusUnfulfilled FulfillmentStatus = "unfulfilled"
	FulfillmentStatusPartial     FulfillmentStatus = "partial"
	FulfillmentStatusFulfilled   FulfillmentStatus = "fulfilled"
	FulfillmentStatusReturned    FulfillmentStatus = "returned"
)

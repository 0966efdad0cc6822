package customer

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/multistore/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeCustomer = "Customer"

// Event type constants
const (
	EventTypeCustomerCreated  = "CustomerCreated"
	EventTypeCustomerVerified = "CustomerVerified"
	EventTypeCustomerOrdered  = "CustomerOrdered"
	EventTypeCustomerDeleted  = "CustomerDeleted"
)

// CustomerCreatedEvent is published when a customer registers or a guest checks out
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	IsGuest    bool      `json:"is_guest"`
}

// NewCustomerCreatedEvent creates a new CustomerCreatedEvent
func NewCustomerCreatedEvent(c *Customer, guest bool) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerCreated, AggregateTypeCustomer, c.ID, c.StoreID),
		CustomerID:      c.ID,
		Email:           c.Email,
		Name:            c.FullName(),
		IsGuest:         guest,
	}
}

// CustomerVerifiedEvent is published when a customer verifies their email
type CustomerVerifiedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
	Email      string    `json:"email"`
}

// NewCustomerVerifiedEvent creates a new CustomerVerifiedEvent
func NewCustomerVerifiedEvent(c *Customer) *CustomerVerifiedEvent {
	return &CustomerVerifiedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerVerified, AggregateTypeCustomer, c.ID, c.StoreID),
		CustomerID:      c.ID,
		Email:           c.Email,
	}
}

// CustomerOrderedEvent is published when a customer's purchase stats are updated
type CustomerOrderedEvent struct {
	shared.BaseDomainEvent
	CustomerID  uuid.UUID       `json:"customer_id"`
	TotalOrders int             `json:"total_orders"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
}

// NewCustomerOrderedEvent creates a new CustomerOrderedEvent
func NewCustomerOrderedEvent(c *Customer) *CustomerOrderedEvent {
	return &CustomerOrderedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerOrdered, AggregateTypeCustomer, c.ID, c.StoreID),
		CustomerID:      c.ID,
		TotalOrders:     c.TotalOrders,
		TotalSpent:      c.TotalSpent,
	}
}

package payment

import (
	"github.com/multistore/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeGatewayConfig = "PaymentGatewayConfig"

// Event type constants
const (
	EventTypeGatewayConfigured = "PaymentGatewayConfigured"
	EventTypeGatewayUpdated    = "PaymentGatewayUpdated"
	EventTypeGatewayEnabled    = "PaymentGatewayEnabled"
	EventTypeGatewayDisabled   = "PaymentGatewayDisabled"
)

// GatewayConfiguredEvent is published when a store adds gateway credentials
type GatewayConfiguredEvent struct {
	shared.BaseDomainEvent
	GatewayType GatewayType `json:"gateway_type"`
	TestMode    bool        `json:"test_mode"`
}

// NewGatewayConfiguredEvent creates a new GatewayConfiguredEvent
func NewGatewayConfiguredEvent(c *GatewayConfig) *GatewayConfiguredEvent {
	return &GatewayConfiguredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGatewayConfigured, AggregateTypeGatewayConfig, c.ID, c.StoreID),
		GatewayType:     c.Type,
		TestMode:        c.TestMode,
	}
}

// GatewayUpdatedEvent is published when gateway credentials are rotated
type GatewayUpdatedEvent struct {
	shared.BaseDomainEvent
	GatewayType GatewayType `json:"gateway_type"`
}

// NewGatewayUpdatedEvent creates a new GatewayUpdatedEvent
func NewGatewayUpdatedEvent(c *GatewayConfig) *GatewayUpdatedEvent {
	return &GatewayUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGatewayUpdated, AggregateTypeGatewayConfig, c.ID, c.StoreID),
		GatewayType:     c.Type,
	}
}

// GatewayEnabledEvent is published when a gateway is turned on for checkout
type GatewayEnabledEvent struct {
	shared.BaseDomainEvent
	GatewayType GatewayType `json:"gateway_type"`
	TestMode    bool        `json:"test_mode"`
}

// NewGatewayEnabledEvent creates a new GatewayEnabledEvent
func NewGatewayEnabledEvent(c *GatewayConfig) *GatewayEnabledEvent {
	return &GatewayEnabledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGatewayEnabled, AggregateTypeGatewayConfig, c.ID, c.StoreID),
		GatewayType:     c.Type,
		TestMode:        c.TestMode,
	}
}

// GatewayDisabledEvent is published when a gateway is turned off
type GatewayDisabledEvent struct {
	shared.BaseDomainEvent
	GatewayType GatewayType `json:"gateway_type"`
}

// NewGatewayDisabledEvent creates a new GatewayDisabledEvent
func NewGatewayDisabledEvent(c *GatewayConfig) *GatewayDisabledEvent {
	return &GatewayDisabledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGatewayDisabled, AggregateTypeGatewayConfig, c.ID, c.StoreID),
		GatewayType:     c.Type,
	}
}

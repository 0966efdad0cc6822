package shipping

import (
	"github.com/multistore/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypePartnerConfig = "ShippingPartnerConfig"

// Event type constants
const (
	EventTypePartnerConfigured  = "ShippingPartnerConfigured"
	EventTypePartnerActivated   = "ShippingPartnerActivated"
	EventTypePartnerDeactivated = "ShippingPartnerDeactivated"
)

// PartnerConfiguredEvent is published when a store adds courier credentials
type PartnerConfiguredEvent struct {
	shared.BaseDomainEvent
	PartnerType PartnerType `json:"partner_type"`
	TestMode    bool        `json:"test_mode"`
}

// NewPartnerConfiguredEvent creates a new PartnerConfiguredEvent
func NewPartnerConfiguredEvent(c *PartnerConfig) *PartnerConfiguredEvent {
	return &PartnerConfiguredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePartnerConfigured, AggregateTypePartnerConfig, c.ID, c.StoreID),
		PartnerType:     c.Type,
		TestMode:        c.TestMode,
	}
}

// PartnerActivatedEvent is published when a courier partner goes live
type PartnerActivatedEvent struct {
	shared.BaseDomainEvent
	PartnerType PartnerType `json:"partner_type"`
}

// NewPartnerActivatedEvent creates a new PartnerActivatedEvent
func NewPartnerActivatedEvent(c *PartnerConfig) *PartnerActivatedEvent {
	return &PartnerActivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePartnerActivated, AggregateTypePartnerConfig, c.ID, c.StoreID),
		PartnerType:     c.Type,
	}
}

// PartnerDeactivatedEvent is published when a courier partner is turned off
type PartnerDeactivatedEvent struct {
	shared.BaseDomainEvent
	PartnerType PartnerType `json:"partner_type"`
}

// NewPartnerDeactivatedEvent creates a new PartnerDeactivatedEvent
func NewPartnerDeactivatedEvent(c *PartnerConfig) *PartnerDeactivatedEvent {
	return &PartnerDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePartnerDeactivated, AggregateTypePartnerConfig, c.ID, c.StoreID),
		PartnerType:     c.Type,
	}
}

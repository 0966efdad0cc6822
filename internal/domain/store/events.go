package store

import (
	"github.com/multistore/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeStore = "Store"

// Event type constants
const (
	EventTypeStoreCreated        = "StoreCreated"
	EventTypeStoreUpdated        = "StoreUpdated"
	EventTypeStoreStatusChanged  = "StoreStatusChanged"
	EventTypeStorePlanChanged    = "StorePlanChanged"
	EventTypeStoreSetupCompleted = "StoreSetupCompleted"
	EventTypeStoreDeleted        = "StoreDeleted"
)

// StoreCreatedEvent is published when a new store registers
type StoreCreatedEvent struct {
	shared.BaseDomainEvent
	Name       string      `json:"name"`
	Slug       string      `json:"slug"`
	OwnerEmail string      `json:"owner_email"`
	Status     StoreStatus `json:"status"`
	Plan       StorePlan   `json:"plan"`
}

// NewStoreCreatedEvent creates a new StoreCreatedEvent
func NewStoreCreatedEvent(s *Store) *StoreCreatedEvent {
	return &StoreCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStoreCreated, AggregateTypeStore, s.ID, s.ID),
		Name:            s.Name,
		Slug:            s.Slug,
		OwnerEmail:      s.OwnerEmail,
		Status:          s.Status,
		Plan:            s.Plan,
	}
}

// StoreUpdatedEvent is published when a store's profile is updated
type StoreUpdatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// NewStoreUpdatedEvent creates a new StoreUpdatedEvent
func NewStoreUpdatedEvent(s *Store) *StoreUpdatedEvent {
	return &StoreUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStoreUpdated, AggregateTypeStore, s.ID, s.ID),
		Name:            s.Name,
		Slug:            s.Slug,
	}
}

// StoreStatusChangedEvent is published when a store's subscription status changes
type StoreStatusChangedEvent struct {
	shared.BaseDomainEvent
	Slug      string      `json:"slug"`
	OldStatus StoreStatus `json:"old_status"`
	NewStatus StoreStatus `json:"new_status"`
}

// NewStoreStatusChangedEvent creates a new StoreStatusChangedEvent
func NewStoreStatusChangedEvent(s *Store, oldStatus, newStatus StoreStatus) *StoreStatusChangedEvent {
	return &StoreStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStoreStatusChanged, AggregateTypeStore, s.ID, s.ID),
		Slug:            s.Slug,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// StorePlanChangedEvent is published when a store's subscription plan changes
type StorePlanChangedEvent struct {
	shared.BaseDomainEvent
	Slug    string    `json:"slug"`
	OldPlan StorePlan `json:"old_plan"`
	NewPlan StorePlan `json:"new_plan"`
}

// NewStorePlanChangedEvent creates a new StorePlanChangedEvent
func NewStorePlanChangedEvent(s *Store, oldPlan, newPlan StorePlan) *StorePlanChangedEvent {
	return &StorePlanChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStorePlanChanged, AggregateTypeStore, s.ID, s.ID),
		Slug:            s.Slug,
		OldPlan:         oldPlan,
		NewPlan:         newPlan,
	}
}

// StoreSetupCompletedEvent is published when onboarding finishes
type StoreSetupCompletedEvent struct {
	shared.BaseDomainEvent
	Slug       string `json:"slug"`
	OwnerEmail string `json:"owner_email"`
}

// NewStoreSetupCompletedEvent creates a new StoreSetupCompletedEvent
func NewStoreSetupCompletedEvent(s *Store) *StoreSetupCompletedEvent {
	return &StoreSetupCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStoreSetupCompleted, AggregateTypeStore, s.ID, s.ID),
		Slug:            s.Slug,
		OwnerEmail:      s.OwnerEmail,
	}
}

// StoreDeletedEvent is published when a store is deleted
type StoreDeletedEvent struct {
	shared.BaseDomainEvent
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// NewStoreDeletedEvent creates a new StoreDeletedEvent
func NewStoreDeletedEvent(s *Store) *StoreDeletedEvent {
	return &StoreDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStoreDeleted, AggregateTypeStore, s.ID, s.ID),
		Slug:            s.Slug,
		Name:            s.Name,
	}
}

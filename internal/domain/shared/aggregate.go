package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot provides common fields for aggregate roots
type BaseAggregateRoot struct {
	BaseEntity
	Version      int           `gorm:"not null;default:1"`
	domainEvents []DomainEvent `gorm:"-"`
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// AddDomainEvent adds a domain event to be published
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns all pending domain events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents clears the pending domain events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity:   NewBaseEntity(),
		Version:      1,
		domainEvents: make([]DomainEvent, 0),
	}
}

// StoreAggregateRoot extends BaseAggregateRoot with store (tenant) scoping.
// Every aggregate that belongs to a single store embeds this.
type StoreAggregateRoot struct {
	BaseAggregateRoot
	StoreID uuid.UUID `gorm:"type:char(36);not null;index"`
}

// NewStoreAggregateRoot creates a new store-scoped aggregate root
func NewStoreAggregateRoot(storeID uuid.UUID) StoreAggregateRoot {
	return StoreAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		StoreID:           storeID,
	}
}

// GetStoreID returns the owning store ID
func (s *StoreAggregateRoot) GetStoreID() uuid.UUID {
	return s.StoreID
}

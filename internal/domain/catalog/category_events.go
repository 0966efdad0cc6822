package catalog

import (
	"github.com/google/uuid"

	"github.com/multistore/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeCategory = "Category"

// Event type constants
const (
	EventTypeCategoryCreated       = "CategoryCreated"
	EventTypeCategoryUpdated       = "CategoryUpdated"
	EventTypeCategoryStatusChanged = "CategoryStatusChanged"
	EventTypeCategoryDeleted       = "CategoryDeleted"
)

// CategoryCreatedEvent is published when a new category is created
type CategoryCreatedEvent struct {
	shared.BaseDomainEvent
	CategoryID uuid.UUID  `json:"category_id"`
	Name       string     `json:"name"`
	Slug       string     `json:"slug"`
	ParentID   *uuid.UUID `json:"parent_id,omitempty"`
	Level      int        `json:"level"`
}

// NewCategoryCreatedEvent creates a new CategoryCreatedEvent
func NewCategoryCreatedEvent(category *Category) *CategoryCreatedEvent {
	return &CategoryCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCategoryCreated, AggregateTypeCategory, category.ID, category.StoreID),
		CategoryID:      category.ID,
		Name:            category.Name,
		Slug:            category.Slug,
		ParentID:        category.ParentID,
		Level:           category.Level,
	}
}

// CategoryUpdatedEvent is published when a category is updated
type CategoryUpdatedEvent struct {
	shared.BaseDomainEvent
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
}

// NewCategoryUpdatedEvent creates a new CategoryUpdatedEvent
func NewCategoryUpdatedEvent(category *Category) *CategoryUpdatedEvent {
	return &CategoryUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCategoryUpdated, AggregateTypeCategory, category.ID, category.StoreID),
		CategoryID:      category.ID,
		Name:            category.Name,
		Slug:            category.Slug,
	}
}

// CategoryStatusChangedEvent is published when a category's status changes
type CategoryStatusChangedEvent struct {
	shared.BaseDomainEvent
	CategoryID uuid.UUID      `json:"category_id"`
	OldStatus  CategoryStatus `json:"old_status"`
	NewStatus  CategoryStatus `json:"new_status"`
}

// NewCategoryStatusChangedEvent creates a new CategoryStatusChangedEvent
func NewCategoryStatusChangedEvent(category *Category, oldStatus, newStatus CategoryStatus) *CategoryStatusChangedEvent {
	return &CategoryStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCategoryStatusChanged, AggregateTypeCategory, category.ID, category.StoreID),
		CategoryID:      category.ID,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// CategoryDeletedEvent is published when a category is deleted
type CategoryDeletedEvent struct {
	shared.BaseDomainEvent
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
}

// NewCategoryDeletedEvent creates a new CategoryDeletedEvent
func NewCategoryDeletedEvent(category *Category) *CategoryDeletedEvent {
	return &CategoryDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCategoryDeleted, AggregateTypeCategory, category.ID, category.StoreID),
		CategoryID:      category.ID,
		Name:            category.Name,
		Slug:            category.Slug,
	}
}

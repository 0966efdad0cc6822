package identity

import (
	"github.com/google/uuid"

	"github.com/multistore/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeAdminUser = "AdminUser"

// Event type constants
const (
	EventTypeAdminUserCreated     = "AdminUserCreated"
	EventTypeAdminPasswordChanged = "AdminPasswordChanged"
	EventTypeAdminEmailVerified   = "AdminEmailVerified"
	EventTypeAdminUserLocked      = "AdminUserLocked"
)

func adminStoreID(u *AdminUser) uuid.UUID {
	if u.StoreID == nil {
		return uuid.Nil
	}
	return *u.StoreID
}

// AdminUserCreatedEvent is published when an admin account is created
type AdminUserCreatedEvent struct {
	shared.BaseDomainEvent
	Email string    `json:"email"`
	Role  AdminRole `json:"role"`
}

// NewAdminUserCreatedEvent creates a new AdminUserCreatedEvent
func NewAdminUserCreatedEvent(u *AdminUser) *AdminUserCreatedEvent {
	return &AdminUserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAdminUserCreated, AggregateTypeAdminUser, u.ID, adminStoreID(u)),
		Email:           u.Email,
		Role:            u.Role,
	}
}

// AdminPasswordChangedEvent is published when an admin password changes
type AdminPasswordChangedEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
}

// NewAdminPasswordChangedEvent creates a new AdminPasswordChangedEvent
func NewAdminPasswordChangedEvent(u *AdminUser) *AdminPasswordChangedEvent {
	return &AdminPasswordChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAdminPasswordChanged, AggregateTypeAdminUser, u.ID, adminStoreID(u)),
		Email:           u.Email,
	}
}

// AdminEmailVerifiedEvent is published when an admin verifies their email
type AdminEmailVerifiedEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
}

// NewAdminEmailVerifiedEvent creates a new AdminEmailVerifiedEvent
func NewAdminEmailVerifiedEvent(u *AdminUser) *AdminEmailVerifiedEvent {
	return &AdminEmailVerifiedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAdminEmailVerified, AggregateTypeAdminUser, u.ID, adminStoreID(u)),
		Email:           u.Email,
	}
}

// AdminUserLockedEvent is published when repeated failures lock an account
type AdminUserLockedEvent struct {
	shared.BaseDomainEvent
	Email          string `json:"email"`
	FailedAttempts int    `json:"failed_attempts"`
}

// NewAdminUserLockedEvent creates a new AdminUserLockedEvent
func NewAdminUserLockedEvent(u *AdminUser) *AdminUserLockedEvent {
	return &AdminUserLockedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAdminUserLocked, AggregateTypeAdminUser, u.ID, adminStoreID(u)),
		Email:           u.Email,
		FailedAttempts:  u.FailedAttempts,
	}
}

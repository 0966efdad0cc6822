package store

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/multistore/backend/internal/domain/shared"
)

// StoreStatus represents the subscription lifecycle status of a store
type StoreStatus string

const (
	StoreStatusTrial     StoreStatus = "trial"
	StoreStatusActive    StoreStatus = "active"
	StoreStatusSuspended StoreStatus = "suspended" // Suspended due to payment/violation issues
	StoreStatusCancelled StoreStatus = "cancelled"
)

// StorePlan represents the subscription plan of a store
type StorePlan string

const (
	StorePlanBasic      StorePlan = "basic"
	StorePlanPremium    StorePlan = "premium"
	StorePlanEnterprise StorePlan = "enterprise"
)

// PlanLimits holds the resource quotas granted by a subscription plan
type PlanLimits struct {
	MaxProducts       int `json:"max_products"`
	MaxStorageMB      int `json:"max_storage_mb"`
	MaxOrdersPerMonth int `json:"max_orders_per_month"`
}

// LimitsForPlan returns the quota set that a plan grants
func LimitsForPlan(plan StorePlan) PlanLimits {
	switch plan {
	case StorePlanPremium:
		return PlanLimits{MaxProducts: 1000, MaxStorageMB: 5120, MaxOrdersPerMonth: 5000}
	case StorePlanEnterprise:
		return PlanLimits{MaxProducts: 100000, MaxStorageMB: 51200, MaxOrdersPerMonth: 1000000}
	default:
		return PlanLimits{MaxProducts: 100, MaxStorageMB: 512, MaxOrdersPerMonth: 500}
	}
}

// DefaultTrialDays is the trial period granted to newly registered stores
const DefaultTrialDays = 14

// Store represents a merchant storefront in the multi-store platform.
// It is the tenancy root: every other aggregate is scoped to a store ID.
type Store struct {
	shared.BaseAggregateRoot
	Name         string `gorm:"type:varchar(200);not null"`
	Slug         string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Subdomain    string `gorm:"type:varchar(100);uniqueIndex"`
	CustomDomain string `gorm:"type:varchar(255);uniqueIndex"`
	Description  string `gorm:"type:text"`
	LogoURL      string `gorm:"type:varchar(500)"`
	FaviconURL   string `gorm:"type:varchar(500)"`

	OwnerName  string `gorm:"type:varchar(100);not null"`
	OwnerEmail string `gorm:"type:varchar(200);not null;uniqueIndex"`
	OwnerPhone string `gorm:"type:varchar(50)"`

	BusinessName    string `gorm:"type:varchar(200)"`
	BusinessEmail   string `gorm:"type:varchar(200)"`
	BusinessPhone   string `gorm:"type:varchar(50)"`
	BusinessAddress string `gorm:"type:text"`
	GSTIN           string `gorm:"type:varchar(20)"`

	Status          StoreStatus `gorm:"type:varchar(20);not null;default:'trial';index"`
	Plan            StorePlan   `gorm:"type:varchar(20);not null;default:'basic'"`
	IsSetupComplete bool        `gorm:"not null;default:false"`
	MaintenanceMode bool        `gorm:"not null;default:false"`

	Limits PlanLimits `gorm:"embedded;embeddedPrefix:limit_"`

	TrialEndsAt        *time.Time `gorm:"index"`
	SubscriptionEndsAt *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (Store) TableName() string {
	return "stores"
}

// NewStore registers a new store in trial status
func NewStore(name, slug, ownerName, ownerEmail string) (*Store, error) {
	if err := validateStoreName(name); err != nil {
		return nil, err
	}
	if err := validateSlug(slug); err != nil {
		return nil, err
	}
	if ownerName == "" {
		return nil, shared.NewDomainError("INVALID_OWNER_NAME", "Owner name cannot be empty")
	}
	if err := validateEmail(ownerEmail); err != nil {
		return nil, err
	}

	slug = strings.ToLower(strings.TrimSpace(slug))
	trialEnds := time.Now().AddDate(0, 0, DefaultTrialDays)

	s := &Store{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              slug,
		Subdomain:         slug,
		OwnerName:         ownerName,
		OwnerEmail:        strings.ToLower(strings.TrimSpace(ownerEmail)),
		Status:            StoreStatusTrial,
		Plan:              StorePlanBasic,
		Limits:            LimitsForPlan(StorePlanBasic),
		TrialEndsAt:       &trialEnds,
	}

	s.AddDomainEvent(NewStoreCreatedEvent(s))

	return s, nil
}

// Update updates the store's display information
func (s *Store) Update(name, description string) error {
	if err := validateStoreName(name); err != nil {
		return err
	}
	if len(description) > 5000 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 5000 characters")
	}

	s.Name = name
	s.Description = description
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewStoreUpdatedEvent(s))

	return nil
}

// SetBranding sets the store's logo and favicon URLs
func (s *Store) SetBranding(logoURL, faviconURL string) error {
	if len(logoURL) > 500 || len(faviconURL) > 500 {
		return shared.NewDomainError("INVALID_URL", "Branding URL cannot exceed 500 characters")
	}

	s.LogoURL = logoURL
	s.FaviconURL = faviconURL
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// SetCustomDomain attaches a custom domain to the store
func (s *Store) SetCustomDomain(domain string) error {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if len(domain) > 255 {
		return shared.NewDomainError("INVALID_DOMAIN", "Domain cannot exceed 255 characters")
	}

	s.CustomDomain = domain
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// SetBusinessInfo sets the legal business details used on invoices
func (s *Store) SetBusinessInfo(name, email, phone, address, gstin string) error {
	if name != "" && len(name) > 200 {
		return shared.NewDomainError("INVALID_BUSINESS_NAME", "Business name cannot exceed 200 characters")
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
	}
	if gstin != "" && len(gstin) > 20 {
		return shared.NewDomainError("INVALID_GSTIN", "GSTIN cannot exceed 20 characters")
	}

	s.BusinessName = name
	s.BusinessEmail = email
	s.BusinessPhone = phone
	s.BusinessAddress = address
	s.GSTIN = gstin
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// SetOwnerContact updates the owner's contact details
func (s *Store) SetOwnerContact(name, phone string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_OWNER_NAME", "Owner name cannot be empty")
	}
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}

	s.OwnerName = name
	s.OwnerPhone = phone
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// ChangePlan switches the store to a new subscription plan and resets quotas
func (s *Store) ChangePlan(plan StorePlan, validUntil time.Time) error {
	if err := validatePlan(plan); err != nil {
		return err
	}
	if s.Status == StoreStatusCancelled {
		return shared.NewDomainError("STORE_CANCELLED", "Cannot change plan of a cancelled store")
	}

	oldPlan := s.Plan
	s.Plan = plan
	s.Limits = LimitsForPlan(plan)
	s.SubscriptionEndsAt = &validUntil
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	// Upgrading out of trial activates the store
	if s.Status == StoreStatusTrial {
		s.Status = StoreStatusActive
		s.TrialEndsAt = nil
	}

	s.AddDomainEvent(NewStorePlanChangedEvent(s, oldPlan, plan))

	return nil
}

// Activate activates the store subscription
func (s *Store) Activate() error {
	if s.Status == StoreStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Store is already active")
	}

	oldStatus := s.Status
	s.Status = StoreStatusActive
	s.TrialEndsAt = nil
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewStoreStatusChangedEvent(s, oldStatus, StoreStatusActive))

	return nil
}

// Suspend suspends the store, hiding its storefront and blocking admin writes
func (s *Store) Suspend() error {
	if s.Status == StoreStatusSuspended {
		return shared.NewDomainError("ALREADY_SUSPENDED", "Store is already suspended")
	}
	if s.Status == StoreStatusCancelled {
		return shared.NewDomainError("STORE_CANCELLED", "Cannot suspend a cancelled store")
	}

	oldStatus := s.Status
	s.Status = StoreStatusSuspended
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewStoreStatusChangedEvent(s, oldStatus, StoreStatusSuspended))

	return nil
}

// Cancel cancels the store subscription permanently
func (s *Store) Cancel() error {
	if s.Status == StoreStatusCancelled {
		return shared.NewDomainError("ALREADY_CANCELLED", "Store is already cancelled")
	}

	oldStatus := s.Status
	s.Status = StoreStatusCancelled
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewStoreStatusChangedEvent(s, oldStatus, StoreStatusCancelled))

	return nil
}

// MarkSetupComplete records that the onboarding wizard has finished
func (s *Store) MarkSetupComplete() {
	if s.IsSetupComplete {
		return
	}
	s.IsSetupComplete = true
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewStoreSetupCompletedEvent(s))
}

// SetMaintenanceMode toggles the storefront maintenance banner
func (s *Store) SetMaintenanceMode(enabled bool) {
	if s.MaintenanceMode == enabled {
		return
	}
	s.MaintenanceMode = enabled
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// IsOperational returns true if the store can serve its storefront and accept orders
func (s *Store) IsOperational() bool {
	if s.MaintenanceMode {
		return false
	}
	switch s.Status {
	case StoreStatusActive:
		return !s.IsSubscriptionExpired()
	case StoreStatusTrial:
		return !s.IsTrialExpired()
	default:
		return false
	}
}

// IsSuspended returns true if the store is suspended
func (s *Store) IsSuspended() bool {
	return s.Status == StoreStatusSuspended
}

// IsTrialExpired returns true if the trial window has elapsed
func (s *Store) IsTrialExpired() bool {
	if s.Status != StoreStatusTrial || s.TrialEndsAt == nil {
		return false
	}
	return time.Now().After(*s.TrialEndsAt)
}

// IsSubscriptionExpired returns true if the paid subscription has lapsed
func (s *Store) IsSubscriptionExpired() bool {
	if s.SubscriptionEndsAt == nil {
		return false
	}
	return time.Now().After(*s.SubscriptionEndsAt)
}

// CanAddProduct checks the product quota for the current plan
func (s *Store) CanAddProduct(currentProductCount int64) error {
	if currentProductCount >= int64(s.Limits.MaxProducts) {
		return shared.ErrPlanLimitExceeded
	}
	return nil
}

// CanAcceptOrder checks the monthly order quota for the current plan
func (s *Store) CanAcceptOrder(ordersThisMonth int64) error {
	if !s.IsOperational() {
		return shared.ErrStoreSuspended
	}
	if ordersThisMonth >= int64(s.Limits.MaxOrdersPerMonth) {
		return shared.ErrPlanLimitExceeded
	}
	return nil
}

// GetStoreID returns the store's own ID; the store is its own tenancy scope
func (s *Store) GetStoreID() uuid.UUID {
	return s.ID
}

// Validation functions

func validateStoreName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Store name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Store name cannot exceed 200 characters")
	}
	return nil
}

func validateSlug(slug string) error {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return shared.NewDomainError("INVALID_SLUG", "Store slug cannot be empty")
	}
	if len(slug) > 100 {
		return shared.NewDomainError("INVALID_SLUG", "Store slug cannot exceed 100 characters")
	}
	for _, r := range slug {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-') {
			return shared.NewDomainError("INVALID_SLUG", "Store slug can only contain letters, numbers, and hyphens")
		}
	}
	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") || len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email address")
	}
	return nil
}

func validatePlan(plan StorePlan) error {
	switch plan {
	case StorePlanBasic, StorePlanPremium, StorePlanEnterprise:
		return nil
	default:
		return shared.NewDomainError("INVALID_PLAN", "Invalid store plan")
	}
}

package customer

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/multistore/backend/internal/domain/shared"
	"github.com/multistore/backend/internal/domain/shared/valueobject"
)

// CustomerGroup represents the customer's pricing/segmentation group
type CustomerGroup string

const (
	CustomerGroupRegular   CustomerGroup = "regular"
	CustomerGroupVIP       CustomerGroup = "vip"
	CustomerGroupWholesale CustomerGroup = "wholesale"
)

// MaxFailedLogins before the storefront account is temporarily locked
const MaxFailedLogins = 5

// LoginLockDuration is how long an account stays locked after repeated failures
const LoginLockDuration = 30 * time.Minute

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// CustomerAddress is a saved address book entry, stored as a JSON column
type CustomerAddress struct {
	ID        string              `json:"id"`
	Label     string              `json:"label,omitempty"` // e.g. "Home", "Office"
	Address   valueobject.Address `json:"address"`
	IsDefault bool                `json:"is_default"`
}

// AddressBook is a JSON-column slice of saved addresses
type AddressBook []CustomerAddress

// Default returns the default address entry, or nil
func (b AddressBook) Default() *CustomerAddress {
	for i := range b {
		if b[i].IsDefault {
			return &b[i]
		}
	}
	if len(b) > 0 {
		return &b[0]
	}
	return nil
}

// Value implements driver.Valuer for JSON column storage
func (b AddressBook) Value() (driver.Value, error) {
	if b == nil {
		b = AddressBook{}
	}
	return json.Marshal(b)
}

// Scan implements sql.Scanner for JSON column storage
func (b *AddressBook) Scan(value any) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, b)
	case string:
		return json.Unmarshal([]byte(v), b)
	default:
		return fmt.Errorf("cannot scan %T into AddressBook", value)
	}
}

// Customer represents a storefront shopper belonging to one store.
// Guests have no password hash; registered customers authenticate
// against the stored bcrypt hash.
type Customer struct {
	shared.StoreAggregateRoot
	Email        string `gorm:"type:varchar(200);not null;uniqueIndex:idx_customer_store_email,priority:2"`
	PasswordHash string `gorm:"type:varchar(255)"` // Empty for guest customers
	FirstName    string `gorm:"type:varchar(50);not null"`
	LastName     string `gorm:"type:varchar(50);not null"`
	Phone        string `gorm:"type:varchar(20);index"`

	IsActive          bool       `gorm:"not null;default:true"`
	IsVerified        bool       `gorm:"not null;default:false"`
	VerificationToken string     `gorm:"type:varchar(100)"`
	ResetToken        string     `gorm:"type:varchar(100)"`
	ResetTokenExpires *time.Time

	AcceptsMarketing   bool       `gorm:"not null;default:false"`
	MarketingOptInDate *time.Time

	Addresses AddressBook   `gorm:"type:json"`
	Group     CustomerGroup `gorm:"type:varchar(50);not null;default:'regular'"`

	TotalOrders    int             `gorm:"not null;default:0"`
	TotalSpent     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	FirstOrderDate *time.Time
	LastOrderDate  *time.Time

	LastLoginAt         *time.Time
	LoginCount          int        `gorm:"not null;default:0"`
	FailedLoginAttempts int        `gorm:"not null;default:0"`
	LockedUntil         *time.Time

	AdminNotes string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a registered customer for a store
func NewCustomer(storeID uuid.UUID, email, firstName, lastName string) (*Customer, error) {
	if err := validateCustomerEmail(email); err != nil {
		return nil, err
	}
	if err := validateCustomerName(firstName, lastName); err != nil {
		return nil, err
	}

	c := &Customer{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Email:              strings.ToLower(strings.TrimSpace(email)),
		FirstName:          firstName,
		LastName:           lastName,
		IsActive:           true,
		Group:              CustomerGroupRegular,
		Addresses:          AddressBook{},
		TotalSpent:         decimal.Zero,
	}

	c.AddDomainEvent(NewCustomerCreatedEvent(c, false))

	return c, nil
}

// NewGuestCustomer creates a guest record captured at checkout
func NewGuestCustomer(storeID uuid.UUID, email, firstName, lastName string) (*Customer, error) {
	c, err := NewCustomer(storeID, email, firstName, lastName)
	if err != nil {
		return nil, err
	}

	c.ClearDomainEvents()
	c.AddDomainEvent(NewCustomerCreatedEvent(c, true))

	return c, nil
}

// IsGuest returns true if the customer never set a password
func (c *Customer) IsGuest() bool {
	return c.PasswordHash == ""
}

// Update updates the customer's profile
func (c *Customer) Update(firstName, lastName, phone string) error {
	if err := validateCustomerName(firstName, lastName); err != nil {
		return err
	}
	if len(phone) > 20 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 20 characters")
	}

	c.FirstName = firstName
	c.LastName = lastName
	c.Phone = phone
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetPasswordHash stores a new credential hash; converts guests to registered
func (c *Customer) SetPasswordHash(hash string) error {
	if hash == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password hash cannot be empty")
	}

	c.PasswordHash = hash
	c.ResetToken = ""
	c.ResetTokenExpires = nil
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// FullName returns the customer's display name
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// SetMarketingConsent records the marketing opt-in/opt-out decision
func (c *Customer) SetMarketingConsent(accepts bool) {
	c.AcceptsMarketing = accepts
	if accepts {
		now := time.Now()
		c.MarketingOptInDate = &now
	} else {
		c.MarketingOptInDate = nil
	}
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// SetGroup moves the customer to a segmentation group
func (c *Customer) SetGroup(group CustomerGroup) error {
	switch group {
	case CustomerGroupRegular, CustomerGroupVIP, CustomerGroupWholesale:
	default:
		return shared.NewDomainError("INVALID_GROUP", "Invalid customer group")
	}

	c.Group = group
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// AddAddress appends an address book entry. The first entry becomes default.
func (c *Customer) AddAddress(label string, addr valueobject.Address, makeDefault bool) error {
	if err := addr.Validate(); err != nil {
		return err
	}

	entry := CustomerAddress{
		ID:        uuid.NewString(),
		Label:     label,
		Address:   addr,
		IsDefault: makeDefault || len(c.Addresses) == 0,
	}
	if entry.IsDefault {
		for i := range c.Addresses {
			c.Addresses[i].IsDefault = false
		}
	}

	c.Addresses = append(c.Addresses, entry)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// RemoveAddress deletes an address book entry by ID
func (c *Customer) RemoveAddress(addressID string) error {
	for i := range c.Addresses {
		if c.Addresses[i].ID == addressID {
			wasDefault := c.Addresses[i].IsDefault
			c.Addresses = append(c.Addresses[:i], c.Addresses[i+1:]...)
			if wasDefault && len(c.Addresses) > 0 {
				c.Addresses[0].IsDefault = true
			}
			c.UpdatedAt = time.Now()
			c.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("ADDRESS_NOT_FOUND", "Address does not exist")
}

// SetVerificationToken issues an email verification token
func (c *Customer) SetVerificationToken(token string) {
	c.VerificationToken = token
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Verify marks the email address as verified when the token matches
func (c *Customer) Verify(token string) error {
	if c.IsVerified {
		return shared.NewDomainError("ALREADY_VERIFIED", "Customer is already verified")
	}
	if c.VerificationToken == "" || c.VerificationToken != token {
		return shared.NewDomainError("INVALID_TOKEN", "Verification token is invalid")
	}

	c.IsVerified = true
	c.VerificationToken = ""
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// IssueResetToken stores a password reset token with an expiry
func (c *Customer) IssueResetToken(token string, expires time.Time) {
	c.ResetToken = token
	c.ResetTokenExpires = &expires
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// ValidateResetToken checks the reset token and its expiry
func (c *Customer) ValidateResetToken(token string) error {
	if c.ResetToken == "" || c.ResetToken != token {
		return shared.NewDomainError("INVALID_TOKEN", "Reset token is invalid")
	}
	if c.ResetTokenExpires == nil || time.Now().After(*c.ResetTokenExpires) {
		return shared.NewDomainError("TOKEN_EXPIRED", "Reset token has expired")
	}
	return nil
}

// RecordLogin resets failure counters after a successful login
func (c *Customer) RecordLogin() {
	now := time.Now()
	c.LastLoginAt = &now
	c.LoginCount++
	c.FailedLoginAttempts = 0
	c.LockedUntil = nil
	c.UpdatedAt = now
	c.IncrementVersion()
}

// RecordFailedLogin counts a failure and locks the account at the limit
func (c *Customer) RecordFailedLogin() {
	c.FailedLoginAttempts++
	if c.FailedLoginAttempts >= MaxFailedLogins {
		until := time.Now().Add(LoginLockDuration)
		c.LockedUntil = &until
	}
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// IsLocked returns true while a login lock is in effect
func (c *Customer) IsLocked() bool {
	return c.LockedUntil != nil && time.Now().Before(*c.LockedUntil)
}

// RecordOrder accumulates purchase statistics after an order is placed
func (c *Customer) RecordOrder(total decimal.Decimal, placedAt time.Time) {
	c.TotalOrders++
	c.TotalSpent = c.TotalSpent.Add(total)
	if c.FirstOrderDate == nil {
		c.FirstOrderDate = &placedAt
	}
	c.LastOrderDate = &placedAt
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// AverageOrderValue derives the mean order total
func (c *Customer) AverageOrderValue() decimal.Decimal {
	if c.TotalOrders == 0 {
		return decimal.Zero
	}
	return c.TotalSpent.Div(decimal.NewFromInt(int64(c.TotalOrders))).Round(2)
}

// Deactivate disables the customer account
func (c *Customer) Deactivate() error {
	if !c.IsActive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Customer is already inactive")
	}

	c.IsActive = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Activate re-enables the customer account
func (c *Customer) Activate() error {
	if c.IsActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Customer is already active")
	}

	c.IsActive = true
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetAdminNotes sets internal notes visible only to store staff
func (c *Customer) SetAdminNotes(notes string) {
	c.AdminNotes = notes
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Validation functions

func validateCustomerEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 || !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email address")
	}
	return nil
}

func validateCustomerName(firstName, lastName string) error {
	if firstName == "" {
		return shared.NewDomainError("INVALID_NAME", "First name cannot be empty")
	}
	if len(firstName) > 50 || len(lastName) > 50 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 50 characters")
	}
	return nil
}

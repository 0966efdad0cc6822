package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/multistore/backend/internal/domain/shared"
	"github.com/multistore/backend/internal/domain/shared/valueobject"
)

// StoreSettings holds per-store storefront configuration. Exactly one
// settings row exists per store; it is created alongside the store.
type StoreSettings struct {
	shared.StoreAggregateRoot

	Currency valueobject.Currency `gorm:"type:varchar(3);not null;default:'INR'"`
	Timezone string               `gorm:"type:varchar(50);not null;default:'Asia/Kolkata'"`
	Locale   string               `gorm:"type:varchar(10);not null;default:'en-IN'"`

	ThemeConfig   string `gorm:"type:text"` // JSON object of theme colors/fonts
	SocialLinks   string `gorm:"type:text"` // JSON object of social profile URLs
	BusinessHours string `gorm:"type:text"` // JSON object of weekday opening hours

	MetaTitle       string `gorm:"type:varchar(200)"`
	MetaDescription string `gorm:"type:varchar(500)"`
	MetaKeywords    string `gorm:"type:varchar(500)"`

	AutoAcceptOrders bool            `gorm:"not null;default:true"`
	OrderPrefix      string          `gorm:"type:varchar(10);not null;default:'ORD'"`
	MinOrderAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	MaxOrderAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"` // 0 = unlimited
	AllowGuestOrders bool            `gorm:"not null;default:true"`
	DefaultTaxRate   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"` // percent applied at checkout

	TrackInventory    bool `gorm:"not null;default:true"`
	AllowBackorders   bool `gorm:"not null;default:false"`
	LowStockThreshold int  `gorm:"not null;default:5"`

	NotificationEmail string `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (StoreSettings) TableName() string {
	return "store_settings"
}

// NewStoreSettings creates the default settings row for a store
func NewStoreSettings(storeID uuid.UUID) *StoreSettings {
	return &StoreSettings{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Currency:           valueobject.INR,
		Timezone:           "Asia/Kolkata",
		Locale:             "en-IN",
		ThemeConfig:        "{}",
		SocialLinks:        "{}",
		BusinessHours:      "{}",
		AutoAcceptOrders:   true,
		OrderPrefix:        "ORD",
		MinOrderAmount:     decimal.Zero,
		MaxOrderAmount:     decimal.Zero,
		DefaultTaxRate:     decimal.Zero,
		AllowGuestOrders:   true,
		TrackInventory:     true,
		LowStockThreshold:  5,
	}
}

// SetLocalization updates currency, timezone, and locale
func (s *StoreSettings) SetLocalization(currency valueobject.Currency, timezone, locale string) error {
	if !currency.IsValid() {
		return shared.NewDomainError("INVALID_CURRENCY", "Unsupported currency code")
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return shared.NewDomainError("INVALID_TIMEZONE", "Unknown timezone")
	}
	if locale == "" || len(locale) > 10 {
		return shared.NewDomainError("INVALID_LOCALE", "Invalid locale")
	}

	s.Currency = currency
	s.Timezone = timezone
	s.Locale = locale
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// SetSEO updates the storefront meta tags
func (s *StoreSettings) SetSEO(title, description, keywords string) error {
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_META", "Meta title cannot exceed 200 characters")
	}
	if len(description) > 500 || len(keywords) > 500 {
		return shared.NewDomainError("INVALID_META", "Meta fields cannot exceed 500 characters")
	}

	s.MetaTitle = title
	s.MetaDescription = description
	s.MetaKeywords = keywords
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// SetOrderRules updates order acceptance rules
func (s *StoreSettings) SetOrderRules(autoAccept bool, prefix string, minAmount, maxAmount decimal.Decimal, allowGuest bool) error {
	if prefix == "" || len(prefix) > 10 {
		return shared.NewDomainError("INVALID_ORDER_PREFIX", "Order prefix must be 1-10 characters")
	}
	if minAmount.IsNegative() || maxAmount.IsNegative() {
		return shared.NewDomainError("INVALID_ORDER_AMOUNT", "Order amount limits cannot be negative")
	}
	if !maxAmount.IsZero() && maxAmount.LessThan(minAmount) {
		return shared.NewDomainError("INVALID_ORDER_AMOUNT", "Max order amount cannot be below min order amount")
	}

	s.AutoAcceptOrders = autoAccept
	s.OrderPrefix = prefix
	s.MinOrderAmount = minAmount
	s.MaxOrderAmount = maxAmount
	s.AllowGuestOrders = allowGuest
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// SetTaxRate updates the tax percentage applied to order subtotals
func (s *StoreSettings) SetTaxRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100 percent")
	}

	s.DefaultTaxRate = rate
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// TaxFor computes the tax on an order subtotal at the configured rate
func (s *StoreSettings) TaxFor(subtotal valueobject.Money) valueobject.Money {
	if s.DefaultTaxRate.IsZero() {
		return valueobject.Zero(subtotal.Currency())
	}
	tax := subtotal.Amount().Mul(s.DefaultTaxRate).Div(decimal.NewFromInt(100)).Round(2)
	return valueobject.MustMoney(tax, subtotal.Currency())
}

// SetInventoryRules updates stock tracking behaviour
func (s *StoreSettings) SetInventoryRules(track, allowBackorders bool, lowStockThreshold int) error {
	if lowStockThreshold < 0 {
		return shared.NewDomainError("INVALID_THRESHOLD", "Low stock threshold cannot be negative")
	}

	s.TrackInventory = track
	s.AllowBackorders = allowBackorders
	s.LowStockThreshold = lowStockThreshold
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// SetTheme replaces the theme configuration JSON
func (s *StoreSettings) SetTheme(themeJSON string) {
	if themeJSON == "" {
		themeJSON = "{}"
	}
	s.ThemeConfig = themeJSON
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// SetSocialLinks replaces the social links JSON
func (s *StoreSettings) SetSocialLinks(linksJSON string) {
	if linksJSON == "" {
		linksJSON = "{}"
	}
	s.SocialLinks = linksJSON
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// SetBusinessHours replaces the business hours JSON
func (s *StoreSettings) SetBusinessHours(hoursJSON string) {
	if hoursJSON == "" {
		hoursJSON = "{}"
	}
	s.BusinessHours = hoursJSON
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// SetNotificationEmail sets the address that receives order notifications
func (s *StoreSettings) SetNotificationEmail(email string) error {
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
	}
	s.NotificationEmail = email
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// ValidateOrderAmount checks an order total against the configured limits
func (s *StoreSettings) ValidateOrderAmount(total valueobject.Money) error {
	if total.Amount().LessThan(s.MinOrderAmount) {
		return shared.NewDomainError("ORDER_BELOW_MINIMUM", "Order total is below the store minimum")
	}
	if !s.MaxOrderAmount.IsZero() && total.Amount().GreaterThan(s.MaxOrderAmount) {
		return shared.NewDomainError("ORDER_ABOVE_MAXIMUM", "Order total exceeds the store maximum")
	}
	return nil
}

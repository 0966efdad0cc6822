package shipping

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/multistore/backend/internal/domain/shared"
)

// PincodeList is a JSON-column slice of serviceable pincodes
type PincodeList []string

// Value implements driver.Valuer for JSON column storage
func (l PincodeList) Value() (driver.Value, error) {
	if l == nil {
		l = PincodeList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSON column storage
func (l *PincodeList) Scan(value any) error {
	if value == nil {
		*l = PincodeList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for PincodeList: %T", value)
	}
}

// Contains reports whether the pincode is in the list
func (l PincodeList) Contains(pincode string) bool {
	for _, p := range l {
		if p == pincode {
			return true
		}
	}
	return false
}

// PartnerConfig holds a store's credentials and shipping rules for one
// courier partner.
type PartnerConfig struct {
	shared.StoreAggregateRoot
	Type        PartnerType `gorm:"type:varchar(20);not null;uniqueIndex:idx_partner_store_type,priority:2" json:"type"`
	DisplayName string      `gorm:"type:varchar(100)" json:"display_name"`

	// APIKeyEncrypted is the account email (Shiprocket) or API key
	// (Delhivery), encrypted at rest
	APIKeyEncrypted string `gorm:"type:varchar(500);not null" json:"-"`
	// APISecretEncrypted is the account password or token secret,
	// encrypted at rest
	APISecretEncrypted string `gorm:"type:varchar(500)" json:"-"`
	// PickupLocation is the partner-registered warehouse name
	PickupLocation string `gorm:"type:varchar(100)" json:"pickup_location"`

	IsActive bool `gorm:"default:false;index:idx_partner_store_active" json:"is_active"`
	TestMode bool `gorm:"default:true" json:"test_mode"`
	// Priority orders partners when quoting rates, lower first
	Priority int `gorm:"default:0" json:"priority"`

	SupportsCOD bool `gorm:"default:true" json:"supports_cod"`
	// ServiceablePincodes restricts delivery when non-empty; empty
	// defers to the partner's serviceability API
	ServiceablePincodes PincodeList `gorm:"type:json" json:"serviceable_pincodes"`

	// Fallback rate card used when the partner rate API is unavailable
	BaseRate  decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"base_rate"`
	PerKgRate decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"per_kg_rate"`
	// MaxWeightKg is the heaviest package the partner accepts
	MaxWeightKg decimal.Decimal `gorm:"type:decimal(8,3);default:50" json:"max_weight_kg"`

	StandardDeliveryDays int `gorm:"default:3" json:"standard_delivery_days"`
	ExpressDeliveryDays  int `gorm:"default:1" json:"express_delivery_days"`

	// Statistics
	TotalShipments       int        `gorm:"default:0" json:"total_shipments"`
	SuccessfulDeliveries int        `gorm:"default:0" json:"successful_deliveries"`
	FailedDeliveries     int        `gorm:"default:0" json:"failed_deliveries"`
	LastShipmentAt       *time.Time `json:"last_shipment_at,omitempty"`

	ActivatedAt *time.Time `json:"activated_at,omitempty"`
}

// TableName returns the table name for GORM
func (PartnerConfig) TableName() string {
	return "shipping_partner_configs"
}

// NewPartnerConfig creates an inactive, test-mode partner configuration
func NewPartnerConfig(storeID uuid.UUID, partnerType PartnerType, apiKeyEncrypted, apiSecretEncrypted string) (*PartnerConfig, error) {
	if !partnerType.IsValid() {
		return nil, ErrPartnerInvalidType
	}
	if strings.TrimSpace(apiKeyEncrypted) == "" {
		return nil, shared.NewDomainError("INVALID_PARTNER_CREDENTIALS", "partner API credentials are required")
	}

	config := &PartnerConfig{
		StoreAggregateRoot:   shared.NewStoreAggregateRoot(storeID),
		Type:                 partnerType,
		DisplayName:          defaultPartnerName(partnerType),
		APIKeyEncrypted:      apiKeyEncrypted,
		APISecretEncrypted:   apiSecretEncrypted,
		IsActive:             false,
		TestMode:             true,
		SupportsCOD:          true,
		ServiceablePincodes:  PincodeList{},
		BaseRate:             decimal.Zero,
		PerKgRate:            decimal.Zero,
		MaxWeightKg:          decimal.NewFromInt(50),
		StandardDeliveryDays: 3,
		ExpressDeliveryDays:  1,
	}

	config.AddDomainEvent(NewPartnerConfiguredEvent(config))
	return config, nil
}

// UpdateCredentials replaces the partner API credentials
func (c *PartnerConfig) UpdateCredentials(apiKeyEncrypted, apiSecretEncrypted string) error {
	if strings.TrimSpace(apiKeyEncrypted) == "" {
		return shared.NewDomainError("INVALID_PARTNER_CREDENTIALS", "partner API credentials are required")
	}
	c.APIKeyEncrypted = apiKeyEncrypted
	c.APISecretEncrypted = apiSecretEncrypted
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// SetPickupLocation sets the partner-registered warehouse name
func (c *PartnerConfig) SetPickupLocation(location string) {
	c.PickupLocation = strings.TrimSpace(location)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// SetRateCard sets the fallback rate card
func (c *PartnerConfig) SetRateCard(baseRate, perKgRate decimal.Decimal) error {
	if baseRate.IsNegative() || perKgRate.IsNegative() {
		return shared.NewDomainError("INVALID_RATE_CARD", "shipping rates cannot be negative")
	}
	c.BaseRate = baseRate
	c.PerKgRate = perKgRate
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// SetDeliveryEstimates sets the advertised delivery day estimates
func (c *PartnerConfig) SetDeliveryEstimates(standardDays, expressDays int) error {
	if standardDays < 1 || expressDays < 1 || expressDays > standardDays {
		return shared.NewDomainError("INVALID_DELIVERY_ESTIMATE", "delivery estimates must be positive and express must not exceed standard")
	}
	c.StandardDeliveryDays = standardDays
	c.ExpressDeliveryDays = expressDays
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// SetServiceablePincodes replaces the explicit pincode allowlist
func (c *PartnerConfig) SetServiceablePincodes(pincodes []string) {
	c.ServiceablePincodes = PincodeList(pincodes)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// SetCODSupport toggles cash-on-delivery availability
func (c *PartnerConfig) SetCODSupport(supported bool) {
	c.SupportsCOD = supported
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// SetPriority sets the rate quoting order, lower first
func (c *PartnerConfig) SetPriority(priority int) {
	c.Priority = priority
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// SetTestMode switches between sandbox and live
func (c *PartnerConfig) SetTestMode(testMode bool) {
	if c.TestMode == testMode {
		return
	}
	c.TestMode = testMode
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Activate turns the partner on for rate quotes and shipments
func (c *PartnerConfig) Activate() error {
	if c.APIKeyEncrypted == "" {
		return ErrPartnerNotConfigured
	}
	if c.IsActive {
		return nil
	}
	now := time.Now()
	c.IsActive = true
	c.ActivatedAt = &now
	c.UpdatedAt = now
	c.IncrementVersion()
	c.AddDomainEvent(NewPartnerActivatedEvent(c))
	return nil
}

// Deactivate turns the partner off
func (c *PartnerConfig) Deactivate() {
	if !c.IsActive {
		return
	}
	c.IsActive = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	c.AddDomainEvent(NewPartnerDeactivatedEvent(c))
}

// CanShip checks weight and COD constraints before booking
func (c *PartnerConfig) CanShip(weightKg decimal.Decimal, cod bool) error {
	if !c.IsActive {
		return ErrPartnerNotActive
	}
	if weightKg.LessThanOrEqual(decimal.Zero) {
		return ErrShipmentInvalidWeight
	}
	if weightKg.GreaterThan(c.MaxWeightKg) {
		return shared.NewDomainError("WEIGHT_LIMIT_EXCEEDED", "package exceeds partner weight limit")
	}
	if cod && !c.SupportsCOD {
		return ErrPartnerCODUnsupported
	}
	return nil
}

// ServesPincode checks the explicit allowlist; an empty list defers to
// the partner's serviceability API
func (c *PartnerConfig) ServesPincode(pincode string) bool {
	if len(c.ServiceablePincodes) == 0 {
		return true
	}
	return c.ServiceablePincodes.Contains(pincode)
}

// FallbackRate computes a rate from the local rate card
func (c *PartnerConfig) FallbackRate(weightKg decimal.Decimal) decimal.Decimal {
	if weightKg.IsNegative() {
		return c.BaseRate
	}
	return c.BaseRate.Add(c.PerKgRate.Mul(weightKg)).Round(2)
}

// RecordShipment updates partner statistics after a booking
func (c *PartnerConfig) RecordShipment(bookedAt time.Time) {
	c.TotalShipments++
	c.LastShipmentAt = &bookedAt
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// RecordDelivery updates delivery statistics
func (c *PartnerConfig) RecordDelivery(successful bool) {
	if successful {
		c.SuccessfulDeliveries++
	} else {
		c.FailedDeliveries++
	}
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

func defaultPartnerName(partnerType PartnerType) string {
	switch partnerType {
	case PartnerTypeShiprocket:
		return "Shiprocket"
	case PartnerTypeDelhivery:
		return "Delhivery"
	default:
		return string(partnerType)
	}
}

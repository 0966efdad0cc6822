package payment

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/multistore/backend/internal/domain/shared"
)

// GatewayConfig holds a store's credentials and switches for one payment
// gateway. Secrets are stored encrypted; the domain never sees plaintext
// except through the infrastructure cipher.
type GatewayConfig struct {
	shared.StoreAggregateRoot
	Type        GatewayType `gorm:"type:varchar(20);not null;uniqueIndex:idx_gateway_store_type,priority:2" json:"type"`
	DisplayName string      `gorm:"type:varchar(100)" json:"display_name"`

	// KeyID is the public API key (razorpay key_id, paypal client_id)
	KeyID string `gorm:"type:varchar(200);not null" json:"key_id"`
	// KeySecretEncrypted is the API secret, encrypted at rest
	KeySecretEncrypted string `gorm:"type:varchar(500);not null" json:"-"`
	// WebhookSecretEncrypted signs incoming webhooks, encrypted at rest
	WebhookSecretEncrypted string `gorm:"type:varchar(500)" json:"-"`

	IsEnabled bool `gorm:"default:false" json:"is_enabled"`
	// TestMode routes requests to the gateway sandbox
	TestMode bool `gorm:"default:true" json:"test_mode"`
}

// TableName returns the table name for GORM
func (GatewayConfig) TableName() string {
	return "payment_gateway_configs"
}

// NewGatewayConfig creates a disabled, test-mode gateway configuration
func NewGatewayConfig(storeID uuid.UUID, gatewayType GatewayType, keyID, keySecretEncrypted string) (*GatewayConfig, error) {
	if !gatewayType.IsValid() {
		return nil, ErrPaymentInvalidGatewayType
	}
	if err := validateGatewayKey(keyID); err != nil {
		return nil, err
	}
	if keySecretEncrypted == "" {
		return nil, shared.NewDomainError("INVALID_GATEWAY_SECRET", "gateway secret is required")
	}

	config := &GatewayConfig{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Type:               gatewayType,
		DisplayName:        defaultDisplayName(gatewayType),
		KeyID:              keyID,
		KeySecretEncrypted: keySecretEncrypted,
		IsEnabled:          false,
		TestMode:           true,
	}

	config.AddDomainEvent(NewGatewayConfiguredEvent(config))
	return config, nil
}

// UpdateCredentials replaces the API credentials
func (c *GatewayConfig) UpdateCredentials(keyID, keySecretEncrypted string) error {
	if err := validateGatewayKey(keyID); err != nil {
		return err
	}
	if keySecretEncrypted == "" {
		return shared.NewDomainError("INVALID_GATEWAY_SECRET", "gateway secret is required")
	}
	c.KeyID = keyID
	c.KeySecretEncrypted = keySecretEncrypted
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	c.AddDomainEvent(NewGatewayUpdatedEvent(c))
	return nil
}

// SetWebhookSecret sets the webhook signing secret
func (c *GatewayConfig) SetWebhookSecret(webhookSecretEncrypted string) {
	c.WebhookSecretEncrypted = webhookSecretEncrypted
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// SetDisplayName sets the checkout display name
func (c *GatewayConfig) SetDisplayName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return shared.NewDomainError("INVALID_DISPLAY_NAME", "display name must be 1-100 characters")
	}
	c.DisplayName = name
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// Enable turns the gateway on for checkout
func (c *GatewayConfig) Enable() error {
	if c.KeyID == "" || c.KeySecretEncrypted == "" {
		return ErrGatewayNotConfigured
	}
	if c.IsEnabled {
		return nil
	}
	c.IsEnabled = true
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	c.AddDomainEvent(NewGatewayEnabledEvent(c))
	return nil
}

// Disable turns the gateway off for checkout
func (c *GatewayConfig) Disable() {
	if !c.IsEnabled {
		return
	}
	c.IsEnabled = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	c.AddDomainEvent(NewGatewayDisabledEvent(c))
}

// SetTestMode switches between sandbox and live
func (c *GatewayConfig) SetTestMode(testMode bool) {
	if c.TestMode == testMode {
		return
	}
	c.TestMode = testMode
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

func validateGatewayKey(keyID string) error {
	if strings.TrimSpace(keyID) == "" {
		return shared.NewDomainError("INVALID_GATEWAY_KEY", "gateway API key is required")
	}
	if len(keyID) > 200 {
		return shared.NewDomainError("INVALID_GATEWAY_KEY", "gateway API key exceeds 200 characters")
	}
	return nil
}

func defaultDisplayName(gatewayType GatewayType) string {
	switch gatewayType {
	case GatewayTypeRazorpay:
		return "Razorpay"
	case GatewayTypePayPal:
		return "PayPal"
	default:
		return string(gatewayType)
	}
}

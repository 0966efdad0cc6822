package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	paymentapp "github.com/multistore/backend/internal/application/payment"
	"github.com/multistore/backend/internal/domain/payment"
	"github.com/multistore/backend/internal/domain/shared"
)

var _ payment.GatewayResolver = (*ConfigGatewayResolver)(nil)

// ConfigGatewayResolver builds gateway clients from each store's persisted
// gateway configuration, decrypting credentials on the way out.
type ConfigGatewayResolver struct {
	configRepo payment.GatewayConfigRepository
	cipher     paymentapp.SecretCipher
}

// NewConfigGatewayResolver creates a gateway resolver
func NewConfigGatewayResolver(configRepo payment.GatewayConfigRepository, cipher paymentapp.SecretCipher) *ConfigGatewayResolver {
	return &ConfigGatewayResolver{
		configRepo: configRepo,
		cipher:     cipher,
	}
}

// Resolve implements payment.GatewayResolver
func (r *ConfigGatewayResolver) Resolve(ctx context.Context, storeID uuid.UUID, gatewayType payment.GatewayType) (payment.Gateway, error) {
	cfg, err := r.load(ctx, storeID, gatewayType)
	if err != nil {
		return nil, err
	}
	if !cfg.IsEnabled {
		return nil, payment.ErrGatewayNotEnabled
	}
	return r.build(cfg)
}

// ResolveConfigured implements payment.GatewayResolver. It skips the
// enabled gate so credentials can be tested before a gateway goes live.
func (r *ConfigGatewayResolver) ResolveConfigured(ctx context.Context, storeID uuid.UUID, gatewayType payment.GatewayType) (payment.Gateway, error) {
	cfg, err := r.load(ctx, storeID, gatewayType)
	if err != nil {
		return nil, err
	}
	return r.build(cfg)
}

func (r *ConfigGatewayResolver) load(ctx context.Context, storeID uuid.UUID, gatewayType payment.GatewayType) (*payment.GatewayConfig, error) {
	if !gatewayType.IsValid() {
		return nil, payment.ErrPaymentInvalidGatewayType
	}

	cfg, err := r.configRepo.FindByStoreAndType(ctx, storeID, gatewayType)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, payment.ErrGatewayNotConfigured
		}
		return nil, fmt.Errorf("load gateway config: %w", err)
	}
	return cfg, nil
}

func (r *ConfigGatewayResolver) build(cfg *payment.GatewayConfig) (payment.Gateway, error) {
	keySecret, err := r.cipher.Decrypt(cfg.KeySecretEncrypted)
	if err != nil {
		return nil, fmt.Errorf("decrypt gateway secret: %w", err)
	}
	webhookSecret := ""
	if cfg.WebhookSecretEncrypted != "" {
		webhookSecret, err = r.cipher.Decrypt(cfg.WebhookSecretEncrypted)
		if err != nil {
			return nil, fmt.Errorf("decrypt webhook secret: %w", err)
		}
	}

	switch cfg.Type {
	case payment.GatewayTypeRazorpay:
		return NewRazorpayGateway(cfg.KeyID, keySecret, webhookSecret), nil
	case payment.GatewayTypePayPal:
		return NewPayPalGateway(cfg.KeyID, keySecret, webhookSecret, cfg.TestMode), nil
	default:
		return nil, payment.ErrPaymentInvalidGatewayType
	}
}

// EnabledGateways implements payment.GatewayResolver
func (r *ConfigGatewayResolver) EnabledGateways(ctx context.Context, storeID uuid.UUID) ([]payment.GatewayType, error) {
	configs, err := r.configRepo.FindEnabledForStore(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("list gateway configs: %w", err)
	}
	types := make([]payment.GatewayType, 0, len(configs))
	for _, cfg := range configs {
		types = append(types, cfg.Type)
	}
	return types, nil
}

package shipping

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	shippingapp "github.com/multistore/backend/internal/application/shipping"
	"github.com/multistore/backend/internal/domain/shared"
	"github.com/multistore/backend/internal/domain/shipping"
)

var _ shipping.PartnerResolver = (*ConfigPartnerResolver)(nil)

// ConfigPartnerResolver builds courier clients from each store's persisted
// partner configuration, decrypting credentials on the way out.
type ConfigPartnerResolver struct {
	configRepo shipping.PartnerConfigRepository
	cipher     shippingapp.SecretCipher
	tokens     TokenCache
}

// NewConfigPartnerResolver creates a partner resolver
func NewConfigPartnerResolver(configRepo shipping.PartnerConfigRepository, cipher shippingapp.SecretCipher, tokens TokenCache) *ConfigPartnerResolver {
	return &ConfigPartnerResolver{
		configRepo: configRepo,
		cipher:     cipher,
		tokens:     tokens,
	}
}

// Resolve implements shipping.PartnerResolver
func (r *ConfigPartnerResolver) Resolve(ctx context.Context, storeID uuid.UUID, partnerType shipping.PartnerType) (shipping.Partner, error) {
	cfg, err := r.load(ctx, storeID, partnerType)
	if err != nil {
		return nil, err
	}
	if !cfg.IsActive {
		return nil, shipping.ErrPartnerNotActive
	}
	return r.build(cfg)
}

// ResolveConfigured implements shipping.PartnerResolver. It skips the
// active gate so credentials can be tested before a partner goes live.
func (r *ConfigPartnerResolver) ResolveConfigured(ctx context.Context, storeID uuid.UUID, partnerType shipping.PartnerType) (shipping.Partner, error) {
	cfg, err := r.load(ctx, storeID, partnerType)
	if err != nil {
		return nil, err
	}
	return r.build(cfg)
}

func (r *ConfigPartnerResolver) load(ctx context.Context, storeID uuid.UUID, partnerType shipping.PartnerType) (*shipping.PartnerConfig, error) {
	if !partnerType.IsValid() {
		return nil, shipping.ErrPartnerInvalidType
	}

	cfg, err := r.configRepo.FindByStoreAndType(ctx, storeID, partnerType)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shipping.ErrPartnerNotConfigured
		}
		return nil, fmt.Errorf("load partner config: %w", err)
	}
	return cfg, nil
}

func (r *ConfigPartnerResolver) build(cfg *shipping.PartnerConfig) (shipping.Partner, error) {
	apiKey, err := r.cipher.Decrypt(cfg.APIKeyEncrypted)
	if err != nil {
		return nil, fmt.Errorf("decrypt partner key: %w", err)
	}
	apiSecret := ""
	if cfg.APISecretEncrypted != "" {
		apiSecret, err = r.cipher.Decrypt(cfg.APISecretEncrypted)
		if err != nil {
			return nil, fmt.Errorf("decrypt partner secret: %w", err)
		}
	}

	switch cfg.Type {
	case shipping.PartnerTypeShiprocket:
		return NewShiprocketPartner(apiKey, apiSecret, cfg.PickupLocation, r.tokens), nil
	case shipping.PartnerTypeDelhivery:
		return NewDelhiveryPartner(apiKey, cfg.PickupLocation, cfg.TestMode, cfg.StandardDeliveryDays, cfg.ExpressDeliveryDays), nil
	default:
		return nil, shipping.ErrPartnerInvalidType
	}
}

// ActivePartners implements shipping.PartnerResolver
func (r *ConfigPartnerResolver) ActivePartners(ctx context.Context, storeID uuid.UUID) ([]shipping.PartnerType, error) {
	configs, err := r.configRepo.FindActiveForStore(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("list partner configs: %w", err)
	}
	types := make([]shipping.PartnerType, 0, len(configs))
	for _, cfg := range configs {
		types = append(types, cfg.Type)
	}
	return types, nil
}

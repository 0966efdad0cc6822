package payment

import (
	"context"

	"github.com/google/uuid"

	"github.com/multistore/backend/internal/domain/payment"
	"github.com/multistore/backend/internal/domain/shared"
)

// GatewayConfigService manages per-store payment gateway credentials
type GatewayConfigService struct {
	configRepo payment.GatewayConfigRepository
	cipher     SecretCipher
}

// NewGatewayConfigService creates a new gateway config service
func NewGatewayConfigService(configRepo payment.GatewayConfigRepository, cipher SecretCipher) *GatewayConfigService {
	return &GatewayConfigService{
		configRepo: configRepo,
		cipher:     cipher,
	}
}

// Configure creates a gateway configuration, or replaces the credentials
// when the store already has one for that gateway.
func (s *GatewayConfigService) Configure(ctx context.Context, storeID uuid.UUID, req ConfigureGatewayRequest) (*GatewayConfigResponse, error) {
	gatewayType := payment.GatewayType(req.Type)

	secretEncrypted, err := s.cipher.Encrypt(req.KeySecret)
	if err != nil {
		return nil, err
	}

	config, err := s.configRepo.FindByStoreAndType(ctx, storeID, gatewayType)
	switch {
	case err == nil:
		if err := config.UpdateCredentials(req.KeyID, secretEncrypted); err != nil {
			return nil, err
		}
	case err == shared.ErrNotFound:
		config, err = payment.NewGatewayConfig(storeID, gatewayType, req.KeyID, secretEncrypted)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if req.DisplayName != "" {
		if err := config.SetDisplayName(req.DisplayName); err != nil {
			return nil, err
		}
	}
	if req.WebhookSecret != "" {
		webhookEncrypted, err := s.cipher.Encrypt(req.WebhookSecret)
		if err != nil {
			return nil, err
		}
		config.SetWebhookSecret(webhookEncrypted)
	}
	if req.TestMode != nil {
		config.SetTestMode(*req.TestMode)
	}

	if err := s.configRepo.Save(ctx, config); err != nil {
		return nil, err
	}

	response := ToGatewayConfigResponse(config)
	return &response, nil
}

// Update partially updates an existing gateway configuration
func (s *GatewayConfigService) Update(ctx context.Context, storeID uuid.UUID, gatewayType string, req UpdateGatewayRequest) (*GatewayConfigResponse, error) {
	config, err := s.configRepo.FindByStoreAndType(ctx, storeID, payment.GatewayType(gatewayType))
	if err != nil {
		return nil, err
	}

	if req.KeyID != nil || req.KeySecret != nil {
		if req.KeyID == nil || req.KeySecret == nil {
			return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Key ID and secret must be rotated together")
		}
		secretEncrypted, err := s.cipher.Encrypt(*req.KeySecret)
		if err != nil {
			return nil, err
		}
		if err := config.UpdateCredentials(*req.KeyID, secretEncrypted); err != nil {
			return nil, err
		}
	}
	if req.DisplayName != nil {
		if err := config.SetDisplayName(*req.DisplayName); err != nil {
			return nil, err
		}
	}
	if req.WebhookSecret != nil {
		webhookEncrypted, err := s.cipher.Encrypt(*req.WebhookSecret)
		if err != nil {
			return nil, err
		}
		config.SetWebhookSecret(webhookEncrypted)
	}
	if req.TestMode != nil {
		config.SetTestMode(*req.TestMode)
	}

	if err := s.configRepo.Save(ctx, config); err != nil {
		return nil, err
	}

	response := ToGatewayConfigResponse(config)
	return &response, nil
}

// List returns every gateway configuration for a store, secrets masked
func (s *GatewayConfigService) List(ctx context.Context, storeID uuid.UUID) ([]GatewayConfigResponse, error) {
	configs, err := s.configRepo.FindAllForStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	responses := make([]GatewayConfigResponse, len(configs))
	for i := range configs {
		responses[i] = ToGatewayConfigResponse(&configs[i])
	}
	return responses, nil
}

// Enable turns a configured gateway on for checkout
func (s *GatewayConfigService) Enable(ctx context.Context, storeID uuid.UUID, gatewayType string) (*GatewayConfigResponse, error) {
	config, err := s.configRepo.FindByStoreAndType(ctx, storeID, payment.GatewayType(gatewayType))
	if err != nil {
		return nil, err
	}
	if err := config.Enable(); err != nil {
		return nil, err
	}
	if err := s.configRepo.Save(ctx, config); err != nil {
		return nil, err
	}
	response := ToGatewayConfigResponse(config)
	return &response, nil
}

// Disable turns a gateway off for checkout
func (s *GatewayConfigService) Disable(ctx context.Context, storeID uuid.UUID, gatewayType string) (*GatewayConfigResponse, error) {
	config, err := s.configRepo.FindByStoreAndType(ctx, storeID, payment.GatewayType(gatewayType))
	if err != nil {
		return nil, err
	}
	config.Disable()
	if err := s.configRepo.Save(ctx, config); err != nil {
		return nil, err
	}
	response := ToGatewayConfigResponse(config)
	return &response, nil
}

// Delete removes a gateway configuration
func (s *GatewayConfigService) Delete(ctx context.Context, storeID uuid.UUID, gatewayType string) error {
	config, err := s.configRepo.FindByStoreAndType(ctx, storeID, payment.GatewayType(gatewayType))
	if err != nil {
		return err
	}
	return s.configRepo.DeleteForStore(ctx, storeID, config.ID)
}

package shipping

import (
	"context"

	"github.com/google/uuid"

	"github.com/multistore/backend/internal/domain/shared"
	"github.com/multistore/backend/internal/domain/shipping"
)

// PartnerConfigService manages per-store courier partner credentials
type PartnerConfigService struct {
	configRepo shipping.PartnerConfigRepository
	cipher     SecretCipher
}

// NewPartnerConfigService creates a new partner config service
func NewPartnerConfigService(configRepo shipping.PartnerConfigRepository, cipher SecretCipher) *PartnerConfigService {
	return &PartnerConfigService{
		configRepo: configRepo,
		cipher:     cipher,
	}
}

// Configure creates a partner configuration, or replaces the credentials
// when the store already has one for that partner.
func (s *PartnerConfigService) Configure(ctx context.Context, storeID uuid.UUID, req ConfigurePartnerRequest) (*PartnerConfigResponse, error) {
	partnerType := shipping.PartnerType(req.Type)

	keyEncrypted, err := s.cipher.Encrypt(req.APIKey)
	if err != nil {
		return nil, err
	}
	secretEncrypted, err := s.cipher.Encrypt(req.APISecret)
	if err != nil {
		return nil, err
	}

	config, err := s.configRepo.FindByStoreAndType(ctx, storeID, partnerType)
	switch {
	case err == nil:
		if err := config.UpdateCredentials(keyEncrypted, secretEncrypted); err != nil {
			return nil, err
		}
	case err == shared.ErrNotFound:
		config, err = shipping.NewPartnerConfig(storeID, partnerType, keyEncrypted, secretEncrypted)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if req.DisplayName != "" {
		config.DisplayName = req.DisplayName
	}
	if req.PickupLocation != "" {
		config.SetPickupLocation(req.PickupLocation)
	}
	if req.TestMode != nil {
		config.SetTestMode(*req.TestMode)
	}
	if req.Priority != nil {
		config.SetPriority(*req.Priority)
	}
	if req.SupportsCOD != nil {
		config.SetCODSupport(*req.SupportsCOD)
	}

	if err := s.configRepo.Save(ctx, config); err != nil {
		return nil, err
	}

	response := ToPartnerConfigResponse(config)
	return &response, nil
}

// Update partially updates an existing partner configuration
func (s *PartnerConfigService) Update(ctx context.Context, storeID uuid.UUID, partnerType string, req UpdatePartnerRequest) (*PartnerConfigResponse, error) {
	config, err := s.configRepo.FindByStoreAndType(ctx, storeID, shipping.PartnerType(partnerType))
	if err != nil {
		return nil, err
	}

	if req.APIKey != nil || req.APISecret != nil {
		if req.APIKey == nil || req.APISecret == nil {
			return nil, shared.NewDomainError("INVALID_PARTNER_CREDENTIALS", "API key and secret must be rotated together")
		}
		keyEncrypted, err := s.cipher.Encrypt(*req.APIKey)
		if err != nil {
			return nil, err
		}
		secretEncrypted, err := s.cipher.Encrypt(*req.APISecret)
		if err != nil {
			return nil, err
		}
		if err := config.UpdateCredentials(keyEncrypted, secretEncrypted); err != nil {
			return nil, err
		}
	}
	if req.DisplayName != nil {
		config.DisplayName = *req.DisplayName
	}
	if req.PickupLocation != nil {
		config.SetPickupLocation(*req.PickupLocation)
	}
	if req.TestMode != nil {
		config.SetTestMode(*req.TestMode)
	}
	if req.Priority != nil {
		config.SetPriority(*req.Priority)
	}
	if req.SupportsCOD != nil {
		config.SetCODSupport(*req.SupportsCOD)
	}
	if req.ServiceablePincodes != nil {
		config.SetServiceablePincodes(req.ServiceablePincodes)
	}
	if req.BaseRate != nil || req.PerKgRate != nil {
		baseRate := config.BaseRate
		perKgRate := config.PerKgRate
		if req.BaseRate != nil {
			baseRate = *req.BaseRate
		}
		if req.PerKgRate != nil {
			perKgRate = *req.PerKgRate
		}
		if err := config.SetRateCard(baseRate, perKgRate); err != nil {
			return nil, err
		}
	}
	if req.StandardDeliveryDays != nil || req.ExpressDeliveryDays != nil {
		standardDays := config.StandardDeliveryDays
		expressDays := config.ExpressDeliveryDays
		if req.StandardDeliveryDays != nil {
			standardDays = *req.StandardDeliveryDays
		}
		if req.ExpressDeliveryDays != nil {
			expressDays = *req.ExpressDeliveryDays
		}
		if err := config.SetDeliveryEstimates(standardDays, expressDays); err != nil {
			return nil, err
		}
	}

	if err := s.configRepo.Save(ctx, config); err != nil {
		return nil, err
	}

	response := ToPartnerConfigResponse(config)
	return &response, nil
}

// List returns every partner configuration for a store, credentials omitted
func (s *PartnerConfigService) List(ctx context.Context, storeID uuid.UUID) ([]PartnerConfigResponse, error) {
	configs, err := s.configRepo.FindAllForStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	responses := make([]PartnerConfigResponse, len(configs))
	for i := range configs {
		responses[i] = ToPartnerConfigResponse(&configs[i])
	}
	return responses, nil
}

// Activate turns a configured partner on for quotes and shipments
func (s *PartnerConfigService) Activate(ctx context.Context, storeID uuid.UUID, partnerType string) (*PartnerConfigResponse, error) {
	config, err := s.configRepo.FindByStoreAndType(ctx, storeID, shipping.PartnerType(partnerType))
	if err != nil {
		return nil, err
	}
	if err := config.Activate(); err != nil {
		return nil, err
	}
	if err := s.configRepo.Save(ctx, config); err != nil {
		return nil, err
	}
	response := ToPartnerConfigResponse(config)
	return &response, nil
}

// Deactivate turns a partner off
func (s *PartnerConfigService) Deactivate(ctx context.Context, storeID uuid.UUID, partnerType string) (*PartnerConfigResponse, error) {
	config, err := s.configRepo.FindByStoreAndType(ctx, storeID, shipping.PartnerType(partnerType))
	if err != nil {
		return nil, err
	}
	config.Deactivate()
	if err := s.configRepo.Save(ctx, config); err != nil {
		return nil, err
	}
	response := ToPartnerConfigResponse(config)
	return &response, nil
}

// Delete removes a partner configuration
func (s *PartnerConfigService) Delete(ctx context.Context, storeID uuid.UUID, partnerType string) error {
	config, err := s.configRepo.FindByStoreAndType(ctx, storeID, shipping.PartnerType(partnerType))
	if err != nil {
		return err
	}
	return s.configRepo.DeleteForStore(ctx, storeID, config.ID)
}

package content

import (
	"context"

	"github.com/google/uuid"

	"github.com/multistore/backend/internal/domain/content"
	"github.com/multistore/backend/internal/domain/shared"
)

// PolicyService manages the store's legal policy pages
type PolicyService struct {
	policyRepo content.PolicyRepository
}

// NewPolicyService creates a new policy service
func NewPolicyService(policyRepo content.PolicyRepository) *PolicyService {
	return &PolicyService{policyRepo: policyRepo}
}

// Upsert creates the store's policy of the given type, or revises it
// when one already exists.
func (s *PolicyService) Upsert(ctx context.Context, storeID uuid.UUID, policyType string, req UpsertPolicyRequest) (*PolicyResponse, error) {
	pt := content.PolicyType(policyType)
	if !pt.IsValid() {
		return nil, shared.NewDomainError("INVALID_POLICY_TYPE", "Unknown policy type")
	}

	p, err := s.policyRepo.FindByType(ctx, storeID, pt)
	switch {
	case err == nil:
		if err := p.Revise(req.Title, req.Content, req.DocVersion, req.EffectiveDate); err != nil {
			return nil, err
		}
	case err == shared.ErrNotFound:
		p, err = content.NewPolicy(storeID, pt, req.Title, req.Content)
		if err != nil {
			return nil, err
		}
		if req.DocVersion != "" || req.EffectiveDate != nil {
			if err := p.Revise(req.Title, req.Content, req.DocVersion, req.EffectiveDate); err != nil {
				return nil, err
			}
		}
	default:
		return nil, err
	}

	if req.ShowInFooter != nil {
		p.SetFooterVisibility(*req.ShowInFooter)
	}

	if err := s.policyRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	response := ToPolicyResponse(p)
	return &response, nil
}

// Publish makes a policy publicly visible
func (s *PolicyService) Publish(ctx context.Context, storeID uuid.UUID, policyType string) (*PolicyResponse, error) {
	p, err := s.policyRepo.FindByType(ctx, storeID, content.PolicyType(policyType))
	if err != nil {
		return nil, err
	}
	p.Publish()
	if err := s.policyRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	response := ToPolicyResponse(p)
	return &response, nil
}

// Unpublish hides a policy from the storefront
func (s *PolicyService) Unpublish(ctx context.Context, storeID uuid.UUID, policyType string) (*PolicyResponse, error) {
	p, err := s.policyRepo.FindByType(ctx, storeID, content.PolicyType(policyType))
	if err != nil {
		return nil, err
	}
	p.Unpublish()
	if err := s.policyRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	response := ToPolicyResponse(p)
	return &response, nil
}

// Get returns a policy for the admin panel
func (s *PolicyService) Get(ctx context.Context, storeID uuid.UUID, policyType string) (*PolicyResponse, error) {
	p, err := s.policyRepo.FindByType(ctx, storeID, content.PolicyType(policyType))
	if err != nil {
		return nil, err
	}
	response := ToPolicyResponse(p)
	return &response, nil
}

// GetPublished returns a published policy for the storefront
func (s *PolicyService) GetPublished(ctx context.Context, storeID uuid.UUID, policyType string) (*PolicyResponse, error) {
	p, err := s.policyRepo.FindByType(ctx, storeID, content.PolicyType(policyType))
	if err != nil {
		return nil, err
	}
	if !p.IsPublished {
		return nil, shared.ErrNotFound
	}
	response := ToPolicyResponse(p)
	return &response, nil
}

// List returns every policy for the admin panel
func (s *PolicyService) List(ctx context.Context, storeID uuid.UUID) ([]PolicyResponse, error) {
	policies, err := s.policyRepo.FindAllForStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	responses := make([]PolicyResponse, len(policies))
	for i := range policies {
		responses[i] = ToPolicyResponse(&policies[i])
	}
	return responses, nil
}

// ListPublished returns the published policies for the storefront footer
func (s *PolicyService) ListPublished(ctx context.Context, storeID uuid.UUID) ([]PolicyResponse, error) {
	policies, err := s.policyRepo.FindPublishedForStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	responses := make([]PolicyResponse, len(policies))
	for i := range policies {
		responses[i] = ToPolicyResponse(&policies[i])
	}
	return responses, nil
}

// Delete removes a policy
func (s *PolicyService) Delete(ctx context.Context, storeID uuid.UUID, policyType string) error {
	p, err := s.policyRepo.FindByType(ctx, storeID, content.PolicyType(policyType))
	if err != nil {
		return err
	}
	return s.policyRepo.DeleteForStore(ctx, storeID, p.ID)
}

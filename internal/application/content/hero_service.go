package content

import (
	"context"

	"github.com/google/uuid"

	"github.com/multistore/backend/internal/domain/content"
	"github.com/multistore/backend/internal/domain/shared"
)

// HeroService manages the storefront homepage banners
type HeroService struct {
	heroRepo content.HeroSectionRepository
}

// NewHeroService creates a new hero service
func NewHeroService(heroRepo content.HeroSectionRepository) *HeroService {
	return &HeroService{heroRepo: heroRepo}
}

// Create creates a banner
func (s *HeroService) Create(ctx context.Context, storeID uuid.UUID, req CreateHeroRequest) (*HeroResponse, error) {
	h, err := content.NewHeroSection(storeID, req.Title, req.ImageURL, req.SortOrder)
	if err != nil {
		return nil, err
	}

	if req.Subtitle != "" || req.MobileImageURL != "" {
		if err := h.Update(req.Title, req.Subtitle, req.ImageURL, req.MobileImageURL); err != nil {
			return nil, err
		}
	}
	if req.CTALabel != "" || req.CTAURL != "" {
		if err := h.SetCTA(req.CTALabel, req.CTAURL); err != nil {
			return nil, err
		}
	}

	if err := s.heroRepo.Save(ctx, h); err != nil {
		return nil, err
	}

	response := ToHeroResponse(h)
	return &response, nil
}

// Update partially updates a banner
func (s *HeroService) Update(ctx context.Context, storeID, id uuid.UUID, req UpdateHeroRequest) (*HeroResponse, error) {
	h, err := s.heroRepo.FindByIDForStore(ctx, storeID, id)
	if err != nil {
		return nil, err
	}

	title, subtitle, imageURL, mobileImageURL := h.Title, h.Subtitle, h.ImageURL, h.MobileImageURL
	if req.Title != nil {
		title = *req.Title
	}
	if req.Subtitle != nil {
		subtitle = *req.Subtitle
	}
	if req.ImageURL != nil {
		imageURL = *req.ImageURL
	}
	if req.MobileImageURL != nil {
		mobileImageURL = *req.MobileImageURL
	}
	if err := h.Update(title, subtitle, imageURL, mobileImageURL); err != nil {
		return nil, err
	}

	if req.CTALabel != nil || req.CTAURL != nil {
		label := h.CTALabel
		if req.CTALabel != nil {
			label = *req.CTALabel
		}
		url := h.CTAURL
		if req.CTAURL != nil {
			url = *req.CTAURL
		}
		if err := h.SetCTA(label, url); err != nil {
			return nil, err
		}
	}
	if req.IsActive != nil {
		h.SetActive(*req.IsActive)
	}

	if err := s.heroRepo.Save(ctx, h); err != nil {
		return nil, err
	}

	response := ToHeroResponse(h)
	return &response, nil
}

// Reorder rewrites banner sort orders to match the listed ID positions.
// Every banner of the store must appear exactly once.
func (s *HeroService) Reorder(ctx context.Context, storeID uuid.UUID, req ReorderHerosRequest) ([]HeroResponse, error) {
	banners, err := s.heroRepo.FindAllForStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if len(req.IDs) != len(banners) {
		return nil, shared.NewDomainError("INVALID_ORDER", "Reorder must list every banner exactly once")
	}

	byID := make(map[uuid.UUID]*content.HeroSection, len(banners))
	for i := range banners {
		byID[banners[i].ID] = &banners[i]
	}
	for position, id := range req.IDs {
		h, ok := byID[id]
		if !ok {
			return nil, shared.NewDomainError("INVALID_ORDER", "Unknown banner in reorder list")
		}
		h.SetSortOrder(position)
	}

	if err := s.heroRepo.SaveAll(ctx, banners); err != nil {
		return nil, err
	}

	return ToHeroResponses(banners), nil
}

// List returns every banner for the admin panel in sort order
func (s *HeroService) List(ctx context.Context, storeID uuid.UUID) ([]HeroResponse, error) {
	banners, err := s.heroRepo.FindAllForStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return ToHeroResponses(banners), nil
}

// ListActive returns the active banners for the storefront homepage
func (s *HeroService) ListActive(ctx context.Context, storeID uuid.UUID) ([]HeroResponse, error) {
	banners, err := s.heroRepo.FindActiveForStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return ToHeroResponses(banners), nil
}

// Delete removes a banner
func (s *HeroService) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	if _, err := s.heroRepo.FindByIDForStore(ctx, storeID, id); err != nil {
		return err
	}
	return s.heroRepo.DeleteForStore(ctx, storeID, id)
}

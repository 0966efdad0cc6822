package content

import (
	"context"

	"github.com/google/uuid"

	"github.com/multistore/backend/internal/domain/content"
	"github.com/multistore/backend/internal/domain/shared"
)

// ContactService manages the store's public contact page
type ContactService struct {
	contactRepo content.ContactDetailsRepository
}

// NewContactService creates a new contact service
func NewContactService(contactRepo content.ContactDetailsRepository) *ContactService {
	return &ContactService{contactRepo: contactRepo}
}

// Upsert creates the store's contact page or replaces its details
func (s *ContactService) Upsert(ctx context.Context, storeID uuid.UUID, req UpsertContactRequest) (*ContactResponse, error) {
	c, err := s.contactRepo.FindByStoreID(ctx, storeID)
	switch {
	case err == nil:
		if err := c.SetEmails(req.PrimaryEmail, req.SupportEmail); err != nil {
			return nil, err
		}
		if err := c.SetPhones(req.PrimaryPhone, req.WhatsAppNumber); err != nil {
			return nil, err
		}
	case err == shared.ErrNotFound:
		c, err = content.NewContactDetails(storeID, req.PrimaryEmail, req.PrimaryPhone)
		if err != nil {
			return nil, err
		}
		if req.SupportEmail != "" {
			if err := c.SetEmails(req.PrimaryEmail, req.SupportEmail); err != nil {
				return nil, err
			}
		}
		if req.WhatsAppNumber != "" {
			if err := c.SetPhones(req.PrimaryPhone, req.WhatsAppNumber); err != nil {
				return nil, err
			}
		}
	default:
		return nil, err
	}

	c.SetAddress(req.AddressLine1, req.AddressLine2, req.City, req.State, req.PostalCode, req.Country)
	if req.MapEmbedURL != "" {
		if err := c.SetMapEmbed(req.MapEmbedURL); err != nil {
			return nil, err
		}
	}
	if req.Social != nil {
		c.SetSocialLinks(req.Social)
	}

	if err := s.contactRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToContactResponse(c)
	return &response, nil
}

// Get returns the store's contact page
func (s *ContactService) Get(ctx context.Context, storeID uuid.UUID) (*ContactResponse, error) {
	c, err := s.contactRepo.FindByStoreID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	response := ToContactResponse(c)
	return &response, nil
}

// Delete removes the store's contact page
func (s *ContactService) Delete(ctx context.Context, storeID uuid.UUID) error {
	if _, err := s.contactRepo.FindByStoreID(ctx, storeID); err != nil {
		return err
	}
	return s.contactRepo.Delete(ctx, storeID)
}

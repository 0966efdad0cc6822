package customer

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/multistore/backend/internal/domain/customer"
	"github.com/multistore/backend/internal/domain/shared"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo customer.CustomerRepository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo customer.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// Create creates a customer from the admin panel
func (s *CustomerService) Create(ctx context.Context, storeID uuid.UUID, req CreateCustomerRequest) (*CustomerResponse, error) {
	exists, err := s.customerRepo.ExistsByEmail(ctx, storeID, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this email already exists")
	}

	c, err := customer.NewCustomer(storeID, req.Email, req.FirstName, req.LastName)
	if err != nil {
		return nil, err
	}

	if req.Phone != "" {
		if err := c.Update(req.FirstName, req.LastName, req.Phone); err != nil {
			return nil, err
		}
	}
	if req.Group != "" {
		if err := c.SetGroup(customer.CustomerGroup(req.Group)); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		c.SetAdminNotes(req.Notes)
	}

	if err := s.customerRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(c)
	return &response, nil
}

// GetOrCreateByEmail finds a customer by email or records a new guest.
// Checkout uses this so guest orders still attach to a customer record.
func (s *CustomerService) GetOrCreateByEmail(ctx context.Context, storeID uuid.UUID, email, firstName, lastName string) (*customer.Customer, error) {
	existing, err := s.customerRepo.FindByEmail(ctx, storeID, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	guest, err := customer.NewGuestCustomer(storeID, email, firstName, lastName)
	if err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, guest); err != nil {
		return nil, err
	}
	return guest, nil
}

// GetByID retrieves a customer by ID within a store
func (s *CustomerService) GetByID(ctx context.Context, storeID, id uuid.UUID) (*CustomerResponse, error) {
	c, err := s.customerRepo.FindByIDForStore(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(c)
	return &response, nil
}

// List retrieves customers with filtering and pagination
func (s *CustomerService) List(ctx context.Context, storeID uuid.UUID, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Group != "" {
		domainFilter.Filters["group"] = filter.Group
	}
	if filter.Verified != nil {
		domainFilter.Filters["is_verified"] = *filter.Verified
	}
	if filter.Active != nil {
		domainFilter.Filters["is_active"] = *filter.Active
	}

	customers, err := s.customerRepo.FindAllForStore(ctx, storeID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.customerRepo.CountForStore(ctx, storeID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToCustomerResponses(customers), total, nil
}

// Update updates a customer's profile and segmentation
func (s *CustomerService) Update(ctx context.Context, storeID, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	c, err := s.customerRepo.FindByIDForStore(ctx, storeID, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil || req.LastName != nil || req.Phone != nil {
		firstName := c.FirstName
		if req.FirstName != nil {
			firstName = *req.FirstName
		}
		lastName := c.LastName
		if req.LastName != nil {
			lastName = *req.LastName
		}
		phone := c.Phone
		if req.Phone != nil {
			phone = *req.Phone
		}
		if err := c.Update(firstName, lastName, phone); err != nil {
			return nil, err
		}
	}

	if req.Group != nil {
		if err := c.SetGroup(customer.CustomerGroup(*req.Group)); err != nil {
			return nil, err
		}
	}
	if req.AcceptsMarketing != nil {
		c.SetMarketingConsent(*req.AcceptsMarketing)
	}
	if req.AdminNotes != nil {
		c.SetAdminNotes(*req.AdminNotes)
	}

	if err := s.customerRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(c)
	return &response, nil
}

// AddAddress adds an entry to the customer's address book
func (s *CustomerService) AddAddress(ctx context.Context, storeID, id uuid.UUID, req AddressRequest) (*CustomerResponse, error) {
	c, err := s.customerRepo.FindByIDForStore(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if err := c.AddAddress(req.Label, req.ToAddress(), req.IsDefault); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(c)
	return &response, nil
}

// RemoveAddress removes an address book entry
func (s *CustomerService) RemoveAddress(ctx context.Context, storeID, id uuid.UUID, addressID string) (*CustomerResponse, error) {
	c, err := s.customerRepo.FindByIDForStore(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if err := c.RemoveAddress(addressID); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(c)
	return &response, nil
}

// Deactivate blocks a customer from logging in or placing orders
func (s *CustomerService) Deactivate(ctx context.Context, storeID, id uuid.UUID) error {
	c, err := s.customerRepo.FindByIDForStore(ctx, storeID, id)
	if err != nil {
		return err
	}
	if err := c.Deactivate(); err != nil {
		return err
	}
	return s.customerRepo.Save(ctx, c)
}

// Activate restores a deactivated customer
func (s *CustomerService) Activate(ctx context.Context, storeID, id uuid.UUID) error {
	c, err := s.customerRepo.FindByIDForStore(ctx, storeID, id)
	if err != nil {
		return err
	}
	if err := c.Activate(); err != nil {
		return err
	}
	return s.customerRepo.Save(ctx, c)
}

// Delete removes a customer record
func (s *CustomerService) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	if _, err := s.customerRepo.FindByIDForStore(ctx, storeID, id); err != nil {
		return err
	}
	return s.customerRepo.DeleteForStore(ctx, storeID, id)
}

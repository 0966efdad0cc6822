package customer

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/multistore/backend/internal/domain/customer"
	"github.com/multistore/backend/internal/domain/shared/valueobject"
)

// CreateCustomerRequest represents an admin-side request to create a customer
type CreateCustomerRequest struct {
	Email     string `json:"email" binding:"required,email,max=200"`
	FirstName string `json:"first_name" binding:"required,min=1,max=50"`
	LastName  string `json:"last_name" binding:"required,min=1,max=50"`
	Phone     string `json:"phone" binding:"max=20"`
	Group     string `json:"group" binding:"omitempty,oneof=regular vip wholesale"`
	Notes     string `json:"notes"`
}

// UpdateCustomerRequest represents a request to update a customer's profile
type UpdateCustomerRequest struct {
	FirstName        *string `json:"first_name" binding:"omitempty,min=1,max=50"`
	LastName         *string `json:"last_name" binding:"omitempty,min=1,max=50"`
	Phone            *string `json:"phone" binding:"omitempty,max=20"`
	Group            *string `json:"group" binding:"omitempty,oneof=regular vip wholesale"`
	AcceptsMarketing *bool   `json:"accepts_marketing"`
	AdminNotes       *string `json:"admin_notes"`
}

// AddressRequest represents one saved address
type AddressRequest struct {
	Label        string `json:"label" binding:"max=50"`
	FirstName    string `json:"first_name" binding:"required,max=50"`
	LastName     string `json:"last_name" binding:"required,max=50"`
	Company      string `json:"company" binding:"max=100"`
	AddressLine1 string `json:"address_line_1" binding:"required,max=255"`
	AddressLine2 string `json:"address_line_2" binding:"max=255"`
	City         string `json:"city" binding:"required,max=100"`
	State        string `json:"state" binding:"required,max=100"`
	PostalCode   string `json:"postal_code" binding:"required,max=20"`
	Country      string `json:"country" binding:"required,max=100"`
	Phone        string `json:"phone" binding:"max=20"`
	IsDefault    bool   `json:"is_default"`
}

// ToAddress converts the request to the address value object
func (r AddressRequest) ToAddress() valueobject.Address {
	return valueobject.Address{
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Company:      r.Company,
		AddressLine1: r.AddressLine1,
		AddressLine2: r.AddressLine2,
		City:         r.City,
		State:        r.State,
		PostalCode:   r.PostalCode,
		Country:      r.Country,
		Phone:        r.Phone,
	}
}

// CustomerListFilter represents filter options for customer list
type CustomerListFilter struct {
	Search   string `form:"search"`
	Group    string `form:"group" binding:"omitempty,oneof=regular vip wholesale"`
	Verified *bool  `form:"verified"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// AddressResponse represents a saved address in API responses
type AddressResponse struct {
	ID           string `json:"id"`
	Label        string `json:"label,omitempty"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Company      string `json:"company,omitempty"`
	AddressLine1 string `json:"address_line_1"`
	AddressLine2 string `json:"address_line_2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
	Phone        string `json:"phone,omitempty"`
	IsDefault    bool   `json:"is_default"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID               uuid.UUID         `json:"id"`
	StoreID          uuid.UUID         `json:"store_id"`
	Email            string            `json:"email"`
	FirstName        string            `json:"first_name"`
	LastName         string            `json:"last_name"`
	FullName         string            `json:"full_name"`
	Phone            string            `json:"phone,omitempty"`
	IsActive         bool              `json:"is_active"`
	IsVerified       bool              `json:"is_verified"`
	IsGuest          bool              `json:"is_guest"`
	AcceptsMarketing bool              `json:"accepts_marketing"`
	Group            string            `json:"group"`
	Addresses        []AddressResponse `json:"addresses"`
	TotalOrders      int               `json:"total_orders"`
	TotalSpent       decimal.Decimal   `json:"total_spent"`
	AverageOrder     decimal.Decimal   `json:"average_order"`
	FirstOrderDate   *time.Time        `json:"first_order_date,omitempty"`
	LastOrderDate    *time.Time        `json:"last_order_date,omitempty"`
	LastLoginAt      *time.Time        `json:"last_login_at,omitempty"`
	AdminNotes       string            `json:"admin_notes,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *customer.Customer) CustomerResponse {
	addresses := make([]AddressResponse, 0, len(c.Addresses))
	for _, entry := range c.Addresses {
		addresses = append(addresses, AddressResponse{
			ID:           entry.ID,
			Label:        entry.Label,
			FirstName:    entry.Address.FirstName,
			LastName:     entry.Address.LastName,
			Company:      entry.Address.Company,
			AddressLine1: entry.Address.AddressLine1,
			AddressLine2: entry.Address.AddressLine2,
			City:         entry.Address.City,
			State:        entry.Address.State,
			PostalCode:   entry.Address.PostalCode,
			Country:      entry.Address.Country,
			Phone:        entry.Address.Phone,
			IsDefault:    entry.IsDefault,
		})
	}

	return CustomerResponse{
		ID:               c.ID,
		StoreID:          c.StoreID,
		Email:            c.Email,
		FirstName:        c.FirstName,
		LastName:         c.LastName,
		FullName:         c.FullName(),
		Phone:            c.Phone,
		IsActive:         c.IsActive,
		IsVerified:       c.IsVerified,
		IsGuest:          c.IsGuest(),
		AcceptsMarketing: c.AcceptsMarketing,
		Group:            string(c.Group),
		Addresses:        addresses,
		TotalOrders:      c.TotalOrders,
		TotalSpent:       c.TotalSpent,
		AverageOrder:     c.AverageOrderValue(),
		FirstOrderDate:   c.FirstOrderDate,
		LastOrderDate:    c.LastOrderDate,
		LastLoginAt:      c.LastLoginAt,
		AdminNotes:       c.AdminNotes,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

// ToCustomerResponses converts a slice of domain Customers
func ToCustomerResponses(customers []customer.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}
	return responses
}

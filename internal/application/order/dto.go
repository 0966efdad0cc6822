package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/multistore/backend/internal/domain/order"
	"github.com/multistore/backend/internal/domain/shared/valueobject"
)

// CheckoutAddress represents an address supplied at checkout
type CheckoutAddress struct {
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
}

// ToAddress converts the request to the address value object
func (a CheckoutAddress) ToAddress() valueobject.Address {
	return valueobject.Address{
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		Company:      a.Company,
		AddressLine1: a.AddressLine1,
		AddressLine2: a.AddressLine2,
		City:         a.City,
		State:        a.State,
		PostalCode:   a.PostalCode,
		Country:      a.Country,
		Phone:        a.Phone,
	}
}

// CheckoutItem represents one cart line at checkout
type CheckoutItem struct {
	ProductID  uuid.UUID `json:"product_id" binding:"required"`
	VariantSKU string    `json:"variant_sku"`
	Quantity   int       `json:"quantity" binding:"required,min=1"`
}

// CheckoutRequest represents a storefront checkout submission
type CheckoutRequest struct {
	CustomerEmail   string           `json:"customer_email" binding:"required,email"`
	CustomerName    string           `json:"customer_name" binding:"required,max=200"`
	CustomerPhone   string           `json:"customer_phone" binding:"max=20"`
	BillingAddress  CheckoutAddress  `json:"billing_address" binding:"required"`
	ShippingAddress *CheckoutAddress `json:"shipping_address"`
	Items           []CheckoutItem   `json:"items" binding:"required,min=1,dive"`
	ShippingMethod  string           `json:"shipping_method" binding:"max=100"`
	ShippingAmount  decimal.Decimal  `json:"shipping_amount"`
	PaymentMethod   string           `json:"payment_method" binding:"required,oneof=online cod"`
	CustomerNotes   string           `json:"customer_notes" binding:"max=1000"`
	Source          string           `json:"source" binding:"omitempty,oneof=website mobile_app admin api"`
}

// ShipOrderRequest records shipment details for an order
type ShipOrderRequest struct {
	Partner          string     `json:"partner" binding:"max=50"`
	Method           string     `json:"method" binding:"max=100"`
	TrackingNumber   string     `json:"tracking_number" binding:"required,max=100"`
	TrackingURL      string     `json:"tracking_url" binding:"max=500"`
	ExpectedDelivery *time.Time `json:"expected_delivery"`
}

// CancelOrderRequest cancels an order with a reason
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// RefundOrderRequest records a refund against an order
type RefundOrderRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Reference string          `json:"reference" binding:"max=100"`
	Reason    string          `json:"reason" binding:"max=500"`
}

// UpdateNotesRequest sets order notes
type UpdateNotesRequest struct {
	CustomerNotes string `json:"customer_notes" binding:"max=1000"`
	AdminNotes    string `json:"admin_notes" binding:"max=2000"`
}

// OrderListFilter represents filter options for order list
type OrderListFilter struct {
	Search        string     `form:"search"`
	Status        string     `form:"status" binding:"omitempty,oneof=pending confirmed processing shipped delivered cancelled refunded"`
	PaymentStatus string     `form:"payment_status" binding:"omitempty,oneof=pending paid failed refunded partially_refunded"`
	CustomerID    *uuid.UUID `form:"customer_id"`
	DateFrom      *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo        *time.Time `form:"date_to" time_format:"2006-01-02"`
	Page          int        `form:"page" binding:"omitempty,min=1"`
	PageSize      int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy       string     `form:"order_by"`
	OrderDir      string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// OrderItemResponse represents a line item in API responses
type OrderItemResponse struct {
	ID             uuid.UUID         `json:"id"`
	ProductID      uuid.UUID         `json:"product_id"`
	ProductName    string            `json:"product_name"`
	SKU            string            `json:"sku"`
	VariantSKU     string            `json:"variant_sku,omitempty"`
	VariantOptions map[string]string `json:"variant_options,omitempty"`
	Quantity       int               `json:"quantity"`
	UnitPrice      decimal.Decimal   `json:"unit_price"`
	TotalPrice     decimal.Decimal   `json:"total_price"`
	ImageURL       string            `json:"image_url,omitempty"`
}

// AddressResponse represents an order address in API responses
type AddressResponse struct {
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
}

func toAddressResponse(a valueobject.Address) AddressResponse {
	return AddressResponse{
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		Company:      a.Company,
		AddressLine1: a.AddressLine1,
		AddressLine2: a.AddressLine2,
		City:         a.City,
		State:        a.State,
		PostalCode:   a.PostalCode,
		Country:      a.Country,
		Phone:        a.Phone,
	}
}

// OrderResponse represents a full order in API responses
type OrderResponse struct {
	ID                uuid.UUID           `json:"id"`
	StoreID           uuid.UUID           `json:"store_id"`
	OrderNumber       string              `json:"order_number"`
	OrderToken        string              `json:"order_token,omitempty"`
	CustomerID        *uuid.UUID          `json:"customer_id,omitempty"`
	IsGuestOrder      bool                `json:"is_guest_order"`
	CustomerEmail     string              `json:"customer_email"`
	CustomerName      string              `json:"customer_name"`
	CustomerPhone     string              `json:"customer_phone,omitempty"`
	BillingAddress    AddressResponse     `json:"billing_address"`
	ShippingAddress   AddressResponse     `json:"shipping_address"`
	Items             []OrderItemResponse `json:"items"`
	Subtotal          decimal.Decimal     `json:"subtotal"`
	TaxAmount         decimal.Decimal     `json:"tax_amount"`
	ShippingAmount    decimal.Decimal     `json:"shipping_amount"`
	DiscountAmount    decimal.Decimal     `json:"discount_amount"`
	TotalAmount       decimal.Decimal     `json:"total_amount"`
	RefundedAmount    decimal.Decimal     `json:"refunded_amount"`
	Currency          string              `json:"currency"`
	Status            string              `json:"status"`
	PaymentStatus     string              `json:"payment_status"`
	FulfillmentStatus string              `json:"fulfillment_status"`
	PaymentMethod     string              `json:"payment_method,omitempty"`
	PaymentGateway    string              `json:"payment_gateway,omitempty"`
	TransactionID     string              `json:"transaction_id,omitempty"`
	ShippingMethod    string              `json:"shipping_method,omitempty"`
	ShippingPartner   string              `json:"shipping_partner,omitempty"`
	TrackingNumber    string              `json:"tracking_number,omitempty"`
	TrackingURL       string              `json:"tracking_url,omitempty"`
	ExpectedDelivery  *time.Time          `json:"expected_delivery,omitempty"`
	CouponCode        string              `json:"coupon_code,omitempty"`
	CustomerNotes     string              `json:"customer_notes,omitempty"`
	AdminNotes        string              `json:"admin_notes,omitempty"`
	Source            string              `json:"source"`
	ConfirmedAt       *time.Time          `json:"confirmed_at,omitempty"`
	ShippedAt         *time.Time          `json:"shipped_at,omitempty"`
	DeliveredAt       *time.Time          `json:"delivered_at,omitempty"`
	CancelledAt       *time.Time          `json:"cancelled_at,omitempty"`
	CancelReason      string              `json:"cancel_reason,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
	Version           int                 `json:"version"`
}

// OrderListResponse represents a list item for orders
type OrderListResponse struct {
	ID            uuid.UUID       `json:"id"`
	OrderNumber   string          `json:"order_number"`
	CustomerEmail string          `json:"customer_email"`
	CustomerName  string          `json:"customer_name"`
	ItemCount     int             `json:"item_count"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for i := range o.Items {
		it := &o.Items[i]
		items = append(items, OrderItemResponse{
			ID:             it.ID,
			ProductID:      it.ProductID,
			ProductName:    it.ProductName,
			SKU:            it.SKU,
			VariantSKU:     it.VariantSKU,
			VariantOptions: it.VariantOptions,
			Quantity:       it.Quantity,
			UnitPrice:      it.UnitPrice,
			TotalPrice:     it.TotalPrice,
			ImageURL:       it.ImageURL,
		})
	}

	return OrderResponse{
		ID:                o.ID,
		StoreID:           o.StoreID,
		OrderNumber:       o.OrderNumber,
		OrderToken:        o.OrderToken,
		CustomerID:        o.CustomerID,
		IsGuestOrder:      o.IsGuestOrder,
		CustomerEmail:     o.CustomerEmail,
		CustomerName:      o.CustomerName,
		CustomerPhone:     o.CustomerPhone,
		BillingAddress:    toAddressResponse(o.BillingAddress),
		ShippingAddress:   toAddressResponse(o.ShippingAddress),
		Items:             items,
		Subtotal:          o.Subtotal,
		TaxAmount:         o.TaxAmount,
		ShippingAmount:    o.ShippingAmount,
		DiscountAmount:    o.DiscountAmount,
		TotalAmount:       o.TotalAmount,
		RefundedAmount:    o.RefundedAmount,
		Currency:          string(o.Currency),
		Status:            string(o.Status),
		PaymentStatus:     string(o.PaymentStatus),
		FulfillmentStatus: string(o.FulfillmentStatus),
		PaymentMethod:     o.PaymentMethod,
		PaymentGateway:    o.PaymentGateway,
		TransactionID:     o.PaymentTransactionID,
		ShippingMethod:    o.ShippingMethod,
		ShippingPartner:   o.ShippingPartner,
		TrackingNumber:    o.TrackingNumber,
		TrackingURL:       o.TrackingURL,
		ExpectedDelivery:  o.ExpectedDeliveryDate,
		CouponCode:        o.CouponCode,
		CustomerNotes:     o.CustomerNotes,
		AdminNotes:        o.AdminNotes,
		Source:            o.Source,
		ConfirmedAt:       o.ConfirmedAt,
		ShippedAt:         o.ShippedAt,
		DeliveredAt:       o.DeliveredAt,
		CancelledAt:       o.CancelledAt,
		CancelReason:      o.CancelReason,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
		Version:           o.Version,
	}
}

// ToOrderListResponse converts a domain Order to OrderListResponse
func ToOrderListResponse(o *order.Order) OrderListResponse {
	return OrderListResponse{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		CustomerEmail: o.CustomerEmail,
		CustomerName:  o.CustomerName,
		ItemCount:     o.ItemCount(),
		TotalAmount:   o.TotalAmount,
		Currency:      string(o.Currency),
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		CreatedAt:     o.CreatedAt,
	}
}

// ToOrderListResponses converts a slice of domain Orders
func ToOrderListResponses(orders []order.Order) []OrderListResponse {
	responses := make([]OrderListResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderListResponse(&orders[i])
	}
	return responses
}

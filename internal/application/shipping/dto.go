package shipping

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/multistore/backend/internal/domain/shipping"
)

// ConfigurePartnerRequest creates or replaces a store's courier credentials
type ConfigurePartnerRequest struct {
	Type           string  `json:"type" binding:"required,oneof=shiprocket delhivery"`
	DisplayName    string  `json:"display_name" binding:"max=100"`
	APIKey         string  `json:"api_key" binding:"required,max=200"`
	APISecret      string  `json:"api_secret" binding:"max=200"`
	PickupLocation string  `json:"pickup_location" binding:"max=100"`
	TestMode       *bool   `json:"test_mode"`
	Priority       *int    `json:"priority"`
	SupportsCOD    *bool   `json:"supports_cod"`
}

// UpdatePartnerRequest partially updates a partner configuration
type UpdatePartnerRequest struct {
	DisplayName          *string          `json:"display_name" binding:"omitempty,max=100"`
	APIKey               *string          `json:"api_key" binding:"omitempty,max=200"`
	APISecret            *string          `json:"api_secret" binding:"omitempty,max=200"`
	PickupLocation       *string          `json:"pickup_location" binding:"omitempty,max=100"`
	TestMode             *bool            `json:"test_mode"`
	Priority             *int             `json:"priority"`
	SupportsCOD          *bool            `json:"supports_cod"`
	ServiceablePincodes  []string         `json:"serviceable_pincodes"`
	BaseRate             *decimal.Decimal `json:"base_rate"`
	PerKgRate            *decimal.Decimal `json:"per_kg_rate"`
	StandardDeliveryDays *int             `json:"standard_delivery_days" binding:"omitempty,min=1"`
	ExpressDeliveryDays  *int             `json:"express_delivery_days" binding:"omitempty,min=1"`
}

// PartnerConfigResponse is the admin view of a partner configuration
type PartnerConfigResponse struct {
	ID                   uuid.UUID       `json:"id"`
	Type                 string          `json:"type"`
	DisplayName          string          `json:"display_name"`
	PickupLocation       string          `json:"pickup_location,omitempty"`
	IsActive             bool            `json:"is_active"`
	TestMode             bool            `json:"test_mode"`
	Priority             int             `json:"priority"`
	SupportsCOD          bool            `json:"supports_cod"`
	ServiceablePincodes  []string        `json:"serviceable_pincodes"`
	BaseRate             decimal.Decimal `json:"base_rate"`
	PerKgRate            decimal.Decimal `json:"per_kg_rate"`
	MaxWeightKg          decimal.Decimal `json:"max_weight_kg"`
	StandardDeliveryDays int             `json:"standard_delivery_days"`
	ExpressDeliveryDays  int             `json:"express_delivery_days"`
	TotalShipments       int             `json:"total_shipments"`
	SuccessfulDeliveries int             `json:"successful_deliveries"`
	FailedDeliveries     int             `json:"failed_deliveries"`
	LastShipmentAt       *time.Time      `json:"last_shipment_at,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// ToPartnerConfigResponse converts a domain PartnerConfig to its admin view
func ToPartnerConfigResponse(c *shipping.PartnerConfig) PartnerConfigResponse {
	return PartnerConfigResponse{
		ID:                   c.ID,
		Type:                 string(c.Type),
		DisplayName:          c.DisplayName,
		PickupLocation:       c.PickupLocation,
		IsActive:             c.IsActive,
		TestMode:             c.TestMode,
		Priority:             c.Priority,
		SupportsCOD:          c.SupportsCOD,
		ServiceablePincodes:  c.ServiceablePincodes,
		BaseRate:             c.BaseRate,
		PerKgRate:            c.PerKgRate,
		MaxWeightKg:          c.MaxWeightKg,
		StandardDeliveryDays: c.StandardDeliveryDays,
		ExpressDeliveryDays:  c.ExpressDeliveryDays,
		TotalShipments:       c.TotalShipments,
		SuccessfulDeliveries: c.SuccessfulDeliveries,
		FailedDeliveries:     c.FailedDeliveries,
		LastShipmentAt:       c.LastShipmentAt,
		CreatedAt:            c.CreatedAt,
		UpdatedAt:            c.UpdatedAt,
	}
}

// GetRatesRequest quotes shipping for a destination and package
type GetRatesRequest struct {
	OriginPincode      string          `json:"origin_pincode" form:"origin_pincode" binding:"required,max=10"`
	DestinationPincode string          `json:"destination_pincode" form:"destination_pincode" binding:"required,max=10"`
	WeightKg           decimal.Decimal `json:"weight_kg" form:"weight_kg" binding:"required"`
	DeclaredValue      decimal.Decimal `json:"declared_value" form:"declared_value"`
	CashOnDelivery     bool            `json:"cod" form:"cod"`
}

// RateOptionResponse is one quoted shipping choice
type RateOptionResponse struct {
	Partner       string          `json:"partner"`
	ServiceType   string          `json:"service_type"`
	CourierName   string          `json:"courier_name"`
	Rate          decimal.Decimal `json:"rate"`
	Currency      string          `json:"currency"`
	EstimatedDays int             `json:"estimated_days"`
	CODAvailable  bool            `json:"cod_available"`
	// Fallback marks a rate computed from the store rate card because
	// the partner API was unavailable
	Fallback bool `json:"fallback,omitempty"`
}

// CreateShipmentRequest books a courier shipment for an order
type CreateShipmentRequest struct {
	Partner       string          `json:"partner" binding:"required,oneof=shiprocket delhivery"`
	ServiceType   string          `json:"service_type" binding:"omitempty,oneof=standard express"`
	PickupPincode string          `json:"pickup_pincode" binding:"required,max=10"`
	PickupPhone   string          `json:"pickup_phone" binding:"max=20"`
	WeightKg      decimal.Decimal `json:"weight_kg" binding:"required"`
	LengthCm      decimal.Decimal `json:"length_cm"`
	WidthCm       decimal.Decimal `json:"width_cm"`
	HeightCm      decimal.Decimal `json:"height_cm"`
}

// ShipmentResponse reports a booked shipment
type ShipmentResponse struct {
	OrderID           uuid.UUID  `json:"order_id"`
	OrderNumber       string     `json:"order_number"`
	Partner           string     `json:"partner"`
	AWB               string     `json:"awb"`
	CourierName       string     `json:"courier_name,omitempty"`
	LabelURL          string     `json:"label_url,omitempty"`
	TrackingURL       string     `json:"tracking_url,omitempty"`
	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`
	AlreadyShipped    bool       `json:"already_shipped,omitempty"`
}

// TrackingCheckpointResponse is one scan event
type TrackingCheckpointResponse struct {
	Status    string    `json:"status"`
	Location  string    `json:"location,omitempty"`
	Remark    string    `json:"remark,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// TrackingResult is the normalized tracking state for an order
type TrackingResult struct {
	OrderNumber       string                       `json:"order_number"`
	Partner           string                       `json:"partner"`
	AWB               string                       `json:"awb"`
	Status            string                       `json:"status"`
	CourierName       string                       `json:"courier_name,omitempty"`
	EstimatedDelivery *time.Time                   `json:"estimated_delivery,omitempty"`
	DeliveredAt       *time.Time                   `json:"delivered_at,omitempty"`
	Checkpoints       []TrackingCheckpointResponse `json:"checkpoints"`
}

// ServiceabilityResponse reports which partners can deliver
type ServiceabilityResponse struct {
	Serviceable bool     `json:"serviceable"`
	Partners    []string `json:"partners"`
}

// TestConnectionResponse reports whether stored credentials authenticate
type TestConnectionResponse struct {
	Partner string `json:"partner"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

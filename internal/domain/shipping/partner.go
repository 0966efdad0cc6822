package shipping

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Shipping Partner Errors
// ---------------------------------------------------------------------------

var (
	ErrShipmentInvalidStoreID  = errors.New("shipping: invalid store ID")
	ErrShipmentInvalidOrderID  = errors.New("shipping: invalid order ID")
	ErrShipmentInvalidWeight   = errors.New("shipping: invalid package weight")
	ErrShipmentInvalidPincode  = errors.New("shipping: invalid pincode")
	ErrShipmentNotServiceable  = errors.New("shipping: destination not serviceable")
	ErrShipmentAlreadyCreated  = errors.New("shipping: shipment already created for order")
	ErrShipmentNotFound        = errors.New("shipping: shipment not found")
	ErrShipmentAlreadyPickedUp = errors.New("shipping: shipment already picked up")

	ErrPartnerInvalidType    = errors.New("shipping: invalid partner type")
	ErrPartnerNotConfigured  = errors.New("shipping: partner not configured for store")
	ErrPartnerNotActive      = errors.New("shipping: partner not active")
	ErrPartnerRequestFailed  = errors.New("shipping: partner request failed")
	ErrPartnerAuthFailed     = errors.New("shipping: partner authentication failed")
	ErrPartnerCODUnsupported = errors.New("shipping: partner does not support cash on delivery")
)

// PartnerType identifies a supported shipping partner
type PartnerType string

const (
	PartnerTypeShiprocket PartnerType = "shiprocket"
	PartnerTypeDelhivery  PartnerType = "delhivery"
)

// IsValid returns true if the partner type is supported
func (t PartnerType) IsValid() bool {
	switch t {
	case PartnerTypeShiprocket, PartnerTypeDelhivery:
		return true
	default:
		return false
	}
}

// String returns the string representation of PartnerType
func (t PartnerType) String() string {
	return string(t)
}

// ShipmentStatus is the normalized courier status of a shipment
type ShipmentStatus string

const (
	ShipmentStatusCreated        ShipmentStatus = "created"
	ShipmentStatusPickupPending  ShipmentStatus = "pickup_pending"
	ShipmentStatusPickedUp       ShipmentStatus = "picked_up"
	ShipmentStatusInTransit      ShipmentStatus = "in_transit"
	ShipmentStatusOutForDelivery ShipmentStatus = "out_for_delivery"
	ShipmentStatusDelivered      ShipmentStatus = "delivered"
	ShipmentStatusReturned       ShipmentStatus = "returned"
	ShipmentStatusCancelled      ShipmentStatus = "cancelled"
	ShipmentStatusFailed         ShipmentStatus = "failed"
)

// IsFinal returns true if the shipment can no longer change state
func (s ShipmentStatus) IsFinal() bool {
	switch s {
	case ShipmentStatusDelivered, ShipmentStatusReturned, ShipmentStatusCancelled, ShipmentStatusFailed:
		return true
	default:
		return false
	}
}

// BeforePickup reports whether the shipment is still cancellable
func (s ShipmentStatus) BeforePickup() bool {
	return s == ShipmentStatusCreated || s == ShipmentStatusPickupPending
}

// ServiceType selects the courier delivery speed
type ServiceType string

const (
	ServiceTypeStandard ServiceType = "standard"
	ServiceTypeExpress  ServiceType = "express"
)

// ---------------------------------------------------------------------------
// Request/Response DTOs
// ---------------------------------------------------------------------------

// Package is the physical parcel being quoted or shipped
type Package struct {
	// WeightKg is the billed weight in kilograms
	WeightKg decimal.Decimal
	// Dimensions in centimeters
	LengthCm decimal.Decimal
	WidthCm  decimal.Decimal
	HeightCm decimal.Decimal
	// DeclaredValue is the order value for insurance and COD
	DeclaredValue decimal.Decimal
}

// RateRequest asks a partner for shipping rate options
type RateRequest struct {
	StoreID            uuid.UUID
	OriginPincode      string
	DestinationPincode string
	Package            Package
	CashOnDelivery     bool
}

// Validate validates the rate request
func (r *RateRequest) Validate() error {
	if r.StoreID == uuid.Nil {
		return ErrShipmentInvalidStoreID
	}
	if r.OriginPincode == "" || r.DestinationPincode == "" {
		return ErrShipmentInvalidPincode
	}
	if r.Package.WeightKg.LessThanOrEqual(decimal.Zero) {
		return ErrShipmentInvalidWeight
	}
	return nil
}

// RateOption is one quoted shipping choice from a partner
type RateOption struct {
	Partner       PartnerType
	ServiceType   ServiceType
	CourierName   string
	Rate          decimal.Decimal
	Currency      string
	EstimatedDays int
	CODAvailable  bool
}

// ShipmentItem is one order line on the courier manifest
type ShipmentItem struct {
	Name     string
	SKU      string
	Quantity int
	Price    decimal.Decimal
}

// ShipmentAddress is a courier-facing delivery or pickup address
type ShipmentAddress struct {
	Name         string
	Phone        string
	Email        string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	Pincode      string
	Country      string
}

// CreateShipmentRequest books a shipment with a partner
type CreateShipmentRequest struct {
	StoreID     uuid.UUID
	OrderID     uuid.UUID
	OrderNumber string
	Pickup      ShipmentAddress
	Delivery    ShipmentAddress
	Items       []ShipmentItem
	Package     Package
	ServiceType ServiceType
	// CODAmount is zero for prepaid orders
	CODAmount decimal.Decimal
	Currency  string
}

// Validate validates the create shipment request
func (r *CreateShipmentRequest) Validate() error {
	if r.StoreID == uuid.Nil {
		return ErrShipmentInvalidStoreID
	}
	if r.OrderID == uuid.Nil {
		return ErrShipmentInvalidOrderID
	}
	if r.Delivery.Pincode == "" || r.Pickup.Pincode == "" {
		return ErrShipmentInvalidPincode
	}
	if r.Package.WeightKg.LessThanOrEqual(decimal.Zero) {
		return ErrShipmentInvalidWeight
	}
	return nil
}

// CreateShipmentResponse carries the partner's booking references
type CreateShipmentResponse struct {
	Partner PartnerType
	// ShipmentID is the partner's internal shipment identifier
	ShipmentID string
	// AWB is the air waybill / tracking number
	AWB               string
	CourierName       string
	LabelURL          string
	TrackingURL       string
	EstimatedDelivery *time.Time
	RawResponse       string
}

// TrackingCheckpoint is one scan event in a shipment's journey
type TrackingCheckpoint struct {
	Status    ShipmentStatus
	Location  string
	Remark    string
	Timestamp time.Time
}

// TrackingResponse is the normalized tracking state of a shipment
type TrackingResponse struct {
	Partner     PartnerType
	AWB         string
	Status      ShipmentStatus
	CourierName string
	// EstimatedDelivery may shift as the shipment moves
	EstimatedDelivery *time.Time
	DeliveredAt       *time.Time
	Checkpoints       []TrackingCheckpoint
	RawResponse       string
}

// ---------------------------------------------------------------------------
// Partner Port
// ---------------------------------------------------------------------------

// Partner is the port for external courier providers. Implementations
// (Shiprocket, Delhivery) live in the infrastructure layer and are built
// per store from that store's PartnerConfig.
type Partner interface {
	// PartnerType returns the type of this partner
	PartnerType() PartnerType

	// CheckServiceability reports whether a destination pincode is served
	CheckServiceability(ctx context.Context, originPincode, destinationPincode string, cod bool) (bool, error)

	// CalculateRate quotes shipping options for a package
	CalculateRate(ctx context.Context, req *RateRequest) ([]RateOption, error)

	// CreateShipment books a shipment and returns tracking references
	CreateShipment(ctx context.Context, req *CreateShipmentRequest) (*CreateShipmentResponse, error)

	// Track fetches the normalized tracking state for an AWB
	Track(ctx context.Context, awb string) (*TrackingResponse, error)

	// CancelShipment cancels a booked shipment before pickup
	CancelShipment(ctx context.Context, shipmentID, awb string) error

	// TestCredentials makes a minimal authenticated call so stored
	// credentials can be validated before the partner is activated
	TestCredentials(ctx context.Context) error
}

// PartnerResolver builds partner clients from per-store configuration
type PartnerResolver interface {
	// Resolve returns a partner client configured with the store's credentials
	Resolve(ctx context.Context, storeID uuid.UUID, partnerType PartnerType) (Partner, error)

	// ResolveConfigured returns a client for any configured partner,
	// active or not, for credential testing
	ResolveConfigured(ctx context.Context, storeID uuid.UUID, partnerType PartnerType) (Partner, error)

	// ActivePartners lists the partner types active for a store
	ActivePartners(ctx context.Context, storeID uuid.UUID) ([]PartnerType, error)
}

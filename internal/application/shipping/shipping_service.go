package shipping

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	orderapp "github.com/multistore/backend/internal/application/order"
	"github.com/multistore/backend/internal/domain/order"
	"github.com/multistore/backend/internal/domain/shared"
	"github.com/multistore/backend/internal/domain/shipping"
)

// ShippingService quotes rates, books shipments and tracks them through
// the store's configured courier partners.
type ShippingService struct {
	resolver   shipping.PartnerResolver
	configRepo shipping.PartnerConfigRepository
	orderRepo  order.OrderRepository
	orders     OrderShipmentRecorder
	logger     *zap.Logger
}

// NewShippingService creates a new shipping service
func NewShippingService(
	resolver shipping.PartnerResolver,
	configRepo shipping.PartnerConfigRepository,
	orderRepo order.OrderRepository,
	orders OrderShipmentRecorder,
	logger *zap.Logger,
) *ShippingService {
	return &ShippingService{
		resolver:   resolver,
		configRepo: configRepo,
		orderRepo:  orderRepo,
		orders:     orders,
		logger:     logger,
	}
}

// TestConnection makes a lightweight authenticated call against a
// configured partner so stored credentials can be checked from the
// dashboard before the partner is activated. A failed call reports
// success=false rather than an error.
func (s *ShippingService) TestConnection(ctx context.Context, storeID uuid.UUID, partnerType string) (*TestConnectionResponse, error) {
	partner, err := s.resolver.ResolveConfigured(ctx, storeID, shipping.PartnerType(partnerType))
	if err != nil {
		return nil, err
	}

	if err := partner.TestCredentials(ctx); err != nil {
		s.logger.Warn("partner credential test failed",
			zap.String("store_id", storeID.String()),
			zap.String("partner", partnerType),
			zap.Error(err))
		return &TestConnectionResponse{Partner: partnerType, Success: false, Message: err.Error()}, nil
	}
	return &TestConnectionResponse{Partner: partnerType, Success: true}, nil
}

// GetRates quotes shipping options across the store's active partners in
// priority order. Partners whose rate API fails contribute a rate-card
// fallback quote instead of dropping out.
func (s *ShippingService) GetRates(ctx context.Context, storeID uuid.UUID, req GetRatesRequest) ([]RateOptionResponse, error) {
	if req.WeightKg.LessThanOrEqual(decimal.Zero) {
		return nil, shipping.ErrShipmentInvalidWeight
	}

	configs, err := s.configRepo.FindActiveForStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	var options []RateOptionResponse
	for i := range configs {
		config := &configs[i]
		if !config.ServesPincode(req.DestinationPincode) {
			continue
		}
		if err := config.CanShip(req.WeightKg, req.CashOnDelivery); err != nil {
			continue
		}

		rateReq := &shipping.RateRequest{
			StoreID:            storeID,
			OriginPincode:      req.OriginPincode,
			DestinationPincode: req.DestinationPincode,
			Package: shipping.Package{
				WeightKg:      req.WeightKg,
				DeclaredValue: req.DeclaredValue,
			},
			CashOnDelivery: req.CashOnDelivery,
		}

		partnerOptions, err := s.quotePartner(ctx, storeID, config, rateReq)
		if err != nil {
			s.logger.Warn("partner rate quote failed",
				zap.String("partner", string(config.Type)),
				zap.String("store_id", storeID.String()),
				zap.Error(err))
			if fallback, ok := s.fallbackOption(config, req.WeightKg); ok {
				options = append(options, fallback)
			}
			continue
		}
		options = append(options, partnerOptions...)
	}

	if len(options) == 0 {
		return nil, shipping.ErrShipmentNotServiceable
	}
	return options, nil
}

func (s *ShippingService) quotePartner(ctx context.Context, storeID uuid.UUID, config *shipping.PartnerConfig, req *shipping.RateRequest) ([]RateOptionResponse, error) {
	partner, err := s.resolver.Resolve(ctx, storeID, config.Type)
	if err != nil {
		return nil, err
	}
	rates, err := partner.CalculateRate(ctx, req)
	if err != nil {
		return nil, err
	}
	options := make([]RateOptionResponse, 0, len(rates))
	for _, rate := range rates {
		options = append(options, RateOptionResponse{
			Partner:       string(rate.Partner),
			ServiceType:   string(rate.ServiceType),
			CourierName:   rate.CourierName,
			Rate:          rate.Rate,
			Currency:      rate.Currency,
			EstimatedDays: rate.EstimatedDays,
			CODAvailable:  rate.CODAvailable,
		})
	}
	return options, nil
}

// fallbackOption builds a rate-card quote, available only when the store
// has configured a base rate for the partner
func (s *ShippingService) fallbackOption(config *shipping.PartnerConfig, weightKg decimal.Decimal) (RateOptionResponse, bool) {
	if config.BaseRate.LessThanOrEqual(decimal.Zero) {
		return RateOptionResponse{}, false
	}
	return RateOptionResponse{
		Partner:       string(config.Type),
		ServiceType:   string(shipping.ServiceTypeStandard),
		CourierName:   config.DisplayName,
		Rate:          config.FallbackRate(weightKg),
		Currency:      "INR",
		EstimatedDays: config.StandardDeliveryDays,
		CODAvailable:  config.SupportsCOD,
		Fallback:      true,
	}, true
}

// CheckServiceability reports which active partners can deliver to a pincode
func (s *ShippingService) CheckServiceability(ctx context.Context, storeID uuid.UUID, originPincode, destinationPincode string, cod bool) (*ServiceabilityResponse, error) {
	configs, err := s.configRepo.FindActiveForStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	response := &ServiceabilityResponse{Partners: []string{}}
	for i := range configs {
		config := &configs[i]
		if cod && !config.SupportsCOD {
			continue
		}
		// An explicit pincode allowlist answers without the partner API
		if len(config.ServiceablePincodes) > 0 {
			if config.ServiceablePincodes.Contains(destinationPincode) {
				response.Partners = append(response.Partners, string(config.Type))
			}
			continue
		}

		partner, err := s.resolver.Resolve(ctx, storeID, config.Type)
		if err != nil {
			continue
		}
		serviceable, err := partner.CheckServiceability(ctx, originPincode, destinationPincode, cod)
		if err != nil {
			s.logger.Warn("serviceability check failed",
				zap.String("partner", string(config.Type)),
				zap.Error(err))
			continue
		}
		if serviceable {
			response.Partners = append(response.Partners, string(config.Type))
		}
	}

	response.Serviceable = len(response.Partners) > 0
	return response, nil
}

// CreateShipment books a courier shipment for a paid (or COD) order and
// records the tracking references on the order. Booking is idempotent:
// an order that already carries a tracking number is returned as-is.
func (s *ShippingService) CreateShipment(ctx context.Context, storeID, orderID uuid.UUID, req CreateShipmentRequest) (*ShipmentResponse, error) {
	o, err := s.orderRepo.FindByIDForStore(ctx, storeID, orderID)
	if err != nil {
		return nil, err
	}

	if o.TrackingNumber != "" {
		return &ShipmentResponse{
			OrderID:           o.ID,
			OrderNumber:       o.OrderNumber,
			Partner:           o.ShippingPartner,
			AWB:               o.TrackingNumber,
			TrackingURL:       o.TrackingURL,
			EstimatedDelivery: o.ExpectedDeliveryDate,
			AlreadyShipped:    true,
		}, nil
	}

	if o.Status != order.OrderStatusConfirmed && o.Status != order.OrderStatusProcessing {
		return nil, shared.NewDomainError("INVALID_STATE", "Order must be confirmed before shipping")
	}
	if !o.IsPaid() && o.PaymentMethod != "cod" {
		return nil, shared.NewDomainError("PAYMENT_REQUIRED", "Order must be paid before shipping")
	}

	partnerType := shipping.PartnerType(req.Partner)
	config, err := s.configRepo.FindByStoreAndType(ctx, storeID, partnerType)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shipping.ErrPartnerNotConfigured
		}
		return nil, err
	}

	cod := o.PaymentMethod == "cod"
	if err := config.CanShip(req.WeightKg, cod); err != nil {
		return nil, err
	}
	if !config.ServesPincode(o.ShippingAddress.PostalCode) {
		return nil, shipping.ErrShipmentNotServiceable
	}

	partner, err := s.resolver.Resolve(ctx, storeID, partnerType)
	if err != nil {
		return nil, err
	}

	serviceType := shipping.ServiceType(req.ServiceType)
	if serviceType == "" {
		serviceType = shipping.ServiceTypeStandard
	}

	shipmentReq := s.buildShipmentRequest(o, config, req, serviceType, cod)
	if err := shipmentReq.Validate(); err != nil {
		return nil, err
	}

	booking, err := partner.CreateShipment(ctx, shipmentReq)
	if err != nil {
		return nil, err
	}

	method := booking.CourierName
	if method == "" {
		method = string(serviceType)
	}
	if _, err := s.orders.Ship(ctx, storeID, orderID, orderapp.ShipOrderRequest{
		Partner:          string(partnerType),
		Method:           method,
		TrackingNumber:   booking.AWB,
		TrackingURL:      booking.TrackingURL,
		ExpectedDelivery: booking.EstimatedDelivery,
	}); err != nil {
		// The courier booking exists but the order transition failed.
		// Undo the booking so a retry does not double-ship.
		if cancelErr := partner.CancelShipment(ctx, booking.ShipmentID, booking.AWB); cancelErr != nil {
			s.logger.Error("failed to cancel orphaned shipment",
				zap.String("order_number", o.OrderNumber),
				zap.String("awb", booking.AWB),
				zap.Error(cancelErr))
		}
		return nil, err
	}

	config.RecordShipment(time.Now())
	if err := s.configRepo.Save(ctx, config); err != nil {
		s.logger.Warn("failed to record shipment statistics",
			zap.String("partner", string(partnerType)),
			zap.Error(err))
	}

	return &ShipmentResponse{
		OrderID:           o.ID,
		OrderNumber:       o.OrderNumber,
		Partner:           string(partnerType),
		AWB:               booking.AWB,
		CourierName:       booking.CourierName,
		LabelURL:          booking.LabelURL,
		TrackingURL:       booking.TrackingURL,
		EstimatedDelivery: booking.EstimatedDelivery,
	}, nil
}

func (s *ShippingService) buildShipmentRequest(o *order.Order, config *shipping.PartnerConfig, req CreateShipmentRequest, serviceType shipping.ServiceType, cod bool) *shipping.CreateShipmentRequest {
	items := make([]shipping.ShipmentItem, 0, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		sku := item.SKU
		if item.VariantSKU != "" {
			sku = item.VariantSKU
		}
		items = append(items, shipping.ShipmentItem{
			Name:     item.ProductName,
			SKU:      sku,
			Quantity: item.Quantity,
			Price:    item.UnitPrice,
		})
	}

	codAmount := decimal.Zero
	if cod {
		codAmount = o.TotalAmount
	}

	return &shipping.CreateShipmentRequest{
		StoreID:     o.StoreID,
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		Pickup: shipping.ShipmentAddress{
			Name:    config.PickupLocation,
			Phone:   req.PickupPhone,
			Pincode: req.PickupPincode,
		},
		Delivery: shipping.ShipmentAddress{
			Name:         o.CustomerName,
			Phone:        o.CustomerPhone,
			Email:        o.CustomerEmail,
			AddressLine1: o.ShippingAddress.AddressLine1,
			AddressLine2: o.ShippingAddress.AddressLine2,
			City:         o.ShippingAddress.City,
			State:        o.ShippingAddress.State,
			Pincode:      o.ShippingAddress.PostalCode,
			Country:      o.ShippingAddress.Country,
		},
		Items: items,
		Package: shipping.Package{
			WeightKg:      req.WeightKg,
			LengthCm:      req.LengthCm,
			WidthCm:       req.WidthCm,
			HeightCm:      req.HeightCm,
			DeclaredValue: o.TotalAmount,
		},
		ServiceType: serviceType,
		CODAmount:   codAmount,
		Currency:    string(o.Currency),
	}
}

// Track fetches the courier tracking state for a shipped order. A
// delivered scan transitions the order and updates partner statistics.
func (s *ShippingService) Track(ctx context.Context, storeID, orderID uuid.UUID) (*TrackingResult, error) {
	o, err := s.orderRepo.FindByIDForStore(ctx, storeID, orderID)
	if err != nil {
		return nil, err
	}
	if o.TrackingNumber == "" {
		return nil, shipping.ErrShipmentNotFound
	}

	partnerType := shipping.PartnerType(o.ShippingPartner)
	partner, err := s.resolver.Resolve(ctx, storeID, partnerType)
	if err != nil {
		return nil, err
	}
	tracking, err := partner.Track(ctx, o.TrackingNumber)
	if err != nil {
		return nil, err
	}

	if tracking.Status == shipping.ShipmentStatusDelivered && o.DeliveredAt == nil {
		if _, err := s.orders.MarkDelivered(ctx, storeID, orderID); err != nil {
			s.logger.Warn("failed to mark order delivered from tracking",
				zap.String("order_number", o.OrderNumber),
				zap.Error(err))
		} else {
			s.recordDelivery(ctx, storeID, partnerType, true)
		}
	}

	checkpoints := make([]TrackingCheckpointResponse, 0, len(tracking.Checkpoints))
	for _, cp := range tracking.Checkpoints {
		checkpoints = append(checkpoints, TrackingCheckpointResponse{
			Status:    string(cp.Status),
			Location:  cp.Location,
			Remark:    cp.Remark,
			Timestamp: cp.Timestamp,
		})
	}

	return &TrackingResult{
		OrderNumber:       o.OrderNumber,
		Partner:           string(partnerType),
		AWB:               tracking.AWB,
		Status:            string(tracking.Status),
		CourierName:       tracking.CourierName,
		EstimatedDelivery: tracking.EstimatedDelivery,
		DeliveredAt:       tracking.DeliveredAt,
		Checkpoints:       checkpoints,
	}, nil
}

func (s *ShippingService) recordDelivery(ctx context.Context, storeID uuid.UUID, partnerType shipping.PartnerType, successful bool) {
	config, err := s.configRepo.FindByStoreAndType(ctx, storeID, partnerType)
	if err != nil {
		return
	}
	config.RecordDelivery(successful)
	if err := s.configRepo.Save(ctx, config); err != nil {
		s.logger.Warn("failed to record delivery statistics",
			zap.String("partner", string(partnerType)),
			zap.Error(err))
	}
}

// CancelShipment cancels a booked shipment that the courier has not yet
// picked up. The order itself is left untouched; cancelling the order is
// a separate step.
func (s *ShippingService) CancelShipment(ctx context.Context, storeID, orderID uuid.UUID) error {
	o, err := s.orderRepo.FindByIDForStore(ctx, storeID, orderID)
	if err != nil {
		return err
	}
	if o.TrackingNumber == "" {
		return shipping.ErrShipmentNotFound
	}

	partnerType := shipping.PartnerType(o.ShippingPartner)
	partner, err := s.resolver.Resolve(ctx, storeID, partnerType)
	if err != nil {
		return err
	}

	tracking, err := partner.Track(ctx, o.TrackingNumber)
	if err != nil {
		return err
	}
	if !tracking.Status.BeforePickup() {
		return shipping.ErrShipmentAlreadyPickedUp
	}

	return partner.CancelShipment(ctx, "", o.TrackingNumber)
}

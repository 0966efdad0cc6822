package shipping

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/multistore/backend/internal/domain/shipping"
)

const (
	shiprocketBaseURL = "https://apiv2.shiprocket.in"

	// Shiprocket tokens are valid for ten days; renew a day early
	shiprocketTokenTTL = 9 * 24 * time.Hour
)

var _ shipping.Partner = (*ShiprocketPartner)(nil)

// ShiprocketPartner talks to the Shiprocket external API v1. Shiprocket
// is an aggregator, so rate quotes fan out to its courier network.
type ShiprocketPartner struct {
	client         *resty.Client
	email          string
	password       string
	pickupLocation string
	tokens         TokenCache
}

// NewShiprocketPartner creates a partner client for one store's account
func NewShiprocketPartner(email, password, pickupLocation string, tokens TokenCache) *ShiprocketPartner {
	return &ShiprocketPartner{
		client:         resty.New().SetBaseURL(shiprocketBaseURL).SetTimeout(30 * time.Second),
		email:          email,
		password:       password,
		pickupLocation: pickupLocation,
		tokens:         tokens,
	}
}

// PartnerType implements shipping.Partner
func (p *ShiprocketPartner) PartnerType() shipping.PartnerType {
	return shipping.PartnerTypeShiprocket
}

type shiprocketCourier struct {
	CourierName   string          `json:"courier_name"`
	Rate          decimal.Decimal `json:"rate"`
	COD           int             `json:"cod"`
	EstimatedDays string          `json:"estimated_delivery_days"`
	ETD           string          `json:"etd"`
}

type shiprocketServiceability struct {
	Status int `json:"status"`
	Data   struct {
		AvailableCourierCompanies []shiprocketCourier `json:"available_courier_companies"`
	} `json:"data"`
}

// CheckServiceability implements shipping.Partner
func (p *ShiprocketPartner) CheckServiceability(ctx context.Context, originPincode, destinationPincode string, cod bool) (bool, error) {
	couriers, err := p.serviceableCouriers(ctx, originPincode, destinationPincode, decimal.NewFromFloat(0.5), cod)
	if err != nil {
		return false, err
	}
	return len(couriers) > 0, nil
}

// CalculateRate implements shipping.Partner
func (p *ShiprocketPartner) CalculateRate(ctx context.Context, req *shipping.RateRequest) ([]shipping.RateOption, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	couriers, err := p.serviceableCouriers(ctx, req.OriginPincode, req.DestinationPincode, req.Package.WeightKg, req.CashOnDelivery)
	if err != nil {
		return nil, err
	}

	options := make([]shipping.RateOption, 0, len(couriers))
	for _, c := range couriers {
		days := parseEstimatedDays(c.EstimatedDays)
		serviceType := shipping.ServiceTypeStandard
		if days > 0 && days <= 2 {
			serviceType = shipping.ServiceTypeExpress
		}
		options = append(options, shipping.RateOption{
			Partner:       shipping.PartnerTypeShiprocket,
			ServiceType:   serviceType,
			CourierName:   c.CourierName,
			Rate:          c.Rate,
			Currency:      "INR",
			EstimatedDays: days,
			CODAvailable:  c.COD == 1,
		})
	}
	return options, nil
}

type shiprocketOrderResponse struct {
	OrderID    int64  `json:"order_id"`
	ShipmentID int64  `json:"shipment_id"`
	Status     string `json:"status"`
}

type shiprocketAWBResponse struct {
	AWBAssignStatus int `json:"awb_assign_status"`
	Response        struct {
		Data struct {
			AWBCode     string `json:"awb_code"`
			CourierName string `json:"courier_name"`
		} `json:"data"`
	} `json:"response"`
}

// CreateShipment implements shipping.Partner. Booking is two calls: the
// adhoc order, then AWB assignment against the returned shipment ID.
func (p *ShiprocketPartner) CreateShipment(ctx context.Context, req *shipping.CreateShipmentRequest) (*shipping.CreateShipmentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	paymentMethod := "Prepaid"
	if req.CODAmount.GreaterThan(decimal.Zero) {
		paymentMethod = "COD"
	}

	items := make([]map[string]any, 0, len(req.Items))
	subTotal := decimal.Zero
	for _, item := range req.Items {
		items = append(items, map[string]any{
			"name":          item.Name,
			"sku":           item.SKU,
			"units":         item.Quantity,
			"selling_price": item.Price.StringFixed(2),
		})
		subTotal = subTotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	orderBody := map[string]any{
		"order_id":              req.OrderNumber,
		"order_date":            time.Now().Format("2006-01-02 15:04"),
		"pickup_location":       p.pickupLocation,
		"billing_customer_name": req.Delivery.Name,
		"billing_address":       req.Delivery.AddressLine1,
		"billing_address_2":     req.Delivery.AddressLine2,
		"billing_city":          req.Delivery.City,
		"billing_state":         req.Delivery.State,
		"billing_pincode":       req.Delivery.Pincode,
		"billing_country":       req.Delivery.Country,
		"billing_email":         req.Delivery.Email,
		"billing_phone":         req.Delivery.Phone,
		"shipping_is_billing":   true,
		"order_items":           items,
		"payment_method":        paymentMethod,
		"sub_total":             subTotal.StringFixed(2),
		"weight":                req.Package.WeightKg.String(),
		"length":                req.Package.LengthCm.String(),
		"breadth":               req.Package.WidthCm.String(),
		"height":                req.Package.HeightCm.String(),
	}

	var order shiprocketOrderResponse
	if err := p.call(ctx, "POST", "/v1/external/orders/create/adhoc", orderBody, &order); err != nil {
		return nil, err
	}
	if order.ShipmentID == 0 {
		return nil, fmt.Errorf("%w: order created without shipment", shipping.ErrPartnerRequestFailed)
	}

	var awb shiprocketAWBResponse
	if err := p.call(ctx, "POST", "/v1/external/courier/assign/awb", map[string]any{
		"shipment_id": order.ShipmentID,
	}, &awb); err != nil {
		return nil, err
	}

	awbCode := awb.Response.Data.AWBCode
	return &shipping.CreateShipmentResponse{
		Partner:     shipping.PartnerTypeShiprocket,
		ShipmentID:  fmt.Sprintf("%d", order.ShipmentID),
		AWB:         awbCode,
		CourierName: awb.Response.Data.CourierName,
		TrackingURL: "https://shiprocket.co/tracking/" + awbCode,
		RawResponse: fmt.Sprintf(`{"order_id":%d,"shipment_id":%d,"awb_code":%q}`, order.OrderID, order.ShipmentID, awbCode),
	}, nil
}

type shiprocketTracking struct {
	TrackingData struct {
		ShipmentTrack []struct {
			CurrentStatus string `json:"current_status"`
			CourierName   string `json:"courier_name"`
			EDD           string `json:"edd"`
		} `json:"shipment_track"`
		ShipmentTrackActivities []struct {
			Date     string `json:"date"`
			Status   string `json:"sr-status-label"`
			Activity string `json:"activity"`
			Location string `json:"location"`
		} `json:"shipment_track_activities"`
	} `json:"tracking_data"`
}

// Track implements shipping.Partner
func (p *ShiprocketPartner) Track(ctx context.Context, awb string) (*shipping.TrackingResponse, error) {
	if awb == "" {
		return nil, shipping.ErrShipmentNotFound
	}

	var tracking shiprocketTracking
	if err := p.call(ctx, "GET", "/v1/external/courier/track/awb/"+awb, nil, &tracking); err != nil {
		return nil, err
	}
	if len(tracking.TrackingData.ShipmentTrack) == 0 {
		return nil, shipping.ErrShipmentNotFound
	}

	track := tracking.TrackingData.ShipmentTrack[0]
	resp := &shipping.TrackingResponse{
		Partner:     shipping.PartnerTypeShiprocket,
		AWB:         awb,
		Status:      mapShiprocketStatus(track.CurrentStatus),
		CourierName: track.CourierName,
	}
	if edd, err := time.Parse("2006-01-02 15:04:05", track.EDD); err == nil {
		resp.EstimatedDelivery = &edd
	}

	for _, activity := range tracking.TrackingData.ShipmentTrackActivities {
		checkpoint := shipping.TrackingCheckpoint{
			Status:   mapShiprocketStatus(activity.Status),
			Location: activity.Location,
			Remark:   activity.Activity,
		}
		if ts, err := time.Parse("2006-01-02 15:04:05", activity.Date); err == nil {
			checkpoint.Timestamp = ts
		}
		resp.Checkpoints = append(resp.Checkpoints, checkpoint)
		if checkpoint.Status == shipping.ShipmentStatusDelivered && resp.DeliveredAt == nil && !checkpoint.Timestamp.IsZero() {
			t := checkpoint.Timestamp
			resp.DeliveredAt = &t
		}
	}
	return resp, nil
}

// CancelShipment implements shipping.Partner
func (p *ShiprocketPartner) CancelShipment(ctx context.Context, shipmentID, awb string) error {
	if awb == "" {
		return p.call(ctx, "POST", "/v1/external/orders/cancel", map[string]any{
			"ids": []string{shipmentID},
		}, &struct{}{})
	}
	return p.call(ctx, "POST", "/v1/external/orders/cancel/shipment/awbs", map[string]any{
		"awbs": []string{awb},
	}, &struct{}{})
}

func (p *ShiprocketPartner) serviceableCouriers(ctx context.Context, origin, destination string, weightKg decimal.Decimal, cod bool) ([]shiprocketCourier, error) {
	codFlag := "0"
	if cod {
		codFlag = "1"
	}

	token, err := p.token(ctx)
	if err != nil {
		return nil, err
	}

	var result shiprocketServiceability
	resp, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParams(map[string]string{
			"pickup_postcode":   origin,
			"delivery_postcode": destination,
			"weight":            weightKg.String(),
			"cod":               codFlag,
		}).
		SetResult(&result).
		Get("/v1/external/courier/serviceability/")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shipping.ErrPartnerRequestFailed, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: HTTP %d", shipping.ErrPartnerRequestFailed, resp.StatusCode())
	}
	return result.Data.AvailableCourierCompanies, nil
}

// TestCredentials performs the login call, bypassing the token cache so a
// stale cached token cannot mask revoked credentials
func (p *ShiprocketPartner) TestCredentials(ctx context.Context) error {
	var loginResp struct {
		Token string `json:"token"`
	}
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": p.email, "password": p.password}).
		SetResult(&loginResp).
		Post("/v1/external/auth/login")
	if err != nil {
		return fmt.Errorf("%w: %v", shipping.ErrPartnerRequestFailed, err)
	}
	if resp.IsError() || loginResp.Token == "" {
		return fmt.Errorf("%w: HTTP %d", shipping.ErrPartnerAuthFailed, resp.StatusCode())
	}
	return nil
}

// token returns a cached auth token, logging in when the cache misses
func (p *ShiprocketPartner) token(ctx context.Context) (string, error) {
	cacheKey := "shiprocket:" + strings.ToLower(p.email)
	if token, err := p.tokens.Get(ctx, cacheKey); err == nil && token != "" {
		return token, nil
	}

	var loginResp struct {
		Token string `json:"token"`
	}
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": p.email, "password": p.password}).
		SetResult(&loginResp).
		Post("/v1/external/auth/login")
	if err != nil {
		return "", fmt.Errorf("%w: %v", shipping.ErrPartnerRequestFailed, err)
	}
	if resp.IsError() || loginResp.Token == "" {
		return "", fmt.Errorf("%w: HTTP %d", shipping.ErrPartnerAuthFailed, resp.StatusCode())
	}

	// A failed cache write only costs a re-login next time
	_ = p.tokens.Set(ctx, cacheKey, loginResp.Token, shiprocketTokenTTL)
	return loginResp.Token, nil
}

func (p *ShiprocketPartner) call(ctx context.Context, method, path string, body any, result any) error {
	token, err := p.token(ctx)
	if err != nil {
		return err
	}

	req := p.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(result)
	if body != nil {
		req.SetBody(body)
	}

	var resp *resty.Response
	switch method {
	case "GET":
		resp, err = req.Get(path)
	default:
		resp, err = req.Post(path)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", shipping.ErrPartnerRequestFailed, err)
	}
	if resp.StatusCode() == 401 {
		return shipping.ErrPartnerAuthFailed
	}
	if resp.IsError() {
		return fmt.Errorf("%w: HTTP %d", shipping.ErrPartnerRequestFailed, resp.StatusCode())
	}
	return nil
}

func mapShiprocketStatus(status string) shipping.ShipmentStatus {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "NEW", "AWB ASSIGNED":
		return shipping.ShipmentStatusCreated
	case "PICKUP SCHEDULED", "PICKUP GENERATED", "PICKUP QUEUED":
		return shipping.ShipmentStatusPickupPending
	case "PICKED UP", "SHIPPED":
		return shipping.ShipmentStatusPickedUp
	case "IN TRANSIT", "REACHED AT DESTINATION HUB":
		return shipping.ShipmentStatusInTransit
	case "OUT FOR DELIVERY":
		return shipping.ShipmentStatusOutForDelivery
	case "DELIVERED":
		return shipping.ShipmentStatusDelivered
	case "RTO INITIATED", "RTO DELIVERED", "RTO IN TRANSIT":
		return shipping.ShipmentStatusReturned
	case "CANCELED", "CANCELLED":
		return shipping.ShipmentStatusCancelled
	case "LOST", "UNDELIVERED", "DELAYED":
		return shipping.ShipmentStatusFailed
	default:
		return shipping.ShipmentStatusInTransit
	}
}

// parseEstimatedDays reads Shiprocket's "2-4" or "3" day estimates,
// keeping the upper bound
func parseEstimatedDays(estimate string) int {
	estimate = strings.TrimSpace(estimate)
	if estimate == "" {
		return 0
	}
	if idx := strings.LastIndex(estimate, "-"); idx >= 0 {
		estimate = estimate[idx+1:]
	}
	days := 0
	for _, r := range estimate {
		if r < '0' || r > '9' {
			return days
		}
		days = days*10 + int(r-'0')
	}
	return days
}

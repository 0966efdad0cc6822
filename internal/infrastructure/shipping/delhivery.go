package shipping

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/multistore/backend/internal/domain/shipping"
)

const (
	delhiveryLiveBaseURL    = "https://track.delhivery.com"
	delhiveryStagingBaseURL = "https://staging-express.delhivery.com"
)

var _ shipping.Partner = (*DelhiveryPartner)(nil)

// DelhiveryPartner talks to the Delhivery Express API. Auth is a static
// API token, so no token cache is needed.
type DelhiveryPartner struct {
	client         *resty.Client
	apiToken       string
	pickupLocation string

	standardDeliveryDays int
	expressDeliveryDays  int
}

// NewDelhiveryPartner creates a partner client for one store's account
func NewDelhiveryPartner(apiToken, pickupLocation string, staging bool, standardDays, expressDays int) *DelhiveryPartner {
	baseURL := delhiveryLiveBaseURL
	if staging {
		baseURL = delhiveryStagingBaseURL
	}
	if standardDays < 1 {
		standardDays = 3
	}
	if expressDays < 1 {
		expressDays = 1
	}
	return &DelhiveryPartner{
		client:               resty.New().SetBaseURL(baseURL).SetTimeout(30 * time.Second),
		apiToken:             apiToken,
		pickupLocation:       pickupLocation,
		standardDeliveryDays: standardDays,
		expressDeliveryDays:  expressDays,
	}
}

// PartnerType implements shipping.Partner
func (p *DelhiveryPartner) PartnerType() shipping.PartnerType {
	return shipping.PartnerTypeDelhivery
}

type delhiveryPincode struct {
	DeliveryCodes []struct {
		PostalCode struct {
			Pin int    `json:"pin"`
			COD string `json:"cod"`
		} `json:"postal_code"`
	} `json:"delivery_codes"`
}

// CheckServiceability implements shipping.Partner. Delhivery only checks
// the destination pin; origin coverage is implied by the pickup warehouse.
func (p *DelhiveryPartner) CheckServiceability(ctx context.Context, _, destinationPincode string, cod bool) (bool, error) {
	var result delhiveryPincode
	if err := p.get(ctx, "/c/api/pin-codes/json/", map[string]string{
		"filter_codes": destinationPincode,
	}, &result); err != nil {
		return false, err
	}
	if len(result.DeliveryCodes) == 0 {
		return false, nil
	}
	if cod {
		return strings.EqualFold(result.DeliveryCodes[0].PostalCode.COD, "Y"), nil
	}
	return true, nil
}

// TestCredentials runs a pincode lookup, which rejects a bad API token
func (p *DelhiveryPartner) TestCredentials(ctx context.Context) error {
	var result delhiveryPincode
	return p.get(ctx, "/c/api/pin-codes/json/", map[string]string{
		"filter_codes": "110001",
	}, &result)
}

type delhiveryCharge struct {
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// CalculateRate implements shipping.Partner. Delhivery quotes one charge
// per service mode, so Express and Surface are fetched separately.
func (p *DelhiveryPartner) CalculateRate(ctx context.Context, req *shipping.RateRequest) ([]shipping.RateOption, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	paymentType := "Pre-paid"
	if req.CashOnDelivery {
		paymentType = "COD"
	}
	grams := req.Package.WeightKg.Mul(decimal.NewFromInt(1000)).IntPart()

	modes := []struct {
		code        string
		serviceType shipping.ServiceType
		days        int
	}{
		{"S", shipping.ServiceTypeStandard, p.standardDeliveryDays},
		{"E", shipping.ServiceTypeExpress, p.expressDeliveryDays},
	}

	var options []shipping.RateOption
	for _, mode := range modes {
		var charges []delhiveryCharge
		err := p.get(ctx, "/api/kinko/v1/invoice/charges/.json", map[string]string{
			"md":    mode.code,
			"ss":    "Delivered",
			"o_pin": req.OriginPincode,
			"d_pin": req.DestinationPincode,
			"cgm":   fmt.Sprintf("%d", grams),
			"pt":    paymentType,
		}, &charges)
		if err != nil || len(charges) == 0 {
			continue
		}
		options = append(options, shipping.RateOption{
			Partner:       shipping.PartnerTypeDelhivery,
			ServiceType:   mode.serviceType,
			CourierName:   "Delhivery",
			Rate:          charges[0].TotalAmount,
			Currency:      "INR",
			EstimatedDays: mode.days,
			CODAvailable:  true,
		})
	}
	if len(options) == 0 {
		return nil, shipping.ErrShipmentNotServiceable
	}
	return options, nil
}

type delhiveryCreateResponse struct {
	Success  bool `json:"success"`
	Packages []struct {
		Waybill string `json:"waybill"`
		Status  string `json:"status"`
		Remarks any    `json:"remarks"`
	} `json:"packages"`
}

// CreateShipment implements shipping.Partner. The create endpoint takes a
// form field named data holding the shipment JSON.
func (p *DelhiveryPartner) CreateShipment(ctx context.Context, req *shipping.CreateShipmentRequest) (*shipping.CreateShipmentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	paymentMode := "Prepaid"
	codAmount := ""
	if req.CODAmount.GreaterThan(decimal.Zero) {
		paymentMode = "COD"
		codAmount = req.CODAmount.StringFixed(2)
	}

	descriptions := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		descriptions = append(descriptions, fmt.Sprintf("%s x%d", item.Name, item.Quantity))
	}

	payload := map[string]any{
		"shipments": []map[string]any{{
			"order":         req.OrderNumber,
			"name":          req.Delivery.Name,
			"add":           strings.TrimSpace(req.Delivery.AddressLine1 + " " + req.Delivery.AddressLine2),
			"pin":           req.Delivery.Pincode,
			"city":          req.Delivery.City,
			"state":         req.Delivery.State,
			"country":       req.Delivery.Country,
			"phone":         req.Delivery.Phone,
			"payment_mode":  paymentMode,
			"cod_amount":    codAmount,
			"weight":        req.Package.WeightKg.Mul(decimal.NewFromInt(1000)).IntPart(),
			"products_desc": strings.Join(descriptions, ", "),
		}},
		"pickup_location": map[string]string{"name": p.pickupLocation},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shipping.ErrPartnerRequestFailed, err)
	}

	var result delhiveryCreateResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Token "+p.apiToken).
		SetFormData(map[string]string{
			"format": "json",
			"data":   string(data),
		}).
		SetResult(&result).
		Post("/api/cmu/create.json")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shipping.ErrPartnerRequestFailed, err)
	}
	if resp.StatusCode() == 401 {
		return nil, shipping.ErrPartnerAuthFailed
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: HTTP %d", shipping.ErrPartnerRequestFailed, resp.StatusCode())
	}
	if len(result.Packages) == 0 || result.Packages[0].Waybill == "" {
		return nil, fmt.Errorf("%w: no waybill assigned", shipping.ErrPartnerRequestFailed)
	}

	awb := result.Packages[0].Waybill
	raw, _ := json.Marshal(result)
	return &shipping.CreateShipmentResponse{
		Partner:     shipping.PartnerTypeDelhivery,
		ShipmentID:  awb,
		AWB:         awb,
		CourierName: "Delhivery",
		TrackingURL: "https://www.delhivery.com/track/package/" + awb,
		RawResponse: string(raw),
	}, nil
}

type delhiveryTracking struct {
	ShipmentData []struct {
		Shipment struct {
			AWB    string `json:"AWB"`
			Status struct {
				Status         string `json:"Status"`
				StatusDateTime string `json:"StatusDateTime"`
				StatusLocation string `json:"StatusLocation"`
				Instructions   string `json:"Instructions"`
			} `json:"Status"`
			ExpectedDeliveryDate string `json:"ExpectedDeliveryDate"`
			Scans                []struct {
				ScanDetail struct {
					Scan            string `json:"Scan"`
					ScanDateTime    string `json:"ScanDateTime"`
					ScannedLocation string `json:"ScannedLocation"`
					Instructions    string `json:"Instructions"`
				} `json:"ScanDetail"`
			} `json:"Scans"`
		} `json:"Shipment"`
	} `json:"ShipmentData"`
}

// Track implements shipping.Partner
func (p *DelhiveryPartner) Track(ctx context.Context, awb string) (*shipping.TrackingResponse, error) {
	if awb == "" {
		return nil, shipping.ErrShipmentNotFound
	}

	var tracking delhiveryTracking
	if err := p.get(ctx, "/api/v1/packages/json/", map[string]string{
		"waybill": awb,
	}, &tracking); err != nil {
		return nil, err
	}
	if len(tracking.ShipmentData) == 0 {
		return nil, shipping.ErrShipmentNotFound
	}

	shipment := tracking.ShipmentData[0].Shipment
	resp := &shipping.TrackingResponse{
		Partner:     shipping.PartnerTypeDelhivery,
		AWB:         awb,
		Status:      mapDelhiveryStatus(shipment.Status.Status),
		CourierName: "Delhivery",
	}
	if edd, err := parseDelhiveryTime(shipment.ExpectedDeliveryDate); err == nil {
		resp.EstimatedDelivery = &edd
	}
	if resp.Status == shipping.ShipmentStatusDelivered {
		if deliveredAt, err := parseDelhiveryTime(shipment.Status.StatusDateTime); err == nil {
			resp.DeliveredAt = &deliveredAt
		}
	}

	for _, scan := range shipment.Scans {
		checkpoint := shipping.TrackingCheckpoint{
			Status:   mapDelhiveryStatus(scan.ScanDetail.Scan),
			Location: scan.ScanDetail.ScannedLocation,
			Remark:   scan.ScanDetail.Instructions,
		}
		if ts, err := parseDelhiveryTime(scan.ScanDetail.ScanDateTime); err == nil {
			checkpoint.Timestamp = ts
		}
		resp.Checkpoints = append(resp.Checkpoints, checkpoint)
	}
	return resp, nil
}

// CancelShipment implements shipping.Partner
func (p *DelhiveryPartner) CancelShipment(ctx context.Context, _, awb string) error {
	if awb == "" {
		return shipping.ErrShipmentNotFound
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Token "+p.apiToken).
		SetBody(map[string]any{
			"waybill":      awb,
			"cancellation": "true",
		}).
		Post("/api/p/edit")
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

func (p *DelhiveryPartner) get(ctx context.Context, path string, params map[string]string, result any) error {
	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Token "+p.apiToken).
		SetQueryParams(params).
		SetResult(result).
		Get(path)
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

func mapDelhiveryStatus(status string) shipping.ShipmentStatus {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "manifested", "not picked":
		return shipping.ShipmentStatusPickupPending
	case "picked up", "picked":
		return shipping.ShipmentStatusPickedUp
	case "in transit", "pending":
		return shipping.ShipmentStatusInTransit
	case "dispatched", "out for delivery":
		return shipping.ShipmentStatusOutForDelivery
	case "delivered":
		return shipping.ShipmentStatusDelivered
	case "rto", "returned", "dto":
		return shipping.ShipmentStatusReturned
	case "cancelled", "canceled":
		return shipping.ShipmentStatusCancelled
	case "lost", "destroyed":
		return shipping.ShipmentStatusFailed
	default:
		return shipping.ShipmentStatusInTransit
	}
}

// Delhivery mixes timestamp layouts across endpoints
func parseDelhiveryTime(value string) (time.Time, error) {
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05.999999",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", value)
}

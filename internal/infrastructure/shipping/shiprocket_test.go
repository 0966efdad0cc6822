package shipping

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multistore/backend/internal/domain/shipping"
)

// newShiprocketTestServer serves the login endpoint and delegates the rest,
// counting logins so token caching can be asserted.
func newShiprocketTestServer(t *testing.T, logins *int32, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/external/auth/login" {
			atomic.AddInt32(logins, 1)
			var creds struct {
				Email    string `json:"email"`
				Password string `json:"password"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			assert.Equal(t, "store@chaikart.in", creds.Email)
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"token":"sr-test-token"}`)
			return
		}
		assert.Equal(t, "Bearer sr-test-token", r.Header.Get("Authorization"))
		handler(w, r)
	}))
}

func newTestShiprocket(serverURL string) *ShiprocketPartner {
	p := NewShiprocketPartner("store@chaikart.in", "secret", "Main Warehouse", NewMemoryTokenCache())
	p.client.SetBaseURL(serverURL)
	return p
}

func TestShiprocketPartner_CheckServiceability(t *testing.T) {
	var logins int32
	server := newShiprocketTestServer(t, &logins, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/external/courier/serviceability/", r.URL.Path)
		assert.Equal(t, "110001", r.URL.Query().Get("pickup_postcode"))
		assert.Equal(t, "560001", r.URL.Query().Get("delivery_postcode"))
		assert.Equal(t, "1", r.URL.Query().Get("cod"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":200,"data":{"available_courier_companies":[
			{"courier_name":"Bluedart","rate":95.5,"cod":1,"estimated_delivery_days":"2"}
		]}}`)
	})
	defer server.Close()

	p := newTestShiprocket(server.URL)
	ok, err := p.CheckServiceability(context.Background(), "110001", "560001", true)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestShiprocketPartner_TokenIsCached(t *testing.T) {
	var logins int32
	server := newShiprocketTestServer(t, &logins, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":200,"data":{"available_courier_companies":[]}}`)
	})
	defer server.Close()

	p := newTestShiprocket(server.URL)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := p.CheckServiceability(ctx, "110001", "999999", false)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&logins))
}

func TestShiprocketPartner_CalculateRate(t *testing.T) {
	var logins int32
	server := newShiprocketTestServer(t, &logins, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1.5", r.URL.Query().Get("weight"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":200,"data":{"available_courier_companies":[
			{"courier_name":"Bluedart Express","rate":120,"cod":1,"estimated_delivery_days":"2"},
			{"courier_name":"Ekart Surface","rate":65.5,"cod":0,"estimated_delivery_days":"4-6"}
		]}}`)
	})
	defer server.Close()

	p := newTestShiprocket(server.URL)
	options, err := p.CalculateRate(context.Background(), &shipping.RateRequest{
		StoreID:            uuid.New(),
		OriginPincode:      "110001",
		DestinationPincode: "560001",
		Package:            shipping.Package{WeightKg: decimal.NewFromFloat(1.5)},
	})
	require.NoError(t, err)
	require.Len(t, options, 2)

	assert.Equal(t, shipping.ServiceTypeExpress, options[0].ServiceType)
	assert.Equal(t, 2, options[0].EstimatedDays)
	assert.True(t, options[0].CODAvailable)

	assert.Equal(t, shipping.ServiceTypeStandard, options[1].ServiceType)
	assert.Equal(t, 6, options[1].EstimatedDays)
	assert.True(t, options[1].Rate.Equal(decimal.NewFromFloat(65.5)))
	assert.False(t, options[1].CODAvailable)
}

func TestShiprocketPartner_CalculateRate_InvalidRequest(t *testing.T) {
	p := NewShiprocketPartner("store@chaikart.in", "secret", "Main Warehouse", NewMemoryTokenCache())

	_, err := p.CalculateRate(context.Background(), &shipping.RateRequest{
		StoreID:            uuid.New(),
		OriginPincode:      "110001",
		DestinationPincode: "560001",
		Package:            shipping.Package{WeightKg: decimal.Zero},
	})
	assert.ErrorIs(t, err, shipping.ErrShipmentInvalidWeight)
}

func testCreateShipmentRequest() *shipping.CreateShipmentRequest {
	return &shipping.CreateShipmentRequest{
		StoreID:     uuid.New(),
		OrderID:     uuid.New(),
		OrderNumber: "CHAI-00042",
		Pickup: shipping.ShipmentAddress{
			Name: "ChaiKart Warehouse", Phone: "+911112223334",
			AddressLine1: "14 Industrial Area", City: "New Delhi",
			State: "Delhi", Pincode: "110001", Country: "India",
		},
		Delivery: shipping.ShipmentAddress{
			Name: "Priya Sharma", Phone: "+919876543210", Email: "priya@chaikart.in",
			AddressLine1: "22 MG Road", City: "Bengaluru",
			State: "Karnataka", Pincode: "560001", Country: "India",
		},
		Items: []shipping.ShipmentItem{
			{Name: "Masala Chai 250g", SKU: "CHAI-MASALA-250", Quantity: 2, Price: decimal.NewFromFloat(249.50)},
		},
		Package: shipping.Package{
			WeightKg:      decimal.NewFromFloat(0.6),
			LengthCm:      decimal.NewFromInt(20),
			WidthCm:       decimal.NewFromInt(15),
			HeightCm:      decimal.NewFromInt(10),
			DeclaredValue: decimal.NewFromFloat(499.00),
		},
		ServiceType: shipping.ServiceTypeStandard,
		CODAmount:   decimal.Zero,
		Currency:    "INR",
	}
}

func TestShiprocketPartner_CreateShipment(t *testing.T) {
	var logins int32
	server := newShiprocketTestServer(t, &logins, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/external/orders/create/adhoc":
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "CHAI-00042", body["order_id"])
			assert.Equal(t, "Main Warehouse", body["pickup_location"])
			assert.Equal(t, "Prepaid", body["payment_method"])
			assert.Equal(t, "560001", body["billing_pincode"])
			fmt.Fprint(w, `{"order_id":1001,"shipment_id":2002,"status":"NEW"}`)
		case "/v1/external/courier/assign/awb":
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, float64(2002), body["shipment_id"])
			fmt.Fprint(w, `{"awb_assign_status":1,"response":{"data":{"awb_code":"AWB123456789","courier_name":"Bluedart"}}}`)
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})
	defer server.Close()

	p := newTestShiprocket(server.URL)
	resp, err := p.CreateShipment(context.Background(), testCreateShipmentRequest())
	require.NoError(t, err)

	assert.Equal(t, shipping.PartnerTypeShiprocket, resp.Partner)
	assert.Equal(t, "2002", resp.ShipmentID)
	assert.Equal(t, "AWB123456789", resp.AWB)
	assert.Equal(t, "Bluedart", resp.CourierName)
	assert.Contains(t, resp.TrackingURL, "AWB123456789")
}

func TestShiprocketPartner_Track(t *testing.T) {
	var logins int32
	server := newShiprocketTestServer(t, &logins, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/external/courier/track/awb/AWB123456789", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"tracking_data":{
			"shipment_track":[{"current_status":"Delivered","courier_name":"Bluedart","edd":"2026-08-27 18:00:00"}],
			"shipment_track_activities":[
				{"date":"2026-08-27 14:32:00","sr-status-label":"DELIVERED","activity":"Delivered to consignee","location":"Bengaluru_Hub"},
				{"date":"2026-08-27 09:10:00","sr-status-label":"OUT FOR DELIVERY","activity":"Out for delivery","location":"Bengaluru_Hub"}
			]}}`)
	})
	defer server.Close()

	p := newTestShiprocket(server.URL)
	resp, err := p.Track(context.Background(), "AWB123456789")
	require.NoError(t, err)

	assert.Equal(t, shipping.ShipmentStatusDelivered, resp.Status)
	assert.Equal(t, "Bluedart", resp.CourierName)
	require.Len(t, resp.Checkpoints, 2)
	assert.Equal(t, shipping.ShipmentStatusDelivered, resp.Checkpoints[0].Status)
	assert.Equal(t, shipping.ShipmentStatusOutForDelivery, resp.Checkpoints[1].Status)
	require.NotNil(t, resp.DeliveredAt)
	assert.Equal(t, 27, resp.DeliveredAt.Day())
}

func TestShiprocketPartner_AuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message":"Wrong credentials"}`)
	}))
	defer server.Close()

	p := newTestShiprocket(server.URL)
	_, err := p.CheckServiceability(context.Background(), "110001", "560001", false)
	assert.ErrorIs(t, err, shipping.ErrPartnerAuthFailed)
}

func TestMapShiprocketStatus(t *testing.T) {
	assert.Equal(t, shipping.ShipmentStatusPickupPending, mapShiprocketStatus("PICKUP SCHEDULED"))
	assert.Equal(t, shipping.ShipmentStatusPickedUp, mapShiprocketStatus("Picked Up"))
	assert.Equal(t, shipping.ShipmentStatusInTransit, mapShiprocketStatus("IN TRANSIT"))
	assert.Equal(t, shipping.ShipmentStatusReturned, mapShiprocketStatus("RTO DELIVERED"))
	assert.Equal(t, shipping.ShipmentStatusCancelled, mapShiprocketStatus("CANCELED"))
	assert.Equal(t, shipping.ShipmentStatusFailed, mapShiprocketStatus("LOST"))
}

func TestParseEstimatedDays(t *testing.T) {
	assert.Equal(t, 3, parseEstimatedDays("3"))
	assert.Equal(t, 6, parseEstimatedDays("4-6"))
	assert.Equal(t, 0, parseEstimatedDays(""))
	assert.Equal(t, 0, parseEstimatedDays("n/a"))
}

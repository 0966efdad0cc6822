package shipping

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multistore/backend/internal/domain/shipping"
)

func newTestDelhivery(serverURL string) *DelhiveryPartner {
	p := NewDelhiveryPartner("dlv-api-token", "Main Warehouse", false, 4, 2)
	p.client.SetBaseURL(serverURL)
	return p
}

func TestDelhiveryPartner_CheckServiceability(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/c/api/pin-codes/json/", r.URL.Path)
		assert.Equal(t, "Token dlv-api-token", r.Header.Get("Authorization"))
		assert.Equal(t, "560001", r.URL.Query().Get("filter_codes"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"delivery_codes":[{"postal_code":{"pin":560001,"cod":"Y"}}]}`)
	}))
	defer server.Close()

	p := newTestDelhivery(server.URL)
	ok, err := p.CheckServiceability(context.Background(), "110001", "560001", true)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDelhiveryPartner_CheckServiceability_NoCOD(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"delivery_codes":[{"postal_code":{"pin":793108,"cod":"N"}}]}`)
	}))
	defer server.Close()

	p := newTestDelhivery(server.URL)

	ok, err := p.CheckServiceability(context.Background(), "110001", "793108", true)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = p.CheckServiceability(context.Background(), "110001", "793108", false)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDelhiveryPartner_CheckServiceability_UnknownPincode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"delivery_codes":[]}`)
	}))
	defer server.Close()

	p := newTestDelhivery(server.URL)
	ok, err := p.CheckServiceability(context.Background(), "110001", "000000", false)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDelhiveryPartner_CalculateRate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/kinko/v1/invoice/charges/.json", r.URL.Path)
		assert.Equal(t, "1500", r.URL.Query().Get("cgm"))
		assert.Equal(t, "Pre-paid", r.URL.Query().Get("pt"))

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("md") {
		case "S":
			fmt.Fprint(w, `[{"total_amount":85.00}]`)
		case "E":
			fmt.Fprint(w, `[{"total_amount":140.00}]`)
		default:
			t.Fatalf("unexpected mode %s", r.URL.Query().Get("md"))
		}
	}))
	defer server.Close()

	p := newTestDelhivery(server.URL)
	options, err := p.CalculateRate(context.Background(), &shipping.RateRequest{
		StoreID:            uuid.New(),
		OriginPincode:      "110001",
		DestinationPincode: "560001",
		Package:            shipping.Package{WeightKg: decimal.NewFromFloat(1.5)},
	})
	require.NoError(t, err)
	require.Len(t, options, 2)

	assert.Equal(t, shipping.ServiceTypeStandard, options[0].ServiceType)
	assert.True(t, options[0].Rate.Equal(decimal.NewFromInt(85)))
	assert.Equal(t, 4, options[0].EstimatedDays)

	assert.Equal(t, shipping.ServiceTypeExpress, options[1].ServiceType)
	assert.True(t, options[1].Rate.Equal(decimal.NewFromInt(140)))
	assert.Equal(t, 2, options[1].EstimatedDays)
}

func TestDelhiveryPartner_CalculateRate_NotServiceable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	p := newTestDelhivery(server.URL)
	_, err := p.CalculateRate(context.Background(), &shipping.RateRequest{
		StoreID:            uuid.New(),
		OriginPincode:      "110001",
		DestinationPincode: "000000",
		Package:            shipping.Package{WeightKg: decimal.NewFromFloat(1)},
	})
	assert.ErrorIs(t, err, shipping.ErrShipmentNotServiceable)
}

func TestDelhiveryPartner_CreateShipment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/cmu/create.json", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "json", r.PostFormValue("format"))

		var payload struct {
			Shipments []struct {
				Order       string `json:"order"`
				Pin         string `json:"pin"`
				PaymentMode string `json:"payment_mode"`
				CODAmount   string `json:"cod_amount"`
				Weight      int64  `json:"weight"`
			} `json:"shipments"`
			PickupLocation struct {
				Name string `json:"name"`
			} `json:"pickup_location"`
		}
		require.NoError(t, json.Unmarshal([]byte(r.PostFormValue("data")), &payload))
		require.Len(t, payload.Shipments, 1)
		assert.Equal(t, "CHAI-00042", payload.Shipments[0].Order)
		assert.Equal(t, "560001", payload.Shipments[0].Pin)
		assert.Equal(t, "COD", payload.Shipments[0].PaymentMode)
		assert.Equal(t, "499.00", payload.Shipments[0].CODAmount)
		assert.Equal(t, int64(600), payload.Shipments[0].Weight)
		assert.Equal(t, "Main Warehouse", payload.PickupLocation.Name)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"success":true,"packages":[{"waybill":"DLV987654321","status":"Success"}]}`)
	}))
	defer server.Close()

	p := newTestDelhivery(server.URL)
	req := testCreateShipmentRequest()
	req.CODAmount = decimal.NewFromFloat(499.00)

	resp, err := p.CreateShipment(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, shipping.PartnerTypeDelhivery, resp.Partner)
	assert.Equal(t, "DLV987654321", resp.AWB)
	assert.Equal(t, "Delhivery", resp.CourierName)
	assert.Contains(t, resp.TrackingURL, "DLV987654321")
}

func TestDelhiveryPartner_CreateShipment_NoWaybill(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"success":false,"packages":[]}`)
	}))
	defer server.Close()

	p := newTestDelhivery(server.URL)
	_, err := p.CreateShipment(context.Background(), testCreateShipmentRequest())
	assert.ErrorIs(t, err, shipping.ErrPartnerRequestFailed)
}

func TestDelhiveryPartner_Track(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/packages/json/", r.URL.Path)
		assert.Equal(t, "DLV987654321", r.URL.Query().Get("waybill"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"ShipmentData":[{"Shipment":{
			"AWB":"DLV987654321",
			"Status":{"Status":"In Transit","StatusDateTime":"2026-08-26T21:15:00","StatusLocation":"Nagpur_Hub"},
			"ExpectedDeliveryDate":"2026-08-28T19:00:00",
			"Scans":[
				{"ScanDetail":{"Scan":"In Transit","ScanDateTime":"2026-08-26T21:15:00","ScannedLocation":"Nagpur_Hub","Instructions":"Shipment received at facility"}},
				{"ScanDetail":{"Scan":"Picked Up","ScanDateTime":"2026-08-25T17:40:00","ScannedLocation":"Delhi_Hub","Instructions":"Pickup complete"}}
			]}}]}`)
	}))
	defer server.Close()

	p := newTestDelhivery(server.URL)
	resp, err := p.Track(context.Background(), "DLV987654321")
	require.NoError(t, err)

	assert.Equal(t, shipping.ShipmentStatusInTransit, resp.Status)
	require.NotNil(t, resp.EstimatedDelivery)
	assert.Equal(t, 28, resp.EstimatedDelivery.Day())
	assert.Nil(t, resp.DeliveredAt)
	require.Len(t, resp.Checkpoints, 2)
	assert.Equal(t, shipping.ShipmentStatusPickedUp, resp.Checkpoints[1].Status)
	assert.Equal(t, "Delhi_Hub", resp.Checkpoints[1].Location)
}

func TestDelhiveryPartner_CancelShipment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/p/edit", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "DLV987654321", body["waybill"])
		assert.Equal(t, "true", body["cancellation"])
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	p := newTestDelhivery(server.URL)
	require.NoError(t, p.CancelShipment(context.Background(), "", "DLV987654321"))
}

func TestDelhiveryPartner_AuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	p := newTestDelhivery(server.URL)
	_, err := p.Track(context.Background(), "DLV987654321")
	assert.ErrorIs(t, err, shipping.ErrPartnerAuthFailed)
}

func TestMapDelhiveryStatus(t *testing.T) {
	assert.Equal(t, shipping.ShipmentStatusPickupPending, mapDelhiveryStatus("Manifested"))
	assert.Equal(t, shipping.ShipmentStatusOutForDelivery, mapDelhiveryStatus("Dispatched"))
	assert.Equal(t, shipping.ShipmentStatusDelivered, mapDelhiveryStatus("Delivered"))
	assert.Equal(t, shipping.ShipmentStatusReturned, mapDelhiveryStatus("RTO"))
	assert.Equal(t, shipping.ShipmentStatusFailed, mapDelhiveryStatus("Lost"))
}

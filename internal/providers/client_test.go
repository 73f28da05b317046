package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campusworks/storefront-checkout/pkg/config"
	"github.com/shopspring/decimal"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(
		config.CommerceConfig{BaseURL: server.URL, APIKey: "secret"},
		config.TenantConfig{SchoolCode: "westmoreland"},
		nil,
	)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client, server
}

func TestNewRequiresBaseURLAndKey(t *testing.T) {
	t.Parallel()

	if _, err := New(config.CommerceConfig{APIKey: "k"}, config.TenantConfig{}, nil); err == nil {
		t.Fatal("expected error without base url")
	}
	if _, err := New(config.CommerceConfig{BaseURL: "http://x"}, config.TenantConfig{}, nil); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestPickupLocationsAttachesCredentials(t *testing.T) {
	t.Parallel()

	var gotKey, gotSchool, gotPath string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		gotSchool = r.Header.Get("X-School-Code")
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(PickupLocationsResponse{
			Successful:      true,
			PickupLocations: []PickupLocation{{ID: 1, Name: "Main Campus Bookstore"}},
		})
	}))

	resp, err := client.PickupLocations(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "secret" || gotSchool != "westmoreland" {
		t.Fatalf("credentials not attached: key=%q school=%q", gotKey, gotSchool)
	}
	if gotPath != "/api/ecommerce/pickup_locations" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if !resp.Successful || len(resp.PickupLocations) != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestShippingQuotesRoundTrip(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ShippingQuoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Items) != 1 || req.Items[0].ProductID != 7 {
			t.Errorf("unexpected request items: %+v", req.Items)
		}
		threshold := decimal.NewFromInt(75)
		json.NewEncoder(w).Encode(ShippingQuoteResponse{
			Successful:            true,
			Rates:                 []ShippingRate{{RateID: "r1", CarrierName: "UPS", Amount: decimal.NewFromFloat(8.95)}},
			FreeShippingThreshold: &threshold,
		})
	}))

	resp, err := client.ShippingQuotes(context.Background(), ShippingQuoteRequest{
		Items: []QuoteItem{{ProductID: 7, Quantity: 1, UnitPrice: 10, RequiresShipping: true}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Rates) != 1 || resp.Rates[0].RateID != "r1" {
		t.Fatalf("unexpected rates: %+v", resp.Rates)
	}
}

func TestValidatePromoSurfacesProviderMessage(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(PromoValidateResponse{Success: false, Message: "Invalid or expired promo code"})
	}))

	resp, err := client.ValidatePromo(context.Background(), PromoValidateRequest{Code: "NOPE", Subtotal: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Success || resp.Message != "Invalid or expired promo code" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestInitiatePaymentUsesTenantPath(t *testing.T) {
	t.Parallel()

	var gotPath string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(PaymentResponse{Success: true, PaymentURL: "https://pay.example.com/t/1"})
	}))

	resp, err := client.InitiatePayment(context.Background(), PaymentRequest{DeliveryMethod: "pickup"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/westmoreland/api/ecommerce/initiate_payment_v2" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if resp.PaymentURL == "" {
		t.Fatal("expected payment url")
	}
}

func TestNonSuccessStatusBecomesDependencyError(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"message": "carrier backend offline"})
	}))

	_, err := client.PickupLocations(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "DEPENDENCY_ERROR: carrier backend offline" {
		t.Fatalf("unexpected error: %s", got)
	}
}

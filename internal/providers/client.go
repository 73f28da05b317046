// Package providers implements the HTTP clients for the external
// payment/ecommerce API: pickup locations, shipping quotes, promo validation,
// and payment initiation. The tenant API key is attached here, server-side,
// and never surfaces to a browser.
package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/campusworks/storefront-checkout/pkg/config"
	pkgerrors "github.com/campusworks/storefront-checkout/pkg/errors"
	"github.com/campusworks/storefront-checkout/pkg/metrics"
)

const (
	headerAPIKey     = "X-API-Key"
	headerSchoolCode = "X-School-Code"
)

// Client talks to the external commerce API for one tenant.
type Client struct {
	http       *http.Client
	baseURL    string
	apiKey     string
	schoolCode string
	metrics    *metrics.CheckoutMetrics
}

// New builds a provider client from configuration.
func New(cfg config.CommerceConfig, tenant config.TenantConfig, m *metrics.CheckoutMetrics) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("commerce base url required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("commerce api key required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		http:       &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		schoolCode: tenant.SchoolCode,
		metrics:    m,
	}, nil
}

// PickupLocations fetches the tenant's pickup location list.
func (c *Client) PickupLocations(ctx context.Context) (*PickupLocationsResponse, error) {
	var out PickupLocationsResponse
	if err := c.do(ctx, "pickup", http.MethodGet, "/api/ecommerce/pickup_locations", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ShippingQuotes requests carrier rates for the given destination and items.
func (c *Client) ShippingQuotes(ctx context.Context, req ShippingQuoteRequest) (*ShippingQuoteResponse, error) {
	var out ShippingQuoteResponse
	if err := c.do(ctx, "shipping", http.MethodPost, "/api/ecommerce/shipping-quotes", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ValidatePromo checks a promo code against the current subtotal.
func (c *Client) ValidatePromo(ctx context.Context, req PromoValidateRequest) (*PromoValidateResponse, error) {
	var out PromoValidateResponse
	if err := c.do(ctx, "promo", http.MethodPost, "/api/ecommerce/validate-promo", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// InitiatePayment forwards the checkout payload and returns the hosted
// payment redirect.
func (c *Client) InitiatePayment(ctx context.Context, req PaymentRequest) (*PaymentResponse, error) {
	var out PaymentResponse
	path := fmt.Sprintf("/%s/api/ecommerce/initiate_payment_v2", c.schoolCode)
	if err := c.do(ctx, "payment", http.MethodPost, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, provider, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode provider request")
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build provider request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerAPIKey, c.apiKey)
	req.Header.Set(headerSchoolCode, c.schoolCode)

	start := time.Now()
	resp, err := c.http.Do(req)
	c.metrics.ObserveProvider(provider, time.Since(start))
	if err != nil {
		c.metrics.IncProviderFailure(provider)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("%s provider unreachable", provider))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.IncProviderFailure(provider)
		msg := providerErrorMessage(resp)
		return pkgerrors.New(pkgerrors.CodeDependency, msg).WithDetails(map[string]any{
			"provider": provider,
			"status":   resp.StatusCode,
		})
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.metrics.IncProviderFailure(provider)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("decode %s provider response", provider))
	}
	return nil
}

func providerErrorMessage(resp *http.Response) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Message != "" {
		return envelope.Message
	}
	return fmt.Sprintf("provider returned status %d", resp.StatusCode)
}

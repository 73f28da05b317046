package providers

import "github.com/shopspring/decimal"

// PickupLocation is a campus pickup point sourced from the commerce API.
type PickupLocation struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	AddressLine1       string `json:"addressLine1"`
	AddressLine2       string `json:"addressLine2,omitempty"`
	City               string `json:"city"`
	StateID            string `json:"stateId"`
	PostalCode         string `json:"postalCode"`
	PhoneNumber        string `json:"phoneNumber,omitempty"`
	EmailAddress       string `json:"emailAddress,omitempty"`
	PickupInstructions string `json:"pickupInstructions,omitempty"`
}

// PickupLocationsResponse is the pickup provider's wire envelope.
type PickupLocationsResponse struct {
	Successful      bool             `json:"Successful"`
	PickupLocations []PickupLocation `json:"pickupLocations"`
	Message         string           `json:"message,omitempty"`
}

// QuoteAddress is the destination block of a shipping quote request.
type QuoteAddress struct {
	Name          string `json:"name"`
	Street1       string `json:"street1"`
	Street2       string `json:"street2,omitempty"`
	City          string `json:"city"`
	State         string `json:"state"`
	PostalCode    string `json:"postalCode"`
	Country       string `json:"country"`
	IsResidential bool   `json:"isResidential"`
}

// QuoteItem is one normalized shippable line. Amounts are plain JSON numbers
// on the wire, so they ride as floats here; decimal math stays internal.
type QuoteItem struct {
	ProductID        int64   `json:"productId"`
	ProductName      string  `json:"productName"`
	Quantity         int     `json:"quantity"`
	UnitPrice        float64 `json:"unitPrice"`
	RequiresShipping bool    `json:"requiresShipping"`
}

// ShippingQuoteRequest is posted to the shipping quote provider.
type ShippingQuoteRequest struct {
	ToAddress     QuoteAddress `json:"toAddress"`
	Items         []QuoteItem  `json:"items"`
	OrderSubtotal float64      `json:"orderSubtotal"`
}

// ShippingRate is one carrier quote. A zero amount signifies free shipping.
type ShippingRate struct {
	RateID        string          `json:"rateId"`
	ServiceName   string          `json:"serviceName"`
	CarrierName   string          `json:"carrierName"`
	EstimatedDays int             `json:"estimatedDays"`
	IsGuaranteed  bool            `json:"isGuaranteed"`
	Amount        decimal.Decimal `json:"amount"`
}

// ShippingQuoteResponse is the shipping provider's wire envelope. The rate
// ordering is authoritative; callers must not re-sort.
type ShippingQuoteResponse struct {
	Successful            bool             `json:"Successful"`
	Rates                 []ShippingRate   `json:"rates"`
	FreeShippingApplied   bool             `json:"freeShippingApplied"`
	FreeShippingThreshold *decimal.Decimal `json:"freeShippingThreshold,omitempty"`
	Message               string           `json:"message,omitempty"`
}

// DiscountType enumerates promo discount behaviors.
type DiscountType string

const (
	DiscountPercentage   DiscountType = "percentage"
	DiscountFixed        DiscountType = "fixed"
	DiscountFreeShipping DiscountType = "freeShipping"
)

// PromoCode is a validated promotion returned by the promo provider.
type PromoCode struct {
	Code           string           `json:"code"`
	DiscountType   DiscountType     `json:"discountType"`
	DiscountValue  decimal.Decimal  `json:"discountValue"`
	Description    string           `json:"description,omitempty"`
	MinOrderAmount *decimal.Decimal `json:"minOrderAmount,omitempty"`
	MaxDiscount    *decimal.Decimal `json:"maxDiscount,omitempty"`
	ExpiresAt      string           `json:"expiresAt,omitempty"`
}

// PromoValidateRequest is posted to the promo validation provider.
type PromoValidateRequest struct {
	Code     string  `json:"code"`
	Subtotal float64 `json:"subtotal"`
}

// PromoValidateResponse is the promo provider's wire envelope.
type PromoValidateResponse struct {
	Success   bool       `json:"success"`
	PromoCode *PromoCode `json:"promoCode,omitempty"`
	Message   string     `json:"message,omitempty"`
}

// PaymentRequest carries the assembled checkout payload plus cart lines to the
// payment initiation provider.
type PaymentRequest struct {
	GuestInfo       any           `json:"guestInfo"`
	DeliveryMethod  string        `json:"deliveryMethod"`
	PickupLocation  any           `json:"pickupLocation,omitempty"`
	ShippingAddress any           `json:"shippingAddress,omitempty"`
	ShippingRate    any           `json:"shippingRate,omitempty"`
	PromoCode       any           `json:"promoCode,omitempty"`
	CartItems       []PaymentItem `json:"cartItems"`
}

// PaymentItem is one cart line in the payment request.
type PaymentItem struct {
	ProductID int64   `json:"productId"`
	VariantID *int64  `json:"productSizeId,omitempty"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
}

// PaymentResponse returns the hosted payment redirect.
type PaymentResponse struct {
	Success              bool   `json:"success"`
	PaymentURL           string `json:"paymentUrl"`
	TransactionReference string `json:"transactionReference,omitempty"`
	Message              string `json:"message,omitempty"`
}

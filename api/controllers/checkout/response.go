package checkout

import (
	"github.com/shopspring/decimal"

	cartsvc "github.com/campusworks/storefront-checkout/internal/cart"
	checkoutsvc "github.com/campusworks/storefront-checkout/internal/checkout"
	"github.com/campusworks/storefront-checkout/internal/providers"
	"github.com/campusworks/storefront-checkout/pkg/money"
)

// CheckoutView is the full checkout state snapshot the storefront renders.
type CheckoutView struct {
	CurrentStep    int   `json:"currentStep"`
	CompletedSteps []int `json:"completedSteps"`

	GuestInfo checkoutsvc.GuestInfo `json:"guestInfo"`

	DeliveryMethod checkoutsvc.DeliveryMethod `json:"deliveryMethod"`

	PickupLocations          []providers.PickupLocation `json:"pickupLocations"`
	SelectedPickupLocationID *int64                     `json:"selectedPickupLocationId"`
	PickupError              string                     `json:"pickupError,omitempty"`

	ShippingAddress       checkoutsvc.ShippingAddress `json:"shippingAddress"`
	ShippingRates         []providers.ShippingRate    `json:"shippingRates"`
	SelectedShippingRate  *string                     `json:"selectedShippingRateId"`
	ShippingError         string                      `json:"shippingError,omitempty"`
	FreeShippingApplied   bool                        `json:"freeShippingApplied"`
	FreeShippingThreshold float64                     `json:"freeShippingThreshold"`

	PromoCode      *providers.PromoCode `json:"promoCode"`
	PromoCodeInput string               `json:"promoCodeInput,omitempty"`
	PromoError     string               `json:"promoError,omitempty"`

	Processing    bool   `json:"processing"`
	CheckoutError string `json:"checkoutError,omitempty"`

	IsContactComplete   bool `json:"isContactComplete"`
	IsDeliveryComplete  bool `json:"isDeliveryComplete"`
	CanProceedToPayment bool `json:"canProceedToPayment"`

	Totals Totals `json:"totals"`
}

// Totals derives the order's money figures from the cart and session.
type Totals struct {
	Subtotal          float64 `json:"subtotal"`
	Discount          float64 `json:"discount"`
	ShippingCost      float64 `json:"shippingCost"`
	Total             float64 `json:"total"`
	ShippingFormatted string  `json:"shippingFormatted"`
	TotalFormatted    string  `json:"totalFormatted"`
}

// PaymentView carries the provider redirect URL back to the storefront.
type PaymentView struct {
	PaymentURL string `json:"paymentUrl"`
}

func newCheckoutView(s *checkoutsvc.Session, c *cartsvc.Cart) CheckoutView {
	subtotal := c.Subtotal()
	discount := s.CalculateDiscount(subtotal)
	shipping := s.ShippingCost()
	total := subtotal.Sub(discount).Add(shipping)
	if total.IsNegative() {
		total = decimal.Zero
	}

	pickupLocations := s.PickupLocations()
	if pickupLocations == nil {
		pickupLocations = []providers.PickupLocation{}
	}
	rates := s.ShippingRates()
	if rates == nil {
		rates = []providers.ShippingRate{}
	}

	return CheckoutView{
		CurrentStep:    s.CurrentStep(),
		CompletedSteps: s.CompletedSteps(),

		GuestInfo: s.GuestInfo(),

		DeliveryMethod: s.DeliveryMethod(),

		PickupLocations:          pickupLocations,
		SelectedPickupLocationID: s.SelectedPickupLocationID(),
		PickupError:              s.PickupError(),

		ShippingAddress:       s.ShippingAddress(),
		ShippingRates:         rates,
		SelectedShippingRate:  s.SelectedShippingRateID(),
		ShippingError:         s.ShippingError(),
		FreeShippingApplied:   s.FreeShippingApplied(),
		FreeShippingThreshold: s.FreeShippingThreshold().InexactFloat64(),

		PromoCode:      s.PromoCode(),
		PromoCodeInput: s.PromoCodeInput(),
		PromoError:     s.PromoError(),

		Processing:    s.IsProcessing(),
		CheckoutError: s.CheckoutError(),

		IsContactComplete:   s.IsContactComplete(),
		IsDeliveryComplete:  s.IsDeliveryComplete(),
		CanProceedToPayment: s.CanProceedToPayment(),

		Totals: Totals{
			Subtotal:          subtotal.InexactFloat64(),
			Discount:          discount.InexactFloat64(),
			ShippingCost:      shipping.InexactFloat64(),
			Total:             total.InexactFloat64(),
			ShippingFormatted: money.Format(shipping),
			TotalFormatted:    "$" + total.StringFixed(2),
		},
	}
}

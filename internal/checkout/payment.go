package checkout

import (
	"context"

	"github.com/campusworks/storefront-checkout/internal/cart"
	"github.com/campusworks/storefront-checkout/internal/providers"
	pkgerrors "github.com/campusworks/storefront-checkout/pkg/errors"
)

// PaymentInitiator is the payment provider surface the session consumes.
type PaymentInitiator interface {
	InitiatePayment(ctx context.Context, req providers.PaymentRequest) (*providers.PaymentResponse, error)
}

// CheckoutData is the assembled payment-initiation payload: contact identity,
// the active delivery method with exactly one of pickup location or shipping
// address plus rate, and the applied promo when present.
type CheckoutData struct {
	GuestInfo       GuestInfo                 `json:"guestInfo"`
	DeliveryMethod  DeliveryMethod            `json:"deliveryMethod"`
	PickupLocation  *providers.PickupLocation `json:"pickupLocation,omitempty"`
	ShippingAddress *ShippingAddress          `json:"shippingAddress,omitempty"`
	ShippingRate    *providers.ShippingRate   `json:"shippingRate,omitempty"`
	PromoCode       *providers.PromoCode      `json:"promoCode,omitempty"`
}

// BuildCheckoutData assembles the payload for payment initiation. Pure
// assembly, no network.
func (s *Session) BuildCheckoutData() CheckoutData {
	data := CheckoutData{
		GuestInfo:      s.guestInfo,
		DeliveryMethod: s.deliveryMethod,
	}

	if s.deliveryMethod == DeliveryPickup {
		data.PickupLocation = s.SelectedPickupLocation()
	} else {
		addr := s.shippingAddress
		data.ShippingAddress = &addr
		data.ShippingRate = s.SelectedShippingRate()
	}

	if s.promoCode != nil {
		data.PromoCode = s.promoCode
	}

	return data
}

// InitiatePayment validates the guards, forwards the checkout payload plus
// cart lines to the payment provider, and returns the hosted redirect URL.
// The processing flag gates duplicate submissions.
func (s *Session) InitiatePayment(ctx context.Context, initiator PaymentInitiator, items []cart.Item) (string, error) {
	if s.processing {
		return "", pkgerrors.New(pkgerrors.CodeConflict, "payment already in progress")
	}
	if len(items) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cart contains no items")
	}
	if !s.CanProceedToPayment() {
		return "", pkgerrors.New(pkgerrors.CodeStateConflict, "checkout is not complete")
	}

	s.processing = true
	s.checkoutError = ""
	defer func() { s.processing = false }()

	data := s.BuildCheckoutData()
	req := providers.PaymentRequest{
		GuestInfo:      data.GuestInfo,
		DeliveryMethod: string(data.DeliveryMethod),
		CartItems:      paymentItems(items),
	}
	if data.PickupLocation != nil {
		req.PickupLocation = data.PickupLocation
	}
	if data.ShippingAddress != nil {
		req.ShippingAddress = data.ShippingAddress
	}
	if data.ShippingRate != nil {
		req.ShippingRate = data.ShippingRate
	}
	if data.PromoCode != nil {
		req.PromoCode = data.PromoCode
	}

	resp, err := initiator.InitiatePayment(ctx, req)
	if err != nil {
		s.checkoutError = userFacingMessage(err, "Failed to initiate payment")
		return "", err
	}
	if !resp.Success || resp.PaymentURL == "" {
		s.checkoutError = messageOrDefault(resp.Message, "Failed to initiate payment")
		return "", pkgerrors.New(pkgerrors.CodeDependency, s.checkoutError)
	}

	return resp.PaymentURL, nil
}

func paymentItems(items []cart.Item) []providers.PaymentItem {
	out := make([]providers.PaymentItem, 0, len(items))
	for _, item := range items {
		out = append(out, providers.PaymentItem{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Name:      item.Name,
			UnitPrice: item.Price.InexactFloat64(),
			Quantity:  item.Quantity,
		})
	}
	return out
}

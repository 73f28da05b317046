package checkout

import (
	checkoutsvc "github.com/campusworks/storefront-checkout/internal/checkout"
)

// ContactRequest carries guest contact fields. Fields merge into the session,
// so each one is optional on the wire.
type ContactRequest struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string `json:"phone,omitempty"`
}

// DeliveryMethodRequest switches between pickup and shipping.
type DeliveryMethodRequest struct {
	Method string `json:"method" validate:"required,oneof=pickup shipping"`
}

// PickupSelectRequest records the chosen pickup location; null clears it.
type PickupSelectRequest struct {
	PickupLocationID *int64 `json:"pickupLocationId"`
}

// ShippingAddressRequest carries address fields, merged like contact fields.
type ShippingAddressRequest struct {
	FirstName            string `json:"firstName,omitempty"`
	LastName             string `json:"lastName,omitempty"`
	AddressLine1         string `json:"addressLine1,omitempty"`
	AddressLine2         string `json:"addressLine2,omitempty"`
	City                 string `json:"city,omitempty"`
	State                string `json:"state,omitempty"`
	ZipCode              string `json:"zipCode,omitempty"`
	Country              string `json:"country,omitempty"`
	Phone                string `json:"phone,omitempty"`
	DeliveryInstructions string `json:"deliveryInstructions,omitempty"`
}

// ShippingRateSelectRequest records the chosen rate; null clears it.
type ShippingRateSelectRequest struct {
	RateID *string `json:"rateId"`
}

// PromoApplyRequest carries the typed promo code. Emptiness is handled by the
// promo engine so the buyer sees its message, not a schema error.
type PromoApplyRequest struct {
	Code string `json:"code"`
}

func toGuestInfo(payload ContactRequest) checkoutsvc.GuestInfo {
	return checkoutsvc.GuestInfo{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Phone:     payload.Phone,
	}
}

func toShippingAddress(payload ShippingAddressRequest) checkoutsvc.ShippingAddress {
	return checkoutsvc.ShippingAddress{
		FirstName:            payload.FirstName,
		LastName:             payload.LastName,
		AddressLine1:         payload.AddressLine1,
		AddressLine2:         payload.AddressLine2,
		City:                 payload.City,
		State:                payload.State,
		ZipCode:              payload.ZipCode,
		Country:              payload.Country,
		Phone:                payload.Phone,
		DeliveryInstructions: payload.DeliveryInstructions,
	}
}

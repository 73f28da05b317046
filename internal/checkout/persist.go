package checkout

import (
	"encoding/json"

	"github.com/campusworks/storefront-checkout/internal/providers"
	pkgerrors "github.com/campusworks/storefront-checkout/pkg/errors"
)

// persistedSession is the explicit serialization allow-list. Only durable
// buyer choices survive a reload; loading flags, error slots, and fetched
// quote lists are transient and rebuilt on demand. Quotes in particular must
// not be resurrected from storage: they were priced for a moment in time.
type persistedSession struct {
	GuestInfo                GuestInfo            `json:"guestInfo"`
	DeliveryMethod           DeliveryMethod       `json:"deliveryMethod"`
	SelectedPickupLocationID *int64               `json:"selectedPickupLocationId,omitempty"`
	ShippingAddress          ShippingAddress      `json:"shippingAddress"`
	SelectedShippingRateID   *string              `json:"selectedShippingRateId,omitempty"`
	CurrentStep              int                  `json:"currentStep"`
	CompletedSteps           []int                `json:"completedSteps,omitempty"`
	PromoCode                *providers.PromoCode `json:"promoCode,omitempty"`
}

// MarshalSnapshot serializes the allow-listed session fields.
func (s *Session) MarshalSnapshot() ([]byte, error) {
	snapshot := persistedSession{
		GuestInfo:                s.guestInfo,
		DeliveryMethod:           s.deliveryMethod,
		SelectedPickupLocationID: s.selectedPickupLocationID,
		ShippingAddress:          s.shippingAddress,
		SelectedShippingRateID:   s.selectedShippingRate,
		CurrentStep:              s.currentStep,
		CompletedSteps:           s.completedSteps,
		PromoCode:                s.promoCode,
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode checkout snapshot")
	}
	return payload, nil
}

// RestoreSession rebuilds a session from a persisted snapshot. Transient
// state starts clean; a persisted shipping-rate selection is kept as an id
// only and resolves once fresh quotes are fetched.
func RestoreSession(payload []byte) (*Session, error) {
	session := NewSession()
	if len(payload) == 0 {
		return session, nil
	}

	var snapshot persistedSession
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode checkout snapshot")
	}

	session.guestInfo = snapshot.GuestInfo
	if snapshot.DeliveryMethod == DeliveryPickup || snapshot.DeliveryMethod == DeliveryShipping {
		session.deliveryMethod = snapshot.DeliveryMethod
	}
	session.selectedPickupLocationID = snapshot.SelectedPickupLocationID
	session.shippingAddress = mergeAddress(session.shippingAddress, snapshot.ShippingAddress)
	session.selectedShippingRate = snapshot.SelectedShippingRateID
	if snapshot.CurrentStep >= StepContact {
		session.currentStep = snapshot.CurrentStep
	}
	session.completedSteps = snapshot.CompletedSteps
	session.promoCode = snapshot.PromoCode
	return session, nil
}

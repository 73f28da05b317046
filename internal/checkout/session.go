// Package checkout implements the checkout orchestration for one storefront
// session: the contact → delivery → payment step sequence, delivery-method
// state, shipping-quote lifecycle, promo engine, and assembly of the payment
// initiation payload. A Session has exactly one logical writer; callers reach
// it through explicit injection, never a package-level singleton.
package checkout

import (
	"encoding/json"
	"strings"

	"github.com/campusworks/storefront-checkout/internal/providers"
	"github.com/shopspring/decimal"
)

// DeliveryMethod selects how the order reaches the buyer.
type DeliveryMethod string

const (
	DeliveryPickup   DeliveryMethod = "pickup"
	DeliveryShipping DeliveryMethod = "shipping"
)

// Checkout steps, linear.
const (
	StepContact  = 1
	StepDelivery = 2
	StepPayment  = 3
)

// GuestInfo is the buyer's contact identity; guest checkout, no account.
type GuestInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

// ShippingAddress is the delivery destination. Completeness gates quote fetches.
type ShippingAddress struct {
	FirstName            string `json:"firstName"`
	LastName             string `json:"lastName"`
	AddressLine1         string `json:"addressLine1"`
	AddressLine2         string `json:"addressLine2,omitempty"`
	City                 string `json:"city"`
	State                string `json:"state"`
	ZipCode              string `json:"zipCode"`
	Country              string `json:"country"`
	Phone                string `json:"phone,omitempty"`
	DeliveryInstructions string `json:"deliveryInstructions,omitempty"`
}

// Session is the central mutable checkout state for one buyer session.
type Session struct {
	currentStep    int
	completedSteps []int

	guestInfo GuestInfo

	deliveryMethod DeliveryMethod

	pickupLocations          []providers.PickupLocation
	selectedPickupLocationID *int64
	pickupLoading            bool
	pickupError              string

	shippingAddress       ShippingAddress
	shippingRates         []providers.ShippingRate
	selectedShippingRate  *string
	shippingLoading       bool
	shippingError         string
	freeShippingApplied   bool
	freeShippingThreshold decimal.Decimal
	quoteSeq              uint64

	promoCode    *providers.PromoCode
	promoInput   string
	promoLoading bool
	promoError   string

	processing    bool
	checkoutError string
}

// NewSession starts a fresh checkout at the contact step with pickup delivery,
// matching the storefront's defaults.
func NewSession() *Session {
	return &Session{
		currentStep:     StepContact,
		deliveryMethod:  DeliveryPickup,
		shippingAddress: ShippingAddress{Country: "US"},
	}
}

// CurrentStep returns the 1-based step number.
func (s *Session) CurrentStep() int {
	return s.currentStep
}

// CompletedSteps returns a copy of the completed step numbers.
func (s *Session) CompletedSteps() []int {
	steps := make([]int, len(s.completedSteps))
	copy(steps, s.completedSteps)
	return steps
}

// SetStep jumps to the given step. Used when restoring persisted progress.
func (s *Session) SetStep(step int) {
	if step < StepContact {
		step = StepContact
	}
	s.currentStep = step
}

// CompleteStep records the step as completed, once.
func (s *Session) CompleteStep(step int) {
	for _, done := range s.completedSteps {
		if done == step {
			return
		}
	}
	s.completedSteps = append(s.completedSteps, step)
}

// GoToNextStep marks the current step completed and advances. Guards are
// computed, not enforced here: callers check them before advancing.
func (s *Session) GoToNextStep() {
	s.CompleteStep(s.currentStep)
	s.currentStep++
}

// GoToPreviousStep regresses one step, floored at the contact step.
func (s *Session) GoToPreviousStep() {
	if s.currentStep > StepContact {
		s.currentStep--
	}
}

// SetGuestInfo merges the provided contact fields.
func (s *Session) SetGuestInfo(info GuestInfo) {
	if info.FirstName != "" {
		s.guestInfo.FirstName = info.FirstName
	}
	if info.LastName != "" {
		s.guestInfo.LastName = info.LastName
	}
	if info.Email != "" {
		s.guestInfo.Email = info.Email
	}
	if info.Phone != "" {
		s.guestInfo.Phone = info.Phone
	}
}

// GuestInfo returns the current contact info.
func (s *Session) GuestInfo() GuestInfo {
	return s.guestInfo
}

// DeliveryMethod returns the active delivery method.
func (s *Session) DeliveryMethod() DeliveryMethod {
	return s.deliveryMethod
}

// SetDeliveryMethod switches delivery. Exactly one method is active: switching
// to pickup clears the selected shipping rate, switching to shipping clears
// the selected pickup location, so a stale cross-method selection can never
// leak into the payment request.
func (s *Session) SetDeliveryMethod(method DeliveryMethod) {
	s.deliveryMethod = method
	if method == DeliveryPickup {
		s.selectedShippingRate = nil
	} else {
		s.selectedPickupLocationID = nil
	}
}

// SetShippingAddress merges the provided address fields. If the merged address
// differs from the previous one while rates are populated, the rate list, the
// selected rate, and the rate-fetch error are cleared: shipping cost and tax
// are address-dependent, so quotes for the old address must never be charged
// against the new one. A deep-equal address leaves rates untouched.
func (s *Session) SetShippingAddress(address ShippingAddress) {
	before, _ := json.Marshal(s.shippingAddress)
	s.shippingAddress = mergeAddress(s.shippingAddress, address)
	after, _ := json.Marshal(s.shippingAddress)

	if string(before) != string(after) && len(s.shippingRates) > 0 {
		s.shippingRates = nil
		s.selectedShippingRate = nil
		s.shippingError = ""
	}
}

func mergeAddress(base, patch ShippingAddress) ShippingAddress {
	if patch.FirstName != "" {
		base.FirstName = patch.FirstName
	}
	if patch.LastName != "" {
		base.LastName = patch.LastName
	}
	if patch.AddressLine1 != "" {
		base.AddressLine1 = patch.AddressLine1
	}
	if patch.AddressLine2 != "" {
		base.AddressLine2 = patch.AddressLine2
	}
	if patch.City != "" {
		base.City = patch.City
	}
	if patch.State != "" {
		base.State = patch.State
	}
	if patch.ZipCode != "" {
		base.ZipCode = patch.ZipCode
	}
	if patch.Country != "" {
		base.Country = patch.Country
	}
	if patch.Phone != "" {
		base.Phone = patch.Phone
	}
	if patch.DeliveryInstructions != "" {
		base.DeliveryInstructions = patch.DeliveryInstructions
	}
	return base
}

// ShippingAddress returns the current address.
func (s *Session) ShippingAddress() ShippingAddress {
	return s.shippingAddress
}

// IsContactComplete reports whether first name, last name, and email are all
// non-blank after trimming.
func (s *Session) IsContactComplete() bool {
	return strings.TrimSpace(s.guestInfo.FirstName) != "" &&
		strings.TrimSpace(s.guestInfo.LastName) != "" &&
		strings.TrimSpace(s.guestInfo.Email) != ""
}

// IsShippingAddressComplete reports whether the address is complete enough to
// request quotes: line 1, city, state, and postal code.
func (s *Session) IsShippingAddressComplete() bool {
	addr := s.shippingAddress
	return strings.TrimSpace(addr.AddressLine1) != "" &&
		strings.TrimSpace(addr.City) != "" &&
		strings.TrimSpace(addr.State) != "" &&
		strings.TrimSpace(addr.ZipCode) != ""
}

// IsDeliveryComplete reports whether the active delivery method is ready for
// payment: a selected pickup location, or a named complete address plus a
// selected shipping rate.
func (s *Session) IsDeliveryComplete() bool {
	if s.deliveryMethod == DeliveryPickup {
		return s.selectedPickupLocationID != nil
	}
	addr := s.shippingAddress
	hasAddress := strings.TrimSpace(addr.FirstName) != "" &&
		strings.TrimSpace(addr.LastName) != "" &&
		s.IsShippingAddressComplete()
	return hasAddress && s.selectedShippingRate != nil
}

// CanProceedToPayment requires both contact and delivery completeness.
func (s *Session) CanProceedToPayment() bool {
	return s.IsContactComplete() && s.IsDeliveryComplete()
}

// SelectedPickupLocation resolves the selected location object, if any.
func (s *Session) SelectedPickupLocation() *providers.PickupLocation {
	if s.selectedPickupLocationID == nil {
		return nil
	}
	for i := range s.pickupLocations {
		if s.pickupLocations[i].ID == *s.selectedPickupLocationID {
			loc := s.pickupLocations[i]
			return &loc
		}
	}
	return nil
}

// SelectedShippingRate resolves the selected rate object, if any.
func (s *Session) SelectedShippingRate() *providers.ShippingRate {
	if s.selectedShippingRate == nil {
		return nil
	}
	for i := range s.shippingRates {
		if s.shippingRates[i].RateID == *s.selectedShippingRate {
			rate := s.shippingRates[i]
			return &rate
		}
	}
	return nil
}

// ShippingCost is the selected rate's amount; zero with no selection or when
// the applied promo grants free shipping.
func (s *Session) ShippingCost() decimal.Decimal {
	if s.PromoGivesFreeShipping() {
		return decimal.Zero
	}
	if rate := s.SelectedShippingRate(); rate != nil {
		return rate.Amount
	}
	return decimal.Zero
}

// SetProcessing flips the final-submission flag that gates duplicate
// payment attempts.
func (s *Session) SetProcessing(processing bool) {
	s.processing = processing
}

// IsProcessing reports whether a payment submission is in flight.
func (s *Session) IsProcessing() bool {
	return s.processing
}

// SetCheckoutError stores the submission error slot.
func (s *Session) SetCheckoutError(message string) {
	s.checkoutError = message
}

// CheckoutError returns the submission error slot.
func (s *Session) CheckoutError() string {
	return s.checkoutError
}

// Reset returns the session to its initial state. The pickup location list is
// kept; it is tenant catalog data, not buyer state.
func (s *Session) Reset() {
	locations := s.pickupLocations
	*s = *NewSession()
	s.pickupLocations = locations
}

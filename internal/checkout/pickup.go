package checkout

import (
	"context"

	"github.com/campusworks/storefront-checkout/internal/providers"
)

// PickupLister is the pickup-locations provider surface the session consumes.
type PickupLister interface {
	PickupLocations(ctx context.Context) (*providers.PickupLocationsResponse, error)
}

const pickupLocationsFallbackError = "Failed to load pickup locations"

// FetchPickupLocations loads the tenant's pickup list once. Idempotent: if
// locations are already loaded it returns immediately without a refresh. On
// failure the error slot is set and the existing list is left unchanged.
func (s *Session) FetchPickupLocations(ctx context.Context, lister PickupLister) {
	if len(s.pickupLocations) > 0 {
		return
	}

	s.pickupLoading = true
	s.pickupError = ""
	defer func() { s.pickupLoading = false }()

	resp, err := lister.PickupLocations(ctx)
	if err != nil {
		s.pickupError = userFacingMessage(err, pickupLocationsFallbackError)
		return
	}
	if !resp.Successful {
		s.pickupError = messageOrDefault(resp.Message, pickupLocationsFallbackError)
		return
	}
	s.pickupLocations = resp.PickupLocations
}

// SelectPickupLocation records the chosen location id. Pure assignment; a nil
// id clears the selection.
func (s *Session) SelectPickupLocation(id *int64) {
	s.selectedPickupLocationID = id
}

// PickupLocations returns the loaded location list.
func (s *Session) PickupLocations() []providers.PickupLocation {
	return s.pickupLocations
}

// SelectedPickupLocationID returns the chosen location id, if any.
func (s *Session) SelectedPickupLocationID() *int64 {
	return s.selectedPickupLocationID
}

// PickupError returns the pickup subsystem's error slot.
func (s *Session) PickupError() string {
	return s.pickupError
}

// PickupLoading reports whether a pickup fetch is in flight.
func (s *Session) PickupLoading() bool {
	return s.pickupLoading
}

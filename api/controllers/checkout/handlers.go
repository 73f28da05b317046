package checkout

import (
	"context"
	"net/http"

	"github.com/campusworks/storefront-checkout/api/middleware"
	"github.com/campusworks/storefront-checkout/api/responses"
	"github.com/campusworks/storefront-checkout/api/validators"
	cartsvc "github.com/campusworks/storefront-checkout/internal/cart"
	checkoutsvc "github.com/campusworks/storefront-checkout/internal/checkout"
	pkgerrors "github.com/campusworks/storefront-checkout/pkg/errors"
	"github.com/campusworks/storefront-checkout/pkg/logger"
	"github.com/campusworks/storefront-checkout/pkg/metrics"
)

// CheckoutFetch returns the session's checkout snapshot.
func CheckoutFetch(mgr *checkoutsvc.Manager, cartStore cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runSession(mgr, cartStore, logg, w, r, func(context.Context, *checkoutsvc.Session, *cartsvc.Cart) error {
			return nil
		})
	}
}

// CheckoutSetContact merges guest contact fields into the session.
func CheckoutSetContact(mgr *checkoutsvc.Manager, cartStore cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload ContactRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		runSession(mgr, cartStore, logg, w, r, func(_ context.Context, s *checkoutsvc.Session, _ *cartsvc.Cart) error {
			s.SetGuestInfo(toGuestInfo(payload))
			return nil
		})
	}
}

// CheckoutSetDeliveryMethod switches between pickup and shipping.
func CheckoutSetDeliveryMethod(mgr *checkoutsvc.Manager, cartStore cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload DeliveryMethodRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		runSession(mgr, cartStore, logg, w, r, func(_ context.Context, s *checkoutsvc.Session, _ *cartsvc.Cart) error {
			s.SetDeliveryMethod(checkoutsvc.DeliveryMethod(payload.Method))
			return nil
		})
	}
}

// CheckoutPickupLocations loads the tenant's pickup list when not yet loaded
// and returns the snapshot. Provider failures land in the pickup error slot.
func CheckoutPickupLocations(mgr *checkoutsvc.Manager, cartStore cartsvc.Store, lister checkoutsvc.PickupLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runSession(mgr, cartStore, logg, w, r, func(ctx context.Context, s *checkoutsvc.Session, _ *cartsvc.Cart) error {
			s.FetchPickupLocations(ctx, lister)
			return nil
		})
	}
}

// CheckoutSelectPickupLocation records the chosen pickup location.
func CheckoutSelectPickupLocation(mgr *checkoutsvc.Manager, cartStore cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload PickupSelectRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		runSession(mgr, cartStore, logg, w, r, func(_ context.Context, s *checkoutsvc.Session, _ *cartsvc.Cart) error {
			s.SelectPickupLocation(payload.PickupLocationID)
			return nil
		})
	}
}

// CheckoutSetShippingAddress merges address fields; a changed address drops
// any quotes fetched for the previous one.
func CheckoutSetShippingAddress(mgr *checkoutsvc.Manager, cartStore cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload ShippingAddressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		runSession(mgr, cartStore, logg, w, r, func(_ context.Context, s *checkoutsvc.Session, _ *cartsvc.Cart) error {
			s.SetShippingAddress(toShippingAddress(payload))
			return nil
		})
	}
}

// CheckoutShippingQuotes requests carrier rates for the session's address and
// the current cart lines. Failures land in the shipping error slot.
func CheckoutShippingQuotes(mgr *checkoutsvc.Manager, cartStore cartsvc.Store, quoter checkoutsvc.ShippingQuoter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runSession(mgr, cartStore, logg, w, r, func(ctx context.Context, s *checkoutsvc.Session, c *cartsvc.Cart) error {
			s.FetchShippingQuotes(ctx, quoter, checkoutsvc.QuoteInputsFromCart(c.Items()))
			return nil
		})
	}
}

// CheckoutSelectShippingRate records the chosen rate.
func CheckoutSelectShippingRate(mgr *checkoutsvc.Manager, cartStore cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload ShippingRateSelectRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		runSession(mgr, cartStore, logg, w, r, func(_ context.Context, s *checkoutsvc.Session, _ *cartsvc.Cart) error {
			s.SelectShippingRate(payload.RateID)
			return nil
		})
	}
}

// CheckoutApplyPromo validates the typed code against the cart subtotal. The
// outcome lands in the snapshot: promoCode on success, promoError on failure.
func CheckoutApplyPromo(mgr *checkoutsvc.Manager, cartStore cartsvc.Store, validator checkoutsvc.PromoValidator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload PromoApplyRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		runSession(mgr, cartStore, logg, w, r, func(ctx context.Context, s *checkoutsvc.Session, c *cartsvc.Cart) error {
			s.SetPromoCodeInput(payload.Code)
			s.ApplyPromoCode(ctx, validator, c.Subtotal())
			return nil
		})
	}
}

// CheckoutRemovePromo clears the applied promo.
func CheckoutRemovePromo(mgr *checkoutsvc.Manager, cartStore cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runSession(mgr, cartStore, logg, w, r, func(_ context.Context, s *checkoutsvc.Session, _ *cartsvc.Cart) error {
			s.RemovePromoCode()
			return nil
		})
	}
}

// CheckoutNextStep advances the step machine after the current step's guard
// passes.
func CheckoutNextStep(mgr *checkoutsvc.Manager, cartStore cartsvc.Store, m *metrics.CheckoutMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runSession(mgr, cartStore, logg, w, r, func(_ context.Context, s *checkoutsvc.Session, _ *cartsvc.Cart) error {
			switch {
			case s.CurrentStep() >= checkoutsvc.StepPayment:
				return pkgerrors.New(pkgerrors.CodeStateConflict, "already at the final step")
			case s.CurrentStep() == checkoutsvc.StepContact && !s.IsContactComplete():
				return pkgerrors.New(pkgerrors.CodeStateConflict, "complete contact information first")
			case s.CurrentStep() == checkoutsvc.StepDelivery && !s.IsDeliveryComplete():
				return pkgerrors.New(pkgerrors.CodeStateConflict, "complete delivery selection first")
			}
			s.GoToNextStep()
			m.IncStep("next")
			return nil
		})
	}
}

// CheckoutPreviousStep regresses the step machine, floored at the first step.
func CheckoutPreviousStep(mgr *checkoutsvc.Manager, cartStore cartsvc.Store, m *metrics.CheckoutMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runSession(mgr, cartStore, logg, w, r, func(_ context.Context, s *checkoutsvc.Session, _ *cartsvc.Cart) error {
			s.GoToPreviousStep()
			m.IncStep("previous")
			return nil
		})
	}
}

// CheckoutPayment initiates payment with the provider and returns the hosted
// redirect URL. The session is saved either way so a failure message survives
// into the next snapshot.
func CheckoutPayment(mgr *checkoutsvc.Manager, cartStore cartsvc.Store, initiator checkoutsvc.PaymentInitiator, m *metrics.CheckoutMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sessionID := middleware.SessionIDFromContext(ctx)
		if sessionID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session context missing"))
			return
		}

		s, err := mgr.Load(ctx, sessionID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		items, err := cartStore.Load(ctx, sessionID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		url, payErr := s.InitiatePayment(ctx, initiator, items)

		if err := mgr.Save(ctx, sessionID, s); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if payErr != nil {
			m.IncPayment("failure")
			responses.WriteError(ctx, logg, w, payErr)
			return
		}

		m.IncPayment("success")
		responses.WriteSuccess(w, PaymentView{PaymentURL: url})
	}
}

// CheckoutReset drops the persisted session and returns a fresh snapshot.
func CheckoutReset(mgr *checkoutsvc.Manager, cartStore cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sessionID := middleware.SessionIDFromContext(ctx)
		if sessionID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session context missing"))
			return
		}

		if err := mgr.Reset(ctx, sessionID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		items, err := cartStore.Load(ctx, sessionID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCheckoutView(checkoutsvc.NewSession(), cartsvc.Restore(items)))
	}
}

// runSession loads the session and cart, applies the mutation, saves the
// session, and writes the resulting snapshot. The session has one writer per
// request; nothing here caches it beyond the call.
func runSession(mgr *checkoutsvc.Manager, cartStore cartsvc.Store, logg *logger.Logger, w http.ResponseWriter, r *http.Request, fn func(context.Context, *checkoutsvc.Session, *cartsvc.Cart) error) {
	ctx := r.Context()
	sessionID := middleware.SessionIDFromContext(ctx)
	if sessionID == "" {
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session context missing"))
		return
	}

	s, err := mgr.Load(ctx, sessionID)
	if err != nil {
		responses.WriteError(ctx, logg, w, err)
		return
	}
	items, err := cartStore.Load(ctx, sessionID)
	if err != nil {
		responses.WriteError(ctx, logg, w, err)
		return
	}
	c := cartsvc.Restore(items)

	if err := fn(ctx, s, c); err != nil {
		responses.WriteError(ctx, logg, w, err)
		return
	}

	if err := mgr.Save(ctx, sessionID, s); err != nil {
		responses.WriteError(ctx, logg, w, err)
		return
	}
	responses.WriteSuccess(w, newCheckoutView(s, c))
}

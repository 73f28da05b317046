package checkout

import (
	"context"
	"strings"

	"github.com/campusworks/storefront-checkout/internal/providers"
	pkgerrors "github.com/campusworks/storefront-checkout/pkg/errors"
	"github.com/campusworks/storefront-checkout/pkg/money"
	"github.com/shopspring/decimal"
)

// PromoValidator is the promo provider surface the session consumes.
type PromoValidator interface {
	ValidatePromo(ctx context.Context, req providers.PromoValidateRequest) (*providers.PromoValidateResponse, error)
}

const promoFallbackError = "Failed to validate promo code"

// SetPromoCodeInput records the typed code and clears the promo error slot.
func (s *Session) SetPromoCodeInput(code string) {
	s.promoInput = code
	s.promoError = ""
}

// ApplyPromoCode validates the typed code against the current subtotal.
// Empty input fails locally. A successful validation replaces the applied
// promo and clears the input; a failed attempt stores the provider message
// and deliberately preserves any previously applied valid promo — only
// RemovePromoCode clears one.
func (s *Session) ApplyPromoCode(ctx context.Context, validator PromoValidator, subtotal decimal.Decimal) bool {
	code := strings.ToUpper(strings.TrimSpace(s.promoInput))
	if code == "" {
		s.promoError = "Please enter a promo code"
		return false
	}

	s.promoLoading = true
	s.promoError = ""
	defer func() { s.promoLoading = false }()

	resp, err := validator.ValidatePromo(ctx, providers.PromoValidateRequest{
		Code:     code,
		Subtotal: subtotal.InexactFloat64(),
	})
	if err != nil {
		s.promoError = userFacingMessage(err, promoFallbackError)
		return false
	}
	if !resp.Success || resp.PromoCode == nil {
		s.promoError = messageOrDefault(resp.Message, "Invalid promo code")
		return false
	}

	s.promoCode = resp.PromoCode
	s.promoInput = ""
	return true
}

// RemovePromoCode clears the applied promo, the input, and the error slot.
func (s *Session) RemovePromoCode() {
	s.promoCode = nil
	s.promoInput = ""
	s.promoError = ""
}

// CalculateDiscount returns the discount the applied promo contributes at the
// given subtotal. Pure function of state:
//   - no promo, or subtotal below the promo's minimum order amount: zero
//     (the promo stays applied and contributes once the order grows)
//   - percentage: subtotal * value / 100
//   - fixed: the flat value
//   - freeShipping: zero here; ShippingCost consults PromoGivesFreeShipping
//
// The result clamps at MaxDiscount when set, then at the subtotal so the net
// total can never go negative.
func (s *Session) CalculateDiscount(subtotal decimal.Decimal) decimal.Decimal {
	promo := s.promoCode
	if promo == nil {
		return decimal.Zero
	}
	if promo.MinOrderAmount != nil && subtotal.LessThan(*promo.MinOrderAmount) {
		return decimal.Zero
	}

	var discount decimal.Decimal
	switch promo.DiscountType {
	case providers.DiscountPercentage:
		discount = money.Percent(subtotal, promo.DiscountValue)
	case providers.DiscountFixed:
		discount = promo.DiscountValue
	case providers.DiscountFreeShipping:
		return decimal.Zero
	default:
		return decimal.Zero
	}

	if promo.MaxDiscount != nil {
		discount = money.ClampMax(discount, *promo.MaxDiscount)
	}
	if discount.GreaterThan(subtotal) {
		return subtotal
	}
	return discount
}

// PromoGivesFreeShipping reports whether the applied promo waives shipping.
func (s *Session) PromoGivesFreeShipping() bool {
	return s.promoCode != nil && s.promoCode.DiscountType == providers.DiscountFreeShipping
}

// HasPromoCode reports whether a promo is applied.
func (s *Session) HasPromoCode() bool {
	return s.promoCode != nil
}

// PromoCode returns the applied promo, if any.
func (s *Session) PromoCode() *providers.PromoCode {
	return s.promoCode
}

// PromoCodeInput returns the typed, not yet validated code.
func (s *Session) PromoCodeInput() string {
	return s.promoInput
}

// PromoError returns the promo subsystem's error slot.
func (s *Session) PromoError() string {
	return s.promoError
}

// PromoLoading reports whether a validation is in flight.
func (s *Session) PromoLoading() bool {
	return s.promoLoading
}

// userFacingMessage prefers the typed error's message for dependency
// failures, falling back to the subsystem default.
func userFacingMessage(err error, fallback string) string {
	if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeDependency && typed.Message() != "" {
		return typed.Message()
	}
	return fallback
}

func messageOrDefault(message, fallback string) string {
	if strings.TrimSpace(message) != "" {
		return message
	}
	return fallback
}

package checkout

import (
	"context"
	"testing"

	"github.com/campusworks/storefront-checkout/internal/providers"
	pkgerrors "github.com/campusworks/storefront-checkout/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator struct {
	resp    *providers.PromoValidateResponse
	err     error
	lastReq providers.PromoValidateRequest
	calls   int
}

func (v *stubValidator) ValidatePromo(_ context.Context, req providers.PromoValidateRequest) (*providers.PromoValidateResponse, error) {
	v.calls++
	v.lastReq = req
	return v.resp, v.err
}

func decptr(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func TestApplyPromoCodeEmptyInput(t *testing.T) {
	t.Parallel()

	s := NewSession()
	validator := &stubValidator{}
	s.SetPromoCodeInput("   ")

	ok := s.ApplyPromoCode(context.Background(), validator, decimal.NewFromInt(50))
	assert.False(t, ok)
	assert.Equal(t, "Please enter a promo code", s.PromoError())
	assert.Zero(t, validator.calls, "empty input fails without a provider call")
}

func TestApplyPromoCodeNormalizesInput(t *testing.T) {
	t.Parallel()

	s := NewSession()
	validator := &stubValidator{resp: &providers.PromoValidateResponse{
		Success:   true,
		PromoCode: &providers.PromoCode{Code: "SAVE20", DiscountType: providers.DiscountPercentage, DiscountValue: decimal.NewFromInt(20)},
	}}
	s.SetPromoCodeInput("  save20  ")

	ok := s.ApplyPromoCode(context.Background(), validator, decimal.NewFromInt(100))
	require.True(t, ok)
	assert.Equal(t, "SAVE20", validator.lastReq.Code)
	assert.Equal(t, 100.0, validator.lastReq.Subtotal)
	assert.Empty(t, s.PromoCodeInput(), "input clears on success")
	require.NotNil(t, s.PromoCode())
	assert.Equal(t, "SAVE20", s.PromoCode().Code)
}

// A failed attempt records the message but never dislodges the promo that is
// already applied. Only RemovePromoCode does that.
func TestApplyPromoCodeFailurePreservesApplied(t *testing.T) {
	t.Parallel()

	s := NewSession()
	s.promoCode = &providers.PromoCode{Code: "SAVE20", DiscountType: providers.DiscountPercentage, DiscountValue: decimal.NewFromInt(20)}

	validator := &stubValidator{resp: &providers.PromoValidateResponse{Success: false, Message: "code expired"}}
	s.SetPromoCodeInput("OLDCODE")
	ok := s.ApplyPromoCode(context.Background(), validator, decimal.NewFromInt(100))

	assert.False(t, ok)
	assert.Equal(t, "code expired", s.PromoError())
	require.NotNil(t, s.PromoCode())
	assert.Equal(t, "SAVE20", s.PromoCode().Code)

	validator = &stubValidator{err: pkgerrors.New(pkgerrors.CodeDependency, "promo service unavailable")}
	s.SetPromoCodeInput("OTHER")
	ok = s.ApplyPromoCode(context.Background(), validator, decimal.NewFromInt(100))

	assert.False(t, ok)
	assert.Equal(t, "promo service unavailable", s.PromoError())
	assert.Equal(t, "SAVE20", s.PromoCode().Code)

	s.RemovePromoCode()
	assert.Nil(t, s.PromoCode())
	assert.Empty(t, s.PromoError())
}

func TestApplyPromoCodeDefaultMessages(t *testing.T) {
	t.Parallel()

	s := NewSession()
	validator := &stubValidator{resp: &providers.PromoValidateResponse{Success: false}}
	s.SetPromoCodeInput("NOPE")
	s.ApplyPromoCode(context.Background(), validator, decimal.NewFromInt(10))
	assert.Equal(t, "Invalid promo code", s.PromoError())
}

func TestCalculateDiscount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		promo    *providers.PromoCode
		subtotal float64
		want     float64
	}{
		{
			name:     "no promo",
			promo:    nil,
			subtotal: 100,
			want:     0,
		},
		{
			name: "percentage above minimum",
			promo: &providers.PromoCode{
				DiscountType:   providers.DiscountPercentage,
				DiscountValue:  decimal.NewFromInt(20),
				MinOrderAmount: decptr(50),
			},
			subtotal: 100,
			want:     20,
		},
		{
			name: "percentage below minimum",
			promo: &providers.PromoCode{
				DiscountType:   providers.DiscountPercentage,
				DiscountValue:  decimal.NewFromInt(20),
				MinOrderAmount: decptr(50),
			},
			subtotal: 30,
			want:     0,
		},
		{
			name: "fixed exceeding subtotal clamps",
			promo: &providers.PromoCode{
				DiscountType:  providers.DiscountFixed,
				DiscountValue: decimal.NewFromInt(25),
			},
			subtotal: 10,
			want:     10,
		},
		{
			name: "percentage clamped at max discount",
			promo: &providers.PromoCode{
				DiscountType:  providers.DiscountPercentage,
				DiscountValue: decimal.NewFromInt(50),
				MaxDiscount:   decptr(30),
			},
			subtotal: 200,
			want:     30,
		},
		{
			name: "free shipping contributes nothing here",
			promo: &providers.PromoCode{
				DiscountType: providers.DiscountFreeShipping,
			},
			subtotal: 100,
			want:     0,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s := NewSession()
			s.promoCode = tc.promo
			got := s.CalculateDiscount(decimal.NewFromFloat(tc.subtotal))
			assert.True(t, got.Equal(decimal.NewFromFloat(tc.want)), "got %s want %v", got, tc.want)
		})
	}
}

func TestPromoGivesFreeShipping(t *testing.T) {
	t.Parallel()

	s := NewSession()
	assert.False(t, s.PromoGivesFreeShipping())
	assert.False(t, s.HasPromoCode())

	s.promoCode = &providers.PromoCode{Code: "SHIPFREE", DiscountType: providers.DiscountFreeShipping}
	assert.True(t, s.PromoGivesFreeShipping())
	assert.True(t, s.HasPromoCode())
}

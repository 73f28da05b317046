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

type stubQuoter struct {
	resp    *providers.ShippingQuoteResponse
	err     error
	lastReq providers.ShippingQuoteRequest
	calls   int
}

func (q *stubQuoter) ShippingQuotes(_ context.Context, req providers.ShippingQuoteRequest) (*providers.ShippingQuoteResponse, error) {
	q.calls++
	q.lastReq = req
	return q.resp, q.err
}

func TestNormalizeQuoteItems(t *testing.T) {
	t.Parallel()

	items := NormalizeQuoteItems([]QuoteItemInput{
		{ProductID: "123-45", Quantity: -1, UnitPrice: "5.50"},
		{ProductID: 0, Name: "Ghost", Quantity: 2, UnitPrice: 9.99},
		{ProductID: "abc", Name: "Also Ghost", Quantity: 1, UnitPrice: 1},
	})

	require.Len(t, items, 1)
	assert.Equal(t, int64(123), items[0].ProductID)
	assert.Equal(t, "Unknown Product", items[0].ProductName)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, 5.5, items[0].UnitPrice)
	assert.True(t, items[0].RequiresShipping)
}

func TestNormalizeQuoteItemsCoercions(t *testing.T) {
	t.Parallel()

	items := NormalizeQuoteItems([]QuoteItemInput{
		{ProductID: 7.0, Name: "Lab Manual", Quantity: "3", UnitPrice: decimal.NewFromFloat(12.25)},
		{ProductID: int64(9), Name: "Pennant", Quantity: 0, UnitPrice: -4.0},
	})

	require.Len(t, items, 2)
	assert.Equal(t, int64(7), items[0].ProductID)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 12.25, items[0].UnitPrice)
	assert.Equal(t, 1, items[1].Quantity, "non-positive quantity defaults to 1")
	assert.Equal(t, 0.0, items[1].UnitPrice, "negative price floors at 0")
}

func TestFetchShippingQuotesRequiresCompleteAddress(t *testing.T) {
	t.Parallel()

	s := NewSession()
	quoter := &stubQuoter{}
	s.FetchShippingQuotes(context.Background(), quoter, []QuoteItemInput{{ProductID: 1, Quantity: 1, UnitPrice: 10}})

	assert.Equal(t, "Please complete the shipping address first", s.ShippingError())
	assert.Zero(t, quoter.calls, "incomplete address fails without a provider call")
}

func TestFetchShippingQuotesNoShippableItems(t *testing.T) {
	t.Parallel()

	s := NewSession()
	s.SetShippingAddress(completeAddress())
	quoter := &stubQuoter{}
	s.FetchShippingQuotes(context.Background(), quoter, []QuoteItemInput{{ProductID: "abc", Quantity: 1, UnitPrice: 10}})

	assert.Equal(t, "No shippable items in cart", s.ShippingError())
	assert.Zero(t, quoter.calls)
	assert.False(t, s.ShippingLoading())
}

func TestFetchShippingQuotesRequestShape(t *testing.T) {
	t.Parallel()

	s := NewSession()
	s.SetShippingAddress(completeAddress())
	quoter := &stubQuoter{resp: &providers.ShippingQuoteResponse{Successful: true}}
	s.FetchShippingQuotes(context.Background(), quoter, []QuoteItemInput{
		{ProductID: 1, Name: "Calc Textbook", Quantity: 2, UnitPrice: 40.0},
		{ProductID: 2, Name: "Hoodie", Quantity: 1, UnitPrice: 35.0},
	})

	req := quoter.lastReq
	assert.Equal(t, "Dana Reyes", req.ToAddress.Name)
	assert.Equal(t, "15697", req.ToAddress.PostalCode)
	assert.Equal(t, "US", req.ToAddress.Country)
	assert.True(t, req.ToAddress.IsResidential)
	assert.Equal(t, 115.0, req.OrderSubtotal)
}

func TestFetchShippingQuotesProviderFailure(t *testing.T) {
	t.Parallel()

	s := NewSession()
	s.SetShippingAddress(completeAddress())

	quoter := &stubQuoter{err: pkgerrors.New(pkgerrors.CodeDependency, "carrier backend offline")}
	s.FetchShippingQuotes(context.Background(), quoter, []QuoteItemInput{{ProductID: 1, Quantity: 1, UnitPrice: 10}})
	assert.Equal(t, "carrier backend offline", s.ShippingError())
	assert.Empty(t, s.ShippingRates())

	quoter = &stubQuoter{resp: &providers.ShippingQuoteResponse{Successful: false, Message: "no carriers serve this zip"}}
	s.FetchShippingQuotes(context.Background(), quoter, []QuoteItemInput{{ProductID: 1, Quantity: 1, UnitPrice: 10}})
	assert.Equal(t, "no carriers serve this zip", s.ShippingError())
}

func TestFetchShippingQuotesSuccess(t *testing.T) {
	t.Parallel()

	s := NewSession()
	s.SetShippingAddress(completeAddress())
	threshold := decimal.NewFromInt(75)
	quoter := &stubQuoter{resp: &providers.ShippingQuoteResponse{
		Successful: true,
		Rates: []providers.ShippingRate{
			{RateID: "ground", Amount: decimal.NewFromFloat(7.95)},
			{RateID: "express", Amount: decimal.NewFromFloat(19.95)},
		},
		FreeShippingApplied:   true,
		FreeShippingThreshold: &threshold,
	}}
	s.FetchShippingQuotes(context.Background(), quoter, []QuoteItemInput{{ProductID: 1, Quantity: 1, UnitPrice: 80}})

	require.Len(t, s.ShippingRates(), 2)
	require.NotNil(t, s.SelectedShippingRateID())
	assert.Equal(t, "ground", *s.SelectedShippingRateID())
	assert.True(t, s.FreeShippingApplied())
	assert.True(t, s.FreeShippingThreshold().Equal(threshold))
	assert.False(t, s.ShippingLoading())
	assert.Empty(t, s.ShippingError())
}

// A response carrying a superseded sequence number must not touch state.
func TestStaleQuoteResponseDiscarded(t *testing.T) {
	t.Parallel()

	s := NewSession()
	s.SetShippingAddress(completeAddress())
	quoter := &stubQuoter{resp: &providers.ShippingQuoteResponse{
		Successful: true,
		Rates:      []providers.ShippingRate{{RateID: "fresh"}},
	}}
	s.FetchShippingQuotes(context.Background(), quoter, []QuoteItemInput{{ProductID: 1, Quantity: 1, UnitPrice: 10}})
	require.Len(t, s.ShippingRates(), 1)

	stale := &providers.ShippingQuoteResponse{
		Successful: true,
		Rates:      []providers.ShippingRate{{RateID: "stale"}},
	}
	s.applyQuoteResult(s.quoteSeq-1, stale, nil)

	require.Len(t, s.ShippingRates(), 1)
	assert.Equal(t, "fresh", s.ShippingRates()[0].RateID)
	assert.Equal(t, "fresh", *s.SelectedShippingRateID())
}

func TestShippingCost(t *testing.T) {
	t.Parallel()

	s := NewSession()
	assert.True(t, s.ShippingCost().IsZero())

	s.shippingRates = []providers.ShippingRate{{RateID: "ground", Amount: decimal.NewFromFloat(7.95)}}
	rateID := "ground"
	s.SelectShippingRate(&rateID)
	assert.True(t, s.ShippingCost().Equal(decimal.NewFromFloat(7.95)))

	s.promoCode = &providers.PromoCode{Code: "SHIPFREE", DiscountType: providers.DiscountFreeShipping}
	assert.True(t, s.ShippingCost().IsZero(), "free-shipping promo zeroes the cost")
}

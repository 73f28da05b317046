package checkout

import (
	"context"
	"strconv"
	"strings"

	"github.com/campusworks/storefront-checkout/internal/cart"
	"github.com/campusworks/storefront-checkout/internal/providers"
	"github.com/shopspring/decimal"
)

// ShippingQuoter is the shipping-rate provider surface the session consumes.
type ShippingQuoter interface {
	ShippingQuotes(ctx context.Context, req providers.ShippingQuoteRequest) (*providers.ShippingQuoteResponse, error)
}

const shippingQuotesFallbackError = "Failed to get shipping quotes"

// QuoteItemInput is a loosely typed shippable line. IDs, quantities, and
// prices arrive from client state in whatever shape the page held them, so
// normalization coerces rather than trusts.
type QuoteItemInput struct {
	ProductID any
	Name      string
	Quantity  any
	UnitPrice any
}

// QuoteInputsFromCart adapts cart lines for quote normalization.
func QuoteInputsFromCart(items []cart.Item) []QuoteItemInput {
	inputs := make([]QuoteItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, QuoteItemInput{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
		})
	}
	return inputs
}

// NormalizeQuoteItems validates and coerces shippable lines: items without a
// resolvable positive integer product id are dropped, quantities coerce to a
// positive integer defaulting to 1, prices to a non-negative decimal
// defaulting to 0.
func NormalizeQuoteItems(inputs []QuoteItemInput) []providers.QuoteItem {
	items := make([]providers.QuoteItem, 0, len(inputs))
	for _, input := range inputs {
		productID := coerceProductID(input.ProductID)
		if productID <= 0 {
			continue
		}
		name := input.Name
		if name == "" {
			name = "Unknown Product"
		}
		items = append(items, providers.QuoteItem{
			ProductID:        productID,
			ProductName:      name,
			Quantity:         coerceQuantity(input.Quantity),
			UnitPrice:        coercePrice(input.UnitPrice),
			RequiresShipping: true,
		})
	}
	return items
}

func coerceProductID(value any) int64 {
	switch v := value.(type) {
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	case string:
		return leadingInt(v)
	default:
		return 0
	}
}

// leadingInt parses the leading integer of a string, so composite line keys
// like "123-45" resolve to the product id 123. Anything without a leading
// integer resolves to 0.
func leadingInt(value string) int64 {
	trimmed := strings.TrimSpace(value)
	end := 0
	if end < len(trimmed) && (trimmed[end] == '-' || trimmed[end] == '+') {
		end++
	}
	for end < len(trimmed) && trimmed[end] >= '0' && trimmed[end] <= '9' {
		end++
	}
	parsed, err := strconv.ParseInt(trimmed[:end], 10, 64)
	if err != nil {
		return 0
	}
	return parsed
}

func coerceQuantity(value any) int {
	qty := 0
	switch v := value.(type) {
	case int:
		qty = v
	case int32:
		qty = int(v)
	case int64:
		qty = int(v)
	case float64:
		qty = int(v)
	case string:
		qty = int(leadingInt(v))
	}
	if qty <= 0 {
		return 1
	}
	return qty
}

func coercePrice(value any) float64 {
	price := 0.0
	switch v := value.(type) {
	case int:
		price = float64(v)
	case int64:
		price = float64(v)
	case float64:
		price = v
	case decimal.Decimal:
		price = v.InexactFloat64()
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err == nil {
			price = parsed
		}
	}
	if price < 0 {
		return 0
	}
	return price
}

// FetchShippingQuotes requests carrier rates for the current address and the
// given cart lines. Preconditions fail locally without a provider call. On
// success the provider's rate ordering is authoritative and the first rate is
// auto-selected. Each fetch carries a sequence number: a response that
// resolves after a newer fetch has started is discarded, so last-response-wins
// races cannot overwrite fresher state.
func (s *Session) FetchShippingQuotes(ctx context.Context, quoter ShippingQuoter, items []QuoteItemInput) {
	if !s.IsShippingAddressComplete() {
		s.shippingError = "Please complete the shipping address first"
		return
	}

	s.shippingLoading = true
	s.shippingError = ""
	s.shippingRates = nil
	s.selectedShippingRate = nil

	s.quoteSeq++
	seq := s.quoteSeq

	normalized := NormalizeQuoteItems(items)
	if len(normalized) == 0 {
		s.shippingError = "No shippable items in cart"
		s.shippingLoading = false
		return
	}

	subtotal := 0.0
	for _, item := range normalized {
		subtotal += item.UnitPrice * float64(item.Quantity)
	}

	addr := s.shippingAddress
	req := providers.ShippingQuoteRequest{
		ToAddress: providers.QuoteAddress{
			Name:          strings.TrimSpace(addr.FirstName + " " + addr.LastName),
			Street1:       addr.AddressLine1,
			Street2:       addr.AddressLine2,
			City:          addr.City,
			State:         addr.State,
			PostalCode:    addr.ZipCode,
			Country:       countryOrDefault(addr.Country),
			IsResidential: true,
		},
		Items:         normalized,
		OrderSubtotal: subtotal,
	}

	resp, err := quoter.ShippingQuotes(ctx, req)
	s.applyQuoteResult(seq, resp, err)
}

// applyQuoteResult folds a provider response into the session, discarding it
// when a newer fetch has superseded the sequence number.
func (s *Session) applyQuoteResult(seq uint64, resp *providers.ShippingQuoteResponse, err error) {
	if seq != s.quoteSeq {
		return
	}
	s.shippingLoading = false

	if err != nil {
		s.shippingError = userFacingMessage(err, shippingQuotesFallbackError)
		return
	}
	if !resp.Successful {
		s.shippingError = messageOrDefault(resp.Message, shippingQuotesFallbackError)
		return
	}

	s.shippingRates = resp.Rates
	s.freeShippingApplied = resp.FreeShippingApplied
	if resp.FreeShippingThreshold != nil {
		s.freeShippingThreshold = *resp.FreeShippingThreshold
	} else {
		s.freeShippingThreshold = decimal.Zero
	}
	if len(resp.Rates) > 0 {
		rateID := resp.Rates[0].RateID
		s.selectedShippingRate = &rateID
	}
}

func countryOrDefault(country string) string {
	if strings.TrimSpace(country) == "" {
		return "US"
	}
	return country
}

// SelectShippingRate records the chosen rate id. Pure assignment; nil clears.
func (s *Session) SelectShippingRate(rateID *string) {
	s.selectedShippingRate = rateID
}

// ShippingRates returns the current quote list.
func (s *Session) ShippingRates() []providers.ShippingRate {
	return s.shippingRates
}

// SelectedShippingRateID returns the chosen rate id, if any.
func (s *Session) SelectedShippingRateID() *string {
	return s.selectedShippingRate
}

// ShippingError returns the shipping subsystem's error slot.
func (s *Session) ShippingError() string {
	return s.shippingError
}

// ShippingLoading reports whether a quote fetch is in flight.
func (s *Session) ShippingLoading() bool {
	return s.shippingLoading
}

// FreeShippingApplied reports the provider's free-shipping flag.
func (s *Session) FreeShippingApplied() bool {
	return s.freeShippingApplied
}

// FreeShippingThreshold returns the provider-supplied threshold.
func (s *Session) FreeShippingThreshold() decimal.Decimal {
	return s.freeShippingThreshold
}

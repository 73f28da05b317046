package cart

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Item is one purchasable line in a cart. The composite Key uniquely
// identifies the line: "productId" for simple products, "productId-variantId"
// for size variants.
type Item struct {
	Key         string          `json:"key"`
	ProductID   int64           `json:"productId"`
	VariantID   *int64          `json:"variantId,omitempty"`
	Name        string          `json:"name"`
	Variant     string          `json:"variant,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	MaxQuantity *int            `json:"maxQuantity,omitempty"`
	Available   bool            `json:"available"`
}

// ItemKey synthesizes the composite line key for a product and optional variant.
func ItemKey(productID int64, variantID *int64) string {
	if variantID != nil {
		return fmt.Sprintf("%d-%d", productID, *variantID)
	}
	return fmt.Sprintf("%d", productID)
}

// LineTotal returns price multiplied by quantity.
func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (i Item) clampQuantity(qty int) int {
	if i.MaxQuantity != nil && qty > *i.MaxQuantity {
		return *i.MaxQuantity
	}
	return qty
}

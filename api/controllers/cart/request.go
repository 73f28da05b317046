package cart

import (
	"github.com/shopspring/decimal"

	cartsvc "github.com/campusworks/storefront-checkout/internal/cart"
)

// AddItemRequest mirrors the storefront's add-to-cart payload. Quantity
// defaults to 1 when omitted.
type AddItemRequest struct {
	ProductID   int64   `json:"productId" validate:"required,min=1"`
	VariantID   *int64  `json:"variantId,omitempty"`
	Name        string  `json:"name" validate:"required"`
	Variant     string  `json:"variant,omitempty"`
	Price       float64 `json:"price" validate:"min=0"`
	Quantity    int     `json:"quantity,omitempty"`
	MaxQuantity *int    `json:"maxQuantity,omitempty"`
	Available   bool    `json:"available,omitempty"`
}

// UpdateItemRequest carries the new line quantity. Zero or below removes the line.
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

func toItem(payload AddItemRequest) cartsvc.Item {
	return cartsvc.Item{
		ProductID:   payload.ProductID,
		VariantID:   payload.VariantID,
		Name:        payload.Name,
		Variant:     payload.Variant,
		Price:       decimal.NewFromFloat(payload.Price),
		MaxQuantity: payload.MaxQuantity,
		Available:   payload.Available,
	}
}

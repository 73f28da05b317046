package cart

import (
	cartsvc "github.com/campusworks/storefront-checkout/internal/cart"
	"github.com/campusworks/storefront-checkout/pkg/money"
)

// CartView is the cart snapshot returned by every cart endpoint.
type CartView struct {
	Items             []cartsvc.Item `json:"items"`
	ItemCount         int            `json:"itemCount"`
	Subtotal          float64        `json:"subtotal"`
	SubtotalFormatted string         `json:"subtotalFormatted"`
	IsEmpty           bool           `json:"isEmpty"`
	IsOpen            bool           `json:"isOpen"`
}

func newCartView(c *cartsvc.Cart) CartView {
	subtotal := c.Subtotal()
	return CartView{
		Items:             c.Items(),
		ItemCount:         c.ItemCount(),
		Subtotal:          subtotal.InexactFloat64(),
		SubtotalFormatted: money.Format(subtotal),
		IsEmpty:           c.IsEmpty(),
		IsOpen:            c.IsOpen(),
	}
}

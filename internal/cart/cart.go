// Package cart tracks line items for one storefront session and derives
// monetary totals. Totals are always recomputed from the line list so no
// cached figure can drift after a mutation.
package cart

import "github.com/shopspring/decimal"

// Cart holds the session's line items plus the cart-display flag. It has one
// logical writer (the owning session); callers obtain it through the session
// context rather than a global.
type Cart struct {
	items []Item
	open  bool
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Restore builds a cart from previously persisted items.
func Restore(items []Item) *Cart {
	c := &Cart{items: make([]Item, len(items))}
	copy(c.items, items)
	return c
}

// AddItem merges the item into an existing line with the same composite key or
// appends a new line. Quantities clamp at the item's MaxQuantity when set.
// Adding opens the cart display.
func (c *Cart) AddItem(item Item, quantity int) {
	if quantity <= 0 {
		quantity = 1
	}
	if item.Key == "" {
		item.Key = ItemKey(item.ProductID, item.VariantID)
	}

	for i := range c.items {
		if c.items[i].Key == item.Key {
			c.items[i].Quantity = c.items[i].clampQuantity(c.items[i].Quantity + quantity)
			c.open = true
			return
		}
	}

	item.Quantity = item.clampQuantity(quantity)
	c.items = append(c.items, item)
	c.open = true
}

// RemoveItem deletes the line with the given key. Returns whether a line was removed.
func (c *Cart) RemoveItem(key string) bool {
	for i := range c.items {
		if c.items[i].Key == key {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// UpdateQuantity sets the line's quantity. A quantity of zero or below removes
// the line; values above MaxQuantity clamp.
func (c *Cart) UpdateQuantity(key string, quantity int) {
	for i := range c.items {
		if c.items[i].Key != key {
			continue
		}
		if quantity <= 0 {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
		c.items[i].Quantity = c.items[i].clampQuantity(quantity)
		return
	}
}

// Item returns the line with the given key.
func (c *Cart) Item(key string) (Item, bool) {
	for _, item := range c.items {
		if item.Key == key {
			return item, true
		}
	}
	return Item{}, false
}

// HasProduct reports whether the product (with optional variant) is in the cart.
func (c *Cart) HasProduct(productID int64, variantID *int64) bool {
	_, ok := c.Item(ItemKey(productID, variantID))
	return ok
}

// Items returns a copy of the current lines.
func (c *Cart) Items() []Item {
	items := make([]Item, len(c.items))
	copy(items, c.items)
	return items
}

// ItemCount is the sum of all line quantities.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

// Subtotal is the sum of price times quantity over all lines.
func (c *Cart) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range c.items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	return subtotal
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Clear removes every line.
func (c *Cart) Clear() {
	c.items = nil
}

// IsOpen reports the cart-display flag.
func (c *Cart) IsOpen() bool {
	return c.open
}

// Open sets the cart-display flag.
func (c *Cart) Open() {
	c.open = true
}

// Close clears the cart-display flag.
func (c *Cart) Close() {
	c.open = false
}

// Toggle flips the cart-display flag.
func (c *Cart) Toggle() {
	c.open = !c.open
}

package cart

import (
	"testing"

	"github.com/shopspring/decimal"
)

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

func textbook(maxQty *int) Item {
	return Item{
		ProductID:   101,
		Name:        "Intro to Biology",
		Price:       decimal.NewFromFloat(89.99),
		MaxQuantity: maxQty,
		Available:   true,
	}
}

func TestItemKey(t *testing.T) {
	t.Parallel()

	if got := ItemKey(101, nil); got != "101" {
		t.Fatalf("unexpected key: %s", got)
	}
	if got := ItemKey(101, int64Ptr(7)); got != "101-7" {
		t.Fatalf("unexpected variant key: %s", got)
	}
}

func TestAddItemMergesByCompositeKey(t *testing.T) {
	t.Parallel()

	c := New()
	c.AddItem(textbook(nil), 1)
	c.AddItem(textbook(nil), 2)

	items := c.Items()
	if len(items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(items))
	}
	if items[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", items[0].Quantity)
	}
	if !c.IsOpen() {
		t.Fatal("expected cart display to open on add")
	}
}

func TestAddItemVariantsAreSeparateLines(t *testing.T) {
	t.Parallel()

	c := New()
	hoodie := Item{ProductID: 200, VariantID: int64Ptr(1), Variant: "M", Price: decimal.NewFromInt(40)}
	hoodieL := Item{ProductID: 200, VariantID: int64Ptr(2), Variant: "L", Price: decimal.NewFromInt(40)}
	c.AddItem(hoodie, 1)
	c.AddItem(hoodieL, 1)

	if len(c.Items()) != 2 {
		t.Fatalf("expected two lines, got %d", len(c.Items()))
	}
	if !c.HasProduct(200, int64Ptr(1)) || !c.HasProduct(200, int64Ptr(2)) {
		t.Fatal("expected both variants present")
	}
	if c.HasProduct(200, nil) {
		t.Fatal("base product without variant should not match")
	}
}

// Quantity never exceeds MaxQuantity and never goes negative over any sequence
// of AddItem/UpdateQuantity calls; zero or below removes the line.
func TestQuantityClamp(t *testing.T) {
	t.Parallel()

	c := New()
	c.AddItem(textbook(intPtr(3)), 2)
	c.AddItem(textbook(intPtr(3)), 5)

	item, ok := c.Item("101")
	if !ok {
		t.Fatal("expected line present")
	}
	if item.Quantity != 3 {
		t.Fatalf("expected clamp at 3, got %d", item.Quantity)
	}

	c.UpdateQuantity("101", 99)
	if item, _ := c.Item("101"); item.Quantity != 3 {
		t.Fatalf("expected clamp at 3 after update, got %d", item.Quantity)
	}

	c.UpdateQuantity("101", 2)
	if item, _ := c.Item("101"); item.Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", item.Quantity)
	}

	c.UpdateQuantity("101", 0)
	if _, ok := c.Item("101"); ok {
		t.Fatal("expected line removed at quantity 0")
	}

	c.AddItem(textbook(intPtr(3)), 1)
	c.UpdateQuantity("101", -4)
	if !c.IsEmpty() {
		t.Fatal("expected negative quantity to remove the line")
	}
}

// Subtotal equals the sum of price times quantity, recomputed after every mutation.
func TestSubtotalRecomputedAfterMutation(t *testing.T) {
	t.Parallel()

	c := New()
	c.AddItem(Item{ProductID: 1, Price: decimal.NewFromFloat(10.50)}, 2)
	c.AddItem(Item{ProductID: 2, Price: decimal.NewFromFloat(4.25)}, 1)

	if want := decimal.NewFromFloat(25.25); !c.Subtotal().Equal(want) {
		t.Fatalf("expected %s, got %s", want, c.Subtotal())
	}
	if c.ItemCount() != 3 {
		t.Fatalf("expected item count 3, got %d", c.ItemCount())
	}

	c.UpdateQuantity("1", 1)
	if want := decimal.NewFromFloat(14.75); !c.Subtotal().Equal(want) {
		t.Fatalf("expected %s after update, got %s", want, c.Subtotal())
	}

	c.RemoveItem("2")
	if want := decimal.NewFromFloat(10.50); !c.Subtotal().Equal(want) {
		t.Fatalf("expected %s after removal, got %s", want, c.Subtotal())
	}

	c.Clear()
	if !c.Subtotal().IsZero() || !c.IsEmpty() {
		t.Fatal("expected empty cart after clear")
	}
}

func TestRemoveItemReportsMiss(t *testing.T) {
	t.Parallel()

	c := New()
	if c.RemoveItem("nope") {
		t.Fatal("expected false for unknown key")
	}
}

func TestDisplayFlag(t *testing.T) {
	t.Parallel()

	c := New()
	c.Open()
	if !c.IsOpen() {
		t.Fatal("expected open")
	}
	c.Toggle()
	if c.IsOpen() {
		t.Fatal("expected closed after toggle")
	}
	c.Close()
	if c.IsOpen() {
		t.Fatal("expected closed")
	}
}

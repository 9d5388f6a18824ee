package cart_test

import (
	"testing"

	"github.com/box-tea/api/internal/cart"
	"github.com/shopspring/decimal"
)

func item(id int32, name string, price string) cart.Item {
	return cart.Item{ID: id, Name: name, Price: decimal.RequireFromString(price)}
}

func TestAddSameItemTwiceMergesEntry(t *testing.T) {
	var c cart.Cart
	masala := item(1, "Masala Chai", "10.00")

	c.Add(masala)
	c.Add(masala)

	entries := c.Entries()
	if len(entries) != 1 {
		t.Fatalf("entries: got %d, want 1", len(entries))
	}
	if entries[0].Quantity != 2 {
		t.Errorf("quantity: got %d, want 2", entries[0].Quantity)
	}
}

func TestTotal(t *testing.T) {
	var c cart.Cart
	c.Add(item(1, "Masala Chai", "10.00"))
	c.Add(item(1, "Masala Chai", "10.00"))
	c.Add(item(2, "Green Tea", "5.00"))
	if err := c.SetQuantity(item(2, "Green Tea", "5.00"), 3); err != nil {
		t.Fatalf("set quantity: %v", err)
	}

	// 2×10 + 3×5 = 35
	if got := c.Total(); !got.Equal(decimal.RequireFromString("35")) {
		t.Errorf("total: got %s, want 35", got)
	}
}

func TestSetQuantityZeroRemoves(t *testing.T) {
	var c cart.Cart
	chai := item(1, "Masala Chai", "10.00")
	green := item(2, "Green Tea", "5.00")

	c.Add(chai)
	c.Add(green)
	if err := c.SetQuantity(chai, 0); err != nil {
		t.Fatalf("set quantity: %v", err)
	}

	entries := c.Entries()
	if len(entries) != 1 {
		t.Fatalf("entries: got %d, want 1", len(entries))
	}
	if entries[0].Item.ID != green.ID {
		t.Errorf("remaining item: got %d, want %d", entries[0].Item.ID, green.ID)
	}
	if got := c.Total(); !got.Equal(decimal.RequireFromString("5")) {
		t.Errorf("total after removal: got %s, want 5", got)
	}
}

func TestSetQuantityNegativeRejected(t *testing.T) {
	var c cart.Cart
	chai := item(1, "Masala Chai", "10.00")
	c.Add(chai)

	if err := c.SetQuantity(chai, -1); err != cart.ErrNegativeQuantity {
		t.Fatalf("error: got %v, want ErrNegativeQuantity", err)
	}
	if c.Entries()[0].Quantity != 1 {
		t.Errorf("quantity changed by rejected update")
	}
}

func TestRemoveDeletesRegardlessOfQuantity(t *testing.T) {
	var c cart.Cart
	chai := item(1, "Masala Chai", "10.00")
	c.Add(chai)
	c.Add(chai)
	c.Add(chai)

	c.Remove(chai.ID)

	if c.Len() != 0 {
		t.Errorf("len: got %d, want 0", c.Len())
	}
	if !c.Total().IsZero() {
		t.Errorf("total: got %s, want 0", c.Total())
	}
}

func TestTotalMatchesEntriesAfterMixedOperations(t *testing.T) {
	var c cart.Cart
	chai := item(1, "Masala Chai", "12.50")
	green := item(2, "Green Tea", "8.00")
	coffee := item(3, "Filter Coffee", "15.00")

	c.Add(chai)
	c.Add(green)
	c.Add(coffee)
	c.Add(chai)
	_ = c.SetQuantity(green, 4)
	c.Remove(coffee.ID)
	_ = c.SetQuantity(chai, 1)

	want := decimal.Zero
	for _, e := range c.Entries() {
		if e.Quantity <= 0 {
			t.Fatalf("entry with quantity %d survived", e.Quantity)
		}
		want = want.Add(e.Item.Price.Mul(decimal.NewFromInt32(e.Quantity)))
	}
	if got := c.Total(); !got.Equal(want) {
		t.Errorf("total: got %s, want %s", got, want)
	}
	// 1×12.50 + 4×8.00 = 44.50
	if got := c.Total(); !got.Equal(decimal.RequireFromString("44.50")) {
		t.Errorf("total: got %s, want 44.50", got)
	}
}

func TestEntriesPreserveInsertionOrder(t *testing.T) {
	var c cart.Cart
	c.Add(item(3, "Filter Coffee", "15.00"))
	c.Add(item(1, "Masala Chai", "10.00"))
	c.Add(item(2, "Green Tea", "5.00"))

	entries := c.Entries()
	wantOrder := []int32{3, 1, 2}
	for i, e := range entries {
		if e.Item.ID != wantOrder[i] {
			t.Errorf("entry %d: got item %d, want %d", i, e.Item.ID, wantOrder[i])
		}
	}
}

func TestStoreIsolatesUsers(t *testing.T) {
	s := cart.NewStore()
	chai := item(1, "Masala Chai", "10.00")

	s.Add("a@boxtea.com", chai)
	s.Add("a@boxtea.com", chai)
	s.Add("b@boxtea.com", chai)

	if got := len(s.Entries("a@boxtea.com")); got != 1 {
		t.Fatalf("user a entries: got %d, want 1", got)
	}
	if got := s.Entries("a@boxtea.com")[0].Quantity; got != 2 {
		t.Errorf("user a quantity: got %d, want 2", got)
	}
	if got := s.Entries("b@boxtea.com")[0].Quantity; got != 1 {
		t.Errorf("user b quantity: got %d, want 1", got)
	}

	s.Clear("a@boxtea.com")
	if got := len(s.Entries("a@boxtea.com")); got != 0 {
		t.Errorf("cleared cart entries: got %d, want 0", got)
	}
	if got := len(s.Entries("b@boxtea.com")); got != 1 {
		t.Errorf("user b entries after clearing a: got %d, want 1", got)
	}
}

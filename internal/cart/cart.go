package cart

import (
	"errors"
	"sync"

	"github.com/shopspring/decimal"
)

var ErrNegativeQuantity = errors.New("quantity must be >= 0")

// Item is the menu data a cart entry snapshots at add time.
type Item struct {
	ID    int32
	Name  string
	Price decimal.Decimal
}

// Entry is a cart line: an item and its quantity (> 0 by construction).
type Entry struct {
	Item     Item
	Quantity int32
}

// Cart holds one checkout session's entries in insertion order. It is
// not safe for concurrent use; Store serializes access per user.
type Cart struct {
	entries []Entry
}

// Add increments the quantity by 1 if the item is already present,
// otherwise appends a new entry with quantity 1.
func (c *Cart) Add(item Item) {
	for i := range c.entries {
		if c.entries[i].Item.ID == item.ID {
			c.entries[i].Quantity++
			return
		}
	}
	c.entries = append(c.entries, Entry{Item: item, Quantity: 1})
}

// Remove deletes the entry entirely regardless of quantity.
func (c *Cart) Remove(itemID int32) {
	for i := range c.entries {
		if c.entries[i].Item.ID == itemID {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return
		}
	}
}

// SetQuantity replaces the stored quantity. Zero removes the entry; an
// absent item is inserted with the given quantity.
func (c *Cart) SetQuantity(item Item, qty int32) error {
	if qty < 0 {
		return ErrNegativeQuantity
	}
	if qty == 0 {
		c.Remove(item.ID)
		return nil
	}
	for i := range c.entries {
		if c.entries[i].Item.ID == item.ID {
			c.entries[i].Quantity = qty
			return nil
		}
	}
	c.entries = append(c.entries, Entry{Item: item, Quantity: qty})
	return nil
}

// Entries returns a copy of the cart lines in insertion order.
func (c *Cart) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Cart) Len() int {
	return len(c.entries)
}

// Total sums price × quantity over all entries.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, e := range c.entries {
		total = total.Add(e.Item.Price.Mul(decimal.NewFromInt32(e.Quantity)))
	}
	return total
}

func (c *Cart) Clear() {
	c.entries = nil
}

// Store maps authenticated users to their in-memory carts. State is
// lost on restart, matching the session-scoped cart contract.
type Store struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[string]*Cart)}
}

func (s *Store) cart(email string) *Cart {
	c, ok := s.carts[email]
	if !ok {
		c = &Cart{}
		s.carts[email] = c
	}
	return c
}

func (s *Store) Add(email string, item Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart(email).Add(item)
}

func (s *Store) Remove(email string, itemID int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart(email).Remove(itemID)
}

func (s *Store) SetQuantity(email string, item Item, qty int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart(email).SetQuantity(item, qty)
}

func (s *Store) Entries(email string) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart(email).Entries()
}

func (s *Store) Total(email string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart(email).Total()
}

func (s *Store) Clear(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, email)
}

// Package cart implements the item id → quantity mapping behind the basket.
package cart

import (
	"math"

	"github.com/ahmed8601/kahramana-site/pkg/models"

	"github.com/shopspring/decimal"
)

// MaxQuantity bounds every stored quantity, in memory and in snapshots.
const MaxQuantity = math.MaxInt32

// Entry is one stored quantity. Quantity is always positive.
type Entry struct {
	ItemID   int
	Quantity int
}

// Cart keeps quantities in insertion order. The zero value is an empty cart.
// A Cart is not safe for concurrent use.
type Cart struct {
	order []int
	qty   map[int]int
}

// Summary is the derived view of a cart.
type Summary struct {
	Lines []models.LineItem `json:"lines"`
	Total decimal.Decimal   `json:"total"`
	Count int               `json:"count"`
}

// Catalog resolves item ids for Derive.
type Catalog interface {
	Lookup(id int) (models.MenuItem, bool)
}

// FromEntries builds a cart from entries, skipping non-positive quantities.
// A repeated id keeps its first position and its last quantity.
func FromEntries(entries []Entry) *Cart {
	c := &Cart{qty: make(map[int]int)}
	for _, e := range entries {
		if e.Quantity <= 0 {
			continue
		}
		if _, exists := c.qty[e.ItemID]; !exists {
			c.order = append(c.order, e.ItemID)
		}
		c.qty[e.ItemID] = min(e.Quantity, MaxQuantity)
	}
	return c
}

// Add increments the quantity of id by one.
func (c *Cart) Add(id int) {
	c.ChangeQuantity(id, 1)
}

// ChangeQuantity adds delta to the quantity of id. A result of zero or less
// removes the entry; a result above MaxQuantity is capped.
func (c *Cart) ChangeQuantity(id, delta int) {
	if c.qty == nil {
		c.qty = make(map[int]int)
	}
	current, exists := c.qty[id]
	var updated int
	switch {
	case delta > MaxQuantity-current:
		updated = MaxQuantity
	case delta < -current:
		updated = 0
	default:
		updated = current + delta
	}
	if updated <= 0 {
		if exists {
			c.remove(id)
		}
		return
	}
	if !exists {
		c.order = append(c.order, id)
	}
	c.qty[id] = updated
}

func (c *Cart) remove(id int) {
	delete(c.qty, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// Quantity returns the stored quantity of id, or 0.
func (c *Cart) Quantity(id int) int {
	return c.qty[id]
}

// Len returns the number of distinct items.
func (c *Cart) Len() int {
	return len(c.order)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.order = nil
	c.qty = nil
}

// Entries returns the stored quantities in insertion order.
func (c *Cart) Entries() []Entry {
	out := make([]Entry, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, Entry{ItemID: id, Quantity: c.qty[id]})
	}
	return out
}

// Derive resolves the entries against cat and computes the total price and
// item count. Ids unknown to cat are skipped.
func (c *Cart) Derive(cat Catalog) Summary {
	s := Summary{Lines: make([]models.LineItem, 0, len(c.order)), Total: decimal.Zero}
	for _, id := range c.order {
		item, ok := cat.Lookup(id)
		if !ok {
			continue
		}
		line := models.LineItem{MenuItem: item, Quantity: c.qty[id]}
		s.Lines = append(s.Lines, line)
		s.Total = s.Total.Add(line.Subtotal())
		s.Count += line.Quantity
	}
	return s
}

// Package order manages the in-progress selection of products.
//
// An order is either empty or holds lines in the order they were first
// added. Each line copies the product's name and price when it is created,
// so later catalog changes do not reach into an existing order.
//
// Every operation on a missing product id is a no-op. A line never holds a
// quantity below one: setting zero or less removes it. A line never holds
// more than MaxQuantity units.
package order

import (
	"github.com/shopspring/decimal"

	"github.com/roach88/ordpad/internal/catalog"
)

// MaxQuantity is the largest quantity a single line may hold.
const MaxQuantity = 9999

// Line is one product's entry within an order.
// Serialized flat: id, name, price, quantity.
type Line struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

// Subtotal returns price * quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order is the running order.
// Not safe for concurrent use; the owning state serializes access.
type Order struct {
	lines []Line
}

// New builds an order from previously stored lines.
// Lines with a quantity outside [1, MaxQuantity], lines whose product
// fails catalog.Product.Valid and lines repeating an id are dropped.
func New(lines []Line) *Order {
	o := &Order{lines: make([]Line, 0, len(lines))}

	seen := make(map[int64]struct{}, len(lines))
	for _, l := range lines {
		if l.Quantity < 1 || l.Quantity > MaxQuantity || !l.Product.Valid() {
			continue
		}
		if _, dup := seen[l.ID]; dup {
			continue
		}
		seen[l.ID] = struct{}{}
		o.lines = append(o.lines, l)
	}

	return o
}

// Add puts one unit of p into the order. An existing line for p.ID is
// incremented in place; otherwise a new line is appended.
// Returns false, leaving the order untouched, when the line is already
// at MaxQuantity.
func (o *Order) Add(p catalog.Product) bool {
	if i := o.index(p.ID); i >= 0 {
		if o.lines[i].Quantity >= MaxQuantity {
			return false
		}
		o.lines[i].Quantity++
		return true
	}
	o.lines = append(o.lines, Line{Product: p, Quantity: 1})
	return true
}

// SetQuantity replaces the quantity of the line for id.
// A quantity of zero or less removes the line; one above MaxQuantity is
// refused. Returns whether the order changed.
func (o *Order) SetQuantity(id int64, qty int) bool {
	if qty <= 0 {
		return o.Remove(id)
	}
	if qty > MaxQuantity {
		return false
	}

	i := o.index(id)
	if i < 0 || o.lines[i].Quantity == qty {
		return false
	}
	o.lines[i].Quantity = qty
	return true
}

// Remove deletes the line for id. Returns whether a line was removed.
func (o *Order) Remove(id int64) bool {
	i := o.index(id)
	if i < 0 {
		return false
	}
	o.lines = append(o.lines[:i], o.lines[i+1:]...)
	return true
}

// Clear empties the order. Returns false if it was already empty.
func (o *Order) Clear() bool {
	if len(o.lines) == 0 {
		return false
	}
	o.lines = o.lines[:0]
	return true
}

// Total returns the sum of all line subtotals; zero for an empty order.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Lines returns a copy of the lines in order. Never nil.
func (o *Order) Lines() []Line {
	out := make([]Line, len(o.lines))
	copy(out, o.lines)
	return out
}

// Line returns the line for id.
func (o *Order) Line(id int64) (Line, bool) {
	i := o.index(id)
	if i < 0 {
		return Line{}, false
	}
	return o.lines[i], true
}

// Empty reports whether the order has no lines.
func (o *Order) Empty() bool {
	return len(o.lines) == 0
}

// Units returns the total number of units across all lines.
func (o *Order) Units() int {
	n := 0
	for _, l := range o.lines {
		n += l.Quantity
	}
	return n
}

func (o *Order) index(id int64) int {
	for i, l := range o.lines {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// MaxID returns the highest product id referenced by lines, or 0.
func MaxID(lines []Line) int64 {
	var max int64
	for _, l := range lines {
		if l.ID > max {
			max = l.ID
		}
	}
	return max
}

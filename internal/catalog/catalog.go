// Package catalog manages the registered set of purchasable products.
//
// The catalog is an ordered list: products keep the position they were
// added at, and ids are never shared between two entries. There is no edit
// operation; a product can only be created or removed.
package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// Product is a catalog entry.
type Product struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Catalog holds products in insertion order.
// Not safe for concurrent use; the owning state serializes access.
type Catalog struct {
	products []Product
	ids      *Sequence
}

// New builds a catalog from previously stored products.
// Entries that fail Product.Valid and entries repeating an id already seen
// are dropped, keeping the first.
// If ids is nil a sequence is seeded from the highest loaded id.
func New(products []Product, ids *Sequence) *Catalog {
	c := &Catalog{products: make([]Product, 0, len(products))}

	seen := make(map[int64]struct{}, len(products))
	for _, p := range products {
		if !p.Valid() {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		c.products = append(c.products, p)
	}

	if ids == nil {
		ids = NewSequenceAt(MaxID(c.products))
	}
	c.ids = ids

	return c
}

// Add validates the input and appends a new product with a fresh id.
// On a validation failure the catalog is left untouched and the returned
// error is a *ValidationError.
func (c *Catalog) Add(name, priceText string) (Product, error) {
	name = norm.NFC.String(strings.TrimSpace(name))
	if name == "" {
		return Product{}, &ValidationError{Field: FieldName, Reason: "must not be empty"}
	}

	price, err := ParsePrice(priceText)
	if err != nil {
		return Product{}, err
	}

	p := Product{
		ID:    c.ids.Next(),
		Name:  name,
		Price: price,
	}
	c.products = append(c.products, p)

	return p, nil
}

// Remove deletes the product with the given id.
// Returns false, leaving the catalog as it was, when no such product exists.
func (c *Catalog) Remove(id int64) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.products = append(c.products[:i], c.products[i+1:]...)
	return true
}

// Find returns the product with the given id.
func (c *Catalog) Find(id int64) (Product, bool) {
	i := c.index(id)
	if i < 0 {
		return Product{}, false
	}
	return c.products[i], true
}

// Products returns a copy of the catalog in insertion order.
// Never nil.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

func (c *Catalog) index(id int64) int {
	for i, p := range c.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// MaxID returns the highest id among the valid entries of products, or 0.
func MaxID(products []Product) int64 {
	var max int64
	for _, p := range products {
		if p.Valid() && p.ID > max {
			max = p.ID
		}
	}
	return max
}

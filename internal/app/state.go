// Package app owns the catalog and order for one ordpad session.
//
// State is the single owner of both lists. Every mutating call changes one
// list and then writes that whole list back through the persist bridge.
// Write failures are logged and remembered, never returned: storage is a
// best-effort mirror of the in-memory state.
package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/roach88/ordpad/internal/catalog"
	"github.com/roach88/ordpad/internal/order"
	"github.com/roach88/ordpad/internal/persist"
)

// Options configures Open.
type Options struct {
	// Keys names the stored records. Zero value uses persist.DefaultKeys.
	Keys persist.Keys

	// Logger receives load/save diagnostics. Nil discards them.
	Logger *slog.Logger
}

// State holds the catalog and order and mirrors them to storage.
type State struct {
	kv      persist.KV
	keys    persist.Keys
	logger  *slog.Logger
	catalog *catalog.Catalog
	order   *order.Order
	saveErr error
}

// Open loads both lists from kv and returns the state owner.
// Missing or unreadable records start empty.
func Open(ctx context.Context, kv persist.KV, opts Options) *State {
	keys := opts.Keys
	if keys == (persist.Keys{}) {
		keys = persist.DefaultKeys()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	products := persist.Load[catalog.Product](ctx, kv, keys.Catalog, logger)
	lines := persist.Load[order.Line](ctx, kv, keys.Order, logger)

	o := order.New(lines)

	// Order lines outlive their catalog entries, so both lists feed the seed.
	seed := max(catalog.MaxID(products), order.MaxID(o.Lines()))

	s := &State{
		kv:      kv,
		keys:    keys,
		logger:  logger,
		catalog: catalog.New(products, catalog.NewSequenceAt(seed)),
		order:   o,
	}

	logger.Debug("state loaded", "products", s.catalog.Len(), "lines", len(o.Lines()), "next_id", seed+1)
	return s
}

// Products returns the catalog in insertion order.
func (s *State) Products() []catalog.Product {
	return s.catalog.Products()
}

// Product returns the catalog entry with the given id.
func (s *State) Product(id int64) (catalog.Product, bool) {
	return s.catalog.Find(id)
}

// Lines returns the order lines in insertion order.
func (s *State) Lines() []order.Line {
	return s.order.Lines()
}

// Line returns the order line for the given product id.
func (s *State) Line(id int64) (order.Line, bool) {
	return s.order.Line(id)
}

// Total returns the order total.
func (s *State) Total() decimal.Decimal {
	return s.order.Total()
}

// OrderEmpty reports whether the order has no lines.
func (s *State) OrderEmpty() bool {
	return s.order.Empty()
}

// Units returns the number of units in the order.
func (s *State) Units() int {
	return s.order.Units()
}

// AddProduct registers a new product. A *catalog.ValidationError is returned
// for rejected input, in which case nothing changes and nothing is written.
func (s *State) AddProduct(ctx context.Context, name, priceText string) (catalog.Product, error) {
	p, err := s.catalog.Add(name, priceText)
	if err != nil {
		return catalog.Product{}, err
	}
	s.logger.Info("product added", "id", p.ID, "name", p.Name, "price", p.Price)
	s.saveCatalog(ctx)
	return p, nil
}

// RemoveProduct deletes a product from the catalog. Order lines for that
// product are kept. Returns false if the id was not in the catalog.
func (s *State) RemoveProduct(ctx context.Context, id int64) bool {
	if !s.catalog.Remove(id) {
		return false
	}
	s.logger.Info("product removed", "id", id)
	s.saveCatalog(ctx)
	return true
}

// AddToOrder adds one unit of the catalog product with the given id.
// Returns false if no such product is in the catalog or its line is already
// at order.MaxQuantity.
func (s *State) AddToOrder(ctx context.Context, productID int64) bool {
	p, ok := s.catalog.Find(productID)
	if !ok {
		return false
	}
	if !s.order.Add(p) {
		return false
	}
	s.logger.Info("added to order", "id", p.ID)
	s.saveOrder(ctx)
	return true
}

// SetQuantity changes a line's quantity; zero or less removes the line.
// Returns whether the order changed.
func (s *State) SetQuantity(ctx context.Context, id int64, qty int) bool {
	if !s.order.SetQuantity(id, qty) {
		return false
	}
	s.logger.Info("quantity set", "id", id, "quantity", qty)
	s.saveOrder(ctx)
	return true
}

// Increment adds one unit to an existing line. A line at
// order.MaxQuantity is left as is.
func (s *State) Increment(ctx context.Context, id int64) bool {
	l, ok := s.order.Line(id)
	if !ok || l.Quantity >= order.MaxQuantity {
		return false
	}
	return s.SetQuantity(ctx, id, l.Quantity+1)
}

// Decrement removes one unit from an existing line, dropping it at zero.
func (s *State) Decrement(ctx context.Context, id int64) bool {
	l, ok := s.order.Line(id)
	if !ok {
		return false
	}
	return s.SetQuantity(ctx, id, l.Quantity-1)
}

// RemoveFromOrder deletes a line. Returns false if there was none.
func (s *State) RemoveFromOrder(ctx context.Context, id int64) bool {
	if !s.order.Remove(id) {
		return false
	}
	s.logger.Info("removed from order", "id", id)
	s.saveOrder(ctx)
	return true
}

// ClearOrder empties the order. Returns false if it was already empty.
func (s *State) ClearOrder(ctx context.Context) bool {
	if !s.order.Clear() {
		return false
	}
	s.logger.Info("order cleared")
	s.saveOrder(ctx)
	return true
}

// LastSaveError returns the error from the most recent write, or nil if it
// succeeded.
func (s *State) LastSaveError() error {
	return s.saveErr
}

func (s *State) saveCatalog(ctx context.Context) {
	s.record(s.keys.Catalog, persist.Save(ctx, s.kv, s.keys.Catalog, s.catalog.Products()))
}

func (s *State) saveOrder(ctx context.Context) {
	s.record(s.keys.Order, persist.Save(ctx, s.kv, s.keys.Order, s.order.Lines()))
}

func (s *State) record(key string, err error) {
	s.saveErr = err
	if err != nil {
		s.logger.Warn("write-through failed", "key", key, "error", err)
	}
}

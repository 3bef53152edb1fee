package cli

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/roach88/ordpad/internal/catalog"
	"github.com/roach88/ordpad/internal/money"
	"github.com/roach88/ordpad/internal/notice"
	"github.com/roach88/ordpad/internal/order"
)

// ProductView is the JSON shape of a catalog entry.
type ProductView struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

// LineView is the JSON shape of an order line.
type LineView struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
	Subtotal string `json:"subtotal"`
}

// CatalogView is the JSON shape of the catalog listing.
type CatalogView struct {
	Currency string        `json:"currency"`
	Products []ProductView `json:"products"`
}

// OrderView is the JSON shape of the current order.
type OrderView struct {
	Currency string     `json:"currency"`
	Lines    []LineView `json:"lines"`
	Units    int        `json:"units"`
	Total    string     `json:"total"`
}

func productView(p catalog.Product, m money.Formatter) ProductView {
	return ProductView{ID: p.ID, Name: p.Name, Price: m.Amount(p.Price)}
}

func catalogView(products []catalog.Product, m money.Formatter) CatalogView {
	v := CatalogView{Currency: m.Unit().String(), Products: make([]ProductView, 0, len(products))}
	for _, p := range products {
		v.Products = append(v.Products, productView(p, m))
	}
	return v
}

func orderView(lines []order.Line, total decimal.Decimal, m money.Formatter) OrderView {
	v := OrderView{Currency: m.Unit().String(), Lines: make([]LineView, 0, len(lines)), Total: m.Amount(total)}
	for _, l := range lines {
		v.Lines = append(v.Lines, LineView{
			ID:       l.ID,
			Name:     l.Name,
			Price:    m.Amount(l.Price),
			Quantity: l.Quantity,
			Subtotal: m.Amount(l.Subtotal()),
		})
		v.Units += l.Quantity
	}
	return v
}

// renderCatalog writes the catalog as a fixed-width table.
func renderCatalog(w io.Writer, products []catalog.Product, m money.Formatter) {
	if len(products) == 0 {
		fmt.Fprintln(w, "No products registered.")
		return
	}
	fmt.Fprintf(w, "%-6s %-24s %12s\n", "ID", "NAME", "PRICE")
	for _, p := range products {
		fmt.Fprintf(w, "%-6d %-24s %12s\n", p.ID, p.Name, m.Format(p.Price))
	}
}

// renderOrder writes the order lines and the total.
func renderOrder(w io.Writer, lines []order.Line, total decimal.Decimal, m money.Formatter) {
	if len(lines) == 0 {
		fmt.Fprintln(w, "Order is empty.")
		return
	}
	fmt.Fprintf(w, "%-6s %-24s %4s %12s %12s\n", "ID", "NAME", "QTY", "PRICE", "SUBTOTAL")
	units := 0
	for _, l := range lines {
		fmt.Fprintf(w, "%-6d %-24s %4d %12s %12s\n",
			l.ID, l.Name, l.Quantity, m.Format(l.Price), m.Format(l.Subtotal()))
		units += l.Quantity
	}
	fmt.Fprintf(w, "Total: %s (%d %s)\n", m.Format(total), units, plural(units, "unit", "units"))
}

// renderNotice writes the current notice, if any.
func renderNotice(w io.Writer, board *notice.Board) {
	n, ok := board.Current()
	if !ok {
		return
	}
	fmt.Fprintf(w, "[%s] %s\n", n.Level, n.Text)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

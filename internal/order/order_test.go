package order

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ordpad/internal/catalog"
)

var decimalComparer = cmp.Comparer(func(x, y decimal.Decimal) bool {
	return x.Equal(y)
})

func product(id int64, name, price string) catalog.Product {
	return catalog.Product{ID: id, Name: name, Price: decimal.RequireFromString(price)}
}

func TestAdd_NewProductAppendsLine(t *testing.T) {
	o := New(nil)
	o.Add(product(1, "Pastel", "8.5"))
	o.Add(product(2, "Coxinha", "6"))

	lines := o.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, int64(1), lines[0].ID)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.Equal(t, int64(2), lines[1].ID)
	assert.Equal(t, 1, lines[1].Quantity)
}

func TestAdd_SameProductTwiceIncrements(t *testing.T) {
	o := New(nil)
	p := product(1, "Pastel", "8.5")

	o.Add(p)
	o.Add(p)

	lines := o.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestAdd_IncrementKeepsPosition(t *testing.T) {
	o := New(nil)
	a, b := product(1, "A", "1"), product(2, "B", "2")
	o.Add(a)
	o.Add(b)
	o.Add(a)

	lines := o.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, int64(1), lines[0].ID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, int64(2), lines[1].ID)
}

func TestAdd_CopiesProductAtAddTime(t *testing.T) {
	o := New(nil)
	p := product(1, "Pastel", "8.5")
	o.Add(p)

	p.Name = "Renamed"
	p.Price = decimal.NewFromInt(99)

	l, ok := o.Line(1)
	require.True(t, ok)
	assert.Equal(t, "Pastel", l.Name)
	assert.True(t, decimal.RequireFromString("8.5").Equal(l.Price))
}

func TestSetQuantity(t *testing.T) {
	tests := []struct {
		name        string
		id          int64
		qty         int
		wantChanged bool
		wantLines   []Line
	}{
		{
			name:        "set quantity: ok",
			id:          1,
			qty:         5,
			wantChanged: true,
			wantLines:   []Line{{Product: product(1, "A", "1"), Quantity: 5}, {Product: product(2, "B", "2"), Quantity: 1}},
		},
		{
			name:        "zero removes line",
			id:          1,
			qty:         0,
			wantChanged: true,
			wantLines:   []Line{{Product: product(2, "B", "2"), Quantity: 1}},
		},
		{
			name:        "negative removes line",
			id:          2,
			qty:         -1,
			wantChanged: true,
			wantLines:   []Line{{Product: product(1, "A", "1"), Quantity: 1}},
		},
		{
			name:        "unknown id is noop",
			id:          42,
			qty:         3,
			wantChanged: false,
			wantLines:   []Line{{Product: product(1, "A", "1"), Quantity: 1}, {Product: product(2, "B", "2"), Quantity: 1}},
		},
		{
			name:        "unknown id with zero is noop",
			id:          42,
			qty:         0,
			wantChanged: false,
			wantLines:   []Line{{Product: product(1, "A", "1"), Quantity: 1}, {Product: product(2, "B", "2"), Quantity: 1}},
		},
		{
			name:        "same quantity is noop",
			id:          1,
			qty:         1,
			wantChanged: false,
			wantLines:   []Line{{Product: product(1, "A", "1"), Quantity: 1}, {Product: product(2, "B", "2"), Quantity: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := New(nil)
			o.Add(product(1, "A", "1"))
			o.Add(product(2, "B", "2"))

			assert.Equal(t, tt.wantChanged, o.SetQuantity(tt.id, tt.qty))
			assert.Empty(t, cmp.Diff(tt.wantLines, o.Lines(), decimalComparer))
		})
	}
}

func TestAdd_StopsAtMaxQuantity(t *testing.T) {
	o := New([]Line{{Product: product(1, "A", "1"), Quantity: MaxQuantity - 1}})

	assert.True(t, o.Add(product(1, "A", "1")))
	assert.False(t, o.Add(product(1, "A", "1")))

	line, ok := o.Line(1)
	require.True(t, ok)
	assert.Equal(t, MaxQuantity, line.Quantity)
}

func TestSetQuantity_AboveMaxIsRefused(t *testing.T) {
	o := New(nil)
	o.Add(product(1, "A", "1"))

	assert.True(t, o.SetQuantity(1, MaxQuantity))
	assert.False(t, o.SetQuantity(1, MaxQuantity+1))
	assert.False(t, o.SetQuantity(1, int(^uint(0)>>1)))

	line, _ := o.Line(1)
	assert.Equal(t, MaxQuantity, line.Quantity)
	assert.Equal(t, MaxQuantity, o.Units())
}

func TestRemove(t *testing.T) {
	o := New(nil)
	o.Add(product(1, "A", "1"))

	assert.False(t, o.Remove(2))
	assert.Len(t, o.Lines(), 1)

	assert.True(t, o.Remove(1))
	assert.True(t, o.Empty())
}

func TestClear(t *testing.T) {
	o := New(nil)
	assert.False(t, o.Clear(), "clearing an empty order changes nothing")

	o.Add(product(1, "A", "1"))
	o.Add(product(2, "B", "2"))

	assert.True(t, o.Clear())
	assert.True(t, o.Empty())
	assert.Empty(t, o.Lines())
	assert.True(t, o.Total().IsZero())
}

func TestTotal(t *testing.T) {
	tests := []struct {
		name  string
		lines []Line
		want  string
	}{
		{name: "empty order", want: "0"},
		{
			name: "two lines",
			lines: []Line{
				{Product: product(1, "Pastel", "8.50"), Quantity: 2},
				{Product: product(2, "Caldo", "3.00"), Quantity: 1},
			},
			want: "20.00",
		},
		{
			name: "no binary float drift",
			lines: []Line{
				{Product: product(1, "A", "0.1"), Quantity: 1},
				{Product: product(2, "B", "0.2"), Quantity: 1},
			},
			want: "0.3",
		},
		{
			name: "many units",
			lines: []Line{
				{Product: product(1, "A", "19.99"), Quantity: 3},
			},
			want: "59.97",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.lines).Total()
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestTotal_ExactTwentyForSpecExample(t *testing.T) {
	o := New([]Line{
		{Product: product(1, "Pastel", "8.50"), Quantity: 2},
		{Product: product(2, "Caldo", "3.00"), Quantity: 1},
	})

	assert.Equal(t, "20.00", o.Total().StringFixed(2))
}

func TestUnits(t *testing.T) {
	o := New(nil)
	assert.Equal(t, 0, o.Units())

	o.Add(product(1, "A", "1"))
	o.Add(product(1, "A", "1"))
	o.Add(product(2, "B", "2"))
	assert.Equal(t, 3, o.Units())
}

func TestNew_DropsInvalidStoredLines(t *testing.T) {
	o := New([]Line{
		{Product: product(1, "A", "1"), Quantity: 2},
		{Product: product(2, "B", "2"), Quantity: 0},
		{Product: product(3, "C", "3"), Quantity: -4},
		{Product: product(1, "A again", "9"), Quantity: 1},
		{Product: product(4, "D", "4"), Quantity: MaxQuantity + 1},
		{Product: product(5, "", "5"), Quantity: 1},
		{Product: product(6, "F", "0"), Quantity: 1},
		{Product: product(0, "G", "1"), Quantity: 1},
		{Product: catalog.Product{ID: 8, Name: "H", Price: decimal.New(1, 200000000)}, Quantity: 1},
		{Product: product(9, "I", "9"), Quantity: MaxQuantity},
	})

	want := []Line{
		{Product: product(1, "A", "1"), Quantity: 2},
		{Product: product(9, "I", "9"), Quantity: MaxQuantity},
	}
	assert.Empty(t, cmp.Diff(want, o.Lines(), decimalComparer))
}

func TestLine_JSONIsFlat(t *testing.T) {
	l := Line{Product: product(7, "Pastel", "8.5"), Quantity: 2}

	data, err := json.Marshal(l)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"name":"Pastel","price":"8.5","quantity":2}`, string(data))
}

func TestMaxID(t *testing.T) {
	assert.Equal(t, int64(0), MaxID(nil))
	assert.Equal(t, int64(9), MaxID([]Line{
		{Product: product(3, "A", "1"), Quantity: 1},
		{Product: product(9, "B", "1"), Quantity: 1},
	}))
}

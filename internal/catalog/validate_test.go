package catalog

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		text      string
		want      string
		wantError string
	}{
		{text: "8.5", want: "8.5"},
		{text: "0.01", want: "0.01"},
		{text: "  3 ", want: "3"},
		{text: "999999999999.999999", want: "999999999999.999999"},
		{text: "8.500000", want: "8.5"},
		{text: "", wantError: "invalid price: must not be empty"},
		{text: "0", wantError: "invalid price: must be greater than zero"},
		{text: "-0.5", wantError: "invalid price: must be greater than zero"},
		{text: "ten", wantError: `invalid price: "ten" is not a number`},
		{text: "8,50", wantError: `invalid price: "8,50" is not a number`},
		{text: "1e2", wantError: `invalid price: "1e2" is not a plain decimal number`},
		{text: "1e200000000", wantError: `invalid price: "1e200000000" is not a plain decimal number`},
		{text: "1E-5", wantError: `invalid price: "1E-5" is not a plain decimal number`},
		{text: "1000000000000", wantError: "invalid price: must have at most 12 digits before the decimal point"},
		{text: "0.0000001", wantError: "invalid price: must have at most 6 decimal places"},
		{text: "1" + strings.Repeat("0", 40), wantError: "invalid price: must be at most 32 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := ParsePrice(tt.text)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestProduct_Valid(t *testing.T) {
	ok := Product{ID: 1, Name: "Pastel", Price: decimal.RequireFromString("8.5")}

	tests := []struct {
		name   string
		mutate func(p *Product)
		want   bool
	}{
		{"valid", func(p *Product) {}, true},
		{"zero id", func(p *Product) { p.ID = 0 }, false},
		{"negative id", func(p *Product) { p.ID = -4 }, false},
		{"blank name", func(p *Product) { p.Name = "  " }, false},
		{"zero price", func(p *Product) { p.Price = decimal.Zero }, false},
		{"negative price", func(p *Product) { p.Price = decimal.NewFromInt(-1) }, false},
		{"huge exponent", func(p *Product) { p.Price = decimal.New(1, 200000000) }, false},
		{"too fine", func(p *Product) { p.Price = decimal.New(1, -9) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ok
			tt.mutate(&p)
			assert.Equal(t, tt.want, p.Valid())
		})
	}
}

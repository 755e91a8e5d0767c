package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/masego-dev/kasieats-backend/pkg/types"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPriceWithTax(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"whole rands", "100.00", "115.00"},
		{"cart scenario", "240.00", "276.00"},
		{"zero", "0.00", "0.00"},
		{"rounds to cents", "33.33", "38.33"}, // 33.33 * 0.15 = 4.9995 -> 5.00
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PriceWithTax(dec(tt.in))
			if !got.Equal(dec(tt.want)) {
				t.Fatalf("PriceWithTax(%s) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestTaxAmount(t *testing.T) {
	if got := TaxAmount(dec("240.00")); !got.Equal(dec("36.00")) {
		t.Fatalf("TaxAmount(240.00) = %s, want 36.00", got)
	}
}

func TestFormatPrice(t *testing.T) {
	if got := FormatPrice(dec("240.00")); got != "R276.00" {
		t.Fatalf("FormatPrice(240.00) = %q, want %q", got, "R276.00")
	}
	if got := FormatRands(dec("85.5")); got != "R85.50" {
		t.Fatalf("FormatRands(85.5) = %q, want %q", got, "R85.50")
	}
}

func TestLineTotal(t *testing.T) {
	addOns := types.AddOnSelections{
		{Ref: "extra-chakalaka", Name: "Extra Chakalaka", Type: "side", UnitPrice: dec("20.00")},
	}

	got := LineTotal(dec("100.00"), addOns, 2)
	if !got.Equal(dec("240.00")) {
		t.Fatalf("LineTotal = %s, want 240.00", got)
	}

	// No add-ons, quantity 1.
	got = LineTotal(dec("85.00"), nil, 1)
	if !got.Equal(dec("85.00")) {
		t.Fatalf("LineTotal = %s, want 85.00", got)
	}
}

func TestNewQuote(t *testing.T) {
	q := NewQuote(dec("240.00"))
	if !q.Subtotal.Equal(dec("240.00")) || !q.TaxAmount.Equal(dec("36.00")) || !q.Total.Equal(dec("276.00")) {
		t.Fatalf("unexpected quote: subtotal=%s tax=%s total=%s", q.Subtotal, q.TaxAmount, q.Total)
	}
}

// Package pricing computes line, cart, and tax-inclusive totals.
//
// Every function here is pure and total. Prices are tax-exclusive rands
// unless stated otherwise; VAT is applied once, at the cart level.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/masego-dev/kasieats-backend/pkg/types"
)

// TaxRate is the South African VAT rate. Fixed, not configurable per call.
var TaxRate = decimal.RequireFromString("0.15")

const currencyPrefix = "R"

// PriceWithTax returns the tax-inclusive price for a tax-exclusive amount.
func PriceWithTax(p decimal.Decimal) decimal.Decimal {
	return p.Add(TaxAmount(p))
}

// TaxAmount returns the VAT portion for a tax-exclusive amount, rounded to cents.
func TaxAmount(p decimal.Decimal) decimal.Decimal {
	return p.Mul(TaxRate).Round(2)
}

// FormatPrice renders a tax-exclusive amount as the tax-inclusive display
// string, e.g. FormatPrice(240) == "R276.00".
func FormatPrice(p decimal.Decimal) string {
	return FormatRands(PriceWithTax(p))
}

// FormatRands renders an amount as-is with the currency prefix and two
// decimal places.
func FormatRands(p decimal.Decimal) string {
	return currencyPrefix + p.StringFixed(2)
}

// LineTotal computes (unit base price + sum of selected add-on unit prices)
// multiplied by quantity. It never consults a cached total.
func LineTotal(unitBasePrice decimal.Decimal, addOns types.AddOnSelections, quantity int) decimal.Decimal {
	unit := unitBasePrice.Add(addOns.Sum())
	return unit.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// Quote is the priced summary of a cart at checkout.
type Quote struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

// NewQuote derives tax and total from a tax-exclusive subtotal.
func NewQuote(subtotal decimal.Decimal) Quote {
	tax := TaxAmount(subtotal)
	return Quote{
		Subtotal:  subtotal,
		TaxAmount: tax,
		Total:     subtotal.Add(tax),
	}
}

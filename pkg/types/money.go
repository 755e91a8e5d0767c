package types

import "github.com/shopspring/decimal"

func init() {
	// Amounts travel as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// AddOnSelection is the priced snapshot of a single customization (topping,
// side or beverage) attached to a line item. Once an order is created the
// selection is frozen; while in a cart it is replaced wholesale, never patched.
type AddOnSelection struct {
	Ref       string          `json:"ref"`
	Name      string          `json:"name"`
	Type      string          `json:"type,omitempty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// AddOnSelections is stored as a jsonb column on order line items.
type AddOnSelections []AddOnSelection

// Sum returns the combined unit price of all selections.
func (a AddOnSelections) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, sel := range a {
		total = total.Add(sel.UnitPrice)
	}
	return total
}

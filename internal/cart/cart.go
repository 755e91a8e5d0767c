// Package cart implements the storefront cart as a pure transition function
// over an immutable state value, with a redis-backed session store around it.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/masego-dev/kasieats-backend/internal/pricing"
	"github.com/masego-dev/kasieats-backend/pkg/types"
)

// LineItem is a cart line. Mutable while in the cart (via wholesale
// replacement), frozen once it becomes part of an order.
type LineItem struct {
	ID            string                `json:"id"`
	MealRef       string                `json:"mealRef"`
	MealName      string                `json:"mealName"`
	Quantity      int                   `json:"quantity"`
	UnitBasePrice decimal.Decimal       `json:"unitBasePrice"`
	AddOns        types.AddOnSelections `json:"selectedAddOns,omitempty"`
	ComputedTotal decimal.Decimal       `json:"computedTotal"`
}

// State is the full cart value. Item order is insertion order. Subtotal is
// tax-exclusive and always equals the sum of computed line totals.
type State struct {
	Items    []LineItem      `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Empty returns the zero cart.
func Empty() State {
	return State{Items: nil, Subtotal: decimal.Zero}
}

// Action is a cart transition. All transitions are total: an action that
// does not apply (unknown item id, etc.) yields an unchanged cart value,
// never an error.
type Action interface {
	isAction()
}

// AddItem appends a line item. A quantity below one is coerced to one.
type AddItem struct {
	Item LineItem
}

// RemoveItem drops the line with the given id. No-op if absent.
type RemoveItem struct {
	ItemID string
}

// UpdateQuantity replaces the line's quantity and reprices it from the unit
// components supplied on the action. Callers resolve current catalog prices
// before dispatching so the new total reflects them, not the stale cached
// total. A quantity of zero or less removes the line.
type UpdateQuantity struct {
	ItemID        string
	Quantity      int
	UnitBasePrice decimal.Decimal
	AddOns        types.AddOnSelections
}

// Clear empties the cart.
type Clear struct{}

func (AddItem) isAction()        {}
func (RemoveItem) isAction()     {}
func (UpdateQuantity) isAction() {}
func (Clear) isAction()          {}

// Reduce applies an action and returns the next state. The input state is
// never mutated; items are rebuilt from scratch on every transition.
func Reduce(state State, action Action) State {
	switch act := action.(type) {
	case AddItem:
		item := act.Item
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		item.ComputedTotal = pricing.LineTotal(item.UnitBasePrice, item.AddOns, item.Quantity)
		items := make([]LineItem, 0, len(state.Items)+1)
		items = append(items, state.Items...)
		items = append(items, item)
		return withSubtotal(items)

	case RemoveItem:
		items := make([]LineItem, 0, len(state.Items))
		for _, item := range state.Items {
			if item.ID != act.ItemID {
				items = append(items, item)
			}
		}
		return withSubtotal(items)

	case UpdateQuantity:
		if act.Quantity <= 0 {
			return Reduce(state, RemoveItem{ItemID: act.ItemID})
		}
		items := make([]LineItem, 0, len(state.Items))
		for _, item := range state.Items {
			if item.ID == act.ItemID {
				item.Quantity = act.Quantity
				item.UnitBasePrice = act.UnitBasePrice
				item.AddOns = act.AddOns
				item.ComputedTotal = pricing.LineTotal(item.UnitBasePrice, item.AddOns, item.Quantity)
			}
			items = append(items, item)
		}
		return withSubtotal(items)

	case Clear:
		return Empty()

	default:
		return state
	}
}

func withSubtotal(items []LineItem) State {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.ComputedTotal)
	}
	if len(items) == 0 {
		items = nil
	}
	return State{Items: items, Subtotal: subtotal}
}

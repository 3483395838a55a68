// Package cart holds the session-local shopping cart and its state
// transitions. Every operation returns a new State with the total recomputed
// as the full sum over all items, so the total can never drift from the
// line items.
package cart

import "github.com/shopspring/decimal"

// Item is a snapshot of a product at the time it was added to the cart.
// Name, price and image are denormalized so the cart survives later product
// edits unchanged.
type Item struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
}

type State struct {
	Items []Item  `json:"items"`
	Total float64 `json:"total"`
}

func Empty() State {
	return State{Items: []Item{}}
}

func (s State) IsEmpty() bool {
	return len(s.Items) == 0
}

// Count returns the number of units across all lines.
func (s State) Count() int {
	n := 0
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}

// AddItem merges the incoming quantity into an existing line for the same
// product, or appends a new line.
func (s State) AddItem(it Item) State {
	items := make([]Item, len(s.Items))
	copy(items, s.Items)

	merged := false
	for i := range items {
		if items[i].ProductID == it.ProductID {
			items[i].Quantity += it.Quantity
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, it)
	}
	return State{Items: items, Total: total(items)}
}

func (s State) RemoveItem(productID string) State {
	items := make([]Item, 0, len(s.Items))
	for _, it := range s.Items {
		if it.ProductID != productID {
			items = append(items, it)
		}
	}
	return State{Items: items, Total: total(items)}
}

// SetQuantity replaces the quantity of the matching line. It does not clamp:
// callers reject quantities below 1 before dispatching. An unknown product id
// leaves the state unchanged.
func (s State) SetQuantity(productID string, quantity int) State {
	items := make([]Item, len(s.Items))
	copy(items, s.Items)

	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = quantity
			break
		}
	}
	return State{Items: items, Total: total(items)}
}

func (s State) Clear() State {
	return Empty()
}

// total sums price*quantity over all items with decimal arithmetic so that
// repeated adds and updates cannot accumulate float error.
func total(items []Item) float64 {
	sum := decimal.Zero
	for _, it := range items {
		line := decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
		sum = sum.Add(line)
	}
	f, _ := sum.Float64()
	return f
}

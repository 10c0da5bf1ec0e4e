package domain

// LineItem is a single cart line: a product reference and a positive
// quantity. A line with quantity below 1 never exists; the reducer removes
// it instead.
type LineItem struct {
	Product  *Product `json:"product"`
	Quantity int      `json:"quantity"`
}

// CartState is the full state of a shopping cart. Items are ordered by
// insertion and unique by product ID. Total and ItemCount are derived from
// Items on every transition; they are never adjusted incrementally.
type CartState struct {
	Items     []LineItem `json:"items"`
	Total     float64    `json:"total"`
	ItemCount int        `json:"item_count"`
}

// EmptyCart returns the initial cart state.
func EmptyCart() CartState {
	return CartState{Items: []LineItem{}}
}

// Find returns the line item for the given product ID, or false.
func (s CartState) Find(productID string) (LineItem, bool) {
	for _, item := range s.Items {
		if item.Product.ID == productID {
			return item, true
		}
	}
	return LineItem{}, false
}

// Command is a cart state transition. The concrete variants are AddItem,
// RemoveItem, UpdateQuantity, and ClearCart; Reduce is the single dispatch
// point for all of them.
type Command interface {
	isCartCommand()
}

// AddItem merges into an existing line by incrementing its quantity, or
// appends a new line after the existing ones. A quantity below 1 falls back
// to the default of 1. The product's stock flag is not checked; callers gate
// on InStock in the UI.
type AddItem struct {
	Product  *Product
	Quantity int
}

// RemoveItem deletes the line for ProductID. Unknown IDs are a no-op.
type RemoveItem struct {
	ProductID string
}

// UpdateQuantity sets the line's quantity to an absolute value. A quantity
// of zero or below removes the line. Unknown IDs are a no-op and never
// create a line.
type UpdateQuantity struct {
	ProductID string
	Quantity  int
}

// ClearCart resets to the empty state.
type ClearCart struct{}

func (AddItem) isCartCommand()        {}
func (RemoveItem) isCartCommand()     {}
func (UpdateQuantity) isCartCommand() {}
func (ClearCart) isCartCommand()      {}

// Reduce applies a command to a cart state and returns the next state. It is
// a pure function: the input state is never mutated, no command fails, and
// invalid input degrades to a no-op. Total and ItemCount are recomputed from
// scratch over the resulting items.
func Reduce(state CartState, cmd Command) CartState {
	switch c := cmd.(type) {
	case AddItem:
		quantity := c.Quantity
		if quantity < 1 {
			quantity = 1
		}

		items := make([]LineItem, len(state.Items), len(state.Items)+1)
		copy(items, state.Items)

		merged := false
		for i := range items {
			if items[i].Product.ID == c.Product.ID {
				items[i].Quantity += quantity
				merged = true
				break
			}
		}
		if !merged {
			items = append(items, LineItem{Product: c.Product, Quantity: quantity})
		}

		return recompute(items)

	case RemoveItem:
		items := make([]LineItem, 0, len(state.Items))
		for _, item := range state.Items {
			if item.Product.ID != c.ProductID {
				items = append(items, item)
			}
		}
		return recompute(items)

	case UpdateQuantity:
		if c.Quantity <= 0 {
			return Reduce(state, RemoveItem{ProductID: c.ProductID})
		}

		items := make([]LineItem, len(state.Items))
		copy(items, state.Items)
		for i := range items {
			if items[i].Product.ID == c.ProductID {
				items[i].Quantity = c.Quantity
				break
			}
		}
		return recompute(items)

	case ClearCart:
		return EmptyCart()
	}

	return state
}

// recompute derives total and item count from the item list.
func recompute(items []LineItem) CartState {
	var total float64
	var count int
	for _, item := range items {
		total += item.Product.Price * float64(item.Quantity)
		count += item.Quantity
	}
	return CartState{Items: items, Total: total, ItemCount: count}
}

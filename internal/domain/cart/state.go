package cart

import "github.com/shopspring/decimal"

// State is the pure in-memory representation of a cart: the line items plus
// aggregates derived after every mutation. All methods are total functions
// over local data; persistence is layered on top by the application store.
type State struct {
	Items      []Item
	TotalItems int
	TotalPrice decimal.Decimal
}

// NewState creates an empty cart state
func NewState() *State {
	return &State{
		Items:      make([]Item, 0),
		TotalPrice: decimal.Zero,
	}
}

// AddItem adds a line to the cart. When an existing line matches on
// (ProductID, Color, Storage) its quantity is incremented by item.Quantity;
// otherwise a new line is appended under a freshly allocated local ID.
// The incoming item's ID field is ignored.
func (s *State) AddItem(item Item) Item {
	key := item.Variant()
	for idx := range s.Items {
		if s.Items[idx].Variant() == key {
			s.Items[idx].Quantity += item.Quantity
			s.recompute()
			return s.Items[idx]
		}
	}

	item.ID = s.nextID()
	s.Items = append(s.Items, item)
	s.recompute()
	return item
}

// RemoveItem removes the line with the given ID. Unknown IDs are a no-op.
func (s *State) RemoveItem(id int64) {
	s.RemoveItems([]int64{id})
}

// RemoveItems removes every line whose ID appears in ids. Unknown IDs are
// silently skipped.
func (s *State) RemoveItems(ids []int64) {
	if len(ids) == 0 {
		return
	}
	drop := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	kept := s.Items[:0]
	for _, item := range s.Items {
		if _, ok := drop[item.ID]; !ok {
			kept = append(kept, item)
		}
	}
	s.Items = kept
	s.recompute()
}

// UpdateQuantity sets the quantity of the line with the given ID.
// A quantity of zero or less removes the line.
func (s *State) UpdateQuantity(id int64, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(id)
		return
	}
	for idx := range s.Items {
		if s.Items[idx].ID == id {
			s.Items[idx].Quantity = quantity
			break
		}
	}
	s.recompute()
}

// SetItems replaces the entire cart with the given lines. This is the only
// path used to reconcile with server state; prior local state is fully
// discarded so nothing can be merged twice.
func (s *State) SetItems(items []Item) {
	s.Items = make([]Item, len(items))
	copy(s.Items, items)
	s.recompute()
}

// Clear empties the cart
func (s *State) Clear() {
	s.Items = s.Items[:0]
	s.recompute()
}

// ItemByID looks up a line by its local ID
func (s *State) ItemByID(id int64) (Item, bool) {
	for _, item := range s.Items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// IsEmpty reports whether the cart has no lines
func (s *State) IsEmpty() bool {
	return len(s.Items) == 0
}

// Snapshot returns a copy of the current lines, safe to hold across
// further mutations.
func (s *State) Snapshot() []Item {
	items := make([]Item, len(s.Items))
	copy(items, s.Items)
	return items
}

// nextID allocates a monotonically increasing local line ID:
// max existing + 1, or 1 for an empty cart.
func (s *State) nextID() int64 {
	var maxID int64
	for _, item := range s.Items {
		if item.ID > maxID {
			maxID = item.ID
		}
	}
	return maxID + 1
}

// recompute rederives TotalItems and TotalPrice from the current lines
func (s *State) recompute() {
	total := 0
	price := decimal.Zero
	for _, item := range s.Items {
		total += item.Quantity
		price = price.Add(item.Subtotal())
	}
	s.TotalItems = total
	s.TotalPrice = price
}

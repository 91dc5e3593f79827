package wishlist

// State is the pure in-memory representation of one identity's wishlist.
// Unlike the cart there is no price aggregation; the only derived value is
// the entry count. ProductID uniqueness is enforced here.
type State struct {
	Items []Item
}

// NewState creates an empty wishlist state
func NewState() *State {
	return &State{Items: make([]Item, 0)}
}

// AddItem appends an entry unless its ProductID is already present.
// Duplicate adds are a silent no-op and report false. The incoming item's
// ID field is ignored.
func (s *State) AddItem(item Item) (Item, bool) {
	if s.Contains(item.ProductID) {
		return Item{}, false
	}
	item.ID = s.nextID()
	s.Items = append(s.Items, item)
	return item, true
}

// RemoveItem removes the entry with the given local ID. Unknown IDs are a no-op.
func (s *State) RemoveItem(id int64) {
	kept := s.Items[:0]
	for _, item := range s.Items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	s.Items = kept
}

// RemoveByProductID removes the entry for the given product, if present
func (s *State) RemoveByProductID(productID int64) bool {
	for _, item := range s.Items {
		if item.ProductID == productID {
			s.RemoveItem(item.ID)
			return true
		}
	}
	return false
}

// Toggle removes the entry for item.ProductID when present, otherwise adds
// it. It reports whether the product is in the wishlist after the call.
func (s *State) Toggle(item Item) bool {
	if s.RemoveByProductID(item.ProductID) {
		return false
	}
	s.AddItem(item)
	return true
}

// Contains reports whether the product is in the wishlist
func (s *State) Contains(productID int64) bool {
	for _, item := range s.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

// SetItems replaces the entire wishlist with the given entries
func (s *State) SetItems(items []Item) {
	s.Items = make([]Item, len(items))
	copy(s.Items, items)
}

// Clear empties the wishlist
func (s *State) Clear() {
	s.Items = s.Items[:0]
}

// ItemByID looks up an entry by its local ID
func (s *State) ItemByID(id int64) (Item, bool) {
	for _, item := range s.Items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// Snapshot returns a copy of the current entries
func (s *State) Snapshot() []Item {
	items := make([]Item, len(s.Items))
	copy(items, s.Items)
	return items
}

// nextID allocates a monotonically increasing local entry ID
func (s *State) nextID() int64 {
	var maxID int64
	for _, item := range s.Items {
		if item.ID > maxID {
			maxID = item.ID
		}
	}
	return maxID + 1
}

package cart

import (
	"encoding/json"
	"fmt"
)

// EncodeItems serializes cart lines for the keyed store
func EncodeItems(items []Item) ([]byte, error) {
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("cart: failed to encode items: %w", err)
	}
	return data, nil
}

// DecodeItems deserializes cart lines read from the keyed store
func DecodeItems(data []byte) ([]Item, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("cart: failed to decode items: %w", err)
	}
	return items, nil
}

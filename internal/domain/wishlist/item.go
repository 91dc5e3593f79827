package wishlist

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shopfront/backend/internal/domain/shared"
)

// Item represents one wishlist entry. ProductID is unique per identity;
// duplicates are rejected at the state level.
type Item struct {
	ID           int64           `json:"id"`
	ProductID    int64           `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductImage string          `json:"product_image"`
	Price        decimal.Decimal `json:"price"`
	InStock      bool            `json:"in_stock"`
}

// Validate checks the invariants an entry must satisfy
func (i Item) Validate() error {
	if i.ProductID <= 0 {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID must be positive")
	}
	if i.Price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	return nil
}

// EncodeItems serializes wishlist entries for the keyed store
func EncodeItems(items []Item) ([]byte, error) {
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("wishlist: failed to encode items: %w", err)
	}
	return data, nil
}

// DecodeItems deserializes wishlist entries read from the keyed store
func DecodeItems(data []byte) ([]Item, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("wishlist: failed to decode items: %w", err)
	}
	return items, nil
}

package cart

import (
	"github.com/shopspring/decimal"

	"github.com/shopfront/backend/internal/domain/shared"
)

// Item represents one line in a shopper's cart. ID is a local surrogate,
// unique within a single cart state and never meaningful to the server.
// Two lines with the same (ProductID, Color, Storage) tuple are the same
// logical line and must be merged by summing quantity.
type Item struct {
	ID              int64            `json:"id"`
	ProductID       int64            `json:"product_id"`
	ProductName     string           `json:"product_name"`
	ProductImage    string           `json:"product_image"`
	Price           decimal.Decimal  `json:"price"`
	DiscountPercent *decimal.Decimal `json:"discount_percent,omitempty"`
	AppliedPrice    *decimal.Decimal `json:"applied_price,omitempty"`
	Quantity        int              `json:"quantity"`
	Color           string           `json:"color,omitempty"`
	Storage         string           `json:"storage,omitempty"`
}

// Validate checks the invariants a line must satisfy before entering the cart
func (i Item) Validate() error {
	if i.ProductID <= 0 {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID must be positive")
	}
	if i.Quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if i.Price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	return nil
}

// EffectiveUnitPrice returns the applied price when present, falling back
// to the base price.
func (i Item) EffectiveUnitPrice() decimal.Decimal {
	if i.AppliedPrice != nil {
		return *i.AppliedPrice
	}
	return i.Price
}

// Subtotal returns the effective unit price times the quantity
func (i Item) Subtotal() decimal.Decimal {
	return i.EffectiveUnitPrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// VariantKey identifies the logical line an item belongs to
type VariantKey struct {
	ProductID int64
	Color     string
	Storage   string
}

// Variant returns the item's logical line key
func (i Item) Variant() VariantKey {
	return VariantKey{ProductID: i.ProductID, Color: i.Color, Storage: i.Storage}
}

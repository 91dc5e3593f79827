package dto

import (
	"github.com/shopspring/decimal"

	"github.com/shopfront/backend/internal/domain/cart"
	"github.com/shopfront/backend/internal/domain/wishlist"
)

// AddCartItemRequest adds one line to the cart
type AddCartItemRequest struct {
	ProductID    int64            `json:"product_id" binding:"required,gt=0"`
	ProductName  string           `json:"product_name" binding:"required"`
	ProductImage string           `json:"product_image"`
	Price        decimal.Decimal  `json:"price" binding:"required,dgte0"`
	AppliedPrice *decimal.Decimal `json:"applied_price,omitempty" binding:"omitempty,dgte0"`
	Quantity     int              `json:"quantity" binding:"required,gt=0"`
	Color        string           `json:"color"`
	Storage      string           `json:"storage"`
}

// ToItem converts the request into a cart line
func (r AddCartItemRequest) ToItem() cart.Item {
	return cart.Item{
		ProductID:    r.ProductID,
		ProductName:  r.ProductName,
		ProductImage: r.ProductImage,
		Price:        r.Price,
		AppliedPrice: r.AppliedPrice,
		Quantity:     r.Quantity,
		Color:        r.Color,
		Storage:      r.Storage,
	}
}

// UpdateQuantityRequest sets a line's quantity; zero removes the line
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"gte=0"`
}

// UndoItemsRequest undoes multiple staged removals at once
type UndoItemsRequest struct {
	IDs []int64 `json:"ids" binding:"required,min=1"`
}

// CartItemResponse is one cart line on the wire
type CartItemResponse struct {
	ID           int64            `json:"id"`
	ProductID    int64            `json:"product_id"`
	ProductName  string           `json:"product_name"`
	ProductImage string           `json:"product_image,omitempty"`
	Price        decimal.Decimal  `json:"price"`
	AppliedPrice *decimal.Decimal `json:"applied_price,omitempty"`
	Quantity     int              `json:"quantity"`
	Color        string           `json:"color,omitempty"`
	Storage      string           `json:"storage,omitempty"`
	Subtotal     decimal.Decimal  `json:"subtotal"`
}

// CartResponse is the full cart with its derived aggregates
type CartResponse struct {
	Items      []CartItemResponse `json:"items"`
	TotalItems int                `json:"total_items"`
	TotalPrice decimal.Decimal    `json:"total_price"`
	SyncState  string             `json:"sync_state"`
}

// NewCartItemResponse maps a cart line
func NewCartItemResponse(item cart.Item) CartItemResponse {
	return CartItemResponse{
		ID:           item.ID,
		ProductID:    item.ProductID,
		ProductName:  item.ProductName,
		ProductImage: item.ProductImage,
		Price:        item.Price,
		AppliedPrice: item.AppliedPrice,
		Quantity:     item.Quantity,
		Color:        item.Color,
		Storage:      item.Storage,
		Subtotal:     item.Subtotal(),
	}
}

// ToggleWishlistRequest toggles a product in and out of the wishlist
type ToggleWishlistRequest struct {
	ProductID    int64           `json:"product_id" binding:"required,gt=0"`
	ProductName  string          `json:"product_name" binding:"required"`
	ProductImage string          `json:"product_image"`
	Price        decimal.Decimal `json:"price" binding:"dgte0"`
	InStock      bool            `json:"in_stock"`
}

// ToItem converts the request into a wishlist entry
func (r ToggleWishlistRequest) ToItem() wishlist.Item {
	return wishlist.Item{
		ProductID:    r.ProductID,
		ProductName:  r.ProductName,
		ProductImage: r.ProductImage,
		Price:        r.Price,
		InStock:      r.InStock,
	}
}

// WishlistItemResponse is one wishlist entry on the wire
type WishlistItemResponse struct {
	ID           int64           `json:"id"`
	ProductID    int64           `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductImage string          `json:"product_image,omitempty"`
	Price        decimal.Decimal `json:"price"`
	InStock      bool            `json:"in_stock"`
}

// WishlistResponse is the full visible wishlist
type WishlistResponse struct {
	Identity string                 `json:"identity"`
	Items    []WishlistItemResponse `json:"items"`
}

// NewWishlistItemResponse maps a wishlist entry
func NewWishlistItemResponse(item wishlist.Item) WishlistItemResponse {
	return WishlistItemResponse{
		ID:           item.ID,
		ProductID:    item.ProductID,
		ProductName:  item.ProductName,
		ProductImage: item.ProductImage,
		Price:        item.Price,
		InStock:      item.InStock,
	}
}

// CreateSessionRequest presents a session token issued by the commerce backend
type CreateSessionRequest struct {
	Token string `json:"token" binding:"required"`
}

// SessionResponse describes the signed-in shopper
type SessionResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username,omitempty"`
}

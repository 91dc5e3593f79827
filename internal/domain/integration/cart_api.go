package integration

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// Common integration errors. Adapters map wire-level failure codes onto
// these sentinels so callers can branch with errors.Is.
var (
	// ErrQuantityCeilingExceeded is returned when a write would push a
	// product past the per-product quantity ceiling enforced server-side.
	ErrQuantityCeilingExceeded = errors.New("integration: per-product quantity ceiling exceeded")

	// ErrCartConcurrentlyModified is returned when the server cart changed
	// between read and write (optimistic concurrency conflict).
	ErrCartConcurrentlyModified = errors.New("integration: cart was concurrently modified")

	// ErrPlatformUnavailable is returned when the commerce backend cannot
	// be reached at all.
	ErrPlatformUnavailable = errors.New("integration: commerce platform unavailable")

	// ErrRequestFailed is returned for any other failed request.
	ErrRequestFailed = errors.New("integration: commerce platform request failed")

	// ErrNotAuthenticated is returned when a call requires a signed-in
	// shopper and the session token is missing or rejected.
	ErrNotAuthenticated = errors.New("integration: not authenticated")
)

// ServerCartItem is one line of the authoritative server-held cart
type ServerCartItem struct {
	ProductID    int64
	ProductName  string
	ProductImage string
	Price        decimal.Decimal
	AppliedPrice *decimal.Decimal
	Quantity     int
	Color        string
	Storage      string
}

// ServerCart is the authoritative cart for an authenticated shopper
type ServerCart struct {
	Items []ServerCartItem
}

// AddToCartRequest adds quantity of one product to the server cart
type AddToCartRequest struct {
	ProductID int64
	Quantity  int
	Color     string
	Storage   string
}

// GuestCartLine is one guest line submitted in a bulk merge
type GuestCartLine struct {
	ProductID int64
	Quantity  int
}

// MergeGuestCartRequest merges a guest cart into the server cart in one call
type MergeGuestCartRequest struct {
	GuestCartItems []GuestCartLine
}

// CartAPI is the contract to the remote commerce backend's cart endpoints.
// Calls carry the shopper's session through the context-bound token the
// adapter was configured with; they are not cancellable once issued beyond
// normal context cancellation.
type CartAPI interface {
	// GetCurrentCart fetches the authoritative cart for the signed-in shopper
	GetCurrentCart(ctx context.Context, sessionToken string) (*ServerCart, error)

	// AddToCart adds one product to the signed-in shopper's cart
	AddToCart(ctx context.Context, sessionToken string, req AddToCartRequest) error

	// MergeGuestCart merges the given guest lines into the signed-in
	// shopper's cart in a single call, summing quantities per product.
	MergeGuestCart(ctx context.Context, sessionToken string, req MergeGuestCartRequest) error

	// RemoveFromCart removes one product from the signed-in shopper's cart
	RemoveFromCart(ctx context.Context, sessionToken string, productID int64) error
}

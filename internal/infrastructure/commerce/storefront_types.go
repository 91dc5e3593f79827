package commerce

import "github.com/shopspring/decimal"

// Error codes returned by the commerce backend's cart endpoints
const (
	errCodeQuantityCeiling  = "QUANTITY_CEILING_EXCEEDED"
	errCodeConcurrentUpdate = "CART_VERSION_CONFLICT"
	errCodeUnauthorized     = "UNAUTHORIZED"
)

// storefrontEnvelope is the common response wrapper
type storefrontEnvelope struct {
	Success bool             `json:"success"`
	Error   *storefrontError `json:"error,omitempty"`
}

// storefrontError carries a machine-readable failure reason
type storefrontError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// storefrontCartItem is one cart line on the wire
type storefrontCartItem struct {
	ProductID    int64            `json:"product_id"`
	ProductName  string           `json:"product_name"`
	ProductImage string           `json:"product_image"`
	Price        decimal.Decimal  `json:"price"`
	AppliedPrice *decimal.Decimal `json:"applied_price,omitempty"`
	Quantity     int              `json:"quantity"`
	Color        string           `json:"color,omitempty"`
	Storage      string           `json:"storage,omitempty"`
}

// storefrontCartResponse is the GET /cart payload
type storefrontCartResponse struct {
	storefrontEnvelope
	Data *struct {
		Items []storefrontCartItem `json:"items"`
	} `json:"data,omitempty"`
}

// storefrontAddRequest is the POST /cart/items payload
type storefrontAddRequest struct {
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Color     string `json:"color,omitempty"`
	Storage   string `json:"storage,omitempty"`
}

// storefrontMergeLine is one guest line in the bulk merge payload
type storefrontMergeLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// storefrontMergeRequest is the POST /cart/merge payload
type storefrontMergeRequest struct {
	GuestCartItems []storefrontMergeLine `json:"guest_cart_items"`
}

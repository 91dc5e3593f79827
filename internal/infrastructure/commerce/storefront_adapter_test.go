package commerce

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/backend/internal/domain/integration"
)

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *StorefrontAdapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	adapter, err := NewStorefrontAdapter(NewStorefrontConfig(server.URL, "test-key", "test-secret"))
	require.NoError(t, err)
	return adapter
}

func TestNewStorefrontAdapter_InvalidConfig(t *testing.T) {
	_, err := NewStorefrontAdapter(&StorefrontConfig{})
	assert.ErrorIs(t, err, ErrStorefrontConfigMissingBaseURL)

	_, err = NewStorefrontAdapter(&StorefrontConfig{BaseURL: "https://example.com"})
	assert.ErrorIs(t, err, ErrStorefrontConfigMissingAPIKey)
}

func TestGetCurrentCart(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/cart", r.URL.Path)
		assert.Equal(t, "Bearer session-token", r.Header.Get("Authorization"))
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		assert.NotEmpty(t, r.Header.Get("X-Signature"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"items": []map[string]any{
					{"product_id": 5, "product_name": "Phone X", "price": "499.99", "quantity": 3},
				},
			},
		})
	})

	cart, err := adapter.GetCurrentCart(context.Background(), "session-token")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(5), cart.Items[0].ProductID)
	assert.Equal(t, "Phone X", cart.Items[0].ProductName)
	assert.True(t, decimal.NewFromFloat(499.99).Equal(cart.Items[0].Price))
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestGetCurrentCart_EmptyData(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	})

	cart, err := adapter.GetCurrentCart(context.Background(), "tok")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestMergeGuestCart_QuantityCeiling(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cart/merge", r.URL.Path)

		var req storefrontMergeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req.GuestCartItems, 2)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   map[string]string{"code": "QUANTITY_CEILING_EXCEEDED", "message": "product 5 exceeds limit"},
		})
	})

	err := adapter.MergeGuestCart(context.Background(), "tok", integration.MergeGuestCartRequest{
		GuestCartItems: []integration.GuestCartLine{
			{ProductID: 5, Quantity: 12},
			{ProductID: 7, Quantity: 1},
		},
	})
	assert.ErrorIs(t, err, integration.ErrQuantityCeilingExceeded)
}

func TestMergeGuestCart_ConcurrentConflict(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   map[string]string{"code": "CART_VERSION_CONFLICT", "message": "cart changed"},
		})
	})

	err := adapter.MergeGuestCart(context.Background(), "tok", integration.MergeGuestCartRequest{})
	assert.ErrorIs(t, err, integration.ErrCartConcurrentlyModified)
}

func TestAddToCart_Success(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/cart/items", r.URL.Path)

		var req storefrontAddRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(9), req.ProductID)
		assert.Equal(t, 2, req.Quantity)
		assert.Equal(t, "black", req.Color)

		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	})

	err := adapter.AddToCart(context.Background(), "tok", integration.AddToCartRequest{
		ProductID: 9, Quantity: 2, Color: "black",
	})
	assert.NoError(t, err)
}

func TestDoRequest_Unauthorized(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := adapter.GetCurrentCart(context.Background(), "expired")
	assert.ErrorIs(t, err, integration.ErrNotAuthenticated)
}

func TestDoRequest_GenericHTTPError(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := adapter.GetCurrentCart(context.Background(), "tok")
	assert.ErrorIs(t, err, integration.ErrRequestFailed)
}

func TestDoRequest_Unreachable(t *testing.T) {
	adapter, err := NewStorefrontAdapter(NewStorefrontConfig("http://127.0.0.1:1", "k", "s"))
	require.NoError(t, err)

	_, err = adapter.GetCurrentCart(context.Background(), "tok")
	assert.ErrorIs(t, err, integration.ErrPlatformUnavailable)
}

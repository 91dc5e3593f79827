package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/shopfront/backend/internal/domain/integration"
)

// maxResponseSize limits the response body size to prevent memory exhaustion
const maxResponseSize = 4 * 1024 * 1024 // 4MB max response

// StorefrontAdapter implements integration.CartAPI against the remote
// commerce backend's REST cart endpoints.
type StorefrontAdapter struct {
	config     *StorefrontConfig
	httpClient *http.Client
}

// NewStorefrontAdapter creates a new adapter with the given configuration
func NewStorefrontAdapter(config *StorefrontConfig) (*StorefrontAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &StorefrontAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// GetCurrentCart fetches the authoritative cart for the signed-in shopper
func (a *StorefrontAdapter) GetCurrentCart(ctx context.Context, sessionToken string) (*integration.ServerCart, error) {
	respBody, err := a.doRequest(ctx, http.MethodGet, "/cart", sessionToken, nil)
	if err != nil {
		return nil, err
	}

	var resp storefrontCartResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("commerce: failed to parse cart response: %w", err)
	}
	if !resp.Success {
		return nil, mapStorefrontError(resp.Error)
	}

	cart := &integration.ServerCart{Items: make([]integration.ServerCartItem, 0)}
	if resp.Data == nil {
		return cart, nil
	}
	for _, item := range resp.Data.Items {
		cart.Items = append(cart.Items, integration.ServerCartItem{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			ProductImage: item.ProductImage,
			Price:        item.Price,
			AppliedPrice: item.AppliedPrice,
			Quantity:     item.Quantity,
			Color:        item.Color,
			Storage:      item.Storage,
		})
	}
	return cart, nil
}

// AddToCart adds one product to the signed-in shopper's cart
func (a *StorefrontAdapter) AddToCart(ctx context.Context, sessionToken string, req integration.AddToCartRequest) error {
	payload := storefrontAddRequest{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Color:     req.Color,
		Storage:   req.Storage,
	}
	respBody, err := a.doRequest(ctx, http.MethodPost, "/cart/items", sessionToken, payload)
	if err != nil {
		return err
	}
	return checkEnvelope(respBody)
}

// MergeGuestCart merges guest lines into the server cart in a single call
func (a *StorefrontAdapter) MergeGuestCart(ctx context.Context, sessionToken string, req integration.MergeGuestCartRequest) error {
	payload := storefrontMergeRequest{
		GuestCartItems: make([]storefrontMergeLine, 0, len(req.GuestCartItems)),
	}
	for _, line := range req.GuestCartItems {
		payload.GuestCartItems = append(payload.GuestCartItems, storefrontMergeLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}
	respBody, err := a.doRequest(ctx, http.MethodPost, "/cart/merge", sessionToken, payload)
	if err != nil {
		return err
	}
	return checkEnvelope(respBody)
}

// RemoveFromCart removes one product from the signed-in shopper's cart
func (a *StorefrontAdapter) RemoveFromCart(ctx context.Context, sessionToken string, productID int64) error {
	path := "/cart/items/" + strconv.FormatInt(productID, 10)
	respBody, err := a.doRequest(ctx, http.MethodDelete, path, sessionToken, nil)
	if err != nil {
		return err
	}
	return checkEnvelope(respBody)
}

// doRequest performs an HTTP request against the commerce backend
func (a *StorefrontAdapter) doRequest(ctx context.Context, method, path, sessionToken string, payload any) ([]byte, error) {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("commerce: failed to marshal request: %w", err)
		}
	}

	url := a.config.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("commerce: failed to create request: %w", err)
	}

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Api-Key", a.config.APIKey)
	req.Header.Set("X-Timestamp", timestamp)
	req.Header.Set("X-Signature", a.config.Sign(body, timestamp))
	if sessionToken != "" {
		req.Header.Set("Authorization", "Bearer "+sessionToken)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrPlatformUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("commerce: failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, integration.ErrNotAuthenticated
	}
	if resp.StatusCode >= 400 {
		// Prefer the machine-readable reason when the backend sent one
		var envelope storefrontEnvelope
		if json.Unmarshal(respBody, &envelope) == nil && envelope.Error != nil {
			return nil, mapStorefrontError(envelope.Error)
		}
		return nil, fmt.Errorf("%w: HTTP %d", integration.ErrRequestFailed, resp.StatusCode)
	}

	return respBody, nil
}

// checkEnvelope parses a write response and maps failure codes
func checkEnvelope(respBody []byte) error {
	var envelope storefrontEnvelope
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return fmt.Errorf("commerce: failed to parse response: %w", err)
	}
	if !envelope.Success {
		return mapStorefrontError(envelope.Error)
	}
	return nil
}

// mapStorefrontError maps wire-level failure codes onto integration sentinels
func mapStorefrontError(e *storefrontError) error {
	if e == nil {
		return integration.ErrRequestFailed
	}
	switch e.Code {
	case errCodeQuantityCeiling:
		return fmt.Errorf("%w: %s", integration.ErrQuantityCeilingExceeded, e.Message)
	case errCodeConcurrentUpdate:
		return fmt.Errorf("%w: %s", integration.ErrCartConcurrentlyModified, e.Message)
	case errCodeUnauthorized:
		return fmt.Errorf("%w: %s", integration.ErrNotAuthenticated, e.Message)
	default:
		return fmt.Errorf("%w: %s - %s", integration.ErrRequestFailed, e.Code, e.Message)
	}
}

// Ensure StorefrontAdapter implements CartAPI
var _ integration.CartAPI = (*StorefrontAdapter)(nil)

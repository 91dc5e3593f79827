package commerce

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// StorefrontConfig holds configuration for the remote commerce backend's
// cart endpoints.
type StorefrontConfig struct {
	// BaseURL is the root of the commerce REST API, e.g. "https://api.shop.example.com/v1"
	BaseURL string
	// APIKey identifies this client to the commerce backend
	APIKey string
	// APISecret signs request bodies
	APISecret string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// Errors for storefront configuration
var (
	ErrStorefrontConfigMissingBaseURL = errors.New("commerce: base URL is required")
	ErrStorefrontConfigMissingAPIKey  = errors.New("commerce: API key is required")
)

// NewStorefrontConfig creates a new storefront configuration with defaults
func NewStorefrontConfig(baseURL, apiKey, apiSecret string) *StorefrontConfig {
	return &StorefrontConfig{
		BaseURL:        baseURL,
		APIKey:         apiKey,
		APISecret:      apiSecret,
		TimeoutSeconds: 30,
	}
}

// Validate validates the storefront configuration
func (c *StorefrontConfig) Validate() error {
	if c.BaseURL == "" {
		return ErrStorefrontConfigMissingBaseURL
	}
	if c.APIKey == "" {
		return ErrStorefrontConfigMissingAPIKey
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}

// Sign generates an HMAC-SHA256 signature over the request body and
// timestamp. The commerce backend verifies it against the shared secret.
func (c *StorefrontConfig) Sign(body []byte, timestamp string) string {
	mac := hmac.New(sha256.New, []byte(c.APISecret))
	mac.Write([]byte(timestamp))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

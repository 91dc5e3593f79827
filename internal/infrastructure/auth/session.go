package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/infrastructure/config"
)

// Common errors
var (
	ErrInvalidToken  = errors.New("invalid session token")
	ErrExpiredToken  = errors.New("session token has expired")
	ErrInvalidClaims = errors.New("invalid session claims")
	ErrMissingUserID = errors.New("missing user id in session claims")
)

// SessionClaims are the JWT claims carried by a shopper's session token.
// The commerce backend issues these at sign-in; this service only verifies.
type SessionClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username,omitempty"`
}

// SessionVerifier validates session tokens and extracts the shopper identity
type SessionVerifier struct {
	secret []byte
	issuer string
}

// NewSessionVerifier creates a verifier from session configuration
func NewSessionVerifier(cfg config.SessionConfig) *SessionVerifier {
	return &SessionVerifier{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
	}
}

// Verify validates a session token and returns the signed-in principal
func (v *SessionVerifier) Verify(tokenString string) (*identity.Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	if v.issuer != "" && claims.Issuer != v.issuer {
		return nil, ErrInvalidClaims
	}
	if claims.Subject == "" {
		return nil, ErrMissingUserID
	}

	return &identity.Principal{
		UserID:   claims.Subject,
		Username: claims.Username,
	}, nil
}

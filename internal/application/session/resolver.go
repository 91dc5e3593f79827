package session

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/shared"
)

// guestTokenKey is where the durable per-device guest token lives
const guestTokenKey = "device-guest-token"

// Resolver derives the identity that scopes locally persisted shopper
// state. Signed-in shoppers resolve to their user identity; everyone
// else resolves to a durable guest token that is lazily created once
// and thereafter stable for the device.
type Resolver struct {
	keyed      shared.KeyedStore
	principals identity.PrincipalSource
	logger     *zap.Logger

	mu    sync.Mutex
	guest identity.Identity
}

// NewResolver creates an identity resolver
func NewResolver(keyed shared.KeyedStore, principals identity.PrincipalSource, logger *zap.Logger) *Resolver {
	return &Resolver{
		keyed:      keyed,
		principals: principals,
		logger:     logger.Named("session"),
	}
}

// CurrentIdentity resolves the identity for the current shopper
func (r *Resolver) CurrentIdentity(ctx context.Context) (identity.Identity, error) {
	if principal := r.principals.Current(); principal != nil {
		return principal.Identity(), nil
	}
	return r.GuestIdentity(ctx)
}

// GuestIdentity returns this device's guest identity, creating and
// persisting the token on first access.
func (r *Resolver) GuestIdentity(ctx context.Context) (identity.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.guest.IsZero() {
		return r.guest, nil
	}

	raw, found, err := r.keyed.Get(ctx, guestTokenKey)
	if err != nil {
		return identity.Zero, fmt.Errorf("session: reading guest token: %w", err)
	}
	if found && len(raw) > 0 {
		r.guest = identity.NewGuest(string(raw))
		return r.guest, nil
	}

	guest := identity.NewRandomGuest()
	if err := r.keyed.Set(ctx, guestTokenKey, []byte(guest.Token())); err != nil {
		return identity.Zero, fmt.Errorf("session: persisting guest token: %w", err)
	}
	r.logger.Info("created guest identity", zap.String("identity", guest.String()))
	r.guest = guest
	return guest, nil
}

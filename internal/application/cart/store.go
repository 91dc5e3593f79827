package cart

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	cartdomain "github.com/shopfront/backend/internal/domain/cart"
	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/shared"
)

// keyPrefix scopes persisted cart state per identity
const keyPrefix = "cart-"

// Key derives the persisted-cart key for an identity
func Key(id identity.Identity) string {
	return keyPrefix + id.String()
}

// Store holds one identity's cart: a pure in-memory state plus a
// best-effort persistence layer. Mutations apply synchronously and
// never fail; persistence errors are logged and swallowed so the cart
// stays correct in memory for the rest of the session.
type Store struct {
	keyed  shared.KeyedStore
	logger *zap.Logger

	mu      sync.Mutex
	state   *cartdomain.State
	current identity.Identity
}

// NewStore creates an empty cart store. Call Hydrate before use to bind
// it to an identity.
func NewStore(keyed shared.KeyedStore, logger *zap.Logger) *Store {
	return &Store{
		keyed:  keyed,
		logger: logger.Named("cart"),
		state:  cartdomain.NewState(),
	}
}

// Hydrate binds the store to an identity and loads its persisted lines.
// Hydrating the already-current identity is a no-op.
func (s *Store) Hydrate(ctx context.Context, id identity.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == s.current && !id.IsZero() {
		return nil
	}

	items, err := s.readPersisted(ctx, id)
	if err != nil {
		return err
	}
	s.state.SetItems(items)
	s.current = id
	return nil
}

// Adopt binds the store to an identity and replaces its lines wholesale,
// discarding whatever was loaded before. This is the reconciliation path
// after a server sync.
func (s *Store) Adopt(ctx context.Context, id identity.Identity, items []cartdomain.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = id
	s.state.SetItems(items)
	s.persist(ctx)
}

// Identity returns the identity the store is currently bound to
func (s *Store) Identity() identity.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// AddItem adds a line, merging on (ProductID, Color, Storage)
func (s *Store) AddItem(ctx context.Context, item cartdomain.Item) cartdomain.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := s.state.AddItem(item)
	s.persist(ctx)
	return added
}

// RemoveItem removes the line with the given local ID; unknown IDs are a no-op
func (s *Store) RemoveItem(ctx context.Context, id int64) {
	s.RemoveItems(ctx, []int64{id})
}

// RemoveItems removes every line whose ID is listed
func (s *Store) RemoveItems(ctx context.Context, ids []int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.RemoveItems(ids)
	s.persist(ctx)
}

// UpdateQuantity sets a line's quantity; zero or less removes the line
func (s *Store) UpdateQuantity(ctx context.Context, id int64, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.UpdateQuantity(id, quantity)
	s.persist(ctx)
}

// SetItems replaces the cart wholesale under the current identity
func (s *Store) SetItems(ctx context.Context, items []cartdomain.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.SetItems(items)
	s.persist(ctx)
}

// Clear empties the cart
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Clear()
	s.persist(ctx)
}

// ItemByID looks up a line by its local ID
func (s *Store) ItemByID(id int64) (cartdomain.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ItemByID(id)
}

// Snapshot returns a copy of the current lines
func (s *Store) Snapshot() []cartdomain.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Snapshot()
}

// TotalItems returns the sum of line quantities
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.TotalItems
}

// TotalPrice returns the sum of effective line subtotals
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.TotalPrice
}

// IsEmpty reports whether the cart has no lines
func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.IsEmpty()
}

// readPersisted loads and decodes the lines stored under an identity's key
func (s *Store) readPersisted(ctx context.Context, id identity.Identity) ([]cartdomain.Item, error) {
	raw, found, err := s.keyed.Get(ctx, Key(id))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return cartdomain.DecodeItems(raw)
}

// persist writes the current lines under the current identity's key.
// Failures are logged and swallowed; callers must hold s.mu.
func (s *Store) persist(ctx context.Context) {
	if s.current.IsZero() {
		return
	}
	raw, err := cartdomain.EncodeItems(s.state.Items)
	if err != nil {
		s.logger.Warn("failed to encode cart for persistence", zap.Error(err))
		return
	}
	if err := s.keyed.Set(ctx, Key(s.current), raw); err != nil {
		s.logger.Warn("failed to persist cart",
			zap.String("identity", s.current.String()),
			zap.Error(err),
		)
	}
}

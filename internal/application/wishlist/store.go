package wishlist

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/shared"
	wishlistdomain "github.com/shopfront/backend/internal/domain/wishlist"
	"github.com/shopfront/backend/internal/infrastructure/notify"
)

// keyPrefix scopes persisted wishlist state per identity
const keyPrefix = "wishlist-"

// Key derives the persisted-wishlist key for an identity
func Key(id identity.Identity) string {
	return keyPrefix + id.String()
}

// IdentitySource resolves the identity that scopes the visible wishlist
type IdentitySource interface {
	CurrentIdentity(ctx context.Context) (identity.Identity, error)
}

// Store holds the wishlist of whichever identity is current. Switching
// identity swaps the visible item set without touching the inactive
// identity's persisted data. When the persistence medium reports an
// external change to the current key (another process writing the same
// identity's wishlist), the store reloads it, best effort.
type Store struct {
	keyed      shared.KeyedStore
	identities IdentitySource
	principals identity.PrincipalSource
	notifier   shared.Notifier
	messages   *notify.Messages
	logger     *zap.Logger

	mu          sync.Mutex
	state       *wishlistdomain.State
	current     identity.Identity
	cancelWatch func()
	cancelSub   func()
}

// NewStore creates a wishlist store. Call Start (or LoadIdentity) before use.
func NewStore(
	keyed shared.KeyedStore,
	identities IdentitySource,
	principals identity.PrincipalSource,
	notifier shared.Notifier,
	messages *notify.Messages,
	logger *zap.Logger,
) *Store {
	return &Store{
		keyed:      keyed,
		identities: identities,
		principals: principals,
		notifier:   notifier,
		messages:   messages,
		logger:     logger.Named("wishlist"),
		state:      wishlistdomain.NewState(),
	}
}

// Start loads the current identity's wishlist and subscribes to
// authentication transitions so identity switches reload it.
func (s *Store) Start(ctx context.Context) error {
	if err := s.LoadIdentity(ctx); err != nil {
		return err
	}
	cancel := s.principals.Subscribe(func(previous, current *identity.Principal) {
		if err := s.LoadIdentity(context.Background()); err != nil {
			s.logger.Warn("failed to reload wishlist on identity change", zap.Error(err))
		}
	})
	s.mu.Lock()
	s.cancelSub = cancel
	s.mu.Unlock()
	return nil
}

// Stop unsubscribes from transitions and external change notifications
func (s *Store) Stop() {
	s.mu.Lock()
	cancelSub := s.cancelSub
	cancelWatch := s.cancelWatch
	s.cancelSub = nil
	s.cancelWatch = nil
	s.mu.Unlock()

	if cancelSub != nil {
		cancelSub()
	}
	if cancelWatch != nil {
		cancelWatch()
	}
}

// LoadIdentity resolves the current identity and, when it differs from
// the loaded one, swaps in that identity's persisted item set. Loading
// the already-current identity is a no-op.
func (s *Store) LoadIdentity(ctx context.Context) error {
	id, err := s.identities.CurrentIdentity(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if id == s.current {
		return nil
	}

	items, err := s.readPersisted(ctx, id)
	if err != nil {
		return err
	}
	s.state.SetItems(items)
	s.current = id
	s.rewatch(id)
	return nil
}

// Identity returns the identity whose wishlist is currently visible
func (s *Store) Identity() identity.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Toggle removes the product when present, otherwise adds it. It reports
// whether the product is in the wishlist after the call.
func (s *Store) Toggle(ctx context.Context, item wishlistdomain.Item) bool {
	s.mu.Lock()
	inWishlist := s.state.Toggle(item)
	s.persist(ctx)
	s.mu.Unlock()

	if inWishlist {
		s.notifier.Success(s.messages.WishlistAdded())
	} else {
		s.notifier.Success(s.messages.WishlistRemoved())
	}
	return inWishlist
}

// AddItem adds an entry unless the product is already wishlisted.
// Duplicate adds are a silent no-op and report false.
func (s *Store) AddItem(ctx context.Context, item wishlistdomain.Item) (wishlistdomain.Item, bool) {
	s.mu.Lock()
	added, ok := s.state.AddItem(item)
	if ok {
		s.persist(ctx)
	}
	s.mu.Unlock()
	return added, ok
}

// RemoveItem removes the entry with the given local ID
func (s *Store) RemoveItem(ctx context.Context, id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.RemoveItem(id)
	s.persist(ctx)
}

// RemoveByProductID removes the entry for the given product, if present
func (s *Store) RemoveByProductID(ctx context.Context, productID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := s.state.RemoveByProductID(productID)
	if removed {
		s.persist(ctx)
	}
	return removed
}

// IsInWishlist reports whether the product is wishlisted
func (s *Store) IsInWishlist(productID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Contains(productID)
}

// ItemByID looks up an entry by its local ID
func (s *Store) ItemByID(id int64) (wishlistdomain.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ItemByID(id)
}

// Snapshot returns a copy of the visible entries
func (s *Store) Snapshot() []wishlistdomain.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Snapshot()
}

// SetItems replaces the visible wishlist wholesale
func (s *Store) SetItems(ctx context.Context, items []wishlistdomain.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SetItems(items)
	s.persist(ctx)
}

// Clear empties the visible wishlist
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Clear()
	s.persist(ctx)
}

// reload re-reads the current identity's persisted entries. Used when
// the medium reports an external change to the watched key.
func (s *Store) reload(key string) {
	ctx := context.Background()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Stale notification for a key we no longer own
	if s.current.IsZero() || Key(s.current) != key {
		return
	}
	items, err := s.readPersisted(ctx, s.current)
	if err != nil {
		s.logger.Warn("failed to reload externally changed wishlist", zap.Error(err))
		return
	}
	s.state.SetItems(items)
}

// rewatch moves the external-change watch to the new identity's key.
// Callers must hold s.mu.
func (s *Store) rewatch(id identity.Identity) {
	watchable, ok := s.keyed.(shared.WatchableStore)
	if !ok {
		return
	}
	if s.cancelWatch != nil {
		s.cancelWatch()
	}
	s.cancelWatch = watchable.Watch(Key(id), s.reload)
}

// readPersisted loads and decodes the entries stored under an identity's key
func (s *Store) readPersisted(ctx context.Context, id identity.Identity) ([]wishlistdomain.Item, error) {
	raw, found, err := s.keyed.Get(ctx, Key(id))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return wishlistdomain.DecodeItems(raw)
}

// persist writes the visible entries under the current identity's key.
// Failures are logged and swallowed; callers must hold s.mu.
func (s *Store) persist(ctx context.Context) {
	if s.current.IsZero() {
		return
	}
	raw, err := wishlistdomain.EncodeItems(s.state.Items)
	if err != nil {
		s.logger.Warn("failed to encode wishlist for persistence", zap.Error(err))
		return
	}
	if err := s.keyed.Set(ctx, Key(s.current), raw); err != nil {
		s.logger.Warn("failed to persist wishlist",
			zap.String("identity", s.current.String()),
			zap.Error(err),
		)
	}
}

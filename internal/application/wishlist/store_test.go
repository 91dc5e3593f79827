package wishlist

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/shared"
	wishlistdomain "github.com/shopfront/backend/internal/domain/wishlist"
	"github.com/shopfront/backend/internal/infrastructure/notify"
	"github.com/shopfront/backend/internal/infrastructure/persistence"
)

// fakePrincipals is a controllable principal source
type fakePrincipals struct {
	mu        sync.Mutex
	principal *identity.Principal
	listeners []identity.TransitionListener
}

func (f *fakePrincipals) Current() *identity.Principal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.principal
}

func (f *fakePrincipals) SessionToken() string { return "" }

func (f *fakePrincipals) Subscribe(l identity.TransitionListener) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = append(f.listeners, l)
	return func() {}
}

func (f *fakePrincipals) set(p *identity.Principal) {
	f.mu.Lock()
	previous := f.principal
	f.principal = p
	listeners := append([]identity.TransitionListener(nil), f.listeners...)
	f.mu.Unlock()
	for _, l := range listeners {
		l(previous, p)
	}
}

// fakeIdentities resolves signed-in users, falling back to a fixed guest
type fakeIdentities struct {
	guest      identity.Identity
	principals *fakePrincipals
}

func (f *fakeIdentities) CurrentIdentity(context.Context) (identity.Identity, error) {
	if p := f.principals.Current(); p != nil {
		return p.Identity(), nil
	}
	return f.guest, nil
}

func newTestStore(t *testing.T) (*Store, *fakePrincipals, *persistence.MemoryKeyedStore) {
	t.Helper()
	keyed := persistence.NewMemoryKeyedStore()
	principals := &fakePrincipals{}
	identities := &fakeIdentities{guest: identity.NewGuest("device-1"), principals: principals}
	s := NewStore(keyed, identities, principals, notify.NewMemoryNotifier(), notify.NewMessages("vi"), zap.NewNop())
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(s.Stop)
	return s, principals, keyed
}

func wishItem(productID int64) wishlistdomain.Item {
	return wishlistdomain.Item{
		ProductID:   productID,
		ProductName: "Product",
		Price:       decimal.NewFromInt(100),
		InStock:     true,
	}
}

func TestStore_DuplicateAddIsSilentNoOp(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	_, ok := s.AddItem(ctx, wishItem(1))
	require.True(t, ok)

	_, ok = s.AddItem(ctx, wishItem(1))
	assert.False(t, ok)
	assert.Len(t, s.Snapshot(), 1)
}

func TestStore_Toggle(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	assert.True(t, s.Toggle(ctx, wishItem(1)))
	assert.True(t, s.IsInWishlist(1))

	assert.False(t, s.Toggle(ctx, wishItem(1)))
	assert.False(t, s.IsInWishlist(1))
	assert.Empty(t, s.Snapshot())
}

func TestStore_IdentitySwitchIsolates(t *testing.T) {
	s, principals, _ := newTestStore(t)
	ctx := context.Background()

	// Guest (identity A) wishlists two products
	s.AddItem(ctx, wishItem(1))
	s.AddItem(ctx, wishItem(2))

	// Sign in as identity B and wishlist something else
	principals.set(&identity.Principal{UserID: "u-1"})
	assert.Empty(t, s.Snapshot())
	s.AddItem(ctx, wishItem(9))
	assert.True(t, s.IsInWishlist(9))
	assert.False(t, s.IsInWishlist(1))

	// Back to A: exactly the set A had, B's data neither merged nor lost
	principals.set(nil)
	items := s.Snapshot()
	require.Len(t, items, 2)
	assert.True(t, s.IsInWishlist(1))
	assert.True(t, s.IsInWishlist(2))
	assert.False(t, s.IsInWishlist(9))

	// And B's wishlist survives another switch
	principals.set(&identity.Principal{UserID: "u-1"})
	assert.True(t, s.IsInWishlist(9))
}

// unwatchable hides the memory store's Watch so reloads only ever come
// from explicit LoadIdentity calls.
type unwatchable struct{ shared.KeyedStore }

func TestStore_LoadIdentityIsIdempotent(t *testing.T) {
	ctx := context.Background()
	keyed := persistence.NewMemoryKeyedStore()
	principals := &fakePrincipals{}
	identities := &fakeIdentities{guest: identity.NewGuest("device-1"), principals: principals}
	s := NewStore(unwatchable{keyed}, identities, principals, notify.NewMemoryNotifier(), notify.NewMessages("vi"), zap.NewNop())
	require.NoError(t, s.Start(ctx))
	t.Cleanup(s.Stop)

	s.AddItem(ctx, wishItem(1))

	// Wipe the persisted copy; a redundant load must not reload from storage
	require.NoError(t, keyed.Delete(ctx, Key(s.Identity())))
	require.NoError(t, s.LoadIdentity(ctx))
	assert.Len(t, s.Snapshot(), 1)
}

func TestStore_ReloadsOnExternalChange(t *testing.T) {
	s, _, keyed := newTestStore(t)
	ctx := context.Background()

	// Another process writes the same identity's wishlist
	raw, err := wishlistdomain.EncodeItems([]wishlistdomain.Item{
		{ID: 1, ProductID: 42, ProductName: "Product", Price: decimal.NewFromInt(5), InStock: true},
	})
	require.NoError(t, err)
	require.NoError(t, keyed.Set(ctx, Key(s.Identity()), raw))

	assert.Eventually(t, func() bool {
		return s.IsInWishlist(42)
	}, time.Second, 5*time.Millisecond)
}

func TestStore_RemoveByProductID(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	s.AddItem(ctx, wishItem(1))
	assert.True(t, s.RemoveByProductID(ctx, 1))
	assert.False(t, s.RemoveByProductID(ctx, 1))
	assert.Empty(t, s.Snapshot())
}

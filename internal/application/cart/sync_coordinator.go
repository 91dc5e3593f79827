package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	cartdomain "github.com/shopfront/backend/internal/domain/cart"
	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/integration"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/notify"
)

// SyncState is the coordinator's reconciliation phase
type SyncState string

const (
	SyncIdle        SyncState = "IDLE"
	SyncDetecting   SyncState = "DETECTING"
	SyncNoOp        SyncState = "NO_OP"
	SyncMerging     SyncState = "MERGING"
	SyncSynced      SyncState = "SYNCED"
	SyncMergeFailed SyncState = "MERGE_FAILED"
)

// SyncConfig tunes the coordinator
type SyncConfig struct {
	// MaxUnitsPerProduct caps each merged product's quantity on write
	MaxUnitsPerProduct int
	// FetchTimeout bounds each Cart API call during a merge
	FetchTimeout time.Duration
}

// Coordinator reconciles the locally persisted guest cart with the
// server-held cart on authentication transitions. The merge runs at
// most once per login session: the attempted flag is set synchronously
// before the first network call, so re-entrant transition deliveries
// can never double-merge.
type Coordinator struct {
	store      *Store
	keyed      shared.KeyedStore
	api        integration.CartAPI
	principals identity.PrincipalSource
	guests     GuestIdentitySource
	notifier   shared.Notifier
	messages   *notify.Messages
	logger     *zap.Logger

	maxUnits     int
	fetchTimeout time.Duration

	mu        sync.Mutex
	attempted bool
	state     SyncState
	cancelSub func()
}

// GuestIdentitySource yields the durable guest identity whose persisted
// cart is the merge source.
type GuestIdentitySource interface {
	GuestIdentity(ctx context.Context) (identity.Identity, error)
	CurrentIdentity(ctx context.Context) (identity.Identity, error)
}

// NewCoordinator creates a sync coordinator. Call Start to subscribe it
// to authentication transitions.
func NewCoordinator(
	store *Store,
	keyed shared.KeyedStore,
	api integration.CartAPI,
	principals identity.PrincipalSource,
	guests GuestIdentitySource,
	notifier shared.Notifier,
	messages *notify.Messages,
	cfg SyncConfig,
	logger *zap.Logger,
) *Coordinator {
	if cfg.MaxUnitsPerProduct <= 0 {
		cfg.MaxUnitsPerProduct = 10
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	return &Coordinator{
		store:        store,
		keyed:        keyed,
		api:          api,
		principals:   principals,
		guests:       guests,
		notifier:     notifier,
		messages:     messages,
		logger:       logger.Named("cartsync"),
		maxUnits:     cfg.MaxUnitsPerProduct,
		fetchTimeout: cfg.FetchTimeout,
		state:        SyncIdle,
	}
}

// Start hydrates the cart store for the boot identity and subscribes to
// authentication transitions. A shopper already signed in at start is
// treated as a fresh sign-in.
func (c *Coordinator) Start(ctx context.Context) error {
	id, err := c.guests.CurrentIdentity(ctx)
	if err != nil {
		return err
	}
	if err := c.store.Hydrate(ctx, id); err != nil {
		c.logger.Warn("failed to hydrate cart at start", zap.Error(err))
	}

	c.mu.Lock()
	c.cancelSub = c.principals.Subscribe(c.handleTransition)
	c.mu.Unlock()

	if principal := c.principals.Current(); principal != nil {
		c.handleTransition(nil, principal)
	}
	return nil
}

// Stop unsubscribes from authentication transitions
func (c *Coordinator) Stop() {
	c.mu.Lock()
	cancel := c.cancelSub
	c.cancelSub = nil
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// State returns the coordinator's current reconciliation phase
func (c *Coordinator) State() SyncState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// handleTransition reacts to sign-in, sign-out, and account switches
func (c *Coordinator) handleTransition(previous, current *identity.Principal) {
	if current == nil {
		c.handleSignOut()
		return
	}

	if previous != nil && !previous.Equal(current) {
		// An account switch starts a fresh login session. Drop the old
		// shopper's cart first so it cannot merge into the new account.
		c.handleSignOut()
	}

	// The attempted flag must flip before the first network call so a
	// concurrent re-delivery of this transition cannot merge twice.
	c.mu.Lock()
	if c.attempted {
		c.mu.Unlock()
		return
	}
	c.attempted = true
	c.state = SyncDetecting
	token := c.principals.SessionToken()
	c.mu.Unlock()

	c.sync(current, token)
}

// handleSignOut resets the merge session and drops the server cart,
// which is no longer reachable by this process.
func (c *Coordinator) handleSignOut() {
	c.mu.Lock()
	c.attempted = false
	c.state = SyncIdle
	c.mu.Unlock()

	ctx := context.Background()
	guestID, err := c.guests.GuestIdentity(ctx)
	if err != nil {
		c.logger.Warn("failed to resolve guest identity at sign-out", zap.Error(err))
		c.store.Clear(ctx)
		return
	}
	if err := c.store.Hydrate(ctx, guestID); err != nil {
		c.logger.Warn("failed to rehydrate guest cart at sign-out", zap.Error(err))
		c.store.Clear(ctx)
	}
}

// sync runs the reconciliation algorithm for a fresh login session
func (c *Coordinator) sync(principal *identity.Principal, token string) {
	ctx := context.Background()

	guestID, err := c.guests.GuestIdentity(ctx)
	if err != nil {
		c.logger.Warn("failed to resolve guest identity for merge", zap.Error(err))
		guestID = identity.Zero
	}

	guestItems := c.guestCartItems(ctx, guestID)

	serverCart, err := c.fetchServerCart(token)
	if err != nil {
		c.logger.Warn("failed to fetch server cart", zap.Error(err))
		c.notifier.Error(c.messages.MergeFailed())
		c.setState(SyncMergeFailed)
		return
	}

	mergeFailed := false
	if len(guestItems) == 0 {
		// Nothing local to merge; the server cart is adopted wholesale below
		c.setState(SyncNoOp)
	} else {
		if len(serverCart.Items) > 0 {
			c.notifier.Info(c.messages.MergeAnnounce(len(guestItems), len(serverCart.Items)))
		}
		c.setState(SyncMerging)
		mergeFailed = c.merge(token, guestItems)
	}

	// Always finish on server truth, whatever the merge outcome
	final, err := c.fetchServerCart(token)
	if err != nil {
		c.logger.Warn("failed to re-fetch server cart after merge", zap.Error(err))
		c.notifier.Error(c.messages.MergeFailed())
		c.setState(SyncMergeFailed)
		return
	}

	// A sign-out or account switch mid-merge makes this result stale
	if !c.principals.Current().Equal(principal) {
		c.logger.Info("discarding sync result, shopper changed mid-merge",
			zap.String("user_id", principal.UserID),
		)
		return
	}

	c.store.Adopt(ctx, principal.Identity(), mapServerItems(final.Items))

	// The guest cart must never re-merge on a later reload
	if !guestID.IsZero() {
		if err := c.keyed.Delete(ctx, Key(guestID)); err != nil {
			c.logger.Warn("failed to delete guest cart after merge", zap.Error(err))
		}
	}

	if mergeFailed {
		c.setState(SyncMergeFailed)
		return
	}
	c.setState(SyncSynced)
	c.logger.Info("cart synced",
		zap.String("user_id", principal.UserID),
		zap.Int("merged_lines", len(guestItems)),
		zap.Int("final_lines", len(final.Items)),
	)
}

// guestCartItems reads the merge source: the in-memory store when it
// has lines, otherwise the raw persisted bytes. The raw fallback covers
// a store that has not rehydrated yet at the moment of sign-in.
func (c *Coordinator) guestCartItems(ctx context.Context, guestID identity.Identity) []cartdomain.Item {
	if items := c.store.Snapshot(); len(items) > 0 {
		return items
	}
	if guestID.IsZero() {
		return nil
	}

	raw, found, err := c.keyed.Get(ctx, Key(guestID))
	if err != nil || !found {
		return nil
	}
	items, err := cartdomain.DecodeItems(raw)
	if err != nil {
		c.logger.Warn("discarding undecodable persisted guest cart", zap.Error(err))
		return nil
	}
	return items
}

// merge pushes guest lines into the server cart. It reports whether the
// merge failed in a way the shopper was told about as an error.
func (c *Coordinator) merge(token string, guestItems []cartdomain.Item) (failed bool) {
	ctx, cancel := context.WithTimeout(context.Background(), c.fetchTimeout)
	defer cancel()

	err := c.api.MergeGuestCart(ctx, token, buildMergeRequest(guestItems, c.maxUnits))
	switch {
	case err == nil:
		return false

	case errors.Is(err, integration.ErrQuantityCeilingExceeded):
		// Retry line by line so the conforming items still make it
		succeeded := c.mergePerLine(token, guestItems)
		c.notifier.Success(c.messages.MergePartial(succeeded, len(guestItems)))
		return false

	case errors.Is(err, integration.ErrCartConcurrentlyModified):
		// The server cart moved under us; adopt its state, never retry the write
		c.logger.Info("server cart changed concurrently, adopting server state")
		return false

	default:
		c.logger.Warn("bulk merge failed", zap.Error(err))
		c.notifier.Error(c.messages.MergeFailed())
		return true
	}
}

// mergePerLine issues one add call per guest line, best effort
func (c *Coordinator) mergePerLine(token string, guestItems []cartdomain.Item) (succeeded int) {
	for _, item := range guestItems {
		ctx, cancel := context.WithTimeout(context.Background(), c.fetchTimeout)
		err := c.api.AddToCart(ctx, token, integration.AddToCartRequest{
			ProductID: item.ProductID,
			Quantity:  min(item.Quantity, c.maxUnits),
			Color:     item.Color,
			Storage:   item.Storage,
		})
		cancel()
		if err != nil {
			c.logger.Warn("per-line merge failed",
				zap.Int64("product_id", item.ProductID),
				zap.Error(err),
			)
			continue
		}
		succeeded++
	}
	return succeeded
}

// fetchServerCart gets the authoritative cart under the fetch timeout
func (c *Coordinator) fetchServerCart(token string) (*integration.ServerCart, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.fetchTimeout)
	defer cancel()
	return c.api.GetCurrentCart(ctx, token)
}

func (c *Coordinator) setState(state SyncState) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
}

// buildMergeRequest collapses guest lines per product, summing variant
// quantities and capping each product at maxUnits.
func buildMergeRequest(guestItems []cartdomain.Item, maxUnits int) integration.MergeGuestCartRequest {
	order := make([]int64, 0, len(guestItems))
	totals := make(map[int64]int, len(guestItems))
	for _, item := range guestItems {
		if _, seen := totals[item.ProductID]; !seen {
			order = append(order, item.ProductID)
		}
		totals[item.ProductID] += item.Quantity
	}

	req := integration.MergeGuestCartRequest{
		GuestCartItems: make([]integration.GuestCartLine, 0, len(order)),
	}
	for _, productID := range order {
		req.GuestCartItems = append(req.GuestCartItems, integration.GuestCartLine{
			ProductID: productID,
			Quantity:  min(totals[productID], maxUnits),
		})
	}
	return req
}

// mapServerItems converts server cart lines into local lines with fresh
// sequential local IDs.
func mapServerItems(items []integration.ServerCartItem) []cartdomain.Item {
	mapped := make([]cartdomain.Item, 0, len(items))
	for idx, item := range items {
		mapped = append(mapped, cartdomain.Item{
			ID:           int64(idx + 1),
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
	return mapped
}

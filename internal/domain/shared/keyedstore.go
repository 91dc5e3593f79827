package shared

import "context"

// KeyedStore is a string-keyed byte store used for locally persisted
// shopper state (guest carts, wishlists, guest identity tokens).
// Key derivation belongs to the caller; the store is identity-agnostic.
//
// Get reports absence through the found flag rather than an error.
// Writes are visible to subsequent reads within the same process;
// visibility across processes is best-effort only.
type KeyedStore interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// ChangeHandler is invoked when a watched key is modified externally.
// The handler runs on the notifier's goroutine and must not block.
type ChangeHandler func(key string)

// WatchableStore is a KeyedStore that can report externally observed
// changes to individual keys. Notifications are advisory: delivery is
// eventually consistent and may be dropped, never relied on for
// correctness.
type WatchableStore interface {
	KeyedStore

	// Watch registers a handler for external changes to key.
	// It returns a cancel function that unregisters the handler.
	Watch(key string, handler ChangeHandler) (cancel func())
}

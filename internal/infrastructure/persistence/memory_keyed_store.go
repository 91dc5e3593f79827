package persistence

import (
	"context"
	"sync"

	"github.com/shopfront/backend/internal/domain/shared"
)

// MemoryKeyedStore implements shared.WatchableStore with an in-memory map.
// It is suitable for tests and single-instance development setups. Change
// notifications are delivered asynchronously to watchers of the mutated
// key, which emulates the best-effort cross-process visibility of the
// durable backends.
type MemoryKeyedStore struct {
	mu       sync.RWMutex
	values   map[string][]byte
	watchers map[string]map[int]shared.ChangeHandler
	nextID   int
}

// NewMemoryKeyedStore creates a new in-memory keyed store
func NewMemoryKeyedStore() *MemoryKeyedStore {
	return &MemoryKeyedStore{
		values:   make(map[string][]byte),
		watchers: make(map[string]map[int]shared.ChangeHandler),
	}
}

// Get implements shared.KeyedStore
func (s *MemoryKeyedStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	copied := make([]byte, len(value))
	copy(copied, value)
	return copied, true, nil
}

// Set implements shared.KeyedStore
func (s *MemoryKeyedStore) Set(_ context.Context, key string, value []byte) error {
	copied := make([]byte, len(value))
	copy(copied, value)

	s.mu.Lock()
	s.values[key] = copied
	handlers := s.handlersFor(key)
	s.mu.Unlock()

	notify(handlers, key)
	return nil
}

// Delete implements shared.KeyedStore. Deleting a missing key is a no-op.
func (s *MemoryKeyedStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	_, existed := s.values[key]
	delete(s.values, key)
	var handlers []shared.ChangeHandler
	if existed {
		handlers = s.handlersFor(key)
	}
	s.mu.Unlock()

	notify(handlers, key)
	return nil
}

// Watch implements shared.WatchableStore
func (s *MemoryKeyedStore) Watch(key string, handler shared.ChangeHandler) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.watchers[key] == nil {
		s.watchers[key] = make(map[int]shared.ChangeHandler)
	}
	id := s.nextID
	s.nextID++
	s.watchers[key][id] = handler

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.watchers[key], id)
	}
}

// Len returns the number of stored keys (for testing)
func (s *MemoryKeyedStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// handlersFor snapshots the handlers registered for key. Callers must hold mu.
func (s *MemoryKeyedStore) handlersFor(key string) []shared.ChangeHandler {
	registered := s.watchers[key]
	if len(registered) == 0 {
		return nil
	}
	handlers := make([]shared.ChangeHandler, 0, len(registered))
	for _, h := range registered {
		handlers = append(handlers, h)
	}
	return handlers
}

// notify delivers change notifications off the caller's goroutine so a
// store owner persisting under its own lock can never deadlock against
// its own watch handler.
func notify(handlers []shared.ChangeHandler, key string) {
	for _, handler := range handlers {
		go handler(key)
	}
}

// Ensure MemoryKeyedStore implements WatchableStore
var _ shared.WatchableStore = (*MemoryKeyedStore)(nil)

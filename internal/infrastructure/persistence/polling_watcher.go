package persistence

import (
	"bytes"
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shopfront/backend/internal/domain/shared"
)

// PollingWatchStore decorates any KeyedStore with a Watch implementation
// that polls watched keys and fires handlers when a key's bytes change.
// This is how durable backends without native change feeds (sqlite,
// postgres) gain the advisory cross-process notifications the in-memory
// store provides natively. Notifications are eventually consistent: a
// change may be observed up to one poll interval late, and two changes
// inside one interval collapse into a single notification.
type PollingWatchStore struct {
	shared.KeyedStore

	logger   *zap.Logger
	interval time.Duration

	mu       sync.Mutex
	watched  map[string]*watchedKey
	nextID   int
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

type watchedKey struct {
	handlers map[int]shared.ChangeHandler
	last     []byte
	found    bool
}

// NewPollingWatchStore wraps the given store. Polling starts lazily with
// the first Watch call and stops on Close.
func NewPollingWatchStore(store shared.KeyedStore, interval time.Duration, logger *zap.Logger) *PollingWatchStore {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	s := &PollingWatchStore{
		KeyedStore: store,
		logger:     logger,
		interval:   interval,
		watched:    make(map[string]*watchedKey),
		stopChan:   make(chan struct{}),
	}
	s.wg.Add(1)
	go s.pollLoop()
	return s
}

// Watch implements shared.WatchableStore
func (s *PollingWatchStore) Watch(key string, handler shared.ChangeHandler) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.watched[key]
	if !ok {
		// Seed the baseline so the first poll does not fire spuriously
		value, found, err := s.KeyedStore.Get(context.Background(), key)
		if err != nil {
			s.logger.Warn("failed to seed watch baseline", zap.String("key", key), zap.Error(err))
		}
		w = &watchedKey{handlers: make(map[int]shared.ChangeHandler), last: value, found: found}
		s.watched[key] = w
	}

	id := s.nextID
	s.nextID++
	w.handlers[id] = handler

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(w.handlers, id)
		if len(w.handlers) == 0 {
			delete(s.watched, key)
		}
	}
}

// Close stops the polling goroutine. Safe to call multiple times.
func (s *PollingWatchStore) Close() error {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

// pollLoop re-reads every watched key once per interval
func (s *PollingWatchStore) pollLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.pollOnce()
		}
	}
}

// pollOnce checks all watched keys for changes and fires handlers
func (s *PollingWatchStore) pollOnce() {
	s.mu.Lock()
	keys := make([]string, 0, len(s.watched))
	for key := range s.watched {
		keys = append(keys, key)
	}
	s.mu.Unlock()

	for _, key := range keys {
		value, found, err := s.KeyedStore.Get(context.Background(), key)
		if err != nil {
			s.logger.Warn("watch poll failed", zap.String("key", key), zap.Error(err))
			continue
		}

		s.mu.Lock()
		w, ok := s.watched[key]
		changed := ok && (found != w.found || !bytes.Equal(value, w.last))
		var handlers []shared.ChangeHandler
		if changed {
			w.last = value
			w.found = found
			handlers = make([]shared.ChangeHandler, 0, len(w.handlers))
			for _, h := range w.handlers {
				handlers = append(handlers, h)
			}
		}
		s.mu.Unlock()

		notify(handlers, key)
	}
}

// Ensure PollingWatchStore implements WatchableStore
var _ shared.WatchableStore = (*PollingWatchStore)(nil)

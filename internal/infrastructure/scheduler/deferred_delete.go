package scheduler

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/notify"
)

// FinalizeFunc commits a staged deletion upstream once the grace period
// elapses without an undo.
type FinalizeFunc func() error

// RestoreFunc puts the deleted item back into local state after an undo
// or a failed commit.
type RestoreFunc func()

// pendingDeletion is one staged removal waiting out its grace period
type pendingDeletion struct {
	timer    *time.Timer
	finalize FinalizeFunc
	restore  RestoreFunc
}

// DeferredDeletionScheduler stages removals so the shopper can undo them.
// Each removal is applied to local state immediately by the caller; the
// upstream commit only runs after the grace period elapses. At most one
// deletion is pending per key; staging a second one is ignored so rapid
// repeated clicks cannot double-schedule.
type DeferredDeletionScheduler struct {
	grace    time.Duration
	logger   *zap.Logger
	notifier shared.Notifier
	messages *notify.Messages

	mu      sync.Mutex
	pending map[string]*pendingDeletion
	stopped bool
}

// NewDeferredDeletionScheduler creates a scheduler with the given grace period
func NewDeferredDeletionScheduler(grace time.Duration, notifier shared.Notifier, messages *notify.Messages, logger *zap.Logger) *DeferredDeletionScheduler {
	return &DeferredDeletionScheduler{
		grace:    grace,
		logger:   logger.Named("undo"),
		notifier: notifier,
		messages: messages,
		pending:  make(map[string]*pendingDeletion),
	}
}

// ScheduleDelete stages a deletion under the given key. The finalize
// callback runs after the grace period unless Undo cancels it first.
func (s *DeferredDeletionScheduler) ScheduleDelete(key string, finalize FinalizeFunc, restore RestoreFunc) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		// Shutting down, commit straight away
		s.commit(key, finalize, restore)
		return
	}

	// A second staging for the same key is ignored while one is pending
	if _, ok := s.pending[key]; ok {
		s.mu.Unlock()
		return
	}

	entry := &pendingDeletion{finalize: finalize, restore: restore}
	entry.timer = time.AfterFunc(s.grace, func() { s.fire(key, entry) })
	s.pending[key] = entry
	s.mu.Unlock()

	s.logger.Debug("deletion staged", zap.String("key", key), zap.Duration("grace", s.grace))
}

// Undo cancels a pending deletion and restores local state. It returns
// false when nothing was pending, which means the deletion already
// committed (or was never staged) and the undo is inert.
func (s *DeferredDeletionScheduler) Undo(key string) bool {
	s.mu.Lock()
	entry, ok := s.pending[key]
	if !ok {
		s.mu.Unlock()
		return false
	}
	entry.timer.Stop()
	delete(s.pending, key)
	s.mu.Unlock()

	entry.restore()
	s.logger.Debug("deletion undone", zap.String("key", key))
	return true
}

// UndoMultiple undoes each given key, suppressing per-item notices, and
// shows one aggregate success notice when at least one undo occurred.
func (s *DeferredDeletionScheduler) UndoMultiple(keys []string) int {
	undone := 0
	for _, key := range keys {
		if s.Undo(key) {
			undone++
		}
	}
	if undone > 0 {
		s.notifier.Success(s.messages.ItemsRestored(undone))
	}
	return undone
}

// HasPending reports whether a deletion is staged under the given key
func (s *DeferredDeletionScheduler) HasPending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[key]
	return ok
}

// PendingCount returns the number of staged deletions
func (s *DeferredDeletionScheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Stop flushes the scheduler: every pending deletion commits immediately.
// Losing a staged deletion on shutdown would resurrect the item on the
// next start, so flushing is the safe direction.
func (s *DeferredDeletionScheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	entries := make(map[string]*pendingDeletion, len(s.pending))
	for key, entry := range s.pending {
		entry.timer.Stop()
		entries[key] = entry
		delete(s.pending, key)
	}
	s.mu.Unlock()

	for key, entry := range entries {
		s.commit(key, entry.finalize, entry.restore)
	}
}

// fire runs when a grace period elapses
func (s *DeferredDeletionScheduler) fire(key string, entry *pendingDeletion) {
	s.mu.Lock()
	current, ok := s.pending[key]
	if !ok || current != entry {
		// Undone or replaced between the timer firing and acquiring the lock
		s.mu.Unlock()
		return
	}
	delete(s.pending, key)
	s.mu.Unlock()

	s.commit(key, entry.finalize, entry.restore)
}

// commit runs the upstream deletion; on failure the item is restored
// and the shopper is told.
func (s *DeferredDeletionScheduler) commit(key string, finalize FinalizeFunc, restore RestoreFunc) {
	if err := finalize(); err != nil {
		s.logger.Warn("deletion commit failed, restoring item",
			zap.String("key", key),
			zap.Error(err),
		)
		restore()
		s.notifier.Error(s.messages.ItemDeleteFailed())
		return
	}
	s.logger.Debug("deletion committed", zap.String("key", key))
}

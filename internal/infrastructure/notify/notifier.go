package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shopfront/backend/internal/domain/shared"
)

// Level classifies a notice
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notice is one user-facing notification
type Notice struct {
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// LogNotifier writes notices to the application log. It is the default
// sink when no frontend is polling for notices.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a log-backed notifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.Named("notify")}
}

// Success implements shared.Notifier
func (n *LogNotifier) Success(message string) {
	n.logger.Info("notice", zap.String("level", string(LevelSuccess)), zap.String("message", message))
}

// Error implements shared.Notifier
func (n *LogNotifier) Error(message string) {
	n.logger.Warn("notice", zap.String("level", string(LevelError)), zap.String("message", message))
}

// Info implements shared.Notifier
func (n *LogNotifier) Info(message string) {
	n.logger.Info("notice", zap.String("level", string(LevelInfo)), zap.String("message", message))
}

// maxBufferedNotices bounds the memory notifier's backlog
const maxBufferedNotices = 100

// MemoryNotifier buffers notices in memory so they can be drained by the
// HTTP layer (and inspected by tests). The buffer is bounded; oldest
// notices are dropped first.
type MemoryNotifier struct {
	mu      sync.Mutex
	notices []Notice
}

// NewMemoryNotifier creates an in-memory notifier
func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{notices: make([]Notice, 0)}
}

// Success implements shared.Notifier
func (n *MemoryNotifier) Success(message string) { n.append(LevelSuccess, message) }

// Error implements shared.Notifier
func (n *MemoryNotifier) Error(message string) { n.append(LevelError, message) }

// Info implements shared.Notifier
func (n *MemoryNotifier) Info(message string) { n.append(LevelInfo, message) }

// Drain returns all buffered notices and clears the buffer
func (n *MemoryNotifier) Drain() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	drained := n.notices
	n.notices = make([]Notice, 0)
	return drained
}

// Notices returns a copy of the buffered notices without clearing them
func (n *MemoryNotifier) Notices() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	copied := make([]Notice, len(n.notices))
	copy(copied, n.notices)
	return copied
}

func (n *MemoryNotifier) append(level Level, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.notices) >= maxBufferedNotices {
		n.notices = n.notices[1:]
	}
	n.notices = append(n.notices, Notice{Level: level, Message: message, CreatedAt: time.Now()})
}

// MultiNotifier fans a notice out to several sinks
type MultiNotifier struct {
	sinks []shared.Notifier
}

// NewMultiNotifier creates a fan-out notifier
func NewMultiNotifier(sinks ...shared.Notifier) *MultiNotifier {
	return &MultiNotifier{sinks: sinks}
}

// Success implements shared.Notifier
func (n *MultiNotifier) Success(message string) {
	for _, sink := range n.sinks {
		sink.Success(message)
	}
}

// Error implements shared.Notifier
func (n *MultiNotifier) Error(message string) {
	for _, sink := range n.sinks {
		sink.Error(message)
	}
}

// Info implements shared.Notifier
func (n *MultiNotifier) Info(message string) {
	for _, sink := range n.sinks {
		sink.Info(message)
	}
}

// Interface checks
var (
	_ shared.Notifier = (*LogNotifier)(nil)
	_ shared.Notifier = (*MemoryNotifier)(nil)
	_ shared.Notifier = (*MultiNotifier)(nil)
)

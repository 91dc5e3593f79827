package shared

// Notifier is a fire-and-forget sink for user-facing notices.
// It exists for observability only; no correctness property may
// depend on a notice being delivered.
type Notifier interface {
	Success(message string)
	Error(message string)
	Info(message string)
}

// NopNotifier discards all notices.
type NopNotifier struct{}

// Success implements Notifier
func (NopNotifier) Success(string) {}

// Error implements Notifier
func (NopNotifier) Error(string) {}

// Info implements Notifier
func (NopNotifier) Info(string) {}

// Ensure NopNotifier implements Notifier
var _ Notifier = NopNotifier{}

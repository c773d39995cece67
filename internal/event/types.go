package event

// Lifecycle events the bus listens to itself.
const (
	// EventReady is emitted once the framework has booted.
	EventReady = "framework:ready"

	// EventReset is emitted to restore the listener set captured at boot.
	EventReset = "framework:reset"
)

// Handler is the interface for event handlers.
type Handler interface {
	// Handle processes an event. args are the values passed to Emit.
	Handle(args ...any) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(args ...any) error

// Handle implements the Handler interface.
func (f HandlerFunc) Handle(args ...any) error {
	return f(args...)
}

// Stats contains event bus statistics.
type Stats struct {
	// EventsEmitted is the total number of Emit calls.
	EventsEmitted uint64

	// HandlerCalls is the total number of handler invocations.
	HandlerCalls uint64

	// HandlerErrors is the number of handlers that returned errors.
	HandlerErrors uint64

	// HandlerPanics is the number of recovered handler panics.
	HandlerPanics uint64

	// Snapshots is the number of times the default listener set was captured.
	Snapshots uint64

	// Resets is the number of times the live registry was restored.
	Resets uint64

	// Listeners is the current number of registered listeners.
	Listeners int
}

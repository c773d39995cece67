// Package event provides the framework's event bus.
//
// The bus is a synchronous publish/subscribe hub for framework lifecycle
// events. Components register handlers by event name and the bus calls them
// in registration order whenever the event is emitted.
//
// # Event Names
//
// Event names are plain strings. The framework uses a "framework:phase"
// convention:
//
//	framework:ready    - boot finished, the listener set is complete
//	framework:reset    - tear down test state, restore the boot listener set
//	up:link:follow     - application-defined events follow the same scheme
//
// On accepts a space-separated list of names so one handler can be bound to
// several events at once:
//
//	sub, err := bus.OnFunc("up:link:follow up:form:submit", handler)
//
// # Delivery
//
// Emit calls every handler registered for the name before it returns. There
// is no queue and no worker pool. A handler registered while an event is being
// emitted only sees the next emission.
//
// By default the first handler error stops the remaining handlers and is
// returned to the caller of Emit, and a handler panic unwinds through Emit.
// WithIsolation keeps calling the remaining handlers and returns the combined
// errors; WithPanicRecovery turns panics into *PanicError values.
//
// # Snapshot and Reset
//
// A new Bus binds its own Snapshot to framework:ready and its own Reset to
// framework:reset:
//
//	bus := event.NewBus()
//	bus.OnFunc("up:app:boot", boot)       // part of the boot listener set
//	bus.Emit(event.EventReady)            // snapshot taken here
//
//	bus.OnFunc("up:app:boot", testOnly)   // added by a test
//	bus.Emit(event.EventReset)            // testOnly is gone again
//
// Each Bus owns its registry, so independent buses (one per test, say) never
// share listeners.
//
// # Fx Module
//
//	app := fx.New(
//	    event.Module(),
//	    fx.Invoke(func(bus *event.Bus) { ... }),
//	)
//
// Starting the app emits framework:ready, stopping it emits framework:reset.
//
// # Thread Safety
//
// Bus methods are safe for concurrent use. Handlers run on the goroutine that
// called Emit.
package event

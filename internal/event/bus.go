package event

import (
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Bus is a synchronous event bus with snapshot/reset support.
type Bus struct {
	mu sync.RWMutex

	// live receives registrations and serves emits.
	live *Registry

	// defaults is the listener set Reset restores.
	defaults *Registry

	config busConfig
	logger *zap.Logger

	// Stats
	eventsEmitted atomic.Uint64
	handlerCalls  atomic.Uint64
	handlerErrors atomic.Uint64
	handlerPanics atomic.Uint64
	snapshots     atomic.Uint64
	resets        atomic.Uint64
}

// NewBus creates a new event bus with the given options.
//
// The bus binds its own Snapshot to EventReady and its own Reset to
// EventReset, and captures that initial state so Reset works even before
// EventReady was emitted.
func NewBus(opts ...BusOption) *Bus {
	config := defaultBusConfig()
	for _, opt := range opts {
		opt(&config)
	}

	b := &Bus{
		live:   NewRegistry(),
		config: config,
		logger: config.logger.Named("bus"),
	}

	b.bind(EventReady, HandlerFunc(func(...any) error {
		b.Snapshot()
		return nil
	}))
	b.bind(EventReset, HandlerFunc(func(...any) error {
		b.Reset()
		return nil
	}))
	b.defaults = b.live.Clone()

	return b
}

// On registers handler for every name in names, a space-separated list.
// The same handler may be registered any number of times and is called once
// per registration.
func (b *Bus) On(names string, handler Handler) (*Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if fn, ok := handler.(HandlerFunc); ok && fn == nil {
		return nil, ErrNilHandler
	}
	fields := strings.Fields(names)
	if len(fields) == 0 {
		return nil, ErrInvalidEventName
	}

	sub := &Subscription{
		id:    uuid.NewString(),
		names: fields,
		bus:   b,
	}

	b.mu.Lock()
	for _, name := range fields {
		b.live.add(name, listener{subID: sub.id, handler: handler})
	}
	b.mu.Unlock()

	return sub, nil
}

// OnFunc is a convenience method for registering a function handler.
func (b *Bus) OnFunc(names string, fn HandlerFunc) (*Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return b.On(names, fn)
}

// Off removes all registrations of sub from the live registry.
func (b *Bus) Off(sub *Subscription) error {
	if sub == nil {
		return ErrInvalidSubscription
	}

	b.mu.Lock()
	removed := b.live.Remove(sub.id)
	b.mu.Unlock()

	if !removed {
		return ErrSubscriptionNotFound
	}
	return nil
}

// Emit calls every handler currently registered for name with args, in
// registration order, and returns once all of them have run.
//
// Without isolation the first failing handler stops the emit and its error
// is returned as *HandlerError. Emitting a name nobody listens to is a no-op.
func (b *Bus) Emit(name string, args ...any) error {
	b.mu.RLock()
	listeners := b.live.match(name)
	b.mu.RUnlock()

	b.eventsEmitted.Add(1)
	b.logger.Debug("emit",
		zap.String("event", name),
		zap.Int("listeners", len(listeners)),
	)

	var errs error
	for _, l := range listeners {
		err := b.call(name, l, args)
		if err == nil {
			continue
		}
		if !b.config.isolate {
			return err
		}
		errs = multierr.Append(errs, err)
	}
	return errs
}

// call invokes one listener, recovering panics when configured to.
func (b *Bus) call(name string, l listener, args []any) (err error) {
	b.handlerCalls.Add(1)

	if b.config.recoverPanics {
		defer func() {
			if r := recover(); r != nil {
				b.handlerPanics.Add(1)
				err = &PanicError{
					SubscriptionID: l.subID,
					Event:          name,
					Value:          r,
					Stack:          string(debug.Stack()),
				}
				b.logger.Error("handler panicked",
					zap.String("event", name),
					zap.String("subscription", l.subID),
					zap.Any("panic", r),
				)
			}
		}()
	}

	if herr := l.handler.Handle(args...); herr != nil {
		b.handlerErrors.Add(1)
		return &HandlerError{
			SubscriptionID: l.subID,
			Event:          name,
			Err:            herr,
		}
	}
	return nil
}

// Snapshot captures the live listener set as the set Reset restores.
func (b *Bus) Snapshot() {
	b.mu.Lock()
	b.defaults = b.live.Clone()
	n := b.defaults.CountAll()
	b.mu.Unlock()

	b.snapshots.Add(1)
	b.logger.Debug("snapshot", zap.Int("listeners", n))
}

// Reset replaces the live listener set with a copy of the last snapshot.
// Listeners registered after the snapshot are discarded.
func (b *Bus) Reset() {
	b.mu.Lock()
	b.live = b.defaults.Clone()
	n := b.live.CountAll()
	b.mu.Unlock()

	b.resets.Add(1)
	b.logger.Debug("reset", zap.Int("listeners", n))
}

// Listeners returns the number of listeners registered for name.
func (b *Bus) Listeners(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.live.Count(name)
}

// Names returns the event names that currently have listeners.
func (b *Bus) Names() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.live.Names()
}

// Stats returns current bus statistics.
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	listeners := b.live.CountAll()
	b.mu.RUnlock()

	return Stats{
		EventsEmitted: b.eventsEmitted.Load(),
		HandlerCalls:  b.handlerCalls.Load(),
		HandlerErrors: b.handlerErrors.Load(),
		HandlerPanics: b.handlerPanics.Load(),
		Snapshots:     b.snapshots.Load(),
		Resets:        b.resets.Load(),
		Listeners:     listeners,
	}
}

// bind registers a handler for a single name under a fresh subscription.
func (b *Bus) bind(name string, handler Handler) {
	b.live.add(name, listener{subID: uuid.NewString(), handler: handler})
}

package event

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEventName is returned by On when names holds no event name.
	ErrInvalidEventName = errors.New("invalid event name")

	// ErrNilHandler is returned by On and OnFunc for a nil handler.
	ErrNilHandler = errors.New("handler cannot be nil")

	ErrInvalidSubscription  = errors.New("invalid subscription")
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrHandlerPanic matches every *PanicError.
	ErrHandlerPanic = errors.New("handler panicked")
)

// HandlerError is returned by Emit when a handler fails.
type HandlerError struct {
	SubscriptionID string
	Event          string
	Err            error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("%s: handler %s: %v", e.Event, e.SubscriptionID, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

// PanicError is returned by Emit for a recovered handler panic when the bus
// was built WithPanicRecovery(true).
type PanicError struct {
	SubscriptionID string
	Event          string

	// Value is what the handler passed to panic, Stack where it happened.
	Value any
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%s: handler %s panicked: %v", e.Event, e.SubscriptionID, e.Value)
}

func (e *PanicError) Is(target error) bool {
	return target == ErrHandlerPanic
}

package plugin

import "errors"

// Script host errors.
var (
	// ErrAlreadyLoaded is returned when loading a host that holds a script.
	ErrAlreadyLoaded = errors.New("script is already loaded")

	// ErrNotLoaded is returned when using a host without a loaded script.
	ErrNotLoaded = errors.New("script is not loaded")

	// ErrNilBus is returned when a host is created without a bus.
	ErrNilBus = errors.New("event bus is nil")
)

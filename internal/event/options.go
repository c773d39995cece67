package event

import "go.uber.org/zap"

// BusOption configures an event Bus.
type BusOption func(*busConfig)

// busConfig contains configuration for the event bus.
type busConfig struct {
	// logger receives debug traces of emits and lifecycle changes.
	logger *zap.Logger

	// isolate keeps calling handlers after one of them failed.
	isolate bool

	// recoverPanics converts handler panics into *PanicError.
	recoverPanics bool
}

// defaultBusConfig returns the fail-fast configuration.
func defaultBusConfig() busConfig {
	return busConfig{
		logger: zap.NewNop(),
	}
}

// WithLogger sets the logger used by the bus.
func WithLogger(logger *zap.Logger) BusOption {
	return func(c *busConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithIsolation controls whether a failing handler stops the remaining
// handlers of the same Emit call. With isolation enabled every handler runs
// and Emit returns all handler errors combined.
func WithIsolation(enabled bool) BusOption {
	return func(c *busConfig) {
		c.isolate = enabled
	}
}

// WithPanicRecovery controls whether handler panics are recovered and
// reported as *PanicError instead of unwinding through Emit.
func WithPanicRecovery(enabled bool) BusOption {
	return func(c *busConfig) {
		c.recoverPanics = enabled
	}
}

package event

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module returns the fx module providing the event bus.
//
// Starting the app emits EventReady, which captures the listener set
// registered by fx.Invoke functions. Stopping it emits EventReset.
func Module() fx.Option {
	return fx.Module("event",
		fx.Provide(ProvideBus),
		fx.Invoke(registerLifecycle),
	)
}

// busInput holds the optional dependencies of the bus.
type busInput struct {
	fx.In

	Logger  *zap.Logger `optional:"true"`
	Options []BusOption `group:"event.options"`
}

// ProvideBus constructs the bus for the fx graph.
func ProvideBus(in busInput) *Bus {
	opts := make([]BusOption, 0, len(in.Options)+1)
	if in.Logger != nil {
		opts = append(opts, WithLogger(in.Logger))
	}
	opts = append(opts, in.Options...)
	return NewBus(opts...)
}

// AsOption annotates a BusOption so ProvideBus picks it up.
func AsOption(opt BusOption) fx.Option {
	return fx.Supply(fx.Annotated{Group: "event.options", Target: opt})
}

// registerLifecycle ties framework:ready and framework:reset to the app lifecycle.
func registerLifecycle(lc fx.Lifecycle, bus *Bus) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return bus.Emit(EventReady)
		},
		OnStop: func(context.Context) error {
			return bus.Emit(EventReset)
		},
	})
}

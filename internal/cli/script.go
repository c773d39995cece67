package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/narsis77/unpoly/internal/config"
	"github.com/narsis77/unpoly/internal/event"
	"github.com/narsis77/unpoly/internal/plugin"
)

// stopTimeout bounds the shutdown of the script's app.
const stopTimeout = 5 * time.Second

func newScriptCommand(e *env) *cobra.Command {
	var emits []string

	cmd := &cobra.Command{
		Use:   "script <file.lua>",
		Short: "Run a Lua script against an event bus",
		Long: `Run a Lua script against an event bus.

The script can subscribe with up.on, emit with up.emit and use up.params.
After the script ran and its activate() function returned, every --emit is
emitted in order. Arguments follow an '=' as JSON: an array spreads into
several arguments, any other value is a single argument.`,
		Example: `  upctl script hooks.lua --emit 'user:created={"name":"ann"}'
  upctl script hooks.lua --emit 'tick=[1,2]' --emit done --metrics`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(cmd.Context(), e, cmd.OutOrStdout(), args[0], emits)
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVar(&emits, "emit", nil, "emit an event after the script ran, as name or name=json")
	flags.Duration("timeout", 5*time.Second, "timeout for running the script")
	flags.Bool("metrics", false, "print bus metrics in Prometheus text format when done")
	flags.Bool("isolate", false, "keep calling handlers after one fails")
	flags.Bool("recover", false, "recover handler panics as errors")

	bind(e.v, flags.Lookup("timeout"), config.KeyScriptTimeout)
	bind(e.v, flags.Lookup("metrics"), config.KeyMetricsEnabled)
	bind(e.v, flags.Lookup("isolate"), config.KeyBusIsolate)
	bind(e.v, flags.Lookup("recover"), config.KeyBusRecoverPanics)
	return cmd
}

// runScript starts an app with the event module, runs the script on its bus
// and emits the requested events.
func runScript(ctx context.Context, e *env, out io.Writer, path string, emits []string) (err error) {
	var bus *event.Bus
	app := fx.New(
		fx.Supply(e.logger),
		event.Module(),
		event.AsOption(event.WithIsolation(e.cfg.Bus.Isolate)),
		event.AsOption(event.WithPanicRecovery(e.cfg.Bus.RecoverPanics)),
		fx.Populate(&bus),
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
	)
	if err := app.Err(); err != nil {
		return err
	}
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		defer cancel()
		err = multierr.Append(err, app.Stop(stopCtx))
	}()

	host, err := plugin.NewHost(bus,
		plugin.WithHostLogger(e.logger),
		plugin.WithHostStdout(out),
		plugin.WithHostTimeout(e.cfg.Script.Timeout),
		plugin.WithHostConfig(e.cfg.Script.Config),
	)
	if err != nil {
		return err
	}
	if err := host.Load(ctx, path); err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, host.Unload(ctx))
	}()
	if err := host.Activate(ctx); err != nil {
		return err
	}

	for _, arg := range emits {
		name, args, err := parseEmit(arg)
		if err != nil {
			return err
		}
		e.logger.Debug("emit from command line", zap.String("event", name), zap.Int("args", len(args)))
		if err := bus.Emit(name, args...); err != nil {
			return fmt.Errorf("emit %s: %w", name, err)
		}
	}

	if e.cfg.Metrics.Enabled {
		return writeMetrics(out, bus)
	}
	return nil
}

// parseEmit splits name=json into the event name and its arguments.
func parseEmit(arg string) (string, []any, error) {
	name, raw, hasArgs := strings.Cut(arg, "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil, fmt.Errorf("emit %q: %w", arg, event.ErrInvalidEventName)
	}
	if !hasArgs {
		return name, nil, nil
	}
	if !gjson.Valid(raw) {
		return "", nil, fmt.Errorf("emit %s: arguments are not valid JSON", name)
	}

	r := gjson.Parse(raw)
	if !r.IsArray() {
		return name, []any{r.Value()}, nil
	}
	var args []any
	for _, item := range r.Array() {
		args = append(args, item.Value())
	}
	return name, args, nil
}

// writeMetrics prints the bus counters in the Prometheus text format.
func writeMetrics(w io.Writer, bus *event.Bus) error {
	reg := prometheus.NewRegistry()
	if err := reg.Register(event.NewCollector(bus)); err != nil {
		return err
	}
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

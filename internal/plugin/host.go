package plugin

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/narsis77/unpoly/internal/event"
	"github.com/narsis77/unpoly/internal/plugin/api"
	plua "github.com/narsis77/unpoly/internal/plugin/lua"
)

// Host manages a single script's Lua state and lifecycle.
type Host struct {
	mu sync.RWMutex

	bus    *event.Bus
	logger *zap.Logger

	// Lua runtime
	path     string
	state    *plua.State
	registry *api.Registry

	hostState State
	err       error

	// Options
	config  map[string]any
	stdout  io.Writer
	timeout time.Duration
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithHostTimeout bounds every run of script code: loading the file, each
// lifecycle function, Call and every event handler.
func WithHostTimeout(d time.Duration) HostOption {
	return func(h *Host) {
		h.timeout = d
	}
}

// WithHostLogger sets the logger for the host and its modules.
func WithHostLogger(logger *zap.Logger) HostOption {
	return func(h *Host) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithHostStdout redirects the script's print output.
func WithHostStdout(w io.Writer) HostOption {
	return func(h *Host) {
		h.stdout = w
	}
}

// WithHostConfig sets the table passed to the script's setup function.
func WithHostConfig(config map[string]any) HostOption {
	return func(h *Host) {
		h.config = config
	}
}

// NewHost creates a script host bound to bus.
func NewHost(bus *event.Bus, opts ...HostOption) (*Host, error) {
	if bus == nil {
		return nil, ErrNilBus
	}

	h := &Host{
		bus:       bus,
		logger:    zap.NewNop(),
		hostState: StateUnloaded,
		config:    make(map[string]any),
		timeout:   plua.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.Named("plugin")

	return h, nil
}

// Name returns the script's file name.
func (h *Host) Name() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return filepath.Base(h.path)
}

// State returns the current host state.
func (h *Host) State() State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.hostState
}

// Error returns the error that put the host into StateError.
func (h *Host) Error() error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.err
}

// Load creates a Lua state with the API modules installed and runs the
// script at path.
func (h *Host) Load(ctx context.Context, path string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.hostState.IsUsable() {
		return ErrAlreadyLoaded
	}

	state, err := plua.NewState(
		plua.WithTimeout(h.timeout),
		plua.WithLogger(h.logger),
		plua.WithStdout(h.stdout),
	)
	if err != nil {
		return h.fail(err)
	}

	registry, err := api.DefaultRegistry(h.bus, state, h.logger)
	if err == nil {
		err = registry.InjectAll(state.LuaState())
	}
	if err != nil {
		_ = state.Close()
		return h.fail(err)
	}

	h.path = path
	h.state = state
	h.registry = registry

	if err := state.DoFile(ctx, path); err != nil {
		h.release()
		return h.fail(fmt.Errorf("failed to load script: %w", err))
	}

	h.logger.Debug("script loaded", zap.String("path", path))
	h.hostState = StateLoaded
	h.err = nil
	return nil
}

// Activate calls the script's optional setup(config) and activate()
// functions, each bounded by the host's timeout.
func (h *Host) Activate(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.hostState != StateLoaded {
		return ErrNotLoaded
	}

	if err := h.callOptional(ctx, "setup", h.config); err != nil {
		return h.fail(err)
	}
	if err := h.callOptional(ctx, "activate"); err != nil {
		return h.fail(err)
	}

	h.hostState = StateActive
	return nil
}

// Unload calls the script's optional deactivate(), cancels its
// subscriptions and closes the Lua state.
func (h *Host) Unload(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.hostState == StateUnloaded {
		return nil
	}

	var err error
	if h.hostState == StateActive {
		err = h.callOptional(ctx, "deactivate")
	}

	h.release()
	h.hostState = StateUnloaded
	h.err = nil
	return err
}

// callOptional calls a global function if the script defines one.
func (h *Host) callOptional(ctx context.Context, name string, args ...any) error {
	if !h.hasFunction(name) {
		return nil
	}
	if _, err := h.state.Call(ctx, name, args...); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// release drops the registry and Lua state.
func (h *Host) release() {
	if h.registry != nil {
		h.registry.Cleanup()
		h.registry = nil
	}
	if h.state != nil {
		_ = h.state.Close()
		h.state = nil
	}
}

func (h *Host) fail(err error) error {
	h.hostState = StateError
	h.err = err
	h.logger.Warn("script failed", zap.String("path", h.path), zap.Error(err))
	return err
}

// Call calls a global Lua function in the script under the host's timeout.
func (h *Host) Call(ctx context.Context, fn string, args ...any) ([]any, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.state == nil {
		return nil, ErrNotLoaded
	}
	return h.state.Call(ctx, fn, args...)
}

// HasFunction returns true if the script has the named global function.
func (h *Host) HasFunction(name string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.hasFunction(name)
}

func (h *Host) hasFunction(name string) bool {
	if h.state == nil {
		return false
	}
	return h.state.LuaState().GetGlobal(name).Type() == lua.LTFunction
}

// GetGlobal returns a global variable value.
func (h *Host) GetGlobal(name string) any {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.state == nil {
		return nil
	}
	return h.state.GetGlobal(name)
}

// Stats returns runtime statistics for the host.
func (h *Host) Stats() HostStats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	stats := HostStats{
		Path:     h.path,
		State:    h.hostState,
		HasError: h.err != nil,
	}
	if h.registry != nil {
		if mod, ok := h.registry.Get("event"); ok {
			stats.Subscriptions = mod.(*api.EventModule).Subscriptions()
		}
	}
	return stats
}

// HostStats contains runtime statistics for a script host.
type HostStats struct {
	Path          string
	State         State
	Subscriptions int
	HasError      bool
}

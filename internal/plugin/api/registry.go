package api

import (
	"errors"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/narsis77/unpoly/internal/event"
)

// GlobalName is the Lua global that holds every API module.
const GlobalName = "up"

// APIVersion is exposed to scripts as up.api_version.
const APIVersion = 1

// Errors returned by the registry.
var (
	// ErrModuleExists is returned when a module name is registered twice.
	ErrModuleExists = errors.New("module already registered")

	// ErrModuleNotFound is returned by Inject for unknown module names.
	ErrModuleNotFound = errors.New("module not found")
)

// Module represents a Lua API module.
type Module interface {
	// Name returns the module name (e.g., "event", "params").
	Name() string

	// Register installs the module's functions into the up table.
	Register(L *lua.LState, up *lua.LTable) error
}

// Registry manages API modules and their installation.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]Module
	order   []string
}

// NewRegistry creates a new API registry.
func NewRegistry() *Registry {
	return &Registry{
		modules: make(map[string]Module),
	}
}

// Register adds a module to the registry.
func (r *Registry) Register(mod Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.modules[mod.Name()]; exists {
		return fmt.Errorf("%w: %q", ErrModuleExists, mod.Name())
	}

	r.modules[mod.Name()] = mod
	r.order = append(r.order, mod.Name())
	return nil
}

// Get returns a module by name.
func (r *Registry) Get(name string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mod, ok := r.modules[name]
	return mod, ok
}

// List returns the registered module names in registration order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// InjectAll installs every module into the up global of L.
func (r *Registry) InjectAll(L *lua.LState) error {
	return r.Inject(L, r.List()...)
}

// Inject installs the named modules into the up global of L, creating the
// table on first use.
func (r *Registry) Inject(L *lua.LState, names ...string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	up := upTable(L)
	for _, name := range names {
		mod, ok := r.modules[name]
		if !ok {
			return fmt.Errorf("%w: %q", ErrModuleNotFound, name)
		}
		if err := mod.Register(L, up); err != nil {
			return fmt.Errorf("failed to register module %q: %w", name, err)
		}
	}
	return nil
}

// upTable returns the up global, creating it if needed.
func upTable(L *lua.LState) *lua.LTable {
	if t, ok := L.GetGlobal(GlobalName).(*lua.LTable); ok {
		return t
	}
	t := L.NewTable()
	L.SetField(t, "api_version", lua.LNumber(APIVersion))
	L.SetGlobal(GlobalName, t)
	return t
}

// DefaultRegistry creates a registry with the event and params modules.
// caller runs the scripts' event handlers; see NewEventModule.
func DefaultRegistry(bus *event.Bus, caller Caller, logger *zap.Logger) (*Registry, error) {
	r := NewRegistry()

	modules := []Module{
		NewEventModule(bus, caller, logger),
		NewParamsModule(),
	}
	for _, mod := range modules {
		if err := r.Register(mod); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// cleaner is implemented by modules holding resources outside the Lua state.
type cleaner interface {
	Cleanup()
}

// Cleanup releases the resources of every module that holds any.
func (r *Registry) Cleanup() {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range r.order {
		if c, ok := r.modules[name].(cleaner); ok {
			c.Cleanup()
		}
	}
}

package api

import (
	"context"
	"errors"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/narsis77/unpoly/internal/event"
	plua "github.com/narsis77/unpoly/internal/plugin/lua"
)

// Caller runs a Lua function from Go under the limits of its state.
// *lua.State from internal/plugin/lua implements it.
type Caller interface {
	CallFunction(ctx context.Context, fn *lua.LFunction, args ...any) ([]any, error)
}

// EventModule implements up.on, up.off and up.emit over an event bus.
//
// The bus calls Lua handlers synchronously on the emitting goroutine. Events
// that reach script handlers must therefore be emitted from the goroutine
// that drives the Lua state.
type EventModule struct {
	bus    *event.Bus
	caller Caller
	logger *zap.Logger

	mu     sync.Mutex
	L      *lua.LState
	bridge *plua.Bridge
	subs   map[string]*event.Subscription
}

// NewEventModule creates a new event module. Handlers run through caller,
// so each one is bounded by the state's timeout. Without a caller they run
// unbounded.
func NewEventModule(bus *event.Bus, caller Caller, logger *zap.Logger) *EventModule {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventModule{
		bus:    bus,
		caller: caller,
		logger: logger.Named("lua.event"),
		subs:   make(map[string]*event.Subscription),
	}
}

// Name returns the module name.
func (m *EventModule) Name() string {
	return "event"
}

// Register installs on, off and emit into the up table.
func (m *EventModule) Register(L *lua.LState, up *lua.LTable) error {
	if m.bus == nil {
		return errors.New("event module: no bus")
	}

	m.mu.Lock()
	m.L = L
	m.bridge = plua.NewBridge(L)
	m.mu.Unlock()

	L.SetField(up, "on", L.NewFunction(m.on))
	L.SetField(up, "off", L.NewFunction(m.off))
	L.SetField(up, "emit", L.NewFunction(m.emit))
	return nil
}

// Cleanup cancels every subscription made by scripts and detaches the
// module from its Lua state.
func (m *EventModule) Cleanup() {
	m.mu.Lock()
	subs := m.subs
	m.subs = make(map[string]*event.Subscription)
	m.L = nil
	m.bridge = nil
	m.mu.Unlock()

	for _, sub := range subs {
		sub.Cancel()
	}
}

// Subscriptions returns the number of live script subscriptions.
func (m *EventModule) Subscriptions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

// on(names, handler) -> id
// names may hold several space-separated event names.
func (m *EventModule) on(L *lua.LState) int {
	names := L.CheckString(1)
	fn := L.CheckFunction(2)

	sub, err := m.bus.On(names, m.handler(fn))
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}

	m.mu.Lock()
	m.subs[sub.ID()] = sub
	m.mu.Unlock()

	m.logger.Debug("script subscribed", zap.String("events", names), zap.String("id", sub.ID()))
	L.Push(lua.LString(sub.ID()))
	return 1
}

// off(id) -> bool
// Returns true if the subscription existed.
func (m *EventModule) off(L *lua.LState) int {
	id := L.CheckString(1)

	m.mu.Lock()
	sub, ok := m.subs[id]
	delete(m.subs, id)
	m.mu.Unlock()

	if !ok {
		L.Push(lua.LFalse)
		return 1
	}
	L.Push(lua.LBool(m.bus.Off(sub) == nil))
	return 1
}

// emit(name, ...)
// Raises the first handler error, including errors from Lua handlers.
func (m *EventModule) emit(L *lua.LState) int {
	name := L.CheckString(1)

	m.mu.Lock()
	bridge := m.bridge
	m.mu.Unlock()
	if bridge == nil {
		L.RaiseError("emit: event module closed")
		return 0
	}

	args := make([]any, 0, L.GetTop()-1)
	for i := 2; i <= L.GetTop(); i++ {
		args = append(args, bridge.ToGoValue(L.Get(i)))
	}

	if err := m.bus.Emit(name, args...); err != nil {
		L.RaiseError("%s", err.Error())
	}
	return 0
}

// handler adapts a Lua function to an event handler. A Lua error becomes the
// handler's error.
func (m *EventModule) handler(fn *lua.LFunction) event.Handler {
	return event.HandlerFunc(func(args ...any) error {
		m.mu.Lock()
		bridge := m.bridge
		m.mu.Unlock()

		if bridge == nil {
			return nil // module cleaned up
		}
		var err error
		if m.caller != nil {
			_, err = m.caller.CallFunction(context.Background(), fn, args...)
		} else {
			_, err = bridge.CallFunc(fn, args...)
		}
		if err != nil {
			return fmt.Errorf("lua handler: %w", err)
		}
		return nil
	})
}

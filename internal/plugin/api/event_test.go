package api

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/narsis77/unpoly/internal/event"
	plua "github.com/narsis77/unpoly/internal/plugin/lua"
)

// setupEventTest returns a state with the event module installed.
func setupEventTest(t *testing.T, opts ...plua.StateOption) (*plua.State, *event.Bus, *EventModule) {
	t.Helper()

	state, err := plua.NewState(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = state.Close() })

	bus := event.NewBus()
	mod := NewEventModule(bus, state, nil)

	r := NewRegistry()
	require.NoError(t, r.Register(mod))
	require.NoError(t, r.InjectAll(state.LuaState()))

	return state, bus, mod
}

func run(t *testing.T, state *plua.State, code string) {
	t.Helper()
	require.NoError(t, state.DoString(context.Background(), code))
}

func TestEventModule_GoEmitReachesLua(t *testing.T) {
	state, bus, _ := setupEventTest(t)

	run(t, state, `
		calls = {}
		up.on("ping", function(a, b)
			calls[#calls + 1] = a .. ":" .. tostring(b)
		end)
	`)

	require.NoError(t, bus.Emit("ping", "a", 2))
	require.NoError(t, bus.Emit("ping", "b", true))
	require.NoError(t, bus.Emit("other", "ignored"))

	assert.Equal(t, []any{"a:2", "b:true"}, state.GetGlobal("calls"))
}

func TestEventModule_LuaEmitReachesGo(t *testing.T) {
	state, bus, _ := setupEventTest(t)

	var got []any
	_, err := bus.OnFunc("user:created", func(args ...any) error {
		got = args
		return nil
	})
	require.NoError(t, err)

	run(t, state, `up.emit("user:created", {name = "ann"}, 3)`)

	assert.Equal(t, []any{map[string]any{"name": "ann"}, int64(3)}, got)
}

func TestEventModule_LuaToLua(t *testing.T) {
	state, _, _ := setupEventTest(t)

	run(t, state, `
		seen = {}
		up.on("a b", function(v) seen[#seen + 1] = v end)
		up.emit("a", "first")
		up.emit("b", "second")
	`)

	assert.Equal(t, []any{"first", "second"}, state.GetGlobal("seen"))
}

func TestEventModule_Off(t *testing.T) {
	state, bus, mod := setupEventTest(t)

	run(t, state, `
		count = 0
		id = up.on("tick", function() count = count + 1 end)
		up.emit("tick")
		removed = up.off(id)
		again = up.off(id)
		unknown = up.off("nope")
		up.emit("tick")
	`)

	assert.Equal(t, int64(1), state.GetGlobal("count"))
	assert.Equal(t, true, state.GetGlobal("removed"))
	assert.Equal(t, false, state.GetGlobal("again"))
	assert.Equal(t, false, state.GetGlobal("unknown"))
	assert.Equal(t, 0, bus.Listeners("tick"))
	assert.Equal(t, 0, mod.Subscriptions())
}

func TestEventModule_IDsAreUnique(t *testing.T) {
	state, _, mod := setupEventTest(t)

	run(t, state, `
		local f = function() end
		id1 = up.on("x", f)
		id2 = up.on("x", f)
		different = id1 ~= id2
	`)

	assert.Equal(t, true, state.GetGlobal("different"))
	assert.Equal(t, 2, mod.Subscriptions())
}

func TestEventModule_InvalidName(t *testing.T) {
	state, _, _ := setupEventTest(t)

	err := state.DoString(context.Background(), `up.on("   ", function() end)`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), event.ErrInvalidEventName.Error())
}

func TestEventModule_LuaErrorIsHandlerError(t *testing.T) {
	state, bus, _ := setupEventTest(t)

	run(t, state, `up.on("fail", function() error("boom") end)`)

	err := bus.Emit("fail")
	var herr *event.HandlerError
	require.True(t, errors.As(err, &herr))
	assert.Equal(t, "fail", herr.Event)
	assert.Contains(t, err.Error(), "boom")
}

func TestEventModule_LuaErrorFailsLuaEmit(t *testing.T) {
	state, _, _ := setupEventTest(t)

	run(t, state, `
		up.on("fail", function() error("boom") end)
		ok, msg = pcall(up.emit, "fail")
	`)

	assert.Equal(t, false, state.GetGlobal("ok"))
	assert.Contains(t, state.GetGlobal("msg"), "boom")

	err := state.DoString(context.Background(), `up.emit("fail")`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestEventModule_Cleanup(t *testing.T) {
	state, bus, mod := setupEventTest(t)

	run(t, state, `
		up.on("x", function() end)
		up.on("y", function() end)
	`)
	require.Equal(t, 1, bus.Listeners("x"))

	mod.Cleanup()

	assert.Equal(t, 0, bus.Listeners("x"))
	assert.Equal(t, 0, bus.Listeners("y"))
	assert.Equal(t, 0, mod.Subscriptions())

	err := state.DoString(context.Background(), `up.emit("x")`)
	assert.Error(t, err)
}

func TestEventModule_ResetDropsScriptSubscriptions(t *testing.T) {
	state, bus, _ := setupEventTest(t)

	require.NoError(t, bus.Emit(event.EventReady))
	run(t, state, `up.on("late", function() end)`)
	require.Equal(t, 1, bus.Listeners("late"))

	require.NoError(t, bus.Emit(event.EventReset))
	assert.Equal(t, 0, bus.Listeners("late"))
}

func TestEventModule_NoBus(t *testing.T) {
	state, err := plua.NewState()
	require.NoError(t, err)
	defer state.Close()

	r := NewRegistry()
	require.NoError(t, r.Register(NewEventModule(nil, nil, nil)))
	assert.Error(t, r.InjectAll(state.LuaState()))
}

func TestEventModule_HandlerTimeout(t *testing.T) {
	state, bus, _ := setupEventTest(t, plua.WithTimeout(50*time.Millisecond))

	run(t, state, `up.on("spin", function() while true do end end)`)

	err := bus.Emit("spin")
	require.Error(t, err)
	assert.ErrorIs(t, err, plua.ErrExecutionTimeout)

	// The state stays usable for the next event.
	run(t, state, `up.on("ok", function() done = true end)`)
	require.NoError(t, bus.Emit("ok"))
	assert.Equal(t, true, state.GetGlobal("done"))
}

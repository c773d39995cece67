package plugin

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/narsis77/unpoly/internal/event"
	plua "github.com/narsis77/unpoly/internal/plugin/lua"
)

// writeScript creates a temporary Lua file.
func writeScript(t *testing.T, code string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.lua")
	require.NoError(t, os.WriteFile(path, []byte(code), 0o644))
	return path
}

func TestNewHost(t *testing.T) {
	_, err := NewHost(nil)
	assert.ErrorIs(t, err, ErrNilBus)

	h, err := NewHost(event.NewBus())
	require.NoError(t, err)
	assert.Equal(t, StateUnloaded, h.State())
}

func TestHost_Lifecycle(t *testing.T) {
	ctx := context.Background()
	bus := event.NewBus()
	var out bytes.Buffer

	h, err := NewHost(bus,
		WithHostStdout(&out),
		WithHostConfig(map[string]any{"prefix": "hello "}),
	)
	require.NoError(t, err)

	path := writeScript(t, `
		function setup(config)
			prefix = config.prefix
		end

		function activate()
			up.on("user:created", function(user)
				print(prefix .. user.name)
			end)
		end

		function deactivate()
			deactivated = true
		end
	`)

	require.NoError(t, h.Load(ctx, path))
	assert.Equal(t, StateLoaded, h.State())
	assert.Equal(t, "script.lua", h.Name())
	assert.ErrorIs(t, h.Load(ctx, path), ErrAlreadyLoaded)

	require.NoError(t, h.Activate(ctx))
	assert.Equal(t, StateActive, h.State())
	assert.Equal(t, 1, h.Stats().Subscriptions)

	require.NoError(t, bus.Emit("user:created", map[string]any{"name": "ann"}))
	assert.Equal(t, "hello ann\n", out.String())

	require.NoError(t, h.Unload(ctx))
	assert.Equal(t, StateUnloaded, h.State())
	assert.Equal(t, 0, bus.Listeners("user:created"))
	assert.Nil(t, h.GetGlobal("prefix"))
}

func TestHost_LoadError(t *testing.T) {
	h, err := NewHost(event.NewBus())
	require.NoError(t, err)

	err = h.Load(context.Background(), writeScript(t, `error("broken")`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	assert.Equal(t, StateError, h.State())
	assert.Equal(t, err, h.Error())
	assert.True(t, h.Stats().HasError)

	// A failed host can load again.
	require.NoError(t, h.Load(context.Background(), writeScript(t, `ok = true`)))
	assert.Equal(t, true, h.GetGlobal("ok"))
	assert.NoError(t, h.Error())
}

func TestHost_MissingFile(t *testing.T) {
	h, err := NewHost(event.NewBus())
	require.NoError(t, err)

	err = h.Load(context.Background(), filepath.Join(t.TempDir(), "missing.lua"))
	assert.Error(t, err)
	assert.Equal(t, StateError, h.State())
}

func TestHost_ActivateError(t *testing.T) {
	h, err := NewHost(event.NewBus())
	require.NoError(t, err)
	require.NoError(t, h.Load(context.Background(), writeScript(t, `
		function activate() error("nope") end
	`)))

	err = h.Activate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "activate")
	assert.Equal(t, StateError, h.State())
}

func TestHost_Timeouts(t *testing.T) {
	ctx := context.Background()
	bus := event.NewBus()
	h, err := NewHost(bus, WithHostTimeout(50*time.Millisecond))
	require.NoError(t, err)

	require.NoError(t, h.Load(ctx, writeScript(t, `
		function spin() while true do end end
		up.on("spin", spin)
		function deactivate() spin() end
	`)))

	_, err = h.Call(ctx, "spin")
	assert.ErrorIs(t, err, plua.ErrExecutionTimeout)

	err = bus.Emit("spin")
	assert.ErrorIs(t, err, plua.ErrExecutionTimeout)

	require.NoError(t, h.Activate(ctx))
	err = h.Unload(ctx)
	assert.ErrorIs(t, err, plua.ErrExecutionTimeout)
	assert.Equal(t, StateUnloaded, h.State())
}

func TestHost_ActivateTimeout(t *testing.T) {
	ctx := context.Background()
	h, err := NewHost(event.NewBus(), WithHostTimeout(100*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, h.Load(ctx, writeScript(t, `
		function activate() while true do end end
	`)))

	start := time.Now()
	err = h.Activate(ctx)
	assert.ErrorIs(t, err, plua.ErrExecutionTimeout)
	assert.Less(t, time.Since(start), 3*time.Second)
	assert.Equal(t, StateError, h.State())
	assert.NoError(t, h.Unload(ctx))
}

func TestHost_NotLoaded(t *testing.T) {
	h, err := NewHost(event.NewBus())
	require.NoError(t, err)

	assert.ErrorIs(t, h.Activate(context.Background()), ErrNotLoaded)
	_, err = h.Call(context.Background(), "f")
	assert.ErrorIs(t, err, ErrNotLoaded)
	assert.False(t, h.HasFunction("f"))
	assert.NoError(t, h.Unload(context.Background()))
}

func TestHost_Call(t *testing.T) {
	h, err := NewHost(event.NewBus())
	require.NoError(t, err)
	require.NoError(t, h.Load(context.Background(), writeScript(t, `
		function normalize(q) return up.params.query(q) end
	`)))

	assert.True(t, h.HasFunction("normalize"))
	assert.False(t, h.HasFunction("missing"))

	results, err := h.Call(context.Background(), "normalize", "b=2&a")
	require.NoError(t, err)
	assert.Equal(t, []any{"b=2&a"}, results)
}

func TestHost_OptionalFunctions(t *testing.T) {
	h, err := NewHost(event.NewBus())
	require.NoError(t, err)
	require.NoError(t, h.Load(context.Background(), writeScript(t, `x = 1`)))

	require.NoError(t, h.Activate(context.Background()))
	require.NoError(t, h.Unload(context.Background()))
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateUnloaded, "unloaded"},
		{StateLoaded, "loaded"},
		{StateActive, "active"},
		{StateError, "error"},
		{State(99), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.state.String())
	}
	assert.True(t, StateActive.IsUsable())
	assert.False(t, StateError.IsUsable())
}

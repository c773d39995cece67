// Package lua provides the Lua runtime that upctl scripts run in.
//
// This package wraps the gopher-lua library to provide:
//   - A restricted Lua state with only the base, table, string and math
//     libraries opened
//   - Go-Lua type conversion through Bridge
//   - Execution timeouts through context cancellation
//
// # State
//
//	state, err := lua.NewState(
//	    lua.WithTimeout(5 * time.Second),
//	    lua.WithLogger(logger),
//	)
//	if err != nil {
//	    return err
//	}
//	defer state.Close()
//
//	if err := state.DoFile(ctx, "script.lua"); err != nil {
//	    return err
//	}
//
// gopher-lua's LState is not goroutine-safe. Callbacks that re-enter the
// state, such as event handlers registered by scripts, must run on the
// goroutine that drives the state.
//
// # Bridge
//
//	bridge := lua.NewBridge(state.LuaState())
//
//	luaVal := bridge.ToLuaValue(map[string]any{"name": "test"})
//	goVal := bridge.ToGoValue(luaVal)
package lua

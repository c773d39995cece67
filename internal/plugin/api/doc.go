// Package api provides the Lua API modules exposed to upctl scripts.
//
// Scripts reach every module through the "up" global:
//
//   - up.on, up.off, up.emit: event bus subscription and emission
//   - up.params: query parsing and encoding
//
// # Architecture
//
// Each API module implements the Module interface:
//
//	type Module interface {
//	    Name() string
//	    Register(L *lua.LState, up *lua.LTable) error
//	}
//
// Modules are collected in a Registry, which installs them into a Lua state:
//
//	reg, err := api.DefaultRegistry(bus, state, logger)
//	if err != nil {
//	    return err
//	}
//	defer reg.Cleanup()
//
//	if err := reg.InjectAll(state.LuaState()); err != nil {
//	    return err
//	}
//
// # Events
//
//	local id = up.on("user:created user:updated", function(user)
//	    print(user.name)
//	end)
//	up.emit("user:created", {name = "ann"})
//	up.off(id)
//
// An error raised by a Lua handler fails the emit that called it, in Lua and
// in Go alike.
package api

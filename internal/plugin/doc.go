// Package plugin hosts Lua scripts that talk to the event bus.
//
// A Host owns one Lua state with the up API installed (see package api).
// Its lifecycle mirrors a small plugin:
//
//	host, err := plugin.NewHost(bus, plugin.WithHostConfig(cfg))
//	if err != nil {
//	    return err
//	}
//	if err := host.Load(ctx, "script.lua"); err != nil {
//	    return err
//	}
//	if err := host.Activate(ctx); err != nil {
//	    return err
//	}
//	defer host.Unload(ctx)
//
// Load runs the file. Activate calls the script's setup(config) and
// activate() functions when they exist, and Unload calls deactivate(),
// then cancels every subscription the script made.
//
// # Script Structure
//
//	function setup(config)
//	    prefix = config.prefix or ""
//	end
//
//	function activate()
//	    up.on("user:created", function(user)
//	        print(prefix .. user.name)
//	    end)
//	end
//
//	function deactivate()
//	end
package plugin

package plugin

// State is where a Host is in a script's lifecycle.
type State int

const (
	// StateUnloaded means no script is loaded, initially and after Unload.
	StateUnloaded State = iota

	// StateLoaded means the script file ran but activate() was not called.
	StateLoaded

	// StateActive means setup() and activate() returned without error.
	StateActive

	// StateError means Load or Activate failed; Host.Error has the cause.
	StateError
)

var stateNames = [...]string{
	StateUnloaded: "unloaded",
	StateLoaded:   "loaded",
	StateActive:   "active",
	StateError:    "error",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// IsUsable reports whether the script's Lua state is open.
func (s State) IsUsable() bool {
	return s == StateLoaded || s == StateActive
}

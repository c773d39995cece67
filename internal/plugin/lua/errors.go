package lua

import "errors"

var (
	// ErrStateClosed is returned by every run method after Close.
	ErrStateClosed = errors.New("lua: state closed")

	// ErrExecutionTimeout is returned when a run exceeds the state's timeout.
	ErrExecutionTimeout = errors.New("lua: execution timed out")

	// ErrNotFunction is returned by Call for a global that is not a function.
	ErrNotFunction = errors.New("lua: not a function")
)

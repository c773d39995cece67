package lua

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a single run: DoString, DoFile, Call or CallFunction.
const DefaultTimeout = 5 * time.Second

// State wraps gopher-lua with the restrictions and limits scripts run under.
//
// The mutex guards the Go-side entry points only. Lua code calling back into
// Go, and Go callbacks calling into Lua while a script runs, happen on the
// goroutine already holding it.
type State struct {
	L *lua.LState

	mu     sync.Mutex
	bridge *Bridge
	logger *zap.Logger
	stdout io.Writer

	timeout time.Duration
	closed  bool

	// running is set while run holds mu, so calls from Lua back into Lua
	// can tell they are already bounded.
	running atomic.Bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithTimeout sets the execution timeout. Zero disables it.
func WithTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.timeout = d
	}
}

// WithLogger sets the logger used for script diagnostics.
func WithLogger(logger *zap.Logger) StateOption {
	return func(s *State) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStdout redirects the output of the Lua print function.
func WithStdout(w io.Writer) StateOption {
	return func(s *State) {
		if w != nil {
			s.stdout = w
		}
	}
}

// NewState creates a new restricted Lua state.
func NewState(opts ...StateOption) (*State, error) {
	state := &State{
		logger:  zap.NewNop(),
		stdout:  os.Stdout,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(state)
	}
	state.logger = state.logger.Named("lua")

	L := lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})
	state.L = L
	state.bridge = NewBridge(L)

	openSafeLibraries(L)
	state.restrict()

	return state, nil
}

// openSafeLibraries opens only Lua standard libraries without host access.
// io, os, debug and package are never opened.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// restrict removes loaders from the base library and routes print to the
// configured writer.
func (s *State) restrict() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		s.L.SetGlobal(name, lua.LNil)
	}
	s.L.SetGlobal("print", s.L.NewFunction(s.print))
}

func (s *State) print(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, n)
	for i := 1; i <= n; i++ {
		parts[i-1] = L.ToStringMeta(L.Get(i)).String()
	}
	fmt.Fprintln(s.stdout, strings.Join(parts, "\t"))
	return 0
}

// DoString executes a chunk of Lua code.
func (s *State) DoString(ctx context.Context, code string) error {
	return s.run(ctx, func() error {
		return s.L.DoString(code)
	})
}

// DoFile executes a Lua file.
func (s *State) DoFile(ctx context.Context, path string) error {
	s.logger.Debug("run script", zap.String("path", path))
	return s.run(ctx, func() error {
		return s.L.DoFile(path)
	})
}

// run executes fn under the state lock with the timeout applied.
func (s *State) run(ctx context.Context, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	runCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	s.L.SetContext(runCtx)
	s.running.Store(true)
	defer func() {
		s.running.Store(false)
		s.L.RemoveContext()
	}()

	err := doWithRecovery(fn)
	if err == nil {
		return nil
	}

	switch {
	case ctx.Err() != nil:
		err = ctx.Err()
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		err = fmt.Errorf("%w after %s", ErrExecutionTimeout, s.timeout)
	}
	s.logger.Debug("script failed", zap.Error(err))
	return err
}

// doWithRecovery executes a function with panic recovery.
func doWithRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// GetGlobal returns a global variable converted to a Go value.
func (s *State) GetGlobal(name string) any {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	return s.bridge.ToGoValue(s.L.GetGlobal(name))
}

// SetGlobal sets a global variable from a Go value.
func (s *State) SetGlobal(name string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.L.SetGlobal(name, s.bridge.ToLuaValue(value))
}

// Call calls a global Lua function with Go arguments, under the same
// timeout as DoString.
func (s *State) Call(ctx context.Context, name string, args ...any) ([]any, error) {
	var results []any
	err := s.run(ctx, func() error {
		fn, ok := s.L.GetGlobal(name).(*lua.LFunction)
		if !ok {
			return fmt.Errorf("%w: %q", ErrNotFunction, name)
		}
		var err error
		results, err = s.bridge.CallFunc(fn, args...)
		return err
	})
	return results, err
}

// CallFunction calls fn with Go arguments under the state's timeout.
//
// Called from Go code that Lua itself invoked, for example an event handler
// reached through up.emit, fn runs directly under the run already in
// progress.
func (s *State) CallFunction(ctx context.Context, fn *lua.LFunction, args ...any) ([]any, error) {
	if s.running.Load() {
		return s.bridge.CallFunc(fn, args...)
	}

	var results []any
	err := s.run(ctx, func() error {
		var err error
		results, err = s.bridge.CallFunc(fn, args...)
		return err
	})
	return results, err
}

// LuaState returns the underlying gopher-lua state. Access through it
// bypasses the state lock.
func (s *State) LuaState() *lua.LState {
	return s.L
}

// Bridge returns the value bridge bound to this state.
func (s *State) Bridge() *Bridge {
	return s.bridge
}

// IsClosed returns true if the state has been closed.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases all resources associated with the Lua state.
// After Close is called, execution methods return ErrStateClosed.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.L.Close()
	s.closed = true
	return nil
}

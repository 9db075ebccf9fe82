// Package lua runs preference scripts in a sandboxed gopher-lua state.
//
// Scripts see the safe standard libraries (base, table, string, math) and
// the usercast module installed by Install:
//
//	usercast.set("prefix", "Hi ")
//	usercast.set("prefix_policy", usercast.policies.ALWAYS)
//	print(usercast.compose("alice", "hello ", 6))
package lua

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/usercast/internal/logging"
)

// DefaultExecutionTimeout bounds a single script run.
const DefaultExecutionTimeout = 5 * time.Second

// State wraps gopher-lua with a sandbox and execution timeouts.
//
// gopher-lua's LState is not goroutine-safe; the mutex serializes Go-side
// access.
type State struct {
	L *lua.LState

	mu sync.Mutex

	executionTimeout time.Duration
	logger           *logging.Logger

	closed bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout sets the execution timeout for script runs.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.executionTimeout = d
	}
}

// WithLogger routes script print output to logger.
func WithLogger(logger *logging.Logger) StateOption {
	return func(s *State) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewState creates a new sandboxed Lua state.
func NewState(opts ...StateOption) *State {
	state := &State{
		executionTimeout: DefaultExecutionTimeout,
		logger:           logging.Null(),
	}
	for _, opt := range opts {
		opt(state)
	}

	state.L = lua.NewState(lua.Options{
		SkipOpenLibs: true, // We'll open selectively
	})
	openSafeLibraries(state.L)
	installSandbox(state.L, state.logger)

	return state
}

// DoFile executes a Lua file.
func (s *State) DoFile(ctx context.Context, path string) error {
	return s.run(ctx, func() error {
		return s.L.DoFile(path)
	})
}

// DoString executes a Lua chunk.
func (s *State) DoString(ctx context.Context, code string) error {
	return s.run(ctx, func() error {
		return s.L.DoString(code)
	})
}

func (s *State) run(ctx context.Context, fn func() error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	if s.executionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.executionTimeout)
		defer cancel()
	}
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	err = fn()
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrExecutionTimeout, err)
	}
	return err
}

// GetGlobal returns a global variable value.
func (s *State) GetGlobal(name string) lua.LValue {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// RegisterModule registers a global table with the given functions and
// returns it for further population.
func (s *State) RegisterModule(name string, funcs map[string]lua.LGFunction) *lua.LTable {
	s.mu.Lock()
	defer s.mu.Unlock()

	mod := s.L.SetFuncs(s.L.NewTable(), funcs)
	if !s.closed {
		s.L.SetGlobal(name, mod)
	}
	return mod
}

// IsClosed returns true if the state has been closed.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases all resources associated with the Lua state.
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

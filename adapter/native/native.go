// Package native provides the in-process language facade plus vectorized
// array, string, and math helpers.
package native

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wormhq/worm/adapter"
)

// Callable is a caller-supplied function exposed through the facade.
// Errors returned by a Callable propagate to the caller unchanged.
type Callable func(args ...any) (any, error)

// Facade executes callables and command pipelines directly in-process.
// There is no arbitrary code evaluation: Execute accepts only the closed
// command language, and Call dispatches to registered callables or the
// builtin math table.
type Facade struct {
	mu    sync.RWMutex
	funcs map[string]Callable
}

// New returns a native facade with no registered callables.
func New() *Facade {
	return &Facade{funcs: make(map[string]Callable)}
}

// Name returns "native".
func (f *Facade) Name() string { return "native" }

// Function registers a callable under name, replacing any prior one, and
// returns the facade for chaining.
func (f *Facade) Function(name string, fn Callable) *Facade {
	f.mu.Lock()
	f.funcs[name] = fn
	f.mu.Unlock()
	return f
}

// Execute parses code as a command pipeline and evaluates it natively.
func (f *Facade) Execute(ctx context.Context, code string) adapter.Result {
	start := time.Now()

	cmds, err := adapter.ParsePipeline(code)
	if err != nil {
		return adapter.Result{Error: err, Duration: time.Since(start)}
	}
	value, err := adapter.EvalPipeline(cmds)
	if err != nil {
		return adapter.Result{Error: err, Duration: time.Since(start)}
	}
	return adapter.Result{
		Value:    value,
		Output:   fmt.Sprint(value),
		Duration: time.Since(start),
	}
}

// Call invokes a registered callable, falling back to the builtin math
// table. Callable errors propagate verbatim.
func (f *Facade) Call(ctx context.Context, fn string, args ...any) adapter.Result {
	start := time.Now()

	f.mu.RLock()
	callable, ok := f.funcs[fn]
	f.mu.RUnlock()

	if ok {
		value, err := callable(args...)
		return adapter.Result{Value: value, Error: err, Duration: time.Since(start)}
	}

	if nums, ok := adapter.Floats(args); ok {
		if v, ok := adapter.SimulateCall(fn, nums); ok {
			return adapter.Result{Value: v, Duration: time.Since(start)}
		}
	}

	return adapter.Result{
		Error:    fmt.Errorf("%w: %s", adapter.ErrUnknownFunction, fn),
		Duration: time.Since(start),
	}
}

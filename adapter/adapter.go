// Package adapter defines the common contract shared by the four language
// backends: execute a snippet, call a function, and (for the compiled
// backends) load a library of external symbols.
package adapter

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUnknownFunction is returned by Call when neither a registered
	// callable nor a builtin matches the requested name.
	ErrUnknownFunction = errors.New("unknown function")
)

// Result holds the value and metadata from a facade operation.
//
// Degraded marks results that were not produced by the real backend: the
// toolchain or binding layer was unavailable and the value was computed
// natively (or substituted with a sentinel) instead. Callers that need
// strict execution check Degraded rather than inspecting strings.
type Result struct {
	Value    any
	Output   string
	Duration time.Duration
	Degraded bool
	Reason   string
	Error    error
}

// Facade is the uniform entry point for one language backend.
type Facade interface {
	// Name returns a unique identifier for this backend ("native",
	// "python", "cpp", "go").
	Name() string

	// Execute runs a full snippet and returns its captured output.
	Execute(ctx context.Context, code string) Result

	// Call invokes a single named function with the given arguments.
	Call(ctx context.Context, fn string, args ...any) Result
}

// Signature declares the shape of one exported library symbol.
type Signature struct {
	Params  int
	Results int
}

// LibraryLoader is implemented by the compiled-language facades.
type LibraryLoader interface {
	// Library binds the module at path with the declared symbol map.
	// When the binding layer is unavailable the returned library is a
	// placeholder whose calls yield degraded sentinels, never an error.
	Library(ctx context.Context, path string, sigs map[string]Signature) *Library
}

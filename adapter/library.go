package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

// Library is a set of external symbols bound from a WebAssembly module.
//
// When the module cannot be loaded the library becomes a placeholder:
// every bound handle logs the intended call and returns a degraded
// sentinel instead of failing. Symbols are bound with float64 parameters
// and results per their declared Signature.
type Library struct {
	name   string
	sigs   map[string]Signature
	logger *slog.Logger

	runtime wazero.Runtime
	module  api.Module

	placeholder bool
	reason      string
}

// LoadLibrary binds the module at path with the declared symbol map.
// Load failures yield a placeholder library, never an error.
func LoadLibrary(ctx context.Context, path string, sigs map[string]Signature, logger *slog.Logger) *Library {
	if logger == nil {
		logger = slog.Default()
	}
	lib := &Library{name: path, sigs: sigs, logger: logger}

	data, err := os.ReadFile(path)
	if err != nil {
		lib.degrade(fmt.Sprintf("library unreadable: %v", err))
		return lib
	}

	rt := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig().WithCloseOnContextDone(true))
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		rt.Close(ctx)
		lib.degrade(fmt.Sprintf("instantiate WASI: %v", err))
		return lib
	}

	mod, err := rt.InstantiateWithConfig(ctx, data,
		wazero.NewModuleConfig().WithName("").WithStartFunctions("_initialize", "_start"))
	if err != nil {
		rt.Close(ctx)
		lib.degrade(fmt.Sprintf("load library: %v", err))
		return lib
	}

	lib.runtime = rt
	lib.module = mod
	return lib
}

func (l *Library) degrade(reason string) {
	l.placeholder = true
	l.reason = reason
	l.logger.Warn("library binding unavailable, calls will be simulated",
		"library", l.name, "reason", reason)
}

// Placeholder reports whether the library failed to bind and calls return
// degraded sentinels.
func (l *Library) Placeholder() bool { return l.placeholder }

// Symbols returns the declared symbol names.
func (l *Library) Symbols() []string {
	names := make([]string, 0, len(l.sigs))
	for name := range l.sigs {
		names = append(names, name)
	}
	return names
}

// Call invokes a bound symbol. On a placeholder library the intended call
// is logged and a sentinel string is returned with Degraded set.
func (l *Library) Call(ctx context.Context, name string, args ...any) Result {
	start := time.Now()

	sig, declared := l.sigs[name]
	if !declared {
		return Result{
			Error:    fmt.Errorf("%w: %s not declared for %s", ErrUnknownFunction, name, l.name),
			Duration: time.Since(start),
		}
	}

	if l.placeholder {
		l.logger.Info("simulated library call", "library", l.name, "symbol", name, "args", args)
		return Result{
			Value:    fmt.Sprintf("simulated:%s(%v)", name, args),
			Degraded: true,
			Reason:   l.reason,
			Duration: time.Since(start),
		}
	}

	nums, ok := Floats(args)
	if !ok || len(nums) != sig.Params {
		return Result{
			Error:    fmt.Errorf("symbol %s wants %d numeric arguments", name, sig.Params),
			Duration: time.Since(start),
		}
	}

	fn := l.module.ExportedFunction(name)
	if fn == nil {
		return Result{
			Error:    fmt.Errorf("%w: %s not exported by %s", ErrUnknownFunction, name, l.name),
			Duration: time.Since(start),
		}
	}

	raw := make([]uint64, len(nums))
	for i, n := range nums {
		raw[i] = api.EncodeF64(n)
	}

	results, err := fn.Call(ctx, raw...)
	if err != nil {
		return Result{
			Error:    fmt.Errorf("call %s.%s: %w", l.name, name, err),
			Duration: time.Since(start),
		}
	}

	res := Result{Duration: time.Since(start)}
	if sig.Results > 0 && len(results) > 0 {
		res.Value = api.DecodeF64(results[0])
	}
	return res
}

// Close releases the underlying runtime. Safe on placeholder libraries.
func (l *Library) Close(ctx context.Context) error {
	if l.runtime == nil {
		return nil
	}
	return l.runtime.Close(ctx)
}

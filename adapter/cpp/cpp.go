// Package cpp provides the C++ language facade: one compile-and-run
// subprocess per operation, WebAssembly-backed library binding, and
// native simulation as the fallback for both.
package cpp

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/wormhq/worm/adapter"
)

var compilerCandidates = []string{"c++", "g++", "clang++"}

// Functions with a generated binding onto <cmath>.
var cmathBindings = map[string]string{
	"sqrt":  "sqrt",
	"pow":   "pow",
	"sin":   "sin",
	"cos":   "cos",
	"abs":   "fabs",
	"floor": "floor",
	"ceil":  "ceil",
}

// Facade compiles a generated translation unit and runs the produced
// binary, one subprocess pair per operation. When no compiler is present
// every operation degrades to a natively computed result instead of
// failing.
type Facade struct {
	bin    string
	logger *slog.Logger
}

// Option configures the facade.
type Option func(*Facade)

// WithCompiler overrides the compiler binary (default: first of c++,
// g++, clang++ found on PATH).
func WithCompiler(bin string) Option {
	return func(f *Facade) {
		if bin != "" {
			f.bin = bin
		}
	}
}

// WithLogger sets the logger used for degradation warnings.
func WithLogger(l *slog.Logger) Option {
	return func(f *Facade) { f.logger = l }
}

// New returns a C++ facade.
func New(opts ...Option) *Facade {
	f := &Facade{logger: slog.Default()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name returns "cpp".
func (f *Facade) Name() string { return "cpp" }

func (f *Facade) compiler() (string, error) {
	if f.bin != "" {
		return exec.LookPath(f.bin)
	}
	for _, candidate := range compilerCandidates {
		if bin, err := exec.LookPath(candidate); err == nil {
			return bin, nil
		}
	}
	return "", fmt.Errorf("no C++ compiler on PATH")
}

// Execute compiles and runs a snippet. Snippets without a main function
// are wrapped into one. A missing compiler degrades to native evaluation.
func (f *Facade) Execute(ctx context.Context, code string) adapter.Result {
	start := time.Now()

	bin, err := f.compiler()
	if err != nil {
		f.logger.Warn("C++ compiler not found, simulating")
		return adapter.FallbackExecute(f.Name(), code, "C++ compiler not available", start)
	}

	return f.compileAndRun(ctx, bin, wrapSnippet(code), start)
}

// Call invokes a bound cmath function through a generated program. Names
// without a generated binding degrade to a natively computed or sentinel
// result even when the compiler is present.
func (f *Facade) Call(ctx context.Context, fn string, args ...any) adapter.Result {
	start := time.Now()

	bin, err := f.compiler()
	if err != nil {
		f.logger.Warn("C++ compiler not found, simulating", "function", fn)
		return adapter.FallbackCall(f.Name(), fn, args, "C++ compiler not available", start)
	}

	program, ok := generateCall(fn, args)
	if !ok {
		return adapter.FallbackCall(f.Name(), fn, args,
			fmt.Sprintf("no generated binding for %s", fn), start)
	}

	return f.compileAndRun(ctx, bin, program, start)
}

// Library binds a WebAssembly module; load failures yield a placeholder
// whose calls log the intended invocation and return sentinels.
func (f *Facade) Library(ctx context.Context, path string, sigs map[string]adapter.Signature) *adapter.Library {
	return adapter.LoadLibrary(ctx, path, sigs, f.logger)
}

func (f *Facade) compileAndRun(ctx context.Context, bin, program string, start time.Time) adapter.Result {
	src, cleanup, err := adapter.WriteSource("main.cc", program)
	if err != nil {
		return adapter.Result{Error: err, Duration: time.Since(start)}
	}
	defer cleanup()

	out := filepath.Join(filepath.Dir(src), "a.out")
	if _, _, err := adapter.RunProcess(ctx, bin, "-O2", "-o", out, src); err != nil {
		return adapter.Result{Error: err, Duration: time.Since(start)}
	}

	stdout, _, err := adapter.RunProcess(ctx, out)
	if err != nil {
		return adapter.Result{Output: stdout, Error: err, Duration: time.Since(start)}
	}
	return adapter.Result{
		Value:    adapter.ParseValue(stdout),
		Output:   stdout,
		Duration: time.Since(start),
	}
}

func wrapSnippet(code string) string {
	if strings.Contains(code, "int main") {
		return code
	}
	return fmt.Sprintf(`#include <cmath>
#include <cstdio>
#include <iostream>
#include <string>
#include <vector>

int main() {
%s
    return 0;
}
`, code)
}

func generateCall(fn string, args []any) (string, bool) {
	bound, ok := cmathBindings[strings.ToLower(fn)]
	if !ok {
		return "", false
	}
	nums, ok := adapter.Floats(args)
	if !ok {
		return "", false
	}

	lits := make([]string, len(nums))
	for i, n := range nums {
		lits[i] = strconv.FormatFloat(n, 'g', -1, 64)
	}

	return fmt.Sprintf(`#include <cmath>
#include <cstdio>

int main() {
    printf("%%.17g\n", %s(%s));
    return 0;
}
`, bound, strings.Join(lits, ", ")), true
}

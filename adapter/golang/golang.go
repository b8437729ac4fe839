// Package golang provides the Go language facade, backed by the external
// go toolchain with native simulation as the fallback.
package golang

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/wormhq/worm/adapter"
)

const defaultBinary = "go"

// Functions with a generated binding onto the standard math package.
var mathBindings = map[string]string{
	"sqrt":  "math.Sqrt",
	"pow":   "math.Pow",
	"sin":   "math.Sin",
	"cos":   "math.Cos",
	"abs":   "math.Abs",
	"floor": "math.Floor",
	"ceil":  "math.Ceil",
}

// Facade compiles and runs one generated program per operation via
// "go run". When the toolchain is absent every operation degrades to a
// natively computed result instead of failing.
type Facade struct {
	bin    string
	logger *slog.Logger
}

// Option configures the facade.
type Option func(*Facade)

// WithBinary overrides the toolchain binary (default "go").
func WithBinary(bin string) Option {
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

// New returns a Go facade.
func New(opts ...Option) *Facade {
	f := &Facade{bin: defaultBinary, logger: slog.Default()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name returns "go".
func (f *Facade) Name() string { return "go" }

// Execute runs a snippet with "go run". Snippets without a package clause
// are wrapped into a main function. A missing toolchain degrades to
// native evaluation.
func (f *Facade) Execute(ctx context.Context, code string) adapter.Result {
	start := time.Now()

	bin, err := exec.LookPath(f.bin)
	if err != nil {
		f.logger.Warn("go toolchain not found, simulating", "binary", f.bin)
		return adapter.FallbackExecute(f.Name(), code, "go toolchain not available", start)
	}

	src, cleanup, err := adapter.WriteSource("main.go", wrapSnippet(code))
	if err != nil {
		return adapter.Result{Error: err, Duration: time.Since(start)}
	}
	defer cleanup()

	stdout, _, err := adapter.RunProcess(ctx, bin, "run", src)
	if err != nil {
		return adapter.Result{Output: stdout, Error: err, Duration: time.Since(start)}
	}
	return adapter.Result{
		Value:    adapter.ParseValue(stdout),
		Output:   stdout,
		Duration: time.Since(start),
	}
}

// Call invokes a bound math function through a generated program. Names
// without a generated binding degrade to a natively computed or sentinel
// result even when the toolchain is present.
func (f *Facade) Call(ctx context.Context, fn string, args ...any) adapter.Result {
	start := time.Now()

	bin, lookErr := exec.LookPath(f.bin)
	if lookErr != nil {
		f.logger.Warn("go toolchain not found, simulating", "binary", f.bin, "function", fn)
		return adapter.FallbackCall(f.Name(), fn, args, "go toolchain not available", start)
	}

	program, ok := generateCall(fn, args)
	if !ok {
		return adapter.FallbackCall(f.Name(), fn, args,
			fmt.Sprintf("no generated binding for %s", fn), start)
	}

	src, cleanup, err := adapter.WriteSource("main.go", program)
	if err != nil {
		return adapter.Result{Error: err, Duration: time.Since(start)}
	}
	defer cleanup()

	stdout, _, err := adapter.RunProcess(ctx, bin, "run", src)
	if err != nil {
		return adapter.Result{Error: err, Duration: time.Since(start)}
	}
	return adapter.Result{
		Value:    adapter.ParseValue(stdout),
		Output:   stdout,
		Duration: time.Since(start),
	}
}

// Library binds a WebAssembly module; load failures yield a placeholder.
func (f *Facade) Library(ctx context.Context, path string, sigs map[string]adapter.Signature) *adapter.Library {
	return adapter.LoadLibrary(ctx, path, sigs, f.logger)
}

func wrapSnippet(code string) string {
	if strings.Contains(code, "package main") {
		return code
	}
	return fmt.Sprintf(`package main

import "fmt"

var _ = fmt.Println

func main() {
%s
}
`, code)
}

func generateCall(fn string, args []any) (string, bool) {
	nums, ok := adapter.Floats(args)
	if !ok {
		return "", false
	}

	lits := make([]string, len(nums))
	for i, n := range nums {
		lits[i] = "float64(" + strconv.FormatFloat(n, 'g', -1, 64) + ")"
	}

	if bound, ok := mathBindings[strings.ToLower(fn)]; ok {
		return fmt.Sprintf(`package main

import (
	"fmt"
	"math"
)

func main() {
	fmt.Println(%s(%s))
}
`, bound, strings.Join(lits, ", ")), true
	}

	switch strings.ToLower(fn) {
	case "sum", "mean":
		div := ""
		if strings.ToLower(fn) == "mean" {
			div = " / float64(len(xs))"
		}
		return fmt.Sprintf(`package main

import "fmt"

func main() {
	xs := []float64{%s}
	var total float64
	for _, x := range xs {
		total += x
	}
	fmt.Println(total%s)
}
`, strings.Join(lits, ", "), div), true
	}

	return "", false
}

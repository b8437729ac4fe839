// Package python provides the Python language facade, backed by an
// external interpreter with native simulation as the fallback.
package python

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

const defaultBinary = "python3"

// Facade shells out one interpreter process per operation. When the
// interpreter is absent every operation degrades to a natively computed
// result instead of failing.
type Facade struct {
	bin    string
	logger *slog.Logger
}

// Option configures the facade.
type Option func(*Facade)

// WithBinary overrides the interpreter binary (default "python3").
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

// New returns a Python facade.
func New(opts ...Option) *Facade {
	f := &Facade{bin: defaultBinary, logger: slog.Default()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name returns "python".
func (f *Facade) Name() string { return "python" }

// Execute runs a full script in the interpreter and returns its captured
// stdout. A missing interpreter degrades to native evaluation.
func (f *Facade) Execute(ctx context.Context, code string) adapter.Result {
	start := time.Now()

	bin, err := exec.LookPath(f.bin)
	if err != nil {
		f.logger.Warn("python interpreter not found, simulating", "binary", f.bin)
		return adapter.FallbackExecute(f.Name(), code, "python interpreter not available", start)
	}

	stdout, _, err := adapter.RunProcess(ctx, bin, "-c", code)
	if err != nil {
		return adapter.Result{Output: stdout, Error: err, Duration: time.Since(start)}
	}
	return adapter.Result{
		Value:    adapter.ParseValue(stdout),
		Output:   stdout,
		Duration: time.Since(start),
	}
}

// Call invokes fn(args...) in the interpreter with the math module in
// scope, printing the result as JSON. A missing interpreter degrades to
// a natively computed or sentinel result.
func (f *Facade) Call(ctx context.Context, fn string, args ...any) adapter.Result {
	start := time.Now()

	bin, err := exec.LookPath(f.bin)
	if err != nil {
		f.logger.Warn("python interpreter not found, simulating",
			"binary", f.bin, "function", fn)
		return adapter.FallbackCall(f.Name(), fn, args, "python interpreter not available", start)
	}

	snippet := fmt.Sprintf(
		"import json\nfrom math import *\n_sum = sum\nsum = lambda *xs: _sum(xs)\nmean = lambda *xs: _sum(xs) / len(xs)\nprint(json.dumps(%s(%s)))",
		fn, formatArgs(args))

	stdout, _, err := adapter.RunProcess(ctx, bin, "-c", snippet)
	if err != nil {
		return adapter.Result{Error: err, Duration: time.Since(start)}
	}
	return adapter.Result{
		Value:    adapter.ParseValue(stdout),
		Output:   stdout,
		Duration: time.Since(start),
	}
}

func formatArgs(args []any) string {
	parts := make([]string, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case string:
			parts[i] = strconv.Quote(v)
		case float64:
			parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
		case float32:
			parts[i] = strconv.FormatFloat(float64(v), 'g', -1, 64)
		case int:
			parts[i] = strconv.Itoa(v)
		case int64:
			parts[i] = strconv.FormatInt(v, 10)
		case bool:
			if v {
				parts[i] = "True"
			} else {
				parts[i] = "False"
			}
		default:
			parts[i] = fmt.Sprint(v)
		}
	}
	return strings.Join(parts, ", ")
}

package golang

import (
	"context"
	"strings"
	"testing"
)

func missing() *Facade {
	return New(WithBinary("worm-test-no-go"))
}

func TestName(t *testing.T) {
	if got := New().Name(); got != "go" {
		t.Errorf("expected go, got %q", got)
	}
}

func TestCallDegradesToSimulation(t *testing.T) {
	res := missing().Call(context.Background(), "pow", 2, 10)
	if res.Error != nil {
		t.Fatalf("degraded call must not fail: %v", res.Error)
	}
	if !res.Degraded || res.Value != 1024.0 {
		t.Errorf("expected degraded 1024, got %+v", res)
	}
}

func TestExecuteDegradesToPipeline(t *testing.T) {
	res := missing().Execute(context.Background(), "mean 2 4 6")
	if res.Error != nil {
		t.Fatalf("degraded execute must not fail: %v", res.Error)
	}
	if !res.Degraded || res.Value != 4.0 {
		t.Errorf("expected degraded 4, got %+v", res)
	}
}

func TestWrapSnippet(t *testing.T) {
	wrapped := wrapSnippet(`fmt.Println("hi")`)
	if !strings.Contains(wrapped, "package main") {
		t.Error("expected package clause")
	}
	if !strings.Contains(wrapped, `fmt.Println("hi")`) {
		t.Error("expected user code preserved")
	}

	full := "package main\n\nfunc main() {}\n"
	if wrapSnippet(full) != full {
		t.Error("complete programs must pass through unchanged")
	}
}

func TestGenerateCall(t *testing.T) {
	program, ok := generateCall("sqrt", []any{16})
	if !ok {
		t.Fatal("expected binding for sqrt")
	}
	if !strings.Contains(program, "math.Sqrt(float64(16))") {
		t.Errorf("unexpected program:\n%s", program)
	}

	program, ok = generateCall("mean", []any{1, 2, 3})
	if !ok {
		t.Fatal("expected binding for mean")
	}
	if !strings.Contains(program, "float64(len(xs))") {
		t.Errorf("unexpected program:\n%s", program)
	}

	if _, ok := generateCall("unknown_fn", []any{1}); ok {
		t.Error("expected no binding for unknown_fn")
	}
	if _, ok := generateCall("sqrt", []any{"text"}); ok {
		t.Error("expected no binding for non-numeric args")
	}
}

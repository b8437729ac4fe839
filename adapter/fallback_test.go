package adapter

import (
	"strings"
	"testing"
	"time"
)

func TestFallbackCallSimulated(t *testing.T) {
	res := FallbackCall("python", "sqrt", []any{16}, "interpreter missing", time.Now())

	if res.Error != nil {
		t.Fatalf("fallback must never fail: %v", res.Error)
	}
	if !res.Degraded {
		t.Error("expected degraded result")
	}
	if res.Reason != "interpreter missing" {
		t.Errorf("unexpected reason %q", res.Reason)
	}
	if res.Value != 4.0 {
		t.Errorf("expected 4, got %v", res.Value)
	}
}

func TestFallbackCallSentinel(t *testing.T) {
	res := FallbackCall("cpp", "custom_fn", []any{"x"}, "compiler missing", time.Now())

	if res.Error != nil {
		t.Fatalf("fallback must never fail: %v", res.Error)
	}
	if !res.Degraded {
		t.Error("expected degraded result")
	}
	s, ok := res.Value.(string)
	if !ok || !strings.HasPrefix(s, "simulated:cpp.custom_fn") {
		t.Errorf("expected sentinel value, got %v", res.Value)
	}
}

func TestFallbackExecutePipeline(t *testing.T) {
	res := FallbackExecute("go", "evens 1 2 3 4 | square | sum", "toolchain missing", time.Now())

	if res.Error != nil {
		t.Fatalf("fallback must never fail: %v", res.Error)
	}
	if !res.Degraded {
		t.Error("expected degraded result")
	}
	if res.Value != 20.0 {
		t.Errorf("expected 20, got %v", res.Value)
	}
}

func TestFallbackExecuteSentinel(t *testing.T) {
	res := FallbackExecute("python", "import os\nprint(os.getcwd())", "interpreter missing", time.Now())

	if res.Error != nil {
		t.Fatalf("fallback must never fail: %v", res.Error)
	}
	if !res.Degraded {
		t.Error("expected degraded result")
	}
	if res.Value != "simulated:python.execute" {
		t.Errorf("expected sentinel, got %v", res.Value)
	}
}

func TestParseValue(t *testing.T) {
	if got := ParseValue("  42.5\n"); got != 42.5 {
		t.Errorf("expected 42.5, got %v", got)
	}
	if got := ParseValue("hello\n"); got != "hello" {
		t.Errorf("expected hello, got %v", got)
	}
}

package native

import (
	"context"
	"errors"
	"testing"

	"github.com/wormhq/worm/adapter"
)

func TestExecutePipeline(t *testing.T) {
	f := New()

	res := f.Execute(context.Background(), "evens 1 2 3 4 5 6 7 8 9 10 | square | sum")
	if res.Error != nil {
		t.Fatalf("unexpected error: %v", res.Error)
	}
	if res.Degraded {
		t.Error("native results are never degraded")
	}
	if res.Value != 220.0 {
		t.Errorf("expected 220, got %v", res.Value)
	}
}

func TestExecuteParseError(t *testing.T) {
	f := New()
	res := f.Execute(context.Background(), "frobnicate 1 2 3")
	if res.Error == nil {
		t.Fatal("expected error for unknown command")
	}
}

func TestCallRegisteredCallable(t *testing.T) {
	f := New().Function("greet", func(args ...any) (any, error) {
		return "hello " + args[0].(string), nil
	})

	res := f.Call(context.Background(), "greet", "world")
	if res.Error != nil {
		t.Fatalf("unexpected error: %v", res.Error)
	}
	if res.Value != "hello world" {
		t.Errorf("expected greeting, got %v", res.Value)
	}
}

func TestCallableErrorPropagatesVerbatim(t *testing.T) {
	userErr := errors.New("my own failure")
	f := New().Function("boom", func(args ...any) (any, error) {
		return nil, userErr
	})

	res := f.Call(context.Background(), "boom")
	if !errors.Is(res.Error, userErr) {
		t.Errorf("expected user error unchanged, got %v", res.Error)
	}
}

func TestCallBuiltin(t *testing.T) {
	f := New()
	res := f.Call(context.Background(), "sqrt", 16)
	if res.Error != nil {
		t.Fatalf("unexpected error: %v", res.Error)
	}
	if res.Value != 4.0 {
		t.Errorf("expected 4, got %v", res.Value)
	}
	if res.Degraded {
		t.Error("builtin math on the native facade is not degraded")
	}
}

func TestCallUnknown(t *testing.T) {
	f := New()
	res := f.Call(context.Background(), "no_such_fn", 1)
	if !errors.Is(res.Error, adapter.ErrUnknownFunction) {
		t.Errorf("expected ErrUnknownFunction, got %v", res.Error)
	}
}

func TestHelpers(t *testing.T) {
	nums := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	evens := Filter(nums, func(n float64) bool { return int(n)%2 == 0 })
	squared := Map(evens, func(n float64) float64 { return n * n })
	if got := Sum(squared); got != 220 {
		t.Errorf("expected 220, got %v", got)
	}

	if got := Reduce([]float64{1, 2, 3}, 0, func(acc, n float64) float64 { return acc + n }); got != 6 {
		t.Errorf("expected 6, got %v", got)
	}
	if got := Mean([]float64{2, 4, 6}); got != 4 {
		t.Errorf("expected 4, got %v", got)
	}
	if got := Mean(nil); got != 0 {
		t.Errorf("expected 0 for empty mean, got %v", got)
	}

	sorted := SortFloats([]float64{3, 1, 2})
	if sorted[0] != 1 || sorted[2] != 3 {
		t.Errorf("expected ascending sort, got %v", sorted)
	}
}

func TestStringHelpers(t *testing.T) {
	words := Split("hello world", " ")
	if len(words) != 2 || words[0] != "hello" || words[1] != "world" {
		t.Errorf("expected [hello world], got %v", words)
	}
	if got := Upper("hello world"); got != "HELLO WORLD" {
		t.Errorf("expected HELLO WORLD, got %q", got)
	}
	if got := Lower("ABC"); got != "abc" {
		t.Errorf("expected abc, got %q", got)
	}
	if got := Join([]string{"a", "b"}, "-"); got != "a-b" {
		t.Errorf("expected a-b, got %q", got)
	}
}
